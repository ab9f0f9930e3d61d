package tag

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/weihsuanlee/guidemap/adapters/event"
	"github.com/weihsuanlee/guidemap/internal/application/service"
	"github.com/weihsuanlee/guidemap/internal/domain/activity"
	"github.com/weihsuanlee/guidemap/internal/domain/tag"
	"github.com/weihsuanlee/guidemap/pkg/apperror"
	"github.com/weihsuanlee/guidemap/pkg/logger"
)

type UpdateTagUseCase struct {
	tagRepo      tag.Repository
	activityRepo activity.Repository
	kafkaClient  *event.KafkaProducerClient
	logger       logger.Logger
}

func NewUpdateTagUseCase(tRepo tag.Repository, aRepo activity.Repository, kClient *event.KafkaProducerClient, log logger.Logger) *UpdateTagUseCase {
	return &UpdateTagUseCase{
		tagRepo:      tRepo,
		activityRepo: aRepo,
		kafkaClient:  kClient,
		logger:       log,
	}
}

type UpdateTagInput struct {
	User           service.UserInfo
	TagID          uuid.UUID
	LocationName   string
	Category       tag.Category
	Floor          int
	Description    string
	Coordinates    *tag.Coordinates
	StreetViewInfo *string
}

type UpdateTagOutput struct {
	Tag *tag.Tag
}

// Any logged-in user may edit tag attributes; only deletion is restricted
// to the creator. Attribute edits never touch statuses or vote counters.
func (uc *UpdateTagUseCase) Execute(ctx context.Context, input UpdateTagInput) (*UpdateTagOutput, error) {
	if !input.User.IsKnown {
		return nil, apperror.NewUnauthorized("caller must be logged in to update a tag", nil)
	}
	if input.Coordinates == nil {
		return nil, apperror.NewInvalidInput("coordinates are required", nil)
	}

	existing, err := uc.tagRepo.FindByID(ctx, input.TagID)
	if err != nil {
		return nil, err
	}

	existing.LocationName = input.LocationName
	existing.Category = input.Category
	existing.Floor = input.Floor
	existing.Description = input.Description
	existing.Coordinates = *input.Coordinates
	existing.StreetViewInfo = input.StreetViewInfo
	existing.UpdatedAt = time.Now().UTC()

	if err := existing.Validate(); err != nil {
		return nil, apperror.NewInvalidInput("validation failed", err)
	}

	if err := uc.tagRepo.Update(ctx, existing); err != nil {
		return nil, err
	}

	entry := activity.NewEntry(input.User.UserID, activity.ActionUpdateTag, existing.ID)
	if err := uc.activityRepo.Record(ctx, entry); err != nil {
		uc.logger.Warn("Failed to record update_tag activity", zap.String("tag_id", existing.ID.String()), zap.Error(err))
	}

	go func() {
		err := uc.kafkaClient.PublishTagEvent(context.Background(), event.TagEventPayload{
			EventType: event.TagEventTypeUpdated,
			TagID:     existing.ID,
			ActorID:   input.User.UserID,
		})
		if err != nil {
			uc.logger.Error("Failed to publish Kafka 'updated' event", err, zap.String("tag_id", existing.ID.String()))
		}
	}()

	return &UpdateTagOutput{Tag: existing}, nil
}

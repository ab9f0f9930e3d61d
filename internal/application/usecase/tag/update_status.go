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

type UpdateStatusUseCase struct {
	tagRepo      tag.Repository
	statusRepo   tag.StatusRepository
	statusCache  service.StatusCache
	activityRepo activity.Repository
	kafkaClient  *event.KafkaProducerClient
	logger       logger.Logger
}

func NewUpdateStatusUseCase(tRepo tag.Repository, sRepo tag.StatusRepository, cache service.StatusCache, aRepo activity.Repository, kClient *event.KafkaProducerClient, log logger.Logger) *UpdateStatusUseCase {
	return &UpdateStatusUseCase{
		tagRepo:      tRepo,
		statusRepo:   sRepo,
		statusCache:  cache,
		activityRepo: aRepo,
		kafkaClient:  kClient,
		logger:       log,
	}
}

type UpdateStatusInput struct {
	User        service.UserInfo
	TagID       uuid.UUID
	StatusName  string
	Description string
}

type UpdateStatusOutput struct {
	Status *tag.Status
}

// Execute appends a new status entry; the previous entry and its votes are
// left untouched but stop being "latest", so voting power resets.
func (uc *UpdateStatusUseCase) Execute(ctx context.Context, input UpdateStatusInput) (*UpdateStatusOutput, error) {
	if !input.User.IsKnown {
		return nil, apperror.NewUnauthorized("caller must be logged in to update a status", nil)
	}
	if input.StatusName == "" {
		return nil, apperror.NewInvalidInput("status name is required", nil)
	}

	existing, err := uc.tagRepo.FindByID(ctx, input.TagID)
	if err != nil {
		return nil, err
	}

	status := tag.NewStatus(
		existing.ID,
		input.StatusName,
		input.Description,
		input.User.UserID,
		existing.Category.CountsVotes(),
		time.Now().UTC(),
	)
	if err := uc.statusRepo.Append(ctx, status); err != nil {
		return nil, err
	}

	if err := uc.statusCache.Invalidate(ctx, existing.ID); err != nil {
		uc.logger.Warn("Failed to invalidate status cache after append", zap.String("tag_id", existing.ID.String()), zap.Error(err))
	}

	entry := activity.NewEntry(input.User.UserID, activity.ActionUpdateStatus, existing.ID)
	if err := uc.activityRepo.Record(ctx, entry); err != nil {
		uc.logger.Warn("Failed to record update_status activity", zap.String("tag_id", existing.ID.String()), zap.Error(err))
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

	return &UpdateStatusOutput{Status: status}, nil
}

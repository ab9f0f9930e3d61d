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

type CreateTagUseCase struct {
	tagRepo      tag.Repository
	activityRepo activity.Repository
	kafkaClient  *event.KafkaProducerClient
	allocator    service.UploadURLAllocator
	logger       logger.Logger
}

func NewCreateTagUseCase(tRepo tag.Repository, aRepo activity.Repository, kClient *event.KafkaProducerClient, allocator service.UploadURLAllocator, log logger.Logger) *CreateTagUseCase {
	return &CreateTagUseCase{
		tagRepo:      tRepo,
		activityRepo: aRepo,
		kafkaClient:  kClient,
		allocator:    allocator,
		logger:       log,
	}
}

type CreateTagInput struct {
	User           service.UserInfo
	LocationName   string
	Category       tag.Category
	Floor          int
	Description    string
	Coordinates    *tag.Coordinates
	StreetViewInfo *string
	ImageCount     int
}

type CreateTagOutput struct {
	Tag             *tag.Tag
	DefaultStatus   *tag.Status
	ImageUploadURLs []string
}

func (uc *CreateTagUseCase) Execute(ctx context.Context, input CreateTagInput) (*CreateTagOutput, error) {
	if !input.User.IsKnown {
		return nil, apperror.NewUnauthorized("caller must be logged in to add a tag", nil)
	}
	if input.Coordinates == nil {
		return nil, apperror.NewInvalidInput("coordinates are required", nil)
	}

	now := time.Now().UTC()
	newTag := &tag.Tag{
		ID:             uuid.New(),
		CreatorID:      input.User.UserID,
		LocationName:   input.LocationName,
		Category:       input.Category,
		Floor:          input.Floor,
		Description:    input.Description,
		Coordinates:    *input.Coordinates,
		StreetViewInfo: input.StreetViewInfo,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := newTag.Validate(); err != nil {
		return nil, apperror.NewInvalidInput("validation failed", err)
	}

	defaultStatus := tag.NewDefaultStatus(newTag.ID, newTag.Category, newTag.CreatorID, now)

	// tag and default status commit or fail as one unit
	if err := uc.tagRepo.Create(ctx, newTag, defaultStatus); err != nil {
		return nil, err
	}

	uploadURLs, err := uc.allocator.AllocateUploadURLs(ctx, newTag.ID.String(), input.ImageCount)
	if err != nil {
		// the tag is already committed; the client can re-request URLs later
		uc.logger.Error("Failed to allocate image upload URLs", err, zap.String("tag_id", newTag.ID.String()))
		uploadURLs = []string{}
	}

	uc.recordSideEffects(newTag)

	return &CreateTagOutput{
		Tag:             newTag,
		DefaultStatus:   defaultStatus,
		ImageUploadURLs: uploadURLs,
	}, nil
}

func (uc *CreateTagUseCase) recordSideEffects(newTag *tag.Tag) {
	entry := activity.NewEntry(newTag.CreatorID, activity.ActionAddTag, newTag.ID)
	if err := uc.activityRepo.Record(context.Background(), entry); err != nil {
		uc.logger.Warn("Failed to record add_tag activity", zap.String("tag_id", newTag.ID.String()), zap.Error(err))
	}

	go func() {
		err := uc.kafkaClient.PublishTagEvent(context.Background(), event.TagEventPayload{
			EventType: event.TagEventTypeAdded,
			TagID:     newTag.ID,
			ActorID:   newTag.CreatorID,
		})
		if err != nil {
			uc.logger.Error("Failed to publish Kafka 'added' event", err, zap.String("tag_id", newTag.ID.String()))
		}
	}()
}

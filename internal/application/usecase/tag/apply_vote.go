package tag

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/weihsuanlee/guidemap/adapters/event"
	"github.com/weihsuanlee/guidemap/internal/application/service"
	"github.com/weihsuanlee/guidemap/internal/domain/activity"
	"github.com/weihsuanlee/guidemap/internal/domain/tag"
	"github.com/weihsuanlee/guidemap/pkg/apperror"
	"github.com/weihsuanlee/guidemap/pkg/logger"
)

type ApplyVoteUseCase struct {
	voteRepo     tag.VoteRepository
	statusCache  service.StatusCache
	activityRepo activity.Repository
	kafkaClient  *event.KafkaProducerClient
	logger       logger.Logger
}

func NewApplyVoteUseCase(vRepo tag.VoteRepository, cache service.StatusCache, aRepo activity.Repository, kClient *event.KafkaProducerClient, log logger.Logger) *ApplyVoteUseCase {
	return &ApplyVoteUseCase{
		voteRepo:     vRepo,
		statusCache:  cache,
		activityRepo: aRepo,
		kafkaClient:  kClient,
		logger:       log,
	}
}

type ApplyVoteInput struct {
	User   service.UserInfo
	TagID  uuid.UUID
	Action tag.VoteAction
}

func (uc *ApplyVoteUseCase) Execute(ctx context.Context, input ApplyVoteInput) (*tag.VoteResult, error) {
	if !input.User.IsKnown {
		return nil, apperror.NewUnauthorized("caller must be logged in to vote", nil)
	}
	if !input.Action.Valid() {
		return nil, apperror.NewInvalidInput("unknown vote action", nil)
	}

	result, err := uc.voteRepo.ApplyVote(ctx, input.TagID, input.User.UserID, input.Action)
	if err != nil {
		return nil, err
	}

	// the cached latest status carries a stale counter now
	if err := uc.statusCache.Invalidate(ctx, input.TagID); err != nil {
		uc.logger.Warn("Failed to invalidate status cache after vote", zap.String("tag_id", input.TagID.String()), zap.Error(err))
	}

	action := activity.ActionUpvote
	if input.Action == tag.ActionCancelUpvote {
		action = activity.ActionCancelUpvote
	}
	entry := activity.NewEntry(input.User.UserID, action, input.TagID)
	if err := uc.activityRepo.Record(ctx, entry); err != nil {
		uc.logger.Warn("Failed to record vote activity", zap.String("tag_id", input.TagID.String()), zap.Error(err))
	}

	go func() {
		err := uc.kafkaClient.PublishTagEvent(context.Background(), event.TagEventPayload{
			EventType: event.TagEventTypeUpdated,
			TagID:     input.TagID,
			ActorID:   input.User.UserID,
		})
		if err != nil {
			uc.logger.Error("Failed to publish Kafka 'updated' event", err, zap.String("tag_id", input.TagID.String()))
		}
	}()

	return result, nil
}

package tag

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/weihsuanlee/guidemap/internal/application/service"
	"github.com/weihsuanlee/guidemap/internal/domain/activity"
	"github.com/weihsuanlee/guidemap/internal/domain/tag"
	"github.com/weihsuanlee/guidemap/pkg/apperror"
	"github.com/weihsuanlee/guidemap/pkg/logger"
)

type DeleteTagUseCase struct {
	tagRepo      tag.Repository
	statusCache  service.StatusCache
	activityRepo activity.Repository
	logger       logger.Logger
}

func NewDeleteTagUseCase(tRepo tag.Repository, cache service.StatusCache, aRepo activity.Repository, log logger.Logger) *DeleteTagUseCase {
	return &DeleteTagUseCase{
		tagRepo:      tRepo,
		statusCache:  cache,
		activityRepo: aRepo,
		logger:       log,
	}
}

type DeleteTagInput struct {
	User  service.UserInfo
	TagID uuid.UUID
}

func (uc *DeleteTagUseCase) Execute(ctx context.Context, input DeleteTagInput) error {
	if !input.User.IsKnown {
		return apperror.NewUnauthorized("caller must be logged in to delete a tag", nil)
	}

	if err := uc.tagRepo.Delete(ctx, input.TagID, input.User.UserID); err != nil {
		return err
	}

	if err := uc.statusCache.Invalidate(ctx, input.TagID); err != nil {
		uc.logger.Warn("Failed to invalidate status cache after delete", zap.String("tag_id", input.TagID.String()), zap.Error(err))
	}

	entry := activity.NewEntry(input.User.UserID, activity.ActionDeleteTag, input.TagID)
	if err := uc.activityRepo.Record(ctx, entry); err != nil {
		uc.logger.Warn("Failed to record delete_tag activity", zap.String("tag_id", input.TagID.String()), zap.Error(err))
	}

	return nil
}

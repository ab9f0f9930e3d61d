package tag

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/weihsuanlee/guidemap/internal/application/service"
	"github.com/weihsuanlee/guidemap/internal/domain/tag"
	"github.com/weihsuanlee/guidemap/pkg/logger"
)

type GetLatestStatusUseCase struct {
	statusRepo  tag.StatusRepository
	voteRepo    tag.VoteRepository
	statusCache service.StatusCache
	logger      logger.Logger
}

func NewGetLatestStatusUseCase(sRepo tag.StatusRepository, vRepo tag.VoteRepository, cache service.StatusCache, log logger.Logger) *GetLatestStatusUseCase {
	return &GetLatestStatusUseCase{
		statusRepo:  sRepo,
		voteRepo:    vRepo,
		statusCache: cache,
		logger:      log,
	}
}

type GetLatestStatusOutput struct {
	Status *tag.Status
	// HasUpvoted is nil for anonymous callers and for statuses that do not
	// track votes.
	HasUpvoted *bool
}

func (uc *GetLatestStatusUseCase) Execute(ctx context.Context, tagID uuid.UUID, user service.UserInfo) (*GetLatestStatusOutput, error) {
	status, err := uc.statusCache.GetLatest(ctx, tagID)
	if err != nil {
		uc.logger.Warn("Status cache read failed, falling back to store", zap.String("tag_id", tagID.String()), zap.Error(err))
		status = nil
	}

	if status == nil {
		status, err = uc.statusRepo.Latest(ctx, tagID)
		if err != nil {
			return nil, err
		}
		if err := uc.statusCache.SetLatest(ctx, status); err != nil {
			uc.logger.Warn("Failed to prime status cache", zap.String("tag_id", tagID.String()), zap.Error(err))
		}
	}

	output := &GetLatestStatusOutput{Status: status}
	if user.IsKnown && status.TracksVotes() {
		hasVoted, err := uc.voteRepo.HasVoted(ctx, status.ID, user.UserID)
		if err != nil {
			return nil, err
		}
		output.HasUpvoted = &hasVoted
	}
	return output, nil
}

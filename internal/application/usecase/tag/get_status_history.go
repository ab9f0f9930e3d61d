package tag

import (
	"context"

	"github.com/google/uuid"

	"github.com/weihsuanlee/guidemap/internal/domain/tag"
)

type GetStatusHistoryUseCase struct {
	statusRepo tag.StatusRepository
}

func NewGetStatusHistoryUseCase(sRepo tag.StatusRepository) *GetStatusHistoryUseCase {
	return &GetStatusHistoryUseCase{statusRepo: sRepo}
}

func (uc *GetStatusHistoryUseCase) Execute(ctx context.Context, tagID uuid.UUID) ([]*tag.Status, error) {
	return uc.statusRepo.History(ctx, tagID)
}

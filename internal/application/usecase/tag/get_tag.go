package tag

import (
	"context"

	"github.com/google/uuid"

	"github.com/weihsuanlee/guidemap/internal/domain/tag"
)

type GetTagUseCase struct {
	tagRepo tag.Repository
}

func NewGetTagUseCase(tRepo tag.Repository) *GetTagUseCase {
	return &GetTagUseCase{tagRepo: tRepo}
}

func (uc *GetTagUseCase) Execute(ctx context.Context, tagID uuid.UUID) (*tag.Tag, error) {
	return uc.tagRepo.FindByID(ctx, tagID)
}

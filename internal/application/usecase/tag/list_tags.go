package tag

import (
	"context"

	"github.com/weihsuanlee/guidemap/internal/domain/tag"
	"github.com/weihsuanlee/guidemap/pkg/apperror"
)

type ListTagsUseCase struct {
	tagRepo tag.Repository
}

func NewListTagsUseCase(tRepo tag.Repository) *ListTagsUseCase {
	return &ListTagsUseCase{tagRepo: tRepo}
}

type ListTagsInput struct {
	Category string
	Limit    int
	Offset   int
}

func (uc *ListTagsUseCase) Execute(ctx context.Context, input ListTagsInput) ([]*tag.Tag, error) {
	filter := tag.ListFilter{Limit: input.Limit, Offset: input.Offset}
	if input.Category != "" {
		category := tag.Category(input.Category)
		if !category.Valid() {
			return nil, apperror.NewInvalidInput("unknown category filter", tag.ErrInvalidCategory)
		}
		filter.Category = &category
	}
	return uc.tagRepo.List(ctx, filter)
}

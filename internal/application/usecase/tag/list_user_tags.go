package tag

import (
	"context"

	"github.com/weihsuanlee/guidemap/internal/application/service"
	"github.com/weihsuanlee/guidemap/internal/domain/tag"
	"github.com/weihsuanlee/guidemap/pkg/apperror"
)

// ListUserTagsUseCase returns the caller's own add-tag history, newest
// first.
type ListUserTagsUseCase struct {
	tagRepo tag.Repository
}

func NewListUserTagsUseCase(tRepo tag.Repository) *ListUserTagsUseCase {
	return &ListUserTagsUseCase{tagRepo: tRepo}
}

func (uc *ListUserTagsUseCase) Execute(ctx context.Context, user service.UserInfo) ([]*tag.Tag, error) {
	if !user.IsKnown {
		return nil, apperror.NewUnauthorized("caller must be logged in to list own tags", nil)
	}
	return uc.tagRepo.List(ctx, tag.ListFilter{CreatorID: user.UserID})
}

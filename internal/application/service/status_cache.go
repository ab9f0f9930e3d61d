package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/weihsuanlee/guidemap/internal/domain/tag"
)

// StatusCache is a read-through cache for a tag's latest status. Cache
// failures degrade to repository reads; the per-voter upvote flag is never
// cached.
type StatusCache interface {
	GetLatest(ctx context.Context, tagID uuid.UUID) (*tag.Status, error)
	SetLatest(ctx context.Context, s *tag.Status) error
	Invalidate(ctx context.Context, tagID uuid.UUID) error
}

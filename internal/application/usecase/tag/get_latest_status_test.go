package tag

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weihsuanlee/guidemap/internal/application/service"
	"github.com/weihsuanlee/guidemap/internal/domain/tag"
	"github.com/weihsuanlee/guidemap/pkg/apperror"
	"github.com/weihsuanlee/guidemap/pkg/logger"
)

func newGetLatestStatusUseCase(store *memStore, cache *fakeStatusCache) *GetLatestStatusUseCase {
	return NewGetLatestStatusUseCase(store, store, cache, logger.NewNop())
}

func TestGetLatestStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("cache miss reads the store and primes the cache", func(t *testing.T) {
		store := newMemStore()
		seeded, initial := seedTag(t, store, tag.CategoryIssue)
		cache := newFakeStatusCache()
		uc := newGetLatestStatusUseCase(store, cache)

		output, err := uc.Execute(ctx, seeded.ID, service.Anonymous())
		require.NoError(t, err)
		assert.Equal(t, initial.ID, output.Status.ID)
		assert.Nil(t, output.HasUpvoted)

		cached, err := cache.GetLatest(ctx, seeded.ID)
		require.NoError(t, err)
		require.NotNil(t, cached)
		assert.Equal(t, initial.ID, cached.ID)
	})

	t.Run("known voter sees their upvote flag", func(t *testing.T) {
		store := newMemStore()
		seeded, _ := seedTag(t, store, tag.CategoryIssue)
		cache := newFakeStatusCache()

		voteUC := newApplyVoteUseCase(store, cache, &fakeActivityRepo{})
		_, err := voteUC.Execute(ctx, ApplyVoteInput{User: knownUser("voter-1"), TagID: seeded.ID, Action: tag.ActionUpvote})
		require.NoError(t, err)

		uc := newGetLatestStatusUseCase(store, cache)

		output, err := uc.Execute(ctx, seeded.ID, knownUser("voter-1"))
		require.NoError(t, err)
		require.NotNil(t, output.HasUpvoted)
		assert.True(t, *output.HasUpvoted)

		output, err = uc.Execute(ctx, seeded.ID, knownUser("voter-2"))
		require.NoError(t, err)
		require.NotNil(t, output.HasUpvoted)
		assert.False(t, *output.HasUpvoted)
	})

	t.Run("upvote flag is omitted for non-counting statuses", func(t *testing.T) {
		store := newMemStore()
		seeded, _ := seedTag(t, store, tag.CategoryFacility)
		uc := newGetLatestStatusUseCase(store, newFakeStatusCache())

		output, err := uc.Execute(ctx, seeded.ID, knownUser("voter-1"))
		require.NoError(t, err)
		assert.Nil(t, output.HasUpvoted)
	})

	t.Run("cache failure falls back to the store", func(t *testing.T) {
		store := newMemStore()
		seeded, initial := seedTag(t, store, tag.CategoryIssue)
		cache := newFakeStatusCache()
		cache.getErr = errors.New("redis down")
		uc := newGetLatestStatusUseCase(store, cache)

		output, err := uc.Execute(ctx, seeded.ID, service.Anonymous())
		require.NoError(t, err)
		assert.Equal(t, initial.ID, output.Status.ID)
	})

	t.Run("unknown tag yields not found", func(t *testing.T) {
		store := newMemStore()
		uc := newGetLatestStatusUseCase(store, newFakeStatusCache())

		_, err := uc.Execute(ctx, uuid.New(), service.Anonymous())
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})
}

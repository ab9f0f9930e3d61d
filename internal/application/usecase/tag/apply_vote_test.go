package tag

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weihsuanlee/guidemap/internal/application/service"
	"github.com/weihsuanlee/guidemap/internal/domain/tag"
	"github.com/weihsuanlee/guidemap/pkg/apperror"
	"github.com/weihsuanlee/guidemap/pkg/logger"
)

func seedTag(t *testing.T, store *memStore, category tag.Category) (*tag.Tag, *tag.Status) {
	t.Helper()
	now := time.Now().UTC()
	newTag := &tag.Tag{
		ID:           uuid.New(),
		CreatorID:    "creator",
		LocationName: "Gym",
		Category:     category,
		Coordinates:  tag.Coordinates{Latitude: 25.02, Longitude: 121.53},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	initial := tag.NewDefaultStatus(newTag.ID, category, "creator", now)
	require.NoError(t, store.Create(context.Background(), newTag, initial))
	return newTag, initial
}

func newApplyVoteUseCase(store *memStore, cache *fakeStatusCache, activityRepo *fakeActivityRepo) *ApplyVoteUseCase {
	return NewApplyVoteUseCase(store, cache, activityRepo, testKafkaClient(), logger.NewNop())
}

func TestApplyVote(t *testing.T) {
	ctx := context.Background()

	t.Run("upvote creates a record and increments", func(t *testing.T) {
		store := newMemStore()
		seeded, initial := seedTag(t, store, tag.CategoryIssue)
		uc := newApplyVoteUseCase(store, newFakeStatusCache(), &fakeActivityRepo{})

		result, err := uc.Execute(ctx, ApplyVoteInput{User: knownUser("voter-1"), TagID: seeded.ID, Action: tag.ActionUpvote})
		require.NoError(t, err)

		assert.Equal(t, 1, result.UpvoteCount)
		assert.True(t, result.HasUpvoted)
		assert.Equal(t, initial.ID, result.StatusID)
		assert.Equal(t, 1, store.voterCount(initial.ID))
	})

	t.Run("second upvote from the same voter is rejected", func(t *testing.T) {
		store := newMemStore()
		seeded, initial := seedTag(t, store, tag.CategoryIssue)
		uc := newApplyVoteUseCase(store, newFakeStatusCache(), &fakeActivityRepo{})

		input := ApplyVoteInput{User: knownUser("voter-1"), TagID: seeded.ID, Action: tag.ActionUpvote}
		_, err := uc.Execute(ctx, input)
		require.NoError(t, err)

		_, err = uc.Execute(ctx, input)
		assert.ErrorIs(t, err, apperror.ErrAlreadyVoted)

		// exactly one increment total
		latest, err := store.Latest(ctx, seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, *latest.UpvoteCount)
		assert.Equal(t, 1, store.voterCount(initial.ID))
	})

	t.Run("upvote then cancel restores the pre-vote state", func(t *testing.T) {
		store := newMemStore()
		seeded, initial := seedTag(t, store, tag.CategoryIssue)
		uc := newApplyVoteUseCase(store, newFakeStatusCache(), &fakeActivityRepo{})

		user := knownUser("voter-1")
		_, err := uc.Execute(ctx, ApplyVoteInput{User: user, TagID: seeded.ID, Action: tag.ActionUpvote})
		require.NoError(t, err)

		result, err := uc.Execute(ctx, ApplyVoteInput{User: user, TagID: seeded.ID, Action: tag.ActionCancelUpvote})
		require.NoError(t, err)
		assert.Equal(t, 0, result.UpvoteCount)
		assert.False(t, result.HasUpvoted)
		assert.Equal(t, 0, store.voterCount(initial.ID))
	})

	t.Run("cancel without an existing vote is rejected", func(t *testing.T) {
		store := newMemStore()
		seeded, _ := seedTag(t, store, tag.CategoryIssue)
		uc := newApplyVoteUseCase(store, newFakeStatusCache(), &fakeActivityRepo{})

		_, err := uc.Execute(ctx, ApplyVoteInput{User: knownUser("voter-1"), TagID: seeded.ID, Action: tag.ActionCancelUpvote})
		assert.ErrorIs(t, err, apperror.ErrNotVotedYet)

		latest, lerr := store.Latest(ctx, seeded.ID)
		require.NoError(t, lerr)
		assert.Equal(t, 0, *latest.UpvoteCount)
	})

	t.Run("non-counting status rejects votes", func(t *testing.T) {
		store := newMemStore()
		seeded, _ := seedTag(t, store, tag.CategoryFacility)
		uc := newApplyVoteUseCase(store, newFakeStatusCache(), &fakeActivityRepo{})

		_, err := uc.Execute(ctx, ApplyVoteInput{User: knownUser("voter-1"), TagID: seeded.ID, Action: tag.ActionUpvote})
		assert.ErrorIs(t, err, apperror.ErrVotingNotSupported)
	})

	t.Run("anonymous caller is rejected", func(t *testing.T) {
		store := newMemStore()
		seeded, _ := seedTag(t, store, tag.CategoryIssue)
		uc := newApplyVoteUseCase(store, newFakeStatusCache(), &fakeActivityRepo{})

		_, err := uc.Execute(ctx, ApplyVoteInput{User: service.Anonymous(), TagID: seeded.ID, Action: tag.ActionUpvote})
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	})

	t.Run("unknown action is rejected", func(t *testing.T) {
		store := newMemStore()
		seeded, _ := seedTag(t, store, tag.CategoryIssue)
		uc := newApplyVoteUseCase(store, newFakeStatusCache(), &fakeActivityRepo{})

		_, err := uc.Execute(ctx, ApplyVoteInput{User: knownUser("voter-1"), TagID: seeded.ID, Action: tag.VoteAction("downvote")})
		assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	})

	t.Run("successful vote invalidates the cached latest status", func(t *testing.T) {
		store := newMemStore()
		seeded, initial := seedTag(t, store, tag.CategoryIssue)
		cache := newFakeStatusCache()
		require.NoError(t, cache.SetLatest(ctx, initial))
		uc := newApplyVoteUseCase(store, cache, &fakeActivityRepo{})

		_, err := uc.Execute(ctx, ApplyVoteInput{User: knownUser("voter-1"), TagID: seeded.ID, Action: tag.ActionUpvote})
		require.NoError(t, err)
		assert.Equal(t, 1, cache.invalidations)
	})

	t.Run("counter always matches the number of voter records", func(t *testing.T) {
		store := newMemStore()
		seeded, initial := seedTag(t, store, tag.CategoryIssue)
		uc := newApplyVoteUseCase(store, newFakeStatusCache(), &fakeActivityRepo{})

		// a mixed sequence of votes and cancellations from several voters
		for i := 0; i < 5; i++ {
			user := knownUser(fmt.Sprintf("voter-%d", i))
			_, err := uc.Execute(ctx, ApplyVoteInput{User: user, TagID: seeded.ID, Action: tag.ActionUpvote})
			require.NoError(t, err)
		}
		for i := 0; i < 2; i++ {
			user := knownUser(fmt.Sprintf("voter-%d", i))
			_, err := uc.Execute(ctx, ApplyVoteInput{User: user, TagID: seeded.ID, Action: tag.ActionCancelUpvote})
			require.NoError(t, err)
		}

		latest, err := store.Latest(ctx, seeded.ID)
		require.NoError(t, err)
		require.NotNil(t, latest.UpvoteCount)
		assert.Equal(t, 3, *latest.UpvoteCount)
		assert.Equal(t, 3, store.voterCount(initial.ID))
	})
}

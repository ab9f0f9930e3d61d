package tag

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status is one entry in a tag's append-only lifecycle history. Entries are
// immutable once written; the entry with the greatest creation timestamp is
// the tag's current status and the only one that can receive votes.
type Status struct {
	ID          uuid.UUID `json:"id"`
	TagID       uuid.UUID `json:"tag_id"`
	Name        string    `json:"status_name"`
	Description string    `json:"description"`
	CreatorID   string    `json:"creator_id"`
	// UpvoteCount is nil for status kinds that do not track votes.
	UpvoteCount *int      `json:"upvote_count"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewStatus(tagID uuid.UUID, name, description, creatorID string, countsVotes bool, now time.Time) *Status {
	s := &Status{
		ID:          uuid.New(),
		TagID:       tagID,
		Name:        name,
		Description: description,
		CreatorID:   creatorID,
		CreatedAt:   now,
	}
	if countsVotes {
		zero := 0
		s.UpvoteCount = &zero
	}
	return s
}

// NewDefaultStatus builds the status a freshly created tag starts with,
// derived from the category classification.
func NewDefaultStatus(tagID uuid.UUID, category Category, creatorID string, now time.Time) *Status {
	return NewStatus(tagID, category.DefaultStatusName(), "", creatorID, category.CountsVotes(), now)
}

// TracksVotes reports whether this status carries an upvote counter.
func (s *Status) TracksVotes() bool {
	return s.UpvoteCount != nil
}

type VoteAction string

const (
	ActionUpvote       VoteAction = "upvote"
	ActionCancelUpvote VoteAction = "cancel_upvote"
)

func (a VoteAction) Valid() bool {
	return a == ActionUpvote || a == ActionCancelUpvote
}

var (
	ErrAlreadyVoted    = errors.New("voter already upvoted this status")
	ErrNotVotedYet     = errors.New("voter has not upvoted this status")
	ErrVotesNotTracked = errors.New("status does not track votes")
	ErrNoStatus        = errors.New("tag has no status")
)

// ResolveVote is the vote state machine: given whether a vote record exists
// for the voter and the requested action, it returns the counter delta to
// apply. A +1 delta implies creating the record, a -1 delta deleting it.
// It must be evaluated and applied inside one atomic transaction.
func ResolveVote(hasVoted bool, action VoteAction) (int, error) {
	switch action {
	case ActionUpvote:
		if hasVoted {
			return 0, ErrAlreadyVoted
		}
		return 1, nil
	case ActionCancelUpvote:
		if !hasVoted {
			return 0, ErrNotVotedYet
		}
		return -1, nil
	default:
		return 0, errors.New("unknown vote action")
	}
}

type VoteResult struct {
	TagID       uuid.UUID `json:"tag_id"`
	StatusID    uuid.UUID `json:"status_id"`
	UpvoteCount int       `json:"upvote_count"`
	HasUpvoted  bool      `json:"has_upvoted"`
}

type StatusRepository interface {
	Append(ctx context.Context, s *Status) error
	Latest(ctx context.Context, tagID uuid.UUID) (*Status, error)
	History(ctx context.Context, tagID uuid.UUID) ([]*Status, error)
}

// VoteRepository owns the one-vote-per-user ledger. ApplyVote must execute
// the read of the latest status, the existence check of the voter record and
// both writes as a single transaction, retrying on write conflicts.
type VoteRepository interface {
	ApplyVote(ctx context.Context, tagID uuid.UUID, voterID string, action VoteAction) (*VoteResult, error)
	HasVoted(ctx context.Context, statusID uuid.UUID, voterID string) (bool, error)
}

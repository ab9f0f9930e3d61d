package activity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	ActionAddTag       = "add_tag"
	ActionUpdateTag    = "update_tag"
	ActionDeleteTag    = "delete_tag"
	ActionUpdateStatus = "update_status"
	ActionUpvote       = "upvote"
	ActionCancelUpvote = "cancel_upvote"
)

// Entry is one best-effort audit row. Recording failures are logged and
// never fail the mutation that produced them.
type Entry struct {
	ID        uuid.UUID `json:"id"`
	ActorID   string    `json:"actor_id"`
	Action    string    `json:"action"`
	TagID     uuid.UUID `json:"tag_id"`
	CreatedAt time.Time `json:"created_at"`
}

func NewEntry(actorID, action string, tagID uuid.UUID) *Entry {
	return &Entry{
		ID:        uuid.New(),
		ActorID:   actorID,
		Action:    action,
		TagID:     tagID,
		CreatedAt: time.Now().UTC(),
	}
}

type Repository interface {
	Record(ctx context.Context, e *Entry) error
}

package tag

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Category string

const (
	CategoryFacility Category = "facility"
	CategoryIssue    Category = "issue"
	CategoryDynamic  Category = "dynamic"
)

// defaultStatusByCategory is the fixed classification applied when a tag is
// created: every category maps to an initial status name, and only issue
// reports track upvotes on their statuses.
var defaultStatusByCategory = map[Category]string{
	CategoryFacility: "confirmed",
	CategoryIssue:    "unresolved",
	CategoryDynamic:  "quiet",
}

func (c Category) Valid() bool {
	_, ok := defaultStatusByCategory[c]
	return ok
}

func (c Category) DefaultStatusName() string {
	return defaultStatusByCategory[c]
}

func (c Category) CountsVotes() bool {
	return c == CategoryIssue
}

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Tag struct {
	ID             uuid.UUID   `json:"id"`
	CreatorID      string      `json:"creator_id"`
	LocationName   string      `json:"location_name"`
	Category       Category    `json:"category"`
	Floor          int         `json:"floor"`
	Description    string      `json:"description"`
	Coordinates    Coordinates `json:"coordinates"`
	StreetViewInfo *string     `json:"street_view_info"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

var (
	ErrMissingLocationName = errors.New("location name is required")
	ErrInvalidCategory     = errors.New("unknown tag category")
	ErrInvalidCoordinates  = errors.New("coordinates out of range")
	ErrTagNotFound         = errors.New("tag not found")
)

func (t *Tag) Validate() error {
	if t.LocationName == "" {
		return ErrMissingLocationName
	}
	if !t.Category.Valid() {
		return ErrInvalidCategory
	}
	if t.Coordinates.Latitude < -90 || t.Coordinates.Latitude > 90 {
		return ErrInvalidCoordinates
	}
	if t.Coordinates.Longitude < -180 || t.Coordinates.Longitude > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}

type ListFilter struct {
	Category  *Category
	CreatorID string
	Limit     int
	Offset    int
}

type Repository interface {
	// Create persists the tag together with its default status as a single
	// atomic write. A tag is never visible without at least one status.
	Create(ctx context.Context, t *Tag, initial *Status) error
	Update(ctx context.Context, t *Tag) error
	Delete(ctx context.Context, id uuid.UUID, requesterID string) error
	FindByID(ctx context.Context, id uuid.UUID) (*Tag, error)
	List(ctx context.Context, filter ListFilter) ([]*Tag, error)
}

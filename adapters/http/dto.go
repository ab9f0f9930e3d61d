package http

import (
	"time"

	"github.com/weihsuanlee/guidemap/internal/domain/tag"
)

// Tag DTOs

type CoordinatesDTO struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

type CreateTagRequest struct {
	LocationName   string          `json:"location_name" binding:"required"`
	Category       string          `json:"category" binding:"required,oneof=facility issue dynamic"`
	Floor          int             `json:"floor"`
	Description    string          `json:"description"`
	Coordinates    *CoordinatesDTO `json:"coordinates" binding:"required"`
	StreetViewInfo *string         `json:"street_view_info"`
	ImageCount     int             `json:"image_count"`
}

type UpdateTagRequest struct {
	LocationName   string          `json:"location_name" binding:"required"`
	Category       string          `json:"category" binding:"required,oneof=facility issue dynamic"`
	Floor          int             `json:"floor"`
	Description    string          `json:"description"`
	Coordinates    *CoordinatesDTO `json:"coordinates" binding:"required"`
	StreetViewInfo *string         `json:"street_view_info"`
}

type UpdateStatusRequest struct {
	StatusName  string `json:"status_name" binding:"required"`
	Description string `json:"description"`
}

type ApplyVoteRequest struct {
	Action string `json:"action" binding:"required,oneof=upvote cancel_upvote"`
}

type TagDTO struct {
	ID             string         `json:"id"`
	CreatorID      string         `json:"creator_id"`
	LocationName   string         `json:"location_name"`
	Category       string         `json:"category"`
	Floor          int            `json:"floor"`
	Description    string         `json:"description"`
	Coordinates    tag.Coordinates `json:"coordinates"`
	StreetViewInfo *string        `json:"street_view_info,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

type StatusDTO struct {
	ID          string    `json:"id"`
	TagID       string    `json:"tag_id"`
	StatusName  string    `json:"status_name"`
	Description string    `json:"description"`
	CreatorID   string    `json:"creator_id"`
	UpvoteCount *int      `json:"upvote_count"`
	HasUpvoted  *bool     `json:"has_upvoted,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type VoteResultDTO struct {
	TagID       string `json:"tag_id"`
	StatusID    string `json:"status_id"`
	UpvoteCount int    `json:"upvote_count"`
	HasUpvoted  bool   `json:"has_upvoted"`
}

func ToTagDTO(t *tag.Tag) TagDTO {
	return TagDTO{
		ID:             t.ID.String(),
		CreatorID:      t.CreatorID,
		LocationName:   t.LocationName,
		Category:       string(t.Category),
		Floor:          t.Floor,
		Description:    t.Description,
		Coordinates:    t.Coordinates,
		StreetViewInfo: t.StreetViewInfo,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func ToTagDTOs(tags []*tag.Tag) []TagDTO {
	dtos := make([]TagDTO, len(tags))
	for i, t := range tags {
		dtos[i] = ToTagDTO(t)
	}
	return dtos
}

func ToStatusDTO(s *tag.Status, hasUpvoted *bool) StatusDTO {
	return StatusDTO{
		ID:          s.ID.String(),
		TagID:       s.TagID.String(),
		StatusName:  s.Name,
		Description: s.Description,
		CreatorID:   s.CreatorID,
		UpvoteCount: s.UpvoteCount,
		HasUpvoted:  hasUpvoted,
		CreatedAt:   s.CreatedAt,
	}
}

func ToVoteResultDTO(r *tag.VoteResult) VoteResultDTO {
	return VoteResultDTO{
		TagID:       r.TagID.String(),
		StatusID:    r.StatusID.String(),
		UpvoteCount: r.UpvoteCount,
		HasUpvoted:  r.HasUpvoted,
	}
}

func (req *CreateTagRequest) ToCoordinates() *tag.Coordinates {
	if req.Coordinates == nil || req.Coordinates.Latitude == nil || req.Coordinates.Longitude == nil {
		return nil
	}
	return &tag.Coordinates{Latitude: *req.Coordinates.Latitude, Longitude: *req.Coordinates.Longitude}
}

func (req *UpdateTagRequest) ToCoordinates() *tag.Coordinates {
	if req.Coordinates == nil || req.Coordinates.Latitude == nil || req.Coordinates.Longitude == nil {
		return nil
	}
	return &tag.Coordinates{Latitude: *req.Coordinates.Latitude, Longitude: *req.Coordinates.Longitude}
}

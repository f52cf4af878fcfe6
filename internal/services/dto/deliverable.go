package dto

import (
	"time"

	"github.com/moesamiii/production/internal/models"
)

type CreateDeliverableRequest struct {
	Category string  `json:"category" binding:"required" validate:"required,oneof=photos shortVideos longVideos"`
	Title    string  `json:"title" binding:"required" validate:"required,max=200"`
	URL      string  `json:"url" binding:"required" validate:"required,url"`
	Status   string  `json:"status" validate:"omitempty,oneof=pending uploaded rendering approved"`
	Duration *string `json:"duration,omitempty" validate:"omitempty,max=20"`
	Progress *int    `json:"progress,omitempty" validate:"omitempty,min=0,max=100"`
}

// UpdateDeliverableRequest edits a deliverable in place. Comment and
// approval are not editable here; they belong to the client and survive
// every edit.
type UpdateDeliverableRequest struct {
	Category *string `json:"category,omitempty" validate:"omitempty,oneof=photos shortVideos longVideos"`
	Title    *string `json:"title,omitempty" validate:"omitempty,max=200"`
	URL      *string `json:"url,omitempty" validate:"omitempty,url"`
	Status   *string `json:"status,omitempty" validate:"omitempty,oneof=pending uploaded rendering approved"`
	Duration *string `json:"duration,omitempty" validate:"omitempty,max=20"`
	Progress *int    `json:"progress,omitempty" validate:"omitempty,min=0,max=100"`
}

type SetApprovalRequest struct {
	Approved *bool `json:"approved" binding:"required" validate:"required"`
}

type SetCommentRequest struct {
	Comment string `json:"comment" validate:"max=2000"`
}

type DeliverableResponse struct {
	ID         string    `json:"id"`
	Category   string    `json:"category"`
	Title      string    `json:"title"`
	URL        string    `json:"url"`
	Status     string    `json:"status"`
	Duration   *string   `json:"duration,omitempty"`
	Progress   *int      `json:"progress,omitempty"`
	Comment    string    `json:"comment"`
	IsApproved bool      `json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
}

// DeliverableBuckets groups all deliverables by category, the shape the
// portal renders from.
type DeliverableBuckets struct {
	Photos      []DeliverableResponse `json:"photos"`
	ShortVideos []DeliverableResponse `json:"shortVideos"`
	LongVideos  []DeliverableResponse `json:"longVideos"`
}

type ApprovalProgress struct {
	Approved int64 `json:"approved"`
	Total    int64 `json:"total"`
}

func NewDeliverableResponse(d *models.Deliverable) DeliverableResponse {
	return DeliverableResponse{
		ID:         d.ID,
		Category:   string(d.Category),
		Title:      d.Title,
		URL:        d.URL,
		Status:     d.Status,
		Duration:   d.Duration,
		Progress:   d.Progress,
		Comment:    d.Comment,
		IsApproved: d.IsApproved,
		CreatedAt:  d.CreatedAt,
	}
}

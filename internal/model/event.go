package model

import (
	"time"

	"github.com/google/uuid"
)

// Event is a bookable meeting type offered by an owner.
type Event struct {
	ID               uuid.UUID `json:"id"`
	OwnerID          int64     `json:"owner_id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	DurationMinutes  int       `json:"duration_minutes"`
	MinNoticeMinutes int       `json:"min_notice_minutes"`
	SlotStepMinutes  int       `json:"slot_step_minutes"` // 0 = same as duration
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

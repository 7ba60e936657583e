package model

import (
	"time"

	"github.com/google/uuid"
)

type CalendarSourceKind string

const (
	CalendarSourceICS    CalendarSourceKind = "ics"
	CalendarSourceGoogle CalendarSourceKind = "google"
)

// CalendarSource is an external calendar whose events block the owner's time.
type CalendarSource struct {
	ID           uuid.UUID          `json:"id"`
	OwnerID      int64              `json:"owner_id"`
	Kind         CalendarSourceKind `json:"kind"`
	URL          string             `json:"url,omitempty"`
	RefreshToken string             `json:"-"`
	IsActive     bool               `json:"is_active"`
	CreatedAt    time.Time          `json:"created_at"`
}

package model

import (
	"time"

	"github.com/google/uuid"
)

// DayOfWeek is stored as a lowercase English day name.
type DayOfWeek string

const (
	DayMonday    DayOfWeek = "monday"
	DayTuesday   DayOfWeek = "tuesday"
	DayWednesday DayOfWeek = "wednesday"
	DayThursday  DayOfWeek = "thursday"
	DayFriday    DayOfWeek = "friday"
	DaySaturday  DayOfWeek = "saturday"
	DaySunday    DayOfWeek = "sunday"
)

// DaysOfWeek lists the days in display order.
var DaysOfWeek = []DayOfWeek{
	DayMonday, DayTuesday, DayWednesday, DayThursday, DayFriday, DaySaturday, DaySunday,
}

// Schedule is an owner's weekly availability in a single timezone.
type Schedule struct {
	ID             uuid.UUID               `json:"id"`
	OwnerID        int64                   `json:"owner_id"`
	Timezone       string                  `json:"timezone"`
	Availabilities []*ScheduleAvailability `json:"availabilities"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

// ScheduleAvailability is one weekly window, times as "HH:MM".
type ScheduleAvailability struct {
	ID         uuid.UUID `json:"id"`
	ScheduleID uuid.UUID `json:"schedule_id"`
	DayOfWeek  DayOfWeek `json:"day_of_week"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
}

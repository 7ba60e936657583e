package availability

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// MinutesPerDay bounds minute-of-day values to [0, MinutesPerDay).
const MinutesPerDay = 24 * 60

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

var dayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// WeeklyWindow is a recurring local time-of-day interval on one day of the week.
// Windows never wrap past midnight; an overnight window is two windows.
type WeeklyWindow struct {
	Day         time.Weekday `json:"day_of_week"`
	StartMinute int          `json:"start_minute"`
	EndMinute   int          `json:"end_minute"`
}

func (w WeeklyWindow) String() string {
	return fmt.Sprintf("%s %s-%s", DayName(w.Day), FormatClock(w.StartMinute), FormatClock(w.EndMinute))
}

// Schedule is an owner's weekly availability pattern in one IANA timezone.
type Schedule struct {
	Timezone string
	Windows  []WeeklyWindow
}

// EventType describes the bookable event: its length, how much notice a
// viewer must give, and the spacing between candidate starts.
type EventType struct {
	DurationMinutes  int
	MinNoticeMinutes int
	// SlotStepMinutes defaults to DurationMinutes when zero.
	SlotStepMinutes int
}

// Duration returns the event length.
func (e EventType) Duration() time.Duration {
	return time.Duration(e.DurationMinutes) * time.Minute
}

// Step returns the spacing between candidate slot starts.
func (e EventType) Step() time.Duration {
	if e.SlotStepMinutes == 0 {
		return e.Duration()
	}
	return time.Duration(e.SlotStepMinutes) * time.Minute
}

// MinNotice returns how far ahead of now a slot must start.
func (e EventType) MinNotice() time.Duration {
	return time.Duration(e.MinNoticeMinutes) * time.Minute
}

// Validate checks the event type's numeric fields.
func (e EventType) Validate() error {
	switch {
	case e.DurationMinutes <= 0:
		return fmt.Errorf("%w: duration must be positive, got %d", ErrInvalidEventType, e.DurationMinutes)
	case e.SlotStepMinutes < 0:
		return fmt.Errorf("%w: slot step must not be negative, got %d", ErrInvalidEventType, e.SlotStepMinutes)
	case e.MinNoticeMinutes < 0:
		return fmt.Errorf("%w: minimum notice must not be negative, got %d", ErrInvalidEventType, e.MinNoticeMinutes)
	}
	return nil
}

// ParseDayOfWeek parses a symbolic day name such as "monday".
func ParseDayOfWeek(s string) (time.Weekday, error) {
	d, ok := dayNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("unknown day of week %q", s)
	}
	return d, nil
}

// DayName returns the lower-case symbolic name of a weekday.
func DayName(d time.Weekday) string {
	return strings.ToLower(d.String())
}

// ParseClock converts "HH:MM" into minutes since local midnight.
func ParseClock(s string) (int, error) {
	if !clockPattern.MatchString(s) {
		return 0, fmt.Errorf("%w: %q is not in HH:MM format", ErrMalformedTime, s)
	}
	h, _ := strconv.Atoi(s[:2])
	m, _ := strconv.Atoi(s[3:])
	return h*60 + m, nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

package formatting

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Freeeeeet/availability_bot/internal/availability"
	"github.com/Freeeeeet/availability_bot/internal/service"
)

// ErrorMessage turns a service error into text for the chat. Window indexes
// are shown 1-based to match the lines the owner typed.
func ErrorMessage(err error) string {
	var verr *availability.ValidationError
	var tzErr *availability.TimezoneError

	switch {
	case errors.As(err, &verr):
		var lines []string
		if idx := verr.Indexes(availability.MalformedTime); len(idx) > 0 {
			lines = append(lines, "Malformed times on lines "+lineList(idx)+". Use HH:MM in 24h format with start before end.")
		}
		if idx := verr.Indexes(availability.OverlappingWindow); len(idx) > 0 {
			lines = append(lines, "Overlapping windows on lines "+lineList(idx)+".")
		}
		return "❌ " + strings.Join(lines, "\n")
	case errors.As(err, &tzErr):
		return fmt.Sprintf("❌ Unknown timezone %q. Use an IANA name like Europe/Berlin.", tzErr.Name)
	case errors.Is(err, service.ErrScheduleNotFound):
		return "❌ No working hours are set yet."
	case errors.Is(err, service.ErrEventNotFound):
		return "❌ Event not found."
	case errors.Is(err, service.ErrEventInactive):
		return "❌ This event is not open for booking."
	case errors.Is(err, service.ErrInvalidEvent):
		return "❌ " + err.Error()
	case errors.Is(err, service.ErrCalendarUnavailable):
		return "❌ Calendars could not be read right now. Try again later."
	case errors.Is(err, service.ErrInvalidCalendarURL):
		return "❌ That does not look like an http(s) or webcal calendar link."
	case errors.Is(err, service.ErrInvalidRange):
		return "❌ That date range is too long or already over."
	case errors.Is(err, service.ErrUserNotFound):
		return "❌ User not found. Send /start first."
	default:
		return "❌ Something went wrong. Try again later."
	}
}

func lineList(idx []int) string {
	parts := make([]string, len(idx))
	for i, n := range idx {
		parts[i] = fmt.Sprint(n + 1)
	}
	return strings.Join(parts, ", ")
}

package formatting

import (
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/availability_bot/internal/availability"
	"github.com/Freeeeeet/availability_bot/internal/model"
)

// TimeRange renders "09:00-09:30".
func TimeRange(start, end time.Time) string {
	return fmt.Sprintf("%s-%s", start.Format("15:04"), end.Format("15:04"))
}

// DayHeader renders "Mon 19 Oct".
func DayHeader(t time.Time) string {
	return t.Format("Mon 02 Jan")
}

// Slots groups slot start times by local day, one line per day:
//
//	Mon 19 Oct: 09:00, 09:30, 11:00
//
// At most maxPerDay times are listed per day; the rest are counted.
func Slots(slots []availability.Slot, loc *time.Location, maxPerDay int) string {
	if len(slots) == 0 {
		return "No free slots in this period."
	}

	var (
		b       strings.Builder
		day     availability.Date
		started bool
		times   []string
		extra   int
	)
	flush := func() {
		if !started {
			return
		}
		fmt.Fprintf(&b, "%s: %s", DayHeader(time.Date(day.Year, day.Month, day.Day, 12, 0, 0, 0, loc)), strings.Join(times, ", "))
		if extra > 0 {
			fmt.Fprintf(&b, " (+%d more)", extra)
		}
		b.WriteString("\n")
	}

	for _, s := range slots {
		d := availability.DateOf(s.Start, loc)
		if !started || d != day {
			flush()
			day, started, times, extra = d, true, nil, 0
		}
		if maxPerDay > 0 && len(times) >= maxPerDay {
			extra++
			continue
		}
		times = append(times, s.Start.In(loc).Format("15:04"))
	}
	flush()

	return strings.TrimRight(b.String(), "\n")
}

// Schedule lists the weekly windows in Monday-first order.
func Schedule(s *model.Schedule) string {
	if s == nil || len(s.Availabilities) == 0 {
		return "No working hours yet. Use /setschedule to add them."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Timezone: %s\n", s.Timezone)
	for _, day := range model.DaysOfWeek {
		var ranges []string
		for _, a := range s.Availabilities {
			if a.DayOfWeek == day {
				ranges = append(ranges, a.StartTime+"-"+a.EndTime)
			}
		}
		if len(ranges) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", capitalize(string(day)), strings.Join(ranges, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

// Event renders a one-line summary of an event type.
func Event(e *model.Event) string {
	status := "active"
	if !e.IsActive {
		status = "inactive"
	}
	line := fmt.Sprintf("%s (%s, %s)", e.Name, Duration(e.DurationMinutes), status)
	if e.Description != "" {
		line += "\n" + e.Description
	}
	return line
}

// Warnings renders availability warnings as an advisory block.
func Warnings(degraded bool, warnings []availability.Warning) string {
	if !degraded && len(warnings) == 0 {
		return ""
	}
	var b strings.Builder
	if degraded {
		b.WriteString("Some calendars could not be read, so a few of these times may already be taken.")
	}
	skipped := 0
	for _, w := range warnings {
		if w.Kind == availability.MalformedInterval {
			skipped++
		}
	}
	if skipped > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d calendar entries were ignored because their times are invalid.", skipped)
	}
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

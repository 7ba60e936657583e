package availability

import (
	"fmt"
	"strings"
	"time"
)

// Date is a civil calendar date with no time or zone attached.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t as seen on a wall clock in loc.
func DateOf(t time.Time, loc *time.Location) Date {
	y, m, d := t.In(loc).Date()
	return Date{Year: y, Month: m, Day: d}
}

// Weekday returns the day of the week of d.
func (d Date) Weekday() time.Weekday {
	return d.noonUTC().Weekday()
}

// AddDays returns the date n days after d, normalizing month and year.
func (d Date) AddDays(n int) Date {
	y, m, day := d.noonUTC().AddDate(0, 0, n).Date()
	return Date{Year: y, Month: m, Day: day}
}

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool {
	return d.noonUTC().Before(o.noonUTC())
}

// After reports whether d is strictly later than o.
func (d Date) After(o Date) bool {
	return o.Before(d)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d Date) noonUTC() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC)
}

// LoadZone resolves an IANA zone name.
func LoadZone(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &TimezoneError{Name: name}
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, &TimezoneError{Name: name, Err: err}
	}
	return loc, nil
}

// Project anchors a weekly window to a concrete date in loc and returns the
// absolute interval it covers that day. The date's weekday must match.
func Project(w WeeklyWindow, on Date, loc *time.Location) (Interval, error) {
	if on.Weekday() != w.Day {
		return Interval{}, fmt.Errorf("%w: %s is a %s, window is for %s",
			ErrWeekdayMismatch, on, DayName(on.Weekday()), DayName(w.Day))
	}
	return Interval{
		Start: LocalInstant(on, w.StartMinute, loc),
		End:   LocalInstant(on, w.EndMinute, loc),
	}, nil
}

// LocalInstant converts a wall-clock minute on a date in loc to an instant,
// using the zone's offset in effect at that local date and time.
//
// A wall time inside a spring-forward gap does not exist; it is rounded
// forward to the first valid instant after the gap. A wall time inside a
// fall-back overlap exists twice; the first (pre-transition) occurrence wins.
func LocalInstant(d Date, minute int, loc *time.Location) time.Time {
	wall := time.Date(d.Year, d.Month, d.Day, minute/60, minute%60, 0, 0, time.UTC)

	var (
		best  time.Time
		found bool
	)
	for _, probe := range []time.Time{wall.Add(-24 * time.Hour), wall.Add(24 * time.Hour)} {
		_, offset := probe.In(loc).Zone()
		candidate := wall.Add(-time.Duration(offset) * time.Second)
		if !sameWallClock(candidate.In(loc), wall) {
			continue
		}
		if !found || candidate.Before(best) {
			best, found = candidate, true
		}
	}
	if found {
		return best.In(loc)
	}

	// Gap: reading the wall clock with the pre-transition offset lands past
	// the transition; the zone period containing it starts at the gap's end.
	_, before := wall.Add(-24 * time.Hour).In(loc).Zone()
	past := wall.Add(-time.Duration(before) * time.Second).In(loc)
	start, _ := past.ZoneBounds()
	if start.IsZero() {
		return past
	}
	return start.In(loc)
}

func sameWallClock(t, wall time.Time) bool {
	y1, m1, d1 := t.Date()
	y2, m2, d2 := wall.Date()
	return y1 == y2 && m1 == m2 && d1 == d2 && t.Hour() == wall.Hour() && t.Minute() == wall.Minute()
}

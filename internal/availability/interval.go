package availability

import "time"

// Interval is a half-open range of absolute instants [Start, End).
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns the length of the interval, or zero for empty intervals.
func (i Interval) Duration() time.Duration {
	if i.IsEmpty() {
		return 0
	}
	return i.End.Sub(i.Start)
}

// IsEmpty reports whether the interval contains no instants.
func (i Interval) IsEmpty() bool {
	return !i.End.After(i.Start)
}

// Overlaps reports whether two half-open intervals share at least one instant.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

// Contains reports whether t lies inside [Start, End).
func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

// Range is the window over which bookable slots are requested.
// Both ends are inclusive for slot starts.
type Range struct {
	From time.Time
	To   time.Time
}

// Slot is a bookable start instant together with its end.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Interval returns the slot as an absolute interval.
func (s Slot) Interval() Interval {
	return Interval{Start: s.Start, End: s.End}
}

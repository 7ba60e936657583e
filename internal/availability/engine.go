// Package availability turns an owner's weekly availability pattern, an event
// duration, a date range and busy time from external calendars into the
// concrete set of bookable slot starts.
//
// Everything here is a pure function of its inputs: no I/O, no shared state,
// safe to call concurrently for independent requests.
package availability

import (
	"cmp"
	"slices"
	"sort"
	"time"
)

// Result is the outcome of a resolution: chronologically ordered slots plus
// any recoverable warnings collected on the way.
type Result struct {
	Slots    []Slot
	Warnings []Warning
}

// Resolve computes the bookable slots of an event type against a schedule.
//
// Fatal problems (unknown timezone, invalid event type, inconsistent weekly
// pattern) abort with an error and no slots. Malformed busy intervals are
// skipped and reported in Result.Warnings. Slot starts are constrained to
// [r.From, r.To]; a slot may end after r.To.
func Resolve(s Schedule, e EventType, busy []Interval, r Range, now time.Time) (*Result, error) {
	loc, err := LoadZone(s.Timezone)
	if err != nil {
		return nil, err
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if err := Validate(s.Windows); err != nil {
		return nil, err
	}

	merged, warnings := Merge(busy)
	result := &Result{Slots: []Slot{}, Warnings: warnings}
	if r.To.Before(r.From) {
		return result, nil
	}

	byDay := windowsByDay(s.Windows)
	notBefore := now.Add(e.MinNotice())
	duration, step := e.Duration(), e.Step()

	last := DateOf(r.To, loc)
	for day := DateOf(r.From, loc); !day.After(last); day = day.AddDays(1) {
		for _, w := range byDay[day.Weekday()] {
			window, err := Project(w, day, loc)
			if err != nil {
				return nil, err
			}
			for _, free := range Subtract(window, overlapping(merged, window)) {
				for slot := range GenerateSlots(free, duration, step, notBefore) {
					if slot.Start.Before(r.From) || slot.Start.After(r.To) {
						continue
					}
					result.Slots = append(result.Slots, slot)
				}
			}
		}
	}

	result.Slots = ordered(result.Slots)
	return result, nil
}

func windowsByDay(windows []WeeklyWindow) map[time.Weekday][]WeeklyWindow {
	byDay := make(map[time.Weekday][]WeeklyWindow, 7)
	for _, w := range windows {
		byDay[w.Day] = append(byDay[w.Day], w)
	}
	for _, ws := range byDay {
		slices.SortFunc(ws, func(a, b WeeklyWindow) int {
			return cmp.Compare(a.StartMinute, b.StartMinute)
		})
	}
	return byDay
}

// overlapping trims merged busy time to the entries that can touch window.
func overlapping(merged []Interval, window Interval) []Interval {
	i := sort.Search(len(merged), func(i int) bool {
		return merged[i].End.After(window.Start)
	})
	return merged[i:]
}

// ordered sorts slots by start and drops duplicate starts, which can only
// arise when DST rounding folds two adjacent windows onto the same instant.
func ordered(slots []Slot) []Slot {
	slices.SortStableFunc(slots, func(a, b Slot) int {
		return a.Start.Compare(b.Start)
	})
	return slices.CompactFunc(slots, func(a, b Slot) bool {
		return a.Start.Equal(b.Start)
	})
}

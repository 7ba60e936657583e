package availability

import (
	"iter"
	"time"
)

// GenerateSlots yields candidate slots inside one free interval, stepping
// from free.Start by step while the slot still ends by free.End. Starts
// before notBefore are skipped. The sequence is finite and can be ranged
// over any number of times.
func GenerateSlots(free Interval, duration, step time.Duration, notBefore time.Time) iter.Seq[Slot] {
	return func(yield func(Slot) bool) {
		if duration <= 0 || step <= 0 {
			return
		}
		for start := free.Start; !start.Add(duration).After(free.End); start = start.Add(step) {
			if start.Before(notBefore) {
				continue
			}
			if !yield(Slot{Start: start, End: start.Add(duration)}) {
				return
			}
		}
	}
}

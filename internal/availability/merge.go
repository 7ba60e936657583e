package availability

import (
	"fmt"
	"slices"
	"time"
)

// Merge normalizes busy intervals into a sorted set of disjoint intervals.
// Touching intervals are coalesced. Zero-length and inverted entries are
// dropped and reported as MalformedInterval warnings; one bad record never
// aborts the merge. The input slice is left untouched.
func Merge(in []Interval) ([]Interval, []Warning) {
	var warnings []Warning
	valid := make([]Interval, 0, len(in))

	for i, iv := range in {
		if iv.IsEmpty() {
			warnings = append(warnings, Warning{
				Kind:    MalformedInterval,
				Index:   i,
				Message: fmt.Sprintf("dropped busy interval %s..%s", iv.Start.Format(time.RFC3339), iv.End.Format(time.RFC3339)),
			})
			continue
		}
		valid = append(valid, iv)
	}

	if len(valid) == 0 {
		return []Interval{}, warnings
	}

	slices.SortFunc(valid, func(a, b Interval) int {
		return a.Start.Compare(b.Start)
	})

	out := make([]Interval, 0, len(valid))
	current := valid[0]
	for _, next := range valid[1:] {
		if !next.Start.After(current.End) {
			if next.End.After(current.End) {
				current.End = next.End
			}
			continue
		}
		out = append(out, current)
		current = next
	}
	out = append(out, current)

	return out, warnings
}

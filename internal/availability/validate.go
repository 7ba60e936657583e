package availability

import (
	"cmp"
	"slices"
)

// Validate checks a weekly pattern for malformed times and same-day overlaps.
// It returns nil or a *ValidationError listing every offending window index.
func Validate(windows []WeeklyWindow) error {
	var issues []Issue

	for i, w := range windows {
		if !wellFormed(w) {
			issues = append(issues, Issue{Index: i, Kind: MalformedTime})
		}
	}

	for i, a := range windows {
		for j, b := range windows {
			if i == j || a.Day != b.Day {
				continue
			}
			if a.StartMinute < b.EndMinute && b.StartMinute < a.EndMinute {
				issues = append(issues, Issue{Index: i, Kind: OverlappingWindow})
				break
			}
		}
	}

	if len(issues) == 0 {
		return nil
	}

	slices.SortFunc(issues, func(a, b Issue) int {
		if c := cmp.Compare(a.Index, b.Index); c != 0 {
			return c
		}
		return cmp.Compare(a.Kind, b.Kind)
	})
	return &ValidationError{Issues: issues}
}

func wellFormed(w WeeklyWindow) bool {
	if w.Day < 0 || w.Day > 6 {
		return false
	}
	if w.StartMinute < 0 || w.StartMinute >= MinutesPerDay {
		return false
	}
	if w.EndMinute < 0 || w.EndMinute >= MinutesPerDay {
		return false
	}
	return w.StartMinute < w.EndMinute
}

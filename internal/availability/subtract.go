package availability

// Subtract returns the parts of a not covered by busy, in ascending order.
// busy must be sorted and disjoint, as returned by Merge.
func Subtract(a Interval, busy []Interval) []Interval {
	if a.IsEmpty() {
		return nil
	}

	var free []Interval
	cursor := a.Start
	for _, b := range busy {
		if !b.End.After(cursor) {
			continue
		}
		if !b.Start.Before(a.End) {
			break
		}
		if b.Start.After(cursor) {
			free = append(free, Interval{Start: cursor, End: b.Start})
		}
		cursor = b.End
		if !cursor.Before(a.End) {
			return free
		}
	}

	if cursor.Before(a.End) {
		free = append(free, Interval{Start: cursor, End: a.End})
	}
	return free
}

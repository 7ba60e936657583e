// Package calendar fetches busy time from an owner's external calendars.
package calendar

import (
	"context"
	"time"

	"github.com/Freeeeeet/availability_bot/internal/availability"
)

// Source returns the busy intervals of one external calendar within [from, to].
type Source interface {
	Name() string
	Busy(ctx context.Context, from, to time.Time) ([]availability.Interval, error)
}

// SourceFunc adapts a plain function to the Source interface.
type SourceFunc struct {
	SourceName string
	Fn         func(ctx context.Context, from, to time.Time) ([]availability.Interval, error)
}

func (f SourceFunc) Name() string {
	return f.SourceName
}

func (f SourceFunc) Busy(ctx context.Context, from, to time.Time) ([]availability.Interval, error) {
	return f.Fn(ctx, from, to)
}

// Static returns a source that always reports the given intervals.
func Static(name string, busy ...availability.Interval) Source {
	return SourceFunc{
		SourceName: name,
		Fn: func(context.Context, time.Time, time.Time) ([]availability.Interval, error) {
			return busy, nil
		},
	}
}

// clip keeps the intervals that overlap [from, to].
func clip(busy []availability.Interval, from, to time.Time) []availability.Interval {
	window := availability.Interval{Start: from, End: to}
	out := make([]availability.Interval, 0, len(busy))
	for _, b := range busy {
		if b.Overlaps(window) || (b.IsEmpty() && window.Contains(b.Start)) {
			out = append(out, b)
		}
	}
	return out
}

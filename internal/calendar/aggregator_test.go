package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/availability_bot/internal/availability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var day = time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)

func hours(from, to int) availability.Interval {
	return availability.Interval{
		Start: day.Add(time.Duration(from) * time.Hour),
		End:   day.Add(time.Duration(to) * time.Hour),
	}
}

func failing(name string, err error) Source {
	return SourceFunc{
		SourceName: name,
		Fn: func(context.Context, time.Time, time.Time) ([]availability.Interval, error) {
			return nil, err
		},
	}
}

func TestAggregator_CombinesSources(t *testing.T) {
	agg := NewAggregator(time.Second, zap.NewNop())

	got := agg.Fetch(context.Background(), []Source{
		Static("a", hours(9, 10)),
		Static("b", hours(13, 14), hours(15, 16)),
	}, day, day.Add(24*time.Hour))

	assert.False(t, got.Degraded)
	assert.Empty(t, got.Warnings)
	assert.ElementsMatch(t, []availability.Interval{hours(9, 10), hours(13, 14), hours(15, 16)}, got.Busy)
}

func TestAggregator_FailingSourceDegrades(t *testing.T) {
	agg := NewAggregator(time.Second, zap.NewNop())

	got := agg.Fetch(context.Background(), []Source{
		Static("ok", hours(9, 10)),
		failing("broken", errors.New("boom")),
	}, day, day.Add(24*time.Hour))

	assert.True(t, got.Degraded)
	assert.Equal(t, []availability.Interval{hours(9, 10)}, got.Busy)
	require.Len(t, got.Warnings, 1)
	assert.Equal(t, availability.CalendarSourceUnavailable, got.Warnings[0].Kind)
	assert.Equal(t, "broken", got.Warnings[0].Source)
	assert.Contains(t, got.Warnings[0].Message, "boom")
}

func TestAggregator_AbandonsSlowSource(t *testing.T) {
	agg := NewAggregator(50*time.Millisecond, zap.NewNop())
	stuck := SourceFunc{
		SourceName: "stuck",
		Fn: func(context.Context, time.Time, time.Time) ([]availability.Interval, error) {
			time.Sleep(2 * time.Second)
			return []availability.Interval{hours(1, 2)}, nil
		},
	}

	start := time.Now()
	got := agg.Fetch(context.Background(), []Source{stuck, Static("fast", hours(9, 10))}, day, day.Add(24*time.Hour))

	assert.Less(t, time.Since(start), time.Second)
	assert.True(t, got.Degraded)
	assert.Equal(t, []availability.Interval{hours(9, 10)}, got.Busy)
	require.Len(t, got.Warnings, 1)
	assert.Equal(t, "stuck", got.Warnings[0].Source)
}

func TestAggregator_RecoversPanic(t *testing.T) {
	agg := NewAggregator(time.Second, zap.NewNop())
	bad := SourceFunc{
		SourceName: "panics",
		Fn: func(context.Context, time.Time, time.Time) ([]availability.Interval, error) {
			panic("nil map")
		},
	}

	got := agg.Fetch(context.Background(), []Source{bad}, day, day.Add(time.Hour))
	assert.True(t, got.Degraded)
	require.Len(t, got.Warnings, 1)
	assert.Contains(t, got.Warnings[0].Message, "panicked")
}

func TestAggregator_NoSources(t *testing.T) {
	got := NewAggregator(0, zap.NewNop()).Fetch(context.Background(), nil, day, day.Add(time.Hour))
	assert.False(t, got.Degraded)
	assert.Empty(t, got.Busy)
}

func TestClip(t *testing.T) {
	busy := []availability.Interval{hours(0, 2), hours(5, 6), hours(8, 8), hours(30, 31)}
	got := clip(busy, day.Add(time.Hour), day.Add(10*time.Hour))
	assert.Equal(t, []availability.Interval{hours(0, 2), hours(5, 6), hours(8, 8)}, got)
}

func TestFetched_Attribute(t *testing.T) {
	agg := NewAggregator(time.Second, zap.NewNop())

	got := agg.Fetch(context.Background(), []Source{
		Static("a", hours(9, 10)),
		failing("down", errors.New("timeout")),
		Static("b", hours(13, 14), hours(15, 16)),
	}, day, day.Add(24*time.Hour))

	require.Equal(t, []Span{
		{Source: "a", Offset: 0, Count: 1},
		{Source: "b", Offset: 1, Count: 2},
	}, got.Spans)

	attributed := got.Attribute([]availability.Warning{
		{Kind: availability.MalformedInterval, Index: 2},
		{Kind: availability.MalformedInterval, Index: 0},
		{Kind: availability.CalendarSourceUnavailable, Index: -1, Source: "down"},
	})
	assert.Equal(t, []availability.Warning{
		{Kind: availability.MalformedInterval, Index: 1, Source: "b"},
		{Kind: availability.MalformedInterval, Index: 0, Source: "a"},
		{Kind: availability.CalendarSourceUnavailable, Index: -1, Source: "down"},
	}, attributed)
}

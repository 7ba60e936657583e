package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/availability_bot/internal/availability"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const DefaultFetchTimeout = 10 * time.Second

// Fetched is the combined busy time of several sources.
type Fetched struct {
	Busy     []availability.Interval
	Warnings []availability.Warning
	// Spans records which source reported each run of Busy, in order.
	Spans []Span
	// Degraded is set when at least one source failed or timed out, so the
	// busy list may be incomplete.
	Degraded bool
}

// Span is the run Busy[Offset:Offset+Count] reported by Source.
type Span struct {
	Source string
	Offset int
	Count  int
}

// Attribute rewrites warnings that point into Busy so that Source names the
// calendar and Index is the position in that calendar's own list.
func (f Fetched) Attribute(warnings []availability.Warning) []availability.Warning {
	out := make([]availability.Warning, len(warnings))
	for i, w := range warnings {
		out[i] = w
		if w.Index < 0 || w.Source != "" {
			continue
		}
		for _, sp := range f.Spans {
			if w.Index >= sp.Offset && w.Index < sp.Offset+sp.Count {
				out[i].Source = sp.Source
				out[i].Index = w.Index - sp.Offset
				break
			}
		}
	}
	return out
}

// Aggregator fetches several sources concurrently. A failing or slow source
// contributes no intervals and a CalendarSourceUnavailable warning instead of
// failing the whole fetch.
type Aggregator struct {
	timeout time.Duration
	logger  *zap.Logger
}

// NewAggregator creates an aggregator with a per-source timeout.
func NewAggregator(timeout time.Duration, logger *zap.Logger) *Aggregator {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Aggregator{
		timeout: timeout,
		logger:  logger,
	}
}

type fetchResult struct {
	busy []availability.Interval
	err  error
}

// Fetch queries every source in parallel and waits for all of them to return
// or be abandoned.
func (a *Aggregator) Fetch(ctx context.Context, sources []Source, from, to time.Time) Fetched {
	results := make([]fetchResult, len(sources))

	var g errgroup.Group
	for i, src := range sources {
		g.Go(func() error {
			results[i] = a.fetchOne(ctx, src, from, to)
			return nil
		})
	}
	_ = g.Wait()

	var out Fetched
	for i, res := range results {
		if res.err != nil {
			out.Degraded = true
			out.Warnings = append(out.Warnings, availability.Warning{
				Kind:    availability.CalendarSourceUnavailable,
				Index:   -1,
				Source:  sources[i].Name(),
				Message: res.err.Error(),
			})
			a.logger.Warn("Calendar source unavailable",
				zap.String("source", sources[i].Name()),
				zap.Error(res.err),
			)
			continue
		}
		if len(res.busy) > 0 {
			out.Spans = append(out.Spans, Span{Source: sources[i].Name(), Offset: len(out.Busy), Count: len(res.busy)})
		}
		out.Busy = append(out.Busy, res.busy...)
	}

	a.logger.Debug("Fetched busy intervals",
		zap.Int("sources", len(sources)),
		zap.Int("intervals", len(out.Busy)),
		zap.Bool("degraded", out.Degraded),
	)

	return out
}

// fetchOne runs a single source under its own timeout. A source that ignores
// its context is abandoned once the timeout fires.
func (a *Aggregator) fetchOne(ctx context.Context, src Source, from, to time.Time) fetchResult {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	done := make(chan fetchResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fetchResult{err: fmt.Errorf("source panicked: %v", r)}
			}
		}()
		busy, err := src.Busy(ctx, from, to)
		done <- fetchResult{busy: busy, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			res.err = fmt.Errorf("fetch %s: %w", src.Name(), res.err)
		}
		return res
	case <-ctx.Done():
		return fetchResult{err: fmt.Errorf("fetch %s: %w", src.Name(), ctx.Err())}
	}
}

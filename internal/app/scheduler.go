package app

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Prefetcher warms calendar caches.
type Prefetcher interface {
	Prefetch(ctx context.Context) error
}

// Scheduler runs background jobs on a cron spec.
type Scheduler struct {
	prefetcher Prefetcher
	spec       string
	cron       *cron.Cron
	logger     *zap.Logger
}

// NewScheduler validates spec. An empty spec disables the job.
func NewScheduler(prefetcher Prefetcher, spec string, logger *zap.Logger) (*Scheduler, error) {
	s := &Scheduler{
		prefetcher: prefetcher,
		spec:       spec,
		logger:     logger,
	}
	if spec == "" {
		return s, nil
	}

	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("parse prefetch schedule %q: %w", spec, err)
	}
	s.cron = cron.New()
	return s, nil
}

// Start registers the prefetch job and runs it once immediately. Jobs stop
// when ctx is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.cron == nil {
		s.logger.Info("Calendar prefetch disabled")
		return nil
	}

	s.logger.Info("Starting background scheduler", zap.String("spec", s.spec))

	if _, err := s.cron.AddFunc(s.spec, func() { s.prefetch(ctx) }); err != nil {
		return fmt.Errorf("add prefetch job: %w", err)
	}
	s.cron.Start()

	go s.prefetch(ctx)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Stop halts the cron and waits for a running job to finish.
func (s *Scheduler) Stop() {
	if s.cron == nil {
		return
	}
	s.logger.Info("Stopping background scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) prefetch(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := s.prefetcher.Prefetch(ctx); err != nil {
		s.logger.Error("Calendar prefetch failed", zap.Error(err))
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/availability_bot/internal/availability"
	"github.com/Freeeeeet/availability_bot/internal/calendar"
	"github.com/Freeeeeet/availability_bot/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FailurePolicy decides what happens when a calendar source cannot be read.
type FailurePolicy string

const (
	// FailOpen computes slots from the sources that answered and marks the
	// result degraded.
	FailOpen FailurePolicy = "open"
	// FailClosed refuses to compute slots with ErrCalendarUnavailable.
	FailClosed FailurePolicy = "closed"
)

const DefaultHorizon = 14 * 24 * time.Hour

// SlotsResult is what a viewer sees for one event type.
type SlotsResult struct {
	Event    *model.Event
	Location *time.Location
	Slots    []availability.Slot
	Warnings []availability.Warning
	// Degraded means busy time may be incomplete.
	Degraded bool
}

type AvailabilityService struct {
	scheduleRepo ScheduleStore
	eventRepo    EventStore
	sourceRepo   CalendarSourceStore
	sources      SourceBuilder
	aggregator   *calendar.Aggregator
	policy       FailurePolicy
	horizon      time.Duration
	now          func() time.Time
	logger       *zap.Logger
}

func NewAvailabilityService(
	scheduleRepo ScheduleStore,
	eventRepo EventStore,
	sourceRepo CalendarSourceStore,
	sources SourceBuilder,
	aggregator *calendar.Aggregator,
	policy FailurePolicy,
	horizon time.Duration,
	logger *zap.Logger,
) *AvailabilityService {
	if horizon <= 0 {
		horizon = DefaultHorizon
	}
	if policy != FailClosed {
		policy = FailOpen
	}
	return &AvailabilityService{
		scheduleRepo: scheduleRepo,
		eventRepo:    eventRepo,
		sourceRepo:   sourceRepo,
		sources:      sources,
		aggregator:   aggregator,
		policy:       policy,
		horizon:      horizon,
		now:          time.Now,
		logger:       logger,
	}
}

// Horizon returns how far ahead slots are offered by default.
func (s *AvailabilityService) Horizon() time.Duration {
	return s.horizon
}

// GetSlots resolves bookable slots of an owner's event between from and to.
// A zero or past from means now and a zero to means from plus the booking
// horizon. Ranges ending before from or wider than the horizon fail with
// ErrInvalidRange.
func (s *AvailabilityService) GetSlots(ctx context.Context, ownerID int64, eventID uuid.UUID, from, to time.Time) (*SlotsResult, error) {
	now := s.now()
	if from.IsZero() || from.Before(now) {
		from = now
	}
	if to.IsZero() {
		to = from.Add(s.horizon)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: range ends before %s", ErrInvalidRange, from.Format(time.RFC3339))
	}
	if to.Sub(from) > s.horizon {
		return nil, fmt.Errorf("%w: range is longer than %s", ErrInvalidRange, s.horizon)
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event == nil || event.OwnerID != ownerID {
		return nil, ErrEventNotFound
	}
	if !event.IsActive {
		return nil, ErrEventInactive
	}

	schedule, err := s.scheduleRepo.GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}
	if schedule == nil {
		return nil, ErrScheduleNotFound
	}

	loc, err := availability.LoadZone(schedule.Timezone)
	if err != nil {
		return nil, err
	}

	eventType := availability.EventType{
		DurationMinutes:  event.DurationMinutes,
		MinNoticeMinutes: event.MinNoticeMinutes,
		SlotStepMinutes:  event.SlotStepMinutes,
	}

	// A slot starting at `to` still needs its full duration to be free.
	fetched, err := s.fetchBusy(ctx, ownerID, loc, from, to.Add(eventType.Duration()))
	if err != nil {
		return nil, err
	}

	res, err := availability.Resolve(CoreSchedule(schedule), eventType, fetched.Busy,
		availability.Range{From: from, To: to}, now)
	if err != nil {
		s.logger.Warn("Failed to resolve slots",
			zap.Int64("owner_id", ownerID),
			zap.String("event_id", eventID.String()),
			zap.Error(err))
		return nil, err
	}

	skipped := fetched.Attribute(res.Warnings)
	warnings := append(fetched.Warnings, skipped...)
	for _, w := range skipped {
		s.logger.Warn("Skipped busy interval",
			zap.Int64("owner_id", ownerID),
			zap.String("source", w.Source),
			zap.Int("index", w.Index),
			zap.String("message", w.Message))
	}

	s.logger.Debug("Resolved slots",
		zap.Int64("owner_id", ownerID),
		zap.String("event_id", eventID.String()),
		zap.Int("slots", len(res.Slots)),
		zap.Bool("degraded", fetched.Degraded))

	return &SlotsResult{
		Event:    event,
		Location: loc,
		Slots:    res.Slots,
		Warnings: warnings,
		Degraded: fetched.Degraded,
	}, nil
}

// fetchBusy collects busy time from every active source of the owner and
// applies the failure policy.
func (s *AvailabilityService) fetchBusy(ctx context.Context, ownerID int64, loc *time.Location, from, to time.Time) (calendar.Fetched, error) {
	stored, err := s.sourceRepo.GetActiveByOwnerID(ctx, ownerID)
	if err != nil {
		return calendar.Fetched{}, fmt.Errorf("get calendar sources: %w", err)
	}

	live, buildWarnings := s.buildSources(stored, loc)

	fetched := s.aggregator.Fetch(ctx, live, from, to)
	if len(buildWarnings) > 0 {
		fetched.Warnings = append(buildWarnings, fetched.Warnings...)
		fetched.Degraded = true
	}

	if fetched.Degraded && s.policy == FailClosed {
		return calendar.Fetched{}, fmt.Errorf("%w: %d of %d sources failed",
			ErrCalendarUnavailable, len(fetched.Warnings), len(stored))
	}
	return fetched, nil
}

func (s *AvailabilityService) buildSources(stored []*model.CalendarSource, loc *time.Location) ([]calendar.Source, []availability.Warning) {
	var (
		live     []calendar.Source
		warnings []availability.Warning
	)
	for _, src := range stored {
		built, err := s.sources.Build(src, loc)
		if err != nil {
			s.logger.Warn("Failed to build calendar source",
				zap.String("source_id", src.ID.String()),
				zap.Error(err))
			warnings = append(warnings, availability.Warning{
				Kind:    availability.CalendarSourceUnavailable,
				Index:   -1,
				Source:  string(src.Kind) + ":" + src.ID.String(),
				Message: err.Error(),
			})
			continue
		}
		live = append(live, built)
	}
	return live, warnings
}

// Prefetch reads every owner's calendars over the booking horizon so that
// cached sources answer viewers quickly. Individual failures are logged.
func (s *AvailabilityService) Prefetch(ctx context.Context) error {
	owners, err := s.sourceRepo.GetOwnersWithSources(ctx)
	if err != nil {
		return fmt.Errorf("prefetch: %w", err)
	}

	from := s.now()
	to := from.Add(s.horizon)
	var degraded int

	for _, ownerID := range owners {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		loc := time.UTC
		if schedule, err := s.scheduleRepo.GetByOwnerID(ctx, ownerID); err == nil && schedule != nil {
			if l, err := availability.LoadZone(schedule.Timezone); err == nil {
				loc = l
			}
		}

		stored, err := s.sourceRepo.GetActiveByOwnerID(ctx, ownerID)
		if err != nil {
			s.logger.Error("Prefetch failed to load sources", zap.Int64("owner_id", ownerID), zap.Error(err))
			continue
		}
		live, warnings := s.buildSources(stored, loc)
		fetched := s.aggregator.Fetch(ctx, live, from, to)
		if fetched.Degraded || len(warnings) > 0 {
			degraded++
		}
	}

	s.logger.Info("Calendar prefetch completed",
		zap.Int("owners", len(owners)),
		zap.Int("degraded", degraded))
	return nil
}

// IsValidationError reports errors caused by bad stored or submitted data.
func IsValidationError(err error) bool {
	var verr *availability.ValidationError
	var tzErr *availability.TimezoneError
	return errors.As(err, &verr) || errors.As(err, &tzErr) ||
		errors.Is(err, availability.ErrInvalidEventType) || errors.Is(err, ErrInvalidEvent)
}

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/availability_bot/internal/availability"
	"github.com/Freeeeeet/availability_bot/internal/model"
	"go.uber.org/zap"
)

// AvailabilityInput is one weekly window as entered by the owner.
type AvailabilityInput struct {
	Day       string `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type ScheduleService struct {
	scheduleRepo ScheduleStore
	logger       *zap.Logger
}

func NewScheduleService(scheduleRepo ScheduleStore, logger *zap.Logger) *ScheduleService {
	return &ScheduleService{
		scheduleRepo: scheduleRepo,
		logger:       logger,
	}
}

// SaveSchedule validates the timezone and windows and replaces the owner's
// stored schedule. Validation failures are returned as
// *availability.ValidationError or *availability.TimezoneError.
func (s *ScheduleService) SaveSchedule(ctx context.Context, ownerID int64, timezone string, inputs []AvailabilityInput) (*model.Schedule, error) {
	if _, err := availability.LoadZone(timezone); err != nil {
		return nil, err
	}

	windows := make([]availability.WeeklyWindow, len(inputs))
	for i, in := range inputs {
		windows[i] = windowFromStrings(in.Day, in.StartTime, in.EndTime)
	}
	if err := availability.Validate(windows); err != nil {
		s.logger.Info("Rejected schedule",
			zap.Int64("owner_id", ownerID),
			zap.Error(err))
		return nil, err
	}

	schedule := &model.Schedule{
		OwnerID:        ownerID,
		Timezone:       timezone,
		Availabilities: make([]*model.ScheduleAvailability, 0, len(inputs)),
	}
	for _, w := range windows {
		schedule.Availabilities = append(schedule.Availabilities, &model.ScheduleAvailability{
			DayOfWeek: model.DayOfWeek(availability.DayName(w.Day)),
			StartTime: availability.FormatClock(w.StartMinute),
			EndTime:   availability.FormatClock(w.EndMinute),
		})
	}

	if err := s.scheduleRepo.Save(ctx, schedule); err != nil {
		return nil, fmt.Errorf("save schedule: %w", err)
	}

	return schedule, nil
}

// GetSchedule returns ErrScheduleNotFound when the owner has none.
func (s *ScheduleService) GetSchedule(ctx context.Context, ownerID int64) (*model.Schedule, error) {
	schedule, err := s.scheduleRepo.GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}
	if schedule == nil {
		return nil, ErrScheduleNotFound
	}
	return schedule, nil
}

// SetTimezone changes only the schedule's zone.
func (s *ScheduleService) SetTimezone(ctx context.Context, ownerID int64, timezone string) error {
	if _, err := availability.LoadZone(timezone); err != nil {
		return err
	}
	if err := s.scheduleRepo.UpdateTimezone(ctx, ownerID, timezone); err != nil {
		return fmt.Errorf("set timezone: %w", err)
	}

	s.logger.Info("Timezone updated",
		zap.Int64("owner_id", ownerID),
		zap.String("timezone", timezone))
	return nil
}

// ParseAvailabilityLines reads lines like "monday 09:00-12:00". Blank lines
// are skipped; an unreadable line becomes an input that fails validation at
// its index.
func ParseAvailabilityLines(text string) []AvailabilityInput {
	var out []AvailabilityInput
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			out = append(out, AvailabilityInput{Day: line})
			continue
		}
		start, end, _ := strings.Cut(strings.Join(fields[1:], ""), "-")
		out = append(out, AvailabilityInput{
			Day:       fields[0],
			StartTime: strings.TrimSpace(start),
			EndTime:   strings.TrimSpace(end),
		})
	}
	return out
}

// CoreSchedule converts a stored schedule into the resolver's form.
// Unreadable rows are kept as malformed windows so that the resolver reports
// them by index.
func CoreSchedule(s *model.Schedule) availability.Schedule {
	out := availability.Schedule{
		Timezone: s.Timezone,
		Windows:  make([]availability.WeeklyWindow, 0, len(s.Availabilities)),
	}
	for _, a := range s.Availabilities {
		out.Windows = append(out.Windows, windowFromStrings(string(a.DayOfWeek), a.StartTime, a.EndTime))
	}
	return out
}

// windowFromStrings returns a window with negative minutes when any part
// cannot be parsed; Validate reports those as malformed.
func windowFromStrings(day, start, end string) availability.WeeklyWindow {
	malformed := availability.WeeklyWindow{StartMinute: -1, EndMinute: -1}

	d, err := availability.ParseDayOfWeek(day)
	if err != nil {
		return malformed
	}
	startMin, err := availability.ParseClock(start)
	if err != nil {
		return malformed
	}
	endMin, err := availability.ParseClock(end)
	if err != nil {
		return malformed
	}
	return availability.WeeklyWindow{Day: d, StartMinute: startMin, EndMinute: endMin}
}

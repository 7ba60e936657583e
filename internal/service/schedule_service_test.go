package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Freeeeeet/availability_bot/internal/availability"
	"github.com/Freeeeeet/availability_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestScheduleService_SaveAndGet(t *testing.T) {
	repo := newFakeSchedules()
	svc := NewScheduleService(repo, zap.NewNop())
	ctx := context.Background()

	saved, err := svc.SaveSchedule(ctx, 7, "Europe/Berlin", []AvailabilityInput{
		{Day: "Monday", StartTime: "09:00", EndTime: "12:00"},
		{Day: "monday", StartTime: "13:00", EndTime: "17:30"},
		{Day: "friday", StartTime: "10:00", EndTime: "11:00"},
	})
	require.NoError(t, err)
	require.Len(t, saved.Availabilities, 3)
	assert.Equal(t, model.DayMonday, saved.Availabilities[0].DayOfWeek)
	assert.Equal(t, "17:30", saved.Availabilities[1].EndTime)

	got, err := svc.GetSchedule(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", got.Timezone)

	_, err = svc.GetSchedule(ctx, 8)
	assert.ErrorIs(t, err, ErrScheduleNotFound)
}

func TestScheduleService_RejectsBadInput(t *testing.T) {
	svc := NewScheduleService(newFakeSchedules(), zap.NewNop())
	ctx := context.Background()

	_, err := svc.SaveSchedule(ctx, 1, "Mars/Olympus", nil)
	assert.ErrorIs(t, err, availability.ErrTimezoneResolution)

	_, err = svc.SaveSchedule(ctx, 1, "UTC", []AvailabilityInput{
		{Day: "monday", StartTime: "09:00", EndTime: "12:00"},
		{Day: "monday", StartTime: "11:00", EndTime: "13:00"},
		{Day: "tuesday", StartTime: "9:00", EndTime: "10:00"},
		{Day: "someday", StartTime: "09:00", EndTime: "10:00"},
		{Day: "wednesday", StartTime: "12:00", EndTime: "11:00"},
	})
	var verr *availability.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []int{0, 1}, verr.Indexes(availability.OverlappingWindow))
	assert.Equal(t, []int{2, 3, 4}, verr.Indexes(availability.MalformedTime))
	assert.True(t, IsValidationError(err))
}

func TestScheduleService_SetTimezone(t *testing.T) {
	repo := newFakeSchedules()
	svc := NewScheduleService(repo, zap.NewNop())

	require.NoError(t, svc.SetTimezone(context.Background(), 3, "Asia/Tokyo"))
	assert.Equal(t, "Asia/Tokyo", repo.byOwner[3].Timezone)

	assert.ErrorIs(t, svc.SetTimezone(context.Background(), 3, ""), availability.ErrTimezoneResolution)
}

func TestParseAvailabilityLines(t *testing.T) {
	in := "monday 09:00-12:00\n\n  Friday 13:00 - 14:00\ngarbage\ntuesday 10:00-11:00"
	got := ParseAvailabilityLines(in)

	require.Len(t, got, 4)
	assert.Equal(t, AvailabilityInput{Day: "monday", StartTime: "09:00", EndTime: "12:00"}, got[0])
	assert.Equal(t, AvailabilityInput{Day: "Friday", StartTime: "13:00", EndTime: "14:00"}, got[1])
	assert.Equal(t, AvailabilityInput{Day: "garbage"}, got[2])
	assert.Equal(t, "tuesday", got[3].Day)
}

func TestCoreSchedule(t *testing.T) {
	s := &model.Schedule{
		Timezone: "UTC",
		Availabilities: []*model.ScheduleAvailability{
			{DayOfWeek: model.DayTuesday, StartTime: "08:15", EndTime: "09:45"},
			{DayOfWeek: "blursday", StartTime: "08:00", EndTime: "09:00"},
		},
	}

	core := CoreSchedule(s)
	require.Len(t, core.Windows, 2)
	assert.Equal(t, availability.WeeklyWindow{Day: 2, StartMinute: 8*60 + 15, EndMinute: 9*60 + 45}, core.Windows[0])

	err := availability.Validate(core.Windows)
	var verr *availability.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []int{1}, verr.Indexes(availability.MalformedTime))
}

package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEventService_CreateValidates(t *testing.T) {
	svc := NewEventService(newFakeEvents(), zap.NewNop())
	ctx := context.Background()

	tests := []struct {
		name string
		in   EventInput
	}{
		{"empty name", EventInput{Name: "  ", DurationMinutes: 30}},
		{"zero duration", EventInput{Name: "Intro"}},
		{"negative step", EventInput{Name: "Intro", DurationMinutes: 30, SlotStepMinutes: -5}},
		{"negative notice", EventInput{Name: "Intro", DurationMinutes: 30, MinNoticeMinutes: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateEvent(ctx, 1, tt.in)
			assert.ErrorIs(t, err, ErrInvalidEvent)
			assert.True(t, IsValidationError(err))
		})
	}

	e, err := svc.CreateEvent(ctx, 1, EventInput{Name: " Intro call ", DurationMinutes: 30, IsActive: true})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.Equal(t, "Intro call", e.Name)
}

func TestEventService_OwnershipAndToggle(t *testing.T) {
	svc := NewEventService(newFakeEvents(), zap.NewNop())
	ctx := context.Background()

	e, err := svc.CreateEvent(ctx, 1, EventInput{Name: "Intro", DurationMinutes: 15, IsActive: true})
	require.NoError(t, err)

	_, err = svc.ToggleEvent(ctx, 2, e.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)

	toggled, err := svc.ToggleEvent(ctx, 1, e.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	assert.ErrorIs(t, svc.DeleteEvent(ctx, 2, e.ID), ErrEventNotFound)
	require.NoError(t, svc.DeleteEvent(ctx, 1, e.ID))

	_, err = svc.GetEvent(ctx, e.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)
	assert.True(t, IsNotFound(err))
}

func TestEventService_UpdateEvent(t *testing.T) {
	svc := NewEventService(newFakeEvents(), zap.NewNop())
	ctx := context.Background()

	e, err := svc.CreateEvent(ctx, 1, EventInput{Name: "Intro", DurationMinutes: 15, IsActive: true})
	require.NoError(t, err)

	updated, err := svc.UpdateEvent(ctx, 1, e.ID, EventInput{Name: "Deep dive", DurationMinutes: 90, SlotStepMinutes: 30, IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, 90, updated.DurationMinutes)

	_, err = svc.UpdateEvent(ctx, 1, e.ID, EventInput{Name: "Deep dive"})
	assert.ErrorIs(t, err, ErrInvalidEvent)
}

func TestEventService_ListPublicEvents(t *testing.T) {
	svc := NewEventService(newFakeEvents(), zap.NewNop())
	ctx := context.Background()

	for _, in := range []EventInput{
		{Name: "zoom sync", DurationMinutes: 30, IsActive: true},
		{Name: "Archived", DurationMinutes: 30},
		{Name: "Coffee", DurationMinutes: 15, IsActive: true},
		{Name: "alpha", DurationMinutes: 60, IsActive: true},
	} {
		_, err := svc.CreateEvent(ctx, 5, in)
		require.NoError(t, err)
	}
	_, err := svc.CreateEvent(ctx, 6, EventInput{Name: "Other owner", DurationMinutes: 30, IsActive: true})
	require.NoError(t, err)

	public, err := svc.ListPublicEvents(ctx, 5)
	require.NoError(t, err)
	var names []string
	for _, e := range public {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"alpha", "Coffee", "zoom sync"}, names)

	all, err := svc.ListEvents(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

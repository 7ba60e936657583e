package formatting

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Freeeeeet/availability_bot/internal/availability"
	"github.com/Freeeeeet/availability_bot/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	verr := &availability.ValidationError{Issues: []availability.Issue{
		{Index: 0, Kind: availability.OverlappingWindow},
		{Index: 2, Kind: availability.MalformedTime},
		{Index: 3, Kind: availability.OverlappingWindow},
	}}

	got := ErrorMessage(fmt.Errorf("save: %w", verr))
	assert.Contains(t, got, "Malformed times on lines 3.")
	assert.Contains(t, got, "Overlapping windows on lines 1, 4.")

	assert.Contains(t, ErrorMessage(&availability.TimezoneError{Name: "Mars/Base"}), `"Mars/Base"`)
	assert.Contains(t, ErrorMessage(service.ErrCalendarUnavailable), "could not be read")
	assert.Contains(t, ErrorMessage(fmt.Errorf("x: %w", service.ErrEventInactive)), "not open")
	assert.Contains(t, ErrorMessage(fmt.Errorf("x: %w", service.ErrInvalidRange)), "too long")
	assert.Contains(t, ErrorMessage(errors.New("db down")), "Something went wrong")
}

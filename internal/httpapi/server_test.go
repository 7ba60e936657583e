package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Freeeeeet/availability_bot/internal/availability"
	"github.com/Freeeeeet/availability_bot/internal/model"
	"github.com/Freeeeeet/availability_bot/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var eventID = uuid.MustParse("6f1c2a2e-4b8f-4d7a-9d1e-0a4a4b3b2c1d")

type fakeOwners struct{}

func (fakeOwners) GetByID(_ context.Context, id int64) (*model.User, error) {
	if id != 42 {
		return nil, service.ErrUserNotFound
	}
	return &model.User{ID: 42, FirstName: "Ada"}, nil
}

type fakeEvents struct{}

func (fakeEvents) ListPublicEvents(context.Context, int64) ([]*model.Event, error) {
	return []*model.Event{{ID: eventID, Name: "Intro", DurationMinutes: 30, IsActive: true}}, nil
}

type fakeSlots struct {
	res      *service.SlotsResult
	err      error
	from, to time.Time
}

func (f *fakeSlots) GetSlots(_ context.Context, _ int64, _ uuid.UUID, from, to time.Time) (*service.SlotsResult, error) {
	f.from, f.to = from, to
	return f.res, f.err
}

func newTestServer(slots *fakeSlots) *Server {
	gin.SetMode(gin.TestMode)
	return NewServer(":0", fakeOwners{}, fakeEvents{}, slots, zap.NewNop())
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := get(t, newTestServer(&fakeSlots{}), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestListEvents(t *testing.T) {
	s := newTestServer(&fakeSlots{})

	rec := get(t, s, "/api/v1/owners/42/events")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Events []eventResponse `json:"events"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Events, 1)
	assert.Equal(t, eventID.String(), body.Events[0].ID)

	assert.Equal(t, http.StatusNotFound, get(t, s, "/api/v1/owners/7/events").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, s, "/api/v1/owners/abc/events").Code)
}

func TestGetSlots(t *testing.T) {
	start := time.Date(2026, time.October, 19, 13, 0, 0, 0, time.UTC)
	slots := &fakeSlots{res: &service.SlotsResult{
		Location: time.UTC,
		Slots:    []availability.Slot{{Start: start, End: start.Add(30 * time.Minute)}},
		Degraded: true,
		Warnings: []availability.Warning{{Kind: availability.CalendarSourceUnavailable, Index: -1, Source: "ics:x", Message: "timeout"}},
	}}
	s := newTestServer(slots)

	rec := get(t, s, "/api/v1/owners/42/events/"+eventID.String()+"/slots?from=2026-10-19T00:00:00Z&to=2026-10-20T00:00:00Z")
	require.Equal(t, http.StatusOK, rec.Code)

	var body slotsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Slots, 1)
	assert.True(t, body.Slots[0].Start.Equal(start))
	assert.True(t, body.Degraded)
	require.Len(t, body.Warnings, 1)
	assert.Equal(t, "ics:x", body.Warnings[0].Source)

	assert.True(t, slots.from.Equal(time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)))
	assert.True(t, slots.to.Equal(time.Date(2026, time.October, 20, 0, 0, 0, 0, time.UTC)))
}

func TestGetSlots_DefaultRange(t *testing.T) {
	slots := &fakeSlots{res: &service.SlotsResult{Location: time.UTC}}
	rec := get(t, newTestServer(slots), "/api/v1/owners/42/events/"+eventID.String()+"/slots")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, slots.from.IsZero())
	assert.True(t, slots.to.IsZero())
	assert.JSONEq(t, `{"timezone":"UTC","slots":[],"degraded":false,"warnings":[]}`, rec.Body.String())
}

func TestGetSlots_Errors(t *testing.T) {
	path := "/api/v1/owners/42/events/" + eventID.String() + "/slots"
	tests := []struct {
		name string
		err  error
		path string
		want int
	}{
		{"bad from", nil, path + "?from=yesterday", http.StatusBadRequest},
		{"reversed range", nil, path + "?from=2026-10-20T00:00:00Z&to=2026-10-19T00:00:00Z", http.StatusBadRequest},
		{"range too wide", fmt.Errorf("%w: range is longer than 336h0m0s", service.ErrInvalidRange), path + "?to=9999-12-31T00:00:00Z", http.StatusBadRequest},
		{"bad event id", nil, "/api/v1/owners/42/events/nope/slots", http.StatusBadRequest},
		{"unknown event", service.ErrEventNotFound, path, http.StatusNotFound},
		{"inactive event", service.ErrEventInactive, path, http.StatusNotFound},
		{"calendar outage", service.ErrCalendarUnavailable, path, http.StatusServiceUnavailable},
		{"invalid schedule", &availability.ValidationError{Issues: []availability.Issue{{Index: 1, Kind: availability.OverlappingWindow}}}, path, http.StatusUnprocessableEntity},
		{"bad zone", &availability.TimezoneError{Name: "Mars/Base"}, path, http.StatusUnprocessableEntity},
		{"database", errors.New("conn reset"), path, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, newTestServer(&fakeSlots{err: tt.err}), tt.path)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Freeeeeet/availability_bot/internal/availability"
	"github.com/Freeeeeet/availability_bot/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type eventResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	DurationMinutes int    `json:"duration_minutes"`
}

type slotResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type slotsResponse struct {
	Timezone string                 `json:"timezone"`
	Slots    []slotResponse         `json:"slots"`
	Degraded bool                   `json:"degraded"`
	Warnings []availability.Warning `json:"warnings"`
}

// listEvents handles GET /api/v1/owners/:ownerID/events.
func (s *Server) listEvents(c *gin.Context) {
	ownerID, ok := ownerParam(c)
	if !ok {
		return
	}

	if _, err := s.owners.GetByID(c.Request.Context(), ownerID); err != nil {
		s.writeError(c, err)
		return
	}

	events, err := s.events.ListPublicEvents(c.Request.Context(), ownerID)
	if err != nil {
		s.writeError(c, err)
		return
	}

	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, eventResponse{
			ID:              e.ID.String(),
			Name:            e.Name,
			Description:     e.Description,
			DurationMinutes: e.DurationMinutes,
		})
	}
	c.JSON(http.StatusOK, gin.H{"events": out})
}

// getSlots handles GET /api/v1/owners/:ownerID/events/:eventID/slots.
func (s *Server) getSlots(c *gin.Context) {
	ownerID, ok := ownerParam(c)
	if !ok {
		return
	}
	eventID, err := uuid.Parse(c.Param("eventID"))
	if err != nil {
		badRequest(c, "invalid event id")
		return
	}

	from, err := timeQuery(c, "from")
	if err != nil {
		badRequest(c, "from must be RFC3339")
		return
	}
	to, err := timeQuery(c, "to")
	if err != nil {
		badRequest(c, "to must be RFC3339")
		return
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		badRequest(c, "to is before from")
		return
	}

	res, err := s.slots.GetSlots(c.Request.Context(), ownerID, eventID, from, to)
	if err != nil {
		s.writeError(c, err)
		return
	}

	out := slotsResponse{
		Timezone: res.Location.String(),
		Slots:    make([]slotResponse, 0, len(res.Slots)),
		Degraded: res.Degraded,
		Warnings: res.Warnings,
	}
	if out.Warnings == nil {
		out.Warnings = []availability.Warning{}
	}
	for _, sl := range res.Slots {
		out.Slots = append(out.Slots, slotResponse{Start: sl.Start, End: sl.End})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) writeError(c *gin.Context, err error) {
	var verr *availability.ValidationError
	switch {
	case service.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrEventInactive):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrCalendarUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid schedule", "issues": verr.Issues})
	case errors.Is(err, availability.ErrTimezoneResolution), errors.Is(err, availability.ErrInvalidEventType):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		s.logger.Error("HTTP request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func ownerParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("ownerID"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid owner id")
		return 0, false
	}
	return id, true
}

// timeQuery returns the zero time when the parameter is absent.
func timeQuery(c *gin.Context, name string) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

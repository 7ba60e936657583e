package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Freeeeeet/availability_bot/internal/availability"
	"github.com/Freeeeeet/availability_bot/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxEventNameLength = 100

// EventInput carries the editable fields of an event type.
type EventInput struct {
	Name             string
	Description      string
	DurationMinutes  int
	MinNoticeMinutes int
	SlotStepMinutes  int
	IsActive         bool
}

type EventService struct {
	eventRepo EventStore
	logger    *zap.Logger
}

func NewEventService(eventRepo EventStore, logger *zap.Logger) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		logger:    logger,
	}
}

func (in EventInput) validate() error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidEvent)
	}
	if len([]rune(name)) > maxEventNameLength {
		return fmt.Errorf("%w: name is longer than %d characters", ErrInvalidEvent, maxEventNameLength)
	}
	et := availability.EventType{
		DurationMinutes:  in.DurationMinutes,
		MinNoticeMinutes: in.MinNoticeMinutes,
		SlotStepMinutes:  in.SlotStepMinutes,
	}
	if err := et.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}
	return nil
}

// CreateEvent adds a new event type for the owner
func (s *EventService) CreateEvent(ctx context.Context, ownerID int64, in EventInput) (*model.Event, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	event := &model.Event{
		OwnerID:          ownerID,
		Name:             strings.TrimSpace(in.Name),
		Description:      strings.TrimSpace(in.Description),
		DurationMinutes:  in.DurationMinutes,
		MinNoticeMinutes: in.MinNoticeMinutes,
		SlotStepMinutes:  in.SlotStepMinutes,
		IsActive:         in.IsActive,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.logger.Info("Event created",
		zap.String("event_id", event.ID.String()),
		zap.Int64("owner_id", ownerID),
		zap.String("name", event.Name),
		zap.Int("duration", event.DurationMinutes))

	return event, nil
}

// UpdateEvent replaces the editable fields of an owned event
func (s *EventService) UpdateEvent(ctx context.Context, ownerID int64, id uuid.UUID, in EventInput) (*model.Event, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	event, err := s.GetOwnedEvent(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	event.Name = strings.TrimSpace(in.Name)
	event.Description = strings.TrimSpace(in.Description)
	event.DurationMinutes = in.DurationMinutes
	event.MinNoticeMinutes = in.MinNoticeMinutes
	event.SlotStepMinutes = in.SlotStepMinutes
	event.IsActive = in.IsActive

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

// ToggleEvent flips the active flag and returns the updated event
func (s *EventService) ToggleEvent(ctx context.Context, ownerID int64, id uuid.UUID) (*model.Event, error) {
	event, err := s.GetOwnedEvent(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	event.IsActive = !event.IsActive
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("toggle event: %w", err)
	}

	s.logger.Info("Event toggled",
		zap.String("event_id", id.String()),
		zap.Bool("is_active", event.IsActive))

	return event, nil
}

// DeleteEvent removes an owned event
func (s *EventService) DeleteEvent(ctx context.Context, ownerID int64, id uuid.UUID) error {
	if _, err := s.GetOwnedEvent(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, id, ownerID); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	s.logger.Info("Event deleted",
		zap.String("event_id", id.String()),
		zap.Int64("owner_id", ownerID))
	return nil
}

// GetOwnedEvent returns ErrEventNotFound when the event is missing or
// belongs to someone else.
func (s *EventService) GetOwnedEvent(ctx context.Context, ownerID int64, id uuid.UUID) (*model.Event, error) {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.OwnerID != ownerID {
		return nil, ErrEventNotFound
	}
	return event, nil
}

// GetEvent returns ErrEventNotFound for an unknown id
func (s *EventService) GetEvent(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	return event, nil
}

// ListEvents returns all of the owner's events
func (s *EventService) ListEvents(ctx context.Context, ownerID int64) ([]*model.Event, error) {
	events, err := s.eventRepo.GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// ListPublicEvents returns only active events, sorted by name
func (s *EventService) ListPublicEvents(ctx context.Context, ownerID int64) ([]*model.Event, error) {
	events, err := s.eventRepo.GetActiveByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list public events: %w", err)
	}
	return events, nil
}

// IsNotFound reports errors that should surface as "not found" to a caller.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEventNotFound) || errors.Is(err, ErrScheduleNotFound) || errors.Is(err, ErrUserNotFound)
}

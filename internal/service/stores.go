package service

import (
	"context"

	"github.com/Freeeeeet/availability_bot/internal/model"
	"github.com/google/uuid"
)

// The repository package satisfies these with its pgx implementations.

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

type ScheduleStore interface {
	GetByOwnerID(ctx context.Context, ownerID int64) (*model.Schedule, error)
	Save(ctx context.Context, s *model.Schedule) error
	UpdateTimezone(ctx context.Context, ownerID int64, timezone string) error
}

type EventStore interface {
	Create(ctx context.Context, e *model.Event) error
	Update(ctx context.Context, e *model.Event) error
	Delete(ctx context.Context, id uuid.UUID, ownerID int64) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Event, error)
	GetByOwnerID(ctx context.Context, ownerID int64) ([]*model.Event, error)
	GetActiveByOwnerID(ctx context.Context, ownerID int64) ([]*model.Event, error)
}

type CalendarSourceStore interface {
	Create(ctx context.Context, src *model.CalendarSource) error
	Delete(ctx context.Context, id uuid.UUID, ownerID int64) error
	GetActiveByOwnerID(ctx context.Context, ownerID int64) ([]*model.CalendarSource, error)
	GetOwnersWithSources(ctx context.Context) ([]int64, error)
}

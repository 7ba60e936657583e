package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/availability_bot/internal/model"
	"github.com/Freeeeeet/availability_bot/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type EventRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewEventRepository(pool *pgxpool.Pool, logger *zap.Logger) *EventRepository {
	return &EventRepository{
		pool:   pool,
		logger: logger,
	}
}

const eventColumns = `id, owner_id, name, description, duration_minutes, min_notice_minutes,
	slot_step_minutes, is_active, created_at, updated_at`

func scanEvent(row pgx.Row) (*model.Event, error) {
	var e model.Event
	err := row.Scan(
		&e.ID,
		&e.OwnerID,
		&e.Name,
		&e.Description,
		&e.DurationMinutes,
		&e.MinNoticeMinutes,
		&e.SlotStepMinutes,
		&e.IsActive,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EventRepository) list(ctx context.Context, query string, args ...any) ([]*model.Event, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

// Create inserts a new event type
func (r *EventRepository) Create(ctx context.Context, e *model.Event) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}

	query := `
		INSERT INTO events (id, owner_id, name, description, duration_minutes, min_notice_minutes, slot_step_minutes, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		e.ID,
		e.OwnerID,
		e.Name,
		e.Description,
		e.DurationMinutes,
		e.MinNoticeMinutes,
		e.SlotStepMinutes,
		e.IsActive,
	).Scan(&e.CreatedAt, &e.UpdatedAt)

	if err != nil {
		r.logger.Error("Failed to insert event",
			zap.Int64("owner_id", e.OwnerID),
			zap.String("name", e.Name),
			zap.Error(err))
		return fmt.Errorf("create event: %w", err)
	}

	return nil
}

// GetByID returns nil, nil for an unknown id
func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	e, err := scanEvent(r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get event by id: %w", err)
	}
	return e, nil
}

// GetByOwnerID returns every event of the owner, newest first
func (r *EventRepository) GetByOwnerID(ctx context.Context, ownerID int64) ([]*model.Event, error) {
	events, err := r.list(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get events by owner: %w", err)
	}
	return events, nil
}

// GetActiveByOwnerID returns the owner's active events sorted by name
func (r *EventRepository) GetActiveByOwnerID(ctx context.Context, ownerID int64) ([]*model.Event, error) {
	events, err := r.list(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE owner_id = $1 AND is_active = true
		ORDER BY lower(name)
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get active events by owner: %w", err)
	}
	return events, nil
}

// Update stores all editable fields
func (r *EventRepository) Update(ctx context.Context, e *model.Event) error {
	query := `
		UPDATE events
		SET name = $1, description = $2, duration_minutes = $3, min_notice_minutes = $4,
			slot_step_minutes = $5, is_active = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		e.Name,
		e.Description,
		e.DurationMinutes,
		e.MinNoticeMinutes,
		e.SlotStepMinutes,
		e.IsActive,
		e.ID,
	).Scan(&e.UpdatedAt)

	if err != nil {
		if base.IsNotFound(err) {
			return fmt.Errorf("event not found")
		}
		return fmt.Errorf("update event: %w", err)
	}

	return nil
}

// Delete removes an event owned by ownerID
func (r *EventRepository) Delete(ctx context.Context, id uuid.UUID, ownerID int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("event not found")
	}

	return nil
}

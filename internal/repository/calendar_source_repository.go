package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/availability_bot/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CalendarSourceRepository struct {
	pool *pgxpool.Pool
}

func NewCalendarSourceRepository(pool *pgxpool.Pool) *CalendarSourceRepository {
	return &CalendarSourceRepository{pool: pool}
}

// Create stores a calendar source
func (r *CalendarSourceRepository) Create(ctx context.Context, src *model.CalendarSource) error {
	if src.ID == uuid.Nil {
		src.ID = uuid.New()
	}

	query := `
		INSERT INTO calendar_sources (id, owner_id, kind, url, refresh_token, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.pool.QueryRow(ctx, query,
		src.ID,
		src.OwnerID,
		src.Kind,
		src.URL,
		src.RefreshToken,
		src.IsActive,
	).Scan(&src.CreatedAt)
	if err != nil {
		return fmt.Errorf("create calendar source: %w", err)
	}

	return nil
}

// Delete removes a source owned by ownerID
func (r *CalendarSourceRepository) Delete(ctx context.Context, id uuid.UUID, ownerID int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM calendar_sources WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete calendar source: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("calendar source not found")
	}

	return nil
}

// GetActiveByOwnerID returns the owner's active sources
func (r *CalendarSourceRepository) GetActiveByOwnerID(ctx context.Context, ownerID int64) ([]*model.CalendarSource, error) {
	query := `
		SELECT id, owner_id, kind, url, refresh_token, is_active, created_at
		FROM calendar_sources
		WHERE owner_id = $1 AND is_active = true
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get calendar sources: %w", err)
	}
	defer rows.Close()

	var sources []*model.CalendarSource
	for rows.Next() {
		var src model.CalendarSource
		err := rows.Scan(
			&src.ID,
			&src.OwnerID,
			&src.Kind,
			&src.URL,
			&src.RefreshToken,
			&src.IsActive,
			&src.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan calendar source: %w", err)
		}
		sources = append(sources, &src)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate calendar sources: %w", err)
	}

	return sources, nil
}

// GetOwnersWithSources lists owners that have at least one active source
func (r *CalendarSourceRepository) GetOwnersWithSources(ctx context.Context) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT owner_id
		FROM calendar_sources
		WHERE is_active = true
		ORDER BY owner_id
	`)
	if err != nil {
		return nil, fmt.Errorf("get owners with sources: %w", err)
	}
	defer rows.Close()

	var owners []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan owner id: %w", err)
		}
		owners = append(owners, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate owners: %w", err)
	}

	return owners, nil
}

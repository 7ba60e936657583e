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

type ScheduleRepository struct {
	*base.Repository
	logger *zap.Logger
}

func NewScheduleRepository(pool *pgxpool.Pool, logger *zap.Logger) *ScheduleRepository {
	return &ScheduleRepository{
		Repository: base.NewRepository(pool),
		logger:     logger,
	}
}

// GetByOwnerID loads the schedule with its availabilities. Returns nil, nil
// when the owner has not saved one yet.
func (r *ScheduleRepository) GetByOwnerID(ctx context.Context, ownerID int64) (*model.Schedule, error) {
	query := `
		SELECT id, owner_id, timezone, created_at, updated_at
		FROM schedules
		WHERE owner_id = $1
	`

	var s model.Schedule
	err := r.Pool().QueryRow(ctx, query, ownerID).Scan(
		&s.ID,
		&s.OwnerID,
		&s.Timezone,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get schedule by owner: %w", err)
	}

	rows, err := r.Pool().Query(ctx, `
		SELECT id, schedule_id, day_of_week, start_time, end_time
		FROM schedule_availabilities
		WHERE schedule_id = $1
		ORDER BY CASE day_of_week
			WHEN 'monday' THEN 1 WHEN 'tuesday' THEN 2 WHEN 'wednesday' THEN 3
			WHEN 'thursday' THEN 4 WHEN 'friday' THEN 5 WHEN 'saturday' THEN 6
			ELSE 7 END, start_time
	`, s.ID)
	if err != nil {
		return nil, fmt.Errorf("get schedule availabilities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a model.ScheduleAvailability
		if err := rows.Scan(&a.ID, &a.ScheduleID, &a.DayOfWeek, &a.StartTime, &a.EndTime); err != nil {
			return nil, fmt.Errorf("scan schedule availability: %w", err)
		}
		s.Availabilities = append(s.Availabilities, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schedule availabilities: %w", err)
	}

	return &s, nil
}

// Save upserts the schedule and replaces all of its availabilities in one
// transaction.
func (r *ScheduleRepository) Save(ctx context.Context, s *model.Schedule) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}

	err := r.WithTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO schedules (id, owner_id, timezone)
			VALUES ($1, $2, $3)
			ON CONFLICT (owner_id) DO UPDATE
				SET timezone = EXCLUDED.timezone, updated_at = NOW()
			RETURNING id, created_at, updated_at
		`, s.ID, s.OwnerID, s.Timezone).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return fmt.Errorf("upsert schedule: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM schedule_availabilities WHERE schedule_id = $1`, s.ID); err != nil {
			return fmt.Errorf("delete schedule availabilities: %w", err)
		}

		if len(s.Availabilities) == 0 {
			return nil
		}

		batch := &pgx.Batch{}
		for _, a := range s.Availabilities {
			if a.ID == uuid.Nil {
				a.ID = uuid.New()
			}
			a.ScheduleID = s.ID
			batch.Queue(`
				INSERT INTO schedule_availabilities (id, schedule_id, day_of_week, start_time, end_time)
				VALUES ($1, $2, $3, $4, $5)
			`, a.ID, a.ScheduleID, a.DayOfWeek, a.StartTime, a.EndTime)
		}

		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert schedule availabilities: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.logger.Info("Schedule saved",
		zap.Int64("owner_id", s.OwnerID),
		zap.String("timezone", s.Timezone),
		zap.Int("availabilities", len(s.Availabilities)))

	return nil
}

// UpdateTimezone changes the zone of an existing schedule, creating an empty
// one when needed.
func (r *ScheduleRepository) UpdateTimezone(ctx context.Context, ownerID int64, timezone string) error {
	query := `
		INSERT INTO schedules (id, owner_id, timezone)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner_id) DO UPDATE
			SET timezone = EXCLUDED.timezone, updated_at = NOW()
	`

	if _, err := r.Pool().Exec(ctx, query, uuid.New(), ownerID, timezone); err != nil {
		return fmt.Errorf("update schedule timezone: %w", err)
	}
	return nil
}

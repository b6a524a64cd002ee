package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/matisarralde/paseos-de-blanca/pkg/core/model"
)

// GetSchedule retrieves the schedule for a week, or (nil, nil) when none
// has been generated yet
func (d *DB) GetSchedule(ctx context.Context, weekID string) (model.Schedule, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT week_id, day, time_slot, person_id, is_completed, completion_time, notes, walk_date
		FROM walk
		WHERE week_id = $1
		ORDER BY position
	`, weekID)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule: %w", err)
	}
	defer rows.Close()

	var schedule model.Schedule
	for rows.Next() {
		walk, err := scanWalk(rows.Scan)
		if err != nil {
			return nil, err
		}
		schedule = append(schedule, walk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating walks: %w", err)
	}

	return schedule, nil
}

// SaveSchedule replaces the week's schedule in a single transaction. The
// transactional replace is what serializes read-modify-write per week key.
func (d *DB) SaveSchedule(ctx context.Context, weekID string, schedule model.Schedule) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM walk WHERE week_id = $1`, weekID); err != nil {
		return fmt.Errorf("failed to clear week %s: %w", weekID, err)
	}

	for i, w := range schedule {
		var personID *string
		if w.PersonID != "" {
			personID = &w.PersonID
		}
		var completionTime *time.Time
		if w.IsCompleted {
			t := w.CompletionTime.UTC()
			completionTime = &t
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO walk (week_id, day, time_slot, person_id, is_completed, completion_time, notes, walk_date, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, weekID, w.Day, string(w.TimeSlot), personID, w.IsCompleted, completionTime, w.Notes, w.Date, i)
		if err != nil {
			return fmt.Errorf("failed to insert walk %s: %w", w.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetAllWalks retrieves every walk across all weeks for history aggregation
func (d *DB) GetAllWalks(ctx context.Context) ([]model.Walk, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT week_id, day, time_slot, person_id, is_completed, completion_time, notes, walk_date
		FROM walk
		ORDER BY week_id, position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query walks: %w", err)
	}
	defer rows.Close()

	var walks []model.Walk
	for rows.Next() {
		walk, err := scanWalk(rows.Scan)
		if err != nil {
			return nil, err
		}
		walks = append(walks, walk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating walks: %w", err)
	}

	return walks, nil
}

func scanWalk(scan func(dest ...any) error) (model.Walk, error) {
	var w model.Walk
	var timeSlot string
	var personID *string
	var completionTime *time.Time
	if err := scan(&w.WeekID, &w.Day, &timeSlot, &personID, &w.IsCompleted, &completionTime, &w.Notes, &w.Date); err != nil {
		return model.Walk{}, fmt.Errorf("failed to scan walk: %w", err)
	}
	w.TimeSlot = model.TimeSlot(timeSlot)
	w.ID = model.WalkID(w.Day, w.TimeSlot)
	if personID != nil {
		w.PersonID = *personID
	}
	if completionTime != nil {
		w.CompletionTime = completionTime.Local()
	}
	return w, nil
}

// Package sqlite provides a local single-file implementation of the db
// store interfaces using a pure Go SQLite driver. It is the default backend
// for a household running everything on one device.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/matisarralde/paseos-de-blanca/pkg/core/model"
	"github.com/matisarralde/paseos-de-blanca/pkg/db"
)

// Ensure Store implements the full store surface
var _ db.Store = (*Store)(nil)

const dateLayout = "2006-01-02"

// Store implements db.Store using SQLite
type Store struct {
	db *sql.DB
}

// New creates a Store backed by the database file at dbPath, creating
// parent directories and the schema as needed.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: sqlDB}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func runMigrations(sqlDB *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS family_member (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		avatar_color TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		invite_token TEXT,
		counts_on_leaderboard INTEGER NOT NULL DEFAULT 1,
		position INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS walk (
		week_id TEXT NOT NULL,
		day TEXT NOT NULL,
		time_slot TEXT NOT NULL,
		person_id TEXT,
		is_completed INTEGER NOT NULL DEFAULT 0,
		completion_time TEXT,
		notes TEXT NOT NULL DEFAULT '',
		walk_date TEXT NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (week_id, day, time_slot)
	);

	CREATE INDEX IF NOT EXISTS walk_date_idx ON walk (walk_date);
	`
	if _, err := sqlDB.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// GetSchedule retrieves the schedule for a week, or (nil, nil) when none
// has been generated yet
func (s *Store) GetSchedule(ctx context.Context, weekID string) (model.Schedule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT week_id, day, time_slot, person_id, is_completed, completion_time, notes, walk_date
		FROM walk
		WHERE week_id = ?
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

// SaveSchedule replaces the week's schedule in a single transaction
func (s *Store) SaveSchedule(ctx context.Context, weekID string, schedule model.Schedule) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM walk WHERE week_id = ?`, weekID); err != nil {
		return fmt.Errorf("failed to clear week %s: %w", weekID, err)
	}

	for i, w := range schedule {
		var personID *string
		if w.PersonID != "" {
			personID = &w.PersonID
		}
		var completionTime *string
		if w.IsCompleted {
			t := w.CompletionTime.UTC().Format(time.RFC3339)
			completionTime = &t
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO walk (week_id, day, time_slot, person_id, is_completed, completion_time, notes, walk_date, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, weekID, w.Day, string(w.TimeSlot), personID, w.IsCompleted, completionTime, w.Notes, w.Date.Format(dateLayout), i)
		if err != nil {
			return fmt.Errorf("failed to insert walk %s: %w", w.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetAllWalks retrieves every walk across all weeks for history aggregation
func (s *Store) GetAllWalks(ctx context.Context) ([]model.Walk, error) {
	rows, err := s.db.QueryContext(ctx, `
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
	var timeSlot, walkDate string
	var personID, completionTime *string
	if err := scan(&w.WeekID, &w.Day, &timeSlot, &personID, &w.IsCompleted, &completionTime, &w.Notes, &walkDate); err != nil {
		return model.Walk{}, fmt.Errorf("failed to scan walk: %w", err)
	}

	w.TimeSlot = model.TimeSlot(timeSlot)
	w.ID = model.WalkID(w.Day, w.TimeSlot)
	if personID != nil {
		w.PersonID = *personID
	}
	if completionTime != nil {
		t, err := time.Parse(time.RFC3339, *completionTime)
		if err != nil {
			return model.Walk{}, fmt.Errorf("failed to parse completion time %q: %w", *completionTime, err)
		}
		w.CompletionTime = t.Local()
	}

	date, err := time.ParseInLocation(dateLayout, walkDate, time.Local)
	if err != nil {
		return model.Walk{}, fmt.Errorf("failed to parse walk date %q: %w", walkDate, err)
	}
	w.Date = date

	return w, nil
}

// Package db defines the storage contracts the engine depends on. The
// abstractions allow swapping backends (SQLite for a single household
// device, PostgreSQL for a shared server) without changing the service
// layer. Implementations must serialize read-modify-write per week key;
// the core exposes pure functions and makes no retry decisions.
package db

import (
	"context"

	"github.com/matisarralde/paseos-de-blanca/pkg/core/model"
)

// ScheduleStore persists weekly schedules keyed by week identifier
type ScheduleStore interface {
	// GetSchedule returns the schedule for the week, or (nil, nil) when no
	// schedule has been generated for it yet. Errors are store failures
	// only, never "absent".
	GetSchedule(ctx context.Context, weekID string) (model.Schedule, error)

	// SaveSchedule atomically replaces the week's schedule
	SaveSchedule(ctx context.Context, weekID string, schedule model.Schedule) error

	// GetAllWalks returns every persisted walk across all weeks, for
	// history aggregation
	GetAllWalks(ctx context.Context) ([]model.Walk, error)
}

// FamilyStore persists the household roster
type FamilyStore interface {
	// GetFamily returns the roster in its stable order, empty when the
	// roster has never been seeded
	GetFamily(ctx context.Context) ([]model.Person, error)

	// SaveFamily atomically replaces the roster
	SaveFamily(ctx context.Context, family []model.Person) error
}

// Store is the full persistence surface a backend provides
type Store interface {
	ScheduleStore
	FamilyStore
	Close() error
}

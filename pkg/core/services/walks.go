package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/matisarralde/paseos-de-blanca/pkg/core/calendar"
	"github.com/matisarralde/paseos-de-blanca/pkg/core/model"
	"github.com/matisarralde/paseos-de-blanca/pkg/core/rotation"
)

// ErrScheduleNotFound is returned when a walk action targets a week with no
// generated schedule
var ErrScheduleNotFound = errors.New("no schedule exists for this week")

// WalkStore defines the database operations needed for walk mutations
type WalkStore interface {
	GetSchedule(ctx context.Context, weekID string) (model.Schedule, error)
	SaveSchedule(ctx context.Context, weekID string, schedule model.Schedule) error
}

// SwapWalks exchanges the assignees of two slots in the week containing
// date and persists the result. Completed walks are rejected as swap
// targets.
func SwapWalks(ctx context.Context, store WalkStore, logger *zap.Logger, date time.Time, walkIDA, walkIDB string) (model.Schedule, error) {
	weekID := calendar.WeekID(date)
	logger.Debug("Swapping walks",
		zap.String("week_id", weekID),
		zap.String("walk_a", walkIDA),
		zap.String("walk_b", walkIDB))

	schedule, err := loadSchedule(ctx, store, weekID)
	if err != nil {
		return nil, err
	}

	swapped, err := rotation.Swap(schedule, walkIDA, walkIDB)
	if err != nil {
		return nil, err
	}

	if err := store.SaveSchedule(ctx, weekID, swapped); err != nil {
		return nil, fmt.Errorf("failed to save schedule for %s: %w", weekID, err)
	}

	logger.Info("Walks swapped",
		zap.String("week_id", weekID),
		zap.String("walk_a", walkIDA),
		zap.String("walk_b", walkIDB))

	return swapped, nil
}

// CompleteWalk marks a walk as completed, stamping the completion time on
// the first call, and persists the result. Notes merge in when non-empty.
func CompleteWalk(ctx context.Context, store WalkStore, logger *zap.Logger, date time.Time, walkID, notes string) (model.Schedule, error) {
	weekID := calendar.WeekID(date)
	logger.Debug("Completing walk", zap.String("week_id", weekID), zap.String("walk_id", walkID))

	schedule, err := loadSchedule(ctx, store, weekID)
	if err != nil {
		return nil, err
	}

	completed, err := rotation.Complete(schedule, walkID, notes, time.Now())
	if err != nil {
		return nil, err
	}

	if err := store.SaveSchedule(ctx, weekID, completed); err != nil {
		return nil, fmt.Errorf("failed to save schedule for %s: %w", weekID, err)
	}

	logger.Info("Walk completed", zap.String("week_id", weekID), zap.String("walk_id", walkID))

	return completed, nil
}

// AnnotateWalk updates a walk's notes regardless of completion state and
// persists the result
func AnnotateWalk(ctx context.Context, store WalkStore, logger *zap.Logger, date time.Time, walkID, notes string) (model.Schedule, error) {
	weekID := calendar.WeekID(date)
	logger.Debug("Annotating walk", zap.String("week_id", weekID), zap.String("walk_id", walkID))

	schedule, err := loadSchedule(ctx, store, weekID)
	if err != nil {
		return nil, err
	}

	annotated, err := rotation.Annotate(schedule, walkID, notes)
	if err != nil {
		return nil, err
	}

	if err := store.SaveSchedule(ctx, weekID, annotated); err != nil {
		return nil, fmt.Errorf("failed to save schedule for %s: %w", weekID, err)
	}

	return annotated, nil
}

// ViewWeek returns the schedule for the week containing date along with its
// display range, without mutating anything
func ViewWeek(ctx context.Context, store WalkStore, date time.Time) (string, model.Schedule, error) {
	weekID := calendar.WeekID(date)
	schedule, err := store.GetSchedule(ctx, weekID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to load schedule for %s: %w", weekID, err)
	}
	return calendar.WeekDateRange(date), schedule, nil
}

func loadSchedule(ctx context.Context, store WalkStore, weekID string) (model.Schedule, error) {
	schedule, err := store.GetSchedule(ctx, weekID)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule for %s: %w", weekID, err)
	}
	if len(schedule) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrScheduleNotFound, weekID)
	}
	return schedule, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/matisarralde/paseos-de-blanca/internal/config"
	"github.com/matisarralde/paseos-de-blanca/pkg/core/calendar"
	"github.com/matisarralde/paseos-de-blanca/pkg/core/model"
	"github.com/matisarralde/paseos-de-blanca/pkg/core/rotation"
)

// ErrScheduleExists is returned when generation targets a week that already
// has a schedule. Regeneration reshuffles, so it must be explicitly forced.
var ErrScheduleExists = errors.New("a schedule already exists for this week")

// GenerateWeekStore defines the database operations needed to generate a week
type GenerateWeekStore interface {
	GetSchedule(ctx context.Context, weekID string) (model.Schedule, error)
	SaveSchedule(ctx context.Context, weekID string, schedule model.Schedule) error
	GetFamily(ctx context.Context) ([]model.Person, error)
}

// GenerateWeekResult contains the generated schedule and its week metadata
type GenerateWeekResult struct {
	WeekID    string
	WeekRange string
	Schedule  model.Schedule
}

// GenerateWeek generates and persists the schedule for the week containing
// date. An existing schedule is never overwritten unless force is set; an
// incomplete rotation group refuses generation before anything is saved.
// A non-empty seed makes the shuffles reproducible.
func GenerateWeek(
	ctx context.Context,
	store GenerateWeekStore,
	cfg *config.Config,
	logger *zap.Logger,
	date time.Time,
	seed string,
	force bool,
) (*GenerateWeekResult, error) {
	weekStart := calendar.StartOfWeek(date)
	weekID := calendar.WeekID(weekStart)

	logger.Debug("Starting generateWeek",
		zap.String("week_id", weekID),
		zap.Bool("force", force))

	existing, err := store.GetSchedule(ctx, weekID)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule for %s: %w", weekID, err)
	}
	if len(existing) > 0 && !force {
		return nil, fmt.Errorf("%w: %s", ErrScheduleExists, weekID)
	}

	family, err := store.GetFamily(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load family: %w", err)
	}
	logger.Debug("Loaded family", zap.Int("count", len(family)))

	overrides, err := convertWalkOverrides(cfg.WalkOverrides, weekStart, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to convert walk overrides: %w", err)
	}

	schedule, err := rotation.GenerateWeek(rotation.GenerateConfig{
		Start:      weekStart,
		WeekNumber: calendar.WeekNumber(weekStart),
		Family:     family,
		GroupAIDs:  cfg.GroupAIDs,
		GroupBIDs:  cfg.GroupBIDs,
		Overrides:  overrides,
		Rand:       newRand(seed),
	})
	if err != nil {
		var incomplete *rotation.IncompleteGroupsError
		if errors.As(err, &incomplete) {
			logger.Warn("Rotation groups incomplete",
				zap.String("group", incomplete.Group),
				zap.Int("size", incomplete.Size))
		}
		return nil, err
	}

	if err := store.SaveSchedule(ctx, weekID, schedule); err != nil {
		return nil, fmt.Errorf("failed to save schedule for %s: %w", weekID, err)
	}

	logger.Info("Week schedule generated",
		zap.String("week_id", weekID),
		zap.Int("walks", len(schedule)))

	return &GenerateWeekResult{
		WeekID:    weekID,
		WeekRange: calendar.WeekDateRange(weekStart),
		Schedule:  schedule,
	}, nil
}

// newRand builds the shuffle source. An empty seed yields a time-seeded
// source; otherwise the seed string is hashed so the same seed reproduces
// the same week.
func newRand(seed string) *rand.Rand {
	if seed == "" {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	h := fnv.New64a()
	h.Write([]byte(seed))
	return rand.New(rand.NewSource(int64(h.Sum64())))
}

// convertWalkOverrides converts config.WalkOverride to rotation.SlotOverride.
// RRule strings are parsed into date-matching functions scoped to the week
// being generated, with a small buffer on either side for edge cases.
func convertWalkOverrides(configOverrides []config.WalkOverride, weekStart time.Time, logger *zap.Logger) ([]rotation.SlotOverride, error) {
	result := make([]rotation.SlotOverride, 0, len(configOverrides))

	weekEnd := weekStart.AddDate(0, 0, 6)

	for i, override := range configOverrides {
		rule, err := rrule.StrToRRule(override.RRule)
		if err != nil {
			return nil, fmt.Errorf("failed to parse rrule for override %d: %w", i, err)
		}

		slots := make([]model.TimeSlot, 0, len(override.TimeSlots))
		for _, s := range override.TimeSlots {
			slots = append(slots, model.TimeSlot(s))
		}

		ruleForClosure := rule
		appliesTo := func(date time.Time) bool {
			searchStart := weekStart.AddDate(0, 0, -7)
			searchEnd := weekEnd.AddDate(0, 0, 7)

			ruleForClosure.DTStart(searchStart)

			occurrences := ruleForClosure.Between(searchStart, searchEnd, true)
			for _, occurrence := range occurrences {
				if occurrence.Format("2006-01-02") == date.Format("2006-01-02") {
					return true
				}
			}
			return false
		}

		result = append(result, rotation.SlotOverride{
			AppliesTo: appliesTo,
			TimeSlots: slots,
			Skip:      override.Skip,
			PersonID:  override.PersonID,
		})

		logger.Debug("Converted override",
			zap.Int("index", i),
			zap.String("rrule", override.RRule),
			zap.Bool("skip", override.Skip),
			zap.String("person_id", override.PersonID))
	}

	return result, nil
}

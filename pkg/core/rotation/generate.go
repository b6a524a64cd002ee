// Package rotation implements the weekly schedule generation and
// turn-rotation engine: group partitioning, the parity day rule, randomized
// balanced slot assignment and the post-generation mutators.
package rotation

import (
	"math/rand"
	"time"

	"github.com/matisarralde/paseos-de-blanca/pkg/core/calendar"
	"github.com/matisarralde/paseos-de-blanca/pkg/core/model"
)

// SlotOverride customizes generated slots on dates matched by AppliesTo
type SlotOverride struct {
	// AppliesTo returns true if this override applies to the given date
	AppliesTo func(date time.Time) bool

	// TimeSlots are the slots the override affects; empty means every slot
	// of the matched day
	TimeSlots []model.TimeSlot

	// Skip leaves the affected slots unassigned (no walk that slot)
	Skip bool

	// PersonID pins a specific person to the affected slots. Ignored when
	// Skip is set.
	PersonID string
}

func (o SlotOverride) affects(slot model.TimeSlot) bool {
	if len(o.TimeSlots) == 0 {
		return true
	}
	for _, s := range o.TimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// GenerateConfig contains the inputs for generating one week's schedule
type GenerateConfig struct {
	// Start is the Monday the week begins on (local midnight)
	Start time.Time

	// WeekNumber is the ISO week number, used by the parity rule
	WeekNumber int

	// Family is the full roster; only claimed members are assigned
	Family []model.Person

	// GroupAIDs and GroupBIDs are the static rotation group memberships
	GroupAIDs []string
	GroupBIDs []string

	// Overrides customize slots on matching dates
	Overrides []SlotOverride

	// Rand is the source for the per-day shuffles. Nil falls back to a
	// time-seeded source; tests inject a fixed seed for reproducibility.
	Rand *rand.Rand
}

// GenerateWeek produces the full 7-day schedule for the configured week.
//
// For each day the active group is determined by the parity rule, the group
// is freshly shuffled, and time slot i receives shuffled[i mod groupSize] so
// repeat turns within a day cycle through the whole group instead of always
// falling on the same member.
//
// Generation is deliberately not idempotent: every call reshuffles. Callers
// must guard against regenerating a week that already has a schedule.
func GenerateWeek(cfg GenerateConfig) (model.Schedule, error) {
	groupA, groupB, err := PartitionFamily(cfg.Family, cfg.GroupAIDs, cfg.GroupBIDs)
	if err != nil {
		return nil, err
	}

	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	weekID := calendar.WeekID(cfg.Start)
	schedule := make(model.Schedule, 0, len(model.DaysOfWeek)*len(model.TimeSlots))

	for dayIndex, day := range model.DaysOfWeek {
		date := cfg.Start.AddDate(0, 0, dayIndex)

		var assignees []model.Person
		if ActiveGroupForDay(cfg.WeekNumber, dayIndex) == GroupA {
			assignees = shuffle(groupA, rng)
		} else {
			assignees = shuffle(groupB, rng)
		}

		for slotIndex, slot := range model.TimeSlots {
			walk := model.Walk{
				ID:       model.WalkID(day, slot),
				WeekID:   weekID,
				Day:      day,
				TimeSlot: slot,
				PersonID: assignees[slotIndex%len(assignees)].ID,
				Date:     date,
			}
			applyOverrides(&walk, cfg.Overrides)
			schedule = append(schedule, walk)
		}
	}

	return schedule, nil
}

// shuffle returns a uniform random permutation of people, leaving the input
// untouched. Fisher-Yates: walk from the last index down, swapping with a
// uniformly random index at or below it.
func shuffle(people []model.Person, rng *rand.Rand) []model.Person {
	out := make([]model.Person, len(people))
	copy(out, people)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func applyOverrides(walk *model.Walk, overrides []SlotOverride) {
	for _, o := range overrides {
		if o.AppliesTo == nil || !o.AppliesTo(walk.Date) || !o.affects(walk.TimeSlot) {
			continue
		}
		if o.Skip {
			walk.PersonID = ""
		} else if o.PersonID != "" {
			walk.PersonID = o.PersonID
		}
	}
}

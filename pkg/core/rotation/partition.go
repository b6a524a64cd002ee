package rotation

import (
	"slices"

	"github.com/matisarralde/paseos-de-blanca/pkg/core/model"
)

// Group identifies one of the two fixed rotation groups
type Group int

const (
	GroupA Group = iota
	GroupB
)

func (g Group) String() string {
	if g == GroupA {
		return "A"
	}
	return "B"
}

// PartitionFamily splits the roster into the two rotation groups using the
// statically configured id sets. Only claimed members are candidates for
// assignment. Returns an IncompleteGroupsError when either group ends up
// with fewer than MinGroupSize members.
func PartitionFamily(family []model.Person, groupAIDs, groupBIDs []string) (groupA, groupB []model.Person, err error) {
	for _, p := range family {
		if p.Status != model.StatusClaimed {
			continue
		}
		switch {
		case slices.Contains(groupAIDs, p.ID):
			groupA = append(groupA, p)
		case slices.Contains(groupBIDs, p.ID):
			groupB = append(groupB, p)
		}
	}

	if len(groupA) < MinGroupSize {
		return nil, nil, &IncompleteGroupsError{Group: GroupA.String(), Size: len(groupA)}
	}
	if len(groupB) < MinGroupSize {
		return nil, nil, &IncompleteGroupsError{Group: GroupB.String(), Size: len(groupB)}
	}

	return groupA, groupB, nil
}

// ActiveGroupForDay applies the parity fairness rule: on odd ISO weeks
// group A covers day indices {0,2,4,6} (Mon/Wed/Fri/Sun) and group B covers
// {1,3,5}; on even weeks the day sets swap. Each group therefore takes the
// four-day rotation every other week.
func ActiveGroupForDay(weekNumber, dayIndex int) Group {
	aHasLongWeek := weekNumber%2 != 0
	onLongDays := dayIndex%2 == 0
	if aHasLongWeek == onLongDays {
		return GroupA
	}
	return GroupB
}

package rotation

import "fmt"

// MinGroupSize is the smallest claimed membership a rotation group may have
// before week generation is refused.
const MinGroupSize = 3

// IncompleteGroupsError reports a rotation group with too few claimed
// members. Generation is refused rather than degraded; the caller should
// prompt for the missing claims.
type IncompleteGroupsError struct {
	Group string
	Size  int
}

func (e *IncompleteGroupsError) Error() string {
	return fmt.Sprintf("rotation group %s has %d claimed members, need at least %d", e.Group, e.Size, MinGroupSize)
}

// WalkNotFoundError reports a mutation referencing a slot id that is not in
// the schedule.
type WalkNotFoundError struct {
	WalkID string
}

func (e *WalkNotFoundError) Error() string {
	return fmt.Sprintf("walk %q not found in schedule", e.WalkID)
}

// WalkCompletedError reports a swap targeting a walk that has already been
// completed.
type WalkCompletedError struct {
	WalkID string
}

func (e *WalkCompletedError) Error() string {
	return fmt.Sprintf("walk %q is already completed and cannot be swapped", e.WalkID)
}

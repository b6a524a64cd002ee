package rotation

import (
	"time"

	"github.com/matisarralde/paseos-de-blanca/pkg/core/model"
)

// The mutators are pure: the input schedule is never modified and a new
// schedule is returned with only the named slots changed. Slot identity
// (ID, Day, TimeSlot, Date) is never altered.

// Swap exchanges the assignees of two walks. Both walks must exist and
// neither may be completed; on failure the original schedule is returned
// unchanged alongside the error.
func Swap(schedule model.Schedule, walkIDA, walkIDB string) (model.Schedule, error) {
	a := schedule.Find(walkIDA)
	if a < 0 {
		return schedule, &WalkNotFoundError{WalkID: walkIDA}
	}
	b := schedule.Find(walkIDB)
	if b < 0 {
		return schedule, &WalkNotFoundError{WalkID: walkIDB}
	}

	if schedule[a].IsCompleted {
		return schedule, &WalkCompletedError{WalkID: walkIDA}
	}
	if schedule[b].IsCompleted {
		return schedule, &WalkCompletedError{WalkID: walkIDB}
	}

	out := schedule.Clone()
	out[a].PersonID, out[b].PersonID = schedule[b].PersonID, schedule[a].PersonID
	return out, nil
}

// Complete marks a walk as done, stamping the completion time on the first
// call only. Re-completing an already completed walk leaves IsCompleted and
// CompletionTime untouched, but a non-empty notes value still merges in.
// The engine does not check that the caller is the assigned person; that
// belongs to the access layer.
func Complete(schedule model.Schedule, walkID, notes string, now time.Time) (model.Schedule, error) {
	i := schedule.Find(walkID)
	if i < 0 {
		return schedule, &WalkNotFoundError{WalkID: walkID}
	}

	out := schedule.Clone()
	if !out[i].IsCompleted {
		out[i].IsCompleted = true
		out[i].CompletionTime = now
	}
	if notes != "" {
		out[i].Notes = notes
	}
	return out, nil
}

// Annotate replaces a walk's notes regardless of completion state
func Annotate(schedule model.Schedule, walkID, notes string) (model.Schedule, error) {
	i := schedule.Find(walkID)
	if i < 0 {
		return schedule, &WalkNotFoundError{WalkID: walkID}
	}

	out := schedule.Clone()
	out[i].Notes = notes
	return out, nil
}

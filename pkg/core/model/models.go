package model

import "time"

type PersonStatus string

const (
	StatusClaimed   PersonStatus = "claimed"
	StatusUnclaimed PersonStatus = "unclaimed"
)

func (s PersonStatus) IsValid() bool {
	return s == StatusClaimed || s == StatusUnclaimed
}

type TimeSlot string

const (
	SlotManana TimeSlot = "Mañana"
	SlotTarde  TimeSlot = "Tarde"
	SlotNoche  TimeSlot = "Noche"
)

// TimeSlots is the fixed ordered set of walk slots within a day
var TimeSlots = []TimeSlot{SlotManana, SlotTarde, SlotNoche}

func (t TimeSlot) IsValid() bool {
	return t == SlotManana || t == SlotTarde || t == SlotNoche
}

// DaysOfWeek are the weekday labels in grid order, Monday first
var DaysOfWeek = []string{"Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado", "Domingo"}

// Person represents a household member on the walking roster
type Person struct {
	ID                  string
	Name                string
	AvatarColor         string
	Status              PersonStatus
	InviteToken         string // Empty once claimed
	CountsOnLeaderboard bool
}

// Walk represents one assignable slot in a week's schedule.
// ID is derived from (Day, TimeSlot) and is unique within its week only;
// WeekID namespaces it across weeks.
type Walk struct {
	ID             string
	WeekID         string
	Day            string
	TimeSlot       TimeSlot
	PersonID       string // Empty means unassigned
	IsCompleted    bool
	CompletionTime time.Time // Zero unless IsCompleted
	Notes          string
	Date           time.Time
}

// WalkID builds the slot identifier for a (day, timeSlot) grid cell
func WalkID(day string, slot TimeSlot) string {
	return day + "-" + string(slot)
}

// Schedule is the ordered collection of walks for exactly one week
type Schedule []Walk

// Find returns the index of the walk with the given slot id, or -1
func (s Schedule) Find(walkID string) int {
	for i := range s {
		if s[i].ID == walkID {
			return i
		}
	}
	return -1
}

// Clone returns an independent copy of the schedule
func (s Schedule) Clone() Schedule {
	out := make(Schedule, len(s))
	copy(out, s)
	return out
}

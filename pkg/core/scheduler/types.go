package scheduler

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidConfig is returned by Generate when the schedule configuration
// cannot produce shifts (closing before opening, non-positive shift length,
// or a staffing target below one).
var ErrInvalidConfig = errors.New("invalid schedule configuration")

// AvailabilityRecord is one contiguous interval on one date during which a
// person can work. A person may have multiple non-overlapping records per
// date. Records are read-only inputs to a scheduling run.
type AvailabilityRecord struct {
	// Person is the person's name. Names are the only identity the engine
	// knows about, so two people sharing a name are indistinguishable.
	Person string

	// Date at day granularity. Normalize with Day before constructing.
	Date time.Time

	// Start and End are offsets from midnight. Start must be before End.
	Start time.Duration
	End   time.Duration
}

// Hours returns the record's length in hours.
func (r AvailabilityRecord) Hours() float64 {
	return (r.End - r.Start).Hours()
}

// DemandOverride customizes the staffing target of shifts on matching dates.
type DemandOverride struct {
	// AppliesTo returns true if the override applies to the given date
	AppliesTo func(date time.Time) bool

	// PeoplePerShift overrides the default staffing target (if set)
	PeoplePerShift *int
}

// ScheduleConfig describes the window to staff and the shift shape.
type ScheduleConfig struct {
	// OpeningTime and ClosingTime bound each working day, as offsets from
	// midnight. OpeningTime must be before ClosingTime.
	OpeningTime time.Duration
	ClosingTime time.Duration

	// ShiftLength is the nominal shift duration. The last shift of a day is
	// clipped to ClosingTime when the window doesn't divide evenly.
	ShiftLength time.Duration

	// PeoplePerShift is the default staffing target per shift (minimum 1).
	PeoplePerShift int

	// ClosedDaysOfWeek lists weekdays on which no shifts are generated.
	ClosedDaysOfWeek map[time.Weekday]bool

	// ClosedDates lists specific dates on which no shifts are generated,
	// on top of the weekly pattern.
	ClosedDates []time.Time

	// DemandOverrides customize staffing targets for matching dates.
	DemandOverrides []DemandOverride
}

// Shift is a fixed time interval on a specific date requiring a target number
// of assigned people. Only the assignment engine mutates AssignedPeople.
type Shift struct {
	ID   uuid.UUID
	Date time.Time

	// Start and End are offsets from midnight. End-Start equals the
	// configured shift length except possibly for the last shift of a day.
	Start time.Duration
	End   time.Duration

	// PeopleNeeded is the staffing target for this shift.
	PeopleNeeded int

	// AssignedPeople in insertion order. Duplicates are never added.
	AssignedPeople []string

	// PositionInDay is the 0-based index of the shift within its day,
	// ordered by start time.
	PositionInDay int
	IsFirstOfDay  bool
	IsLastOfDay   bool
}

// DurationHours returns the shift's length in hours.
func (s *Shift) DurationHours() float64 {
	return (s.End - s.Start).Hours()
}

// IsFull returns true if the shift has reached its staffing target.
func (s *Shift) IsFull() bool {
	return len(s.AssignedPeople) >= s.PeopleNeeded
}

// HasAssigned returns true if the person is already assigned to this shift.
func (s *Shift) HasAssigned(person string) bool {
	for _, p := range s.AssignedPeople {
		if p == person {
			return true
		}
	}
	return false
}

// HitMapEntry records the people assignable to one shift at analysis time.
// Entries are computed once before any assignments are made and deliberately
// go stale as assignment proceeds; phase 1 consumes them as a priority
// signal, later phases recount live.
type HitMapEntry struct {
	Shift          *Shift
	Candidates     []string
	CandidateCount int
}

// ScheduleResult is the final roster produced by a scheduling run.
type ScheduleResult struct {
	Shifts []*Shift

	// UnderstaffedShifts counts shifts that were still short after the fill
	// phase. The final roster can differ slightly (the cleanup phase may
	// vacate further slots), so treat it as a diagnostic.
	UnderstaffedShifts int
}

// HasUnfilledShifts reports whether any shift ended below its staffing target.
func (r *ScheduleResult) HasUnfilledShifts() bool {
	for _, shift := range r.Shifts {
		if len(shift.AssignedPeople) < shift.PeopleNeeded {
			return true
		}
	}
	return false
}

// AssignedHours returns the total assigned hours per person, derived from the
// final shift assignments.
func (r *ScheduleResult) AssignedHours() map[string]float64 {
	hours := make(map[string]float64)
	for _, shift := range r.Shifts {
		for _, person := range shift.AssignedPeople {
			hours[person] += shift.DurationHours()
		}
	}
	return hours
}

// Day normalizes a timestamp to day granularity in UTC. All dates handed to
// the engine are normalized through this, so date values compare with ==.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

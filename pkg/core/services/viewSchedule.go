package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ewanmcc/rostergen/pkg/db"
)

// ErrNoRoster is returned by ViewSchedule when no roster has been generated yet
var ErrNoRoster = errors.New("no roster has been generated yet")

// ShiftView is one shift of a roster with its assigned people resolved
type ShiftView struct {
	Date         string
	StartTime    string
	EndTime      string
	PeopleNeeded int
	People       []string
}

// ScheduleView represents the latest roster ready for display
type ScheduleView struct {
	Roster *db.Roster
	Shifts []ShiftView
}

// Unfilled counts shifts still below their staffing target
func (v *ScheduleView) Unfilled() int {
	count := 0
	for _, shift := range v.Shifts {
		if len(shift.People) < shift.PeopleNeeded {
			count++
		}
	}
	return count
}

// ViewSchedule loads the most recently generated roster with its shifts and
// assignments
func ViewSchedule(ctx context.Context, store db.RosterStore, logger *zap.Logger) (*ScheduleView, error) {
	roster, err := store.GetLatestRoster(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest roster: %w", err)
	}
	if roster == nil {
		return nil, ErrNoRoster
	}

	logger.Debug("Loaded roster",
		zap.String("roster_id", roster.ID),
		zap.Int("shift_count", roster.ShiftCount))

	shifts, err := store.GetRosterShifts(ctx, roster.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roster shifts: %w", err)
	}

	assignments, err := store.GetRosterAssignments(ctx, roster.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roster assignments: %w", err)
	}

	peopleByShift := make(map[string][]string)
	for _, assignment := range assignments {
		peopleByShift[assignment.ShiftID] = append(peopleByShift[assignment.ShiftID], assignment.Person)
	}

	view := &ScheduleView{Roster: roster, Shifts: make([]ShiftView, 0, len(shifts))}
	for _, shift := range shifts {
		view.Shifts = append(view.Shifts, ShiftView{
			Date:         shift.ShiftDate,
			StartTime:    shift.StartTime,
			EndTime:      shift.EndTime,
			PeopleNeeded: shift.PeopleNeeded,
			People:       peopleByShift[shift.ID],
		})
	}

	return view, nil
}

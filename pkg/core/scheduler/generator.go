package scheduler

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

func validateConfig(cfg ScheduleConfig) error {
	if cfg.ClosingTime <= cfg.OpeningTime {
		return fmt.Errorf("%w: closing time %s is not after opening time %s",
			ErrInvalidConfig, cfg.ClosingTime, cfg.OpeningTime)
	}
	if cfg.ShiftLength <= 0 {
		return fmt.Errorf("%w: shift length %s is not positive", ErrInvalidConfig, cfg.ShiftLength)
	}
	if cfg.PeoplePerShift < 1 {
		return fmt.Errorf("%w: people per shift %d is below 1", ErrInvalidConfig, cfg.PeoplePerShift)
	}
	return nil
}

// generateShifts tiles the opening-to-closing window of every active date
// with fixed-length shifts. The dates are the distinct dates appearing in the
// availability records, ascending; dates on closed weekdays or in ClosedDates
// produce no shifts. The last shift of a day is clipped to closing time when
// the window doesn't divide evenly.
func generateShifts(records []AvailabilityRecord, cfg ScheduleConfig) []*Shift {
	seen := make(map[string]time.Time)
	for _, record := range records {
		date := Day(record.Date)
		seen[dayKey(date)] = date
	}

	dates := make([]time.Time, 0, len(seen))
	for _, date := range seen {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	closedDates := make(map[string]bool, len(cfg.ClosedDates))
	for _, date := range cfg.ClosedDates {
		closedDates[dayKey(date)] = true
	}

	var shifts []*Shift
	for _, date := range dates {
		if cfg.ClosedDaysOfWeek[date.Weekday()] || closedDates[dayKey(date)] {
			continue
		}

		peopleNeeded := cfg.PeoplePerShift
		for _, override := range cfg.DemandOverrides {
			if override.AppliesTo != nil && override.AppliesTo(date) && override.PeoplePerShift != nil {
				peopleNeeded = *override.PeoplePerShift
			}
		}

		current := cfg.OpeningTime
		for current < cfg.ClosingTime {
			length := cfg.ShiftLength
			if remaining := cfg.ClosingTime - current; remaining < length {
				length = remaining
			}

			shifts = append(shifts, &Shift{
				ID:             uuid.New(),
				Date:           date,
				Start:          current,
				End:            current + length,
				PeopleNeeded:   peopleNeeded,
				AssignedPeople: []string{},
			})

			current += length
		}
	}

	return shifts
}

// markShiftPositions tags each shift with its 0-based position within its day
// and the first/last flags, ordered by start time.
func markShiftPositions(shifts []*Shift) {
	byDate := make(map[string][]*Shift)
	for _, shift := range shifts {
		key := dayKey(shift.Date)
		byDate[key] = append(byDate[key], shift)
	}

	for _, dayShifts := range byDate {
		sort.SliceStable(dayShifts, func(i, j int) bool {
			return dayShifts[i].Start < dayShifts[j].Start
		})
		for i, shift := range dayShifts {
			shift.PositionInDay = i
			shift.IsFirstOfDay = i == 0
			shift.IsLastOfDay = i == len(dayShifts)-1
		}
	}
}

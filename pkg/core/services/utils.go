package services

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/ewanmcc/rostergen/internal/config"
	"github.com/ewanmcc/rostergen/pkg/core/scheduler"
	"github.com/ewanmcc/rostergen/pkg/db"
)

// toEngineRecords converts database availability rows into engine records
func toEngineRecords(records []db.Availability) ([]scheduler.AvailabilityRecord, error) {
	result := make([]scheduler.AvailabilityRecord, 0, len(records))
	for _, record := range records {
		date, err := time.Parse("2006-01-02", record.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid availability date %q: %w", record.Date, err)
		}
		start, err := config.ParseTimeOfDay(record.StartTime)
		if err != nil {
			return nil, fmt.Errorf("invalid availability start time: %w", err)
		}
		end, err := config.ParseTimeOfDay(record.EndTime)
		if err != nil {
			return nil, fmt.Errorf("invalid availability end time: %w", err)
		}

		result = append(result, scheduler.AvailabilityRecord{
			Person: record.Person,
			Date:   scheduler.Day(date),
			Start:  start,
			End:    end,
		})
	}
	return result, nil
}

// buildEngineConfig translates the application config into an engine config,
// expanding closure rules and demand override rules across [from, to].
func buildEngineConfig(cfg *config.Config, from, to time.Time) (scheduler.ScheduleConfig, error) {
	var engineCfg scheduler.ScheduleConfig

	opening, err := config.ParseTimeOfDay(cfg.OpeningTime)
	if err != nil {
		return engineCfg, fmt.Errorf("invalid openingTime: %w", err)
	}
	closing, err := config.ParseTimeOfDay(cfg.ClosingTime)
	if err != nil {
		return engineCfg, fmt.Errorf("invalid closingTime: %w", err)
	}
	shiftLength, err := time.ParseDuration(cfg.ShiftLength)
	if err != nil {
		return engineCfg, fmt.Errorf("invalid shiftLength: %w", err)
	}

	closedDays := make(map[time.Weekday]bool, len(cfg.ClosedDays))
	for _, name := range cfg.ClosedDays {
		day, err := config.ParseWeekday(name)
		if err != nil {
			return engineCfg, fmt.Errorf("invalid closed day: %w", err)
		}
		closedDays[day] = true
	}

	closedDates, err := expandClosureRules(cfg.ClosureRules, from, to)
	if err != nil {
		return engineCfg, err
	}

	overrides, err := convertDemandOverrides(cfg.DemandOverrides, from, to)
	if err != nil {
		return engineCfg, err
	}

	engineCfg = scheduler.ScheduleConfig{
		OpeningTime:      opening,
		ClosingTime:      closing,
		ShiftLength:      shiftLength,
		PeoplePerShift:   cfg.PeoplePerShift,
		ClosedDaysOfWeek: closedDays,
		ClosedDates:      closedDates,
		DemandOverrides:  overrides,
	}
	return engineCfg, nil
}

// expandClosureRules materializes each closure rrule into concrete closed
// dates within the scheduling range, with a week of buffer on either side.
func expandClosureRules(rules []string, from, to time.Time) ([]time.Time, error) {
	var closedDates []time.Time
	searchStart := from.AddDate(0, 0, -7)
	searchEnd := to.AddDate(0, 0, 7)

	for i, raw := range rules {
		rule, err := rrule.StrToRRule(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse closure rule %d: %w", i, err)
		}
		rule.DTStart(searchStart)

		for _, occurrence := range rule.Between(searchStart, searchEnd, true) {
			closedDates = append(closedDates, scheduler.Day(occurrence))
		}
	}
	return closedDates, nil
}

// convertDemandOverrides turns configured rrule overrides into engine
// overrides whose AppliesTo closures match dates by day
func convertDemandOverrides(configOverrides []config.DemandOverride, from, to time.Time) ([]scheduler.DemandOverride, error) {
	result := make([]scheduler.DemandOverride, 0, len(configOverrides))
	searchStart := from.AddDate(0, 0, -7)
	searchEnd := to.AddDate(0, 0, 7)

	for i, override := range configOverrides {
		rule, err := rrule.StrToRRule(override.RRule)
		if err != nil {
			return nil, fmt.Errorf("failed to parse rrule for override %d: %w", i, err)
		}
		rule.DTStart(searchStart)

		// Materialize matching days up front so the closure is a map lookup
		matches := make(map[string]bool)
		for _, occurrence := range rule.Between(searchStart, searchEnd, true) {
			matches[occurrence.Format("2006-01-02")] = true
		}

		appliesTo := func(date time.Time) bool {
			return matches[date.Format("2006-01-02")]
		}

		result = append(result, scheduler.DemandOverride{
			AppliesTo:      appliesTo,
			PeoplePerShift: override.PeoplePerShift,
		})
	}
	return result, nil
}

// formatTimeOfDay renders an offset from midnight as a HH:MM clock time
func formatTimeOfDay(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ewanmcc/rostergen/internal/config"
	"github.com/ewanmcc/rostergen/pkg/core/scheduler"
	"github.com/ewanmcc/rostergen/pkg/db"
)

// GenerateScheduleResult represents the outcome of a schedule generation run
type GenerateScheduleResult struct {
	Roster    *db.Roster
	Schedule  *scheduler.ScheduleResult
	Committed bool
}

// GenerateSchedule builds a roster for every date with availability in
// [from, to] and persists it. A roster with unfilled shifts is not persisted
// unless forceCommit is set; dryRun skips persistence entirely.
func GenerateSchedule(ctx context.Context, store db.Store, cfg *config.Config, logger *zap.Logger, from, to time.Time, dryRun, forceCommit bool) (*GenerateScheduleResult, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("invalid range: %s is before %s", to.Format("2006-01-02"), from.Format("2006-01-02"))
	}

	logger.Info("Generating schedule",
		zap.String("from", from.Format("2006-01-02")),
		zap.String("to", to.Format("2006-01-02")),
		zap.Bool("dry_run", dryRun),
		zap.Bool("force_commit", forceCommit))

	// Fetch availability for the range
	logger.Debug("Fetching availability records")
	rows, err := store.GetAvailability(ctx, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch availability: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no availability recorded between %s and %s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	}
	logger.Debug("Found availability records", zap.Int("count", len(rows)))

	records, err := toEngineRecords(rows)
	if err != nil {
		return nil, err
	}

	engineCfg, err := buildEngineConfig(cfg, from, to)
	if err != nil {
		return nil, err
	}

	// Run the scheduling engine
	schedule, err := scheduler.New(logger).Generate(records, engineCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to generate schedule: %w", err)
	}

	roster, shifts, assignments := assembleRosterRecords(schedule, from, to)

	complete := !schedule.HasUnfilledShifts()
	committed := false
	switch {
	case dryRun:
		logger.Info("Dry run, not persisting roster")
	case !complete && !forceCommit:
		logger.Warn("Roster has unfilled shifts, not persisting (use force to override)",
			zap.Int("understaffed", schedule.UnderstaffedShifts))
	default:
		if err := store.InsertRoster(ctx, roster, shifts, assignments); err != nil {
			return nil, fmt.Errorf("failed to persist roster: %w", err)
		}
		committed = true
		logger.Info("Roster persisted",
			zap.String("roster_id", roster.ID),
			zap.Int("shift_count", roster.ShiftCount))
	}

	return &GenerateScheduleResult{
		Roster:    roster,
		Schedule:  schedule,
		Committed: committed,
	}, nil
}

// assembleRosterRecords flattens an engine result into database records
func assembleRosterRecords(schedule *scheduler.ScheduleResult, from, to time.Time) (*db.Roster, []db.RosterShift, []db.RosterAssignment) {
	roster := &db.Roster{
		ID:           uuid.New().String(),
		FromDate:     from.Format("2006-01-02"),
		ToDate:       to.Format("2006-01-02"),
		ShiftCount:   len(schedule.Shifts),
		Understaffed: schedule.UnderstaffedShifts,
		GeneratedAt:  time.Now().UTC().Format(time.RFC3339),
	}

	shifts := make([]db.RosterShift, 0, len(schedule.Shifts))
	var assignments []db.RosterAssignment
	for _, shift := range schedule.Shifts {
		shifts = append(shifts, db.RosterShift{
			ID:           shift.ID.String(),
			RosterID:     roster.ID,
			ShiftDate:    shift.Date.Format("2006-01-02"),
			StartTime:    formatTimeOfDay(shift.Start),
			EndTime:      formatTimeOfDay(shift.End),
			PeopleNeeded: shift.PeopleNeeded,
		})

		for _, person := range shift.AssignedPeople {
			assignments = append(assignments, db.RosterAssignment{
				ID:      uuid.New().String(),
				ShiftID: shift.ID.String(),
				Person:  person,
			})
		}
	}

	return roster, shifts, assignments
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ewanmcc/rostergen/pkg/db"
)

// GetLatestRoster returns the most recently generated roster, or nil when no
// roster has been generated yet.
func (d *DB) GetLatestRoster(ctx context.Context) (*db.Roster, error) {
	var roster db.Roster
	var fromDate, toDate time.Time
	var generatedAt time.Time
	err := d.pool.QueryRow(ctx, `
		SELECT id, from_date, to_date, shift_count, understaffed, generated_at
		FROM roster
		ORDER BY generated_at DESC
		LIMIT 1
	`).Scan(&roster.ID, &fromDate, &toDate, &roster.ShiftCount, &roster.Understaffed, &generatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest roster: %w", err)
	}

	roster.FromDate = fromDate.Format("2006-01-02")
	roster.ToDate = toDate.Format("2006-01-02")
	roster.GeneratedAt = generatedAt.UTC().Format(time.RFC3339)
	return &roster, nil
}

// GetRosterShifts retrieves all shifts belonging to a roster
func (d *DB) GetRosterShifts(ctx context.Context, rosterID string) ([]db.RosterShift, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, roster_id, shift_date, start_time, end_time, people_needed
		FROM roster_shift
		WHERE roster_id = $1
		ORDER BY shift_date, start_time
	`, rosterID)
	if err != nil {
		return nil, fmt.Errorf("failed to query roster shifts: %w", err)
	}
	defer rows.Close()

	var shifts []db.RosterShift
	for rows.Next() {
		var shift db.RosterShift
		var date time.Time
		if err := rows.Scan(&shift.ID, &shift.RosterID, &date, &shift.StartTime, &shift.EndTime, &shift.PeopleNeeded); err != nil {
			return nil, fmt.Errorf("failed to scan roster shift: %w", err)
		}
		shift.ShiftDate = date.Format("2006-01-02")
		shifts = append(shifts, shift)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roster shifts: %w", err)
	}

	return shifts, nil
}

// GetRosterAssignments retrieves all assignments across a roster's shifts
func (d *DB) GetRosterAssignments(ctx context.Context, rosterID string) ([]db.RosterAssignment, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT a.id, a.shift_id, a.person
		FROM roster_assignment a
		JOIN roster_shift s ON s.id = a.shift_id
		WHERE s.roster_id = $1
		ORDER BY s.shift_date, s.start_time, a.person
	`, rosterID)
	if err != nil {
		return nil, fmt.Errorf("failed to query roster assignments: %w", err)
	}
	defer rows.Close()

	var assignments []db.RosterAssignment
	for rows.Next() {
		var assignment db.RosterAssignment
		if err := rows.Scan(&assignment.ID, &assignment.ShiftID, &assignment.Person); err != nil {
			return nil, fmt.Errorf("failed to scan roster assignment: %w", err)
		}
		assignments = append(assignments, assignment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roster assignments: %w", err)
	}

	return assignments, nil
}

// InsertRoster inserts a roster with its shifts and assignments in a single
// transaction, so a failed write never leaves a partial roster behind.
func (d *DB) InsertRoster(ctx context.Context, roster *db.Roster, shifts []db.RosterShift, assignments []db.RosterAssignment) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO roster (id, from_date, to_date, shift_count, understaffed, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, roster.ID, roster.FromDate, roster.ToDate, roster.ShiftCount, roster.Understaffed, roster.GeneratedAt)
	if err != nil {
		return fmt.Errorf("failed to insert roster: %w", err)
	}

	for _, shift := range shifts {
		_, err := tx.Exec(ctx, `
			INSERT INTO roster_shift (id, roster_id, shift_date, start_time, end_time, people_needed)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, shift.ID, shift.RosterID, shift.ShiftDate, shift.StartTime, shift.EndTime, shift.PeopleNeeded)
		if err != nil {
			return fmt.Errorf("failed to insert roster shift: %w", err)
		}
	}

	for _, assignment := range assignments {
		_, err := tx.Exec(ctx, `
			INSERT INTO roster_assignment (id, shift_id, person)
			VALUES ($1, $2, $3)
		`, assignment.ID, assignment.ShiftID, assignment.Person)
		if err != nil {
			return fmt.Errorf("failed to insert roster assignment: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/ewanmcc/rostergen/pkg/db"
)

// GetAvailability retrieves availability records with dates in [from, to],
// both formatted 2006-01-02.
func (d *DB) GetAvailability(ctx context.Context, from, to string) ([]db.Availability, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, person, date, start_time, end_time
		FROM availability
		WHERE date >= $1 AND date <= $2
		ORDER BY date, person, start_time
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query availability: %w", err)
	}
	defer rows.Close()

	var records []db.Availability
	for rows.Next() {
		var record db.Availability
		var date time.Time
		if err := rows.Scan(&record.ID, &record.Person, &date, &record.StartTime, &record.EndTime); err != nil {
			return nil, fmt.Errorf("failed to scan availability: %w", err)
		}
		record.Date = date.Format("2006-01-02")
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating availability: %w", err)
	}

	return records, nil
}

// InsertAvailability inserts availability records in a single transaction
func (d *DB) InsertAvailability(ctx context.Context, records []db.Availability) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, record := range records {
		_, err := tx.Exec(ctx, `
			INSERT INTO availability (id, person, date, start_time, end_time)
			VALUES ($1, $2, $3, $4, $5)
		`, record.ID, record.Person, record.Date, record.StartTime, record.EndTime)
		if err != nil {
			return fmt.Errorf("failed to insert availability: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

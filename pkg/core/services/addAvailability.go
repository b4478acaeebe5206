package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ewanmcc/rostergen/internal/config"
	"github.com/ewanmcc/rostergen/pkg/db"
)

// AddAvailability records one free window for a person on a date. The date is
// formatted 2006-01-02 and the times HH:MM.
func AddAvailability(ctx context.Context, store db.AvailabilityStore, logger *zap.Logger, person, date, startTime, endTime string) (*db.Availability, error) {
	if person == "" {
		return nil, fmt.Errorf("person must not be empty")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}
	start, err := config.ParseTimeOfDay(startTime)
	if err != nil {
		return nil, fmt.Errorf("invalid start time: %w", err)
	}
	end, err := config.ParseTimeOfDay(endTime)
	if err != nil {
		return nil, fmt.Errorf("invalid end time: %w", err)
	}
	if end <= start {
		return nil, fmt.Errorf("end time %s must be after start time %s", endTime, startTime)
	}

	record := &db.Availability{
		ID:        uuid.New().String(),
		Person:    person,
		Date:      date,
		StartTime: startTime,
		EndTime:   endTime,
	}

	logger.Info("Recording availability",
		zap.String("person", person),
		zap.String("date", date),
		zap.String("start", startTime),
		zap.String("end", endTime))

	if err := store.InsertAvailability(ctx, []db.Availability{*record}); err != nil {
		return nil, fmt.Errorf("failed to insert availability: %w", err)
	}

	return record, nil
}

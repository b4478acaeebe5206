package db

import "context"

// AvailabilityStore defines the interface for availability database operations
type AvailabilityStore interface {
	GetAvailability(ctx context.Context, from, to string) ([]Availability, error)
	InsertAvailability(ctx context.Context, records []Availability) error
}

// Store combines every database operation the services use
type Store interface {
	AvailabilityStore
	RosterStore
}

// RosterStore defines the interface for roster database operations
type RosterStore interface {
	GetLatestRoster(ctx context.Context) (*Roster, error)
	GetRosterShifts(ctx context.Context, rosterID string) ([]RosterShift, error)
	GetRosterAssignments(ctx context.Context, rosterID string) ([]RosterAssignment, error)
	InsertRoster(ctx context.Context, roster *Roster, shifts []RosterShift, assignments []RosterAssignment) error
}

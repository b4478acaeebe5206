package db

// Availability represents a database availability record. One person can have
// several records on the same date, one per free window.
type Availability struct {
	ID        string
	Person    string
	Date      string // 2006-01-02
	StartTime string // 15:04
	EndTime   string // 15:04
}

// Roster represents a generated roster record
type Roster struct {
	ID           string
	FromDate     string // 2006-01-02
	ToDate       string // 2006-01-02
	ShiftCount   int
	Understaffed int
	GeneratedAt  string // RFC3339
}

// RosterShift represents a single shift within a roster
type RosterShift struct {
	ID           string
	RosterID     string
	ShiftDate    string // 2006-01-02
	StartTime    string // 15:04
	EndTime      string // 15:04
	PeopleNeeded int
}

// RosterAssignment represents one person assigned to a roster shift
type RosterAssignment struct {
	ID      string
	ShiftID string
	Person  string
}

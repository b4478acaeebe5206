package scheduler

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDate(day int) time.Time {
	return time.Date(2024, time.June, day, 0, 0, 0, 0, time.UTC)
}

func testAvail(person string, date time.Time, start, end time.Duration) AvailabilityRecord {
	return AvailabilityRecord{Person: person, Date: date, Start: start, End: end}
}

func testConfig(shiftLength time.Duration, peoplePerShift int) ScheduleConfig {
	return ScheduleConfig{
		OpeningTime:    9 * time.Hour,
		ClosingTime:    17 * time.Hour,
		ShiftLength:    shiftLength,
		PeoplePerShift: peoplePerShift,
	}
}

// newTestScheduler builds a scheduler with initialized state for exercising
// individual phases directly.
func newTestScheduler(records []AvailabilityRecord, shifts []*Shift) *Scheduler {
	s := New(nil)
	s.index = newAvailabilityIndex(records)
	s.assignedHours = make(map[string]float64)
	s.personShifts = make(map[string]map[string][]*Shift)
	for _, person := range s.index.people {
		s.assignedHours[person] = 0
		s.personShifts[person] = make(map[string][]*Shift)
	}
	markShiftPositions(shifts)
	s.indexShiftsByDate(shifts)
	return s
}

func testShift(date time.Time, start, end time.Duration, peopleNeeded int) *Shift {
	return &Shift{
		ID:             uuid.New(),
		Date:           date,
		Start:          start,
		End:            end,
		PeopleNeeded:   peopleNeeded,
		AssignedPeople: []string{},
	}
}

func TestGenerate_SinglePersonFullDay(t *testing.T) {
	// One person covering the whole window gets both 4h shifts.
	records := []AvailabilityRecord{
		testAvail("ana", testDate(3), 9*time.Hour, 17*time.Hour),
	}

	result, err := New(nil).Generate(records, testConfig(4*time.Hour, 1))
	require.NoError(t, err)

	require.Len(t, result.Shifts, 2)
	assert.Equal(t, []string{"ana"}, result.Shifts[0].AssignedPeople)
	assert.Equal(t, []string{"ana"}, result.Shifts[1].AssignedPeople)
	assert.False(t, result.HasUnfilledShifts())
	assert.Equal(t, map[string]float64{"ana": 8}, result.AssignedHours())
}

func TestGenerate_ClippedLastShiftAssigned(t *testing.T) {
	// 8h window with 3h shifts: 3h, 3h and a clipped 2h shift, all covered.
	records := []AvailabilityRecord{
		testAvail("ana", testDate(3), 9*time.Hour, 17*time.Hour),
	}

	result, err := New(nil).Generate(records, testConfig(3*time.Hour, 1))
	require.NoError(t, err)

	require.Len(t, result.Shifts, 3)
	assert.Equal(t, 3*time.Hour, result.Shifts[0].End-result.Shifts[0].Start)
	assert.Equal(t, 3*time.Hour, result.Shifts[1].End-result.Shifts[1].Start)
	assert.Equal(t, 2*time.Hour, result.Shifts[2].End-result.Shifts[2].Start)
	for _, shift := range result.Shifts {
		assert.Equal(t, []string{"ana"}, shift.AssignedPeople)
	}
	assert.False(t, result.HasUnfilledShifts())
}

func TestGenerate_UnderCoverageReportedNotErrored(t *testing.T) {
	// One shift needing two people with a single full-cover candidate ends
	// at 1/2 and flags the roster, without an error.
	cfg := ScheduleConfig{
		OpeningTime:    9 * time.Hour,
		ClosingTime:    13 * time.Hour,
		ShiftLength:    4 * time.Hour,
		PeoplePerShift: 2,
	}
	records := []AvailabilityRecord{
		testAvail("ana", testDate(3), 9*time.Hour, 13*time.Hour),
		testAvail("ben", testDate(3), 9*time.Hour, 11*time.Hour), // can't cover the full shift
	}

	result, err := New(nil).Generate(records, cfg)
	require.NoError(t, err)

	require.Len(t, result.Shifts, 1)
	assert.Equal(t, []string{"ana"}, result.Shifts[0].AssignedPeople)
	assert.True(t, result.HasUnfilledShifts())
}

func TestGenerate_InvalidConfig(t *testing.T) {
	records := []AvailabilityRecord{
		testAvail("ana", testDate(3), 9*time.Hour, 17*time.Hour),
	}

	cases := map[string]ScheduleConfig{
		"closing before opening": {
			OpeningTime: 17 * time.Hour, ClosingTime: 9 * time.Hour,
			ShiftLength: 4 * time.Hour, PeoplePerShift: 1,
		},
		"zero shift length": {
			OpeningTime: 9 * time.Hour, ClosingTime: 17 * time.Hour,
			ShiftLength: 0, PeoplePerShift: 1,
		},
		"zero people per shift": {
			OpeningTime: 9 * time.Hour, ClosingTime: 17 * time.Hour,
			ShiftLength: 4 * time.Hour, PeoplePerShift: 0,
		},
	}

	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			result, err := New(nil).Generate(records, cfg)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	records := []AvailabilityRecord{
		testAvail("ana", testDate(3), 9*time.Hour, 17*time.Hour),
		testAvail("ben", testDate(3), 9*time.Hour, 17*time.Hour),
		testAvail("cora", testDate(3), 9*time.Hour, 13*time.Hour),
		testAvail("ana", testDate(4), 9*time.Hour, 13*time.Hour),
		testAvail("ben", testDate(4), 13*time.Hour, 17*time.Hour),
		testAvail("cora", testDate(4), 9*time.Hour, 17*time.Hour),
		testAvail("dev", testDate(5), 9*time.Hour, 17*time.Hour),
	}
	cfg := testConfig(4*time.Hour, 2)

	first, err := New(nil).Generate(records, cfg)
	require.NoError(t, err)
	second, err := New(nil).Generate(records, cfg)
	require.NoError(t, err)

	require.Equal(t, len(first.Shifts), len(second.Shifts))
	for i := range first.Shifts {
		assert.Equal(t, first.Shifts[i].Date, second.Shifts[i].Date)
		assert.Equal(t, first.Shifts[i].Start, second.Shifts[i].Start)
		assert.Equal(t, first.Shifts[i].AssignedPeople, second.Shifts[i].AssignedPeople,
			"assignments differ for shift %d", i)
	}
	assert.Equal(t, first.UnderstaffedShifts, second.UnderstaffedShifts)
}

func TestGenerate_RosterInvariants(t *testing.T) {
	// A denser week: every roster must honor availability, never double-book
	// a person within a day, and account hours exactly.
	records := []AvailabilityRecord{
		testAvail("ana", testDate(3), 9*time.Hour, 17*time.Hour),
		testAvail("ben", testDate(3), 9*time.Hour, 13*time.Hour),
		testAvail("cora", testDate(3), 13*time.Hour, 17*time.Hour),
		testAvail("ana", testDate(4), 9*time.Hour, 13*time.Hour),
		testAvail("ben", testDate(4), 9*time.Hour, 17*time.Hour),
		testAvail("cora", testDate(4), 9*time.Hour, 17*time.Hour),
		testAvail("dev", testDate(5), 9*time.Hour, 12*time.Hour),
		testAvail("dev", testDate(5), 13*time.Hour, 17*time.Hour),
		testAvail("ana", testDate(5), 9*time.Hour, 17*time.Hour),
	}
	cfg := testConfig(2*time.Hour, 2)

	result, err := New(nil).Generate(records, cfg)
	require.NoError(t, err)

	index := newAvailabilityIndex(records)

	byPersonDay := make(map[string][]*Shift)
	for _, shift := range result.Shifts {
		seen := make(map[string]bool)
		for _, person := range shift.AssignedPeople {
			assert.False(t, seen[person], "duplicate assignment on one shift")
			seen[person] = true

			assert.True(t, index.isAvailable(person, shift),
				"%s assigned to %s %s outside availability", person, dayKey(shift.Date), shift.Start)

			key := person + "|" + dayKey(shift.Date)
			for _, other := range byPersonDay[key] {
				overlaps := other.Start < shift.End && other.End > shift.Start
				assert.False(t, overlaps, "%s double-booked on %s", person, dayKey(shift.Date))
			}
			byPersonDay[key] = append(byPersonDay[key], shift)
		}
	}

	// Hour accounting: derived totals match per-shift membership.
	hours := result.AssignedHours()
	recomputed := make(map[string]float64)
	for _, shift := range result.Shifts {
		for _, person := range shift.AssignedPeople {
			recomputed[person] += shift.DurationHours()
		}
	}
	assert.Equal(t, recomputed, hours)
}

func TestGenerate_FairnessRespectsAvailability(t *testing.T) {
	// X declares 40h, Y only 8h; Y must not be pushed past their declared
	// hours and still gets the shifts they can cover.
	var records []AvailabilityRecord
	for day := 3; day <= 7; day++ {
		records = append(records, testAvail("xena", testDate(day), 9*time.Hour, 17*time.Hour))
	}
	records = append(records,
		testAvail("yuri", testDate(3), 9*time.Hour, 13*time.Hour),
		testAvail("yuri", testDate(4), 9*time.Hour, 13*time.Hour),
	)

	result, err := New(nil).Generate(records, testConfig(4*time.Hour, 1))
	require.NoError(t, err)

	hours := result.AssignedHours()
	assert.LessOrEqual(t, hours["yuri"], 8.0)
	assert.Greater(t, hours["yuri"], 0.0)
	assert.False(t, result.HasUnfilledShifts())
	assert.Equal(t, 32.0, hours["xena"])
	assert.Equal(t, 8.0, hours["yuri"])
}

func TestExtendBackToBack_ExtendsContiguousBlock(t *testing.T) {
	day := testDate(3)
	records := []AvailabilityRecord{
		testAvail("ana", day, 9*time.Hour, 15*time.Hour),
	}
	s1 := testShift(day, 9*time.Hour, 11*time.Hour, 1)
	s2 := testShift(day, 11*time.Hour, 13*time.Hour, 1)
	s3 := testShift(day, 13*time.Hour, 15*time.Hour, 1)

	s := newTestScheduler(records, []*Shift{s1, s2, s3})
	s.assign("ana", s1)

	s.extendBackToBack()

	assert.Equal(t, []string{"ana"}, s2.AssignedPeople)
	assert.Equal(t, []string{"ana"}, s3.AssignedPeople)
}

func TestExtendBackToBack_SkipsWhenBlockDoesNotReachBack(t *testing.T) {
	// ben holds only the middle shift; extending him forward would ride on
	// top of the gap before it, so the pass leaves him alone.
	day := testDate(3)
	records := []AvailabilityRecord{
		testAvail("ben", day, 9*time.Hour, 15*time.Hour),
	}
	s1 := testShift(day, 9*time.Hour, 11*time.Hour, 1)
	s2 := testShift(day, 11*time.Hour, 13*time.Hour, 1)
	s3 := testShift(day, 13*time.Hour, 15*time.Hour, 1)

	s := newTestScheduler(records, []*Shift{s1, s2, s3})
	s.assign("ben", s2)

	s.extendBackToBack()

	assert.Empty(t, s3.AssignedPeople)
}

func TestHasOverlap(t *testing.T) {
	day := testDate(3)
	records := []AvailabilityRecord{
		testAvail("ana", day, 9*time.Hour, 17*time.Hour),
	}
	held := testShift(day, 9*time.Hour, 13*time.Hour, 1)
	s := newTestScheduler(records, []*Shift{held})
	s.assign("ana", held)

	overlapping := testShift(day, 11*time.Hour, 15*time.Hour, 1)
	adjacent := testShift(day, 13*time.Hour, 17*time.Hour, 1)

	assert.True(t, s.hasOverlap("ana", overlapping))
	assert.False(t, s.hasOverlap("ana", adjacent))
}

func TestWouldCreateSplitShift(t *testing.T) {
	day := testDate(3)
	records := []AvailabilityRecord{
		testAvail("ana", day, 9*time.Hour, 17*time.Hour),
	}
	held := testShift(day, 9*time.Hour, 11*time.Hour, 1)
	s := newTestScheduler(records, []*Shift{held})

	gapped := testShift(day, 13*time.Hour, 15*time.Hour, 1)
	adjacent := testShift(day, 11*time.Hour, 13*time.Hour, 1)

	// No shifts held yet: nothing can split.
	assert.False(t, s.wouldCreateSplitShift("ana", gapped))

	s.assign("ana", held)
	assert.True(t, s.wouldCreateSplitShift("ana", gapped))
	assert.False(t, s.wouldCreateSplitShift("ana", adjacent))
}

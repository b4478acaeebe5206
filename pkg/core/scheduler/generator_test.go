package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateShifts_TilesWindowExactly(t *testing.T) {
	records := []AvailabilityRecord{
		testAvail("ana", testDate(3), 9*time.Hour, 17*time.Hour),
	}

	shifts := generateShifts(records, testConfig(4*time.Hour, 1))

	require.Len(t, shifts, 2)
	assert.Equal(t, 9*time.Hour, shifts[0].Start)
	assert.Equal(t, 13*time.Hour, shifts[0].End)
	assert.Equal(t, 13*time.Hour, shifts[1].Start)
	assert.Equal(t, 17*time.Hour, shifts[1].End)
}

func TestGenerateShifts_ClipsLastShift(t *testing.T) {
	records := []AvailabilityRecord{
		testAvail("ana", testDate(3), 9*time.Hour, 17*time.Hour),
	}

	shifts := generateShifts(records, testConfig(3*time.Hour, 1))

	require.Len(t, shifts, 3)
	// The window tiles with no gaps and only the last shift is short.
	assert.Equal(t, 9*time.Hour, shifts[0].Start)
	for i := 1; i < len(shifts); i++ {
		assert.Equal(t, shifts[i-1].End, shifts[i].Start)
	}
	assert.Equal(t, 17*time.Hour, shifts[2].End)
	assert.Equal(t, 2*time.Hour, shifts[2].End-shifts[2].Start)
}

func TestGenerateShifts_MultipleDatesSortedAscending(t *testing.T) {
	records := []AvailabilityRecord{
		testAvail("ana", testDate(5), 9*time.Hour, 17*time.Hour),
		testAvail("ben", testDate(3), 9*time.Hour, 17*time.Hour),
	}

	shifts := generateShifts(records, testConfig(4*time.Hour, 1))

	require.Len(t, shifts, 4)
	assert.Equal(t, testDate(3), shifts[0].Date)
	assert.Equal(t, testDate(3), shifts[1].Date)
	assert.Equal(t, testDate(5), shifts[2].Date)
	assert.Equal(t, testDate(5), shifts[3].Date)
}

func TestGenerateShifts_SkipsClosedWeekdays(t *testing.T) {
	// June 2nd 2024 is a Sunday.
	records := []AvailabilityRecord{
		testAvail("ana", testDate(2), 9*time.Hour, 17*time.Hour),
		testAvail("ana", testDate(3), 9*time.Hour, 17*time.Hour),
	}
	cfg := testConfig(4*time.Hour, 1)
	cfg.ClosedDaysOfWeek = map[time.Weekday]bool{time.Sunday: true}

	shifts := generateShifts(records, cfg)

	require.Len(t, shifts, 2)
	for _, shift := range shifts {
		assert.Equal(t, testDate(3), shift.Date)
	}
}

func TestGenerateShifts_SkipsClosedDates(t *testing.T) {
	records := []AvailabilityRecord{
		testAvail("ana", testDate(3), 9*time.Hour, 17*time.Hour),
		testAvail("ana", testDate(4), 9*time.Hour, 17*time.Hour),
	}
	cfg := testConfig(4*time.Hour, 1)
	cfg.ClosedDates = []time.Time{testDate(4)}

	shifts := generateShifts(records, cfg)

	require.Len(t, shifts, 2)
	for _, shift := range shifts {
		assert.Equal(t, testDate(3), shift.Date)
	}
}

func TestGenerateShifts_AppliesDemandOverride(t *testing.T) {
	records := []AvailabilityRecord{
		testAvail("ana", testDate(3), 9*time.Hour, 17*time.Hour),
		testAvail("ana", testDate(4), 9*time.Hour, 17*time.Hour),
	}
	three := 3
	cfg := testConfig(4*time.Hour, 1)
	cfg.DemandOverrides = []DemandOverride{{
		AppliesTo:      func(date time.Time) bool { return date.Equal(testDate(4)) },
		PeoplePerShift: &three,
	}}

	shifts := generateShifts(records, cfg)

	require.Len(t, shifts, 4)
	assert.Equal(t, 1, shifts[0].PeopleNeeded)
	assert.Equal(t, 1, shifts[1].PeopleNeeded)
	assert.Equal(t, 3, shifts[2].PeopleNeeded)
	assert.Equal(t, 3, shifts[3].PeopleNeeded)
}

func TestMarkShiftPositions(t *testing.T) {
	records := []AvailabilityRecord{
		testAvail("ana", testDate(3), 9*time.Hour, 17*time.Hour),
	}
	shifts := generateShifts(records, testConfig(3*time.Hour, 1))
	markShiftPositions(shifts)

	require.Len(t, shifts, 3)
	assert.Equal(t, 0, shifts[0].PositionInDay)
	assert.True(t, shifts[0].IsFirstOfDay)
	assert.False(t, shifts[0].IsLastOfDay)
	assert.Equal(t, 1, shifts[1].PositionInDay)
	assert.False(t, shifts[1].IsFirstOfDay)
	assert.False(t, shifts[1].IsLastOfDay)
	assert.Equal(t, 2, shifts[2].PositionInDay)
	assert.False(t, shifts[2].IsFirstOfDay)
	assert.True(t, shifts[2].IsLastOfDay)
}

func TestMarkShiftPositions_SingleShiftIsFirstAndLast(t *testing.T) {
	records := []AvailabilityRecord{
		testAvail("ana", testDate(3), 9*time.Hour, 17*time.Hour),
	}
	shifts := generateShifts(records, testConfig(8*time.Hour, 1))
	markShiftPositions(shifts)

	require.Len(t, shifts, 1)
	assert.True(t, shifts[0].IsFirstOfDay)
	assert.True(t, shifts[0].IsLastOfDay)
}

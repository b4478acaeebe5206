package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_SplitShiftVacated(t *testing.T) {
	// xena is only free 9-12 and 13-17; with 2h shifts she would end up with a
	// gap between 9-11 and 13-15. The earlier shift gets dropped instead, even
	// though nobody else picks it up.
	day := testDate(3)
	records := []AvailabilityRecord{
		testAvail("xena", day, 9*time.Hour, 12*time.Hour),
		testAvail("xena", day, 13*time.Hour, 17*time.Hour),
		testAvail("yuri", day, 9*time.Hour, 17*time.Hour),
	}

	result, err := New(nil).Generate(records, testConfig(2*time.Hour, 1))
	require.NoError(t, err)
	require.Len(t, result.Shifts, 4)

	for _, shift := range result.Shifts {
		if !shift.HasAssigned("xena") {
			continue
		}
		assert.GreaterOrEqual(t, shift.Start, 13*time.Hour,
			"xena should only hold the contiguous afternoon block")
	}

	first := result.Shifts[0]
	assert.Equal(t, 9*time.Hour, first.Start)
	assert.Empty(t, first.AssignedPeople)
	assert.True(t, result.HasUnfilledShifts())
}

func TestCanRemoveShift_StaffingSurvives(t *testing.T) {
	day := testDate(3)
	records := []AvailabilityRecord{
		testAvail("ana", day, 9*time.Hour, 17*time.Hour),
		testAvail("ben", day, 9*time.Hour, 17*time.Hour),
	}
	shift := testShift(day, 9*time.Hour, 13*time.Hour, 1)

	s := newTestScheduler(records, []*Shift{shift})
	s.assign("ana", shift)
	s.assign("ben", shift)

	assert.True(t, s.canRemoveShift("ana", shift))
}

func TestCanRemoveShift_AlternativeCandidateExists(t *testing.T) {
	// Removing ana drops the shift below target, but ben is free and holds
	// nothing that day, so the slot is still coverable.
	day := testDate(3)
	records := []AvailabilityRecord{
		testAvail("ana", day, 9*time.Hour, 17*time.Hour),
		testAvail("ben", day, 9*time.Hour, 17*time.Hour),
	}
	shift := testShift(day, 9*time.Hour, 13*time.Hour, 1)

	s := newTestScheduler(records, []*Shift{shift})
	s.assign("ana", shift)

	assert.True(t, s.canRemoveShift("ana", shift))
}

func TestCanRemoveShift_NoCoverRefused(t *testing.T) {
	// ben's only other assignment that day is not adjacent, so stepping in
	// would give him a gap of his own; the removal is refused.
	day := testDate(3)
	records := []AvailabilityRecord{
		testAvail("ana", day, 9*time.Hour, 17*time.Hour),
		testAvail("ben", day, 9*time.Hour, 17*time.Hour),
	}
	shift := testShift(day, 9*time.Hour, 11*time.Hour, 1)
	late := testShift(day, 15*time.Hour, 17*time.Hour, 1)

	s := newTestScheduler(records, []*Shift{shift, late})
	s.assign("ana", shift)
	s.assign("ben", late)

	assert.False(t, s.canRemoveShift("ana", shift))
}

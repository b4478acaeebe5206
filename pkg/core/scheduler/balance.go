package scheduler

import (
	"sort"

	"go.uber.org/zap"
)

// maxBalancingRounds caps the phase 4 loop.
const maxBalancingRounds = 10

// overTargetBand marks people at or above this fraction of the target as
// transfer donors.
const overTargetBand = 0.9

// balanceHours is phase 4: flatten the weekly-hours distribution by moving
// shifts from over-utilized people to under-utilized ones, without breaking
// coverage or introducing splits. The target starts at the current maximum
// and is raised if a transfer pushes someone above it.
func (s *Scheduler) balanceHours(shifts []*Shift) {
	weekly := s.allWeeklyHours()
	if len(weekly) == 0 {
		s.logger.Debug("no hours to balance")
		return
	}

	target := 0.0
	for _, hours := range weekly {
		if hours > target {
			target = hours
		}
	}

	for round := 1; round <= maxBalancingRounds; round++ {
		improved := false

		below := s.peopleBy(weekly, func(hours float64) bool { return hours < target }, true)
		above := s.peopleBy(weekly, func(hours float64) bool { return hours >= target*overTargetBand }, false)

		s.logger.Debug("balancing round",
			zap.Int("round", round),
			zap.Float64("target_hours", target),
			zap.Int("below_target", len(below)),
			zap.Int("above_target", len(above)))

		for _, under := range below {
			for _, over := range above {
				if under == over {
					continue
				}
				if s.tryTransferShift(under, over, shifts) {
					improved = true
					break
				}
			}
			weekly = s.allWeeklyHours()
		}

		for _, hours := range weekly {
			if hours > target {
				target = hours
			}
		}

		if !improved {
			break
		}
	}
}

// peopleBy selects people whose weekly hours pass the filter, ordered by
// hours (ascending or descending) with a name tie-break.
func (s *Scheduler) peopleBy(weekly map[string]float64, keep func(float64) bool, ascending bool) []string {
	selected := make([]string, 0)
	for _, person := range s.index.people {
		if keep(weekly[person]) {
			selected = append(selected, person)
		}
	}
	sort.SliceStable(selected, func(i, j int) bool {
		hi, hj := weekly[selected[i]], weekly[selected[j]]
		if hi != hj {
			if ascending {
				return hi < hj
			}
			return hi > hj
		}
		return selected[i] < selected[j]
	})
	return selected
}

// tryTransferShift moves one shift from over to under: the shift must be one
// the under-person can fully cover without a gap, and staffed above one so
// removing the over-person doesn't break coverage. Longest shifts are tried
// first. Returns true on the first successful transfer.
func (s *Scheduler) tryTransferShift(under, over string, shifts []*Shift) bool {
	transferable := make([]*Shift, 0)
	for _, shift := range shifts {
		if !shift.HasAssigned(over) || shift.HasAssigned(under) {
			continue
		}
		if !s.index.isAvailable(under, shift) {
			continue
		}
		if !s.canAssignWithoutSplit(under, shift) {
			continue
		}
		transferable = append(transferable, shift)
	}
	sort.SliceStable(transferable, func(i, j int) bool {
		return transferable[i].DurationHours() > transferable[j].DurationHours()
	})

	for _, shift := range transferable {
		if len(shift.AssignedPeople) <= 1 {
			continue
		}
		if s.wouldCreateSplitShift(under, shift) {
			continue
		}

		s.removeAssignment(over, shift)
		s.assign(under, shift)
		s.logger.Debug("transferred shift",
			zap.String("from", over),
			zap.String("to", under),
			zap.Time("date", shift.Date),
			zap.Duration("start", shift.Start))
		return true
	}

	return false
}

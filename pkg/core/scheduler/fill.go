package scheduler

import (
	"sort"

	"go.uber.org/zap"
)

// Fairness score weights. Lower scores rank a candidate earlier.
const (
	// weightAssignedHours favors people with fewer hours already assigned.
	weightAssignedHours = 10

	// weightUtilization favors people whose declared availability is being
	// underused (assigned/available ratio).
	weightUtilization = 5

	// weightWeeklyHours is a lighter cumulative penalty that spreads work
	// across the week.
	weightWeeklyHours = 2
)

// fairnessScore ranks a candidate for a shift; lower is better.
func (s *Scheduler) fairnessScore(person string) float64 {
	assigned := s.assignedHours[person]
	available := s.index.totalAvailableHours(person)

	utilization := 1.0
	if available > 0 {
		utilization = assigned / available
	}

	return assigned*weightAssignedHours +
		utilization*weightUtilization +
		s.weeklyHours(person)*weightWeeklyHours
}

// fillRemainingShifts is phase 3: staff every shift still under target,
// scarcest first, recounting candidates live since phases 1-2 changed state.
// Last shifts of a day are filled by stacking the previous shift's people
// before anyone else is considered.
func (s *Scheduler) fillRemainingShifts(shifts []*Shift) {
	remaining := make([]*Shift, 0)
	for _, shift := range shifts {
		if !shift.IsFull() {
			remaining = append(remaining, shift)
		}
	}

	liveCounts := make(map[*Shift]int, len(remaining))
	for _, shift := range remaining {
		liveCounts[shift] = s.liveCandidateCount(shift)
	}
	sort.SliceStable(remaining, func(i, j int) bool {
		if liveCounts[remaining[i]] != liveCounts[remaining[j]] {
			return liveCounts[remaining[i]] < liveCounts[remaining[j]]
		}
		if remaining[i].IsLastOfDay != remaining[j].IsLastOfDay {
			return remaining[i].IsLastOfDay
		}
		return remaining[i].Start < remaining[j].Start
	})

	s.logger.Debug("shifts still needing staff", zap.Int("count", len(remaining)))

	for _, shift := range remaining {
		if shift.IsFull() {
			continue
		}

		if shift.IsLastOfDay {
			s.stackFromPreviousShift(shift)
		}
		if shift.IsFull() {
			continue
		}

		needed := shift.PeopleNeeded - len(shift.AssignedPeople)

		// Prefer people who wouldn't end up with a gap in their day.
		candidates := s.rankedCandidates(shift, func(person string) bool {
			return s.canAssignWithoutSplit(person, shift)
		})
		if len(candidates) > needed*2 {
			candidates = candidates[:needed*2]
		}

		// Not enough gap-free candidates: backfill from the full pool,
		// accepting split shifts.
		if len(candidates) < needed {
			inPool := make(map[string]bool, len(candidates))
			for _, person := range candidates {
				inPool[person] = true
			}
			backfill := s.rankedCandidates(shift, func(person string) bool {
				return !inPool[person] && s.canAssign(person, shift)
			})
			if len(backfill) > needed-len(candidates) {
				backfill = backfill[:needed-len(candidates)]
			}
			candidates = append(candidates, backfill...)
		}

		if len(candidates) > needed {
			candidates = candidates[:needed]
		}
		for _, person := range candidates {
			if shift.IsFull() {
				break
			}
			s.assign(person, shift)
		}

		if !shift.IsFull() {
			s.understaffed++
			s.logger.Debug("shift left understaffed",
				zap.Time("date", shift.Date),
				zap.Duration("start", shift.Start),
				zap.Int("assigned", len(shift.AssignedPeople)),
				zap.Int("needed", shift.PeopleNeeded))
		}
	}
}

// stackFromPreviousShift extends the people working the shift that ends where
// this one starts, keeping their day contiguous through closing.
func (s *Scheduler) stackFromPreviousShift(shift *Shift) {
	var previous *Shift
	for _, candidate := range s.shiftsByDate[dayKey(shift.Date)] {
		if candidate.End == shift.Start && len(candidate.AssignedPeople) > 0 {
			previous = candidate
			break
		}
	}
	if previous == nil {
		return
	}

	for _, person := range previous.AssignedPeople {
		if shift.IsFull() {
			break
		}
		if shift.HasAssigned(person) || !s.canAssign(person, shift) {
			continue
		}
		s.assign(person, shift)
		s.logger.Debug("stacked onto last shift",
			zap.String("person", person),
			zap.Time("date", shift.Date))
	}
}

// rankedCandidates returns the people passing the eligibility check, excluding
// those already on the shift, ordered by fairness score then name. Scores are
// snapshotted before sorting.
func (s *Scheduler) rankedCandidates(shift *Shift, eligible func(person string) bool) []string {
	candidates := make([]string, 0)
	scores := make(map[string]float64)
	for _, person := range s.index.people {
		if shift.HasAssigned(person) || !eligible(person) {
			continue
		}
		candidates = append(candidates, person)
		scores[person] = s.fairnessScore(person)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if scores[candidates[i]] != scores[candidates[j]] {
			return scores[candidates[i]] < scores[candidates[j]]
		}
		return candidates[i] < candidates[j]
	})
	return candidates
}

package scheduler

import "go.uber.org/zap"

// buildHitMap computes, for every shift, the people who are available and not
// double-booked. Split-shift risk is deliberately not filtered here; the
// hit-map measures raw scarcity, not desirability. It must run before any
// assignments are made.
func (s *Scheduler) buildHitMap(shifts []*Shift) []HitMapEntry {
	entries := make([]HitMapEntry, len(shifts))

	zeroCandidate := 0
	for i, shift := range shifts {
		candidates := make([]string, 0)
		for _, person := range s.index.people {
			if s.canAssign(person, shift) {
				candidates = append(candidates, person)
			}
		}
		entries[i] = HitMapEntry{
			Shift:          shift,
			Candidates:     candidates,
			CandidateCount: len(candidates),
		}
		if len(candidates) == 0 {
			zeroCandidate++
		}
	}

	if zeroCandidate > 0 {
		s.logger.Warn("shifts with no candidates", zap.Int("count", zeroCandidate))
	}
	s.logger.Debug("hit-map built", zap.Int("shifts", len(entries)))

	return entries
}

// liveCandidateCount recounts a shift's assignable people against current
// assignment state. Phase 3 uses this instead of the stale hit-map counts.
func (s *Scheduler) liveCandidateCount(shift *Shift) int {
	count := 0
	for _, person := range s.index.people {
		if s.canAssign(person, shift) {
			count++
		}
	}
	return count
}

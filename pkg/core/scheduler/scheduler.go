// Package scheduler generates a fully-specified roster from per-person
// availability records and a schedule configuration. Given the same inputs it
// always produces the same roster: the engine is a deterministic, explainable,
// priority-ordered heuristic, not an optimal-assignment solver. Under-coverage
// is reported as data on the result, never as an error.
package scheduler

import (
	"sort"

	"go.uber.org/zap"
)

// Scheduler runs one scheduling pass over a set of availability records. The
// zero value is not usable; construct with New. A Scheduler owns all of its
// run state, so independent runs can proceed concurrently as long as each has
// its own instance.
type Scheduler struct {
	logger *zap.Logger

	index *availabilityIndex

	// assignedHours is the running total of hours assigned per person.
	assignedHours map[string]float64

	// personShifts indexes assignments by person then day, ordered by
	// insertion. It backs the overlap and split-shift checks.
	personShifts map[string]map[string][]*Shift

	// shiftsByDate holds each day's shifts sorted by start time; dates lists
	// the day keys ascending.
	shiftsByDate map[string][]*Shift
	dates        []string

	understaffed int
}

// New returns a Scheduler that logs through the given logger. A nil logger
// disables logging.
func New(logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{logger: logger}
}

// Generate produces a roster for the given availability records and config.
// It returns an error only for an invalid configuration; unsatisfiable input
// yields a roster with unfilled shifts instead.
func (s *Scheduler) Generate(records []AvailabilityRecord, cfg ScheduleConfig) (*ScheduleResult, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	s.index = newAvailabilityIndex(records)
	s.assignedHours = make(map[string]float64)
	s.personShifts = make(map[string]map[string][]*Shift)
	s.understaffed = 0
	for _, person := range s.index.people {
		s.assignedHours[person] = 0
		s.personShifts[person] = make(map[string][]*Shift)
	}

	s.logger.Debug("scheduler start",
		zap.Int("availability_records", len(records)),
		zap.Int("people", len(s.index.people)),
		zap.Duration("opening", cfg.OpeningTime),
		zap.Duration("closing", cfg.ClosingTime),
		zap.Duration("shift_length", cfg.ShiftLength),
		zap.Int("people_per_shift", cfg.PeoplePerShift))

	shifts := generateShifts(records, cfg)
	markShiftPositions(shifts)
	s.indexShiftsByDate(shifts)
	s.logger.Debug("generated shifts", zap.Int("count", len(shifts)))

	hitMap := s.buildHitMap(shifts)

	s.logger.Debug("phase 1: critical shifts")
	s.assignCriticalShifts(hitMap)

	s.logger.Debug("phase 2: back-to-back propagation")
	s.extendBackToBack()

	s.logger.Debug("phase 3: fill remaining shifts")
	s.fillRemainingShifts(shifts)

	s.logger.Debug("phase 4: dynamic hour balancing")
	s.balanceHours(shifts)

	s.logger.Debug("phase 5: split-shift cleanup")
	s.cleanupSplitShifts()

	result := &ScheduleResult{Shifts: shifts, UnderstaffedShifts: s.understaffed}
	s.logSummary(result)
	return result, nil
}

func (s *Scheduler) indexShiftsByDate(shifts []*Shift) {
	s.shiftsByDate = make(map[string][]*Shift)
	for _, shift := range shifts {
		key := dayKey(shift.Date)
		s.shiftsByDate[key] = append(s.shiftsByDate[key], shift)
	}
	s.dates = make([]string, 0, len(s.shiftsByDate))
	for key, dayShifts := range s.shiftsByDate {
		sort.SliceStable(dayShifts, func(i, j int) bool {
			return dayShifts[i].Start < dayShifts[j].Start
		})
		s.dates = append(s.dates, key)
	}
	sort.Strings(s.dates)
}

// assign appends the person to the shift and updates the hour and per-day
// assignment tracking. Callers must have checked canAssign first.
func (s *Scheduler) assign(person string, shift *Shift) {
	shift.AssignedPeople = append(shift.AssignedPeople, person)
	s.assignedHours[person] += shift.DurationHours()

	byDay := s.personShifts[person]
	if byDay == nil {
		byDay = make(map[string][]*Shift)
		s.personShifts[person] = byDay
	}
	key := dayKey(shift.Date)
	byDay[key] = append(byDay[key], shift)
}

// removeAssignment is the inverse of assign.
func (s *Scheduler) removeAssignment(person string, shift *Shift) {
	for i, p := range shift.AssignedPeople {
		if p == person {
			shift.AssignedPeople = append(shift.AssignedPeople[:i], shift.AssignedPeople[i+1:]...)
			break
		}
	}
	s.assignedHours[person] -= shift.DurationHours()

	key := dayKey(shift.Date)
	dayShifts := s.personShifts[person][key]
	for i, existing := range dayShifts {
		if existing == shift {
			s.personShifts[person][key] = append(dayShifts[:i], dayShifts[i+1:]...)
			break
		}
	}
}

// canAssign reports whether the person fully covers the shift and holds no
// overlapping assignment that day. Split-shift risk is not considered here.
func (s *Scheduler) canAssign(person string, shift *Shift) bool {
	return s.index.isAvailable(person, shift) && !s.hasOverlap(person, shift)
}

func (s *Scheduler) canAssignWithoutSplit(person string, shift *Shift) bool {
	return s.canAssign(person, shift) && !s.wouldCreateSplitShift(person, shift)
}

// hasOverlap reports whether the person already holds a shift that day whose
// interval intersects the candidate shift's interval.
func (s *Scheduler) hasOverlap(person string, shift *Shift) bool {
	for _, existing := range s.personShifts[person][dayKey(shift.Date)] {
		if existing.Start < shift.End && existing.End > shift.Start {
			return true
		}
	}
	return false
}

// wouldCreateSplitShift reports whether accepting the shift would leave a time
// gap in the person's day: they hold at least one shift that day and none of
// them is exactly adjacent to the candidate.
func (s *Scheduler) wouldCreateSplitShift(person string, shift *Shift) bool {
	existing := s.personShifts[person][dayKey(shift.Date)]
	if len(existing) == 0 {
		return false
	}
	for _, held := range existing {
		if held.End == shift.Start || held.Start == shift.End {
			return false
		}
	}
	return true
}

// weeklyHours is the person's cumulative assigned hours in this run.
func (s *Scheduler) weeklyHours(person string) float64 {
	total := 0.0
	for _, dayShifts := range s.personShifts[person] {
		for _, shift := range dayShifts {
			total += shift.DurationHours()
		}
	}
	return total
}

func (s *Scheduler) allWeeklyHours() map[string]float64 {
	weekly := make(map[string]float64, len(s.index.people))
	for _, person := range s.index.people {
		weekly[person] = s.weeklyHours(person)
	}
	return weekly
}

// assignCriticalShifts is phase 1: lock in shifts whose candidate pool is at
// or barely above the staffing target before flexible people absorb capacity.
// It consumes the up-front hit-map counts, which go stale as assignment
// proceeds; that staleness is part of the heuristic.
func (s *Scheduler) assignCriticalShifts(hitMap []HitMapEntry) {
	critical := make([]HitMapEntry, 0)
	for _, entry := range hitMap {
		if entry.CandidateCount > 0 && entry.CandidateCount <= entry.Shift.PeopleNeeded {
			critical = append(critical, entry)
		}
	}
	sort.SliceStable(critical, func(i, j int) bool {
		if critical[i].CandidateCount != critical[j].CandidateCount {
			return critical[i].CandidateCount < critical[j].CandidateCount
		}
		if !critical[i].Shift.Date.Equal(critical[j].Shift.Date) {
			return critical[i].Shift.Date.Before(critical[j].Shift.Date)
		}
		return critical[i].Shift.Start < critical[j].Shift.Start
	})

	s.logger.Debug("critical shifts found", zap.Int("count", len(critical)))

	for _, entry := range critical {
		shift := entry.Shift
		if shift.IsFull() {
			continue
		}

		candidates := s.sortCandidates(entry.Candidates)
		needed := shift.PeopleNeeded - len(shift.AssignedPeople)
		toAssign := min(needed, len(candidates))

		for i := 0; i < toAssign; i++ {
			// State may have moved since the hit-map was built, so re-check.
			if s.canAssign(candidates[i], shift) {
				s.assign(candidates[i], shift)
			}
		}

		if !shift.IsFull() {
			s.logger.Debug("critical shift still understaffed",
				zap.Time("date", shift.Date),
				zap.Duration("start", shift.Start),
				zap.Int("assigned", len(shift.AssignedPeople)),
				zap.Int("needed", shift.PeopleNeeded))
		}
	}

	// Next-most-constrained tier: exactly one spare candidate.
	nextTier := make([]HitMapEntry, 0)
	for _, entry := range hitMap {
		if entry.CandidateCount == entry.Shift.PeopleNeeded+1 {
			nextTier = append(nextTier, entry)
		}
	}
	sort.SliceStable(nextTier, func(i, j int) bool {
		if !nextTier[i].Shift.Date.Equal(nextTier[j].Shift.Date) {
			return nextTier[i].Shift.Date.Before(nextTier[j].Shift.Date)
		}
		return nextTier[i].Shift.Start < nextTier[j].Shift.Start
	})

	for _, entry := range nextTier {
		shift := entry.Shift
		if shift.IsFull() {
			continue
		}

		candidates := s.sortCandidates(entry.Candidates)
		needed := shift.PeopleNeeded - len(shift.AssignedPeople)
		for i := 0; i < needed && i < len(candidates); i++ {
			if s.canAssign(candidates[i], shift) {
				s.assign(candidates[i], shift)
			}
		}
	}
}

// sortCandidates orders candidates by total available hours, then current
// assigned hours, then name. People with few alternatives come first.
func (s *Scheduler) sortCandidates(candidates []string) []string {
	sorted := make([]string, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		ai, aj := s.index.totalAvailableHours(sorted[i]), s.index.totalAvailableHours(sorted[j])
		if ai != aj {
			return ai < aj
		}
		hi, hj := s.assignedHours[sorted[i]], s.assignedHours[sorted[j]]
		if hi != hj {
			return hi < hj
		}
		return sorted[i] < sorted[j]
	})
	return sorted
}

// extendBackToBack is phase 2: walk each day's shifts in start order and pull
// people already working a shift forward into the next one, building
// contiguous blocks rather than leaving gaps to be patched later. A person is
// only extended if their block reaches back to the previous shift, so the
// extension never rides on top of an existing gap.
func (s *Scheduler) extendBackToBack() {
	for _, day := range s.dates {
		dayShifts := s.shiftsByDate[day]

		for i := 0; i+1 < len(dayShifts); i++ {
			current := dayShifts[i]
			next := dayShifts[i+1]

			assigned := make([]string, len(current.AssignedPeople))
			copy(assigned, current.AssignedPeople)

			for _, person := range assigned {
				if next.IsFull() {
					continue
				}
				if !s.canAssign(person, next) {
					continue
				}
				if i > 0 && !dayShifts[i-1].HasAssigned(person) {
					continue
				}

				s.assign(person, next)
				s.logger.Debug("extended back-to-back",
					zap.String("person", person),
					zap.String("date", day),
					zap.Duration("start", next.Start))
			}
		}
	}
}

func (s *Scheduler) logSummary(result *ScheduleResult) {
	fullyStaffed := 0
	empty := 0
	for _, shift := range result.Shifts {
		if shift.IsFull() {
			fullyStaffed++
		}
		if len(shift.AssignedPeople) == 0 {
			empty++
		}
	}
	s.logger.Info("schedule generated",
		zap.Int("shifts", len(result.Shifts)),
		zap.Int("fully_staffed", fullyStaffed),
		zap.Int("empty", empty),
		zap.Int("understaffed", result.UnderstaffedShifts),
		zap.Bool("has_unfilled", result.HasUnfilledShifts()))
}

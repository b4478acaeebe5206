package scheduler

import (
	"sort"

	"go.uber.org/zap"
)

// cleanupSplitShifts is phase 5: a best-effort pass over every person's days
// looking for gaps that slipped through the earlier phases. When a gap is
// found the earlier shift is dropped, provided coverage survives or an
// alternative candidate exists for the slot. No replacement is assigned, so
// a removal can leave the shift understaffed; that trade is accepted in favor
// of not splitting someone's day.
func (s *Scheduler) cleanupSplitShifts() {
	people := make([]string, 0, len(s.personShifts))
	for person := range s.personShifts {
		people = append(people, person)
	}
	sort.Strings(people)

	for _, person := range people {
		days := make([]string, 0, len(s.personShifts[person]))
		for day := range s.personShifts[person] {
			days = append(days, day)
		}
		sort.Strings(days)

		for _, day := range days {
			held := s.personShifts[person][day]
			if len(held) < 2 {
				continue
			}

			ordered := make([]*Shift, len(held))
			copy(ordered, held)
			sort.SliceStable(ordered, func(i, j int) bool {
				return ordered[i].Start < ordered[j].Start
			})

			for i := 0; i+1 < len(ordered); i++ {
				current := ordered[i]
				next := ordered[i+1]
				if current.End == next.Start {
					continue
				}

				s.logger.Debug("split shift detected",
					zap.String("person", person),
					zap.String("date", day),
					zap.Duration("gap_from", current.End),
					zap.Duration("gap_to", next.Start))

				if s.canRemoveShift(person, current) {
					s.removeAssignment(person, current)
					s.logger.Debug("removed earlier shift to close gap",
						zap.String("person", person),
						zap.String("date", day),
						zap.Duration("start", current.Start))
				}
			}
		}
	}
}

// canRemoveShift reports whether dropping the person from the shift is
// acceptable: either the shift stays at its staffing target, or someone else
// could cover the slot without ending up with a gap themselves. A person
// already on the shift never counts as an alternative since their own
// assignment overlaps it.
func (s *Scheduler) canRemoveShift(person string, shift *Shift) bool {
	if len(shift.AssignedPeople)-1 >= shift.PeopleNeeded {
		return true
	}
	for _, other := range s.index.people {
		if other == person {
			continue
		}
		if s.canAssignWithoutSplit(other, shift) {
			return true
		}
	}
	return false
}

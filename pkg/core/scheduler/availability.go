package scheduler

import "sort"

// availabilityIndex answers availability questions for one scheduling run.
// It is built once from the input records and never changes afterwards; in
// particular the per-person available hours stay fixed while assigned hours
// accumulate, which keeps them usable as a stable priority key.
type availabilityIndex struct {
	// records keyed by person, then by day
	records map[string]map[string][]AvailabilityRecord

	// availableHours is the total declared hours per person across the window
	availableHours map[string]float64

	// people holds every known person ordered by (available hours ascending,
	// name ascending). Every iteration over people goes through this slice so
	// that runs are deterministic.
	people []string
}

func newAvailabilityIndex(records []AvailabilityRecord) *availabilityIndex {
	ix := &availabilityIndex{
		records:        make(map[string]map[string][]AvailabilityRecord),
		availableHours: make(map[string]float64),
	}

	for _, record := range records {
		byDay := ix.records[record.Person]
		if byDay == nil {
			byDay = make(map[string][]AvailabilityRecord)
			ix.records[record.Person] = byDay
		}
		key := dayKey(Day(record.Date))
		byDay[key] = append(byDay[key], record)
		ix.availableHours[record.Person] += record.Hours()
	}

	ix.people = make([]string, 0, len(ix.availableHours))
	for person := range ix.availableHours {
		ix.people = append(ix.people, person)
	}
	sort.Slice(ix.people, func(i, j int) bool {
		hi, hj := ix.availableHours[ix.people[i]], ix.availableHours[ix.people[j]]
		if hi != hj {
			return hi < hj
		}
		return ix.people[i] < ix.people[j]
	})

	return ix
}

// isAvailable reports whether the person has a record on the shift's date
// that fully covers the shift's interval. Partial overlap doesn't count.
func (ix *availabilityIndex) isAvailable(person string, shift *Shift) bool {
	for _, record := range ix.records[person][dayKey(shift.Date)] {
		if record.Start <= shift.Start && record.End >= shift.End {
			return true
		}
	}
	return false
}

// totalAvailableHours returns the person's declared hours across the window.
func (ix *availabilityIndex) totalAvailableHours(person string) float64 {
	return ix.availableHours[person]
}

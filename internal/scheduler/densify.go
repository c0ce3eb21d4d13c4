package scheduler

import (
	"math"
	"sort"
	"time"

	"github.com/alexanderramin/flowplan/internal/calendar"
	"github.com/alexanderramin/flowplan/internal/domain"
	"github.com/alexanderramin/flowplan/internal/graph"
)

// densified holds everything computed from one task's date/estimate
// window before the CP model is built, plus the global horizon and
// person roster shared by every task.
type densified struct {
	persons     []string
	personIndex map[string]int
	horizon     int
}

// densify assigns dense person ids and computes each task's
// SchedulerFields (EarliestStart, LatestEnd, Estimate, Exclude,
// EligibleAssignees) per spec.md §4.5's "Densification" and "Date
// densification" rules. It mutates g.Tasks in place.
func densify(g *graph.Graph, meta *domain.Metadata, today time.Time) (*densified, error) {
	d := &densified{personIndex: make(map[string]int)}
	for name := range meta.PeopleAllocations {
		d.persons = append(d.persons, name)
	}
	sort.Strings(d.persons)
	for i, name := range d.persons {
		d.personIndex[name] = i
	}

	base := make([]int, len(g.Tasks))
	for i, t := range g.Tasks {
		b, err := baseEstimate(t)
		if err != nil {
			return nil, err
		}
		base[i] = b
		d.horizon += b
	}

	// The allocation cap (spec.md §4.5 constraint 6) can require a
	// makespan larger than the raw sum of estimates when a person's
	// allocation is well below 1.0 — a single person doing all their
	// assigned work at half availability needs twice the wall-clock
	// span. Pad the horizon so that bound remains a valid upper bound
	// for the makespan variable, not just for individual task ends.
	// Only people actually eligible for some task in this graph count:
	// a low allocation declared for someone nobody here can be assigned
	// to must not inflate every task's domain.
	relevantPerson := make(map[string]bool, len(d.persons))
	allPersonsRelevant := false
	for _, t := range g.Tasks {
		if len(t.Assignees) == 0 {
			allPersonsRelevant = true
			continue
		}
		for _, n := range meta.ResolveAssignees(t.Assignees) {
			relevantPerson[n] = true
		}
	}

	minAlloc := 1.0
	for name, a := range meta.PeopleAllocations {
		if !allPersonsRelevant && !relevantPerson[name] {
			continue
		}
		if a > 0 && a < minAlloc {
			minAlloc = a
		}
	}
	if minAlloc < 1.0 {
		scaled := int(math.Ceil(float64(d.horizon) / minAlloc))
		if scaled > d.horizon {
			d.horizon = scaled
		}
	}
	if d.horizon == 0 {
		d.horizon = 1
	}

	for i, t := range g.Tasks {
		f := &t.Scheduler
		f.AssignedTo = -1

		f.Exclude = t.EndDate != nil && today.After(calendar.Normalize(*t.EndDate))

		estimate := base[i]
		if t.Status == domain.StatusInProgress && t.StartDate != nil && !today.Before(calendar.Normalize(*t.StartDate)) {
			elapsed := calendar.BusinessDaysBetween(*t.StartDate, today)
			if elapsed < 0 {
				elapsed = 0
			}
			estimate -= elapsed
			if estimate < 0 {
				estimate = 0
			}
		}
		f.Estimate = estimate

		if t.StartDate != nil {
			es := calendar.BusinessDaysBetween(today, *t.StartDate)
			if es < 0 {
				es = 0
			}
			f.EarliestStart = es
		} else {
			f.EarliestStart = 0
		}

		if t.EndDate != nil {
			le := calendar.BusinessDaysBetween(today, *t.EndDate)
			if le < 0 {
				le = 0
			}
			f.LatestEnd = le
		} else {
			f.LatestEnd = d.horizon
		}

		f.EligibleAssignees = eligiblePersons(t, meta, d.personIndex)
	}

	return d, nil
}

// baseEstimate returns a task's effort in business days before any
// in-progress adjustment, deriving it from the date window when no
// explicit Estimate was given.
func baseEstimate(t *domain.InputTask) (int, error) {
	if t.Estimate != nil {
		return *t.Estimate, nil
	}
	if t.StartDate == nil || t.EndDate == nil {
		return 0, &MissingEstimateError{Task: t.Name}
	}
	span := calendar.BusinessDaysBetween(*t.StartDate, *t.EndDate)
	if span < 0 {
		span = 0
	}
	return span, nil
}

// eligiblePersons resolves a task's assignee domain into dense person
// ids. An empty assignee list (permitted for milestones, and
// otherwise a pool task with no constraint) resolves to every known
// person.
func eligiblePersons(t *domain.InputTask, meta *domain.Metadata, personIndex map[string]int) []int {
	names := t.Assignees
	if len(names) == 0 {
		names = allPersonNames(personIndex)
	} else {
		names = meta.ResolveAssignees(names)
	}
	ids := make([]int, 0, len(names))
	for _, n := range names {
		if id, ok := personIndex[n]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func allPersonNames(personIndex map[string]int) []string {
	names := make([]string, 0, len(personIndex))
	for n := range personIndex {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

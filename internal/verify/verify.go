// Package verify implements the two verification phases of spec.md
// §4.3: input verification (before any graph is built) and graph
// verification (run on the unexpanded graph once per rollback run, and
// on the expanded graph once per scheduling attempt). Every failure accumulates rather than short-
// circuiting, so a caller sees every problem with the input in one
// pass instead of fixing and resubmitting one error at a time.
package verify

import (
	"github.com/alexanderramin/flowplan/internal/calendar"
	"github.com/alexanderramin/flowplan/internal/domain"
	"github.com/alexanderramin/flowplan/internal/graph"
)

// Input cross-checks a flat task list against Metadata before any
// graph exists: assignee resolution, estimate sanity, and per-task
// date consistency.
func Input(tasks []*domain.InputTask, meta *domain.Metadata) []error {
	var errs []error
	for _, t := range tasks {
		for _, a := range t.Assignees {
			if !meta.IsPerson(a) && !meta.IsTeam(a) {
				errs = append(errs, &UnknownAssigneeError{Task: t.Name, Assignee: a})
			}
		}

		if t.Estimate != nil && *t.Estimate < 0 {
			errs = append(errs, &InvalidEstimateError{Task: t.Name, Reason: "estimate must be non-negative"})
		}
		if t.Parallelizable && (t.Estimate == nil || *t.Estimate < 2) {
			errs = append(errs, &InvalidEstimateError{Task: t.Name, Reason: "parallelizable requires estimate >= 2"})
		}

		errs = append(errs, checkDateSpan(t)...)
	}
	return errs
}

// checkDateSpan enforces: if both dates and a positive estimate are
// present, start precedes end and the interval's business-day span
// accommodates the estimate within a tolerance of one business day.
func checkDateSpan(t *domain.InputTask) []error {
	if t.StartDate == nil || t.EndDate == nil || t.Estimate == nil || *t.Estimate == 0 {
		return nil
	}
	if !t.StartDate.Before(*t.EndDate) {
		return []error{&BadDatesError{Task: t.Name, Reason: "start_date must be before end_date"}}
	}
	span := calendar.BusinessDaysBetween(*t.StartDate, *t.EndDate)
	if span < *t.Estimate-1 {
		return []error{&BadDatesError{Task: t.Name, Reason: "date interval is too short for the estimate"}}
	}
	return nil
}

// Graph cross-checks a built Graph: acyclicity, precedence-vs-dates,
// and InProgress tasks with incomplete ancestors. On a cycle, the
// remaining checks are skipped since topological traversal is
// undefined — the cycle is reported alone.
func Graph(g *graph.Graph) []error {
	if cycle := g.DetectCycle(); cycle != nil {
		return []error{&CycleDetectedError{Edges: cycle}}
	}

	var errs []error
	errs = append(errs, checkEdgeDates(g)...)
	errs = append(errs, checkInProgressAncestors(g)...)
	return errs
}

func checkEdgeDates(g *graph.Graph) []error {
	var errs []error
	for _, e := range g.Edges {
		u := g.Tasks[g.NameToID[e.From]]
		v := g.Tasks[g.NameToID[e.To]]
		if u.EndDate == nil || v.StartDate == nil {
			continue
		}
		if v.StartDate.Before(*u.EndDate) {
			errs = append(errs, &BadDatesError{
				Task:   v.Name,
				Reason: "start_date is before predecessor " + u.Name + "'s end_date",
			})
		}
	}
	return errs
}

func checkInProgressAncestors(g *graph.Graph) []error {
	var errs []error
	for id, t := range g.Tasks {
		if t.Status != domain.StatusInProgress {
			continue
		}
		if chain := incompleteAncestorChain(g, graph.TaskID(id)); chain != nil {
			errs = append(errs, &InProgressWithIncompleteAncestorError{Task: t.Name, Ancestors: chain})
		}
	}
	return errs
}

// incompleteAncestorChain returns the path from start to the nearest
// ancestor whose status is neither Completed nor Milestone, or nil if
// every ancestor (transitively) satisfies that condition.
func incompleteAncestorChain(g *graph.Graph, start graph.TaskID) []string {
	visited := make(map[graph.TaskID]bool)

	var dfs func(id graph.TaskID, path []string) []string
	dfs = func(id graph.TaskID, path []string) []string {
		for _, pred := range g.Predecessors[id] {
			if visited[pred] {
				continue
			}
			visited[pred] = true
			t := g.Tasks[pred]
			next := append(append([]string(nil), path...), t.Name)
			if t.Status != domain.StatusCompleted && t.Status != domain.StatusMilestone {
				return next
			}
			if found := dfs(pred, next); found != nil {
				return found
			}
		}
		return nil
	}

	return dfs(start, nil)
}

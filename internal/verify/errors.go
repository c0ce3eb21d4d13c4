package verify

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/flowplan/internal/domain"
)

// UnknownAssigneeError reports a task naming an assignee that resolves
// to neither a known person nor a known team.
type UnknownAssigneeError struct {
	Task     string
	Assignee string
}

func (e *UnknownAssigneeError) Error() string {
	return fmt.Sprintf("task %q names unknown assignee %q", e.Task, e.Assignee)
}

// InvalidEstimateError reports an out-of-range or inconsistent
// Estimate value: negative, or parallelizable with estimate < 2.
type InvalidEstimateError struct {
	Task   string
	Reason string
}

func (e *InvalidEstimateError) Error() string {
	return fmt.Sprintf("task %q has an invalid estimate: %s", e.Task, e.Reason)
}

// BadDatesError reports a violation of the date invariants of spec.md
// §3: start_date/end_date ordering, interval-vs-estimate fit, or a
// successor starting before its predecessor ends.
type BadDatesError struct {
	Task   string
	Reason string
}

func (e *BadDatesError) Error() string {
	return fmt.Sprintf("task %q has inconsistent dates: %s", e.Task, e.Reason)
}

// CycleDetectedError reports the edges of a dependency cycle.
type CycleDetectedError struct {
	Edges []domain.Edge
}

func (e *CycleDetectedError) Error() string {
	names := make([]string, 0, len(e.Edges)+1)
	for i, edge := range e.Edges {
		if i == 0 {
			names = append(names, edge.From)
		}
		names = append(names, edge.To)
	}
	return "cycle detected: " + strings.Join(names, " -> ")
}

// InProgressWithIncompleteAncestorError reports an InProgress task
// that transitively depends on a task whose status is not Completed
// or Milestone. Ancestors lists the offending chain closest-first.
type InProgressWithIncompleteAncestorError struct {
	Task      string
	Ancestors []string
}

func (e *InProgressWithIncompleteAncestorError) Error() string {
	return fmt.Sprintf("in-progress task %q has incomplete ancestor chain: %s", e.Task, strings.Join(e.Ancestors, " <- "))
}

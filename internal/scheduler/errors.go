package scheduler

import "fmt"

// MissingEstimateError reports a task that carries neither an
// Estimate nor a full StartDate/EndDate window, leaving its
// contribution to the horizon indeterminate (spec.md §4.5).
type MissingEstimateError struct {
	Task string
}

func (e *MissingEstimateError) Error() string {
	return fmt.Sprintf("task %q has no estimate and no start/end date window", e.Task)
}

// DependsOnPastError reports a non-excluded task that names an
// excluded (already-past) task as a predecessor — a contradiction,
// since excluded means "already done".
type DependsOnPastError struct {
	Task         string
	ExcludedTask string
}

func (e *DependsOnPastError) Error() string {
	return fmt.Sprintf("task %q depends on %q, which is already past and excluded from scheduling", e.Task, e.ExcludedTask)
}

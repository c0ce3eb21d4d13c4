// Package rollback implements the iterative anchor-stepping retry
// loop of spec.md §4.6: when the schedule is infeasible against
// today's anchor, retry against progressively earlier anchors, since
// an already-slipped plan is often feasible only by pretending less
// time has passed.
package rollback

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/flowplan/internal/calendar"
	"github.com/alexanderramin/flowplan/internal/cpmodel"
	"github.com/alexanderramin/flowplan/internal/domain"
	"github.com/alexanderramin/flowplan/internal/expand"
	"github.com/alexanderramin/flowplan/internal/graph"
	"github.com/alexanderramin/flowplan/internal/scheduler"
	"github.com/alexanderramin/flowplan/internal/verify"
)

// Config bounds the retry loop.
type Config struct {
	// Step is the number of business days each retry shifts the
	// anchor backward.
	Step int
	// Bound is the maximum total backward shift attempted.
	Bound int
}

// DefaultConfig matches spec.md §4.6's defaults.
func DefaultConfig() Config {
	return Config{Step: 5, Bound: 80}
}

// Outcome is what one Run call produced: the pristine upper graph
// (always present), and — only when a feasible schedule was found —
// the expanded lower graph, the solved Result, and the expansion maps
// the merger needs to project results back onto the upper graph.
type Outcome struct {
	Upper  *graph.Graph
	Lower  *graph.Graph
	Result *scheduler.Result

	SpecificMap map[string][]*domain.InputTask
	ParallelMap map[string][]*domain.InputTask

	// Offset is the number of business days the anchor was shifted
	// back to find a feasible schedule (0 if solved against today).
	Offset int

	Notifications []domain.Notification
}

// Run retries scheduling against anchors today, today-step,
// today-2*step, ... up to today-bound, returning the first feasible
// attempt's Outcome. If no offset yields a feasible schedule, it
// returns an Outcome with Lower == nil and a notification recording
// the failure — this is not an error, per spec.md §4.6's pseudocode
// ("emit notification ... return"). A non-nil error return means a
// structural problem (a verification failure, or a MissingEstimate)
// that no anchor shift could repair.
func Run(ctx context.Context, tasks []*domain.InputTask, meta *domain.Metadata, today time.Time, solverBudget time.Duration, cfg Config) (*Outcome, []error) {
	upperTasks := cloneTasks(tasks)
	upper, upperNotes, err := graph.Build(upperTasks)
	if err != nil {
		return nil, []error{err}
	}
	if errs := verify.Graph(upper); len(errs) > 0 {
		return nil, errs
	}

	for offset := 0; offset <= cfg.Bound; offset += cfg.Step {
		anchor := calendar.AddBusinessDays(today, -offset)

		lowerTasks := cloneTasks(tasks)
		expandedSpecific, specificMap := expand.Specific(lowerTasks)
		expandedAll, parallelMap := expand.Parallelizable(expandedSpecific, anchor)

		lower, lowerNotes, err := graph.Build(expandedAll)
		if err != nil {
			return nil, []error{err}
		}
		if errs := verify.Graph(lower); len(errs) > 0 {
			return nil, errs
		}

		result, err := scheduler.Schedule(ctx, lower, meta, specificMap, anchor, solverBudget)
		if err != nil {
			var dep *scheduler.DependsOnPastError
			if errors.As(err, &dep) {
				// Whether a task is "already past" depends on the
				// anchor; an earlier anchor may remove the
				// contradiction, so this attempt is infeasible, not
				// fatal.
				continue
			}
			return nil, []error{err}
		}

		if result.Outcome == cpmodel.Optimal || result.Outcome == cpmodel.Feasible {
			notes := make([]domain.Notification, 0, len(upperNotes)+len(lowerNotes))
			notes = append(notes, upperNotes...)
			notes = append(notes, lowerNotes...)
			return &Outcome{
				Upper:         upper,
				Lower:         lower,
				Result:        result,
				SpecificMap:   specificMap,
				ParallelMap:   parallelMap,
				Offset:        offset,
				Notifications: notes,
			}, nil
		}
	}

	notes := append(append([]domain.Notification(nil), upperNotes...), domain.Notification{
		Severity: domain.SeverityError,
		Message:  fmt.Sprintf("no feasible schedule found within %d business days of rollback", cfg.Bound),
	})
	return &Outcome{Upper: upper, Offset: cfg.Bound, Notifications: notes}, nil
}

func cloneTasks(tasks []*domain.InputTask) []*domain.InputTask {
	out := make([]*domain.InputTask, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

// Package merge implements spec.md §4.7: projecting a solved lower
// (expanded) graph's results back onto the pristine upper (original)
// graph, then decorating the upper graph with critical-path, slack,
// and utilization data for the outbound response.
package merge

import (
	"time"

	"github.com/alexanderramin/flowplan/internal/calendar"
	"github.com/alexanderramin/flowplan/internal/domain"
	"github.com/alexanderramin/flowplan/internal/graph"
	"github.com/alexanderramin/flowplan/internal/scheduler"
)

// Merge writes the scheduler's solved start/end/assignee back onto
// upper's tasks (by name), then applies the parallelizable-map and
// specific-map rewrites spec.md §4.7 names. anchor is the scheduling
// anchor the offsets in result are relative to. A task whose name has
// no entry in result was excluded from scheduling (already past) and
// keeps its original dates untouched, per spec.md §4.5's densification
// rule.
func Merge(upper *graph.Graph, result *scheduler.Result, specificMap, parallelMap map[string][]*domain.InputTask, anchor time.Time) {
	for _, t := range upper.Tasks {
		tr, ok := result.Tasks[t.Name]
		if !ok {
			continue
		}
		start := calendar.AddBusinessDays(anchor, tr.StartOffset)
		end := calendar.AddBusinessDays(anchor, tr.EndOffset)
		t.StartDate = &start
		t.EndDate = &end
		if tr.AssignedTo != "" {
			t.Assignees = []string{tr.AssignedTo}
		}
	}

	for name, subtasks := range parallelMap {
		id, ok := upper.NameToID[name]
		if !ok {
			continue
		}
		orig := upper.Tasks[id]
		total := 1 + len(subtasks)
		orig.Estimate = &total

		var maxEnd *time.Time
		for _, sub := range subtasks {
			sr, ok := result.Tasks[sub.Name]
			if !ok {
				continue
			}
			end := calendar.AddBusinessDays(anchor, sr.EndOffset)
			if maxEnd == nil || end.After(*maxEnd) {
				maxEnd = &end
			}
		}
		if maxEnd != nil {
			orig.EndDate = maxEnd
		}
	}

	for name, siblings := range specificMap {
		id, ok := upper.NameToID[name]
		if !ok {
			continue
		}
		orig := upper.Tasks[id]
		for _, sib := range siblings {
			sr, ok := result.Tasks[sib.Name]
			if !ok || sr.AssignedTo == "" {
				continue
			}
			orig.Assignees = append(orig.Assignees, sr.AssignedTo)
		}
	}
}

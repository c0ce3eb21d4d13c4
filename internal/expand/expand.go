// Package expand rewrites two task shapes the solver cannot consume
// directly into equivalent forms it can, per spec.md §4.4: a
// multi-assignee "simultaneous" task becomes N synchronized sibling
// subtasks, and a parallelizable effort task becomes a linear chain of
// unit-estimate subtasks. Both rewrites return the mapping from
// original task name to its derived subtasks so the merger can later
// fold results back onto the un-expanded graph.
package expand

import (
	"fmt"
	"time"

	"github.com/alexanderramin/flowplan/internal/domain"
)

// Specific splits every task with specific_assignments and more than
// one assignee into N parallel sibling subtasks that share a single
// start/end (the scheduler enforces the synchrony constraint using the
// returned map). Any task naming T in its Next list is rewritten to
// also name every sibling, so predecessors fan out to all of them.
func Specific(tasks []*domain.InputTask) ([]*domain.InputTask, map[string][]*domain.InputTask) {
	specificMap := make(map[string][]*domain.InputTask)
	result := make([]*domain.InputTask, 0, len(tasks))

	for _, t := range tasks {
		if !t.SpecificAssignments || len(t.Assignees) <= 1 {
			result = append(result, t)
			continue
		}

		rest := t.Assignees[1:]
		t.Assignees = []string{t.Assignees[0]}

		siblings := make([]*domain.InputTask, 0, len(rest))
		for i, assignee := range rest {
			sibling := t.Clone()
			sibling.Name = fmt.Sprintf("%s_specific_%d", t.Name, i+1)
			sibling.Assignees = []string{assignee}
			siblings = append(siblings, sibling)
		}

		specificMap[t.Name] = siblings
		result = append(result, t)
		result = append(result, siblings...)
	}

	fanOutSiblings(result, specificMap)
	return result, specificMap
}

// fanOutSiblings rewrites every task's Next list so that a reference
// to an expanded task also names every one of its siblings.
func fanOutSiblings(tasks []*domain.InputTask, specificMap map[string][]*domain.InputTask) {
	for _, t := range tasks {
		if len(t.Next) == 0 {
			continue
		}
		rewritten := make([]string, 0, len(t.Next))
		for _, name := range t.Next {
			rewritten = append(rewritten, name)
			for _, sibling := range specificMap[name] {
				rewritten = append(rewritten, sibling.Name)
			}
		}
		t.Next = rewritten
	}
}

// Parallelizable splits every task marked parallelizable with estimate
// E >= 2 into a chain T -> T_chain_1 -> ... -> T_chain_{E-1} of E
// unit-estimate tasks. T keeps its original start date; its end date
// and outgoing edges move to the last link in the chain. The anchor
// parameter mirrors the rollback driver's call shape (spec.md §4.6);
// this rewrite assigns no dates to intermediate links, so it is not
// otherwise consulted here.
func Parallelizable(tasks []*domain.InputTask, anchor time.Time) ([]*domain.InputTask, map[string][]*domain.InputTask) {
	_ = anchor
	parallelizableMap := make(map[string][]*domain.InputTask)
	result := make([]*domain.InputTask, 0, len(tasks))

	for _, t := range tasks {
		if !t.Parallelizable || t.Estimate == nil || *t.Estimate < 2 {
			result = append(result, t)
			continue
		}

		effort := *t.Estimate
		originalNext := t.Next
		originalEndDate := t.EndDate

		unit := 1
		t.Estimate = &unit
		t.EndDate = nil

		links := make([]*domain.InputTask, 0, effort-1)
		for i := 1; i < effort; i++ {
			link := t.Clone()
			link.Name = fmt.Sprintf("%s_chain_%d", t.Name, i)
			link.Parallelizable = false
			link.StartDate = nil
			link.EndDate = nil
			link.Next = nil
			links = append(links, link)
		}

		last := links[len(links)-1]
		last.Next = originalNext
		last.EndDate = originalEndDate

		t.Next = []string{links[0].Name}
		for i := 0; i < len(links)-1; i++ {
			links[i].Next = []string{links[i+1].Name}
		}

		parallelizableMap[t.Name] = links
		result = append(result, t)
		result = append(result, links...)
	}

	return result, parallelizableMap
}

// Package scheduler builds the constraint-programming model described
// in spec.md §4.5 from a pre-expanded task graph and solves it via
// internal/cpmodel, minimizing makespan subject to precedence,
// resource-exclusivity, window, duration, specific-sibling synchrony,
// and per-person allocation-cap constraints.
package scheduler

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/alexanderramin/flowplan/internal/cpmodel"
	"github.com/alexanderramin/flowplan/internal/domain"
	"github.com/alexanderramin/flowplan/internal/graph"
)

// TaskResult is one non-excluded task's solved schedule.
type TaskResult struct {
	StartOffset int
	EndOffset   int
	AssignedTo  string
}

// Result is the outcome of one Schedule call.
type Result struct {
	Outcome  cpmodel.Outcome
	Makespan int
	Tasks    map[string]TaskResult
}

type taskVars struct {
	start, end cpmodel.IntVar
	assign     map[int]cpmodel.BoolVar // person id -> presence/assignment literal
}

// Schedule builds and solves the CP model for g, per spec.md §4.5.
// specificMap is the expander's original-task -> siblings map (for
// synchrony constraints); today is the scheduling anchor this attempt
// is being evaluated against.
func Schedule(ctx context.Context, g *graph.Graph, meta *domain.Metadata, specificMap map[string][]*domain.InputTask, today time.Time, budget time.Duration) (*Result, error) {
	d, err := densify(g, meta, today)
	if err != nil {
		return nil, err
	}

	m := cpmodel.NewModel()
	vars := make([]*taskVars, len(g.Tasks))

	for id, t := range g.Tasks {
		f := &t.Scheduler
		if f.Exclude {
			continue
		}
		tv := &taskVars{assign: make(map[int]cpmodel.BoolVar, len(f.EligibleAssignees))}
		tv.start = m.NewIntVar(0, d.horizon, t.Name+".start")
		tv.end = m.NewIntVar(0, d.horizon, t.Name+".end")
		m.LinkDuration(tv.start, tv.end, f.Estimate)
		m.AddLinearLE([]cpmodel.Term{{Coef: -1, Var: tv.start}}, -f.EarliestStart)
		m.AddLinearLE([]cpmodel.Term{{Coef: 1, Var: tv.end}}, f.LatestEnd)

		for _, pid := range f.EligibleAssignees {
			tv.assign[pid] = m.NewBoolVar(fmt.Sprintf("%s.assign.%d", t.Name, pid))
		}
		if len(tv.assign) > 0 {
			terms := make([]cpmodel.Term, 0, len(tv.assign))
			for _, bv := range tv.assign {
				terms = append(terms, cpmodel.Term{Coef: 1, Var: bv.IntVar})
			}
			m.AddLinearLE(terms, 1)
			negated := make([]cpmodel.Term, 0, len(tv.assign))
			for _, bv := range tv.assign {
				negated = append(negated, cpmodel.Term{Coef: -1, Var: bv.IntVar})
			}
			m.AddLinearLE(negated, -1)
		}

		vars[id] = tv
	}

	for _, edge := range g.Edges {
		u := g.NameToID[edge.From]
		v := g.NameToID[edge.To]
		uExcluded := g.Tasks[u].Scheduler.Exclude
		vExcluded := g.Tasks[v].Scheduler.Exclude
		if uExcluded && !vExcluded {
			return nil, &DependsOnPastError{Task: g.Tasks[v].Name, ExcludedTask: g.Tasks[u].Name}
		}
		if uExcluded || vExcluded {
			continue
		}
		m.AddPrecedence(vars[u].end, vars[v].start)
	}

	for original, siblings := range specificMap {
		origID, ok := g.NameToID[original]
		if !ok || vars[origID] == nil {
			continue
		}
		for _, sib := range siblings {
			sibID, ok := g.NameToID[sib.Name]
			if !ok || vars[sibID] == nil {
				continue
			}
			m.AddEquality(vars[origID].start, vars[sibID].start)
			m.AddEquality(vars[origID].end, vars[sibID].end)
		}
	}

	makespan := m.NewIntVar(0, d.horizon, "makespan")
	for _, tv := range vars {
		if tv == nil {
			continue
		}
		m.AddLinearLE([]cpmodel.Term{{Coef: 1, Var: tv.end}, {Coef: -1, Var: makespan}}, 0)
	}

	for _, person := range d.persons {
		pid := d.personIndex[person]
		var intervals []cpmodel.Interval
		for id, tv := range vars {
			if tv == nil {
				continue
			}
			bv, ok := tv.assign[pid]
			if !ok {
				continue
			}
			intervals = append(intervals, cpmodel.NewInterval(tv.start, tv.end, g.Tasks[id].Scheduler.Estimate, bv))
		}
		if len(intervals) > 1 {
			m.AddNoOverlap(intervals)
		}

		if a := meta.Allocation(person); a < 1.0 {
			allocPct := int(math.Round(a * 100))
			terms := make([]cpmodel.Term, 0, len(vars)+1)
			for id, tv := range vars {
				if tv == nil {
					continue
				}
				bv, ok := tv.assign[pid]
				if !ok {
					continue
				}
				terms = append(terms, cpmodel.Term{Coef: 100 * g.Tasks[id].Scheduler.Estimate, Var: bv.IntVar})
			}
			terms = append(terms, cpmodel.Term{Coef: -allocPct, Var: makespan})
			m.AddLinearLE(terms, 0)
		}
	}

	m.Minimize(makespan)

	solveCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()
	solved := cpmodel.Solve(solveCtx, m)

	result := &Result{Outcome: solved.Outcome}
	if solved.Outcome != cpmodel.Optimal && solved.Outcome != cpmodel.Feasible {
		return result, nil
	}

	result.Makespan = solved.Value(makespan)
	result.Tasks = make(map[string]TaskResult, len(g.Tasks))
	for id, tv := range vars {
		if tv == nil {
			continue
		}
		t := g.Tasks[id]
		assignee := ""
		assignedID := -1
		for pid, bv := range tv.assign {
			if solved.Value(bv.IntVar) == 1 {
				assignee = d.persons[pid]
				assignedID = pid
				break
			}
		}
		t.Scheduler.StartOffset = solved.Value(tv.start)
		t.Scheduler.EndOffset = solved.Value(tv.end)
		t.Scheduler.AssignedTo = assignedID
		result.Tasks[t.Name] = TaskResult{
			StartOffset: solved.Value(tv.start),
			EndOffset:   solved.Value(tv.end),
			AssignedTo:  assignee,
		}
	}

	return result, nil
}

package cpmodel

import (
	"context"
	"math"
)

// Outcome classifies how a Solve call concluded, per spec.md §4.5's
// solver contract.
type Outcome int

const (
	Infeasible Outcome = iota
	Optimal
	Feasible
	SolverTimeout
)

func (o Outcome) String() string {
	switch o {
	case Infeasible:
		return "Infeasible"
	case Optimal:
		return "Optimal"
	case Feasible:
		return "Feasible"
	case SolverTimeout:
		return "SolverTimeout"
	default:
		return "Unknown"
	}
}

// Result is the outcome of one Solve invocation and, when a solution
// was found, the value assigned to every variable.
type Result struct {
	Outcome Outcome
	Values  map[VarID]int
}

// Value reads back a solved IntVar's assignment. Callers only call
// this after checking Outcome is Optimal or Feasible.
func (r Result) Value(v IntVar) int {
	return r.Values[v.id]
}

// pollInterval bounds how many search nodes elapse between ctx.Done
// checks, so the wall-clock budget is honored without paying a
// context-switch cost per node.
const pollInterval = 512

// Solve performs a branch-and-bound search over every declared
// variable, respecting ctx's deadline (spec.md §5's wall-clock
// budget). Variables are branched in declaration order, skipping any
// already pinned by propagation; each leaf assignment is checked
// against every LinearSum and NoOverlap constraint before being
// accepted as a candidate, and the search keeps going after finding
// one solution, trying to improve the objective, subject to budget.
func Solve(ctx context.Context, m *Model) Result {
	s := &search{model: m, ctx: ctx, bestObjective: math.MaxInt}

	snap := snapshot(m)
	s.dfs()
	restore(m, snap)

	switch {
	case s.timedOut && s.best == nil:
		return Result{Outcome: SolverTimeout}
	case s.timedOut:
		return Result{Outcome: Feasible, Values: s.best}
	case s.best == nil:
		return Result{Outcome: Infeasible}
	default:
		return Result{Outcome: Optimal, Values: s.best}
	}
}

type search struct {
	model         *Model
	ctx           context.Context
	nodes         int
	timedOut      bool
	bestObjective int
	best          map[VarID]int
}

func (s *search) dfs() {
	if s.timedOut {
		return
	}
	s.nodes++
	if s.nodes%pollInterval == 0 && ctxDone(s.ctx) {
		s.timedOut = true
		return
	}

	m := s.model
	if !propagateLinear(m) {
		return
	}
	if !noOverlapConsistent(m) {
		return
	}
	if m.objective != nil && m.lb[*m.objective] >= s.bestObjective {
		return
	}

	branchVar, ok := nextUnfixed(m)
	if !ok {
		if !fullSolutionValid(m) {
			return
		}
		obj := 0
		if m.objective != nil {
			obj = m.lb[*m.objective]
		}
		if obj < s.bestObjective {
			s.bestObjective = obj
			s.best = snapshotValues(m)
		}
		return
	}

	lo, hi := m.lb[branchVar], m.ub[branchVar]
	for val := lo; val <= hi; val++ {
		snap := snapshot(m)
		m.lb[branchVar] = val
		m.ub[branchVar] = val
		s.dfs()
		restore(m, snap)
		if s.timedOut {
			return
		}
	}
}

func nextUnfixed(m *Model) (VarID, bool) {
	for id := 0; id < len(m.lb); id++ {
		if m.lb[id] != m.ub[id] {
			return VarID(id), true
		}
	}
	return 0, false
}

// fullSolutionValid re-checks every constraint exactly once a leaf's
// variables are all pinned — propagation and the incremental
// NoOverlap check only prune provably-broken branches, so the full
// check here is what actually certifies a candidate solution.
func fullSolutionValid(m *Model) bool {
	for _, c := range m.linear {
		sum := 0
		for _, t := range c.terms {
			sum += t.Coef * m.lb[t.Var.id]
		}
		if sum > c.bound {
			return false
		}
	}
	for _, group := range m.noOverlap {
		fixed := fixedPresentIntervals(m, group.intervals)
		for i := 1; i < len(fixed); i++ {
			if fixed[i].start < fixed[i-1].end {
				return false
			}
		}
	}
	return true
}

func ctxDone(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

type snapshot_ struct {
	lb, ub []int
}

func snapshot(m *Model) snapshot_ {
	return snapshot_{
		lb: append([]int(nil), m.lb...),
		ub: append([]int(nil), m.ub...),
	}
}

func restore(m *Model, s snapshot_) {
	copy(m.lb, s.lb)
	copy(m.ub, s.ub)
}

func snapshotValues(m *Model) map[VarID]int {
	values := make(map[VarID]int, len(m.lb))
	for id := range m.lb {
		values[VarID(id)] = m.lb[id]
	}
	return values
}

package cpmodel

// propagateLinear runs bound-consistency propagation over every
// LinearSum constraint to a fixpoint, tightening each variable's
// bounds given the extremal contribution of every other term. Returns
// false the moment any variable's bounds become empty (lb > ub).
func propagateLinear(m *Model) bool {
	for {
		changed := false

		for _, c := range m.linear {
			minSum := 0
			for _, t := range c.terms {
				minSum += minContribution(m, t)
			}
			if minSum > c.bound {
				return false
			}

			for _, t := range c.terms {
				restMin := minSum - minContribution(m, t)
				slack := c.bound - restMin

				switch {
				case t.Coef > 0:
					newUB := floorDiv(slack, t.Coef)
					if newUB < m.ub[t.Var.id] {
						m.ub[t.Var.id] = newUB
						changed = true
					}
				case t.Coef < 0:
					newLB := ceilDiv(slack, t.Coef)
					if newLB > m.lb[t.Var.id] {
						m.lb[t.Var.id] = newLB
						changed = true
					}
				}
				if m.lb[t.Var.id] > m.ub[t.Var.id] {
					return false
				}
			}
		}

		if !changed {
			return true
		}
	}
}

func minContribution(m *Model, t Term) int {
	if t.Coef >= 0 {
		return t.Coef * m.lb[t.Var.id]
	}
	return t.Coef * m.ub[t.Var.id]
}

// noOverlapConsistent checks every NoOverlap group for a conflict
// among intervals that are already fully fixed (presence == 1 and
// start/end each pinned to a single value). Intervals not yet fully
// decided are skipped rather than treated as a violation — this is a
// feasibility check at the current search node, not a propagator, so
// it only rules out branches that are already provably broken.
func noOverlapConsistent(m *Model) bool {
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

type fixedInterval struct {
	start, end int
}

func fixedPresentIntervals(m *Model, intervals []Interval) []fixedInterval {
	var out []fixedInterval
	for _, iv := range intervals {
		if !isFixed(m, iv.Presence.id) || m.lb[iv.Presence.id] != 1 {
			continue
		}
		if !isFixed(m, iv.Start.id) || !isFixed(m, iv.End.id) {
			continue
		}
		out = append(out, fixedInterval{start: m.lb[iv.Start.id], end: m.lb[iv.End.id]})
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].start > out[j].start; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

func isFixed(m *Model, id VarID) bool {
	return m.lb[id] == m.ub[id]
}

// floorDiv returns floor(a / b) for b != 0.
func floorDiv(a, b int) int {
	q := a / b
	r := a % b
	if r != 0 && ((r < 0) != (b < 0)) {
		q--
	}
	return q
}

// ceilDiv returns ceil(a / b) for b != 0.
func ceilDiv(a, b int) int {
	return -floorDiv(-a, b)
}

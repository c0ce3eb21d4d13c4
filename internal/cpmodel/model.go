// Package cpmodel is a small constraint-programming engine exposing
// exactly the five primitives spec.md's REDESIGN FLAGS call for:
// integer variables, boolean variables, (optional) intervals,
// no-overlap, and linear-sum inequalities. No constraint solver
// binding exists anywhere in the example pack (checked against every
// go.mod in the retrieval set), so this package is the one place in
// the repository written from scratch rather than adapted from a
// library — the interface shape is what matters, not a borrowed
// implementation.
//
// Precedence, equality, and the objective-bounding trick used to
// compute a makespan are not separate primitives: they are all
// expressed as LinearSum inequalities over IntVars, keeping the public
// surface to exactly the five kinds the REDESIGN FLAGS name. Interval
// is a plain value bundling an already-declared start/end pair with a
// presence literal — the duration equality (end = start + duration)
// is itself posted as two LinearSum constraints by the caller, not
// baked invisibly into interval construction.
package cpmodel

// VarID identifies a variable within a Model.
type VarID int

// IntVar is an integer decision variable with bounds [lo, hi].
type IntVar struct {
	id    VarID
	model *Model
}

// ID returns the variable's identifier, for reading back a Result.
func (v IntVar) ID() VarID { return v.id }

// BoolVar is an IntVar constrained to {0, 1}.
type BoolVar struct {
	IntVar
}

// Interval bundles a start/end variable pair, a fixed duration, and a
// presence literal that gates whether the interval participates in
// NoOverlap constraints — the optional-interval primitive spec.md
// §4.5's resource-exclusivity constraint calls for.
type Interval struct {
	Start    IntVar
	End      IntVar
	Duration int
	Presence BoolVar
}

// NewInterval packages an already-declared start/end pair into an
// Interval value. It does not itself constrain End to Start+Duration
// — callers post that via two LinearSum constraints (see
// Model.LinkDuration) so duration equality stays expressed through
// the five named primitives rather than a hidden side effect.
func NewInterval(start, end IntVar, duration int, presence BoolVar) Interval {
	return Interval{Start: start, End: end, Duration: duration, Presence: presence}
}

// Term is one coefficient*variable addend of a LinearSum inequality.
type Term struct {
	Coef int
	Var  IntVar
}

type linearLE struct {
	terms []Term
	bound int
}

type noOverlapGroup struct {
	intervals []Interval
}

// Model accumulates variables and constraints for one scheduling
// attempt. It is not safe for concurrent use; each request builds its
// own Model (spec.md §5's request-scoped concurrency model).
type Model struct {
	names []string
	lb    []int
	ub    []int

	linear    []linearLE
	noOverlap []noOverlapGroup

	objective *VarID
}

// NewModel returns an empty Model.
func NewModel() *Model {
	return &Model{}
}

func (m *Model) newVar(lo, hi int, name string) IntVar {
	id := VarID(len(m.lb))
	m.lb = append(m.lb, lo)
	m.ub = append(m.ub, hi)
	m.names = append(m.names, name)
	return IntVar{id: id, model: m}
}

// NewIntVar declares an integer variable with domain [lo, hi].
func (m *Model) NewIntVar(lo, hi int, name string) IntVar {
	return m.newVar(lo, hi, name)
}

// NewBoolVar declares a {0,1} variable.
func (m *Model) NewBoolVar(name string) BoolVar {
	return BoolVar{m.newVar(0, 1, name)}
}

// AddLinearLE posts Σ terms[i].Coef*terms[i].Var <= bound.
func (m *Model) AddLinearLE(terms []Term, bound int) {
	m.linear = append(m.linear, linearLE{terms: append([]Term(nil), terms...), bound: bound})
}

// AddEquality posts a == b via two LinearSum inequalities.
func (m *Model) AddEquality(a, b IntVar) {
	m.AddLinearLE([]Term{{1, a}, {-1, b}}, 0)
	m.AddLinearLE([]Term{{1, b}, {-1, a}}, 0)
}

// LinkDuration posts end - start == duration via two LinearSum
// inequalities, the invariant an Interval's Start/End pair must
// satisfy.
func (m *Model) LinkDuration(start, end IntVar, duration int) {
	m.AddLinearLE([]Term{{1, end}, {-1, start}}, duration)
	m.AddLinearLE([]Term{{1, start}, {-1, end}}, -duration)
}

// AddPrecedence posts end <= start (a non-overlap-in-time ordering
// between two IntVars, e.g. a dependency edge's predecessor end and
// successor start) via LinearSum.
func (m *Model) AddPrecedence(end, start IntVar) {
	m.AddLinearLE([]Term{{1, end}, {-1, start}}, 0)
}

// AddNoOverlap posts that the intervals whose Presence literal is 1
// must not overlap in [Start, End).
func (m *Model) AddNoOverlap(intervals []Interval) {
	m.noOverlap = append(m.noOverlap, noOverlapGroup{intervals: append([]Interval(nil), intervals...)})
}

// Minimize sets v as the objective to minimize.
func (m *Model) Minimize(v IntVar) {
	id := v.id
	m.objective = &id
}

// NumVars returns the number of declared variables.
func (m *Model) NumVars() int { return len(m.lb) }

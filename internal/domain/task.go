package domain

import "time"

// InputTask is the core entity of a project description: a unit of
// work with optional effort, optional date window, optional assignee
// constraints, and outgoing dependency edges (spec.md §3).
type InputTask struct {
	Name        string
	Description string

	// SpecificAssignments is true iff every name in Assignees resolves
	// to a Person rather than a Team.
	SpecificAssignments bool
	Assignees           []string

	// Next holds the names of this task's successors.
	Next []string

	// Parallelizable tasks may have their effort split into unit
	// segments performed concurrently by distinct people. Parallelizable
	// implies Estimate != nil && *Estimate >= 2.
	Parallelizable bool

	// Estimate is business days of effort. nil means unknown (the
	// task must carry both StartDate and EndDate instead).
	Estimate *int

	StartDate *time.Time
	EndDate   *time.Time

	Status Status

	// InputRowIdx is the source row position recorded by the parser.
	// Nothing downstream reads it; output is keyed by task name.
	InputRowIdx int

	// Scheduler holds fields derived and filled in during scheduling.
	// It is zero-valued until a scheduling attempt touches this task.
	Scheduler SchedulerFields
}

// IsMilestone reports whether t is a zero-duration event: an explicit
// Estimate of 0.
func (t *InputTask) IsMilestone() bool {
	return t.Estimate != nil && *t.Estimate == 0
}

// Clone returns a deep copy of t, suitable for the per-attempt
// deep-copy the rollback driver performs so that mutation during one
// scheduling attempt never leaks into the next (spec.md §5).
func (t *InputTask) Clone() *InputTask {
	clone := *t
	clone.Assignees = append([]string(nil), t.Assignees...)
	clone.Next = append([]string(nil), t.Next...)
	if t.Estimate != nil {
		v := *t.Estimate
		clone.Estimate = &v
	}
	if t.StartDate != nil {
		v := *t.StartDate
		clone.StartDate = &v
	}
	if t.EndDate != nil {
		v := *t.EndDate
		clone.EndDate = &v
	}
	clone.Scheduler = t.Scheduler.clone()
	return &clone
}

// Edge is a dependency edge (u -> v) in the task graph. Weight is the
// ancestor's estimate (used for longest-path / critical-path
// computation); Slack and Critical are filled in by the decorator.
type Edge struct {
	From     string
	To       string
	Weight   int
	Slack    int
	Critical bool
}

// SchedulerFields are the per-task values computed during one
// scheduling attempt: densified ids, the CP model's variable domains,
// and — once solved — the assignment the scheduler found.
type SchedulerFields struct {
	ID int // dense task id, assigned by the graph builder

	// EligibleAssignees is the dense person-id domain the CP model may
	// choose from. For a specific single-person assignment this is a
	// singleton.
	EligibleAssignees []int

	// Densification inputs.
	EarliestStart int
	LatestEnd     int
	Estimate      int // post-densification effective estimate
	Exclude       bool

	// Solved outputs, valid once the scheduler has run.
	StartOffset int
	EndOffset   int
	AssignedTo  int // dense person-id; -1 if unset
}

func (f SchedulerFields) clone() SchedulerFields {
	clone := f
	clone.EligibleAssignees = append([]int(nil), f.EligibleAssignees...)
	return clone
}

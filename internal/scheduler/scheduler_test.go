package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/flowplan/internal/cpmodel"
	"github.com/alexanderramin/flowplan/internal/domain"
	"github.com/alexanderramin/flowplan/internal/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC) // Monday

func est(n int) *int { return &n }

func TestSchedule_TwoTaskPrecedenceSinglePerson(t *testing.T) {
	meta := domain.NewMetadata()
	require.NoError(t, meta.SetAllocation("Alice", 1.0))

	a := &domain.InputTask{Name: "A", Estimate: est(2), Assignees: []string{"Alice"}, SpecificAssignments: true, Next: []string{"B"}}
	b := &domain.InputTask{Name: "B", Estimate: est(3), Assignees: []string{"Alice"}, SpecificAssignments: true}

	g, _, err := graph.Build([]*domain.InputTask{a, b})
	require.NoError(t, err)

	result, err := Schedule(context.Background(), g, meta, nil, today, 2*time.Second)
	require.NoError(t, err)
	require.Equal(t, cpmodel.Optimal, result.Outcome)
	assert.Equal(t, 5, result.Makespan)
	assert.Equal(t, 0, result.Tasks["A"].StartOffset)
	assert.Equal(t, 2, result.Tasks["A"].EndOffset)
	assert.Equal(t, 2, result.Tasks["B"].StartOffset)
	assert.Equal(t, 5, result.Tasks["B"].EndOffset)
	assert.Equal(t, "Alice", result.Tasks["A"].AssignedTo)
	assert.Equal(t, "Alice", result.Tasks["B"].AssignedTo)
}

func TestSchedule_ResourceExclusivityForcesSequencing(t *testing.T) {
	meta := domain.NewMetadata()
	require.NoError(t, meta.SetAllocation("Alice", 1.0))

	a := &domain.InputTask{Name: "A", Estimate: est(2), Assignees: []string{"Alice"}, SpecificAssignments: true}
	b := &domain.InputTask{Name: "B", Estimate: est(3), Assignees: []string{"Alice"}, SpecificAssignments: true}

	g, _, err := graph.Build([]*domain.InputTask{a, b})
	require.NoError(t, err)

	result, err := Schedule(context.Background(), g, meta, nil, today, 2*time.Second)
	require.NoError(t, err)
	require.Equal(t, cpmodel.Optimal, result.Outcome)
	assert.Equal(t, 5, result.Makespan)

	ta, tb := result.Tasks["A"], result.Tasks["B"]
	assert.True(t, ta.EndOffset <= tb.StartOffset || tb.EndOffset <= ta.StartOffset, "single assignee's two tasks must not overlap")
}

func TestSchedule_TwoPeopleRunInParallel(t *testing.T) {
	meta := domain.NewMetadata()
	require.NoError(t, meta.SetAllocation("Alice", 1.0))
	require.NoError(t, meta.SetAllocation("Bob", 1.0))

	a := &domain.InputTask{Name: "A", Estimate: est(2), Assignees: []string{"Alice"}, SpecificAssignments: true}
	b := &domain.InputTask{Name: "B", Estimate: est(3), Assignees: []string{"Bob"}, SpecificAssignments: true}

	g, _, err := graph.Build([]*domain.InputTask{a, b})
	require.NoError(t, err)

	result, err := Schedule(context.Background(), g, meta, nil, today, 2*time.Second)
	require.NoError(t, err)
	require.Equal(t, cpmodel.Optimal, result.Outcome)
	assert.Equal(t, 3, result.Makespan)
}

func TestSchedule_SpecificSiblingsShareTimes(t *testing.T) {
	meta := domain.NewMetadata()
	require.NoError(t, meta.SetAllocation("Alice", 1.0))
	require.NoError(t, meta.SetAllocation("Bob", 1.0))

	main := &domain.InputTask{Name: "Pair", Estimate: est(2), Assignees: []string{"Alice"}, SpecificAssignments: true}
	sibling := &domain.InputTask{Name: "Pair_specific_1", Estimate: est(2), Assignees: []string{"Bob"}, SpecificAssignments: true}

	g, _, err := graph.Build([]*domain.InputTask{main, sibling})
	require.NoError(t, err)

	specificMap := map[string][]*domain.InputTask{"Pair": {sibling}}
	result, err := Schedule(context.Background(), g, meta, specificMap, today, 2*time.Second)
	require.NoError(t, err)
	require.Equal(t, cpmodel.Optimal, result.Outcome)

	assert.Equal(t, result.Tasks["Pair"].StartOffset, result.Tasks["Pair_specific_1"].StartOffset)
	assert.Equal(t, result.Tasks["Pair"].EndOffset, result.Tasks["Pair_specific_1"].EndOffset)
}

func TestSchedule_AllocationCapForcesLongerMakespan(t *testing.T) {
	meta := domain.NewMetadata()
	require.NoError(t, meta.SetAllocation("Alice", 0.5))

	a := &domain.InputTask{Name: "A", Estimate: est(2), Assignees: []string{"Alice"}, SpecificAssignments: true}

	g, _, err := graph.Build([]*domain.InputTask{a})
	require.NoError(t, err)

	result, err := Schedule(context.Background(), g, meta, nil, today, 2*time.Second)
	require.NoError(t, err)
	require.Equal(t, cpmodel.Optimal, result.Outcome)
	// Alice's estimate sum (2) must be <= 0.5 * makespan, i.e. makespan >= 4.
	assert.GreaterOrEqual(t, result.Makespan, 4)
}

func TestSchedule_MissingEstimateErrors(t *testing.T) {
	meta := domain.NewMetadata()
	require.NoError(t, meta.SetAllocation("Alice", 1.0))

	a := &domain.InputTask{Name: "A", Assignees: []string{"Alice"}, SpecificAssignments: true}

	g, _, err := graph.Build([]*domain.InputTask{a})
	require.NoError(t, err)

	_, err = Schedule(context.Background(), g, meta, nil, today, time.Second)
	require.Error(t, err)
	var missing *MissingEstimateError
	assert.ErrorAs(t, err, &missing)
}

func TestSchedule_DependsOnPastErrors(t *testing.T) {
	meta := domain.NewMetadata()
	require.NoError(t, meta.SetAllocation("Alice", 1.0))

	pastEnd := today.AddDate(0, 0, -10)
	pastStart := today.AddDate(0, 0, -15)
	done := &domain.InputTask{Name: "Done", Estimate: est(1), StartDate: &pastStart, EndDate: &pastEnd, Status: domain.StatusCompleted, Next: []string{"Next"}}
	next := &domain.InputTask{Name: "Next", Estimate: est(1), Assignees: []string{"Alice"}, SpecificAssignments: true}

	g, _, err := graph.Build([]*domain.InputTask{done, next})
	require.NoError(t, err)

	_, err = Schedule(context.Background(), g, meta, nil, today, time.Second)
	require.Error(t, err)
	var dep *DependsOnPastError
	assert.ErrorAs(t, err, &dep)
}

func TestSchedule_AllocationCapRoundsRatherThanTruncates(t *testing.T) {
	meta := domain.NewMetadata()
	// 0.29*100 == 28.999999999999996 in float64; truncating instead of
	// rounding would post an allocation cap of 28 rather than 29,
	// forcing a needlessly larger makespan (104 instead of 100).
	require.NoError(t, meta.SetAllocation("Alice", 0.29))

	a := &domain.InputTask{Name: "A", Estimate: est(29), Assignees: []string{"Alice"}, SpecificAssignments: true}

	g, _, err := graph.Build([]*domain.InputTask{a})
	require.NoError(t, err)

	result, err := Schedule(context.Background(), g, meta, nil, today, 5*time.Second)
	require.NoError(t, err)
	require.Equal(t, cpmodel.Optimal, result.Outcome)
	assert.Equal(t, 100, result.Makespan)
}

func TestSchedule_IrrelevantLowAllocationDoesNotInflateHorizon(t *testing.T) {
	meta := domain.NewMetadata()
	require.NoError(t, meta.SetAllocation("Alice", 1.0))
	// Ghost is never assigned to any task in this graph; its tiny
	// allocation must not pad every task's domain.
	require.NoError(t, meta.SetAllocation("Ghost", 0.01))

	a := &domain.InputTask{Name: "A", Estimate: est(3), Assignees: []string{"Alice"}, SpecificAssignments: true}

	g, _, err := graph.Build([]*domain.InputTask{a})
	require.NoError(t, err)

	result, err := Schedule(context.Background(), g, meta, nil, today, 300*time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, cpmodel.Optimal, result.Outcome)
	assert.Equal(t, 3, result.Makespan)
}

func TestSchedule_ExcludedPastTaskSkipsScheduling(t *testing.T) {
	meta := domain.NewMetadata()
	require.NoError(t, meta.SetAllocation("Alice", 1.0))

	pastEnd := today.AddDate(0, 0, -10)
	pastStart := today.AddDate(0, 0, -15)
	done := &domain.InputTask{Name: "Done", Estimate: est(1), StartDate: &pastStart, EndDate: &pastEnd, Status: domain.StatusCompleted}
	open := &domain.InputTask{Name: "Open", Estimate: est(2), Assignees: []string{"Alice"}, SpecificAssignments: true}

	g, _, err := graph.Build([]*domain.InputTask{done, open})
	require.NoError(t, err)

	result, err := Schedule(context.Background(), g, meta, nil, today, time.Second)
	require.NoError(t, err)
	require.Equal(t, cpmodel.Optimal, result.Outcome)
	_, stillPresent := result.Tasks["Done"]
	assert.False(t, stillPresent, "excluded tasks are left for the merger, not the scheduler's own result")
}

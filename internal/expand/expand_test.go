package expand

import (
	"testing"
	"time"

	"github.com/alexanderramin/flowplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func estTask(name string, estimate int, next ...string) *domain.InputTask {
	e := estimate
	return &domain.InputTask{Name: name, Estimate: &e, Next: next}
}

func TestSpecific_SplitsIntoSiblings(t *testing.T) {
	task := estTask("T1", 3)
	task.SpecificAssignments = true
	task.Assignees = []string{"Alice", "Bob", "Carol"}

	result, specificMap := Specific([]*domain.InputTask{task})
	require.Len(t, result, 3)
	require.Contains(t, specificMap, "T1")
	require.Len(t, specificMap["T1"], 2)

	assert.Equal(t, []string{"Alice"}, result[0].Assignees)
	assert.Equal(t, "T1_specific_1", result[1].Name)
	assert.Equal(t, []string{"Bob"}, result[1].Assignees)
	assert.Equal(t, "T1_specific_2", result[2].Name)
	assert.Equal(t, []string{"Carol"}, result[2].Assignees)
}

func TestSpecific_PredecessorsFanOutToSiblings(t *testing.T) {
	pred := estTask("P", 1, "T1")
	task := estTask("T1", 3)
	task.SpecificAssignments = true
	task.Assignees = []string{"Alice", "Bob"}

	result, _ := Specific([]*domain.InputTask{pred, task})
	var predOut *domain.InputTask
	for _, r := range result {
		if r.Name == "P" {
			predOut = r
		}
	}
	require.NotNil(t, predOut)
	assert.ElementsMatch(t, []string{"T1", "T1_specific_1"}, predOut.Next)
}

func TestSpecific_SingleAssigneeUnaffected(t *testing.T) {
	task := estTask("T1", 3)
	task.SpecificAssignments = true
	task.Assignees = []string{"Alice"}

	result, specificMap := Specific([]*domain.InputTask{task})
	require.Len(t, result, 1)
	assert.Empty(t, specificMap)
}

func TestParallelizable_BuildsChain(t *testing.T) {
	task := estTask("Big", 4)
	task.Parallelizable = true
	endDate := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	task.EndDate = &endDate
	task.Next = []string{"Done"}

	result, parallelMap := Parallelizable([]*domain.InputTask{task}, time.Time{})
	require.Len(t, result, 4)
	require.Contains(t, parallelMap, "Big")
	require.Len(t, parallelMap["Big"], 3)

	assert.Equal(t, 1, *result[0].Estimate)
	assert.Nil(t, result[0].EndDate)
	assert.Equal(t, []string{"Big_chain_1"}, result[0].Next)

	assert.Equal(t, "Big_chain_1", result[1].Name)
	assert.Equal(t, []string{"Big_chain_2"}, result[1].Next)

	last := result[3]
	assert.Equal(t, "Big_chain_3", last.Name)
	assert.Equal(t, []string{"Done"}, last.Next)
	assert.Equal(t, &endDate, last.EndDate)
}

func TestParallelizable_BelowThresholdUnaffected(t *testing.T) {
	task := estTask("Small", 1)
	task.Parallelizable = true // invalid per verifier but expander itself only checks estimate >= 2

	result, parallelMap := Parallelizable([]*domain.InputTask{task}, time.Time{})
	require.Len(t, result, 1)
	assert.Empty(t, parallelMap)
}

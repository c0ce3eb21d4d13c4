package tabular

import (
	"testing"

	"github.com/alexanderramin/flowplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTasksJSON_BasicArray(t *testing.T) {
	meta := domain.NewMetadata()
	require.NoError(t, meta.SetAllocation("Alice", 1.0))
	payload := `[
		{"Task": "T1", "Description": "d", "Estimate": 3, "Assignee": "Alice", "next": ["T2"]},
		{"Task": "T2", "Estimate": "~7", "Assignee": ["Alice"]}
	]`
	tasks, errs := ParseTasksJSON(payload, meta)
	require.Empty(t, errs)
	require.Len(t, tasks, 2)

	assert.Equal(t, "T1", tasks[0].Name)
	assert.Equal(t, 3, *tasks[0].Estimate)
	assert.Equal(t, []string{"T2"}, tasks[0].Next)

	assert.True(t, tasks[1].Parallelizable)
	assert.Equal(t, 7, *tasks[1].Estimate)
	assert.Equal(t, []string{"Alice"}, tasks[1].Assignees)
}

func TestParseTasksJSON_InvalidJSON(t *testing.T) {
	meta := domain.NewMetadata()
	_, errs := ParseTasksJSON(`not json`, meta)
	require.Len(t, errs, 1)
}

func TestParseTasksJSON_MixedAssigneeArray(t *testing.T) {
	meta := domain.NewMetadata()
	require.NoError(t, meta.AddTeam("backend", []string{"Alice"}))
	payload := `[{"Task": "T1", "Assignee": ["backend", "Bob"]}]`
	_, errs := ParseTasksJSON(payload, meta)
	require.Len(t, errs, 1)
	var mixed *MixedAssigneesError
	require.ErrorAs(t, errs[0], &mixed)
}

func TestParseTasksJSON_SkipsBlankTaskName(t *testing.T) {
	meta := domain.NewMetadata()
	payload := `[{"Task": "", "Description": "skip me"}, {"Task": "T1"}]`
	tasks, errs := ParseTasksJSON(payload, meta)
	require.Empty(t, errs)
	require.Len(t, tasks, 1)
	assert.Equal(t, "T1", tasks[0].Name)
}

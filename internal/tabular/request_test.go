package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePayload_PrefersJSON(t *testing.T) {
	payload := `[{"Task": "T1", "Estimate": 3}]`
	_, tasks, _, errs := ParsePayload(payload)
	require.Empty(t, errs)
	require.Len(t, tasks, 1)
	assert.Equal(t, "T1", tasks[0].Name)
}

func TestParsePayload_FallsBackToCommaCSV(t *testing.T) {
	payload := "Task,Description,Estimate,StartDate,EndDate,Status,Assignee,next\nT1,,3,,,,,\n"
	_, tasks, _, errs := ParsePayload(payload)
	require.Empty(t, errs)
	require.Len(t, tasks, 1)
	assert.Equal(t, "T1", tasks[0].Name)
}

func TestParsePayload_FallsBackToTabCSV(t *testing.T) {
	payload := "Task\tDescription\tEstimate\tStartDate\tEndDate\tStatus\tAssignee\tnext\nT1\t\t3\t\t\t\t\t\n"
	_, tasks, _, errs := ParsePayload(payload)
	require.Empty(t, errs)
	require.Len(t, tasks, 1)
	assert.Equal(t, "T1", tasks[0].Name)
}

func TestParsePayload_MetadataCarriesThroughCSV(t *testing.T) {
	payload := "%TEAM,backend,Alice,Bob\nTask,Description,Estimate,StartDate,EndDate,Status,Assignee,next\nT1,,1,,,,backend,\n"
	meta, tasks, _, errs := ParsePayload(payload)
	require.Empty(t, errs)
	require.Len(t, tasks, 1)
	assert.True(t, meta.IsTeam("backend"))
	assert.False(t, tasks[0].SpecificAssignments)
}

func TestParsePayload_NoTasksYieldsError(t *testing.T) {
	_, tasks, _, errs := ParsePayload("")
	assert.Empty(t, tasks)
	require.NotEmpty(t, errs)
}

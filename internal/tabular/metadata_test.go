package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMetadata_TeamAndAllocation(t *testing.T) {
	rows := [][]string{
		{"%TEAM", "backend", "Alice", "Bob"},
		{"%ALLOCATION", "Bob", "0.5"},
	}
	meta, errs := ExtractMetadata(rows)
	require.Empty(t, errs)
	assert.True(t, meta.IsTeam("backend"))
	assert.Equal(t, 0.5, meta.Allocation("Bob"))
	assert.Equal(t, 1.0, meta.Allocation("Alice"))
}

func TestExtractMetadata_AllocationBeforeTeam(t *testing.T) {
	rows := [][]string{
		{"%ALLOCATION", "Michael", ".5"},
		{"%TEAM", "All", "Michael", "John"},
	}
	meta, errs := ExtractMetadata(rows)
	require.Empty(t, errs)
	assert.Equal(t, 0.5, meta.Allocation("Michael"))
	assert.Equal(t, 1.0, meta.Allocation("John"))
}

func TestExtractMetadata_EmptyTeamFails(t *testing.T) {
	rows := [][]string{
		{"%TEAM", "backend"},
	}
	_, errs := ExtractMetadata(rows)
	require.Len(t, errs, 1)
}

func TestExtractMetadata_BadAllocationFraction(t *testing.T) {
	rows := [][]string{
		{"%ALLOCATION", "Alice", "1.5"},
	}
	_, errs := ExtractMetadata(rows)
	require.Len(t, errs, 1)
}

func TestExtractMetadata_IgnoresNonDirectiveRows(t *testing.T) {
	rows := [][]string{
		{"Task", "Description"},
		{"T1", "a task"},
	}
	meta, errs := ExtractMetadata(rows)
	require.Empty(t, errs)
	assert.Empty(t, meta.Teams)
}

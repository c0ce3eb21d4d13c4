package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddTeam_DefaultsMembersToFullAllocation(t *testing.T) {
	m := NewMetadata()
	require.NoError(t, m.AddTeam("backend", []string{"Alice", "Bob"}))
	assert.Equal(t, DefaultAllocation, m.Allocation("Alice"))
	assert.Equal(t, DefaultAllocation, m.Allocation("Bob"))
	assert.True(t, m.IsTeam("backend"))
	assert.True(t, m.IsPerson("Alice"))
}

func TestAddTeam_DuplicateNameReplaces(t *testing.T) {
	m := NewMetadata()
	require.NoError(t, m.AddTeam("backend", []string{"Alice"}))
	require.NoError(t, m.AddTeam("backend", []string{"Bob"}))
	assert.ElementsMatch(t, []string{"Bob"}, m.Teams["backend"].Members)
}

func TestAddTeam_CollisionWithExistingPerson(t *testing.T) {
	m := NewMetadata()
	require.NoError(t, m.SetAllocation("Alice", 0.5))
	err := m.AddTeam("Alice", []string{"Bob"})
	require.Error(t, err)
	var collision *NameCollisionError
	assert.ErrorAs(t, err, &collision)
}

func TestSetAllocation_OverridesDefault(t *testing.T) {
	m := NewMetadata()
	require.NoError(t, m.AddTeam("backend", []string{"Alice"}))
	require.NoError(t, m.SetAllocation("Alice", 0.5))
	assert.Equal(t, 0.5, m.Allocation("Alice"))
}

func TestSetAllocation_OutOfBounds(t *testing.T) {
	m := NewMetadata()
	err := m.SetAllocation("Alice", 1.5)
	require.Error(t, err)
	var bad *BadAllocationError
	assert.ErrorAs(t, err, &bad)
}

func TestSetAllocation_FloatingPersonWithNoTeam(t *testing.T) {
	m := NewMetadata()
	require.NoError(t, m.SetAllocation("Carol", 0.25))
	assert.True(t, m.IsPerson("Carol"))
	assert.Equal(t, 0.25, m.Allocation("Carol"))
}

func TestResolveAssignees_ExpandsTeamsAndDedupes(t *testing.T) {
	m := NewMetadata()
	require.NoError(t, m.AddTeam("backend", []string{"Alice", "Bob"}))
	got := m.ResolveAssignees([]string{"backend", "Bob", "Charlie"})
	assert.Equal(t, []string{"Alice", "Bob", "Charlie"}, got)
}

func TestInputTaskClone_IsIndependent(t *testing.T) {
	est := 3
	orig := &InputTask{
		Name:      "T1",
		Estimate:  &est,
		Assignees: []string{"Alice"},
		Next:      []string{"T2"},
	}
	clone := orig.Clone()
	*clone.Estimate = 99
	clone.Assignees[0] = "Bob"
	clone.Next = append(clone.Next, "T3")

	assert.Equal(t, 3, *orig.Estimate)
	assert.Equal(t, "Alice", orig.Assignees[0])
	assert.Equal(t, []string{"T2"}, orig.Next)
}

func TestIsMilestone(t *testing.T) {
	zero := 0
	three := 3
	assert.True(t, (&InputTask{Estimate: &zero}).IsMilestone())
	assert.False(t, (&InputTask{Estimate: &three}).IsMilestone())
	assert.False(t, (&InputTask{}).IsMilestone())
}

package domain

// Person identity is simply a unique, case-sensitive name; there is
// no further per-person state beyond what Metadata carries (spec.md
// §3).
type Person struct {
	Name string
}

// Team is a named, ordered list of people. Team and person names
// share one namespace: a name is either a team or a person, never
// both.
type Team struct {
	Name    string
	Members []string
}

// Metadata is the process-wide, per-request state built by the
// metadata extractor: the set of declared teams and each person's
// fractional availability.
type Metadata struct {
	Teams             map[string]*Team
	PeopleAllocations map[string]float64
}

// NewMetadata returns empty Metadata ready to be populated by
// directive rows.
func NewMetadata() *Metadata {
	return &Metadata{
		Teams:             make(map[string]*Team),
		PeopleAllocations: make(map[string]float64),
	}
}

// DefaultAllocation is the fractional availability assumed for anyone
// not named by an explicit %ALLOCATION row.
const DefaultAllocation = 1.0

// Allocation returns the fractional availability of the named person,
// defaulting to DefaultAllocation.
func (m *Metadata) Allocation(person string) float64 {
	if a, ok := m.PeopleAllocations[person]; ok {
		return a
	}
	return DefaultAllocation
}

// IsTeam reports whether name refers to a declared team.
func (m *Metadata) IsTeam(name string) bool {
	_, ok := m.Teams[name]
	return ok
}

// IsPerson reports whether name refers to a known person: either
// declared directly via %ALLOCATION, or implicitly via team
// membership.
func (m *Metadata) IsPerson(name string) bool {
	if _, ok := m.PeopleAllocations[name]; ok {
		return true
	}
	for _, team := range m.Teams {
		for _, member := range team.Members {
			if member == name {
				return true
			}
		}
	}
	return false
}

// AddTeam declares a team, adding each member at DefaultAllocation if
// they are not already known, and replacing any prior team of the
// same name. It returns an error if any member name collides with an
// existing team name.
func (m *Metadata) AddTeam(name string, members []string) error {
	for _, member := range members {
		if m.IsTeam(member) {
			return &NameCollisionError{Name: member, Reason: "already declared as a team"}
		}
	}
	if m.IsTeam(name) {
		delete(m.Teams, name)
	} else if m.IsPerson(name) {
		return &NameCollisionError{Name: name, Reason: "already declared as a person"}
	}
	m.Teams[name] = &Team{Name: name, Members: append([]string(nil), members...)}
	for _, member := range members {
		if _, ok := m.PeopleAllocations[member]; !ok {
			m.PeopleAllocations[member] = DefaultAllocation
		}
	}
	return nil
}

// SetAllocation overrides a person's fractional availability. fraction
// must be in [0, 1].
func (m *Metadata) SetAllocation(person string, fraction float64) error {
	if fraction < 0 || fraction > 1 {
		return &BadAllocationError{Person: person, Fraction: fraction}
	}
	if m.IsTeam(person) {
		return &NameCollisionError{Name: person, Reason: "already declared as a team"}
	}
	m.PeopleAllocations[person] = fraction
	return nil
}

// ResolveAssignees expands a list of assignee names (teams and/or
// people) into the flat set of person names it denotes. It is used by
// the scheduler to compute a task's eligible-assignee domain from a
// pool assignment.
func (m *Metadata) ResolveAssignees(names []string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(n string) {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	for _, n := range names {
		if team, ok := m.Teams[n]; ok {
			for _, member := range team.Members {
				add(member)
			}
			continue
		}
		add(n)
	}
	return out
}

// NameCollisionError reports a team/person namespace collision.
type NameCollisionError struct {
	Name   string
	Reason string
}

func (e *NameCollisionError) Error() string {
	return "name collision for " + e.Name + ": " + e.Reason
}

// BadAllocationError reports an out-of-range %ALLOCATION fraction.
type BadAllocationError struct {
	Person   string
	Fraction float64
}

func (e *BadAllocationError) Error() string {
	return "bad allocation for " + e.Person + ": fraction must be in [0,1]"
}

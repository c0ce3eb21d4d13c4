// Package graph builds the directed task graph the scheduler and
// merger operate on. Node identity is an opaque dense TaskID rather
// than the task's name, per the REDESIGN FLAGS: a side table maps id
// to name so the graph need not hash strings at each edge lookup, and
// the lower (expanded) graph's nodes cannot alias the upper graph's.
package graph

import "github.com/alexanderramin/flowplan/internal/domain"

// TaskID is a dense, 0-based node identifier assigned in task
// definition order.
type TaskID int

// Graph is an adjacency-list DAG over InputTask, indexed by dense
// TaskID. Tasks[id].Scheduler.ID always equals id.
type Graph struct {
	Tasks        []*domain.InputTask
	NameToID     map[string]TaskID
	Successors   [][]TaskID
	Predecessors [][]TaskID

	// Edges is the flat edge list in the order edges were discovered
	// (source task order, then that task's Next order). Weight is
	// filled in at build time; Slack and Critical are zero until the
	// decorator runs.
	Edges []*domain.Edge
}

// DuplicateTaskNameError reports two tasks sharing one name, violating
// the global name-uniqueness invariant (spec.md §3).
type DuplicateTaskNameError struct {
	Name string
}

func (e *DuplicateTaskNameError) Error() string {
	return "duplicate task name: " + e.Name
}

// Build assigns dense ids to tasks in definition order and resolves
// every Next reference into a graph edge. A Next name that resolves
// to no known task is dropped with a WARN notification — the source's
// silent-alias behavior is deliberately not reproduced (REDESIGN
// FLAGS).
func Build(tasks []*domain.InputTask) (*Graph, []domain.Notification, error) {
	g := &Graph{
		Tasks:        make([]*domain.InputTask, len(tasks)),
		NameToID:     make(map[string]TaskID, len(tasks)),
		Successors:   make([][]TaskID, len(tasks)),
		Predecessors: make([][]TaskID, len(tasks)),
	}

	for i, t := range tasks {
		if _, exists := g.NameToID[t.Name]; exists {
			return nil, nil, &DuplicateTaskNameError{Name: t.Name}
		}
		g.Tasks[i] = t
		g.NameToID[t.Name] = TaskID(i)
		t.Scheduler.ID = i
	}

	var notifications []domain.Notification
	for u, t := range g.Tasks {
		for _, name := range t.Next {
			v, ok := g.NameToID[name]
			if !ok {
				notifications = append(notifications, domain.Notification{
					Severity: domain.SeverityWarn,
					Message:  "dangling dependency: task " + t.Name + " names unknown successor " + name,
				})
				continue
			}
			g.Successors[u] = append(g.Successors[u], v)
			g.Predecessors[v] = append(g.Predecessors[v], TaskID(u))
			g.Edges = append(g.Edges, &domain.Edge{
				From:   t.Name,
				To:     name,
				Weight: effectiveWeight(t),
			})
		}
	}

	return g, notifications, nil
}

func effectiveWeight(t *domain.InputTask) int {
	if t.Estimate == nil {
		return 0
	}
	return *t.Estimate
}

// Name returns the task name for a dense id.
func (g *Graph) Name(id TaskID) string {
	return g.Tasks[id].Name
}

// DetectCycle runs a white/gray/black DFS, tracking the full
// recursion stack so that on finding a back edge it can report every
// edge of the closed cycle rather than just the closing pair. Returns
// the edges of the first cycle found in task-definition order, or nil
// if the graph is acyclic.
func (g *Graph) DetectCycle() []domain.Edge {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make([]int, len(g.Tasks))
	var path []TaskID
	var cycle []domain.Edge

	var visit func(u TaskID) bool
	visit = func(u TaskID) bool {
		color[u] = gray
		path = append(path, u)
		for _, v := range g.Successors[u] {
			if color[v] == gray {
				cycle = cycleEdges(g, path, v)
				return true
			}
			if color[v] == white {
				if visit(v) {
					return true
				}
			}
		}
		color[u] = black
		path = path[:len(path)-1]
		return false
	}

	for id := range g.Tasks {
		if color[id] == white {
			if visit(TaskID(id)) {
				return cycle
			}
		}
	}
	return nil
}

// cycleEdges reconstructs the edge list of the cycle that closes back
// to closeTo: the suffix of path from closeTo's first occurrence,
// wrapped around to close the loop.
func cycleEdges(g *Graph, path []TaskID, closeTo TaskID) []domain.Edge {
	start := 0
	for i, id := range path {
		if id == closeTo {
			start = i
			break
		}
	}
	loop := append(append([]TaskID(nil), path[start:]...), closeTo)

	edges := make([]domain.Edge, 0, len(loop)-1)
	for i := 0; i < len(loop)-1; i++ {
		u, v := loop[i], loop[i+1]
		edges = append(edges, domain.Edge{
			From:   g.Name(u),
			To:     g.Name(v),
			Weight: effectiveWeight(g.Tasks[u]),
		})
	}
	return edges
}

// TopologicalOrder returns task ids in a valid topological order via
// Kahn's algorithm. Callers must verify acyclicity first (DetectCycle)
// — TopologicalOrder on a cyclic graph returns a short, incomplete
// order rather than an error, since the verifier is the one place
// cycles are reported in detail.
func (g *Graph) TopologicalOrder() []TaskID {
	inDegree := make([]int, len(g.Tasks))
	for u := range g.Tasks {
		inDegree[u] = len(g.Predecessors[u])
	}

	var queue []TaskID
	for id, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, TaskID(id))
		}
	}

	order := make([]TaskID, 0, len(g.Tasks))
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		order = append(order, u)
		for _, v := range g.Successors[u] {
			inDegree[v]--
			if inDegree[v] == 0 {
				queue = append(queue, v)
			}
		}
	}
	return order
}

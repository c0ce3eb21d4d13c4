package merge

import (
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/flowplan/internal/calendar"
	"github.com/alexanderramin/flowplan/internal/domain"
	"github.com/alexanderramin/flowplan/internal/graph"
)

// SoonThreshold is the business-day window within which an upcoming
// task start triggers a "starting soon" notification (spec.md §4.7).
const SoonThreshold = 3

// PersonUtilization is one person's share of the makespan.
type PersonUtilization struct {
	Person        string
	DaysAllocated int
	Percentage    float64
}

// Decoration is the result of decorating an already-merged upper
// graph: critical path, makespan, per-person utilization, and
// tasks-starting-soon notifications.
type Decoration struct {
	CriticalPath  []string
	Makespan      int
	Utilization   []PersonUtilization
	Notifications []domain.Notification
}

// Decorate computes the decoration described by spec.md §4.7 over an
// already-merged graph. today is the real scheduling anchor (not a
// rolled-back one) used for the "starting soon" check.
func Decorate(g *graph.Graph, today time.Time) *Decoration {
	n := len(g.Tasks)
	weight := make([]int, n)
	for i, t := range g.Tasks {
		weight[i] = taskWeight(t)
	}

	order := g.TopologicalOrder()
	dist := make([]int, n)
	prev := make([]int, n)
	for i := range prev {
		prev[i] = -1
	}
	for _, u := range order {
		if dist[u] < weight[u] {
			dist[u] = weight[u]
		}
		for _, v := range g.Successors[u] {
			candidate := dist[u] + weight[v]
			if candidate > dist[v] {
				dist[v] = candidate
				prev[v] = int(u)
			}
		}
	}

	endNode, best := graph.TaskID(0), -1
	for id, d := range dist {
		if d > best {
			best = d
			endNode = graph.TaskID(id)
		}
	}

	var pathIDs []graph.TaskID
	for id := endNode; ; {
		pathIDs = append([]graph.TaskID{id}, pathIDs...)
		p := prev[id]
		if p < 0 {
			break
		}
		id = graph.TaskID(p)
	}

	critical := make(map[graph.TaskID]bool, len(pathIDs))
	for _, id := range pathIDs {
		critical[id] = true
	}

	criticalPath := make([]string, len(pathIDs))
	for i, id := range pathIDs {
		criticalPath[i] = g.Name(id)
	}

	for _, e := range g.Edges {
		u, v := g.NameToID[e.From], g.NameToID[e.To]
		uTask, vTask := g.Tasks[u], g.Tasks[v]
		if uTask.EndDate != nil && vTask.StartDate != nil {
			e.Slack = calendar.BusinessDaysBetween(*uTask.EndDate, *vTask.StartDate)
		}
		e.Critical = critical[u] && critical[v] && prev[v] == int(u)
	}

	makespan := best
	if makespan <= 0 {
		makespan = 1
	}

	allocated := make(map[string]int)
	for _, t := range g.Tasks {
		w := taskWeight(t)
		for _, person := range t.Assignees {
			allocated[person] += w
		}
	}
	people := make([]string, 0, len(allocated))
	for p := range allocated {
		people = append(people, p)
	}
	sort.Strings(people)
	utilization := make([]PersonUtilization, 0, len(people))
	for _, p := range people {
		days := allocated[p]
		utilization = append(utilization, PersonUtilization{
			Person:        p,
			DaysAllocated: days,
			Percentage:    float64(days) / float64(makespan) * 100,
		})
	}

	var notifications []domain.Notification
	for _, t := range g.Tasks {
		if t.StartDate == nil {
			continue
		}
		gap := calendar.BusinessDaysBetween(today, *t.StartDate)
		if gap >= 0 && gap <= SoonThreshold {
			notifications = append(notifications, domain.Notification{
				Severity: domain.SeverityInfo,
				Message:  fmt.Sprintf("task %q starts in %d business day(s)", t.Name, gap),
			})
		}
	}

	return &Decoration{
		CriticalPath:  criticalPath,
		Makespan:      makespan,
		Utilization:   utilization,
		Notifications: notifications,
	}
}

// taskWeight is a task's effort in business days for critical-path and
// utilization purposes: its Estimate when known, else the business-day
// span between its (by now merge-assigned) start and end dates —
// mirroring scheduler.baseEstimate's fallback for the same situation.
func taskWeight(t *domain.InputTask) int {
	if t.Estimate != nil {
		return *t.Estimate
	}
	if t.StartDate != nil && t.EndDate != nil {
		w := calendar.BusinessDaysBetween(*t.StartDate, *t.EndDate)
		if w < 0 {
			w = 0
		}
		return w
	}
	return 0
}

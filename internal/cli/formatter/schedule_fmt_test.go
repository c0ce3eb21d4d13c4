package formatter_test

import (
	"testing"
	"time"

	"github.com/alexanderramin/flowplan/internal/cli/formatter"
	"github.com/alexanderramin/flowplan/internal/contract"
	"github.com/alexanderramin/flowplan/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestRenderSchedule_IncludesTasksPathAndNotifications(t *testing.T) {
	resp := &contract.ScheduleResponse{
		Notifications: []domain.Notification{
			{Severity: domain.SeverityWarn, Message: "Bob is overallocated"},
		},
		Makespan:     5,
		CriticalPath: []string{"Design", "Build"},
		Tasks: []contract.TaskResult{
			{
				Task:      "Design",
				StartDate: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
				EndDate:   time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC),
				Assignees: []string{"Alice"},
				Status:    domain.StatusInProgress,
			},
		},
		Utilization: []contract.PersonUtilization{
			{Person: "Alice", DaysAllocated: 2, Percentage: 0.5},
		},
	}

	out := formatter.RenderSchedule(resp)
	assert.Contains(t, out, "Design")
	assert.Contains(t, out, "2026-01-05")
	assert.Contains(t, out, "Build")
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "Bob is overallocated")
}

func TestRenderSchedule_EmptyResponseRendersNothing(t *testing.T) {
	out := formatter.RenderSchedule(&contract.ScheduleResponse{})
	assert.Empty(t, out)
}

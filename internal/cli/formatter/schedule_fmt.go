package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/flowplan/internal/contract"
	"github.com/alexanderramin/flowplan/internal/domain"
)

// RenderSchedule renders a full contract.ScheduleResponse: the tasks
// table, critical path, per-person utilization, and notifications.
func RenderSchedule(resp *contract.ScheduleResponse) string {
	var b strings.Builder

	if len(resp.Tasks) > 0 {
		b.WriteString(Header("Schedule"))
		b.WriteString("\n")
		b.WriteString(RenderTable(
			[]string{"TASK", "START", "END", "ASSIGNEE", "STATUS"},
			taskRows(resp.Tasks),
		))
		b.WriteString("\n")
	}

	if len(resp.CriticalPath) > 0 {
		b.WriteString(Header("Critical Path"))
		b.WriteString("\n")
		b.WriteString(strings.Join(resp.CriticalPath, StyleDim.Render(" -> ")))
		b.WriteString(fmt.Sprintf("  %s\n\n", Dim(fmt.Sprintf("(%d business days)", resp.Makespan))))
	}

	if len(resp.Utilization) > 0 {
		b.WriteString(Header("Utilization"))
		b.WriteString("\n")
		b.WriteString(RenderTable(
			[]string{"PERSON", "DAYS", "PERCENTAGE"},
			utilizationRows(resp.Utilization),
		))
		b.WriteString("\n")
	}

	if len(resp.Notifications) > 0 {
		b.WriteString(RenderBox("Notifications", strings.TrimRight(RenderNotifications(resp.Notifications), "\n")))
		b.WriteString("\n")
	}

	return b.String()
}

// RenderNotifications renders one severity-colored line per notification.
func RenderNotifications(notes []domain.Notification) string {
	var b strings.Builder
	for _, n := range notes {
		b.WriteString(SeverityIndicator(n.Severity))
		b.WriteString(" ")
		b.WriteString(n.Message)
		b.WriteString("\n")
	}
	return b.String()
}

func taskRows(tasks []contract.TaskResult) [][]string {
	rows := make([][]string, len(tasks))
	for i, t := range tasks {
		start, end := "--", "--"
		if !t.StartDate.IsZero() {
			start = t.StartDate.Format("2006-01-02")
		}
		if !t.EndDate.IsZero() {
			end = t.EndDate.Format("2006-01-02")
		}
		rows[i] = []string{
			t.Task,
			start,
			end,
			strings.Join(t.Assignees, ", "),
			StatusIndicator(t.Status),
		}
	}
	return rows
}

func utilizationRows(us []contract.PersonUtilization) [][]string {
	rows := make([][]string, len(us))
	for i, u := range us {
		rows[i] = []string{
			u.Person,
			fmt.Sprintf("%d", u.DaysAllocated),
			fmt.Sprintf("%.1f%%", u.Percentage),
		}
	}
	return rows
}

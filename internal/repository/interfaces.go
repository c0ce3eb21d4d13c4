package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/flowplan/internal/domain"
)

// TaskAssignment is one person's slice of work on one calendar day:
// a task name and the status it carried at save time (spec.md §6's
// "tasks(schedule_id, task, date, assignee, status_ordinal)" row,
// minus the columns ScheduleRepo fills in itself).
type TaskAssignment struct {
	Task   string
	Status domain.Status
}

// Calendar is the save_schedule payload shape spec.md §6 names
// verbatim: date -> person -> the tasks that person is on that day.
type Calendar map[time.Time]map[string][]TaskAssignment

// ScheduleSummary is one row of a project's schedule history.
type ScheduleSummary struct {
	ID        string
	CreatedAt time.Time
}

// ScheduleTaskRow is one persisted calendar entry, read back out.
type ScheduleTaskRow struct {
	Task     string
	Date     time.Time
	Assignee string
	Status   domain.Status
}

// ScheduleRepo is spec.md §6's optional persistence collaborator: a
// save_schedule(project_name, calendar) entry point backed by the
// projects/schedules/tasks schema. Every SaveSchedule call inserts a
// new schedules row and the full calendar; prior schedules for the
// same project are retained, never overwritten.
type ScheduleRepo interface {
	SaveSchedule(ctx context.Context, projectName string, calendar Calendar) (scheduleID string, err error)
	ListSchedules(ctx context.Context, projectName string) ([]ScheduleSummary, error)
	GetSchedule(ctx context.Context, scheduleID string) ([]ScheduleTaskRow, error)
}

// Package contract defines the inbound request and outbound
// response/error envelopes for flowplan's one external operation
// (spec.md §6): schedule a raw task list and get back a merged,
// decorated schedule.
package contract

import (
	"time"

	"github.com/alexanderramin/flowplan/internal/domain"
)

// ScheduleRequest carries the raw request payload: spec.md §6's
// inbound request tries JSON, then comma-CSV, then tab-CSV, in that
// order (internal/tabular.ParsePayload).
type ScheduleRequest struct {
	Payload string
}

// TaskResult is one task's solved placement.
type TaskResult struct {
	Task      string
	StartDate time.Time
	EndDate   time.Time
	Assignees []string
	Status    domain.Status
}

// PersonUtilization is one person's share of the makespan.
type PersonUtilization struct {
	Person        string
	DaysAllocated int
	Percentage    float64
}

// ScheduleResponse is the outbound envelope.
type ScheduleResponse struct {
	Notifications []domain.Notification
	Makespan      int
	Tasks         []TaskResult
	CriticalPath  []string
	Utilization   []PersonUtilization
}

// ErrorResponse is returned in place of ScheduleResponse when parsing,
// verification, or scheduling fails outright.
type ErrorResponse struct {
	Message       string
	Notifications []domain.Notification
}

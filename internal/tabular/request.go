package tabular

import (
	"encoding/csv"
	"strings"

	"github.com/alexanderramin/flowplan/internal/domain"
)

// ParsePayload implements the inbound grammar fallback of spec.md §6:
// try JSON, then comma-delimited CSV, then tab-delimited CSV,
// committing to the first grammar that yields a non-empty task list.
func ParsePayload(payload string) (*domain.Metadata, []*domain.InputTask, []domain.Notification, []error) {
	if meta, tasks, notifications, errs := tryJSON(payload); len(tasks) > 0 {
		return meta, tasks, notifications, errs
	}
	if meta, tasks, notifications, errs := tryDelimited(payload, ','); len(tasks) > 0 {
		return meta, tasks, notifications, errs
	}
	if meta, tasks, notifications, errs := tryDelimited(payload, '\t'); len(tasks) > 0 {
		return meta, tasks, notifications, errs
	}

	// Nothing yielded a task list; report the comma-CSV attempt's
	// errors since the tabular grammar is the common case.
	meta, _, notifications, errs := tryDelimited(payload, ',')
	if len(errs) == 0 {
		errs = append(errs, &ParseError{Row: -1, Col: -1, Err: errNoTasksFound})
	}
	return meta, nil, notifications, errs
}

func tryJSON(payload string) (*domain.Metadata, []*domain.InputTask, []domain.Notification, []error) {
	trimmed := strings.TrimSpace(payload)
	if trimmed == "" || trimmed[0] != '[' {
		return nil, nil, nil, nil
	}
	meta := domain.NewMetadata()
	tasks, errs := ParseTasksJSON(payload, meta)
	return meta, tasks, nil, errs
}

func tryDelimited(payload string, delim rune) (*domain.Metadata, []*domain.InputTask, []domain.Notification, []error) {
	r := csv.NewReader(strings.NewReader(payload))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, nil, nil, []error{err}
	}

	meta, metaErrs := ExtractMetadata(rows)
	tasks, notifications, taskErrs := ParseTasks(rows, meta)

	var errs []error
	errs = append(errs, metaErrs...)
	errs = append(errs, taskErrs...)
	return meta, tasks, notifications, errs
}

var errNoTasksFound = noTasksFoundError{}

type noTasksFoundError struct{}

func (noTasksFoundError) Error() string {
	return "payload did not parse as JSON, comma-CSV, or tab-CSV into any task"
}

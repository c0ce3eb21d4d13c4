package tabular

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alexanderramin/flowplan/internal/calendar"
	"github.com/alexanderramin/flowplan/internal/domain"
)

// rawJSONTask mirrors the JSON grammar of spec.md §6: an array of
// objects sharing the tabular grammar's field names. Estimate and
// Assignee are loosely typed because the grammar allows Estimate as
// either a bare number or a "~"-prefixed string, and Assignee as
// either a single string or an array of strings.
type rawJSONTask struct {
	Task        string      `json:"Task"`
	Description string      `json:"Description"`
	Estimate    interface{} `json:"Estimate"`
	StartDate   string      `json:"StartDate"`
	EndDate     string      `json:"EndDate"`
	Status      string      `json:"Status"`
	Assignee    interface{} `json:"Assignee"`
	Next        []string    `json:"next"`
}

// ParseTasksJSON decodes payload as a JSON array of task objects.
func ParseTasksJSON(payload string, meta *domain.Metadata) ([]*domain.InputTask, []error) {
	var raws []rawJSONTask
	if err := json.Unmarshal([]byte(payload), &raws); err != nil {
		return nil, []error{fmt.Errorf("invalid JSON task array: %w", err)}
	}

	var tasks []*domain.InputTask
	var errs []error

	for i, raw := range raws {
		if raw.Task == "" {
			continue
		}
		task, taskErrs := jsonToTask(raw, meta, i)
		errs = append(errs, taskErrs...)
		if task != nil {
			tasks = append(tasks, task)
		}
	}

	return tasks, errs
}

func jsonToTask(raw rawJSONTask, meta *domain.Metadata, idx int) (*domain.InputTask, []error) {
	var errs []error

	task := &domain.InputTask{
		Name:        raw.Task,
		Description: raw.Description,
		Next:        append([]string(nil), raw.Next...),
		InputRowIdx: idx,
	}

	if raw.Estimate != nil {
		estimate, parallelizable, err := estimateFromJSON(raw.Estimate)
		if err != nil {
			errs = append(errs, &ParseError{Row: idx, Col: -1, Err: err})
		} else if estimate != nil {
			task.Estimate = estimate
			task.Parallelizable = parallelizable
		}
	}

	if raw.StartDate != "" {
		d, err := calendar.ParseDate(raw.StartDate)
		if err != nil {
			errs = append(errs, &ParseError{Row: idx, Col: -1, Err: err})
		} else {
			task.StartDate = &d
		}
	}

	if raw.EndDate != "" {
		d, err := calendar.ParseDate(raw.EndDate)
		if err != nil {
			errs = append(errs, &ParseError{Row: idx, Col: -1, Err: err})
		} else {
			task.EndDate = &d
		}
	}

	task.Status = domain.NormalizeStatus(raw.Status)

	if raw.Assignee != nil {
		assignees, err := assigneesFromJSON(raw.Assignee)
		if err != nil {
			errs = append(errs, &ParseError{Row: idx, Col: -1, Err: err})
		} else {
			task.Assignees = assignees
			specific, err := classifyAssignees(task.Name, assignees, meta)
			if err != nil {
				errs = append(errs, &ParseError{Row: idx, Col: -1, Err: err})
			} else {
				task.SpecificAssignments = specific
			}
		}
	}

	return task, errs
}

// estimateFromJSON accepts either a bare JSON number (unmarshalled as
// float64) or a string, optionally "~"-prefixed to mark
// parallelizable — matching the tabular grammar's "~7" convention.
func estimateFromJSON(v interface{}) (*int, bool, error) {
	switch t := v.(type) {
	case float64:
		n := int(t)
		return &n, false, nil
	case string:
		n, parallelizable, err := parseEstimate(t)
		if err != nil {
			return nil, false, err
		}
		return &n, parallelizable, nil
	default:
		return nil, false, fmt.Errorf("unsupported Estimate JSON type %T", v)
	}
}

// assigneesFromJSON accepts either a single string (optionally
// comma-separated, matching the tabular grammar) or a JSON array of
// strings.
func assigneesFromJSON(v interface{}) ([]string, error) {
	switch t := v.(type) {
	case string:
		return splitTrim(t, ","), nil
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("Assignee array element %v is not a string", item)
			}
			s = strings.TrimSpace(s)
			if s != "" {
				out = append(out, s)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported Assignee JSON type %T", v)
	}
}

package tabular

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/flowplan/internal/calendar"
	"github.com/alexanderramin/flowplan/internal/domain"
)

// requiredHeaders are the column names the header row must contain, in
// any order, with the single exception that "next" must be the last
// header present (spec.md §4.2).
var requiredHeaders = []string{"Task", "Description", "Estimate", "StartDate", "EndDate", "Status", "Assignee", "next"}

// MixedAssigneesError reports an assignee list that names both teams
// and people.
type MixedAssigneesError struct {
	Task string
}

func (e *MixedAssigneesError) Error() string {
	return fmt.Sprintf("task %q mixes team and person assignees", e.Task)
}

// header is the resolved column layout of one tabular payload.
type header struct {
	index   map[string]int
	nextCol int // column where "next" begins; all columns >= nextCol are dependency cells
}

// findHeader locates the first non-blank, non-directive row and
// resolves it into a header, or returns an error if required columns
// are missing or "next" is not last.
func findHeader(rows [][]string) (int, *header, error) {
	for i, raw := range rows {
		row := trimmedRow(raw)
		if isBlankRow(row) || rowIsDirective(row) {
			continue
		}
		h, err := resolveHeader(row)
		if err != nil {
			return i, nil, &ParseError{Row: i, Col: -1, Err: err}
		}
		return i, h, nil
	}
	return -1, nil, fmt.Errorf("no header row found")
}

func resolveHeader(row []string) (*header, error) {
	index := make(map[string]int, len(row))
	nextCol := -1
	for i, cell := range row {
		if cell == "" {
			continue
		}
		index[cell] = i
		if cell == "next" {
			nextCol = i
		}
	}
	for _, want := range requiredHeaders {
		if _, ok := index[want]; !ok {
			return nil, fmt.Errorf("missing required header %q", want)
		}
	}
	if nextCol != len(row)-1 && nextCol != -1 {
		for col, name := range row {
			if col > nextCol && name != "" {
				return nil, fmt.Errorf("header %q must be the last column; found %q after it", "next", name)
			}
		}
	}
	return &header{index: index, nextCol: nextCol}, nil
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}

func cell(row []string, h *header, name string) string {
	i, ok := h.index[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// ParseTasks converts data rows into InputTask records, per spec.md
// §4.2. meta is consulted to classify each task's assignee list as
// homogeneous people or homogeneous teams.
func ParseTasks(rows [][]string, meta *domain.Metadata) ([]*domain.InputTask, []domain.Notification, []error) {
	headerRow, h, err := findHeader(rows)
	if err != nil {
		return nil, nil, []error{err}
	}

	var tasks []*domain.InputTask
	var notifications []domain.Notification
	var errs []error

	for i := headerRow + 1; i < len(rows); i++ {
		row := trimmedRow(rows[i])
		if isBlankRow(row) || rowIsDirective(row) {
			continue
		}
		name := cell(row, h, "Task")
		if name == "" {
			continue
		}

		task, taskErrs := parseTaskRow(row, h, meta, i)
		errs = append(errs, taskErrs...)
		if task != nil {
			tasks = append(tasks, task)
		}
	}

	if len(tasks) == 0 && len(errs) == 0 {
		errs = append(errs, fmt.Errorf("no task rows found"))
	}

	return tasks, notifications, errs
}

func parseTaskRow(row []string, h *header, meta *domain.Metadata, rowIdx int) (*domain.InputTask, []error) {
	var errs []error

	task := &domain.InputTask{
		Name:        cell(row, h, "Task"),
		Description: cell(row, h, "Description"),
		InputRowIdx: rowIdx,
	}

	if raw := cell(row, h, "Estimate"); raw != "" {
		estimate, parallelizable, err := parseEstimate(raw)
		if err != nil {
			errs = append(errs, &ParseError{Row: rowIdx, Col: h.index["Estimate"], Err: err})
		} else {
			task.Estimate = &estimate
			task.Parallelizable = parallelizable
		}
	}

	if raw := cell(row, h, "StartDate"); raw != "" {
		d, err := calendar.ParseDate(raw)
		if err != nil {
			errs = append(errs, &ParseError{Row: rowIdx, Col: h.index["StartDate"], Err: err})
		} else {
			task.StartDate = &d
		}
	}

	if raw := cell(row, h, "EndDate"); raw != "" {
		d, err := calendar.ParseDate(raw)
		if err != nil {
			errs = append(errs, &ParseError{Row: rowIdx, Col: h.index["EndDate"], Err: err})
		} else {
			task.EndDate = &d
		}
	}

	task.Status = domain.NormalizeStatus(cell(row, h, "Status"))

	if raw := cell(row, h, "Assignee"); raw != "" {
		task.Assignees = splitTrim(raw, ",")
		specific, err := classifyAssignees(task.Name, task.Assignees, meta)
		if err != nil {
			errs = append(errs, &ParseError{Row: rowIdx, Col: h.index["Assignee"], Err: err})
		} else {
			task.SpecificAssignments = specific
		}
	}

	task.Next = dependencyCells(row, h)

	return task, errs
}

// parseEstimate parses an Estimate cell, where a leading "~" marks the
// task parallelizable.
func parseEstimate(raw string) (int, bool, error) {
	parallelizable := strings.HasPrefix(raw, "~")
	digits := strings.TrimPrefix(raw, "~")
	v, err := strconv.Atoi(strings.TrimSpace(digits))
	if err != nil {
		return 0, false, fmt.Errorf("invalid estimate %q: %w", raw, err)
	}
	return v, parallelizable, nil
}

// classifyAssignees reports whether names are all people
// (specific_assignments = true); fails if the list mixes teams and
// people.
func classifyAssignees(taskName string, names []string, meta *domain.Metadata) (bool, error) {
	var sawTeam, sawPerson bool
	for _, n := range names {
		if meta.IsTeam(n) {
			sawTeam = true
		} else {
			sawPerson = true
		}
	}
	if sawTeam && sawPerson {
		return false, &MixedAssigneesError{Task: taskName}
	}
	return !sawTeam, nil
}

// dependencyCells returns the non-empty cells at and after the "next"
// column, per spec.md §4.2's rule that every column to its right is
// an additional dependency cell for the row.
func dependencyCells(row []string, h *header) []string {
	if h.nextCol < 0 {
		return nil
	}
	var out []string
	for i := h.nextCol; i < len(row); i++ {
		if row[i] != "" {
			out = append(out, row[i])
		}
	}
	return out
}

func splitTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

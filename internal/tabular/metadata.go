package tabular

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/flowplan/internal/domain"
)

// rowIsDirective reports whether row is a %TEAM or %ALLOCATION
// directive row, per spec.md §4.1.
func rowIsDirective(row []string) bool {
	if len(row) == 0 {
		return false
	}
	return strings.HasPrefix(strings.TrimSpace(row[0]), "%")
}

// ExtractMetadata reads %TEAM and %ALLOCATION directive rows from the
// raw tabular input, in any order — a %TEAM declares members at
// default allocation 1.0, a later or earlier %ALLOCATION row
// overrides. It returns every error found rather than stopping at the
// first.
func ExtractMetadata(rows [][]string) (*domain.Metadata, []error) {
	meta := domain.NewMetadata()
	var errs []error

	for i, raw := range rows {
		row := trimmedRow(raw)
		if !rowIsDirective(row) {
			continue
		}

		directive := strings.ToUpper(strings.TrimPrefix(row[0], "%"))
		switch directive {
		case "TEAM":
			if err := applyTeamDirective(meta, row); err != nil {
				errs = append(errs, &ParseError{Row: i, Col: 0, Err: err})
			}
		case "ALLOCATION":
			if err := applyAllocationDirective(meta, row); err != nil {
				errs = append(errs, &ParseError{Row: i, Col: 0, Err: err})
			}
		default:
			errs = append(errs, &ParseError{Row: i, Col: 0, Err: fmt.Errorf("unrecognized directive %%%s", directive)})
		}
	}

	return meta, errs
}

func applyTeamDirective(meta *domain.Metadata, row []string) error {
	if len(row) < 2 || row[1] == "" {
		return fmt.Errorf("%%TEAM declaration is missing a name")
	}
	name := row[1]
	members := nonEmpty(row[2:])
	if len(members) == 0 {
		return fmt.Errorf("%%TEAM declaration for %q has no members", name)
	}
	if err := meta.AddTeam(name, members); err != nil {
		return err
	}
	return nil
}

func applyAllocationDirective(meta *domain.Metadata, row []string) error {
	if len(row) < 3 {
		return fmt.Errorf("%%ALLOCATION declaration requires a person and a fraction")
	}
	person := row[1]
	if person == "" {
		return fmt.Errorf("%%ALLOCATION declaration is missing a person name")
	}
	fraction, err := strconv.ParseFloat(row[2], 64)
	if err != nil {
		return fmt.Errorf("invalid allocation fraction %q for %q: %w", row[2], person, err)
	}
	return meta.SetAllocation(person, fraction)
}

func trimmedRow(row []string) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = strings.TrimSpace(v)
	}
	return out
}

func nonEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Package calendar implements business-day arithmetic over a Mon-Fri
// working week. Holidays are not modeled; every scheduling quantity in
// this repository is an integer count of business days measured
// against some anchor date.
package calendar

import (
	"fmt"
	"time"
)

// dateLayout is the ISO date format accepted on input and used for
// persistence.
const dateLayout = "2006-01-02"

// IsBusinessDay reports whether d falls on a weekday (Mon-Fri).
func IsBusinessDay(d time.Time) bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	default:
		return true
	}
}

// Normalize strips the time-of-day component so two calendar dates
// compare equal regardless of their original wall-clock time.
func Normalize(d time.Time) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses an ISO YYYY-MM-DD date string.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return d, nil
}

// FormatDate renders d as an ISO YYYY-MM-DD date string.
func FormatDate(d time.Time) string {
	return d.Format(dateLayout)
}

// AddBusinessDays returns the date n business days after start. A
// negative n walks backward. n == 0 returns start unchanged, even if
// start itself falls on a weekend — this function only steps, it
// never snaps an off-week anchor onto the nearest business day.
func AddBusinessDays(start time.Time, n int) time.Time {
	d := Normalize(start)
	if n == 0 {
		return d
	}
	step := 1
	remaining := n
	if n < 0 {
		step = -1
		remaining = -n
	}
	for remaining > 0 {
		d = d.AddDate(0, 0, step)
		if IsBusinessDay(d) {
			remaining--
		}
	}
	return d
}

// BusinessDaysBetween counts the business days strictly after a, up
// to and including b. The result is negative when b precedes a. It is
// the inverse of AddBusinessDays: BusinessDaysBetween(a, AddBusinessDays(a, n)) == n
// whenever a is itself a business day.
func BusinessDaysBetween(a, b time.Time) int {
	from := Normalize(a)
	to := Normalize(b)
	if to.Equal(from) {
		return 0
	}
	sign := 1
	if to.Before(from) {
		from, to = to, from
		sign = -1
	}
	count := 0
	d := from
	for d.Before(to) {
		d = d.AddDate(0, 0, 1)
		if IsBusinessDay(d) {
			count++
		}
	}
	return count * sign
}

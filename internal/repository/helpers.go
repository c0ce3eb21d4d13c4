package repository

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a queried entity does not exist.
var ErrNotFound = errors.New("not found")

// dateLayout is the format each tasks.date row is stored in: a plain
// calendar date, since business-day scheduling never carries a
// time-of-day component (internal/calendar works in whole days).
const dateLayout = "2006-01-02"

// nowNanos returns the current time as a Unix nanosecond timestamp,
// matching the last_updated_ns / created_ns column types spec.md §6
// names for the projects/schedules tables.
func nowNanos() int64 {
	return time.Now().UnixNano()
}

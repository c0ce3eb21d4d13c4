package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/flowplan/internal/db"
	"github.com/alexanderramin/flowplan/internal/domain"
	"github.com/google/uuid"
)

// SQLiteScheduleRepo implements ScheduleRepo using a SQLite database.
type SQLiteScheduleRepo struct {
	db  *sql.DB
	uow db.UnitOfWork
}

// NewSQLiteScheduleRepo creates a new SQLiteScheduleRepo.
func NewSQLiteScheduleRepo(database *sql.DB) *SQLiteScheduleRepo {
	return &SQLiteScheduleRepo{db: database, uow: db.NewSQLiteUnitOfWork(database)}
}

// statusOrdinal and ordinalStatus map domain.Status to and from the
// integer spec.md §6 calls tasks.status_ordinal, in the order the
// domain.Status constants are declared.
func statusOrdinal(s domain.Status) int {
	switch s {
	case domain.StatusNotStarted:
		return 0
	case domain.StatusInProgress:
		return 1
	case domain.StatusBlocked:
		return 2
	case domain.StatusMilestone:
		return 3
	case domain.StatusCompleted:
		return 4
	default:
		return -1
	}
}

func ordinalStatus(i int) domain.Status {
	switch i {
	case 0:
		return domain.StatusNotStarted
	case 1:
		return domain.StatusInProgress
	case 2:
		return domain.StatusBlocked
	case 3:
		return domain.StatusMilestone
	case 4:
		return domain.StatusCompleted
	default:
		return domain.Status("")
	}
}

// SaveSchedule inserts a new schedules row under projectName (creating
// the project row on first use, else touching its last_updated_ns) and
// the full calendar as tasks rows, all within one transaction. Prior
// schedules for the same project are never touched.
func (r *SQLiteScheduleRepo) SaveSchedule(ctx context.Context, projectName string, calendar Calendar) (string, error) {
	var scheduleID string
	err := r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		projectID, err := upsertProject(ctx, tx, projectName)
		if err != nil {
			return err
		}

		scheduleID = uuid.NewString()
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO schedules (id, project_id, created_ns) VALUES (?, ?, ?)`,
			scheduleID, projectID, nowNanos(),
		); err != nil {
			return fmt.Errorf("inserting schedule: %w", err)
		}

		for date, perPerson := range calendar {
			dateStr := date.Format(dateLayout)
			for person, assignments := range perPerson {
				for _, a := range assignments {
					if _, err := tx.ExecContext(ctx,
						`INSERT INTO tasks (id, schedule_id, task, date, assignee, status_ordinal) VALUES (?, ?, ?, ?, ?, ?)`,
						uuid.NewString(), scheduleID, a.Task, dateStr, person, statusOrdinal(a.Status),
					); err != nil {
						return fmt.Errorf("inserting task row: %w", err)
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return scheduleID, nil
}

func upsertProject(ctx context.Context, tx db.DBTX, name string) (string, error) {
	var id string
	err := tx.QueryRowContext(ctx, `SELECT id FROM projects WHERE name = ?`, name).Scan(&id)
	switch {
	case err == nil:
		if _, err := tx.ExecContext(ctx, `UPDATE projects SET last_updated_ns = ? WHERE id = ?`, nowNanos(), id); err != nil {
			return "", fmt.Errorf("touching project: %w", err)
		}
		return id, nil
	case errors.Is(err, sql.ErrNoRows):
		id = uuid.NewString()
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO projects (id, name, last_updated_ns) VALUES (?, ?, ?)`, id, name, nowNanos(),
		); err != nil {
			return "", fmt.Errorf("inserting project: %w", err)
		}
		return id, nil
	default:
		return "", fmt.Errorf("looking up project: %w", err)
	}
}

// ListSchedules returns projectName's schedule history, most recent first.
func (r *SQLiteScheduleRepo) ListSchedules(ctx context.Context, projectName string) ([]ScheduleSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.id, s.created_ns FROM schedules s
		JOIN projects p ON p.id = s.project_id
		WHERE p.name = ?
		ORDER BY s.created_ns DESC`, projectName)
	if err != nil {
		return nil, fmt.Errorf("listing schedules: %w", err)
	}
	defer rows.Close()

	var out []ScheduleSummary
	for rows.Next() {
		var id string
		var createdNs int64
		if err := rows.Scan(&id, &createdNs); err != nil {
			return nil, fmt.Errorf("scanning schedule: %w", err)
		}
		out = append(out, ScheduleSummary{ID: id, CreatedAt: time.Unix(0, createdNs).UTC()})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating schedules: %w", err)
	}
	return out, nil
}

// GetSchedule returns one schedule's flattened calendar rows.
func (r *SQLiteScheduleRepo) GetSchedule(ctx context.Context, scheduleID string) ([]ScheduleTaskRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT task, date, assignee, status_ordinal FROM tasks
		WHERE schedule_id = ?
		ORDER BY date, assignee, task`, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("listing schedule tasks: %w", err)
	}
	defer rows.Close()

	var out []ScheduleTaskRow
	for rows.Next() {
		var task, assignee, dateStr string
		var ordinal int
		if err := rows.Scan(&task, &dateStr, &assignee, &ordinal); err != nil {
			return nil, fmt.Errorf("scanning schedule task: %w", err)
		}
		date, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parsing task date: %w", err)
		}
		out = append(out, ScheduleTaskRow{Task: task, Date: date, Assignee: assignee, Status: ordinalStatus(ordinal)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating schedule tasks: %w", err)
	}
	if out == nil {
		return nil, fmt.Errorf("schedule %q: %w", scheduleID, ErrNotFound)
	}
	return out, nil
}

package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// migrations holds the full schema for spec.md §6's persistence
// interface: projects, schedules (one row per save_schedule call),
// and the flattened per-date/per-person/per-task calendar rows.
// Every save_schedule inserts a new schedules row; historical
// schedules are retained rather than overwritten.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id              TEXT PRIMARY KEY,
		name            TEXT NOT NULL,
		last_updated_ns INTEGER NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_name ON projects(name)`,

	`CREATE TABLE IF NOT EXISTS schedules (
		id         TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		created_ns INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_schedules_project ON schedules(project_id)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id             TEXT PRIMARY KEY,
		schedule_id    TEXT NOT NULL REFERENCES schedules(id) ON DELETE CASCADE,
		task           TEXT NOT NULL,
		date           TEXT NOT NULL,
		assignee       TEXT NOT NULL,
		status_ordinal INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_schedule ON tasks(schedule_id)`,
}

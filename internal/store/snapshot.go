// Package store persists the last fetched board summaries so the UI can
// paint immediately on startup. The snapshot is display-only: it never
// substitutes for a live fetch, and every live list response overwrites
// the rows for the statuses it covers.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/chronicle-tui/internal/model"
)

// SnapshotStore caches task summaries in a local SQLite database.
type SnapshotStore struct {
	db *sqlx.DB
}

// NewSnapshotStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSnapshotStore(dbPath string) (*SnapshotStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SnapshotStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SnapshotStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// ReplaceTasks deletes every cached row whose status is in statuses and
// inserts the given tasks in their place, stamping them with now. A live
// list response for a partition fully replaces that partition's cache.
func (s *SnapshotStore) ReplaceTasks(
	ctx context.Context,
	statuses []string,
	tasks []model.Task,
	now time.Time,
) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	del, args, err := sqlx.In("DELETE FROM tasks WHERE status IN (?)", statuses)
	if err != nil {
		return fmt.Errorf("building delete query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, del, args...); err != nil {
		return fmt.Errorf("clearing cached tasks: %w", err)
	}

	const query = `
		INSERT OR REPLACE INTO tasks (
			id, title, category, status,
			deadline, actual_completed_at,
			created_at, updated_at, fetched_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing insert statement: %w", err)
	}
	defer stmt.Close()

	for _, t := range tasks {
		_, err = stmt.ExecContext(ctx,
			t.ID, t.Title, t.Category, t.Status,
			nullableUTC(t.Deadline), nullableUTC(t.ActualCompletedAt),
			t.CreatedAt.UTC(), t.UpdatedAt.UTC(), now.UTC(),
		)
		if err != nil {
			return fmt.Errorf("caching task %s: %w", t.ID, err)
		}
	}

	return tx.Commit()
}

// LoadTasks returns every cached summary, board order: active statuses by
// creation time, done by completion time descending.
func (s *SnapshotStore) LoadTasks(ctx context.Context) ([]model.Task, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, title, category, status,
		       deadline, actual_completed_at,
		       created_at, updated_at, fetched_at
		FROM tasks
		ORDER BY status, created_at`)
	if err != nil {
		return nil, fmt.Errorf("querying cached tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

// scanTask scans a cached summary row.
func scanTask(rows *sqlx.Rows) (model.Task, error) {
	var (
		task        model.Task
		deadline    *time.Time
		completedAt *time.Time
	)

	err := rows.Scan(
		&task.ID, &task.Title, &task.Category, &task.Status,
		&deadline, &completedAt,
		&task.CreatedAt, &task.UpdatedAt, &task.FetchedAt,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("scanning task row: %w", err)
	}

	task.Deadline = deadline
	task.ActualCompletedAt = completedAt

	return task, nil
}

// nullableUTC normalizes an optional instant for storage.
func nullableUTC(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC()
}

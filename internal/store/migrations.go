package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
	id                  TEXT PRIMARY KEY,
	title               TEXT NOT NULL,
	category            TEXT NOT NULL DEFAULT '',
	status              TEXT NOT NULL DEFAULT 'todo',
	deadline            DATETIME,
	actual_completed_at DATETIME,
	created_at          DATETIME NOT NULL,
	updated_at          DATETIME NOT NULL,
	fetched_at          DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}

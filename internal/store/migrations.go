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

CREATE TABLE IF NOT EXISTS todos (
	id                       TEXT PRIMARY KEY,
	title                    TEXT NOT NULL,
	notes                    TEXT NOT NULL DEFAULT '',
	priority                 TEXT NOT NULL DEFAULT 'p2',
	due_date                 DATETIME,
	completed                INTEGER NOT NULL DEFAULT 0 CHECK(completed IN (0, 1)),
	completed_at             DATETIME,
	project_id               TEXT,
	archived                 INTEGER NOT NULL DEFAULT 0 CHECK(archived IN (0, 1)),
	archived_at              DATETIME,
	archived_from_project_id TEXT,
	show_in_inbox            INTEGER NOT NULL DEFAULT 0,
	sort_order               INTEGER NOT NULL DEFAULT 0,
	protected                INTEGER NOT NULL DEFAULT 0,
	recurrence_type          TEXT NOT NULL DEFAULT '',
	recurrence_details       TEXT NOT NULL DEFAULT '{}',
	recurrence_end_type      TEXT NOT NULL DEFAULT '',
	recurrence_end_value     TEXT NOT NULL DEFAULT '',
	recurrence_count         INTEGER NOT NULL DEFAULT 0,
	series_id                TEXT NOT NULL DEFAULT '',
	is_recurring_instance    INTEGER NOT NULL DEFAULT 0,
	page_id                  TEXT,
	created_at               DATETIME NOT NULL,
	updated_at               DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS projects (
	id               TEXT PRIMARY KEY,
	name             TEXT NOT NULL,
	type             TEXT NOT NULL DEFAULT 'default',
	parent_id        TEXT,
	sort_order       TEXT NOT NULL DEFAULT '0',
	show_in_inbox    INTEGER NOT NULL DEFAULT 0,
	protected        INTEGER NOT NULL DEFAULT 0,
	use_suggestions  INTEGER NOT NULL DEFAULT 0,
	enable_qty_units INTEGER NOT NULL DEFAULT 0,
	created_at       DATETIME NOT NULL,
	updated_at       DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS attachments (
	id         TEXT PRIMARY KEY,
	todo_id    TEXT NOT NULL REFERENCES todos(id) ON DELETE CASCADE,
	name       TEXT NOT NULL DEFAULT '',
	type       TEXT NOT NULL DEFAULT '',
	blob       BLOB NOT NULL,
	thumb      BLOB,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
	id                       TEXT PRIMARY KEY,
	theme                    TEXT NOT NULL DEFAULT '',
	compress_images          INTEGER NOT NULL DEFAULT 1,
	compress_archived_images INTEGER NOT NULL DEFAULT 1,
	voice_quality            TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS bin (
	id         TEXT PRIMARY KEY,
	kind       TEXT NOT NULL,
	item       TEXT NOT NULL DEFAULT '{}',
	deleted_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS voice_memos (
	id            TEXT PRIMARY KEY,
	title         TEXT NOT NULL DEFAULT '',
	project_id    TEXT,
	show_in_inbox INTEGER NOT NULL DEFAULT 0,
	blob          BLOB NOT NULL,
	duration      REAL NOT NULL DEFAULT 0,
	created_at    DATETIME NOT NULL,
	updated_at    DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS checklist_pages (
	id         TEXT PRIMARY KEY,
	project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	name       TEXT NOT NULL,
	sort_order INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_todos_archived ON todos(archived);
CREATE INDEX IF NOT EXISTS idx_todos_project_id ON todos(project_id);
CREATE INDEX IF NOT EXISTS idx_todos_series_id ON todos(series_id);
CREATE INDEX IF NOT EXISTS idx_attachments_todo_id ON attachments(todo_id);
CREATE INDEX IF NOT EXISTS idx_voice_memos_project_id ON voice_memos(project_id);
CREATE INDEX IF NOT EXISTS idx_checklist_pages_project_id ON checklist_pages(project_id);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE INDEX IF NOT EXISTS idx_todos_completed
	ON todos(completed, completed_at);

CREATE INDEX IF NOT EXISTS idx_todos_due_date ON todos(due_date);
CREATE INDEX IF NOT EXISTS idx_bin_deleted_at ON bin(deleted_at);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
	{
		// Inbox todos used to store a NULL project_id. NULL keys are
		// unindexable, so every inbox todo is rewritten to the reserved
		// sentinel. Harmless on an already-migrated database.
		version: 3,
		sql: `
UPDATE todos SET project_id = '` + InboxSentinel + `' WHERE project_id IS NULL;

INSERT INTO schema_version (version) VALUES (3);
`,
	},
}

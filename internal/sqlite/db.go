package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/fieldpull/fieldpull/internal/repository"
)

var (
	_ repository.SchemaRepository   = (*SchemaRepository)(nil)
	_ repository.RecordRepository   = (*RecordRepository)(nil)
	_ repository.SessionRepository  = (*SessionRepository)(nil)
	_ repository.AuditRepository    = (*AuditRepository)(nil)
	_ repository.RoleRepository     = (*RoleRepository)(nil)
	_ repository.GroupRepository    = (*GroupRepository)(nil)
	_ repository.SettingsRepository = (*SettingsRepository)(nil)
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations creates the schema
func (db *DB) RunMigrations() error {
	migration := `
-- Projects
CREATE TABLE projects (
    id INTEGER PRIMARY KEY,
    title TEXT NOT NULL DEFAULT '',
    primary_key_field TEXT NOT NULL,
    secondary_key_field TEXT NOT NULL DEFAULT ''
);

-- Data dictionary, ordered by field_order
CREATE TABLE project_fields (
    project_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    form TEXT NOT NULL,
    label TEXT NOT NULL DEFAULT '',
    field_type TEXT NOT NULL DEFAULT 'text',
    validation_type TEXT NOT NULL DEFAULT '',
    choices TEXT NOT NULL DEFAULT '',
    note TEXT NOT NULL DEFAULT '',
    field_order INTEGER NOT NULL,
    PRIMARY KEY (project_id, name),
    FOREIGN KEY (project_id) REFERENCES projects(id)
);
CREATE INDEX idx_project_fields_order ON project_fields(project_id, field_order);

-- Event/form designations, ordered by designation_order
CREATE TABLE event_forms (
    project_id INTEGER NOT NULL,
    event_name TEXT NOT NULL,
    form_name TEXT NOT NULL,
    designation_order INTEGER NOT NULL,
    PRIMARY KEY (project_id, event_name, form_name),
    FOREIGN KEY (project_id) REFERENCES projects(id)
);

-- Repeating designations; an empty form_name marks a repeating event
CREATE TABLE repeating_forms (
    project_id INTEGER NOT NULL,
    event_name TEXT NOT NULL,
    form_name TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (project_id, event_name, form_name)
);

-- Subject data, one row per stored value. instance 0 holds event data,
-- instance >= 1 holds repeating-instance data. option_code is set for
-- checkbox option rows.
CREATE TABLE record_values (
    project_id INTEGER NOT NULL,
    subject_id TEXT NOT NULL,
    event_name TEXT NOT NULL,
    event_order INTEGER NOT NULL DEFAULT 0,
    form_name TEXT NOT NULL DEFAULT '',
    instance INTEGER NOT NULL DEFAULT 0,
    field_name TEXT NOT NULL,
    option_code TEXT NOT NULL DEFAULT '',
    value TEXT NOT NULL DEFAULT ''
);
CREATE INDEX idx_record_values_subject ON record_values(project_id, subject_id);
CREATE INDEX idx_record_values_field ON record_values(project_id, field_name, value);

-- Data access groups
CREATE TABLE data_groups (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    project_id INTEGER NOT NULL,
    group_name TEXT NOT NULL
);
CREATE INDEX idx_data_groups_name ON data_groups(project_id, group_name);

CREATE TABLE subject_groups (
    project_id INTEGER NOT NULL,
    subject_id TEXT NOT NULL,
    group_id INTEGER NOT NULL,
    PRIMARY KEY (project_id, subject_id)
);

-- Users, roles, rights
CREATE TABLE users (
    username TEXT PRIMARY KEY,
    super_user INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE user_roles (
    role_id INTEGER PRIMARY KEY AUTOINCREMENT,
    project_id INTEGER NOT NULL,
    adjudicate INTEGER,
    data_export INTEGER
);

CREATE TABLE user_rights (
    project_id INTEGER NOT NULL,
    username TEXT NOT NULL,
    role_id INTEGER,
    group_id INTEGER,
    expiration TIMESTAMP,
    adjudicate INTEGER,
    data_export INTEGER,
    PRIMARY KEY (project_id, username)
);

-- Sessions and page-view activity log
CREATE TABLE sessions (
    id TEXT PRIMARY KEY,
    expiry TIMESTAMP NOT NULL
);

CREATE TABLE view_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL,
    session_id TEXT NOT NULL,
    page TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX idx_view_log_session ON view_log(username, session_id);

-- Per-destination-project pull settings
CREATE TABLE pull_settings (
    project_id INTEGER PRIMARY KEY,
    source_project_id INTEGER NOT NULL,
    use_secondary_id INTEGER NOT NULL DEFAULT 0,
    source_permissions_policy INTEGER NOT NULL DEFAULT 0,
    group_filtering INTEGER NOT NULL DEFAULT 0,
    test_secret TEXT NOT NULL DEFAULT '',
    debug_logging INTEGER NOT NULL DEFAULT 0
);
`

	_, err := db.Exec(migration)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

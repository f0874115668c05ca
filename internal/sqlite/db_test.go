package sqlite

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	err = db.RunMigrations()
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// TestMigrations verifies that migrations run successfully
func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	// Verify all tables were created
	tables := []string{
		"projects",
		"project_fields",
		"event_forms",
		"repeating_forms",
		"record_values",
		"data_groups",
		"subject_groups",
		"users",
		"user_roles",
		"user_rights",
		"sessions",
		"view_log",
		"pull_settings",
	}

	for _, table := range tables {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err, "failed to query table %s", table)
		require.Equal(t, 1, count, "table %s not found", table)
	}
}

// TestForeignKeys verifies that foreign key constraints are enabled
func TestForeignKeys(t *testing.T) {
	db := NewTestDB(t)

	var enabled int
	err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled)
	require.NoError(t, err)
	require.Equal(t, 1, enabled, "foreign keys not enabled")
}

func insertProject(t *testing.T, db *DB, id int64, primaryKey string) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO projects (id, title, primary_key_field) VALUES (?, ?, ?)`,
		id, "Test Project", primaryKey,
	)
	require.NoError(t, err)
}

func insertField(t *testing.T, db *DB, projectID int64, name, form, fieldType, validation string, order int) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO project_fields (project_id, name, form, field_type, validation_type, field_order)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		projectID, name, form, fieldType, validation, order,
	)
	require.NoError(t, err)
}

func insertEventForm(t *testing.T, db *DB, projectID int64, event, form string, order int) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO event_forms (project_id, event_name, form_name, designation_order) VALUES (?, ?, ?, ?)`,
		projectID, event, form, order,
	)
	require.NoError(t, err)
}

func insertValue(t *testing.T, db *DB, projectID int64, subject, event string, eventOrder int, form string, instance int, field, option, value string) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO record_values (project_id, subject_id, event_name, event_order, form_name, instance, field_name, option_code, value)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		projectID, subject, event, eventOrder, form, instance, field, option, value,
	)
	require.NoError(t, err)
}

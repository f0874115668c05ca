package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fieldpull/fieldpull/internal/domain/schema"
	"github.com/fieldpull/fieldpull/internal/repository"
)

// SchemaRepository implements repository.SchemaRepository for SQLite
type SchemaRepository struct {
	db *DB
}

// NewSchemaRepository creates a new SchemaRepository
func NewSchemaRepository(db *DB) *SchemaRepository {
	return &SchemaRepository{db: db}
}

// GetProject loads a project's schema snapshot
func (r *SchemaRepository) GetProject(ctx context.Context, projectID int64) (*schema.Project, error) {
	query := `
		SELECT id, title, primary_key_field, secondary_key_field
		FROM projects
		WHERE id = ?
	`

	var proj schema.Project
	err := r.db.QueryRowContext(ctx, query, projectID).Scan(
		&proj.ID,
		&proj.Title,
		&proj.PrimaryKey,
		&proj.SecondaryKey,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	if proj.Fields, err = r.getFields(ctx, projectID); err != nil {
		return nil, err
	}
	if proj.EventForms, err = r.getEventForms(ctx, projectID); err != nil {
		return nil, err
	}
	if proj.RepeatingForms, err = r.getRepeatingForms(ctx, projectID); err != nil {
		return nil, err
	}

	return &proj, nil
}

func (r *SchemaRepository) getFields(ctx context.Context, projectID int64) ([]schema.Field, error) {
	query := `
		SELECT name, form, label, field_type, validation_type, choices, note
		FROM project_fields
		WHERE project_id = ?
		ORDER BY field_order
	`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load fields: %w", err)
	}
	defer rows.Close()

	var fields []schema.Field
	for rows.Next() {
		var f schema.Field
		if err := rows.Scan(&f.Name, &f.Form, &f.Label, &f.Type, &f.ValidationType, &f.Choices, &f.Note); err != nil {
			return nil, fmt.Errorf("failed to scan field: %w", err)
		}
		fields = append(fields, f)
	}
	return fields, rows.Err()
}

func (r *SchemaRepository) getEventForms(ctx context.Context, projectID int64) ([]schema.EventForm, error) {
	query := `
		SELECT event_name, form_name
		FROM event_forms
		WHERE project_id = ?
		ORDER BY designation_order
	`
	return r.scanEventForms(ctx, query, projectID)
}

func (r *SchemaRepository) getRepeatingForms(ctx context.Context, projectID int64) ([]schema.EventForm, error) {
	query := `
		SELECT event_name, form_name
		FROM repeating_forms
		WHERE project_id = ?
	`
	return r.scanEventForms(ctx, query, projectID)
}

func (r *SchemaRepository) scanEventForms(ctx context.Context, query string, projectID int64) ([]schema.EventForm, error) {
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load event forms: %w", err)
	}
	defer rows.Close()

	var efs []schema.EventForm
	for rows.Next() {
		var ef schema.EventForm
		if err := rows.Scan(&ef.Event, &ef.Form); err != nil {
			return nil, fmt.Errorf("failed to scan event form: %w", err)
		}
		efs = append(efs, ef)
	}
	return efs, rows.Err()
}

package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/fieldpull/fieldpull/internal/domain/extract"
)

// RecordRepository implements repository.RecordRepository for SQLite
type RecordRepository struct {
	db *DB
}

// NewRecordRepository creates a new RecordRepository
func NewRecordRepository(db *DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// GetRecords returns subject data for subjects whose lookup-field value
// equals subjectID, optionally restricted to a source group, assembled into
// the nested event/repeat structure.
func (r *RecordRepository) GetRecords(ctx context.Context, projectID int64, fields []string, lookupField, subjectID string, group *int64) ([]extract.SubjectRecord, error) {
	if len(fields) == 0 {
		return nil, nil
	}

	subjects, err := r.matchSubjects(ctx, projectID, lookupField, subjectID, group)
	if err != nil {
		return nil, err
	}
	if len(subjects) == 0 {
		return nil, nil
	}

	checkbox, err := r.checkboxFields(ctx, projectID, fields)
	if err != nil {
		return nil, err
	}

	return r.loadValues(ctx, projectID, subjects, fields, checkbox)
}

func (r *RecordRepository) matchSubjects(ctx context.Context, projectID int64, lookupField, subjectID string, group *int64) ([]string, error) {
	query := `
		SELECT DISTINCT subject_id
		FROM record_values
		WHERE project_id = ? AND field_name = ? AND value = ?
	`
	args := []any{projectID, lookupField, subjectID}
	if group != nil {
		query += ` AND subject_id IN (
			SELECT subject_id FROM subject_groups WHERE project_id = ? AND group_id = ?
		)`
		args = append(args, projectID, *group)
	}
	query += ` ORDER BY subject_id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to match subjects: %w", err)
	}
	defer rows.Close()

	var subjects []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan subject id: %w", err)
		}
		subjects = append(subjects, id)
	}
	return subjects, rows.Err()
}

func (r *RecordRepository) checkboxFields(ctx context.Context, projectID int64, fields []string) (map[string]bool, error) {
	query := fmt.Sprintf(`
		SELECT name
		FROM project_fields
		WHERE project_id = ? AND field_type = 'checkbox' AND name IN (%s)
	`, placeholders(len(fields)))

	args := make([]any, 0, len(fields)+1)
	args = append(args, projectID)
	for _, f := range fields {
		args = append(args, f)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load checkbox fields: %w", err)
	}
	defer rows.Close()

	checkbox := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan checkbox field: %w", err)
		}
		checkbox[name] = true
	}
	return checkbox, rows.Err()
}

func (r *RecordRepository) loadValues(ctx context.Context, projectID int64, subjects, fields []string, checkbox map[string]bool) ([]extract.SubjectRecord, error) {
	query := fmt.Sprintf(`
		SELECT subject_id, event_name, form_name, instance, field_name, option_code, value
		FROM record_values
		WHERE project_id = ? AND subject_id IN (%s) AND field_name IN (%s)
		ORDER BY subject_id, instance, event_order, rowid
	`, placeholders(len(subjects)), placeholders(len(fields)))

	args := make([]any, 0, len(subjects)+len(fields)+1)
	args = append(args, projectID)
	for _, s := range subjects {
		args = append(args, s)
	}
	for _, f := range fields {
		args = append(args, f)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load record values: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*extract.SubjectRecord)
	var order []string

	for rows.Next() {
		var subject, event, form, field, option, value string
		var instance int
		if err := rows.Scan(&subject, &event, &form, &instance, &field, &option, &value); err != nil {
			return nil, fmt.Errorf("failed to scan record value: %w", err)
		}

		rec, ok := byID[subject]
		if !ok {
			rec = &extract.SubjectRecord{ID: subject}
			byID[subject] = rec
			order = append(order, subject)
		}

		if instance == 0 {
			setValue(eventValues(rec, event), field, option, value, checkbox)
		} else {
			setValue(repeatValues(rec, event, form, instance), field, option, value, checkbox)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	records := make([]extract.SubjectRecord, 0, len(order))
	for _, id := range order {
		records = append(records, *byID[id])
	}
	return records, nil
}

func eventValues(rec *extract.SubjectRecord, event string) map[string]extract.Value {
	for i := range rec.Events {
		if rec.Events[i].Name == event {
			return rec.Events[i].Values
		}
	}
	rec.Events = append(rec.Events, extract.Event{Name: event, Values: make(map[string]extract.Value)})
	return rec.Events[len(rec.Events)-1].Values
}

func repeatValues(rec *extract.SubjectRecord, event, form string, instance int) map[string]extract.Value {
	for i := range rec.Repeats {
		ri := &rec.Repeats[i]
		if ri.Event == event && ri.Form == form && ri.Instance == instance {
			return ri.Values
		}
	}
	rec.Repeats = append(rec.Repeats, extract.RepeatInstance{
		Event:    event,
		Form:     form,
		Instance: instance,
		Values:   make(map[string]extract.Value),
	})
	return rec.Repeats[len(rec.Repeats)-1].Values
}

func setValue(values map[string]extract.Value, field, option, value string, checkbox map[string]bool) {
	if checkbox[field] {
		values[field] = values[field].SetOption(option, value == "1")
		return
	}
	values[field] = extract.Scalar(value)
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fieldpull/fieldpull/internal/domain/authz"
	"github.com/fieldpull/fieldpull/internal/domain/pull"
	"github.com/fieldpull/fieldpull/internal/repository"
)

// SettingsRepository implements repository.SettingsRepository for SQLite
type SettingsRepository struct {
	db *DB
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(db *DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get loads a destination project's pull settings
func (r *SettingsRepository) Get(ctx context.Context, projectID int64) (*pull.Settings, error) {
	query := `
		SELECT source_project_id, use_secondary_id, source_permissions_policy,
		       group_filtering, test_secret, debug_logging
		FROM pull_settings
		WHERE project_id = ?
	`

	var settings pull.Settings
	var policyCode int
	err := r.db.QueryRowContext(ctx, query, projectID).Scan(
		&settings.SourceProjectID,
		&settings.UseSecondaryID,
		&policyCode,
		&settings.GroupFiltering,
		&settings.TestSecret,
		&settings.DebugLogging,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pull settings: %w", err)
	}

	settings.Policy, err = authz.ParsePolicy(policyCode)
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

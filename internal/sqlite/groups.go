package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fieldpull/fieldpull/internal/domain/groups"
)

// GroupRepository implements repository.GroupRepository for SQLite
type GroupRepository struct {
	db *DB
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(db *DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// UserGroupName returns the name of the user's group in a project, or ""
// when the user is not assigned to one
func (r *GroupRepository) UserGroupName(ctx context.Context, projectID int64, username string) (string, error) {
	query := `
		SELECT g.group_name
		FROM user_rights ur
		INNER JOIN data_groups g ON ur.group_id = g.id
		WHERE ur.project_id = ? AND ur.username = ?
	`

	var name string
	err := r.db.QueryRowContext(ctx, query, projectID, username).Scan(&name)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get user group: %w", err)
	}
	return name, nil
}

// GroupIDByName returns the id of a project's group with an exactly
// matching name
func (r *GroupRepository) GroupIDByName(ctx context.Context, projectID int64, name string) (int64, error) {
	query := `SELECT id FROM data_groups WHERE project_id = ? AND group_name = ?`

	var id int64
	err := r.db.QueryRowContext(ctx, query, projectID, name).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, groups.ErrGroupNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get group id: %w", err)
	}
	return id, nil
}

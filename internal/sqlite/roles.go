package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fieldpull/fieldpull/internal/domain/authz"
)

// RoleRepository implements repository.RoleRepository for SQLite
type RoleRepository struct {
	db *DB
}

// NewRoleRepository creates a new RoleRepository
func NewRoleRepository(db *DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// ActiveGrants returns the user's non-expired role grants in a project,
// with per-user permission overrides and role-template values kept apart so
// the resolver can coalesce them.
func (r *RoleRepository) ActiveGrants(ctx context.Context, projectID int64, username string) ([]authz.Grant, error) {
	query := `
		SELECT ur.project_id, ur.username, ur.role_id, ur.expiration,
		       ur.adjudicate, ur.data_export,
		       rl.adjudicate, rl.data_export
		FROM user_rights ur
		LEFT OUTER JOIN user_roles rl ON ur.role_id = rl.role_id
		WHERE ur.project_id = ? AND ur.username = ?
		  AND (ur.expiration IS NULL OR ur.expiration > ?)
	`

	rows, err := r.db.QueryContext(ctx, query, projectID, username, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to load grants: %w", err)
	}
	defer rows.Close()

	var grants []authz.Grant
	for rows.Next() {
		var g authz.Grant
		var roleID sql.NullInt64
		var expiration sql.NullTime
		var adjudicate, dataExport, roleAdjudicate, roleDataExport sql.NullBool
		err := rows.Scan(
			&g.ProjectID,
			&g.Username,
			&roleID,
			&expiration,
			&adjudicate,
			&dataExport,
			&roleAdjudicate,
			&roleDataExport,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan grant: %w", err)
		}

		if roleID.Valid {
			g.RoleID = &roleID.Int64
			g.Template = permissionMap(roleAdjudicate, roleDataExport)
		}
		if expiration.Valid {
			g.Expiration = &expiration.Time
		}
		g.Overrides = permissionMap(adjudicate, dataExport)

		grants = append(grants, g)
	}
	return grants, rows.Err()
}

// IsSuperUser reports whether the user is a system super-user
func (r *RoleRepository) IsSuperUser(ctx context.Context, username string) (bool, error) {
	query := `SELECT super_user FROM users WHERE username = ?`

	var super bool
	err := r.db.QueryRowContext(ctx, query, username).Scan(&super)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check super user: %w", err)
	}
	return super, nil
}

func permissionMap(adjudicate, dataExport sql.NullBool) map[string]bool {
	perms := make(map[string]bool)
	if adjudicate.Valid {
		perms[authz.PermAdjudicate] = adjudicate.Bool
	}
	if dataExport.Valid {
		perms[authz.PermDataExport] = dataExport.Bool
	}
	return perms
}

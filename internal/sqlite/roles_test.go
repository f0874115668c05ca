package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/fieldpull/fieldpull/internal/domain/authz"
	"github.com/stretchr/testify/require"
)

func insertRights(t *testing.T, db *DB, projectID int64, username string, roleID, groupID any, expiration any, adjudicate, dataExport any) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO user_rights (project_id, username, role_id, group_id, expiration, adjudicate, data_export)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		projectID, username, roleID, groupID, expiration, adjudicate, dataExport,
	)
	require.NoError(t, err)
}

func TestRoleRepository_ActiveGrants(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	insertRights(t, db, 167, "luke1", nil, nil, nil, 1, nil)

	repo := NewRoleRepository(db)
	grants, err := repo.ActiveGrants(ctx, 167, "luke1")
	require.NoError(t, err)
	require.Len(t, grants, 1)

	g := grants[0]
	require.Equal(t, int64(167), g.ProjectID)
	require.Equal(t, "luke1", g.Username)
	require.Nil(t, g.RoleID)
	require.Nil(t, g.Template)
	require.True(t, g.Permitted(authz.PermAdjudicate))
	require.False(t, g.Permitted(authz.PermDataExport))
}

func TestRoleRepository_RoleTemplateJoined(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	res, err := db.Exec(
		`INSERT INTO user_roles (project_id, adjudicate, data_export) VALUES (?, ?, ?)`,
		int64(167), nil, 1,
	)
	require.NoError(t, err)
	roleID, err := res.LastInsertId()
	require.NoError(t, err)

	insertRights(t, db, 167, "luke1", roleID, nil, nil, nil, nil)

	repo := NewRoleRepository(db)
	grants, err := repo.ActiveGrants(ctx, 167, "luke1")
	require.NoError(t, err)
	require.Len(t, grants, 1)

	g := grants[0]
	require.NotNil(t, g.RoleID)
	require.Equal(t, roleID, *g.RoleID)
	// No overrides set, so template values resolve.
	require.True(t, g.Permitted(authz.PermDataExport))
	require.False(t, g.Permitted(authz.PermAdjudicate))
}

func TestRoleRepository_OverrideShadowsTemplate(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	res, err := db.Exec(
		`INSERT INTO user_roles (project_id, adjudicate, data_export) VALUES (?, ?, ?)`,
		int64(167), 1, 1,
	)
	require.NoError(t, err)
	roleID, err := res.LastInsertId()
	require.NoError(t, err)

	insertRights(t, db, 167, "luke1", roleID, nil, nil, 0, nil)

	repo := NewRoleRepository(db)
	grants, err := repo.ActiveGrants(ctx, 167, "luke1")
	require.NoError(t, err)
	require.Len(t, grants, 1)

	require.False(t, grants[0].Permitted(authz.PermAdjudicate))
	require.True(t, grants[0].Permitted(authz.PermDataExport))
}

func TestRoleRepository_ExpiredGrantsExcluded(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	insertRights(t, db, 167, "luke1", nil, nil, time.Now().Add(-time.Hour), 1, nil)
	insertRights(t, db, 42, "luke1", nil, nil, time.Now().Add(time.Hour), 1, nil)

	repo := NewRoleRepository(db)
	grants, err := repo.ActiveGrants(ctx, 167, "luke1")
	require.NoError(t, err)
	require.Empty(t, grants)

	grants, err = repo.ActiveGrants(ctx, 42, "luke1")
	require.NoError(t, err)
	require.Len(t, grants, 1)
	require.NotNil(t, grants[0].Expiration)
}

func TestRoleRepository_IsSuperUser(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	_, err := db.Exec(`INSERT INTO users (username, super_user) VALUES (?, ?)`, "admin", 1)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO users (username, super_user) VALUES (?, ?)`, "luke1", 0)
	require.NoError(t, err)

	repo := NewRoleRepository(db)

	super, err := repo.IsSuperUser(ctx, "admin")
	require.NoError(t, err)
	require.True(t, super)

	super, err = repo.IsSuperUser(ctx, "luke1")
	require.NoError(t, err)
	require.False(t, super)

	super, err = repo.IsSuperUser(ctx, "nobody")
	require.NoError(t, err)
	require.False(t, super)
}

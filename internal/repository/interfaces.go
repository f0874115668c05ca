package repository

import (
	"context"

	"github.com/fieldpull/fieldpull/internal/domain/authz"
	"github.com/fieldpull/fieldpull/internal/domain/extract"
	"github.com/fieldpull/fieldpull/internal/domain/pull"
	"github.com/fieldpull/fieldpull/internal/domain/schema"
)

// SchemaRepository provides read-only project schemas
type SchemaRepository interface {
	GetProject(ctx context.Context, projectID int64) (*schema.Project, error)
}

// RecordRepository provides read-only subject data
type RecordRepository interface {
	GetRecords(ctx context.Context, projectID int64, fields []string, lookupField, subjectID string, group *int64) ([]extract.SubjectRecord, error)
}

// SessionRepository answers session liveness queries
type SessionRepository interface {
	IsLive(ctx context.Context, sessionID string) (bool, error)
}

// AuditRepository answers activity log queries
type AuditRepository interface {
	SessionUsedBy(ctx context.Context, sessionID, username string) (bool, error)
}

// RoleRepository provides role grants and super-user status
type RoleRepository interface {
	ActiveGrants(ctx context.Context, projectID int64, username string) ([]authz.Grant, error)
	IsSuperUser(ctx context.Context, username string) (bool, error)
}

// GroupRepository provides group membership and group name lookups
type GroupRepository interface {
	UserGroupName(ctx context.Context, projectID int64, username string) (string, error)
	GroupIDByName(ctx context.Context, projectID int64, name string) (int64, error)
}

// SettingsRepository provides per-destination-project pull settings
type SettingsRepository interface {
	Get(ctx context.Context, projectID int64) (*pull.Settings, error)
}

package pull

import (
	"context"

	"github.com/fieldpull/fieldpull/internal/domain/authz"
	"github.com/fieldpull/fieldpull/internal/domain/extract"
	"github.com/fieldpull/fieldpull/internal/domain/groups"
	"github.com/fieldpull/fieldpull/internal/domain/schema"
)

// SchemaRepository provides read-only source project schemas.
type SchemaRepository interface {
	GetProject(ctx context.Context, projectID int64) (*schema.Project, error)
}

// RecordRepository provides read-only subject data. group, when non-nil,
// restricts results to subjects in that source group.
type RecordRepository interface {
	GetRecords(ctx context.Context, projectID int64, fields []string, lookupField, subjectID string, group *int64) ([]extract.SubjectRecord, error)
}

// RoleRepository provides role grants and super-user status.
type RoleRepository interface {
	// ActiveGrants returns the user's non-expired role grants in a project.
	ActiveGrants(ctx context.Context, projectID int64, username string) ([]authz.Grant, error)
	IsSuperUser(ctx context.Context, username string) (bool, error)
}

// SettingsRepository provides per-destination-project pull settings.
type SettingsRepository interface {
	Get(ctx context.Context, projectID int64) (*Settings, error)
}

// GroupResolver resolves the subject visibility filter for a caller.
type GroupResolver interface {
	Resolve(ctx context.Context, destProjectID, sourceProjectID int64, username string, enabled bool) (groups.Filter, error)
}

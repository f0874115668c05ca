package mocks

import (
	"context"

	"github.com/fieldpull/fieldpull/internal/domain/authz"
	"github.com/fieldpull/fieldpull/internal/domain/extract"
	"github.com/fieldpull/fieldpull/internal/domain/groups"
	"github.com/fieldpull/fieldpull/internal/domain/pull"
	"github.com/fieldpull/fieldpull/internal/domain/schema"
	"github.com/stretchr/testify/mock"
)

// SchemaRepository is a mock for repository.SchemaRepository.
type SchemaRepository struct {
	mock.Mock
}

func (m *SchemaRepository) GetProject(ctx context.Context, projectID int64) (*schema.Project, error) {
	args := m.Called(ctx, projectID)
	if proj, ok := args.Get(0).(*schema.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

// RecordRepository is a mock for repository.RecordRepository.
type RecordRepository struct {
	mock.Mock
}

func (m *RecordRepository) GetRecords(ctx context.Context, projectID int64, fields []string, lookupField, subjectID string, group *int64) ([]extract.SubjectRecord, error) {
	args := m.Called(ctx, projectID, fields, lookupField, subjectID, group)
	if recs, ok := args.Get(0).([]extract.SubjectRecord); ok {
		return recs, args.Error(1)
	}
	return nil, args.Error(1)
}

// SessionRepository is a mock for repository.SessionRepository.
type SessionRepository struct {
	mock.Mock
}

func (m *SessionRepository) IsLive(ctx context.Context, sessionID string) (bool, error) {
	args := m.Called(ctx, sessionID)
	return args.Bool(0), args.Error(1)
}

// AuditRepository is a mock for repository.AuditRepository.
type AuditRepository struct {
	mock.Mock
}

func (m *AuditRepository) SessionUsedBy(ctx context.Context, sessionID, username string) (bool, error) {
	args := m.Called(ctx, sessionID, username)
	return args.Bool(0), args.Error(1)
}

// RoleRepository is a mock for repository.RoleRepository.
type RoleRepository struct {
	mock.Mock
}

func (m *RoleRepository) ActiveGrants(ctx context.Context, projectID int64, username string) ([]authz.Grant, error) {
	args := m.Called(ctx, projectID, username)
	if grants, ok := args.Get(0).([]authz.Grant); ok {
		return grants, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RoleRepository) IsSuperUser(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

// GroupRepository is a mock for repository.GroupRepository.
type GroupRepository struct {
	mock.Mock
}

func (m *GroupRepository) UserGroupName(ctx context.Context, projectID int64, username string) (string, error) {
	args := m.Called(ctx, projectID, username)
	return args.String(0), args.Error(1)
}

func (m *GroupRepository) GroupIDByName(ctx context.Context, projectID int64, name string) (int64, error) {
	args := m.Called(ctx, projectID, name)
	return args.Get(0).(int64), args.Error(1)
}

// SettingsRepository is a mock for repository.SettingsRepository.
type SettingsRepository struct {
	mock.Mock
}

func (m *SettingsRepository) Get(ctx context.Context, projectID int64) (*pull.Settings, error) {
	args := m.Called(ctx, projectID)
	if settings, ok := args.Get(0).(*pull.Settings); ok {
		return settings, args.Error(1)
	}
	return nil, args.Error(1)
}

// GroupResolver is a mock for pull.GroupResolver.
type GroupResolver struct {
	mock.Mock
}

func (m *GroupResolver) Resolve(ctx context.Context, destProjectID, sourceProjectID int64, username string, enabled bool) (groups.Filter, error) {
	args := m.Called(ctx, destProjectID, sourceProjectID, username, enabled)
	return args.Get(0).(groups.Filter), args.Error(1)
}

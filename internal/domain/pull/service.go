package pull

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/fieldpull/fieldpull/internal/domain/authz"
	"github.com/fieldpull/fieldpull/internal/domain/extract"
	"github.com/fieldpull/fieldpull/internal/domain/groups"
	"github.com/fieldpull/fieldpull/internal/domain/schema"
)

// sentinelUnknownService is returned for an unrecognized service value.
const sentinelUnknownService = "0"

// ErrProjectMismatch indicates a request whose project id does not match the
// destination project being served.
var ErrProjectMismatch = errors.New("request project id does not match pull project id")

// Service binds the pull operations behind one authenticated entry point.
type Service struct {
	schemas  SchemaRepository
	records  RecordRepository
	roles    RoleRepository
	settings SettingsRepository
	groups   GroupResolver
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a pull service.
func NewService(
	schemas SchemaRepository,
	records RecordRepository,
	roles RoleRepository,
	settings SettingsRepository,
	groupResolver GroupResolver,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		schemas:  schemas,
		records:  records,
		roles:    roles,
		settings: settings,
		groups:   groupResolver,
		logger:   logger,
		now:      time.Now,
	}
}

// Dispatch routes a request to the named operation. projectID is the
// destination project the entry point is handling; a mismatching request
// project id is a hard error. An unrecognized service value yields the
// sentinel "0", not an error.
func (s *Service) Dispatch(ctx context.Context, projectID int64, req Request) (any, error) {
	if req.ProjectID != projectID {
		return nil, fmt.Errorf("%w: %d != %d", ErrProjectMismatch, req.ProjectID, projectID)
	}

	settings, err := s.settings.Get(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading pull settings: %w", err)
	}

	if settings.DebugLogging {
		s.logger.Info("pull request", "service", req.Service, "project", projectID, "user", req.User)
	}

	switch req.Service {
	case ServiceData:
		return s.Data(ctx, projectID, settings, req)
	case ServiceMetadata:
		return s.Metadata(ctx, settings)
	case ServiceUser:
		return s.UserAccess(ctx, projectID, settings, req.User)
	default:
		return sentinelUnknownService, nil
	}
}

// UserAccess reports as 0/1 whether the caller may pull source data.
func (s *Service) UserAccess(ctx context.Context, projectID int64, settings *Settings, username string) (int, error) {
	ok, err := s.authorized(ctx, projectID, settings, username)
	if err != nil {
		return 0, err
	}
	if ok {
		return 1, nil
	}
	return 0, nil
}

// Metadata exports every source field's descriptor, annotated with whether
// the field sits on a temporal form and whether it is the subject-lookup
// field.
func (s *Service) Metadata(ctx context.Context, settings *Settings) ([]MetadataField, error) {
	proj, err := s.schemas.GetProject(ctx, settings.SourceProjectID)
	if err != nil {
		return nil, fmt.Errorf("loading source schema: %w", err)
	}

	stamps := schema.TemporalForms(proj)
	lookup := proj.LookupField(settings.UseSecondaryID)

	result := make([]MetadataField, 0, len(proj.Fields))
	for _, f := range proj.Fields {
		temporal := 0
		if _, ok := stamps[f.Form]; ok {
			temporal = 1
		}
		// "identifier" as in "subject lookup candidate", not "contains PHI"
		identifier := "0"
		if f.Name == lookup {
			identifier = "1"
		}
		result = append(result, MetadataField{
			Field:       f.Name,
			Label:       f.Label,
			Description: fieldDescription(f),
			Temporal:    temporal,
			Category:    f.Form,
			Identifier:  identifier,
		})
	}
	return result, nil
}

// Data resolves each requested field to its extracted values. Authorization
// or group-filter failure yields an empty result, not an error: "no access"
// is indistinguishable from "no data" on the wire.
func (s *Service) Data(ctx context.Context, projectID int64, settings *Settings, req Request) ([]extract.Entry, error) {
	result := []extract.Entry{}

	ok, err := s.authorized(ctx, projectID, settings, req.User)
	if err != nil {
		return nil, err
	}
	if !ok {
		return result, nil
	}

	if !isNumeric(req.SubjectID) || len(req.Fields) == 0 {
		return result, nil
	}

	proj, err := s.schemas.GetProject(ctx, settings.SourceProjectID)
	if err != nil {
		return nil, fmt.Errorf("loading source schema: %w", err)
	}

	// Unknown fields are dropped before extraction.
	var requested []extract.FieldRequest
	for _, fr := range req.Fields {
		if proj.HasField(fr.Field) {
			requested = append(requested, fr)
		}
	}
	if len(requested) == 0 {
		return result, nil
	}

	stamps := schema.TemporalForms(proj)
	readFields := readFieldSet(requested, stamps)

	filter, err := s.groups.Resolve(ctx, projectID, settings.SourceProjectID, req.User, settings.GroupFiltering)
	if err != nil {
		return nil, fmt.Errorf("resolving group filter: %w", err)
	}
	if filter.Kind == groups.NoMatch {
		return result, nil
	}
	var group *int64
	if filter.Kind == groups.SourceGroup {
		group = &filter.GroupID
	}

	lookup := proj.LookupField(settings.UseSecondaryID)
	records, err := s.records.GetRecords(ctx, settings.SourceProjectID, readFields, lookup, req.SubjectID, group)
	if err != nil {
		return nil, fmt.Errorf("loading subject records: %w", err)
	}
	if len(records) == 0 {
		return result, nil
	}

	for _, fr := range requested {
		result = append(result, s.extractField(proj, stamps, records, fr)...)
	}
	return result, nil
}

func (s *Service) extractField(proj *schema.Project, stamps map[string]string, records []extract.SubjectRecord, fr extract.FieldRequest) []extract.Entry {
	if fr.Ranged() {
		fld, _ := proj.FieldByName(fr.Field)
		if stampField, ok := stamps[fld.Form]; ok {
			max := ""
			if fr.TimestampMax != nil {
				max = *fr.TimestampMax
			}
			return extract.RangeValue(records, fr.Field, stampField, *fr.TimestampMin, max)
		}
		// The field's form has no usable timestamp field; degrade to
		// first-non-blank semantics.
	}
	return extract.SingleValue(records, fr.Field)
}

func (s *Service) authorized(ctx context.Context, projectID int64, settings *Settings, username string) (bool, error) {
	super, err := s.roles.IsSuperUser(ctx, username)
	if err != nil {
		return false, fmt.Errorf("checking super user: %w", err)
	}
	caller := authz.Caller{Username: username, SuperUser: super}
	if caller.SuperUser {
		return true, nil
	}

	dest, err := s.roles.ActiveGrants(ctx, projectID, username)
	if err != nil {
		return false, fmt.Errorf("loading destination grants: %w", err)
	}
	source, err := s.roles.ActiveGrants(ctx, settings.SourceProjectID, username)
	if err != nil {
		return false, fmt.Errorf("loading source grants: %w", err)
	}
	return authz.Authorize(caller, dest, source, settings.Policy, s.now()), nil
}

// readFieldSet is the requested fields plus every temporal form's timestamp
// field, deduplicated in order.
func readFieldSet(requested []extract.FieldRequest, stamps map[string]string) []string {
	seen := make(map[string]bool)
	var fields []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			fields = append(fields, name)
		}
	}
	for _, fr := range requested {
		add(fr.Field)
	}
	for _, stamp := range stamps {
		add(stamp)
	}
	return fields
}

func fieldDescription(f schema.Field) string {
	parts := []string{f.Type, f.ValidationType, f.Choices, f.Note}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

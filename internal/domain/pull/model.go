package pull

import (
	"github.com/fieldpull/fieldpull/internal/domain/authz"
	"github.com/fieldpull/fieldpull/internal/domain/extract"
)

// Service discriminator values.
const (
	ServiceData     = "data"
	ServiceMetadata = "metadata"
	ServiceUser     = "user"
)

// Request is one inbound field-pull request.
type Request struct {
	Secret    string                 `json:"secret"`
	User      string                 `json:"user"`
	ProjectID int64                  `json:"project_id"`
	Service   string                 `json:"service"`
	SubjectID string                 `json:"id"`
	Fields    []extract.FieldRequest `json:"fields,omitempty"`
}

// Settings is a destination project's pull configuration.
type Settings struct {
	// SourceProjectID is the project data is pulled from.
	SourceProjectID int64
	// UseSecondaryID selects the source project's secondary identifier as
	// the subject-lookup field, when one is configured.
	UseSecondaryID bool
	// Policy selects the source-access authorization policy.
	Policy authz.Policy
	// GroupFiltering restricts visible subjects by the caller's group.
	GroupFiltering bool
	// TestSecret, when set, is accepted in place of a session secret.
	TestSecret string
	// DebugLogging enables request/result logging for this project.
	DebugLogging bool
}

// MetadataField is one source field's descriptor as exported by the
// metadata operation. Temporal and Identifier keep the wire contract's
// integer-ish encodings.
type MetadataField struct {
	Field       string `json:"field"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Temporal    int    `json:"temporal"`
	Category    string `json:"category"`
	Identifier  string `json:"identifier"`
}

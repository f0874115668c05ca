// Package testserver boots a fully wired pull server over an in-memory
// database, seeded with a source/destination project pair, for transport and
// integration tests.
package testserver

import (
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/fieldpull/fieldpull/internal/domain/groups"
	"github.com/fieldpull/fieldpull/internal/domain/pull"
	"github.com/fieldpull/fieldpull/internal/secret"
	"github.com/fieldpull/fieldpull/internal/sqlite"
	"github.com/fieldpull/fieldpull/internal/transport"
)

// Well-known seed values.
const (
	DestProjectID   = int64(167)
	SourceProjectID = int64(42)
	Username        = "luke1"
	SubjectID       = "1001"
)

type TestServer struct {
	Server    *httptest.Server
	DB        *sqlite.DB
	Protocol  *secret.Protocol
	SessionID string
	Secret    string
}

// New boots a server seeded with a source project (one plain form, one
// temporal form), a destination project configured to pull from it, an
// authorized user with a live session, and one subject's data.
func New(t *testing.T) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	schemaRepo := sqlite.NewSchemaRepository(db)
	recordRepo := sqlite.NewRecordRepository(db)
	sessionRepo := sqlite.NewSessionRepository(db)
	auditRepo := sqlite.NewAuditRepository(db)
	roleRepo := sqlite.NewRoleRepository(db)
	groupRepo := sqlite.NewGroupRepository(db)
	settingsRepo := sqlite.NewSettingsRepository(db)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cipher, err := secret.NewCipher("test-installation-key")
	require.NoError(t, err)
	protocol, err := secret.NewProtocol(cipher, sessionRepo, auditRepo, logger)
	require.NoError(t, err)

	groupResolver := groups.NewResolver(groupRepo, logger)
	pullSvc := pull.NewService(schemaRepo, recordRepo, roleRepo, settingsRepo, groupResolver, logger)

	// The listener is bound before the router is built so the global
	// endpoint can relay onto this same server.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	baseURL := "http://" + ln.Addr().String()

	router := transport.NewServer(pullSvc, protocol, settingsRepo, baseURL, logger)
	server := &httptest.Server{
		Listener: ln,
		Config:   &http.Server{Handler: router},
	}
	server.Start()

	ts := &TestServer{
		Server:   server,
		DB:       db,
		Protocol: protocol,
	}
	ts.seed(t)

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

func (ts *TestServer) seed(t *testing.T) {
	t.Helper()

	exec := func(query string, args ...any) {
		t.Helper()
		_, err := ts.DB.Exec(query, args...)
		require.NoError(t, err)
	}

	// Source project schema: "intake" designated once, "visit" designated
	// to two events with a date field.
	exec(`INSERT INTO projects (id, title, primary_key_field) VALUES (?, 'Source', 'record_id')`, SourceProjectID)
	exec(`INSERT INTO projects (id, title, primary_key_field) VALUES (?, 'Destination', 'study_id')`, DestProjectID)

	fields := []struct {
		name, form, fieldType, valType string
	}{
		{"record_id", "intake", "text", ""},
		{"age", "intake", "text", "integer"},
		{"symptoms", "intake", "checkbox", ""},
		{"visit_date", "visit", "text", "date_ymd"},
		{"weight", "visit", "text", "number"},
	}
	for i, f := range fields {
		exec(`INSERT INTO project_fields (project_id, name, form, label, field_type, validation_type, field_order)
		      VALUES (?, ?, ?, ?, ?, ?, ?)`,
			SourceProjectID, f.name, f.form, f.name, f.fieldType, f.valType, i)
	}

	designations := []struct {
		event, form string
	}{
		{"baseline", "intake"},
		{"baseline", "visit"},
		{"followup", "visit"},
	}
	for i, d := range designations {
		exec(`INSERT INTO event_forms (project_id, event_name, form_name, designation_order) VALUES (?, ?, ?, ?)`,
			SourceProjectID, d.event, d.form, i)
	}

	// Subject data.
	values := []struct {
		event      string
		eventOrder int
		form       string
		field      string
		option     string
		value      string
	}{
		{"baseline", 0, "intake", "record_id", "", SubjectID},
		{"baseline", 0, "intake", "age", "", "34"},
		{"baseline", 0, "intake", "symptoms", "1", "1"},
		{"baseline", 0, "intake", "symptoms", "2", "0"},
		{"baseline", 0, "intake", "symptoms", "3", "1"},
		{"baseline", 0, "visit", "visit_date", "", "2024-03-10"},
		{"baseline", 0, "visit", "weight", "", "5"},
		{"followup", 1, "visit", "visit_date", "", "2024-05-02"},
		{"followup", 1, "visit", "weight", "", "7"},
	}
	for _, v := range values {
		exec(`INSERT INTO record_values (project_id, subject_id, event_name, event_order, form_name, field_name, option_code, value)
		      VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			SourceProjectID, SubjectID, v.event, v.eventOrder, v.form, v.field, v.option, v.value)
	}

	// User authorized under the dest-only policy, with a live session.
	exec(`INSERT INTO users (username, super_user) VALUES (?, 0)`, Username)
	exec(`INSERT INTO user_rights (project_id, username, adjudicate) VALUES (?, ?, 1)`, DestProjectID, Username)
	exec(`INSERT INTO user_rights (project_id, username, data_export) VALUES (?, ?, 1)`, SourceProjectID, Username)

	ts.SessionID = strings.ReplaceAll(uuid.NewString(), "-", "")
	exec(`INSERT INTO sessions (id, expiry) VALUES (?, ?)`, ts.SessionID, time.Now().Add(time.Hour))
	exec(`INSERT INTO view_log (username, session_id, page) VALUES (?, ?, 'index')`, Username, ts.SessionID)

	exec(`INSERT INTO pull_settings (project_id, source_project_id, source_permissions_policy) VALUES (?, ?, 0)`,
		DestProjectID, SourceProjectID)

	var err error
	ts.Secret, err = ts.Protocol.Issue(ts.SessionID)
	require.NoError(t, err)
}

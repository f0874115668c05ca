package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fieldpull/fieldpull/internal/domain/pull"
)

// Dispatcher routes an authenticated request to a pull operation.
type Dispatcher interface {
	Dispatch(ctx context.Context, projectID int64, req pull.Request) (any, error)
}

// SecretValidator validates request secrets.
type SecretValidator interface {
	Validate(ctx context.Context, secret, user, testSecret string) (bool, error)
	GlobalSecret() string
}

// SettingsProvider supplies per-destination-project settings; the handler
// needs the configured test secret before dispatch.
type SettingsProvider interface {
	Get(ctx context.Context, projectID int64) (*pull.Settings, error)
}

// Server wires HTTP handlers.
type Server struct {
	dispatcher Dispatcher
	secrets    SecretValidator
	settings   SettingsProvider
	relay      *Relay
	logger     *slog.Logger
}

// NewServer creates the HTTP router. baseURL is this server's externally
// reachable base URL, used by the global endpoint to relay onto the project
// endpoint.
func NewServer(dispatcher Dispatcher, secrets SecretValidator, settings SettingsProvider, baseURL string, logger *slog.Logger) *chi.Mux {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	r := chi.NewRouter()
	r.Use(RequestLogger(logger))

	srv := &Server{
		dispatcher: dispatcher,
		secrets:    secrets,
		settings:   settings,
		relay:      NewRelay(baseURL),
		logger:     logger,
	}

	r.Post("/pull/project", srv.handleProject)
	r.Post("/pull/global", srv.handleGlobal)
	r.Get("/health", srv.handleHealth)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleProject serves user-attributed pull requests: secret, service and
// pid travel in the query string, the request detail in the JSON body.
func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	pid, req, ok := s.parseRequest(w, r)
	if !ok {
		return
	}

	if !s.validateSecret(w, r.Context(), pid, req.Secret, req.User) {
		return
	}

	result, err := s.dispatcher.Dispatch(r.Context(), pid, req)
	if err != nil {
		s.logger.Debug("pull dispatch failed", "project", pid, "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleGlobal serves system-level (cron) calls: it validates the global
// secret and relays the request onto the project endpoint with a bounded
// outbound timeout.
func (s *Server) handleGlobal(w http.ResponseWriter, r *http.Request) {
	pid, req, ok := s.parseRequest(w, r)
	if !ok {
		return
	}

	if !s.validateSecret(w, r.Context(), pid, req.Secret, req.User) {
		return
	}

	status, body, err := s.relay.Data(r.Context(), s.secrets.GlobalSecret(), pid, req)
	if err != nil {
		s.logger.Warn("global relay failed", "project", pid, "error", err)
		writeError(w, http.StatusBadGateway, "relay failed")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (s *Server) parseRequest(w http.ResponseWriter, r *http.Request) (int64, pull.Request, bool) {
	q := r.URL.Query()

	pid, err := strconv.ParseInt(q.Get("pid"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid pid")
		return 0, pull.Request{}, false
	}

	var req pull.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return 0, pull.Request{}, false
	}
	req.Secret = q.Get("secret")
	if svc := q.Get("service"); svc != "" {
		req.Service = svc
	}
	return pid, req, true
}

// validateSecret writes a generic 403 on deny. The reason is never leaked.
func (s *Server) validateSecret(w http.ResponseWriter, ctx context.Context, pid int64, requestSecret, user string) bool {
	testSecret := ""
	if settings, err := s.settings.Get(ctx, pid); err == nil {
		testSecret = settings.TestSecret
	}

	ok, err := s.secrets.Validate(ctx, requestSecret, user, testSecret)
	if err != nil {
		s.logger.Error("secret validation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return false
	}
	if !ok {
		s.logger.Debug("unauthorized pull request", "project", pid, "user", user)
		writeError(w, http.StatusForbidden, "unauthorized")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

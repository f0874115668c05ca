package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/fieldpull/fieldpull/internal/domain/pull"
)

// relayTimeout bounds the outbound call to the project endpoint.
const relayTimeout = 30 * time.Second

// Relay forwards system-level requests onto the project data endpoint,
// re-signed with the process global secret.
type Relay struct {
	projectURL string
	client     *http.Client
}

// NewRelay creates a relay targeting the project endpoint under baseURL.
func NewRelay(baseURL string) *Relay {
	return &Relay{
		projectURL: baseURL + "/pull/project",
		client:     &http.Client{Timeout: relayTimeout},
	}
}

// Data posts a data request for one subject and returns the downstream
// status and body verbatim.
func (r *Relay) Data(ctx context.Context, globalSecret string, projectID int64, req pull.Request) (int, []byte, error) {
	body, err := json.Marshal(pull.Request{
		User:      req.User,
		ProjectID: projectID,
		SubjectID: req.SubjectID,
		Fields:    req.Fields,
	})
	if err != nil {
		return 0, nil, fmt.Errorf("encoding relay body: %w", err)
	}

	q := url.Values{}
	q.Set("pid", strconv.FormatInt(projectID, 10))
	q.Set("secret", globalSecret)
	q.Set("service", pull.ServiceData)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.projectURL+"?"+q.Encode(), bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("building relay request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return 0, nil, fmt.Errorf("calling project endpoint: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("reading relay response: %w", err)
	}
	return resp.StatusCode, respBody, nil
}

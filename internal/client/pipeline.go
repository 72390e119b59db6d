// Package client provides an HTTP client for the invtracker pipeline API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// SnapshotsPath is the pipeline endpoint that snapshots every portfolio.
const SnapshotsPath = "/api/v1/pipeline/snapshots"

// PipelineClient calls the API-key protected scheduler endpoints of a
// running server.
type PipelineClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewPipelineClient creates a new pipeline API client.
func NewPipelineClient(baseURL, apiKey string, httpClient *http.Client) *PipelineClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &PipelineClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// ComputeSnapshots asks the server to save today's snapshot for every owner
// and returns how many were recorded.
func (c *PipelineClient) ComputeSnapshots(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+SnapshotsPath, nil)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("computing snapshots: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, statusError("computing snapshots", resp)
	}

	var result struct {
		SnapshotsRecorded int `json:"snapshots_recorded"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("decoding snapshots response: %w", err)
	}
	return result.SnapshotsRecorded, nil
}

// statusError reports an unexpected status, with the API error code when the
// body carries one.
func statusError(op string, resp *http.Response) error {
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error.Code != "" {
		return fmt.Errorf("%s: unexpected status %d (%s)", op, resp.StatusCode, body.Error.Code)
	}
	return fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode)
}

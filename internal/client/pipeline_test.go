package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestComputeSnapshots_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != SnapshotsPath {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("X-API-Key") != "test-key" {
			t.Errorf("missing or wrong API key header")
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]int{"snapshots_recorded": 3})
	}))
	defer server.Close()

	c := NewPipelineClient(server.URL+"/", "test-key", server.Client())
	n, err := c.ComputeSnapshots(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 snapshots recorded, got %d", n)
	}
}

func TestComputeSnapshots_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":"INVALID_API_KEY","message":"Invalid or missing API key"}}`))
	}))
	defer server.Close()

	c := NewPipelineClient(server.URL, "bad-key", server.Client())
	_, err := c.ComputeSnapshots(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if want := "unexpected status 401 (INVALID_API_KEY)"; !strings.Contains(err.Error(), want) {
		t.Errorf("error %q should contain %q", err.Error(), want)
	}
}

func TestComputeSnapshots_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewPipelineClient(server.URL, "test-key", server.Client())
	_, err := c.ComputeSnapshots(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if want := "unexpected status 500"; !strings.Contains(err.Error(), want) {
		t.Errorf("error %q should contain %q", err.Error(), want)
	}
}

func TestComputeSnapshots_BadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	c := NewPipelineClient(server.URL, "test-key", server.Client())
	if _, err := c.ComputeSnapshots(context.Background()); err == nil {
		t.Fatal("expected decode error, got nil")
	}
}

func TestComputeSnapshots_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	c := NewPipelineClient(url, "test-key", nil)
	if _, err := c.ComputeSnapshots(context.Background()); err == nil {
		t.Fatal("expected connection error, got nil")
	}
}

package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestHealth(t *testing.T) {
	srv := NewServer(log.New(io.Discard), nil)
	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf(`status field = %v, want "ok"`, body["status"])
	}
}

func TestRootTriggersRefresh(t *testing.T) {
	var calls int
	srv := NewServer(log.New(io.Discard), func(ctx context.Context) error {
		calls++
		return nil
	})
	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	if calls != 1 {
		t.Errorf("refresh calls = %d, want 1", calls)
	}
	page, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(page), "leaderboard refreshed") {
		t.Errorf("page = %q, want refresh confirmation", page)
	}
}

func TestRootSurvivesRefreshError(t *testing.T) {
	srv := NewServer(log.New(io.Discard), func(ctx context.Context) error {
		return errors.New("roblox unavailable")
	})
	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	// A failed refresh must not break the uptime ping.
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	page, _ := io.ReadAll(resp.Body)
	if strings.Contains(string(page), "leaderboard refreshed") {
		t.Error("page claims refresh despite error")
	}
}

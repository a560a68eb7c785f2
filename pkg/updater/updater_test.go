package updater

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		v1, v2 string
		want   int
	}{
		{"v0.1.0", "v0.1.0", 0},
		{"0.1.1", "v0.1.0", 1},
		{"v0.2.0", "v0.10.0", -1},
		{"v1.0", "v1.0.0", 0},
		{"v1.0.0", "v1.0.0-rc1", 1},
		{"v1.0.0-rc2", "v1.0.0-rc1", 1},
		{"v2", "v10", -1},
	}
	for _, tt := range tests {
		if got := CompareVersions(tt.v1, tt.v2); got != tt.want {
			t.Errorf("CompareVersions(%q, %q): expected %d, got %d", tt.v1, tt.v2, tt.want, got)
		}
	}
}

func newTestChecker(t *testing.T, status int, body string) *Checker {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	c := NewChecker()
	c.URL = srv.URL
	c.Current = "v0.1.0"
	return c
}

func TestCheckForUpdatesNewer(t *testing.T) {
	c := newTestChecker(t, http.StatusOK, `{"tag_name":"v0.2.0","html_url":"https://example.com/r"}`)

	tag, url, err := c.CheckForUpdates(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if tag != "v0.2.0" || url != "https://example.com/r" {
		t.Errorf("Expected v0.2.0, got %q %q", tag, url)
	}
}

func TestCheckForUpdatesCurrent(t *testing.T) {
	c := newTestChecker(t, http.StatusOK, `{"tag_name":"v0.1.0","html_url":"x"}`)

	tag, _, err := c.CheckForUpdates(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if tag != "" {
		t.Errorf("Expected no update, got %q", tag)
	}
}

func TestCheckForUpdatesErrors(t *testing.T) {
	if _, _, err := newTestChecker(t, http.StatusNotFound, "").CheckForUpdates(context.Background()); err == nil {
		t.Error("Expected error for 404")
	}
	if _, _, err := newTestChecker(t, http.StatusOK, "{not json").CheckForUpdates(context.Background()); err == nil {
		t.Error("Expected error for bad JSON")
	}
}

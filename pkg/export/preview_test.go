package export

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Dicklesworthstone/numberline_viewer/pkg/model"
	"github.com/Dicklesworthstone/numberline_viewer/pkg/render"
)

func TestNewPreviewServer(t *testing.T) {
	server := NewPreviewServer(testLayout, 8080)

	if server == nil {
		t.Fatal("NewPreviewServer returned nil")
	}
	if server.Port() != 8080 {
		t.Errorf("Expected port 8080, got %d", server.Port())
	}
	expected := "http://localhost:8080"
	if server.URL() != expected {
		t.Errorf("Expected URL() to return %s, got %s", expected, server.URL())
	}
}

func TestFindAvailablePort(t *testing.T) {
	port, err := FindAvailablePort(19000, 19100)
	if err != nil {
		t.Errorf("FindAvailablePort failed: %v", err)
	}
	if port < 19000 || port > 19100 {
		t.Errorf("Port %d is outside expected range 19000-19100", port)
	}
}

func TestPreviewHandler_Snapshots(t *testing.T) {
	ts := httptest.NewServer(NewPreviewServer(testLayout, 0).Handler())
	defer ts.Close()

	tests := []struct {
		path        string
		contentType string
		contains    string
	}{
		{"/", "text/html", "/snapshot.svg"},
		{"/snapshot.svg", "image/svg+xml", "<svg"},
		{"/snapshot.png", "image/png", "PNG"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(ts.URL + tt.path)
			if err != nil {
				t.Fatalf("GET %s: %v", tt.path, err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("Expected 200, got %d", resp.StatusCode)
			}
			if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, tt.contentType) {
				t.Errorf("Expected content type %s, got %s", tt.contentType, ct)
			}
			if cc := resp.Header.Get("Cache-Control"); !strings.Contains(cc, "no-store") {
				t.Errorf("Expected no-store cache header, got %q", cc)
			}
			body, _ := io.ReadAll(resp.Body)
			if !strings.Contains(string(body), tt.contains) {
				t.Errorf("Expected body to contain %q", tt.contains)
			}
		})
	}
}

func TestPreviewHandler_NotFoundAndMethod(t *testing.T) {
	ts := httptest.NewServer(NewPreviewServer(testLayout, 0).Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/missing")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", resp.StatusCode)
	}

	resp, err = http.Post(ts.URL+"/snapshot.svg", "text/plain", strings.NewReader("x"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", resp.StatusCode)
	}
}

// The status endpoint reflects whatever the source returns at request time.
func TestPreviewHandler_StatusIsLive(t *testing.T) {
	var mu sync.Mutex
	state := model.State{
		Overview:  model.Range{Lo: 0, Hi: 10},
		Selection: model.Range{Lo: 1, Hi: 2},
	}
	source := func() render.Layout {
		mu.Lock()
		defer mu.Unlock()
		return render.New(state, render.DefaultOptions())
	}
	ts := httptest.NewServer(NewPreviewServer(source, 0).Handler())
	defer ts.Close()

	fetch := func() previewStatus {
		resp, err := http.Get(ts.URL + "/__preview__/status")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		var st previewStatus
		if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
			t.Fatalf("decoding status: %v", err)
		}
		return st
	}

	if got := fetch(); got.State.Selection != (model.Range{Lo: 1, Hi: 2}) {
		t.Errorf("Expected selection [1, 2], got %v", got.State.Selection)
	}

	mu.Lock()
	state.Selection = model.Range{Lo: 3, Hi: 4}
	mu.Unlock()

	got := fetch()
	if got.State.Selection != (model.Range{Lo: 3, Hi: 4}) {
		t.Errorf("Expected updated selection [3, 4], got %v", got.State.Selection)
	}
	if got.Status != "running" || got.Width != render.DefaultWidth {
		t.Errorf("Unexpected status body %+v", got)
	}
}

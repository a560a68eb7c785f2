package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/Dicklesworthstone/numberline_viewer/pkg/model"
	"github.com/Dicklesworthstone/numberline_viewer/pkg/render"
)

// LayoutSource returns the layout to serve. It is called once per request
// and must be safe for concurrent use.
type LayoutSource func() render.Layout

// PreviewServer serves live snapshots of a layout source on localhost.
type PreviewServer struct {
	source  LayoutSource
	port    int
	title   string
	palette Palette
	logger  *log.Logger
	server  *http.Server
}

// NewPreviewServer creates a new preview server for the given source.
func NewPreviewServer(source LayoutSource, port int) *PreviewServer {
	return &PreviewServer{
		source:  source,
		port:    port,
		title:   "numberline",
		palette: LightPalette(),
		logger:  log.New(io.Discard, "", 0),
	}
}

// SetTitle sets the title drawn on served snapshots
func (p *PreviewServer) SetTitle(title string) { p.title = title }

// SetPalette sets the snapshot colors
func (p *PreviewServer) SetPalette(pal Palette) { p.palette = pal }

// SetLogger routes request errors to l
func (p *PreviewServer) SetLogger(l *log.Logger) {
	if l != nil {
		p.logger = l
	}
}

// Handler returns the HTTP handler serving the preview page and snapshots.
func (p *PreviewServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", p.indexHandler)
	mux.HandleFunc("/snapshot.svg", p.svgHandler)
	mux.HandleFunc("/snapshot.png", p.pngHandler)
	mux.HandleFunc("/__preview__/status", p.statusHandler)
	return noCacheMiddleware(mux)
}

// Run serves until ctx is cancelled, then shuts the server down.
func (p *PreviewServer) Run(ctx context.Context) error {
	p.server = &http.Server{
		Addr:              fmt.Sprintf("127.0.0.1:%d", p.port),
		Handler:           p.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := p.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return p.server.Shutdown(shutdownCtx)
	case err, ok := <-errChan:
		if !ok {
			return nil
		}
		return fmt.Errorf("preview server: %w", err)
	}
}

// Stop gracefully stops the preview server.
func (p *PreviewServer) Stop() error {
	if p.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return p.server.Shutdown(ctx)
}

// Port returns the port the server is running on.
func (p *PreviewServer) Port() int {
	return p.port
}

// URL returns the full URL of the preview server.
func (p *PreviewServer) URL() string {
	return fmt.Sprintf("http://localhost:%d", p.port)
}

const indexPage = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>%s</title></head>
<body style="margin:0;background:#fafafa">
<img id="snap" src="/snapshot.svg" alt="numberline snapshot">
<pre id="state" style="font:12px monospace;margin:8px 40px"></pre>
<script>
setInterval(function () {
  document.getElementById("snap").src = "/snapshot.svg?t=" + Date.now();
  fetch("/__preview__/status").then(function (r) { return r.json(); }).then(function (s) {
    document.getElementById("state").textContent = JSON.stringify(s.state);
  });
}, 1000);
</script>
</body>
</html>
`

func (p *PreviewServer) indexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, indexPage, p.title)
}

func (p *PreviewServer) svgHandler(w http.ResponseWriter, r *http.Request) {
	p.serveSnapshot(w, "image/svg+xml", WriteSVG)
}

func (p *PreviewServer) pngHandler(w http.ResponseWriter, r *http.Request) {
	p.serveSnapshot(w, "image/png", WritePNG)
}

type snapshotWriter func(w io.Writer, l render.Layout, title string, pal Palette) error

func (p *PreviewServer) serveSnapshot(w http.ResponseWriter, contentType string, write snapshotWriter) {
	var buf bytes.Buffer
	if err := write(&buf, p.source(), p.title, p.palette); err != nil {
		p.logger.Printf("preview: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(buf.Bytes())
}

// previewStatus is the JSON body of the status endpoint
type previewStatus struct {
	Status string      `json:"status"`
	Port   int         `json:"port"`
	State  model.State `json:"state"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
}

// statusHandler returns the preview server status as JSON.
func (p *PreviewServer) statusHandler(w http.ResponseWriter, r *http.Request) {
	l := p.source()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(previewStatus{
		Status: "running",
		Port:   p.port,
		State:  l.State,
		Width:  l.Width,
		Height: l.Height,
	})
}

// noCacheMiddleware adds headers to prevent browser caching.
func noCacheMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")

		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// FindAvailablePort finds an available port in the given range.
func FindAvailablePort(start, end int) (int, error) {
	for port := start; port <= end; port++ {
		listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
		if err == nil {
			listener.Close()
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available port in range %d-%d", start, end)
}

// Preview port range tried when no port is given
const (
	PreviewPortRangeStart = 9000
	PreviewPortRangeEnd   = 9100
)

package export

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Dicklesworthstone/numberline_viewer/pkg/model"
	"github.com/Dicklesworthstone/numberline_viewer/pkg/render"
)

func testLayout() render.Layout {
	return render.New(model.State{
		Overview:  model.Range{Lo: -100, Hi: 100},
		Selection: model.Range{Lo: -10, Hi: 10},
	}, render.DefaultOptions())
}

func TestSaveSnapshot_SVGAndPNG(t *testing.T) {
	tmp := t.TempDir()
	cases := []struct {
		name string
		file string
	}{
		{"svg", "line.svg"},
		{"png", "line.png"},
		{"nested dir", filepath.Join("out", "deep", "line.svg")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := filepath.Join(tmp, tc.file)
			err := SaveSnapshot(SnapshotOptions{
				Path:   out,
				Layout: testLayout(),
				Title:  "[-100, 100]",
			})
			if err != nil {
				t.Fatalf("SaveSnapshot error: %v", err)
			}
			info, err := os.Stat(out)
			if err != nil {
				t.Fatalf("output not created: %v", err)
			}
			if info.Size() == 0 {
				t.Fatalf("output file is empty")
			}
		})
	}
}

func TestSaveSnapshot_InvalidFormat(t *testing.T) {
	tmp := t.TempDir()
	for _, name := range []string{"line.txt", "line"} {
		out := filepath.Join(tmp, name)
		err := SaveSnapshot(SnapshotOptions{Path: out, Layout: testLayout()})
		if err == nil {
			t.Fatalf("expected error for %s", name)
		}
		if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
			t.Errorf("failed export left a file behind at %s", out)
		}
	}
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path, override, want string
		wantErr              bool
	}{
		{"a.svg", "", "svg", false},
		{"a.PNG", "", "png", false},
		{"a.out", "svg", "svg", false},
		{"a.svg", ".png", "png", false},
		{"a.jpg", "", "", true},
		{"noext", "", "", true},
	}
	for _, tt := range tests {
		got, err := FormatFor(tt.path, tt.override)
		if (err != nil) != tt.wantErr {
			t.Errorf("FormatFor(%q, %q) error = %v, wantErr %v", tt.path, tt.override, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("FormatFor(%q, %q) = %q, want %q", tt.path, tt.override, got, tt.want)
		}
	}
}

func TestWriteSVG_Content(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, testLayout(), "demo", LightPalette()); err != nil {
		t.Fatalf("WriteSVG error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{"<svg", "<title>demo</title>", `id="overview"`, `id="detail"`, ">-100<", ">100<"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected SVG to contain %q", want)
		}
	}
	// Brush rectangle spans the projected selection [436, 524].
	if !strings.Contains(out, `x="436"`) || !strings.Contains(out, `width="88"`) {
		t.Error("Expected brush rectangle at x=436 width=88")
	}
}

func TestWritePNG_Decodes(t *testing.T) {
	var buf bytes.Buffer
	l := testLayout()
	if err := WritePNG(&buf, l, "", DarkPalette()); err != nil {
		t.Fatalf("WritePNG error: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != int(l.Width) || b.Dy() != int(l.Height) {
		t.Errorf("Expected %vx%v image, got %dx%d", l.Width, l.Height, b.Dx(), b.Dy())
	}
}

func TestWrite_RejectsEmptyLayout(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, render.Layout{}, "", LightPalette()); err == nil {
		t.Error("Expected SVG error for zero-size layout")
	}
	if err := WritePNG(&buf, render.Layout{}, "", LightPalette()); err == nil {
		t.Error("Expected PNG error for zero-size layout")
	}
}

func TestSaveAll(t *testing.T) {
	tmp := t.TempDir()
	paths := []string{
		filepath.Join(tmp, "a.svg"),
		filepath.Join(tmp, "b.png"),
		filepath.Join(tmp, "c.svg"),
	}
	if err := SaveAll(context.Background(), SnapshotOptions{Layout: testLayout()}, paths); err != nil {
		t.Fatalf("SaveAll error: %v", err)
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing %s: %v", p, err)
		}
	}
}

func TestSaveAll_ReportsFailure(t *testing.T) {
	tmp := t.TempDir()
	paths := []string{filepath.Join(tmp, "ok.svg"), filepath.Join(tmp, "bad.gif")}
	err := SaveAll(context.Background(), SnapshotOptions{Layout: testLayout()}, paths)
	if err == nil {
		t.Fatal("Expected error for unsupported format")
	}
	if !strings.Contains(err.Error(), "bad.gif") {
		t.Errorf("Expected error to name the failing path, got %v", err)
	}
}

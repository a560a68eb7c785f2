// Package export writes numberline snapshots to files and serves them over
// a local preview server.
package export

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/sync/errgroup"

	"github.com/Dicklesworthstone/numberline_viewer/pkg/render"
)

// Supported snapshot formats
const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

// Palette holds the snapshot colors
type Palette struct {
	Background color.NRGBA
	Axis       color.NRGBA
	Tick       color.NRGBA
	Label      color.NRGBA
	Brush      color.NRGBA
	Title      color.NRGBA
}

// LightPalette is used for exported files by default
func LightPalette() Palette {
	return Palette{
		Background: color.NRGBA{0xff, 0xff, 0xff, 0xff},
		Axis:       color.NRGBA{0x33, 0x33, 0x33, 0xff},
		Tick:       color.NRGBA{0x66, 0x66, 0x66, 0xff},
		Label:      color.NRGBA{0x22, 0x22, 0x22, 0xff},
		Brush:      color.NRGBA{0x7d, 0x56, 0xf4, 0x55},
		Title:      color.NRGBA{0x7d, 0x56, 0xf4, 0xff},
	}
}

// DarkPalette matches the terminal's dark theme
func DarkPalette() Palette {
	return Palette{
		Background: color.NRGBA{0x28, 0x2a, 0x36, 0xff},
		Axis:       color.NRGBA{0xf8, 0xf8, 0xf2, 0xff},
		Tick:       color.NRGBA{0x62, 0x72, 0xa4, 0xff},
		Label:      color.NRGBA{0xf8, 0xf8, 0xf2, 0xff},
		Brush:      color.NRGBA{0xbd, 0x93, 0xf9, 0x55},
		Title:      color.NRGBA{0xbd, 0x93, 0xf9, 0xff},
	}
}

// SnapshotOptions configures SaveSnapshot
type SnapshotOptions struct {
	// Path is the output file; its extension picks the format unless
	// Format is set.
	Path    string
	Format  string
	Layout  render.Layout
	Title   string
	Palette *Palette
}

// FormatFor resolves the output format from an explicit override or the
// file extension.
func FormatFor(path, override string) (string, error) {
	f := strings.ToLower(strings.TrimPrefix(override, "."))
	if f == "" {
		f = strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	}
	switch f {
	case FormatSVG, FormatPNG:
		return f, nil
	case "":
		return "", fmt.Errorf("cannot infer snapshot format from %q (use .svg or .png)", path)
	}
	return "", fmt.Errorf("unsupported snapshot format %q (want svg or png)", f)
}

// SaveSnapshot renders the layout to opts.Path
func SaveSnapshot(opts SnapshotOptions) error {
	format, err := FormatFor(opts.Path, opts.Format)
	if err != nil {
		return err
	}
	pal := LightPalette()
	if opts.Palette != nil {
		pal = *opts.Palette
	}

	// Render into memory first so a failed render never leaves a truncated file
	var buf bytes.Buffer
	switch format {
	case FormatSVG:
		err = WriteSVG(&buf, opts.Layout, opts.Title, pal)
	case FormatPNG:
		err = WritePNG(&buf, opts.Layout, opts.Title, pal)
	}
	if err != nil {
		return fmt.Errorf("rendering %s snapshot: %w", format, err)
	}

	if dir := filepath.Dir(opts.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(opts.Path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// SaveAll writes every path concurrently. The first failure cancels the
// remaining writes and is returned.
func SaveAll(ctx context.Context, base SnapshotOptions, paths []string) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, p := range paths {
		opts := base
		opts.Path = p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := SaveSnapshot(opts); err != nil {
				return fmt.Errorf("%s: %w", opts.Path, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// ═══════════════════════════════════════════════════════════════════════════
// SVG
// ═══════════════════════════════════════════════════════════════════════════

const (
	tickLength    = 6
	labelOffset   = 18
	titleBaseline = 14
)

// WriteSVG draws the layout as an SVG document
func WriteSVG(w io.Writer, l render.Layout, title string, pal Palette) error {
	width, height := int(l.Width), int(l.Height)
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid snapshot size %dx%d", width, height)
	}

	canvas := svg.New(w)
	canvas.Start(width, height)
	if title != "" {
		canvas.Title(title)
	}
	canvas.Rect(0, 0, width, height, "fill:"+hexColor(pal.Background))
	if title != "" {
		canvas.Text(int(l.Margins.Left), titleBaseline, title,
			"font-family:monospace;font-size:12px;fill:"+hexColor(pal.Title))
	}

	for _, g := range l.Lines() {
		canvas.Gid(g.Line.String())
		y := int(g.Y)
		x0, x1 := int(g.Scale.Extent.Start), int(g.Scale.Extent.End)

		if g.Brush != nil {
			b := g.Brush.Sorted()
			canvas.Rect(int(b.Start), y-int(g.Height/4), int(b.Width()), int(g.Height/2),
				fmt.Sprintf("fill:%s;fill-opacity:%.2f;stroke:%s", hexColor(pal.Brush), alpha(pal.Brush), hexColor(pal.Title)))
		}

		canvas.Line(x0, y, x1, y, "stroke-width:1;stroke:"+hexColor(pal.Axis))
		tickStyle := "stroke-width:1;stroke:" + hexColor(pal.Tick)
		labelStyle := "font-family:monospace;font-size:10px;text-anchor:middle;fill:" + hexColor(pal.Label)
		for _, t := range g.Ticks {
			x := int(t.Pos)
			canvas.Line(x, y, x, y+tickLength, tickStyle)
			canvas.Text(x, y+labelOffset, t.Label, labelStyle)
		}
		canvas.Gend()
	}

	canvas.End()
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════
// PNG
// ═══════════════════════════════════════════════════════════════════════════

// WritePNG rasterizes the layout and encodes it as PNG
func WritePNG(w io.Writer, l render.Layout, title string, pal Palette) error {
	width, height := int(l.Width), int(l.Height)
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid snapshot size %dx%d", width, height)
	}

	dc := gg.NewContext(width, height)
	dc.SetColor(pal.Background)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	if title != "" {
		dc.SetColor(pal.Title)
		dc.DrawStringAnchored(title, l.Margins.Left, titleBaseline, 0, 0)
	}

	for _, g := range l.Lines() {
		x0, x1 := g.Scale.Extent.Start, g.Scale.Extent.End

		if g.Brush != nil {
			b := g.Brush.Sorted()
			dc.SetColor(pal.Brush)
			dc.DrawRectangle(b.Start, g.Y-g.Height/4, b.Width(), g.Height/2)
			dc.Fill()
		}

		dc.SetLineWidth(1)
		dc.SetColor(pal.Axis)
		dc.DrawLine(x0, g.Y, x1, g.Y)
		dc.Stroke()

		for _, t := range g.Ticks {
			dc.SetColor(pal.Tick)
			dc.DrawLine(t.Pos, g.Y, t.Pos, g.Y+tickLength)
			dc.Stroke()
			dc.SetColor(pal.Label)
			dc.DrawStringAnchored(t.Label, t.Pos, g.Y+labelOffset, 0.5, 0)
		}
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

func hexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func alpha(c color.NRGBA) float64 {
	return float64(c.A) / 255
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/numberline_viewer/pkg/config"
	"github.com/Dicklesworthstone/numberline_viewer/pkg/engine"
	"github.com/Dicklesworthstone/numberline_viewer/pkg/export"
	"github.com/Dicklesworthstone/numberline_viewer/pkg/model"
	"github.com/Dicklesworthstone/numberline_viewer/pkg/render"
	"github.com/Dicklesworthstone/numberline_viewer/pkg/watcher"
)

// startResolver derives the drawn state from a config, applying the
// --preset and --select flags the preview was started with.
type startResolver func(cfg config.Config) (model.State, error)

// liveLayout is the layout source of the preview server. Config reloads
// replace it from the watcher goroutine while requests read it.
type liveLayout struct {
	mu      sync.RWMutex
	cfg     config.Config
	state   model.State
	width   float64
	resolve startResolver
}

func newLiveLayout(cfg config.Config, state model.State, width float64, resolve startResolver) *liveLayout {
	return &liveLayout{cfg: cfg, state: engine.Enforce(state), width: width, resolve: resolve}
}

// Layout implements export.LayoutSource
func (l *liveLayout) Layout() render.Layout {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return render.New(l.state, l.cfg.RenderOptions(l.width))
}

// reload swaps in cfg and re-resolves the start state against it. When the
// new config no longer has the requested preset or selection, the previous
// config stays active.
func (l *liveLayout) reload(cfg config.Config) error {
	state := cfg.InitialState()
	if l.resolve != nil {
		var err error
		if state, err = l.resolve(cfg); err != nil {
			return fmt.Errorf("keeping previous config: %w", err)
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.cfg = cfg
	l.state = engine.Enforce(state)
	return nil
}

func previewCmd(opts *rootOptions) *cobra.Command {
	var (
		port      int
		open      bool
		width     float64
		preset    string
		selection string
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Serve a live snapshot of the numberlines on localhost",
		Long: "Serves an auto-refreshing page with the current snapshot. When the\n" +
			"config came from a file, edits to it show up on the next refresh.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolve := func(cfg config.Config) (model.State, error) {
				return resolveStartState(cfg, opts.logger, preset, selection)
			}
			state, err := resolve(opts.cfg)
			if err != nil {
				return err
			}
			if port == 0 {
				port, err = export.FindAvailablePort(export.PreviewPortRangeStart, export.PreviewPortRangeEnd)
				if err != nil {
					return err
				}
			}
			pal, err := paletteFor("", opts.cfg.Theme)
			if err != nil {
				return err
			}

			live := newLiveLayout(opts.cfg, state, width, resolve)
			srv := export.NewPreviewServer(live.Layout, port)
			srv.SetPalette(pal)
			srv.SetLogger(opts.logger)

			ctx := cmd.Context()
			if path := opts.cfg.Path(); path != "" {
				stop, err := watchConfig(ctx, path, live, opts.logger)
				if err != nil {
					opts.logger.Printf("Warning: live reload disabled: %v", err)
				} else {
					defer stop()
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Serving preview at %s (Ctrl+C to stop)\n", srv.URL())
			if open {
				if err := export.OpenInBrowser(srv.URL()); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
				}
			}
			return srv.Run(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, fmt.Sprintf("port to listen on (default: first free in %d-%d)", export.PreviewPortRangeStart, export.PreviewPortRangeEnd))
	cmd.Flags().BoolVar(&open, "open", false, "open the preview in a browser")
	cmd.Flags().Float64Var(&width, "width", render.DefaultWidth, "image width in pixels")
	cmd.Flags().StringVar(&preset, "preset", "", "start from a named preset")
	cmd.Flags().StringVar(&selection, "select", "", "selection to draw, e.g. \"1/4, 3/4\"")
	return cmd
}

// watchConfig reloads live whenever path changes. Invalid edits are
// logged and the previous config stays active.
func watchConfig(ctx context.Context, path string, live *liveLayout, logger *log.Logger) (stop func(), err error) {
	w, err := watcher.New(path, watcher.DefaultDebounceDuration, func() {
		cfg, err := config.LoadFile(path)
		if err != nil {
			logger.Printf("Warning: config reload failed: %v", err)
			return
		}
		if err := live.reload(cfg); err != nil {
			logger.Printf("Warning: config reload failed: %v", err)
			return
		}
		logger.Printf("config reloaded from %s", path)
	}, watcher.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	wctx, cancel := context.WithCancel(ctx)
	go func() {
		if err := w.Run(wctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Printf("Warning: config watcher stopped: %v", err)
		}
	}()
	return func() {
		cancel()
		w.Close()
	}, nil
}

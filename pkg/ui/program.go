package ui

import (
	"context"
	"errors"
	"io"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Dicklesworthstone/numberline_viewer/pkg/config"
	"github.com/Dicklesworthstone/numberline_viewer/pkg/watcher"
)

// Run starts the interactive viewer and blocks until the user quits or ctx
// is cancelled. When the config came from a file, edits to that file are
// applied live.
func Run(ctx context.Context, opts Options) error {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	m := NewModel(opts)

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)

	if path := opts.Config.Path(); path != "" {
		w, err := watcher.New(path, watcher.DefaultDebounceDuration, func() {
			cfg, err := config.LoadFile(path)
			p.Send(ConfigReloadedMsg{Config: cfg, Err: err})
		}, watcher.WithLogger(opts.Logger))
		if err != nil {
			opts.Logger.Printf("Warning: live reload disabled: %v", err)
		} else {
			wctx, cancel := context.WithCancel(ctx)
			defer cancel()
			defer w.Close()
			go func() {
				if err := w.Run(wctx); err != nil && !errors.Is(err, context.Canceled) {
					opts.Logger.Printf("Warning: config watcher stopped: %v", err)
				}
			}()
		}
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

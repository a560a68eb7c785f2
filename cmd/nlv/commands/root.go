package commands

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/numberline_viewer/pkg/config"
	"github.com/Dicklesworthstone/numberline_viewer/pkg/engine"
	"github.com/Dicklesworthstone/numberline_viewer/pkg/model"
	"github.com/Dicklesworthstone/numberline_viewer/pkg/ui"
	"github.com/Dicklesworthstone/numberline_viewer/pkg/updater"
)

// debugLogFile receives the log when --debug is set
const debugLogFile = "nlv-debug.log"

// rootOptions is shared by every subcommand
type rootOptions struct {
	configPath string
	debug      bool

	cfg     config.Config
	logger  *log.Logger
	logFile io.Closer

	checker *updater.Checker
}

// Execute runs the CLI until it finishes or the process is interrupted
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	return newRootCmd(&rootOptions{checker: updater.NewChecker()})
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:   "nlv",
		Short: "Linked numberline viewer",
		Long: "nlv shows an overview numberline with a brushed selection and one or more\n" +
			"detail numberlines that zoom into it. Wheel to zoom, drag to select.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return opts.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return ui.Run(cmd.Context(), ui.Options{Config: opts.cfg, Logger: opts.logger})
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ./"+config.DefaultFileName+")")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "write a debug log to "+debugLogFile)

	root.AddCommand(renderCmd(opts), ticksCmd(opts), exportCmd(opts), previewCmd(opts), initCmd(opts), versionCmd(opts))
	return root
}

func (o *rootOptions) setup(cmd *cobra.Command) error {
	if o.debug {
		f, err := tea.LogToFile(debugLogFile, "nlv")
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		o.logFile = f
		o.logger = log.Default()
	} else {
		o.logger = log.New(io.Discard, "", 0)
	}

	// init writes the config instead of reading it; version needs none
	if cmd.Name() == "init" || cmd.Name() == "version" {
		o.cfg = config.Default()
		return nil
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	o.cfg = cfg
	if cfg.Path() != "" {
		o.logger.Printf("config loaded from %s", cfg.Path())
	}
	return nil
}

func (o *rootOptions) close() error {
	if o.logFile == nil {
		return nil
	}
	err := o.logFile.Close()
	o.logFile = nil
	return err
}

// startState resolves the state a non-interactive command draws: the
// configured initial state, or a preset, optionally with a typed selection.
func (o *rootOptions) startState(preset, selection string) (model.State, error) {
	return resolveStartState(o.cfg, o.logger, preset, selection)
}

func resolveStartState(cfg config.Config, logger *log.Logger, preset, selection string) (model.State, error) {
	state := cfg.InitialState()
	if preset != "" {
		p, ok := cfg.Preset(preset)
		if !ok {
			return model.State{}, fmt.Errorf("unknown preset %q (available: %s)", preset, strings.Join(cfg.PresetNames(), ", "))
		}
		state = p.State()
	}

	store := engine.NewStore(state, engine.WithLogger(logger))
	if selection != "" {
		r, err := ui.ParseRange(selection)
		if err != nil {
			return model.State{}, fmt.Errorf("invalid --select: %w", err)
		}
		in := engine.NewInterpreter(store, cfg.Settings())
		if !in.Handle(engine.Select{Range: r, Origin: model.OriginUser}) {
			return model.State{}, fmt.Errorf("selection %s lies outside the overview %s", r, store.Snapshot().Overview)
		}
	}
	return store.Snapshot(), nil
}

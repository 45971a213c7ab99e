package cli

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/yildizm/pyscope/internal/config"
	"github.com/yildizm/pyscope/internal/logger"
	"github.com/yildizm/pyscope/internal/session"
	"github.com/yildizm/pyscope/internal/ui"
	"github.com/yildizm/pyscope/internal/watch"
)

var (
	tuiWatch bool
	tuiAuto  bool
	tuiPanel string
)

func newTUICommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui [file]",
		Short: "Open the interactive editor",
		Long: `Open the three-panel terminal UI: write Python on the left, then analyze it,
walk through its execution, or paste an error message for an explanation.

With a file, the editor starts with its contents. --watch reloads the file
whenever it changes on disk, and --auto analyzes it after each reload.`,
		Example: `  pyscope tui
  pyscope tui homework.py --panel visualization
  pyscope tui homework.py --watch --auto`,
		Args: cobra.MaximumNArgs(1),
		RunE: runTUI,
	}

	cmd.Flags().BoolVarP(&tuiWatch, "watch", "w", false, "reload the file when it changes")
	cmd.Flags().BoolVar(&tuiAuto, "auto", false, "analyze automatically after each reload")
	cmd.Flags().StringVarP(&tuiPanel, "panel", "p", "", "initial panel (analysis, visualization, error)")

	return cmd
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyTUIFlags(cmd, cfg)

	initial, err := session.ParseKind(cfg.UI.InitialPanel)
	if err != nil {
		return err
	}

	var path string
	if len(args) == 1 {
		path = args[0]
	}
	if cfg.Watch.Enabled && path == "" {
		return errors.New("--watch needs a file to watch")
	}

	log, closeLog, err := tuiLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	client, err := newClient(cfg, log)
	if err != nil {
		return err
	}

	opts := ui.Options{
		Backend:       client,
		Initial:       initial,
		Placeholder:   cfg.UI.Placeholder,
		Theme:         cfg.UI.Theme,
		Color:         !noColor && cfg.Output.ColorMode != "never",
		ToastDuration: cfg.UI.ToastDuration,
		AutoAnalyze:   cfg.Watch.AutoAnalyze,
		Logger:        log,
	}

	if path != "" {
		if err := watch.ValidatePath(path); err != nil {
			return err
		}
		if opts.Source, err = watch.ReadSource(path); err != nil {
			return err
		}
	}

	if cfg.Watch.Enabled {
		w, err := watch.New(path, cfg.Watch.Debounce, log)
		if err != nil {
			return err
		}
		defer w.Close()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		reloads := make(chan watch.Event)
		go func() {
			if err := w.Run(ctx, reloads); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("watcher stopped: %v", err)
			}
		}()
		opts.Reloads = reloads
		log.Info("watching %s", w.Path())
	}

	return ui.Run(opts)
}

// applyTUIFlags lets explicitly set flags win over the config file
func applyTUIFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("watch") {
		cfg.Watch.Enabled = tuiWatch
	}
	if cmd.Flags().Changed("auto") {
		cfg.Watch.AutoAnalyze = tuiAuto
		if tuiAuto && !cmd.Flags().Changed("watch") {
			cfg.Watch.Enabled = true
		}
	}
	if cmd.Flags().Changed("panel") {
		cfg.UI.InitialPanel = tuiPanel
	}
}

// tuiLogger writes to the configured log file, since stderr is hidden
// behind the alternate screen
func tuiLogger(cfg *config.Config) (*logger.Logger, func(), error) {
	if cfg.Logging.File == "" {
		return logger.Nop(), func() {}, nil
	}

	f, err := tea.LogToFile(cfg.Logging.File, "pyscope")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	verboseFn := func() bool { return isVerbose() || cfg.Logging.Verbose }
	return logger.NewWithWriter("pyscope", verboseFn, f), func() { _ = f.Close() }, nil
}

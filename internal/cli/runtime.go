package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yildizm/pyscope/internal/api"
	"github.com/yildizm/pyscope/internal/config"
	"github.com/yildizm/pyscope/internal/emoji"
	"github.com/yildizm/pyscope/internal/logger"
	"github.com/yildizm/pyscope/internal/render"
	"github.com/yildizm/pyscope/internal/session"
	"github.com/yildizm/pyscope/internal/ui"
	"github.com/yildizm/pyscope/internal/watch"
	"golang.org/x/term"
)

// loadConfig loads the config file and applies the global flag overrides
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.NewLoader().LoadConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if flagChanged(cmd, "api-url") {
		cfg.API.BaseURL = apiURL
	}
	if flagChanged(cmd, "timeout") {
		cfg.API.Timeout = timeout
	}
	if flagChanged(cmd, "output") {
		cfg.Output.DefaultFormat = outputFmt
	}
	if verbose {
		cfg.Logging.Verbose = true
	}
	if !cfg.UI.Emoji {
		emoji.SetEmojiDisabled(true)
	}

	return cfg, nil
}

func flagChanged(cmd *cobra.Command, name string) bool {
	f := cmd.Flag(name)
	return f != nil && f.Changed
}

// newLogger returns a stderr logger for the non-interactive commands
func newLogger(cfg *config.Config) *logger.Logger {
	return logger.NewWithCallback("pyscope", func() bool {
		return isVerbose() || cfg.Logging.Verbose
	})
}

func newClient(cfg *config.Config, log *logger.Logger) (*api.Client, error) {
	return api.New(api.Options{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		UserAgent: cfg.API.UserAgent,
		Logger:    log,
	})
}

// useColor decides whether output written to w gets ANSI styling
func useColor(cfg *config.Config, w io.Writer) bool {
	if noColor || ui.IsColorDisabled() {
		return false
	}
	switch cfg.Output.ColorMode {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func newFormatter(cfg *config.Config, w io.Writer) (render.Formatter, error) {
	return render.New(cfg.Output.DefaultFormat, useColor(cfg, w))
}

// readSource reads a Python file and rejects blank or placeholder content
func readSource(cfg *config.Config, path string) (string, error) {
	if err := watch.ValidatePath(path); err != nil {
		return "", err
	}
	code, err := watch.ReadSource(path)
	if err != nil {
		return "", err
	}
	if isBlankSource(cfg, code) {
		return "", fmt.Errorf("%s: %w", path, errBlankSource)
	}
	return code, nil
}

var errBlankSource = errors.New("no code to analyze")

// isBlankSource applies the same guard as the editor panels
func isBlankSource(cfg *config.Config, code string) bool {
	return session.IsBlankWith(code, cfg.UI.Placeholder)
}

// writeOutput writes rendered bytes, ending with exactly one newline
func writeOutput(w io.Writer, out []byte) error {
	text := strings.TrimRight(string(out), "\n")
	_, err := fmt.Fprintln(w, text)
	return err
}

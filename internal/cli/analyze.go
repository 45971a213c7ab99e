package cli

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"github.com/yildizm/pyscope/internal/api"
	"github.com/yildizm/pyscope/internal/config"
	"github.com/yildizm/pyscope/internal/emoji"
	"github.com/yildizm/pyscope/internal/logger"
	"github.com/yildizm/pyscope/internal/render"
)

func newAnalyzeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <file|glob>...",
		Short: "Analyze Python files",
		Long: `Run static analysis on one or more Python files: structure, style issues,
improvement suggestions and statistics.

Arguments may be glob patterns; ** matches any number of directories.
Empty files and files that still hold the editor placeholder are skipped.`,
		Example: `  pyscope analyze main.py
  pyscope analyze 'src/**/*.py'
  pyscope analyze -o json lesson1.py lesson2.py`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAnalyze,
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	files, err := expandPatterns(args)
	if err != nil {
		return err
	}

	log := newLogger(cfg)
	client, err := newClient(cfg, log)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	f, err := newFormatter(cfg, out)
	if err != nil {
		return err
	}

	a := &fileAnalyzer{
		cfg:       cfg,
		client:    client,
		formatter: f,
		out:       out,
		errOut:    cmd.ErrOrStderr(),
		log:       log,
		headers:   len(files) > 1 && !strings.EqualFold(cfg.Output.DefaultFormat, render.FormatJSON),
	}

	failed := 0
	for _, file := range files {
		if err := a.analyze(cmd, file); err != nil {
			failed++
		}
	}

	log.DebugWithFields("analyze finished", []logger.Field{
		logger.Count(len(files)),
		logger.F("failed", failed),
	})

	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be analyzed", failed, len(files))
	}
	return nil
}

// fileAnalyzer renders one file at a time and reports skips and transport
// failures on the error stream
type fileAnalyzer struct {
	cfg       *config.Config
	client    *api.Client
	formatter render.Formatter
	out       io.Writer
	errOut    io.Writer
	log       *logger.Logger
	headers   bool
}

func (a *fileAnalyzer) analyze(cmd *cobra.Command, file string) error {
	code, err := readSource(a.cfg, file)
	if errors.Is(err, errBlankSource) {
		fmt.Fprintf(a.errOut, "%s skipping %s: no code to analyze\n", emoji.GetEmoji("warning"), file)
		return nil
	}
	if err != nil {
		fmt.Fprintf(a.errOut, "%s %v\n", emoji.GetEmoji("error"), err)
		return err
	}

	resp, err := a.client.AnalyzeCode(cmd.Context(), api.AnalyzeRequest{Code: code})
	if err != nil {
		a.log.Warn("analyze %s failed (%s)", file, api.ErrorTypeOf(err))
		fmt.Fprintf(a.errOut, "%s %s: %v\n", emoji.GetEmoji("error"), file, err)
		return err
	}

	rendered, err := a.formatter.Analysis(resp)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", file, err)
	}

	if a.headers {
		if strings.EqualFold(a.cfg.Output.DefaultFormat, render.FormatMarkdown) {
			fmt.Fprintf(a.out, "## %s\n\n", file)
		} else {
			fmt.Fprintf(a.out, "==> %s <==\n", file)
		}
	}
	return writeOutput(a.out, rendered)
}

// expandPatterns resolves glob arguments into a sorted, de-duplicated file
// list. Plain paths are passed through unchanged.
func expandPatterns(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[{") {
			add(arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", arg)
		}
		sort.Strings(matches)
		for _, m := range matches {
			add(m)
		}
	}

	return files, nil
}

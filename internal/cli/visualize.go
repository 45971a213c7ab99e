package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yildizm/pyscope/internal/api"
)

var (
	visualizeHighlight int
	visualizeNoFlow    bool
)

func newVisualizeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "visualize <file>",
		Short: "Walk through a Python file step by step",
		Long: `Simulate a Python file and print each execution step with the variables it
changes, followed by an execution flow diagram.

Use --highlight to mark the steps that run a given line.`,
		Example: `  pyscope visualize loop.py
  pyscope visualize loop.py --highlight 3
  pyscope visualize loop.py --no-flow -o markdown`,
		Args: cobra.ExactArgs(1),
		RunE: runVisualize,
	}

	cmd.Flags().IntVar(&visualizeHighlight, "highlight", 0, "line number to highlight (0 for none)")
	cmd.Flags().BoolVar(&visualizeNoFlow, "no-flow", false, "omit the execution flow diagram")

	return cmd
}

func runVisualize(cmd *cobra.Command, args []string) error {
	if visualizeHighlight < 0 {
		return fmt.Errorf("--highlight must not be negative")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	code, err := readSource(cfg, args[0])
	if err != nil {
		return err
	}

	client, err := newClient(cfg, newLogger(cfg))
	if err != nil {
		return err
	}

	req := api.VisualizeRequest{Code: code}
	var highlight *int
	if visualizeHighlight > 0 {
		h := visualizeHighlight
		highlight = &h
		req.HighlightLine = &h
	}
	showFlow := !visualizeNoFlow
	req.ShowFlow = &showFlow

	resp, err := client.VisualizeCode(cmd.Context(), req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	f, err := newFormatter(cfg, out)
	if err != nil {
		return err
	}
	rendered, err := f.Visualization(resp, highlight)
	if err != nil {
		return fmt.Errorf("failed to render visualization: %w", err)
	}
	return writeOutput(out, rendered)
}

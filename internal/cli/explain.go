package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yildizm/pyscope/internal/api"
	"github.com/yildizm/pyscope/internal/tutor"
	"github.com/yildizm/pyscope/internal/watch"
	"golang.org/x/term"
)

// maxErrorMessageSize bounds --error-file and stdin reads
const maxErrorMessageSize = 64 * 1024

var (
	explainError     string
	explainErrorFile string
	explainPrompt    bool
)

func newExplainCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain <file>",
		Short: "Explain a Python error message",
		Long: `Explain the error a Python file raised: what went wrong, where, likely causes,
how to fix it, and what to learn from it.

The error message comes from --error, --error-file, or standard input.
With --prompt, a question for an AI tutor is printed instead.`,
		Example: `  pyscope explain main.py --error "NameError: name 'x' is not defined"
  python main.py 2>&1 | pyscope explain main.py
  pyscope explain main.py --error-file traceback.txt --prompt`,
		Args: cobra.ExactArgs(1),
		RunE: runExplain,
	}

	cmd.Flags().StringVarP(&explainError, "error", "e", "", "error message")
	cmd.Flags().StringVar(&explainErrorFile, "error-file", "", "read the error message from a file")
	cmd.Flags().BoolVar(&explainPrompt, "prompt", false, "print a tutor prompt instead of the explanation")

	return cmd
}

func runExplain(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	message, err := errorMessage(cmd.InOrStdin())
	if err != nil {
		return err
	}

	// blank code is sent as is
	if err := watch.ValidatePath(args[0]); err != nil {
		return err
	}
	code, err := watch.ReadSource(args[0])
	if err != nil {
		return err
	}

	log := newLogger(cfg)
	client, err := newClient(cfg, log)
	if err != nil {
		return err
	}

	resp, err := client.AnalyzeError(cmd.Context(), api.ErrorAnalyzeRequest{Code: code, ErrorMessage: message})
	out := cmd.OutOrStdout()

	if explainPrompt {
		if err != nil {
			log.Warn("error analysis failed, prompt built without it: %v", err)
			resp = nil
		}
		_, werr := fmt.Fprintln(out, tutor.Text(tutor.ErrorPrompt(code, message, resp)))
		return werr
	}
	if err != nil {
		return err
	}

	f, err := newFormatter(cfg, out)
	if err != nil {
		return err
	}
	rendered, err := f.ErrorAnalysis(resp)
	if err != nil {
		return fmt.Errorf("failed to render error analysis: %w", err)
	}
	return writeOutput(out, rendered)
}

// errorMessage picks the message from --error, --error-file, or piped stdin
func errorMessage(stdin io.Reader) (string, error) {
	var (
		message string
		err     error
	)
	switch {
	case explainError != "" && explainErrorFile != "":
		return "", fmt.Errorf("use only one of --error and --error-file")
	case explainError != "":
		message = explainError
	case explainErrorFile != "":
		var data []byte
		data, err = readLimited(explainErrorFile)
		message = string(data)
	default:
		if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return "", fmt.Errorf("no error message: use --error, --error-file, or pipe it on stdin")
		}
		var data []byte
		data, err = io.ReadAll(io.LimitReader(stdin, maxErrorMessageSize))
		message = string(data)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read error message: %w", err)
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("error message is empty")
	}
	return message, nil
}

func readLimited(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxErrorMessageSize))
}

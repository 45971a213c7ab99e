package render

import (
	"fmt"
	"strings"

	"github.com/yildizm/pyscope/internal/api"
)

// Formatter renders backend responses for display
type Formatter interface {
	Analysis(resp *api.AnalyzeResponse) ([]byte, error)
	Visualization(resp *api.VisualizeResponse, highlight *int) ([]byte, error)
	ErrorAnalysis(resp *api.ErrorAnalyzeResponse) ([]byte, error)
}

// Output formats
const (
	FormatText     = "text"
	FormatTerminal = "terminal"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// New returns the formatter for the named output format
func New(format string, color bool) (Formatter, error) {
	switch strings.ToLower(format) {
	case FormatText, FormatTerminal, "":
		return NewTerminal(color), nil
	case FormatMarkdown, "md":
		return NewMarkdown(), nil
	case FormatJSON:
		return NewJSON(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

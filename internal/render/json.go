package render

import (
	"encoding/json"

	"github.com/yildizm/pyscope/internal/api"
)

// jsonFormatter formats output as JSON
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

// VisualizationOutput wraps a visualization with the client-side view state
type VisualizationOutput struct {
	*api.VisualizeResponse
	HighlightLine *int   `json:"highlight_line,omitempty"`
	FlowchartText string `json:"flowchart_text,omitempty"`
}

func (f *jsonFormatter) Analysis(resp *api.AnalyzeResponse) ([]byte, error) {
	return json.MarshalIndent(resp, "", "  ")
}

func (f *jsonFormatter) Visualization(resp *api.VisualizeResponse, highlight *int) ([]byte, error) {
	if resp == nil {
		return json.MarshalIndent(resp, "", "  ")
	}

	out := VisualizationOutput{VisualizeResponse: resp, HighlightLine: highlight}
	if resp.Flowchart != nil {
		out.FlowchartText = FlowchartText(*resp.Flowchart)
	}
	return json.MarshalIndent(out, "", "  ")
}

func (f *jsonFormatter) ErrorAnalysis(resp *api.ErrorAnalyzeResponse) ([]byte, error) {
	return json.MarshalIndent(resp, "", "  ")
}

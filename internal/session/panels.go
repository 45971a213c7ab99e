package session

import (
	"context"
	"strings"

	"github.com/yildizm/pyscope/internal/api"
)

// Backend is the subset of the API client the panels call
type Backend interface {
	AnalyzeCode(ctx context.Context, req api.AnalyzeRequest) (*api.AnalyzeResponse, error)
	VisualizeCode(ctx context.Context, req api.VisualizeRequest) (*api.VisualizeResponse, error)
	AnalyzeError(ctx context.Context, req api.ErrorAnalyzeRequest) (*api.ErrorAnalyzeResponse, error)
}

// call performs one backend request and stores the result in out
type call func(ctx context.Context, b Backend, out *Outcome) error

// panel is the controller contract shared by all three panels
type panel interface {
	Kind() Kind
	Loading() bool
	View() ViewState

	ready(source string) bool
	skip()
	begin(id uint64, source string) call
	inflight() uint64
	apply(o Outcome)
	finish()
	failureNotice() string
}

// loadState is embedded by every panel
type loadState struct {
	loading bool
	id      uint64
}

func (l *loadState) Loading() bool { return l.loading }

func (l *loadState) inflight() uint64 { return l.id }

func (l *loadState) start(id uint64) {
	l.loading = true
	l.id = id
}

func (l *loadState) finish() {
	l.loading = false
	l.id = 0
}

// AnalysisPanel shows static analysis results
type AnalysisPanel struct {
	loadState
	placeholder string
	result      *api.AnalyzeResponse
}

func (p *AnalysisPanel) Kind() Kind { return KindAnalysis }

// Result returns the last analysis, or nil
func (p *AnalysisPanel) Result() *api.AnalyzeResponse { return p.result }

// View follows loading, empty, failure, result precedence
func (p *AnalysisPanel) View() ViewState {
	switch {
	case p.loading:
		return ViewLoading
	case p.result == nil:
		return ViewEmpty
	case !p.result.Success:
		return ViewFailure
	default:
		return ViewResult
	}
}

func (p *AnalysisPanel) ready(source string) bool { return !isBlank(source, p.placeholder) }

func (p *AnalysisPanel) skip() { p.result = nil }

func (p *AnalysisPanel) begin(id uint64, source string) call {
	p.start(id)
	return func(ctx context.Context, b Backend, out *Outcome) error {
		resp, err := b.AnalyzeCode(ctx, api.AnalyzeRequest{Code: source})
		out.Analysis = resp
		return err
	}
}

func (p *AnalysisPanel) apply(o Outcome) { p.result = o.Analysis }

func (p *AnalysisPanel) failureNotice() string { return AnalysisFailedNotice }

// VisualizationPanel shows the simulated execution
type VisualizationPanel struct {
	loadState
	placeholder string
	result      *api.VisualizeResponse
	highlight   *int
}

func (p *VisualizationPanel) Kind() Kind { return KindVisualization }

// Result returns the last visualization, or nil
func (p *VisualizationPanel) Result() *api.VisualizeResponse { return p.result }

// Highlight returns the highlighted line, or nil
func (p *VisualizationPanel) Highlight() *int {
	if p.highlight == nil {
		return nil
	}
	line := *p.highlight
	return &line
}

func (p *VisualizationPanel) View() ViewState {
	switch {
	case p.loading:
		return ViewLoading
	case p.result == nil:
		return ViewEmpty
	case !p.result.Success:
		return ViewFailure
	default:
		return ViewResult
	}
}

func (p *VisualizationPanel) ready(source string) bool { return !isBlank(source, p.placeholder) }

func (p *VisualizationPanel) skip() { p.result = nil }

func (p *VisualizationPanel) begin(id uint64, source string) call {
	p.start(id)
	showFlow := true
	req := api.VisualizeRequest{Code: source, ShowFlow: &showFlow, HighlightLine: p.Highlight()}
	return func(ctx context.Context, b Backend, out *Outcome) error {
		resp, err := b.VisualizeCode(ctx, req)
		out.Visualization = resp
		return err
	}
}

func (p *VisualizationPanel) apply(o Outcome) { p.result = o.Visualization }

func (p *VisualizationPanel) failureNotice() string { return VisualizationFailedNotice }

// ErrorPanel explains a pasted error message
type ErrorPanel struct {
	loadState
	message string
	result  *api.ErrorAnalyzeResponse
}

func (p *ErrorPanel) Kind() Kind { return KindError }

// Message returns the current error message text
func (p *ErrorPanel) Message() string { return p.message }

// Result returns the last error analysis, or nil
func (p *ErrorPanel) Result() *api.ErrorAnalyzeResponse { return p.result }

// View has no failure state: the explanation itself is the result
func (p *ErrorPanel) View() ViewState {
	switch {
	case p.loading:
		return ViewLoading
	case p.result == nil:
		return ViewEmpty
	default:
		return ViewResult
	}
}

// ready uses a plain whitespace check; the placeholder counts as code here
func (p *ErrorPanel) ready(source string) bool {
	return strings.TrimSpace(source) != "" && strings.TrimSpace(p.message) != ""
}

func (p *ErrorPanel) skip() {}

func (p *ErrorPanel) begin(id uint64, source string) call {
	p.start(id)
	req := api.ErrorAnalyzeRequest{Code: source, ErrorMessage: p.message}
	return func(ctx context.Context, b Backend, out *Outcome) error {
		resp, err := b.AnalyzeError(ctx, req)
		out.ErrorAnalysis = resp
		return err
	}
}

func (p *ErrorPanel) apply(o Outcome) { p.result = o.ErrorAnalysis }

func (p *ErrorPanel) failureNotice() string { return ErrorAnalysisFailedNotice }

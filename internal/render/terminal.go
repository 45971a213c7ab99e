package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yildizm/go-termfmt"
	"github.com/yildizm/pyscope/internal/api"
	"github.com/yildizm/pyscope/internal/emoji"
)

// terminalFormatter formats output as plain text for terminal display using go-termfmt
type terminalFormatter struct {
	opts *termfmt.TerminalOptions
}

// NewTerminal creates a new terminal formatter with optional color support
func NewTerminal(color bool) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = !emoji.IsEmojiDisabled()
	return &terminalFormatter{opts: opts}
}

func (f *terminalFormatter) Analysis(resp *api.AnalyzeResponse) ([]byte, error) {
	var b strings.Builder

	if resp == nil {
		b.WriteString(EmptyText + "\n")
		return []byte(b.String()), nil
	}

	if !resp.Success {
		f.writeAnalysisFailure(&b, resp)
		return []byte(b.String()), nil
	}

	f.writeQuality(&b, resp)
	f.writeStatistics(&b, resp)

	if len(resp.StyleIssues) > 0 {
		f.writeStyleIssues(&b, resp.StyleIssues)
	}
	if len(resp.Improvements) > 0 {
		f.writeImprovements(&b, resp.Improvements)
	}

	return []byte(b.String()), nil
}

// writeAnalysisFailure writes the syntax error block
func (f *terminalFormatter) writeAnalysisFailure(b *strings.Builder, resp *api.AnalyzeResponse) {
	b.WriteString(emoji.Label("warning", SyntaxErrorHeading) + "\n")
	b.WriteString(resp.FailureMessage() + "\n")
	if loc := LocationLine(resp); loc != "" {
		b.WriteString(loc + "\n")
	}
	b.WriteString("\n" + emoji.Label("insight", AnalysisFailureHint) + "\n")
}

// writeQuality writes the score with a bar and the issue totals
func (f *terminalFormatter) writeQuality(b *strings.Builder, resp *api.AnalyzeResponse) {
	b.WriteString(emoji.Label("star", qualityHeading) + "\n")
	bar := termfmt.CreateConfidenceBar(float64(QualityScore(resp))/100, f.opts)
	fmt.Fprintf(b, "%s %s\n", ScoreLine(resp), bar)
	b.WriteString(CountsLine(resp) + "\n\n")
}

// writeStatistics writes the four stats as a tree
func (f *terminalFormatter) writeStatistics(b *strings.Builder, resp *api.AnalyzeResponse) {
	symbol := termfmt.GetEmoji("statistics", f.opts)
	b.WriteString(symbol + " " + statsHeading + "\n")

	stats := StatItems(resp)
	items := make([]termfmt.TreeItem, 0, len(stats))
	for i, s := range stats {
		items = append(items, termfmt.TreeItem{
			Label: s.Label,
			Value: strconv.Itoa(s.Value),
			Last:  i == len(stats)-1,
		})
	}

	tree := termfmt.TreeViewWithOptions(items, f.opts)
	b.WriteString(tree + "\n\n")
}

func (f *terminalFormatter) writeStyleIssues(b *strings.Builder, issues []api.StyleIssue) {
	b.WriteString(emoji.Label("insight", styleHeading) + "\n")

	items := make([]termfmt.TreeItem, 0, len(issues))
	for i, issue := range issues {
		items = append(items, termfmt.TreeItem{
			Label: LineLabel(issue.Line),
			Value: issue.Message,
			Last:  i == len(issues)-1,
		})
	}

	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")
}

func (f *terminalFormatter) writeImprovements(b *strings.Builder, improvements []api.Improvement) {
	b.WriteString(emoji.Label("growth", improvementsHeading) + "\n")
	for _, imp := range improvements {
		b.WriteString(emoji.GetEmoji("check") + " " + imp.Message + "\n")
	}
	b.WriteString("\n")
}

func (f *terminalFormatter) Visualization(resp *api.VisualizeResponse, highlight *int) ([]byte, error) {
	var b strings.Builder

	if resp == nil {
		b.WriteString(EmptyText + "\n")
		return []byte(b.String()), nil
	}

	if !resp.Success {
		b.WriteString(emoji.Label("warning", VisualizeErrorHeading) + "\n")
		b.WriteString(resp.FailureMessage() + "\n\n")
		b.WriteString(emoji.Label("insight", VisualizationFailureHint) + "\n")
		return []byte(b.String()), nil
	}

	if resp.Flowchart != nil && *resp.Flowchart != "" {
		b.WriteString(emoji.Label("flow", flowHeading) + "\n")
		if text := FlowchartText(*resp.Flowchart); text != "" {
			b.WriteString(text + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(emoji.Label("steps", stepsHeading) + "\n")
	items := make([]termfmt.TreeItem, 0, len(resp.Steps))
	for i, step := range resp.Steps {
		label := StepLine(step)
		if IsHighlighted(step, highlight) {
			label = "▶ " + label
		}
		item := termfmt.TreeItem{Label: label, Last: i == len(resp.Steps)-1}
		if vars := VariablesJSON(step); vars != "" {
			item.Children = []termfmt.TreeItem{{Label: variablesLabel + ": " + vars, Last: true}}
		}
		items = append(items, item)
	}
	if len(items) > 0 {
		b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n")
	}
	b.WriteString("\n")

	if resp.Explanations != nil {
		b.WriteString(emoji.Label("insight", explanationsHeading) + "\n")
		for _, ex := range Explanations(resp) {
			fmt.Fprintf(&b, "%s  %s\n", LineLabel(ex.Line), ex.Explanation)
		}
	}

	return []byte(b.String()), nil
}

func (f *terminalFormatter) ErrorAnalysis(resp *api.ErrorAnalyzeResponse) ([]byte, error) {
	var b strings.Builder

	if resp == nil {
		return []byte(""), nil
	}

	f.writeErrorHeader(&b, resp)
	f.writeErrorDetail(&b, resp)

	if resp.VisualExplanation != nil && resp.VisualExplanation.Content != "" {
		b.WriteString(emoji.Label("visualize", visualHeading) + "\n")
		b.WriteString(resp.VisualExplanation.Content + "\n\n")
	}

	if len(resp.StepByStepGuide) > 0 {
		b.WriteString(emoji.Label("guide", guideHeading) + "\n")
		for _, step := range resp.StepByStepGuide {
			fmt.Fprintf(&b, "%d. %s\n", step.Step, step.Action)
			if step.Detail != "" {
				b.WriteString("   " + step.Detail + "\n")
			}
		}
		b.WriteString("\n")
	}

	if len(resp.FixSuggestions) > 0 {
		b.WriteString(emoji.Label("fix", fixHeading) + "\n")
		for _, s := range resp.FixSuggestions {
			b.WriteString(emoji.GetEmoji("check") + " " + s + "\n")
		}
		b.WriteString("\n")
	}

	if len(resp.SimilarExamples) > 0 {
		f.writeExamples(&b, resp.SimilarExamples)
	}

	if len(resp.LearningResources) > 0 {
		b.WriteString(emoji.Label("learn", resourcesHeading) + "\n")
		for _, r := range resp.LearningResources {
			b.WriteString(emoji.GetEmoji("pin") + " " + r + "\n")
		}
		b.WriteString("\n")
	}

	f.writeErrorContext(&b, resp.Context)

	return []byte(b.String()), nil
}

// writeErrorHeader writes type, location, difficulty and the short explanation
func (f *terminalFormatter) writeErrorHeader(b *strings.Builder, resp *api.ErrorAnalyzeResponse) {
	header := emoji.Label("warning", resp.ErrorType)
	if loc := ErrorLocation(resp); loc != "" {
		header += "  " + loc
	}
	b.WriteString(header + "\n")

	if level := Difficulty(resp); level > 0 {
		b.WriteString(DifficultyStars(level) + "\n")
	}
	if resp.SimpleExplanation != "" {
		b.WriteString(resp.SimpleExplanation + "\n")
	}
	b.WriteString("\n")
}

func (f *terminalFormatter) writeErrorDetail(b *strings.Builder, resp *api.ErrorAnalyzeResponse) {
	b.WriteString(emoji.Label("detail", detailHeading) + "\n")
	if resp.DetailedExplanation != "" {
		b.WriteString(resp.DetailedExplanation + "\n")
	}
	if concept := deref(resp.ConceptExplanation); concept != "" {
		b.WriteString(emoji.Label("insight", concept) + "\n")
	}

	if len(resp.CommonCauses) > 0 {
		b.WriteString(emoji.Label("analyze", causesHeading+":") + "\n")
		items := make([]termfmt.TreeItem, 0, len(resp.CommonCauses))
		for i, cause := range resp.CommonCauses {
			items = append(items, termfmt.TreeItem{Label: cause, Last: i == len(resp.CommonCauses)-1})
		}
		b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n")
	}
	b.WriteString("\n")
}

func (f *terminalFormatter) writeExamples(b *strings.Builder, examples []api.SimilarExample) {
	b.WriteString(emoji.Label("example", examplesHeading) + "\n")
	for _, ex := range examples {
		b.WriteString(emoji.Label("error", wrongLabel) + "\n")
		b.WriteString(indent(ex.Wrong, "    ") + "\n")
		b.WriteString(emoji.Label("success", correctLabel) + "\n")
		b.WriteString(indent(ex.Correct, "    ") + "\n")
		if ex.Explanation != "" {
			b.WriteString(ex.Explanation + "\n")
		}
		b.WriteString("\n")
	}
}

func (f *terminalFormatter) writeErrorContext(b *strings.Builder, ctx *api.ErrorContext) {
	if ctx == nil || deref(ctx.ProblematicLine) == "" {
		return
	}

	b.WriteString(emoji.Label("location", contextHeading) + "\n")
	b.WriteString("    " + *ctx.ProblematicLine + "\n")

	if len(ctx.SurroundingLines) > 0 {
		b.WriteString(surroundingHeading + ":\n")
		b.WriteString(indent(strings.Join(ctx.SurroundingLines, "\n"), "    ") + "\n")
	}
}

func indent(text, prefix string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

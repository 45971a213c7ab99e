package render

import (
	"fmt"
	"strings"

	"github.com/yildizm/pyscope/internal/api"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct{}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown() Formatter {
	return &markdownFormatter{}
}

func (f *markdownFormatter) Analysis(resp *api.AnalyzeResponse) ([]byte, error) {
	var b strings.Builder

	if resp == nil {
		b.WriteString("_" + EmptyText + "_\n")
		return []byte(b.String()), nil
	}

	if !resp.Success {
		b.WriteString("## " + SyntaxErrorHeading + "\n\n")
		b.WriteString(resp.FailureMessage() + "\n\n")
		if loc := LocationLine(resp); loc != "" {
			b.WriteString("`" + loc + "`\n\n")
		}
		b.WriteString(quote(AnalysisFailureHint))
		return []byte(b.String()), nil
	}

	b.WriteString("## " + qualityHeading + "\n\n")
	fmt.Fprintf(&b, "**%s**\n\n%s\n\n", ScoreLine(resp), CountsLine(resp))

	b.WriteString("## " + statsHeading + "\n\n")
	b.WriteString("| 項目 | 値 |\n|------|----|\n")
	for _, s := range StatItems(resp) {
		fmt.Fprintf(&b, "| %s | %d |\n", s.Label, s.Value)
	}
	b.WriteString("\n")

	if len(resp.StyleIssues) > 0 {
		b.WriteString("## " + styleHeading + "\n\n")
		for _, issue := range resp.StyleIssues {
			fmt.Fprintf(&b, "- `%s` %s\n", LineLabel(issue.Line), issue.Message)
		}
		b.WriteString("\n")
	}

	if len(resp.Improvements) > 0 {
		b.WriteString("## " + improvementsHeading + "\n\n")
		for _, imp := range resp.Improvements {
			fmt.Fprintf(&b, "- ✓ %s\n", imp.Message)
		}
		b.WriteString("\n")
	}

	return []byte(b.String()), nil
}

func (f *markdownFormatter) Visualization(resp *api.VisualizeResponse, highlight *int) ([]byte, error) {
	var b strings.Builder

	if resp == nil {
		b.WriteString("_" + EmptyText + "_\n")
		return []byte(b.String()), nil
	}

	if !resp.Success {
		b.WriteString("## " + VisualizeErrorHeading + "\n\n")
		b.WriteString(resp.FailureMessage() + "\n\n")
		b.WriteString(quote(VisualizationFailureHint))
		return []byte(b.String()), nil
	}

	if resp.Flowchart != nil {
		if text := FlowchartText(*resp.Flowchart); text != "" {
			b.WriteString("## " + flowHeading + "\n\n```text\n" + text + "\n```\n\n")
		}
	}

	b.WriteString("## " + stepsHeading + "\n\n")
	for _, step := range resp.Steps {
		row := fmt.Sprintf("`%s` %s", LineLabel(step.Line()), step.Description)
		if step.Action != "" {
			row += fmt.Sprintf(" _%s_", step.Action)
		}
		if IsHighlighted(step, highlight) {
			row = "**" + row + "**"
		}
		b.WriteString("1. " + row + "\n")
		if vars := VariablesJSON(step); vars != "" {
			fmt.Fprintf(&b, "   - %s: `%s`\n", variablesLabel, vars)
		}
	}
	b.WriteString("\n")

	if resp.Explanations != nil {
		b.WriteString("## " + explanationsHeading + "\n\n")
		for _, ex := range Explanations(resp) {
			fmt.Fprintf(&b, "- `%s` %s\n", LineLabel(ex.Line), ex.Explanation)
		}
		b.WriteString("\n")
	}

	return []byte(b.String()), nil
}

func (f *markdownFormatter) ErrorAnalysis(resp *api.ErrorAnalyzeResponse) ([]byte, error) {
	var b strings.Builder
	if resp == nil {
		return []byte(""), nil
	}

	b.WriteString("## " + resp.ErrorType + "\n\n")
	if loc := ErrorLocation(resp); loc != "" {
		b.WriteString("`" + loc + "`\n\n")
	}
	if level := Difficulty(resp); level > 0 {
		b.WriteString(DifficultyStars(level) + "\n\n")
	}
	if resp.SimpleExplanation != "" {
		b.WriteString(resp.SimpleExplanation + "\n\n")
	}

	b.WriteString("### " + detailHeading + "\n\n")
	if resp.DetailedExplanation != "" {
		b.WriteString(resp.DetailedExplanation + "\n\n")
	}
	if concept := deref(resp.ConceptExplanation); concept != "" {
		b.WriteString(quote("💡 " + concept))
	}
	writeList(&b, causesHeading, resp.CommonCauses)

	if resp.VisualExplanation != nil && resp.VisualExplanation.Content != "" {
		b.WriteString("### " + visualHeading + "\n\n```text\n" + resp.VisualExplanation.Content + "\n```\n\n")
	}

	if len(resp.StepByStepGuide) > 0 {
		b.WriteString("### " + guideHeading + "\n\n")
		for _, step := range resp.StepByStepGuide {
			fmt.Fprintf(&b, "%d. **%s**", step.Step, step.Action)
			if step.Detail != "" {
				b.WriteString(" " + step.Detail)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	writeList(&b, fixHeading, resp.FixSuggestions)

	if len(resp.SimilarExamples) > 0 {
		b.WriteString("### " + examplesHeading + "\n\n")
		for _, ex := range resp.SimilarExamples {
			fmt.Fprintf(&b, "❌ %s\n\n```python\n%s\n```\n\n", wrongLabel, strings.TrimRight(ex.Wrong, "\n"))
			fmt.Fprintf(&b, "✅ %s\n\n```python\n%s\n```\n\n", correctLabel, strings.TrimRight(ex.Correct, "\n"))
			if ex.Explanation != "" {
				b.WriteString(ex.Explanation + "\n\n")
			}
		}
	}

	writeList(&b, resourcesHeading, resp.LearningResources)

	if resp.Context != nil && deref(resp.Context.ProblematicLine) != "" {
		b.WriteString("### " + contextHeading + "\n\n```python\n" + *resp.Context.ProblematicLine + "\n```\n\n")
		if len(resp.Context.SurroundingLines) > 0 {
			b.WriteString("<details><summary>" + surroundingHeading + "</summary>\n\n```python\n")
			b.WriteString(strings.Join(resp.Context.SurroundingLines, "\n"))
			b.WriteString("\n```\n\n</details>\n")
		}
	}

	return []byte(b.String()), nil
}

func writeList(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString("### " + heading + "\n\n")
	for _, item := range items {
		b.WriteString("- " + item + "\n")
	}
	b.WriteString("\n")
}

func quote(text string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = "> " + l
	}
	return strings.Join(lines, "\n") + "\n\n"
}

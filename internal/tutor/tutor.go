// Package tutor builds follow-up prompts that hand an analyzed Python error
// to a general purpose assistant.
package tutor

import (
	"fmt"
	"strings"

	"github.com/yildizm/go-promptfmt"
	"github.com/yildizm/pyscope/internal/api"
)

const systemPrompt = "あなたは高校生にPythonを教える、辛抱強く優しい先生です。" +
	"専門用語はかみ砕いて説明し、答えをそのまま教えるのではなく、生徒が自分で修正できるようにヒントを段階的に示してください。" +
	"回答は日本語で行ってください。"

// ErrorTutorPattern creates a prompt that explains a Python error to a student
type ErrorTutorPattern struct {
	promptfmt.BasePattern
	Code     string
	Message  string
	Analysis *api.ErrorAnalyzeResponse
}

// NewErrorTutorPattern creates a new error tutoring pattern
func NewErrorTutorPattern() *ErrorTutorPattern {
	return &ErrorTutorPattern{
		BasePattern: promptfmt.BasePattern{
			Description: "Explains a Python error message to a high-school student",
			Tags:        []string{"python", "education", "error-explanation"},
		},
	}
}

func (p *ErrorTutorPattern) WithCode(code string) *ErrorTutorPattern {
	p.Code = code
	return p
}

func (p *ErrorTutorPattern) WithMessage(message string) *ErrorTutorPattern {
	p.Message = message
	return p
}

func (p *ErrorTutorPattern) WithAnalysis(analysis *api.ErrorAnalyzeResponse) *ErrorTutorPattern {
	p.Analysis = analysis
	return p
}

// Build assembles the prompt
func (p *ErrorTutorPattern) Build() *promptfmt.Prompt {
	pb := promptfmt.New().
		System(systemPrompt).
		User("次のPythonコードを実行したらエラーが出ました。なぜこのエラーが起きたのか、どう直せばよいかを教えてください。\n\n```python\n%s\n```\n\nエラーメッセージ:\n%s",
			strings.TrimRight(p.Code, "\n"),
			strings.TrimSpace(p.Message))

	if p.Analysis != nil {
		pb.AddContext("error_analysis", summarize(p.Analysis))
	}

	return pb.Build()
}

// ErrorPrompt builds the tutoring prompt for an error and its analysis
func ErrorPrompt(code, message string, analysis *api.ErrorAnalyzeResponse) *promptfmt.Prompt {
	return NewErrorTutorPattern().
		WithCode(code).
		WithMessage(message).
		WithAnalysis(analysis).
		Build()
}

// Text renders a prompt as a single block, system instructions first
func Text(prompt *promptfmt.Prompt) string {
	body := prompt.String()
	if prompt.SystemPrompt == "" || strings.Contains(body, prompt.SystemPrompt) {
		return body
	}
	return prompt.SystemPrompt + "\n\n" + body
}

// summarize flattens the backend's analysis into prompt context
func summarize(a *api.ErrorAnalyzeResponse) string {
	var b strings.Builder

	fmt.Fprintf(&b, "エラーの種類: %s\n", a.ErrorType)
	if a.LineNumber > 0 {
		fmt.Fprintf(&b, "行: %d\n", a.LineNumber)
	}
	if a.SimpleExplanation != "" {
		fmt.Fprintf(&b, "概要: %s\n", a.SimpleExplanation)
	}
	if a.DetailedExplanation != "" {
		fmt.Fprintf(&b, "詳細: %s\n", a.DetailedExplanation)
	}
	writeItems(&b, "よくある原因", a.CommonCauses)
	writeItems(&b, "修正のヒント", a.FixSuggestions)
	if a.Context != nil && a.Context.ProblematicLine != nil {
		fmt.Fprintf(&b, "問題の行: %s\n", *a.Context.ProblematicLine)
	}

	return b.String()
}

func writeItems(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString(title + ":\n")
	for _, item := range items {
		b.WriteString("- " + item + "\n")
	}
}

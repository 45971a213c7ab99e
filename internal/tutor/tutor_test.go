package tutor

import (
	"strings"
	"testing"

	"github.com/yildizm/pyscope/internal/api"
)

func TestErrorPrompt(t *testing.T) {
	analysis := &api.ErrorAnalyzeResponse{
		Success:           true,
		ErrorType:         "NameError",
		LineNumber:        2,
		SimpleExplanation: "変数 y が定義されていません",
		CommonCauses:      []string{"タイプミス"},
	}

	prompt := ErrorPrompt("x = 1\nprint(y)\n", "NameError: name 'y' is not defined", analysis)

	if !strings.Contains(prompt.SystemPrompt, "Python") {
		t.Errorf("Expected tutor system prompt, got %q", prompt.SystemPrompt)
	}

	body := prompt.String()
	for _, want := range []string{"print(y)", "NameError: name 'y' is not defined"} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected %q in prompt, got:\n%s", want, body)
		}
	}

	text := Text(prompt)
	if !strings.Contains(text, prompt.SystemPrompt) {
		t.Error("Expected combined text to include the system prompt")
	}
}

func TestSummarize(t *testing.T) {
	line := "print(y)"
	s := summarize(&api.ErrorAnalyzeResponse{
		ErrorType:      "NameError",
		LineNumber:     2,
		FixSuggestions: []string{"y を定義する"},
		Context:        &api.ErrorContext{ProblematicLine: &line},
	})

	for _, want := range []string{"エラーの種類: NameError", "行: 2", "- y を定義する", "問題の行: print(y)"} {
		if !strings.Contains(s, want) {
			t.Errorf("Expected %q in summary, got:\n%s", want, s)
		}
	}
	if strings.Contains(s, "よくある原因") {
		t.Error("Expected empty causes to be omitted")
	}
}

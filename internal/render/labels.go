package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yildizm/pyscope/internal/api"
)

// Display strings shared by every formatter and the TUI
const (
	EmptyText             = "コードを入力して解析ボタンを押してください"
	AnalyzingText         = "解析中..."
	VisualizingText       = "可視化中..."
	SyntaxErrorHeading    = "構文エラー"
	VisualizeErrorHeading = "エラー"

	AnalysisFailureHint      = "このエラーメッセージをコピーして、「エラーを解析する」タブで詳しく見てみましょう！\nエラーの原因と解決方法を分かりやすく説明します。"
	VisualizationFailureHint = "エラーが発生しました！まずは「コードを解析する」タブでエラーを分析し、問題を解決してから戻ってきましょう。\nエラーメッセージをコピーして、「エラーを解析する」タブに貼り付けてください。"

	qualityHeading      = "コード品質スコア"
	statsHeading        = "統計情報"
	styleHeading        = "スタイルの問題"
	improvementsHeading = "改善提案"
	flowHeading         = "実行フロー図"
	stepsHeading        = "実行ステップ"
	explanationsHeading = "ステップの説明"
	detailHeading       = "詳しい説明"
	causesHeading       = "確認ポイント"
	visualHeading       = "視覚的な説明"
	guideHeading        = "解決手順"
	fixHeading          = "修正提案"
	examplesHeading     = "コード例"
	resourcesHeading    = "もっと学ぶ"
	contextHeading      = "問題のコード"
	surroundingHeading  = "前後のコード"
	wrongLabel          = "間違い"
	correctLabel        = "正しい"
	variablesLabel      = "変数"

	maxExplanations = 5
	maxDifficulty   = 3
)

// QualityScore returns the summary score, 0 when absent
func QualityScore(resp *api.AnalyzeResponse) int {
	if resp.Summary == nil || resp.Summary.QualityScore == nil {
		return 0
	}
	return *resp.Summary.QualityScore
}

// IssueCounts returns the summary issue and suggestion totals, 0 when absent
func IssueCounts(resp *api.AnalyzeResponse) (issues, suggestions int) {
	if resp.Summary == nil {
		return 0, 0
	}
	if resp.Summary.TotalIssues != nil {
		issues = *resp.Summary.TotalIssues
	}
	if resp.Summary.TotalSuggestions != nil {
		suggestions = *resp.Summary.TotalSuggestions
	}
	return issues, suggestions
}

// ScoreLine formats the quality score
func ScoreLine(resp *api.AnalyzeResponse) string {
	return fmt.Sprintf("%d/100", QualityScore(resp))
}

// CountsLine formats the issue and suggestion totals
func CountsLine(resp *api.AnalyzeResponse) string {
	issues, suggestions := IssueCounts(resp)
	return fmt.Sprintf("問題: %d件 • 改善提案: %d件", issues, suggestions)
}

// LocationLine formats the syntax error location, or "" when absent
func LocationLine(resp *api.AnalyzeResponse) string {
	if resp.Line == nil || *resp.Line == 0 {
		return ""
	}
	text := ""
	if resp.Text != nil {
		text = strings.TrimRight(*resp.Text, "\n")
	}
	return fmt.Sprintf("行 %d: %s", *resp.Line, text)
}

// StatItem is one labelled statistic
type StatItem struct {
	Label string
	Value int
}

// StatItems returns the four displayed statistics in order
func StatItems(resp *api.AnalyzeResponse) []StatItem {
	var s api.Stats
	if resp.Stats != nil {
		s = *resp.Stats
	}
	return []StatItem{
		{"総行数", s.TotalLines},
		{"コード行数", s.CodeLines},
		{"関数数", s.FunctionCount},
		{"クラス数", s.ClassCount},
	}
}

// LineLabel formats a line reference
func LineLabel(line int) string {
	return fmt.Sprintf("行 %d", line)
}

// ErrorLocation formats "行 n, 列 m" for the error panel, or "" when unknown
func ErrorLocation(resp *api.ErrorAnalyzeResponse) string {
	if resp.LineNumber <= 0 {
		return ""
	}
	loc := LineLabel(resp.LineNumber)
	if resp.ColumnNumber > 0 {
		loc += fmt.Sprintf(", 列 %d", resp.ColumnNumber)
	}
	return loc
}

// Difficulty returns the difficulty level, 0 when absent
func Difficulty(resp *api.ErrorAnalyzeResponse) int {
	if resp.DifficultyLevel == nil {
		return 0
	}
	return *resp.DifficultyLevel
}

// DifficultyStars renders the level as filled and empty stars
func DifficultyStars(level int) string {
	if level > maxDifficulty {
		level = maxDifficulty
	}
	if level < 0 {
		level = 0
	}
	return strings.Repeat("★", level) + strings.Repeat("☆", maxDifficulty-level)
}

// Explanations returns at most the first five step explanations
func Explanations(resp *api.VisualizeResponse) []api.StepExplanation {
	if len(resp.Explanations) > maxExplanations {
		return resp.Explanations[:maxExplanations]
	}
	return resp.Explanations
}

// IsHighlighted reports whether step sits on the highlighted line
func IsHighlighted(step api.SimulatedStep, highlight *int) bool {
	return highlight != nil && step.Line() == *highlight
}

// VariablesJSON returns the step's variables as compact JSON, or "" when empty
func VariablesJSON(step api.SimulatedStep) string {
	if len(step.Variables) == 0 {
		return ""
	}
	data, err := json.Marshal(step.Variables)
	if err != nil {
		return fmt.Sprintf("%v", step.Variables)
	}
	return string(data)
}

// StepLine formats a step row without styling
func StepLine(step api.SimulatedStep) string {
	line := fmt.Sprintf("%s %s", LineLabel(step.Line()), step.Description)
	if step.Action != "" {
		line += fmt.Sprintf(" [%s]", step.Action)
	}
	return line
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

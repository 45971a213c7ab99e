package api

import (
	"fmt"
)

func validateAnalyze(r *AnalyzeResponse) error {
	if !r.Success {
		if r.Message == nil && r.Error == nil {
			return fmt.Errorf("failed analysis without message or error")
		}
		if r.Line != nil && *r.Line < 0 {
			return fmt.Errorf("negative error line %d", *r.Line)
		}
		return nil
	}

	for i, issue := range r.StyleIssues {
		if issue.Line < 0 {
			return fmt.Errorf("style_issues[%d]: negative line %d", i, issue.Line)
		}
	}

	for i, imp := range r.Improvements {
		if imp.Line != nil && *imp.Line < 0 {
			return fmt.Errorf("improvements[%d]: negative line %d", i, *imp.Line)
		}
	}

	if r.Summary != nil && r.Summary.QualityScore != nil {
		if q := *r.Summary.QualityScore; q < 0 || q > 100 {
			return fmt.Errorf("quality_score %d out of range 0..100", q)
		}
	}

	return nil
}

func validateVisualize(r *VisualizeResponse) error {
	if !r.Success {
		return nil
	}

	if r.Steps == nil {
		return fmt.Errorf("successful visualization without steps")
	}

	for i, step := range r.Steps {
		if step.LineNumber < 0 || step.LineAlias < 0 {
			return fmt.Errorf("steps[%d]: negative line", i)
		}
	}

	for i, ex := range r.Explanations {
		if ex.Line < 0 {
			return fmt.Errorf("explanations[%d]: negative line %d", i, ex.Line)
		}
	}

	return nil
}

func validateErrorAnalyze(r *ErrorAnalyzeResponse) error {
	if r.LineNumber < 0 || r.ColumnNumber < 0 {
		return fmt.Errorf("negative location %d:%d", r.LineNumber, r.ColumnNumber)
	}

	if r.DifficultyLevel != nil {
		if d := *r.DifficultyLevel; d < 0 || d > 3 {
			return fmt.Errorf("difficulty_level %d out of range 0..3", d)
		}
	}

	if r.Success && r.ErrorType == "" {
		return fmt.Errorf("successful error analysis without error_type")
	}

	return nil
}

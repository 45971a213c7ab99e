package api

// AnalyzeRequest represents a POST /api/v1/analyze request
type AnalyzeRequest struct {
	Code    string                 `json:"code"`
	Options map[string]interface{} `json:"options,omitempty"`
}

// VisualizeRequest represents a POST /api/v1/visualize request
type VisualizeRequest struct {
	Code          string `json:"code"`
	HighlightLine *int   `json:"highlight_line,omitempty"`
	ShowFlow      *bool  `json:"show_flow,omitempty"`
}

// ErrorAnalyzeRequest represents a POST /api/v1/analyze-error request
type ErrorAnalyzeRequest struct {
	Code         string `json:"code"`
	ErrorMessage string `json:"error_message"`
}

// AnalyzeResponse is the static analysis result. When Success is false the
// location fields (Line, Offset, Text) describe the syntax error.
type AnalyzeResponse struct {
	Success      bool                   `json:"success"`
	Error        *string                `json:"error,omitempty"`
	Message      *string                `json:"message,omitempty"`
	Line         *int                   `json:"line,omitempty"`
	Offset       *int                   `json:"offset,omitempty"`
	Text         *string                `json:"text,omitempty"`
	Structure    map[string]interface{} `json:"structure,omitempty"`
	StyleIssues  []StyleIssue           `json:"style_issues,omitempty"`
	Improvements []Improvement          `json:"improvements,omitempty"`
	Stats        *Stats                 `json:"stats,omitempty"`
	Summary      *Summary               `json:"summary,omitempty"`
}

// StyleIssue is a single style-checker finding
type StyleIssue struct {
	Line     int    `json:"line"`
	Type     string `json:"type"`
	Message  string `json:"message"`
	Severity string `json:"severity,omitempty"`
}

// Improvement is an improvement suggestion
type Improvement struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Line    *int   `json:"line,omitempty"`
}

// Stats holds source statistics
type Stats struct {
	TotalLines      int     `json:"total_lines"`
	CodeLines       int     `json:"code_lines"`
	ImportCount     int     `json:"import_count"`
	FunctionCount   int     `json:"function_count"`
	ClassCount      int     `json:"class_count"`
	ComplexityScore float64 `json:"complexity_score"`
}

// Summary holds the high level description of the analyzed code
type Summary struct {
	Description      string   `json:"description"`
	MainConcepts     []string `json:"main_concepts"`
	Difficulty       string   `json:"difficulty"`
	QualityScore     *int     `json:"quality_score,omitempty"`
	TotalIssues      *int     `json:"total_issues,omitempty"`
	TotalSuggestions *int     `json:"total_suggestions,omitempty"`
}

// VisualizeResponse is the simulated execution result
type VisualizeResponse struct {
	Success      bool                   `json:"success"`
	Steps        []SimulatedStep        `json:"steps"`
	Structure    map[string]interface{} `json:"structure"`
	FlowDiagram  string                 `json:"flow_diagram"`
	Explanation  string                 `json:"explanation"`
	Error        *string                `json:"error,omitempty"`
	Flowchart    *string                `json:"flowchart,omitempty"`
	Explanations []StepExplanation      `json:"explanations,omitempty"`
	Message      *string                `json:"message,omitempty"`
}

// SimulatedStep is one step of the simulated execution
type SimulatedStep struct {
	LineNumber  int                    `json:"line_number"`
	Code        string                 `json:"code"`
	Action      string                 `json:"action"`
	Description string                 `json:"description"`
	Scope       string                 `json:"scope"`
	LineAlias   int                    `json:"line,omitempty"`
	Variables   map[string]interface{} `json:"variables,omitempty"`
}

// Line returns the step's source line, preferring the "line" alias when set
func (s SimulatedStep) Line() int {
	if s.LineAlias != 0 {
		return s.LineAlias
	}
	return s.LineNumber
}

// StepExplanation explains a single line
type StepExplanation struct {
	Line        int    `json:"line"`
	Explanation string `json:"explanation"`
}

// ErrorAnalyzeResponse is the educational explanation of an error message
type ErrorAnalyzeResponse struct {
	Success             bool               `json:"success"`
	ErrorType           string             `json:"error_type"`
	LineNumber          int                `json:"line_number"`
	ColumnNumber        int                `json:"column_number"`
	SimpleExplanation   string             `json:"simple_explanation"`
	DetailedExplanation string             `json:"detailed_explanation"`
	CommonCauses        []string           `json:"common_causes"`
	FixSuggestions      []string           `json:"fix_suggestions"`
	SimilarExamples     []SimilarExample   `json:"similar_examples"`
	LearningResources   []string           `json:"learning_resources"`
	StepByStepGuide     []DebugStep        `json:"step_by_step_guide,omitempty"`
	PreventiveTips      []string           `json:"preventive_tips,omitempty"`
	Context             *ErrorContext      `json:"context,omitempty"`
	DifficultyLevel     *int               `json:"difficulty_level,omitempty"`
	ConceptExplanation  *string            `json:"concept_explanation,omitempty"`
	VisualExplanation   *VisualExplanation `json:"visual_explanation,omitempty"`
}

// SimilarExample pairs a wrong snippet with its fix
type SimilarExample struct {
	Wrong       string `json:"wrong"`
	Correct     string `json:"correct"`
	Explanation string `json:"explanation"`
}

// DebugStep is one step of a debugging guide
type DebugStep struct {
	Step   int    `json:"step"`
	Action string `json:"action"`
	Detail string `json:"detail"`
}

// ErrorContext describes the source lines around the error
type ErrorContext struct {
	ProblematicLine  *string  `json:"problematic_line,omitempty"`
	LineBefore       *string  `json:"line_before,omitempty"`
	LineAfter        *string  `json:"line_after,omitempty"`
	SurroundingLines []string `json:"surrounding_lines,omitempty"`
}

// VisualExplanation holds a pre-formatted diagram
type VisualExplanation struct {
	Content string `json:"content"`
}

// HealthResponse is returned by the backend root endpoint
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Message string `json:"message"`
}

// backendErrorBody covers both the custom handler shape ({"error", "detail"})
// and FastAPI's default HTTPException shape ({"detail"}).
type backendErrorBody struct {
	Error  string      `json:"error"`
	Detail interface{} `json:"detail"`
}

// FailureMessage returns the backend-reported message for a failed analysis
func (r *AnalyzeResponse) FailureMessage() string {
	if r.Message != nil && *r.Message != "" {
		return *r.Message
	}
	if r.Error != nil {
		return *r.Error
	}
	return ""
}

// FailureMessage returns the backend-reported message for a failed visualization
func (r *VisualizeResponse) FailureMessage() string {
	if r.Message != nil && *r.Message != "" {
		return *r.Message
	}
	if r.Error != nil {
		return *r.Error
	}
	return ""
}

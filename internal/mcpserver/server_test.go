package mcpserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yildizm/pyscope/internal/api"
)

type mockBackend struct {
	analyze     *api.AnalyzeResponse
	visualize   *api.VisualizeResponse
	errAnalysis *api.ErrorAnalyzeResponse
	err         error

	lastVisReq   api.VisualizeRequest
	lastErrorReq api.ErrorAnalyzeRequest
}

func (m *mockBackend) AnalyzeCode(ctx context.Context, req api.AnalyzeRequest) (*api.AnalyzeResponse, error) {
	return m.analyze, m.err
}

func (m *mockBackend) VisualizeCode(ctx context.Context, req api.VisualizeRequest) (*api.VisualizeResponse, error) {
	m.lastVisReq = req
	return m.visualize, m.err
}

func (m *mockBackend) AnalyzeError(ctx context.Context, req api.ErrorAnalyzeRequest) (*api.ErrorAnalyzeResponse, error) {
	m.lastErrorReq = req
	return m.errAnalysis, m.err
}

func toolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func TestAnalyzePythonCode(t *testing.T) {
	backend := &mockBackend{analyze: &api.AnalyzeResponse{
		Success: true,
		Stats:   &api.Stats{TotalLines: 3},
	}}
	s := New(backend, "test", nil)

	result, err := s.handleAnalyzeCode(context.Background(), toolRequest(ToolAnalyzeCode, map[string]interface{}{
		"code": "x = 1",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var decoded api.AnalyzeResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &decoded))
	assert.True(t, decoded.Success)
	require.NotNil(t, decoded.Stats)
	assert.Equal(t, 3, decoded.Stats.TotalLines)
}

func TestAnalyzePythonCode_MissingCode(t *testing.T) {
	s := New(&mockBackend{}, "test", nil)

	result, err := s.handleAnalyzeCode(context.Background(), toolRequest(ToolAnalyzeCode, map[string]interface{}{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestVisualizeCodeStructure_Defaults(t *testing.T) {
	backend := &mockBackend{visualize: &api.VisualizeResponse{Success: true, Steps: []api.SimulatedStep{}}}
	s := New(backend, "test", nil)

	result, err := s.handleVisualizeCode(context.Background(), toolRequest(ToolVisualizeCode, map[string]interface{}{
		"code": "print(1)",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	require.NotNil(t, backend.lastVisReq.HighlightLine)
	assert.Equal(t, 0, *backend.lastVisReq.HighlightLine)
	require.NotNil(t, backend.lastVisReq.ShowFlow)
	assert.True(t, *backend.lastVisReq.ShowFlow)
}

func TestVisualizeCodeStructure_Arguments(t *testing.T) {
	backend := &mockBackend{visualize: &api.VisualizeResponse{Success: true, Steps: []api.SimulatedStep{}}}
	s := New(backend, "test", nil)

	_, err := s.handleVisualizeCode(context.Background(), toolRequest(ToolVisualizeCode, map[string]interface{}{
		"code":           "x = 1\nprint(x)",
		"highlight_line": float64(2),
		"show_flow":      false,
	}))
	require.NoError(t, err)

	assert.Equal(t, "x = 1\nprint(x)", backend.lastVisReq.Code)
	assert.Equal(t, 2, *backend.lastVisReq.HighlightLine)
	assert.False(t, *backend.lastVisReq.ShowFlow)
}

func TestVisualizeCodeStructure_NegativeHighlight(t *testing.T) {
	s := New(&mockBackend{}, "test", nil)

	result, err := s.handleVisualizeCode(context.Background(), toolRequest(ToolVisualizeCode, map[string]interface{}{
		"code":           "x = 1",
		"highlight_line": float64(-1),
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestAnalyzeError(t *testing.T) {
	backend := &mockBackend{errAnalysis: &api.ErrorAnalyzeResponse{Success: true, ErrorType: "NameError"}}
	s := New(backend, "test", nil)

	result, err := s.handleAnalyzeError(context.Background(), toolRequest(ToolAnalyzeError, map[string]interface{}{
		"code":          "print(y)",
		"error_message": "NameError: name 'y' is not defined",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "NameError")
	assert.Equal(t, "NameError: name 'y' is not defined", backend.lastErrorReq.ErrorMessage)
}

func TestAnalyzeError_MissingMessage(t *testing.T) {
	s := New(&mockBackend{}, "test", nil)

	result, err := s.handleAnalyzeError(context.Background(), toolRequest(ToolAnalyzeError, map[string]interface{}{
		"code": "print(y)",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestTransportFailureIsToolError(t *testing.T) {
	backend := &mockBackend{err: &api.TransportError{Type: api.ErrTypeNetwork, Message: "connection refused"}}
	s := New(backend, "test", nil)

	tests := []struct {
		name string
		call func() (*mcp.CallToolResult, error)
	}{
		{"analyze", func() (*mcp.CallToolResult, error) {
			return s.handleAnalyzeCode(context.Background(), toolRequest(ToolAnalyzeCode, map[string]interface{}{"code": "x"}))
		}},
		{"visualize", func() (*mcp.CallToolResult, error) {
			return s.handleVisualizeCode(context.Background(), toolRequest(ToolVisualizeCode, map[string]interface{}{"code": "x"}))
		}},
		{"analyze_error", func() (*mcp.CallToolResult, error) {
			return s.handleAnalyzeError(context.Background(), toolRequest(ToolAnalyzeError, map[string]interface{}{"code": "x", "error_message": "e"}))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.call()
			require.NoError(t, err)
			assert.True(t, result.IsError)
			assert.Contains(t, resultText(t, result), "connection refused")
		})
	}
}

func TestBackendFailureIsData(t *testing.T) {
	msg := "invalid syntax"
	backend := &mockBackend{analyze: &api.AnalyzeResponse{Success: false, Message: &msg}}
	s := New(backend, "test", nil)

	result, err := s.handleAnalyzeCode(context.Background(), toolRequest(ToolAnalyzeCode, map[string]interface{}{"code": "def"}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "invalid syntax")
}

func TestExplainErrorPrompt(t *testing.T) {
	backend := &mockBackend{errAnalysis: &api.ErrorAnalyzeResponse{
		Success:           true,
		ErrorType:         "ZeroDivisionError",
		SimpleExplanation: "0で割っています",
	}}
	s := New(backend, "test", nil)

	req := mcp.GetPromptRequest{}
	req.Params.Name = PromptExplainError
	req.Params.Arguments = map[string]string{
		"code":          "print(1 / 0)",
		"error_message": "ZeroDivisionError: division by zero",
	}

	result, err := s.handleExplainError(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result.Messages, 1)
	assert.Equal(t, mcp.RoleUser, result.Messages[0].Role)

	text, ok := result.Messages[0].Content.(mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "print(1 / 0)")
	assert.Contains(t, text.Text, "ZeroDivisionError: division by zero")
	assert.Equal(t, "ZeroDivisionError: division by zero", backend.lastErrorReq.ErrorMessage)
}

func TestExplainErrorPrompt_BackendDown(t *testing.T) {
	backend := &mockBackend{err: &api.TransportError{Type: api.ErrTypeTimeout, Message: "deadline exceeded"}}
	s := New(backend, "test", nil)

	req := mcp.GetPromptRequest{}
	req.Params.Arguments = map[string]string{"code": "x", "error_message": "NameError"}

	result, err := s.handleExplainError(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result.Messages, 1)
}

func TestExplainErrorPrompt_MissingArguments(t *testing.T) {
	s := New(&mockBackend{}, "test", nil)

	req := mcp.GetPromptRequest{}
	req.Params.Arguments = map[string]string{"code": "x"}

	_, err := s.handleExplainError(context.Background(), req)
	assert.Error(t, err)
}

// Package mcpserver exposes the analysis backend as MCP tools so editors and
// assistants can call it over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/yildizm/pyscope/internal/api"
	"github.com/yildizm/pyscope/internal/logger"
	"github.com/yildizm/pyscope/internal/tutor"
)

// Server name advertised to MCP clients
const Name = "pyscope"

// Tool and prompt names
const (
	ToolAnalyzeCode    = "analyze_python_code"
	ToolVisualizeCode  = "visualize_code_structure"
	ToolAnalyzeError   = "analyze_error"
	PromptExplainError = "explain_error"
)

// Backend is the subset of the API client the tools forward to
type Backend interface {
	AnalyzeCode(ctx context.Context, req api.AnalyzeRequest) (*api.AnalyzeResponse, error)
	VisualizeCode(ctx context.Context, req api.VisualizeRequest) (*api.VisualizeResponse, error)
	AnalyzeError(ctx context.Context, req api.ErrorAnalyzeRequest) (*api.ErrorAnalyzeResponse, error)
}

// Server wraps an MCP server whose tools call the backend
type Server struct {
	backend Backend
	mcp     *server.MCPServer
	log     *logger.Logger
}

// New creates the MCP server and registers its tools and prompt
func New(backend Backend, version string, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}

	s := &Server{
		backend: backend,
		log:     log.WithComponent("mcp"),
	}

	s.mcp = server.NewMCPServer(
		Name,
		version,
		server.WithToolCapabilities(false),
		server.WithPromptCapabilities(false),
	)
	s.mcp.AddTools(s.tools()...)
	s.mcp.AddPrompt(explainErrorPrompt(), s.handleExplainError)

	return s
}

// MCPServer returns the underlying mcp-go server
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// ServeStdio serves MCP over stdin/stdout until the input is closed
func (s *Server) ServeStdio() error {
	s.log.Info("serving MCP over stdio")
	return server.ServeStdio(s.mcp)
}

func (s *Server) tools() []server.ServerTool {
	return []server.ServerTool{
		{
			Tool: mcp.NewTool(ToolAnalyzeCode,
				mcp.WithDescription("Statically analyze Python code: structure, style issues, improvements and statistics"),
				mcp.WithString("code",
					mcp.Required(),
					mcp.Description("Python source code to analyze"),
				),
			),
			Handler: s.handleAnalyzeCode,
		},
		{
			Tool: mcp.NewTool(ToolVisualizeCode,
				mcp.WithDescription("Simulate Python code step by step and describe its execution flow"),
				mcp.WithString("code",
					mcp.Required(),
					mcp.Description("Python source code to visualize"),
				),
				mcp.WithNumber("highlight_line",
					mcp.Description("Line number to highlight (0 for none)"),
					mcp.DefaultNumber(0),
				),
				mcp.WithBoolean("show_flow",
					mcp.Description("Include the execution flow diagram"),
					mcp.DefaultBool(true),
				),
			),
			Handler: s.handleVisualizeCode,
		},
		{
			Tool: mcp.NewTool(ToolAnalyzeError,
				mcp.WithDescription("Explain a Python error message for a beginner, with causes and fixes"),
				mcp.WithString("code",
					mcp.Required(),
					mcp.Description("Python source code that raised the error"),
				),
				mcp.WithString("error_message",
					mcp.Required(),
					mcp.Description("The error message, e.g. NameError: name 'x' is not defined"),
				),
			),
			Handler: s.handleAnalyzeError,
		},
	}
}

func explainErrorPrompt() mcp.Prompt {
	return mcp.NewPrompt(PromptExplainError,
		mcp.WithPromptDescription("Ask an assistant to explain a Python error to a high-school student"),
		mcp.WithArgument("code",
			mcp.ArgumentDescription("Python source code that raised the error"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("error_message",
			mcp.ArgumentDescription("The error message"),
			mcp.RequiredArgument(),
		),
	)
}

func (s *Server) handleAnalyzeCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := request.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError("code parameter is required"), nil
	}

	resp, err := s.backend.AnalyzeCode(ctx, api.AnalyzeRequest{Code: code})
	if err != nil {
		return s.backendError(ToolAnalyzeCode, err), nil
	}
	return jsonResult(resp)
}

func (s *Server) handleVisualizeCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := request.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError("code parameter is required"), nil
	}

	args := request.GetArguments()
	highlight := 0
	if v, ok := args["highlight_line"].(float64); ok {
		highlight = int(v)
	}
	if highlight < 0 {
		return mcp.NewToolResultError("highlight_line must not be negative"), nil
	}
	showFlow := true
	if v, ok := args["show_flow"].(bool); ok {
		showFlow = v
	}

	resp, err := s.backend.VisualizeCode(ctx, api.VisualizeRequest{
		Code:          code,
		HighlightLine: &highlight,
		ShowFlow:      &showFlow,
	})
	if err != nil {
		return s.backendError(ToolVisualizeCode, err), nil
	}
	return jsonResult(resp)
}

func (s *Server) handleAnalyzeError(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := request.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError("code parameter is required"), nil
	}
	message, err := request.RequireString("error_message")
	if err != nil {
		return mcp.NewToolResultError("error_message parameter is required"), nil
	}

	resp, err := s.backend.AnalyzeError(ctx, api.ErrorAnalyzeRequest{Code: code, ErrorMessage: message})
	if err != nil {
		return s.backendError(ToolAnalyzeError, err), nil
	}
	return jsonResult(resp)
}

// handleExplainError builds the tutor prompt from the backend's analysis.
// If the backend is unreachable the prompt is built without it.
func (s *Server) handleExplainError(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	code := request.Params.Arguments["code"]
	message := request.Params.Arguments["error_message"]
	if strings.TrimSpace(code) == "" || strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("code and error_message are required")
	}

	analysis, err := s.backend.AnalyzeError(ctx, api.ErrorAnalyzeRequest{Code: code, ErrorMessage: message})
	if err != nil {
		s.log.Warn("error analysis for prompt failed: %v", err)
		analysis = nil
	}

	prompt := tutor.ErrorPrompt(code, message, analysis)
	return mcp.NewGetPromptResult(
		"Explain a Python error",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(tutor.Text(prompt))),
		},
	), nil
}

func (s *Server) backendError(tool string, err error) *mcp.CallToolResult {
	s.log.WarnWithFields("%s failed", []logger.Field{
		logger.F("type", api.ErrorTypeOf(err)),
		logger.Error(err),
	}, tool)
	return mcp.NewToolResultError(fmt.Sprintf("backend request failed: %v", err))
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

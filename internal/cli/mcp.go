package cli

import (
	"github.com/spf13/cobra"
	"github.com/yildizm/pyscope/internal/mcpserver"
)

func newMCPCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the analysis tools over MCP (stdio)",
		Long: `Start a Model Context Protocol server on stdin/stdout so editors and AI
assistants can call the backend.

Tools: analyze_python_code, visualize_code_structure, analyze_error.
Prompt: explain_error.

Logs go to stderr; stdout carries the protocol.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log := newLogger(cfg)
			client, err := newClient(cfg, log)
			if err != nil {
				return err
			}
			return mcpserver.New(client, version, log).ServeStdio()
		},
	}
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yildizm/pyscope/internal/emoji"
)

func newHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the analysis backend is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			client, err := newClient(cfg, newLogger(cfg))
			if err != nil {
				return err
			}

			resp, err := client.Health(cmd.Context())
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s backend at %s is not reachable\n", emoji.GetEmoji("error"), client.BaseURL())
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s backend at %s is %s\n", emoji.GetEmoji("success"), client.BaseURL(), resp.Status)
			if resp.Version != "" {
				fmt.Fprintf(out, "   Version: %s\n", resp.Version)
			}
			if resp.Message != "" {
				fmt.Fprintf(out, "   Message: %s\n", resp.Message)
			}
			return nil
		},
	}
}

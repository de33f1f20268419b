package cli

import (
	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check a running bot's status surface",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := NewClient(cfg.ServerURL)
			ctx := cmd.Context()

			var result HealthResult
			if err := client.Get(ctx, "/health", &result); err != nil {
				return err
			}
			if err := client.Get(ctx, "/api/status", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
	cmd.Flags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Status surface URL (env: ROSTERCTL_SERVER)")
	return cmd
}

package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mcoot/fivem-rosterbot/internal/factory"
	"github.com/mcoot/fivem-rosterbot/internal/logging"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the bot and the HTTP status surface",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			// The long-running process logs like the server binary.
			serveLogger := logging.New(cfg.App.Logging, cmd.ErrOrStderr())
			return factory.Run(ctx, cfg.App, serveLogger)
		},
	}
}

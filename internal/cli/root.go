package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcoot/fivem-rosterbot/internal/config"
	"github.com/mcoot/fivem-rosterbot/internal/factory"
	"github.com/mcoot/fivem-rosterbot/internal/logging"
)

var (
	cfg    *Config
	logger *slog.Logger
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "rosterctl",
		Short: "Operator tool for the FiveM roster bot",
		Long: `rosterctl runs and inspects the FiveM roster bot.

It can serve the bot, fetch a one-off grouped roster, manage the player
registry directly, and query the status surface of a running process.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.LoadApp(); err != nil {
				return err
			}

			level := "warn"
			if cfg.Verbose {
				level = "debug"
			}
			logger = logging.New(config.LoggingConfig{Level: level, Format: "text"}, cmd.ErrOrStderr())
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newRosterCmd())
	rootCmd.AddCommand(newRegistryCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// openApp wires the application from the loaded configuration.
func openApp(cmd *cobra.Command) (*factory.App, error) {
	return factory.New(cmd.Context(), cfg.App, logger)
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

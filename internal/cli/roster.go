package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mcoot/fivem-rosterbot/internal/presenter"
)

func newRosterCmd() *cobra.Command {
	var serverID string

	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Fetch and group the live roster once",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			if serverID == "" {
				serverID = cfg.App.ServerID
			}
			ctx := cmd.Context()

			result := app.Retriever.Fetch(ctx, serverID)
			report := RosterReport{
				ServerID:   serverID,
				Success:    result.Success,
				Message:    result.Message,
				Hostname:   result.Hostname,
				Source:     string(result.Source),
				Online:     result.PlayerCount(),
				MaxPlayers: result.MaxPlayers,
				Groups:     []RosterGroup{},
			}

			if result.Success {
				overlays, err := app.Registry.Overlays(ctx)
				if err != nil {
					logger.Warn("registry unavailable, printing roster without overlays", slog.Any("error", err))
				}
				groups := app.Classifier.Classify(presenter.RosterLines(result.Players, overlays))
				for _, bucket := range groups.NonEmpty() {
					report.Groups = append(report.Groups, RosterGroup{Name: bucket.Name, Lines: bucket.Lines})
				}
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(report)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverID, "server", "", "FiveM server id (default: FIVEM_SERVER_ID)")
	return cmd
}

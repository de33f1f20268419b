package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/fivem-rosterbot/internal/model"
	"github.com/mcoot/fivem-rosterbot/internal/services/registry"
)

func newRegistryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Manage the player registry directly",
	}

	cmd.AddCommand(newRegistryRegisterCmd())
	cmd.AddCommand(newRegistryGetCmd())
	cmd.AddCommand(newRegistryListCmd())

	return cmd
}

func newRegistryRegisterCmd() *cobra.Command {
	var notes, group string

	cmd := &cobra.Command{
		Use:   "register <steam-id> <nickname>",
		Short: "Create or update a registry record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			rp, created, err := app.Registry.Register(cmd.Context(), registry.Registration{
				SteamID:  args[0],
				Nickname: args[1],
				Notes:    notes,
				Group:    group,
			})
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			if cfg.Output != "json" {
				verb := "Updated"
				if created {
					verb = "Registered"
				}
				out.PrintMessage(fmt.Sprintf("%s %s", verb, rp.SteamID))
			}
			out.Print(registeredPlayerFromModel(rp))
			return nil
		},
	}

	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	cmd.Flags().StringVar(&group, "group", "", "Group or faction name")
	return cmd
}

func newRegistryGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <steam-id>",
		Short: "Show a registry record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			rp, err := app.Registry.Lookup(cmd.Context(), args[0])
			if errors.Is(err, model.ErrPlayerNotFound) {
				return fmt.Errorf("player %s is not registered", args[0])
			}
			if err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(registeredPlayerFromModel(rp))
			return nil
		},
	}
}

func newRegistryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every registry record",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			records, err := app.Registry.All(cmd.Context())
			if err != nil {
				return err
			}

			players := make([]RegisteredPlayer, 0, len(records))
			for _, rp := range records {
				players = append(players, registeredPlayerFromModel(rp))
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(players)
			return nil
		},
	}
}

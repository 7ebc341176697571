package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newLeaderboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "leaderboard",
		Aliases: []string{"lb"},
		Short:   "Show the leaderboard, highest earnings first",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Player
			if err := client.Get("/api/v1/players", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newClaimCmd() *cobra.Command {
	var (
		email      string
		externalID string
		name       string
	)

	cmd := &cobra.Command{
		Use:   "claim <player-id>",
		Short: "Claim an unclaimed player profile for an external identity",
		Long: `Link an external identity to a player profile.

Only profiles without a stored email can be claimed. Claiming the same
profile again with the same identity is a no-op; claiming a profile
already linked to a different identity fails.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			playerID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid player id: %s", args[0])
			}

			body := map[string]any{
				"email":       email,
				"external_id": externalID,
				"name":        name,
			}

			var result Player
			path := fmt.Sprintf("/api/v1/players/%d/claim", playerID)
			if err := client.Post(path, body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Identity email")
	cmd.Flags().StringVar(&externalID, "external-id", "", "External identity ID")
	cmd.Flags().StringVar(&name, "name", "", "Display name (optional)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("external-id")

	return cmd
}

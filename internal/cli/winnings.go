package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newWinningsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "winnings",
		Short: "Submit and list winnings requests",
	}

	cmd.AddCommand(newWinningsSubmitCmd())
	cmd.AddCommand(newWinningsListCmd())

	return cmd
}

func newWinningsSubmitCmd() *cobra.Command {
	var (
		amount     string
		tournament string
	)

	cmd := &cobra.Command{
		Use:   "submit <player-id>",
		Short: "Submit a winnings request for a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			playerID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid player id: %s", args[0])
			}

			body := map[string]any{
				"player_id":  playerID,
				"amount":     amount,
				"tournament": tournament,
			}

			var result WinningsRequest
			if err := client.Post("/api/v1/requests", body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "Winnings amount, e.g. 12.50")
	cmd.Flags().StringVar(&tournament, "tournament", "", "Tournament name (optional)")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newWinningsListCmd() *cobra.Command {
	var pending bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List winnings requests, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/requests"
			if pending {
				path += "?status=pending"
			}

			var result []WinningsRequest
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&pending, "pending", false, "Only show requests awaiting review")

	return cmd
}

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Review winnings requests (admin only)",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "approve <request-id>",
		Short: "Approve a pending request and credit the player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/requests/%s/approve", args[0])
			if err := client.Post(path, nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Request approved")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "deny <request-id>",
		Short: "Deny a pending request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/requests/%s/deny", args[0])
			if err := client.Post(path, nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Request denied")
			return nil
		},
	})

	return cmd
}

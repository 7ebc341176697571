package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	var pin string

	cmd := &cobra.Command{
		Use:   "login <player-id>",
		Short: "Log in as a player with a PIN",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			playerID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid player id: %s", args[0])
			}

			body := map[string]any{
				"player_id": playerID,
				"pin":       pin,
			}

			var result AuthResult
			if err := client.Post("/api/v1/auth/pin", body, &result); err != nil {
				return err
			}

			// Persist token for subsequent commands
			if err := cfg.SaveToken(result.SessionToken); err != nil {
				return fmt.Errorf("login succeeded but saving token failed: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&pin, "pin", "", "4-digit PIN")
	_ = cmd.MarkFlagRequired("pin")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and discard the saved token",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Best effort server-side; the local token goes either way
			_ = client.Post("/api/v1/auth/logout", nil, nil)

			if err := cfg.ClearToken(); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Logged out")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the currently authenticated player",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Player
			if err := client.Get("/api/v1/auth/me", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

package cmd

import (
	"context"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/spigell/netmatch/internal/session"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect or reset the stored session",
}

var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored session token (masked)",
	Run: func(_ *cobra.Command, _ []string) {
		runView("session", func(ctx context.Context, e *env) error {
			token := e.session.Token(ctx)
			if token == "" {
				renderNoSession()
				return nil
			}

			renderTable(pterm.TableData{
				{"Session", "Backend", "API"},
				{session.Mask(token), e.config.Session.Backend, e.config.APIURL},
			})
			return nil
		})
	},
}

var sessionClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the stored session token",
	Run: func(_ *cobra.Command, _ []string) {
		runView("session", func(ctx context.Context, e *env) error {
			if err := e.session.Clear(ctx); err != nil {
				return err
			}
			pterm.Success.Println("Session cleared.")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionShowCmd, sessionClearCmd)
}

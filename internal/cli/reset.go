package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"incometracker/internal/backend"
)

// NewResetCommand creates the reset command.
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	var purge bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear the session ledger",
		Long: `Clear every transaction and the carried-forward earnings. The last known
commander credits are kept.

With --purge every key in the store is deleted instead, preferences included,
leaving the store as a fresh install would find it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if purge {
				return withBackend(cmd.Context(), rootOpts, func(ctx context.Context, b backend.Backend) error {
					n, err := backend.Purge(ctx, b)
					if err != nil {
						return err
					}
					if rootOpts.Format == "json" {
						return writeJSON(cmd.OutOrStdout(), map[string]any{"status": "purged", "keys": n})
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Store purged (%d keys)\n", n)
					return nil
				})
			}

			return withApp(cmd.Context(), rootOpts, nil, func(ctx context.Context, app *App) error {
				if err := app.Tracker.Reset(ctx); err != nil {
					return err
				}
				if rootOpts.Format == "json" {
					return writeJSON(cmd.OutOrStdout(), map[string]string{"status": "reset"})
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Session reset")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&purge, "purge", false, "delete every stored key, preferences included")
	return cmd
}

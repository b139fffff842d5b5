package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewSummaryCommand creates the summary command.
func NewSummaryCommand(rootOpts *RootOptions) *cobra.Command {
	var legacy bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the persisted session summary",
		Long: `Load the persisted session and print the hourly rate, income and per-category
totals.

--legacy also prints the single earnings figure stored next to the session
state, the value older readers of the store fall back to.

When reset_on_close is enabled the session is wiped when the command exits,
so only the first invocation after a run sees its data.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), rootOpts, nil, func(ctx context.Context, app *App) error {
				summary := app.Tracker.Summary(time.Now())
				if !legacy {
					return printSummary(cmd.OutOrStdout(), rootOpts.Format, summary)
				}

				earnings := app.Tracker.LegacyEarnings(ctx)
				if rootOpts.Format == "json" {
					return writeJSON(cmd.OutOrStdout(), map[string]any{"summary": summary, "legacy_earnings": earnings})
				}
				if err := printSummary(cmd.OutOrStdout(), rootOpts.Format, summary); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Legacy earnings: %s Cr\n", credits(earnings))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&legacy, "legacy", false, "also print the stored legacy earnings figure")
	return cmd
}

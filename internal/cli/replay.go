package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"incometracker/internal/journal"
)

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "replay <journal files...>",
		Short: "Feed journal files through the tracker",
		Long: `Replay Elite Dangerous journal files (one JSON object per line) through the
tracker in file name order, which for journal files is chronological, then
print the resulting summary. Transactions are stamped with the journal
timestamps, so the hourly rate reflects the original play session.

Examples:
  incometracker replay Journal.2024-01-01T120000.01.log
  incometracker replay --format json Journal.*.log`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clock := journal.NewClock()
			return withApp(cmd.Context(), rootOpts, clock.Now, func(ctx context.Context, app *App) error {
				var observe func(bool)
				if app.Metrics != nil {
					observe = app.Metrics.ObserveEvent
				}
				stats, err := journal.NewReplayer(app.Tracker, app.Logger, observe).
					UseClock(clock).
					ReplayFiles(ctx, journal.SortByName(args)...)
				if err != nil {
					return err
				}

				summary := app.Tracker.Summary(clock.Now())
				if rootOpts.Format == "json" {
					return writeJSON(cmd.OutOrStdout(), map[string]any{"stats": stats, "summary": summary})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Replayed %d events (%d matched, %d skipped lines, %d out of order)\n",
					stats.Events, stats.Matched, stats.Skipped, stats.OutOfOrder)
				return printSummary(cmd.OutOrStdout(), rootOpts.Format, summary)
			})
		},
	}
}

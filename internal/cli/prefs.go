package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"incometracker/internal/core"
)

type prefsFlags struct {
	trading, combat, exploration, missions bool
	resetOnClose, showTotalCredits         bool
	viewMode                               string
}

// NewPrefsCommand creates the prefs command.
func NewPrefsCommand(rootOpts *RootOptions) *cobra.Command {
	var f prefsFlags

	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change preferences",
		Long: `Print the stored preferences. Any flag given is applied and saved first.

Examples:
  incometracker prefs
  incometracker prefs --track-combat=false --view-mode compact
  incometracker prefs --reset-on-close=false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), rootOpts, nil, func(ctx context.Context, app *App) error {
				p := app.Tracker.Preferences()
				changed, err := f.apply(cmd, &p)
				if err != nil {
					return err
				}
				if changed {
					if err := app.Tracker.SetPreferences(ctx, p); err != nil {
						return err
					}
				}
				return printPrefs(cmd, rootOpts.Format, p)
			})
		},
	}

	cmd.Flags().BoolVar(&f.trading, "track-trading", true, "track trading income")
	cmd.Flags().BoolVar(&f.combat, "track-combat", true, "track combat income")
	cmd.Flags().BoolVar(&f.exploration, "track-exploration", true, "track exploration income")
	cmd.Flags().BoolVar(&f.missions, "track-missions", true, "track mission income")
	cmd.Flags().BoolVar(&f.resetOnClose, "reset-on-close", true, "wipe the session when the tracker stops")
	cmd.Flags().BoolVar(&f.showTotalCredits, "show-total-credits", true, "include commander credits in the summary")
	cmd.Flags().StringVar(&f.viewMode, "view-mode", string(core.ViewFull), "summary view (full|compact)")

	return cmd
}

// apply copies the flags the user set onto p.
func (f *prefsFlags) apply(cmd *cobra.Command, p *core.Preferences) (bool, error) {
	flags := cmd.Flags()
	bools := []struct {
		name  string
		value bool
		dst   *bool
	}{
		{"track-trading", f.trading, &p.TrackTrading},
		{"track-combat", f.combat, &p.TrackCombat},
		{"track-exploration", f.exploration, &p.TrackExploration},
		{"track-missions", f.missions, &p.TrackMissions},
		{"reset-on-close", f.resetOnClose, &p.ResetOnClose},
		{"show-total-credits", f.showTotalCredits, &p.ShowTotalCredits},
	}

	changed := false
	for _, b := range bools {
		if flags.Changed(b.name) {
			*b.dst = b.value
			changed = true
		}
	}
	if flags.Changed("view-mode") {
		mode, err := core.ParseViewMode(f.viewMode)
		if err != nil {
			return false, err
		}
		p.ViewMode = mode
		changed = true
	}
	return changed, nil
}

func printPrefs(cmd *cobra.Command, format string, p core.Preferences) error {
	if format == "json" {
		return writeJSON(cmd.OutOrStdout(), p)
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "track_trading\t%t\n", p.TrackTrading)
	fmt.Fprintf(tw, "track_combat\t%t\n", p.TrackCombat)
	fmt.Fprintf(tw, "track_exploration\t%t\n", p.TrackExploration)
	fmt.Fprintf(tw, "track_missions\t%t\n", p.TrackMissions)
	fmt.Fprintf(tw, "reset_on_close\t%t\n", p.ResetOnClose)
	fmt.Fprintf(tw, "show_total_credits\t%t\n", p.ShowTotalCredits)
	fmt.Fprintf(tw, "view_mode\t%s\n", p.ViewMode)
	return tw.Flush()
}

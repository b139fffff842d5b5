package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"incometracker/internal/core"
)

type ruleView struct {
	Category   string          `json:"category"`
	Event      string          `json:"event"`
	Components []componentView `json:"components"`
}

type componentView struct {
	Field string `json:"field"`
	Sign  int    `json:"sign"`
}

// NewRulesCommand creates the rules command.
func NewRulesCommand(rootOpts *RootOptions) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the classification rules in use",
		Long: `Print the rule table events are classified with: the embedded one, or the
file RULES_FILE points at.

Examples:
  incometracker rules
  incometracker rules --category exploration`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadEnv(rootOpts)
			if err != nil {
				return err
			}
			rt, err := LoadRules(cfg.RulesFile)
			if err != nil {
				return err
			}

			if category != "" {
				c, err := core.ParseCategory(category)
				if err != nil {
					return err
				}
				events := rt.Events(c)
				if rootOpts.Format == "json" {
					return writeJSON(cmd.OutOrStdout(), events)
				}
				for _, ev := range events {
					fmt.Fprintln(cmd.OutOrStdout(), ev)
				}
				return nil
			}

			return printRules(cmd, rootOpts.Format, rt.Rules())
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only list the events of one category")
	return cmd
}

func printRules(cmd *cobra.Command, format string, rules []core.Rule) error {
	views := make([]ruleView, 0, len(rules))
	for _, r := range rules {
		v := ruleView{Category: r.Category.String(), Event: r.Event}
		for _, c := range r.Components {
			v.Components = append(v.Components, componentView{Field: string(c.Field), Sign: c.Sign})
		}
		views = append(views, v)
	}
	if format == "json" {
		return writeJSON(cmd.OutOrStdout(), views)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	for _, v := range views {
		parts := make([]string, 0, len(v.Components))
		for _, c := range v.Components {
			sign := "+"
			if c.Sign < 0 {
				sign = "-"
			}
			parts = append(parts, sign+c.Field)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", v.Category, v.Event, strings.Join(parts, " "))
	}
	return tw.Flush()
}

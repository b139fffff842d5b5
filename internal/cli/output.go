package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"incometracker/internal/core"
)

func printSummary(w io.Writer, format string, s core.Summary) error {
	if format == "json" {
		return writeJSON(w, s)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if s.NoSources {
		fmt.Fprintln(tw, "No income sources are tracked")
	}
	fmt.Fprintf(tw, "Hourly\t%s Cr/h\n", credits(s.HourlyRate))
	fmt.Fprintf(tw, "Income\t%s Cr\n", credits(s.Income))
	if s.Visible.Maintenance {
		fmt.Fprintf(tw, "Maintenance\t%s Cr\n", credits(s.Maintenance))
	}
	if s.Visible.TotalCredits && s.Credits != nil {
		fmt.Fprintf(tw, "Credits\t%s Cr\n", credits(decimal.NewFromInt(*s.Credits)))
	}
	if s.Visible.Breakdown {
		for _, c := range s.ByCategory {
			fmt.Fprintf(tw, "  %s\t%s Cr\n", c.Category, credits(c.Amount))
		}
	}
	fmt.Fprintf(tw, "Transactions\t%d\n", s.Transactions)
	return tw.Flush()
}

// credits renders an amount with thousands separators and no decimals.
func credits(d decimal.Decimal) string {
	s := d.Round(0).Abs().String()
	var out []byte
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if d.Round(0).IsNegative() {
		return "-" + string(out)
	}
	return string(out)
}

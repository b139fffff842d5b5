package tracker

import (
	"time"

	"incometracker/internal/core"
)

// Summary builds the display model for the cached preferences at now.
// Income is the sum over enabled categories plus the carried-forward balance
// plus maintenance. Every figure comes from one ledger snapshot, so a
// concurrent Process or Reset never yields a Total that disagrees with Trip.
func (t *Tracker) Summary(now time.Time) core.Summary {
	p := t.Preferences()
	enabled := p.Enabled()
	snap := t.ledger.Snapshot()

	carried := snap.CarriedForward
	maintenance := snap.MaintenanceEarnings()

	s := core.Summary{
		HourlyRate:   snap.HourlyRate(now),
		Income:       snap.EnabledEarnings(enabled).Add(carried).Add(maintenance),
		Maintenance:  maintenance,
		Trip:         snap.TripEarnings(),
		Total:        snap.TotalDisplayEarnings(),
		Carried:      carried,
		Transactions: len(snap.Transactions),
		NoSources:    !enabled.Any(),
		Visible:      core.VisibilityFor(p),
		ByCategory:   []core.CategoryAmount{},
	}
	if p.ShowTotalCredits {
		credits := snap.Credits
		s.Credits = &credits
	}
	for _, c := range core.TrackedCategories {
		if !enabled.Enabled(c) {
			continue
		}
		s.ByCategory = append(s.ByCategory, core.CategoryAmount{
			Category: c,
			Amount:   snap.TripEarningsByCategory(c),
		})
	}
	return s
}

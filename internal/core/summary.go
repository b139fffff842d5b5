package core

import "github.com/shopspring/decimal"

// CategoryAmount is a trip total for one category.
type CategoryAmount struct {
	Category Category        `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// Visibility says which summary rows a presentation layer should show.
type Visibility struct {
	Hourly       bool `json:"hourly"`
	Income       bool `json:"income"`
	Maintenance  bool `json:"maintenance"`
	TotalCredits bool `json:"total_credits"`
	Breakdown    bool `json:"breakdown"`
}

// Summary is the display model recomputed on every refresh.
type Summary struct {
	HourlyRate   decimal.Decimal  `json:"hourly_rate"`
	Income       decimal.Decimal  `json:"income"`
	Maintenance  decimal.Decimal  `json:"maintenance"`
	Trip         decimal.Decimal  `json:"trip"`
	Total        decimal.Decimal  `json:"total"`
	Carried      decimal.Decimal  `json:"carried_forward"`
	Credits      *int64           `json:"credits,omitempty"`
	ByCategory   []CategoryAmount `json:"by_category"`
	Transactions int              `json:"transactions"`
	NoSources    bool             `json:"no_sources"`
	Visible      Visibility       `json:"visible"`
}

// VisibilityFor applies the view-mode rules to a preferences snapshot.
func VisibilityFor(p Preferences) Visibility {
	full := p.ViewMode != ViewCompact
	return Visibility{
		Hourly:       true,
		Income:       true,
		Maintenance:  full,
		TotalCredits: full && p.ShowTotalCredits,
		Breakdown:    full,
	}
}

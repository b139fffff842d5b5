package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"incometracker/internal/core"
)

// Snapshot is a point-in-time copy of a Ledger.
type Snapshot struct {
	Transactions   []core.Transaction
	CarriedForward decimal.Decimal
	Credits        int64
}

func (s Snapshot) TripEarnings() decimal.Decimal {
	return sum(s.Transactions, func(core.Transaction) bool { return true })
}

func (s Snapshot) TripEarningsByCategory(category core.Category) decimal.Decimal {
	return sum(s.Transactions, func(tx core.Transaction) bool { return tx.Category == category })
}

func (s Snapshot) MaintenanceEarnings() decimal.Decimal {
	return s.TripEarningsByCategory(core.CategoryMaintenance)
}

// EnabledEarnings sums the user-switchable categories that are enabled.
// Maintenance is never part of it.
func (s Snapshot) EnabledEarnings(enabled core.EnabledSet) decimal.Decimal {
	return sum(s.Transactions, func(tx core.Transaction) bool {
		return tx.Category != core.CategoryMaintenance && tx.Category.IsValid() && enabled[tx.Category]
	})
}

// TotalDisplayEarnings is the carried-forward balance plus the trip.
func (s Snapshot) TotalDisplayEarnings() decimal.Decimal {
	return s.CarriedForward.Add(s.TripEarnings())
}

func (s Snapshot) HourlyRate(now time.Time) decimal.Decimal {
	return EstimateHourlyRate(s.Transactions, now)
}

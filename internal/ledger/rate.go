package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"incometracker/internal/core"
)

// IdleThreshold is the gap between two transactions beyond which the time
// in between counts as idle rather than play.
const IdleThreshold = 1800 * time.Second

var secondsPerHour = decimal.NewFromInt(3600)

// EstimateHourlyRate computes earnings per hour from transaction timing.
//
// Only gaps strictly shorter than IdleThreshold count as active play. A
// negative gap, from transactions stamped out of order, counts as nothing. When no
// gap qualifies and there are at least two transactions, the wall-clock time
// since the first transaction is used instead. A single transaction has no
// rate.
func EstimateHourlyRate(txs []core.Transaction, now time.Time) decimal.Decimal {
	if len(txs) == 0 {
		return decimal.Zero
	}

	total := sum(txs, func(core.Transaction) bool { return true })

	var active time.Duration
	for i := 1; i < len(txs); i++ {
		gap := txs[i].Time.Sub(txs[i-1].Time)
		if gap > 0 && gap < IdleThreshold {
			active += gap
		}
	}

	if active > 0 {
		return perHour(total, active)
	}

	if len(txs) > 1 {
		elapsed := now.Sub(txs[0].Time)
		if elapsed > 0 {
			return perHour(total, elapsed)
		}
	}
	return decimal.Zero
}

func perHour(total decimal.Decimal, d time.Duration) decimal.Decimal {
	seconds := decimal.NewFromInt(d.Nanoseconds()).Div(decimal.NewFromInt(int64(time.Second)))
	return total.Mul(secondsPerHour).Div(seconds)
}

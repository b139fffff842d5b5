// Package ledger keeps the ordered transaction record of the current session
// together with the balance carried forward from earlier sessions, and answers
// the aggregate queries the display needs.
//
// A Ledger is safe for concurrent use. Callers that need several mutations to
// appear atomic (append then persist, for example) serialise them themselves.
package ledger

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"incometracker/internal/core"
)

type Ledger struct {
	mu             sync.RWMutex
	transactions   []core.Transaction
	carriedForward decimal.Decimal
	credits        int64
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{carriedForward: decimal.Zero}
}

// Append records tx at the end of the sequence.
func (l *Ledger) Append(tx core.Transaction) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.transactions = append(l.transactions, tx)
}

// Reset wipes the session and the carried-forward balance. It is not a
// rollover: nothing survives. The last known credits balance is kept since
// it mirrors the game, not the ledger.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.transactions = nil
	l.carriedForward = decimal.Zero
}

// Restore replaces the ledger contents with previously saved state.
func (l *Ledger) Restore(carried decimal.Decimal, txs []core.Transaction, credits int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.transactions = append([]core.Transaction(nil), txs...)
	l.carriedForward = carried
	l.credits = credits
}

// SetCredits stores the latest resource balance and reports whether it
// changed.
func (l *Ledger) SetCredits(credits int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.credits == credits {
		return false
	}
	l.credits = credits
	return true
}

// Credits returns the last known resource balance.
func (l *Ledger) Credits() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.credits
}

// Transactions returns a copy of the sequence in arrival order.
func (l *Ledger) Transactions() []core.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]core.Transaction, len(l.transactions))
	copy(out, l.transactions)
	return out
}

// Len returns the number of recorded transactions.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.transactions)
}

// TripEarnings sums every transaction of the session.
func (l *Ledger) TripEarnings() decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.view().TripEarnings()
}

// TotalDisplayEarnings is the carried-forward balance plus the trip.
func (l *Ledger) TotalDisplayEarnings() decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.view().TotalDisplayEarnings()
}

// HourlyRate estimates earnings per hour of active play at now.
func (l *Ledger) HourlyRate(now time.Time) decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.view().HourlyRate(now)
}

// Snapshot copies the ledger under a single read lock so that figures derived
// from it agree with each other.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s := l.view()
	s.Transactions = append([]core.Transaction(nil), l.transactions...)
	return s
}

// view shares the backing slice; callers hold l.mu.
func (l *Ledger) view() Snapshot {
	return Snapshot{
		Transactions:   l.transactions,
		CarriedForward: l.carriedForward,
		Credits:        l.credits,
	}
}

func sum(txs []core.Transaction, keep func(core.Transaction) bool) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		if !keep(tx) {
			continue
		}
		total = total.Add(tx.Amount)
	}
	return total
}

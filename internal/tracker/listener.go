package tracker

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"incometracker/internal/core"
)

// Reason says what kind of mutation produced a Change.
type Reason string

const (
	ReasonTransaction Reason = "transaction"
	ReasonCredits     Reason = "credits"
	ReasonReset       Reason = "reset"
	ReasonLoad        Reason = "load"
	ReasonPreferences Reason = "preferences"
)

// Change describes the ledger right after a mutation.
type Change struct {
	Reason       Reason
	Event        string
	Recorded     []core.Transaction
	Trip         decimal.Decimal
	Total        decimal.Decimal
	Credits      int64
	Transactions int
	At           time.Time
}

// Listener is told about every ledger mutation. Calls are synchronous and
// happen after the tracker has released its locks, so a listener may query
// the tracker.
type Listener interface {
	LedgerChanged(ctx context.Context, c Change)
}

// ListenerFunc adapts a plain function to Listener.
type ListenerFunc func(ctx context.Context, c Change)

func (f ListenerFunc) LedgerChanged(ctx context.Context, c Change) { f(ctx, c) }

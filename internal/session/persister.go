package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"incometracker/internal/ledger"
	"incometracker/internal/log"
)

// Persister moves ledger state in and out of a Store.
type Persister struct {
	store  Store
	logger *log.Logger
}

func NewPersister(store Store, logger *log.Logger) *Persister {
	if logger == nil {
		logger = log.Discard()
	}
	return &Persister{store: store, logger: logger.WithComponent(log.ComponentSession)}
}

// SaveState writes the JSON blob and the legacy earnings scalar, both taken
// from one snapshot of l.
func (p *Persister) SaveState(ctx context.Context, l *ledger.Ledger) error {
	snap := l.Snapshot()

	data, err := encodeState(snap.CarriedForward, snap.Transactions, snap.Credits)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := p.store.Set(ctx, KeyState, string(data)); err != nil {
		return fmt.Errorf("save state: %w", err)
	}

	total := snap.TotalDisplayEarnings()
	if err := p.store.Set(ctx, KeyEarnings, total.String()); err != nil {
		return fmt.Errorf("save earnings: %w", err)
	}

	p.logger.DebugContext(ctx, "Session state saved",
		log.FieldOperation, log.OperationSave,
		log.FieldCount, len(snap.Transactions),
		log.FieldTotal, total.String())
	return nil
}

// LoadState restores l from the store. With resetOnClose the store is
// ignored and the ledger starts empty. A missing or corrupt blob also leaves
// the ledger empty. In those cases the empty state is written back so a stale
// or corrupt blob does not outlive the load. A store that cannot be read is
// left untouched. Failures are logged, never returned.
func (p *Persister) LoadState(ctx context.Context, l *ledger.Ledger, resetOnClose bool) {
	if resetOnClose {
		p.logger.DebugContext(ctx, "Reset on close enabled, starting with empty session",
			log.FieldOperation, log.OperationLoad)
		p.startFresh(ctx, l)
		return
	}

	raw, ok, err := p.store.Get(ctx, KeyState)
	if err != nil {
		l.Reset()
		p.logger.CriticalContext(ctx, "Failed to read session state, starting fresh",
			log.FieldOperation, log.OperationLoad,
			log.FieldError, err.Error())
		return
	}
	if !ok || raw == "" {
		p.logger.InfoContext(ctx, "No saved session state, starting fresh",
			log.FieldOperation, log.OperationLoad)
		p.startFresh(ctx, l)
		return
	}

	state, err := decodeState([]byte(raw))
	if err != nil {
		p.logger.CriticalContext(ctx, "Failed to load session state, starting fresh",
			log.FieldOperation, log.OperationLoad,
			log.FieldError, err.Error())
		p.startFresh(ctx, l)
		return
	}

	l.Restore(state.carried, state.transactions, state.credits)
	p.logger.InfoContext(ctx, "Session state restored",
		log.FieldOperation, log.OperationLoad,
		log.FieldCount, len(state.transactions),
		log.FieldCredits, state.credits)
}

func (p *Persister) startFresh(ctx context.Context, l *ledger.Ledger) {
	l.Reset()
	if err := p.SaveState(ctx, l); err != nil {
		p.logger.ErrorContext(ctx, "Failed to persist empty session state",
			log.FieldOperation, log.OperationReset,
			log.FieldError, err.Error())
	}
}

// LegacyEarnings returns the scalar written under KeyEarnings. Missing or
// unparsable values read as zero.
func (p *Persister) LegacyEarnings(ctx context.Context) decimal.Decimal {
	raw, ok, err := p.store.Get(ctx, KeyEarnings)
	if err != nil || !ok || raw == "" {
		if err != nil {
			p.logger.ErrorContext(ctx, "Failed to read saved earnings", log.FieldError, err.Error())
		}
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		p.logger.CriticalContext(ctx, "Saved earnings are not a number",
			log.FieldKey, KeyEarnings,
			log.FieldError, errors.Join(ErrCorruptState, err).Error())
		return decimal.Zero
	}
	return d
}

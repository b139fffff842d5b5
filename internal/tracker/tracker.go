// Package tracker wires the classifier, the ledger, the session store and
// the preferences together. A Tracker is the one object a host creates; it
// holds no globals.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"incometracker/internal/classifier"
	"incometracker/internal/core"
	"incometracker/internal/ledger"
	"incometracker/internal/log"
	"incometracker/internal/prefs"
	"incometracker/internal/session"
)

var ErrNoStore = errors.New("tracker needs a store")

type Options struct {
	Rules     *core.RuleTable
	Store     session.Store
	Logger    *log.Logger
	Now       func() time.Time
	Listeners []Listener
}

type Tracker struct {
	// mu serialises mutations so a save always sees a complete one
	mu sync.Mutex

	prefsMu sync.RWMutex
	prefs   core.Preferences

	listenersMu sync.RWMutex
	listeners   []Listener

	ledger     *ledger.Ledger
	classifier *classifier.Classifier
	persister  *session.Persister
	prefsRepo  *prefs.Repository
	logger     *log.Logger
	now        func() time.Time
}

func New(opts Options) (*Tracker, error) {
	if opts.Store == nil {
		return nil, ErrNoStore
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Tracker{
		prefs:      core.DefaultPreferences(),
		listeners:  append([]Listener(nil), opts.Listeners...),
		ledger:     ledger.New(),
		classifier: classifier.New(opts.Rules, logger, now),
		persister:  session.NewPersister(opts.Store, logger),
		prefsRepo:  prefs.NewRepository(opts.Store, logger),
		logger:     logger.WithComponent(log.ComponentTracker),
		now:        now,
	}, nil
}

// AddListener registers l for every later mutation.
func (t *Tracker) AddListener(l Listener) {
	t.listenersMu.Lock()
	defer t.listenersMu.Unlock()
	t.listeners = append(t.listeners, l)
}

// Start loads the preferences and the saved session. A store that cannot be
// read yields defaults and an empty ledger, not an error.
func (t *Tracker) Start(ctx context.Context) {
	t.mu.Lock()
	p, err := t.prefsRepo.Load(ctx)
	if err != nil {
		t.logger.ErrorContext(ctx, "Failed to load preferences, using defaults",
			log.FieldOperation, log.OperationStartup,
			log.FieldError, err.Error())
	}
	t.setPrefs(p)

	t.persister.LoadState(ctx, t.ledger, p.ResetOnClose)
	change := t.change(ReasonLoad, "", nil)
	t.mu.Unlock()

	t.logger.InfoContext(ctx, "Tracker started",
		log.FieldOperation, log.OperationStartup,
		log.FieldCount, change.Transactions,
		log.FieldTotal, change.Total.String())
	t.notify(ctx, change)
}

// Stop applies the close policy: with reset-on-close the session and the
// carried-forward balance are wiped, otherwise the current state is saved.
func (t *Tracker) Stop(ctx context.Context) error {
	if t.Preferences().ResetOnClose {
		t.logger.InfoContext(ctx, "Clearing income data on close", log.FieldOperation, log.OperationShutdown)
		return t.Reset(ctx)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.persister.SaveState(ctx, t.ledger); err != nil {
		return fmt.Errorf("save on close: %w", err)
	}
	t.logger.InfoContext(ctx, "Income data kept for next session", log.FieldOperation, log.OperationShutdown)
	return nil
}

// Process feeds one journal entry and the matching state snapshot through
// the classifier. The status is "Event: <name>" when at least one
// transaction was recorded. Each recorded transaction is persisted and
// announced on its own, so an event split into two components produces two
// saves and two changes.
func (t *Tracker) Process(ctx context.Context, ev core.Event, state core.State) (string, bool) {
	enabled := t.Preferences().Enabled()

	t.mu.Lock()
	creditsChanged := false
	if credits, ok := state.Credits(); ok {
		creditsChanged = t.ledger.SetCredits(credits)
	}
	if docked, ok := state.Docked(); ok {
		t.logger.DebugContext(ctx, "State snapshot", "docked", docked)
	}

	res := t.classifier.Classify(ev, enabled)
	changes := make([]Change, 0, len(res.Transactions))
	for _, tx := range res.Transactions {
		t.ledger.Append(tx)
		t.logger.DebugContext(ctx, "Recording transaction",
			log.NewFields().WithOperation(log.OperationAppend).
				WithTransaction(res.Event, tx.Category.String(), tx.Amount).ToSlice()...)
		t.save(ctx)
		changes = append(changes, t.change(ReasonTransaction, res.Event, []core.Transaction{tx}))
	}
	if !res.Matched() && creditsChanged {
		t.save(ctx)
		changes = append(changes, t.change(ReasonCredits, res.Event, nil))
	}
	t.mu.Unlock()

	for _, c := range changes {
		t.notify(ctx, c)
	}

	if !res.Matched() {
		return "", false
	}
	return "Event: " + res.Event, true
}

// Reset wipes the session and the carried-forward balance and persists the
// empty state.
func (t *Tracker) Reset(ctx context.Context) error {
	t.mu.Lock()
	t.ledger.Reset()
	err := t.persister.SaveState(ctx, t.ledger)
	change := t.change(ReasonReset, "", nil)
	t.mu.Unlock()

	t.logger.InfoContext(ctx, "Income data reset", log.FieldOperation, log.OperationReset)
	t.notify(ctx, change)
	if err != nil {
		return fmt.Errorf("save after reset: %w", err)
	}
	return nil
}

// Preferences returns the cached preferences snapshot.
func (t *Tracker) Preferences() core.Preferences {
	t.prefsMu.RLock()
	defer t.prefsMu.RUnlock()
	return t.prefs
}

// SetPreferences stores p and makes it the cached snapshot.
func (t *Tracker) SetPreferences(ctx context.Context, p core.Preferences) error {
	t.mu.Lock()
	if err := t.prefsRepo.Save(ctx, p); err != nil {
		t.mu.Unlock()
		return fmt.Errorf("save preferences: %w", err)
	}
	t.setPrefs(p)
	change := t.change(ReasonPreferences, "", nil)
	t.mu.Unlock()

	t.notify(ctx, change)
	return nil
}

// Transactions returns a copy of the recorded transactions.
func (t *Tracker) Transactions() []core.Transaction {
	return t.ledger.Transactions()
}

// LegacyEarnings returns the single-figure total kept alongside the full
// session state for older readers.
func (t *Tracker) LegacyEarnings(ctx context.Context) decimal.Decimal {
	return t.persister.LegacyEarnings(ctx)
}

// HourlyRate estimates earnings per hour at now.
func (t *Tracker) HourlyRate(now time.Time) decimal.Decimal {
	return t.ledger.HourlyRate(now)
}

func (t *Tracker) setPrefs(p core.Preferences) {
	t.prefsMu.Lock()
	defer t.prefsMu.Unlock()
	t.prefs = p
}

// save persists the ledger. Failures are logged; the in-memory ledger stays
// authoritative.
func (t *Tracker) save(ctx context.Context) {
	if err := t.persister.SaveState(ctx, t.ledger); err != nil {
		t.logger.ErrorContext(ctx, "Failed to save session state",
			log.FieldOperation, log.OperationSave,
			log.FieldError, err.Error())
	}
}

func (t *Tracker) change(reason Reason, event string, recorded []core.Transaction) Change {
	return Change{
		Reason:       reason,
		Event:        event,
		Recorded:     recorded,
		Trip:         t.ledger.TripEarnings(),
		Total:        t.ledger.TotalDisplayEarnings(),
		Credits:      t.ledger.Credits(),
		Transactions: t.ledger.Len(),
		At:           t.now(),
	}
}

func (t *Tracker) notify(ctx context.Context, c Change) {
	t.listenersMu.RLock()
	listeners := append([]Listener(nil), t.listeners...)
	t.listenersMu.RUnlock()

	for _, l := range listeners {
		l.LedgerChanged(ctx, c)
	}
}

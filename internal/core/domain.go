// Package core holds the domain types shared by the classifier, the ledger
// and the session layer: categories, transactions, the journal field map,
// the rule table and the preferences snapshot.
package core

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type (
	// Event is one journal entry as delivered by the host. Only the keys
	// named by the field map and the "event" key are inspected.
	Event map[string]any

	// State is the host's game-state snapshot.
	State map[string]any

	// Transaction is one signed monetary delta. Values are never mutated
	// after creation.
	Transaction struct {
		Amount   decimal.Decimal
		Category Category
		Time     time.Time
	}
)

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownViewMode = errors.New("unknown view mode")
	ErrDuplicateEvent  = errors.New("event claimed by more than one category")
	ErrInvalidSign     = errors.New("sign must be +1 or -1")
	ErrRuleShape       = errors.New("rule must declare one sign per field")
	ErrMissingEvent    = errors.New("entry has no event name")
)

// NewTransaction stamps a transaction with the given time.
func NewTransaction(amount decimal.Decimal, category Category, at time.Time) Transaction {
	return Transaction{Amount: amount, Category: category, Time: at}
}

// Name returns the journal event name, or ErrMissingEvent.
func (e Event) Name() (string, error) {
	name, _ := e["event"].(string)
	if name == "" {
		return "", ErrMissingEvent
	}
	return name, nil
}

// Credits returns the resource balance carried by the snapshot, if any.
func (s State) Credits() (int64, bool) {
	v, ok := s["Credits"]
	if !ok {
		return 0, false
	}
	d, ok := NumberValue(v)
	if !ok {
		return 0, false
	}
	return d.IntPart(), true
}

// Docked reports the docked flag and whether the snapshot carried one.
func (s State) Docked() (bool, bool) {
	v, ok := s["IsDocked"].(bool)
	return v, ok
}

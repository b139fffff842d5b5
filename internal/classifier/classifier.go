// Package classifier turns journal events into signed transactions using
// the category rule table.
package classifier

import (
	"time"

	"github.com/shopspring/decimal"

	"incometracker/internal/core"
	"incometracker/internal/log"
)

// Result is the outcome of classifying one event.
type Result struct {
	Event        string
	Category     core.Category
	Transactions []core.Transaction
}

// Matched reports whether the event produced at least one transaction.
func (r Result) Matched() bool {
	return len(r.Transactions) > 0
}

type Classifier struct {
	rules  *core.RuleTable
	logger *log.Logger
	now    func() time.Time
}

// New builds a classifier. A nil rule table selects the embedded rules and a
// nil clock selects time.Now.
func New(rules *core.RuleTable, logger *log.Logger, now func() time.Time) *Classifier {
	if rules == nil {
		rules = core.DefaultRules()
	}
	if logger == nil {
		logger = log.Discard()
	}
	if now == nil {
		now = time.Now
	}
	return &Classifier{
		rules:  rules,
		logger: logger.WithComponent(log.ComponentClassifier),
		now:    now,
	}
}

// Classify matches ev against the rule table. Untracked or unknown events
// yield an empty result; that is the normal case for most of a journal.
func (c *Classifier) Classify(ev core.Event, enabled core.EnabledSet) Result {
	name, err := ev.Name()
	if err != nil {
		c.logger.Debug("Entry without event name", log.FieldError, err)
		return Result{}
	}

	res := Result{Event: name}
	rule, ok := c.rules.Lookup(name)
	if !ok {
		c.logger.Debug("Skipping unknown event", log.FieldEvent, name)
		return res
	}
	res.Category = rule.Category

	if !enabled.Enabled(rule.Category) {
		c.logger.Debug("Skipping untracked event", log.FieldEvent, name, log.FieldCategory, rule.Category)
		return res
	}

	at := c.now()
	for _, comp := range rule.Components {
		key, ok := comp.Field.JournalKey()
		if !ok {
			c.logger.Debug("Unknown field key in rule", log.FieldField, comp.Field, log.FieldEvent, name)
			continue
		}

		value, ok := amount(ev, key)
		if !ok {
			continue
		}

		tx := core.NewTransaction(value.Mul(decimal.NewFromInt(int64(comp.Sign))), rule.Category, at)
		res.Transactions = append(res.Transactions, tx)
	}

	if res.Matched() {
		c.logger.Debug("Processed event", log.FieldEvent, name, log.FieldCategory, rule.Category, log.FieldCount, len(res.Transactions))
	}
	return res
}

// amount reads a non-zero numeric payload value.
func amount(ev core.Event, key string) (decimal.Decimal, bool) {
	raw, ok := ev[key]
	if !ok || raw == nil {
		return decimal.Zero, false
	}
	v, ok := core.NumberValue(raw)
	if !ok || v.IsZero() {
		return decimal.Zero, false
	}
	return v, true
}

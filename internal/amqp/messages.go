package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"incometracker/internal/tracker"
)

// RecordedTransaction is one transaction added by the mutation.
type RecordedTransaction struct {
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
	Time     time.Time       `json:"time"`
}

// LedgerChangedMessage is published after every ledger mutation.
type LedgerChangedMessage struct {
	ID           string                `json:"id"`
	Reason       string                `json:"reason"`
	Event        string                `json:"event,omitempty"`
	Recorded     []RecordedTransaction `json:"recorded,omitempty"`
	Trip         decimal.Decimal       `json:"trip"`
	Total        decimal.Decimal       `json:"total"`
	Credits      int64                 `json:"credits"`
	Transactions int                   `json:"transactions"`
	Timestamp    time.Time             `json:"timestamp"`
}

// NewLedgerChangedMessage builds a message with a fresh ID from c.
func NewLedgerChangedMessage(c tracker.Change) *LedgerChangedMessage {
	msg := &LedgerChangedMessage{
		ID:           uuid.NewString(),
		Reason:       string(c.Reason),
		Event:        c.Event,
		Trip:         c.Trip,
		Total:        c.Total,
		Credits:      c.Credits,
		Transactions: c.Transactions,
		Timestamp:    c.At,
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	for _, tx := range c.Recorded {
		msg.Recorded = append(msg.Recorded, RecordedTransaction{
			Amount:   tx.Amount,
			Category: tx.Category.String(),
			Time:     tx.Time,
		})
	}
	return msg
}

// ToJSON converts the message to JSON bytes
func (m *LedgerChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerChangedMessageFromJSON decodes a message published by Client.
func LedgerChangedMessageFromJSON(data []byte) (*LedgerChangedMessage, error) {
	var msg LedgerChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

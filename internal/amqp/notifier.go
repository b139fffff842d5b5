package amqp

import (
	"context"
	"time"

	"incometracker/internal/log"
	"incometracker/internal/tracker"
)

// Publisher sends ledger change messages somewhere. Client is the broker
// implementation.
type Publisher interface {
	Publish(ctx context.Context, msg *LedgerChangedMessage) error
}

// Notifier is a tracker.Listener that publishes every ledger change.
// Publish failures are logged and never reach the tracker.
type Notifier struct {
	publisher Publisher
	timeout   time.Duration
	logger    *log.Logger
}

var _ tracker.Listener = (*Notifier)(nil)

func NewNotifier(p Publisher, timeout time.Duration, logger *log.Logger) *Notifier {
	if logger == nil {
		logger = log.Discard()
	}
	if timeout <= 0 {
		timeout = publishTimeout
	}
	return &Notifier{publisher: p, timeout: timeout, logger: logger.WithComponent(log.ComponentAMQP)}
}

func (n *Notifier) LedgerChanged(ctx context.Context, c tracker.Change) {
	msg := NewLedgerChangedMessage(c)

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	if err := n.publisher.Publish(ctx, msg); err != nil {
		n.logger.ErrorContext(ctx, "Failed to publish ledger change",
			log.FieldOperation, log.OperationPublish,
			"id", msg.ID,
			"reason", msg.Reason,
			log.FieldError, err.Error())
	}
}

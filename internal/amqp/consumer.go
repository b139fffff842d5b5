package amqp

import (
	"context"
	"errors"
	"fmt"

	"github.com/rabbitmq/amqp091-go"

	"incometracker/internal/log"
)

// Handler processes one ledger change. Returning an error requeues the
// message.
type Handler func(ctx context.Context, msg *LedgerChangedMessage) error

type outcome int

const (
	ack outcome = iota
	reject
	requeue
)

// Consume delivers messages from the ledger queue to handler until ctx is
// cancelled. Messages that cannot be decoded are dropped.
func (c *Client) Consume(ctx context.Context, consumer string, handler Handler) error {
	ch, err := c.ensureConnected(ctx)
	if err != nil {
		return err
	}

	msgs, err := ch.Consume(
		c.queueName, // queue
		consumer,    // consumer
		false,       // auto-ack (we want manual ack)
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	logger := c.getLogger()
	logger.InfoContext(ctx, "Started consuming ledger changes",
		log.FieldOperation, log.OperationConsume,
		"queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			logger.InfoContext(ctx, "Stopping message consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return errors.New("message channel closed")
			}
			if err := settle(delivery, c.handleDelivery(ctx, delivery.Body, handler)); err != nil {
				logger.ErrorContext(ctx, "Failed to settle message", log.FieldError, err.Error())
			}
		}
	}
}

func (c *Client) handleDelivery(ctx context.Context, body []byte, handler Handler) outcome {
	logger := c.getLogger()

	msg, err := LedgerChangedMessageFromJSON(body)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to unmarshal message", log.FieldError, err.Error())
		return reject
	}

	if err := handler(ctx, msg); err != nil {
		logger.ErrorContext(ctx, "Failed to handle message",
			"id", msg.ID,
			"reason", msg.Reason,
			log.FieldError, err.Error())
		return requeue
	}

	logger.DebugContext(ctx, "Processed ledger change", "id", msg.ID, "reason", msg.Reason)
	return ack
}

func settle(d amqp091.Delivery, o outcome) error {
	switch o {
	case ack:
		return d.Ack(false)
	case requeue:
		return d.Nack(false, true)
	default:
		return d.Nack(false, false)
	}
}

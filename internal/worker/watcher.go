// Package worker consumes ledger change notifications published by a
// running tracker.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"incometracker/internal/amqp"
	"incometracker/internal/log"
)

// seenLimit bounds the redelivery filter.
const seenLimit = 1024

// Watcher writes every ledger change it receives to an output stream, once
// per message ID.
type Watcher struct {
	out    io.Writer
	json   bool
	logger *log.Logger

	mu    sync.Mutex
	seen  map[string]struct{}
	order []string
}

// NewWatcher writes to out as text lines, or as JSON lines when asJSON is set.
func NewWatcher(out io.Writer, asJSON bool, logger *log.Logger) *Watcher {
	if logger == nil {
		logger = log.Discard()
	}
	return &Watcher{
		out:    out,
		json:   asJSON,
		logger: logger.WithComponent(log.ComponentWorker),
		seen:   make(map[string]struct{}),
	}
}

// HandleMessage is an amqp.Handler. A message counts as seen only once it
// has been written, so a requeued delivery after a failed write is printed.
func (w *Watcher) HandleMessage(ctx context.Context, msg *amqp.LedgerChangedMessage) error {
	if w.seenBefore(msg.ID) {
		w.logger.DebugContext(ctx, "Skipping redelivered ledger change", "id", msg.ID)
		return nil
	}

	if err := w.write(msg); err != nil {
		return err
	}
	w.remember(msg.ID)
	return nil
}

func (w *Watcher) write(msg *amqp.LedgerChangedMessage) error {
	if w.json {
		line, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("marshal ledger change: %w", err)
		}
		_, err = fmt.Fprintf(w.out, "%s\n", line)
		return err
	}

	_, err := fmt.Fprintln(w.out, formatChange(msg))
	return err
}

func (w *Watcher) seenBefore(id string) bool {
	if id == "" {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.seen[id]
	return ok
}

func (w *Watcher) remember(id string) {
	if id == "" {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.seen[id]; ok {
		return
	}
	w.seen[id] = struct{}{}
	w.order = append(w.order, id)
	if len(w.order) > seenLimit {
		delete(w.seen, w.order[0])
		w.order = w.order[1:]
	}
}

func formatChange(msg *amqp.LedgerChangedMessage) string {
	line := fmt.Sprintf("%s %-11s trip=%s total=%s credits=%d transactions=%d",
		msg.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
		msg.Reason, msg.Trip, msg.Total, msg.Credits, msg.Transactions)
	if msg.Event != "" {
		line += " event=" + msg.Event
	}
	for _, tx := range msg.Recorded {
		line += fmt.Sprintf(" %s:%s", tx.Category, tx.Amount)
	}
	return line
}

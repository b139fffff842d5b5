package amqp

import (
	"context"
	"errors"
	"testing"
	"time"

	"incometracker/internal/tracker"
)

type fakePublisher struct {
	msgs     []*LedgerChangedMessage
	err      error
	deadline bool
}

func (f *fakePublisher) Publish(ctx context.Context, msg *LedgerChangedMessage) error {
	_, f.deadline = ctx.Deadline()
	f.msgs = append(f.msgs, msg)
	return f.err
}

func TestNotifierPublishesEveryChange(t *testing.T) {
	pub := &fakePublisher{}
	n := NewNotifier(pub, time.Second, nil)

	n.LedgerChanged(context.Background(), tracker.Change{Reason: tracker.ReasonLoad})
	n.LedgerChanged(context.Background(), tracker.Change{Reason: tracker.ReasonReset})

	if len(pub.msgs) != 2 {
		t.Fatalf("published %d messages, want 2", len(pub.msgs))
	}
	if pub.msgs[1].Reason != "reset" {
		t.Errorf("Reason = %q, want reset", pub.msgs[1].Reason)
	}
	if !pub.deadline {
		t.Error("publish context should carry the notify timeout")
	}
}

func TestNotifierSwallowsPublishErrors(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	n := NewNotifier(pub, 0, nil)

	n.LedgerChanged(context.Background(), tracker.Change{Reason: tracker.ReasonCredits})

	if len(pub.msgs) != 1 {
		t.Fatalf("published %d messages, want 1", len(pub.msgs))
	}
}

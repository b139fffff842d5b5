package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"incometracker/internal/amqp"
)

func message(id string) *amqp.LedgerChangedMessage {
	return &amqp.LedgerChangedMessage{
		ID:     id,
		Reason: "transaction",
		Event:  "MarketSell",
		Recorded: []amqp.RecordedTransaction{
			{Amount: decimal.NewFromInt(90000), Category: "trading"},
		},
		Trip:         decimal.NewFromInt(90000),
		Total:        decimal.NewFromInt(90000),
		Credits:      1090000,
		Transactions: 1,
		Timestamp:    time.Date(3310, 5, 1, 12, 2, 0, 0, time.UTC),
	}
}

func TestWatcherText(t *testing.T) {
	var buf bytes.Buffer
	w := NewWatcher(&buf, false, nil)

	require.NoError(t, w.HandleMessage(context.Background(), message("a")))

	line := strings.TrimSpace(buf.String())
	assert.True(t, strings.HasPrefix(line, "3310-05-01T12:02:00Z transaction"), line)
	assert.Contains(t, line, "trip=90000")
	assert.Contains(t, line, "credits=1090000")
	assert.Contains(t, line, "event=MarketSell")
	assert.Contains(t, line, "trading:90000")
}

func TestWatcherJSON(t *testing.T) {
	var buf bytes.Buffer
	w := NewWatcher(&buf, true, nil)

	require.NoError(t, w.HandleMessage(context.Background(), message("a")))

	var got amqp.LedgerChangedMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "a", got.ID)
	assert.True(t, got.Trip.Equal(decimal.NewFromInt(90000)))
}

func TestWatcherSkipsRedeliveries(t *testing.T) {
	var buf bytes.Buffer
	w := NewWatcher(&buf, false, nil)
	ctx := context.Background()

	require.NoError(t, w.HandleMessage(ctx, message("a")))
	require.NoError(t, w.HandleMessage(ctx, message("a")))
	require.NoError(t, w.HandleMessage(ctx, message("b")))

	assert.Equal(t, 2, strings.Count(buf.String(), "\n"))
}

func TestWatcherForgetsOldIDs(t *testing.T) {
	w := NewWatcher(&bytes.Buffer{}, false, nil)

	w.remember("first")
	assert.True(t, w.seenBefore("first"))
	for i := 0; i < seenLimit; i++ {
		w.remember(decimal.NewFromInt(int64(i)).String())
	}
	assert.False(t, w.seenBefore("first"), "oldest id is evicted")
	assert.Len(t, w.order, seenLimit)
}

type flakyWriter struct {
	failures int
	buf      bytes.Buffer
}

func (f *flakyWriter) Write(p []byte) (int, error) {
	if f.failures > 0 {
		f.failures--
		return 0, errors.New("write failed")
	}
	return f.buf.Write(p)
}

func TestWatcherPrintsRequeuedMessageAfterFailedWrite(t *testing.T) {
	out := &flakyWriter{failures: 1}
	w := NewWatcher(out, false, nil)
	ctx := context.Background()

	require.Error(t, w.HandleMessage(ctx, message("a")))
	require.NoError(t, w.HandleMessage(ctx, message("a")))
	require.NoError(t, w.HandleMessage(ctx, message("a")))

	assert.Equal(t, 1, strings.Count(out.buf.String(), "\n"))
	assert.Contains(t, out.buf.String(), "event=MarketSell")
}

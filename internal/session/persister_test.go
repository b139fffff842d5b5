package session

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"incometracker/internal/core"
	"incometracker/internal/ledger"
	"incometracker/internal/log"
)

type fakeStore struct {
	mu     sync.Mutex
	values map[string]string
	getErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{}}
}

func (s *fakeStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return "", false, s.getErr
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *fakeStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

var start = time.Unix(1_700_000_000, 0)

func populated() *ledger.Ledger {
	l := ledger.New()
	l.Restore(decimal.NewFromInt(25000), nil, 1_234_567)
	l.Append(core.NewTransaction(decimal.NewFromInt(1000), core.CategoryTrading, start))
	l.Append(core.NewTransaction(decimal.NewFromInt(-150), core.CategoryMaintenance, start.Add(90*time.Second)))
	l.Append(core.NewTransaction(decimal.RequireFromString("2500.5"), core.CategoryMissions, start.Add(5*time.Minute)))
	return l
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	p := NewPersister(store, nil)

	src := populated()
	require.NoError(t, p.SaveState(ctx, src))

	dst := ledger.New()
	p.LoadState(ctx, dst, false)

	assert.True(t, dst.Snapshot().CarriedForward.Equal(src.Snapshot().CarriedForward))
	assert.Equal(t, src.Credits(), dst.Credits())
	assert.True(t, dst.TripEarnings().Equal(src.TripEarnings()))

	want := src.Transactions()
	got := dst.Transactions()
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, got[i].Amount.Equal(want[i].Amount), "amount %d", i)
		assert.Equal(t, want[i].Category, got[i].Category)
		assert.True(t, got[i].Time.Equal(want[i].Time), "time %d", i)
	}
}

func TestSaveStateWritesLegacyScalar(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	p := NewPersister(store, nil)

	require.NoError(t, p.SaveState(ctx, populated()))

	assert.Equal(t, "28350.5", store.values[KeyEarnings])
	assert.True(t, p.LegacyEarnings(ctx).Equal(decimal.RequireFromString("28350.5")))
}

func TestSaveStateBlobShape(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	p := NewPersister(store, nil)

	l := ledger.New()
	l.SetCredits(42)
	l.Append(core.NewTransaction(decimal.NewFromInt(1000), core.CategoryCombat, start))
	require.NoError(t, p.SaveState(ctx, l))

	assert.JSONEq(t,
		`{"saved_earnings":0,"current_credits":42,"transactions":[{"earnings":1000,"category":"combat","time":1700000000}]}`,
		store.values[KeyState])
}

func TestLoadStateResetOnCloseIgnoresStore(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	p := NewPersister(store, nil)
	require.NoError(t, p.SaveState(ctx, populated()))

	l := populated()
	p.LoadState(ctx, l, true)

	assert.Zero(t, l.Len())
	assert.True(t, l.TotalDisplayEarnings().IsZero())

	saved, err := decodeState([]byte(store.values[KeyState]))
	require.NoError(t, err)
	assert.Empty(t, saved.transactions, "stale blob is replaced by the empty session")
	assert.Equal(t, "0", store.values[KeyEarnings])
}

func TestLoadStateEmptyStore(t *testing.T) {
	l := populated()
	NewPersister(newFakeStore(), nil).LoadState(context.Background(), l, false)

	assert.Zero(t, l.Len())
	assert.True(t, l.TotalDisplayEarnings().IsZero())
}

func TestLoadStateCorruptBlob(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{"not json", "{nope"},
		{"wrong shape", `{"transactions":"x"}`},
		{"bad earnings", `{"saved_earnings":0,"transactions":[{"earnings":"abc","category":"trading","time":1}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := log.New(log.Config{Level: log.LevelCritical, Output: &buf})

			store := newFakeStore()
			store.values[KeyState] = tt.blob

			l := populated()
			NewPersister(store, logger).LoadState(context.Background(), l, false)

			assert.Zero(t, l.Len())
			assert.True(t, l.TotalDisplayEarnings().IsZero())
			assert.Contains(t, buf.String(), "level=CRITICAL")

			_, err := decodeState([]byte(store.values[KeyState]))
			assert.NoError(t, err, "corrupt blob is overwritten")
			assert.Equal(t, "0", store.values[KeyEarnings])
		})
	}
}

func TestLoadStateStoreError(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("disk on fire")

	l := populated()
	NewPersister(store, nil).LoadState(context.Background(), l, false)

	assert.Zero(t, l.Len())
	assert.Empty(t, store.values, "an unreadable store is not overwritten")
}

func TestLoadStateUnknownCategoryKept(t *testing.T) {
	store := newFakeStore()
	store.values[KeyState] = `{"saved_earnings":10,"current_credits":5,"transactions":[{"earnings":7,"category":"smuggling","time":1700000000.5}]}`

	l := ledger.New()
	NewPersister(store, nil).LoadState(context.Background(), l, false)

	txs := l.Transactions()
	require.Len(t, txs, 1)
	assert.Equal(t, core.CategoryUnknown, txs[0].Category)
	assert.True(t, txs[0].Time.Equal(start.Add(500*time.Millisecond)))
	assert.True(t, l.TotalDisplayEarnings().Equal(decimal.NewFromInt(17)))
}

func TestLegacyEarnings(t *testing.T) {
	ctx := context.Background()

	t.Run("missing", func(t *testing.T) {
		assert.True(t, NewPersister(newFakeStore(), nil).LegacyEarnings(ctx).IsZero())
	})

	t.Run("unparsable", func(t *testing.T) {
		var buf bytes.Buffer
		store := newFakeStore()
		store.values[KeyEarnings] = "lots"

		got := NewPersister(store, log.New(log.Config{Level: log.LevelCritical, Output: &buf})).LegacyEarnings(ctx)

		assert.True(t, got.IsZero())
		assert.True(t, strings.Contains(buf.String(), "level=CRITICAL"))
	})
}

package backend

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"incometracker/internal/config"
)

func TestFromAppConfig(t *testing.T) {
	cfg := &config.Config{
		DataBackend:   "sqlite",
		SQLiteDBPath:  "/tmp/x.db",
		AMQPURL:       "amqp://localhost/",
		AMQPExchange:  "ex",
		AMQPQueue:     "q",
		NotifyTimeout: time.Second,
	}

	got, err := FromAppConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, SQLiteBackend, got.Type)
	assert.Equal(t, "/tmp/x.db", got.SQLiteDBPath)
	assert.Equal(t, time.Second, got.NotifyTimeout)

	_, err = FromAppConfig(&config.Config{DataBackend: "sheets"})
	assert.Error(t, err)

	_, err = FromAppConfig(nil)
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, Config{Type: MemoryBackend}.Validate())
	assert.Error(t, Config{Type: SQLiteBackend}.Validate())
	assert.Error(t, Config{Type: "nope"}.Validate())
	assert.Equal(t, []string{"sqlite", "memory"}, GetBackendTypeStrings())
}

func TestCreateBackend(t *testing.T) {
	ctx := context.Background()
	f := NewFactory(nil)

	tests := []struct {
		name   string
		config Config
	}{
		{"memory", Config{Type: MemoryBackend}},
		{"sqlite", Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(t.TempDir(), "tracker.db")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.CreateBackend(ctx, tt.config)
			require.NoError(t, err)
			defer func() { assert.NoError(t, res.Cleanup()) }()

			assert.Nil(t, res.Notifier)
			require.NoError(t, res.Backend.Ping(ctx))
			require.NoError(t, res.Backend.Set(ctx, "k", "v"))

			v, ok, err := res.Backend.Get(ctx, "k")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "v", v)
		})
	}
}

func TestPurge(t *testing.T) {
	ctx := context.Background()
	res, err := NewFactory(nil).CreateBackend(ctx, Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: filepath.Join(t.TempDir(), "tracker.db"),
	})
	require.NoError(t, err)
	defer res.Cleanup()

	for _, k := range []string{"EDMCIncome_state", "EDMCIncome_earnings", "EDMCIncome_track_trading"} {
		require.NoError(t, res.Backend.Set(ctx, k, "x"))
	}

	n, err := Purge(ctx, res.Backend)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	keys, err := res.Backend.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

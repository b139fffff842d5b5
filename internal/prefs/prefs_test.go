package prefs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"incometracker/internal/core"
	"incometracker/internal/storage/memory"
)

func TestLoadDefaultsOnEmptyStore(t *testing.T) {
	got, err := NewRepository(memory.New(), nil).Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, core.DefaultPreferences(), got)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	repo := NewRepository(store, nil)

	want := core.Preferences{
		TrackTrading:     false,
		TrackCombat:      true,
		TrackExploration: false,
		TrackMissions:    true,
		ResetOnClose:     false,
		ShowTotalCredits: false,
		ViewMode:         core.ViewCompact,
	}
	require.NoError(t, repo.Save(ctx, want))

	raw, _, _ := store.Get(ctx, KeyTrackTrading)
	assert.Equal(t, "0", raw)

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadIgnoresUnreadableValues(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Set(ctx, KeyTrackCombat, "maybe"))
	require.NoError(t, store.Set(ctx, KeyViewMode, "tiny"))
	require.NoError(t, store.Set(ctx, KeyTrackMissions, "false"))

	got, err := NewRepository(store, nil).Load(ctx)

	require.NoError(t, err)
	assert.True(t, got.TrackCombat)
	assert.Equal(t, core.ViewFull, got.ViewMode)
	assert.False(t, got.TrackMissions)
}

func TestSaveRejectsUnknownViewMode(t *testing.T) {
	p := core.DefaultPreferences()
	p.ViewMode = "tiny"

	err := NewRepository(memory.New(), nil).Save(context.Background(), p)

	assert.ErrorIs(t, err, core.ErrUnknownViewMode)
}

// Package prefs loads and saves the user preferences in the same key/value
// store the session lives in.
package prefs

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"incometracker/internal/core"
	"incometracker/internal/log"
	"incometracker/internal/session"
)

const (
	KeyTrackTrading     = "EDMCIncome_track_trading"
	KeyTrackCombat      = "EDMCIncome_track_combat"
	KeyTrackExploration = "EDMCIncome_track_exploration"
	KeyTrackMissions    = "EDMCIncome_track_missions"
	KeyResetOnClose     = "EDMCIncome_reset_on_close"
	KeyShowTotalCredits = "EDMCIncome_show_total_credits"
	KeyViewMode         = "view_mode"
)

type Repository struct {
	store  session.Store
	logger *log.Logger
}

func NewRepository(store session.Store, logger *log.Logger) *Repository {
	if logger == nil {
		logger = log.Discard()
	}
	return &Repository{store: store, logger: logger.WithComponent(log.ComponentPrefs)}
}

// Load reads every preference, falling back to the default for keys that
// are missing or hold something unreadable.
func (r *Repository) Load(ctx context.Context) (core.Preferences, error) {
	p := core.DefaultPreferences()

	flags := []struct {
		key string
		dst *bool
	}{
		{KeyTrackTrading, &p.TrackTrading},
		{KeyTrackCombat, &p.TrackCombat},
		{KeyTrackExploration, &p.TrackExploration},
		{KeyTrackMissions, &p.TrackMissions},
		{KeyResetOnClose, &p.ResetOnClose},
		{KeyShowTotalCredits, &p.ShowTotalCredits},
	}
	for _, f := range flags {
		raw, ok, err := r.store.Get(ctx, f.key)
		if err != nil {
			return core.DefaultPreferences(), fmt.Errorf("load %s: %w", f.key, err)
		}
		if !ok {
			continue
		}
		v, err := parseBool(raw)
		if err != nil {
			r.logger.WarnContext(ctx, "Ignoring unreadable preference",
				log.FieldKey, f.key,
				log.FieldError, err.Error())
			continue
		}
		*f.dst = v
	}

	raw, ok, err := r.store.Get(ctx, KeyViewMode)
	if err != nil {
		return core.DefaultPreferences(), fmt.Errorf("load %s: %w", KeyViewMode, err)
	}
	if ok {
		mode, err := core.ParseViewMode(raw)
		if err != nil {
			r.logger.WarnContext(ctx, "Ignoring unreadable preference",
				log.FieldKey, KeyViewMode,
				log.FieldError, err.Error())
		} else {
			p.ViewMode = mode
		}
	}

	return p, nil
}

// Save writes every preference. Booleans are stored as "1" or "0".
func (r *Repository) Save(ctx context.Context, p core.Preferences) error {
	if _, err := core.ParseViewMode(string(p.ViewMode)); err != nil {
		return err
	}

	values := []struct {
		key   string
		value string
	}{
		{KeyTrackTrading, formatBool(p.TrackTrading)},
		{KeyTrackCombat, formatBool(p.TrackCombat)},
		{KeyTrackExploration, formatBool(p.TrackExploration)},
		{KeyTrackMissions, formatBool(p.TrackMissions)},
		{KeyResetOnClose, formatBool(p.ResetOnClose)},
		{KeyShowTotalCredits, formatBool(p.ShowTotalCredits)},
		{KeyViewMode, string(p.ViewMode)},
	}
	for _, v := range values {
		if err := r.store.Set(ctx, v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	r.logger.DebugContext(ctx, "Preferences saved", log.FieldOperation, log.OperationSave)
	return nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "on":
		return true, nil
	case "no", "off":
		return false, nil
	}
	return strconv.ParseBool(strings.TrimSpace(s))
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

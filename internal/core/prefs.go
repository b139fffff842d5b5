package core

import "fmt"

// ViewMode selects how much of the summary a presentation layer shows.
type ViewMode string

const (
	ViewFull    ViewMode = "full"
	ViewCompact ViewMode = "compact"
)

// ParseViewMode validates a stored view mode.
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(s) {
	case ViewFull, ViewCompact:
		return ViewMode(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownViewMode, s)
	}
}

// Preferences is the cached snapshot of user settings. The core reads it and
// never writes it back.
type Preferences struct {
	TrackTrading     bool     `json:"track_trading"`
	TrackCombat      bool     `json:"track_combat"`
	TrackExploration bool     `json:"track_exploration"`
	TrackMissions    bool     `json:"track_missions"`
	ResetOnClose     bool     `json:"reset_on_close"`
	ShowTotalCredits bool     `json:"show_total_credits"`
	ViewMode         ViewMode `json:"view_mode"`
}

// DefaultPreferences tracks everything, wipes data on close and shows the
// full view.
func DefaultPreferences() Preferences {
	return Preferences{
		TrackTrading:     true,
		TrackCombat:      true,
		TrackExploration: true,
		TrackMissions:    true,
		ResetOnClose:     true,
		ShowTotalCredits: true,
		ViewMode:         ViewFull,
	}
}

// Enabled builds the category switch map used by the classifier.
func (p Preferences) Enabled() EnabledSet {
	return EnabledSet{
		CategoryTrading:     p.TrackTrading,
		CategoryCombat:      p.TrackCombat,
		CategoryExploration: p.TrackExploration,
		CategoryMissions:    p.TrackMissions,
		CategoryMaintenance: true,
	}
}

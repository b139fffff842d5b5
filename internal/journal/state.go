package journal

import "incometracker/internal/core"

// State follows the parts of the game state the tracker reads, the way the
// host application would from the same journal.
type State struct {
	credits    int64
	hasCredits bool
	docked     bool
	hasDocked  bool
}

// Update applies ev to the snapshot.
func (s *State) Update(ev core.Event) {
	name, _ := ev.Name()
	switch name {
	case "LoadGame":
		if v, ok := core.NumberValue(ev["Credits"]); ok {
			s.credits, s.hasCredits = v.IntPart(), true
		}
		s.docked, s.hasDocked = false, true
	case "Docked":
		s.docked, s.hasDocked = true, true
	case "Undocked":
		s.docked, s.hasDocked = false, true
	}
}

// Snapshot returns the state map passed to the tracker alongside ev.
func (s *State) Snapshot() core.State {
	out := core.State{}
	if s.hasCredits {
		out["Credits"] = s.credits
	}
	if s.hasDocked {
		out["IsDocked"] = s.docked
	}
	return out
}

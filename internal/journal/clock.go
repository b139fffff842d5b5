package journal

import (
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"incometracker/internal/core"
)

// Clock is a time source driven by journal timestamps, so a replay stamps
// transactions with the time they happened in game rather than the time of
// the replay. Until the first Set it reports the wall clock. It never runs
// backwards.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock() *Clock {
	return &Clock{}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.now.IsZero() {
		return time.Now()
	}
	return c.now
}

// Set moves the clock to t. A t earlier than the current reading is ignored
// and reported as false.
func (c *Clock) Set(t time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t.Before(c.now) {
		return false
	}
	c.now = t
	return true
}

// SortByName orders journal paths by file name. Journal files are named after
// the session start, so this is chronological order.
func SortByName(paths []string) []string {
	out := slices.Clone(paths)
	slices.SortStableFunc(out, func(a, b string) int {
		return strings.Compare(filepath.Base(a), filepath.Base(b))
	})
	return out
}

// Timestamp returns the entry's "timestamp" field.
func Timestamp(ev core.Event) (time.Time, bool) {
	raw, ok := ev["timestamp"].(string)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

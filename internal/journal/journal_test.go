package journal

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"incometracker/internal/core"
)

const sample = `{ "timestamp":"3310-05-01T12:00:00Z", "event":"LoadGame", "Commander":"Jameson", "Credits":1000000 }
{ "timestamp":"3310-05-01T12:01:00Z", "event":"Docked", "StationName":"Jameson Memorial" }

{ "timestamp":"3310-05-01T12:02:00Z", "event":"MarketSell", "Type":"gold", "Count":10, "SellPrice":9000, "TotalSale":90000 }
not json at all
{ "timestamp":"3310-05-01T12:03:00Z", "Type":"missing event" }
{ "timestamp":"3310-05-01T12:04:00Z", "event":"Undocked" }
{ "timestamp":"3310-05-01T12:05:00Z", "event":"FSDJump", "StarSystem":"Shinrarta Dezhra" }
`

func TestReaderDecodesNumbersExactly(t *testing.T) {
	r := NewReader(strings.NewReader(`{"event":"MarketSell","TotalSale":12345678901234}`))

	ev, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, json.Number("12345678901234"), ev["TotalSale"])

	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReaderReportsMalformedLines(t *testing.T) {
	r := NewReader(strings.NewReader("{bad\n{\"event\":\"Docked\"}\n"))

	_, err := r.Next()
	assert.ErrorIs(t, err, ErrMalformedLine)
	assert.Equal(t, 1, r.Line())

	ev, err := r.Next()
	require.NoError(t, err)
	name, _ := ev.Name()
	assert.Equal(t, "Docked", name)
}

func TestStateSnapshot(t *testing.T) {
	var s State
	assert.Empty(t, s.Snapshot())

	s.Update(core.Event{"event": "LoadGame", "Credits": json.Number("1000000")})
	credits, ok := s.Snapshot().Credits()
	require.True(t, ok)
	assert.Equal(t, int64(1000000), credits)

	s.Update(core.Event{"event": "Docked"})
	docked, ok := s.Snapshot().Docked()
	assert.True(t, ok)
	assert.True(t, docked)

	s.Update(core.Event{"event": "Undocked"})
	docked, _ = s.Snapshot().Docked()
	assert.False(t, docked)
}

type call struct {
	event string
	state core.State
}

type fakeProcessor struct {
	calls []call
}

func (f *fakeProcessor) Process(_ context.Context, ev core.Event, state core.State) (string, bool) {
	name, _ := ev.Name()
	f.calls = append(f.calls, call{event: name, state: state})
	if name == "MarketSell" {
		return "Event: " + name, true
	}
	return "", false
}

func TestReplay(t *testing.T) {
	p := &fakeProcessor{}
	var outcomes []bool
	rp := NewReplayer(p, nil, func(m bool) { outcomes = append(outcomes, m) })

	stats, err := rp.Replay(context.Background(), strings.NewReader(sample))

	require.NoError(t, err)
	assert.Equal(t, Stats{Lines: 8, Events: 5, Matched: 1, Skipped: 2}, stats)
	assert.Len(t, outcomes, 5)

	require.Len(t, p.calls, 5)
	assert.Equal(t, "MarketSell", p.calls[2].event)
	docked, _ := p.calls[2].state.Docked()
	assert.True(t, docked)
	credits, _ := p.calls[2].state.Credits()
	assert.Equal(t, int64(1000000), credits)
}

func TestReplayStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewReplayer(&fakeProcessor{}, nil, nil).Replay(ctx, strings.NewReader(sample))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestReplayFiles(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "Journal.2024-01-01T120000.01.log")
	second := filepath.Join(dir, "Journal.2024-01-02T120000.01.log")
	require.NoError(t, os.WriteFile(first, []byte(`{"event":"LoadGame","Credits":500}`+"\n"), 0o644))
	require.NoError(t, os.WriteFile(second, []byte(`{"event":"MarketSell","TotalSale":100}`+"\n"), 0o644))

	p := &fakeProcessor{}
	stats, err := NewReplayer(p, nil, nil).ReplayFiles(context.Background(), first, second)

	require.NoError(t, err)
	assert.Equal(t, 2, stats.Events)
	assert.Equal(t, 1, stats.Matched)
	credits, ok := p.calls[1].state.Credits()
	assert.True(t, ok, "state carries over between files")
	assert.Equal(t, int64(500), credits)

	_, err = NewReplayer(p, nil, nil).ReplayFiles(context.Background(), filepath.Join(dir, "absent.log"))
	assert.Error(t, err)
}

func TestReplayDrivesClock(t *testing.T) {
	clock := NewClock()
	var seen []time.Time
	p := processorFunc(func(core.Event) { seen = append(seen, clock.Now()) })

	_, err := NewReplayer(p, nil, nil).UseClock(clock).Replay(context.Background(), strings.NewReader(sample))
	require.NoError(t, err)

	require.Len(t, seen, 5)
	assert.True(t, seen[0].Equal(time.Date(3310, 5, 1, 12, 0, 0, 0, time.UTC)))
	assert.True(t, seen[4].Equal(time.Date(3310, 5, 1, 12, 5, 0, 0, time.UTC)))
	assert.True(t, clock.Now().Equal(seen[4]))
}

func TestReplayKeepsClockMonotonic(t *testing.T) {
	const shuffled = `{ "timestamp":"3310-05-01T12:10:00Z", "event":"MarketSell", "TotalSale":100 }
{ "timestamp":"3310-05-01T12:00:00Z", "event":"MarketSell", "TotalSale":200 }
{ "timestamp":"3310-05-01T12:20:00Z", "event":"MarketSell", "TotalSale":300 }
`
	clock := NewClock()
	var seen []time.Time
	p := processorFunc(func(core.Event) { seen = append(seen, clock.Now()) })

	stats, err := NewReplayer(p, nil, nil).UseClock(clock).Replay(context.Background(), strings.NewReader(shuffled))
	require.NoError(t, err)

	assert.Equal(t, 1, stats.OutOfOrder)
	require.Len(t, seen, 3)
	assert.True(t, seen[1].Equal(seen[0]), "clock does not run backwards")
	assert.True(t, seen[2].After(seen[1]))
}

func TestSortByName(t *testing.T) {
	got := SortByName([]string{
		"/b/Journal.2024-01-03T120000.01.log",
		"/a/Journal.2024-01-01T120000.01.log",
		"Journal.2024-01-02T090000.01.log",
	})
	assert.Equal(t, []string{
		"/a/Journal.2024-01-01T120000.01.log",
		"Journal.2024-01-02T090000.01.log",
		"/b/Journal.2024-01-03T120000.01.log",
	}, got)
}

func TestClockFallsBackToWallClock(t *testing.T) {
	before := time.Now()
	assert.False(t, NewClock().Now().Before(before))
}

type processorFunc func(core.Event)

func (f processorFunc) Process(_ context.Context, ev core.Event, _ core.State) (string, bool) {
	f(ev)
	return "", false
}

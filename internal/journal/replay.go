package journal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"incometracker/internal/core"
	"incometracker/internal/log"
)

// Processor is the part of the tracker a replay drives.
type Processor interface {
	Process(ctx context.Context, ev core.Event, state core.State) (string, bool)
}

// Stats summarises a replay.
type Stats struct {
	Lines   int
	Events  int
	Matched int
	Skipped int
	// OutOfOrder counts entries stamped earlier than one already replayed.
	OutOfOrder int
}

func (s *Stats) add(o Stats) {
	s.Lines += o.Lines
	s.Events += o.Events
	s.Matched += o.Matched
	s.Skipped += o.Skipped
	s.OutOfOrder += o.OutOfOrder
}

type Replayer struct {
	processor Processor
	logger    *log.Logger
	state     State
	observe   func(matched bool)
	clock     *Clock
}

// NewReplayer feeds entries to p. observe, when set, is told the outcome of
// every entry.
func NewReplayer(p Processor, logger *log.Logger, observe func(matched bool)) *Replayer {
	if logger == nil {
		logger = log.Discard()
	}
	return &Replayer{processor: p, logger: logger.WithComponent(log.ComponentJournal), observe: observe}
}

// UseClock makes the replay advance c to each entry's timestamp before the
// entry is processed.
func (rp *Replayer) UseClock(c *Clock) *Replayer {
	rp.clock = c
	return rp
}

// Replay processes every entry of r in order. Malformed lines are logged
// and skipped. The game state carries over between calls.
func (rp *Replayer) Replay(ctx context.Context, r io.Reader) (Stats, error) {
	var stats Stats
	reader := NewReader(r)

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		ev, err := reader.Next()
		if errors.Is(err, io.EOF) {
			stats.Lines = reader.Line()
			return stats, nil
		}
		if errors.Is(err, ErrMalformedLine) {
			stats.Skipped++
			rp.logger.WarnContext(ctx, "Skipping malformed journal line",
				log.FieldOperation, log.OperationReplay,
				log.FieldError, err.Error())
			continue
		}
		if err != nil {
			stats.Lines = reader.Line()
			return stats, err
		}

		stats.Events++
		if rp.clock != nil {
			if ts, ok := Timestamp(ev); ok && !rp.clock.Set(ts) {
				stats.OutOfOrder++
				rp.logger.WarnContext(ctx, "Journal entry older than the replay clock, keeping clock",
					log.FieldOperation, log.OperationReplay,
					log.FieldEvent, ev["event"],
					"timestamp", ts.Format(time.RFC3339),
					"clock", rp.clock.Now().Format(time.RFC3339))
			}
		}
		rp.state.Update(ev)
		status, matched := rp.processor.Process(ctx, ev, rp.state.Snapshot())
		if matched {
			stats.Matched++
			rp.logger.DebugContext(ctx, status, log.FieldOperation, log.OperationReplay)
		}
		if rp.observe != nil {
			rp.observe(matched)
		}
	}
}

// ReplayFiles replays each file in turn.
func (rp *Replayer) ReplayFiles(ctx context.Context, paths ...string) (Stats, error) {
	var total Stats
	for _, path := range paths {
		stats, err := rp.replayFile(ctx, path)
		total.add(stats)
		if err != nil {
			return total, err
		}
		rp.logger.InfoContext(ctx, "Journal replayed",
			log.FieldOperation, log.OperationReplay,
			log.FieldPath, path,
			log.FieldCount, stats.Matched,
			"events", stats.Events,
			"skipped", stats.Skipped)
	}
	return total, nil
}

func (rp *Replayer) replayFile(ctx context.Context, path string) (Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return Stats{}, fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()

	stats, err := rp.Replay(ctx, f)
	if err != nil {
		return stats, fmt.Errorf("replay %s: %w", path, err)
	}
	return stats, nil
}

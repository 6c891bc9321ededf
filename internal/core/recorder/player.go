package recorder

import (
	"fmt"
	"sort"
	"time"
)

// Entry pairs a translated event with its offset from the start of replay.
type Entry struct {
	Elapsed time.Duration
	Event   Event
}

// Schedule translates the log into emittable entries ordered by elapsed
// time. Records of KindOther are dropped. Entries with equal elapsed times
// keep their log order, so an axis move stays ahead of the SYN_REPORT that
// closes it.
func Schedule(log Log) []Entry {
	entries := make([]Entry, 0, len(log))
	for _, record := range log {
		event, ok := record.Event()
		if !ok {
			continue
		}
		entries = append(entries, Entry{Elapsed: record.Elapsed, Event: event})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Elapsed < entries[j].Elapsed
	})
	return entries
}

// Player replays event logs through an Emitter with the recorded pacing.
type Player struct {
	emitter Emitter
	clock   Clock
	onEmit  func(Entry)
	logger  Logger
}

func NewPlayer(emitter Emitter, cfg PlayerConfig, logger Logger) (*Player, error) {
	if emitter == nil {
		return nil, fmt.Errorf("emitter is nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}
	clock := cfg.Clock
	if clock == nil {
		clock = SystemClock()
	}
	return &Player{
		emitter: emitter,
		clock:   clock,
		onEmit:  cfg.OnEmit,
		logger:  logger,
	}, nil
}

// Play emits every schedulable record of log. Each entry is due at the
// replay start plus its elapsed time; the player blocks until then, or emits
// at once when already late. Deadlines never shift after a late emission,
// and no entry is ever skipped. The first emitter failure aborts the run.
func (p *Player) Play(log Log) error {
	entries := Schedule(log)
	if dropped := len(log) - len(entries); dropped > 0 {
		p.logger.Debug("Skipping records without an emittable channel", "count", dropped)
	}

	start := p.clock.Now()
	p.logger.Info("Replay started", "events", len(entries))
	for i, entry := range entries {
		target := start.Add(entry.Elapsed)
		if wait := target.Sub(p.clock.Now()); wait > 0 {
			p.clock.Sleep(wait)
		}
		if err := p.emitter.Emit(entry.Event); err != nil {
			return fmt.Errorf("%w: entry %d: %w", ErrEmit, i, err)
		}
		if p.onEmit != nil {
			p.onEmit(entry)
		}
	}
	p.logger.Info("Replay finished", "events", len(entries), "elapsed", p.clock.Now().Sub(start))
	return nil
}

// Position moves the pointer to the absolute coordinates (x, y).
func (p *Player) Position(x, y int32) error {
	for _, event := range PositionEvents(x, y) {
		if err := p.emitter.Emit(event); err != nil {
			return fmt.Errorf("%w: %w", ErrEmit, err)
		}
		if p.onEmit != nil {
			p.onEmit(Entry{Event: event})
		}
	}
	return nil
}

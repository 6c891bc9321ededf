package recorder

import (
	"fmt"
	"time"
)

// Capturer records events from a Source for a bounded wall-clock duration.
type Capturer struct {
	source   Source
	duration time.Duration
	clock    Clock
	onRecord func(Record)
	logger   Logger
}

func NewCapturer(source Source, cfg CaptureConfig, logger Logger) (*Capturer, error) {
	if source == nil {
		return nil, fmt.Errorf("source is nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}
	if cfg.Duration <= 0 {
		return nil, fmt.Errorf("capture duration must be > 0")
	}
	clock := cfg.Clock
	if clock == nil {
		clock = SystemClock()
	}
	return &Capturer{
		source:   source,
		duration: cfg.Duration,
		clock:    clock,
		onRecord: cfg.OnRecord,
		logger:   logger,
	}, nil
}

// Capture polls the source until more than the configured duration has
// elapsed. The limit is checked once per poll, so the session may run past
// it by the time needed to process one batch. Every event is stamped with
// the instant it is observed, not the instant its batch was fetched.
func (c *Capturer) Capture() (Log, error) {
	start := c.clock.Now()
	var log Log

	c.logger.Info("Capture started", "duration", c.duration)
	for {
		if c.clock.Now().Sub(start) > c.duration {
			break
		}

		events, err := c.source.Poll()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrPoll, err)
		}

		for _, event := range events {
			record := NewRecord(event, c.clock.Now().Sub(start))
			log = append(log, record)
			if c.onRecord != nil {
				c.onRecord(record)
			}
		}
	}
	c.logger.Info("Capture finished", "events", len(log), "elapsed", c.clock.Now().Sub(start))
	return log, nil
}

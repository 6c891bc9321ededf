package recorder

import (
	"errors"
	"time"
)

type fakeClock struct {
	now time.Time
	// step is added after every Now call.
	step   time.Duration
	sleeps []time.Duration
}

func newFakeClock(step time.Duration) *fakeClock {
	return &fakeClock{now: time.Unix(1_700_000_000, 0), step: step}
}

func (c *fakeClock) Now() time.Time {
	now := c.now
	c.now = c.now.Add(c.step)
	return now
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
}

func (c *fakeClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

type scriptedSource struct {
	clock   *fakeClock
	batches [][]Event
	// pollCost is how long each Poll takes on the fake clock.
	pollCost time.Duration
	err      error
	errAt    int
	polls    int
	closed   bool
}

func (s *scriptedSource) Poll() ([]Event, error) {
	s.polls++
	if s.clock != nil {
		s.clock.advance(s.pollCost)
	}
	if s.err != nil && s.polls == s.errAt {
		return nil, s.err
	}
	if len(s.batches) == 0 {
		return nil, nil
	}
	batch := s.batches[0]
	s.batches = s.batches[1:]
	return batch, nil
}

func (s *scriptedSource) Close() error {
	s.closed = true
	return nil
}

type recordingEmitter struct {
	clock *fakeClock
	// delays[i] is how long the i-th Emit takes on the fake clock.
	delays  []time.Duration
	failAt  int
	events  []Event
	emitted []time.Time
	calls   int
	closed  bool
}

var errDeviceGone = errors.New("device gone")

func (r *recordingEmitter) Emit(event Event) error {
	r.calls++
	if r.failAt > 0 && r.calls == r.failAt {
		return errors.Join(ErrDeviceWrite, errDeviceGone)
	}
	if r.clock != nil {
		r.emitted = append(r.emitted, r.clock.now)
		if len(r.delays) >= r.calls {
			r.clock.advance(r.delays[r.calls-1])
		}
	}
	r.events = append(r.events, event)
	return nil
}

func (r *recordingEmitter) Close() error {
	r.closed = true
	return nil
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

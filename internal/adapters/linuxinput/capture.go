//go:build linux

package linuxinput

import (
	"errors"
	"fmt"
	"syscall"
	"time"

	"github.com/ToxicMushroom/mouse-replay/internal/core/recorder"

	evdev "github.com/holoplot/go-evdev"
)

const (
	defaultIdleWait  = time.Millisecond
	defaultBatchSize = 64
)

type SourceConfig struct {
	// IdleWait is how long Poll sleeps when no events are pending.
	IdleWait time.Duration
	// BatchSize caps the events drained by a single Poll.
	BatchSize int
}

type eventReader interface {
	ReadOne() (*evdev.InputEvent, error)
	Close() error
}

// Source reads raw events from a physical evdev node without blocking.
type Source struct {
	dev       eventReader
	path      string
	name      string
	idleWait  time.Duration
	batchSize int
}

func OpenSource(path string, cfg SourceConfig) (*Source, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: device path is empty", recorder.ErrSourceUnavailable)
	}
	dev, err := openInputDevice(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", recorder.ErrSourceUnavailable, path, err)
	}
	if err := dev.NonBlock(); err != nil {
		_ = dev.Close()
		return nil, fmt.Errorf("%w: failed to set nonblocking mode for %s: %w", recorder.ErrSourceUnavailable, path, err)
	}

	name, _ := dev.Name()
	idleWait := cfg.IdleWait
	if idleWait <= 0 {
		idleWait = defaultIdleWait
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Source{
		dev:       dev,
		path:      path,
		name:      name,
		idleWait:  idleWait,
		batchSize: batchSize,
	}, nil
}

func (s *Source) Path() string {
	return s.path
}

func (s *Source) Name() string {
	return s.name
}

// Poll drains the events pending on the device, up to the batch size. An
// empty batch means nothing arrived within the idle wait.
func (s *Source) Poll() ([]recorder.Event, error) {
	var out []recorder.Event
	for len(out) < s.batchSize {
		event, err := s.dev.ReadOne()
		if err != nil {
			if isWouldBlockError(err) {
				if len(out) == 0 {
					time.Sleep(s.idleWait)
				}
				return out, nil
			}
			if isDeviceClosedError(err) {
				return nil, fmt.Errorf("%s disconnected: %w", s.path, err)
			}
			return nil, fmt.Errorf("read %s: %w", s.path, err)
		}
		out = append(out, recorder.Event{
			Type:  uint16(event.Type),
			Code:  uint16(event.Code),
			Value: event.Value,
		})
	}
	return out, nil
}

func (s *Source) Close() error {
	if s.dev == nil {
		return nil
	}
	return s.dev.Close()
}

func isDeviceClosedError(err error) bool {
	return errors.Is(err, syscall.EBADF) || errors.Is(err, syscall.ENODEV)
}

func isWouldBlockError(err error) bool {
	return errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EWOULDBLOCK)
}

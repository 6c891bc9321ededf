package recorder

import "time"

const (
	EventTypeSyn uint16 = 0x00
	EventTypeKey uint16 = 0x01
	EventTypeRel uint16 = 0x02
	EventTypeAbs uint16 = 0x03

	SynReportCode   uint16 = 0
	RelXCode        uint16 = 0x00
	RelYCode        uint16 = 0x01
	AbsXCode        uint16 = 0x00
	AbsYCode        uint16 = 0x01
	LeftButtonCode  uint16 = 0x110
	RightButtonCode uint16 = 0x111
)

// Event is a raw input event as read from or written to an evdev node.
type Event struct {
	Type  uint16
	Code  uint16
	Value int32
}

// Source yields raw events observed on a physical input device. A single
// Poll may return zero or more events.
type Source interface {
	Poll() ([]Event, error)
	Close() error
}

// Emitter pushes one event at a time to a virtual input device.
type Emitter interface {
	Emit(event Event) error
	Close() error
}

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Clock abstracts wall-clock reads and blocking waits.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// SystemClock returns a Clock backed by the time package.
func SystemClock() Clock {
	return systemClock{}
}

type CaptureConfig struct {
	Duration time.Duration
	Clock    Clock
	OnRecord func(Record)
}

type PlayerConfig struct {
	Clock  Clock
	OnEmit func(Entry)
}

package recorder

import (
	"fmt"
	"time"
)

// Kind is the semantic channel of a recorded event.
type Kind uint8

const (
	KindSync Kind = iota
	KindRelative
	KindAbsolute
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindSync:
		return "sync"
	case KindRelative:
		return "relative"
	case KindAbsolute:
		return "absolute"
	case KindOther:
		return "other"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

func (k Kind) valid() bool {
	return k <= KindOther
}

// Record is one captured event stamped with the time elapsed since the
// start of its capture session. Records of KindOther keep their raw code so
// the log stays lossless, but they are never replayed.
type Record struct {
	Kind    Kind
	Code    uint16
	Value   int32
	Elapsed time.Duration
}

// Log is an ordered sequence of records in capture order.
type Log []Record

// NewRecord classifies a raw event observed at elapsed.
func NewRecord(event Event, elapsed time.Duration) Record {
	return Record{
		Kind:    kindOf(event.Type),
		Code:    event.Code,
		Value:   event.Value,
		Elapsed: elapsed,
	}
}

func kindOf(eventType uint16) Kind {
	switch eventType {
	case EventTypeSyn:
		return KindSync
	case EventTypeRel:
		return KindRelative
	case EventTypeAbs:
		return KindAbsolute
	default:
		return KindOther
	}
}

// Event maps the record back to an emittable event. It reports false for
// KindOther records.
func (r Record) Event() (Event, bool) {
	var eventType uint16
	switch r.Kind {
	case KindSync:
		eventType = EventTypeSyn
	case KindRelative:
		eventType = EventTypeRel
	case KindAbsolute:
		eventType = EventTypeAbs
	default:
		return Event{}, false
	}
	return Event{Type: eventType, Code: r.Code, Value: r.Value}, true
}

// PositionEvents returns the absolute move to (x, y) followed by its
// SYN_REPORT marker.
func PositionEvents(x, y int32) []Event {
	return []Event{
		{Type: EventTypeAbs, Code: AbsXCode, Value: x},
		{Type: EventTypeAbs, Code: AbsYCode, Value: y},
		{Type: EventTypeSyn, Code: SynReportCode, Value: 0},
	}
}

//go:build linux

package x11input

import (
	"fmt"
	"sync"

	"github.com/ToxicMushroom/mouse-replay/internal/core/recorder"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgb/xtest"
	"github.com/BurntSushi/xgbutil"
)

// Default absolute ranges match the tablet-style axes of the uinput
// virtual pointer.
const (
	DefaultAbsMaxX int32 = 33020
	DefaultAbsMaxY int32 = 20320
)

type Config struct {
	AbsMaxX int32
	AbsMaxY int32
}

// Emitter replays pointer motion on the X11 root window through XTEST.
// Motion is buffered until SYN_REPORT, the same framing the kernel applies
// to uinput devices. Other event types are ignored.
type Emitter struct {
	conn    *xgb.Conn
	rootWin xproto.Window
	screenW int
	screenH int

	mu    sync.Mutex
	state pointerState
}

func NewEmitter(cfg Config) (*Emitter, error) {
	if cfg.AbsMaxX <= 0 {
		cfg.AbsMaxX = DefaultAbsMaxX
	}
	if cfg.AbsMaxY <= 0 {
		cfg.AbsMaxY = DefaultAbsMaxY
	}

	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}
	conn := xu.Conn()
	if conn == nil {
		return nil, fmt.Errorf("failed to open X11 connection")
	}

	if err := xtest.Init(conn); err != nil {
		conn.Close()
		return nil, err
	}

	screen := xu.Screen()
	return &Emitter{
		conn:    conn,
		rootWin: xu.RootWin(),
		screenW: int(screen.WidthInPixels),
		screenH: int(screen.HeightInPixels),
		state:   pointerState{absMaxX: cfg.AbsMaxX, absMaxY: cfg.AbsMaxY},
	}, nil
}

func (e *Emitter) Emit(event recorder.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch event.Type {
	case recorder.EventTypeRel, recorder.EventTypeAbs:
		e.state.apply(event)
		return nil
	case recorder.EventTypeSyn:
		if event.Code != recorder.SynReportCode {
			return nil
		}
		if err := e.flushMove(); err != nil {
			return fmt.Errorf("%w: %w", recorder.ErrDeviceWrite, err)
		}
		e.conn.Sync()
		return nil
	default:
		return nil
	}
}

func (e *Emitter) Close() error {
	e.conn.Close()
	return nil
}

func (e *Emitter) flushMove() error {
	if !e.state.pending() {
		return nil
	}

	query, err := xproto.QueryPointer(e.conn, e.rootWin).Reply()
	if err != nil {
		return err
	}
	nextX, nextY := e.state.target(int32(query.RootX), int32(query.RootY), e.screenW, e.screenH)
	// Detail 0 makes the motion absolute on the root window.
	return xtest.FakeInputChecked(
		e.conn,
		xproto.MotionNotify,
		0,
		xproto.TimeCurrentTime,
		e.rootWin,
		nextX,
		nextY,
		0,
	).Check()
}

// pointerState accumulates motion between two SYN_REPORT markers.
type pointerState struct {
	absMaxX int32
	absMaxY int32

	moveX   int32
	moveY   int32
	absX    int32
	absY    int32
	hasAbsX bool
	hasAbsY bool
}

func (s *pointerState) apply(event recorder.Event) {
	switch event.Type {
	case recorder.EventTypeRel:
		switch event.Code {
		case recorder.RelXCode:
			s.moveX += event.Value
		case recorder.RelYCode:
			s.moveY += event.Value
		}
	case recorder.EventTypeAbs:
		switch event.Code {
		case recorder.AbsXCode:
			s.absX = event.Value
			s.hasAbsX = true
		case recorder.AbsYCode:
			s.absY = event.Value
			s.hasAbsY = true
		}
	}
}

func (s *pointerState) pending() bool {
	return s.moveX != 0 || s.moveY != 0 || s.hasAbsX || s.hasAbsY
}

// target resolves the buffered motion against the current pointer position
// and resets the buffer. Absolute axes are scaled onto the screen first and
// relative deltas are applied on top.
func (s *pointerState) target(curX, curY int32, screenW, screenH int) (int16, int16) {
	x, y := curX, curY
	if s.hasAbsX {
		x = scaleAxis(s.absX, s.absMaxX, screenW)
	}
	if s.hasAbsY {
		y = scaleAxis(s.absY, s.absMaxY, screenH)
	}
	x += s.moveX
	y += s.moveY

	*s = pointerState{absMaxX: s.absMaxX, absMaxY: s.absMaxY}
	return clampInt32ToInt16(x), clampInt32ToInt16(y)
}

func scaleAxis(value, axisMax int32, pixels int) int32 {
	if axisMax <= 0 || pixels <= 0 {
		return value
	}
	if value < 0 {
		value = 0
	}
	if value > axisMax {
		value = axisMax
	}
	return int32(int64(value) * int64(pixels-1) / int64(axisMax))
}

func clampInt32ToInt16(value int32) int16 {
	if value < -32768 {
		return -32768
	}
	if value > 32767 {
		return 32767
	}
	return int16(value)
}

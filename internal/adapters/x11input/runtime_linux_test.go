//go:build linux

package x11input

import (
	"testing"

	"github.com/ToxicMushroom/mouse-replay/internal/core/recorder"
)

func TestPointerStateAccumulatesRelativeMotion(t *testing.T) {
	state := pointerState{absMaxX: DefaultAbsMaxX, absMaxY: DefaultAbsMaxY}
	state.apply(recorder.Event{Type: recorder.EventTypeRel, Code: recorder.RelXCode, Value: 5})
	state.apply(recorder.Event{Type: recorder.EventTypeRel, Code: recorder.RelYCode, Value: -3})
	state.apply(recorder.Event{Type: recorder.EventTypeRel, Code: recorder.RelXCode, Value: 2})

	if !state.pending() {
		t.Fatalf("expected pending motion")
	}
	x, y := state.target(100, 200, 1920, 1080)
	if x != 107 || y != 197 {
		t.Fatalf("target() = (%d, %d), want (107, 197)", x, y)
	}
	if state.pending() {
		t.Fatalf("expected motion buffer to reset after target()")
	}
	if state.absMaxX != DefaultAbsMaxX || state.absMaxY != DefaultAbsMaxY {
		t.Fatalf("target() lost absolute ranges: %#v", state)
	}
}

func TestPointerStateScalesAbsoluteAxes(t *testing.T) {
	state := pointerState{absMaxX: 1000, absMaxY: 500}
	state.apply(recorder.Event{Type: recorder.EventTypeAbs, Code: recorder.AbsXCode, Value: 500})

	x, y := state.target(10, 20, 1001, 801)
	if x != 500 || y != 20 {
		t.Fatalf("target() = (%d, %d), want (500, 20)", x, y)
	}

	state.apply(recorder.Event{Type: recorder.EventTypeAbs, Code: recorder.AbsXCode, Value: 1000})
	state.apply(recorder.Event{Type: recorder.EventTypeAbs, Code: recorder.AbsYCode, Value: 500})
	state.apply(recorder.Event{Type: recorder.EventTypeRel, Code: recorder.RelXCode, Value: -10})
	x, y = state.target(0, 0, 1001, 801)
	if x != 990 || y != 800 {
		t.Fatalf("target() = (%d, %d), want (990, 800)", x, y)
	}
}

func TestScaleAxisClampsToRange(t *testing.T) {
	if got := scaleAxis(-5, 100, 1920); got != 0 {
		t.Fatalf("scaleAxis(-5)=%d, want 0", got)
	}
	if got := scaleAxis(500, 100, 1920); got != 1919 {
		t.Fatalf("scaleAxis(500)=%d, want 1919", got)
	}
	if got := scaleAxis(42, 0, 1920); got != 42 {
		t.Fatalf("scaleAxis with zero range=%d, want 42", got)
	}
}

func TestClampInt32ToInt16(t *testing.T) {
	if got := clampInt32ToInt16(40000); got != 32767 {
		t.Fatalf("clampInt32ToInt16(40000)=%d", got)
	}
	if got := clampInt32ToInt16(-40000); got != -32768 {
		t.Fatalf("clampInt32ToInt16(-40000)=%d", got)
	}
	if got := clampInt32ToInt16(12); got != 12 {
		t.Fatalf("clampInt32ToInt16(12)=%d", got)
	}
}

//go:build linux

package linuxinput

import (
	"fmt"
	"os"
	"sort"

	"github.com/ToxicMushroom/mouse-replay/internal/core/recorder"

	evdev "github.com/holoplot/go-evdev"
)

const DefaultVirtualDeviceName = "mouse-replay virtual pointer"

// Default absolute ranges of the virtual pointer's tablet-style axes.
const (
	DefaultAbsMaxX int32 = 33020
	DefaultAbsMaxY int32 = 20320
)

type VirtualPointerConfig struct {
	Name string
	// SourcePath, when set, copies the vendor/product IDs of that device.
	SourcePath string
	AbsMaxX    int32
	AbsMaxY    int32
}

// VirtualPointer is a uinput device that accepts relative and absolute
// pointer motion plus left/right buttons.
type VirtualPointer struct {
	file *os.File
}

func NewVirtualPointer(cfg VirtualPointerConfig) (*VirtualPointer, error) {
	name := cfg.Name
	if name == "" {
		name = DefaultVirtualDeviceName
	}
	if cfg.AbsMaxX <= 0 {
		cfg.AbsMaxX = DefaultAbsMaxX
	}
	if cfg.AbsMaxY <= 0 {
		cfg.AbsMaxY = DefaultAbsMaxY
	}

	id := evdev.InputID{
		BusType: uint16(evdev.BUS_VIRTUAL),
		Vendor:  0x1,
		Product: 0x1,
		Version: 1,
	}
	if cfg.SourcePath != "" {
		if source, err := openInputDevice(cfg.SourcePath); err == nil {
			if sourceID, err := source.InputID(); err == nil {
				id = sourceID
				id.BusType = uint16(evdev.BUS_VIRTUAL)
			}
			_ = source.Close()
		}
	}

	file, err := createUinputDevice(name, id, pointerCapabilities(), pointerAxes(cfg.AbsMaxX, cfg.AbsMaxY))
	if err != nil {
		return nil, err
	}
	return &VirtualPointer{file: file}, nil
}

// Emit writes a single event. The kernel forwards buffered events to
// readers once a SYN_REPORT arrives.
func (p *VirtualPointer) Emit(event recorder.Event) error {
	ev := evdev.InputEvent{
		Type:  evdev.EvType(event.Type),
		Code:  evdev.EvCode(event.Code),
		Value: event.Value,
	}
	if err := writeEvent(p.file, ev); err != nil {
		if isDeviceClosedError(err) {
			return fmt.Errorf("%w: virtual device is gone: %w", recorder.ErrDeviceWrite, err)
		}
		return fmt.Errorf("%w: %s: %w", recorder.ErrDeviceWrite, FormatEvent(event), err)
	}
	return nil
}

func (p *VirtualPointer) Close() error {
	if p.file == nil {
		return nil
	}
	return destroyUinputDevice(p.file)
}

func pointerCapabilities() map[evdev.EvType][]evdev.EvCode {
	keyCodes := map[evdev.EvCode]struct{}{
		evdev.EvCode(recorder.LeftButtonCode):  {},
		evdev.EvCode(recorder.RightButtonCode): {},
	}
	relCodes := map[evdev.EvCode]struct{}{evdev.REL_X: {}, evdev.REL_Y: {}}
	absCodes := map[evdev.EvCode]struct{}{evdev.ABS_X: {}, evdev.ABS_Y: {}}

	return map[evdev.EvType][]evdev.EvCode{
		evdev.EV_KEY: sortedCodes(keyCodes),
		evdev.EV_REL: sortedCodes(relCodes),
		evdev.EV_ABS: sortedCodes(absCodes),
	}
}

func pointerAxes(absMaxX, absMaxY int32) []axisRange {
	return []axisRange{
		{code: evdev.ABS_X, max: absMaxX},
		{code: evdev.ABS_Y, max: absMaxY},
	}
}

func sortedCodes(values map[evdev.EvCode]struct{}) []evdev.EvCode {
	codes := make([]evdev.EvCode, 0, len(values))
	for code := range values {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		return codes[i] < codes[j]
	})
	return codes
}

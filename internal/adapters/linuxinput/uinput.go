//go:build linux

package linuxinput

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sort"
	"syscall"

	evdev "github.com/holoplot/go-evdev"
)

const uinputPath = "/dev/uinput"

// ioctl requests from linux/uinput.h.
const (
	uiDevCreate  = 0x5501
	uiDevDestroy = 0x5502
	uiSetEvBit   = 0x40045564
	uiSetKeyBit  = 0x40045565
	uiSetRelBit  = 0x40045566
	uiSetAbsBit  = 0x40045567
)

// axisRange is the [0, max] span advertised for one absolute axis.
type axisRange struct {
	code evdev.EvCode
	max  int32
}

// createUinputDevice registers a uinput device. Absolute axis ranges travel
// in the uinput_user_dev block written before UI_DEV_CREATE.
func createUinputDevice(name string, id evdev.InputID, capabilities map[evdev.EvType][]evdev.EvCode, axes []axisRange) (*os.File, error) {
	file, err := os.OpenFile(uinputPath, syscall.O_WRONLY|syscall.O_NONBLOCK, 0o660)
	if err != nil {
		return nil, err
	}
	fd := file.Fd()

	types := make([]evdev.EvType, 0, len(capabilities))
	for eventType := range capabilities {
		types = append(types, eventType)
	}
	sort.Slice(types, func(i, j int) bool {
		return types[i] < types[j]
	})

	for _, eventType := range types {
		if err := uinputIoctl(fd, uiSetEvBit, uintptr(eventType)); err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("failed to set ev bit %s: %w", FormatTypeName(uint16(eventType)), err)
		}
		request, ok := codeBitRequest(eventType)
		if !ok {
			continue
		}
		for _, code := range capabilities[eventType] {
			if err := uinputIoctl(fd, request, uintptr(code)); err != nil {
				_ = file.Close()
				return nil, fmt.Errorf("failed to set code bit %s: %w", FormatCodeName(uint16(eventType), uint16(code)), err)
			}
		}
	}

	if err := binary.Write(file, binary.LittleEndian, userDevice(name, id, axes)); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to write uinput device description: %w", err)
	}
	if err := uinputIoctl(fd, uiDevCreate, 0); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to create uinput device: %w", err)
	}
	return file, nil
}

func destroyUinputDevice(file *os.File) error {
	destroyErr := uinputIoctl(file.Fd(), uiDevDestroy, 0)
	closeErr := file.Close()
	if destroyErr != nil {
		return destroyErr
	}
	return closeErr
}

func codeBitRequest(eventType evdev.EvType) (uintptr, bool) {
	switch eventType {
	case evdev.EV_KEY:
		return uiSetKeyBit, true
	case evdev.EV_REL:
		return uiSetRelBit, true
	case evdev.EV_ABS:
		return uiSetAbsBit, true
	default:
		return 0, false
	}
}

func userDevice(name string, id evdev.InputID, axes []axisRange) evdev.UinputUserDevice {
	dev := evdev.UinputUserDevice{ID: id}
	// Keep the trailing NUL the kernel expects.
	copy(dev.Name[:len(dev.Name)-1], name)
	for _, axis := range axes {
		if int(axis.code) >= len(dev.Absmax) {
			continue
		}
		dev.Absmin[axis.code] = 0
		dev.Absmax[axis.code] = axis.max
	}
	return dev
}

func writeEvent(w io.Writer, event evdev.InputEvent) error {
	return binary.Write(w, binary.LittleEndian, &event)
}

func uinputIoctl(fd uintptr, request, arg uintptr) error {
	if _, _, errno := syscall.Syscall(syscall.SYS_IOCTL, fd, request, arg); errno != 0 {
		return errno
	}
	return nil
}

//go:build linux

package linuxinput

import (
	"fmt"
	"os"
	"sort"
	"strings"

	evdev "github.com/holoplot/go-evdev"
)

type DeviceInfo struct {
	Path          string
	Name          string
	IsVirtual     bool
	IsPointer     bool
	HasRelativeXY bool
}

func ListInputDevices() ([]DeviceInfo, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, err
	}

	sort.Slice(paths, func(i, j int) bool {
		return paths[i].Path < paths[j].Path
	})

	devices := make([]DeviceInfo, 0, len(paths))
	for _, path := range paths {
		dev, err := openInputDevice(path.Path)
		if err != nil {
			continue
		}

		name := path.Name
		if actualName, err := dev.Name(); err == nil && actualName != "" {
			name = actualName
		}

		devices = append(devices, DeviceInfo{
			Path:          path.Path,
			Name:          name,
			IsVirtual:     deviceIsVirtual(dev, name),
			IsPointer:     deviceIsPointer(dev),
			HasRelativeXY: deviceHasRelativeXY(dev),
		})
		_ = dev.Close()
	}

	return devices, nil
}

// FindPointerDevice returns the first physical pointer device. Devices with
// relative X/Y motion win over absolute-only ones such as tablets.
func FindPointerDevice() (DeviceInfo, error) {
	devices, err := ListInputDevices()
	if err != nil {
		return DeviceInfo{}, err
	}
	return pickPointerDevice(devices)
}

func pickPointerDevice(devices []DeviceInfo) (DeviceInfo, error) {
	pool := make([]DeviceInfo, 0, len(devices))
	for _, info := range devices {
		if info.IsPointer && !info.IsVirtual {
			pool = append(pool, info)
		}
	}
	if len(pool) == 0 {
		return DeviceInfo{}, fmt.Errorf("no physical pointer device found; use --list-devices and then pass --device")
	}

	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].HasRelativeXY != pool[j].HasRelativeXY {
			return pool[i].HasRelativeXY
		}
		return pool[i].Path < pool[j].Path
	})
	return pool[0], nil
}

func openInputDevice(path string) (*evdev.InputDevice, error) {
	return evdev.OpenWithFlags(path, os.O_RDONLY)
}

func deviceIsVirtual(device *evdev.InputDevice, name string) bool {
	id, err := device.InputID()
	if err == nil && id.BusType == uint16(evdev.BUS_VIRTUAL) {
		return true
	}
	return nameLooksVirtual(name)
}

func nameLooksVirtual(name string) bool {
	lower := strings.ToLower(name)
	for _, token := range []string{"virtual", "uinput", "ydotool", "mouse-replay"} {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}

func deviceIsPointer(device *evdev.InputDevice) bool {
	if deviceHasRelativeXY(device) {
		return true
	}
	return len(device.CapableEvents(evdev.EV_ABS)) > 0
}

func deviceHasRelativeXY(device *evdev.InputDevice) bool {
	var hasRelX, hasRelY bool
	for _, code := range device.CapableEvents(evdev.EV_REL) {
		if code == evdev.REL_X {
			hasRelX = true
		}
		if code == evdev.REL_Y {
			hasRelY = true
		}
	}
	return hasRelX && hasRelY
}

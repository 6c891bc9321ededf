package linuxinput

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ToxicMushroom/mouse-replay/internal/core/recorder"

	evdev "github.com/holoplot/go-evdev"
)

func FormatTypeName(eventType uint16) string {
	switch evdev.EvType(eventType) {
	case evdev.EV_SYN:
		return "EV_SYN"
	case evdev.EV_KEY:
		return "EV_KEY"
	case evdev.EV_REL:
		return "EV_REL"
	case evdev.EV_ABS:
		return "EV_ABS"
	case evdev.EV_MSC:
		return "EV_MSC"
	default:
		return strconv.Itoa(int(eventType))
	}
}

func FormatCodeName(eventType, code uint16) string {
	name := evdev.CodeName(evdev.EvType(eventType), evdev.EvCode(code))
	if name != "" && !strings.EqualFold(name, "unknown") {
		return name
	}
	return strconv.Itoa(int(code))
}

// FormatEvent renders an event the way evtest prints it, e.g. "EV_REL REL_X 5".
func FormatEvent(event recorder.Event) string {
	return fmt.Sprintf("%s %s %d", FormatTypeName(event.Type), FormatCodeName(event.Type, event.Code), event.Value)
}

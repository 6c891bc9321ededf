//go:build linux

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/ToxicMushroom/mouse-replay/internal/adapters/linuxinput"
	"github.com/ToxicMushroom/mouse-replay/internal/adapters/x11input"
	"github.com/ToxicMushroom/mouse-replay/internal/core/recorder"
)

const uinputPath = "/dev/uinput"

func parseBackendChoice(value string) (string, error) {
	backend := strings.ToLower(strings.TrimSpace(value))
	if backend == "" {
		backend = "auto"
	}
	switch backend {
	case "auto", "uinput", "evdev", "x11":
		return backend, nil
	default:
		return "", fmt.Errorf("invalid --backend %q (linux supports auto|uinput|x11)", value)
	}
}

func formatEvent(event recorder.Event) string {
	return linuxinput.FormatEvent(event)
}

func listInputDevices() error {
	devices, err := linuxinput.ListInputDevices()
	if err != nil {
		return err
	}
	for _, dev := range devices {
		virtualTag := "physical"
		if dev.IsVirtual {
			virtualTag = "virtual"
		}
		pointerTag := "non-pointer"
		if dev.IsPointer {
			pointerTag = "pointer"
		}
		fmt.Printf("%s: %s [%s, %s]\n", dev.Path, dev.Name, virtualTag, pointerTag)
	}
	return nil
}

func permissionDeniedHint() string {
	return "Permission denied opening input backend. Run as root or add a udev rule for /dev/input/event* and /dev/uinput. On X11 ensure DISPLAY is set and use --backend=x11."
}

func openCaptureSource(cfg config, logger *slog.Logger) (recorder.Source, error) {
	path := cfg.devicePath
	if path == "" {
		info, err := linuxinput.FindPointerDevice()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", recorder.ErrSourceUnavailable, err)
		}
		path = info.Path
	}

	source, err := linuxinput.OpenSource(path, linuxinput.SourceConfig{})
	if err != nil {
		return nil, err
	}
	logger.Info("Using source device", "path", source.Path(), "name", source.Name())
	return source, nil
}

func openEmitter(cfg config, logger *slog.Logger) (recorder.Emitter, error) {
	switch resolveLinuxBackend(cfg.backend) {
	case "x11":
		emitter, err := x11input.NewEmitter(x11input.Config{
			AbsMaxX: cfg.absMaxX,
			AbsMaxY: cfg.absMaxY,
		})
		if err != nil {
			return nil, err
		}
		logger.Info("Backend", "name", "x11")
		return emitter, nil
	default:
		pointer, err := linuxinput.NewVirtualPointer(linuxinput.VirtualPointerConfig{
			SourcePath: cfg.devicePath,
			AbsMaxX:    cfg.absMaxX,
			AbsMaxY:    cfg.absMaxY,
		})
		if err != nil {
			return nil, err
		}
		logger.Info("Backend", "name", "uinput", "device", linuxinput.DefaultVirtualDeviceName)
		if cfg.settle > 0 {
			time.Sleep(cfg.settle)
		}
		return pointer, nil
	}
}

func resolveLinuxBackend(configured string) string {
	choice := strings.ToLower(strings.TrimSpace(configured))
	if choice == "" {
		choice = "auto"
	}
	if choice == "evdev" {
		choice = "uinput"
	}
	if choice != "auto" {
		return choice
	}

	if syscall.Access(uinputPath, 0x2) == nil {
		return "uinput"
	}
	sessionType := strings.ToLower(strings.TrimSpace(os.Getenv("XDG_SESSION_TYPE")))
	if sessionType != "wayland" && strings.TrimSpace(os.Getenv("DISPLAY")) != "" {
		return "x11"
	}
	return "uinput"
}

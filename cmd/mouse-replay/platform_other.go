//go:build !linux

package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/ToxicMushroom/mouse-replay/internal/core/recorder"
)

func parseBackendChoice(value string) (string, error) {
	backend := strings.ToLower(strings.TrimSpace(value))
	if backend == "" || backend == "auto" {
		return "auto", nil
	}
	return "", fmt.Errorf("invalid --backend %q (unsupported platform)", value)
}

func formatEvent(event recorder.Event) string {
	return fmt.Sprintf("%d %d %d", event.Type, event.Code, event.Value)
}

func listInputDevices() error {
	return fmt.Errorf("input device listing is not supported on this platform")
}

func permissionDeniedHint() string {
	return "Permission denied opening input backend."
}

func openCaptureSource(cfg config, logger *slog.Logger) (recorder.Source, error) {
	return nil, fmt.Errorf("%w: input capture is not supported on this platform", recorder.ErrSourceUnavailable)
}

func openEmitter(cfg config, logger *slog.Logger) (recorder.Emitter, error) {
	return nil, fmt.Errorf("virtual input devices are not supported on this platform")
}

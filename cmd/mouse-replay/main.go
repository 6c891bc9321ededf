package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/ToxicMushroom/mouse-replay/internal/core/recorder"

	"github.com/google/uuid"
)

const (
	modeRecord = "record"
	modeReplay = "replay"
	modeCenter = "center"
)

type config struct {
	mode        string
	centerX     int32
	centerY     int32
	devicePath  string
	dumpPath    string
	duration    time.Duration
	backend     string
	settle      time.Duration
	absMaxX     int32
	absMaxY     int32
	listDevices bool
	logLevel    slog.Level
}

func newSlogLogger(level slog.Level, out io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: level,
	}))
}

func parseLogLevel(value string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warning", "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid --log-level %q (expected debug|info|warning|error)", value)
	}
}

func parseConfig(args []string, stderr io.Writer) (config, error) {
	cfg := config{}
	flags := flag.NewFlagSet("mouse-replay", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintln(stderr, "usage: mouse-replay [flags] record|replay|center X Y")
		fmt.Fprintln(stderr, "Coordinates may be negative; use -- before them when flags follow center.")
		flags.PrintDefaults()
	}

	var backendRaw string
	var logLevelRaw string
	var absMaxX int
	var absMaxY int

	flags.StringVar(&cfg.devicePath, "device", "", "Input event device to record from, e.g. /dev/input/event4. Auto-detected if omitted.")
	flags.StringVar(&cfg.dumpPath, "file", defaultDumpPath(), "Event log file written by record and read by replay.")
	flags.DurationVar(&cfg.duration, "duration", 5*time.Second, "How long record captures input.")
	flags.StringVar(&backendRaw, "backend", "auto", "Output backend for replay and center: auto|uinput|x11.")
	flags.DurationVar(&cfg.settle, "settle", 200*time.Millisecond, "Delay after creating the uinput device before emitting, so the compositor picks it up.")
	flags.IntVar(&absMaxX, "abs-max-x", 33020, "Absolute X axis maximum, advertised by the uinput device and used to scale ABS_X on the x11 backend.")
	flags.IntVar(&absMaxY, "abs-max-y", 20320, "Absolute Y axis maximum, advertised by the uinput device and used to scale ABS_Y on the x11 backend.")
	flags.BoolVar(&cfg.listDevices, "list-devices", false, "Print available input devices and exit.")
	flags.StringVar(&logLevelRaw, "log-level", "info", "Log verbosity (default: info). Allowed: debug, info, warning, error.")

	if err := flags.Parse(args); err != nil {
		return cfg, err
	}

	// Flags may follow the mode, e.g. "record --duration 10s".
	var positional []string
	if flags.NArg() > 0 {
		cfg.mode = flags.Arg(0)
		rest := flags.Args()[1:]
		// Center coordinates come first so "-5" is not read as a flag.
		if cfg.mode == modeCenter {
			for len(positional) < 2 && len(rest) > 0 && looksLikeInteger(rest[0]) {
				positional = append(positional, rest[0])
				rest = rest[1:]
			}
		}
		if err := flags.Parse(rest); err != nil {
			return cfg, err
		}
		positional = append(positional, flags.Args()...)
	}

	parsedLevel, err := parseLogLevel(logLevelRaw)
	if err != nil {
		return cfg, err
	}
	cfg.logLevel = parsedLevel

	backendChoice, err := parseBackendChoice(backendRaw)
	if err != nil {
		return cfg, err
	}
	cfg.backend = backendChoice

	if absMaxX <= 0 || absMaxY <= 0 {
		return cfg, fmt.Errorf("--abs-max-x and --abs-max-y must be > 0")
	}
	cfg.absMaxX = int32(absMaxX)
	cfg.absMaxY = int32(absMaxY)

	if cfg.settle < 0 {
		return cfg, fmt.Errorf("--settle must be >= 0")
	}

	if cfg.listDevices {
		if cfg.mode != "" {
			return cfg, fmt.Errorf("--list-devices does not take a mode")
		}
		return cfg, nil
	}

	switch cfg.mode {
	case modeRecord:
		if cfg.duration <= 0 {
			return cfg, fmt.Errorf("--duration must be > 0")
		}
		if len(positional) > 0 {
			return cfg, fmt.Errorf("unexpected arguments: %s", strings.Join(positional, " "))
		}
	case modeReplay:
		if len(positional) > 0 {
			return cfg, fmt.Errorf("unexpected arguments: %s", strings.Join(positional, " "))
		}
	case modeCenter:
		if len(positional) != 2 {
			return cfg, fmt.Errorf("center expects two coordinates: center X Y")
		}
		x, err := parseCoordinate("X", positional[0])
		if err != nil {
			return cfg, err
		}
		y, err := parseCoordinate("Y", positional[1])
		if err != nil {
			return cfg, err
		}
		cfg.centerX = x
		cfg.centerY = y
	case "":
		return cfg, fmt.Errorf("missing mode (expected record|replay|center)")
	default:
		return cfg, fmt.Errorf("unknown mode %q (expected record|replay|center)", cfg.mode)
	}

	if cfg.mode != modeCenter && strings.TrimSpace(cfg.dumpPath) == "" {
		return cfg, fmt.Errorf("--file must not be empty")
	}
	return cfg, nil
}

func looksLikeInteger(value string) bool {
	_, err := strconv.ParseInt(value, 10, 64)
	return err == nil
}

func parseCoordinate(axis, value string) (int32, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s coordinate %q", axis, value)
	}
	return int32(parsed), nil
}

func isPermissionError(err error) bool {
	return errors.Is(err, os.ErrPermission) || errors.Is(err, syscall.EPERM) || errors.Is(err, syscall.EACCES)
}

func runRecord(cfg config, logger *slog.Logger) error {
	store, err := recorder.NewFileStore(cfg.dumpPath)
	if err != nil {
		return err
	}

	source, err := openCaptureSource(cfg, logger)
	if err != nil {
		return err
	}
	defer source.Close()

	capturer, err := recorder.NewCapturer(
		source,
		recorder.CaptureConfig{
			Duration: cfg.duration,
			OnRecord: func(record recorder.Record) {
				logger.Info("Received event", "event", formatRecord(record), "elapsed", record.Elapsed)
			},
		},
		logger,
	)
	if err != nil {
		return err
	}

	log, err := capturer.Capture()
	if err != nil {
		return err
	}
	if err := store.Save(log); err != nil {
		return err
	}
	logger.Info("Saved capture", "path", store.Path(), "events", len(log))
	return nil
}

func runReplay(cfg config, logger *slog.Logger) error {
	store, err := recorder.NewFileStore(cfg.dumpPath)
	if err != nil {
		return err
	}
	log, err := store.Load()
	if err != nil {
		return err
	}
	logger.Info("Loaded capture", "path", store.Path(), "events", len(log))

	player, closeEmitter, err := newPlayer(cfg, logger)
	if err != nil {
		return err
	}
	defer closeEmitter()

	return player.Play(log)
}

func runCenter(cfg config, logger *slog.Logger) error {
	player, closeEmitter, err := newPlayer(cfg, logger)
	if err != nil {
		return err
	}
	defer closeEmitter()

	return player.Position(cfg.centerX, cfg.centerY)
}

func newPlayer(cfg config, logger *slog.Logger) (*recorder.Player, func(), error) {
	emitter, err := openEmitter(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	closeEmitter := func() {
		if err := emitter.Close(); err != nil {
			logger.Warn("Closing virtual device failed", "err", err)
		}
	}

	player, err := recorder.NewPlayer(
		emitter,
		recorder.PlayerConfig{
			OnEmit: func(entry recorder.Entry) {
				logger.Info("Emitted event", "event", formatEvent(entry.Event), "elapsed", entry.Elapsed)
			},
		},
		logger,
	)
	if err != nil {
		closeEmitter()
		return nil, nil, err
	}
	return player, closeEmitter, nil
}

func formatRecord(record recorder.Record) string {
	if event, ok := record.Event(); ok {
		return formatEvent(event)
	}
	return fmt.Sprintf("%s code=%d value=%d", record.Kind, record.Code, record.Value)
}

func run(args []string, stderr io.Writer) int {
	cfg, err := parseConfig(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}

	if cfg.listDevices {
		if err := listInputDevices(); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0
	}

	logger := newSlogLogger(cfg.logLevel, stderr).With("session", uuid.NewString())

	switch cfg.mode {
	case modeRecord:
		err = runRecord(cfg, logger)
	case modeReplay:
		err = runReplay(cfg, logger)
	case modeCenter:
		err = runCenter(cfg, logger)
	}
	if err != nil {
		if isPermissionError(err) {
			fmt.Fprintln(stderr, permissionDeniedHint())
		}
		logger.Error("Run failed", "mode", cfg.mode, "err", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

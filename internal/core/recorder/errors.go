package recorder

import "errors"

var (
	ErrSourceUnavailable = errors.New("input source unavailable")
	ErrPoll              = errors.New("input source poll failed")
	ErrCorruptData       = errors.New("corrupt event log")
	ErrEmit              = errors.New("emit failed")
	ErrDeviceWrite       = errors.New("virtual device write failed")
	ErrStorage           = errors.New("event log storage failed")
)

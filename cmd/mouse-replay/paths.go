package main

import (
	"os"
	"path/filepath"
)

func defaultDumpPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil || configDir == "" {
		return filepath.Join(".", "mousedump")
	}
	return filepath.Join(configDir, "mouse-replay", "mousedump")
}

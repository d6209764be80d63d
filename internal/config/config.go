// Package config provides configuration helpers for go-biomech commands.
package config

import (
	"os"
	"strconv"
	"time"
)

// Defaults for the viewer daemon.
const (
	DefaultAddr      = ":8080"
	DefaultTick      = 16 * time.Millisecond
	DefaultSessionDB = "biomech.db"
)

// Addr returns the listen address from BIOMECH_ADDR or the default.
func Addr() string {
	if addr := os.Getenv("BIOMECH_ADDR"); addr != "" {
		return addr
	}
	return DefaultAddr
}

// Tick returns the update interval from BIOMECH_TICK_MS or the default.
// Malformed or non-positive values fall back to the default.
func Tick() time.Duration {
	ms, err := strconv.Atoi(os.Getenv("BIOMECH_TICK_MS"))
	if err != nil || ms <= 0 {
		return DefaultTick
	}
	return time.Duration(ms) * time.Millisecond
}

// SessionDB returns the sqlite path from BIOMECH_SESSION_DB or the default.
func SessionDB() string {
	if path := os.Getenv("BIOMECH_SESSION_DB"); path != "" {
		return path
	}
	return DefaultSessionDB
}

// LogLevel returns the log level from LOG_LEVEL, defaulting to "info".
func LogLevel() string {
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		return lvl
	}
	return "info"
}

// DemoMotion reports whether BIOMECH_DEMO asks the daemon to animate the
// built-in skeleton instead of holding the calibration pose.
func DemoMotion() bool {
	v, err := strconv.ParseBool(os.Getenv("BIOMECH_DEMO"))
	return err == nil && v
}

package logger

import (
	"fmt"

	"k8s.io/klog/v2"
)

// Logger provides a unified logging interface for the assistant.
// It delegates to klog in servers and can fall back to plain stdout
// in standalone testing.

// LogLevel represents log severity levels
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	// CurrentLevel is the current logging level (default: Info)
	CurrentLevel = LevelInfo

	// UseKlog controls whether to log through klog.
	// Set to false in tests to use fmt.Printf
	UseKlog = true
)

// Debugf logs a debug message
func Debugf(format string, args ...interface{}) {
	if CurrentLevel > LevelDebug {
		return
	}
	logf(LevelDebug, format, args...)
}

// Infof logs an info message
func Infof(format string, args ...interface{}) {
	if CurrentLevel > LevelInfo {
		return
	}
	logf(LevelInfo, format, args...)
}

// Warnf logs a warning message
func Warnf(format string, args ...interface{}) {
	if CurrentLevel > LevelWarn {
		return
	}
	logf(LevelWarn, format, args...)
}

// Errorf logs an error message
func Errorf(format string, args ...interface{}) {
	logf(LevelError, format, args...)
}

func logf(level LogLevel, format string, args ...interface{}) {
	if !UseKlog {
		fallbackLog(level, format, args...)
		return
	}
	switch level {
	case LevelDebug:
		klog.V(4).Infof(format, args...)
	case LevelInfo:
		klog.Infof(format, args...)
	case LevelWarn:
		klog.Warningf(format, args...)
	case LevelError:
		klog.Errorf(format, args...)
	}
}

// fallbackLog uses fmt.Printf when klog is disabled
func fallbackLog(level LogLevel, format string, args ...interface{}) {
	prefix := levelPrefix(level)
	fmt.Printf(prefix+format+"\n", args...)
}

// levelPrefix returns the prefix for each log level
func levelPrefix(level LogLevel) string {
	switch level {
	case LevelDebug:
		return "[DEBUG] "
	case LevelInfo:
		return "[INFO] "
	case LevelWarn:
		return "[WARN] "
	case LevelError:
		return "[ERROR] "
	default:
		return "[LOG] "
	}
}

// SetLevel sets the minimum log level
func SetLevel(level LogLevel) {
	CurrentLevel = level
}

// DisableKlog disables klog output (useful for tests)
func DisableKlog() {
	UseKlog = false
}

// EnableKlog enables klog output (default)
func EnableKlog() {
	UseKlog = true
}

// Package logging provides the leveled logger used by the CLI and, when --debug is
// set, by the coherence event hooks.
package logging

import (
	"fmt"
	logpkg "log"
	"os"
)

// LogLevel defines severity for logger output.
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// Logger provides leveled logging. Error-level messages go to stderr; everything
// else goes to stdout, since an invalid-configuration or trace-open failure message
// belongs on the error stream while ordinary run output does not.
type Logger struct {
	level LogLevel
	out   *logpkg.Logger
	err   *logpkg.Logger
}

// NewLogger creates a logger with the desired level and prefix.
func NewLogger(level LogLevel, prefix string) *Logger {
	flags := logpkg.LstdFlags | logpkg.Lmicroseconds
	return &Logger{
		level: level,
		out:   logpkg.New(os.Stdout, prefix, flags),
		err:   logpkg.New(os.Stderr, prefix, flags),
	}
}

// SetLevel adjusts the current logging level.
func (l *Logger) SetLevel(level LogLevel) {
	if l == nil {
		return
	}
	l.level = level
}

func (l *Logger) logf(target LogLevel, dest *logpkg.Logger, format string, args ...any) {
	if l == nil || target > l.level {
		return
	}
	dest.Output(3, fmt.Sprintf(format, args...))
}

// Debugf prints debug messages, used for per-cycle coherence tracing under --debug.
func (l *Logger) Debugf(format string, args ...any) {
	if l == nil {
		return
	}
	l.logf(LogLevelDebug, l.out, format, args...)
}

// Infof prints info messages.
func (l *Logger) Infof(format string, args ...any) {
	if l == nil {
		return
	}
	l.logf(LogLevelInfo, l.out, format, args...)
}

// Warnf prints warning messages.
func (l *Logger) Warnf(format string, args ...any) {
	if l == nil {
		return
	}
	l.logf(LogLevelWarn, l.out, format, args...)
}

// Errorf prints error messages to stderr.
func (l *Logger) Errorf(format string, args ...any) {
	if l == nil {
		return
	}
	l.logf(LogLevelError, l.err, format, args...)
}

var defaultLogger = NewLogger(LogLevelInfo, "[mesicache] ")

// GetLogger returns the global logger.
func GetLogger() *Logger {
	return defaultLogger
}

// SetLogger replaces the global logger (primarily for tests).
func SetLogger(l *Logger) {
	if l == nil {
		return
	}
	defaultLogger = l
}

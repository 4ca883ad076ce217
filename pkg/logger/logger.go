// Package logger provides a simple logging interface and implementation
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Logger defines the logging interface
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})
	Info(v ...interface{})
	Infof(format string, v ...interface{})
	Warn(v ...interface{})
	Warnf(format string, v ...interface{})
	Error(v ...interface{})
	Errorf(format string, v ...interface{})
	Fatal(v ...interface{})
	Fatalf(format string, v ...interface{})

	// With returns a child logger that attaches the key/value pairs to
	// every record.
	With(keyvals ...interface{}) Logger
}

// logger implements the Logger interface on top of charmbracelet/log
type logger struct {
	base *log.Logger
}

// New creates a new logger instance writing to stderr, with the level taken
// from LOG_LEVEL.
func New() Logger {
	return NewWithWriter(os.Stderr, os.Getenv("LOG_LEVEL"))
}

// NewWithWriter creates a logger writing to w at the given level.
func NewWithWriter(w io.Writer, level string) Logger {
	lvl := parseLevel(level)
	base := log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		ReportCaller:    lvl == log.DebugLevel,
		CallerOffset:    1,
	})
	return &logger{base: base}
}

// Nop returns a logger that discards everything. Used by tests.
func Nop() Logger {
	return NewWithWriter(io.Discard, "error")
}

// parseLevel converts string log level to a log.Level
func parseLevel(levelStr string) log.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

func (l *logger) With(keyvals ...interface{}) Logger {
	return &logger{base: l.base.With(keyvals...)}
}

func (l *logger) Debug(v ...interface{}) {
	l.base.Debug(join(v...))
}

func (l *logger) Debugf(format string, v ...interface{}) {
	l.base.Debugf(format, v...)
}

func (l *logger) Info(v ...interface{}) {
	l.base.Info(join(v...))
}

func (l *logger) Infof(format string, v ...interface{}) {
	l.base.Infof(format, v...)
}

func (l *logger) Warn(v ...interface{}) {
	l.base.Warn(join(v...))
}

func (l *logger) Warnf(format string, v ...interface{}) {
	l.base.Warnf(format, v...)
}

func (l *logger) Error(v ...interface{}) {
	l.base.Error(join(v...))
}

func (l *logger) Errorf(format string, v ...interface{}) {
	l.base.Errorf(format, v...)
}

// Fatal logs an error message and exits
func (l *logger) Fatal(v ...interface{}) {
	l.base.Fatal(join(v...))
}

// Fatalf logs a formatted error message and exits
func (l *logger) Fatalf(format string, v ...interface{}) {
	l.base.Fatalf(format, v...)
}

// join renders the variadic arguments the way fmt.Sprint does so they are
// never mistaken for key/value pairs by the backend.
func join(v ...interface{}) string {
	return fmt.Sprint(v...)
}

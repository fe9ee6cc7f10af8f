package logger

import (
	"io"
	"os"
)

// LoggerInterface defines the interface for logging
type LoggerInterface interface {
	Info(v ...any)
	Infof(format string, v ...any)
	Warn(v ...any)
	Warnf(format string, v ...any)
	Error(v ...any)
	Errorf(format string, v ...any)
	Debug(v ...any)
	Debugf(format string, v ...any)
	Close() error
}

// NewLogger creates a logger writing to stderr and, when logPath is set,
// appending to that file as well.
func NewLogger(logPath string, debug bool) (LoggerInterface, error) {
	if logPath == "" {
		return New(os.Stderr, debug), nil
	}
	return NewFileLogger(logPath, debug)
}

// Discard returns a logger that drops everything.
func Discard() LoggerInterface {
	return New(io.Discard, true)
}

package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

type Logger struct {
	infoLogger  *log.Logger
	warnLogger  *log.Logger
	errorLogger *log.Logger
	debugLogger *log.Logger
	debug       bool
	file        *os.File
}

var (
	mu       sync.RWMutex
	instance LoggerInterface = New(os.Stderr, false)
)

const flags = log.Ldate | log.Ltime

// New creates a logger that writes every level to w. Debug lines are only
// emitted when debug is set.
func New(w io.Writer, debug bool) *Logger {
	return &Logger{
		infoLogger:  log.New(w, "INFO:  ", flags),
		warnLogger:  log.New(w, "WARN:  ", flags),
		errorLogger: log.New(w, "ERROR: ", flags),
		debugLogger: log.New(w, "DEBUG: ", flags),
		debug:       debug,
	}
}

// NewFileLogger creates a logger writing to both the log file and stderr.
func NewFileLogger(logPath string, debug bool) (*Logger, error) {
	logDir := filepath.Dir(logPath)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := New(io.MultiWriter(file, os.Stderr), debug)
	l.file = file
	return l, nil
}

// SetDefault replaces the package level logger used by the helpers below.
func SetDefault(l LoggerInterface) {
	mu.Lock()
	defer mu.Unlock()
	instance = l
}

// Default returns the package level logger.
func Default() LoggerInterface {
	mu.RLock()
	defer mu.RUnlock()
	return instance
}

func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

func (l *Logger) Info(v ...any) {
	l.infoLogger.Println(v...)
}

func (l *Logger) Infof(format string, v ...any) {
	l.infoLogger.Printf(format, v...)
}

func (l *Logger) Warn(v ...any) {
	l.warnLogger.Println(v...)
}

func (l *Logger) Warnf(format string, v ...any) {
	l.warnLogger.Printf(format, v...)
}

func (l *Logger) Error(v ...any) {
	l.errorLogger.Println(v...)
}

func (l *Logger) Errorf(format string, v ...any) {
	l.errorLogger.Printf(format, v...)
}

func (l *Logger) Debug(v ...any) {
	if l.debug {
		l.debugLogger.Println(v...)
	}
}

func (l *Logger) Debugf(format string, v ...any) {
	if l.debug {
		l.debugLogger.Printf(format, v...)
	}
}

func Close() error {
	return Default().Close()
}

func Info(v ...any) {
	Default().Info(v...)
}

func Infof(format string, v ...any) {
	Default().Infof(format, v...)
}

func Warn(v ...any) {
	Default().Warn(v...)
}

func Warnf(format string, v ...any) {
	Default().Warnf(format, v...)
}

func Error(v ...any) {
	Default().Error(v...)
}

func Errorf(format string, v ...any) {
	Default().Errorf(format, v...)
}

func Debug(v ...any) {
	Default().Debug(v...)
}

func Debugf(format string, v ...any) {
	Default().Debugf(format, v...)
}

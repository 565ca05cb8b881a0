package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/meferspb/erpnext-debian13-install/internal/ports"
)

// FileLogger appends timestamped entries to the run log file. The file
// is opened append-only so interrupted runs keep their partial log.
type FileLogger struct {
	mu     sync.Mutex
	file   *os.File
	level  ports.Level
	fields []ports.Field
}

// NewFileLogger opens (or creates) the run log at path.
func NewFileLogger(path string, level ports.Level) (*FileLogger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open run log: %w", err)
	}
	return &FileLogger{file: f, level: level}, nil
}

// Close closes the underlying log file.
func (l *FileLogger) Close() error {
	return l.file.Close()
}

// Debug logs a debug message.
func (l *FileLogger) Debug(msg string, fields ...ports.Field) {
	l.log(ports.LevelDebug, msg, fields)
}

// Info logs an informational message.
func (l *FileLogger) Info(msg string, fields ...ports.Field) {
	l.log(ports.LevelInfo, msg, fields)
}

// Warn logs a warning message.
func (l *FileLogger) Warn(msg string, fields ...ports.Field) {
	l.log(ports.LevelWarn, msg, fields)
}

// Error logs an error message.
func (l *FileLogger) Error(msg string, fields ...ports.Field) {
	l.log(ports.LevelError, msg, fields)
}

// With returns a new logger with additional fields sharing the same file.
func (l *FileLogger) With(fields ...ports.Field) ports.Logger {
	newFields := make([]ports.Field, len(l.fields)+len(fields))
	copy(newFields, l.fields)
	copy(newFields[len(l.fields):], fields)

	return &FileLogger{
		file:   l.file,
		level:  l.level,
		fields: newFields,
	}
}

// Level returns the minimum log level.
func (l *FileLogger) Level() ports.Level {
	return l.level
}

// SetLevel sets the minimum log level.
func (l *FileLogger) SetLevel(level ports.Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *FileLogger) log(level ports.Level, msg string, fields []ports.Field) {
	if level < l.level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	_, _ = l.file.WriteString(formatEntry(level, msg, l.fields, fields, true, time.Now()))
}

// Ensure FileLogger implements ports.Logger.
var _ ports.Logger = (*FileLogger)(nil)

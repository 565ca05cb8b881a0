// Package logging provides logger adapters for the console and the run log.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/meferspb/erpnext-debian13-install/internal/ports"
)

// ConsoleLogger logs structured messages to the console.
type ConsoleLogger struct {
	mu          sync.Mutex
	out         io.Writer
	level       ports.Level
	fields      []ports.Field
	includeTime bool
}

// ConsoleLoggerOption configures the console logger.
type ConsoleLoggerOption func(*ConsoleLogger)

// WithOutput sets the output writer (default: os.Stderr).
func WithOutput(w io.Writer) ConsoleLoggerOption {
	return func(l *ConsoleLogger) {
		l.out = w
	}
}

// WithLevel sets the minimum log level (default: Info).
func WithLevel(level ports.Level) ConsoleLoggerOption {
	return func(l *ConsoleLogger) {
		l.level = level
	}
}

// WithTimestamp includes a timestamp in log entries.
func WithTimestamp(enabled bool) ConsoleLoggerOption {
	return func(l *ConsoleLogger) {
		l.includeTime = enabled
	}
}

// NewConsoleLogger creates a new console logger.
func NewConsoleLogger(opts ...ConsoleLoggerOption) *ConsoleLogger {
	l := &ConsoleLogger{
		out:         os.Stderr,
		level:       ports.LevelInfo,
		includeTime: true,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Debug logs a debug message.
func (l *ConsoleLogger) Debug(msg string, fields ...ports.Field) {
	l.log(ports.LevelDebug, msg, fields)
}

// Info logs an informational message.
func (l *ConsoleLogger) Info(msg string, fields ...ports.Field) {
	l.log(ports.LevelInfo, msg, fields)
}

// Warn logs a warning message.
func (l *ConsoleLogger) Warn(msg string, fields ...ports.Field) {
	l.log(ports.LevelWarn, msg, fields)
}

// Error logs an error message.
func (l *ConsoleLogger) Error(msg string, fields ...ports.Field) {
	l.log(ports.LevelError, msg, fields)
}

// With returns a new logger with additional fields.
func (l *ConsoleLogger) With(fields ...ports.Field) ports.Logger {
	newFields := make([]ports.Field, len(l.fields)+len(fields))
	copy(newFields, l.fields)
	copy(newFields[len(l.fields):], fields)

	return &ConsoleLogger{
		out:         l.out,
		level:       l.level,
		fields:      newFields,
		includeTime: l.includeTime,
	}
}

// Level returns the minimum log level.
func (l *ConsoleLogger) Level() ports.Level {
	return l.level
}

// SetLevel sets the minimum log level.
func (l *ConsoleLogger) SetLevel(level ports.Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *ConsoleLogger) log(level ports.Level, msg string, fields []ports.Field) {
	if level < l.level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	_, _ = fmt.Fprint(l.out, formatEntry(level, msg, l.fields, fields, l.includeTime, time.Now()))
}

// formatEntry renders one log line: timestamp, severity tag, message,
// then key=value fields.
func formatEntry(level ports.Level, msg string, base, extra []ports.Field, includeTime bool, now time.Time) string {
	var b []byte
	if includeTime {
		b = append(b, now.Format("2006-01-02 15:04:05")...)
		b = append(b, ' ')
	}
	b = append(b, '[')
	b = append(b, level.String()...)
	b = append(b, "] "...)
	b = append(b, msg...)
	for _, f := range base {
		b = append(b, fmt.Sprintf(" %s=%v", f.Key, f.Value)...)
	}
	for _, f := range extra {
		b = append(b, fmt.Sprintf(" %s=%v", f.Key, f.Value)...)
	}
	b = append(b, '\n')
	return string(b)
}

// Ensure ConsoleLogger implements ports.Logger.
var _ ports.Logger = (*ConsoleLogger)(nil)

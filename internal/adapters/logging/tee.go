package logging

import (
	"github.com/meferspb/erpnext-debian13-install/internal/ports"
)

// TeeLogger duplicates every entry to all underlying loggers, so a
// failure reaches both the console and the run log.
type TeeLogger struct {
	loggers []ports.Logger
}

// NewTeeLogger creates a logger that fans out to the given loggers.
func NewTeeLogger(loggers ...ports.Logger) *TeeLogger {
	return &TeeLogger{loggers: loggers}
}

// Debug logs a debug message to all loggers.
func (l *TeeLogger) Debug(msg string, fields ...ports.Field) {
	for _, lg := range l.loggers {
		lg.Debug(msg, fields...)
	}
}

// Info logs an informational message to all loggers.
func (l *TeeLogger) Info(msg string, fields ...ports.Field) {
	for _, lg := range l.loggers {
		lg.Info(msg, fields...)
	}
}

// Warn logs a warning message to all loggers.
func (l *TeeLogger) Warn(msg string, fields ...ports.Field) {
	for _, lg := range l.loggers {
		lg.Warn(msg, fields...)
	}
}

// Error logs an error message to all loggers.
func (l *TeeLogger) Error(msg string, fields ...ports.Field) {
	for _, lg := range l.loggers {
		lg.Error(msg, fields...)
	}
}

// With returns a new TeeLogger with the fields added to every underlying logger.
func (l *TeeLogger) With(fields ...ports.Field) ports.Logger {
	children := make([]ports.Logger, len(l.loggers))
	for i, lg := range l.loggers {
		children[i] = lg.With(fields...)
	}
	return &TeeLogger{loggers: children}
}

// Level returns the lowest minimum level among the underlying loggers.
func (l *TeeLogger) Level() ports.Level {
	if len(l.loggers) == 0 {
		return ports.LevelInfo
	}
	min := l.loggers[0].Level()
	for _, lg := range l.loggers[1:] {
		if lg.Level() < min {
			min = lg.Level()
		}
	}
	return min
}

// SetLevel sets the minimum level on every underlying logger.
func (l *TeeLogger) SetLevel(level ports.Level) {
	for _, lg := range l.loggers {
		lg.SetLevel(level)
	}
}

// Ensure TeeLogger implements ports.Logger.
var _ ports.Logger = (*TeeLogger)(nil)

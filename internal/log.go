package internal

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogLevel represents different logging verbosity levels
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
	LogLevelTrace
)

const slogLevelTrace = slog.LevelDebug - 4

// Logger provides leveled, structured logging. Arguments after the message
// are slog key/value pairs.
type Logger struct {
	level LogLevel
	log   *slog.Logger
}

// NewLogger creates a logger writing to w in the given format ("json" or "text")
func NewLogger(level LogLevel, format string, w io.Writer) *Logger {
	opts := &slog.HandlerOptions{Level: level.slogLevel()}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return &Logger{level: level, log: slog.New(handler)}
}

// NewDefaultLogger creates a logger based on LOG_LEVEL and LOG_FORMAT environment variables
func NewDefaultLogger() *Logger {
	return NewLogger(ParseLogLevel(os.Getenv("LOG_LEVEL")), os.Getenv("LOG_FORMAT"), os.Stderr)
}

// ParseLogLevel maps ERROR/WARN/INFO/DEBUG/TRACE to a level, defaulting to INFO
func ParseLogLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR":
		return LogLevelError
	case "WARN":
		return LogLevelWarn
	case "DEBUG":
		return LogLevelDebug
	case "TRACE":
		return LogLevelTrace
	default:
		return LogLevelInfo
	}
}

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LogLevelError:
		return slog.LevelError
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelTrace:
		return slogLevelTrace
	default:
		return slog.LevelInfo
	}
}

// With returns a logger that adds the given attributes to every record
func (l *Logger) With(args ...any) *Logger {
	return &Logger{level: l.level, log: l.log.With(args...)}
}

// Component is shorthand for With("component", name)
func (l *Logger) Component(name string) *Logger {
	return l.With("component", name)
}

// Error logs error messages
func (l *Logger) Error(msg string, args ...any) {
	l.log.Log(context.Background(), slog.LevelError, msg, args...)
}

// Warn logs warning messages
func (l *Logger) Warn(msg string, args ...any) {
	l.log.Log(context.Background(), slog.LevelWarn, msg, args...)
}

// Info logs info messages
func (l *Logger) Info(msg string, args ...any) {
	l.log.Log(context.Background(), slog.LevelInfo, msg, args...)
}

// Debug logs debug messages
func (l *Logger) Debug(msg string, args ...any) {
	l.log.Log(context.Background(), slog.LevelDebug, msg, args...)
}

// Trace logs trace messages
func (l *Logger) Trace(msg string, args ...any) {
	l.log.Log(context.Background(), slogLevelTrace, msg, args...)
}

// GetLevel returns the current log level
func (l *Logger) GetLevel() LogLevel {
	return l.level
}

// Slog exposes the underlying slog logger for libraries that accept one
func (l *Logger) Slog() *slog.Logger {
	return l.log
}

// Global logger instance
var DefaultLogger = NewDefaultLogger()

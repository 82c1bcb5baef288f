// Package logging provides the printf-style Logger urlkit packages log through
// and its zap-backed implementation.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel names a minimum severity.
type LogLevel string

const (
	LevelInfo  LogLevel = "INFO"
	LevelWarn  LogLevel = "WARN"
	LevelError LogLevel = "ERROR"
	LevelDebug LogLevel = "DEBUG"
)

// Logger is the printf-style logger accepted by urlkit packages.
type Logger interface {
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Debug(msg string, args ...interface{})
}

// ParseLevel maps a case-insensitive level name onto a LogLevel.
// An empty name means LevelInfo.
func ParseLevel(name string) (LogLevel, error) {
	switch level := LogLevel(strings.ToUpper(strings.TrimSpace(name))); level {
	case "":
		return LevelInfo, nil
	case LevelInfo, LevelWarn, LevelError, LevelDebug:
		return level, nil
	default:
		return "", fmt.Errorf("unknown log level %q", name)
	}
}

func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// ZapLogger adapts a zap SugaredLogger to the Logger interface.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZap builds a zap-backed Logger writing to stderr. Development mode
// switches to the human-readable console encoder.
func NewZap(level LogLevel, development bool) (*ZapLogger, error) {
	config := zap.NewProductionConfig()
	if development {
		config = zap.NewDevelopmentConfig()
	}
	config.Level = zap.NewAtomicLevelAt(level.zapLevel())
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return &ZapLogger{sugar: logger.Sugar()}, nil
}

// FromZap wraps an existing zap logger.
func FromZap(logger *zap.Logger) *ZapLogger {
	return &ZapLogger{sugar: logger.Sugar()}
}

// Nop returns a Logger that discards everything.
func Nop() *ZapLogger {
	return FromZap(zap.NewNop())
}

// Info logs at info level.
func (l *ZapLogger) Info(msg string, args ...interface{}) {
	l.sugar.Infof(msg, args...)
}

// Warn logs at warn level.
func (l *ZapLogger) Warn(msg string, args ...interface{}) {
	l.sugar.Warnf(msg, args...)
}

// Error logs at error level.
func (l *ZapLogger) Error(msg string, args ...interface{}) {
	l.sugar.Errorf(msg, args...)
}

// Debug logs at debug level.
func (l *ZapLogger) Debug(msg string, args ...interface{}) {
	l.sugar.Debugf(msg, args...)
}

// Sync flushes any buffered entries.
func (l *ZapLogger) Sync() error {
	return l.sugar.Sync()
}

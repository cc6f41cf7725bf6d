package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/user/framerec/pkg/ports"
)

// JSONLogger writes one JSON object per message using zerolog.
// Messages are not translated so log processors see stable keys.
type JSONLogger struct {
	logger zerolog.Logger
}

// NewJSON creates a JSON logger writing to stderr.
func NewJSON(level ports.LogLevel) *JSONLogger {
	return NewJSONWriter(os.Stderr, level)
}

// NewJSONWriter creates a JSON logger writing to w.
func NewJSONWriter(w io.Writer, level ports.LogLevel) *JSONLogger {
	l := zerolog.New(w).With().Timestamp().Int("pid", os.Getpid()).Logger().Level(zerologLevel(level))
	return &JSONLogger{logger: l}
}

func zerologLevel(level ports.LogLevel) zerolog.Level {
	switch level {
	case ports.LevelDebug:
		return zerolog.DebugLevel
	case ports.LevelInfo:
		return zerolog.InfoLevel
	case ports.LevelWarn:
		return zerolog.WarnLevel
	case ports.LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.Disabled
	}
}

// Debug logs a debug message.
func (l *JSONLogger) Debug(msg string, args ...interface{}) {
	l.logger.Debug().Msgf(msg, args...)
}

// Info logs an informational message.
func (l *JSONLogger) Info(msg string, args ...interface{}) {
	l.logger.Info().Msgf(msg, args...)
}

// Warn logs a warning message.
func (l *JSONLogger) Warn(msg string, args ...interface{}) {
	l.logger.Warn().Msgf(msg, args...)
}

// Error logs an error message.
func (l *JSONLogger) Error(msg string, args ...interface{}) {
	l.logger.Error().Msgf(msg, args...)
}

// WithComponent returns a logger that adds a "component" field.
func (l *JSONLogger) WithComponent(component string) ports.Logger {
	return &JSONLogger{logger: l.logger.With().Str("component", component).Logger()}
}

var _ ports.Logger = (*JSONLogger)(nil)

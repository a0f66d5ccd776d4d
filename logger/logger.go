// Package logger builds the process-wide zap logger.
package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel parses a level name. Unknown names mean info.
func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New creates a logger. format "json" selects the production encoder,
// anything else the human readable development one.
func New(level zapcore.Level, format string) (*zap.Logger, error) {
	var config zap.Config
	if format == "json" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	}
	config.Level = zap.NewAtomicLevelAt(level)
	return config.Build()
}

// NewFromConfig creates a logger from string settings, falling back to a
// no-op logger when the configuration cannot be built.
func NewFromConfig(level, format string) *zap.Logger {
	l, err := New(ParseLevel(level), format)
	if err != nil {
		return zap.NewNop()
	}
	return l
}

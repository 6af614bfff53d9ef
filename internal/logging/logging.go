// Package logging builds the process-wide zap logger.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger returns a production JSON logger, or a human-readable console
// logger when development is true.
func NewLogger(development bool) (*zap.Logger, error) {
	if development {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return cfg.Build()
	}
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// MustNewLogger is NewLogger that panics on failure. Intended for process
// startup where there is nothing sensible to do with the error.
func MustNewLogger(development bool) *zap.Logger {
	l, err := NewLogger(development)
	if err != nil {
		panic(err)
	}
	return l
}

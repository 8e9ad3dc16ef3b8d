// Package logging provides the zap logger conventions used across the SDK.
//
// Output format and level are driven by the environment: LOG_FORMAT=development
// selects a human-readable console encoder, and LOG_LEVEL overrides the
// minimum level.
package logging

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var baseLogger = zap.Must(NewConfig().Build())

type contextKey int

const contextFieldsKey contextKey = iota

// New creates a logger named so that log lines can be traced back to the
// package that emitted them.
func New(name string) *zap.Logger {
	return baseLogger.Named(name)
}

// NewConfig builds the zap configuration described by the environment.
func NewConfig() zap.Config {
	config := newProductionConfig()
	if os.Getenv("LOG_FORMAT") == "development" {
		config = newDevelopmentConfig()
	}

	if level, ok := os.LookupEnv("LOG_LEVEL"); ok {
		if lvl, err := zap.ParseAtomicLevel(level); err == nil {
			config.Level = lvl
		}
	}

	return config
}

func newProductionConfig() zap.Config {
	return zap.Config{
		Level:       zap.NewAtomicLevelAt(zap.InfoLevel),
		Development: false,
		Sampling: &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		},
		Encoding:      "json",
		EncoderConfig: newProductionEncoderConfig(),
		OutputPaths:   []string{"stdout"},
	}
}

func newDevelopmentConfig() zap.Config {
	encoderConfig := newProductionEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderConfig.NameKey = ""

	return zap.Config{
		Level:             zap.NewAtomicLevelAt(zap.DebugLevel),
		Development:       true,
		DisableStacktrace: true,
		Encoding:          "console",
		EncoderConfig:     encoderConfig,
		OutputPaths:       []string{"stderr"},
	}
}

func newProductionEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "severity",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// GetFields returns the log fields attached to ctx, if any.
func GetFields(ctx context.Context) []zap.Field {
	f, ok := ctx.Value(contextFieldsKey).([]zap.Field)
	if !ok {
		return nil
	}
	return f
}

// AddFields returns a context carrying the given log fields in addition to
// any already present. The existing slice is copied, never mutated, so
// contexts derived from the same parent stay independent.
func AddFields(ctx context.Context, fields ...zap.Field) context.Context {
	existing := GetFields(ctx)
	combined := make([]zap.Field, 0, len(existing)+len(fields))
	combined = append(combined, existing...)
	combined = append(combined, fields...)
	return context.WithValue(ctx, contextFieldsKey, combined)
}

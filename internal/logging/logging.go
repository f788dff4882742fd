// Package logging builds the zap loggers used across inkstone.
package logging

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel parses a level name. Unknown names yield info.
func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Config configures New.
type Config struct {
	// Level is the minimum level written.
	Level string
	// Format is "json" or "console".
	Format string
	// Output defaults to os.Stderr.
	Output io.Writer
}

// DefaultConfig returns console logging at info level to stderr.
func DefaultConfig() Config {
	return Config{Level: "info", Format: "console", Output: os.Stderr}
}

// New builds a logger from cfg.
func New(cfg Config) *zap.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	var enc zapcore.Encoder
	if cfg.Format == "json" {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		ec := zap.NewDevelopmentEncoderConfig()
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(ec)
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(cfg.Output), ParseLevel(cfg.Level))
	return zap.New(core)
}

// WithComponent tags every entry of l with a component field.
func WithComponent(l *zap.Logger, component string) *zap.Logger {
	return l.With(zap.String("component", component))
}

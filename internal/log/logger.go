// Package log provides the structured logger shared by the CLI and the
// internal packages.
package log

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	FieldComponent = "component"
	FieldPath      = "path"
	FieldFormat    = "format"
	FieldSidebar   = "sidebar"
	FieldSection   = "section"
)

// Config captures options for configuring the base logger.
type Config struct {
	Level   string    // optional log level ("debug", "info", etc.)
	Output  io.Writer // optional writer (defaults to os.Stderr)
	Console bool      // human-readable output instead of JSON lines
}

var (
	mu   sync.RWMutex
	base = zerolog.New(os.Stderr).With().Timestamp().Logger()
)

// Configure replaces the base logger. Level falls back to LOG_LEVEL, then info.
func Configure(cfg Config) {
	level := zerolog.InfoLevel
	name := cfg.Level
	if name == "" {
		name = os.Getenv("LOG_LEVEL")
	}
	if name != "" {
		if parsed, err := zerolog.ParseLevel(name); err == nil {
			level = parsed
		}
	}
	zerolog.TimeFieldFormat = time.RFC3339

	writer := cfg.Output
	if writer == nil {
		writer = os.Stderr
	}
	if cfg.Console {
		writer = zerolog.ConsoleWriter{Out: writer, TimeFormat: time.Kitchen, NoColor: cfg.Output != nil}
	}

	l := zerolog.New(writer).Level(level).With().Timestamp().Logger()

	mu.Lock()
	base = l
	mu.Unlock()
}

// Base returns the configured base logger.
func Base() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// WithComponent returns a child logger annotated with the given component name.
func WithComponent(component string) zerolog.Logger {
	return Base().With().Str(FieldComponent, component).Logger()
}

// FromContext returns the logger stored in ctx, or the base logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
			return l
		}
	}
	b := Base()
	return &b
}

// WithContext stores logger in ctx for FromContext.
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return logger.WithContext(ctx)
}

// SPDX-License-Identifier: Apache-2.0

// Package logger provides structured logging for the catalog tools.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/teplomarket/catalog-mcp/internal/catalog"
)

// Logger wraps zerolog with catalog-specific helpers.
type Logger struct {
	zlog zerolog.Logger
}

// Config holds logger configuration.
type Config struct {
	Level  string // debug, info, warn, error
	Pretty bool   // human-readable console output
	Output io.Writer
}

// NewLogger creates a new structured logger.
func NewLogger(cfg Config) *Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}
	}

	zlog := zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Str("service", "catalogctl").
		Logger()
	return &Logger{zlog: zlog}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

// GetZerolog returns the underlying zerolog logger.
func (l *Logger) GetZerolog() *zerolog.Logger {
	return &l.zlog
}

func (l *Logger) Info() *zerolog.Event { return l.zlog.Info() }
func (l *Logger) Debug() *zerolog.Event { return l.zlog.Debug() }
func (l *Logger) Warn() *zerolog.Event { return l.zlog.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zlog.Error() }

// StepLogger returns a logger for one transform step.
func (l *Logger) StepLogger(op string) *Logger {
	return &Logger{
		zlog: l.zlog.With().
			Str("component", "pipeline").
			Str("op", op).
			Logger(),
	}
}

// StoreLogger returns a logger for file operations.
func (l *Logger) StoreLogger(path string) *Logger {
	return &Logger{
		zlog: l.zlog.With().
			Str("component", "store").
			Str("path", path).
			Logger(),
	}
}

// LogReport logs a summary line for the report, one warning per skipped or
// conflicting item, and the remaining events at debug level.
func (l *Logger) LogReport(r *catalog.Report, duration time.Duration) {
	for _, e := range r.Events {
		var event *zerolog.Event
		switch e.Kind {
		case catalog.EventSkipped, catalog.EventConflict:
			event = l.zlog.Warn()
		default:
			event = l.zlog.Debug()
		}
		event.
			Str("op", e.Op).
			Str("kind", string(e.Kind)).
			Str("id", e.ID).
			Str("path", e.Path).
			Msg(e.Message)
	}
	l.zlog.Info().
		Str("op", r.Op).
		Int("processed", r.Processed).
		Int("skipped", r.Skipped).
		Dur("duration_ms", duration).
		Msg("Transform completed")
}

// LogLoad logs a document load.
func (l *Logger) LogLoad(path, format string, doc *catalog.Document) {
	l.zlog.Info().
		Str("event", "load").
		Str("path", path).
		Str("format", format).
		Str("shape", doc.Shape().String()).
		Int("entries", doc.Len()).
		Msg("Catalog loaded")
}

// LogSave logs a document write.
func (l *Logger) LogSave(path string, size int) {
	l.zlog.Info().
		Str("event", "save").
		Str("path", path).
		Int("bytes", size).
		Msg("Catalog saved")
}

package utils

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// Logger is a wrapper around zerolog.Logger
type Logger struct {
	zerolog.Logger
}

// LoggerOptions contains options for creating a logger
type LoggerOptions struct {
	Level   string // trace, debug, info, warn, error or off
	Format  string // "pretty" or "json"
	Output  io.Writer
	Verbose bool // forces debug
	NoColor bool // plain pretty output, for files and pipes
}

// NewLogger creates a new logger with the given options
func NewLogger(opts LoggerOptions) *Logger {
	level := parseLogLevel(opts.Level)
	if opts.Verbose && level > zerolog.DebugLevel {
		level = zerolog.DebugLevel
	}

	zl := zerolog.New(opts.writer()).
		Level(level).
		With().
		Timestamp().
		Logger()
	return &Logger{Logger: zl}
}

func (opts LoggerOptions) writer() io.Writer {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	if strings.EqualFold(opts.Format, "pretty") {
		return zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			NoColor:    opts.NoColor,
		}
	}
	return out
}

// NewDefaultLogger creates an info level pretty logger on stderr
func NewDefaultLogger() *Logger {
	return NewLogger(LoggerOptions{Level: "info", Format: "pretty"})
}

// NewNopLogger creates a logger that discards everything
func NewNopLogger() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}

func parseLogLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "off", "disabled", "none":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// WithComponent returns a logger with a component field
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{Logger: l.With().Str("component", component).Logger()}
}

// WithRepository returns a logger with a repository field ("owner/repo")
func (l *Logger) WithRepository(repository string) *Logger {
	return &Logger{Logger: l.With().Str("repository", repository).Logger()}
}

// WithSpan adds the trace and span ids of the span active in ctx. Without
// a recording span the logger is returned unchanged.
func (l *Logger) WithSpan(ctx context.Context) *Logger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return l
	}
	return &Logger{Logger: l.With().
		Str("trace_id", sc.TraceID().String()).
		Str("span_id", sc.SpanID().String()).
		Logger()}
}

// SetGlobalLevel sets the global log level
func SetGlobalLevel(level string) {
	zerolog.SetGlobalLevel(parseLogLevel(level))
}

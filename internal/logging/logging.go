package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// Formats accepted by Config.Format.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Config describes where and how to log.
type Config struct {
	Level  string    // zerolog level name; invalid or empty means info
	Format string    // FormatJSON or FormatConsole
	File   string    // append to this file when set
	Writer io.Writer // used when File is empty; nil means stderr
}

// Result is a configured logger plus the file handle backing it, if any.
type Result struct {
	Logger    zerolog.Logger
	FilePath  string
	UsingFile bool
	file      *os.File
}

// Close releases the log file. It is safe to call on a nil Result.
func (r *Result) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// New builds a zerolog logger from cfg. When cfg.File is set the parent
// directory is created and the file is opened for append.
func New(cfg Config) (*Result, error) {
	res := &Result{}
	out := cfg.Writer
	if out == nil {
		out = os.Stderr
	}
	if path := strings.TrimSpace(cfg.File); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		res.file = f
		res.FilePath = path
		res.UsingFile = true
		out = f
	}

	if strings.EqualFold(strings.TrimSpace(cfg.Format), FormatConsole) {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: res.UsingFile}
	}

	res.Logger = zerolog.New(out).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()
	return res, nil
}

// ParseLevel parses a level name, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	level = strings.TrimSpace(level)
	if level == "" {
		return zerolog.InfoLevel
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Component returns a child logger tagged with the component name.
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}

// NewTraceID returns a fresh ULID string.
func NewTraceID() string {
	return ulid.Make().String()
}

type traceIDKey struct{}

// ContextWithTraceID stores id in ctx.
func ContextWithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, id)
}

// TraceIDFromContext returns the trace id stored in ctx, or "".
func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(traceIDKey{}).(string)
	return id
}

// GetOrGenerateTraceID returns the trace id in ctx, generating one if absent.
func GetOrGenerateTraceID(ctx context.Context) string {
	if id := TraceIDFromContext(ctx); id != "" {
		return id
	}
	return NewTraceID()
}

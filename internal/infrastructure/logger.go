package infrastructure

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"ingestcli/internal/config"
)

// contextKey is a type for context keys
type contextKey string

const (
	// RunIDContextKey is the key for storing the pipeline run ID in context
	RunIDContextKey contextKey = "run_id"

	// lineTimeFormat matches "2024-05-01 09:30:12,345"
	lineTimeFormat = "2006-01-02 15:04:05"
)

// NewLogger builds a logger from configuration. The returned closer releases
// the log file and must be called once the logger is no longer used.
// Line format: "<timestamp> - <logger-name> - <level> - <message>".
func NewLogger(cfg config.LoggingConfig) (*slog.Logger, io.Closer, error) {
	return newLogger(cfg, os.Stdout)
}

func newLogger(cfg config.LoggingConfig, stdout io.Writer) (*slog.Logger, io.Closer, error) {
	level := parseLogLevel(cfg.Level)

	var (
		output io.Writer
		closer io.Closer = nopCloser{}
	)

	switch strings.ToLower(cfg.Output) {
	case "file":
		file, err := openLogFile(cfg.FilePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output, closer = file, file
	case "both":
		file, err := openLogFile(cfg.FilePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output, closer = io.MultiWriter(stdout, file), file
	default:
		output = stdout
	}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "json" {
		handler = slog.NewJSONHandler(output, &slog.HandlerOptions{Level: level}).
			WithAttrs([]slog.Attr{slog.String("logger", cfg.Name)})
	} else {
		handler = NewLineHandler(output, cfg.Name, level)
	}

	return slog.New(&runHandler{Handler: handler}), closer, nil
}

// LineHandler renders records as single text lines:
//
//	2024-05-01 09:30:12,345 - data_ingestion - DEBUG - Data loaded from spam.csv
//
// The line carries the message only. An "error" attribute is folded into it
// as "<message>: <error>"; every other attribute is left to the JSON format.
type LineHandler struct {
	mu      *sync.Mutex
	w       io.Writer
	name    string
	level   slog.Leveler
	cause   string
	grouped bool
}

// NewLineHandler creates a LineHandler writing to w
func NewLineHandler(w io.Writer, name string, level slog.Leveler) *LineHandler {
	return &LineHandler{mu: &sync.Mutex{}, w: w, name: name, level: level}
}

// Enabled reports whether the level is at or above the handler threshold
func (h *LineHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle writes one line for the record
func (h *LineHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer
	buf.WriteString(formatLineTime(r.Time))
	buf.WriteString(" - ")
	buf.WriteString(h.name)
	buf.WriteString(" - ")
	buf.WriteString(levelName(r.Level))
	buf.WriteString(" - ")
	buf.WriteString(r.Message)

	cause := h.cause
	if !h.grouped {
		r.Attrs(func(a slog.Attr) bool {
			if c, ok := errorCause(a); ok {
				cause = c
			}
			return true
		})
	}
	if cause != "" {
		buf.WriteString(": ")
		buf.WriteString(cause)
	}
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

// WithAttrs returns a handler that keeps an "error" attribute for later lines
func (h *LineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if h.grouped {
		return h
	}
	clone := *h
	for _, a := range attrs {
		if c, ok := errorCause(a); ok {
			clone.cause = c
		}
	}
	return &clone
}

// WithGroup returns a handler whose later attributes are never folded
func (h *LineHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.grouped = true
	return &clone
}

func errorCause(a slog.Attr) (string, bool) {
	if a.Key != "error" {
		return "", false
	}
	s := a.Value.Resolve().String()
	return s, s != ""
}

func formatLineTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return fmt.Sprintf("%s,%03d", t.Format(lineTimeFormat), t.Nanosecond()/int(time.Millisecond))
}

// levelName uses the level vocabulary of the log consumers (WARNING, not WARN)
func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARNING"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

// runHandler wraps a slog.Handler to inject run_id from context
type runHandler struct {
	slog.Handler
}

// Handle adds run_id to the record if present in context
func (h *runHandler) Handle(ctx context.Context, r slog.Record) error {
	if runID := GetRunID(ctx); runID != "" {
		r.AddAttrs(slog.String("run_id", runID))
	}
	return h.Handler.Handle(ctx, r)
}

// WithAttrs returns a new Handler with additional attributes
func (h *runHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &runHandler{Handler: h.Handler.WithAttrs(attrs)}
}

// WithGroup returns a new Handler with the given group name
func (h *runHandler) WithGroup(name string) slog.Handler {
	return &runHandler{Handler: h.Handler.WithGroup(name)}
}

// parseLogLevel converts string log level to slog.Level
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// DiscardLogger returns a logger that drops everything
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openLogFile opens or creates a log file in append mode
func openLogFile(filePath string) (*os.File, error) {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", filePath, err)
	}

	return file, nil
}

package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

// LogRecord is one captured log record
type LogRecord struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// LogCapture is a slog.Handler that keeps every record in memory. Handlers
// derived through WithAttrs share the same record store.
type LogCapture struct {
	store *recordStore
	attrs []slog.Attr
	t     *testing.T
}

type recordStore struct {
	mu      sync.Mutex
	records []LogRecord
}

// NewLogCapture creates a capture handler; records are echoed to t.Logf when t is set
func NewLogCapture(t *testing.T) *LogCapture {
	return &LogCapture{store: &recordStore{}, t: t}
}

// NewTestLogger returns a logger writing into a fresh capture
func NewTestLogger(t *testing.T) (*slog.Logger, *LogCapture) {
	capture := NewLogCapture(t)
	return slog.New(capture), capture
}

// Enabled captures every level
func (h *LogCapture) Enabled(context.Context, slog.Level) bool {
	return true
}

// Handle stores the record
func (h *LogCapture) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	h.store.mu.Lock()
	h.store.records = append(h.store.records, LogRecord{
		Time:    r.Time,
		Level:   r.Level,
		Message: r.Message,
		Attrs:   attrs,
	})
	h.store.mu.Unlock()

	if h.t != nil {
		h.t.Logf("[%s] %s %v", r.Level, r.Message, attrs)
	}
	return nil
}

// WithAttrs returns a handler that adds attrs to every captured record
func (h *LogCapture) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &clone
}

// WithGroup is a no-op; groups are flattened
func (h *LogCapture) WithGroup(string) slog.Handler {
	return h
}

// Records returns a copy of the captured records
func (h *LogCapture) Records() []LogRecord {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	records := make([]LogRecord, len(h.store.records))
	copy(records, h.store.records)
	return records
}

// AtLevel returns the records logged at exactly level
func (h *LogCapture) AtLevel(level slog.Level) []LogRecord {
	var filtered []LogRecord
	for _, r := range h.Records() {
		if r.Level == level {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// Errors returns the error-level records
func (h *LogCapture) Errors() []LogRecord {
	return h.AtLevel(slog.LevelError)
}

// Contains reports whether any record message contains message
func (h *LogCapture) Contains(message string) bool {
	for _, r := range h.Records() {
		if strings.Contains(r.Message, message) {
			return true
		}
	}
	return false
}

// Reset drops all captured records
func (h *LogCapture) Reset() {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	h.store.records = h.store.records[:0]
}

// AssertSingleError fails t unless exactly one error record was captured
// and its message contains message.
func AssertSingleError(t *testing.T, h *LogCapture, message string) {
	t.Helper()

	errs := h.Errors()
	if len(errs) != 1 {
		t.Errorf("expected exactly one error record, got %d", len(errs))
		for _, r := range errs {
			t.Logf("  - %s %v", r.Message, r.Attrs)
		}
		return
	}
	if !strings.Contains(errs[0].Message, message) {
		t.Errorf("error record %q does not contain %q", errs[0].Message, message)
	}
}

// AssertNoErrors fails t if any error record was captured
func AssertNoErrors(t *testing.T, h *LogCapture) {
	t.Helper()

	for _, r := range h.Errors() {
		t.Errorf("unexpected error record: %s %v", r.Message, r.Attrs)
	}
}

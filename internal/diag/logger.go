// Package diag provides the structured logger of the ligaplan command.
//
// Every line is a JSON object on the configured writer carrying the run id
// (corr_id) and, for component loggers, the component name (comp).
package diag

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Logger is a JSON logger bound to one run.
type Logger struct {
	*slog.Logger
	runID string
}

// ParseLevel maps debug, info, warn and error to slog levels. Unknown or
// empty values map to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New creates a logger writing JSON lines to w with a fresh run id.
func New(w io.Writer, level string) *Logger {
	return NewWithRunID(w, level, uuid.NewString())
}

// NewWithRunID creates a logger with a fixed run id.
func NewWithRunID(w io.Writer, level, runID string) *Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	return &Logger{
		Logger: slog.New(h).With("corr_id", runID),
		runID:  runID,
	}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return NewWithRunID(io.Discard, "error", "")
}

// RunID returns the correlation id of the run.
func (l *Logger) RunID() string {
	return l.runID
}

// Comp returns a logger for one component.
func (l *Logger) Comp(name string) *slog.Logger {
	return l.Logger.With("comp", name)
}

// Start logs a start event for comp and returns a timer for the matching
// finish or error event.
func (l *Logger) Start(comp, msg string, args ...any) *Timer {
	log := l.Comp(comp).With(args...)
	log.Info(msg, "stage", "start")
	return &Timer{log: log, t0: time.Now()}
}

// Timer measures one start→finish span.
type Timer struct {
	log *slog.Logger
	t0  time.Time
}

// Finish logs the finish event with the elapsed time and a result count.
func (t *Timer) Finish(msg string, count int, args ...any) {
	if t == nil {
		return
	}
	args = append([]any{"stage", "finish", "dur_ms", time.Since(t.t0).Milliseconds(), "count", count}, args...)
	t.log.Info(msg, args...)
}

// Fail logs an error event and returns err.
func (t *Timer) Fail(msg string, err error) error {
	if t == nil {
		return err
	}
	t.log.Error(msg, "stage", "error", "dur_ms", time.Since(t.t0).Milliseconds(), "err", err)
	return err
}

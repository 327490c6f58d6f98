// Package analogger is the analyzer's process-wide logging facility: a
// fixed-size ring buffer addressed as Log/Write/Tail, constructed per
// run instead of relying on package-level state. The ring buffer is the
// thing every warning is recorded into (Tail is what a "last N warnings"
// command would read from); a slog.Handler sink, fanned out with
// samber/slog-multi, is layered on top so warnings also reach stderr (or a
// JSON stream, for non-interactive CI use) as they happen.
package analogger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/fatih/color"
	slogmulti "github.com/samber/slog-multi"
)

const defaultCapacity = 500

type entry struct {
	tag string
	msg string
}

// Logger is a ring buffer of the most recent log entries plus a structured
// slog sink. The zero value is not usable; construct with New.
type Logger struct {
	mu       sync.Mutex
	entries  []entry
	capacity int
	slog     *slog.Logger
}

// Option configures a Logger constructed with New.
type Option func(*Logger)

// WithCapacity overrides the ring buffer's capacity (default 500 entries).
func WithCapacity(n int) Option {
	return func(l *Logger) {
		if n > 0 {
			l.capacity = n
		}
	}
}

// WithJSON switches the stderr sink to JSON, for non-interactive runs
// (CI logs, piped output) where a human-oriented line format is wasted.
func WithJSON() Option {
	return func(l *Logger) {
		l.slog = slog.New(slogmulti.Fanout(
			slog.NewJSONHandler(os.Stderr, nil),
		))
	}
}

// WithColor switches the stderr sink to one that colors WARN/ERROR
// level prefixes, for interactive terminal sessions; callers decide
// enabled from a TTY check, since a slog handler has no way to ask
// that itself.
func WithColor(enabled bool) Option {
	return func(l *Logger) {
		l.slog = slog.New(slogmulti.Fanout(
			&coloredTextHandler{inner: slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}), enabled: enabled},
		))
	}
}

// coloredTextHandler wraps a slog.TextHandler, prefixing WARN and
// ERROR records with a colored tag so they stand out in an
// interactive terminal. It delegates every other concern (attrs,
// groups, formatting) to the wrapped handler unchanged.
type coloredTextHandler struct {
	inner   slog.Handler
	enabled bool
}

var (
	warnTag  = color.New(color.FgYellow, color.Bold).Sprint("WARN")
	errorTag = color.New(color.FgRed, color.Bold).Sprint("ERROR")
)

func (h *coloredTextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *coloredTextHandler) Handle(ctx context.Context, r slog.Record) error {
	if !h.enabled {
		return h.inner.Handle(ctx, r)
	}
	switch {
	case r.Level >= slog.LevelError:
		r.Message = errorTag + " " + r.Message
	case r.Level >= slog.LevelWarn:
		r.Message = warnTag + " " + r.Message
	}
	return h.inner.Handle(ctx, r)
}

func (h *coloredTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &coloredTextHandler{inner: h.inner.WithAttrs(attrs), enabled: h.enabled}
}

func (h *coloredTextHandler) WithGroup(name string) slog.Handler {
	return &coloredTextHandler{inner: h.inner.WithGroup(name), enabled: h.enabled}
}

// New returns a Logger with a text handler on stderr as its default sink.
func New(opts ...Option) *Logger {
	l := &Logger{
		capacity: defaultCapacity,
		entries:  make([]entry, 0, defaultCapacity),
	}
	l.slog = slog.New(slogmulti.Fanout(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}),
	))
	for _, o := range opts {
		o(l)
	}
	return l
}

// Log records a message under tag, both in the ring buffer and through the
// structured sink at Info level.
func (l *Logger) Log(tag, msg string) {
	l.mu.Lock()
	l.entries = append(l.entries, entry{tag: tag, msg: msg})
	if len(l.entries) > l.capacity {
		l.entries = l.entries[len(l.entries)-l.capacity:]
	}
	l.mu.Unlock()

	l.slog.Info(msg, "tag", tag)
}

// Warnf implements idferr.Logger: it formats pattern/values and records the
// result as a warning-level entry, both in the ring buffer and the
// structured sink.
func (l *Logger) Warnf(tag, pattern string, values ...interface{}) {
	msg := fmt.Sprintf(pattern, values...)

	l.mu.Lock()
	l.entries = append(l.entries, entry{tag: tag, msg: msg})
	if len(l.entries) > l.capacity {
		l.entries = l.entries[len(l.entries)-l.capacity:]
	}
	l.mu.Unlock()

	l.slog.Warn(msg, "tag", tag)
}

// Write writes every entry recorded so far to w, one "tag: message" line
// per entry.
func (l *Logger) Write(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		fmt.Fprintf(w, "%s: %s\n", e.tag, e.msg)
	}
}

// Tail writes the last n entries to w, or every entry if n exceeds the
// number recorded.
func (l *Logger) Tail(w io.Writer, n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n > len(l.entries) {
		n = len(l.entries)
	}
	for _, e := range l.entries[len(l.entries)-n:] {
		fmt.Fprintf(w, "%s: %s\n", e.tag, e.msg)
	}
}

// Clear empties the ring buffer without affecting the structured sink.
func (l *Logger) Clear() {
	l.mu.Lock()
	l.entries = l.entries[:0]
	l.mu.Unlock()
}

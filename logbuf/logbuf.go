// Package logbuf provides a slog.Handler that wraps another handler and also
// retains rendered log lines in a bounded in-memory ring, oldest first, so the
// browser UI can display the session's activity feed.
package logbuf

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// AttrTag is the attribute key that carries the activity-feed tag of a record.
const AttrTag = "tag"

// Activity-feed tags. Records without an explicit tag get one derived from
// their level.
const (
	TagStart   = "START"
	TagSystem  = "SYSTEM"
	TagSuccess = "SUCCESS"
	TagError   = "ERROR"
	TagAI      = "AI"
)

// Buffer holds the rendered lines. Safe for concurrent use.
type Buffer struct {
	mu    sync.Mutex
	lines []string
	max   int
}

// NewBuffer creates a buffer that keeps at most max lines, dropping the
// oldest ones first.
func NewBuffer(max int) *Buffer {
	if max <= 0 {
		max = 500
	}
	return &Buffer{max: max}
}

func (b *Buffer) append(line string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = append(b.lines, line)
	if len(b.lines) > b.max {
		b.lines = b.lines[len(b.lines)-b.max:]
	}
}

// Lines returns a copy of the retained lines in insertion order.
func (b *Buffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// Reset drops all retained lines.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = nil
}

// Handler forwards every record to an inner handler and renders a tagged,
// timestamped line into a Buffer.
type Handler struct {
	inner slog.Handler
	buf   *Buffer
	attrs []slog.Attr
}

// NewHandler wraps inner so records also land in buf.
func NewHandler(inner slog.Handler, buf *Buffer) *Handler {
	return &Handler{inner: inner, buf: buf}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	tag := ""
	extra := make([]string, 0, r.NumAttrs())
	collect := func(a slog.Attr) {
		if a.Key == AttrTag {
			tag = a.Value.String()
			return
		}
		extra = append(extra, fmt.Sprintf("%s=%v", a.Key, a.Value))
	}
	for _, a := range h.attrs {
		collect(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		collect(a)
		return true
	})
	if tag == "" {
		tag = levelTag(r.Level)
	}

	line := fmt.Sprintf("%s [%s] %s", r.Time.Format("15:04:05"), tag, r.Message)
	if len(extra) > 0 {
		line += " " + strings.Join(extra, " ")
	}
	h.buf.append(line)
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &Handler{inner: h.inner.WithAttrs(attrs), buf: h.buf, attrs: merged}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{inner: h.inner.WithGroup(name), buf: h.buf, attrs: h.attrs}
}

func levelTag(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return TagError
	case level <= slog.LevelDebug:
		return TagAI
	}
	return TagSystem
}

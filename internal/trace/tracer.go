// Package trace provides leveled diagnostics for the makefile synthesis
// pipeline. Events are plain prefixed lines; the zero-overhead Nop tracer is
// used when tracing is disabled.
package trace

import (
	"fmt"
	"io"
	"sync"
)

// Tracer is the sink for diagnostic events.
type Tracer interface {
	// Logf records an event at the given level. Must be goroutine-safe.
	Logf(lv Level, format string, args ...any)

	// Level returns the current tracing level.
	Level() Level

	// Enabled returns true if events at lv would be emitted.
	Enabled(lv Level) bool
}

// StreamTracer writes events immediately to an io.Writer.
type StreamTracer struct {
	mu    sync.Mutex
	w     io.Writer
	level Level
}

// NewStreamTracer creates a tracer writing to w at the given level.
func NewStreamTracer(w io.Writer, level Level) *StreamTracer {
	return &StreamTracer{w: w, level: level}
}

// Logf writes one prefixed line per event.
func (t *StreamTracer) Logf(lv Level, format string, args ...any) {
	if lv == LevelOff || lv > t.level {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	// Best-effort write; tracing never fails the synthesis.
	_, _ = fmt.Fprintf(t.w, "[%s] %s\n", lv, fmt.Sprintf(format, args...))
}

// Level returns the current tracing level.
func (t *StreamTracer) Level() Level { return t.level }

// Enabled reports whether events at lv pass the level filter.
func (t *StreamTracer) Enabled(lv Level) bool { return lv != LevelOff && lv <= t.level }

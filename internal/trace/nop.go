package trace

// nopTracer is a no-op implementation for zero overhead when tracing is disabled.
type nopTracer struct{}

// Logf does nothing.
func (nopTracer) Logf(Level, string, ...any) {}

// Level returns LevelOff.
func (nopTracer) Level() Level { return LevelOff }

// Enabled always returns false.
func (nopTracer) Enabled(Level) bool { return false }

// Nop is the package-level singleton nop tracer.
var Nop Tracer = nopTracer{}

package driver

import "sync/atomic"

// flags holds the three monotonic booleans that, together, encode a
// connection's lifecycle: shouldClose, closed, and idle. Each of shouldClose
// and closed transitions false -> true at most once; idle toggles freely
// as drains begin and end. Modeled on device.device's CAS-guarded int32
// state field, generalized from one flag to three independent ones.
type flags struct {
	shouldClose atomic.Bool
	closed      atomic.Bool
	idle        atomic.Bool
}

// newFlags returns a flags value with idle set, matching a freshly
// constructed, not-yet-started connection.
func newFlags() *flags {
	f := &flags{}
	f.idle.Store(true)
	return f
}

// setShouldClose flips shouldClose to true and reports whether this call was
// the one that made the transition (false -> true).
func (f *flags) setShouldClose() bool {
	return f.shouldClose.CompareAndSwap(false, true)
}

func (f *flags) isShouldClose() bool {
	return f.shouldClose.Load()
}

// setClosed flips closed to true and reports whether this call was the one
// that made the transition. Driver.Close relies on this to guarantee
// idempotence under concurrent or repeated invocation.
func (f *flags) setClosed() bool {
	return f.closed.CompareAndSwap(false, true)
}

func (f *flags) isClosed() bool {
	return f.closed.Load()
}

func (f *flags) setIdle(v bool) {
	f.idle.Store(v)
}

func (f *flags) isIdle() bool {
	return f.idle.Load()
}

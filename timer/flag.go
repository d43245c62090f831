package timer

import "sync/atomic"

// Flag is the elapsed flag shared between the tick interrupt and the main
// loop. The interrupt raises it; the loop observes and clears it. It holds
// a single bit: raising an already raised flag changes nothing.
type Flag struct {
	v atomic.Uint32
}

// Raise sets the flag. Safe to call from interrupt context.
func (f *Flag) Raise() { f.v.Store(1) }

// Raised reports whether the flag is set, without clearing it.
func (f *Flag) Raised() bool { return f.v.Load() != 0 }

// Observe reports whether the flag was set and clears it in one step.
func (f *Flag) Observe() bool { return f.v.Swap(0) != 0 }

// Clear resets the flag.
func (f *Flag) Clear() { f.v.Store(0) }

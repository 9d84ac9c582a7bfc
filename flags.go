package glint

import "sync/atomic"

// Flag is a process-wide boolean execution flag. Callers that toggle a flag
// for a bounded region should use [Flag.Swap] and restore the previous value
// with defer so the flag is reset on every exit path.
type Flag struct {
	v atomic.Bool
}

// Get returns the current value.
func (f *Flag) Get() bool { return f.v.Load() }

// Set stores v.
func (f *Flag) Set(v bool) { f.v.Store(v) }

// Swap stores v and returns the previous value.
func (f *Flag) Swap(v bool) bool { return f.v.Swap(v) }

// Flags holds the process-wide execution flags.
//
// AsyncDispatch controls whether operations enqueue onto device executors
// (true, the default) or evaluate inline before returning (false).
//
// PjitFastpath controls whether partitioned callables reuse their cached
// per-device program across calls (true, the default) or re-lower on every
// call (false).
var Flags struct {
	AsyncDispatch Flag
	PjitFastpath  Flag
}

func init() {
	Flags.AsyncDispatch.Set(true)
	Flags.PjitFastpath.Set(true)
}

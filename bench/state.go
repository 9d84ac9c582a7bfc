package bench

import "time"

// State drives one measured row. The timer starts at the first KeepRunning
// call, so work done before the loop — input construction and the warm-up
// invocation that triggers lazy compilation — is excluded from the result.
type State struct {
	maxIterations int
	args          ArgSet

	iterations int
	started    bool
	lastTick   time.Time
	total      time.Duration
	min        time.Duration
	max        time.Duration

	skipped    bool
	skipReason string
}

func newState(args ArgSet, iterations int) *State {
	return &State{maxIterations: iterations, args: args}
}

// KeepRunning reports whether the measured loop should run another
// iteration. The first call starts the timer; each later call records the
// duration of the iteration that just finished.
func (s *State) KeepRunning() bool {
	if s.skipped {
		return false
	}
	now := time.Now()
	if !s.started {
		s.started = true
		s.lastTick = now
		return s.maxIterations > 0
	}

	d := now.Sub(s.lastTick)
	s.lastTick = now
	s.total += d
	if s.iterations == 0 || d < s.min {
		s.min = d
	}
	if d > s.max {
		s.max = d
	}
	s.iterations++
	return s.iterations < s.maxIterations
}

// SkipWithReason marks the row skipped. Once called, KeepRunning returns
// false immediately and no iterations are recorded.
func (s *State) SkipWithReason(reason string) {
	s.skipped = true
	s.skipReason = reason
}

// Range returns the i-th grid argument value for this row.
func (s *State) Range(i int) int64 {
	return s.args[i].Value
}

// Bool returns the i-th grid argument as a boolean.
func (s *State) Bool(i int) bool {
	return s.args[i].Value != 0
}

// Iterations returns how many measured iterations completed so far.
func (s *State) Iterations() int { return s.iterations }

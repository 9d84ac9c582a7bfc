package bench

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStateRunsToBudget(t *testing.T) {
	st := newState(nil, 5)

	n := 0
	for st.KeepRunning() {
		n++
	}
	assert.Equal(t, 5, n)
	assert.Equal(t, 5, st.Iterations())
}

func TestStateZeroBudget(t *testing.T) {
	st := newState(nil, 0)
	assert.False(t, st.KeepRunning())
	assert.Equal(t, 0, st.Iterations())
}

func TestStateRecordsTiming(t *testing.T) {
	st := newState(nil, 3)
	for st.KeepRunning() {
		time.Sleep(time.Millisecond)
	}

	assert.Equal(t, 3, st.iterations)
	assert.GreaterOrEqual(t, st.total, 3*time.Millisecond)
	assert.Greater(t, st.min, time.Duration(0))
	assert.GreaterOrEqual(t, st.max, st.min)
}

func TestStateSkipShortCircuits(t *testing.T) {
	st := newState(nil, 100)
	st.SkipWithReason("requires 8 devices")

	assert.False(t, st.KeepRunning())
	assert.Equal(t, 0, st.Iterations())
	assert.Equal(t, "requires 8 devices", st.skipReason)
}

func TestStateArgs(t *testing.T) {
	st := newState(ArgSet{BoolArg("async", true), {Name: "num_args", Value: 100}}, 1)

	assert.Equal(t, int64(1), st.Range(0))
	assert.True(t, st.Bool(0))
	assert.Equal(t, int64(100), st.Range(1))
	assert.False(t, newState(ArgSet{BoolArg("async", false)}, 1).Bool(0))
}

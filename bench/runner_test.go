package bench_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glint-ml/glint"
	"github.com/glint-ml/glint/bench"
)

func sleepCase(name string, d time.Duration) bench.Case {
	return bench.Case{
		Name: name,
		Run: func(st *bench.State) {
			for st.KeepRunning() {
				time.Sleep(d)
			}
		},
	}
}

func runOne(t *testing.T, cfg bench.RunConfig, cases ...bench.Case) []bench.Result {
	t.Helper()
	reg := bench.NewRegistry()
	for _, c := range cases {
		reg.MustRegister(c)
	}
	results, err := bench.NewRunner(cfg).Run(reg)
	require.NoError(t, err)
	return results
}

func TestDevicePreconditionSkips(t *testing.T) {
	ran := false
	results := runOne(t, bench.RunConfig{Iterations: 10, AvailableDevices: 2},
		bench.Case{
			Name:       "needs_eight",
			MinDevices: 8,
			Run: func(st *bench.State) {
				ran = true
				for st.KeepRunning() {
				}
			},
		})

	require.Len(t, results, 1)
	res := results[0]
	assert.Equal(t, bench.OutcomeSkip, res.Outcome)
	assert.Contains(t, res.Reason, "8")
	assert.Equal(t, 0, res.Iterations)
	assert.Zero(t, res.Total)
	assert.False(t, ran, "skipped case must not run any setup")
}

func TestPanicBecomesErrorAndLaterCasesRun(t *testing.T) {
	results := runOne(t, bench.RunConfig{Iterations: 3, AvailableDevices: 1},
		bench.Case{Name: "boom", Run: func(st *bench.State) {
			panic(errors.New("setup exploded"))
		}},
		sleepCase("after_boom", 0),
	)

	require.Len(t, results, 2)
	assert.Equal(t, bench.OutcomeError, results[0].Outcome)
	assert.Contains(t, results[0].Reason, "setup exploded")
	assert.Equal(t, bench.OutcomePass, results[1].Outcome)
	assert.Equal(t, 3, results[1].Iterations)
}

func TestFlagRestoredWhenBodyPanics(t *testing.T) {
	before := glint.Flags.AsyncDispatch.Get()

	runOne(t, bench.RunConfig{Iterations: 3, AvailableDevices: 1},
		bench.Case{Name: "toggle_then_panic", Run: func(st *bench.State) {
			prev := glint.Flags.AsyncDispatch.Swap(!before)
			defer glint.Flags.AsyncDispatch.Set(prev)
			for st.KeepRunning() {
				panic("mid-measurement failure")
			}
		}})

	assert.Equal(t, before, glint.Flags.AsyncDispatch.Get(),
		"flag must be restored on the panic exit path")
}

func TestBodySkipIsReported(t *testing.T) {
	results := runOne(t, bench.RunConfig{Iterations: 10, AvailableDevices: 1},
		bench.Case{Name: "self_skip", Run: func(st *bench.State) {
			st.SkipWithReason("no sparse support on this backend")
			for st.KeepRunning() {
				t.Error("must not iterate after skip")
			}
		}})

	assert.Equal(t, bench.OutcomeSkip, results[0].Outcome)
	assert.Equal(t, 0, results[0].Iterations)
}

func TestDispatchVersusFullExecutionOrdering(t *testing.T) {
	// Full execution is a superset of dispatch, so its per-op cost must
	// not come out lower.
	results := runOne(t, bench.RunConfig{Iterations: 20, AvailableDevices: 1},
		sleepCase("op_dispatch", 0),
		sleepCase("op_full", 2*time.Millisecond),
	)

	require.Len(t, results, 2)
	dispatch, full := results[0], results[1]
	assert.Equal(t, bench.OutcomePass, dispatch.Outcome)
	assert.Equal(t, bench.OutcomePass, full.Outcome)
	assert.GreaterOrEqual(t, full.PerOp, dispatch.PerOp)
}

func TestNamePatternFilters(t *testing.T) {
	results := runOne(t, bench.RunConfig{Iterations: 1, AvailableDevices: 1, NamePattern: "^pmap_"},
		sleepCase("pmap_trivial", 0),
		sleepCase("jit_trivial", 0),
	)

	require.Len(t, results, 1)
	assert.Equal(t, "pmap_trivial", results[0].Name)
}

func TestInvalidPattern(t *testing.T) {
	reg := bench.NewRegistry()
	reg.MustRegister(sleepCase("a", 0))

	_, err := bench.NewRunner(bench.RunConfig{NamePattern: "(["}).Run(reg)
	assert.Error(t, err)
}

func TestGridRowsRunIndependently(t *testing.T) {
	var seen []int64
	results := runOne(t, bench.RunConfig{Iterations: 1, AvailableDevices: 1},
		bench.Case{
			Name: "sweep",
			Args: scalingGrid(),
			Run: func(st *bench.State) {
				seen = append(seen, st.Range(0))
				for st.KeepRunning() {
				}
			},
		})

	require.Len(t, results, 4)
	assert.Equal(t, []int64{10, 100, 1000, 2000}, seen)
	names := []string{results[0].Name, results[1].Name, results[2].Name, results[3].Name}
	assert.Equal(t, []string{"sweep/n:10", "sweep/n:100", "sweep/n:1000", "sweep/n:2000"}, names)
}

func scalingGrid() []bench.ArgSet {
	var grid []bench.ArgSet
	for _, n := range []int64{10, 100, 1000, 2000} {
		grid = append(grid, bench.ArgSet{{Name: "n", Value: n}})
	}
	return grid
}

func TestAfterCaseRunsForEveryOutcome(t *testing.T) {
	count := 0
	cfg := bench.RunConfig{
		Iterations:       1,
		AvailableDevices: 1,
		AfterCase:        func() { count++ },
	}
	runOne(t, cfg,
		sleepCase("pass", 0),
		bench.Case{Name: "err", Run: func(st *bench.State) { panic("x") }},
		bench.Case{Name: "skip", MinDevices: 9, Run: noopBody},
	)

	assert.Equal(t, 3, count)
}

func noopBody(st *bench.State) {
	for st.KeepRunning() {
	}
}

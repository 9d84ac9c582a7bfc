package benchmarks

import (
	"fmt"

	"github.com/glint-ml/glint"
	"github.com/glint-ml/glint/bench"
)

// argCounts are the argument-count sizes used to characterize how dispatch
// overhead scales with call arity. Each size is reported as its own case,
// never averaged.
var argCounts = []int{10, 100, 1000, 2000}

func registerJitArgs(reg *bench.Registry, c *glint.Client) {
	for _, n := range argCounts {
		n := n

		reg.MustRegister(bench.Case{
			Name: fmt.Sprintf("jit_simple_many_args_dispatch_%d", n),
			Run: func(st *bench.State) {
				args := scalarArgs(c, n)
				f := c.Jit(func(in []*glint.Array) []*glint.Array {
					return []*glint.Array{glint.AddN(in...)}
				})
				x := f.Call1(args...)
				x.BlockUntilReady()
				for st.KeepRunning() {
					x = f.Call1(args...)
				}
				x.BlockUntilReady()
			},
		})

		reg.MustRegister(bench.Case{
			Name: fmt.Sprintf("jit_simple_many_args_%d", n),
			Run: func(st *bench.State) {
				args := scalarArgs(c, n)
				f := c.Jit(func(in []*glint.Array) []*glint.Array {
					return []*glint.Array{glint.AddN(in...)}
				})
				f.Call1(args...).BlockUntilReady()
				for st.KeepRunning() {
					f.Call1(args...).BlockUntilReady()
				}
			},
		})

		// The pruned-args kernel touches only its first argument; the rest
		// exist to exercise argument-handling overhead alone.
		reg.MustRegister(bench.Case{
			Name: fmt.Sprintf("jit_simple_pruned_args_dispatch_%d", n),
			Run: func(st *bench.State) {
				args := scalarArgs(c, n)
				f := c.Jit(func(in []*glint.Array) []*glint.Array {
					return []*glint.Array{glint.AddScalar(in[0], 1)}
				})
				x := f.Call1(args...)
				x.BlockUntilReady()
				for st.KeepRunning() {
					x = f.Call1(args...)
				}
				x.BlockUntilReady()
			},
		})

		reg.MustRegister(bench.Case{
			Name: fmt.Sprintf("jit_simple_pruned_args_%d", n),
			Run: func(st *bench.State) {
				args := scalarArgs(c, n)
				f := c.Jit(func(in []*glint.Array) []*glint.Array {
					return []*glint.Array{glint.AddScalar(in[0], 1)}
				})
				f.Call1(args...).BlockUntilReady()
				for st.KeepRunning() {
					f.Call1(args...).BlockUntilReady()
				}
			},
		})
	}
}

func scalarArgs(c *glint.Client, n int) []*glint.Array {
	args := make([]*glint.Array, n)
	for i := range args {
		args[i] = c.Scalar(float64(i))
	}
	return args
}

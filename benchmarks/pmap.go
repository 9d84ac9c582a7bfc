package benchmarks

import (
	"fmt"

	"github.com/glint-ml/glint"
	"github.com/glint-ml/glint/bench"
)

func addSubFn(args []*glint.Array) []*glint.Array {
	return []*glint.Array{glint.Add(args[0], args[1]), glint.Sub(args[0], args[1])}
}

// shardOf places vals on the first n devices, one element per shard group.
func shardOf(c *glint.Client, n int, vals ...float64) *glint.Sharded {
	return must(c.Shard(c.Put(vals), n))
}

func seq(start, n int) []float64 {
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = float64(start + i)
	}
	return vals
}

// withAsyncFlag swaps the dispatch mode to the row's grid value and returns
// the restore func to defer, so the flag is reset on every exit path.
func withAsyncFlag(st *bench.State) func() {
	prev := glint.Flags.AsyncDispatch.Swap(st.Bool(0))
	return func() { glint.Flags.AsyncDispatch.Set(prev) }
}

func registerPmap(reg *bench.Registry, c *glint.Client) {
	reg.MustRegister(bench.Case{
		Name:       "pmap_trivial_2_devices",
		MinDevices: 2,
		Args:       bench.BoolGrid("async"),
		Run: func(st *bench.State) {
			defer withAsyncFlag(st)()

			f := must(c.Pmap(swapFn, 2))
			warm := must(f.Call(shardOf(c, 2, 1, 2), shardOf(c, 2, 3, 4)))
			a, b := warm[0], warm[1]
			for st.KeepRunning() {
				out := must(f.Call(a, b))
				mustOK(out[0].BlockUntilReady())
				mustOK(out[1].BlockUntilReady())
			}
		},
	})

	reg.MustRegister(bench.Case{
		Name:       "pmap_trivial_dispatch_8_devices",
		MinDevices: 8,
		Args:       bench.BoolGrid("async"),
		Run: func(st *bench.State) {
			defer withAsyncFlag(st)()

			f := must(c.Pmap(swapFn, 8))
			out := must(f.Call(shardOf(c, 8, seq(1, 8)...), shardOf(c, 8, seq(2, 8)...)))
			a, b := out[0], out[1]
			for st.KeepRunning() {
				out = must(f.Call(a, b))
				a, b = out[0], out[1]
			}
		},
	})

	reg.MustRegister(bench.Case{
		Name:       "pmap_trivial_8_devices",
		MinDevices: 8,
		Args:       bench.BoolGrid("async"),
		Run: func(st *bench.State) {
			defer withAsyncFlag(st)()

			f := must(c.Pmap(swapFn, 8))
			warm := must(f.Call(shardOf(c, 8, seq(1, 8)...), shardOf(c, 8, seq(2, 8)...)))
			a, b := warm[0], warm[1]
			for st.KeepRunning() {
				out := must(f.Call(a, b))
				mustOK(out[0].BlockUntilReady())
				mustOK(out[1].BlockUntilReady())
			}
		},
	})

	reg.MustRegister(bench.Case{
		Name:       "pmap_simple_2_devices",
		MinDevices: 2,
		Args:       bench.BoolGrid("async"),
		Run: func(st *bench.State) {
			defer withAsyncFlag(st)()

			f := must(c.Pmap(addSubFn, 2))
			warm := must(f.Call(shardOf(c, 2, 1, 2), shardOf(c, 2, 3, 4)))
			a, b := warm[0], warm[1]
			for st.KeepRunning() {
				out := must(f.Call(a, b))
				mustOK(out[0].BlockUntilReady())
				mustOK(out[1].BlockUntilReady())
			}
		},
	})

	reg.MustRegister(bench.Case{
		Name:       "pmap_simple_dispatch_8_devices",
		MinDevices: 8,
		Args:       bench.BoolGrid("async"),
		Run: func(st *bench.State) {
			defer withAsyncFlag(st)()

			f := must(c.Pmap(addSubFn, 8))
			out := must(f.Call(shardOf(c, 8, seq(1, 8)...), shardOf(c, 8, seq(2, 8)...)))
			a, b := out[0], out[1]
			for st.KeepRunning() {
				out = must(f.Call(a, b))
				a, b = out[0], out[1]
			}
		},
	})

	reg.MustRegister(bench.Case{
		Name:       "pmap_simple_8_devices",
		MinDevices: 8,
		Args:       bench.BoolGrid("async"),
		Run: func(st *bench.State) {
			defer withAsyncFlag(st)()

			f := must(c.Pmap(addSubFn, 8))
			warm := must(f.Call(shardOf(c, 8, seq(1, 8)...), shardOf(c, 8, seq(2, 8)...)))
			a, b := warm[0], warm[1]
			for st.KeepRunning() {
				out := must(f.Call(a, b))
				mustOK(out[0].BlockUntilReady())
				mustOK(out[1].BlockUntilReady())
			}
		},
	})

	// rotateFn cycles its argument list, so outputs feed straight back in
	// as the next iteration's arguments.
	rotateFn := func(args []*glint.Array) []*glint.Array {
		out := make([]*glint.Array, 0, len(args))
		out = append(out, args[1:]...)
		return append(out, glint.AddScalar(args[0], 1))
	}

	reg.MustRegister(bench.Case{
		Name:       "pmap_simple_dispatch_8_devices_100_args",
		MinDevices: 8,
		Args:       bench.BoolGrid("async"),
		Run: func(st *bench.State) {
			defer withAsyncFlag(st)()

			f := c.PmapOn(c.Devices()[:8], rotateFn)
			args := make([]*glint.Sharded, 100)
			for i := range args {
				args[i] = shardOf(c, 8, seq(i, 8)...)
			}
			args = must(f.Call(args...))
			for st.KeepRunning() {
				args = must(f.Call(args...))
			}
		},
	})

	reg.MustRegister(bench.Case{
		Name:       "pmap_simple_8_devices_100_args",
		MinDevices: 8,
		Args:       bench.BoolGrid("async"),
		Run: func(st *bench.State) {
			defer withAsyncFlag(st)()

			f := c.PmapOn(c.Devices()[:8], rotateFn)
			args := make([]*glint.Sharded, 100)
			for i := range args {
				args[i] = shardOf(c, 8, seq(i, 8)...)
			}
			args = must(f.Call(args...))
			for st.KeepRunning() {
				args = must(f.Call(args...))
				for _, out := range args {
					mustOK(out.BlockUntilReady())
				}
			}
		},
	})

	for _, n := range []int{1, 2, 8} {
		n := n
		reg.MustRegister(bench.Case{
			Name:       fmt.Sprintf("sharded_index_%d", n),
			MinDevices: n,
			Run: func(st *bench.State) {
				f := must(c.Pmap(func(in []*glint.Array) []*glint.Array {
					return []*glint.Array{glint.Sin(in[0])}
				}, n))
				out := must(f.Call(must(c.Shard(c.Arange(n), n))))
				mustOK(out[0].BlockUntilReady())
				for st.KeepRunning() {
					for i := 0; i < n; i++ {
						_ = out[0].Shard(i)
					}
				}
			},
		})
	}
}

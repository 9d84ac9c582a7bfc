package benchmarks

import (
	"math/rand/v2"

	"github.com/glint-ml/glint"
	"github.com/glint-ml/glint/bench"
)

func swapFn(args []*glint.Array) []*glint.Array {
	return []*glint.Array{args[1], args[0]}
}

func addFn(args []*glint.Array) []*glint.Array {
	return []*glint.Array{glint.Add(args[0], args[1])}
}

func registerJit(reg *bench.Registry, c *glint.Client) {
	// Measures only the duration for the compiled call to return pending
	// results.
	reg.MustRegister(bench.Case{
		Name: "jit_trivial_dispatch",
		Run: func(st *bench.State) {
			f := c.Jit(swapFn)
			out := f.Call(c.Scalar(1), c.Scalar(2))
			a, b := out[0], out[1]
			x := f.Call(a, b)
			for st.KeepRunning() {
				x = f.Call(a, b)
			}
			x[0].BlockUntilReady()
		},
	})

	reg.MustRegister(bench.Case{
		Name: "jit_trivial",
		Run: func(st *bench.State) {
			f := c.Jit(swapFn)
			out := f.Call(c.Scalar(1), c.Scalar(2))
			a, b := out[0], out[1]
			f.Call(a, b)
			for st.KeepRunning() {
				out := f.Call(a, b)
				out[0].BlockUntilReady()
				out[1].BlockUntilReady()
			}
		},
	})

	reg.MustRegister(bench.Case{
		Name: "jit_simple_dispatch",
		Run: func(st *bench.State) {
			a := c.Scalar(1)
			b := c.Scalar(2)
			f := c.Jit(addFn)
			f.Call(a, b)
			for st.KeepRunning() {
				f.Call(a, b)
			}
		},
	})

	reg.MustRegister(bench.Case{
		Name: "jit_simple",
		Run: func(st *bench.State) {
			a := c.Scalar(1)
			b := c.Scalar(2)
			f := c.Jit(addFn)
			f.Call(a, b)
			for st.KeepRunning() {
				f.Call1(a, b).BlockUntilReady()
			}
		},
	})

	// Same pair with asynchronous dispatch turned off for the duration of
	// the row; the prior flag value is restored on every exit path.
	reg.MustRegister(bench.Case{
		Name: "jit_simple_dispatch_sync",
		Run: func(st *bench.State) {
			prev := glint.Flags.AsyncDispatch.Swap(false)
			defer glint.Flags.AsyncDispatch.Set(prev)

			a := c.Scalar(1)
			b := c.Scalar(2)
			f := c.Jit(addFn)
			f.Call(a, b)
			for st.KeepRunning() {
				f.Call(a, b)
			}
		},
	})

	reg.MustRegister(bench.Case{
		Name: "jit_simple_sync",
		Run: func(st *bench.State) {
			prev := glint.Flags.AsyncDispatch.Swap(false)
			defer glint.Flags.AsyncDispatch.Set(prev)

			a := c.Scalar(1)
			b := c.Scalar(2)
			f := c.Jit(addFn)
			f.Call(a, b)
			for st.KeepRunning() {
				f.Call1(a, b).BlockUntilReady()
			}
		},
	})

	registerMatmul(reg, c, "jit_small_matmul", 2)
	registerMatmul(reg, c, "jit_big_matmul", 100)

	// A realistic image batch: dispatch with the input already resident on
	// a device versus transferred from the host on every call.
	reg.MustRegister(bench.Case{
		Name: "jit_dispatch_without_transfer",
		Run: func(st *bench.State) {
			imgs := c.Put(ones(128*224*224), 128, 224, 224)
			f := c.Jit(func(args []*glint.Array) []*glint.Array {
				return []*glint.Array{glint.AddScalar(args[0], 1)}
			})
			f.Call(imgs)
			for st.KeepRunning() {
				f.Call(imgs)
			}
		},
	})

	reg.MustRegister(bench.Case{
		Name: "jit_dispatch_with_transfer",
		Run: func(st *bench.State) {
			imgs := glint.NewArray(ones(128*224*224), 128, 224, 224)
			f := c.Jit(func(args []*glint.Array) []*glint.Array {
				return []*glint.Array{glint.AddScalar(args[0], 1)}
			})
			f.Call1(imgs).BlockUntilReady()
			var x *glint.Array
			for st.KeepRunning() {
				x = f.Call1(imgs)
			}
			x.BlockUntilReady()
		},
	})
}

func registerMatmul(reg *bench.Registry, c *glint.Client, name string, size int) {
	reg.MustRegister(bench.Case{
		Name: name,
		Run: func(st *bench.State) {
			rng := rand.New(rand.NewPCG(1701, 0))
			x := c.Uniform(rng, size, size)
			f := c.Jit(func(args []*glint.Array) []*glint.Array {
				return []*glint.Array{glint.Dot(args[0], args[0])}
			})
			f.Call1(x).BlockUntilReady()
			for st.KeepRunning() {
				f.Call1(x).BlockUntilReady()
			}
		},
	})
}

func ones(n int) []float64 {
	data := make([]float64, n)
	for i := range data {
		data[i] = 1
	}
	return data
}

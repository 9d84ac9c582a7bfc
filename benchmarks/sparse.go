package benchmarks

import (
	"math/rand/v2"

	"github.com/glint-ml/glint"
	"github.com/glint-ml/glint/bench"
	"github.com/glint-ml/glint/sparse"
)

const (
	sparseDim = 2000
	sparseNSE = 10000
)

// sparseSeed keeps the benchmark inputs identical across runs.
const sparseSeed = 1701

func sparseRNG() *rand.Rand {
	return rand.New(rand.NewPCG(sparseSeed, 0))
}

func registerSparse(reg *bench.Registry, c *glint.Client) {
	// denseInput materializes a dense matrix with sparseNSE nonzeros.
	denseInput := func() *glint.Array {
		m := must(sparse.Random(c, sparseRNG(), sparseDim, sparseDim, sparseNSE))
		mat := m.ToDense(c)
		mat.BlockUntilReady()
		return mat
	}

	fromdenseJit := func() *glint.Jitted {
		return c.Jit(func(args []*glint.Array) []*glint.Array {
			m := must(sparse.FromDense(c, args[0], sparseNSE))
			return []*glint.Array{m.Data, m.Indices}
		})
	}

	reg.MustRegister(bench.Case{
		Name: "sparse_bcoo_fromdense",
		Run: func(st *bench.State) {
			mat := denseInput()
			mustOK(must(sparse.FromDense(c, mat, sparseNSE)).BlockUntilReady())
			for st.KeepRunning() {
				mustOK(must(sparse.FromDense(c, mat, sparseNSE)).BlockUntilReady())
			}
		},
	})

	reg.MustRegister(bench.Case{
		Name: "sparse_bcoo_fromdense_jit",
		Run: func(st *bench.State) {
			mat := denseInput()
			f := fromdenseJit()
			mustOK(f.Call(mat)[0].Err())
			for st.KeepRunning() {
				out := f.Call(mat)
				out[0].BlockUntilReady()
				mustOK(out[1].Err())
			}
		},
	})

	reg.MustRegister(bench.Case{
		Name: "sparse_bcoo_fromdense_compile",
		Unit: bench.Millisecond,
		Run: func(st *bench.State) {
			mat := denseInput()
			f := fromdenseJit()
			for st.KeepRunning() {
				must(f.Lower(mat).Compile())
			}
		},
	})

	todenseJit := func(m *sparse.BCOO) *glint.Jitted {
		rows, cols := m.Shape()
		return c.Jit(func(args []*glint.Array) []*glint.Array {
			mm := must(sparse.New(args[0], args[1], rows, cols))
			return []*glint.Array{mm.ToDense(c)}
		})
	}

	reg.MustRegister(bench.Case{
		Name: "sparse_bcoo_todense",
		Run: func(st *bench.State) {
			m := must(sparse.Random(c, sparseRNG(), sparseDim, sparseDim, sparseNSE))
			mustOK(m.ToDense(c).Err())
			for st.KeepRunning() {
				mustOK(m.ToDense(c).Err())
			}
		},
	})

	reg.MustRegister(bench.Case{
		Name: "sparse_bcoo_todense_jit",
		Run: func(st *bench.State) {
			m := must(sparse.Random(c, sparseRNG(), sparseDim, sparseDim, sparseNSE))
			f := todenseJit(m)
			mustOK(f.Call1(m.Data, m.Indices).Err())
			for st.KeepRunning() {
				mustOK(f.Call1(m.Data, m.Indices).Err())
			}
		},
	})

	reg.MustRegister(bench.Case{
		Name: "sparse_bcoo_todense_compile",
		Unit: bench.Millisecond,
		Run: func(st *bench.State) {
			m := must(sparse.Random(c, sparseRNG(), sparseDim, sparseDim, sparseNSE))
			f := todenseJit(m)
			for st.KeepRunning() {
				must(f.Lower(m.Data, m.Indices).Compile())
			}
		},
	})

	matvecJit := func(m *sparse.BCOO) *glint.Jitted {
		rows, cols := m.Shape()
		return c.Jit(func(args []*glint.Array) []*glint.Array {
			mm := must(sparse.New(args[0], args[1], rows, cols))
			return []*glint.Array{mm.MatVec(c, args[2])}
		})
	}

	reg.MustRegister(bench.Case{
		Name: "sparse_bcoo_matvec",
		Run: func(st *bench.State) {
			rng := sparseRNG()
			m := must(sparse.Random(c, rng, sparseDim, sparseDim, sparseNSE))
			vec := c.Uniform(rng, sparseDim)
			mustOK(m.MatVec(c, vec).Err())
			for st.KeepRunning() {
				mustOK(m.MatVec(c, vec).Err())
			}
		},
	})

	reg.MustRegister(bench.Case{
		Name: "sparse_bcoo_matvec_jit",
		Run: func(st *bench.State) {
			rng := sparseRNG()
			m := must(sparse.Random(c, rng, sparseDim, sparseDim, sparseNSE))
			vec := c.Uniform(rng, sparseDim)
			f := matvecJit(m)
			mustOK(f.Call1(m.Data, m.Indices, vec).Err())
			for st.KeepRunning() {
				mustOK(f.Call1(m.Data, m.Indices, vec).Err())
			}
		},
	})

	reg.MustRegister(bench.Case{
		Name: "sparse_bcoo_matvec_compile",
		Unit: bench.Millisecond,
		Run: func(st *bench.State) {
			rng := sparseRNG()
			m := must(sparse.Random(c, rng, sparseDim, sparseDim, sparseNSE))
			vec := c.Uniform(rng, sparseDim)
			f := matvecJit(m)
			for st.KeepRunning() {
				must(f.Lower(m.Data, m.Indices, vec).Compile())
			}
		},
	})
}

package benchmarks

import (
	"github.com/glint-ml/glint"
	"github.com/glint-ml/glint/bench"
)

func registerEager(reg *bench.Registry, c *glint.Client) {
	reg.MustRegister(bench.Case{
		Name: "eager_unary_dispatch",
		Run: func(st *bench.State) {
			a := c.Scalar(1)
			glint.Neg(a)
			for st.KeepRunning() {
				glint.Neg(a)
			}
		},
	})

	reg.MustRegister(bench.Case{
		Name: "eager_unary",
		Run: func(st *bench.State) {
			a := c.Scalar(1)
			glint.Neg(a).BlockUntilReady()
			for st.KeepRunning() {
				glint.Neg(a).BlockUntilReady()
			}
		},
	})

	reg.MustRegister(bench.Case{
		Name: "eager_binary_dispatch",
		Run: func(st *bench.State) {
			a := c.Scalar(1)
			b := c.Scalar(2)
			glint.Add(a, b)
			for st.KeepRunning() {
				glint.Add(a, b)
			}
		},
	})

	reg.MustRegister(bench.Case{
		Name: "eager_binary",
		Run: func(st *bench.State) {
			a := c.Scalar(1)
			b := c.Scalar(2)
			glint.Add(a, b).BlockUntilReady()
			for st.KeepRunning() {
				glint.Add(a, b).BlockUntilReady()
			}
		},
	})
}

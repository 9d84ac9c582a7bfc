package benchmarks

import (
	"fmt"

	"github.com/glint-ml/glint"
	"github.com/glint-ml/glint/bench"
	"github.com/glint-ml/glint/shard"
)

// pjitGrid pairs the fast-path toggle with argument counts, one row per
// combination like the compiled-call arity sweep.
func pjitGrid() []bench.ArgSet {
	var grid []bench.ArgSet
	for _, fast := range []bool{false, true} {
		for _, n := range []int64{1, 10, 100} {
			grid = append(grid, bench.ArgSet{
				bench.BoolArg("fastpath", fast),
				{Name: "num_args", Value: n},
			})
		}
	}
	return grid
}

func registerPjit(reg *bench.Registry, c *glint.Client) {
	for _, numDevices := range []int{1, 4} {
		numDevices := numDevices
		reg.MustRegister(bench.Case{
			Name:       fmt.Sprintf("pjit_simple_%d_devices", numDevices),
			MinDevices: numDevices,
			Args:       pjitGrid(),
			Run: func(st *bench.State) {
				prev := glint.Flags.PjitFastpath.Swap(st.Bool(0))
				defer glint.Flags.PjitFastpath.Set(prev)

				mesh := must(shard.NewMesh(c.Devices()[:numDevices], []int{numDevices}, "x"))
				s := shard.NamedSharding{Mesh: mesh, Spec: shard.PartitionSpec{"x"}}

				x := must(shard.MakeArray(c, []int{numDevices}, s, func(i int) float64 {
					return float64(i)
				}))
				numArgs := int(st.Range(1))
				args := make([]*glint.Sharded, numArgs)
				for i := range args {
					args[i] = x
				}

				f := must(shard.Pjit(c, func(in []*glint.Array) []*glint.Array {
					out := make([]*glint.Array, len(in))
					for i, a := range in {
						out[i] = glint.AddScalar(a, 1)
					}
					return out
				}, s, s))

				args = must(f.Call(args...))
				for st.KeepRunning() {
					args = must(f.Call(args...))
				}
			},
		})
	}
}

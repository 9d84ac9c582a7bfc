package benchmarks

import (
	"github.com/glint-ml/glint"
	"github.com/glint-ml/glint/bench"
	"github.com/glint-ml/glint/shard"
)

func registerSharding(reg *bench.Registry, c *glint.Client) {
	// Abstract shape-signature extraction is on the hot path of every
	// compiled-call cache lookup; measure it in bulk.
	reg.MustRegister(bench.Case{
		Name: "shape_signature_1000",
		Unit: bench.Millisecond,
		Run: func(st *bench.State) {
			args := make([]*glint.Array, 1000)
			for i := range args {
				args[i] = c.Scalar(1)
			}
			for st.KeepRunning() {
				for _, a := range args {
					_ = a.Signature()
				}
			}
		},
	})

	reg.MustRegister(bench.Case{
		Name: "op_sharding_equal",
		Unit: bench.Microsecond,
		Run: func(st *bench.State) {
			op1 := tiledOpSharding()
			op2 := tiledOpSharding()
			for st.KeepRunning() {
				_ = op1.Equal(op2)
			}
		},
	})

	reg.MustRegister(bench.Case{
		Name:       "check_array_shardings_100",
		Unit:       bench.Millisecond,
		MinDevices: 8,
		Run: func(st *bench.State) {
			mesh := must(shard.NewMesh(c.Devices()[:8], []int{4, 2}, "x", "y"))
			s := shard.NamedSharding{Mesh: mesh, Spec: shard.PartitionSpec{"x", "y"}}

			shardings := make([]shard.NamedSharding, 100)
			shapes := make([][]int, 100)
			for i := range shardings {
				shardings[i] = s
				shapes[i] = []int{8, 2}
			}
			for st.KeepRunning() {
				mustOK(shard.CheckArrayShardings(shardings, shapes))
			}
		},
	})

	// Compilation latency of slicing programs: every iteration lowers and
	// compiles from scratch.
	reg.MustRegister(bench.Case{
		Name: "slicing_compilation",
		Unit: bench.Millisecond,
		Run: func(st *bench.State) {
			x := c.Arange(3)
			for st.KeepRunning() {
				f := c.Jit(func(args []*glint.Array) []*glint.Array {
					return []*glint.Array{
						glint.Slice(args[0], 0, 1),
						glint.Slice(args[0], 1, 2),
						glint.Slice(args[0], 2, 3),
					}
				})
				must(f.Lower(x).Compile())
			}
		},
	})

	reg.MustRegister(bench.Case{
		Name: "slicing_compilation2",
		Unit: bench.Millisecond,
		Run: func(st *bench.State) {
			x := c.Arange(3)
			for st.KeepRunning() {
				f := c.Jit(func(args []*glint.Array) []*glint.Array {
					a := glint.Slice(args[0], 0, 1)
					b := glint.Slice(args[0], 1, 2)
					cc := glint.Slice(args[0], 2, 3)
					return []*glint.Array{glint.Add(glint.Add(a, b), cc)}
				})
				must(f.Lower(x).Compile())
			}
		},
	})
}

// tiledOpSharding builds the large tile assignment the equality benchmark
// compares: 4x192x16 tiles over 12288 devices.
func tiledOpSharding() shard.OpSharding {
	devices := make([]int64, 12288)
	for i := range devices {
		devices[i] = int64(i)
	}
	return shard.OpSharding{
		Kind:                     shard.OpShardingTiled,
		TileAssignmentDimensions: []int64{4, 192, 16},
		TileAssignmentDevices:    devices,
	}
}

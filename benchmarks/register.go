// Package benchmarks defines the glint API microbenchmark suite: dispatch
// and end-to-end latency of eager operations, compiled calls, multi-device
// maps, sparse conversions, and partitioned execution.
//
// Every meaningful operation appears in two variants: a dispatch-only case
// that measures enqueue overhead, and a full case that also blocks for the
// result, measuring end-to-end latency. The two are reported separately on
// purpose so framework overhead stays attributable.
package benchmarks

import (
	"github.com/glint-ml/glint"
	"github.com/glint-ml/glint/bench"
)

// RegisterAll registers the whole suite against reg, bound to the client's
// devices.
func RegisterAll(reg *bench.Registry, c *glint.Client) {
	registerEager(reg, c)
	registerJit(reg, c)
	registerJitArgs(reg, c)
	registerPmap(reg, c)
	registerSparse(reg, c)
	registerSharding(reg, c)
	registerPjit(reg, c)
}

// must panics on err, turning setup failures into an error outcome for the
// current row only.
func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func mustOK(err error) {
	if err != nil {
		panic(err)
	}
}

// Package glint provides a small asynchronous array runtime for Go.
//
// # Overview
//
// glint executes dense numerical operations on a set of logical devices,
// each backed by an in-order executor. Operations dispatch asynchronously:
// they return a pending [Array] immediately and compute in the background.
// Call [Array.BlockUntilReady] to wait for the result.
//
//   - Eager element-wise and matrix operations ([Neg], [Add], [Dot], ...)
//   - Compiled callables with signature-keyed caching ([Client.Jit])
//   - Multi-device parallel map ([Client.Pmap])
//   - Process-wide execution flags with swap/restore ([Flags])
//
// # Quick Start
//
//	import "github.com/glint-ml/glint"
//
//	func main() {
//	    client := glint.New()
//	    defer client.Close()
//
//	    a := client.Put([]float64{1, 2, 3})
//	    b := glint.Neg(a)                   // dispatch, returns immediately
//	    b.BlockUntilReady()                 // wait for materialization
//	    fmt.Println(b.Float64s())           // [-1 -2 -3]
//
//	    f := client.Jit(func(args []*glint.Array) []*glint.Array {
//	        return []*glint.Array{glint.Add(args[0], args[0])}
//	    })
//	    out := f.Call(a)                    // first call compiles, later calls hit the cache
//	    out[0].BlockUntilReady()
//	}
//
// The sibling packages build on this runtime: sparse holds BCOO matrix
// conversions, shard holds device meshes and partitioned execution, and
// bench holds the microbenchmark harness used by cmd/glint-bench.
//
// A Client is safe to share between goroutines; individual Arrays follow
// a dispatch-then-wait discipline and are immutable once materialized.
package glint

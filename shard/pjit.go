package shard

import (
	"fmt"
	"sync"

	"github.com/glint-ml/glint"
)

// Partitioned is a function compiled for sharded execution over a mesh.
// Each call validates the argument shardings, then runs the function once
// per mesh device over that device's shards.
//
// When the PjitFastpath flag is on (the default), the per-device program is
// lowered once and reused across calls; turning the flag off re-lowers on
// every call, which is what the pjit benchmarks measure against.
type Partitioned struct {
	c   *glint.Client
	fn  glint.Fn
	in  NamedSharding
	out NamedSharding

	mu     sync.Mutex
	cached *glint.Mapped
}

// Pjit compiles fn for partitioned execution with the given input and
// output shardings. Both shardings must live on the same mesh.
func Pjit(c *glint.Client, fn glint.Fn, in, out NamedSharding) (*Partitioned, error) {
	if in.Mesh != out.Mesh {
		return nil, fmt.Errorf("shard: pjit: input and output shardings use different meshes")
	}
	return &Partitioned{c: c, fn: fn, in: in, out: out}, nil
}

// Call runs the partitioned program. Every argument must carry one shard
// per mesh device; outputs come back sharded the same way.
func (p *Partitioned) Call(args ...*glint.Sharded) ([]*glint.Sharded, error) {
	mesh := p.in.Mesh
	shapes := make([][]int, len(args))
	shardings := make([]NamedSharding, len(args))
	for i, arg := range args {
		if arg.NumShards() != mesh.Size() {
			return nil, fmt.Errorf("shard: pjit: arg %d has %d shards for a %d-device mesh", i, arg.NumShards(), mesh.Size())
		}
		shard := arg.Shard(0)
		global := append([]int{shard.Shape()[0] * mesh.Size()}, shard.Shape()[1:]...)
		shapes[i] = global
		shardings[i] = p.in
	}
	if err := CheckArrayShardings(shardings, shapes); err != nil {
		return nil, err
	}
	return p.program().Call(args...)
}

// program returns the per-device executable, re-lowering when the fast
// path is disabled.
func (p *Partitioned) program() *glint.Mapped {
	if !glint.Flags.PjitFastpath.Get() {
		return p.c.PmapOn(p.in.Mesh.Devices(), p.fn)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cached == nil {
		p.cached = p.c.PmapOn(p.in.Mesh.Devices(), p.fn)
	}
	return p.cached
}

package glint

import (
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Sharded is an array distributed across devices, one shard per device.
// Pmap calls consume and produce Sharded values, so outputs feed back into
// later calls without reassembly.
type Sharded struct {
	shards []*Array
}

// ShardedOf builds a Sharded from per-device shards.
func ShardedOf(shards ...*Array) *Sharded {
	return &Sharded{shards: shards}
}

// NumShards returns the shard count.
func (s *Sharded) NumShards() int { return len(s.shards) }

// Shard returns the i-th shard.
func (s *Sharded) Shard(i int) *Array { return s.shards[i] }

// BlockUntilReady waits for every shard to materialize and returns the
// first deferred error.
func (s *Sharded) BlockUntilReady() error {
	var g errgroup.Group
	for _, sh := range s.shards {
		g.Go(sh.Err)
	}
	return g.Wait()
}

// Float64s concatenates all shard data in shard order, blocking until
// every shard is materialized.
func (s *Sharded) Float64s() ([]float64, error) {
	if err := s.BlockUntilReady(); err != nil {
		return nil, err
	}
	var out []float64
	for _, sh := range s.shards {
		out = append(out, sh.data...)
	}
	return out, nil
}

// Shard splits a's leading axis into n equal shards, one per device. The
// leading dimension must be divisible by n and the client must have at
// least n devices.
func (c *Client) Shard(a *Array, n int) (*Sharded, error) {
	if n < 1 || n > len(c.devices) {
		return nil, fmt.Errorf("glint: shard: %d shards for %d devices", n, len(c.devices))
	}
	if a.Rank() == 0 || a.shape[0]%n != 0 {
		return nil, fmt.Errorf("glint: shard: leading axis of %v not divisible by %d", a.shape, n)
	}

	per := a.shape[0] / n
	stride := 1
	for _, d := range a.shape[1:] {
		stride *= d
	}
	shardShape := append([]int{per}, a.shape[1:]...)

	shards := make([]*Array, n)
	for i := 0; i < n; i++ {
		lo := i * per * stride
		hi := lo + per*stride
		out := newPending(c.devices[i], shardShape)
		dispatch(c.devices[i], func() {
			a.BlockUntilReady()
			if a.err != nil {
				out.fulfill(nil, a.err)
				return
			}
			buf := make([]float64, hi-lo)
			copy(buf, a.data[lo:hi])
			out.fulfill(buf, nil)
		})
		shards[i] = out
	}
	return &Sharded{shards: shards}, nil
}

// Mapped is a function mapped across devices. Each call runs the function
// once per device over that device's shards, in parallel.
type Mapped struct {
	c    *Client
	fn   Fn
	devs []*Device

	mu     sync.Mutex
	shapes map[string][][]int // arg signature -> per-shard output shapes
}

// Pmap maps fn across the client's first n devices.
func (c *Client) Pmap(fn Fn, n int) (*Mapped, error) {
	if n < 1 || n > len(c.devices) {
		return nil, fmt.Errorf("glint: pmap: %d devices requested, %d available", n, len(c.devices))
	}
	return c.PmapOn(c.devices[:n], fn), nil
}

// PmapOn maps fn across an explicit device list. The shard package uses it
// to run partitioned programs over mesh devices.
func (c *Client) PmapOn(devs []*Device, fn Fn) *Mapped {
	return &Mapped{c: c, fn: fn, devs: devs, shapes: make(map[string][][]int)}
}

// NumDevices returns how many devices the function is mapped over.
func (m *Mapped) NumDevices() int { return len(m.devs) }

// Call dispatches one task per device. Every argument must carry exactly
// one shard per mapped device. The first call per shard signature traces
// the function to learn its output shapes.
func (m *Mapped) Call(args ...*Sharded) ([]*Sharded, error) {
	n := len(m.devs)
	for i, arg := range args {
		if arg.NumShards() != n {
			return nil, fmt.Errorf("glint: pmap: arg %d has %d shards, mapped over %d devices", i, arg.NumShards(), n)
		}
	}

	outShapes, err := m.outputShapes(args)
	if err != nil {
		return nil, err
	}

	// One Sharded per function output, one pending shard per device.
	outs := make([]*Sharded, len(outShapes))
	for o := range outs {
		outs[o] = &Sharded{shards: make([]*Array, n)}
	}
	for d := 0; d < n; d++ {
		for o, shape := range outShapes {
			outs[o].shards[d] = newPending(m.devs[d], shape)
		}
	}

	for d := 0; d < n; d++ {
		dev := d
		dispatch(m.devs[dev], func() {
			m.runShard(dev, args, outs)
		})
	}
	return outs, nil
}

// runShard executes the function over one device's shards and fulfills the
// corresponding output shards.
func (m *Mapped) runShard(dev int, args []*Sharded, outs []*Sharded) {
	fail := func(err error) {
		for _, out := range outs {
			out.shards[dev].fulfill(nil, err)
		}
	}

	views := make([]*Array, len(args))
	for i, arg := range args {
		v, err := arg.shards[dev].hostView()
		if err != nil {
			fail(fmt.Errorf("glint: pmap: arg %d shard %d: %w", i, dev, err))
			return
		}
		views[i] = v
	}

	res := m.fn(views)
	if len(res) != len(outs) {
		fail(fmt.Errorf("glint: pmap: got %d outputs, traced %d", len(res), len(outs)))
		return
	}
	for o, r := range res {
		if err := r.Err(); err != nil {
			outs[o].shards[dev].fulfill(nil, err)
			continue
		}
		outs[o].shards[dev].fulfill(r.data, nil)
	}
}

// outputShapes traces fn over zero inputs shaped like device 0's shards,
// caching per argument signature.
func (m *Mapped) outputShapes(args []*Sharded) ([][]int, error) {
	key := ""
	trace := make([]*Array, len(args))
	for i, arg := range args {
		sh := arg.shards[0]
		trace[i] = Zeros(sh.shape...)
		key += sh.Signature() + ";"
	}

	m.mu.Lock()
	shapes, ok := m.shapes[key]
	m.mu.Unlock()
	if ok {
		return shapes, nil
	}

	res := m.fn(trace)
	if len(res) == 0 {
		return nil, fmt.Errorf("glint: pmap: function returned no outputs")
	}
	shapes = make([][]int, len(res))
	for i, r := range res {
		if err := r.Err(); err != nil {
			return nil, fmt.Errorf("glint: pmap: trace failed: %w", err)
		}
		shapes[i] = r.shape
	}

	m.mu.Lock()
	m.shapes[key] = shapes
	m.mu.Unlock()
	return shapes, nil
}

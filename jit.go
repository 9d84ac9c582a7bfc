package glint

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
)

// Fn is a function compiled by [Client.Jit]. Inside a compiled call the
// arguments are materialized host arrays, so nested operations evaluate
// inline on the executing device rather than re-dispatching.
type Fn func(args []*Array) []*Array

// Jitted is a compiled callable. The first call for each argument shape
// signature traces and compiles the function; later calls with the same
// signature dispatch the cached executable. A Jitted is safe for
// concurrent use.
type Jitted struct {
	c  *Client
	fn Fn

	mu       sync.Mutex
	cache    map[string]*Executable
	compiles atomic.Int64
}

// Jit wraps fn in a compiling callable.
func (c *Client) Jit(fn Fn) *Jitted {
	return &Jitted{c: c, fn: fn, cache: make(map[string]*Executable)}
}

// Compiles returns how many distinct signatures have been compiled.
func (j *Jitted) Compiles() int64 { return j.compiles.Load() }

// Call dispatches the compiled function over args, compiling first when the
// argument signature has not been seen. The returned arrays are pending
// until the executing device finishes.
func (j *Jitted) Call(args ...*Array) []*Array {
	key := signatureKey(args)

	j.mu.Lock()
	exec, ok := j.cache[key]
	j.mu.Unlock()

	if !ok {
		var err error
		exec, err = j.Lower(args...).Compile()
		if err != nil {
			return []*Array{{err: err}}
		}
		j.mu.Lock()
		j.cache[key] = exec
		j.mu.Unlock()
	}
	return exec.Execute(args)
}

// Call1 is Call for single-output functions.
func (j *Jitted) Call1(args ...*Array) *Array {
	return j.Call(args...)[0]
}

// Lower stages the function for the given argument shapes, bypassing the
// signature cache. Use Lower(...).Compile() to measure compilation alone.
func (j *Jitted) Lower(args ...*Array) *Lowered {
	shapes := make([][]int, len(args))
	for i, a := range args {
		shapes[i] = a.shape
	}
	return &Lowered{j: j, argShapes: shapes}
}

// Lowered is a staged function awaiting compilation.
type Lowered struct {
	j         *Jitted
	argShapes [][]int
}

// Compile traces the function over abstract inputs of the staged shapes,
// records the output shapes, and returns the executable program.
func (l *Lowered) Compile() (*Executable, error) {
	trace := make([]*Array, len(l.argShapes))
	for i, shape := range l.argShapes {
		trace[i] = Zeros(shape...)
	}

	outs := l.j.fn(trace)
	if len(outs) == 0 {
		return nil, fmt.Errorf("glint: jit: function returned no outputs")
	}
	outShapes := make([][]int, len(outs))
	for i, o := range outs {
		if err := o.Err(); err != nil {
			return nil, fmt.Errorf("glint: jit: trace failed: %w", err)
		}
		outShapes[i] = o.shape
	}

	l.j.compiles.Add(1)
	return &Executable{c: l.j.c, fn: l.j.fn, argShapes: l.argShapes, outShapes: outShapes}, nil
}

// Executable is a compiled program bound to fixed argument shapes.
type Executable struct {
	c         *Client
	fn        Fn
	argShapes [][]int
	outShapes [][]int
}

// OutShapes returns the program's output shapes.
func (e *Executable) OutShapes() [][]int { return e.outShapes }

// Execute dispatches the program as a single device task: the whole call
// is one enqueue instead of one per operation.
func (e *Executable) Execute(args []*Array) []*Array {
	dev := e.c.devices[0]
	for _, a := range args {
		if a.device != nil {
			dev = a.device
			break
		}
	}

	compute := func() ([][]float64, error) {
		views := make([]*Array, len(args))
		for i, a := range args {
			if !sameShape(a.shape, e.argShapes[i]) {
				return nil, fmt.Errorf("glint: jit: arg %d has shape %v, compiled for %v", i, a.shape, e.argShapes[i])
			}
			v, err := a.hostView()
			if err != nil {
				return nil, fmt.Errorf("glint: jit: arg %d: %w", i, err)
			}
			views[i] = v
		}
		res := e.fn(views)
		if len(res) != len(e.outShapes) {
			return nil, fmt.Errorf("glint: jit: got %d outputs, compiled for %d", len(res), len(e.outShapes))
		}
		bufs := make([][]float64, len(res))
		for i, o := range res {
			if err := o.Err(); err != nil {
				return nil, err
			}
			bufs[i] = o.data
		}
		return bufs, nil
	}

	outs := make([]*Array, len(e.outShapes))
	for i, shape := range e.outShapes {
		outs[i] = newPending(dev, shape)
	}
	dispatch(dev, func() {
		bufs, err := compute()
		for i, out := range outs {
			if err != nil {
				out.fulfill(nil, err)
			} else {
				out.fulfill(bufs[i], nil)
			}
		}
	})
	return outs
}

func signatureKey(args []*Array) string {
	var b strings.Builder
	for i, a := range args {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(a.Signature())
	}
	return b.String()
}

package glint

import (
	"fmt"
	"math"
)

// Operations dispatch onto the device of their first device-resident input
// and return a pending array immediately. When every input is a host array
// the operation evaluates inline and the result is materialized on return.

// Neg returns -a elementwise.
func Neg(a *Array) *Array {
	return elementwise("neg", []*Array{a}, func(in [][]float64, out []float64) {
		for i, v := range in[0] {
			out[i] = -v
		}
	})
}

// Sin returns sin(a) elementwise.
func Sin(a *Array) *Array {
	return elementwise("sin", []*Array{a}, func(in [][]float64, out []float64) {
		for i, v := range in[0] {
			out[i] = math.Sin(v)
		}
	})
}

// Add returns a + b elementwise.
func Add(a, b *Array) *Array {
	return elementwise("add", []*Array{a, b}, func(in [][]float64, out []float64) {
		for i := range out {
			out[i] = in[0][i] + in[1][i]
		}
	})
}

// Sub returns a - b elementwise.
func Sub(a, b *Array) *Array {
	return elementwise("sub", []*Array{a, b}, func(in [][]float64, out []float64) {
		for i := range out {
			out[i] = in[0][i] - in[1][i]
		}
	})
}

// Mul returns a * b elementwise.
func Mul(a, b *Array) *Array {
	return elementwise("mul", []*Array{a, b}, func(in [][]float64, out []float64) {
		for i := range out {
			out[i] = in[0][i] * in[1][i]
		}
	})
}

// AddScalar returns a + v elementwise.
func AddScalar(a *Array, v float64) *Array {
	return elementwise("add_scalar", []*Array{a}, func(in [][]float64, out []float64) {
		for i, x := range in[0] {
			out[i] = x + v
		}
	})
}

// AddN sums its arguments elementwise. All arguments must share a shape.
func AddN(xs ...*Array) *Array {
	if len(xs) == 0 {
		return &Array{err: fmt.Errorf("glint: addn: no arguments")}
	}
	return elementwise("addn", xs, func(in [][]float64, out []float64) {
		copy(out, in[0])
		for _, arg := range in[1:] {
			for i, v := range arg {
				out[i] += v
			}
		}
	})
}

// elementwise dispatches a shape-preserving kernel over same-shaped inputs.
func elementwise(name string, ins []*Array, kernel func(in [][]float64, out []float64)) *Array {
	shape := ins[0].shape
	for _, a := range ins[1:] {
		if !sameShape(a.shape, shape) {
			return &Array{shape: shape, err: fmt.Errorf("glint: %s: shape mismatch %v vs %v", name, shape, a.shape)}
		}
	}
	return run(name, ins, shape, kernel)
}

// Dot returns the matrix/vector product of a and b:
// [m,k]x[k,n] -> [m,n], [m,k]x[k] -> [m], [k]x[k] -> [1].
func Dot(a, b *Array) *Array {
	var outShape []int
	var m, k, n int
	switch {
	case a.Rank() == 2 && b.Rank() == 2 && a.shape[1] == b.shape[0]:
		m, k, n = a.shape[0], a.shape[1], b.shape[1]
		outShape = []int{m, n}
	case a.Rank() == 2 && b.Rank() == 1 && a.shape[1] == b.shape[0]:
		m, k, n = a.shape[0], a.shape[1], 1
		outShape = []int{m}
	case a.Rank() == 1 && b.Rank() == 1 && a.shape[0] == b.shape[0]:
		m, k, n = 1, a.shape[0], 1
		outShape = []int{1}
	default:
		return &Array{err: fmt.Errorf("glint: dot: incompatible shapes %v and %v", a.shape, b.shape)}
	}

	return run("dot", []*Array{a, b}, outShape, func(in [][]float64, out []float64) {
		x, y := in[0], in[1]
		for i := 0; i < m; i++ {
			for j := 0; j < n; j++ {
				var acc float64
				for l := 0; l < k; l++ {
					acc += x[i*k+l] * y[l*n+j]
				}
				out[i*n+j] = acc
			}
		}
	})
}

// Slice returns elements [lo, hi) along the leading axis.
func Slice(a *Array, lo, hi int) *Array {
	if a.Rank() == 0 || lo < 0 || hi < lo || hi > a.shape[0] {
		return &Array{err: fmt.Errorf("glint: slice: bounds [%d,%d) out of range for shape %v", lo, hi, a.shape)}
	}
	outShape := append([]int{hi - lo}, a.shape[1:]...)
	stride := 1
	for _, d := range a.shape[1:] {
		stride *= d
	}
	return run("slice", []*Array{a}, outShape, func(in [][]float64, out []float64) {
		copy(out, in[0][lo*stride:hi*stride])
	})
}

// run waits for the inputs and applies kernel, either inline for host
// inputs or on the device executor of the first device-resident input.
func run(name string, ins []*Array, outShape []int, kernel func(in [][]float64, out []float64)) *Array {
	var dev *Device
	for _, a := range ins {
		if a.device != nil {
			dev = a.device
			break
		}
	}

	compute := func() ([]float64, error) {
		bufs := make([][]float64, len(ins))
		for i, a := range ins {
			a.BlockUntilReady()
			if a.err != nil {
				return nil, fmt.Errorf("glint: %s: input %d: %w", name, i, a.err)
			}
			bufs[i] = a.data
		}
		n := 1
		for _, d := range outShape {
			n *= d
		}
		out := make([]float64, n)
		kernel(bufs, out)
		return out, nil
	}

	if dev == nil {
		data, err := compute()
		return &Array{shape: outShape, data: data, err: err}
	}

	out := newPending(dev, outShape)
	dispatch(dev, func() {
		out.fulfill(compute())
	})
	return out
}

// Custom dispatches a user kernel producing arrays of the given shapes.
// It is the extension point used by the sparse package for operations that
// dense kernels cannot express. The kernel receives materialized host views
// of the inputs and returns one data buffer per output shape.
func (c *Client) Custom(ins []*Array, outShapes [][]int, kernel func(in []*Array) ([][]float64, error)) []*Array {
	var dev *Device
	for _, a := range ins {
		if a.device != nil {
			dev = a.device
			break
		}
	}

	compute := func() ([][]float64, error) {
		views := make([]*Array, len(ins))
		for i, a := range ins {
			v, err := a.hostView()
			if err != nil {
				return nil, fmt.Errorf("glint: custom: input %d: %w", i, err)
			}
			views[i] = v
		}
		bufs, err := kernel(views)
		if err != nil {
			return nil, err
		}
		if len(bufs) != len(outShapes) {
			return nil, fmt.Errorf("glint: custom: kernel returned %d outputs, want %d", len(bufs), len(outShapes))
		}
		return bufs, nil
	}

	if dev == nil {
		outs := make([]*Array, len(outShapes))
		bufs, err := compute()
		for i, shape := range outShapes {
			if err != nil {
				outs[i] = &Array{shape: shape, err: err}
			} else {
				outs[i] = &Array{shape: shape, data: bufs[i]}
			}
		}
		return outs
	}

	outs := make([]*Array, len(outShapes))
	for i, shape := range outShapes {
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

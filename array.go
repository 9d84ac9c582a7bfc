package glint

import (
	"fmt"
	"strings"
)

// Array is a dense float64 tensor. Arrays returned from dispatched
// operations are pending until the owning device materializes them;
// [Array.BlockUntilReady] waits for that. Host arrays built with [NewArray]
// are materialized from the start and have no device.
//
// A materialized array is immutable.
type Array struct {
	shape  []int
	data   []float64
	device *Device       // nil for host arrays
	ready  chan struct{} // nil when materialized at construction
	err    error
}

// NewArray builds a materialized host array. Operations on host arrays
// evaluate inline instead of dispatching to a device.
func NewArray(data []float64, shape ...int) *Array {
	if len(shape) == 0 {
		shape = []int{len(data)}
	}
	return &Array{shape: shape, data: data}
}

// Zeros builds a materialized host array of zeros.
func Zeros(shape ...int) *Array {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return &Array{shape: shape, data: make([]float64, n)}
}

// ErrorArray builds a materialized array carrying only a deferred error.
// Operations return one when argument validation fails before dispatch.
func ErrorArray(err error) *Array {
	return &Array{err: err}
}

func newPending(d *Device, shape []int) *Array {
	return &Array{shape: shape, device: d, ready: make(chan struct{})}
}

// fulfill materializes a pending array. Called exactly once by the device
// task that computes it.
func (a *Array) fulfill(data []float64, err error) {
	a.data = data
	a.err = err
	close(a.ready)
}

// BlockUntilReady waits until the array is materialized and returns it,
// so waits can chain off dispatch expressions.
func (a *Array) BlockUntilReady() *Array {
	if a.ready != nil {
		<-a.ready
	}
	return a
}

// Err returns the deferred error from the operation that produced the
// array. It blocks until the array is materialized.
func (a *Array) Err() error {
	a.BlockUntilReady()
	return a.err
}

// Shape returns the array dimensions. The returned slice must not be
// modified.
func (a *Array) Shape() []int { return a.shape }

// Rank returns the number of dimensions.
func (a *Array) Rank() int { return len(a.shape) }

// Len returns the total element count.
func (a *Array) Len() int { return a.size() }

func (a *Array) size() int {
	n := 1
	for _, d := range a.shape {
		n *= d
	}
	return n
}

// At returns the i-th element in row-major order, blocking until the array
// is materialized.
func (a *Array) At(i int) float64 {
	a.BlockUntilReady()
	return a.data[i]
}

// Float64s returns a copy of the data in row-major order, blocking until
// the array is materialized.
func (a *Array) Float64s() []float64 {
	a.BlockUntilReady()
	out := make([]float64, len(a.data))
	copy(out, a.data)
	return out
}

// hostView returns a materialized host alias of a, waiting if needed.
// Operations on the view evaluate inline.
func (a *Array) hostView() (*Array, error) {
	a.BlockUntilReady()
	if a.err != nil {
		return nil, a.err
	}
	return &Array{shape: a.shape, data: a.data}, nil
}

// Signature returns the abstract shape signature of the array, e.g.
// "f64[128,224,224]". Signatures key the jit compilation cache.
func (a *Array) Signature() string {
	var b strings.Builder
	b.WriteString("f64[")
	for i, d := range a.shape {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", d)
	}
	b.WriteByte(']')
	return b.String()
}

func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

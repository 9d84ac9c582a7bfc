// Package sparse provides batched-COO sparse matrices over the glint
// runtime: dense/sparse conversion and sparse matrix-vector products.
// Kernels dispatch through the runtime's custom-call path, so a BCOO built
// from a pending dense array is itself pending until its device finishes.
package sparse

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/glint-ml/glint"
)

// BCOO is a 2-D sparse matrix in coordinate format with a fixed number of
// stored elements (nse). Data holds the stored values and Indices holds
// the [nse,2] row/column coordinates. Matrices with fewer than nse
// nonzeros are padded with explicit zeros at coordinate (0,0).
type BCOO struct {
	Data    *glint.Array // shape [nse]
	Indices *glint.Array // shape [nse, 2]
	rows    int
	cols    int
	nse     int
}

// Shape returns the dense shape (rows, cols).
func (m *BCOO) Shape() (int, int) { return m.rows, m.cols }

// NSE returns the number of stored elements.
func (m *BCOO) NSE() int { return m.nse }

// BlockUntilReady waits for the value and index buffers to materialize and
// returns the first deferred error.
func (m *BCOO) BlockUntilReady() error {
	if err := m.Data.Err(); err != nil {
		return err
	}
	return m.Indices.Err()
}

// New wraps existing value and index arrays. Data must have shape [nse]
// and Indices shape [nse,2].
func New(data, indices *glint.Array, rows, cols int) (*BCOO, error) {
	if data.Rank() != 1 {
		return nil, fmt.Errorf("sparse: data must be rank 1, got shape %v", data.Shape())
	}
	nse := data.Shape()[0]
	if indices.Rank() != 2 || indices.Shape()[0] != nse || indices.Shape()[1] != 2 {
		return nil, fmt.Errorf("sparse: indices must have shape [%d,2], got %v", nse, indices.Shape())
	}
	return &BCOO{Data: data, Indices: indices, rows: rows, cols: cols, nse: nse}, nil
}

// FromDense converts a dense [rows,cols] array to BCOO with exactly nse
// stored elements, scanning in row-major order and padding when the matrix
// has fewer nonzeros.
func FromDense(c *glint.Client, a *glint.Array, nse int) (*BCOO, error) {
	if a.Rank() != 2 {
		return nil, fmt.Errorf("sparse: fromdense: want rank 2, got shape %v", a.Shape())
	}
	rows, cols := a.Shape()[0], a.Shape()[1]

	outs := c.Custom([]*glint.Array{a}, [][]int{{nse}, {nse, 2}}, func(in []*glint.Array) ([][]float64, error) {
		return fromDenseKernel(in[0].Float64s(), rows, cols, nse)
	})
	return &BCOO{Data: outs[0], Indices: outs[1], rows: rows, cols: cols, nse: nse}, nil
}

func fromDenseKernel(dense []float64, rows, cols, nse int) ([][]float64, error) {
	data := make([]float64, nse)
	indices := make([]float64, nse*2)
	k := 0
	for r := 0; r < rows && k < nse; r++ {
		for c := 0; c < cols && k < nse; c++ {
			v := dense[r*cols+c]
			if v == 0 {
				continue
			}
			data[k] = v
			indices[k*2] = float64(r)
			indices[k*2+1] = float64(c)
			k++
		}
	}
	return [][]float64{data, indices}, nil
}

// ToDense scatters the matrix back to a dense [rows,cols] array.
func (m *BCOO) ToDense(c *glint.Client) *glint.Array {
	rows, cols, nse := m.rows, m.cols, m.nse
	outs := c.Custom([]*glint.Array{m.Data, m.Indices}, [][]int{{rows, cols}}, func(in []*glint.Array) ([][]float64, error) {
		dense := make([]float64, rows*cols)
		data, indices := in[0].Float64s(), in[1].Float64s()
		for k := 0; k < nse; k++ {
			r, col := int(indices[k*2]), int(indices[k*2+1])
			if r < 0 || r >= rows || col < 0 || col >= cols {
				return nil, fmt.Errorf("sparse: todense: index (%d,%d) outside %dx%d", r, col, rows, cols)
			}
			dense[r*cols+col] += data[k]
		}
		return [][]float64{dense}, nil
	})
	return outs[0]
}

// MatVec computes the sparse matrix-vector product m @ v. The vector must
// have length cols; the result has length rows.
func (m *BCOO) MatVec(c *glint.Client, v *glint.Array) *glint.Array {
	rows, cols, nse := m.rows, m.cols, m.nse
	if v.Rank() != 1 || v.Shape()[0] != cols {
		return glint.ErrorArray(fmt.Errorf("sparse: matvec: vector shape %v, want [%d]", v.Shape(), cols))
	}
	outs := c.Custom([]*glint.Array{m.Data, m.Indices, v}, [][]int{{rows}}, func(in []*glint.Array) ([][]float64, error) {
		out := make([]float64, rows)
		data, indices, vec := in[0].Float64s(), in[1].Float64s(), in[2].Float64s()
		for k := 0; k < nse; k++ {
			r, col := int(indices[k*2]), int(indices[k*2+1])
			if r < 0 || r >= rows || col < 0 || col >= cols {
				return nil, fmt.Errorf("sparse: matvec: index (%d,%d) outside %dx%d", r, col, rows, cols)
			}
			out[r] += data[k] * vec[col]
		}
		return [][]float64{out}, nil
	})
	return outs[0]
}

// Random builds a BCOO with nse distinct uniformly random coordinates and
// uniform values in [0,1), sorted in row-major index order.
func Random(c *glint.Client, rng *rand.Rand, rows, cols, nse int) (*BCOO, error) {
	if nse > rows*cols {
		return nil, fmt.Errorf("sparse: random: nse %d exceeds %dx%d", nse, rows, cols)
	}
	seen := make(map[int]struct{}, nse)
	flat := make([]int, 0, nse)
	for len(flat) < nse {
		p := rng.IntN(rows * cols)
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		flat = append(flat, p)
	}
	// Row-major order keeps indices sorted, matching FromDense output.
	slices.Sort(flat)

	data := make([]float64, nse)
	indices := make([]float64, nse*2)
	for k, p := range flat {
		data[k] = rng.Float64()
		indices[k*2] = float64(p / cols)
		indices[k*2+1] = float64(p % cols)
	}
	return &BCOO{
		Data:    c.Put(data),
		Indices: c.Put(indices, nse, 2),
		rows:    rows,
		cols:    cols,
		nse:     nse,
	}, nil
}

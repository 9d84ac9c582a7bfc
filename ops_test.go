package glint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glint-ml/glint"
)

func TestElementwiseOnDevice(t *testing.T) {
	c := glint.New()
	defer c.Close()

	a := c.Put([]float64{1, -2, 3})
	b := c.Put([]float64{10, 20, 30})

	assert.Equal(t, []float64{-1, 2, -3}, glint.Neg(a).Float64s())
	assert.Equal(t, []float64{11, 18, 33}, glint.Add(a, b).Float64s())
	assert.Equal(t, []float64{9, 22, 27}, glint.Sub(b, a).Float64s())
	assert.Equal(t, []float64{10, -40, 90}, glint.Mul(a, b).Float64s())
	assert.Equal(t, []float64{2, -1, 4}, glint.AddScalar(a, 1).Float64s())
}

func TestElementwiseOnHostEvaluatesInline(t *testing.T) {
	a := glint.NewArray([]float64{1, 2})
	b := glint.NewArray([]float64{3, 4})

	out := glint.Add(a, b)
	require.NoError(t, out.Err())
	assert.Equal(t, []float64{4, 6}, out.Float64s())
}

func TestShapeMismatch(t *testing.T) {
	a := glint.NewArray([]float64{1, 2})
	b := glint.NewArray([]float64{1, 2, 3})

	assert.Error(t, glint.Add(a, b).Err())
	assert.Error(t, glint.Dot(a, b).Err())
}

func TestAddN(t *testing.T) {
	c := glint.New()
	defer c.Close()

	xs := make([]*glint.Array, 10)
	for i := range xs {
		xs[i] = c.Scalar(float64(i))
	}
	out := glint.AddN(xs...)
	require.NoError(t, out.Err())
	assert.Equal(t, 45.0, out.At(0))

	assert.Error(t, glint.AddN().Err())
}

func TestDot(t *testing.T) {
	c := glint.New()
	defer c.Close()

	m := c.Put([]float64{1, 2, 3, 4}, 2, 2)
	v := c.Put([]float64{1, 1})

	mm := glint.Dot(m, m)
	require.NoError(t, mm.Err())
	assert.Equal(t, []int{2, 2}, mm.Shape())
	assert.Equal(t, []float64{7, 10, 15, 22}, mm.Float64s())

	mv := glint.Dot(m, v)
	require.NoError(t, mv.Err())
	assert.Equal(t, []float64{3, 7}, mv.Float64s())

	vv := glint.Dot(v, v)
	require.NoError(t, vv.Err())
	assert.Equal(t, 2.0, vv.At(0))
}

func TestSlice(t *testing.T) {
	c := glint.New()
	defer c.Close()

	a := c.Put([]float64{0, 1, 2, 3, 4, 5}, 3, 2)

	s := glint.Slice(a, 1, 3)
	require.NoError(t, s.Err())
	assert.Equal(t, []int{2, 2}, s.Shape())
	assert.Equal(t, []float64{2, 3, 4, 5}, s.Float64s())

	assert.Error(t, glint.Slice(a, 2, 5).Err())
}

func TestErrorPropagatesThroughChain(t *testing.T) {
	c := glint.New()
	defer c.Close()

	bad := c.Put([]float64{1}, 2, 2) // wrong element count
	out := glint.Neg(glint.Neg(bad))
	assert.Error(t, out.Err())
}

func TestCustomKernel(t *testing.T) {
	c := glint.New()
	defer c.Close()

	a := c.Put([]float64{3, 1, 2})
	outs := c.Custom([]*glint.Array{a}, [][]int{{1}}, func(in []*glint.Array) ([][]float64, error) {
		max := in[0].At(0)
		for _, v := range in[0].Float64s() {
			if v > max {
				max = v
			}
		}
		return [][]float64{{max}}, nil
	})
	require.Len(t, outs, 1)
	require.NoError(t, outs[0].Err())
	assert.Equal(t, 3.0, outs[0].At(0))
}

package glint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glint-ml/glint"
)

func addOne(args []*glint.Array) []*glint.Array {
	return []*glint.Array{glint.AddScalar(args[0], 1)}
}

func TestJitCall(t *testing.T) {
	c := glint.New()
	defer c.Close()

	f := c.Jit(addOne)
	out := f.Call1(c.Put([]float64{1, 2, 3}))
	require.NoError(t, out.Err())
	assert.Equal(t, []float64{2, 3, 4}, out.Float64s())
}

func TestJitCachesPerSignature(t *testing.T) {
	c := glint.New()
	defer c.Close()

	f := c.Jit(addOne)
	a := c.Put([]float64{1, 2, 3})

	f.Call1(a).BlockUntilReady()
	f.Call1(a).BlockUntilReady()
	assert.Equal(t, int64(1), f.Compiles(), "same signature must not recompile")

	f.Call1(c.Put([]float64{1, 2, 3, 4})).BlockUntilReady()
	assert.Equal(t, int64(2), f.Compiles(), "new signature compiles once")
}

func TestJitMultipleOutputs(t *testing.T) {
	c := glint.New()
	defer c.Close()

	f := c.Jit(func(args []*glint.Array) []*glint.Array {
		return []*glint.Array{args[1], args[0]}
	})
	out := f.Call(c.Scalar(1), c.Scalar(2))
	require.Len(t, out, 2)
	assert.Equal(t, 2.0, out[0].At(0))
	assert.Equal(t, 1.0, out[1].At(0))
}

func TestLowerCompileBypassesCache(t *testing.T) {
	c := glint.New()
	defer c.Close()

	f := c.Jit(addOne)
	a := c.Put([]float64{1, 2})

	for i := 0; i < 3; i++ {
		_, err := f.Lower(a).Compile()
		require.NoError(t, err)
	}
	assert.Equal(t, int64(3), f.Compiles())
}

func TestExecutableShapes(t *testing.T) {
	c := glint.New()
	defer c.Close()

	f := c.Jit(func(args []*glint.Array) []*glint.Array {
		return []*glint.Array{glint.Dot(args[0], args[0])}
	})
	exec, err := f.Lower(glint.Zeros(3, 3)).Compile()
	require.NoError(t, err)
	assert.Equal(t, [][]int{{3, 3}}, exec.OutShapes())
}

func TestJitArgShapeMismatch(t *testing.T) {
	c := glint.New()
	defer c.Close()

	f := c.Jit(addOne)
	exec, err := f.Lower(glint.Zeros(2)).Compile()
	require.NoError(t, err)

	out := exec.Execute([]*glint.Array{c.Put([]float64{1, 2, 3})})
	assert.Error(t, out[0].Err())
}

func TestJitTraceFailure(t *testing.T) {
	c := glint.New()
	defer c.Close()

	f := c.Jit(func(args []*glint.Array) []*glint.Array {
		return []*glint.Array{glint.Add(args[0], glint.Zeros(99))}
	})
	_, err := f.Lower(glint.Zeros(2)).Compile()
	assert.Error(t, err)
}

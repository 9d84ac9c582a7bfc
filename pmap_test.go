package glint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glint-ml/glint"
)

func TestShardSplitsLeadingAxis(t *testing.T) {
	c := glint.New(glint.WithDeviceCount(2))
	defer c.Close()

	s, err := c.Shard(c.Put([]float64{1, 2, 3, 4}), 2)
	require.NoError(t, err)
	require.Equal(t, 2, s.NumShards())
	require.NoError(t, s.BlockUntilReady())

	assert.Equal(t, []float64{1, 2}, s.Shard(0).Float64s())
	assert.Equal(t, []float64{3, 4}, s.Shard(1).Float64s())

	all, err := s.Float64s()
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4}, all)
}

func TestShardErrors(t *testing.T) {
	c := glint.New(glint.WithDeviceCount(2))
	defer c.Close()

	_, err := c.Shard(c.Put([]float64{1, 2, 3}), 2)
	assert.Error(t, err, "leading axis not divisible")

	_, err = c.Shard(c.Put([]float64{1, 2, 3}), 3)
	assert.Error(t, err, "more shards than devices")
}

func TestPmapRunsPerDevice(t *testing.T) {
	c := glint.New(glint.WithDeviceCount(2))
	defer c.Close()

	f, err := c.Pmap(func(args []*glint.Array) []*glint.Array {
		return []*glint.Array{glint.Add(args[0], args[1])}
	}, 2)
	require.NoError(t, err)

	a, err := c.Shard(c.Put([]float64{1, 2}), 2)
	require.NoError(t, err)
	b, err := c.Shard(c.Put([]float64{10, 20}), 2)
	require.NoError(t, err)

	out, err := f.Call(a, b)
	require.NoError(t, err)
	require.Len(t, out, 1)

	got, err := out[0].Float64s()
	require.NoError(t, err)
	assert.Equal(t, []float64{11, 22}, got)
}

func TestPmapOutputsFeedBack(t *testing.T) {
	c := glint.New(glint.WithDeviceCount(2))
	defer c.Close()

	f, err := c.Pmap(func(args []*glint.Array) []*glint.Array {
		return []*glint.Array{glint.AddScalar(args[0], 1)}
	}, 2)
	require.NoError(t, err)

	x, err := c.Shard(c.Arange(2), 2)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		out, err := f.Call(x)
		require.NoError(t, err)
		x = out[0]
	}
	got, err := x.Float64s()
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 6}, got)
}

func TestPmapShardCountMismatch(t *testing.T) {
	c := glint.New(glint.WithDeviceCount(4))
	defer c.Close()

	f, err := c.Pmap(func(args []*glint.Array) []*glint.Array {
		return args
	}, 4)
	require.NoError(t, err)

	two, err := c.Shard(c.Put([]float64{1, 2}), 2)
	require.NoError(t, err)

	_, err = f.Call(two)
	assert.Error(t, err)
}

func TestPmapTooManyDevices(t *testing.T) {
	c := glint.New(glint.WithDeviceCount(2))
	defer c.Close()

	_, err := c.Pmap(func(args []*glint.Array) []*glint.Array { return args }, 8)
	assert.Error(t, err)
}

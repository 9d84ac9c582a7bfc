package shard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glint-ml/glint"
	"github.com/glint-ml/glint/shard"
)

func newMesh(t *testing.T, c *glint.Client, shape []int, axes ...string) *shard.Mesh {
	t.Helper()
	m, err := shard.NewMesh(c.Devices(), shape, axes...)
	require.NoError(t, err)
	return m
}

func TestNewMeshValidation(t *testing.T) {
	c := glint.New(glint.WithDeviceCount(8))
	defer c.Close()

	m := newMesh(t, c, []int{4, 2}, "x", "y")
	assert.Equal(t, 8, m.Size())
	assert.Equal(t, 4, m.AxisSize("x"))
	assert.Equal(t, 2, m.AxisSize("y"))
	assert.Equal(t, 0, m.AxisSize("z"))

	_, err := shard.NewMesh(c.Devices(), []int{4, 4}, "x", "y")
	assert.Error(t, err, "shape product must equal device count")

	_, err = shard.NewMesh(c.Devices(), []int{8}, "x", "y")
	assert.Error(t, err, "each axis needs a name")
}

func TestNamedShardingValidate(t *testing.T) {
	c := glint.New(glint.WithDeviceCount(8))
	defer c.Close()
	m := newMesh(t, c, []int{4, 2}, "x", "y")

	s := shard.NamedSharding{Mesh: m, Spec: shard.PartitionSpec{"x", "y"}}
	assert.NoError(t, s.Validate([]int{8, 2}))
	assert.NoError(t, s.Validate([]int{4, 2, 7}), "trailing dims replicated")

	assert.Error(t, s.Validate([]int{7, 2}), "dim 0 not divisible by axis x")
	assert.Error(t, s.Validate([]int{8}), "spec longer than shape")

	bad := shard.NamedSharding{Mesh: m, Spec: shard.PartitionSpec{"z"}}
	err := bad.Validate([]int{8})
	require.Error(t, err)
	assert.ErrorIs(t, err, shard.ErrAxisNotInMesh)

	replicated := shard.NamedSharding{Mesh: m, Spec: shard.PartitionSpec{"", "y"}}
	assert.NoError(t, replicated.Validate([]int{7, 2}))
}

func TestCheckArrayShardings(t *testing.T) {
	c := glint.New(glint.WithDeviceCount(8))
	defer c.Close()
	m := newMesh(t, c, []int{4, 2}, "x", "y")
	s := shard.NamedSharding{Mesh: m, Spec: shard.PartitionSpec{"x", "y"}}

	shardings := []shard.NamedSharding{s, s}
	assert.NoError(t, shard.CheckArrayShardings(shardings, [][]int{{8, 2}, {4, 4}}))

	assert.Error(t, shard.CheckArrayShardings(shardings, [][]int{{8, 2}}), "length mismatch")
	assert.Error(t, shard.CheckArrayShardings(shardings, [][]int{{8, 2}, {5, 2}}))
}

func TestMakeArray(t *testing.T) {
	c := glint.New(glint.WithDeviceCount(4))
	defer c.Close()
	m := newMesh(t, c, []int{4}, "x")
	s := shard.NamedSharding{Mesh: m, Spec: shard.PartitionSpec{"x"}}

	x, err := shard.MakeArray(c, []int{8}, s, func(i int) float64 { return float64(i * i) })
	require.NoError(t, err)
	require.Equal(t, 4, x.NumShards())
	require.NoError(t, x.BlockUntilReady())

	all, err := x.Float64s()
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 4, 9, 16, 25, 36, 49}, all)
	assert.Equal(t, []float64{0, 1}, x.Shard(0).Float64s())
	assert.Equal(t, []float64{36, 49}, x.Shard(3).Float64s())
}

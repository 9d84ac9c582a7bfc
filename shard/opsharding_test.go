package shard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/glint-ml/glint/shard"
)

func tiled(n int) shard.OpSharding {
	devices := make([]int64, n)
	for i := range devices {
		devices[i] = int64(i)
	}
	return shard.OpSharding{
		Kind:                     shard.OpShardingTiled,
		TileAssignmentDimensions: []int64{4, 2},
		TileAssignmentDevices:    devices,
	}
}

func TestOpShardingEqual(t *testing.T) {
	assert.True(t, tiled(8).Equal(tiled(8)))
	assert.False(t, tiled(8).Equal(tiled(16)), "different assignment lengths")

	other := tiled(8)
	other.TileAssignmentDevices[3] = 99
	assert.False(t, tiled(8).Equal(other))

	dims := tiled(8)
	dims.TileAssignmentDimensions = []int64{2, 4}
	assert.False(t, tiled(8).Equal(dims))

	kind := tiled(8)
	kind.Kind = shard.OpShardingReplicated
	assert.False(t, tiled(8).Equal(kind))

	replTail := tiled(8)
	replTail.ReplicateOnLastTileDim = true
	assert.False(t, tiled(8).Equal(replTail))
}

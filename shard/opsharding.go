package shard

// OpShardingKind distinguishes the compiler-level sharding encodings.
type OpShardingKind int

const (
	// OpShardingReplicated replicates the value on every device.
	OpShardingReplicated OpShardingKind = iota
	// OpShardingMaximal places the value on a single device.
	OpShardingMaximal
	// OpShardingTiled tiles the value across a device assignment.
	OpShardingTiled
)

// OpSharding is the low-level tiled sharding description exchanged with
// the execution engine: a device tile assignment plus its dimensions.
type OpSharding struct {
	Kind                     OpShardingKind
	TileAssignmentDimensions []int64
	TileAssignmentDevices    []int64
	ReplicateOnLastTileDim   bool
}

// Equal reports structural equality of two op shardings. Device
// assignments compare elementwise, so this is linear in the assignment
// size.
func (o OpSharding) Equal(other OpSharding) bool {
	if o.Kind != other.Kind || o.ReplicateOnLastTileDim != other.ReplicateOnLastTileDim {
		return false
	}
	if !int64sEqual(o.TileAssignmentDimensions, other.TileAssignmentDimensions) {
		return false
	}
	return int64sEqual(o.TileAssignmentDevices, other.TileAssignmentDevices)
}

func int64sEqual(a, b []int64) bool {
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

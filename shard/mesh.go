// Package shard provides device meshes, named shardings, and partitioned
// execution over the glint runtime.
package shard

import (
	"errors"
	"fmt"

	"github.com/glint-ml/glint"
)

// ErrAxisNotInMesh reports a partition spec axis missing from the mesh.
var ErrAxisNotInMesh = errors.New("shard: partition axis not in mesh")

// Mesh is a logical n-dimensional arrangement of devices with named axes.
type Mesh struct {
	devices []*glint.Device
	shape   []int
	axes    []string
}

// NewMesh arranges devices into the given axis shape. The product of the
// axis sizes must equal the device count and every axis needs a name.
func NewMesh(devices []*glint.Device, shape []int, axes ...string) (*Mesh, error) {
	if len(shape) != len(axes) {
		return nil, fmt.Errorf("shard: mesh has %d axes but %d names", len(shape), len(axes))
	}
	n := 1
	for _, d := range shape {
		n *= d
	}
	if n != len(devices) {
		return nil, fmt.Errorf("shard: mesh shape %v needs %d devices, got %d", shape, n, len(devices))
	}
	return &Mesh{devices: devices, shape: shape, axes: axes}, nil
}

// Devices returns the mesh devices in row-major mesh order.
func (m *Mesh) Devices() []*glint.Device { return m.devices }

// Size returns the total device count.
func (m *Mesh) Size() int { return len(m.devices) }

// AxisSize returns the size of the named axis, or 0 when absent.
func (m *Mesh) AxisSize(name string) int {
	for i, a := range m.axes {
		if a == name {
			return m.shape[i]
		}
	}
	return 0
}

// PartitionSpec names the mesh axis each array dimension is split over.
// An empty name leaves the dimension replicated.
type PartitionSpec []string

// NamedSharding binds a partition spec to a mesh.
type NamedSharding struct {
	Mesh *Mesh
	Spec PartitionSpec
}

// Validate checks that the sharding can apply to an array of the given
// shape: every named spec axis must exist in the mesh and the matching
// dimension must divide evenly.
func (s NamedSharding) Validate(shape []int) error {
	if len(s.Spec) > len(shape) {
		return fmt.Errorf("shard: spec %v longer than shape %v", s.Spec, shape)
	}
	for i, axis := range s.Spec {
		if axis == "" {
			continue
		}
		size := s.Mesh.AxisSize(axis)
		if size == 0 {
			return fmt.Errorf("%w: %q", ErrAxisNotInMesh, axis)
		}
		if shape[i]%size != 0 {
			return fmt.Errorf("shard: dimension %d of %v not divisible by axis %q size %d", i, shape, axis, size)
		}
	}
	return nil
}

// CheckArrayShardings validates one sharding per array shape. It is the
// pre-dispatch check partitioned calls run over their argument lists.
func CheckArrayShardings(shardings []NamedSharding, shapes [][]int) error {
	if len(shardings) != len(shapes) {
		return fmt.Errorf("shard: %d shardings for %d arrays", len(shardings), len(shapes))
	}
	for i, s := range shardings {
		if err := s.Validate(shapes[i]); err != nil {
			return fmt.Errorf("shard: array %d: %w", i, err)
		}
	}
	return nil
}

// MakeArray builds a sharded array of the given shape over the sharding's
// mesh, filling elements from the row-major callback. The leading dimension
// is split across the mesh devices.
func MakeArray(c *glint.Client, shape []int, s NamedSharding, fill func(i int) float64) (*glint.Sharded, error) {
	if err := s.Validate(shape); err != nil {
		return nil, err
	}
	n := 1
	for _, d := range shape {
		n *= d
	}
	data := make([]float64, n)
	for i := range data {
		data[i] = fill(i)
	}

	mesh := s.Mesh
	per := shape[0] / mesh.Size()
	stride := n / shape[0]
	shardShape := append([]int{per}, shape[1:]...)

	shards := make([]*glint.Array, mesh.Size())
	for i, dev := range mesh.Devices() {
		lo := i * per * stride
		shards[i] = c.PutOn(dev, data[lo:lo+per*stride], shardShape...)
	}
	return glint.ShardedOf(shards...), nil
}

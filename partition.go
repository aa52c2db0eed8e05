package gridforge

import (
	"hash/fnv"
	"reflect"
	"sync"
)

// Partition is the interface every voxel extension object implements.
// Polymorphism here is achieved at the interface level rather than through
// a closed tagged-variant enum, since the set of partition kinds is open
// to whatever a consumer of this package wants to attach.
type Partition interface {
	OnAddToVoxel(v *Voxel)
	OnRemoveFromVoxel(v *Voxel)
}

// PartitionProvider is a typed, keyed attachment point for extension
// objects on a voxel. Keys combine the voxel's spawn token with a hash of
// the partition's concrete type, preserving the collision discipline used
// everywhere else tokens are mixed.
type PartitionProvider struct {
	mu    sync.Mutex
	items map[int32]Partition
}

func partitionTypeTag(t reflect.Type) int32 {
	h := fnv.New32a()
	h.Write([]byte(t.String()))
	return int32(h.Sum32())
}

func partitionKey(spawnToken int32, typeTag int32) int32 {
	return MixHash(spawnToken, typeTag, 0)
}

// TryAddPartition attaches p to v, keyed by T's concrete type. Returns
// false if a partition of that type is already attached (duplicate).
func TryAddPartition[T Partition](v *Voxel, p T) bool {
	t := reflect.TypeOf(p)
	tag := partitionTypeTag(t)
	key := partitionKey(v.spawnToken, tag)

	v.partitions.mu.Lock()
	if v.partitions.items == nil {
		v.partitions.items = make(map[int32]Partition)
	}
	if _, exists := v.partitions.items[key]; exists {
		v.partitions.mu.Unlock()
		return false
	}
	v.partitions.items[key] = p
	v.partitions.mu.Unlock()

	dispatchSafely("Partition.OnAddToVoxel", ChangeAdd, func() { p.OnAddToVoxel(v) })
	return true
}

// TryRemovePartition detaches the partition of type T from v, if present.
func TryRemovePartition[T Partition](v *Voxel) bool {
	var zero T
	tag := partitionTypeTag(reflect.TypeOf(zero))
	key := partitionKey(v.spawnToken, tag)

	v.partitions.mu.Lock()
	p, exists := v.partitions.items[key]
	if !exists {
		v.partitions.mu.Unlock()
		return false
	}
	delete(v.partitions.items, key)
	v.partitions.mu.Unlock()

	dispatchSafely("Partition.OnRemoveFromVoxel", ChangeRemove, func() { p.OnRemoveFromVoxel(v) })
	return true
}

// TryGetPartition returns the attached partition of type T, if any.
func TryGetPartition[T Partition](v *Voxel) (T, bool) {
	var zero T
	tag := partitionTypeTag(reflect.TypeOf(zero))
	key := partitionKey(v.spawnToken, tag)

	v.partitions.mu.Lock()
	defer v.partitions.mu.Unlock()
	p, exists := v.partitions.items[key]
	if !exists {
		return zero, false
	}
	typed, ok := p.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// HasPartition reports whether a partition of type T is attached.
func HasPartition[T Partition](v *Voxel) bool {
	_, ok := TryGetPartition[T](v)
	return ok
}

// GetPartitionOrDefault returns the attached partition of type T, or the
// zero value of T if none is attached.
func GetPartitionOrDefault[T Partition](v *Voxel) T {
	p, _ := TryGetPartition[T](v)
	return p
}

// reset releases every attached partition, invoking each one's removal
// callback, and clears the provider's backing map.
func (p *PartitionProvider) reset(owner *Voxel) {
	p.mu.Lock()
	items := p.items
	p.items = nil
	p.mu.Unlock()

	for _, partition := range items {
		dispatchSafely("Partition.OnRemoveFromVoxel", ChangeRemove, func() { partition.OnRemoveFromVoxel(owner) })
	}
}

package gridforge

import (
	"sync"

	"github.com/mrdav30/GridForge-sub000/fixmath"
	"github.com/mrdav30/GridForge-sub000/pool"
)

var obstacleTrackerPool = pool.NewSetPool[int32]()

// neighborSlot is one entry of a voxel's 26-slot cached-neighbor array.
// Valid is false for directions with no resolvable neighbor; the iterator
// skips those.
type neighborSlot struct {
	Valid bool
	Index GlobalVoxelIndex
}

var neighborArrayPool = pool.NewArrayPool[neighborSlot](directionCount)

// NeighborEntry pairs a direction with the voxel found there.
type NeighborEntry struct {
	Direction SpatialDirection
	Voxel     *Voxel
}

// Voxel is a single cell of a VoxelGrid. It never holds an owning
// reference back to its grid: it carries gridIndex + spawnToken and
// resolves the owning grid through the global registry on demand, which
// keeps pool reuse and cross-grid neighbor references from forming cycles.
type Voxel struct {
	GlobalIndex   GlobalVoxelIndex
	WorldPosition fixmath.Vec3
	ScanCellKey   int32
	IsBoundary    bool
	spawnToken    int32

	ObstacleCount   uint8
	obstacleTracker *pool.Set[int32]

	OccupantCount uint8

	partitions PartitionProvider

	neighborMu         sync.Mutex
	cachedNeighbors    []neighborSlot
	neighborCacheValid bool
	cachedGridVersion  uint32

	IsAllocated bool

	onObstacleChange []func(ChangeKind, GlobalVoxelIndex)
	onOccupantChange []func(ChangeKind, GlobalVoxelIndex)
}

// NewVoxel constructs a Voxel in its reset (unallocated) state, suitable
// as the New function for an ObjectPool.
func NewVoxel() *Voxel {
	return &Voxel{}
}

// Initialize (re)allocates the voxel for use in a grid generation pass.
func (v *Voxel) Initialize(idx GlobalVoxelIndex, worldPos fixmath.Vec3, scanCellKey int32, isBoundary bool, gridVersion uint32) {
	v.GlobalIndex = idx
	v.WorldPosition = worldPos
	v.ScanCellKey = scanCellKey
	v.IsBoundary = isBoundary
	v.spawnToken = MixHash(int32(idx.GridIndex), idx.Local.Hash(), idx.GridToken)
	v.ObstacleCount = 0
	v.OccupantCount = 0
	v.cachedGridVersion = gridVersion
	v.neighborCacheValid = false
	v.IsAllocated = true
}

// Reset releases partitions (invoking removal callbacks), releases the
// neighbor array, zeros counters, and clears the allocation flag. Called
// when a voxel is returned to its pool.
func (v *Voxel) Reset() {
	v.partitions.reset(v)

	v.neighborMu.Lock()
	if v.cachedNeighbors != nil {
		neighborArrayPool.Release(v.cachedNeighbors)
		v.cachedNeighbors = nil
	}
	v.neighborCacheValid = false
	v.neighborMu.Unlock()

	if v.obstacleTracker != nil {
		obstacleTrackerPool.Release(v.obstacleTracker)
		v.obstacleTracker = nil
	}

	v.ObstacleCount = 0
	v.OccupantCount = 0
	v.IsAllocated = false
	v.onObstacleChange = nil
	v.onOccupantChange = nil
}

// IsBlocked reports whether the voxel is allocated and carries at least
// one obstacle.
func (v *Voxel) IsBlocked() bool {
	return v.IsAllocated && v.ObstacleCount > 0
}

// IsBlockable reports whether an obstacle could currently be added: the
// voxel is allocated, under the obstacle cap, and not occupied.
func (v *Voxel) IsBlockable() bool {
	return v.IsAllocated && v.ObstacleCount < MaxObstacleCount && !v.IsOccupied()
}

// IsOccupied reports whether any occupant currently holds this voxel.
func (v *Voxel) IsOccupied() bool {
	return v.IsAllocated && v.OccupantCount > 0
}

// HasVacancy reports whether an occupant could currently be added.
func (v *Voxel) HasVacancy() bool {
	return !v.IsBlocked() && v.OccupantCount < MaxOccupantCount
}

// OnObstacleChange registers a callback fired whenever this voxel's
// obstacle state transitions, after the mutating critical section.
func (v *Voxel) OnObstacleChange(fn func(ChangeKind, GlobalVoxelIndex)) {
	v.onObstacleChange = append(v.onObstacleChange, fn)
}

// OnOccupantChange registers a callback fired whenever this voxel's
// occupant state transitions, after the mutating critical section.
func (v *Voxel) OnOccupantChange(fn func(ChangeKind, GlobalVoxelIndex)) {
	v.onOccupantChange = append(v.onOccupantChange, fn)
}

func (v *Voxel) fireObstacleChange(kind ChangeKind) {
	for _, fn := range v.onObstacleChange {
		f := fn
		dispatchSafely("Voxel.OnObstacleChange", kind, func() { f(kind, v.GlobalIndex) })
	}
}

func (v *Voxel) fireOccupantChange(kind ChangeKind) {
	for _, fn := range v.onOccupantChange {
		f := fn
		dispatchSafely("Voxel.OnOccupantChange", kind, func() { f(kind, v.GlobalIndex) })
	}
}

// InvalidateNeighborCache marks the cached-neighbor array stale. The next
// call to GetNeighbors rebuilds it; a redundant rebuild race is wasted
// work, never incorrect, so no lock is required to flip the flag.
func (v *Voxel) InvalidateNeighborCache() {
	v.neighborCacheValid = false
}

// GetNeighbors returns the (direction, voxel) pairs for the up to 26
// surrounding voxels that lie in the owning grid; voxels across a grid
// boundary are not included. When useCache is true and the cache is
// valid, the cached array is reused; otherwise it is rebuilt.
//
// IEnumerable<T> in the reference design becomes a materialized slice here
// (documented per the package's "lazy sequence" note): callers needing
// only the first match should short-circuit on the result rather than
// expect true streaming.
func (v *Voxel) GetNeighbors(useCache bool) []NeighborEntry {
	slots := v.neighborSlots(useCache)
	out := make([]NeighborEntry, 0, directionCount)
	for i, s := range slots {
		if !s.Valid {
			continue
		}
		nv, ok := defaultManager.resolveVoxel(s.Index)
		if !ok {
			continue
		}
		out = append(out, NeighborEntry{Direction: SpatialDirection(i), Voxel: nv})
	}
	return out
}

// TryGetNeighborFromDirection resolves a single neighbor.
func (v *Voxel) TryGetNeighborFromDirection(dir SpatialDirection, useCache bool) (*Voxel, bool) {
	if dir < 0 || int(dir) >= directionCount {
		return nil, false
	}
	slots := v.neighborSlots(useCache)
	s := slots[dir]
	if !s.Valid {
		return nil, false
	}
	return defaultManager.resolveVoxel(s.Index)
}

// TryGetNeighborFromOffset resolves the neighbor at a raw (dx,dy,dz) unit
// offset. Candidate indices outside the owning grid's local range resolve
// to false: neighbors are resolved within the owning grid only, never
// across grids (open question #2 in the design notes).
func (v *Voxel) TryGetNeighborFromOffset(dx, dy, dz int32) (*Voxel, bool) {
	dir := OffsetToDirection(dx, dy, dz)
	if dir == DirectionNone {
		return nil, false
	}
	return v.TryGetNeighborFromDirection(dir, true)
}

func (v *Voxel) neighborSlots(useCache bool) []neighborSlot {
	v.neighborMu.Lock()
	if useCache && v.neighborCacheValid && v.cachedNeighbors != nil {
		slots := v.cachedNeighbors
		v.neighborMu.Unlock()
		return slots
	}
	v.neighborMu.Unlock()

	fresh := v.rebuildNeighborSlots()

	v.neighborMu.Lock()
	if v.cachedNeighbors != nil {
		neighborArrayPool.Release(v.cachedNeighbors)
	}
	v.cachedNeighbors = fresh
	v.neighborCacheValid = true
	grid, ok := defaultManager.tryGetGridBySlot(v.GlobalIndex.GridIndex)
	if ok {
		v.cachedGridVersion = grid.Version
	}
	v.neighborMu.Unlock()

	return fresh
}

func (v *Voxel) rebuildNeighborSlots() []neighborSlot {
	slots := neighborArrayPool.Rent()
	grid, ok := defaultManager.tryGetGridBySlot(v.GlobalIndex.GridIndex)
	if !ok {
		return slots
	}
	for i, off := range DirectionOffsets {
		candidate := v.GlobalIndex.Local.Add(off.X, off.Y, off.Z)
		nv, ok := grid.TryGetVoxelByIndex(candidate)
		if !ok {
			continue
		}
		slots[i] = neighborSlot{Valid: true, Index: nv.GlobalIndex}
	}
	return slots
}

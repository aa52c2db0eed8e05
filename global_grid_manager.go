package gridforge

import (
	"sync"

	"github.com/mrdav30/GridForge-sub000/fixmath"
	"github.com/mrdav30/GridForge-sub000/pool"
)

// AddResult is the outcome of GlobalGridManager.TryAddGrid.
type AddResult int

const (
	AddSuccess AddResult = iota
	AddAlreadyExists
	AddInvalidBounds
	AddMaxGridsReached
	AddInactive
)

func (r AddResult) String() string {
	switch r {
	case AddSuccess:
		return "Success"
	case AddAlreadyExists:
		return "AlreadyExists"
	case AddInvalidBounds:
		return "InvalidBounds"
	case AddMaxGridsReached:
		return "MaxGridsReached"
	case AddInactive:
		return "Inactive"
	default:
		return "Unknown"
	}
}

var gridObjectPool = pool.NewObjectPool(func() *VoxelGrid { return NewVoxelGrid() })
var spatialCellPool = pool.NewSetPool[uint16]()

// GlobalGridManager is the process-wide registry of active grids and the
// coarse spatial hash used to find them. gridforge exposes exactly one
// live instance (see Manager()); tests that need isolation should call
// Reset between cases rather than construct their own.
type GlobalGridManager struct {
	rw sync.RWMutex

	activeGrids   *pool.SlottedStore[*VoxelGrid]
	boundsTracker map[int32]uint16
	spatialHash   map[int32]*pool.Set[uint16]

	Version         uint32
	VoxelSize       fixmath.Fix64
	SpatialCellSize int32
	IsActive        bool

	onActiveGridChange observerList[ActiveGridChangeFunc]
	onReset            observerList[ResetFunc]
}

// defaultManager is the package's single process-wide instance.
var defaultManager = &GlobalGridManager{}

// Manager returns the process-wide GlobalGridManager singleton.
func Manager() *GlobalGridManager { return defaultManager }

// VoxelResolution is half the configured voxel size: the overlap
// tolerance used when deciding whether two grids are conjoined.
func (m *GlobalGridManager) VoxelResolution() fixmath.Fix64 {
	return voxelResolutionOf(m.VoxelSize)
}

// Setup (re)initializes the manager. Idempotent: calling it while already
// active logs a warning and leaves existing state untouched. voxelSize is
// clamped to (0, 1]; values outside that range fall back to the default.
func (m *GlobalGridManager) Setup(voxelSize fixmath.Fix64, spatialCellSize int32) {
	m.rw.Lock()
	if m.IsActive {
		m.rw.Unlock()
		defaultLogger.Warnf("GlobalGridManager.Setup called while already active; ignoring")
		return
	}

	if voxelSize.Gt(fixmath.One()) || voxelSize.Lte(fixmath.Zero()) {
		voxelSize = fixmath.FromInt(DefaultVoxelSize)
	}
	if spatialCellSize <= 0 {
		spatialCellSize = DefaultSpatialCellSize
	}

	m.activeGrids = pool.NewSlottedStore[*VoxelGrid]()
	m.boundsTracker = make(map[int32]uint16)
	m.spatialHash = make(map[int32]*pool.Set[uint16])
	m.VoxelSize = voxelSize
	m.SpatialCellSize = spatialCellSize
	m.Version = 1
	m.IsActive = true
	m.rw.Unlock()
}

// Reset tears every active grid down, clears all indices, and fires
// on_reset outside the lock. Listener panics are caught and logged.
func (m *GlobalGridManager) Reset() {
	m.rw.Lock()
	if m.activeGrids != nil {
		m.activeGrids.Each(func(_ uint16, g *VoxelGrid) bool {
			g.Reset()
			gridObjectPool.Release(g)
			return true
		})
	}
	for _, set := range m.spatialHash {
		spatialCellPool.Release(set)
	}
	m.activeGrids = nil
	m.boundsTracker = nil
	m.spatialHash = nil
	m.IsActive = false
	m.rw.Unlock()

	for _, fn := range m.onReset.snapshot() {
		f := fn
		dispatchSafely("GlobalGridManager.OnReset", ChangeRemove, func() { f() })
	}
}

// OnActiveGridChange subscribes to grid registration/removal events.
func (m *GlobalGridManager) OnActiveGridChange(fn ActiveGridChangeFunc) {
	m.onActiveGridChange.Subscribe(fn)
}

// OnReset subscribes to Reset.
func (m *GlobalGridManager) OnReset(fn ResetFunc) {
	m.onReset.Subscribe(fn)
}

// GetSpatialGridKey is the per-cell hash for a spatial-hash lattice
// coordinate.
func (m *GlobalGridManager) GetSpatialGridKey(x, y, z int32) int32 {
	return MixHash(x, y, z)
}

// GetSpatialGridCells enumerates every spatial-hash cell key a bounding
// box covers, using the signed-abs-floor lattice so negative coordinates
// map symmetrically around the origin.
func (m *GlobalGridManager) GetSpatialGridCells(min, max fixmath.Vec3) []int32 {
	minX := signedAbsFloorDiv(min.X(), m.SpatialCellSize)
	minY := signedAbsFloorDiv(min.Y(), m.SpatialCellSize)
	minZ := signedAbsFloorDiv(min.Z(), m.SpatialCellSize)
	maxX := signedAbsFloorDiv(max.X(), m.SpatialCellSize)
	maxY := signedAbsFloorDiv(max.Y(), m.SpatialCellSize)
	maxZ := signedAbsFloorDiv(max.Z(), m.SpatialCellSize)

	var keys []int32
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				keys = append(keys, m.GetSpatialGridKey(x, y, z))
			}
		}
	}
	return keys
}

func (m *GlobalGridManager) CeilToVoxelSize(v fixmath.Fix64) fixmath.Fix64  { return CeilToVoxelSize(v, m.VoxelSize) }
func (m *GlobalGridManager) FloorToVoxelSize(v fixmath.Fix64) fixmath.Fix64 { return FloorToVoxelSize(v, m.VoxelSize) }
func (m *GlobalGridManager) SnapBoundsToVoxelSize(min, max fixmath.Vec3) (fixmath.Vec3, fixmath.Vec3) {
	return SnapBoundsToVoxelSize(min, max, m.VoxelSize)
}

// IsDiagonalNeighbor reports whether dir names one of the 20 diagonal
// (planar or corner) directions, as opposed to a cardinal face or None.
func (m *GlobalGridManager) IsDiagonalNeighbor(dir SpatialDirection) bool {
	if dir == DirectionNone {
		return false
	}
	_, cardinal := cardinalBoundaryFaces[dir]
	return !cardinal
}

// GetNeighborDirectionFromOffset exposes OffsetToDirection on the manager
// for API parity with the reference surface.
func (m *GlobalGridManager) GetNeighborDirectionFromOffset(dx, dy, dz int32) SpatialDirection {
	return OffsetToDirection(dx, dy, dz)
}

// TryAddGrid registers config as a new grid, linking it to any overlapping
// neighbor already covering one of its spatial-hash cells. Returns the new
// (or, on AlreadyExists, existing) slot alongside the result.
func (m *GlobalGridManager) TryAddGrid(config GridConfig) (AddResult, uint16) {
	if !m.IsActive {
		return AddInactive, 0
	}

	for i := 0; i < 3; i++ {
		if config.BoundsMax[i].Lt(config.BoundsMin[i]) {
			return AddInvalidBounds, 0
		}
	}

	hash := config.Hash()

	m.rw.RLock()
	if m.activeGrids.Len() > MaxGrids {
		m.rw.RUnlock()
		return AddMaxGridsReached, 0
	}
	if slot, exists := m.boundsTracker[hash]; exists {
		m.rw.RUnlock()
		return AddAlreadyExists, slot
	}
	m.rw.RUnlock()

	m.rw.Lock()
	// Re-check under the write lock: another writer may have added the
	// same config between the read-lock release and this acquisition.
	if slot, exists := m.boundsTracker[hash]; exists {
		m.rw.Unlock()
		return AddAlreadyExists, slot
	}

	grid := gridObjectPool.Rent()
	slot := m.activeGrids.Insert(grid)
	grid.Initialize(slot, config, m.VoxelSize)
	m.boundsTracker[hash] = slot

	cells := m.GetSpatialGridCells(config.BoundsMin, config.BoundsMax)
	tol := m.VoxelResolution()
	for _, cellKey := range cells {
		set, ok := m.spatialHash[cellKey]
		if !ok {
			set = spatialCellPool.Rent()
			m.spatialHash[cellKey] = set
		}
		set.Each(func(otherSlot uint16) {
			other, ok := m.activeGrids.Get(otherSlot)
			if !ok || other == grid {
				return
			}
			if IsGridOverlapValid(grid, other, tol) {
				grid.TryAddGridNeighbor(other)
				other.TryAddGridNeighbor(grid)
			}
		})
		set.Add(slot)
	}

	m.Version++
	m.rw.Unlock()

	for _, fn := range m.onActiveGridChange.snapshot() {
		f := fn
		dispatchSafely("GlobalGridManager.OnActiveGridChange", ChangeAdd, func() { f(ChangeAdd, slot) })
	}
	return AddSuccess, slot
}

// TryRemoveGrid deregisters slot, unlinking it from every neighbor and
// returning its VoxelGrid to the pool.
func (m *GlobalGridManager) TryRemoveGrid(slot uint16) bool {
	m.rw.RLock()
	if m.activeGrids == nil || !m.activeGrids.IsAllocated(slot) {
		m.rw.RUnlock()
		return false
	}
	m.rw.RUnlock()

	for _, fn := range m.onActiveGridChange.snapshot() {
		f := fn
		dispatchSafely("GlobalGridManager.OnActiveGridChange", ChangeRemove, func() { f(ChangeRemove, slot) })
	}

	m.rw.Lock()
	defer m.rw.Unlock()

	grid, ok := m.activeGrids.Get(slot)
	if !ok {
		return false
	}

	cells := m.GetSpatialGridCells(grid.Config.BoundsMin, grid.Config.BoundsMax)
	tol := m.VoxelResolution()
	for _, cellKey := range cells {
		set, ok := m.spatialHash[cellKey]
		if !ok {
			continue
		}
		set.Remove(slot)
		if grid.IsConjoined() {
			set.Each(func(otherSlot uint16) {
				other, ok := m.activeGrids.Get(otherSlot)
				if !ok || other == grid {
					return
				}
				if IsGridOverlapValid(grid, other, tol) {
					grid.TryRemoveGridNeighbor(other)
					other.TryRemoveGridNeighbor(grid)
				}
			})
		}
		if set.Len() == 0 {
			spatialCellPool.Release(set)
			delete(m.spatialHash, cellKey)
		}
	}

	delete(m.boundsTracker, grid.Config.Hash())
	m.activeGrids.Remove(slot)
	grid.Reset()
	gridObjectPool.Release(grid)
	m.Version++
	m.activeGrids.Compact()
	return true
}

// TryGetGridBySlot resolves a grid by its stable slot index.
func (m *GlobalGridManager) TryGetGridBySlot(slot uint16) (*VoxelGrid, bool) {
	m.rw.RLock()
	defer m.rw.RUnlock()
	return m.tryGetGridBySlotLocked(slot)
}

func (m *GlobalGridManager) tryGetGridBySlotLocked(slot uint16) (*VoxelGrid, bool) {
	if m.activeGrids == nil {
		return nil, false
	}
	g, ok := m.activeGrids.Get(slot)
	if !ok || !g.IsActive {
		return nil, false
	}
	return g, true
}

// tryGetGridBySlot is the unexported convenience used by Voxel's
// neighbor-cache rebuild path, which holds no manager lock; it takes the
// read lock itself via TryGetGridBySlot.
func (m *GlobalGridManager) tryGetGridBySlot(slot uint16) (*VoxelGrid, bool) {
	return m.TryGetGridBySlot(slot)
}

// TryGetGridByPosition resolves the spatial-hash cell for position and
// returns the first active grid whose bounds actually contain it.
func (m *GlobalGridManager) TryGetGridByPosition(position fixmath.Vec3) (*VoxelGrid, bool) {
	m.rw.RLock()
	defer m.rw.RUnlock()
	if m.spatialHash == nil {
		return nil, false
	}
	x := signedAbsFloorDiv(position.X(), m.SpatialCellSize)
	y := signedAbsFloorDiv(position.Y(), m.SpatialCellSize)
	z := signedAbsFloorDiv(position.Z(), m.SpatialCellSize)
	set, ok := m.spatialHash[m.GetSpatialGridKey(x, y, z)]
	if !ok {
		return nil, false
	}
	var found *VoxelGrid
	set.Each(func(slot uint16) {
		if found != nil {
			return
		}
		g, ok := m.activeGrids.Get(slot)
		if !ok || !g.IsActive {
			return
		}
		if g.IsInBounds(position) {
			found = g
		}
	})
	if found == nil {
		return nil, false
	}
	return found, true
}

// TryGetGridByVoxelIndex resolves the owning grid for a GlobalVoxelIndex,
// rejecting stale references whose grid_token doesn't match.
func (m *GlobalGridManager) TryGetGridByVoxelIndex(idx GlobalVoxelIndex) (*VoxelGrid, bool) {
	g, ok := m.TryGetGridBySlot(idx.GridIndex)
	if !ok || g.spawnToken != idx.GridToken {
		return nil, false
	}
	return g, true
}

// resolveVoxel resolves a GlobalVoxelIndex all the way down to its Voxel,
// used by Voxel.GetNeighbors to dereference cached neighbors.
func (m *GlobalGridManager) resolveVoxel(idx GlobalVoxelIndex) (*Voxel, bool) {
	g, ok := m.TryGetGridByVoxelIndex(idx)
	if !ok {
		return nil, false
	}
	return g.TryGetVoxelByIndex(idx.Local)
}

// TryGetGridAndVoxel composes grid and voxel lookup by position.
func (m *GlobalGridManager) TryGetGridAndVoxel(position fixmath.Vec3) (*VoxelGrid, *Voxel, bool) {
	g, ok := m.TryGetGridByPosition(position)
	if !ok {
		return nil, nil, false
	}
	v, ok := g.TryGetVoxelByPosition(position)
	if !ok {
		return g, nil, false
	}
	return g, v, true
}

// TryGetVoxel resolves a voxel directly from a world position.
func (m *GlobalGridManager) TryGetVoxel(position fixmath.Vec3) (*Voxel, bool) {
	_, v, ok := m.TryGetGridAndVoxel(position)
	return v, ok
}

// FindOverlappingGrids returns every active grid whose bounds overlap
// grid's, using the spatial hash to gather candidates rather than
// scanning every active grid.
func (m *GlobalGridManager) FindOverlappingGrids(grid *VoxelGrid) []*VoxelGrid {
	m.rw.RLock()
	defer m.rw.RUnlock()

	tol := m.VoxelResolution()
	seen := make(map[uint16]struct{})
	var out []*VoxelGrid
	for _, cellKey := range m.GetSpatialGridCells(grid.Config.BoundsMin, grid.Config.BoundsMax) {
		set, ok := m.spatialHash[cellKey]
		if !ok {
			continue
		}
		set.Each(func(otherSlot uint16) {
			if otherSlot == grid.GlobalIndex {
				return
			}
			if _, dup := seen[otherSlot]; dup {
				return
			}
			other, ok := m.activeGrids.Get(otherSlot)
			if !ok || !other.IsActive {
				return
			}
			if IsGridOverlapValid(grid, other, tol) {
				seen[otherSlot] = struct{}{}
				out = append(out, other)
			}
		})
	}
	return out
}

// ActiveGridCount reports how many grids are currently registered.
func (m *GlobalGridManager) ActiveGridCount() int {
	m.rw.RLock()
	defer m.rw.RUnlock()
	if m.activeGrids == nil {
		return 0
	}
	return m.activeGrids.Len()
}

// incrementGridVersion bumps the manager's global version under the write
// lock.
func (m *GlobalGridManager) incrementGridVersion() {
	m.rw.Lock()
	m.Version++
	m.rw.Unlock()
}

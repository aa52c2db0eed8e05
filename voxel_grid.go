package gridforge

import (
	"sync"

	"github.com/mrdav30/GridForge-sub000/fixmath"
	"github.com/mrdav30/GridForge-sub000/pool"
)

var (
	voxelPool         = pool.NewObjectPool(func() *Voxel { return NewVoxel() })
	scanCellPool      = pool.NewObjectPool(func() *ScanCell { return NewScanCell() })
	activeCellSetPool = pool.NewSetPool[int32]()
	gridNeighborPool  = pool.NewSetPool[uint16]()
)

// GridNeighborRef pairs a direction with the grid slot found there.
type GridNeighborRef struct {
	Direction SpatialDirection
	Slot      uint16
}

// VoxelGrid owns a dense array of Voxels and a sparse map of ScanCells
// over a region of world space, plus its adjacency to other grids.
type VoxelGrid struct {
	GlobalIndex uint16
	Config      GridConfig
	voxelSize   fixmath.Fix64

	Width, Height, Length, Size int32

	voxels    []*Voxel
	scanCells map[int32]*ScanCell

	activeScanCells *pool.Set[int32]

	neighbors     map[SpatialDirection]*pool.Set[uint16]
	NeighborCount uint8

	ObstacleCount int32
	Version       uint32
	spawnToken    int32
	IsActive      bool

	// mu serializes obstacle/occupant mutation for this grid. ObstacleManager
	// and OccupantManager both take it, giving linearizable ordering between
	// the two within one grid while leaving cross-grid mutation independent.
	mu sync.Mutex
}

func NewVoxelGrid() *VoxelGrid {
	return &VoxelGrid{}
}

// IsOccupied reports whether any scan cell in this grid currently holds an
// occupant.
func (g *VoxelGrid) IsOccupied() bool {
	return g.activeScanCells != nil && g.activeScanCells.Len() > 0
}

// IsConjoined reports whether this grid has any neighbor link.
func (g *VoxelGrid) IsConjoined() bool {
	return g.neighbors != nil && len(g.neighbors) > 0
}

func (g *VoxelGrid) localIndexOf(x, y, z int32) int {
	return int(x) + int(y)*int(g.Width) + int(z)*int(g.Width)*int(g.Height)
}

func (g *VoxelGrid) inLocalRange(idx VoxelIndex) bool {
	return idx.X >= 0 && idx.X < g.Width &&
		idx.Y >= 0 && idx.Y < g.Height &&
		idx.Z >= 0 && idx.Z < g.Length
}

// Initialize materializes scan cells then voxels for [slot, config) at the
// manager's current voxel size. Returns false (logging a warning) if scan
// cell generation leaves a voxel unable to resolve its scan cell — an
// internal invariant break that should never happen for well-formed input.
func (g *VoxelGrid) Initialize(slot uint16, config GridConfig, voxelSize fixmath.Fix64) bool {
	g.GlobalIndex = slot
	g.Config = config
	g.voxelSize = voxelSize
	g.spawnToken = MixHash(int32(slot), config.Hash(), 0)

	extent := config.BoundsMax.Sub(config.BoundsMin)
	g.Width = extent.X().Div(voxelSize).FloorToInt() + 1
	g.Height = extent.Y().Div(voxelSize).FloorToInt() + 1
	g.Length = extent.Z().Div(voxelSize).FloorToInt() + 1
	g.Size = g.Width * g.Height * g.Length

	scanW := (g.Width-1)/config.ScanCellSize + 1
	scanH := (g.Height-1)/config.ScanCellSize + 1
	scanL := (g.Length-1)/config.ScanCellSize + 1

	g.scanCells = make(map[int32]*ScanCell, scanW*scanH*scanL)
	for x := int32(0); x < scanW; x++ {
		for y := int32(0); y < scanH; y++ {
			for z := int32(0); z < scanL; z++ {
				key := MixHash(x, y, z)
				cell := scanCellPool.Rent()
				cell.Initialize(slot, key)
				g.scanCells[key] = cell
			}
		}
	}

	g.voxels = make([]*Voxel, g.Size)
	for x := int32(0); x < g.Width; x++ {
		for y := int32(0); y < g.Height; y++ {
			for z := int32(0); z < g.Length; z++ {
				position := config.BoundsMin.Add(fixmath.Vec3FromInt(x, y, z).Scale(voxelSize))
				scanKey := MixHash(x/config.ScanCellSize, y/config.ScanCellSize, z/config.ScanCellSize)
				if _, ok := g.scanCells[scanKey]; !ok {
					defaultLogger.Warnf("grid %d: voxel (%d,%d,%d) resolved to missing scan cell %d", slot, x, y, z, scanKey)
					return false
				}
				isBoundary := x == 0 || x == g.Width-1 ||
					y == 0 || y == g.Height-1 ||
					z == 0 || z == g.Length-1

				gIdx := GlobalVoxelIndex{GridIndex: slot, Local: VoxelIndex{X: x, Y: y, Z: z}, GridToken: g.spawnToken}
				v := voxelPool.Rent()
				v.Initialize(gIdx, position, scanKey, isBoundary, g.Version)
				g.voxels[g.localIndexOf(x, y, z)] = v
			}
		}
	}

	g.Version = 1
	g.IsActive = true
	return true
}

// Reset releases every voxel and scan cell to their pools, clears
// adjacency, and zeroes dimensions.
func (g *VoxelGrid) Reset() {
	for _, v := range g.voxels {
		if v != nil {
			voxelPool.Release(v)
		}
	}
	g.voxels = nil

	for _, c := range g.scanCells {
		scanCellPool.Release(c)
	}
	g.scanCells = nil

	if g.activeScanCells != nil {
		activeCellSetPool.Release(g.activeScanCells)
		g.activeScanCells = nil
	}
	for _, set := range g.neighbors {
		gridNeighborPool.Release(set)
	}
	g.neighbors = nil

	g.Width, g.Height, g.Length, g.Size = 0, 0, 0, 0
	g.NeighborCount = 0
	g.ObstacleCount = 0
	g.IsActive = false
}

// IsInBounds reports whether position falls within this grid's world-space
// bounds.
func (g *VoxelGrid) IsInBounds(position fixmath.Vec3) bool {
	for i := 0; i < 3; i++ {
		if position[i].Lt(g.Config.BoundsMin[i]) || position[i].Gt(g.Config.BoundsMax[i]) {
			return false
		}
	}
	return true
}

// IsGridOverlapValid reports whether a and b's bounds overlap once each is
// inflated by tol on every side.
func IsGridOverlapValid(a, b *VoxelGrid, tol fixmath.Fix64) bool {
	tolVec := fixmath.NewVec3(tol, tol, tol)
	aMin := a.Config.BoundsMin.Sub(tolVec)
	aMax := a.Config.BoundsMax.Add(tolVec)
	bMin := b.Config.BoundsMin.Sub(tolVec)
	bMax := b.Config.BoundsMax.Add(tolVec)
	for i := 0; i < 3; i++ {
		if aMax[i].Lt(bMin[i]) || bMax[i].Lt(aMin[i]) {
			return false
		}
	}
	return true
}

// GetAllGridNeighbors materializes every (direction, slot) neighbor link.
func (g *VoxelGrid) GetAllGridNeighbors() []GridNeighborRef {
	var out []GridNeighborRef
	for dir, set := range g.neighbors {
		set.Each(func(slot uint16) {
			out = append(out, GridNeighborRef{Direction: dir, Slot: slot})
		})
	}
	return out
}

// TryGetVoxelCoords resolves a world position to a local VoxelIndex.
func (g *VoxelGrid) TryGetVoxelCoords(position fixmath.Vec3) (VoxelIndex, bool) {
	if !g.IsInBounds(position) {
		return VoxelIndex{}, false
	}
	rel := position.Sub(g.Config.BoundsMin)
	idx := VoxelIndex{
		X: rel.X().Div(g.voxelSize).FloorToInt(),
		Y: rel.Y().Div(g.voxelSize).FloorToInt(),
		Z: rel.Z().Div(g.voxelSize).FloorToInt(),
	}
	if !g.inLocalRange(idx) {
		return VoxelIndex{}, false
	}
	return idx, true
}

// IsVoxelAllocated reports whether the voxel at idx is allocated.
func (g *VoxelGrid) IsVoxelAllocated(idx VoxelIndex) bool {
	v, ok := g.TryGetVoxelByIndex(idx)
	return ok && v.IsAllocated
}

// TryGetVoxelByIndex resolves a local VoxelIndex within this grid.
func (g *VoxelGrid) TryGetVoxelByIndex(idx VoxelIndex) (*Voxel, bool) {
	if !g.inLocalRange(idx) {
		return nil, false
	}
	v := g.voxels[g.localIndexOf(idx.X, idx.Y, idx.Z)]
	if v == nil {
		return nil, false
	}
	return v, true
}

// TryGetVoxelByPosition resolves a world position within this grid.
func (g *VoxelGrid) TryGetVoxelByPosition(position fixmath.Vec3) (*Voxel, bool) {
	idx, ok := g.TryGetVoxelCoords(position)
	if !ok {
		return nil, false
	}
	return g.TryGetVoxelByIndex(idx)
}

// TryGetVoxelByGlobalIndex resolves a GlobalVoxelIndex, rejecting stale
// references whose grid_token no longer matches this grid's spawn token.
func (g *VoxelGrid) TryGetVoxelByGlobalIndex(idx GlobalVoxelIndex) (*Voxel, bool) {
	if idx.GridToken != g.spawnToken || idx.GridIndex != g.GlobalIndex {
		return nil, false
	}
	return g.TryGetVoxelByIndex(idx.Local)
}

// GetScanCellKey computes the scan-cell key a local voxel index resolves
// to. Negative local coordinates are a programming error for this
// computation (open question #3): asserted against here and reported as
// "not found" rather than guessed at.
func (g *VoxelGrid) GetScanCellKey(local VoxelIndex) (int32, bool) {
	if local.X < 0 || local.Y < 0 || local.Z < 0 {
		return 0, false
	}
	return MixHash(local.X/g.Config.ScanCellSize, local.Y/g.Config.ScanCellSize, local.Z/g.Config.ScanCellSize), true
}

// TryGetScanCellByKey resolves a scan cell directly by key.
func (g *VoxelGrid) TryGetScanCellByKey(key int32) (*ScanCell, bool) {
	c, ok := g.scanCells[key]
	return c, ok
}

// TryGetScanCellByVoxel resolves the scan cell owning a local voxel index.
func (g *VoxelGrid) TryGetScanCellByVoxel(local VoxelIndex) (*ScanCell, bool) {
	key, ok := g.GetScanCellKey(local)
	if !ok {
		return nil, false
	}
	return g.TryGetScanCellByKey(key)
}

// TryGetScanCellByPosition resolves the scan cell owning a world position.
func (g *VoxelGrid) TryGetScanCellByPosition(position fixmath.Vec3) (*ScanCell, bool) {
	idx, ok := g.TryGetVoxelCoords(position)
	if !ok {
		return nil, false
	}
	return g.TryGetScanCellByVoxel(idx)
}

// GetActiveScanCells materializes the set of scan-cell keys currently
// holding at least one occupant.
func (g *VoxelGrid) GetActiveScanCells() []int32 {
	if g.activeScanCells == nil {
		return nil
	}
	return g.activeScanCells.Values()
}

// CeilToGrid snaps position up to the voxel lattice, clamped to bounds.
func (g *VoxelGrid) CeilToGrid(position fixmath.Vec3) fixmath.Vec3 {
	snapped := fixmath.NewVec3(
		CeilToVoxelSize(position.X().Sub(g.Config.BoundsMin.X()), g.voxelSize).Add(g.Config.BoundsMin.X()),
		CeilToVoxelSize(position.Y().Sub(g.Config.BoundsMin.Y()), g.voxelSize).Add(g.Config.BoundsMin.Y()),
		CeilToVoxelSize(position.Z().Sub(g.Config.BoundsMin.Z()), g.voxelSize).Add(g.Config.BoundsMin.Z()),
	)
	return snapped.Min(g.Config.BoundsMax).Max(g.Config.BoundsMin)
}

// FloorToGrid snaps position down to the voxel lattice, clamped to bounds.
func (g *VoxelGrid) FloorToGrid(position fixmath.Vec3) fixmath.Vec3 {
	snapped := fixmath.NewVec3(
		FloorToVoxelSize(position.X().Sub(g.Config.BoundsMin.X()), g.voxelSize).Add(g.Config.BoundsMin.X()),
		FloorToVoxelSize(position.Y().Sub(g.Config.BoundsMin.Y()), g.voxelSize).Add(g.Config.BoundsMin.Y()),
		FloorToVoxelSize(position.Z().Sub(g.Config.BoundsMin.Z()), g.voxelSize).Add(g.Config.BoundsMin.Z()),
	)
	return snapped.Min(g.Config.BoundsMax).Max(g.Config.BoundsMin)
}

// SnapToScanCell snaps a world position down to the origin of the scan
// cell that contains it.
func (g *VoxelGrid) SnapToScanCell(position fixmath.Vec3) fixmath.Vec3 {
	scanCellWorldSize := g.voxelSize.Mul(fixmath.FromInt(int64(g.Config.ScanCellSize)))
	rel := position.Sub(g.Config.BoundsMin)
	snapped := fixmath.NewVec3(
		FloorToVoxelSize(rel.X(), scanCellWorldSize),
		FloorToVoxelSize(rel.Y(), scanCellWorldSize),
		FloorToVoxelSize(rel.Z(), scanCellWorldSize),
	)
	return snapped.Add(g.Config.BoundsMin)
}

// IsOnBoundary reports whether idx lies on the outermost layer of this
// grid.
func (g *VoxelGrid) IsOnBoundary(idx VoxelIndex) bool {
	return idx.X == 0 || idx.X == g.Width-1 ||
		idx.Y == 0 || idx.Y == g.Height-1 ||
		idx.Z == 0 || idx.Z == g.Length-1
}

// IsFacingBoundaryDirection reports whether idx sits on the specific face
// named by a cardinal direction.
func (g *VoxelGrid) IsFacingBoundaryDirection(idx VoxelIndex, dir SpatialDirection) bool {
	face, ok := cardinalBoundaryFaces[dir]
	if !ok {
		return false
	}
	var coord, limit int32
	switch face.axis {
	case 0:
		coord, limit = idx.X, g.Width-1
	case 1:
		coord, limit = idx.Y, g.Height-1
	default:
		coord, limit = idx.Z, g.Length-1
	}
	if face.atStart {
		return coord == 0
	}
	return coord == limit
}

// gridNeighborDirection derives the direction from this grid's center to
// other's center, per spec: direction is derived from the centers, not
// the bounds.
func gridNeighborDirection(g, other *VoxelGrid) SpatialDirection {
	delta := other.Config.Center.Sub(g.Config.Center)
	return OffsetToDirection(int32(delta.X().Sign()), int32(delta.Y().Sign()), int32(delta.Z().Sign()))
}

// TryAddGridNeighbor links other into this grid's adjacency, deriving the
// direction from grid centers. Returns true only on an actual new link
// (idempotent against redundant calls).
func (g *VoxelGrid) TryAddGridNeighbor(other *VoxelGrid) bool {
	dir := gridNeighborDirection(g, other)
	if dir == DirectionNone {
		return false
	}
	if g.neighbors == nil {
		g.neighbors = make(map[SpatialDirection]*pool.Set[uint16])
	}
	set, ok := g.neighbors[dir]
	if !ok {
		set = gridNeighborPool.Rent()
		g.neighbors[dir] = set
	}
	if !set.Add(other.GlobalIndex) {
		return false
	}
	g.NeighborCount++
	g.Version++
	g.notifyBoundaryChange(dir)
	return true
}

// TryRemoveGridNeighbor is the symmetric inverse of TryAddGridNeighbor.
func (g *VoxelGrid) TryRemoveGridNeighbor(other *VoxelGrid) bool {
	dir := gridNeighborDirection(g, other)
	if g.neighbors == nil {
		return false
	}
	set, ok := g.neighbors[dir]
	if !ok {
		return false
	}
	if !set.Remove(other.GlobalIndex) {
		return false
	}
	if set.Len() == 0 {
		gridNeighborPool.Release(set)
		delete(g.neighbors, dir)
	}
	g.NeighborCount--
	g.Version++
	return true
}

// notifyBoundaryChange invalidates the neighbor cache of every voxel on
// the boundary face named by a cardinal direction. Non-cardinal
// (diagonal) directions touch no voxels: a new adjoining grid can only
// add cross-boundary neighbors to face voxels, and corner/edge voxels
// refresh transitively when first queried.
func (g *VoxelGrid) notifyBoundaryChange(dir SpatialDirection) {
	face, ok := cardinalBoundaryFaces[dir]
	if !ok {
		return
	}
	switch face.axis {
	case 0:
		x := int32(0)
		if !face.atStart {
			x = g.Width - 1
		}
		for y := int32(0); y < g.Height; y++ {
			for z := int32(0); z < g.Length; z++ {
				g.voxels[g.localIndexOf(x, y, z)].InvalidateNeighborCache()
			}
		}
	case 1:
		y := int32(0)
		if !face.atStart {
			y = g.Height - 1
		}
		for x := int32(0); x < g.Width; x++ {
			for z := int32(0); z < g.Length; z++ {
				g.voxels[g.localIndexOf(x, y, z)].InvalidateNeighborCache()
			}
		}
	default:
		z := int32(0)
		if !face.atStart {
			z = g.Length - 1
		}
		for x := int32(0); x < g.Width; x++ {
			for y := int32(0); y < g.Height; y++ {
				g.voxels[g.localIndexOf(x, y, z)].InvalidateNeighborCache()
			}
		}
	}
}

// markActiveScanCell lazily rents the active-scan-cells set and inserts
// key. Must be called while holding g.mu.
func (g *VoxelGrid) markActiveScanCell(key int32) {
	if g.activeScanCells == nil {
		g.activeScanCells = activeCellSetPool.Rent()
	}
	g.activeScanCells.Add(key)
}

// unmarkActiveScanCellIfEmpty drops key from the active set if its scan
// cell is no longer occupied, releasing the set entirely once the grid
// has none left. Must be called while holding g.mu.
func (g *VoxelGrid) unmarkActiveScanCellIfEmpty(cell *ScanCell) {
	if g.activeScanCells == nil || cell.IsOccupied() {
		return
	}
	g.activeScanCells.Remove(cell.CellKey)
	if g.activeScanCells.Len() == 0 {
		activeCellSetPool.Release(g.activeScanCells)
		g.activeScanCells = nil
	}
}

package gridforge

import "github.com/mrdav30/GridForge-sub000/fixmath"

// GridTraceSegment groups consecutive traced voxels that belong to the same
// grid, in traversal order.
type GridTraceSegment struct {
	GridIndex uint16
	Voxels    []*Voxel
}

// maxTraceIterations bounds every stepping loop below, guarding against a
// direction so shallow the step size underflows to zero and the loop
// never reaches its target.
const maxTraceIterations = 10000

// TraceLine walks from start to end in voxel-resolution steps, resolving
// the voxel under each sample point and grouping consecutive same-grid hits
// into segments. Gaps (samples that resolve to no grid) break the current
// segment without emitting an empty one. When includeEnd is true, end's own
// voxel is guaranteed to appear (added to its segment even if the stepping
// loop landed short of it); every step already includes start.
func TraceLine(start, end fixmath.Vec3, includeEnd bool) []GridTraceSegment {
	segments := traceSamples(sampleLine(start, end))
	if includeEnd {
		segments = addEndVoxel(segments, end)
	}
	return segments
}

// TraceLine2D behaves like TraceLine but holds the Y coordinate fixed at
// start's height, for callers tracing ground-plane visibility or movement
// rather than a full 3D ray.
func TraceLine2D(start, end fixmath.Vec3, includeEnd bool) []GridTraceSegment {
	flatEnd := fixmath.NewVec3(end.X(), start.Y(), end.Z())
	segments := traceSamples(sampleLine(start, flatEnd))
	if includeEnd {
		segments = addEndVoxel(segments, flatEnd)
	}
	return segments
}

func sampleLine(start, end fixmath.Vec3) []fixmath.Vec3 {
	delta := end.Sub(start)
	dist := delta.SqrMagnitude()
	if dist.Lte(fixmath.Zero()) {
		return []fixmath.Vec3{start}
	}

	step := Manager().VoxelSize
	if step.Lte(fixmath.Zero()) {
		step = fixmath.One()
	}

	// Step count is derived from the longest axis span rather than true
	// Euclidean length: cheap, and every sample still lands within one
	// voxel of the ray, which is all voxel resolution can distinguish.
	span := delta.Abs()
	longest := fixmath.Max(span.X(), fixmath.Max(span.Y(), span.Z()))
	steps := longest.Div(step).CeilToInt()
	if steps < 1 {
		steps = 1
	}
	if steps > maxTraceIterations {
		steps = maxTraceIterations
	}

	samples := make([]fixmath.Vec3, 0, steps+1)
	for i := int32(0); i <= steps; i++ {
		t := fixmath.FromInt(int64(i)).Div(fixmath.FromInt(int64(steps)))
		samples = append(samples, start.Add(delta.Scale(t)))
	}
	return samples
}

func traceSamples(samples []fixmath.Vec3) []GridTraceSegment {
	var segments []GridTraceSegment
	var cur *GridTraceSegment
	var lastVoxel *Voxel

	for _, p := range samples {
		grid, voxel, ok := Manager().TryGetGridAndVoxel(p)
		if !ok || grid == nil || voxel == nil {
			cur = nil
			lastVoxel = nil
			continue
		}
		if voxel == lastVoxel {
			continue
		}
		lastVoxel = voxel
		if cur == nil || cur.GridIndex != grid.GlobalIndex {
			segments = append(segments, GridTraceSegment{GridIndex: grid.GlobalIndex})
			cur = &segments[len(segments)-1]
		}
		cur.Voxels = append(cur.Voxels, voxel)
	}
	return segments
}

// addEndVoxel guarantees end's voxel is present in its grid's segment,
// creating that segment if the stepping loop never visited it.
func addEndVoxel(segments []GridTraceSegment, end fixmath.Vec3) []GridTraceSegment {
	grid, voxel, ok := Manager().TryGetGridAndVoxel(end)
	if !ok || grid == nil || voxel == nil {
		return segments
	}
	for i := range segments {
		if segments[i].GridIndex != grid.GlobalIndex {
			continue
		}
		for _, v := range segments[i].Voxels {
			if v == voxel {
				return segments
			}
		}
		segments[i].Voxels = append(segments[i].Voxels, voxel)
		return segments
	}
	return append(segments, GridTraceSegment{GridIndex: grid.GlobalIndex, Voxels: []*Voxel{voxel}})
}

// GetCoveredVoxels returns every allocated voxel on the inclusive voxel
// lattice from min snapped down to max snapped up, grouped per grid. The
// spatial hash supplies candidate grids; grids whose bounds do not overlap
// the box are skipped.
func GetCoveredVoxels(min, max fixmath.Vec3) []GridTraceSegment {
	m := Manager()
	m.rw.RLock()
	candidates := make(map[uint16]*VoxelGrid)
	for _, cellKey := range m.GetSpatialGridCells(min, max) {
		set, ok := m.spatialHash[cellKey]
		if !ok {
			continue
		}
		set.Each(func(slot uint16) {
			if g, ok := m.activeGrids.Get(slot); ok && g.IsActive {
				candidates[slot] = g
			}
		})
	}
	m.rw.RUnlock()

	var segments []GridTraceSegment
	for slot, grid := range candidates {
		if !boxOverlapsGrid(grid, min, max) {
			continue
		}
		seg := GridTraceSegment{GridIndex: slot}
		lo := grid.FloorToGrid(min)
		hi := grid.CeilToGrid(max)
		loIdx, okLo := grid.TryGetVoxelCoords(lo)
		hiIdx, okHi := grid.TryGetVoxelCoords(hi)
		if !okLo || !okHi {
			continue
		}
		for x := loIdx.X; x <= hiIdx.X; x++ {
			for y := loIdx.Y; y <= hiIdx.Y; y++ {
				for z := loIdx.Z; z <= hiIdx.Z; z++ {
					v, ok := grid.TryGetVoxelByIndex(VoxelIndex{X: x, Y: y, Z: z})
					if ok && v.IsAllocated {
						seg.Voxels = append(seg.Voxels, v)
					}
				}
			}
		}
		if len(seg.Voxels) > 0 {
			segments = append(segments, seg)
		}
	}
	return segments
}

// boxOverlapsGrid reports whether [min,max] touches grid's bounds on every
// axis.
func boxOverlapsGrid(grid *VoxelGrid, min, max fixmath.Vec3) bool {
	for i := 0; i < 3; i++ {
		if max[i].Lt(grid.Config.BoundsMin[i]) || min[i].Gt(grid.Config.BoundsMax[i]) {
			return false
		}
	}
	return true
}

// GetCoveredScanCells returns the distinct scan cells overlapping [min,max]
// across every grid whose bounds overlap the box.
func GetCoveredScanCells(min, max fixmath.Vec3) map[uint16][]*ScanCell {
	m := Manager()
	m.rw.RLock()
	candidates := make(map[uint16]*VoxelGrid)
	for _, cellKey := range m.GetSpatialGridCells(min, max) {
		set, ok := m.spatialHash[cellKey]
		if !ok {
			continue
		}
		set.Each(func(slot uint16) {
			if g, ok := m.activeGrids.Get(slot); ok && g.IsActive {
				candidates[slot] = g
			}
		})
	}
	m.rw.RUnlock()

	out := make(map[uint16][]*ScanCell)
	for slot, grid := range candidates {
		if !boxOverlapsGrid(grid, min, max) {
			continue
		}
		seen := activeCellSetPool.Rent()
		lo := grid.FloorToGrid(min)
		hi := grid.CeilToGrid(max)
		loIdx, okLo := grid.TryGetVoxelCoords(lo)
		hiIdx, okHi := grid.TryGetVoxelCoords(hi)
		if !okLo || !okHi {
			continue
		}
		var cells []*ScanCell
		scs := grid.Config.ScanCellSize
		for x := loIdx.X / scs; x <= hiIdx.X/scs; x++ {
			for y := loIdx.Y / scs; y <= hiIdx.Y/scs; y++ {
				for z := loIdx.Z / scs; z <= hiIdx.Z/scs; z++ {
					cell, ok := grid.TryGetScanCellByKey(MixHash(x, y, z))
					if ok && seen.Add(cell.CellKey) {
						cells = append(cells, cell)
					}
				}
			}
		}
		activeCellSetPool.Release(seen)
		if len(cells) > 0 {
			out[slot] = cells
		}
	}
	return out
}

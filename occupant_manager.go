package gridforge

import "github.com/mrdav30/GridForge-sub000/fixmath"

// TryAddVoxelOccupant registers occupant against idx's voxel, assigning it a
// ticket within that voxel's scan-cell bucket. Fails if the voxel has no
// vacancy (blocked, or already at the occupant cap).
func TryAddVoxelOccupant(idx GlobalVoxelIndex, occupant Occupant) bool {
	grid, ok := Manager().TryGetGridByVoxelIndex(idx)
	if !ok {
		return false
	}
	return tryAddOccupantToGrid(grid, idx, occupant)
}

// TryAddVoxelOccupantAt resolves position to a voxel and registers occupant
// there.
func TryAddVoxelOccupantAt(position fixmath.Vec3, occupant Occupant) bool {
	grid, voxel, ok := Manager().TryGetGridAndVoxel(position)
	if !ok || voxel == nil {
		return false
	}
	return tryAddOccupantToGrid(grid, voxel.GlobalIndex, occupant)
}

func tryAddOccupantToGrid(grid *VoxelGrid, idx GlobalVoxelIndex, occupant Occupant) bool {
	grid.mu.Lock()
	v, ok := grid.TryGetVoxelByIndex(idx.Local)
	if !ok || !v.HasVacancy() {
		grid.mu.Unlock()
		return false
	}
	cell, ok := grid.TryGetScanCellByVoxel(idx.Local)
	if !ok {
		grid.mu.Unlock()
		return false
	}
	cell.AddOccupant(idx, occupant)
	v.OccupantCount++
	grid.markActiveScanCell(cell.CellKey)
	grid.mu.Unlock()

	v.fireOccupantChange(ChangeAdd)
	return true
}

// TryRemoveVoxelOccupant deregisters occupant from idx's voxel, if it's
// currently registered there.
func TryRemoveVoxelOccupant(idx GlobalVoxelIndex, occupant Occupant) bool {
	ticket, occupying := occupant.IsOccupying(idx)
	// The occupant's own record for idx is cleared unconditionally, even
	// when idx turns out stale or the removal below fails.
	occupant.RemoveOccupancy(idx)

	grid, ok := Manager().TryGetGridByVoxelIndex(idx)
	if !ok {
		return false
	}

	grid.mu.Lock()
	v, ok := grid.TryGetVoxelByIndex(idx.Local)
	if !ok {
		grid.mu.Unlock()
		return false
	}
	cell, ok := grid.TryGetScanCellByVoxel(idx.Local)
	if !ok {
		grid.mu.Unlock()
		return false
	}
	if !occupying {
		// Occupant holds no ticket for idx, so the bucket is left untouched:
		// its slots belong to other occupants.
		grid.mu.Unlock()
		return false
	}
	removed := cell.TryRemoveOccupant(idx, occupant, ticket)
	if removed && v.OccupantCount > 0 {
		v.OccupantCount--
	}
	grid.unmarkActiveScanCellIfEmpty(cell)
	grid.mu.Unlock()

	if removed {
		v.fireOccupantChange(ChangeRemove)
	}
	return removed
}

// IsVoxelOccupied resolves idx and reports whether any occupant currently
// holds it.
func IsVoxelOccupied(idx GlobalVoxelIndex) bool {
	v, ok := Manager().resolveVoxel(idx)
	return ok && v.IsOccupied()
}

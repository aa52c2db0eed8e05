package gridforge

import "github.com/mrdav30/GridForge-sub000/fixmath"

// TryAddObstacle applies obstacle token to idx's voxel. Fails if the voxel
// can't be resolved, isn't blockable (occupied, already at the obstacle
// cap, or unallocated), or already carries this exact token — the tracker
// is a set, so re-applying the same logical obstacle is a no-op, not a
// second unit of blockage. Mutation is serialized per grid via grid.mu.
func TryAddObstacle(idx GlobalVoxelIndex, token int32) bool {
	grid, ok := Manager().TryGetGridByVoxelIndex(idx)
	if !ok {
		return false
	}
	return tryAddObstacleToGrid(grid, idx.Local, token)
}

// TryAddObstacleAt resolves position to a voxel and applies token there.
func TryAddObstacleAt(position fixmath.Vec3, token int32) bool {
	grid, voxel, ok := Manager().TryGetGridAndVoxel(position)
	if !ok || voxel == nil {
		return false
	}
	return tryAddObstacleToGrid(grid, voxel.GlobalIndex.Local, token)
}

func tryAddObstacleToGrid(grid *VoxelGrid, local VoxelIndex, token int32) bool {
	grid.mu.Lock()
	v, ok := grid.TryGetVoxelByIndex(local)
	if !ok || !v.IsBlockable() {
		grid.mu.Unlock()
		return false
	}
	if v.obstacleTracker == nil {
		v.obstacleTracker = obstacleTrackerPool.Rent()
	}
	if !v.obstacleTracker.Add(token) {
		grid.mu.Unlock()
		return false
	}
	v.ObstacleCount++
	grid.ObstacleCount++
	grid.Version++
	v.cachedGridVersion = grid.Version
	grid.mu.Unlock()

	v.fireObstacleChange(ChangeAdd)
	return true
}

// TryRemoveObstacle removes token from idx's voxel, if present.
func TryRemoveObstacle(idx GlobalVoxelIndex, token int32) bool {
	grid, ok := Manager().TryGetGridByVoxelIndex(idx)
	if !ok {
		return false
	}
	return tryRemoveObstacleFromGrid(grid, idx.Local, token)
}

// TryRemoveObstacleAt resolves position to a voxel and removes token from
// it.
func TryRemoveObstacleAt(position fixmath.Vec3, token int32) bool {
	grid, voxel, ok := Manager().TryGetGridAndVoxel(position)
	if !ok || voxel == nil {
		return false
	}
	return tryRemoveObstacleFromGrid(grid, voxel.GlobalIndex.Local, token)
}

func tryRemoveObstacleFromGrid(grid *VoxelGrid, local VoxelIndex, token int32) bool {
	grid.mu.Lock()
	v, ok := grid.TryGetVoxelByIndex(local)
	if !ok || v.ObstacleCount == 0 || v.obstacleTracker == nil {
		grid.mu.Unlock()
		return false
	}
	if !v.obstacleTracker.Remove(token) {
		grid.mu.Unlock()
		return false
	}
	v.ObstacleCount--
	grid.ObstacleCount--
	grid.Version++
	v.cachedGridVersion = grid.Version
	if v.ObstacleCount == 0 {
		obstacleTrackerPool.Release(v.obstacleTracker)
		v.obstacleTracker = nil
	}
	grid.mu.Unlock()

	v.fireObstacleChange(ChangeRemove)
	return true
}

// IsVoxelBlocked resolves idx and reports whether it carries an obstacle.
func IsVoxelBlocked(idx GlobalVoxelIndex) bool {
	v, ok := Manager().resolveVoxel(idx)
	return ok && v.IsBlocked()
}

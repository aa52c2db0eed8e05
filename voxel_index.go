package gridforge

// VoxelIndex is a local integer coordinate within a single grid.
type VoxelIndex struct {
	X, Y, Z int32
}

// Add returns the componentwise sum of idx and an (dx,dy,dz) offset.
func (idx VoxelIndex) Add(dx, dy, dz int32) VoxelIndex {
	return VoxelIndex{X: idx.X + dx, Y: idx.Y + dy, Z: idx.Z + dz}
}

func (idx VoxelIndex) Eq(o VoxelIndex) bool {
	return idx.X == o.X && idx.Y == o.Y && idx.Z == o.Z
}

func (idx VoxelIndex) Hash() int32 {
	return MixHash(idx.X, idx.Y, idx.Z)
}

// GlobalVoxelIndex is the globally unique identity of a voxel: which grid
// slot owns it, its local coordinate, and the owning grid's spawn token at
// the time this index was captured. The token pins the identity to one
// lifecycle of the owning grid so a stale reference (grid removed, slot
// reused by a different grid) can be detected instead of silently
// resolving to the wrong voxel.
type GlobalVoxelIndex struct {
	GridIndex uint16
	Local     VoxelIndex
	GridToken int32
}

func (g GlobalVoxelIndex) Eq(o GlobalVoxelIndex) bool {
	return g.GridIndex == o.GridIndex && g.GridToken == o.GridToken && g.Local.Eq(o.Local)
}

func (g GlobalVoxelIndex) Hash() int32 {
	return MixHash(int32(g.GridIndex), g.Local.Hash(), g.GridToken)
}

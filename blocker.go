package gridforge

import "github.com/mrdav30/GridForge-sub000/fixmath"

// Blocker applies an axis-aligned obstacle region as a single unit: every
// covered voxel across every overlapping grid is blocked under one token,
// so the whole region can later be released without the caller having to
// remember which individual voxels it touched.
type Blocker struct {
	Token  int32
	Min    fixmath.Vec3
	Max    fixmath.Vec3
	voxels []GlobalVoxelIndex
}

// NewBlocker derives a stable token from the region's bounds, using the
// same mixing function as every other spawn/identity token in this
// package so a Blocker's token composes predictably with voxel and grid
// tokens in logs.
func NewBlocker(min, max fixmath.Vec3) *Blocker {
	return &Blocker{
		Token: MixHash(7, min.Hash(), max.Hash()),
		Min:   min,
		Max:   max,
	}
}

// Apply blocks every covered voxel in the region, recording which ones
// actually took the obstacle so Release can undo exactly those. Calling
// Apply twice without an intervening Release is a no-op the second time:
// voxels already carrying this Blocker's token fail TryAddObstacle and are
// skipped.
func (bl *Blocker) Apply() int {
	applied := 0
	for _, seg := range GetCoveredVoxels(bl.Min, bl.Max) {
		for _, v := range seg.Voxels {
			if TryAddObstacle(v.GlobalIndex, bl.Token) {
				bl.voxels = append(bl.voxels, v.GlobalIndex)
				applied++
			}
		}
	}
	return applied
}

// Release removes the obstacle unit this Blocker applied from every voxel
// it recorded, then forgets them.
func (bl *Blocker) Release() int {
	released := 0
	for _, idx := range bl.voxels {
		if TryRemoveObstacle(idx, bl.Token) {
			released++
		}
	}
	bl.voxels = nil
	return released
}

// CoveredVoxelCount reports how many voxels this Blocker currently has
// blocked.
func (bl *Blocker) CoveredVoxelCount() int {
	return len(bl.voxels)
}

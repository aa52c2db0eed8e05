package gridforge

import "github.com/mrdav30/GridForge-sub000/fixmath"

// MixHash is the canonical 32-bit mixing function: grid spawn tokens,
// voxel spawn tokens, scan-cell keys and spatial keys all derive from it.
// Wraps on overflow, same as the reference formula.
func MixHash(x, y, z int32) int32 {
	return fixmath.MixHash(x, y, z)
}

// signedAbsFloorDiv implements the signed-abs-floor division the spatial
// hash needs so negative coordinates map symmetrically around the origin:
// a plain floor(x/s) is asymmetric (floor(-0.5) = -1, not 0), which would
// make the spatial hash lattice lopsided across the origin.
func signedAbsFloorDiv(x fixmath.Fix64, s int32) int32 {
	sign := int32(x.Sign())
	if sign == 0 {
		return 0
	}
	abs := x.Abs()
	cell := abs.Div(fixmath.FromInt(int64(s))).FloorToInt()
	return cell * sign
}

// CeilToVoxelSize rounds v up to the next multiple of voxelSize.
func CeilToVoxelSize(v, voxelSize fixmath.Fix64) fixmath.Fix64 {
	q := v.Div(voxelSize)
	c := q.CeilToInt()
	return fixmath.FromInt(int64(c)).Mul(voxelSize)
}

// FloorToVoxelSize rounds v down to the previous multiple of voxelSize.
func FloorToVoxelSize(v, voxelSize fixmath.Fix64) fixmath.Fix64 {
	q := v.Div(voxelSize)
	f := q.FloorToInt()
	return fixmath.FromInt(int64(f)).Mul(voxelSize)
}

// SnapBoundsToVoxelSize snaps min down and max up to the voxel lattice,
// guaranteeing the resulting bounds fully cover the input bounds.
func SnapBoundsToVoxelSize(min, max fixmath.Vec3, voxelSize fixmath.Fix64) (fixmath.Vec3, fixmath.Vec3) {
	snappedMin := fixmath.NewVec3(
		FloorToVoxelSize(min.X(), voxelSize),
		FloorToVoxelSize(min.Y(), voxelSize),
		FloorToVoxelSize(min.Z(), voxelSize),
	)
	snappedMax := fixmath.NewVec3(
		CeilToVoxelSize(max.X(), voxelSize),
		CeilToVoxelSize(max.Y(), voxelSize),
		CeilToVoxelSize(max.Z(), voxelSize),
	)
	return snappedMin, snappedMax
}

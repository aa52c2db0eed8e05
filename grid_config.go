package gridforge

import "github.com/mrdav30/GridForge-sub000/fixmath"

// GridConfig describes a grid's world-space bounds and scan-cell
// granularity. Constructing via NewGridConfig canonicalizes the bounds so
// Min is componentwise <= Max regardless of the order corners are given.
type GridConfig struct {
	BoundsMin    fixmath.Vec3
	BoundsMax    fixmath.Vec3
	Center       fixmath.Vec3
	ScanCellSize int32
}

// NewGridConfig builds a GridConfig from two arbitrary corners, canonicalizing
// min/max per axis. scanCellSize <= 0 defaults to DefaultScanCellSize.
func NewGridConfig(cornerA, cornerB fixmath.Vec3, scanCellSize int32) GridConfig {
	min := cornerA.Min(cornerB)
	max := cornerA.Max(cornerB)
	if scanCellSize <= 0 {
		scanCellSize = DefaultScanCellSize
	}
	center := min.Add(max).Scale(fixmath.Half())
	return GridConfig{
		BoundsMin:    min,
		BoundsMax:    max,
		Center:       center,
		ScanCellSize: scanCellSize,
	}
}

// Hash is the duplicate-detection key: it derives from the canonicalized
// bounds only, so two configs covering the same region hash identically
// regardless of corner order or scan-cell size.
func (c GridConfig) Hash() int32 {
	return MixHash(c.BoundsMin.Hash(), c.BoundsMax.Hash(), 0)
}

// IsInvalid reports whether max < min on any axis post-canonicalization.
// Since NewGridConfig always canonicalizes, this only trips for configs
// built by hand (e.g. in tests) that bypass the constructor.
func (c GridConfig) IsInvalid() bool {
	for i := 0; i < 3; i++ {
		if c.BoundsMax[i].Lt(c.BoundsMin[i]) {
			return true
		}
	}
	return false
}

package gridforge

import "github.com/mrdav30/GridForge-sub000/fixmath"

// Capacity and sizing constants. These values are load-bearing: slot
// indices, obstacle/occupant counters and scan-cell granularity all depend
// on them staying exactly as specified.
const (
	// MaxGrids is the ceiling on simultaneously registered grids. One slot
	// below u16 max so a "no slot" sentinel value remains representable.
	MaxGrids = 65534

	MaxObstacleCount = 255
	MaxOccupantCount = 255

	DefaultVoxelSize       = 1
	DefaultSpatialCellSize = 50
	DefaultScanCellSize    = 8
)

// SpatialDirection enumerates the 26 cells surrounding a voxel or grid,
// plus the "no direction" sentinel. The ordering is pinned: axis-aligned
// faces first, then planar diagonals, then corner diagonals.
type SpatialDirection int8

const DirectionNone SpatialDirection = -1

const (
	DirectionWest SpatialDirection = iota
	DirectionSouth
	DirectionEast
	DirectionNorth
	DirectionBelow
	DirectionAbove

	// Planar diagonals (12).
	DirectionNorthWest
	DirectionNorthEast
	DirectionSouthWest
	DirectionSouthEast
	DirectionAboveWest
	DirectionAboveEast
	DirectionAboveNorth
	DirectionAboveSouth
	DirectionBelowWest
	DirectionBelowEast
	DirectionBelowNorth
	DirectionBelowSouth

	// Corner diagonals (8).
	DirectionAboveNorthWest
	DirectionAboveNorthEast
	DirectionAboveSouthWest
	DirectionAboveSouthEast
	DirectionBelowNorthWest
	DirectionBelowNorthEast
	DirectionBelowSouthWest
	DirectionBelowSouthEast

	directionCount = 26
)

// directionOffset is the unit-signed (dx, dy, dz) offset for a direction.
type directionOffset struct {
	X, Y, Z int32
}

// DirectionOffsets is the parallel offset table for SpatialDirection,
// indexed by the direction's integer value.
var DirectionOffsets = [directionCount]directionOffset{
	DirectionWest:  {-1, 0, 0},
	DirectionSouth: {0, 0, -1},
	DirectionEast:  {1, 0, 0},
	DirectionNorth: {0, 0, 1},
	DirectionBelow: {0, -1, 0},
	DirectionAbove: {0, 1, 0},

	DirectionNorthWest: {-1, 0, 1},
	DirectionNorthEast: {1, 0, 1},
	DirectionSouthWest: {-1, 0, -1},
	DirectionSouthEast: {1, 0, -1},
	DirectionAboveWest: {-1, 1, 0},
	DirectionAboveEast: {1, 1, 0},
	DirectionAboveNorth: {0, 1, 1},
	DirectionAboveSouth: {0, 1, -1},
	DirectionBelowWest:  {-1, -1, 0},
	DirectionBelowEast:  {1, -1, 0},
	DirectionBelowNorth: {0, -1, 1},
	DirectionBelowSouth: {0, -1, -1},

	DirectionAboveNorthWest: {-1, 1, 1},
	DirectionAboveNorthEast: {1, 1, 1},
	DirectionAboveSouthWest: {-1, 1, -1},
	DirectionAboveSouthEast: {1, 1, -1},
	DirectionBelowNorthWest: {-1, -1, 1},
	DirectionBelowNorthEast: {1, -1, 1},
	DirectionBelowSouthWest: {-1, -1, -1},
	DirectionBelowSouthEast: {1, -1, -1},
}

// formulaIndex is the pinned flat-array index for a unit-signed offset:
// ((z+1)*3 + (y+1))*3 + (x+1). It ranges over [0,26] with the center
// (0,0,0) landing on 13.
func formulaIndex(dx, dy, dz int32) int32 {
	return ((dz+1)*3+(dy+1))*3 + (dx + 1)
}

// offsetIndexToDirection maps formulaIndex values to the pinned
// SpatialDirection enumeration, keeping the two encodings in sync: the
// named ordering from DirectionOffsets and the arithmetic offset formula
// both resolve to the same direction for a given offset.
var offsetIndexToDirection = buildOffsetIndexTable()

func buildOffsetIndexTable() [27]SpatialDirection {
	var table [27]SpatialDirection
	for i := range table {
		table[i] = DirectionNone
	}
	for dir, off := range DirectionOffsets {
		table[formulaIndex(off.X, off.Y, off.Z)] = SpatialDirection(dir)
	}
	return table
}

// OffsetToDirection converts a unit-signed (dx, dy, dz) offset to its
// SpatialDirection using the pinned formula above. The center
// (0,0,0) maps to DirectionNone.
func OffsetToDirection(dx, dy, dz int32) SpatialDirection {
	if dx < -1 || dx > 1 || dy < -1 || dy > 1 || dz < -1 || dz > 1 {
		return DirectionNone
	}
	return offsetIndexToDirection[formulaIndex(dx, dy, dz)]
}

// DirectionToOffset is the inverse of OffsetToDirection.
func DirectionToOffset(dir SpatialDirection) (int32, int32, int32) {
	if dir < 0 || int(dir) >= directionCount {
		return 0, 0, 0
	}
	o := DirectionOffsets[dir]
	return o.X, o.Y, o.Z
}

// boundaryFace describes, for each cardinal direction, which axis
// and which face of the grid it names.
type boundaryFace struct {
	axis    int // 0=x, 1=y, 2=z
	atStart bool
}

var cardinalBoundaryFaces = map[SpatialDirection]boundaryFace{
	DirectionWest:  {axis: 0, atStart: true},
	DirectionEast:  {axis: 0, atStart: false},
	DirectionBelow: {axis: 1, atStart: true},
	DirectionAbove: {axis: 1, atStart: false},
	DirectionSouth: {axis: 2, atStart: true},
	DirectionNorth: {axis: 2, atStart: false},
}

// voxelResolutionOf computes the overlap tolerance for a given voxel size,
// per spec: half the voxel size.
func voxelResolutionOf(voxelSize fixmath.Fix64) fixmath.Fix64 {
	return voxelSize.Mul(fixmath.Half())
}

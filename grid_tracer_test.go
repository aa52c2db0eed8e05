package gridforge

import (
	"testing"

	"github.com/mrdav30/GridForge-sub000/fixmath"
	"github.com/stretchr/testify/require"
)

func TestTraceLine_WithinSingleGrid(t *testing.T) {
	setupManager(t)
	addTestGrid(t, fixmath.NewVec3(fixmath.Zero(), fixmath.Zero(), fixmath.Zero()), fixmath.Vec3FromInt(8, 8, 8))

	segments := TraceLine(fixmath.Vec3FromInt(0, 0, 0), fixmath.Vec3FromInt(7, 0, 0), true)
	require.Len(t, segments, 1)
	require.Greater(t, len(segments[0].Voxels), 1)
}

func TestTraceLine_GapOutsideAnyGrid(t *testing.T) {
	setupManager(t)
	addTestGrid(t, fixmath.NewVec3(fixmath.Zero(), fixmath.Zero(), fixmath.Zero()), fixmath.Vec3FromInt(2, 2, 2))

	// The endpoint sits far outside the only registered grid, so the trace
	// must stop producing voxels once it leaves grid bounds rather than
	// erroring.
	segments := TraceLine(fixmath.Vec3FromInt(0, 0, 0), fixmath.Vec3FromInt(50, 0, 0), false)
	require.Len(t, segments, 1)
	for _, v := range segments[0].Voxels {
		require.True(t, v.WorldPosition.X().Lte(fixmath.FromInt(2)))
	}
}

func TestTraceLine2D_IgnoresYDrift(t *testing.T) {
	setupManager(t)
	addTestGrid(t, fixmath.NewVec3(fixmath.Zero(), fixmath.Zero(), fixmath.Zero()), fixmath.Vec3FromInt(8, 8, 8))

	segments := TraceLine2D(fixmath.Vec3FromInt(0, 3, 0), fixmath.Vec3FromInt(7, 7, 0), true)
	require.Len(t, segments, 1)
	for _, v := range segments[0].Voxels {
		require.Equal(t, int32(3), v.GlobalIndex.Local.Y)
	}
}

func TestGetCoveredVoxels(t *testing.T) {
	setupManager(t)
	addTestGrid(t, fixmath.NewVec3(fixmath.Zero(), fixmath.Zero(), fixmath.Zero()), fixmath.Vec3FromInt(4, 4, 4))

	segments := GetCoveredVoxels(fixmath.NewVec3(fixmath.Zero(), fixmath.Zero(), fixmath.Zero()), fixmath.Vec3FromInt(2, 2, 2))
	require.Len(t, segments, 1)
	require.NotEmpty(t, segments[0].Voxels)
}

func TestGetCoveredScanCells(t *testing.T) {
	setupManager(t)
	slot := addTestGrid(t, fixmath.NewVec3(fixmath.Zero(), fixmath.Zero(), fixmath.Zero()), fixmath.Vec3FromInt(8, 8, 8))

	cells := GetCoveredScanCells(fixmath.NewVec3(fixmath.Zero(), fixmath.Zero(), fixmath.Zero()), fixmath.Vec3FromInt(8, 8, 8))
	require.NotEmpty(t, cells[slot])
}

package gridforge

import (
	"testing"

	"github.com/mrdav30/GridForge-sub000/fixmath"
	"github.com/stretchr/testify/require"
)

func TestBlocker_ApplyAndRelease(t *testing.T) {
	setupManager(t)
	addTestGrid(t, fixmath.NewVec3(fixmath.Zero(), fixmath.Zero(), fixmath.Zero()), fixmath.Vec3FromInt(4, 4, 4))

	min := fixmath.NewVec3(fixmath.Zero(), fixmath.Zero(), fixmath.Zero())
	max := fixmath.Vec3FromInt(2, 2, 2)
	blocker := NewBlocker(min, max)

	applied := blocker.Apply()
	require.Greater(t, applied, 0)
	require.Equal(t, applied, blocker.CoveredVoxelCount())

	_, voxel, ok := Manager().TryGetGridAndVoxel(fixmath.NewVec3(fixmath.Zero(), fixmath.Zero(), fixmath.Zero()))
	require.True(t, ok)
	require.True(t, voxel.IsBlocked())

	released := blocker.Release()
	require.Equal(t, applied, released)
	require.False(t, voxel.IsBlocked())
	require.Equal(t, 0, blocker.CoveredVoxelCount())
}

func TestBlocker_TokenDerivesFromBounds(t *testing.T) {
	a := NewBlocker(fixmath.NewVec3(fixmath.Zero(), fixmath.Zero(), fixmath.Zero()), fixmath.Vec3FromInt(2, 2, 2))
	b := NewBlocker(fixmath.NewVec3(fixmath.Zero(), fixmath.Zero(), fixmath.Zero()), fixmath.Vec3FromInt(2, 2, 2))
	c := NewBlocker(fixmath.NewVec3(fixmath.Zero(), fixmath.Zero(), fixmath.Zero()), fixmath.Vec3FromInt(3, 3, 3))

	require.Equal(t, a.Token, b.Token)
	require.NotEqual(t, a.Token, c.Token)
}

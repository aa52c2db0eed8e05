package gridforge

import (
	"testing"

	"github.com/mrdav30/GridForge-sub000/fixmath"
	"github.com/stretchr/testify/require"
)

func addTestGrid(t *testing.T, min, max fixmath.Vec3) uint16 {
	t.Helper()
	cfg := NewGridConfig(min, max, 2)
	result, slot := Manager().TryAddGrid(cfg)
	require.True(t, result == AddSuccess || result == AddAlreadyExists)
	return slot
}

func TestObstacleManager_AddAndRemove(t *testing.T) {
	setupManager(t)
	addTestGrid(t, fixmath.NewVec3(fixmath.Zero(), fixmath.Zero(), fixmath.Zero()), fixmath.Vec3FromInt(4, 4, 4))

	pos := fixmath.Vec3FromInt(1, 1, 1)
	require.True(t, TryAddObstacleAt(pos, 42))

	_, voxel, ok := Manager().TryGetGridAndVoxel(pos)
	require.True(t, ok)
	require.True(t, voxel.IsBlocked())

	require.True(t, TryRemoveObstacleAt(pos, 42))
	require.False(t, voxel.IsBlocked())
}

func TestObstacleManager_DuplicateTokenRejected(t *testing.T) {
	setupManager(t)
	addTestGrid(t, fixmath.NewVec3(fixmath.Zero(), fixmath.Zero(), fixmath.Zero()), fixmath.Vec3FromInt(4, 4, 4))

	pos := fixmath.Vec3FromInt(1, 1, 1)
	require.True(t, TryAddObstacleAt(pos, 7))
	require.False(t, TryAddObstacleAt(pos, 7), "re-applying the same token must be a no-op")

	_, voxel, ok := Manager().TryGetGridAndVoxel(pos)
	require.True(t, ok)
	require.EqualValues(t, 1, voxel.ObstacleCount)
}

func TestObstacleManager_CapEnforced(t *testing.T) {
	setupManager(t)
	addTestGrid(t, fixmath.NewVec3(fixmath.Zero(), fixmath.Zero(), fixmath.Zero()), fixmath.Vec3FromInt(4, 4, 4))

	pos := fixmath.Vec3FromInt(1, 1, 1)
	for i := int32(0); i < MaxObstacleCount; i++ {
		require.True(t, TryAddObstacleAt(pos, i), "obstacle %d should succeed", i)
	}
	require.False(t, TryAddObstacleAt(pos, MaxObstacleCount), "exceeding MaxObstacleCount must fail")
}

func TestObstacleManager_BlockedVoxelRejectsOccupant(t *testing.T) {
	setupManager(t)
	addTestGrid(t, fixmath.NewVec3(fixmath.Zero(), fixmath.Zero(), fixmath.Zero()), fixmath.Vec3FromInt(4, 4, 4))

	pos := fixmath.Vec3FromInt(1, 1, 1)
	require.True(t, TryAddObstacleAt(pos, 1))

	_, voxel, ok := Manager().TryGetGridAndVoxel(pos)
	require.True(t, ok)
	require.False(t, voxel.HasVacancy())
}

func TestObstacleManager_RemoveFromUnblockedVoxelFails(t *testing.T) {
	setupManager(t)
	addTestGrid(t, fixmath.NewVec3(fixmath.Zero(), fixmath.Zero(), fixmath.Zero()), fixmath.Vec3FromInt(4, 4, 4))

	pos := fixmath.Vec3FromInt(1, 1, 1)
	require.False(t, TryRemoveObstacleAt(pos, 1))
}

package gridforge

import (
	"testing"

	"github.com/mrdav30/GridForge-sub000/fixmath"
	"github.com/stretchr/testify/require"
)

func setupManager(t *testing.T) {
	t.Helper()
	Manager().Reset()
	Manager().Setup(fixmath.One(), DefaultSpatialCellSize)
	t.Cleanup(func() { Manager().Reset() })
}

func TestGlobalGridManager_SetupIsIdempotent(t *testing.T) {
	setupManager(t)
	require.True(t, Manager().IsActive)

	// Calling Setup again while active must not wipe existing state.
	Manager().Setup(fixmath.One(), 999)
	require.Equal(t, int32(DefaultSpatialCellSize), Manager().SpatialCellSize)
}

func TestGlobalGridManager_TryAddGrid(t *testing.T) {
	setupManager(t)

	cfg := NewGridConfig(fixmath.NewVec3(fixmath.Zero(), fixmath.Zero(), fixmath.Zero()),
		fixmath.Vec3FromInt(4, 4, 4), 2)

	result, slot := Manager().TryAddGrid(cfg)
	require.Equal(t, AddSuccess, result)

	result2, existingSlot := Manager().TryAddGrid(cfg)
	require.Equal(t, AddAlreadyExists, result2)
	require.Equal(t, slot, existingSlot)

	grid, ok := Manager().TryGetGridBySlot(slot)
	require.True(t, ok)
	require.True(t, grid.IsActive)
}

func TestGlobalGridManager_TryAddGridInvalidBounds(t *testing.T) {
	setupManager(t)

	cfg := GridConfig{
		BoundsMin:    fixmath.Vec3FromInt(4, 4, 4),
		BoundsMax:    fixmath.Vec3FromInt(0, 0, 0),
		ScanCellSize: DefaultScanCellSize,
	}
	result, _ := Manager().TryAddGrid(cfg)
	require.Equal(t, AddInvalidBounds, result)
}

func TestGlobalGridManager_TryAddGridWhileInactive(t *testing.T) {
	Manager().Reset()
	cfg := NewGridConfig(fixmath.NewVec3(fixmath.Zero(), fixmath.Zero(), fixmath.Zero()),
		fixmath.Vec3FromInt(2, 2, 2), 2)
	result, _ := Manager().TryAddGrid(cfg)
	require.Equal(t, AddInactive, result)
}

func TestGlobalGridManager_TryRemoveGrid(t *testing.T) {
	setupManager(t)

	cfg := NewGridConfig(fixmath.NewVec3(fixmath.Zero(), fixmath.Zero(), fixmath.Zero()),
		fixmath.Vec3FromInt(2, 2, 2), 2)
	_, slot := Manager().TryAddGrid(cfg)

	require.True(t, Manager().TryRemoveGrid(slot))
	require.False(t, Manager().TryRemoveGrid(slot))

	_, ok := Manager().TryGetGridBySlot(slot)
	require.False(t, ok)
}

func TestGlobalGridManager_NeighborLinkingOnAdd(t *testing.T) {
	setupManager(t)

	cfgA := NewGridConfig(fixmath.NewVec3(fixmath.Zero(), fixmath.Zero(), fixmath.Zero()),
		fixmath.Vec3FromInt(4, 4, 4), 2)
	cfgB := NewGridConfig(fixmath.Vec3FromInt(4, 0, 0), fixmath.Vec3FromInt(8, 4, 4), 2)

	_, slotA := Manager().TryAddGrid(cfgA)
	_, slotB := Manager().TryAddGrid(cfgB)

	gridA, _ := Manager().TryGetGridBySlot(slotA)
	gridB, _ := Manager().TryGetGridBySlot(slotB)

	require.True(t, gridA.IsConjoined())
	require.True(t, gridB.IsConjoined())

	require.True(t, Manager().TryRemoveGrid(slotA))
	require.False(t, gridB.IsConjoined())
}

func TestGlobalGridManager_TryGetGridByPosition(t *testing.T) {
	setupManager(t)

	cfg := NewGridConfig(fixmath.NewVec3(fixmath.Zero(), fixmath.Zero(), fixmath.Zero()),
		fixmath.Vec3FromInt(4, 4, 4), 2)
	Manager().TryAddGrid(cfg)

	grid, ok := Manager().TryGetGridByPosition(fixmath.Vec3FromInt(2, 2, 2))
	require.True(t, ok)
	require.NotNil(t, grid)

	_, ok = Manager().TryGetGridByPosition(fixmath.Vec3FromInt(100, 100, 100))
	require.False(t, ok)
}

func TestGlobalGridManager_FindOverlappingGrids(t *testing.T) {
	setupManager(t)

	cfgA := NewGridConfig(fixmath.NewVec3(fixmath.Zero(), fixmath.Zero(), fixmath.Zero()),
		fixmath.Vec3FromInt(4, 4, 4), 2)
	cfgB := NewGridConfig(fixmath.Vec3FromInt(4, 0, 0), fixmath.Vec3FromInt(8, 4, 4), 2)
	cfgC := NewGridConfig(fixmath.Vec3FromInt(100, 100, 100), fixmath.Vec3FromInt(104, 104, 104), 2)

	_, slotA := Manager().TryAddGrid(cfgA)
	Manager().TryAddGrid(cfgB)
	Manager().TryAddGrid(cfgC)

	gridA, _ := Manager().TryGetGridBySlot(slotA)
	overlaps := Manager().FindOverlappingGrids(gridA)
	require.Len(t, overlaps, 1)
}

func TestGlobalGridManager_IsDiagonalNeighbor(t *testing.T) {
	if Manager().IsDiagonalNeighbor(DirectionWest) {
		t.Errorf("West is a cardinal direction, not diagonal")
	}
	if !Manager().IsDiagonalNeighbor(DirectionNorthWest) {
		t.Errorf("NorthWest should be reported as diagonal")
	}
	if Manager().IsDiagonalNeighbor(DirectionNone) {
		t.Errorf("DirectionNone should never be diagonal")
	}
}

package gridforge

import (
	"testing"

	"github.com/mrdav30/GridForge-sub000/fixmath"
	"github.com/stretchr/testify/require"
)

type tagPartition struct {
	added   bool
	removed bool
}

func (p *tagPartition) OnAddToVoxel(v *Voxel)      { p.added = true }
func (p *tagPartition) OnRemoveFromVoxel(v *Voxel) { p.removed = true }

func TestPartition_AddGetRemove(t *testing.T) {
	setupManager(t)
	addTestGrid(t, fixmath.NewVec3(fixmath.Zero(), fixmath.Zero(), fixmath.Zero()), fixmath.Vec3FromInt(4, 4, 4))

	v, ok := Manager().TryGetVoxel(fixmath.Vec3FromInt(1, 1, 1))
	require.True(t, ok)

	p := &tagPartition{}
	require.True(t, TryAddPartition[*tagPartition](v, p))
	require.True(t, p.added)
	require.True(t, HasPartition[*tagPartition](v))

	got, ok := TryGetPartition[*tagPartition](v)
	require.True(t, ok)
	require.Same(t, p, got)

	require.True(t, TryRemovePartition[*tagPartition](v))
	require.True(t, p.removed)
	require.False(t, HasPartition[*tagPartition](v))
}

func TestPartition_DuplicateTypeRejected(t *testing.T) {
	setupManager(t)
	addTestGrid(t, fixmath.NewVec3(fixmath.Zero(), fixmath.Zero(), fixmath.Zero()), fixmath.Vec3FromInt(4, 4, 4))

	v, ok := Manager().TryGetVoxel(fixmath.Vec3FromInt(1, 1, 1))
	require.True(t, ok)

	require.True(t, TryAddPartition[*tagPartition](v, &tagPartition{}))
	require.False(t, TryAddPartition[*tagPartition](v, &tagPartition{}))
}

func TestPartition_GetOrDefaultWhenAbsent(t *testing.T) {
	setupManager(t)
	addTestGrid(t, fixmath.NewVec3(fixmath.Zero(), fixmath.Zero(), fixmath.Zero()), fixmath.Vec3FromInt(4, 4, 4))

	v, ok := Manager().TryGetVoxel(fixmath.Vec3FromInt(1, 1, 1))
	require.True(t, ok)

	got := GetPartitionOrDefault[*tagPartition](v)
	require.Nil(t, got)
}

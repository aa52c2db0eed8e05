package gridforge

import "github.com/mrdav30/GridForge-sub000/fixmath"

// Occupant is implemented by anything that can occupy a voxel: agents,
// dynamic props, whatever a consumer of this package tracks spatially.
// OccupantManager and ScanManager operate purely against this interface.
type Occupant interface {
	// Position is used by radius scans to refine scan-cell candidates down
	// to an exact distance check.
	Position() fixmath.Vec3

	// GroupID supports ScanManager's group-filtered queries (e.g. faction,
	// team, occupant-kind bucketing).
	GroupID() int32

	// IsOccupying reports whether this occupant is currently registered
	// against idx, and if so at which ticket.
	IsOccupying(idx GlobalVoxelIndex) (ticket int, ok bool)

	// SetOccupancy records that this occupant now holds ticket in the
	// scan-cell bucket for idx.
	SetOccupancy(idx GlobalVoxelIndex, ticket int)

	// RemoveOccupancy clears any recorded occupancy for idx. Called
	// unconditionally before the bucket removal is attempted, so client
	// state resets even if the bucket-side removal loses a race.
	RemoveOccupancy(idx GlobalVoxelIndex)
}

// BaseOccupant is an embeddable implementation of the bookkeeping half of
// Occupant (the occupying_index_map), leaving Position and GroupID to the
// embedding type.
type BaseOccupant struct {
	occupying map[GlobalVoxelIndex]int
}

func (b *BaseOccupant) IsOccupying(idx GlobalVoxelIndex) (int, bool) {
	if b.occupying == nil {
		return 0, false
	}
	ticket, ok := b.occupying[idx]
	return ticket, ok
}

func (b *BaseOccupant) SetOccupancy(idx GlobalVoxelIndex, ticket int) {
	if b.occupying == nil {
		b.occupying = make(map[GlobalVoxelIndex]int)
	}
	b.occupying[idx] = ticket
}

func (b *BaseOccupant) RemoveOccupancy(idx GlobalVoxelIndex) {
	delete(b.occupying, idx)
}

package gridforge

import "github.com/mrdav30/GridForge-sub000/pool"

// ScanCell is a coarse partition of a grid, the granularity at which
// occupant buckets and the grid's active-cell set are tracked. Like
// Voxel, it holds no owning reference back to its grid.
type ScanCell struct {
	GridIndex  uint16
	CellKey    int32
	spawnToken int32

	occupants     *pool.OrderedMap[GlobalVoxelIndex, *pool.Bucket[Occupant]]
	OccupantCount int32

	IsAllocated bool
}

func NewScanCell() *ScanCell {
	return &ScanCell{}
}

// Initialize (re)allocates the scan cell for a grid generation pass.
func (c *ScanCell) Initialize(gridIndex uint16, cellKey int32) {
	c.GridIndex = gridIndex
	c.CellKey = cellKey
	c.spawnToken = MixHash(int32(gridIndex), cellKey, 0)
	c.OccupantCount = 0
	c.IsAllocated = true
}

// Reset releases occupant buckets and clears allocation state.
func (c *ScanCell) Reset() {
	if c.occupants != nil {
		c.occupants.Each(func(_ GlobalVoxelIndex, b *pool.Bucket[Occupant]) {
			bucketPool.Release(b)
		})
		orderedMapPool.Release(c.occupants)
		c.occupants = nil
	}
	c.OccupantCount = 0
	c.IsAllocated = false
}

// IsOccupied reports whether the cell currently holds any occupant.
func (c *ScanCell) IsOccupied() bool {
	return c.IsAllocated && c.OccupantCount > 0
}

var (
	orderedMapPool = pool.NewOrderedMapPool[GlobalVoxelIndex, *pool.Bucket[Occupant]]()
	bucketPool     = pool.NewBucketPool[Occupant]()
)

func (c *ScanCell) bucketFor(idx GlobalVoxelIndex, create bool) (*pool.Bucket[Occupant], bool) {
	if c.occupants == nil {
		if !create {
			return nil, false
		}
		c.occupants = orderedMapPool.Rent()
	}
	b, ok := c.occupants.Get(idx)
	if !ok {
		if !create {
			return nil, false
		}
		b = bucketPool.Rent()
		c.occupants.Set(idx, b)
	}
	return b, true
}

// AddOccupant assigns a stable ticket to occupant within idx's bucket and
// records the occupancy on the occupant itself.
func (c *ScanCell) AddOccupant(idx GlobalVoxelIndex, occupant Occupant) int {
	b, _ := c.bucketFor(idx, true)
	ticket := b.Put(occupant)
	occupant.SetOccupancy(idx, ticket)
	c.OccupantCount++
	return ticket
}

// TryRemoveOccupant removes occupant's entry from idx's bucket. The
// occupant's own occupancy record is cleared unconditionally first, so
// client-side state resets even if this call loses a race on the bucket.
func (c *ScanCell) TryRemoveOccupant(idx GlobalVoxelIndex, occupant Occupant, ticket int) bool {
	occupant.RemoveOccupancy(idx)

	b, ok := c.bucketFor(idx, false)
	if !ok {
		return false
	}
	if !b.Remove(ticket) {
		return false
	}
	c.OccupantCount--
	if b.IsEmpty() {
		c.occupants.Delete(idx)
		bucketPool.Release(b)
	}
	return true
}

// GetOccupants yields every occupant bucket held by this cell.
func (c *ScanCell) GetOccupants() []*pool.Bucket[Occupant] {
	if c.occupants == nil {
		return nil
	}
	out := make([]*pool.Bucket[Occupant], 0, c.occupants.Len())
	c.occupants.Each(func(_ GlobalVoxelIndex, b *pool.Bucket[Occupant]) {
		out = append(out, b)
	})
	return out
}

// GetOccupantsFor yields the bucket for a single voxel, if any.
func (c *ScanCell) GetOccupantsFor(idx GlobalVoxelIndex) (*pool.Bucket[Occupant], bool) {
	return c.bucketFor(idx, false)
}

// GetConditionalOccupants filters every occupant in the cell by predicate.
func (c *ScanCell) GetConditionalOccupants(predicate func(Occupant) bool) []Occupant {
	var out []Occupant
	if c.occupants == nil {
		return out
	}
	c.occupants.Each(func(_ GlobalVoxelIndex, b *pool.Bucket[Occupant]) {
		b.Each(func(_ int, occ Occupant) bool {
			if predicate == nil || predicate(occ) {
				out = append(out, occ)
			}
			return true
		})
	})
	return out
}

// TryGetOccupantAt resolves a single occupant by voxel index and ticket.
func (c *ScanCell) TryGetOccupantAt(idx GlobalVoxelIndex, ticket int) (Occupant, bool) {
	b, ok := c.bucketFor(idx, false)
	if !ok {
		return nil, false
	}
	return b.Get(ticket)
}

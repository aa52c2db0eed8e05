package gridforge

import "github.com/mrdav30/GridForge-sub000/fixmath"

// TryRegisterOccupant is ScanManager's public entry point for placing an
// occupant into the grid at idx; it forwards to the occupant-manager
// facade, which owns the actual bucket/counter mutation.
func TryRegisterOccupant(idx GlobalVoxelIndex, occupant Occupant) bool {
	return TryAddVoxelOccupant(idx, occupant)
}

// TryDeregisterOccupant is the symmetric inverse of TryRegisterOccupant.
func TryDeregisterOccupant(idx GlobalVoxelIndex, occupant Occupant) bool {
	return TryRemoveVoxelOccupant(idx, occupant)
}

// GetVoxelOccupants returns every occupant currently registered at idx.
func GetVoxelOccupants(idx GlobalVoxelIndex) []Occupant {
	grid, ok := Manager().TryGetGridByVoxelIndex(idx)
	if !ok {
		return nil
	}
	cell, ok := grid.TryGetScanCellByVoxel(idx.Local)
	if !ok {
		return nil
	}
	b, ok := cell.GetOccupantsFor(idx)
	if !ok {
		return nil
	}
	out := make([]Occupant, 0, b.Len())
	b.Each(func(_ int, occ Occupant) bool {
		out = append(out, occ)
		return true
	})
	return out
}

// GetVoxelOccupantsOfType filters GetVoxelOccupants down to those
// satisfying a runtime type assertion to T.
func GetVoxelOccupantsOfType[T Occupant](idx GlobalVoxelIndex) []T {
	var out []T
	for _, occ := range GetVoxelOccupants(idx) {
		if t, ok := occ.(T); ok {
			out = append(out, t)
		}
	}
	return out
}

// TryGetVoxelOccupant resolves a single occupant at idx by its bucket
// ticket.
func TryGetVoxelOccupant(idx GlobalVoxelIndex, ticket int) (Occupant, bool) {
	grid, ok := Manager().TryGetGridByVoxelIndex(idx)
	if !ok {
		return nil, false
	}
	cell, ok := grid.TryGetScanCellByVoxel(idx.Local)
	if !ok {
		return nil, false
	}
	return cell.TryGetOccupantAt(idx, ticket)
}

// GetConditionalOccupants returns every occupant at idx's scan cell
// satisfying predicate (unlike GetVoxelOccupants, this scans the whole
// scan cell rather than one voxel's bucket).
func GetConditionalOccupants(idx GlobalVoxelIndex, predicate func(Occupant) bool) []Occupant {
	grid, ok := Manager().TryGetGridByVoxelIndex(idx)
	if !ok {
		return nil
	}
	cell, ok := grid.TryGetScanCellByVoxel(idx.Local)
	if !ok {
		return nil
	}
	return cell.GetConditionalOccupants(predicate)
}

// ScanRadius returns every occupant within radius of center, across every
// grid whose scan cells can overlap the search box. Scan cells give a
// coarse candidate set; the exact distance check narrows it.
func ScanRadius(center fixmath.Vec3, radius fixmath.Fix64) []Occupant {
	return ScanRadiusWhere(center, radius, nil, nil)
}

// ScanRadiusWhere is ScanRadius with optional occupant and group filters
// applied after the distance check, mirroring scan_radius's
// occupant_pred/group_pred parameters. Either predicate may be nil to
// skip that filter.
func ScanRadiusWhere(center fixmath.Vec3, radius fixmath.Fix64, occupantPred func(Occupant) bool, groupPred func(int32) bool) []Occupant {
	rVec := fixmath.NewVec3(radius, radius, radius)
	min := center.Sub(rVec)
	max := center.Add(rVec)
	rSqr := radius.Mul(radius)

	var out []Occupant
	for _, cells := range GetCoveredScanCells(min, max) {
		for _, cell := range cells {
			for _, b := range cell.GetOccupants() {
				b.Each(func(_ int, occ Occupant) bool {
					if !occ.Position().Sub(center).SqrMagnitude().Lte(rSqr) {
						return true
					}
					if occupantPred != nil && !occupantPred(occ) {
						return true
					}
					if groupPred != nil && !groupPred(occ.GroupID()) {
						return true
					}
					out = append(out, occ)
					return true
				})
			}
		}
	}
	return out
}

// ScanRadiusOfType filters ScanRadius down to occupants satisfying a
// runtime type assertion to T.
func ScanRadiusOfType[T Occupant](center fixmath.Vec3, radius fixmath.Fix64) []T {
	var out []T
	for _, occ := range ScanRadius(center, radius) {
		if t, ok := occ.(T); ok {
			out = append(out, t)
		}
	}
	return out
}

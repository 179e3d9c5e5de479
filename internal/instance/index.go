package instance

// Index interns the string identifiers of an Instance into compact integer
// positions, so the planner can address locations, maintenance types, and
// vehicles by slice index rather than by repeated string comparison.
type Index struct {
	inst *Instance

	locationPos map[string]int
	maintPos    map[string]int
	vehiclePos  map[string]int
	routePos    map[string]int
}

// BuildIndex interns every identifier in inst in declaration order, so two
// calls against the same Instance value always produce the same mapping.
func BuildIndex(inst *Instance) *Index {
	idx := &Index{
		inst:        inst,
		locationPos: make(map[string]int, len(inst.Locations)),
		maintPos:    make(map[string]int, len(inst.MaintenanceTypes)),
		vehiclePos:  make(map[string]int, len(inst.Vehicles)),
		routePos:    make(map[string]int, len(inst.Routes)),
	}
	for i, l := range inst.Locations {
		idx.locationPos[l.ID] = i
	}
	for i, m := range inst.MaintenanceTypes {
		idx.maintPos[m.ID] = i
	}
	for i, v := range inst.Vehicles {
		idx.vehiclePos[v.ID] = i
	}
	for i, r := range inst.Routes {
		idx.routePos[r.ID] = i
	}
	return idx
}

func (idx *Index) Location(id string) (Location, int, bool) {
	i, ok := idx.locationPos[id]
	if !ok {
		return Location{}, -1, false
	}
	return idx.inst.Locations[i], i, true
}

func (idx *Index) MaintenanceType(id string) (MaintenanceType, int, bool) {
	i, ok := idx.maintPos[id]
	if !ok {
		return MaintenanceType{}, -1, false
	}
	return idx.inst.MaintenanceTypes[i], i, true
}

func (idx *Index) VehiclePos(id string) (int, bool) {
	i, ok := idx.vehiclePos[id]
	return i, ok
}

func (idx *Index) RoutePos(id string) (int, bool) {
	i, ok := idx.routePos[id]
	return i, ok
}

func (idx *Index) NumLocations() int { return len(idx.inst.Locations) }
func (idx *Index) NumMaintTypes() int { return len(idx.inst.MaintenanceTypes) }
func (idx *Index) NumVehicles() int   { return len(idx.inst.Vehicles) }
func (idx *Index) NumRoutes() int     { return len(idx.inst.Routes) }

// Depots returns the index positions of every depot location, in
// declaration order.
func (idx *Index) Depots() []int {
	var out []int
	for i, l := range idx.inst.Locations {
		if l.IsDepot() {
			out = append(out, i)
		}
	}
	return out
}

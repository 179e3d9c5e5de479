// Package planner is the constraint-model builder: it turns a validated
// instance.Instance into a cpsat.Model (variable factory + constraint
// assembler + objective) and, once solved, projects the solution back
// into a schedule.Result.
package planner

import (
	"fmt"

	"railopt/internal/cpsat"
	"railopt/internal/instance"
	"railopt/internal/shiftgrid"
)

// MaintInstance is one potential occurrence of a maintenance type on a
// vehicle starting at a specific shift — the unit the original optimizer
// calls an "all_maint_instances" entry.
type MaintInstance struct {
	ID               string
	VehicleIdx       int
	MaintIdx         int
	StartShift       int
	RequiredManhours int
	EstDuration      int
	Specialization   string
	Category         instance.MaintenanceCategory
}

type assignKey struct{ Vehicle, Route int }
type idleKey struct{ Vehicle, Shift int }

// Variables holds every decision variable the planner creates, addressed
// by the same keys the constraint assembler and projector use.
type Variables struct {
	Assign   map[assignKey]cpsat.Var
	LocStart [][]cpsat.Var // [vehicleIdx][shiftIdx]
	KMStart  [][]cpsat.Var // [vehicleIdx][shiftIdx]
	Idle     map[idleKey]cpsat.Var

	Instances       []MaintInstance
	Performed       map[string]cpsat.Var
	AssignedDepot   map[string]cpsat.Var
	DepotDomain     map[string][]int64 // instance id -> candidate depot indices
	KMAtMaintStart  map[string]cpsat.Var
	Deviation       map[string]cpsat.Var // preventive instances only
	ActiveShift     map[string]map[int]cpsat.Var
}

// BuildVariables is the variable factory (specification §4.2): it
// allocates every decision variable the constraint assembler will use,
// following the same traversal order as the original model (vehicles,
// then shifts, then maintenance types) so the variables it allocates come
// out in the same order for a given instance.
func BuildVariables(inst *instance.Instance, idx *instance.Index, grid *shiftgrid.Grid, m *cpsat.Model) *Variables {
	vars := &Variables{
		Assign:         make(map[assignKey]cpsat.Var),
		LocStart:       make([][]cpsat.Var, len(inst.Vehicles)),
		KMStart:        make([][]cpsat.Var, len(inst.Vehicles)),
		Idle:           make(map[idleKey]cpsat.Var),
		Performed:      make(map[string]cpsat.Var),
		AssignedDepot:  make(map[string]cpsat.Var),
		DepotDomain:    make(map[string][]int64),
		KMAtMaintStart: make(map[string]cpsat.Var),
		Deviation:      make(map[string]cpsat.Var),
		ActiveShift:    make(map[string]map[int]cpsat.Var),
	}

	maxPossibleKM := maxPossibleKM(inst)
	numLocations := int64(idx.NumLocations())
	depots := idx.Depots()

	// 1. Route assignment variables.
	for vIdx, veh := range inst.Vehicles {
		for rIdx, route := range inst.Routes {
			name := fmt.Sprintf("assign_%s_%s", veh.ID, route.ID)
			vars.Assign[assignKey{vIdx, rIdx}] = m.NewBoolVar(name)
		}
	}

	// 2 & 3. Location and km variables, one per vehicle per shift
	// (including the initial pseudo-shift).
	for vIdx, veh := range inst.Vehicles {
		vars.LocStart[vIdx] = make([]cpsat.Var, grid.Len())
		vars.KMStart[vIdx] = make([]cpsat.Var, grid.Len())
		for s := 0; s < grid.Len(); s++ {
			locName := fmt.Sprintf("loc_start_%s_%d", veh.ID, s)
			vars.LocStart[vIdx][s] = m.NewIntVar(0, numLocations-1, locName)
			kmName := fmt.Sprintf("km_at_shift_start_%s_%d", veh.ID, s)
			vars.KMStart[vIdx][s] = m.NewIntVar(0, maxPossibleKM, kmName)
		}
	}

	// 4. Maintenance instance variables.
	for vIdx, veh := range inst.Vehicles {
		for _, startShift := range grid.Real() {
			for mIdx, mt := range inst.MaintenanceTypes {
				id := fmt.Sprintf("%s_%s_%d", veh.ID, mt.ID, startShift)

				mi := MaintInstance{
					ID:               id,
					VehicleIdx:       vIdx,
					MaintIdx:         mIdx,
					StartShift:       startShift,
					RequiredManhours: mt.Manhours,
					EstDuration:      mt.EstimatedDurationShifts(),
					Specialization:   mt.Specialization,
					Category:         mt.Category,
				}
				vars.Instances = append(vars.Instances, mi)

				vars.Performed[id] = m.NewBoolVar("maint_performed_" + id)

				candidates := capableDepots(inst, depots, mt.Specialization)
				domain := make([]int64, len(candidates))
				for i, d := range candidates {
					domain[i] = int64(d)
				}
				vars.DepotDomain[id] = domain
				depotVar, _ := m.NewIntVarFromDomain(domain, "maint_assigned_depot_"+id)
				vars.AssignedDepot[id] = depotVar

				vars.KMAtMaintStart[id] = m.NewIntVar(0, maxPossibleKM, "km_at_maint_start_"+id)

				if mt.Category == instance.Preventive {
					vars.Deviation[id] = m.NewIntVar(0, maxPossibleKM, "deviation_"+id)
				}

				end := startShift + mi.EstDuration
				if end > grid.Len() {
					end = grid.Len()
				}
				shiftVars := make(map[int]cpsat.Var, end-startShift)
				for s := startShift; s < end; s++ {
					shiftVars[s] = m.NewBoolVar(fmt.Sprintf("maint_active_%s_%d", id, s))
				}
				vars.ActiveShift[id] = shiftVars
			}
		}
	}

	return vars
}

func maxPossibleKM(inst *instance.Instance) int64 {
	var maxInitial int64
	for _, v := range inst.Vehicles {
		if int64(v.InitialKM) > maxInitial {
			maxInitial = int64(v.InitialKM)
		}
	}
	var totalRouteKM int64
	for _, r := range inst.Routes {
		totalRouteKM += int64(r.DistanceKM)
	}
	return maxInitial + totalRouteKM
}

// capableDepots returns the index positions of depots able to perform the
// given specialization, falling back to every depot if none declare it or
// if the specialization is empty — matching the original optimizer's
// fallback behavior exactly.
func capableDepots(inst *instance.Instance, depots []int, specialization string) []int {
	if specialization == "" {
		return depots
	}
	var capable []int
	for _, d := range depots {
		for _, s := range inst.Locations[d].Specializations {
			if s == specialization {
				capable = append(capable, d)
				break
			}
		}
	}
	if len(capable) == 0 {
		return depots
	}
	return capable
}

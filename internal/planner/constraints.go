package planner

import (
	"fmt"

	"railopt/internal/cpsat"
	"railopt/internal/instance"
	"railopt/internal/shiftgrid"
)

// AssembleConstraints emits constraints C1 through C12 block by block, in
// the fixed block order below. Each block is labeled with the constraint
// it implements. Blocks that range over Go maps (routes by shift, a
// maintenance instance's active shifts, per-depot demand) emit their
// constraints and auxiliary variables in map iteration order, so the
// order of constraints and of variable ids is not the same from one build
// of an instance to the next; the set of constraints is.
func AssembleConstraints(inst *instance.Instance, idx *instance.Index, grid *shiftgrid.Grid, vars *Variables, m *cpsat.Model) {
	routesByDayShift := routesByShift(inst, idx, grid)

	addC1RouteCoverage(inst, vars, m)
	addC2VehicleUniqueness(inst, routesByDayShift, vars, m)
	addC12ActivityExclusivity(inst, routesByDayShift, vars, m)
	addC3InitialLocation(inst, idx, vars, m)
	addC4LocationTransitions(inst, idx, grid, routesByDayShift, vars, m)
	addC5Capacity(inst, idx, grid, vars, m)
	addC6KMAccumulation(inst, routesByDayShift, vars, m)
	addMaintenanceLinkConstraints(inst, vars, m) // km_at_maint_start link, C7/C8 km limits, C8 location-continuity-during-maintenance, C8 part1 depot-at-start
	addC8ForceCorrective(inst, vars, m)
	addC9C11RoutingToDepot(inst, idx, grid, routesByDayShift, vars, m)
	addC9C10ManhourCapacity(inst, idx, grid, vars, m)
}

func routesByShift(inst *instance.Instance, idx *instance.Index, grid *shiftgrid.Grid) map[int][]int {
	out := make(map[int][]int)
	for rIdx, r := range inst.Routes {
		s := grid.DayShiftIndex(r.Day)
		out[s] = append(out[s], rIdx)
	}
	return out
}

// C1: every route is covered by exactly one vehicle.
func addC1RouteCoverage(inst *instance.Instance, vars *Variables, m *cpsat.Model) {
	for rIdx, r := range inst.Routes {
		c := m.NewConstraint(cpsat.EQ, 1, "route_coverage_"+r.ID)
		for vIdx := range inst.Vehicles {
			c.AddTerm(1, vars.Assign[assignKey{vIdx, rIdx}])
		}
	}
}

// C2: a vehicle runs at most one route per shift.
func addC2VehicleUniqueness(inst *instance.Instance, routesByDayShift map[int][]int, vars *Variables, m *cpsat.Model) {
	for shiftIdx, routeIdxs := range routesByDayShift {
		if len(routeIdxs) == 0 {
			continue
		}
		for vIdx, veh := range inst.Vehicles {
			c := m.NewConstraint(cpsat.LE, 1, fmt.Sprintf("vehicle_uniqueness_%s_%d", veh.ID, shiftIdx))
			for _, rIdx := range routeIdxs {
				c.AddTerm(1, vars.Assign[assignKey{vIdx, rIdx}])
			}
		}
	}
}

// C12: a vehicle cannot run a route during a shift it is under maintenance.
func addC12ActivityExclusivity(inst *instance.Instance, routesByDayShift map[int][]int, vars *Variables, m *cpsat.Model) {
	for shiftIdx, routeIdxs := range routesByDayShift {
		if len(routeIdxs) == 0 {
			continue
		}
		for vIdx, veh := range inst.Vehicles {
			var routeLits []cpsat.Literal
			for _, rIdx := range routeIdxs {
				routeLits = append(routeLits, vars.Assign[assignKey{vIdx, rIdx}].Lit())
			}
			for _, mi := range vars.Instances {
				if mi.VehicleIdx != vIdx {
					continue
				}
				activeLit, ok := vars.ActiveShift[mi.ID][shiftIdx]
				if !ok {
					continue
				}
				for _, rl := range routeLits {
					m.AddBoolOr(fmt.Sprintf("exclusivity_%s_%s_%d", veh.ID, mi.ID, shiftIdx), rl.Negate(), activeLit.Not())
				}
			}
		}
	}
}

// C3: pin every vehicle's location at the initial pseudo-shift.
func addC3InitialLocation(inst *instance.Instance, idx *instance.Index, vars *Variables, m *cpsat.Model) {
	for vIdx, veh := range inst.Vehicles {
		_, locPos, _ := idx.Location(veh.InitialLocation)
		m.NewConstraint(cpsat.EQ, float64(locPos), "initial_loc_"+veh.ID).
			AddTerm(1, vars.LocStart[vIdx][0])
	}
}

// C4: location continuity across shifts — the initial-to-day-1,
// route-assigned, idle, maintenance-active, and day/night-rollover cases.
func addC4LocationTransitions(inst *instance.Instance, idx *instance.Index, grid *shiftgrid.Grid, routesByDayShift map[int][]int, vars *Variables, m *cpsat.Model) {
	// No route or maintenance happens at the initial pseudo-shift, so every
	// vehicle starts day 1 where C3 pinned it.
	if first, ok := grid.Next(0); ok {
		for vIdx, veh := range inst.Vehicles {
			m.NewConstraint(cpsat.EQ, 0, "initial_stay_"+veh.ID).
				AddTerm(1, vars.LocStart[vIdx][first]).AddTerm(-1, vars.LocStart[vIdx][0])
		}
	}

	for _, curr := range grid.Real() {
		shift := grid.At(curr)
		next, hasNext := grid.Next(curr)
		routeIdxs := routesByDayShift[curr]

		for vIdx, veh := range inst.Vehicles {
			maintActiveInShift := false

			for _, rIdx := range routeIdxs {
				route := inst.Routes[rIdx]
				lit := vars.Assign[assignKey{vIdx, rIdx}].Lit()
				_, startPos, _ := idx.Location(route.StartLocation)
				_, endPos, _ := idx.Location(route.EndLocation)

				m.NewConstraint(cpsat.EQ, float64(startPos), fmt.Sprintf("route_start_loc_%s_%s", veh.ID, route.ID)).
					AddTerm(1, vars.LocStart[vIdx][curr]).OnlyEnforceIf(lit)
				if hasNext {
					m.NewConstraint(cpsat.EQ, float64(endPos), fmt.Sprintf("route_end_loc_%s_%s", veh.ID, route.ID)).
						AddTerm(1, vars.LocStart[vIdx][next]).OnlyEnforceIf(lit)
				}
			}

			for _, mi := range vars.Instances {
				if mi.VehicleIdx != vIdx {
					continue
				}
				activeLit, ok := vars.ActiveShift[mi.ID][curr]
				if !ok {
					continue
				}
				maintActiveInShift = true
				if hasNext {
					m.NewConstraint(cpsat.EQ, 0, fmt.Sprintf("maint_stay_%s_%d", mi.ID, curr)).
						AddTerm(1, vars.LocStart[vIdx][next]).AddTerm(-1, vars.LocStart[vIdx][curr]).
						OnlyEnforceIf(activeLit.Lit())
				}
			}

			if len(routeIdxs) > 0 {
				idleVar := m.NewBoolVar(fmt.Sprintf("idle_%s_%d", veh.ID, curr))
				vars.Idle[idleKey{vIdx, curr}] = idleVar

				zero := m.NewConstraint(cpsat.EQ, 0, fmt.Sprintf("idle_zero_%s_%d", veh.ID, curr))
				nonzero := m.NewConstraint(cpsat.GE, 1, fmt.Sprintf("idle_nonzero_%s_%d", veh.ID, curr))
				for _, rIdx := range routeIdxs {
					v := vars.Assign[assignKey{vIdx, rIdx}]
					zero.AddTerm(1, v)
					nonzero.AddTerm(1, v)
				}
				zero.OnlyEnforceIf(idleVar.Lit())
				nonzero.OnlyEnforceIf(idleVar.Not())

				if hasNext && !maintActiveInShift {
					m.NewConstraint(cpsat.EQ, 0, fmt.Sprintf("idle_stay_%s_%d", veh.ID, curr)).
						AddTerm(1, vars.LocStart[vIdx][next]).AddTerm(-1, vars.LocStart[vIdx][curr]).
						OnlyEnforceIf(idleVar.Lit())
				}
			}

			// Night shift: location carries unchanged into the next (day)
			// shift unconditionally.
			if shift.IsNight && hasNext {
				m.NewConstraint(cpsat.EQ, 0, fmt.Sprintf("night_stay_%s_%d", veh.ID, curr)).
					AddTerm(1, vars.LocStart[vIdx][next]).AddTerm(-1, vars.LocStart[vIdx][curr])
			}

			// Day shift rolling into night: if the vehicle ran a route
			// that day, its night-shift location is the route's end
			// location; otherwise, if not under maintenance, it stays put.
			if !shift.IsNight && hasNext && grid.At(next).IsNight {
				assignedToRoute := false
				for _, rIdx := range routeIdxs {
					route := inst.Routes[rIdx]
					lit := vars.Assign[assignKey{vIdx, rIdx}].Lit()
					_, endPos, _ := idx.Location(route.EndLocation)
					m.NewConstraint(cpsat.EQ, float64(endPos), fmt.Sprintf("day_to_night_%s_%s", veh.ID, route.ID)).
						AddTerm(1, vars.LocStart[vIdx][next]).OnlyEnforceIf(lit)
					assignedToRoute = true
				}
				if !assignedToRoute && !maintActiveInShift {
					m.NewConstraint(cpsat.EQ, 0, fmt.Sprintf("day_to_night_stay_%s_%d", veh.ID, curr)).
						AddTerm(1, vars.LocStart[vIdx][next]).AddTerm(-1, vars.LocStart[vIdx][curr])
				}
			}
		}
	}
}

// C5: at every shift, the number of vehicles at a location cannot exceed
// its capacity.
func addC5Capacity(inst *instance.Instance, idx *instance.Index, grid *shiftgrid.Grid, vars *Variables, m *cpsat.Model) {
	for s := 0; s < grid.Len(); s++ {
		for lIdx, loc := range inst.Locations {
			atLoc := m.NewConstraint(cpsat.LE, float64(loc.Capacity), fmt.Sprintf("capacity_%s_%d", loc.ID, s))
			for vIdx, veh := range inst.Vehicles {
				name := fmt.Sprintf("is_at_loc_%s_%s_%d", veh.ID, loc.ID, s)
				isAtLoc := m.NewBoolVar(name)
				m.NewConstraint(cpsat.EQ, float64(lIdx), name+"_eq").
					AddTerm(1, vars.LocStart[vIdx][s]).OnlyEnforceIf(isAtLoc.Lit())
				addNotEqual(m, name+"_neq", vars.LocStart[vIdx][s], int64(lIdx), isAtLoc.Not())
				atLoc.AddTerm(1, isAtLoc)
			}
		}
	}
}

// C6: accumulate kilometers shift over shift, based on route assignment.
func addC6KMAccumulation(inst *instance.Instance, routesByDayShift map[int][]int, vars *Variables, m *cpsat.Model) {
	for vIdx, veh := range inst.Vehicles {
		m.NewConstraint(cpsat.EQ, float64(veh.InitialKM), "initial_km_"+veh.ID).
			AddTerm(1, vars.KMStart[vIdx][0])
	}

	// km_at_shift_start[next] == km_at_shift_start[curr] + sum(route terms)
	for s, routeIdxs := range routesByDayShift {
		for vIdx, veh := range inst.Vehicles {
			next := s + 1
			if next >= len(vars.KMStart[vIdx]) {
				continue
			}
			if len(routeIdxs) == 0 {
				continue
			}
			c := m.NewConstraint(cpsat.EQ, 0, fmt.Sprintf("km_update_%s_%d", veh.ID, s))
			c.AddTerm(1, vars.KMStart[vIdx][next]).AddTerm(-1, vars.KMStart[vIdx][s])
			for _, rIdx := range routeIdxs {
				route := inst.Routes[rIdx]
				lit := vars.Assign[assignKey{vIdx, rIdx}].Lit()
				term := m.NewIntVar(0, int64(route.DistanceKM), fmt.Sprintf("route_km_term_%s_%s", veh.ID, route.ID))
				m.NewConstraint(cpsat.EQ, float64(route.DistanceKM), "route_km_on_"+route.ID+"_"+veh.ID).
					AddTerm(1, term).OnlyEnforceIf(lit)
				m.NewConstraint(cpsat.EQ, 0, "route_km_off_"+route.ID+"_"+veh.ID).
					AddTerm(1, term).OnlyEnforceIf(lit.Negate())
				c.AddTerm(-1, term)
			}
		}
	}
	// Shifts with no routes: km carries over unchanged.
	for vIdx := range inst.Vehicles {
		for s := 0; s < len(vars.KMStart[vIdx])-1; s++ {
			if _, ok := routesByDayShift[s]; ok && len(routesByDayShift[s]) > 0 {
				continue
			}
			m.NewConstraint(cpsat.EQ, 0, fmt.Sprintf("km_carry_%d_%d", vIdx, s)).
				AddTerm(1, vars.KMStart[vIdx][s+1]).AddTerm(-1, vars.KMStart[vIdx][s])
		}
	}
}

// addMaintenanceLinkConstraints ties each maintenance instance's
// supporting variables together: km_at_maint_start, the preventive max-km
// and deviation linearization, the corrective max-km window, the
// maint_active_s <-> maint_performed link and its location-continuity
// effect, and the C8-part-1 depot-at-start requirement.
func addMaintenanceLinkConstraints(inst *instance.Instance, vars *Variables, m *cpsat.Model) {
	for _, mi := range vars.Instances {
		veh := inst.Vehicles[mi.VehicleIdx]
		mt := inst.MaintenanceTypes[mi.MaintIdx]
		performed := vars.Performed[mi.ID].Lit()

		// km_at_maint_start == km_at_shift_start[start]
		m.NewConstraint(cpsat.EQ, 0, "km_at_maint_link_"+mi.ID).
			AddTerm(1, vars.KMAtMaintStart[mi.ID]).AddTerm(-1, vars.KMStart[mi.VehicleIdx][mi.StartShift]).
			OnlyEnforceIf(performed)

		switch mt.Category {
		case instance.Preventive:
			m.NewConstraint(cpsat.LE, float64(mt.MaxKM), "max_km_"+mi.ID).
				AddTerm(1, vars.KMAtMaintStart[mi.ID]).OnlyEnforceIf(performed)

			maxPossible := float64(maxPossibleKM(inst))
			posDiff := m.NewIntVar(0, int64(maxPossible), "pos_diff_"+mi.ID)
			negDiff := m.NewIntVar(0, int64(maxPossible), "neg_diff_"+mi.ID)
			deviation := vars.Deviation[mi.ID]

			m.NewConstraint(cpsat.EQ, float64(mt.OptimalKM), "split_diff_"+mi.ID).
				AddTerm(1, vars.KMAtMaintStart[mi.ID]).AddTerm(-1, posDiff).AddTerm(1, negDiff).
				OnlyEnforceIf(performed)
			m.NewConstraint(cpsat.EQ, 0, "deviation_sum_"+mi.ID).
				AddTerm(1, deviation).AddTerm(-1, posDiff).AddTerm(-1, negDiff).
				OnlyEnforceIf(performed)
			m.NewConstraint(cpsat.EQ, 0, "deviation_zero_"+mi.ID).
				AddTerm(1, deviation).OnlyEnforceIf(performed.Negate())

		case instance.Corrective:
			for _, pt := range veh.PendingCorrectiveTasks {
				if pt.MaintenanceTypeID != mt.ID {
					continue
				}
				maxKM := veh.InitialKM + pt.RemainingKM
				m.NewConstraint(cpsat.LE, float64(maxKM), "corrective_max_km_"+mi.ID).
					AddTerm(1, vars.KMAtMaintStart[mi.ID]).OnlyEnforceIf(performed)
				break
			}
		}

		// maint_active_s <-> maint_performed, and location continuity
		// while active, for every shift the instance can occupy.
		for s, activeVar := range vars.ActiveShift[mi.ID] {
			m.NewConstraint(cpsat.EQ, 1, fmt.Sprintf("active_link_%s_%d", mi.ID, s)).
				AddTerm(1, activeVar).OnlyEnforceIf(performed)
			m.NewConstraint(cpsat.EQ, 0, fmt.Sprintf("active_off_%s_%d", mi.ID, s)).
				AddTerm(1, activeVar).OnlyEnforceIf(performed.Negate())
		}

		// Depot-at-start (C8 part 1): if performed, the vehicle is at the
		// assigned depot at the start of the maintenance window.
		m.NewConstraint(cpsat.EQ, 0, "depot_at_start_"+mi.ID).
			AddTerm(1, vars.LocStart[mi.VehicleIdx][mi.StartShift]).AddTerm(-1, vars.AssignedDepot[mi.ID]).
			OnlyEnforceIf(performed)
	}
}

// C8: force at least one instance of every pending corrective task to be
// performed. Preventive backlog is advisory (it only drives the
// objective's deviation term), so only corrective tasks are forced here.
func addC8ForceCorrective(inst *instance.Instance, vars *Variables, m *cpsat.Model) {
	for vIdx, veh := range inst.Vehicles {
		for _, pt := range veh.PendingCorrectiveTasks {
			c := m.NewConstraint(cpsat.GE, 1, fmt.Sprintf("force_corrective_%s_%s", veh.ID, pt.MaintenanceTypeID))
			for _, mi := range vars.Instances {
				if mi.VehicleIdx == vIdx && inst.MaintenanceTypes[mi.MaintIdx].ID == pt.MaintenanceTypeID {
					c.AddTerm(1, vars.Performed[mi.ID])
				}
			}
		}
	}
}

// C9/C11: the route immediately preceding a performed maintenance must end
// at the maintenance's assigned depot.
func addC9C11RoutingToDepot(inst *instance.Instance, idx *instance.Index, grid *shiftgrid.Grid, routesByDayShift map[int][]int, vars *Variables, m *cpsat.Model) {
	for _, mi := range vars.Instances {
		if mi.StartShift <= 1 {
			continue
		}
		prev := mi.StartShift - 1
		prevShift := grid.At(prev)
		if prevShift.IsNight {
			continue
		}
		for _, rIdx := range routesByDayShift[prev] {
			route := inst.Routes[rIdx]
			routeLit := vars.Assign[assignKey{mi.VehicleIdx, rIdx}].Lit()
			performedLit := vars.Performed[mi.ID].Lit()

			combined := m.NewBoolVar(fmt.Sprintf("combined_%d_%s_%s", mi.VehicleIdx, route.ID, mi.ID))
			m.NewConstraint(cpsat.EQ, 2, "combined_and_"+combined.Name()).
				AddTerm(1, routeLit.V).AddTerm(1, performedLit.V).OnlyEnforceIf(combined.Lit())
			m.AddBoolOr("combined_or_"+combined.Name(), routeLit.Negate(), performedLit.Negate()).OnlyEnforceIf(combined.Not())

			_, endPos, _ := idx.Location(route.EndLocation)
			m.NewConstraint(cpsat.EQ, float64(endPos), "route_end_matches_depot_"+combined.Name()).
				AddTerm(1, vars.AssignedDepot[mi.ID]).OnlyEnforceIf(combined.Lit())
		}
	}
}

// C9/C10: per depot, per shift, total manhour demand cannot exceed the
// depot's manhours_per_shift budget.
func addC9C10ManhourCapacity(inst *instance.Instance, idx *instance.Index, grid *shiftgrid.Grid, vars *Variables, m *cpsat.Model) {
	depotDemand := make(map[int]map[int][]cpsat.Var) // depot loc idx -> shift idx -> demand vars

	for _, mi := range vars.Instances {
		manhoursPerShift := int64(mi.RequiredManhours) / int64(mi.EstDuration)

		for _, depotLIdx := range idx.Depots() {
			isAtDepot := m.NewBoolVar(fmt.Sprintf("is_at_depot_%s_%d", mi.ID, depotLIdx))
			m.NewConstraint(cpsat.EQ, float64(depotLIdx), "is_at_depot_eq_"+isAtDepot.Name()).
				AddTerm(1, vars.AssignedDepot[mi.ID]).OnlyEnforceIf(isAtDepot.Lit())
			addNotEqual(m, "is_at_depot_neq_"+isAtDepot.Name(), vars.AssignedDepot[mi.ID], int64(depotLIdx), isAtDepot.Not())

			for s, activeVar := range vars.ActiveShift[mi.ID] {
				activeAtDepot := m.NewBoolVar(fmt.Sprintf("active_at_depot_%s_%d_%d", mi.ID, depotLIdx, s))
				m.NewConstraint(cpsat.EQ, 2, "active_at_depot_and_"+activeAtDepot.Name()).
					AddTerm(1, activeVar).AddTerm(1, isAtDepot).OnlyEnforceIf(activeAtDepot.Lit())
				m.AddBoolOr("active_at_depot_or_"+activeAtDepot.Name(), activeVar.Not(), isAtDepot.Not()).OnlyEnforceIf(activeAtDepot.Not())

				demand := m.NewIntVar(0, manhoursPerShift, fmt.Sprintf("manhour_demand_%s_%d_%d", mi.ID, depotLIdx, s))
				m.NewConstraint(cpsat.EQ, float64(manhoursPerShift), "demand_on_"+demand.Name()).
					AddTerm(1, demand).OnlyEnforceIf(activeAtDepot.Lit())
				m.NewConstraint(cpsat.EQ, 0, "demand_off_"+demand.Name()).
					AddTerm(1, demand).OnlyEnforceIf(activeAtDepot.Not())

				if depotDemand[depotLIdx] == nil {
					depotDemand[depotLIdx] = make(map[int][]cpsat.Var)
				}
				depotDemand[depotLIdx][s] = append(depotDemand[depotLIdx][s], demand)
			}
		}
	}

	for depotLIdx, byShift := range depotDemand {
		loc := inst.Locations[depotLIdx]
		for s, demands := range byShift {
			if len(demands) == 0 {
				continue
			}
			c := m.NewConstraint(cpsat.LE, float64(loc.ManhoursPerShift), fmt.Sprintf("manhour_capacity_%s_%d", loc.ID, s))
			for _, d := range demands {
				c.AddTerm(1, d)
			}
		}
	}
}

// addNotEqual encodes "x != value" as a disjunction (x <= value-1) OR (x
// >= value+1), using one free boolean to pick the branch, gated on
// enforceIf — the inequality CP-SAT expresses natively through domain
// propagation but a linear MIP formulation needs an explicit big-M split
// for.
func addNotEqual(m *cpsat.Model, name string, x cpsat.Var, value int64, enforceIf cpsat.Literal) {
	bigM := x.Hi() - x.Lo() + 1
	branch := m.NewBoolVar(name + "_branch")
	m.NewConstraint(cpsat.LE, float64(value-1)+float64(bigM), name+"_lt").
		AddTerm(1, x).AddTerm(float64(bigM), branch).OnlyEnforceIf(enforceIf)
	m.NewConstraint(cpsat.GE, float64(value+1), name+"_gt").
		AddTerm(1, x).AddTerm(float64(bigM), branch).OnlyEnforceIf(enforceIf)
}

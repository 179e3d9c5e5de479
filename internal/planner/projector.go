package planner

import (
	"fmt"
	"time"

	"railopt/internal/cpsat"
	"railopt/internal/instance"
	"railopt/internal/schedule"
	"railopt/internal/shiftgrid"
)

// Solution is the minimal view of a solved model the projector needs. Both
// internal/backend/mipsat.Solution and any other backend satisfy it, so
// the projector never imports a concrete backend package.
type Solution interface {
	StatusString() string
	Objective() (float64, bool)
	Elapsed() time.Duration
	Value(v cpsat.Var) float64
}

// BoolValue reports whether sol assigns v a truthy value.
func BoolValue(sol Solution, v cpsat.Var) bool { return sol.Value(v) >= 0.5 }

// IntValue rounds sol's value for v to the nearest integer.
func IntValue(sol Solution, v cpsat.Var) int64 {
	x := sol.Value(v)
	if x >= 0 {
		return int64(x + 0.5)
	}
	return int64(x - 0.5)
}

// Project turns a solved model back into a schedule.Result: per-vehicle
// route assignments, maintenance activities, and per-shift states,
// mirroring the original optimizer's result-extraction logic exactly
// (including deriving is_idle/is_under_maintenance from schedule overlap
// rather than carrying them as separate decision variables).
func Project(inst *instance.Instance, idx *instance.Index, grid *shiftgrid.Grid, vars *Variables, sol Solution) *schedule.Result {
	info := schedule.OptimizationInfo{
		Status:      sol.StatusString(),
		WallTimeSec: sol.Elapsed().Seconds(),
	}
	if obj, ok := sol.Objective(); ok {
		v := obj
		info.ObjectiveValue = &v
	}

	result := &schedule.Result{
		OptimizationInfo: info,
		Vehicles:         make(map[string]schedule.VehicleResult, len(inst.Vehicles)),
	}

	for vIdx, veh := range inst.Vehicles {
		vr := schedule.VehicleResult{
			InitialState: schedule.InitialState{
				Location: veh.InitialLocation,
				KM:       veh.InitialKM,
			},
			RouteAssignments: make(map[string]*schedule.RouteAssignment),
			States:           make(map[string]schedule.VehicleState),
		}

		for rIdx, route := range inst.Routes {
			if !BoolValue(sol, vars.Assign[assignKey{vIdx, rIdx}]) {
				continue
			}
			key := shiftKey(route.Day, false)
			vr.RouteAssignments[key] = &schedule.RouteAssignment{
				RouteID:       route.ID,
				StartLocation: route.StartLocation,
				EndLocation:   route.EndLocation,
				DistanceKM:    route.DistanceKM,
			}
		}

		for _, mi := range vars.Instances {
			if mi.VehicleIdx != vIdx {
				continue
			}
			if !BoolValue(sol, vars.Performed[mi.ID]) {
				continue
			}
			mt := inst.MaintenanceTypes[mi.MaintIdx]
			depotPos := int(IntValue(sol, vars.AssignedDepot[mi.ID]))
			depotID := inst.Locations[depotPos].ID

			endShift := mi.StartShift + mi.EstDuration
			if endShift > grid.Len() {
				endShift = grid.Len()
			}
			endShift-- // last occupied shift, not the first free one

			startSh := grid.At(mi.StartShift)
			endSh := grid.At(endShift)

			vr.MaintenanceActivities = append(vr.MaintenanceActivities, schedule.MaintenanceActivity{
				MaintenanceID:    mi.ID,
				MaintenanceType:  string(mt.Category),
				StartDay:         startSh.Day,
				StartShift:       shiftLabel(startSh),
				EndDay:           endSh.Day,
				EndShift:         shiftLabel(endSh),
				Depot:            depotID,
				KMAtStart:        int(IntValue(sol, vars.KMAtMaintStart[mi.ID])),
				RequiredManhours: mi.RequiredManhours,
			})
		}

		for s := 1; s < grid.Len(); s++ {
			shift := grid.At(s)
			locPos := int(IntValue(sol, vars.LocStart[vIdx][s]))
			km := int(IntValue(sol, vars.KMStart[vIdx][s]))

			key := shiftKey(shift.Day, shift.IsNight)
			_, isRouted := vr.RouteAssignments[key]
			isUnderMaintenance := false
			for _, ma := range vr.MaintenanceActivities {
				if shiftWithinRange(shift, ma) {
					isUnderMaintenance = true
					break
				}
			}

			vr.States[key] = schedule.VehicleState{
				Location:           inst.Locations[locPos].ID,
				KM:                 km,
				IsIdle:             !isRouted && !isUnderMaintenance,
				IsUnderMaintenance: isUnderMaintenance,
			}
		}

		result.Vehicles[veh.ID] = vr
	}

	return result
}

func shiftKey(day int, isNight bool) string {
	if isNight {
		return fmt.Sprintf("%d_night", day)
	}
	return fmt.Sprintf("%d_day", day)
}

func shiftLabel(s shiftgrid.Shift) string {
	if s.IsNight {
		return "night"
	}
	return "day"
}

// shiftWithinRange reports whether shift falls within a maintenance
// activity's [start, end] day/shift span, comparing on the same
// (day, night-after-day) ordering the grid itself uses.
func shiftWithinRange(shift shiftgrid.Shift, ma schedule.MaintenanceActivity) bool {
	ord := func(day int, label string) int {
		n := day * 2
		if label == "night" {
			n++
		}
		return n
	}
	cur := ord(shift.Day, shiftLabel(shift))
	start := ord(ma.StartDay, ma.StartShift)
	end := ord(ma.EndDay, ma.EndShift)
	return cur >= start && cur <= end
}

package instance

import (
	"fmt"

	"go.uber.org/multierr"

	"railopt/internal/railerr"
)

// Validate checks every structural invariant an Instance must satisfy
// before it can be handed to the planner. Every violation found is
// collected and returned together, rather than stopping at the first, so
// a caller fixing a generated or hand-written instance sees the whole
// picture in one pass.
func Validate(inst *Instance) error {
	var errs error

	if inst.PlanningDays <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("planning_days must be positive, got %d", inst.PlanningDays))
	}

	locIDs := make(map[string]bool, len(inst.Locations))
	for _, l := range inst.Locations {
		if l.ID == "" {
			errs = multierr.Append(errs, fmt.Errorf("location has empty id"))
			continue
		}
		if locIDs[l.ID] {
			errs = multierr.Append(errs, fmt.Errorf("duplicate location id %q", l.ID))
		}
		locIDs[l.ID] = true
		if l.Kind != Depot && l.Kind != Parking {
			errs = multierr.Append(errs, fmt.Errorf("location %q: unknown type %q", l.ID, l.Kind))
		}
		if l.Capacity <= 0 {
			errs = multierr.Append(errs, fmt.Errorf("location %q: capacity must be positive", l.ID))
		}
		if l.Kind == Depot && l.ManhoursPerShift <= 0 {
			errs = multierr.Append(errs, fmt.Errorf("depot %q: manhours_per_shift must be positive", l.ID))
		}
	}

	maintIDs := make(map[string]bool, len(inst.MaintenanceTypes))
	for _, m := range inst.MaintenanceTypes {
		if m.ID == "" {
			errs = multierr.Append(errs, fmt.Errorf("maintenance type has empty id"))
			continue
		}
		if maintIDs[m.ID] {
			errs = multierr.Append(errs, fmt.Errorf("duplicate maintenance type id %q", m.ID))
		}
		maintIDs[m.ID] = true
		if m.Category != Preventive && m.Category != Corrective {
			errs = multierr.Append(errs, fmt.Errorf("maintenance type %q: unknown category %q", m.ID, m.Category))
		}
		if m.Manhours <= 0 {
			errs = multierr.Append(errs, fmt.Errorf("maintenance type %q: manhours must be positive", m.ID))
		}
		if m.Specialization != "" && !anyDepotCapable(inst, m.Specialization) {
			errs = multierr.Append(errs, fmt.Errorf("maintenance type %q: no depot declares specialization %q", m.ID, m.Specialization))
		}
		switch m.Category {
		case Preventive:
			if m.OptimalKM <= 0 || m.MaxKM <= 0 {
				errs = multierr.Append(errs, fmt.Errorf("preventive maintenance type %q: optimal_km and max_km must be positive", m.ID))
			} else if m.MaxKM < m.OptimalKM {
				errs = multierr.Append(errs, fmt.Errorf("preventive maintenance type %q: max_km (%d) must be >= optimal_km (%d)", m.ID, m.MaxKM, m.OptimalKM))
			}
		case Corrective:
			if m.MaxKMWindow <= 0 {
				errs = multierr.Append(errs, fmt.Errorf("corrective maintenance type %q: max_km_window must be positive", m.ID))
			}
		}
	}

	vehicleIDs := make(map[string]bool, len(inst.Vehicles))
	for _, v := range inst.Vehicles {
		if v.ID == "" {
			errs = multierr.Append(errs, fmt.Errorf("vehicle has empty id"))
			continue
		}
		if vehicleIDs[v.ID] {
			errs = multierr.Append(errs, fmt.Errorf("duplicate vehicle id %q", v.ID))
		}
		vehicleIDs[v.ID] = true
		if v.InitialKM < 0 {
			errs = multierr.Append(errs, fmt.Errorf("vehicle %q: initial_km must be non-negative", v.ID))
		}
		if !locIDs[v.InitialLocation] {
			errs = multierr.Append(errs, fmt.Errorf("vehicle %q: initial_location %q is not a known location", v.ID, v.InitialLocation))
		} else if l, _, _ := findLocation(inst, v.InitialLocation); !l.IsDepot() {
			errs = multierr.Append(errs, fmt.Errorf("vehicle %q: initial_location %q must be a depot", v.ID, v.InitialLocation))
		}
		for _, t := range v.PendingTasks() {
			if !maintIDs[t.MaintenanceTypeID] {
				errs = multierr.Append(errs, fmt.Errorf("vehicle %q: pending task references unknown maintenance type %q", v.ID, t.MaintenanceTypeID))
			}
			if t.RemainingKM < 0 {
				errs = multierr.Append(errs, fmt.Errorf("vehicle %q: pending task remaining_km must be non-negative", v.ID))
			}
		}
	}

	routeIDs := make(map[string]bool, len(inst.Routes))
	for _, r := range inst.Routes {
		if r.ID == "" {
			errs = multierr.Append(errs, fmt.Errorf("route has empty id"))
			continue
		}
		if routeIDs[r.ID] {
			errs = multierr.Append(errs, fmt.Errorf("duplicate route id %q", r.ID))
		}
		routeIDs[r.ID] = true
		if r.Day < 1 || r.Day > inst.PlanningDays {
			errs = multierr.Append(errs, fmt.Errorf("route %q: day %d out of range [1,%d]", r.ID, r.Day, inst.PlanningDays))
		}
		if r.DistanceKM <= 0 {
			errs = multierr.Append(errs, fmt.Errorf("route %q: distance_km must be positive", r.ID))
		}
		startLoc, _, startOK := findLocation(inst, r.StartLocation)
		endLoc, _, endOK := findLocation(inst, r.EndLocation)
		if !startOK {
			errs = multierr.Append(errs, fmt.Errorf("route %q: start_location %q is not a known location", r.ID, r.StartLocation))
		} else if !startLoc.IsDepot() {
			errs = multierr.Append(errs, fmt.Errorf("route %q: start_location %q must be a depot", r.ID, r.StartLocation))
		}
		if !endOK {
			errs = multierr.Append(errs, fmt.Errorf("route %q: end_location %q is not a known location", r.ID, r.EndLocation))
		} else if !endLoc.IsDepot() {
			errs = multierr.Append(errs, fmt.Errorf("route %q: end_location %q must be a depot", r.ID, r.EndLocation))
		}
	}

	if len(inst.Vehicles) == 0 {
		errs = multierr.Append(errs, fmt.Errorf("instance must have at least one vehicle"))
	}
	if countDepots(inst) < 2 {
		errs = multierr.Append(errs, fmt.Errorf("instance must have at least 2 depots"))
	}

	if errs != nil {
		return railerr.Wrap(railerr.InstanceInvalid, "validate instance", errs)
	}
	return nil
}

func findLocation(inst *Instance, id string) (Location, int, bool) {
	for i, l := range inst.Locations {
		if l.ID == id {
			return l, i, true
		}
	}
	return Location{}, -1, false
}

// countDepots reports how many locations in inst are depots. The route
// generator contract requires at least 2: every route starts and ends at
// a depot, and a vehicle must be able to reach a different depot.
func countDepots(inst *Instance) int {
	n := 0
	for _, l := range inst.Locations {
		if l.IsDepot() {
			n++
		}
	}
	return n
}

func anyDepotCapable(inst *Instance, specialization string) bool {
	for _, l := range inst.Locations {
		if !l.IsDepot() {
			continue
		}
		for _, s := range l.Specializations {
			if s == specialization {
				return true
			}
		}
	}
	return false
}

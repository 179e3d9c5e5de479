// Package generator produces synthetic planning instances for testing and
// demonstration, following the same ranges and shapes as the reference
// data generator this model's instance format was distilled from.
package generator

import (
	"fmt"
	"math/rand"

	"railopt/internal/instance"
)

// Options configures one synthetic instance.
type Options struct {
	Vehicles     int
	Depots       int
	Parkings     int
	RoutesPerDay int
	PlanningDays int
	Seed         int64
}

var specializations = []string{"electrical", "mechanical", "hydraulic", "pneumatic", "structural"}

// Generate builds a random instance.Instance under opts. The result
// validates whenever opts asks for at least 2 depots, 1 vehicle and 1
// planning day; capacities and manhour budgets come from the same ranges
// the reference generator uses.
func Generate(opts Options) *instance.Instance {
	rng := rand.New(rand.NewSource(opts.Seed))

	locations := generateLocations(rng, opts.Depots, opts.Parkings)
	maintTypes := generateMaintenanceTypes(rng, locations)
	vehicles := generateVehicles(rng, opts.Vehicles, locations, maintTypes)
	routes := generateRoutes(rng, opts.RoutesPerDay, opts.PlanningDays, locations)

	return &instance.Instance{
		PlanningDays:     opts.PlanningDays,
		Locations:        locations,
		MaintenanceTypes: maintTypes,
		Vehicles:         vehicles,
		Routes:           routes,
	}
}

func generateLocations(rng *rand.Rand, numDepots, numParkings int) []instance.Location {
	locations := make([]instance.Location, 0, numDepots+numParkings)

	for i := 0; i < numDepots; i++ {
		n := 1 + rng.Intn(3) // 1-3 specializations per depot
		perm := rng.Perm(len(specializations))[:n]
		specs := make([]string, n)
		for j, p := range perm {
			specs[j] = specializations[p]
		}
		locations = append(locations, instance.Location{
			ID:               fmt.Sprintf("depot_%d", i+1),
			Kind:             instance.Depot,
			Capacity:         10 + rng.Intn(6),  // [10,15]
			ManhoursPerShift: 40 + rng.Intn(61), // [40,100]
			Specializations:  specs,
		})
	}

	for i := 0; i < numParkings; i++ {
		locations = append(locations, instance.Location{
			ID:       fmt.Sprintf("parking_%d", i+1),
			Kind:     instance.Parking,
			Capacity: 10 + rng.Intn(11), // [10,20]
		})
	}

	return locations
}

func generateMaintenanceTypes(rng *rand.Rand, locations []instance.Location) []instance.MaintenanceType {
	all := allSpecializations(locations)

	var out []instance.MaintenanceType
	for i := 0; i < 5; i++ {
		optimalKM := 5000 + rng.Intn(15001) // [5000,20000]
		out = append(out, instance.MaintenanceType{
			ID:             fmt.Sprintf("preventive_%d", i+1),
			Category:       instance.Preventive,
			OptimalKM:      optimalKM,
			MaxKM:          optimalKM + 1000 + rng.Intn(2001), // optimal + [1000,3000]
			Manhours:       4 + rng.Intn(21),                  // [4,24]
			Specialization: maybeSpecialization(rng, all, 0.7),
		})
	}
	for i := 0; i < 5; i++ {
		out = append(out, instance.MaintenanceType{
			ID:             fmt.Sprintf("corrective_%d", i+1),
			Category:       instance.Corrective,
			MaxKMWindow:    300 + rng.Intn(701), // [300,1000]
			Manhours:       2 + rng.Intn(15),    // [2,16]
			Specialization: maybeSpecialization(rng, all, 0.5),
			SafetyCritical: rng.Float64() < 0.3,
		})
	}
	return out
}

func allSpecializations(locations []instance.Location) []string {
	seen := make(map[string]bool)
	var out []string
	for _, l := range locations {
		if !l.IsDepot() {
			continue
		}
		for _, s := range l.Specializations {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

func maybeSpecialization(rng *rand.Rand, all []string, chance float64) string {
	if len(all) == 0 || rng.Float64() >= chance {
		return ""
	}
	return all[rng.Intn(len(all))]
}

func generateVehicles(rng *rand.Rand, numVehicles int, locations []instance.Location, maintTypes []instance.MaintenanceType) []instance.Vehicle {
	depotIDs := depotIDs(locations)
	var preventive, corrective []instance.MaintenanceType
	for _, mt := range maintTypes {
		switch mt.Category {
		case instance.Preventive:
			preventive = append(preventive, mt)
		case instance.Corrective:
			corrective = append(corrective, mt)
		}
	}

	vehicles := make([]instance.Vehicle, 0, numVehicles)
	for i := 0; i < numVehicles; i++ {
		initialLocation := depotIDs[rng.Intn(len(depotIDs))]
		initialKM := rng.Intn(25001) // [0,25000]

		var pendingCorrective, pendingPreventive []instance.PendingTask

		numCorrective := rng.Intn(3) // 0-2
		for j := 0; j < numCorrective; j++ {
			ct := corrective[rng.Intn(len(corrective))]
			remaining := 50 + rng.Intn(ct.MaxKMWindow-49)
			pendingCorrective = append(pendingCorrective, instance.PendingTask{
				MaintenanceTypeID: ct.ID,
				RemainingKM:       remaining,
			})
		}

		numPreventive := 1 + rng.Intn(3) // 1-3
		for j := 0; j < numPreventive; j++ {
			pt := preventive[rng.Intn(len(preventive))]
			remaining := pt.OptimalKM - initialKM
			if remaining <= 0 {
				remaining = 50 + rng.Intn(451) // [50,500]
			}
			pendingPreventive = append(pendingPreventive, instance.PendingTask{
				MaintenanceTypeID: pt.ID,
				RemainingKM:       remaining,
			})
		}

		vehicles = append(vehicles, instance.Vehicle{
			ID:                     fmt.Sprintf("vehicle_%d", i+1),
			InitialLocation:        initialLocation,
			InitialKM:              initialKM,
			PendingCorrectiveTasks: pendingCorrective,
			PendingPreventiveTasks: pendingPreventive,
		})
	}
	return vehicles
}

func generateRoutes(rng *rand.Rand, routesPerDay, planningDays int, locations []instance.Location) []instance.Route {
	depotIDs := depotIDs(locations)

	var routes []instance.Route
	for day := 1; day <= planningDays; day++ {
		for n := 0; n < routesPerDay; n++ {
			start := depotIDs[rng.Intn(len(depotIDs))]
			end := start
			for end == start {
				end = depotIDs[rng.Intn(len(depotIDs))]
			}
			routes = append(routes, instance.Route{
				ID:            fmt.Sprintf("route_day%d_%d", day, n+1),
				Day:           day,
				StartLocation: start,
				EndLocation:   end,
				DistanceKM:    50 + rng.Intn(251), // [50,300]
			})
		}
	}
	return routes
}

func depotIDs(locations []instance.Location) []string {
	var out []string
	for _, l := range locations {
		if l.IsDepot() {
			out = append(out, l.ID)
		}
	}
	return out
}

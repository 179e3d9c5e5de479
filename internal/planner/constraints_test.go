package planner_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"railopt/internal/instance"
	"railopt/internal/planner"
)

// forcedInstance is a minimal hand-built instance with one vehicle
// carrying both a pending corrective and a pending preventive task, so
// the C8 force-corrective constraint can be checked against each
// category independently.
func forcedInstance() *instance.Instance {
	return &instance.Instance{
		PlanningDays: 1,
		Locations: []instance.Location{
			{ID: "depot_1", Kind: instance.Depot, Capacity: 5, ManhoursPerShift: 40, Specializations: []string{"electrical"}},
			{ID: "depot_2", Kind: instance.Depot, Capacity: 5, ManhoursPerShift: 40, Specializations: []string{"electrical"}},
		},
		MaintenanceTypes: []instance.MaintenanceType{
			{ID: "preventive_1", Category: instance.Preventive, OptimalKM: 5000, MaxKM: 6000, Manhours: 8},
			{ID: "corrective_1", Category: instance.Corrective, MaxKMWindow: 500, Manhours: 4},
		},
		Vehicles: []instance.Vehicle{
			{
				ID:                     "vehicle_1",
				InitialLocation:        "depot_1",
				InitialKM:              1000,
				PendingCorrectiveTasks: []instance.PendingTask{{MaintenanceTypeID: "corrective_1", RemainingKM: 400}},
				PendingPreventiveTasks: []instance.PendingTask{{MaintenanceTypeID: "preventive_1", RemainingKM: 2000}},
			},
		},
		Routes: []instance.Route{
			{ID: "route_1", Day: 1, StartLocation: "depot_1", EndLocation: "depot_2", DistanceKM: 100},
		},
	}
}

func TestBuild_ForcesOnlyPendingCorrectiveTasks(t *testing.T) {
	inst := forcedInstance()
	built := planner.Build(inst)

	var forced []string
	for _, c := range built.Model.Constraints {
		if strings.HasPrefix(c.Name, "force_corrective_") {
			forced = append(forced, c.Name)
		}
	}

	assert.Equal(t, []string{"force_corrective_vehicle_1_corrective_1"}, forced,
		"only the pending corrective task should be force-performed, not the pending preventive one")
}

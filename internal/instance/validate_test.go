package instance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"railopt/internal/instance"
	"railopt/internal/railerr"
)

func baseInstance() *instance.Instance {
	return &instance.Instance{
		PlanningDays: 2,
		Locations: []instance.Location{
			{ID: "depot_1", Kind: instance.Depot, Capacity: 10, ManhoursPerShift: 40},
			{ID: "depot_2", Kind: instance.Depot, Capacity: 10, ManhoursPerShift: 40},
			{ID: "parking_1", Kind: instance.Parking, Capacity: 10},
		},
		MaintenanceTypes: []instance.MaintenanceType{
			{ID: "preventive_1", Category: instance.Preventive, OptimalKM: 5000, MaxKM: 6000, Manhours: 8},
			{ID: "corrective_1", Category: instance.Corrective, MaxKMWindow: 500, Manhours: 4},
		},
		Vehicles: []instance.Vehicle{
			{ID: "vehicle_1", InitialLocation: "depot_1", InitialKM: 1000},
		},
		Routes: []instance.Route{
			{ID: "route_1", Day: 1, StartLocation: "depot_1", EndLocation: "depot_1", DistanceKM: 100},
		},
	}
}

func TestValidate_AcceptsWellFormedInstance(t *testing.T) {
	inst := baseInstance()
	// route endpoints must be depots, and a route between the same depot
	// twice is structurally fine for validation purposes (coverage is a
	// planner concern), but exercise a distinct pair too.
	inst.Routes[0].EndLocation = "depot_2"

	require.NoError(t, instance.Validate(inst))
}

func TestValidate_RejectsDuplicateIDs(t *testing.T) {
	inst := baseInstance()
	inst.Locations = append(inst.Locations, instance.Location{ID: "depot_1", Kind: instance.Depot, Capacity: 5, ManhoursPerShift: 10})

	err := instance.Validate(inst)
	require.Error(t, err)
	assert.Equal(t, railerr.InstanceInvalid, railerr.CodeOf(err))
	assert.Contains(t, err.Error(), "duplicate location id")
}

func TestValidate_RejectsRouteEndpointNotADepot(t *testing.T) {
	inst := baseInstance()
	inst.Routes[0].EndLocation = "parking_1"

	err := instance.Validate(inst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be a depot")
}

func TestValidate_RejectsUnknownSpecialization(t *testing.T) {
	inst := baseInstance()
	inst.MaintenanceTypes[0].Specialization = "hydraulic"

	err := instance.Validate(inst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no depot declares specialization")
}

func TestValidate_RejectsPreventiveMaxKMBelowOptimal(t *testing.T) {
	inst := baseInstance()
	inst.MaintenanceTypes[0].MaxKM = 1000 // below OptimalKM of 5000

	err := instance.Validate(inst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be >= optimal_km")
}

func TestValidate_RejectsNoVehicles(t *testing.T) {
	inst := baseInstance()
	inst.Vehicles = nil

	err := instance.Validate(inst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one vehicle")
}

func TestValidate_RejectsNoDepot(t *testing.T) {
	inst := baseInstance()
	for i := range inst.Locations {
		inst.Locations[i].Kind = instance.Parking
		inst.Locations[i].ManhoursPerShift = 0
	}
	// the vehicle's initial_location and the route endpoints now
	// reference parkings, so those errors pile up too; we only assert on
	// the depot-count error.
	err := instance.Validate(inst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 2 depots")
}

func TestValidate_RejectsSingleDepot(t *testing.T) {
	inst := baseInstance()
	inst.Locations[1].Kind = instance.Parking
	inst.Locations[1].ManhoursPerShift = 0

	err := instance.Validate(inst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 2 depots")
}

func TestValidate_AggregatesMultipleErrors(t *testing.T) {
	inst := baseInstance()
	inst.PlanningDays = 0
	inst.Vehicles = nil

	err := instance.Validate(inst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "planning_days must be positive")
	assert.Contains(t, err.Error(), "at least one vehicle")
}

func TestLocation_Capable(t *testing.T) {
	general := instance.Location{ID: "d1", Kind: instance.Depot}
	specialized := instance.Location{ID: "d2", Kind: instance.Depot, Specializations: []string{"electrical"}}

	assert.True(t, general.Capable("electrical"))
	assert.True(t, general.Capable(""))
	assert.True(t, specialized.Capable("electrical"))
	assert.False(t, specialized.Capable("mechanical"))
}

func TestMaintenanceType_EstimatedDurationShifts(t *testing.T) {
	cases := []struct {
		manhours int
		want     int
	}{
		{manhours: 1, want: 1},
		{manhours: 8, want: 1},
		{manhours: 16, want: 2},
		{manhours: 100, want: instance.MaxMaintenanceDurationShifts},
	}
	for _, c := range cases {
		mt := instance.MaintenanceType{Manhours: c.manhours}
		assert.Equal(t, c.want, mt.EstimatedDurationShifts(), "manhours=%d", c.manhours)
	}
}

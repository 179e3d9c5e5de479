package instance_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"railopt/internal/instance"
	"railopt/internal/railerr"
)

const validInstanceJSON = `{
	"planning_days": 1,
	"locations": [
		{"id": "depot_1", "type": "depot", "capacity": 10, "manhours_per_shift": 40},
		{"id": "depot_2", "type": "depot", "capacity": 10, "manhours_per_shift": 40}
	],
	"maintenance_types": [
		{"id": "preventive_1", "type": "preventive", "optimal_km": 5000, "max_km": 6000, "manhours": 8}
	],
	"vehicles": [
		{"id": "vehicle_1", "initial_location": "depot_1", "initial_km": 0}
	],
	"routes": [
		{"id": "route_1", "day": 1, "start_location": "depot_1", "end_location": "depot_1", "distance_km": 100}
	]
}`

func TestLoadFromReader_ParsesAndValidates(t *testing.T) {
	inst, err := instance.LoadFromReader(strings.NewReader(validInstanceJSON))
	require.NoError(t, err)
	assert.Len(t, inst.Vehicles, 1)
	assert.Equal(t, "depot_1", inst.Locations[0].ID)
}

func TestLoadFromReader_AcceptsSplitPendingTaskFields(t *testing.T) {
	const doc = `{
		"planning_days": 1,
		"locations": [
			{"id": "depot_1", "type": "depot", "capacity": 10, "manhours_per_shift": 40},
			{"id": "depot_2", "type": "depot", "capacity": 10, "manhours_per_shift": 40}
		],
		"maintenance_types": [
			{"id": "preventive_1", "type": "preventive", "optimal_km": 5000, "max_km": 6000, "manhours": 8},
			{"id": "corrective_1", "type": "corrective", "max_km_window": 500, "manhours": 4}
		],
		"vehicles": [
			{
				"id": "vehicle_1",
				"initial_location": "depot_1",
				"initial_km": 0,
				"pending_corrective_tasks": [{"maintenance_type_id": "corrective_1", "remaining_km": 400}],
				"pending_preventive_tasks": [{"maintenance_type_id": "preventive_1", "remaining_km": 1500}]
			}
		],
		"routes": [
			{"id": "route_1", "day": 1, "start_location": "depot_1", "end_location": "depot_1", "distance_km": 100}
		]
	}`

	inst, err := instance.LoadFromReader(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, inst.Vehicles[0].PendingCorrectiveTasks, 1)
	require.Len(t, inst.Vehicles[0].PendingPreventiveTasks, 1)
	assert.Equal(t, "corrective_1", inst.Vehicles[0].PendingCorrectiveTasks[0].MaintenanceTypeID)
	assert.Equal(t, "preventive_1", inst.Vehicles[0].PendingPreventiveTasks[0].MaintenanceTypeID)
	assert.Len(t, inst.Vehicles[0].PendingTasks(), 2)
}

func TestLoadFromReader_RejectsMalformedJSON(t *testing.T) {
	_, err := instance.LoadFromReader(strings.NewReader("{not json"))
	require.Error(t, err)
	assert.Equal(t, railerr.InstanceInvalid, railerr.CodeOf(err))
}

func TestLoadFromReader_RejectsUnknownFields(t *testing.T) {
	_, err := instance.LoadFromReader(strings.NewReader(`{"planning_days": 1, "bogus_field": true}`))
	require.Error(t, err)
}

func TestLoadFromReader_PropagatesValidationErrors(t *testing.T) {
	_, err := instance.LoadFromReader(strings.NewReader(`{"planning_days": 0}`))
	require.Error(t, err)
	assert.Equal(t, railerr.InstanceInvalid, railerr.CodeOf(err))
}

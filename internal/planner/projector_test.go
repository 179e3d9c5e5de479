package planner_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"railopt/internal/cpsat"
	"railopt/internal/generator"
	"railopt/internal/planner"
)

// fakeSolution lets the projector be exercised without a real solver: it
// answers every variable query from a plain map, same as
// internal/backend/mipsat.Solution does once solved.
type fakeSolution struct {
	status  string
	obj     float64
	hasObj  bool
	elapsed time.Duration
	values  map[int]float64
}

func (f *fakeSolution) StatusString() string         { return f.status }
func (f *fakeSolution) Objective() (float64, bool)   { return f.obj, f.hasObj }
func (f *fakeSolution) Elapsed() time.Duration       { return f.elapsed }
func (f *fakeSolution) Value(v cpsat.Var) float64    { return f.values[v.ID()] }

// allZero builds a fakeSolution answering every model variable with its
// lower bound: 0 for every boolean (route/maintenance assignment all
// declined) and for each vehicle's per-shift location and km variables,
// so every vehicle reads as sitting at location index 0 with 0 km. It is not a feasible
// solution of the model, only an inert one for the projector to walk.
func allZero(built *planner.Built) *fakeSolution {
	values := make(map[int]float64, len(built.Model.Vars))
	for _, v := range built.Model.Vars {
		values[v.ID()] = float64(v.Lo())
	}
	return &fakeSolution{status: "OPTIMAL", obj: 0, hasObj: true, elapsed: 250 * time.Millisecond, values: values}
}

func TestProject_ReportsOptimizationInfo(t *testing.T) {
	inst := generator.Generate(generator.Options{Vehicles: 2, Depots: 2, Parkings: 1, RoutesPerDay: 1, PlanningDays: 1, Seed: 9})
	built := planner.Build(inst)
	sol := allZero(built)

	result := planner.Project(inst, built.Index, built.Grid, built.Vars, sol)

	assert.Equal(t, "OPTIMAL", result.OptimizationInfo.Status)
	require.NotNil(t, result.OptimizationInfo.ObjectiveValue)
	assert.Equal(t, 0.25, result.OptimizationInfo.WallTimeSec)
}

func TestProject_EveryVehicleHasAStatePerRealShift(t *testing.T) {
	inst := generator.Generate(generator.Options{Vehicles: 2, Depots: 2, Parkings: 1, RoutesPerDay: 1, PlanningDays: 2, Seed: 11})
	built := planner.Build(inst)
	sol := allZero(built)

	result := planner.Project(inst, built.Index, built.Grid, built.Vars, sol)

	for _, veh := range inst.Vehicles {
		vr, ok := result.Vehicles[veh.ID]
		require.True(t, ok)
		assert.Len(t, vr.States, built.Grid.Len()-1) // every real shift, not the initial pseudo-shift
	}
}

func TestProject_NoRouteOrMaintenanceLeavesVehiclesIdle(t *testing.T) {
	inst := generator.Generate(generator.Options{Vehicles: 1, Depots: 2, Parkings: 0, RoutesPerDay: 1, PlanningDays: 1, Seed: 5})
	built := planner.Build(inst)
	sol := allZero(built)

	result := planner.Project(inst, built.Index, built.Grid, built.Vars, sol)

	veh := inst.Vehicles[0]
	vr := result.Vehicles[veh.ID]
	assert.Empty(t, vr.RouteAssignments)
	assert.Empty(t, vr.MaintenanceActivities)
	for _, st := range vr.States {
		assert.True(t, st.IsIdle)
		assert.False(t, st.IsUnderMaintenance)
	}
}

func TestBoolValueAndIntValue(t *testing.T) {
	m := cpsat.NewModel()
	b := m.NewBoolVar("b")
	i := m.NewIntVar(0, 100, "i")
	sol := &fakeSolution{values: map[int]float64{b.ID(): 1, i.ID(): 12.6}}

	assert.True(t, planner.BoolValue(sol, b))
	assert.Equal(t, int64(13), planner.IntValue(sol, i))
}

package schedule_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"railopt/internal/schedule"
)

func sampleResult() *schedule.Result {
	obj := 42.0
	return &schedule.Result{
		OptimizationInfo: schedule.OptimizationInfo{
			Status:         "OPTIMAL",
			WallTimeSec:    1.5,
			ObjectiveValue: &obj,
		},
		Vehicles: map[string]schedule.VehicleResult{
			"vehicle_1": {
				InitialState: schedule.InitialState{Location: "depot_1", KM: 1000},
				RouteAssignments: map[string]*schedule.RouteAssignment{
					"1_day": {RouteID: "route_1", StartLocation: "depot_1", EndLocation: "depot_1", DistanceKM: 100},
				},
				States: map[string]schedule.VehicleState{
					"1_day": {Location: "depot_1", KM: 1100, IsIdle: false},
				},
			},
		},
	}
}

func TestWriteJSON_RoundTrips(t *testing.T) {
	result := sampleResult()

	var buf bytes.Buffer
	require.NoError(t, schedule.WriteJSON(&buf, result))

	var decoded schedule.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "OPTIMAL", decoded.OptimizationInfo.Status)
	require.NotNil(t, decoded.OptimizationInfo.ObjectiveValue)
	assert.Equal(t, 42.0, *decoded.OptimizationInfo.ObjectiveValue)
	assert.Equal(t, 1000, decoded.Vehicles["vehicle_1"].InitialState.KM)
}

func TestSave_ToDirectoryTimestampsFilename(t *testing.T) {
	dir := t.TempDir()

	outPath, err := schedule.Save(dir, sampleResult())
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(outPath) || filepath.Dir(outPath) == dir)
	assert.Regexp(t, `^schedule-\d{8}-\d{6}\.json$`, filepath.Base(outPath))
	_, err = os.Stat(outPath)
	require.NoError(t, err)
}

func TestSave_ToConcretePathCreatesParentDir(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "nested", "result.json")

	outPath, err := schedule.Save(target, sampleResult())
	require.NoError(t, err)
	assert.Equal(t, target, outPath)

	_, err = os.Stat(outPath)
	require.NoError(t, err)
}

func TestSave_EmptyPathIsNoOp(t *testing.T) {
	outPath, err := schedule.Save("", sampleResult())
	require.NoError(t, err)
	assert.Equal(t, "", outPath)
}

func TestPrintConsoleSummary_ReportsCounts(t *testing.T) {
	var buf bytes.Buffer
	schedule.PrintConsoleSummary(&buf, sampleResult())

	out := buf.String()
	assert.Contains(t, out, "Status: OPTIMAL")
	assert.Contains(t, out, "Vehicles: 1")
	assert.Contains(t, out, "Total route assignments: 1")
}

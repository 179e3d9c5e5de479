// Package schedule defines the result types the planner's projector
// produces, mirroring the planning specification's result JSON exactly.
package schedule

// OptimizationInfo reports the backend's solve outcome.
type OptimizationInfo struct {
	Status         string   `json:"status"`
	WallTimeSec    float64  `json:"wall_time"`
	ObjectiveValue *float64 `json:"objective_value"`
}

// InitialState is a vehicle's starting location and odometer reading.
type InitialState struct {
	Location string `json:"location"`
	KM       int    `json:"km"`
}

// RouteAssignment is the route (if any) a vehicle ran during one shift.
type RouteAssignment struct {
	RouteID       string `json:"route_id"`
	StartLocation string `json:"start_location"`
	EndLocation   string `json:"end_location"`
	DistanceKM    int    `json:"distance_km"`
}

// MaintenanceActivity is one performed maintenance occurrence.
type MaintenanceActivity struct {
	MaintenanceID    string `json:"maintenance_id"`
	MaintenanceType  string `json:"maintenance_type"`
	StartDay         int    `json:"start_day"`
	StartShift       string `json:"start_shift"`
	EndDay           int    `json:"end_day"`
	EndShift         string `json:"end_shift"`
	Depot            string `json:"depot"`
	KMAtStart        int    `json:"km_at_start"`
	RequiredManhours int    `json:"required_manhours"`
}

// VehicleState is a vehicle's location, odometer reading, and activity
// status as of the start of one shift.
type VehicleState struct {
	Location          string `json:"location"`
	KM                int    `json:"km"`
	IsIdle            bool   `json:"is_idle"`
	IsUnderMaintenance bool  `json:"is_under_maintenance"`
}

// VehicleResult bundles everything the planner produced for one vehicle.
type VehicleResult struct {
	InitialState          InitialState                `json:"initial_state"`
	RouteAssignments       map[string]*RouteAssignment `json:"route_assignments"`
	MaintenanceActivities  []MaintenanceActivity        `json:"maintenance_activities"`
	States                 map[string]VehicleState      `json:"states"`
}

// Result is the complete, serializable output of one planning run.
type Result struct {
	OptimizationInfo OptimizationInfo         `json:"optimization_info"`
	Vehicles         map[string]VehicleResult `json:"vehicles"`
}

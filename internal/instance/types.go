// Package instance defines the typed input to the planner: locations,
// maintenance types, vehicles and their pending work, and the day's routes.
package instance

// LocationKind distinguishes depots, which can host maintenance, from
// parkings, which can only hold idle vehicles overnight.
type LocationKind string

const (
	Depot    LocationKind = "depot"
	Parking  LocationKind = "parking"
)

// Location is a place a vehicle can be: a depot (with a manhour budget and
// a set of maintenance specializations it can perform) or a parking (plain
// capacity, no maintenance capability).
type Location struct {
	ID               string       `json:"id"`
	Kind             LocationKind `json:"type"`
	Capacity         int          `json:"capacity"`
	ManhoursPerShift int          `json:"manhours_per_shift,omitempty"`
	Specializations  []string     `json:"specializations,omitempty"`
}

// IsDepot reports whether l can perform maintenance at all.
func (l Location) IsDepot() bool { return l.Kind == Depot }

// Capable reports whether a depot declares the given specialization, or
// has no declared specializations at all (meaning: general-purpose).
func (l Location) Capable(specialization string) bool {
	if specialization == "" {
		return true
	}
	if len(l.Specializations) == 0 {
		return true
	}
	for _, s := range l.Specializations {
		if s == specialization {
			return true
		}
	}
	return false
}

// MaintenanceCategory distinguishes scheduled preventive maintenance from
// condition-triggered corrective maintenance.
type MaintenanceCategory string

const (
	Preventive MaintenanceCategory = "preventive"
	Corrective MaintenanceCategory = "corrective"
)

// MaintenanceType is a catalogue entry describing one kind of maintenance
// work: how long it takes, what it costs in manhours, and the km-based
// rule that governs when it must run.
type MaintenanceType struct {
	ID             string              `json:"id"`
	Category       MaintenanceCategory `json:"type"`
	Specialization string              `json:"specialization,omitempty"`
	Manhours       int                 `json:"manhours"`

	// Preventive-only: the ideal odometer reading to perform the work at,
	// and the hard ceiling beyond which it must have been performed.
	OptimalKM int `json:"optimal_km,omitempty"`
	MaxKM     int `json:"max_km,omitempty"`

	// Corrective-only: the window (in km) within which a pending
	// occurrence of this work must be performed.
	MaxKMWindow int `json:"max_km_window,omitempty"`

	// SafetyCritical is carried through the model but is not bound to any
	// constraint (see Open Question (c) in the planning specification).
	SafetyCritical bool `json:"safety_critical,omitempty"`
}

// MaxMaintenanceDurationShifts bounds how many shifts a single maintenance
// occurrence may occupy, matching the original optimizer's est_duration cap.
const MaxMaintenanceDurationShifts = 5

// EstimatedDurationShifts mirrors the original optimizer's
// `min(max(1, manhours // 8), 5)` formula for how many shifts a maintenance
// occurrence of this type is expected to take.
func (m MaintenanceType) EstimatedDurationShifts() int {
	d := m.Manhours / 8
	if d < 1 {
		d = 1
	}
	if d > MaxMaintenanceDurationShifts {
		d = MaxMaintenanceDurationShifts
	}
	return d
}

// PendingTask is an occurrence of maintenance a vehicle already carries at
// the start of the planning horizon: so many kilometers remain before it
// must be performed.
type PendingTask struct {
	MaintenanceTypeID string `json:"maintenance_type_id"`
	RemainingKM       int    `json:"remaining_km"`
}

// Vehicle is one rail vehicle entering the planning horizon with a known
// location, odometer reading, and backlog of pending maintenance, split by
// category the same way the wire format distinguishes them.
type Vehicle struct {
	ID                     string        `json:"id"`
	InitialLocation        string        `json:"initial_location"`
	InitialKM              int           `json:"initial_km"`
	PendingCorrectiveTasks []PendingTask `json:"pending_corrective_tasks"`
	PendingPreventiveTasks []PendingTask `json:"pending_preventive_tasks"`
}

// PendingTasks returns every pending task on v regardless of category, for
// callers that only need to walk the whole backlog (e.g. validation).
func (v Vehicle) PendingTasks() []PendingTask {
	out := make([]PendingTask, 0, len(v.PendingCorrectiveTasks)+len(v.PendingPreventiveTasks))
	out = append(out, v.PendingCorrectiveTasks...)
	out = append(out, v.PendingPreventiveTasks...)
	return out
}

// Route is one scheduled trip for a single day: a depot-to-depot run of a
// known distance that must be covered by exactly one vehicle.
type Route struct {
	ID              string `json:"id"`
	Day             int    `json:"day"`
	StartLocation   string `json:"start_location"`
	EndLocation     string `json:"end_location"`
	DistanceKM      int    `json:"distance_km"`
}

// Instance is the complete planning input: the full catalogue of
// locations and maintenance types, the fleet, and every route across the
// planning horizon.
type Instance struct {
	PlanningDays     int               `json:"planning_days"`
	Locations        []Location        `json:"locations"`
	MaintenanceTypes []MaintenanceType `json:"maintenance_types"`
	Vehicles         []Vehicle         `json:"vehicles"`
	Routes           []Route           `json:"routes"`
}

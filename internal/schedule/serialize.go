package schedule

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// WriteJSON writes r as indented JSON to w, mirroring the original
// optimizer's `json.dump(schedule_results, f, indent=2)` output shape.
func WriteJSON(w io.Writer, r *Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// Save writes r as JSON to path, in the same style as the teacher's CSV
// report writer: when path is an existing directory the file inside it
// gets a timestamped name (schedule-YYYYMMDD-HHMMSS.json); otherwise path
// is used as given, creating its parent directory if needed.
func Save(path string, r *Result) (string, error) {
	if path == "" {
		return "", nil
	}
	ts := time.Now().Format("20060102-150405")
	outPath := path
	if fi, err := os.Stat(outPath); err == nil && fi.IsDir() {
		outPath = filepath.Join(outPath, fmt.Sprintf("schedule-%s.json", ts))
	} else {
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return "", err
		}
	}
	f, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := WriteJSON(f, r); err != nil {
		return "", err
	}
	return outPath, nil
}

// PrintConsoleSummary prints a human-readable summary, in the teacher's
// console-report style.
func PrintConsoleSummary(w io.Writer, r *Result) {
	fmt.Fprintln(w, "=== Optimization Report ===")
	fmt.Fprintf(w, "Status: %s\n", r.OptimizationInfo.Status)
	fmt.Fprintf(w, "Wall time: %.2f seconds\n", r.OptimizationInfo.WallTimeSec)
	if r.OptimizationInfo.ObjectiveValue != nil {
		fmt.Fprintf(w, "Objective value (total preventive deviation, km): %.0f\n", *r.OptimizationInfo.ObjectiveValue)
	}

	totalRoutes, totalMaint := 0, 0
	byCategory := map[string]int{"preventive": 0, "corrective": 0}
	for _, v := range r.Vehicles {
		for _, ra := range v.RouteAssignments {
			if ra != nil {
				totalRoutes++
			}
		}
		totalMaint += len(v.MaintenanceActivities)
		for _, m := range v.MaintenanceActivities {
			byCategory[m.MaintenanceType]++
		}
	}
	fmt.Fprintf(w, "Vehicles: %d\n", len(r.Vehicles))
	fmt.Fprintf(w, "Total route assignments: %d\n", totalRoutes)
	fmt.Fprintf(w, "Total maintenance activities: %d (preventive: %d, corrective: %d)\n",
		totalMaint, byCategory["preventive"], byCategory["corrective"])
}

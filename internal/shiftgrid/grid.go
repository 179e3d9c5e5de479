// Package shiftgrid builds the day/shift index grid the planner's
// variables and constraints are addressed by.
package shiftgrid

// Shift identifies one day/night period within the planning horizon. Day 1
// is the first planning day; IsNight distinguishes the day run from the
// overnight period that follows it.
type Shift struct {
	Day     int
	IsNight bool
}

// Grid enumerates every shift across the planning horizon, prefixed with a
// pseudo-shift (index 0) that pins each vehicle's starting state. This
// keeps day 1 from needing special-case handling anywhere else in the
// planner: every "real" shift has a well-defined predecessor.
type Grid struct {
	shifts []Shift // index 0 is the initial pseudo-shift
}

// New builds the grid for a horizon of planningDays days, each with a day
// and a night shift.
func New(planningDays int) *Grid {
	shifts := make([]Shift, 0, 2*planningDays+1)
	shifts = append(shifts, Shift{Day: 0, IsNight: false}) // initial pseudo-shift
	for d := 1; d <= planningDays; d++ {
		shifts = append(shifts, Shift{Day: d, IsNight: false})
		shifts = append(shifts, Shift{Day: d, IsNight: true})
	}
	return &Grid{shifts: shifts}
}

// Len returns the number of shifts including the initial pseudo-shift.
func (g *Grid) Len() int { return len(g.shifts) }

// At returns the shift at index i (0 is the initial pseudo-shift).
func (g *Grid) At(i int) Shift { return g.shifts[i] }

// IsInitial reports whether index i is the pseudo-shift preceding day 1.
func (g *Grid) IsInitial(i int) bool { return i == 0 }

// Real returns the indices of every non-initial shift, in order.
func (g *Grid) Real() []int {
	out := make([]int, 0, len(g.shifts)-1)
	for i := 1; i < len(g.shifts); i++ {
		out = append(out, i)
	}
	return out
}

// DayShiftIndex returns the index of the day shift for day d (1-based).
func (g *Grid) DayShiftIndex(d int) int { return 2*d - 1 }

// NightShiftIndex returns the index of the night shift for day d (1-based).
func (g *Grid) NightShiftIndex(d int) int { return 2 * d }

// Next returns the index following i, and false if i is the last shift.
func (g *Grid) Next(i int) (int, bool) {
	if i+1 >= len(g.shifts) {
		return 0, false
	}
	return i + 1, true
}

// Prev returns the index preceding i; every non-initial shift has one.
func (g *Grid) Prev(i int) int { return i - 1 }

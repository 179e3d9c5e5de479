package planner

import (
	"railopt/internal/cpsat"
	"railopt/internal/instance"
	"railopt/internal/shiftgrid"
)

// Built is the output of Build: the assembled model together with the
// indexing structures the projector needs to translate a solution back
// into domain terms.
type Built struct {
	Model *cpsat.Model
	Vars  *Variables
	Index *instance.Index
	Grid  *shiftgrid.Grid
}

// Build turns a validated instance into a complete constraint model: the
// time grid, every decision variable, every constraint C1-C12, and the
// objective — ready to hand to a backend.
func Build(inst *instance.Instance) *Built {
	idx := instance.BuildIndex(inst)
	grid := shiftgrid.New(inst.PlanningDays)
	m := cpsat.NewModel()

	vars := BuildVariables(inst, idx, grid, m)
	AssembleConstraints(inst, idx, grid, vars, m)
	AddObjective(vars, m)

	return &Built{Model: m, Vars: vars, Index: idx, Grid: grid}
}

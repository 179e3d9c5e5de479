// Package mipsat is the one concrete backend this module ships: it lowers
// an internal/cpsat.Model onto github.com/nextmv-io/sdk/mip and invokes its
// HiGHS-backed solver. The call shape here mirrors
// nextmv-io's own shift-scheduling template (mip.NewModel, m.NewBool,
// m.NewConstraint(sense, rhs).NewTerm(coef, v), mip.NewSolver(mip.Highs,
// m), solver.Solve(opts)) — this package is the adapter between that real
// SDK and the CP-SAT vocabulary the planner is written against.
//
// Generic MIP solvers have no native reification (CP-SAT's
// OnlyEnforceIf). Every reified constraint the planner builds is lowered
// here into a standard big-M indicator constraint: a constraint gated on k
// literals being true is relaxed by M*(k - sum(literals)) so that it is
// vacuous unless every gating literal holds.
package mipsat

import (
	"fmt"
	"time"

	"github.com/nextmv-io/sdk/mip"

	"railopt/internal/cpsat"
	"railopt/internal/railerr"
)

// bigM bounds the slack a relaxed (not-enforced) reified constraint can
// absorb. It must dominate the largest term sum+rhs gap that appears in
// the model; the planner's km-scale terms top out in the tens of
// thousands, so this is comfortably conservative without overflowing the
// solver's numeric tolerance.
const bigM = 1_000_000.0

// Status mirrors spec's backend contract result statuses.
type Status string

const (
	Optimal      Status = "OPTIMAL"
	Feasible     Status = "FEASIBLE"
	InfeasibleSt Status = "INFEASIBLE"
	Unknown      Status = "UNKNOWN"
	ModelInvalid Status = "MODEL_INVALID"
)

// Options configures one solve.
type Options struct {
	TimeLimit time.Duration
}

// Solution is the backend's answer: a status and, for OPTIMAL/FEASIBLE,
// the value of every variable the planner created, addressed by
// cpsat.Var.ID().
type Solution struct {
	Status         Status
	ObjectiveValue float64
	WallTime       time.Duration
	Values         map[int]float64
}

// BoolValue reports whether the solved value of v should be read as true.
func (s *Solution) BoolValue(v cpsat.Var) bool {
	return s.Values[v.ID()] >= 0.5
}

// IntValue returns the solved value of v, rounded to the nearest integer.
func (s *Solution) IntValue(v cpsat.Var) int64 {
	x := s.Values[v.ID()]
	if x >= 0 {
		return int64(x + 0.5)
	}
	return int64(x - 0.5)
}

// StatusString reports the solve status as the planner's projector-facing
// vocabulary expects, decoupling callers from this package's own Status
// type.
func (s *Solution) StatusString() string { return string(s.Status) }

// Objective returns the objective value and whether one is meaningful for
// this solution's status (it is not, for an infeasible solve).
func (s *Solution) Objective() (float64, bool) {
	if s.Status != Optimal && s.Status != Feasible {
		return 0, false
	}
	return s.ObjectiveValue, true
}

// Elapsed returns the solver's wall-clock time.
func (s *Solution) Elapsed() time.Duration { return s.WallTime }

// Value returns the solved value of v as a float64, for the projector's
// generic result interface.
func (s *Solution) Value(v cpsat.Var) float64 { return s.Values[v.ID()] }

// Solve lowers m to a mip.Model, runs the HiGHS solver under opts, and
// returns a Solution.
func Solve(m *cpsat.Model, opts Options) (*Solution, error) {
	mm := mip.NewModel()
	mm.Objective().SetMinimize()

	// mip.Bool, mip.Int, and mip.Float all satisfy mip.Entity, the type
	// NewTerm and Value accept; one map of entities covers every variable
	// kind the planner creates.
	entities := make(map[int]mip.Entity, len(m.Vars))
	for _, v := range m.Vars {
		switch v.Kind() {
		case cpsat.KindBool:
			entities[v.ID()] = mm.NewBool()
		default:
			entities[v.ID()] = mm.NewInt(int(v.Lo()), int(v.Hi()))
		}
	}

	termVar := func(v cpsat.Var) mip.Entity {
		return entities[v.ID()]
	}

	// Sparse integer domains (NewIntVarFromDomain) have no native
	// support in this backend, so each is lowered into a disjunction of
	// equalities: one boolean per admissible value, exactly one true,
	// with a big-M indicator constraint pinning the variable to that
	// value when its boolean is set. The [lo, hi] bracket alone would
	// under-restrict whenever the admissible values aren't contiguous.
	for id, domain := range m.Domains {
		v := varByID(m, id)
		lowerDomain(mm, entities[id], v, domain)
	}

	for _, c := range m.Constraints {
		if err := lowerConstraint(mm, c, termVar); err != nil {
			return nil, railerr.Wrap(railerr.ModelInvalid, "lower constraint "+c.Name, err)
		}
	}
	for _, b := range m.BoolOrs {
		lowerBoolOr(mm, b, termVar)
	}

	for _, t := range m.Obj.Terms {
		mm.Objective().NewTerm(t.Coef, termVar(t.Var))
	}

	solver, err := mip.NewSolver(mip.Highs, mm)
	if err != nil {
		return nil, railerr.Wrap(railerr.ModelInvalid, "create solver", err)
	}

	solveOpts := mip.NewSolveOptions()
	if opts.TimeLimit > 0 {
		if err := solveOpts.SetMaximumDuration(opts.TimeLimit); err != nil {
			return nil, railerr.Wrap(railerr.ModelInvalid, "set time limit", err)
		}
	}

	start := time.Now()
	solution, err := solver.Solve(solveOpts)
	elapsed := time.Since(start)
	if err != nil {
		return nil, railerr.Wrap(railerr.Unknown, "solve", err)
	}

	out := &Solution{WallTime: elapsed, Values: make(map[int]float64, len(m.Vars))}
	switch {
	case solution.IsOptimal():
		out.Status = Optimal
	case solution.IsSubOptimal():
		out.Status = Feasible
	default:
		out.Status = InfeasibleSt
		return out, nil
	}

	out.ObjectiveValue = solution.ObjectiveValue()
	for _, v := range m.Vars {
		out.Values[v.ID()] = solution.Value(termVar(v))
	}
	return out, nil
}

func varByID(m *cpsat.Model, id int) cpsat.Var {
	for _, v := range m.Vars {
		if v.ID() == id {
			return v
		}
	}
	panic(fmt.Sprintf("mipsat: no variable with id %d", id))
}

// lowerDomain restricts entity to one of domain's values. It mirrors the
// branch-variable big-M technique addNotEqual uses in internal/planner,
// run once per candidate value instead of once per excluded value: a
// boolean picks the value entity takes, and exactly one boolean is true.
func lowerDomain(mm mip.Model, entity mip.Entity, v cpsat.Var, domain []int64) {
	span := float64(v.Hi() - v.Lo())
	picked := mm.NewConstraint(mip.Equal, 1)
	for _, val := range domain {
		sel := mm.NewBool()
		picked.NewTerm(1.0, sel)

		le := mm.NewConstraint(mip.LessThanOrEqual, float64(val)+span)
		le.NewTerm(1.0, entity)
		le.NewTerm(span, sel)

		ge := mm.NewConstraint(mip.GreaterThanOrEqual, float64(val)-span)
		ge.NewTerm(1.0, entity)
		ge.NewTerm(-span, sel)
	}
}

func lowerConstraint(mm mip.Model, c *cpsat.Constraint, termVar func(cpsat.Var) mip.Entity) error {
	sense, err := mipSense(c.Sense)
	if err != nil {
		return err
	}

	// A positive gating literal x is unmet when x=0 and a negated one when
	// x=1, so only positive literals widen the bound by bigM; each literal
	// then adds a ±bigM*x term that cancels its share when it holds.
	rhs := c.RHS
	slack := 0.0
	for _, lit := range c.EnforceIf {
		if !lit.Negated {
			slack += bigM
		}
	}
	if len(c.EnforceIf) > 0 {
		switch c.Sense {
		case cpsat.LE:
			rhs += slack
		case cpsat.GE:
			rhs -= slack
		case cpsat.EQ:
			// Equality under reification needs both directions; split
			// into <= and >= with independent slack.
			le := mm.NewConstraint(mip.LessThanOrEqual, c.RHS+slack)
			ge := mm.NewConstraint(mip.GreaterThanOrEqual, c.RHS-slack)
			for _, t := range c.Terms {
				le.NewTerm(t.Coef, termVar(t.Var))
				ge.NewTerm(t.Coef, termVar(t.Var))
			}
			for _, lit := range c.EnforceIf {
				coef := bigM
				if lit.Negated {
					coef = -bigM
				}
				le.NewTerm(coef, termVar(lit.V))
				ge.NewTerm(-coef, termVar(lit.V))
			}
			return nil
		}
	}

	con := mm.NewConstraint(sense, rhs)
	for _, t := range c.Terms {
		con.NewTerm(t.Coef, termVar(t.Var))
	}
	for _, lit := range c.EnforceIf {
		coef := bigM
		if c.Sense == cpsat.GE {
			coef = -bigM
		}
		if lit.Negated {
			coef = -coef
		}
		con.NewTerm(coef, termVar(lit.V))
	}
	return nil
}

// lowerBoolOr encodes "at least one of lits is true" as a linear
// constraint over the 0/1 literal values: sum(positive) - sum(negated) >=
// 1 - count(negated), the standard linearization of indicator(lit)=x for
// a positive literal and (1-x) for a negated one. When EnforceIf is set,
// the bound is relaxed by bigM per unmet gating literal, the same
// technique used for plain reified constraints.
func lowerBoolOr(mm mip.Model, b *cpsat.BoolOr, termVar func(cpsat.Var) mip.Entity) {
	negatedCount := 0
	for _, lit := range b.Lits {
		if lit.Negated {
			negatedCount++
		}
	}
	rhs := float64(1 - negatedCount)
	for _, lit := range b.EnforceIf {
		if !lit.Negated {
			rhs -= bigM
		}
	}
	con := mm.NewConstraint(mip.GreaterThanOrEqual, rhs)
	for _, lit := range b.Lits {
		if lit.Negated {
			con.NewTerm(-1.0, termVar(lit.V))
		} else {
			con.NewTerm(1.0, termVar(lit.V))
		}
	}
	for _, lit := range b.EnforceIf {
		coef := -bigM
		if lit.Negated {
			coef = bigM
		}
		con.NewTerm(coef, termVar(lit.V))
	}
}

func mipSense(s cpsat.Sense) (mip.Sense, error) {
	switch s {
	case cpsat.LE:
		return mip.LessThanOrEqual, nil
	case cpsat.GE:
		return mip.GreaterThanOrEqual, nil
	case cpsat.EQ:
		return mip.Equal, nil
	default:
		return mip.Equal, fmt.Errorf("unknown sense %d", s)
	}
}

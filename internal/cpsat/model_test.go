package cpsat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"railopt/internal/cpsat"
)

func TestNewBoolVar_HasUnitBounds(t *testing.T) {
	m := cpsat.NewModel()
	v := m.NewBoolVar("x")

	assert.Equal(t, cpsat.KindBool, v.Kind())
	assert.Equal(t, int64(0), v.Lo())
	assert.Equal(t, int64(1), v.Hi())
	assert.Len(t, m.Vars, 1)
}

func TestVarIDsAreUniqueAndSequential(t *testing.T) {
	m := cpsat.NewModel()
	a := m.NewBoolVar("a")
	b := m.NewIntVar(0, 10, "b")

	assert.Equal(t, 0, a.ID())
	assert.Equal(t, 1, b.ID())
}

func TestLiteral_NotAndNegate(t *testing.T) {
	m := cpsat.NewModel()
	v := m.NewBoolVar("x")

	pos := v.Lit()
	neg := v.Not()
	assert.False(t, pos.Negated)
	assert.True(t, neg.Negated)

	assert.Equal(t, neg, pos.Negate())
	assert.Equal(t, pos, neg.Negate())
	// Negate toggles relative to the current literal, not always to Not().
	assert.Equal(t, pos, pos.Negate().Negate())
}

func TestNewIntVarFromDomain_BracketsAndRecordsDomain(t *testing.T) {
	m := cpsat.NewModel()
	v, domain := m.NewIntVarFromDomain([]int64{5, 2, 9}, "depot_choice")

	assert.Equal(t, int64(2), v.Lo())
	assert.Equal(t, int64(9), v.Hi())
	assert.Equal(t, []int64{5, 2, 9}, domain)
	assert.Equal(t, []int64{5, 2, 9}, m.Domains[v.ID()])
}

func TestNewConstraint_AccumulatesTermsAndEnforceIf(t *testing.T) {
	m := cpsat.NewModel()
	x := m.NewBoolVar("x")
	y := m.NewBoolVar("y")
	gate := m.NewBoolVar("gate")

	c := m.NewConstraint(cpsat.EQ, 1, "c1").AddTerm(1, x).AddTerm(1, y).OnlyEnforceIf(gate.Lit())

	require.Len(t, m.Constraints, 1)
	assert.Same(t, c, m.Constraints[0])
	assert.Equal(t, cpsat.EQ, c.Sense)
	assert.Equal(t, float64(1), c.RHS)
	assert.Len(t, c.Terms, 2)
	assert.Equal(t, []cpsat.Literal{gate.Lit()}, c.EnforceIf)
}

func TestAddBoolOr_RegistersOnModel(t *testing.T) {
	m := cpsat.NewModel()
	x := m.NewBoolVar("x")
	y := m.NewBoolVar("y")

	b := m.AddBoolOr("either", x.Lit(), y.Not()).OnlyEnforceIf(x.Lit())

	require.Len(t, m.BoolOrs, 1)
	assert.Same(t, b, m.BoolOrs[0])
	assert.Len(t, b.Lits, 2)
	assert.Len(t, b.EnforceIf, 1)
}

func TestMinimize_SetsObjectiveTerms(t *testing.T) {
	m := cpsat.NewModel()
	x := m.NewIntVar(0, 10, "x")

	m.Minimize(cpsat.Term{Coef: 2, Var: x})

	require.Len(t, m.Obj.Terms, 1)
	assert.Equal(t, float64(2), m.Obj.Terms[0].Coef)
}

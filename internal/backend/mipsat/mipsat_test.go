package mipsat

import (
	"testing"
	"time"

	"github.com/nextmv-io/sdk/mip"
	"github.com/stretchr/testify/assert"

	"railopt/internal/cpsat"
)

func TestMipSense(t *testing.T) {
	le, err := mipSense(cpsat.LE)
	assert.NoError(t, err)
	assert.Equal(t, mip.LessThanOrEqual, le)

	ge, err := mipSense(cpsat.GE)
	assert.NoError(t, err)
	assert.Equal(t, mip.GreaterThanOrEqual, ge)

	eq, err := mipSense(cpsat.EQ)
	assert.NoError(t, err)
	assert.Equal(t, mip.Equal, eq)

	_, err = mipSense(cpsat.Sense(99))
	assert.Error(t, err)
}

func TestSolution_BoolAndIntValue(t *testing.T) {
	m := cpsat.NewModel()
	b := m.NewBoolVar("b")
	i := m.NewIntVar(0, 100, "i")

	sol := &Solution{Values: map[int]float64{b.ID(): 1, i.ID(): 42.49}}

	assert.True(t, sol.BoolValue(b))
	assert.Equal(t, int64(42), sol.IntValue(i))
}

func TestSolution_ObjectiveOnlyMeaningfulWhenSolved(t *testing.T) {
	optimal := &Solution{Status: Optimal, ObjectiveValue: 17}
	v, ok := optimal.Objective()
	assert.True(t, ok)
	assert.Equal(t, float64(17), v)

	infeasible := &Solution{Status: InfeasibleSt}
	_, ok = infeasible.Objective()
	assert.False(t, ok)
}

func TestSolution_StatusStringAndElapsed(t *testing.T) {
	sol := &Solution{Status: Feasible, WallTime: 2 * time.Second}

	assert.Equal(t, "FEASIBLE", sol.StatusString())
	assert.Equal(t, 2*time.Second, sol.Elapsed())
}

func TestSolution_ValueSatisfiesPlannerInterface(t *testing.T) {
	m := cpsat.NewModel()
	v := m.NewIntVar(0, 10, "x")
	sol := &Solution{Values: map[int]float64{v.ID(): 7}}

	assert.Equal(t, float64(7), sol.Value(v))
}

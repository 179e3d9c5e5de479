package shiftgrid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"railopt/internal/shiftgrid"
)

func TestNew_BuildsInitialPseudoShiftPlusTwoPerDay(t *testing.T) {
	g := shiftgrid.New(3)

	assert.Equal(t, 1+2*3, g.Len())
	assert.True(t, g.IsInitial(0))
	assert.Equal(t, shiftgrid.Shift{Day: 0, IsNight: false}, g.At(0))
	assert.Equal(t, shiftgrid.Shift{Day: 1, IsNight: false}, g.At(1))
	assert.Equal(t, shiftgrid.Shift{Day: 1, IsNight: true}, g.At(2))
	assert.Equal(t, shiftgrid.Shift{Day: 3, IsNight: true}, g.At(6))
}

func TestGrid_Real_ExcludesInitialShift(t *testing.T) {
	g := shiftgrid.New(2)
	real := g.Real()
	assert.Len(t, real, 4)
	assert.NotContains(t, real, 0)
}

func TestGrid_DayAndNightShiftIndex(t *testing.T) {
	g := shiftgrid.New(3)

	assert.Equal(t, 1, g.DayShiftIndex(1))
	assert.Equal(t, 2, g.NightShiftIndex(1))
	assert.Equal(t, 5, g.DayShiftIndex(3))
	assert.Equal(t, 6, g.NightShiftIndex(3))

	assert.Equal(t, g.At(g.DayShiftIndex(2)), shiftgrid.Shift{Day: 2, IsNight: false})
	assert.Equal(t, g.At(g.NightShiftIndex(2)), shiftgrid.Shift{Day: 2, IsNight: true})
}

func TestGrid_NextAndPrev(t *testing.T) {
	g := shiftgrid.New(1)

	next, ok := g.Next(0)
	assert.True(t, ok)
	assert.Equal(t, 1, next)
	assert.Equal(t, 0, g.Prev(next))

	last := g.Len() - 1
	_, ok = g.Next(last)
	assert.False(t, ok)
}

package geo

import (
	"math"
	"slices"
	"testing"

	"github.com/galaxygarden/nbody-datagen/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)

	assert.Zero(t, s.Bodies)
	assert.Zero(t, s.TotalMass)
	assert.True(t, s.CenterOfMass.IsEmpty())
	assert.True(t, s.Bounds.IsEmpty())
	assert.Equal(t, "", s.BoundsWKT())
}

func TestSummarize_CenterOfMass(t *testing.T) {
	ds := core.Dataset{
		{Mass: 3, Position: core.Vec2{X: 0, Y: 0}},
		{Mass: 1, Position: core.Vec2{X: 8, Y: 4}, Velocity: core.Vec2{X: 3, Y: 4}},
	}

	s := Summarize(ds)
	assert.Equal(t, int64(2), s.Bodies)
	assert.Equal(t, 4.0, s.TotalMass)
	assert.Equal(t, 5.0, s.MaxSpeed)

	xy, ok := s.CenterOfMass.XY()
	require.True(t, ok)
	assert.InDelta(t, 2.0, xy.X, 1e-12)
	assert.InDelta(t, 1.0, xy.Y, 1e-12)

	min, max, ok := s.Bounds.MinMaxXYs()
	require.True(t, ok)
	assert.Equal(t, 0.0, min.X)
	assert.Equal(t, 0.0, min.Y)
	assert.Equal(t, 8.0, max.X)
	assert.Equal(t, 4.0, max.Y)
	assert.Contains(t, s.BoundsWKT(), "POLYGON")
}

func TestAccumulator_Observe(t *testing.T) {
	ds := core.Dataset{{Mass: 1}, {Mass: 2}, {Mass: 3}}

	var a Accumulator
	got := slices.Collect(a.Observe(slices.Values(ds)))

	assert.Equal(t, []core.Body(ds), got)
	assert.Equal(t, int64(3), a.Summary().Bodies)
	assert.Equal(t, 6.0, a.Summary().TotalMass)
}

func TestAccumulator_NonFinitePosition(t *testing.T) {
	var a Accumulator
	require.NoError(t, a.Add(core.Body{Mass: 2, Position: core.Vec2{X: 1, Y: 1}}))

	err := a.Add(core.Body{Mass: 5, Position: core.Vec2{X: math.NaN(), Y: 0}})
	assert.Error(t, err)
	err = a.Add(core.Body{Mass: 1, Position: core.Vec2{X: 3, Y: math.Inf(1)}})
	assert.Error(t, err)

	s := a.Summary()
	assert.Equal(t, int64(3), s.Bodies)
	assert.Equal(t, int64(2), s.Invalid)
	assert.Equal(t, 8.0, s.TotalMass)

	xy, ok := s.CenterOfMass.XY()
	require.True(t, ok)
	assert.Equal(t, 1.0, xy.X)
	assert.Equal(t, 1.0, xy.Y)

	min, max, ok := s.Bounds.MinMaxXYs()
	require.True(t, ok)
	assert.Equal(t, min, max)
}

func TestSummarize_OnlyNonFinite(t *testing.T) {
	s := Summarize(core.Dataset{{Mass: 1, Position: core.Vec2{X: math.Inf(-1), Y: 0}}})

	assert.Equal(t, int64(1), s.Invalid)
	assert.True(t, s.CenterOfMass.IsEmpty())
	assert.True(t, s.Bounds.IsEmpty())
}

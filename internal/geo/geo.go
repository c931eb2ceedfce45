// Package geo summarises the spatial layout of a generated dataset.
package geo

import (
	"fmt"
	"iter"
	"math"

	"github.com/galaxygarden/nbody-datagen/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
)

// Summary describes a dataset as a whole.
type Summary struct {
	Bodies       int64
	TotalMass    float64
	CenterOfMass geom.Point
	Bounds       geom.Envelope
	MaxSpeed     float64
	// Invalid counts bodies with a non-finite position. They are left out of
	// CenterOfMass and Bounds.
	Invalid int64
}

// BoundsWKT renders the position envelope as WKT, or "" when empty.
func (s Summary) BoundsWKT() string {
	if s.Bounds.IsEmpty() {
		return ""
	}
	return s.Bounds.AsGeometry().AsText()
}

// Accumulator builds a Summary one body at a time.
type Accumulator struct {
	n        int64
	mass     float64
	mx, my   float64
	env      geom.Envelope
	maxSpeed float64
	invalid  int64
	// mass of the bodies with a valid position
	placed float64
}

// Add folds one body into the running totals. A body whose position
// cannot be placed in the envelope is still counted, and the error says why.
func (a *Accumulator) Add(b core.Body) error {
	a.n++
	a.mass += b.Mass
	if s := math.Hypot(b.Velocity.X, b.Velocity.Y); s > a.maxSpeed {
		a.maxSpeed = s
	}

	env, err := a.env.ExtendToIncludeXY(geom.XY{X: b.Position.X, Y: b.Position.Y})
	if err != nil {
		a.invalid++
		return fmt.Errorf("body %d: %w", a.n-1, err)
	}
	a.env = env
	a.placed += b.Mass
	a.mx += b.Mass * b.Position.X
	a.my += b.Mass * b.Position.Y
	return nil
}

// Observe passes bodies through unchanged while adding each to the totals.
func (a *Accumulator) Observe(bodies iter.Seq[core.Body]) iter.Seq[core.Body] {
	return func(yield func(core.Body) bool) {
		for b := range bodies {
			// invalid positions are tallied in Summary().Invalid
			_ = a.Add(b)
			if !yield(b) {
				return
			}
		}
	}
}

// Summary returns the totals so far. The centre of mass is empty until
// some mass has been added.
func (a *Accumulator) Summary() Summary {
	s := Summary{
		Bodies:       a.n,
		TotalMass:    a.mass,
		CenterOfMass: geom.NewEmptyPoint(geom.DimXY),
		Bounds:       a.env,
		MaxSpeed:     a.maxSpeed,
		Invalid:      a.invalid,
	}
	if a.placed > 0 {
		// weighted sums can still overflow to Inf; leave the point empty then
		if p, err := geom.NewPoint(geom.Coordinates{
			XY:   geom.XY{X: a.mx / a.placed, Y: a.my / a.placed},
			Type: geom.DimXY,
		}); err == nil {
			s.CenterOfMass = p
		}
	}
	return s
}

// Summarize folds a whole dataset.
func Summarize(ds core.Dataset) Summary {
	var a Accumulator
	for _, b := range ds {
		_ = a.Add(b)
	}
	return a.Summary()
}

package scenario

import (
	"iter"

	"github.com/galaxygarden/nbody-datagen/internal/rng"
	"github.com/galaxygarden/nbody-datagen/pkg/core"
)

// Stars ranges. Mass in solar masses, length in light-years, time in millennia.
var (
	StarsMass     = Range{Min: 0.1, Max: 120}
	StarsPosition = Range{Min: 0, Max: 10000}
	StarsVelocity = Range{Min: 0, Max: 5}
)

func starsUniform() Scenario {
	return Scenario{
		ID:          StarsUniform,
		Description: "independent stars, uniform mass, position and velocity",
		Units:       Units{Mass: "solar mass", Length: "light-year", Time: "millennium"},
		Sample:      sampleStars,
	}
}

func sampleStars(n int, src rng.Source) iter.Seq[core.Body] {
	return func(yield func(core.Body) bool) {
		for range n {
			b := core.Body{Mass: StarsMass.Draw(src)}
			b.Position.X, b.Position.Y = rng.UniformVec(src, StarsPosition.Min, StarsPosition.Max)
			b.Velocity.X, b.Velocity.Y = rng.UniformVec(src, StarsVelocity.Min, StarsVelocity.Max)
			if !yield(b) {
				return
			}
		}
	}
}

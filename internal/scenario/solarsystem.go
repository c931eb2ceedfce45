package scenario

import (
	"iter"
	"math"

	"github.com/galaxygarden/nbody-datagen/internal/rng"
	"github.com/galaxygarden/nbody-datagen/pkg/core"
)

// Solar system ranges. Mass in Earth masses, length in AU, time in Earth days.
var (
	SolarDensity  = Range{Min: 4e11, Max: 3e12}
	SolarMass     = Range{Min: 0.001, Max: 200}
	SolarPosition = Range{Min: 0, Max: 80}
	SolarVelocity = Range{Min: 0, Max: 0.05}
)

// CentralBody is the sun-like first record, parked at the domain centre.
var CentralBody = core.Body{
	Mass:     333000,
	Radius:   0.00465047,
	Position: core.Vec2{X: SolarPosition.Mid(), Y: SolarPosition.Mid()},
}

func solarSystemUniform() Scenario {
	return Scenario{
		ID:          SolarSystemUniform,
		Description: "fixed central star plus uniform planets with sphere radii",
		Units:       Units{Mass: "Earth mass", Length: "astronomical unit", Time: "Earth day"},
		Sample:      sampleSolarSystem,
	}
}

// SphereRadius is the radius of a uniform sphere of the given mass and density.
func SphereRadius(mass, density float64) float64 {
	return math.Cbrt(3 * mass / (4 * math.Pi * density))
}

// SphereDensity inverts SphereRadius.
func SphereDensity(mass, radius float64) float64 {
	return 3 * mass / (4 * math.Pi * radius * radius * radius)
}

// The central body counts against n; n == 0 yields nothing.
func sampleSolarSystem(n int, src rng.Source) iter.Seq[core.Body] {
	return func(yield func(core.Body) bool) {
		if n < 1 {
			return
		}
		if !yield(CentralBody) {
			return
		}
		for range n - 1 {
			density := SolarDensity.Draw(src)
			b := core.Body{Mass: SolarMass.Draw(src)}
			b.Radius = SphereRadius(b.Mass, density)
			b.Position.X, b.Position.Y = rng.UniformVec(src, SolarPosition.Min, SolarPosition.Max)
			b.Velocity.X, b.Velocity.Y = rng.UniformVec(src, SolarVelocity.Min, SolarVelocity.Max)
			if !yield(b) {
				return
			}
		}
	}
}

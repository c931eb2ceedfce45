// pkg/core/body.go
package core

// Vec2 is a pair of scenario-unit reals (position or velocity).
type Vec2 struct {
	X float64
	Y float64
}

// Body is the initial state of one point mass.
// Radius 0 means the consumer ignores it.
type Body struct {
	Mass     float64
	Radius   float64
	Position Vec2
	Velocity Vec2
}

// Dataset is an ordered set of bodies in generation order.
type Dataset []Body

package scenario

import "github.com/galaxygarden/nbody-datagen/internal/rng"

// Range is a closed interval sampled uniformly.
type Range struct {
	Min float64
	Max float64
}

// Draw samples the range once.
func (r Range) Draw(src rng.Source) float64 {
	return rng.Uniform(src, r.Min, r.Max)
}

// Mid is the centre of the range.
func (r Range) Mid() float64 {
	return (r.Min + r.Max) / 2
}

// Contains reports whether v lies inside the range, bounds included.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Package rng provides the random source used by scenario sampling.
package rng

import (
	"crypto/rand"
	"encoding/binary"
	randv2 "math/rand/v2"
)

// Source is the capability sampling policies draw from.
// *randv2.Rand satisfies it.
type Source interface {
	Float64() float64
}

// New returns a PCG generator and the seed it was built from.
// A zero seed draws a fresh one from system entropy, so the returned
// seed can be logged and fed back in to reproduce the run.
func New(seed uint64) (*randv2.Rand, uint64) {
	if seed == 0 {
		seed = entropySeed()
	}
	return randv2.New(randv2.NewPCG(seed, 0)), seed
}

func entropySeed() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("failed to seed PRNG: " + err.Error())
	}
	seed := binary.LittleEndian.Uint64(b[:])
	if seed == 0 {
		seed = 1
	}
	return seed
}

// Uniform draws from U(lo, hi).
func Uniform(src Source, lo, hi float64) float64 {
	return lo + (hi-lo)*src.Float64()
}

// UniformVec draws both components independently from U(lo, hi).
func UniformVec(src Source, lo, hi float64) (float64, float64) {
	x := Uniform(src, lo, hi)
	y := Uniform(src, lo, hi)
	return x, y
}

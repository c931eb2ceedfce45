package scenario

import (
	"testing"

	"github.com/galaxygarden/nbody-datagen/internal/rng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStars_CountAndRanges(t *testing.T) {
	s, err := Builtin().Lookup(string(StarsUniform))
	require.NoError(t, err)

	for _, n := range []int{0, 1, 7, 2500} {
		src, _ := rng.New(uint64(n) + 1)
		ds := s.Generate(n, src)
		require.Len(t, ds, n)

		for i, b := range ds {
			assert.True(t, StarsMass.Contains(b.Mass), "body %d mass %v", i, b.Mass)
			assert.Zero(t, b.Radius, "body %d radius", i)
			assert.True(t, StarsPosition.Contains(b.Position.X), "body %d x", i)
			assert.True(t, StarsPosition.Contains(b.Position.Y), "body %d y", i)
			assert.True(t, StarsVelocity.Contains(b.Velocity.X), "body %d vx", i)
			assert.True(t, StarsVelocity.Contains(b.Velocity.Y), "body %d vy", i)
		}
	}
}

func TestStars_SameSeedSameDataset(t *testing.T) {
	s, err := Builtin().Lookup(string(StarsUniform))
	require.NoError(t, err)

	a, _ := rng.New(99)
	b, _ := rng.New(99)
	assert.Equal(t, s.Generate(50, a), s.Generate(50, b))
}

func TestStars_StopsWhenConsumerStops(t *testing.T) {
	src, _ := rng.New(5)
	seen := 0
	for range sampleStars(100, src) {
		seen++
		if seen == 3 {
			break
		}
	}
	assert.Equal(t, 3, seen)
}

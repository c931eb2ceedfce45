package scenario

import (
	"errors"
	"iter"
	"testing"

	"github.com/galaxygarden/nbody-datagen/internal/rng"
	"github.com/galaxygarden/nbody-datagen/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin_IDs(t *testing.T) {
	ids := Builtin().IDs()
	assert.Equal(t, []ID{SolarSystemUniform, StarsUniform}, ids)
}

func TestLookup(t *testing.T) {
	r := Builtin()

	s, err := r.Lookup("stars_uniform")
	require.NoError(t, err)
	assert.Equal(t, StarsUniform, s.ID)
	assert.Equal(t, "solar mass", s.Units.Mass)

	s, err = r.Lookup("solarsystem_uniform")
	require.NoError(t, err)
	assert.Equal(t, SolarSystemUniform, s.ID)
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Builtin().Lookup("galaxy_spiral")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownScenario))
	assert.Contains(t, err.Error(), `"galaxy_spiral"`)
}

func TestRegister_Rejects(t *testing.T) {
	noop := func(int, rng.Source) iter.Seq[core.Body] {
		return func(func(core.Body) bool) {}
	}

	r, err := NewRegistry()
	require.NoError(t, err)

	assert.Error(t, r.Register(Scenario{Sample: noop}), "empty id")
	assert.Error(t, r.Register(Scenario{ID: "x"}), "nil sampler")
	require.NoError(t, r.Register(Scenario{ID: "x", Sample: noop}))
	assert.Error(t, r.Register(Scenario{ID: "x", Sample: noop}), "duplicate")

	_, err = NewRegistry(Scenario{ID: "y", Sample: noop}, Scenario{ID: "y", Sample: noop})
	assert.Error(t, err)
}

func TestRegister_NewScenarioIsDispatchable(t *testing.T) {
	r := Builtin()
	require.NoError(t, r.Register(Scenario{
		ID: "single_rock",
		Sample: func(n int, _ rng.Source) iter.Seq[core.Body] {
			return func(yield func(core.Body) bool) {
				for range n {
					if !yield(core.Body{Mass: 1}) {
						return
					}
				}
			}
		},
	}))

	s, err := r.Lookup("single_rock")
	require.NoError(t, err)
	assert.Len(t, s.Generate(3, nil), 3)
}

func TestRange(t *testing.T) {
	r := Range{Min: 0, Max: 80}
	assert.Equal(t, 40.0, r.Mid())
	assert.True(t, r.Contains(0))
	assert.True(t, r.Contains(80))
	assert.False(t, r.Contains(80.0001))
	assert.False(t, r.Contains(-1))
}

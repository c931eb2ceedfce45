// Package scenario holds the named sampling policies that produce datasets.
package scenario

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"sort"

	"github.com/galaxygarden/nbody-datagen/internal/rng"
	"github.com/galaxygarden/nbody-datagen/pkg/core"
)

// ID identifies a scenario on the command line and in file names.
type ID string

const (
	StarsUniform       ID = "stars_uniform"
	SolarSystemUniform ID = "solarsystem_uniform"

	// Default is used when no scenario is given.
	Default = StarsUniform
)

// ErrUnknownScenario is returned by Lookup for identifiers not in the registry.
var ErrUnknownScenario = errors.New("unknown scenario")

// Units names the unit system a scenario's numbers are expressed in.
type Units struct {
	Mass   string
	Length string
	Time   string
}

// SampleFunc yields exactly n bodies drawn from src.
type SampleFunc func(n int, src rng.Source) iter.Seq[core.Body]

// Scenario is one registered sampling policy.
type Scenario struct {
	ID          ID
	Description string
	Units       Units
	Sample      SampleFunc
}

// Generate collects a whole dataset in memory.
func (s Scenario) Generate(n int, src rng.Source) core.Dataset {
	return core.Dataset(slices.Collect(s.Sample(n, src)))
}

// Registry maps scenario identifiers to their sampling policies.
type Registry struct {
	scenarios map[ID]Scenario
}

// NewRegistry creates a registry holding the given scenarios.
func NewRegistry(scenarios ...Scenario) (*Registry, error) {
	r := &Registry{scenarios: make(map[ID]Scenario, len(scenarios))}
	for _, s := range scenarios {
		if err := r.Register(s); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Builtin returns a registry with every scenario shipped with the generator.
func Builtin() *Registry {
	r, err := NewRegistry(starsUniform(), solarSystemUniform())
	if err != nil {
		panic(err)
	}
	return r
}

// Register adds a scenario. Identifiers must be unique and non-empty.
func (r *Registry) Register(s Scenario) error {
	if s.ID == "" {
		return errors.New("scenario id is empty")
	}
	if s.Sample == nil {
		return fmt.Errorf("scenario %s has no sampler", s.ID)
	}
	if _, exists := r.scenarios[s.ID]; exists {
		return fmt.Errorf("scenario %s already registered", s.ID)
	}
	r.scenarios[s.ID] = s
	return nil
}

// Lookup resolves an identifier to its scenario.
func (r *Registry) Lookup(id string) (Scenario, error) {
	s, ok := r.scenarios[ID(id)]
	if !ok {
		return Scenario{}, fmt.Errorf("%w: %q", ErrUnknownScenario, id)
	}
	return s, nil
}

// IDs returns the registered identifiers, sorted.
func (r *Registry) IDs() []ID {
	ids := make([]ID, 0, len(r.scenarios))
	for id := range r.scenarios {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// All returns the registered scenarios ordered by identifier.
func (r *Registry) All() []Scenario {
	ids := r.IDs()
	out := make([]Scenario, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.scenarios[id])
	}
	return out
}

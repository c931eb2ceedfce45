// Package generator runs one dataset generation: resolve the scenario, sample
// bodies, write them out and report the run to the configured sinks.
package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/galaxygarden/nbody-datagen/internal/database"
	"github.com/galaxygarden/nbody-datagen/internal/geo"
	"github.com/galaxygarden/nbody-datagen/internal/influx"
	"github.com/galaxygarden/nbody-datagen/internal/otel"
	"github.com/galaxygarden/nbody-datagen/internal/rng"
	"github.com/galaxygarden/nbody-datagen/internal/scenario"
	"github.com/galaxygarden/nbody-datagen/internal/storage"
	"github.com/galaxygarden/nbody-datagen/internal/util"
	"github.com/galaxygarden/nbody-datagen/pkg/core"
)

// ErrUsage marks missing or malformed command line parameters.
var ErrUsage = errors.New("usage error")

// ErrUnknownScenario is re-exported so callers need only this package.
var ErrUnknownScenario = scenario.ErrUnknownScenario

// Request is one generation job.
type Request struct {
	BodyCount int
	Scenario  string
	// Seed 0 draws from system entropy.
	Seed uint64
	// Compress only affects the file name; the backend does the compressing.
	Compress bool
}

// Result describes a finished run.
type Result struct {
	Scenario scenario.ID
	Seed     uint64
	Written  storage.Result
	Summary  geo.Summary
	Duration time.Duration
}

// Dependencies holds everything a Generator needs. Catalog, Influx and
// Instruments are optional.
type Dependencies struct {
	Registry    *scenario.Registry
	Backend     storage.Backend
	Logger      *slog.Logger
	Catalog     *database.Manager
	Influx      *influx.Manager
	Instruments *otel.Instruments
	// Source overrides the seeded generator, for tests.
	Source rng.Source
	Now    func() time.Time
}

// Generator produces datasets.
type Generator struct {
	deps Dependencies
}

// New creates a Generator.
func New(deps Dependencies) *Generator {
	if deps.Registry == nil {
		deps.Registry = scenario.Builtin()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Generator{deps: deps}
}

// ParseBodyCount parses a non-negative decimal body count.
func ParseBodyCount(s string) (int, error) {
	n, err := strconv.ParseInt(s, 10, strconv.IntSize)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: body count must be a non-negative integer, got %q", ErrUsage, s)
	}
	return int(n), nil
}

// Run generates and stores one dataset. The scenario is resolved before any
// file is touched, so an unknown scenario leaves the output directory as is.
func (g *Generator) Run(ctx context.Context, req Request) (*Result, error) {
	if req.BodyCount < 0 {
		return nil, fmt.Errorf("%w: negative body count %d", ErrUsage, req.BodyCount)
	}
	sc, err := g.deps.Registry.Lookup(req.Scenario)
	if err != nil {
		return nil, err
	}

	var (
		src  rng.Source
		seed uint64
	)
	if g.deps.Source != nil {
		src, seed = g.deps.Source, req.Seed
	} else {
		src, seed = rng.New(req.Seed)
	}

	name := util.DatasetFileName(string(sc.ID), int64(req.BodyCount), req.Compress)
	log := g.deps.Logger.With("scenario", sc.ID, "bodies", req.BodyCount, "seed", seed)
	log.Debug("Generating dataset", "file", name)

	start := g.deps.Now()
	var acc geo.Accumulator
	written, err := g.deps.Backend.Write(ctx, name, acc.Observe(sc.Sample(req.BodyCount, src)))
	if err != nil {
		return nil, fmt.Errorf("failed to write dataset: %w", err)
	}
	finished := g.deps.Now()

	res := &Result{
		Scenario: sc.ID,
		Seed:     seed,
		Written:  written,
		Summary:  acc.Summary(),
		Duration: finished.Sub(start),
	}
	log.Info("Wrote dataset",
		"path", written.Path,
		"bytes", written.Bytes,
		"total_mass", res.Summary.TotalMass,
		"duration", res.Duration,
	)
	if res.Summary.Invalid > 0 {
		log.Warn("Bodies with non-finite positions left out of the summary", "count", res.Summary.Invalid)
	}

	g.report(ctx, log, req, res, finished)
	return res, nil
}

// report pushes the run to the optional sinks. Failures are logged only:
// the dataset file is already in place.
func (g *Generator) report(ctx context.Context, log *slog.Logger, req Request, res *Result, finished time.Time) {
	stats := core.RunStats{
		Scenario:   string(res.Scenario),
		Bodies:     res.Written.Bodies,
		Bytes:      res.Written.Bytes,
		TotalMass:  res.Summary.TotalMass,
		Compressed: req.Compress,
		Duration:   res.Duration,
		Finished:   finished,
	}

	if g.deps.Instruments != nil {
		g.deps.Instruments.RecordRun(ctx, stats)
	}

	if g.deps.Influx != nil {
		if err := g.deps.Influx.WriteRun(ctx, stats); err != nil {
			log.Warn("Failed to write run metrics", "error", err)
		}
	}

	if g.deps.Catalog != nil {
		run := catalogRun(req, res)
		if err := g.deps.Catalog.RecordRun(ctx, run); err != nil {
			log.Warn("Failed to record run in catalog", "error", err)
		} else {
			log.Debug("Recorded run in catalog", "id", run.ID)
		}
	}
}

func catalogRun(req Request, res *Result) *database.Run {
	params, _ := json.Marshal(map[string]any{
		"requested_seed": req.Seed,
		"compress":       req.Compress,
		"max_speed":      res.Summary.MaxSpeed,
	})
	run := &database.Run{
		Scenario:   string(res.Scenario),
		BodyCount:  res.Written.Bodies,
		OutputPath: res.Written.Path,
		Seed:       strconv.FormatUint(res.Seed, 10),
		Compressed: req.Compress,
		Bytes:      res.Written.Bytes,
		TotalMass:  res.Summary.TotalMass,
		Bounds:     res.Summary.BoundsWKT(),
		DurationMs: res.Duration.Milliseconds(),
		Params:     params,
	}
	if !res.Summary.CenterOfMass.IsEmpty() {
		run.CenterOfMass = res.Summary.CenterOfMass.AsText()
	}
	return run
}

package database

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/galaxygarden/nbody-datagen/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(config.CatalogConfig{Type: "sqlite", SQLitePath: ":memory:"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, m.Connect())
	require.NoError(t, m.Setup())
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestRecordRun_AssignsID(t *testing.T) {
	m := newTestManager(t)

	run := &Run{
		Scenario:   "stars_uniform",
		BodyCount:  1000,
		OutputPath: "2d/stars_uniform_1k.data",
		Seed:       "42",
		TotalMass:  60050.5,
		Params:     datatypes.JSON(`{"compress":false}`),
	}
	require.NoError(t, m.RecordRun(context.Background(), run))
	assert.NotZero(t, run.ID)
	assert.False(t, run.CreatedAt.IsZero())
}

func TestRecentRuns(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	for _, s := range []string{"stars_uniform", "solarsystem_uniform", "stars_uniform"} {
		require.NoError(t, m.RecordRun(ctx, &Run{Scenario: s, BodyCount: 10}))
	}

	runs, err := m.RecentRuns(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Greater(t, runs[0].ID, runs[1].ID, "newest first")

	runs, err = m.RecentRuns(ctx, "stars_uniform", 10)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	runs, err = m.RecentRuns(ctx, "", 1)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestConnect_UnknownType(t *testing.T) {
	m := NewManager(config.CatalogConfig{Type: "oracle"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	err := m.Connect()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown catalog type")
	assert.NoError(t, m.Close())
}

func TestPostgresDSN(t *testing.T) {
	dsn := PostgresDSN(config.PostgresConfig{
		Host: "db", Port: "5433", Username: "u", Password: "p", Database: "runs",
	})
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=runs sslmode=disable", dsn)
}

package influx

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/galaxygarden/nbody-datagen/internal/config"
	"github.com/galaxygarden/nbody-datagen/pkg/core"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunPoint(t *testing.T) {
	finished := time.Unix(1700000000, 0)
	p := RunPoint(core.RunStats{
		Scenario:  "stars_uniform",
		Bodies:    1000,
		Bytes:     64000,
		TotalMass: 60000.5,
		Duration:  1500 * time.Millisecond,
		Finished:  finished,
	})

	assert.Equal(t, Measurement, p.Name())
	line := influxdb2_write.PointToLineProtocol(p, time.Second)
	assert.Contains(t, line, "dataset_generation,compressed=false,scenario=stars_uniform ")
	assert.Contains(t, line, "bodies=1000i")
	assert.Contains(t, line, "bytes=64000i")
	assert.Contains(t, line, "duration_ms=1500i")
	assert.Contains(t, line, "total_mass=60000.5")
	assert.Contains(t, line, " 1700000000")
}

func TestConnect_Disabled(t *testing.T) {
	m := NewManager(config.InfluxConfig{Enabled: false}, discard())
	assert.ErrorIs(t, m.Connect(context.Background()), ErrDisabled)
	m.Close()
}

func TestWriteRun_NotConnected(t *testing.T) {
	m := NewManager(config.InfluxConfig{}, discard())
	require.Error(t, m.WriteRun(context.Background(), core.RunStats{}))
}

func TestServerURL(t *testing.T) {
	m := NewManager(config.InfluxConfig{Protocol: "https", Host: "metrics.local", Port: "8086"}, discard())
	assert.Equal(t, "https://metrics.local:8086", m.ServerURL())
}

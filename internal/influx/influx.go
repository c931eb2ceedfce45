// Package influx pushes one point per generation run to InfluxDB.
package influx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/galaxygarden/nbody-datagen/internal/config"
	"github.com/galaxygarden/nbody-datagen/pkg/core"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement is the InfluxDB measurement runs are written to.
const Measurement = "dataset_generation"

// ErrDisabled is returned by Connect when influx.enabled is false.
var ErrDisabled = errors.New("influx is disabled")

// Manager handles the InfluxDB connection.
type Manager struct {
	Client influxdb2.Client
	Writer influxdb2_api.WriteAPIBlocking
	cfg    config.InfluxConfig
	log    *slog.Logger
}

// NewManager creates a new InfluxDB manager.
func NewManager(cfg config.InfluxConfig, log *slog.Logger) *Manager {
	return &Manager{cfg: cfg, log: log}
}

// ServerURL is the base URL built from protocol, host and port.
func (m *Manager) ServerURL() string {
	return fmt.Sprintf("%s://%s:%s", m.cfg.Protocol, m.cfg.Host, m.cfg.Port)
}

// Connect creates the client and checks the server is reachable.
func (m *Manager) Connect(ctx context.Context) error {
	if !m.cfg.Enabled {
		return ErrDisabled
	}

	m.Client = influxdb2.NewClientWithOptions(
		m.ServerURL(),
		m.cfg.Token,
		influxdb2.DefaultOptions().SetBatchSize(1),
	)

	running, err := m.Client.Ping(ctx)
	if err != nil || !running {
		m.Client.Close()
		m.Client = nil
		if err == nil {
			err = errors.New("server not running")
		}
		return fmt.Errorf("failed to reach influxdb at %s: %w", m.ServerURL(), err)
	}

	m.Writer = m.Client.WriteAPIBlocking(m.cfg.Org, m.cfg.Bucket)
	m.log.Debug("Connected to InfluxDB", "url", m.ServerURL(), "bucket", m.cfg.Bucket)
	return nil
}

// RunPoint converts run stats to a line-protocol point.
func RunPoint(stats core.RunStats) *influxdb2_write.Point {
	return influxdb2.NewPoint(
		Measurement,
		map[string]string{
			"scenario":   stats.Scenario,
			"compressed": fmt.Sprint(stats.Compressed),
		},
		map[string]any{
			"bodies":      stats.Bodies,
			"bytes":       stats.Bytes,
			"total_mass":  stats.TotalMass,
			"duration_ms": stats.Duration.Milliseconds(),
		},
		stats.Finished,
	)
}

// WriteRun sends the run point synchronously.
func (m *Manager) WriteRun(ctx context.Context, stats core.RunStats) error {
	if m.Writer == nil {
		return errors.New("influx writer not connected")
	}
	if err := m.Writer.WritePoint(ctx, RunPoint(stats)); err != nil {
		return fmt.Errorf("failed to write run point: %w", err)
	}
	return nil
}

// Close shuts down the client.
func (m *Manager) Close() {
	if m.Client != nil {
		m.Client.Close()
	}
}

// Package database keeps a catalog of generation runs in SQLite or Postgres.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/galaxygarden/nbody-datagen/internal/config"
	"github.com/glebarez/sqlite"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Run is one generated dataset as recorded in the catalog.
type Run struct {
	ID           uint      `gorm:"primarykey"`
	CreatedAt    time.Time `gorm:"index"`
	Scenario     string    `gorm:"size:64;index"`
	BodyCount    int64
	OutputPath   string
	Seed         string `gorm:"size:20"`
	Compressed   bool
	Bytes        int64
	TotalMass    float64
	CenterOfMass string
	Bounds       string
	DurationMs   int64
	Params       datatypes.JSON
}

// Manager handles the catalog connection.
type Manager struct {
	DB    *gorm.DB
	SqlDB *sql.DB
	cfg   config.CatalogConfig
	log   *slog.Logger
}

// NewManager creates a catalog manager. Connect must be called before use.
func NewManager(cfg config.CatalogConfig, log *slog.Logger) *Manager {
	return &Manager{cfg: cfg, log: log}
}

// PostgresDSN builds the libpq connection string for the catalog.
func PostgresDSN(cfg config.PostgresConfig) string {
	return fmt.Sprintf(`host=%s port=%s user=%s password=%s dbname=%s sslmode=disable`,
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.Database)
}

// Connect opens the configured backend and validates the connection.
func (m *Manager) Connect() error {
	gormCfg := &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	}

	var err error
	switch m.cfg.Type {
	case "postgres":
		m.log.Debug("Connecting to Postgres catalog", "host", m.cfg.Postgres.Host, "database", m.cfg.Postgres.Database)
		m.DB, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  PostgresDSN(m.cfg.Postgres),
			PreferSimpleProtocol: true,
		}), gormCfg)
	case "sqlite", "":
		m.log.Debug("Opening SQLite catalog", "path", m.cfg.SQLitePath)
		m.DB, err = gorm.Open(sqlite.Open(m.cfg.SQLitePath), gormCfg)
	default:
		return fmt.Errorf("unknown catalog type: %s", m.cfg.Type)
	}
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}

	m.SqlDB, err = m.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	if m.DB.Dialector.Name() == "sqlite" {
		// one connection keeps ":memory:" catalogs coherent
		m.SqlDB.SetMaxOpenConns(1)
	}
	if err = m.SqlDB.Ping(); err != nil {
		return fmt.Errorf("failed to validate connection: %w", err)
	}
	return nil
}

// Setup migrates the catalog schema.
func (m *Manager) Setup() error {
	if err := m.DB.AutoMigrate(&Run{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// RecordRun inserts a run and fills in its ID.
func (m *Manager) RecordRun(ctx context.Context, run *Run) error {
	if err := m.DB.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first, optionally filtered by scenario.
func (m *Manager) RecentRuns(ctx context.Context, scenario string, limit int) ([]Run, error) {
	q := m.DB.WithContext(ctx).Model(&Run{}).Order("id DESC").Limit(limit)
	if scenario != "" {
		q = q.Where("scenario = ?", scenario)
	}
	var runs []Run
	if err := q.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// Close releases the underlying connection pool.
func (m *Manager) Close() error {
	if m.SqlDB == nil {
		return nil
	}
	return m.SqlDB.Close()
}

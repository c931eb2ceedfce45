package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ConfigFileName is looked up in the config directory.
const ConfigFileName = "datagen.cfg.json"

// OutputConfig holds dataset sink settings
type OutputConfig struct {
	Type     string `json:"type" mapstructure:"type"`
	Dir      string `json:"dir" mapstructure:"dir"`
	Compress bool   `json:"compress" mapstructure:"compress"`
}

// PostgresConfig holds catalog connection settings for Postgres
type PostgresConfig struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`
}

// CatalogConfig holds the run catalog settings
type CatalogConfig struct {
	Enabled    bool           `json:"enabled" mapstructure:"enabled"`
	Type       string         `json:"type" mapstructure:"type"`
	SQLitePath string         `json:"sqlitePath" mapstructure:"sqlitePath"`
	Postgres   PostgresConfig `json:"postgres" mapstructure:"postgres"`
}

// InfluxConfig holds InfluxDB metrics settings
type InfluxConfig struct {
	Enabled  bool   `json:"enabled" mapstructure:"enabled"`
	Protocol string `json:"protocol" mapstructure:"protocol"`
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Token    string `json:"token" mapstructure:"token"`
	Org      string `json:"org" mapstructure:"org"`
	Bucket   string `json:"bucket" mapstructure:"bucket"`
}

// OTelConfig holds OpenTelemetry settings
type OTelConfig struct {
	Enabled     bool   `json:"enabled" mapstructure:"enabled"`
	ServiceName string `json:"serviceName" mapstructure:"serviceName"`
	Endpoint    string `json:"endpoint" mapstructure:"endpoint"`
	Insecure    bool   `json:"insecure" mapstructure:"insecure"`
}

// GraylogConfig holds the GELF log sink settings
type GraylogConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Address string `json:"address" mapstructure:"address"`
}

// Load sets default values, then reads the optional JSON config file and
// DATAGEN_* environment variables. configDir may be empty to skip the file.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logToFile", false)
	viper.SetDefault("logsDir", "./logs")
	viper.SetDefault("seed", 0)

	viper.SetDefault("output.type", "file")
	viper.SetDefault("output.dir", "2d")
	viper.SetDefault("output.compress", false)

	viper.SetDefault("catalog.enabled", false)
	viper.SetDefault("catalog.type", "sqlite")
	viper.SetDefault("catalog.sqlitePath", "datagen_catalog.db")
	viper.SetDefault("catalog.postgres.host", "localhost")
	viper.SetDefault("catalog.postgres.port", "5432")
	viper.SetDefault("catalog.postgres.username", "postgres")
	viper.SetDefault("catalog.postgres.password", "postgres")
	viper.SetDefault("catalog.postgres.database", "datagen")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "nbody")
	viper.SetDefault("influx.bucket", "datagen")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "nbody-datagen")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", false)

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetEnvPrefix("DATAGEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if configDir == "" {
		return nil
	}

	viper.SetConfigName(ConfigFileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetSeed returns the configured random seed; 0 means system entropy.
func GetSeed() uint64 {
	return viper.GetUint64("seed")
}

// GetOutputConfig returns the dataset sink configuration.
func GetOutputConfig() OutputConfig {
	return OutputConfig{
		Type:     viper.GetString("output.type"),
		Dir:      viper.GetString("output.dir"),
		Compress: viper.GetBool("output.compress"),
	}
}

// GetCatalogConfig returns the run catalog configuration.
func GetCatalogConfig() CatalogConfig {
	return CatalogConfig{
		Enabled:    viper.GetBool("catalog.enabled"),
		Type:       viper.GetString("catalog.type"),
		SQLitePath: viper.GetString("catalog.sqlitePath"),
		Postgres: PostgresConfig{
			Host:     viper.GetString("catalog.postgres.host"),
			Port:     viper.GetString("catalog.postgres.port"),
			Username: viper.GetString("catalog.postgres.username"),
			Password: viper.GetString("catalog.postgres.password"),
			Database: viper.GetString("catalog.postgres.database"),
		},
	}
}

// GetInfluxConfig returns the InfluxDB configuration.
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:  viper.GetBool("influx.enabled"),
		Protocol: viper.GetString("influx.protocol"),
		Host:     viper.GetString("influx.host"),
		Port:     viper.GetString("influx.port"),
		Token:    viper.GetString("influx.token"),
		Org:      viper.GetString("influx.org"),
		Bucket:   viper.GetString("influx.bucket"),
	}
}

// GetOTelConfig returns the OpenTelemetry configuration.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:     viper.GetBool("otel.enabled"),
		ServiceName: viper.GetString("otel.serviceName"),
		Endpoint:    viper.GetString("otel.endpoint"),
		Insecure:    viper.GetBool("otel.insecure"),
	}
}

// GetGraylogConfig returns the GELF sink configuration.
func GetGraylogConfig() GraylogConfig {
	return GraylogConfig{
		Enabled: viper.GetBool("graylog.enabled"),
		Address: viper.GetString("graylog.address"),
	}
}

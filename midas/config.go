package midas

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/disgoorg/snowflake/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/midasbot/midas/midas/database"
)

// LoadConfig reads the TOML config file at path.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Log        LogConfig         `toml:"log"`
	DB         database.DBConfig `toml:"db"`
	Economy    EconomyConfig     `toml:"economy"`
	MarketData MarketDataConfig  `toml:"marketdata"`
	Archive    ArchiveConfig     `toml:"archive"`
	Migration  MigrationConfig   `toml:"migration"`
	Metrics    MetricsConfig     `toml:"metrics"`
}

// String renders the config for the startup log with secrets blanked.
func (c Config) String() string {
	return fmt.Sprintf("db=%s@%s:%d/%s economy.seed=%d archive.enabled=%t metrics.addr=%s",
		c.DB.User, c.DB.Host, c.DB.Port, c.DB.Database,
		c.Economy.Seed, c.Archive.Enabled, c.Metrics.Address)
}

type LogConfig struct {
	Level slog.Level `toml:"level"`
}

// EconomyConfig tunes the simulation itself. A zero seed means every
// start draws fresh randomness; set it for reproducible runs.
type EconomyConfig struct {
	Seed            uint64         `toml:"seed"`
	BootstrapGuilds []snowflake.ID `toml:"bootstrap_guilds"`
}

type MarketDataConfig struct {
	Enabled bool `toml:"enabled"`
}

// ArchiveConfig points the cold-storage export at an S3-compatible
// bucket. Disabled leaves all history in PostgreSQL.
type ArchiveConfig struct {
	Enabled  bool   `toml:"enabled"`
	Key      string `toml:"key"`
	Secret   string `toml:"secret"`
	Region   string `toml:"region"`
	Endpoint string `toml:"endpoint"`
	Bucket   string `toml:"bucket"`
}

// MigrationConfig locates the legacy MongoDB for the one-time import.
type MigrationConfig struct {
	MongoURI  string `toml:"mongo_uri"`
	Database  string `toml:"database"`
	BatchSize int    `toml:"batch_size"`
}

type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Address string `toml:"address"`
}

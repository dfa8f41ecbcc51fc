package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
	MusicBrainz MusicBrainzConfig `toml:"musicbrainz"`
	Backfill    BackfillConfig    `toml:"backfill"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host       string `toml:"host"`
	Port       int    `toml:"port"`
	AdminToken string `toml:"admin_token"`
}

// MusicBrainzConfig contains settings for the MusicBrainz and Cover Art
// Archive lookups. Contact is embedded in the outbound User-Agent, which the
// MusicBrainz fair-use policy requires to identify the calling application.
type MusicBrainzConfig struct {
	Contact        string  `toml:"contact"`
	RequestsPerSec float64 `toml:"requests_per_sec"`
}

// BackfillConfig contains settings for the cover art backfill batch.
type BackfillConfig struct {
	BatchSize int `toml:"batch_size"`
	DelayMS   int `toml:"delay_ms"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingConfig, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, err)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

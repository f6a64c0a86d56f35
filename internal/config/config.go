package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/talgya/hex-island/internal/island"
)

// Config holds all program configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Assets   AssetsConfig   `yaml:"assets"`
	Island   island.Config  `yaml:"island"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Port        int    `yaml:"port"`
	AdminKey    string `yaml:"admin_key"`    // Bearer token for POST endpoints. Empty = POST disabled.
	RegenPerHrs int    `yaml:"regen_per_hr"` // Regenerations allowed per client per hour
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path string `yaml:"path"` // Empty = islands are not persisted
}

// AssetsConfig points at the tile model directory.
type AssetsConfig struct {
	Root string `yaml:"root"` // Empty = tile models are not resolved
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{
		Database: DatabaseConfig{Path: "data/island.db"},
		Island:   island.DefaultConfig(),
	}
	cfg.fillDefaults()
	return cfg
}

// Load reads configuration from a YAML file. Fields the file leaves out keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.fillDefaults()
	return cfg, nil
}

func (cfg *Config) fillDefaults() {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RegenPerHrs == 0 {
		cfg.Server.RegenPerHrs = 30
	}
	if cfg.Island.Size == 0 {
		cfg.Island.Size = island.DefaultConfig().Size
	}
}

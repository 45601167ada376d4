// Package config loads and validates mural.yml, the Mural instance
// configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"

	"github.com/dyluth/mural/pkg/gallery"
)

// DefaultPath is the config filename looked up in the working directory.
const DefaultPath = "mural.yml"

// MuralConfig represents the top-level mural.yml configuration
type MuralConfig struct {
	Version  string          `yaml:"version"`
	Instance string          `yaml:"instance"`
	Owner    string          `yaml:"owner"` // Administrative identity for owner-gated operations
	Redis    RedisConfig     `yaml:"redis"`
	Defaults *DefaultsConfig `yaml:"defaults,omitempty"` // Bootstrap auction defaults, seeded once per instance
}

// RedisConfig specifies the Redis connection
type RedisConfig struct {
	URL string `yaml:"url"` // e.g. redis://localhost:6379/0
}

// DefaultsConfig specifies the bootstrap auction defaults.
// Amounts are wei-scale decimal strings; duration uses Go syntax ("24h").
type DefaultsConfig struct {
	Duration            string `yaml:"duration"`
	StartingValue       string `yaml:"starting_value"`
	MinimumBidIncrement string `yaml:"minimum_bid_increment"`
}

// Validate performs strict validation on the configuration
func (c *MuralConfig) Validate() error {
	// Required: version
	if c.Version != "1.0" {
		return fmt.Errorf("unsupported version: %s (expected: 1.0)", c.Version)
	}

	if c.Instance == "" {
		return fmt.Errorf("instance is required")
	}

	if c.Owner == "" {
		return fmt.Errorf("owner is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("redis.url is required")
	}
	if _, err := redis.ParseURL(c.Redis.URL); err != nil {
		return fmt.Errorf("invalid redis.url: %w", err)
	}

	if c.Defaults != nil {
		if _, err := c.Defaults.AuctionDefaults(); err != nil {
			return err
		}
	}

	return nil
}

// AuctionDefaults parses the bootstrap defaults into gallery form.
func (d *DefaultsConfig) AuctionDefaults() (gallery.Defaults, error) {
	duration, err := time.ParseDuration(d.Duration)
	if err != nil {
		return gallery.Defaults{}, fmt.Errorf("invalid defaults.duration: %w", err)
	}

	startingValue, err := gallery.ParseAmount(d.StartingValue)
	if err != nil {
		return gallery.Defaults{}, fmt.Errorf("invalid defaults.starting_value: %w", err)
	}

	minIncrement, err := gallery.ParseAmount(d.MinimumBidIncrement)
	if err != nil {
		return gallery.Defaults{}, fmt.Errorf("invalid defaults.minimum_bid_increment: %w", err)
	}

	defaults := gallery.Defaults{
		Duration:            duration,
		StartingValue:       startingValue,
		MinimumBidIncrement: minIncrement,
	}
	if err := defaults.Validate(); err != nil {
		return gallery.Defaults{}, fmt.Errorf("invalid defaults: %w", err)
	}

	return defaults, nil
}

// RedisOptions parses the configured Redis URL into client options.
func (c *MuralConfig) RedisOptions() (*redis.Options, error) {
	opts, err := redis.ParseURL(c.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis.url: %w", err)
	}
	return opts, nil
}

// Load reads and validates mural.yml from the specified path.
// Environment variables override the file for deployment-specific values:
// MURAL_INSTANCE, MURAL_OWNER and REDIS_URL.
func Load(path string) (*MuralConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config MuralConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	applyEnvOverrides(&config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyEnvOverrides overlays environment variables on the file config.
func applyEnvOverrides(c *MuralConfig) {
	if v := os.Getenv("MURAL_INSTANCE"); v != "" {
		c.Instance = v
	}
	if v := os.Getenv("MURAL_OWNER"); v != "" {
		c.Owner = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.Redis.URL = v
	}
}

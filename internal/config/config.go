// Package config provides configuration management for the application.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/amaumene/gostremiour/internal/constants"
	"github.com/amaumene/gostremiour/pkg/pixeldrain"
	"github.com/amaumene/gostremiour/pkg/torbox"
)

const (
	// Default configuration file name
	defaultConfigFile = "config.json"
	// Default database path
	defaultDatabasePath = "./gostremiour.db"
)

// Config holds the application configuration.
// It supports loading from a JSON file and environment variables.
type Config struct {
	Port     string `json:"PORT"`
	LogLevel string `json:"LOG_LEVEL"`

	// API Keys
	TorBoxAPIKey string `json:"TORBOX_API_KEY"`

	// Sources
	MappingFile       string `json:"MAPPING_FILE"`
	PrimaryBaseURL    string `json:"PRIMARY_BASE_URL"`
	FallbackBaseURL   string `json:"FALLBACK_BASE_URL"`
	PixeldrainBaseURL string `json:"PIXELDRAIN_BASE_URL"`
	TorBoxAPIURL      string `json:"TORBOX_API_URL"`

	// Resolution tuning
	MaxPages        int      `json:"MAX_PAGES"`
	DebridPollDelay Duration `json:"DEBRID_POLL_DELAY"`
	ProbeTimeout    Duration `json:"PROBE_TIMEOUT"`

	// Storage settings
	DatabasePath    string   `json:"DATABASE_PATH"`
	CacheSize       int      `json:"CACHE_SIZE"`
	CacheTTL        Duration `json:"CACHE_TTL"`
	DebridRetention Duration `json:"DEBRID_RETENTION"`
}

// Duration is a time.Duration written as "2s" or "6h" in JSON.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"2s\": %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Port:              constants.DefaultPort,
		LogLevel:          constants.DefaultLogLevel,
		MappingFile:       constants.DefaultMappingFile,
		PrimaryBaseURL:    constants.DefaultPrimaryBaseURL,
		FallbackBaseURL:   constants.DefaultFallbackBaseURL,
		PixeldrainBaseURL: pixeldrain.DefaultBaseURL,
		TorBoxAPIURL:      torbox.DefaultBaseURL,
		MaxPages:          constants.DefaultMaxListingPages,
		DebridPollDelay:   Duration(constants.DebridPollDelay),
		ProbeTimeout:      Duration(constants.AvailabilityProbeTimeout),
		DatabasePath:      defaultDatabasePath,
		CacheSize:         constants.DefaultCacheSize,
		CacheTTL:          Duration(time.Duration(constants.DefaultCacheTTL) * time.Hour),
		DebridRetention:   Duration(constants.DebridRetention),
	}
}

// Load reads configuration from an optional JSON file and environment
// variables. Environment variables take precedence over file values.
// Returns an error if the configuration is invalid.
func Load() (*Config, error) {
	cfg := Default()

	configFile := getEnvOrDefault("CONFIG_FILE", defaultConfigFile)
	if err := cfg.loadFromFile(configFile); err != nil {
		// Ignore file not found errors
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := cfg.loadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads configuration from a JSON file.
func (c *Config) loadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, c)
}

// loadFromEnv overrides fields with the environment variables that are set.
func (c *Config) loadFromEnv() error {
	stringVars := map[string]*string{
		"PORT":                &c.Port,
		"LOG_LEVEL":           &c.LogLevel,
		"TORBOX_API_KEY":      &c.TorBoxAPIKey,
		"MAPPING_FILE":        &c.MappingFile,
		"PRIMARY_BASE_URL":    &c.PrimaryBaseURL,
		"FALLBACK_BASE_URL":   &c.FallbackBaseURL,
		"PIXELDRAIN_BASE_URL": &c.PixeldrainBaseURL,
		"TORBOX_API_URL":      &c.TorBoxAPIURL,
		"DATABASE_PATH":       &c.DatabasePath,
	}
	for key, field := range stringVars {
		if value := os.Getenv(key); value != "" {
			*field = value
		}
	}

	intVars := map[string]*int{
		"MAX_PAGES":  &c.MaxPages,
		"CACHE_SIZE": &c.CacheSize,
	}
	for key, field := range intVars {
		value := os.Getenv(key)
		if value == "" {
			continue
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: %q is not an integer", key, value)
		}
		*field = n
	}

	durationVars := map[string]*Duration{
		"DEBRID_POLL_DELAY": &c.DebridPollDelay,
		"PROBE_TIMEOUT":     &c.ProbeTimeout,
		"CACHE_TTL":         &c.CacheTTL,
		"DEBRID_RETENTION":  &c.DebridRetention,
	}
	for key, field := range durationVars {
		value := os.Getenv(key)
		if value == "" {
			continue
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*field = Duration(d)
	}

	return nil
}

// Validate checks if the configuration is valid.
// Sets default values for missing optional fields.
func (c *Config) Validate() error {
	if c.MaxPages <= 0 {
		return fmt.Errorf("MAX_PAGES must be positive, got %d", c.MaxPages)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("CACHE_SIZE must not be negative, got %d", c.CacheSize)
	}
	for name, d := range map[string]Duration{
		"DEBRID_POLL_DELAY": c.DebridPollDelay,
		"PROBE_TIMEOUT":     c.ProbeTimeout,
		"CACHE_TTL":         c.CacheTTL,
		"DEBRID_RETENTION":  c.DebridRetention,
	} {
		if d < 0 {
			return fmt.Errorf("%s must not be negative, got %s", name, d.Std())
		}
	}

	if c.Port == "" {
		c.Port = constants.DefaultPort
	}
	if c.LogLevel == "" {
		c.LogLevel = constants.DefaultLogLevel
	}
	if c.MappingFile == "" {
		c.MappingFile = constants.DefaultMappingFile
	}
	if c.PrimaryBaseURL == "" {
		c.PrimaryBaseURL = constants.DefaultPrimaryBaseURL
	}
	if c.FallbackBaseURL == "" {
		c.FallbackBaseURL = constants.DefaultFallbackBaseURL
	}
	if c.DatabasePath == "" {
		c.DatabasePath = defaultDatabasePath
	}
	c.TorBoxAPIKey = strings.TrimSpace(c.TorBoxAPIKey)

	return nil
}

// getEnvOrDefault returns environment variable value or default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

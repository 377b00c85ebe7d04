package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"seasonality-dashboard/src/models"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------

const (
	DefaultName           = "seasonality-dashboard"
	DefaultHost           = "127.0.0.1"
	DefaultGrpcPort       = 50051
	DefaultSeasonalityURL = "http://127.0.0.1:8000/get-seasonality"
	DefaultVolumeURL      = "http://127.0.0.1:8000/get-volume"
	DefaultSQLitePath     = "file::memory:?cache=shared"
	DefaultPickerYears    = 20
	DefaultTimeRange      = "all"
)

// TimeRanges lists the accepted relative window presets.
var TimeRanges = []string{"all", "90d", "30d", "7d"}

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// NewConfig creates a new Config from a YAML file, then applies .env and
// environment overrides before validating.
func NewConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
	}

	config, err := Parse(data)
	if err != nil {
		return nil, err
	}

	// A missing .env is fine
	_ = godotenv.Load()
	config.applyEnvOverrides()
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// -----------------------------------------------------------------------------

// Parse decodes YAML content without touching the environment.
func Parse(data []byte) (*Config, error) {
	var modelConfig models.MConfig
	if err := yaml.Unmarshal(data, &modelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
	}
	return &Config{MConfig: &modelConfig}, nil
}

// -----------------------------------------------------------------------------

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("DASHBOARD_HOST"); v != "" {
		c.Host = v
	}
	if v := os.Getenv("DASHBOARD_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	if v := os.Getenv("SEASONALITY_URL"); v != "" {
		c.Backend.SeasonalityURL = v
	}
	if v := os.Getenv("VOLUME_URL"); v != "" {
		c.Backend.VolumeURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("JOURNAL_DSN"); v != "" {
		if c.Storage.DBType == "postgres" {
			c.Storage.DBConnectionString = v
		} else {
			c.Storage.DBPath = v
		}
	}
}

// -----------------------------------------------------------------------------

func (c *Config) applyDefaults() {
	if c.Name == "" {
		c.Name = DefaultName
	}
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.LogLevel == "" {
		c.LogLevel = "INFO"
	}
	if c.GrpcHost == "" {
		c.GrpcHost = c.Host
	}
	if c.GrpcPort == 0 {
		c.GrpcPort = DefaultGrpcPort
	}
	if c.Backend.SeasonalityURL == "" {
		c.Backend.SeasonalityURL = DefaultSeasonalityURL
	}
	if c.Backend.VolumeURL == "" {
		c.Backend.VolumeURL = DefaultVolumeURL
	}
	if c.Selection.PickerYears <= 0 {
		c.Selection.PickerYears = DefaultPickerYears
	}
	if c.Window.DefaultTimeRange == "" {
		c.Window.DefaultTimeRange = DefaultTimeRange
	}
	if c.Storage.DBType == "" {
		c.Storage.DBType = "sqlite"
	}
	if c.Storage.DBType == "sqlite" && c.Storage.DBPath == "" {
		c.Storage.DBPath = DefaultSQLitePath
	}
}

// -----------------------------------------------------------------------------

// Validate performs basic configuration validation
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("application name cannot be empty")
	}

	if c.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}
	if c.Port <= 1024 || c.Port > 65535 {
		return fmt.Errorf("invalid server port number: %d (must be between 1025 and 65535)", c.Port)
	}
	if c.GrpcPort <= 1024 || c.GrpcPort > 65535 {
		return fmt.Errorf("invalid grpc port number: %d (must be between 1025 and 65535)", c.GrpcPort)
	}
	if c.GrpcPort == c.Port && c.GrpcHost == c.Host {
		return fmt.Errorf("grpc port %d collides with the http port", c.GrpcPort)
	}

	// Backend
	if err := validateEndpoint("seasonality_url", c.Backend.SeasonalityURL); err != nil {
		return err
	}
	if err := validateEndpoint("volume_url", c.Backend.VolumeURL); err != nil {
		return err
	}
	if c.Backend.Proxy != "" {
		if _, err := url.Parse(c.Backend.Proxy); err != nil {
			return fmt.Errorf("invalid proxy url %q: %w", c.Backend.Proxy, err)
		}
	}

	// Catalog
	if len(c.Catalog) == 0 {
		return fmt.Errorf("catalog must list at least one asset")
	}
	seen := make(map[string]struct{}, len(c.Catalog))
	for i, asset := range c.Catalog {
		if asset.Ticker == "" {
			return fmt.Errorf("catalog entry %d must have a value", i)
		}
		if asset.Label == "" {
			return fmt.Errorf("catalog entry '%s' must have a label", asset.Ticker)
		}
		if _, dup := seen[asset.Ticker]; dup {
			return fmt.Errorf("catalog lists '%s' twice", asset.Ticker)
		}
		seen[asset.Ticker] = struct{}{}
	}

	// Selection defaults
	sel := c.Selection
	if sel.DefaultTicker != "" {
		if _, ok := seen[sel.DefaultTicker]; !ok {
			return fmt.Errorf("default ticker '%s' is not in the catalog", sel.DefaultTicker)
		}
	}
	if sel.DefaultFrom < 0 || sel.DefaultTo < 0 {
		return fmt.Errorf("default years cannot be negative")
	}
	if sel.DefaultFrom != 0 && sel.DefaultTo != 0 && sel.DefaultFrom > sel.DefaultTo {
		return fmt.Errorf("default_from %d is after default_to %d", sel.DefaultFrom, sel.DefaultTo)
	}

	// Window
	if !IsTimeRange(c.Window.DefaultTimeRange) {
		return fmt.Errorf("unknown default_time_range %q (want one of %s)",
			c.Window.DefaultTimeRange, strings.Join(TimeRanges, ", "))
	}
	if c.Window.ReferenceDate != "" {
		if _, err := time.Parse("2006-01-02", c.Window.ReferenceDate); err != nil {
			return fmt.Errorf("invalid reference_date %q: %w", c.Window.ReferenceDate, err)
		}
	}

	// Storage
	switch c.Storage.DBType {
	case "sqlite":
		if c.Storage.DBPath == "" {
			return fmt.Errorf("database path cannot be empty for sqlite")
		}
	case "postgres":
		if c.Storage.DBConnectionString == "" {
			return fmt.Errorf("connection string cannot be empty for postgres")
		}
	default:
		return fmt.Errorf("unsupported database type %q", c.Storage.DBType)
	}

	// Refresh
	if c.Refresh.Cron != "" {
		if _, err := cron.ParseStandard(c.Refresh.Cron); err != nil {
			return fmt.Errorf("invalid refresh cron %q: %w", c.Refresh.Cron, err)
		}
	}

	return nil
}

// -----------------------------------------------------------------------------

// IsTimeRange reports whether preset is one of TimeRanges.
func IsTimeRange(preset string) bool {
	for _, r := range TimeRanges {
		if r == preset {
			return true
		}
	}
	return false
}

// -----------------------------------------------------------------------------

func validateEndpoint(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", field, raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) url, got %q", field, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s has no host: %q", field, raw)
	}
	return nil
}

// -----------------------------------------------------------------------------

// Save persists the current configuration to the specified YAML file path
func (c *Config) Save(configPath string) error {
	data, err := yaml.Marshal(c.MConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config to file '%s': %w", configPath, err)
	}

	return nil
}

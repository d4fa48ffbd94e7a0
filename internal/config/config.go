// Package config provides configuration management for the gamma profiler.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata" // location lookups on hosts without zoneinfo

	"github.com/spf13/viper"

	"gamma-profiler/internal/errors"
	"gamma-profiler/internal/gex"
)

// Config holds all application configuration.
type Config struct {
	Model    ModelConfig   `mapstructure:"model"`
	Profile  ProfileConfig `mapstructure:"profile"`
	Feed     FeedConfig    `mapstructure:"feed"`
	Batch    BatchConfig   `mapstructure:"batch"`
	Store    StoreConfig   `mapstructure:"store"`
	Logging  LoggingConfig `mapstructure:"logging"`
	Location string        `mapstructure:"location"`

	// Path is the file the configuration was read from. Empty when running
	// purely on defaults.
	Path string `mapstructure:"-"`
}

// ModelConfig holds exposure model parameters.
type ModelConfig struct {
	MoveBps       float64 `mapstructure:"move_bps"`
	RiskFreeRate  float64 `mapstructure:"risk_free_rate"`
	DividendYield float64 `mapstructure:"dividend_yield"`
}

// ProfileConfig holds spot grid parameters.
type ProfileConfig struct {
	Levels  int     `mapstructure:"levels"`
	Band    float64 `mapstructure:"band"`
	Workers int     `mapstructure:"workers"` // 0 = one per CPU
}

// FeedConfig holds quote feed parameters.
type FeedConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxAttempts  int           `mapstructure:"max_attempts"`
	InitialDelay time.Duration `mapstructure:"initial_delay"`

	// Consecutive transport failures before requests are refused for
	// BreakerCooldown. Zero disables the breaker.
	BreakerThreshold int           `mapstructure:"breaker_threshold"`
	BreakerCooldown  time.Duration `mapstructure:"breaker_cooldown"`
}

// BatchConfig holds batch runner parameters.
type BatchConfig struct {
	Tickers   []string `mapstructure:"tickers"`
	OutputDir string   `mapstructure:"output_dir"`
}

// StoreConfig holds run history configuration.
type StoreConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  bool   `mapstructure:"file"`
	Path  string `mapstructure:"path"`
}

// DefaultCBOEURL is the delayed quotes endpoint root.
const DefaultCBOEURL = "https://cdn.cboe.com/api/global/delayed_quotes/options"

// DefaultTickers are the underlyings the batch runner covers when none are
// configured.
var DefaultTickers = []string{"SPX", "NDX", "RUT", "SPY", "QQQ", "IWM"}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/gamma-profiler"
	}
	return filepath.Join(home, ".config", "gamma-profiler")
}

// DefaultConfigPath returns the default config file location.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.toml")
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("model.move_bps", 10.0)
	v.SetDefault("model.risk_free_rate", 0.0)
	v.SetDefault("model.dividend_yield", 0.0)

	v.SetDefault("profile.levels", gex.DefaultLevelCount)
	v.SetDefault("profile.band", gex.DefaultBand)
	v.SetDefault("profile.workers", 0)

	v.SetDefault("feed.base_url", DefaultCBOEURL)
	v.SetDefault("feed.timeout", 10*time.Second)
	v.SetDefault("feed.max_attempts", 3)
	v.SetDefault("feed.initial_delay", 250*time.Millisecond)
	v.SetDefault("feed.breaker_threshold", 5)
	v.SetDefault("feed.breaker_cooldown", 30*time.Second)

	v.SetDefault("batch.tickers", DefaultTickers)
	v.SetDefault("batch.output_dir", "reports")

	v.SetDefault("store.enabled", false)
	v.SetDefault("store.path", filepath.Join(configDir, "history.db"))

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", true)
	v.SetDefault("logging.path", filepath.Join(configDir, "logs", "gex.log"))

	v.SetDefault("location", "America/New_York")
}

// Load reads configuration from path. An empty path means the default
// config file. A missing file is replaced by a commented template and the
// defaults are used. GEX_* environment variables override file values,
// e.g. GEX_PROFILE_LEVELS=60.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath()
	}
	configDir := filepath.Dir(path)

	v := viper.New()
	setDefaults(v, configDir)
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetEnvPrefix("GEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	readFrom := path
	if err := v.ReadInConfig(); err != nil {
		if !isNotFound(err) {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		// First run: leave a template behind and carry on with defaults.
		if err := createTemplateConfig(path); err != nil {
			readFrom = ""
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Path = readFrom

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns the built-in configuration without touching the
// filesystem or environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v, DefaultConfigDir())
	cfg := &Config{}
	_ = v.Unmarshal(cfg)
	return cfg
}

func isNotFound(err error) bool {
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		return true
	}
	// SetConfigFile reports a missing explicit file as a plain fs error.
	return os.IsNotExist(err) || errors.Is(err, os.ErrNotExist)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Model.MoveBps <= 0 {
		return invalid("model.move_bps must be positive")
	}
	if c.Profile.Levels < 2 {
		return invalid("profile.levels must be at least 2")
	}
	if c.Profile.Band <= 0 || c.Profile.Band >= 1 {
		return invalid("profile.band must be between 0 and 1 (exclusive)")
	}
	if c.Profile.Workers < 0 {
		return invalid("profile.workers must be non-negative")
	}
	if c.Feed.BaseURL == "" {
		return invalid("feed.base_url is required")
	}
	if c.Feed.Timeout <= 0 {
		return invalid("feed.timeout must be positive")
	}
	if c.Feed.MaxAttempts < 1 {
		return invalid("feed.max_attempts must be at least 1")
	}
	if c.Feed.BreakerThreshold < 0 {
		return invalid("feed.breaker_threshold must be non-negative")
	}
	if c.Feed.BreakerThreshold > 0 && c.Feed.BreakerCooldown <= 0 {
		return invalid("feed.breaker_cooldown must be positive when the breaker is enabled")
	}
	if c.Store.Enabled && c.Store.Path == "" {
		return invalid("store.path is required when store.enabled is set")
	}
	if _, err := c.EvaluationLocation(); err != nil {
		return invalid(fmt.Sprintf("location %q: %v", c.Location, err))
	}
	return nil
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", errors.ErrConfigInvalid, msg)
}

// EvaluationLocation returns the time zone used to pick today's date.
func (c *Config) EvaluationLocation() (*time.Location, error) {
	if c.Location == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Location)
}

// Today returns the current civil date in the configured time zone.
func (c *Config) Today() time.Time {
	loc, err := c.EvaluationLocation()
	if err != nil {
		loc = time.UTC
	}
	return gex.CivilDate(time.Now().In(loc))
}

// ModelOptions returns the analysis options described by the config.
func (c *Config) ModelOptions() gex.Options {
	return gex.Options{
		Model: gex.ModelParams{
			RiskFreeRate:  c.Model.RiskFreeRate,
			DividendYield: c.Model.DividendYield,
			MoveFraction:  gex.MoveFractionFromBps(c.Model.MoveBps),
		},
		LevelCount: c.Profile.Levels,
		Band:       c.Profile.Band,
		Workers:    c.Profile.Workers,
	}
}

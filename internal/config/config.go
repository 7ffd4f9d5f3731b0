// Package config loads sitelog settings from ~/.sitelog/config.yaml with
// SITELOG_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/Tiliavir/sitelog/internal/schedule"
)

// EnvPrefix prefixes every environment override, e.g. SITELOG_API_BASE_URL.
const EnvPrefix = "SITELOG"

const (
	DefaultBaseURL         = "http://localhost:8080/api"
	DefaultTimeout         = 30 * time.Second
	DefaultRefreshInterval = time.Minute
	DefaultDataDir         = "~/.sitelog"
	DefaultLogLevel        = "warn"
)

// Config is the root configuration.
type Config struct {
	API             APIConfig         `mapstructure:"api"`
	Employee        EmployeeConfig    `mapstructure:"employee"`
	Timezone        string            `mapstructure:"timezone"`
	RefreshInterval time.Duration     `mapstructure:"refresh_interval"`
	DataDir         string            `mapstructure:"data_dir"`
	Notify          NotifyConfig      `mapstructure:"notify"`
	Log             LogConfig         `mapstructure:"log"`
	Periods         []schedule.Period `mapstructure:"periods"`
	// Token is a bearer credential supplied through SITELOG_TOKEN. It takes
	// precedence over the stored login.
	Token string `mapstructure:"token"`

	// Path is the file the configuration was read from.
	Path string `mapstructure:"-"`
}

// APIConfig locates the backend.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// EmployeeConfig identifies the acting user in submitted reports.
type EmployeeConfig struct {
	ID   string `mapstructure:"id"`
	Name string `mapstructure:"name"`
}

// NotifyConfig controls desktop notifications during watch.
type NotifyConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LogConfig controls diagnostic logging on stderr.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		API:             APIConfig{BaseURL: DefaultBaseURL, Timeout: DefaultTimeout},
		RefreshInterval: DefaultRefreshInterval,
		DataDir:         DefaultDataDir,
		Notify:          NotifyConfig{Enabled: true},
		Log:             LogConfig{Level: DefaultLogLevel},
		Periods:         schedule.DefaultPeriods(),
	}
}

// configTemplate is the annotated config written on first run.
const configTemplate = `# sitelog configuration - ~/.sitelog/config.yaml
#
# Every setting can be overridden from the environment with the SITELOG_
# prefix, e.g. SITELOG_API_BASE_URL or SITELOG_EMPLOYEE_ID.

api:
  # Base URL of the project tracking backend.
  base_url: "http://localhost:8080/api"
  # Per-request timeout.
  timeout: 30s

employee:
  # Your employee id and display name as known to the backend.
  id: ""
  name: ""

# IANA timezone whose wall clock defines the reporting periods,
# e.g. "Asia/Kolkata". Leave empty to use the system timezone.
timezone: ""

# How often "sitelog watch" re-evaluates the period states.
refresh_interval: 1m

# Drafts, the submission journal and cached project lists live here.
data_dir: "~/.sitelog"

notify:
  # Desktop notifications when a period opens, closes or is missed.
  enabled: true

log:
  # debug, info, warn or error.
  level: warn

# Reporting periods of a day. Periods must be contiguous; each one stays
# editable until 30 minutes past its end hour.
periods:
  - label: 9am-12pm
    name: Session 1
    start_hour: 9
    end_hour: 12
  - label: 12pm-3pm
    name: Session 2
    start_hour: 12
    end_hour: 15
  - label: 3pm-6pm
    name: Session 3
    start_hour: 15
    end_hour: 18
`

// DefaultPath returns ~/.sitelog/config.yaml.
func DefaultPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".sitelog", "config.yaml"), nil
}

// Load reads the configuration at path, or at DefaultPath when path is
// empty. A missing file is created from the annotated template.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}
	cfg.Path = path

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("api.base_url", cfg.API.BaseURL)
	v.SetDefault("api.timeout", cfg.API.Timeout)
	v.SetDefault("employee.id", "")
	v.SetDefault("employee.name", "")
	v.SetDefault("timezone", "")
	v.SetDefault("refresh_interval", cfg.RefreshInterval)
	v.SetDefault("data_dir", cfg.DataDir)
	v.SetDefault("notify.enabled", cfg.Notify.Enabled)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("periods", cfg.Periods)
	v.SetDefault("token", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("reading config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
		}
	}
	// Unmarshal decodes into existing slice elements, so a shorter user
	// list would keep trailing defaults.
	cfg.Periods = nil
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	cfg.Path = path

	dir, err := homedir.Expand(cfg.DataDir)
	if err != nil {
		return cfg, fmt.Errorf("expanding data_dir %q: %w", cfg.DataDir, err)
	}
	cfg.DataDir = dir
	cfg.API.BaseURL = strings.TrimSpace(cfg.API.BaseURL)
	cfg.Employee.ID = strings.TrimSpace(cfg.Employee.ID)
	if len(cfg.Periods) == 0 {
		cfg.Periods = schedule.DefaultPeriods()
	}
	return cfg, nil
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}

// Location returns the configured timezone, falling back to the system one.
func (c Config) Location() *time.Location {
	if tz := strings.TrimSpace(c.Timezone); tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return time.Local
}

// Validate reports every setting that cannot work.
func (c Config) Validate() error {
	var errs []error
	if err := schedule.Validate(c.Periods); err != nil {
		errs = append(errs, fmt.Errorf("periods: %w", err))
	}
	if tz := strings.TrimSpace(c.Timezone); tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			errs = append(errs, fmt.Errorf("timezone %q: %w", tz, err))
		}
	}
	if c.API.BaseURL != "" {
		if u, err := url.Parse(c.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("api.base_url %q is not an absolute URL", c.API.BaseURL))
		}
	}
	if c.RefreshInterval <= 0 {
		errs = append(errs, fmt.Errorf("refresh_interval must be positive, got %s", c.RefreshInterval))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("api.timeout must be positive, got %s", c.API.Timeout))
	}
	return errors.Join(errs...)
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/robfig/cron/v3"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// NOTE: This file provides the configuration model and full YAML-based
// load/save behavior, including first-run config creation and 0600
// permissions. DAYFLOW_* environment variables override file values.

const (
	defaultListen        = "127.0.0.1:8080"
	defaultLocale        = "en"
	defaultRefresh       = "@every 30s"
	defaultUpcomingLimit = 3
	defaultAgendaDays    = 7
	defaultCaptureCron   = "*/15 * * * *"
	defaultCaptureOutput = "./cache/preview.png"
	defaultCaptureWidth  = 1304
	defaultCaptureHeight = 984
)

// LogConfig controls log level and optional file output.
type LogConfig struct {
	Level string `yaml:"level" json:"level" env:"DAYFLOW_LOG_LEVEL"`
	// File, if set, receives a copy of all log lines with size-based rotation.
	File       string `yaml:"file,omitempty" json:"file,omitempty" env:"DAYFLOW_LOG_FILE"`
	MaxSizeMB  int    `yaml:"max_size_mb,omitempty" json:"max_size_mb,omitempty"`
	MaxBackups int    `yaml:"max_backups,omitempty" json:"max_backups,omitempty"`
	MaxAgeDays int    `yaml:"max_age_days,omitempty" json:"max_age_days,omitempty"`
}

// CaptureConfig controls headless screenshots of the dashboard.
type CaptureConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled" env:"DAYFLOW_CAPTURE"`
	// Cron is the capture schedule (standard 5-field or @every descriptor).
	Cron string `yaml:"cron" json:"cron"`
	// URL defaults to the dashboard on the listen address.
	URL    string `yaml:"url,omitempty" json:"url,omitempty"`
	Output string `yaml:"output" json:"output"`
	Width  int    `yaml:"width" json:"width"`
	Height int    `yaml:"height" json:"height"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the dashboard.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the dashboard and API.
	Listen string `yaml:"listen" json:"listen" env:"DAYFLOW_LISTEN"`

	// Timezone is the IANA zone whose wall clock drives the dashboard.
	// Empty or "Local" uses the host zone.
	Timezone string `yaml:"timezone" json:"timezone" env:"DAYFLOW_TIMEZONE"`

	// Locale selects number, duration and UI text formatting ("en", "bn-BD").
	Locale string `yaml:"locale" json:"locale" env:"DAYFLOW_LOCALE"`

	// Refresh is the cron spec of the dashboard tick.
	Refresh string `yaml:"refresh" json:"refresh" env:"DAYFLOW_REFRESH"`

	// Schedule is the path of a YAML or ICS schedule. Empty uses the
	// built-in schedule.
	Schedule string `yaml:"schedule,omitempty" json:"schedule,omitempty" env:"DAYFLOW_SCHEDULE"`

	// UpcomingLimit is the number of look-ahead entries.
	UpcomingLimit int `yaml:"upcoming_limit" json:"upcoming_limit" env:"DAYFLOW_UPCOMING_LIMIT"`

	// AgendaDays is the default range of /api/agenda.
	AgendaDays int `yaml:"agenda_days" json:"agenda_days"`

	Log     LogConfig     `yaml:"log" json:"log"`
	Capture CaptureConfig `yaml:"capture" json:"capture"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all endpoints
	// except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	c := &Config{}
	c.Normalize()
	return c
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = defaultListen
	}
	if c.Timezone == "" {
		c.Timezone = "Local"
	}
	if c.Locale == "" {
		c.Locale = defaultLocale
	}
	if c.Refresh == "" {
		c.Refresh = defaultRefresh
	}
	if c.UpcomingLimit <= 0 {
		c.UpcomingLimit = defaultUpcomingLimit
	}
	if c.AgendaDays <= 0 {
		c.AgendaDays = defaultAgendaDays
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.File != "" && c.Log.MaxSizeMB <= 0 {
		c.Log.MaxSizeMB = 10
	}
	if c.Capture.Cron == "" {
		c.Capture.Cron = defaultCaptureCron
	}
	if c.Capture.Output == "" {
		c.Capture.Output = defaultCaptureOutput
	}
	if c.Capture.Width <= 0 {
		c.Capture.Width = defaultCaptureWidth
	}
	if c.Capture.Height <= 0 {
		c.Capture.Height = defaultCaptureHeight
	}
}

// Validate reports values Normalize cannot repair.
func (c *Config) Validate() error {
	if _, err := cron.ParseStandard(c.Refresh); err != nil {
		return fmt.Errorf("config: refresh %q: %w", c.Refresh, err)
	}
	if c.Capture.Enabled {
		if _, err := cron.ParseStandard(c.Capture.Cron); err != nil {
			return fmt.Errorf("config: capture.cron %q: %w", c.Capture.Cron, err)
		}
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("config: timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// DashboardURL is the address the capture job screenshots. A wildcard
// listen host is dialed on loopback.
func (c *Config) DashboardURL() string {
	if c.Capture.URL != "" {
		return c.Capture.URL
	}
	host, port, err := net.SplitHostPort(c.Listen)
	if err != nil {
		return "http://" + c.Listen + "/"
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port) + "/"
}

// Load loads configuration from the given YAML path on the OS filesystem.
func Load(path string) (*Config, error) {
	return LoadFs(afero.NewOsFs(), path)
}

// LoadFs loads configuration from path on fsys.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - In both cases DAYFLOW_* environment variables are applied last and
//     defaults are normalized.
func LoadFs(fsys afero.Fs, path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	cfg := &Config{}
	data, err := afero.ReadFile(fsys, path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// First run: create default config file.
		cfg = DefaultConfig()
		if err := SaveFs(fsys, path, cfg); err != nil {
			// Even if save fails, return cfg with error so caller can decide.
			return cfg, err
		}
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: environment: %w", err)
	}
	cfg.Normalize()

	return cfg, nil
}

// Save writes cfg to path on the OS filesystem.
func Save(path string, cfg *Config) error {
	return SaveFs(afero.NewOsFs(), path, cfg)
}

// SaveFs writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Marshals cfg to YAML.
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600.
func SaveFs(fsys afero.Fs, path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := fsys.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	// Atomic write: write to temp file in same directory then rename.
	tmp, err := afero.TempFile(fsys, dir, ".dayflow-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer fsys.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := fsys.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return fsys.Rename(tmpName, path)
}

// Save is a convenience method on Config that delegates to the package-level
// Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"workdays/internal/schedule"
)

// DefaultPath is where commands look for a config file when --config is not given.
const DefaultPath = "./workdays.yaml"

// Config is the service configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Calendar CalendarConfig `yaml:"calendar"`
	Holidays HolidaysConfig `yaml:"holidays"`
	Storage  StorageConfig  `yaml:"storage"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Addr                     string `yaml:"addr"`
	ReadHeaderTimeoutSeconds int    `yaml:"readHeaderTimeoutSeconds"`
	ShutdownTimeoutSeconds   int    `yaml:"shutdownTimeoutSeconds"`
}

// CalendarConfig is the business timezone and daily schedule, clocks as HH:MM.
type CalendarConfig struct {
	Timezone   string `yaml:"timezone"`
	WorkStart  string `yaml:"workStart"`
	LunchStart string `yaml:"lunchStart"`
	LunchEnd   string `yaml:"lunchEnd"`
	WorkEnd    string `yaml:"workEnd"`
}

type HolidaysConfig struct {
	// Remote JSON array of YYYY-MM-DD dates. If empty, read from env HOLIDAYS_URL
	URL string `yaml:"url"`
	// Local file with the same payload; takes precedence over URL when set
	File           string  `yaml:"file"`
	RefreshSeconds int     `yaml:"refreshSeconds"`
	TimeoutMs      int     `yaml:"timeoutMs"`
	MaxAttempts    int     `yaml:"maxAttempts"`
	BaseBackoffMs  int     `yaml:"baseBackoffMs"`
	RPS            float64 `yaml:"rps"`
	Burst          int     `yaml:"burst"`
}

type StorageConfig struct {
	// SQLite path for the last-known-good holiday list. Empty disables it.
	DBPath string `yaml:"dbPath"`
}

type MetricsConfig struct {
	// Separate listener for /metrics. Empty serves /metrics on the API listener.
	Addr string `yaml:"addr"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the Bogota schedule and the public holiday feed.
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080", ReadHeaderTimeoutSeconds: 5, ShutdownTimeoutSeconds: 5},
		Calendar: CalendarConfig{
			Timezone:   "America/Bogota",
			WorkStart:  "08:00",
			LunchStart: "12:00",
			LunchEnd:   "13:00",
			WorkEnd:    "17:00",
		},
		Holidays: HolidaysConfig{
			URL:            "https://content.capta.co/Recruitment/WorkingDays.json",
			RefreshSeconds: 3600,
			TimeoutMs:      5000,
			MaxAttempts:    3,
			BaseBackoffMs:  500,
			RPS:            2,
			Burst:          5,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// ResolveEnv overrides fields from environment variables when they are set.
func (c *Config) ResolveEnv() {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.Server.Addr, "LISTEN_ADDR")
	set(&c.Calendar.Timezone, "BUSINESS_TZ")
	set(&c.Holidays.URL, "HOLIDAYS_URL")
	set(&c.Holidays.File, "HOLIDAYS_FILE")
	set(&c.Storage.DBPath, "HOLIDAYS_DB_PATH")
	set(&c.Metrics.Addr, "METRICS_ADDR")
	set(&c.Logging.Level, "LOG_LEVEL")
}

// Validate checks the calendar and holiday settings.
func (c Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.Schedule(); err != nil {
		return err
	}
	if c.Holidays.URL == "" && c.Holidays.File == "" {
		return errors.New("holidays: url or file is required")
	}
	if c.Holidays.RefreshSeconds < 1 {
		return fmt.Errorf("holidays.refreshSeconds must be >= 1 (got %d)", c.Holidays.RefreshSeconds)
	}
	if c.Holidays.MaxAttempts < 1 {
		return fmt.Errorf("holidays.maxAttempts must be >= 1 (got %d)", c.Holidays.MaxAttempts)
	}
	return nil
}

func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Calendar.Timezone)
	if err != nil {
		return nil, fmt.Errorf("calendar.timezone: %w", err)
	}
	return loc, nil
}

func (c Config) Schedule() (schedule.Schedule, error) {
	s, err := schedule.ParseSchedule(c.Calendar.WorkStart, c.Calendar.LunchStart, c.Calendar.LunchEnd, c.Calendar.WorkEnd)
	if err != nil {
		return schedule.Schedule{}, fmt.Errorf("calendar: %w", err)
	}
	return s, nil
}

func (c Config) RefreshInterval() time.Duration {
	return time.Duration(c.Holidays.RefreshSeconds) * time.Second
}

// Load reads YAML config from path on top of Default, then applies env overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.ResolveEnv()
	return cfg, nil
}

// LoadOrDefault is Load, except a missing file yields Default with env overrides.
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg = Default()
		cfg.ResolveEnv()
		return cfg, nil
	}
	return cfg, err
}

// Save writes YAML config to path, creating directories as needed.
func Save(path string, cfg Config) error {
	if path == "" {
		return errors.New("empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/SturdyFool10/CoreCalendar/internal/model"
)

// SnapshotConfig controls the optional headless-Chromium PNG capture of
// the rendered day sheet.
type SnapshotConfig struct {
	// Enabled turns on capture on every refresh tick.
	Enabled bool `yaml:"enabled" json:"enabled"`
	// Width / Height are the capture viewport in pixels.
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
	// Dir is where snapshot.png is written.
	Dir string `yaml:"dir" json:"dir"`
}

// Config is the top-level application configuration.
//
// Seeded calendars/events/recurring definitions are loaded into the
// in-memory store at startup; anything added over the API afterwards
// lives only for the process lifetime (there is deliberately no
// persistence layer).
type Config struct {
	// Listen is the HTTP listen address for the viewer and API.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA display timezone (e.g. "America/New_York").
	// An unloadable name falls back to UTC at use sites.
	Timezone string `yaml:"timezone" json:"timezone"`

	// RefreshCron is a cron schedule for the layout refresh tick. The
	// default runs every minute so past/future styling tracks the wall
	// clock closely enough.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// MinEventMinutes is the minimum visible height of an event on the
	// sheet, expressed in minutes of the day.
	MinEventMinutes int `yaml:"min_event_minutes" json:"min_event_minutes"`

	// Gutter is the horizontal gap between columns of overlapping
	// events, as a fraction of the sheet width.
	Gutter float64 `yaml:"gutter" json:"gutter"`

	// LogLevel is one of "debug", "info", "error".
	LogLevel string `yaml:"log_level" json:"log_level"`

	Snapshot SnapshotConfig `yaml:"snapshot" json:"snapshot"`

	// Seed data.
	Calendars []model.Calendar      `yaml:"calendars" json:"calendars"`
	Events    []model.Event         `yaml:"events" json:"events"`
	Recurring []model.RecurringEvent `yaml:"recurring" json:"recurring"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:          "127.0.0.1:8080",
		Timezone:        "UTC",
		RefreshCron:     "* * * * *",
		MinEventMinutes: 15,
		Gutter:          0.01,
		LogLevel:        "info",
		Snapshot: SnapshotConfig{
			Enabled: false,
			Width:   800,
			Height:  1200,
			Dir:     "./cache",
		},
		Calendars: []model.Calendar{},
		Events:    []model.Event{},
		Recurring: []model.RecurringEvent{},
	}
}

// Normalize fills missing/zero values with defaults so partially filled
// configs still behave.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	if c.RefreshCron == "" {
		c.RefreshCron = "* * * * *"
	}
	if c.MinEventMinutes <= 0 {
		c.MinEventMinutes = 15
	}
	if c.Gutter <= 0 || c.Gutter >= 0.5 {
		c.Gutter = 0.01
	}
	switch c.LogLevel {
	case "debug", "info", "error":
	default:
		c.LogLevel = "info"
	}
	if c.Snapshot.Width <= 0 {
		c.Snapshot.Width = 800
	}
	if c.Snapshot.Height <= 0 {
		c.Snapshot.Height = 1200
	}
	if c.Snapshot.Dir == "" {
		c.Snapshot.Dir = "./cache"
	}
	if c.Calendars == nil {
		c.Calendars = []model.Calendar{}
	}
	if c.Events == nil {
		c.Events = []model.Event{}
	}
	if c.Recurring == nil {
		c.Recurring = []model.RecurringEvent{}
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist: create the parent directory, write a
//     default config with 0600 perms, and return the default.
//   - If the file exists: read, unmarshal, normalize.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Return cfg with the error so the caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes cfg to path: parent dir 0700, atomic temp+rename, final
// perms 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".corecal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

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
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}

	return nil
}

// Save is a convenience method delegating to the package-level Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}

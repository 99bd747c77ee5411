package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration is a time.Duration that reads and writes as "2s", "1500ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config holds sysmap configuration.
type Config struct {
	Endpoint EndpointConfig `toml:"endpoint"`
	Poll     PollConfig     `toml:"poll"`
	Backoff  BackoffConfig  `toml:"backoff"`
	View     ViewConfig     `toml:"view"`
	Log      LogConfig      `toml:"log"`
}

// EndpointConfig controls backend discovery.
type EndpointConfig struct {
	Host           string   `toml:"host"` // empty: os.Hostname()
	Port           int      `toml:"port"`
	ProbeTimeout   Duration `toml:"probe_timeout"`
	RequestTimeout Duration `toml:"request_timeout"`
	Insecure       bool     `toml:"insecure"`
}

// PollConfig controls the refresh loop.
type PollConfig struct {
	Interval    Duration `toml:"interval"`
	PauseWindow Duration `toml:"pause_window"`
	AutoRefresh bool     `toml:"auto_refresh"`
}

// BackoffConfig controls retry spacing after failed polls.
type BackoffConfig struct {
	Floor   Duration `toml:"floor"`
	Factor  float64  `toml:"factor"`
	Ceiling Duration `toml:"ceiling"`
}

// ViewConfig controls the terminal view.
type ViewConfig struct {
	CameraDebounce Duration `toml:"camera_debounce"`
	Theme          string   `toml:"theme"` // "dark", "light"
}

// LogConfig controls the log file.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"` // empty: <state dir>/sysmap.log
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Endpoint: EndpointConfig{
			Port:           8787,
			ProbeTimeout:   Duration{1500 * time.Millisecond},
			RequestTimeout: Duration{10 * time.Second},
		},
		Poll: PollConfig{
			Interval:    Duration{2 * time.Second},
			PauseWindow: Duration{1200 * time.Millisecond},
			AutoRefresh: true,
		},
		Backoff: BackoffConfig{
			Floor:   Duration{2 * time.Second},
			Factor:  1.6,
			Ceiling: Duration{15 * time.Second},
		},
		View: ViewConfig{
			CameraDebounce: Duration{300 * time.Millisecond},
			Theme:          "dark",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Dir returns the sysmap config directory path.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "sysmap")
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file at path over the defaults. A missing file is
// not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Validate rejects values the poll loop cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Endpoint.Port <= 0 || c.Endpoint.Port > 65535:
		return fmt.Errorf("endpoint.port %d out of range", c.Endpoint.Port)
	case c.Endpoint.ProbeTimeout.Duration <= 0:
		return fmt.Errorf("endpoint.probe_timeout must be positive")
	case c.Poll.Interval.Duration <= 0:
		return fmt.Errorf("poll.interval must be positive")
	case c.Poll.PauseWindow.Duration < 0:
		return fmt.Errorf("poll.pause_window must not be negative")
	case c.Backoff.Floor.Duration <= 0:
		return fmt.Errorf("backoff.floor must be positive")
	case c.Backoff.Factor < 1:
		return fmt.Errorf("backoff.factor must be >= 1")
	case c.Backoff.Ceiling.Duration < c.Backoff.Floor.Duration:
		return fmt.Errorf("backoff.ceiling must be >= backoff.floor")
	case c.View.Theme != "dark" && c.View.Theme != "light":
		return fmt.Errorf("view.theme %q must be dark or light", c.View.Theme)
	}
	return nil
}

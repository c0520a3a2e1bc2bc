package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds runtime settings for the ridehail CLI.
//
// Fields:
//   - ServerURL: base URL of the auth API, e.g. http://127.0.0.1:5001.
//   - StorePath: SQLite file holding the persisted session.
//   - StoreSecret: when set, persisted values are sealed with a key derived from it.
//   - RequestTimeout: upper bound for each auth API call.
//   - ResendCooldown: how long the CLI waits before a code can be resent.
//   - DefaultCountry: ISO 3166-1 alpha-2 code offered for phone numbers.
//   - CheckTokenExpiry: drop an expired JWT on startup instead of restoring it.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	ServerURL        string
	StorePath        string
	StoreSecret      string
	RequestTimeout   time.Duration
	ResendCooldown   time.Duration
	DefaultCountry   string
	CheckTokenExpiry bool
	LogLevel         string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:5001"
	c.StorePath = defaultStorePath()
	c.StoreSecret = ""
	c.RequestTimeout = 15 * time.Second
	c.ResendCooldown = 60 * time.Second
	c.DefaultCountry = "GH"
	c.CheckTokenExpiry = true
	c.LogLevel = "info"
}

func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "session.db"
	}
	return filepath.Join(dir, "ridehail", "session.db")
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: server url %q", ErrInvalidConfig, c.ServerURL)
	}
	if c.StorePath == "" {
		return fmt.Errorf("%w: empty store path", ErrInvalidConfig)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request timeout %s", ErrInvalidConfig, c.RequestTimeout)
	}
	if c.ResendCooldown < 0 {
		return fmt.Errorf("%w: resend cooldown %s", ErrInvalidConfig, c.ResendCooldown)
	}
	if len(c.DefaultCountry) != 2 {
		return fmt.Errorf("%w: default country %q", ErrInvalidConfig, c.DefaultCountry)
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags (if present).
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

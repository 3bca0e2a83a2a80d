// Package config resolves the client's settings from flags, environment
// (SCHOLAR_*) and an optional scholar.yaml.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrMissingAuthConfig is returned when the auth gateway cannot be reached
// because its URL or key is not configured.
var ErrMissingAuthConfig = errors.New("auth gateway is not configured: set SCHOLAR_AUTH_URL and SCHOLAR_AUTH_KEY")

// Keys understood by Load. Each maps to a flag of the same name and to the
// environment variable SCHOLAR_<KEY> with dashes turned into underscores.
const (
	KeyAPIURL          = "api-url"
	KeyAPIPrefix       = "api-prefix"
	KeyAuthURL         = "auth-url"
	KeyAuthKey         = "auth-key"
	KeyDB              = "db"
	KeyLogFile         = "log-file"
	KeyLogLevel        = "log-level"
	KeyRequestTimeout  = "request-timeout"
	KeyPollInterval    = "poll-interval"
	KeyPollMaxInterval = "poll-max-interval"
	KeyPollTimeout     = "poll-timeout"
)

// Config holds all client configuration.
type Config struct {
	API  APIConfig
	Auth AuthConfig
	Poll PollConfig
	Log  LogConfig

	// DBPath is the SQLite file for durable client state. Empty means the
	// default XDG location.
	DBPath string
}

// APIConfig locates the assessment API.
type APIConfig struct {
	BaseURL string
	Prefix  string // Default: "/api"

	// RequestTimeout bounds every API call. Default: 30s.
	RequestTimeout time.Duration
}

// AuthConfig locates the auth gateway.
type AuthConfig struct {
	URL string
	Key string
}

// PollConfig drives the wait for a generated assessment.
type PollConfig struct {
	Interval    time.Duration
	MaxInterval time.Duration
	Multiplier  float64
	Timeout     time.Duration
}

// LogConfig selects the log destination.
type LogConfig struct {
	File  string
	Level string
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL:        "http://localhost:8000",
			Prefix:         "/api",
			RequestTimeout: 30 * time.Second,
		},
		Poll: PollConfig{
			Interval:    2 * time.Second,
			MaxInterval: 15 * time.Second,
			Multiplier:  1.5,
			Timeout:     5 * time.Minute,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// SetDefaults registers Default() values on v so unset keys resolve to them.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyAPIURL, d.API.BaseURL)
	v.SetDefault(KeyAPIPrefix, d.API.Prefix)
	v.SetDefault(KeyRequestTimeout, d.API.RequestTimeout)
	v.SetDefault(KeyPollInterval, d.Poll.Interval)
	v.SetDefault(KeyPollMaxInterval, d.Poll.MaxInterval)
	v.SetDefault(KeyPollTimeout, d.Poll.Timeout)
	v.SetDefault(KeyLogLevel, d.Log.Level)
}

// Load reads a Config from v, falling back to defaults for unset values.
// It does not validate; call Validate before talking to the network.
func Load(v *viper.Viper) Config {
	cfg := Default()

	if s := v.GetString(KeyAPIURL); s != "" {
		cfg.API.BaseURL = strings.TrimRight(s, "/")
	}
	if v.IsSet(KeyAPIPrefix) {
		cfg.API.Prefix = normalizePrefix(v.GetString(KeyAPIPrefix))
	}
	if d := v.GetDuration(KeyRequestTimeout); d > 0 {
		cfg.API.RequestTimeout = d
	}

	cfg.Auth.URL = strings.TrimRight(v.GetString(KeyAuthURL), "/")
	cfg.Auth.Key = v.GetString(KeyAuthKey)

	if d := v.GetDuration(KeyPollInterval); d > 0 {
		cfg.Poll.Interval = d
	}
	if d := v.GetDuration(KeyPollMaxInterval); d > 0 {
		cfg.Poll.MaxInterval = d
	}
	if d := v.GetDuration(KeyPollTimeout); d > 0 {
		cfg.Poll.Timeout = d
	}

	cfg.DBPath = v.GetString(KeyDB)
	cfg.Log.File = v.GetString(KeyLogFile)
	if s := v.GetString(KeyLogLevel); s != "" {
		cfg.Log.Level = s
	}
	return cfg
}

// Validate checks that the configuration can reach both backends.
func (c Config) Validate() error {
	if c.Auth.URL == "" || c.Auth.Key == "" {
		return ErrMissingAuthConfig
	}
	if _, err := url.ParseRequestURI(c.Auth.URL); err != nil {
		return fmt.Errorf("invalid %s %q: %w", KeyAuthURL, c.Auth.URL, err)
	}
	if _, err := url.ParseRequestURI(c.API.BaseURL); err != nil {
		return fmt.Errorf("invalid %s %q: %w", KeyAPIURL, c.API.BaseURL, err)
	}
	if c.Poll.Interval > c.Poll.MaxInterval {
		return fmt.Errorf("%s (%s) exceeds %s (%s)", KeyPollInterval, c.Poll.Interval, KeyPollMaxInterval, c.Poll.MaxInterval)
	}
	return nil
}

func normalizePrefix(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}

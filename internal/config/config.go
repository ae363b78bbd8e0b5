// Package config loads process configuration from defaults, an optional
// YAML file, and environment variables.
package config

import (
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config contains process configuration.
type Config struct {
	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DatabaseURL is the PostgreSQL connection string. Required unless
	// the in-memory store is selected.
	DatabaseURL string `koanf:"database_url"`

	// UseMemory selects the in-memory store instead of PostgreSQL, for
	// local development.
	UseMemory bool `koanf:"use_memory"`

	// AggregateDays is the default aggregation window for bulk imports:
	// high-frequency samples older than this many days collapse to one
	// value per day. 0 disables aggregation.
	AggregateDays int `koanf:"aggregate_days"`

	// OIDC SSO settings. SSO is enabled when SSOIssuer is non-empty.
	SSOIssuer       string `koanf:"sso_issuer"`
	SSOClientID     string `koanf:"sso_client_id"`
	SSOClientSecret string `koanf:"sso_client_secret"`
	SSORedirectURL  string `koanf:"sso_redirect_url"`
}

func defaults() *Config {
	return &Config{
		Addr:          ":8080",
		AggregateDays: 30,
	}
}

// Load builds a Config by layering defaults, an optional YAML file, and
// env vars. Order of precedence (low -> high):
//  1. defaults
//  2. file (YAML) if HV_CONFIG is set
//  3. env (prefix HV_), e.g. HV_ADDR, HV_DATABASE_URL
//
// DATABASE_URL is also honored, for container setups that inject it bare.
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv("HV_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	envProvider := env.Provider("HV_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "hv_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *defaults()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	if cfg.Addr == "" {
		return nil, errors.New("addr must not be empty")
	}
	if !cfg.UseMemory && cfg.DatabaseURL == "" {
		return nil, errors.New("database_url is required (or set use_memory)")
	}
	if cfg.AggregateDays < 0 {
		return nil, errors.New("aggregate_days must be >= 0")
	}
	return &cfg, nil
}

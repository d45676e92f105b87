package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds process environment settings
type Env struct {
	ConfigFile     string `env:"SW_CACHE_CONFIG_FILE" envDefault:"/app/sw_cache.yaml"`
	RulesFile      string `env:"SW_CACHE_RULES_FILE" envDefault:"/app/cache_rules.yaml"`
	KeyDBURL       string `env:"KEYDB_URL"`
	KeyDBURLFile   string `env:"CACHE_KEYDB_URL_FILE" envDefault:"/app/.keydb-url"`
	Generation     string `env:"SW_CACHE_GENERATION"`
	ListenAddr     string `env:"SW_CACHE_LISTEN_ADDR"`
	AdminAddr      string `env:"SW_CACHE_ADMIN_ADDR"`
	AdminJWTSecret string `env:"SW_CACHE_ADMIN_JWT_SECRET"`
	OTelEndpoint   string `env:"SW_CACHE_OTEL_ENDPOINT"`
	OTelEnabled    bool   `env:"SW_CACHE_OTEL_ENABLED" envDefault:"true"`
}

// ParseEnv loads Env from environment variables
func ParseEnv() (*Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &e, nil
}

// ApplyEnv overrides file settings with non-empty environment values
func (c *Config) ApplyEnv(e *Env) {
	if e == nil {
		return
	}
	if e.Generation != "" {
		c.Generation = e.Generation
	}
	if e.ListenAddr != "" {
		c.Server.ListenAddr = e.ListenAddr
	}
	if e.AdminAddr != "" {
		c.Server.AdminAddr = e.AdminAddr
	}
	if e.AdminJWTSecret != "" {
		c.Admin.JWTSecret = e.AdminJWTSecret
	}
}

// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config reads the runtime settings from the environment with
caarlos0/env.

	cfg, err := config.Load()

The JWT signing key is not part of [Config]. It lives in the secret store
(package secret), so a Config value is safe to log.
*/
package config

import (
	"errors"
	"fmt"
	"net/netip"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/taibuivan/cursus/internal/platform/sec"
)

// Deployment environments.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Config holds every runtime setting of the API server and rolectl.
type Config struct {
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath overrides the embedded schema with a directory on disk.
	MigrationPath string `env:"MIGRATION_PATH"`

	// RedisURL points at the refresh token store.
	RedisURL string `env:"REDIS_URL,required"`

	// Access tokens cannot be revoked before expiry, so keep them short.
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL"  envDefault:"15m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`

	// AuthCookieName is the cookie carrying the access token for browser clients.
	AuthCookieName string `env:"AUTH_COOKIE_NAME" envDefault:"auth_token"`

	// AuthIssuer is stamped in the 'iss' claim and required on verification.
	AuthIssuer string `env:"AUTH_ISSUER" envDefault:"cursus.app"`

	// DefaultRoleCode is assigned to self-registered accounts. It is parsed by
	// RoleCode.UnmarshalText, so a malformed value fails Load.
	DefaultRoleCode sec.RoleCode `env:"DEFAULT_ROLE_CODE" envDefault:"1000"`

	// ExtraOrigins are CORS origins allowed besides the production domain.
	ExtraOrigins []string `env:"EXTRA_ORIGINS" envSeparator:","`

	// TrustedProxies lists the CIDRs whose X-Real-IP and X-Forwarded-For
	// headers are believed. Empty means every request is keyed by its peer.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	trustedProxyPrefixes []netip.Prefix
}

// Load parses the environment and checks the values against each other.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config_parse_failed: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config_invalid: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var problems []error

	switch c.Environment {
	case EnvDevelopment, EnvStaging, EnvProduction:
	default:
		problems = append(problems, fmt.Errorf("ENVIRONMENT %q is not one of development, staging, production", c.Environment))
	}

	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		problems = append(problems, errors.New("token lifetimes must be positive"))
	}
	if c.RefreshTokenTTL <= c.AccessTokenTTL {
		problems = append(problems, errors.New("REFRESH_TOKEN_TTL must exceed ACCESS_TOKEN_TTL"))
	}

	// Self-registration must never hand out the superuser bit.
	if c.DefaultRoleCode.IsAdmin() {
		problems = append(problems, errors.New("DEFAULT_ROLE_CODE must not include the admin role"))
	}

	c.trustedProxyPrefixes = c.trustedProxyPrefixes[:0]
	for _, cidr := range c.TrustedProxies {
		prefix, err := netip.ParsePrefix(cidr)
		if err != nil {
			problems = append(problems, fmt.Errorf("TRUSTED_PROXIES: %w", err))
			continue
		}
		c.trustedProxyPrefixes = append(c.trustedProxyPrefixes, prefix.Masked())
	}

	return errors.Join(problems...)
}

// TrustedProxyPrefixes returns the parsed TRUSTED_PROXIES ranges.
func (c *Config) TrustedProxyPrefixes() []netip.Prefix {
	return c.trustedProxyPrefixes
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

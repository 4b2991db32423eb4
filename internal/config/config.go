// Package config loads process configuration from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Storage backends.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config holds every setting the server reads at startup.
type Config struct {
	Addr        string
	WebDir      string
	Store       string
	DatabaseURL string

	LogLevel log.Level
	Location *time.Location

	SingleActiveSession bool
	SessionTTL          time.Duration
	CookieSecure        bool

	// ForwardAuth trusts the Remote-User header. Enable only behind an
	// authenticating reverse proxy that strips the header from clients.
	ForwardAuth bool

	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCRedirectURL  string
}

// SSOEnabled reports whether OpenID Connect login is configured.
func (c *Config) SSOEnabled() bool {
	return c.OIDCIssuer != "" && c.OIDCClientID != ""
}

// Load reads a .env file if present, then the environment.
func Load() (*Config, error) {
	// A missing .env is fine; the process environment still applies.
	_ = godotenv.Load()
	return fromEnv()
}

func fromEnv() (*Config, error) {
	var errs []error

	cfg := &Config{
		Addr:             getEnv("ADDR", ":8080"),
		WebDir:           getEnv("WEB_DIR", "web"),
		Store:            strings.ToLower(getEnv("STORE", StorePostgres)),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		OIDCIssuer:       os.Getenv("OIDC_ISSUER"),
		OIDCClientID:     os.Getenv("OIDC_CLIENT_ID"),
		OIDCClientSecret: os.Getenv("OIDC_CLIENT_SECRET"),
		OIDCRedirectURL:  os.Getenv("OIDC_REDIRECT_URL"),
	}

	level, err := log.ParseLevel(strings.ToLower(getEnv("LOG_LEVEL", "info")))
	if err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}
	cfg.LogLevel = level

	cfg.Location = time.Local
	if name := os.Getenv("TZ_NAME"); name != "" {
		loc, err := time.LoadLocation(name)
		if err != nil {
			errs = append(errs, fmt.Errorf("TZ_NAME: %w", err))
		} else {
			cfg.Location = loc
		}
	}

	if cfg.SingleActiveSession, err = getEnvBool("SINGLE_ACTIVE_SESSION", false); err != nil {
		errs = append(errs, err)
	}
	if cfg.CookieSecure, err = getEnvBool("COOKIE_SECURE", false); err != nil {
		errs = append(errs, err)
	}
	if cfg.ForwardAuth, err = getEnvBool("FORWARD_AUTH", false); err != nil {
		errs = append(errs, err)
	}
	if cfg.SessionTTL, err = getEnvDuration("SESSION_TTL", 24*time.Hour); err != nil {
		errs = append(errs, err)
	} else if cfg.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_TTL: must be positive, got %s", cfg.SessionTTL))
	}

	switch cfg.Store {
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when STORE=postgres"))
		}
	case StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE: unknown backend %q (want %s or %s)", cfg.Store, StorePostgres, StoreMemory))
	}

	if cfg.OIDCIssuer != "" && (cfg.OIDCClientID == "" || cfg.OIDCRedirectURL == "") {
		errs = append(errs, errors.New("OIDC_ISSUER requires OIDC_CLIENT_ID and OIDC_REDIRECT_URL"))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %q is not a boolean", key, v)
	}
	return b, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a duration", key, v)
	}
	return d, nil
}

// Package config loads server configuration from the environment.
// Outside production a .env file is read first; variables already set in
// the environment win.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvProduction is the DOJO_ENV value that enables production checks.
const EnvProduction = "production"

// Config holds the server settings.
type Config struct {
	Addr          string        `env:"DOJO_ADDR"            envDefault:":8080"`
	DBPath        string        `env:"DOJO_DB_PATH"         envDefault:"dojoroster.db"`
	Env           string        `env:"DOJO_ENV"             envDefault:"development"`
	CSRFKey       string        `env:"DOJO_CSRF_KEY"`
	SessionSecret string        `env:"DOJO_SESSION_SECRET"`
	SessionTTL    time.Duration `env:"DOJO_SESSION_TTL"     envDefault:"168h"`
	SlowQuery     time.Duration `env:"DOJO_SLOW_QUERY"      envDefault:"50ms"`
	SlowRequest   time.Duration `env:"DOJO_SLOW_REQUEST"    envDefault:"200ms"`
	RateLimit     int           `env:"DOJO_RATE_LIMIT"      envDefault:"10"`
	RateWindow    time.Duration `env:"DOJO_RATE_WINDOW"     envDefault:"1s"`
	BootstrapUser string        `env:"DOJO_BOOTSTRAP_ADMIN" envDefault:"admin"`
}

// Configuration errors
var (
	ErrMissingCSRFKey       = errors.New("DOJO_CSRF_KEY must be 64 hex characters in production")
	ErrMissingSessionSecret = errors.New("DOJO_SESSION_SECRET must be at least 32 characters in production")
	ErrInvalidSessionTTL    = errors.New("DOJO_SESSION_TTL must be positive")
	ErrInvalidRateLimit     = errors.New("DOJO_RATE_LIMIT and DOJO_RATE_WINDOW must be positive")
)

// Load reads envFiles (default ".env") unless DOJO_ENV is production, then
// parses and validates the environment.
// PRE: none
// POST: Returns a validated Config or the first error found
func Load(envFiles ...string) (Config, error) {
	if os.Getenv("DOJO_ENV") != EnvProduction {
		// A missing .env file is normal outside development.
		_ = godotenv.Load(envFiles...)
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// IsProduction reports whether production checks apply.
func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Validate checks the settings that must hold before serving.
// PRE: none
// POST: Returns nil if the config can be served, error otherwise
func (c Config) Validate() error {
	if c.SessionTTL <= 0 {
		return ErrInvalidSessionTTL
	}
	if c.RateLimit <= 0 || c.RateWindow <= 0 {
		return ErrInvalidRateLimit
	}
	if !c.IsProduction() {
		return nil
	}
	if key, err := hex.DecodeString(c.CSRFKey); err != nil || len(key) != 32 {
		return ErrMissingCSRFKey
	}
	if len(c.SessionSecret) < 32 {
		return ErrMissingSessionSecret
	}
	return nil
}

// CSRFKeyBytes returns the 32-byte CSRF key. Outside production an unset
// key is replaced by a random one, so forms break across restarts.
func (c Config) CSRFKeyBytes() ([]byte, error) {
	if c.CSRFKey != "" {
		key, err := hex.DecodeString(c.CSRFKey)
		if err != nil || len(key) != 32 {
			return nil, ErrMissingCSRFKey
		}
		return key, nil
	}
	if c.IsProduction() {
		return nil, ErrMissingCSRFKey
	}
	return randomBytes(32)
}

// SessionKey returns the session signing secret. Outside production an
// unset secret is replaced by a random one, so sessions end on restart.
func (c Config) SessionKey() ([]byte, error) {
	if c.SessionSecret != "" {
		return []byte(c.SessionSecret), nil
	}
	if c.IsProduction() {
		return nil, ErrMissingSessionSecret
	}
	return randomBytes(32)
}

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return b, nil
}

// Package config loads service settings from built-in defaults, an optional
// YAML file, an optional .env file and LIFELINK_* environment variables, in
// that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const envPrefix = "LIFELINK_"

type Config struct {
	HTTPAddr string         `yaml:"http_addr"`
	GRPCAddr string         `yaml:"grpc_addr"`
	Session  SessionConfig  `yaml:"session"`
	Postgres PostgresConfig `yaml:"postgres"`
	Rate     RateConfig     `yaml:"rate"`
	Log      LogConfig      `yaml:"log"`

	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type SessionConfig struct {
	// Secret signs the session cookie. Empty means a random key per process.
	Secret       string        `yaml:"secret"`
	TTL          time.Duration `yaml:"ttl"`
	IdleTTL      time.Duration `yaml:"idle_ttl"`
	CookieSecure bool          `yaml:"cookie_secure"`
}

type PostgresConfig struct {
	// DSN switches dashboards to the Postgres catalog when set.
	DSN          string        `yaml:"dsn"`
	MaxOpenConns int           `yaml:"max_open_conns"`
	ConnectWait  time.Duration `yaml:"connect_wait"`
}

type RateConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Dev   bool   `yaml:"dev"`
}

// Default returns the settings used when nothing else is configured.
func Default() *Config {
	return &Config{
		HTTPAddr: ":8080",
		Session: SessionConfig{
			TTL:     12 * time.Hour,
			IdleTTL: 2 * time.Hour,
		},
		Postgres: PostgresConfig{
			MaxOpenConns: 10,
			ConnectWait:  30 * time.Second,
		},
		Rate: RateConfig{
			PerSecond: 20,
			Burst:     40,
		},
		Log: LogConfig{
			Level: "info",
		},
		MaxBodyBytes:    1 << 20,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load builds the configuration. path names an optional YAML file; envFile
// an optional dotenv file whose values never override the real environment.
// Missing files are only an error when explicitly requested.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(envPrefix + name)
		if !ok {
			return "", false
		}
		return strings.TrimSpace(v), true
	}
	var errs []error
	str := func(name string, dst *string) {
		if v, ok := get(name); ok {
			*dst = v
		}
	}
	dur := func(name string, dst *time.Duration) {
		if v, ok := get(name); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, name, err))
				return
			}
			*dst = d
		}
	}
	boolean := func(name string, dst *bool) {
		if v, ok := get(name); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, name, err))
				return
			}
			*dst = b
		}
	}
	integer := func(name string, dst *int) {
		if v, ok := get(name); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, name, err))
				return
			}
			*dst = n
		}
	}

	str("HTTP_ADDR", &c.HTTPAddr)
	str("GRPC_ADDR", &c.GRPCAddr)
	str("SESSION_SECRET", &c.Session.Secret)
	dur("SESSION_TTL", &c.Session.TTL)
	dur("SESSION_IDLE_TTL", &c.Session.IdleTTL)
	boolean("COOKIE_SECURE", &c.Session.CookieSecure)
	str("PG_DSN", &c.Postgres.DSN)
	integer("RATE_BURST", &c.Rate.Burst)
	if v, ok := get("RATE_PER_SEC"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sRATE_PER_SEC: %w", envPrefix, err))
		} else {
			c.Rate.PerSecond = f
		}
	}
	str("LOG_LEVEL", &c.Log.Level)
	boolean("LOG_DEV", &c.Log.Dev)
	dur("SHUTDOWN_TIMEOUT", &c.ShutdownTimeout)

	return errors.Join(errs...)
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.HTTPAddr) == "" {
		errs = append(errs, errors.New("http_addr is required"))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("session ttl must be positive"))
	}
	if c.Session.IdleTTL <= 0 {
		errs = append(errs, errors.New("session idle_ttl must be positive"))
	}
	if c.Rate.PerSecond <= 0 || c.Rate.Burst <= 0 {
		errs = append(errs, errors.New("rate per_second and burst must be positive"))
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("max_body_bytes must be positive"))
	}
	if c.Postgres.MaxOpenConns <= 0 {
		errs = append(errs, errors.New("postgres max_open_conns must be positive"))
	}
	return errors.Join(errs...)
}

// Package config loads service configuration: defaults, then an optional YAML
// file, then environment overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/govalues/money"
	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type Config struct {
	HTTP     HTTP    `yaml:"http"`
	Log      Log     `yaml:"log"`
	Storage  Storage `yaml:"storage"`
	Breaker  Breaker `yaml:"breaker"`
	Currency string  `yaml:"currency"`
	DevSeed  bool    `yaml:"dev_seed"`
	// SeedAccounts are created at startup with the given opening balance.
	SeedAccounts map[string]int64 `yaml:"seed_accounts"`
}

type HTTP struct {
	Addr              string        `yaml:"addr"`
	ReadTimeout       time.Duration `yaml:"read_timeout"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout"`
	IdleTimeout       time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Storage struct {
	Backend        string `yaml:"backend"`
	DatabaseURL    string `yaml:"database_url"`
	RedisURL       string `yaml:"redis_url"`
	RedisKeyPrefix string `yaml:"redis_key_prefix"`
}

// Breaker guards remote backends; it is ignored for the memory store.
type Breaker struct {
	Enabled             bool          `yaml:"enabled"`
	MaxRequests         uint32        `yaml:"max_requests"`
	Interval            time.Duration `yaml:"interval"`
	Timeout             time.Duration `yaml:"timeout"`
	ConsecutiveFailures uint32        `yaml:"consecutive_failures"`
}

// Default returns the configuration used when nothing is provided.
func Default() Config {
	return Config{
		HTTP: HTTP{
			Addr:              ":8080",
			ReadTimeout:       5 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       60 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		Log:      Log{Level: "info", Format: "json"},
		Breaker:  Breaker{Enabled: true, MaxRequests: 1, Timeout: 30 * time.Second, ConsecutiveFailures: 5},
		Currency: "USD",
	}
}

// Load builds the configuration from defaults, the YAML file at path (if any)
// and the process environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Config{}, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()
		if err := decode(f, &cfg); err != nil {
			return Config{}, err
		}
	}
	applyEnv(&cfg, os.Getenv)
	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config, getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&cfg.HTTP.Addr, "HTTP_ADDR")
	set(&cfg.Log.Level, "LOG_LEVEL")
	set(&cfg.Log.Format, "LOG_FORMAT")
	set(&cfg.Storage.Backend, "STORAGE_BACKEND")
	set(&cfg.Storage.DatabaseURL, "DATABASE_URL")
	set(&cfg.Storage.RedisURL, "REDIS_URL")
	set(&cfg.Storage.RedisKeyPrefix, "REDIS_KEY_PREFIX")
	set(&cfg.Currency, "LEDGER_CURRENCY")
	if dev := strings.ToLower(strings.TrimSpace(getenv("DEV_SEED"))); dev != "" {
		cfg.DevSeed = dev == "1" || dev == "true" || dev == "yes"
	}
}

// normalize infers the backend and validates the result.
func (c *Config) normalize() error {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	if c.Storage.Backend == "" {
		switch {
		case c.Storage.DatabaseURL != "":
			c.Storage.Backend = BackendPostgres
		case c.Storage.RedisURL != "":
			c.Storage.Backend = BackendRedis
		default:
			c.Storage.Backend = BackendMemory
		}
	}
	switch c.Storage.Backend {
	case BackendMemory:
	case BackendPostgres:
		if c.Storage.DatabaseURL == "" {
			return errors.New("storage backend postgres requires database_url")
		}
	case BackendRedis:
		if c.Storage.RedisURL == "" {
			return errors.New("storage backend redis requires redis_url")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	c.Currency = strings.ToUpper(strings.TrimSpace(c.Currency))
	if _, err := money.NewAmountFromMinorUnits(c.Currency, 0); err != nil {
		return fmt.Errorf("invalid currency %q: %w", c.Currency, err)
	}
	for id, bal := range c.SeedAccounts {
		if id == "" {
			return errors.New("seed account id must not be empty")
		}
		if bal < 0 {
			return fmt.Errorf("seed account %q has negative balance", id)
		}
	}
	return nil
}

// parseLogLevel maps config values to slog.Leveler
func parseLogLevel(s string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "err":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds a slog logger writing to w; JSON unless format is "text".
func (l Log) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(l.Level)}
	if strings.EqualFold(strings.TrimSpace(l.Format), "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

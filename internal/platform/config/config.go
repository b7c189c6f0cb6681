package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	BackendCSV      = "csv"
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config holds all roster configuration.
type Config struct {
	Server   Server         `yaml:"server"`
	Store    Store          `yaml:"store"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	Logging  Logging        `yaml:"logging"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `yaml:"addr"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Store selects and tunes the record backend.
type Store struct {
	Backend string `yaml:"backend"`
	// Path is the CSV file for the csv backend.
	Path string `yaml:"path"`
	// StrictRows turns malformed rows into read errors instead of skipping them.
	StrictRows bool `yaml:"strict_rows"`
	// AppendOnCreate appends new rows instead of rewriting the whole store.
	AppendOnCreate bool `yaml:"append_on_create"`
}

type PostgresConfig struct {
	URL      string `yaml:"url"`
	MaxConns int    `yaml:"max_conns"`
}

type RedisConfig struct {
	URL          string        `yaml:"url"`
	Key          string        `yaml:"key"`
	PoolSize     int           `yaml:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type Logging struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Server: Server{
			Addr:            ":5000",
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Store: Store{
			Backend: BackendCSV,
			Path:    "students.csv",
		},
		Postgres: PostgresConfig{MaxConns: 4},
		Redis: RedisConfig{
			Key:          "roster:records",
			PoolSize:     10,
			MinIdleConns: 1,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Logging: Logging{Level: "info", Format: "text"},
	}
}

// Load builds a Config from defaults, an optional YAML file, then environment
// overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Server.Addr, "ROSTER_ADDR")
	setString(&cfg.Store.Backend, "ROSTER_STORE_BACKEND")
	setString(&cfg.Store.Path, "ROSTER_STORE_PATH")
	setString(&cfg.Postgres.URL, "ROSTER_POSTGRES_URL")
	setString(&cfg.Redis.URL, "ROSTER_REDIS_URL")
	setString(&cfg.Redis.Key, "ROSTER_REDIS_KEY")
	setString(&cfg.Logging.Level, "ROSTER_LOG_LEVEL")
	setString(&cfg.Logging.Format, "ROSTER_LOG_FORMAT")
	if err := setBool(&cfg.Store.StrictRows, "ROSTER_STRICT_ROWS"); err != nil {
		return err
	}
	if err := setBool(&cfg.Store.AppendOnCreate, "ROSTER_APPEND_ON_CREATE"); err != nil {
		return err
	}
	if v := os.Getenv("ROSTER_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("ROSTER_REQUEST_TIMEOUT: %w", err)
		}
		cfg.Server.RequestTimeout = d
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

// Validate rejects configurations the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	switch c.Store.Backend {
	case BackendCSV:
		if strings.TrimSpace(c.Store.Path) == "" {
			errs = append(errs, errors.New("store.path is required for the csv backend"))
		}
	case BackendMemory:
	case BackendPostgres:
		if c.Postgres.URL == "" {
			errs = append(errs, errors.New("postgres.url is required for the postgres backend"))
		}
	case BackendRedis:
		if c.Redis.URL == "" {
			errs = append(errs, errors.New("redis.url is required for the redis backend"))
		}
		if c.Redis.Key == "" {
			errs = append(errs, errors.New("redis.key is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store.backend %q", c.Store.Backend))
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown logging.format %q", c.Logging.Format))
	}
	return errors.Join(errs...)
}

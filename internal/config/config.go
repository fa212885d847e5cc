package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
	_ "time/tzdata" // DISPLAY_TIMEZONE must resolve on hosts without zoneinfo

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"

	"github.com/snowman-se/bad-memo-app/internal/localstate"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// EnvPrefix is the prefix of every environment variable read by New.
const EnvPrefix = "MEMO_BOARD"

// Supported DB_DRIVER values.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// MemoryDSN selects a private in-memory SQLite database instead of a file.
const MemoryDSN = ":memory:"

// Config holds the configuration for the memo service
// Environment variables are automatically parsed from MEMO_BOARD_ prefix
type Config struct {
	// Build target selects high-level environment: local, cloud-dev, cloud
	BuildTarget string `envconfig:"BUILD_TARGET" default:"local"`

	// Derived or override driver
	DBDriver string `envconfig:"DB_DRIVER" default:"auto"`

	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// SQLite file; empty derives ~/.memo-board/memos.db (MEMO_BOARD_DATA_DIR overrides the directory)
	SQLitePath string `envconfig:"SQLITE_PATH" default:""`

	// Postgres Configuration
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`

	// Presentation
	PageSize        int    `envconfig:"PAGE_SIZE" default:"20"`
	DisplayTimeZone string `envconfig:"DISPLAY_TIMEZONE" default:"Asia/Tokyo"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Health checks
	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"30"`
	HealthProbeTimeoutSeconds int `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"2"`
	StartupTimeoutSeconds     int `envconfig:"STARTUP_TIMEOUT_SECONDS" default:"60"`
}

// ResolveDefaults validates BuildTarget and derives DBDriver and SQLitePath when unset.
func (c *Config) ResolveDefaults() error {
	var defaultDB string

	switch c.BuildTarget {
	case "local":
		defaultDB = DriverSQLite
	case "cloud-dev", "cloud":
		defaultDB = DriverPostgres
	default:
		return fmt.Errorf("unsupported BUILD_TARGET: %s", c.BuildTarget)
	}

	if c.DBDriver == "" || c.DBDriver == "auto" {
		c.DBDriver = defaultDB
	}

	switch c.DBDriver {
	case DriverSQLite:
		if c.SQLitePath == "" {
			p, err := localstate.DBPath()
			if err != nil {
				return fmt.Errorf("derive SQLITE_PATH: %w", err)
			}
			c.SQLitePath = p
		}
	case DriverPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("%s_POSTGRES_DSN is required when DB_DRIVER=postgres", EnvPrefix)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}

	if c.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// EnvFileVar names the variable that points LoadEnvFile at a dotenv file.
const EnvFileVar = EnvPrefix + "_ENV_FILE"

// LoadEnvFile copies variables from a dotenv file into the process
// environment. Variables that are already set win. path defaults to
// $MEMO_BOARD_ENV_FILE, then ".env". A missing file is not an error; the
// returned bool reports whether one was read.
func LoadEnvFile(path string) (bool, error) {
	if path == "" {
		path = os.Getenv(EnvFileVar)
	}
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("load %s: %w", path, err)
	}
	return true, nil
}

// New creates a new Config by parsing environment variables
// Environment variables should be prefixed with MEMO_BOARD_
// Example: MEMO_BOARD_HTTP_PORT, MEMO_BOARD_SQLITE_PATH
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("db_driver", cfg.DBDriver).
		Str("environment", string(cfg.Environment)).
		Int("port", cfg.HTTPPort).
		Str("sqlite_path", cfg.SQLitePath).
		Bool("postgres_dsn_present", cfg.PostgresDSN != "").
		Int("page_size", cfg.PageSize).
		Str("display_timezone", cfg.DisplayTimeZone).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config backed by an in-memory SQLite database.
func NewForTesting() *Config {
	return &Config{
		BuildTarget:               "local",
		DBDriver:                  DriverSQLite,
		Environment:               EnvTesting,
		HTTPPort:                  8080,
		SQLitePath:                MemoryDSN,
		PageSize:                  20,
		DisplayTimeZone:           "Asia/Tokyo",
		LogLevel:                  "debug",
		HealthIntervalSeconds:     1,
		HealthProbeTimeoutSeconds: 1,
		StartupTimeoutSeconds:     5,
	}
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// Location resolves DisplayTimeZone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.DisplayTimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid DISPLAY_TIMEZONE %q: %w", c.DisplayTimeZone, err)
	}
	return loc, nil
}

package config

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/mrlokans/library-agent/internal/entities"
)

type Driver string

const (
	DriverMattn   Driver = "sqlite3" // github.com/mattn/go-sqlite3 (cgo)
	DriverModernc Driver = "sqlite"  // modernc.org/sqlite (pure Go)
)

type (
	Config struct {
		Database
		Log
		Agent
	}

	Database struct {
		Path        string
		Driver      Driver
		LogLevel    string // gorm logger level: silent, error, warn, info
		SeedOnEmpty bool   // Load the bundled sample data when the books table is empty
	}
	Log struct {
		JSON  bool
		Level string // debug, info, warn, error
	}
	Agent struct {
		ReferenceDate string // Optional YYYY-MM-DD used as "today" for overdue checks
	}
)

// Keys shared between the env/file layer and cobra flag bindings.
const (
	KeyDatabasePath     = "database_path"
	KeyDatabaseDriver   = "database_driver"
	KeyDatabaseLogLevel = "database_log_level"
	KeySeedOnEmpty      = "seed_on_empty"
	KeyLogJSON          = "log_json"
	KeyLogLevel         = "log_level"
	KeyReferenceDate    = "reference_date"
)

// NewViper returns a viper instance with environment lookup and defaults
// installed. Callers may bind flags or read a config file before calling Load.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyDatabasePath, DefaultDatabasePath)
	v.SetDefault(KeyDatabaseDriver, string(DriverMattn))
	v.SetDefault(KeyDatabaseLogLevel, "silent")
	v.SetDefault(KeySeedOnEmpty, true)
	v.SetDefault(KeyLogJSON, false)
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyReferenceDate, "")

	return v
}

// NewConfig builds a Config from environment variables and defaults only.
func NewConfig() *Config {
	return Load(NewViper())
}

// Load reads every known key from v.
func Load(v *viper.Viper) *Config {
	return &Config{
		Database: Database{
			Path:        v.GetString(KeyDatabasePath),
			Driver:      Driver(strings.ToLower(v.GetString(KeyDatabaseDriver))),
			LogLevel:    strings.ToLower(v.GetString(KeyDatabaseLogLevel)),
			SeedOnEmpty: v.GetBool(KeySeedOnEmpty),
		},
		Log: Log{
			JSON:  v.GetBool(KeyLogJSON),
			Level: strings.ToLower(v.GetString(KeyLogLevel)),
		},
		Agent: Agent{
			ReferenceDate: strings.TrimSpace(v.GetString(KeyReferenceDate)),
		},
	}
}

// ReadFile merges a yaml/toml/json config file into v.
func ReadFile(v *viper.Viper, path string) error {
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "failed to read config file %s", path)
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverMattn, DriverModernc:
	default:
		return errors.WithHintf(
			errors.Newf("unknown database driver %q", c.Database.Driver),
			"use %q or %q", DriverMattn, DriverModernc,
		)
	}

	switch c.Database.LogLevel {
	case "silent", "error", "warn", "info":
	default:
		return errors.Newf("unknown database log level %q", c.Database.LogLevel)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.Newf("unknown log level %q", c.Log.Level)
	}

	if c.Database.Path == "" {
		return errors.New("database path is not set")
	}

	if _, err := c.ReferenceTime(); err != nil {
		return err
	}
	return nil
}

// ReferenceTime parses Agent.ReferenceDate. The zero time means "use the
// current date".
func (c *Config) ReferenceTime() (time.Time, error) {
	if c.Agent.ReferenceDate == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(entities.DateLayout, c.Agent.ReferenceDate)
	if err != nil {
		return time.Time{}, errors.WithHint(
			errors.Wrapf(err, "invalid reference date %q", c.Agent.ReferenceDate),
			"expected YYYY-MM-DD",
		)
	}
	return t, nil
}

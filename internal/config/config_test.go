package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, DriverMattn, cfg.Database.Driver)
	assert.Equal(t, "silent", cfg.Database.LogLevel)
	assert.True(t, cfg.Database.SeedOnEmpty)
	assert.False(t, cfg.Log.JSON)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Empty(t, cfg.Agent.ReferenceDate)
	require.NoError(t, cfg.Validate())
}

func TestNewConfig_Environment(t *testing.T) {
	t.Setenv("LIBRARY_DATABASE_PATH", "/tmp/other.db")
	t.Setenv("LIBRARY_DATABASE_DRIVER", "SQLITE")
	t.Setenv("LIBRARY_SEED_ON_EMPTY", "false")
	t.Setenv("LIBRARY_LOG_JSON", "true")
	t.Setenv("LIBRARY_REFERENCE_DATE", "2026-02-12")

	cfg := NewConfig()

	assert.Equal(t, "/tmp/other.db", cfg.Database.Path)
	assert.Equal(t, DriverModernc, cfg.Database.Driver)
	assert.False(t, cfg.Database.SeedOnEmpty)
	assert.True(t, cfg.Log.JSON)
	require.NoError(t, cfg.Validate())

	ref, err := cfg.ReferenceTime()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC), ref)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database_path: ./from-file.db\nlog_level: debug\n"), 0o600))

	v := NewViper()
	require.NoError(t, ReadFile(v, path))
	cfg := Load(v)

	assert.Equal(t, "./from-file.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestReadFile_Missing(t *testing.T) {
	err := ReadFile(NewViper(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown driver", func(c *Config) { c.Database.Driver = "postgres" }},
		{"unknown gorm level", func(c *Config) { c.Database.LogLevel = "loud" }},
		{"unknown log level", func(c *Config) { c.Log.Level = "trace" }},
		{"empty path", func(c *Config) { c.Database.Path = "" }},
		{"bad reference date", func(c *Config) { c.Agent.ReferenceDate = "12/02/2026" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestReferenceTime_Unset(t *testing.T) {
	cfg := NewConfig()
	ref, err := cfg.ReferenceTime()
	require.NoError(t, err)
	assert.True(t, ref.IsZero())
}

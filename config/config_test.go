package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "diarium.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "diarium.db", cfg.DBPath)
	assert.Equal(t, "**/Diarium_*.txt", cfg.EntriesGlob)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Zero(t, cfg.PoolSize)
	require.NoError(t, cfg.Validate())
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig(
		WithDBPath("/data/db"),
		WithDiaryDBPath("/data/diary.db"),
		WithEntriesDir("/data/entries"),
		WithPoolSize(4),
		WithLogLevel("DEBUG"),
	)

	assert.Equal(t, "/data/db", cfg.DBPath)
	assert.Equal(t, "/data/diary.db", cfg.DiaryDBPath)
	assert.Equal(t, "/data/entries", cfg.EntriesDir)
	assert.Equal(t, 4, cfg.PoolSize)

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "debug", cfg.LogLevel, "validate normalizes the level")
}

func TestLoad(t *testing.T) {
	t.Run("partial file keeps defaults", func(t *testing.T) {
		path := writeConfig(t, `
diary_db_path = "/data/diary.db"
pool_size = 2
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "/data/diary.db", cfg.DiaryDBPath)
		assert.Equal(t, 2, cfg.PoolSize)
		assert.Equal(t, "diarium.db", cfg.DBPath)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("all keys", func(t *testing.T) {
		path := writeConfig(t, `
db_path = "/var/diarium"
entries_dir = "/data/entries"
entries_glob = "*.txt"
log_level = "warn"
plain = true
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "/var/diarium", cfg.DBPath)
		assert.Equal(t, "/data/entries", cfg.EntriesDir)
		assert.Equal(t, "*.txt", cfg.EntriesGlob)
		assert.Equal(t, "warn", cfg.LogLevel)
		assert.True(t, cfg.Plain)
	})

	t.Run("home expansion", func(t *testing.T) {
		home, err := os.UserHomeDir()
		require.NoError(t, err)

		cfg, err := Load(writeConfig(t, `db_path = "~/diarium"`))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "diarium"), cfg.DBPath)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := Load(writeConfig(t, `colour = "red"`))
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("malformed toml", func(t *testing.T) {
		_, err := Load(writeConfig(t, `db_path = `))
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := Load(writeConfig(t, `log_level = "loud"`))
		assert.ErrorIs(t, err, ErrInvalidConfig)

		_, err = Load(writeConfig(t, `pool_size = -1`))
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.toml")
	cfg := NewConfig(WithDiaryDBPath("/data/diary.db"), WithPoolSize(3))
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty db path", func(c *Config) { c.DBPath = "" }},
		{"empty glob", func(c *Config) { c.EntriesGlob = "" }},
		{"negative pool", func(c *Config) { c.PoolSize = -2 }},
		{"bad level", func(c *Config) { c.LogLevel = "verbose" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package config loads diarium settings from a TOML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidConfig is returned when a configuration fails validation.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds diarium settings.
type Config struct {
	// DBPath is the BadgerDB directory holding imported entries.
	// Default: "diarium.db"
	DBPath string `toml:"db_path"`

	// DiaryDBPath is the diary application's SQLite database to import from.
	// Example: "~/AppData/Local/Packages/DailyDiary/LocalState/diary.db"
	DiaryDBPath string `toml:"diary_db_path"`

	// EntriesDir is a directory of per-day text files to import from.
	EntriesDir string `toml:"entries_dir"`

	// EntriesGlob selects entry files under EntriesDir.
	// Default: "**/Diarium_*.txt"
	EntriesGlob string `toml:"entries_glob"`

	// PoolSize is the number of workers used for searching and word counting.
	// Zero means one per CPU.
	PoolSize int `toml:"pool_size"`

	// LogLevel is one of debug, info, warn, error.
	// Default: "info"
	LogLevel string `toml:"log_level"`

	// Plain disables terminal styling of search output.
	Plain bool `toml:"plain"`
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithDBPath sets the entry store directory.
func WithDBPath(path string) ConfigOption {
	return func(c *Config) {
		c.DBPath = path
	}
}

// WithDiaryDBPath sets the diary database to import from.
func WithDiaryDBPath(path string) ConfigOption {
	return func(c *Config) {
		c.DiaryDBPath = path
	}
}

// WithEntriesDir sets the directory of entry files to import from.
func WithEntriesDir(dir string) ConfigOption {
	return func(c *Config) {
		c.EntriesDir = dir
	}
}

// WithPoolSize sets the worker pool size.
func WithPoolSize(size int) ConfigOption {
	return func(c *Config) {
		c.PoolSize = size
	}
}

// WithLogLevel sets the log level.
func WithLogLevel(level string) ConfigOption {
	return func(c *Config) {
		c.LogLevel = level
	}
}

// DefaultConfig returns a Config with defaults for a store in the working directory.
func DefaultConfig() *Config {
	return &Config{
		DBPath:      "diarium.db",
		EntriesGlob: "**/Diarium_*.txt",
		LogLevel:    "info",
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Load reads the TOML file at path over the defaults.
// Keys missing from the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("%w: %s: %s", ErrInvalidConfig, path, strict.String())
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as TOML to path.
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Normalize expands a leading ~ in paths and lower-cases the log level.
func (c *Config) Normalize() {
	c.DBPath = expandHome(c.DBPath)
	c.DiaryDBPath = expandHome(c.DiaryDBPath)
	c.EntriesDir = expandHome(c.EntriesDir)
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
}

// Validate checks that the configuration is valid and complete.
// It normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.DBPath == "" {
		return fmt.Errorf("%w: db_path is required", ErrInvalidConfig)
	}
	if c.EntriesGlob == "" {
		return fmt.Errorf("%w: entries_glob is required", ErrInvalidConfig)
	}
	if c.PoolSize < 0 {
		return fmt.Errorf("%w: pool_size must not be negative", ErrInvalidConfig)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log_level %q must be one of debug, info, warn, error", ErrInvalidConfig, c.LogLevel)
	}
	return nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

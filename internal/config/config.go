//-------------------------------------------------------------------------
//
// pgEdge Olist ETL
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for pgedge-olist-etl.
// Values are resolved from (lowest to highest precedence) built-in defaults,
// a config file, a .env file, the process environment and CLI flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultDataDir is where the raw Olist extracts are expected. It is
// relative, so it resolves against the working directory; commands are
// meant to run from the project root.
var DefaultDataDir = filepath.Join("data", "raw")

// Config holds all configuration for pgedge-olist-etl.
type Config struct {
	// DatabaseURL is the PostgreSQL connection string.
	DatabaseURL string `mapstructure:"database_url"`

	// DataDir is the directory holding the raw CSV extracts.
	DataDir string `mapstructure:"data_dir"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Load holds configuration for the raw loader.
	Load LoadConfig `mapstructure:"load"`
}

// LoadConfig holds configuration for the raw CSV load.
type LoadConfig struct {
	// GeolocationBatchSize is the number of rows per INSERT for the
	// geolocation table.
	GeolocationBatchSize int `mapstructure:"geolocation_batch_size"`

	// ProgressInterval is how often (in rows) load progress is logged.
	ProgressInterval int64 `mapstructure:"progress_interval"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		DataDir:  DefaultDataDir,
		LogLevel: "info",
		Load: LoadConfig{
			GeolocationBatchSize: 10000,
			ProgressInterval:     100000,
		},
	}
}

// Load reads configuration.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./pgedge-olist-etl.yaml
// 3. ~/.config/pgedge-olist-etl/config.yaml
//
// A .env file in the working directory is loaded into the environment
// first; variables already set in the environment are not overridden.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("pgedge-olist-etl")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "pgedge-olist-etl"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Environment variables override the config file
	for key, env := range map[string]string{
		"database_url": "DATABASE_URL",
		"data_dir":     "OLIST_DATA_DIR",
		"log_level":    "LOG_LEVEL",
	} {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", env, err)
		}
	}

	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}
	return nil
}

// ValidateLoad checks configuration required by the raw loader.
func (c *Config) ValidateLoad() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DataDir == "" {
		return fmt.Errorf("data directory is required")
	}
	if c.Load.GeolocationBatchSize < 1 {
		return fmt.Errorf("geolocation_batch_size must be at least 1")
	}
	return nil
}

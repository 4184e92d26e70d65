// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the settings that may vary between machines. Recognition
// parameters are constants in their packages and are not configurable.
type Config struct {
	// CameraID is the capture device index.
	CameraID int `env:"FINGERSIGN_CAMERA" envDefault:"0"`
	// Mirror flips frames horizontally before detection.
	Mirror bool `env:"FINGERSIGN_MIRROR" envDefault:"true"`
	// DBPath enables recognition history in a SQLite file when set.
	DBPath string `env:"FINGERSIGN_DB_PATH"`
	// HTTPAddr enables the preview server when set, e.g. "127.0.0.1:8080".
	HTTPAddr string `env:"FINGERSIGN_HTTP_ADDR"`
	// MediaPipeScript overrides the location of mediapipe_service.py.
	MediaPipeScript string `env:"FINGERSIGN_MEDIAPIPE_SCRIPT"`
	// Python overrides the interpreter used to run the helper.
	Python string `env:"FINGERSIGN_PYTHON"`
	// PluginDir enables sign-triggered plugins found in this directory.
	PluginDir string `env:"FINGERSIGN_PLUGIN_DIR"`
	// PluginTimeout bounds a single plugin run.
	PluginTimeout time.Duration `env:"FINGERSIGN_PLUGIN_TIMEOUT" envDefault:"5s"`
}

// Load reads an optional .env file from the working directory and parses
// the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse reads the configuration from the process environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.CameraID < 0 {
		return fmt.Errorf("FINGERSIGN_CAMERA must be >= 0, got %d", c.CameraID)
	}
	if c.PluginTimeout <= 0 {
		return fmt.Errorf("FINGERSIGN_PLUGIN_TIMEOUT must be positive, got %s", c.PluginTimeout)
	}
	return nil
}

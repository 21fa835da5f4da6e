// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for medai.
//
// Configuration is read from ~/.medai/config.toml with environment
// variable overrides and built-in defaults. A missing Groq credential is
// not a load error: it is surfaced on the first gateway call so the UI
// stays usable for browsing history.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/Lulzlulz/med-ai/internal/groq"
)

// Environment variable overrides.
const (
	EnvAPIKey = "GROQ_API_KEY"
	EnvModel  = "MEDAI_MODEL"
	EnvDBPath = "MEDAI_DB"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete medai configuration.
type Config struct {
	Groq    GroqConfig    `toml:"groq"`
	Speech  SpeechConfig  `toml:"speech"`
	Storage StorageConfig `toml:"storage"`
	UI      UIConfig      `toml:"ui"`
}

// GroqConfig contains completion gateway configuration.
type GroqConfig struct {
	// APIKey is the Groq API credential. Empty is allowed; the gateway
	// reports ErrNotConfigured on first use.
	APIKey string `toml:"api_key"`
	// Model is the default completion model.
	Model string `toml:"model"`
}

// SpeechConfig contains voice reply configuration.
type SpeechConfig struct {
	// Enabled turns on spoken assistant replies.
	Enabled bool `toml:"enabled"`
	// Command is the local TTS command, e.g. "say" or "espeak".
	Command string `toml:"command"`
}

// StorageConfig contains message store configuration.
type StorageConfig struct {
	// Path is the SQLite database path (empty = ~/.medai/chat_history.db).
	Path string `toml:"path"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is "dark" or "light".
	Theme string `toml:"theme"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		Groq: GroqConfig{
			Model: groq.DefaultModel,
		},
		Speech: SpeechConfig{
			Enabled: false,
			Command: "",
		},
		UI: UIConfig{
			Theme: "dark",
		},
	}
}

// Dir returns the medai configuration directory (~/.medai).
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".medai"), nil
}

// DefaultPath returns the default config file path.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads configuration from the default path, applying environment
// overrides on top. A missing file yields the defaults.
func Load() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads configuration from an explicit path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv applies environment variable overrides.
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.Groq.APIKey = v
	}
	if v := os.Getenv(EnvModel); v != "" {
		c.Groq.Model = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		c.Storage.Path = v
	}
}

// Validate checks invariants that would otherwise fail later in
// confusing places. The API key is deliberately not required here.
func (c *Config) Validate() error {
	if c.Groq.Model == "" {
		c.Groq.Model = groq.DefaultModel
	}
	if err := groq.ValidateModel(c.Groq.Model); err != nil {
		return err
	}
	switch c.UI.Theme {
	case "", "dark", "light":
	default:
		return fmt.Errorf("unknown theme: %q", c.UI.Theme)
	}
	return nil
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes the configuration as TOML to the default path.
func (c *Config) Save() error {
	path, err := DefaultPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration as TOML to an explicit path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

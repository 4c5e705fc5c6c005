package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/explorer/internal/nasa"
)

// Config holds everything explorer reads at startup.
type Config struct {
	APIKey   string
	APIBase  string
	Rover    nasa.Rover
	Sol      int
	Listen   string
	LogLevel string
	LogFile  string
}

const (
	defaultConfigPath = "~/.config/explorer/config.toml"
	defaultLogFile    = "~/.local/state/explorer/explorer.log"
	defaultListen     = "127.0.0.1:8080"
	defaultLogLevel   = "info"
	defaultSol        = 1000
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Default returns the configuration used when no file or environment is present.
func Default() Config {
	return Config{
		APIBase:  nasa.DefaultBaseURL,
		Rover:    nasa.Curiosity,
		Sol:      defaultSol,
		Listen:   defaultListen,
		LogLevel: defaultLogLevel,
		LogFile:  mustExpand(defaultLogFile),
	}
}

// Load reads the config at path (or the default path), applies environment
// overrides, and validates the result. A missing file is not an error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := cfg.readFile(resolved); err != nil {
		return Config{}, err
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIKey   string `toml:"api_key"`
		APIBase  string `toml:"api_base"`
		Rover    string `toml:"rover"`
		Sol      int    `toml:"sol"`
		Listen   string `toml:"listen"`
		LogLevel string `toml:"log_level"`
		LogFile  string `toml:"log_file"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	c.APIKey = strings.TrimSpace(raw.APIKey)
	if v := strings.TrimSpace(raw.APIBase); v != "" {
		c.APIBase = v
	}
	if v := strings.TrimSpace(raw.Rover); v != "" {
		rover, err := nasa.ParseRover(v)
		if err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
		c.Rover = rover
	}
	if raw.Sol != 0 {
		c.Sol = raw.Sol
	}
	if v := strings.TrimSpace(raw.Listen); v != "" {
		c.Listen = v
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		c.LogLevel = v
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		c.LogFile = mustExpand(v)
	}
	return nil
}

// Validate checks the fields a run cannot start without.
func (c Config) Validate() error {
	if !c.Rover.Valid() {
		return fmt.Errorf("invalid rover %q", c.Rover)
	}
	if c.Sol < 1 {
		return fmt.Errorf("sol must be >= 1, got %d", c.Sol)
	}
	if strings.TrimSpace(c.APIBase) == "" {
		return fmt.Errorf("api_base is empty")
	}
	if strings.TrimSpace(c.Listen) == "" {
		return fmt.Errorf("listen is empty")
	}
	return nil
}

// KeyOrDemo returns the configured API key, or DEMO_KEY when none is set.
func (c Config) KeyOrDemo() string {
	if key := strings.TrimSpace(c.APIKey); key != "" {
		return key
	}
	return nasa.DemoKey
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}

package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/five82/explorer/internal/nasa"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "EXPLORER_"

// nasaKeyEnv is the variable other NASA API tools read the key from.
const nasaKeyEnv = "NASA_API_KEY"

// applyEnv overlays environment variables onto c. Unparseable values are
// ignored.
func (c *Config) applyEnv() {
	c.APIKey = getEnvString("API_KEY", c.APIKey)
	if c.APIKey == "" {
		c.APIKey = strings.TrimSpace(os.Getenv(nasaKeyEnv))
	}
	c.APIBase = getEnvString("API_BASE", c.APIBase)
	if rover, err := nasa.ParseRover(getEnvString("ROVER", "")); err == nil {
		c.Rover = rover
	}
	c.Sol = getEnvInt("SOL", c.Sol)
	c.Listen = getEnvString("LISTEN", c.Listen)
	c.LogLevel = getEnvString("LOG_LEVEL", c.LogLevel)
	if file := getEnvString("LOG_FILE", ""); file != "" {
		c.LogFile = mustExpand(file)
	}
}

// getEnvString returns the trimmed value of EnvPrefix+key, or defaultVal if
// unset or blank.
func getEnvString(key, defaultVal string) string {
	if val := strings.TrimSpace(os.Getenv(EnvPrefix + key)); val != "" {
		return val
	}
	return defaultVal
}

// getEnvInt returns EnvPrefix+key parsed as int, or defaultVal if unset or
// invalid.
func getEnvInt(key string, defaultVal int) int {
	if val := strings.TrimSpace(os.Getenv(EnvPrefix + key)); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

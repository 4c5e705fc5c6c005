package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/five82/explorer/internal/nasa"
)

// clearEnv blanks every variable Load consults so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"API_KEY", "API_BASE", "ROVER", "SOL", "LISTEN", "LOG_LEVEL", "LOG_FILE"} {
		t.Setenv(EnvPrefix+key, "")
	}
	t.Setenv(nasaKeyEnv, "")
}

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBase != nasa.DefaultBaseURL {
		t.Fatalf("APIBase = %q, want %q", cfg.APIBase, nasa.DefaultBaseURL)
	}
	if cfg.Rover != nasa.Curiosity || cfg.Sol != defaultSol {
		t.Fatalf("Rover/Sol = %q/%d, want curiosity/%d", cfg.Rover, cfg.Sol, defaultSol)
	}
	if cfg.Listen != defaultListen {
		t.Fatalf("Listen = %q, want %q", cfg.Listen, defaultListen)
	}
	wantLog, err := expandPath(defaultLogFile)
	if err != nil {
		t.Fatalf("expandPath: %v", err)
	}
	if cfg.LogFile != wantLog {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, wantLog)
	}
	if cfg.KeyOrDemo() != nasa.DemoKey {
		t.Fatalf("KeyOrDemo = %q, want DEMO_KEY", cfg.KeyOrDemo())
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	path := writeConfig(t, `
api_key = "  abc123  "
api_base = " http://localhost:9000 "
rover = "  Perseverance "
sol = 42
listen = " 0.0.0.0:9999 "
log_level = "debug"
log_file = "~/logs/explorer.log"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIKey != "abc123" || cfg.KeyOrDemo() != "abc123" {
		t.Fatalf("APIKey = %q", cfg.APIKey)
	}
	if cfg.APIBase != "http://localhost:9000" {
		t.Fatalf("APIBase = %q", cfg.APIBase)
	}
	if cfg.Rover != nasa.Perseverance || cfg.Sol != 42 {
		t.Fatalf("Rover/Sol = %q/%d", cfg.Rover, cfg.Sol)
	}
	if cfg.Listen != "0.0.0.0:9999" || cfg.LogLevel != "debug" {
		t.Fatalf("Listen/LogLevel = %q/%q", cfg.Listen, cfg.LogLevel)
	}
	if !strings.HasPrefix(cfg.LogFile, home) {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)
	t.Setenv("EXPLORER_API_KEY", "from-env")
	t.Setenv("EXPLORER_ROVER", "spirit")
	t.Setenv("EXPLORER_SOL", "7")
	t.Setenv("EXPLORER_LISTEN", ":8181")

	path := writeConfig(t, `
api_key = "from-file"
rover = "opportunity"
sol = 99
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIKey != "from-env" {
		t.Fatalf("APIKey = %q, want from-env", cfg.APIKey)
	}
	if cfg.Rover != nasa.Spirit || cfg.Sol != 7 || cfg.Listen != ":8181" {
		t.Fatalf("cfg = %#v", cfg)
	}
}

func TestLoad_NASAKeyFallback(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)
	t.Setenv(nasaKeyEnv, "nasa-env")

	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIKey != "nasa-env" {
		t.Fatalf("APIKey = %q, want nasa-env", cfg.APIKey)
	}
}

func TestLoad_InvalidEnvValuesAreIgnored(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)
	t.Setenv("EXPLORER_ROVER", "sojourner")
	t.Setenv("EXPLORER_SOL", "many")

	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Rover != nasa.Curiosity || cfg.Sol != defaultSol {
		t.Fatalf("Rover/Sol = %q/%d, want defaults", cfg.Rover, cfg.Sol)
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)

	cases := map[string]string{
		"unknown rover": `rover = "sojourner"`,
		"negative sol":  `sol = -4`,
		"bad toml":      `rover = `,
	}
	for name, contents := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, contents)); err == nil {
				t.Fatalf("Load accepted %q", contents)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/x/y.toml")
	if err != nil {
		t.Fatalf("expandPath: %v", err)
	}
	if got != filepath.Join(home, "x", "y.toml") {
		t.Fatalf("expandPath = %q", got)
	}
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath accepted blank path")
	}
}

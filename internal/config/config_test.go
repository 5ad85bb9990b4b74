package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
gemini:
  model: "gemini-2.5-pro"
  temperature: 0.4
script:
  pace: 250ms
  detect_language: true
storage:
  driver: sqlite
  dir: runs
  format: yaml
logging:
  level: debug
watch:
  extensions: [".pptx"]
  settle: 2s
server:
  host: 0.0.0.0
  port: 9090
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	dir := filepath.Dir(path)
	want := &Config{
		Gemini:  GeminiConfig{Model: "gemini-2.5-pro", APIKeyEnv: DefaultAPIKeyEnv, Temperature: 0.4},
		Script:  ScriptConfig{Pace: 250 * time.Millisecond, DetectLanguage: true},
		Storage: StorageConfig{Driver: "sqlite", Dir: filepath.Join(dir, "runs"), Format: "yaml", DatabasePath: filepath.Join(dir, DefaultDatabasePath)},
		Logging: LoggingConfig{Level: "debug"},
		Watch:   WatchConfig{Extensions: []string{".pptx"}, Settle: 2 * time.Second},
		Server:  ServerConfig{Host: "0.0.0.0", Port: 9090},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_empty(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Gemini.Model != DefaultModel || cfg.Script.Pace != time.Second || cfg.Storage.Driver != "file" || cfg.Storage.Format != "json" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if diff := cmp.Diff([]string{".pptx", ".ppt", ".pdf"}, cfg.Watch.Extensions); diff != "" {
		t.Errorf("extensions (-want +got):\n%s", diff)
	}
}

func TestLoad_errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	tests := map[string]string{
		"bad yaml":    "gemini: [",
		"driver":      "storage:\n  driver: postgres\n",
		"format":      "storage:\n  format: toml\n",
		"pace":        "script:\n  pace: -1s\n",
		"temperature": "gemini:\n  temperature: 3\n",
		"extension":   "watch:\n  extensions: [pdf]\n",
		"port":        "server:\n  port: 70000\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, content)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Server.Addr() != "localhost:8080" {
		t.Errorf("server addr = %q", cfg.Server.Addr())
	}
	if cfg.Storage.Dir != DefaultStorageDir || cfg.Watch.Settle != DefaultSettle {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestAPIKey(t *testing.T) {
	t.Setenv("SLIDE2SCRIPT_TEST_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "google")
	g := GeminiConfig{APIKeyEnv: "SLIDE2SCRIPT_TEST_KEY"}
	if got := g.APIKey(); got != "google" {
		t.Errorf("APIKey fallback = %q", got)
	}
	t.Setenv("SLIDE2SCRIPT_TEST_KEY", "primary")
	if got := g.APIKey(); got != "primary" {
		t.Errorf("APIKey = %q", got)
	}
}

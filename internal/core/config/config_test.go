// # internal/core/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"astfind/internal/core/errors"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, "astfind.toml", `
[search]
context = 0
max_results = 10
workers = 4
strict_syntax = true
languages = ["py", " ts "]

[exclude]
dirs = [".git", "dist"]
files = ["*.min.js"]

[include]
paths = ["src/**"]

[output]
format = "TEXT"
summary = true

[determinism]
no_color = false
time_zone = "Europe/Copenhagen"

[log]
level = "debug"

[metrics]
textfile = "astfind.prom"

[languages.rust]
enabled = false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := cfg.Search.ContextLines(); got != 0 {
		t.Errorf("Expected context 0, got %d", got)
	}
	if cfg.Search.MaxResults != 10 || cfg.Search.Workers != 4 || !cfg.Search.StrictSyntax {
		t.Errorf("Unexpected search section: %+v", cfg.Search)
	}
	if strings.Join(cfg.Search.Languages, ",") != "py,ts" {
		t.Errorf("Unexpected languages: %v", cfg.Search.Languages)
	}
	if cfg.Search.MaxFileBytes != DefaultMaxFileBytes {
		t.Errorf("Expected default max_file_bytes, got %d", cfg.Search.MaxFileBytes)
	}
	if strings.Join(cfg.Exclude.Dirs, ",") != ".git,dist" {
		t.Errorf("Unexpected exclude dirs: %v", cfg.Exclude.Dirs)
	}
	if cfg.Output.Format != "text" || !cfg.Output.Summary {
		t.Errorf("Unexpected output section: %+v", cfg.Output)
	}
	if cfg.Determinism.NoColorEnabled() {
		t.Error("Expected no_color=false to be kept")
	}
	if cfg.Determinism.TimeZone != "Europe/Copenhagen" {
		t.Errorf("Unexpected time zone %q", cfg.Determinism.TimeZone)
	}
	if lang, ok := cfg.Languages["rust"]; !ok || lang.Enabled == nil || *lang.Enabled {
		t.Errorf("Expected rust override, got %+v", cfg.Languages)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "astfind.toml", ""))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Version != 1 {
		t.Errorf("Expected version 1, got %d", cfg.Version)
	}
	if cfg.Search.ContextLines() != DefaultContext {
		t.Errorf("Expected default context, got %d", cfg.Search.ContextLines())
	}
	if cfg.Search.MaxResults != DefaultMaxResults {
		t.Errorf("Expected default max results, got %d", cfg.Search.MaxResults)
	}
	if strings.Join(cfg.Exclude.Dirs, ",") != strings.Join(DefaultExcludeDirs, ",") {
		t.Errorf("Unexpected default exclude dirs: %v", cfg.Exclude.Dirs)
	}
	if !cfg.Determinism.NoColorEnabled() || cfg.Determinism.TimeZone != "UTC" {
		t.Errorf("Unexpected determinism defaults: %+v", cfg.Determinism)
	}
	if cfg.Output.Format != "ndjson" || cfg.Log.Level != "info" {
		t.Errorf("Unexpected defaults: format=%q level=%q", cfg.Output.Format, cfg.Log.Level)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "astfind.yaml", `
search:
  workers: 2
  max_results: -1
output:
  format: text
tracing:
  enabled: true
  endpoint: collector:4317
  insecure: true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Search.Workers != 2 || cfg.Search.MaxResults != -1 {
		t.Errorf("Unexpected search section: %+v", cfg.Search)
	}
	if !cfg.Tracing.Enabled || cfg.Tracing.Endpoint != "collector:4317" || !cfg.Tracing.Insecure {
		t.Errorf("Unexpected tracing section: %+v", cfg.Tracing)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	for name, content := range map[string]string{
		"astfind.toml": "[search]\nworkerz = 2\n",
		"astfind.yml":  "search:\n  workerz: 2\n",
	} {
		_, err := Load(writeConfig(t, name, content))
		if !errors.IsCode(err, errors.CodeConfig) {
			t.Errorf("%s: expected config error, got %v", name, err)
		}
	}
}

func TestLoadInvalid(t *testing.T) {
	_, err := Load(writeConfig(t, "astfind.toml", "[output]\nformat = \"xml\"\n[log]\nlevel = \"loud\"\n"))
	if err == nil {
		t.Fatal("Expected validation error")
	}
	if !errors.IsCode(err, errors.CodeConfig) {
		t.Errorf("Expected E_CONFIG, got %v", err)
	}
	for _, want := range []string{"output.format", "log.level"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Expected %q in %v", want, err)
		}
	}
}

func TestLoadOrDefault(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, used, err := LoadOrDefault("", nested)
	if err != nil {
		t.Fatalf("LoadOrDefault failed: %v", err)
	}
	if used != "" || cfg.Search.MaxResults != DefaultMaxResults {
		t.Errorf("Expected defaults, got used=%q", used)
	}

	path := filepath.Join(dir, DefaultFile)
	if err := os.WriteFile(path, []byte("[search]\nworkers = 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, used, err = LoadOrDefault("", nested)
	if err != nil {
		t.Fatalf("LoadOrDefault failed: %v", err)
	}
	if used != path || cfg.Search.Workers != 3 {
		t.Errorf("Expected %s with workers=3, got %q %+v", path, used, cfg.Search)
	}

	if _, _, err := LoadOrDefault(filepath.Join(dir, "missing.toml"), nested); !errors.IsCode(err, errors.CodeConfig) {
		t.Errorf("Expected E_CONFIG for a missing explicit file, got %v", err)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("ASTFIND_SEARCH_WORKERS", "7")
	t.Setenv("ASTFIND_OUTPUT_FORMAT", " Text ")
	t.Setenv("ASTFIND_TRACING_ENABLED", "true")
	t.Setenv("ASTFIND_SEARCH_MAX_RESULTS", "not-a-number")

	cfg := Default()
	ApplyEnvOverrides(cfg)

	if cfg.Search.Workers != 7 {
		t.Errorf("Expected workers 7, got %d", cfg.Search.Workers)
	}
	if cfg.Output.Format != "text" {
		t.Errorf("Expected format text, got %q", cfg.Output.Format)
	}
	if !cfg.Tracing.Enabled {
		t.Error("Expected tracing enabled")
	}
	if cfg.Search.MaxResults != DefaultMaxResults {
		t.Errorf("Expected unparsable override to be ignored, got %d", cfg.Search.MaxResults)
	}
}

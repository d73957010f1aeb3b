package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiscoverConfigStopsAtRepoRoot(t *testing.T) {
	outer := t.TempDir()
	if err := os.WriteFile(filepath.Join(outer, DefaultFile), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	repo := filepath.Join(outer, "repo")
	if err := os.MkdirAll(filepath.Join(repo, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}

	if got, ok := DiscoverConfig(repo); ok {
		t.Errorf("Expected no config inside the repo, got %q", got)
	}

	yml := filepath.Join(repo, "astfind.yml")
	if err := os.WriteFile(yml, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if got, ok := DiscoverConfig(filepath.Join(repo, ".git")); !ok || got != yml {
		t.Errorf("Expected %q, got %q", yml, got)
	}
}

func TestResolveRelative(t *testing.T) {
	base := filepath.Join("tmp", "project")
	if got := ResolveRelative(base, "out/metrics.prom"); got != filepath.Join(base, "out", "metrics.prom") {
		t.Errorf("Unexpected relative resolution %q", got)
	}
	abs := filepath.Join(string(filepath.Separator), "var", "lib", "m.prom")
	if got := ResolveRelative(base, abs); got != abs {
		t.Errorf("Expected absolute path kept, got %q", got)
	}
	if got := ResolveRelative(base, " "); got != base {
		t.Errorf("Expected base for empty value, got %q", got)
	}
}

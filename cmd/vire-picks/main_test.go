package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDedupePaths(t *testing.T) {
	abs, err := filepath.Abs("vire-picks.toml")
	if err != nil {
		t.Fatalf("abs: %v", err)
	}

	got := dedupePaths([]string{abs, "vire-picks.toml", "config/vire-picks.toml"})
	if len(got) != 2 {
		t.Fatalf("expected 2 paths, got %v", got)
	}
	if got[0] != abs || got[1] != "config/vire-picks.toml" {
		t.Errorf("unexpected order: %v", got)
	}
}

func TestConfigSearchPaths_EndsWithWorkingDirCandidates(t *testing.T) {
	paths := configSearchPaths()
	if len(paths) < 2 {
		t.Fatalf("expected at least 2 candidates, got %v", paths)
	}
	if paths[len(paths)-1] != "config/vire-picks.toml" {
		t.Errorf("expected config/vire-picks.toml last, got %s", paths[len(paths)-1])
	}
}

func TestFirstExisting(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "vire-picks.toml")
	if err := os.WriteFile(present, []byte("[server]\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, ok := firstExisting([]string{filepath.Join(dir, "missing.toml"), present})
	if !ok || got != present {
		t.Errorf("expected %s, got %q (ok=%v)", present, got, ok)
	}

	if _, ok := firstExisting([]string{filepath.Join(dir, "missing.toml")}); ok {
		t.Error("expected no match")
	}
}

func TestConfigPaths_Set(t *testing.T) {
	var c configPaths
	_ = c.Set("a.toml")
	_ = c.Set("b.toml")

	if c.String() != "a.toml,b.toml" {
		t.Errorf("expected a.toml,b.toml, got %s", c.String())
	}
}

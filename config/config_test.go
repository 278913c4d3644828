package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseMinimal(t *testing.T) {
	yaml := `
search_paths:
  - ./lib
opt_level: O2
`
	cfg, err := Parse([]byte(yaml), "wyncc.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.SearchPaths) != 1 || cfg.SearchPaths[0] != "./lib" {
		t.Errorf("search_paths = %v, want [./lib]", cfg.SearchPaths)
	}
	if cfg.OptLevel != "O2" {
		t.Errorf("opt_level = %q, want O2", cfg.OptLevel)
	}
}

func TestParseDefaultsOptLevelWhenOmitted(t *testing.T) {
	cfg, err := Parse([]byte("search_paths: []\n"), "wyncc.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OptLevel != "O0" {
		t.Errorf("opt_level = %q, want default O0", cfg.OptLevel)
	}
}

func TestParseRejectsInvalidOptLevel(t *testing.T) {
	_, err := Parse([]byte("opt_level: O9\n"), "wyncc.yaml")
	if err == nil {
		t.Fatal("expected an error for an invalid opt_level")
	}
}

func TestLoadFallsBackToDefaultWhenMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "wyncc.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OptLevel != "O0" {
		t.Errorf("expected default opt_level, got %q", cfg.OptLevel)
	}
}

func TestLoadParsesExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wyncc.yaml")
	if err := os.WriteFile(path, []byte("opt_level: O1\ndefines:\n  DEBUG: \"1\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OptLevel != "O1" {
		t.Errorf("opt_level = %q, want O1", cfg.OptLevel)
	}
	if cfg.Defines["DEBUG"] != "1" {
		t.Errorf("defines[DEBUG] = %q, want 1", cfg.Defines["DEBUG"])
	}
}

func TestFindWalksUpToAncestor(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "wyncc.yaml"), []byte("opt_level: O2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	found, err := Find(nested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := filepath.Join(root, "wyncc.yaml")
	if found != want {
		t.Errorf("Find = %q, want %q", found, want)
	}
}

func TestFindReturnsEmptyWhenNoneExists(t *testing.T) {
	dir := t.TempDir()
	found, err := Find(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != "" {
		t.Errorf("Find = %q, want empty", found)
	}
}

func TestResolvedWynRootPrefersExplicitField(t *testing.T) {
	cfg := &Config{WynRoot: "/opt/wyn"}
	if got := cfg.ResolvedWynRoot(); got != "/opt/wyn" {
		t.Errorf("ResolvedWynRoot = %q, want /opt/wyn", got)
	}
}

func TestResolvedWynRootFallsBackToEnv(t *testing.T) {
	t.Setenv("WYN_ROOT", "/env/wyn")
	cfg := &Config{}
	if got := cfg.ResolvedWynRoot(); got != "/env/wyn" {
		t.Errorf("ResolvedWynRoot = %q, want /env/wyn", got)
	}
}

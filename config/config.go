// Package config reads a project's wyncc.yaml file: module search paths,
// predefined symbols, default optimization level, and the runtime
// manifest path. Grounded on the pack's funvibe-funxy ext.Config
// (LoadConfig/ParseConfig/FindConfig over gopkg.in/yaml.v3), adapted from
// Go-binding dependency declarations to compiler project settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v3"
)

// Config is the parsed contents of a project's wyncc.yaml.
type Config struct {
	// SearchPaths lists directories searched for imported modules, in
	// addition to the importing file's own directory.
	SearchPaths []string `yaml:"search_paths,omitempty"`

	// Defines holds predefined symbols read from the file. No compiler
	// stage consumes them, and -D on the command line is likewise unused.
	Defines map[string]string `yaml:"defines,omitempty"`

	// OptLevel is the default optimization level ("O0", "O1", or "O2")
	// when no -O flag is given.
	OptLevel string `yaml:"opt_level,omitempty"`

	// ManifestPath points at the runtime-unit manifest (manifest.Manifest)
	// to use instead of the built-in default.
	ManifestPath string `yaml:"manifest_path,omitempty"`

	// WynRoot overrides the WYN_ROOT environment variable when set.
	WynRoot string `yaml:"wyn_root,omitempty"`
}

// Default returns a Config with the teacher's own layering default: a
// predefined symbol baked in (TARGET.BITS.PER.WORD on the occam side;
// here, OptLevel defaulting to unoptimized).
func Default() *Config {
	return &Config{OptLevel: "O0"}
}

// Load reads and parses path, falling back to Default when the file does
// not exist — a project with no wyncc.yaml still compiles with sane
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses wyncc.yaml content from bytes. path is used only in error
// messages.
func Parse(data []byte, path string) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if cfg.OptLevel == "" {
		cfg.OptLevel = "O0"
	}
	switch cfg.OptLevel {
	case "O0", "O1", "O2":
	default:
		return nil, fmt.Errorf("%s: invalid opt_level %q (want O0, O1, or O2)", path, cfg.OptLevel)
	}
	return cfg, nil
}

// Find searches dir and its ancestors for wyncc.yaml, the same
// upward-walking search funvibe-funxy's ext.FindConfig uses for
// funxy.yaml. Returns "" with a nil error when none is found.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "wyncc.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// ResolvedWynRoot returns WynRoot if set, else the WYN_ROOT environment
// variable, else the current working directory (spec.md §6's "unset
// defaults to the current working directory").
func (c *Config) ResolvedWynRoot() string {
	if c.WynRoot != "" {
		return c.WynRoot
	}
	if root := os.Getenv("WYN_ROOT"); root != "" {
		return root
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

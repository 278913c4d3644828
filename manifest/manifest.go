// Package manifest reads a declarative runtime-translation-unit list and
// builds the host C compiler invocation that links an emitted program
// against it. It generalizes modgen.go's SConscript-to-module generation
// (itself a declarative-file-to-build-artifact translator) into a
// YAML-driven equivalent: where modgen regex-scrapes a Python-ish build
// file because SConscript is not declarative, this format already is, so
// no scraping step is needed.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// OptLevel mirrors original_source/src/optimize.c's OptLevel enum.
type OptLevel int

const (
	OptNone OptLevel = iota
	OptO1
	OptO2
)

func (o OptLevel) Flag() string {
	switch o {
	case OptO1:
		return "-O1"
	case OptO2:
		return "-O2"
	default:
		return "-O0"
	}
}

// ShouldInline reproduces original_source/src/optimize.c's
// should_inline_function heuristic: at -O2 or higher, a function whose
// name is 15 characters or fewer is marked for inlining.
func ShouldInline(level OptLevel, funcName string) bool {
	return level >= OptO2 && len(funcName) <= 15
}

// Target names a cross-compilation target wyncc cross accepts.
type Target string

const (
	TargetLinux   Target = "linux"
	TargetMacOS   Target = "macos"
	TargetWindows Target = "windows"
)

// Manifest is the declarative runtime-unit list read from YAML. Units are
// paths relative to WYN_ROOT/src; LinkFlags are appended verbatim after
// every unit (spec.md §6's fixed `-lm` link line).
type Manifest struct {
	Units     []string `yaml:"units"`
	LinkFlags []string `yaml:"link_flags"`
}

// Default reproduces the exact runtime unit list original_source/src/main.c
// links against every emitted program with, regardless of what the program
// actually uses (spec.md §7's "fixed set of runtime support units").
func Default() *Manifest {
	return &Manifest{
		Units: []string{
			"wyn_wrapper.c", "wyn_interface.c", "io.c", "optional.c",
			"result.c", "arc_runtime.c", "concurrency.c", "async_runtime.c",
			"safe_memory.c", "error.c", "string_runtime.c", "hashmap.c",
			"hashset.c", "json.c", "stdlib_string.c", "stdlib_array.c",
			"stdlib_time.c", "stdlib_crypto.c",
		},
		LinkFlags: []string{"-lm"},
	}
}

// Load reads a manifest from path, falling back to Default on a missing
// file (a project with no explicit manifest still compiles and links).
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading manifest %q: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %q: %w", path, err)
	}
	if len(m.Units) == 0 {
		return Default(), nil
	}
	return &m, nil
}

// LinkLine builds the argument list for the host `cc` invocation compiling
// emittedC against the runtime units under wynRoot, per spec.md §6's
// "Compilation command" and SPEC_FULL.md §7's exact reproduction of
// original_source/src/main.c's gcc line.
func (m *Manifest) LinkLine(cc, wynRoot, emittedC, out string, level OptLevel) []string {
	args := []string{level.Flag(), "-I", filepath.Join(wynRoot, "src"), "-o", out, emittedC}
	for _, u := range m.Units {
		args = append(args, filepath.Join(wynRoot, "src", u))
	}
	args = append(args, m.LinkFlags...)
	return args
}

// CrossCompiler returns the host compiler binary and extra flags
// original_source/src/main.c uses for each cross target: plain gcc for
// linux/macos, the mingw-w64 cross compiler (statically linked) for
// windows.
func CrossCompiler(target Target) (cc string, extraFlags []string, ext string, err error) {
	switch target {
	case TargetLinux:
		return "gcc", nil, ".linux", nil
	case TargetMacOS:
		return "gcc", nil, ".macos", nil
	case TargetWindows:
		return "x86_64-w64-mingw32-gcc", []string{"-static"}, ".exe", nil
	default:
		return "", nil, "", fmt.Errorf("unknown cross target %q (want linux, macos, or windows)", target)
	}
}

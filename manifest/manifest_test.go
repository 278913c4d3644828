package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIncludesFixedRuntimeUnits(t *testing.T) {
	m := Default()
	for _, want := range []string{"wyn_wrapper.c", "arc_runtime.c", "hashmap.c", "stdlib_crypto.c"} {
		found := false
		for _, u := range m.Units {
			if u == want {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected default manifest to include %s, got %v", want, m.Units)
		}
	}
	if len(m.LinkFlags) != 1 || m.LinkFlags[0] != "-lm" {
		t.Fatalf("expected the fixed -lm link flag, got %v", m.LinkFlags)
	}
}

func TestLoadFallsBackToDefaultWhenMissing(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Units) != len(Default().Units) {
		t.Fatalf("expected the default manifest, got %v", m.Units)
	}
}

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wyncc.yaml")
	content := "units:\n  - wyn_wrapper.c\n  - io.c\nlink_flags:\n  - -lm\n  - -lpthread\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	m, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Units) != 2 || m.Units[0] != "wyn_wrapper.c" {
		t.Fatalf("unexpected units: %v", m.Units)
	}
	if len(m.LinkFlags) != 2 || m.LinkFlags[1] != "-lpthread" {
		t.Fatalf("unexpected link flags: %v", m.LinkFlags)
	}
}

func TestLinkLineMatchesOriginalShape(t *testing.T) {
	m := Default()
	args := m.LinkLine("cc", "/opt/wyn", "out.c", "out", OptO2)
	joined := strings.Join(args, " ")
	if !strings.HasPrefix(joined, "-O2 -I /opt/wyn/src -o out out.c") {
		t.Fatalf("unexpected link line shape: %q", joined)
	}
	if !strings.HasSuffix(joined, "-lm") {
		t.Fatalf("expected the line to end with -lm, got %q", joined)
	}
	if !strings.Contains(joined, filepath.Join("/opt/wyn", "src", "wyn_wrapper.c")) {
		t.Fatalf("expected the wrapper unit on the link line, got %q", joined)
	}
}

func TestShouldInlineMatchesOriginalHeuristic(t *testing.T) {
	if ShouldInline(OptNone, "f") {
		t.Fatalf("-O0 should never mark functions for inlining")
	}
	if ShouldInline(OptO1, "f") {
		t.Fatalf("-O1 should never mark functions for inlining")
	}
	if !ShouldInline(OptO2, "short_name") {
		t.Fatalf("expected a <=15 char name to be inlined at -O2")
	}
	if ShouldInline(OptO2, "this_name_is_definitely_too_long") {
		t.Fatalf("expected a >15 char name not to be inlined")
	}
}

func TestCrossCompilerTargets(t *testing.T) {
	cc, flags, ext, err := CrossCompiler(TargetWindows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cc != "x86_64-w64-mingw32-gcc" || ext != ".exe" {
		t.Fatalf("unexpected windows target: %s %v %s", cc, flags, ext)
	}
	if len(flags) != 1 || flags[0] != "-static" {
		t.Fatalf("expected -static for windows cross-compilation, got %v", flags)
	}
	if _, _, _, err := CrossCompiler("plan9"); err == nil {
		t.Fatalf("expected an error for an unknown target")
	}
}

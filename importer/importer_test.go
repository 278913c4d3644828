package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuiltinModuleImportLeavesNoResidue(t *testing.T) {
	im := New()
	out, err := im.processSource("import math\nlet x = 1\n", "")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "import math") {
		t.Errorf("expected the import line to be consumed, got %q", out)
	}
	if !strings.Contains(out, "let x = 1") {
		t.Errorf("expected surrounding source to survive, got %q", out)
	}
}

func TestImportResolvesAndInlinesFromSearchPath(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "geo.wyn"), []byte("fn area(r: int) -> int { return r }\n"), 0644); err != nil {
		t.Fatal(err)
	}
	im := New(WithSearchPaths([]string{dir}))
	out, err := im.processSource("import geo\nfn main() {}\n", "")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "fn area(r: int) -> int") {
		t.Errorf("expected geo.wyn's body inlined, got %q", out)
	}
}

func TestUnresolvedImportIsReportedNotFatal(t *testing.T) {
	im := New()
	_, err := im.processSource("import nope\n", "")
	if err != nil {
		t.Fatalf("unresolved imports are reported, not fatal: %v", err)
	}
	if len(im.Errors()) == 0 {
		t.Errorf("expected an error to be recorded for an unresolved import")
	}
}

func TestCircularImportDetected(t *testing.T) {
	dir := t.TempDir()
	aPath := filepath.Join(dir, "a.wyn")
	bPath := filepath.Join(dir, "b.wyn")
	if err := os.WriteFile(aPath, []byte("import b\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bPath, []byte("import a\n"), 0644); err != nil {
		t.Fatal(err)
	}
	im := New(WithSearchPaths([]string{dir}))
	if _, err := im.ProcessFile(aPath); err == nil {
		t.Fatalf("expected a circular import error")
	}
}

func TestDoubleColonNamespacedToUnderscore(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "geo.wyn"), []byte("fn geo::area() {}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	im := New(WithSearchPaths([]string{dir}))
	out, err := im.processSource("import geo\n", "")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "::") || !strings.Contains(out, "geo_area") {
		t.Errorf("expected :: rewritten to _, got %q", out)
	}
}

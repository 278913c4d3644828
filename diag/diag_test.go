package diag

import (
	"strings"
	"testing"
)

func TestRenderPlainIncludesPositionAndMessage(t *testing.T) {
	d := Diagnostic{File: "main.wyn", Line: 12, Message: "undefined identifier \"x\"", Severity: SeverityError}
	out := d.Render(false)
	if !strings.Contains(out, "main.wyn:12:") {
		t.Fatalf("expected a file:line prefix, got %q", out)
	}
	if !strings.Contains(out, "error:") || !strings.Contains(out, "undefined identifier") {
		t.Fatalf("expected error label and message, got %q", out)
	}
}

func TestRenderWarningLabel(t *testing.T) {
	d := Diagnostic{Message: "unhandled enum variant", Severity: SeverityWarning}
	out := d.Render(false)
	if !strings.Contains(out, "warning:") {
		t.Fatalf("expected a warning label, got %q", out)
	}
}

func TestRenderColorDoesNotDropMessage(t *testing.T) {
	d := Diagnostic{File: "a.wyn", Line: 3, Message: "boom", Severity: SeverityError}
	out := d.Render(true)
	if !strings.Contains(out, "boom") {
		t.Fatalf("expected the message to survive color rendering, got %q", out)
	}
}

func TestFromStringsWrapsAsErrors(t *testing.T) {
	diags := FromStrings("p.wyn", []string{"bad token", "unexpected eof"})
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", len(diags))
	}
	for _, d := range diags {
		if d.Severity != SeverityError || d.File != "p.wyn" {
			t.Fatalf("unexpected diagnostic: %+v", d)
		}
	}
}

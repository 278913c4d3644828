// Package diag renders compiler diagnostics (source position, message,
// severity) for cmd/wyncc. Colorized output
// uses github.com/fatih/color, gated by github.com/mattn/go-isatty so
// output piped to a file or CI log falls back to plain text — the same
// isatty-gated color pattern the retrieved pack's terminal-facing repos
// use for their own status output.
package diag

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Severity classifies a Diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Diagnostic is one reported problem, optionally anchored to a source
// file/line.
type Diagnostic struct {
	File     string
	Line     int
	Message  string
	Severity Severity
}

var (
	errColor  = color.New(color.FgRed, color.Bold).SprintFunc()
	warnColor = color.New(color.FgYellow, color.Bold).SprintFunc()
	posColor  = color.New(color.FgCyan).SprintFunc()
)

// UseColor reports whether stderr is attached to a real terminal, the
// same detection funvibe-funxy's builtins_term.go uses before emitting
// ANSI escapes.
func UseColor() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Render formats d as a single line, with ANSI color when useColor is
// true and plain text otherwise.
func (d Diagnostic) Render(useColor bool) string {
	var pos string
	if d.File != "" {
		if d.Line > 0 {
			pos = fmt.Sprintf("%s:%d: ", d.File, d.Line)
		} else {
			pos = fmt.Sprintf("%s: ", d.File)
		}
	}
	label := d.Severity.String()
	if !useColor {
		return fmt.Sprintf("%s%s: %s", pos, label, d.Message)
	}
	if pos != "" {
		pos = posColor(pos)
	}
	if d.Severity == SeverityWarning {
		label = warnColor(label)
	} else {
		label = errColor(label)
	}
	return fmt.Sprintf("%s%s: %s", pos, label, d.Message)
}

// RenderAll joins every diagnostic onto its own line, auto-detecting
// color from the current stderr.
func RenderAll(diags []Diagnostic) string {
	useColor := UseColor()
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = d.Render(useColor)
	}
	return strings.Join(lines, "\n")
}

// FromStrings wraps plain error strings (the shape parser.Parser.Errors
// and checker.Checker.Errors already return) as error-severity
// Diagnostics with no position, for callers that only have message text.
func FromStrings(file string, messages []string) []Diagnostic {
	out := make([]Diagnostic, len(messages))
	for i, m := range messages {
		out[i] = Diagnostic{File: file, Message: m, Severity: SeverityError}
	}
	return out
}

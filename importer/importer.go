// Package importer pre-scans Wyn source for import statements and
// concatenates the referenced module sources into one combined buffer
// before lexing (spec.md §4.6 step 2). It is the same shape as
// preproc.go's textual #INCLUDE resolution — functional options, a
// search-path list, and a processing set guarding against circular
// includes — generalized from directive-line scanning to plain `import`
// statement scanning, since Wyn has no textual preprocessor.
package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Option configures an Importer.
type Option func(*Importer)

// WithSearchPaths sets the directories searched for a module named in an
// import statement, in addition to the importing file's own directory.
func WithSearchPaths(paths []string) Option {
	return func(im *Importer) {
		im.searchPaths = paths
	}
}

// Importer resolves and concatenates imported module sources.
type Importer struct {
	searchPaths []string
	errors      []string
	processing  map[string]bool // absolute paths currently being processed
	inlined     map[string]bool // module names already concatenated once
}

// New creates an Importer with the given options.
func New(opts ...Option) *Importer {
	im := &Importer{
		processing: map[string]bool{},
		inlined:    map[string]bool{},
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// Errors returns any non-fatal warnings accumulated during processing.
func (im *Importer) Errors() []string { return im.errors }

// importRe matches a leading `import name` or `import name::{...}`
// statement; the qualifier and brace list are consumed but not needed
// here since resolution and namespacing operate on the whole module.
var importRe = regexp.MustCompile(`^\s*import\s+([A-Za-z_][A-Za-z0-9_]*)`)

// builtinModules are recognized standard module names. An import of one
// of these is dropped here, and no later stage emits a block of
// definitions for the module.
var builtinModules = map[string]bool{
	"math": true, "random": true, "array": true, "string": true, "time": true,
}

// ProcessFile reads filename and returns the combined source with every
// resolvable import inlined in place.
func (im *Importer) ProcessFile(filename string) (string, error) {
	absPath, err := filepath.Abs(filename)
	if err != nil {
		return "", fmt.Errorf("cannot resolve path %q: %w", filename, err)
	}
	if im.processing[absPath] {
		return "", fmt.Errorf("circular import detected: %s", filename)
	}
	im.processing[absPath] = true
	defer delete(im.processing, absPath)

	data, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("cannot read %q: %w", filename, err)
	}
	return im.processSource(string(data), filepath.Dir(absPath))
}

func (im *Importer) processSource(source, baseDir string) (string, error) {
	lines := strings.Split(source, "\n")
	var out strings.Builder
	for i, line := range lines {
		if i > 0 {
			out.WriteByte('\n')
		}
		m := importRe.FindStringSubmatch(line)
		if m == nil {
			out.WriteString(line)
			continue
		}
		mod := m[1]
		if builtinModules[mod] || im.inlined[mod] {
			continue // blank line: builtin module imports are dropped, repeats are already inlined
		}
		path := im.resolve(mod, baseDir)
		if path == "" {
			im.errors = append(im.errors, fmt.Sprintf("line %d: cannot find module %q on the search path", i+1, mod))
			continue
		}
		im.inlined[mod] = true
		included, err := im.ProcessFile(path)
		if err != nil {
			return "", fmt.Errorf("line %d: %w", i+1, err)
		}
		out.WriteString(namespace(included))
	}
	return out.String(), nil
}

// resolve searches baseDir, then each configured search path, for a file
// named "<mod>.wyn".
func (im *Importer) resolve(mod, baseDir string) string {
	name := mod + ".wyn"
	if baseDir != "" {
		candidate := filepath.Join(baseDir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	for _, dir := range im.searchPaths {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// namespace rewrites `::` to `_` in an inlined module's source, so an
// imported item's qualified path becomes a single flat identifier in the
// combined buffer fed to the lexer (spec.md §4.6 step 2).
func namespace(src string) string {
	return strings.ReplaceAll(src, "::", "_")
}

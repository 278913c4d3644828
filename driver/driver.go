// Package driver orchestrates the full compile pipeline: import
// resolution, lexing, parsing, type checking, C code generation, and
// invoking the host C compiler against the fixed runtime manifest
// (spec.md §4.6). It mirrors preproc.New's functional-options shape,
// generalized to configure the whole pipeline instead of just textual
// preprocessing.
package driver

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/codeassociates/wyncc/checker"
	"github.com/codeassociates/wyncc/codegen"
	"github.com/codeassociates/wyncc/importer"
	"github.com/codeassociates/wyncc/lexer"
	"github.com/codeassociates/wyncc/manifest"
	"github.com/codeassociates/wyncc/parser"
	"github.com/codeassociates/wyncc/registry"
)

// Option configures a Driver.
type Option func(*Driver)

// WithSearchPaths sets the directories searched for imported modules.
func WithSearchPaths(paths []string) Option {
	return func(d *Driver) { d.searchPaths = paths }
}

// WithOptLevel sets the optimization level passed to the host compiler
// as its -O flag. It makes no inlining decisions.
func WithOptLevel(level manifest.OptLevel) Option {
	return func(d *Driver) { d.optLevel = level }
}

// WithWynRoot sets the runtime-unit root directory (spec.md's WYN_ROOT),
// overriding the environment variable and current-directory defaults.
func WithWynRoot(root string) Option {
	return func(d *Driver) { d.wynRoot = root }
}

// WithManifest overrides the default runtime-unit manifest.
func WithManifest(m *manifest.Manifest) Option {
	return func(d *Driver) { d.manifest = m }
}

// WithCC overrides the host C compiler invoked to link the emitted
// output (defaults to "gcc").
func WithCC(cc string) Option {
	return func(d *Driver) { d.cc = cc }
}

// Driver runs the pipeline from a .wyn source file down to a linked
// native binary.
type Driver struct {
	searchPaths []string
	optLevel    manifest.OptLevel
	wynRoot     string
	manifest    *manifest.Manifest
	cc          string
}

// New creates a Driver with the given options. Unset fields take the
// same defaults spec.md describes: unoptimized, gcc, the current
// directory as WYN_ROOT, and the built-in runtime manifest.
func New(opts ...Option) *Driver {
	d := &Driver{
		optLevel: manifest.OptNone,
		manifest: manifest.Default(),
		cc:       "gcc",
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.wynRoot == "" {
		if root := os.Getenv("WYN_ROOT"); root != "" {
			d.wynRoot = root
		} else if wd, err := os.Getwd(); err == nil {
			d.wynRoot = wd
		} else {
			d.wynRoot = "."
		}
	}
	return d
}

// Result carries a single compile's diagnostics and generated C source,
// regardless of whether linking was also requested.
type Result struct {
	GeneratedC string
	Errors     []string
}

// OK reports whether the compile produced no errors.
func (r *Result) OK() bool { return len(r.Errors) == 0 }

// CompileFile resolves imports from filename, lexes, parses, checks, and
// emits C source. It does not invoke the host compiler; callers that
// also want a binary should call Link on a successful Result.
func (d *Driver) CompileFile(filename string) (*Result, error) {
	im := importer.New(importer.WithSearchPaths(d.searchPaths))
	combined, err := im.ProcessFile(filename)
	if err != nil {
		return nil, fmt.Errorf("resolving imports in %s: %w", filename, err)
	}
	res := d.compileSource(combined)
	res.Errors = append(im.Errors(), res.Errors...)
	return res, nil
}

// CompileDir concatenates every *.wyn file in dir (spec.md §6's
// `wyncc build <dir>`) and compiles the result as one translation unit.
func (d *Driver) CompileDir(dir string) (*Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var combined string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".wyn" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		im := importer.New(importer.WithSearchPaths(append(d.searchPaths, dir)))
		src, err := im.ProcessFile(path)
		if err != nil {
			return nil, fmt.Errorf("resolving imports in %s: %w", path, err)
		}
		combined += src + "\n"
	}
	return d.compileSource(combined), nil
}

// compileSource runs the lex/parse/check/codegen stages on already
// import-resolved source text.
func (d *Driver) compileSource(source string) *Result {
	l := lexer.New(source)
	p := parser.New(l)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return &Result{Errors: errs}
	}

	generics := registry.NewGenerics()
	closures := registry.NewClosures("")
	c := checker.New(generics, closures)
	c.Check(program)
	if errs := c.Errors(); len(errs) > 0 {
		return &Result{Errors: errs}
	}

	gen := codegen.New(generics, closures)
	return &Result{GeneratedC: gen.Generate(program)}
}

// Link writes generatedC to a scratch .c file in os.TempDir() (named
// with a random build ID so concurrent compiles never collide), invokes
// the host C compiler against the fixed runtime manifest to produce out,
// and returns an error if writing or compiling fails.
func (d *Driver) Link(generatedC, out string) error {
	buildID := uuid.NewString()
	scratchDir := os.TempDir()
	emittedC := filepath.Join(scratchDir, fmt.Sprintf("wyncc-%s.c", buildID))
	if err := os.WriteFile(emittedC, []byte(generatedC), 0644); err != nil {
		return fmt.Errorf("writing generated source: %w", err)
	}
	defer os.Remove(emittedC)

	args := d.manifest.LinkLine(d.cc, d.wynRoot, emittedC, out, d.optLevel)
	cmd := exec.Command(d.cc, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", d.cc, err)
	}
	return nil
}

// Run links generatedC to a temporary executable and runs it
// immediately, returning its exit code (spec.md §6's `wyncc run`).
func (d *Driver) Run(generatedC string, args []string) (int, error) {
	buildID := uuid.NewString()
	exe := filepath.Join(os.TempDir(), fmt.Sprintf("wyncc-run-%s", buildID))
	if err := d.Link(generatedC, exe); err != nil {
		return 1, err
	}
	defer os.Remove(exe)

	cmd := exec.Command(exe, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode(), nil
		}
		return 1, fmt.Errorf("running %s: %w", exe, err)
	}
	return 0, nil
}

// CrossLink compiles generatedC for a cross-compilation target (spec.md
// §6's `wyncc cross <target>`), selecting the matching toolchain and
// output extension from manifest.CrossCompiler.
func (d *Driver) CrossLink(generatedC, outBase string, target manifest.Target) error {
	cc, extraFlags, ext, err := manifest.CrossCompiler(target)
	if err != nil {
		return err
	}
	buildID := uuid.NewString()
	emittedC := filepath.Join(os.TempDir(), fmt.Sprintf("wyncc-%s.c", buildID))
	if err := os.WriteFile(emittedC, []byte(generatedC), 0644); err != nil {
		return fmt.Errorf("writing generated source: %w", err)
	}
	defer os.Remove(emittedC)

	out := outBase + ext
	args := d.manifest.LinkLine(cc, d.wynRoot, emittedC, out, d.optLevel)
	args = append(args, extraFlags...)
	cmd := exec.Command(cc, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", cc, err)
	}
	return nil
}

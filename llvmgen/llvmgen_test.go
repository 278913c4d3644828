package llvmgen

import (
	"testing"

	"github.com/codeassociates/wyncc/checker"
	"github.com/codeassociates/wyncc/lexer"
	"github.com/codeassociates/wyncc/parser"
	"github.com/codeassociates/wyncc/registry"
)

// compile lexes, parses, and checks src, failing the test on any error
// so each case below only has to assert on the generated IR.
func compile(t *testing.T, src string) *Generator {
	t.Helper()
	l := lexer.New(src)
	p := parser.New(l)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	c := checker.New(registry.NewGenerics(), registry.NewClosures(""))
	c.Check(prog)
	if errs := c.Errors(); len(errs) > 0 {
		t.Fatalf("check errors: %v", errs)
	}
	g := New("test")
	if err := g.Generate(prog); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return g
}

func TestGenerateEmitsFunctionWithParamCount(t *testing.T) {
	g := compile(t, "fn add(a: int, b: int) -> int { return a + b }")
	defer g.Dispose()

	fn := g.Module().NamedFunction("add")
	if fn.IsNil() {
		t.Fatal("expected function add to be emitted")
	}
	if fn.ParamsCount() != 2 {
		t.Errorf("ParamsCount() = %d, want 2", fn.ParamsCount())
	}
}

func TestGenerateLowersComparisonAndIf(t *testing.T) {
	g := compile(t, `fn max(a: int, b: int) -> int {
		if a > b {
			return a
		} else {
			return b
		}
	}`)
	defer g.Dispose()

	fn := g.Module().NamedFunction("max")
	if fn.IsNil() {
		t.Fatal("expected function max to be emitted")
	}
	if got := fn.BasicBlocksCount(); got < 3 {
		t.Errorf("BasicBlocksCount() = %d, want at least 3 (entry, then, else)", got)
	}
}

func TestGenerateLowersWhileLoop(t *testing.T) {
	g := compile(t, `fn countdown(n: int) -> int {
		while n > 0 {
			n = n - 1
		}
		return n
	}`)
	defer g.Dispose()

	fn := g.Module().NamedFunction("countdown")
	if fn.IsNil() {
		t.Fatal("expected function countdown to be emitted")
	}
	if got := fn.BasicBlocksCount(); got < 4 {
		t.Errorf("BasicBlocksCount() = %d, want at least 4 (entry, head, body, end)", got)
	}
}

func TestGenerateInternsStringLiteralAsGlobal(t *testing.T) {
	g := compile(t, `fn greeting() -> string { return "hello" }`)
	defer g.Dispose()

	fn := g.Module().NamedFunction("greeting")
	if fn.IsNil() {
		t.Fatal("expected function greeting to be emitted")
	}
	if g.strCount != 1 {
		t.Errorf("strCount = %d, want 1 global string constant", g.strCount)
	}
}

func TestGenerateRejectsForEachLoop(t *testing.T) {
	l := lexer.New(`fn sumAll(items: [int]) -> int {
		let total = 0
		for item in items {
			total = total + item
		}
		return total
	}`)
	p := parser.New(l)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	c := checker.New(registry.NewGenerics(), registry.NewClosures(""))
	c.Check(prog)
	if errs := c.Errors(); len(errs) > 0 {
		t.Fatalf("check errors: %v", errs)
	}

	g := New("test")
	defer g.Dispose()
	if err := g.Generate(prog); err == nil {
		t.Fatal("expected an error lowering a for-each loop, which is outside the llvm subset")
	}
}

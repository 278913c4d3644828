package codegen

import (
	"strings"
	"testing"

	"github.com/codeassociates/wyncc/checker"
	"github.com/codeassociates/wyncc/lexer"
	"github.com/codeassociates/wyncc/parser"
	"github.com/codeassociates/wyncc/registry"
)

// generate runs a source string through the full lexer/parser/checker/
// codegen pipeline and fails the test on any parse or check error.
func generate(t *testing.T, src string) string {
	t.Helper()
	p := parser.New(lexer.New(src))
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("parse errors: %v", p.Errors())
	}
	generics := registry.NewGenerics()
	closures := registry.NewClosures("")
	c := checker.New(generics, closures)
	c.Check(prog)
	if len(c.Errors()) != 0 {
		t.Fatalf("check errors: %v", c.Errors())
	}
	return New(generics, closures).Generate(prog)
}

func TestEmitsRuntimePreludeOnce(t *testing.T) {
	out := generate(t, `let x = 5`)
	if strings.Count(out, "extern WynArray* wyn_array_new(void);") != 1 {
		t.Fatalf("expected the ABI prelude exactly once, got:\n%s", out)
	}
}

func TestWynMainWrapsLooseStatements(t *testing.T) {
	out := generate(t, `let x = 1
let y = x + 1`)
	if !strings.Contains(out, "void wyn_main(void) {") {
		t.Fatalf("expected a wyn_main entry point, got:\n%s", out)
	}
}

func TestExplicitMainFoldedIntoWynMain(t *testing.T) {
	out := generate(t, `fn main() {
    let x = 1
}`)
	if strings.Contains(out, "int main(") || strings.Contains(out, "void main(") {
		t.Fatalf("main should be renamed, not kept verbatim:\n%s", out)
	}
	if !strings.Contains(out, "wyn_main") {
		t.Fatalf("expected wyn_main, got:\n%s", out)
	}
}

func TestOverloadedFunctionsGetDistinctNames(t *testing.T) {
	out := generate(t, `fn describe(x: int) -> string {
    return "int"
}
fn describe(x: string) -> string {
    return "string"
}
fn main() {
    describe(1)
    describe("a")
}`)
	if !strings.Contains(out, "describe_int") || !strings.Contains(out, "describe_string") {
		t.Fatalf("expected distinct suffixed overload names, got:\n%s", out)
	}
}

func TestStructEmitsTypedefAndFieldAccess(t *testing.T) {
	out := generate(t, `struct Point {
    x: int,
    y: int,
}
fn main() {
    let p = Point { x: 1, y: 2 }
    let v = p.x
}`)
	if !strings.Contains(out, "typedef struct Wyn_Point") {
		t.Fatalf("expected a struct typedef, got:\n%s", out)
	}
	if !strings.Contains(out, "->x") {
		t.Fatalf("expected field access via ->, got:\n%s", out)
	}
}

func TestEnumEmitsTypedefAndNameTable(t *testing.T) {
	out := generate(t, `enum Color {
    Red,
    Green,
    Blue,
}
fn main() {
}`)
	if !strings.Contains(out, "typedef enum Wyn_Color") {
		t.Fatalf("expected an enum typedef, got:\n%s", out)
	}
	if !strings.Contains(out, "Wyn_Color_names") {
		t.Fatalf("expected a name table for enum variants, got:\n%s", out)
	}
}

func TestCStyleForLoopHeaderIsOneLine(t *testing.T) {
	out := generate(t, `fn main() {
    for let mut i = 0; i < 10; i = i + 1 {
        let y = i
    }
}`)
	idx := strings.Index(out, "for (")
	if idx < 0 {
		t.Fatalf("expected a C-style for loop, got:\n%s", out)
	}
	line := out[idx:strings.Index(out[idx:], "\n")+idx]
	if !strings.Contains(line, ";") || !strings.HasSuffix(strings.TrimSpace(line), "{") {
		t.Fatalf("expected a single coherent for(...) { line, got: %q", line)
	}
	if strings.Count(line, "for (") != 1 {
		t.Fatalf("expected exactly one for( on its header line, got: %q", line)
	}
}

func TestForEachLowersToIndexedArrayLoop(t *testing.T) {
	out := generate(t, `fn main() {
    let xs = [1, 2, 3]
    for x in xs {
        let y = x
    }
}`)
	if !strings.Contains(out, "wyn_array_count(") {
		t.Fatalf("expected a count-bounded index loop, got:\n%s", out)
	}
}

func TestAsyncFunctionReturnsFutureAndSetsReady(t *testing.T) {
	out := generate(t, `async fn fetch() -> int {
    return 42
}`)
	if !strings.Contains(out, "WynFuture*") {
		t.Fatalf("expected an async function to return WynFuture*, got:\n%s", out)
	}
	if !strings.Contains(out, "wyn_future_set_ready(") {
		t.Fatalf("expected the return to be lowered through wyn_future_set_ready, got:\n%s", out)
	}
}

func TestSpawnEmitsWrapperFunction(t *testing.T) {
	out := generate(t, `fn worker(n: int) {
    let y = n
}
fn main() {
    spawn worker(1)
}`)
	if !strings.Contains(out, "wyn_spawn_wrapper_1") {
		t.Fatalf("expected a numbered spawn wrapper, got:\n%s", out)
	}
	if !strings.Contains(out, "wyn_spawn_fast(wyn_spawn_wrapper_1") {
		t.Fatalf("expected main to hand the wrapper to wyn_spawn_fast, got:\n%s", out)
	}
}

func TestTupleUsesOpaqueAccessors(t *testing.T) {
	out := generate(t, `fn main() {
    let t = (1, "a")
}`)
	if !strings.Contains(out, "wyn_tuple_new(") || !strings.Contains(out, "wyn_tuple_set(") {
		t.Fatalf("expected tuple construction via opaque accessors, got:\n%s", out)
	}
	if strings.Contains(out, "->elems") {
		t.Fatalf("tuple is an opaque type; direct field access should never be emitted:\n%s", out)
	}
}

func TestTryOperatorPropagatesEarlyReturn(t *testing.T) {
	out := generate(t, `fn parse(s: string) -> Result<int, string> {
    return Ok(1)
}
fn use_it(s: string) -> Result<int, string> {
    let v = parse(s)?
    return Ok(v)
}`)
	if !strings.Contains(out, "!wyn_result_is_ok(") {
		t.Fatalf("expected the try operator to test for an error result, got:\n%s", out)
	}
}

func TestMatchExpressionAssignsCommonResultVariable(t *testing.T) {
	out := generate(t, `fn sign(x: int) -> string {
    return match x {
        0 => "zero",
        _ => "nonzero",
    }
}`)
	if !strings.Contains(out, "__wyn_res") {
		t.Fatalf("expected a match-expression result temporary, got:\n%s", out)
	}
}

func TestGenericFunctionMonomorphizedPerInstantiation(t *testing.T) {
	out := generate(t, `fn identity<T>(x: T) -> T {
    return x
}
fn main() {
    let a = identity(1)
    let b = identity("s")
}`)
	if !strings.Contains(out, "identity_i(") || !strings.Contains(out, "identity_s(") {
		t.Fatalf("expected one monomorphized instantiation per argument type, got:\n%s", out)
	}
}

func TestExternDeclIsCallableAndDeclaredOnce(t *testing.T) {
	out := generate(t, `extern fn c_abs(x: int) -> int
fn main() {
    let y = c_abs(-1)
}`)
	if strings.Count(out, "extern int c_abs(") != 1 {
		t.Fatalf("expected the extern declaration to be forwarded exactly once, got:\n%s", out)
	}
}

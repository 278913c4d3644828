package checker

import (
	"testing"

	"github.com/codeassociates/wyncc/ast"
	"github.com/codeassociates/wyncc/lexer"
	"github.com/codeassociates/wyncc/parser"
	"github.com/codeassociates/wyncc/registry"
	"github.com/codeassociates/wyncc/types"
)

func check(t *testing.T, src string) (*ast.Program, *Checker) {
	t.Helper()
	p := parser.New(lexer.New(src))
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("parse errors: %v", p.Errors())
	}
	c := New(registry.NewGenerics(), registry.NewClosures(""))
	c.Check(prog)
	return prog, c
}

func TestLetInfersTypeFromValue(t *testing.T) {
	prog, c := check(t, `let x = 5`)
	if len(c.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", c.Errors())
	}
	let := prog.Statements[0].(*ast.LetStmt)
	if let.Value.Type().Kind != types.Int {
		t.Fatalf("expected int, got %s", let.Value.Type())
	}
}

func TestLetTypeMismatchIsReported(t *testing.T) {
	_, c := check(t, `let x: string = 5`)
	if len(c.Errors()) == 0 {
		t.Fatalf("expected a type mismatch error")
	}
}

func TestUndefinedIdentifierIsReported(t *testing.T) {
	_, c := check(t, `let x = y`)
	if len(c.Errors()) == 0 {
		t.Fatalf("expected undefined identifier error")
	}
}

func TestAssignToImmutableIsReported(t *testing.T) {
	_, c := check(t, `
let x = 1
x = 2
`)
	if len(c.Errors()) == 0 {
		t.Fatalf("expected immutable assignment error")
	}
}

func TestAssignToMutableIsAllowed(t *testing.T) {
	_, c := check(t, `
let mut x = 1
x = 2
`)
	if len(c.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", c.Errors())
	}
}

func TestFunctionCallResolvesOverloadAndReturnType(t *testing.T) {
	prog, c := check(t, `
fn add(a: int, b: int) -> int {
	return a + b
}
let result = add(1, 2)
`)
	if len(c.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", c.Errors())
	}
	let := prog.Statements[1].(*ast.LetStmt)
	call := let.Value.(*ast.CallExpr)
	if call.Overload == nil {
		t.Fatalf("expected Overload to be set")
	}
	if call.Overload.MangledName != "add" {
		t.Fatalf("expected non-generic call to keep plain name, got %q", call.Overload.MangledName)
	}
	if call.Type().Kind != types.Int {
		t.Fatalf("expected int return type, got %s", call.Type())
	}
}

func TestGenericCallInstantiatesConcreteMangledName(t *testing.T) {
	prog, c := check(t, `
fn identity<T>(x: T) -> T {
	return x
}
let a = identity(1)
let b = identity("hi")
`)
	if len(c.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", c.Errors())
	}
	callA := prog.Statements[1].(*ast.LetStmt).Value.(*ast.CallExpr)
	callB := prog.Statements[2].(*ast.LetStmt).Value.(*ast.CallExpr)
	if !callA.Overload.IsGeneric || !callB.Overload.IsGeneric {
		t.Fatalf("expected both calls flagged generic")
	}
	if callA.Overload.MangledName == callB.Overload.MangledName {
		t.Fatalf("expected distinct mangled names for int vs string instantiation")
	}
	if callA.Type().Kind != types.Int {
		t.Fatalf("expected identity(1) to resolve to int, got %s", callA.Type())
	}
	if callB.Type().Kind != types.StringT {
		t.Fatalf("expected identity(\"hi\") to resolve to string, got %s", callB.Type())
	}
}

func TestStructInitAndFieldAccess(t *testing.T) {
	prog, c := check(t, `
struct Point {
	x: int,
	y: int,
}
let p = Point { x: 1, y: 2 }
let px = p.x
`)
	if len(c.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", c.Errors())
	}
	px := prog.Statements[2].(*ast.LetStmt)
	if px.Value.Type().Kind != types.Int {
		t.Fatalf("expected int field type, got %s", px.Value.Type())
	}
}

func TestStructInitMissingFieldIsReported(t *testing.T) {
	_, c := check(t, `
struct Point {
	x: int,
	y: int,
}
let p = Point { x: 1 }
`)
	if len(c.Errors()) == 0 {
		t.Fatalf("expected missing-field error")
	}
}

func TestIfExprBranchesMustUnify(t *testing.T) {
	_, c := check(t, `let x = if true { 1 } else { "two" }`)
	if len(c.Errors()) == 0 {
		t.Fatalf("expected branch type mismatch error")
	}
}

func TestMatchArmsMustUnify(t *testing.T) {
	_, c := check(t, `
let x = match 1 {
	1 => 1,
	_ => "two",
}
`)
	if len(c.Errors()) == 0 {
		t.Fatalf("expected match arm type mismatch error")
	}
}

func TestRefutablePatternInLetIsRejected(t *testing.T) {
	_, c := check(t, `let Some(x) = maybeValue`)
	if len(c.Errors()) == 0 {
		t.Fatalf("expected refutable-pattern-in-let error")
	}
}

func TestBreakOutsideLoopIsRejected(t *testing.T) {
	_, c := check(t, `break`)
	if len(c.Errors()) == 0 {
		t.Fatalf("expected break-outside-loop error")
	}
}

func TestBreakInsideWhileIsAllowed(t *testing.T) {
	_, c := check(t, `
while true {
	break
}
`)
	if len(c.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", c.Errors())
	}
}

func TestTryOperatorUnwrapsResult(t *testing.T) {
	prog, c := check(t, `
fn risky() -> Result<int, string> {
	return Ok(1)
}
let x = risky()?
`)
	if len(c.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", c.Errors())
	}
	let := prog.Statements[1].(*ast.LetStmt)
	if let.Value.Type().Kind != types.Int {
		t.Fatalf("expected int after '?', got %s", let.Value.Type())
	}
}

func TestLambdaCapturesFreeVariables(t *testing.T) {
	prog, c := check(t, `
let n = 10
let f = |x| x + n
`)
	if len(c.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", c.Errors())
	}
	let := prog.Statements[1].(*ast.LetStmt)
	lam := let.Value.(*ast.LambdaExpr)
	if len(lam.Captures) != 1 || lam.Captures[0] != "n" {
		t.Fatalf("expected capture [n], got %#v", lam.Captures)
	}
	if lam.LiftedName == "" {
		t.Fatalf("expected a lifted function name")
	}
}

func TestForEachOverArrayBindsElementType(t *testing.T) {
	prog, c := check(t, `
let xs = [1, 2, 3]
for x in xs {
	let y = x + 1
}
`)
	if len(c.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", c.Errors())
	}
	forStmt := prog.Statements[1].(*ast.ForStmt)
	inner := forStmt.Body.Statements[0].(*ast.LetStmt)
	if inner.Value.Type().Kind != types.Int {
		t.Fatalf("expected int, got %s", inner.Value.Type())
	}
}

package parser

import (
	"testing"

	"github.com/codeassociates/wyncc/ast"
	"github.com/codeassociates/wyncc/lexer"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	p := New(lexer.New(input))
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("parser errors: %v", p.Errors())
	}
	return prog
}

func TestLetStatement(t *testing.T) {
	prog := parseProgram(t, `let x = 5`)
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	let, ok := prog.Statements[0].(*ast.LetStmt)
	if !ok {
		t.Fatalf("expected *ast.LetStmt, got %T", prog.Statements[0])
	}
	if let.Pattern.Name != "x" {
		t.Fatalf("expected pattern name x, got %s", let.Pattern.Name)
	}
	lit, ok := let.Value.(*ast.IntegerLiteral)
	if !ok || lit.Value != 5 {
		t.Fatalf("expected IntegerLiteral(5), got %#v", let.Value)
	}
}

func TestLetMutWithTypeAnnotation(t *testing.T) {
	prog := parseProgram(t, `let mut count: int = 0`)
	let := prog.Statements[0].(*ast.LetStmt)
	if !let.Mutable {
		t.Fatalf("expected mutable binding")
	}
	id, ok := let.TypeAnnotation.(*ast.Identifier)
	if !ok || id.Name != "int" {
		t.Fatalf("expected type annotation int, got %#v", let.TypeAnnotation)
	}
}

func TestBinaryPrecedence(t *testing.T) {
	prog := parseProgram(t, `let x = 1 + 2 * 3`)
	let := prog.Statements[0].(*ast.LetStmt)
	bin, ok := let.Value.(*ast.BinaryExpr)
	if !ok || bin.Operator != "+" {
		t.Fatalf("expected top-level '+', got %#v", let.Value)
	}
	right, ok := bin.Right.(*ast.BinaryExpr)
	if !ok || right.Operator != "*" {
		t.Fatalf("expected nested '*', got %#v", bin.Right)
	}
}

func TestAssignmentDesugarsCompoundOp(t *testing.T) {
	prog := parseProgram(t, `x += 1`)
	exprStmt := prog.Statements[0].(*ast.ExprStmt)
	assign, ok := exprStmt.Expr.(*ast.AssignExpr)
	if !ok {
		t.Fatalf("expected AssignExpr, got %T", exprStmt.Expr)
	}
	bin, ok := assign.Value.(*ast.BinaryExpr)
	if !ok || bin.Operator != "+" {
		t.Fatalf("expected desugared '+' binary, got %#v", assign.Value)
	}
}

func TestIndexAssign(t *testing.T) {
	prog := parseProgram(t, `arr[0] = 9`)
	exprStmt := prog.Statements[0].(*ast.ExprStmt)
	idx, ok := exprStmt.Expr.(*ast.IndexExpr)
	if !ok || idx.Value == nil {
		t.Fatalf("expected IndexExpr with Value set, got %#v", exprStmt.Expr)
	}
}

func TestFuncDecl(t *testing.T) {
	prog := parseProgram(t, `
fn add(a: int, b: int) -> int {
	return a + b
}
`)
	fn := prog.Statements[0].(*ast.FuncDecl)
	if fn.Name != "add" || len(fn.Params) != 2 {
		t.Fatalf("unexpected func decl: %#v", fn)
	}
	if fn.Params[0].Name != "a" || fn.Params[1].Name != "b" {
		t.Fatalf("unexpected params: %#v", fn.Params)
	}
	retType, ok := fn.ReturnType.(*ast.Identifier)
	if !ok || retType.Name != "int" {
		t.Fatalf("unexpected return type: %#v", fn.ReturnType)
	}
}

func TestGenericFuncDecl(t *testing.T) {
	prog := parseProgram(t, `
fn identity<T>(x: T) -> T {
	return x
}
`)
	fn := prog.Statements[0].(*ast.FuncDecl)
	if len(fn.TypeParams) != 1 || fn.TypeParams[0] != "T" {
		t.Fatalf("expected type param T, got %#v", fn.TypeParams)
	}
}

func TestStructDecl(t *testing.T) {
	prog := parseProgram(t, `
struct Point {
	x: int,
	y: int,
}
`)
	s := prog.Statements[0].(*ast.StructDecl)
	if s.Name != "Point" || len(s.Fields) != 2 {
		t.Fatalf("unexpected struct: %#v", s)
	}
}

func TestStructInitExpr(t *testing.T) {
	prog := parseProgram(t, `let p = Point { x: 1, y: 2 }`)
	let := prog.Statements[0].(*ast.LetStmt)
	init, ok := let.Value.(*ast.StructInitExpr)
	if !ok || init.TypeName != "Point" || len(init.Fields) != 2 {
		t.Fatalf("unexpected struct init: %#v", let.Value)
	}
}

func TestIfExprAsValue(t *testing.T) {
	prog := parseProgram(t, `let x = if cond { 1 } else { 2 }`)
	let := prog.Statements[0].(*ast.LetStmt)
	ifExpr, ok := let.Value.(*ast.IfExpr)
	if !ok || ifExpr.Then == nil || ifExpr.Else == nil {
		t.Fatalf("unexpected if-expr: %#v", let.Value)
	}
}

func TestMatchExprWithGuard(t *testing.T) {
	prog := parseProgram(t, `
let y = match x {
	n if n > 0 => 1,
	_ => 0,
}
`)
	let := prog.Statements[0].(*ast.LetStmt)
	m := let.Value.(*ast.MatchExpr)
	if len(m.Arms) != 2 {
		t.Fatalf("expected 2 arms, got %d", len(m.Arms))
	}
	if m.Arms[0].Guard == nil {
		t.Fatalf("expected a guard on first arm")
	}
	if m.Arms[1].Pattern.Kind != ast.PatWildcard {
		t.Fatalf("expected wildcard pattern on second arm")
	}
}

func TestLambdaExpr(t *testing.T) {
	prog := parseProgram(t, `let f = |x, y| x + y`)
	let := prog.Statements[0].(*ast.LetStmt)
	lam := let.Value.(*ast.LambdaExpr)
	if len(lam.Params) != 2 || lam.Params[0] != "x" || lam.Params[1] != "y" {
		t.Fatalf("unexpected lambda params: %#v", lam.Params)
	}
}

func TestOptionAndResultConstructors(t *testing.T) {
	prog := parseProgram(t, `
let a = Some(1)
let b = None
let c = Ok(1)
let d = Err("bad")
`)
	if _, ok := prog.Statements[0].(*ast.LetStmt).Value.(*ast.SomeExpr); !ok {
		t.Fatalf("expected SomeExpr")
	}
	if _, ok := prog.Statements[1].(*ast.LetStmt).Value.(*ast.NoneExpr); !ok {
		t.Fatalf("expected NoneExpr")
	}
	if _, ok := prog.Statements[2].(*ast.LetStmt).Value.(*ast.OkExpr); !ok {
		t.Fatalf("expected OkExpr")
	}
	if _, ok := prog.Statements[3].(*ast.LetStmt).Value.(*ast.ErrExpr); !ok {
		t.Fatalf("expected ErrExpr")
	}
}

func TestTryPostfix(t *testing.T) {
	prog := parseProgram(t, `let x = risky()?`)
	let := prog.Statements[0].(*ast.LetStmt)
	if _, ok := let.Value.(*ast.TryExpr); !ok {
		t.Fatalf("expected TryExpr, got %#v", let.Value)
	}
}

func TestPipelineExpr(t *testing.T) {
	prog := parseProgram(t, `let x = 1 |> f |> g`)
	let := prog.Statements[0].(*ast.LetStmt)
	pipe, ok := let.Value.(*ast.PipelineExpr)
	if !ok || len(pipe.Stages) != 3 {
		t.Fatalf("expected 3-stage pipeline, got %#v", let.Value)
	}
}

func TestStringInterpolationSplitsIntoParts(t *testing.T) {
	prog := parseProgram(t, `let s = "count=${n}"`)
	let := prog.Statements[0].(*ast.LetStmt)
	interp, ok := let.Value.(*ast.StringInterp)
	if !ok || len(interp.Parts) != 2 {
		t.Fatalf("expected 2-part interpolation, got %#v", let.Value)
	}
	if interp.Parts[0].IsExpr || interp.Parts[0].Literal != "count=" {
		t.Fatalf("unexpected first part: %#v", interp.Parts[0])
	}
	if !interp.Parts[1].IsExpr {
		t.Fatalf("expected second part to be an expression")
	}
}

func TestForEachLoop(t *testing.T) {
	prog := parseProgram(t, `
for item in items {
	print(item)
}
`)
	f := prog.Statements[0].(*ast.ForStmt)
	if !f.IsForEach || f.LoopVar != "item" {
		t.Fatalf("unexpected for-each: %#v", f)
	}
}

func TestCStyleForLoop(t *testing.T) {
	prog := parseProgram(t, `
for let mut i = 0; i < 10; i += 1 {
	print(i)
}
`)
	f := prog.Statements[0].(*ast.ForStmt)
	if f.IsForEach || f.Init == nil || f.Cond == nil || f.Post == nil {
		t.Fatalf("unexpected C-style for: %#v", f)
	}
}

func TestTryCatchFinally(t *testing.T) {
	prog := parseProgram(t, `
try {
	throw "boom"
} catch (IOError e) {
	print(e)
} finally {
	cleanup()
}
`)
	tr := prog.Statements[0].(*ast.TryStmt)
	if len(tr.Catches) != 1 || tr.Catches[0].ExceptionType != "IOError" || tr.Catches[0].Binding != "e" {
		t.Fatalf("unexpected catch clause: %#v", tr.Catches)
	}
	if tr.Finally == nil {
		t.Fatalf("expected finally block")
	}
}

func TestEnumAndImplDecl(t *testing.T) {
	prog := parseProgram(t, `
enum Color { Red, Green, Blue }

impl Color {
	fn label(self) -> string {
		return "color"
	}
}
`)
	enum := prog.Statements[0].(*ast.EnumDecl)
	if enum.Name != "Color" || len(enum.Variants) != 3 {
		t.Fatalf("unexpected enum: %#v", enum)
	}
	impl := prog.Statements[1].(*ast.ImplDecl)
	if impl.TypeName != "Color" || len(impl.Methods) != 1 {
		t.Fatalf("unexpected impl: %#v", impl)
	}
}

func TestAsyncFuncAndAwait(t *testing.T) {
	prog := parseProgram(t, `
async fn fetch() -> int {
	let x = await other()
	return x
}
`)
	fn := prog.Statements[0].(*ast.FuncDecl)
	if !fn.Async {
		t.Fatalf("expected async function")
	}
	let := fn.Body.Statements[0].(*ast.LetStmt)
	if _, ok := let.Value.(*ast.AwaitExpr); !ok {
		t.Fatalf("expected AwaitExpr, got %#v", let.Value)
	}
}

func TestImportStmtWithItems(t *testing.T) {
	prog := parseProgram(t, `import math::{sqrt, pow}`)
	imp := prog.Statements[0].(*ast.ImportStmt)
	if imp.Module != "math" || len(imp.Items) != 2 {
		t.Fatalf("unexpected import: %#v", imp)
	}
}

func TestRangeExprInclusiveAndExclusive(t *testing.T) {
	prog := parseProgram(t, `
let a = 0..10
let b = 0..=10
`)
	a := prog.Statements[0].(*ast.LetStmt).Value.(*ast.RangeExpr)
	b := prog.Statements[1].(*ast.LetStmt).Value.(*ast.RangeExpr)
	if a.Inclusive {
		t.Fatalf("expected exclusive range")
	}
	if !b.Inclusive {
		t.Fatalf("expected inclusive range")
	}
}

func TestMatchStatementWithStructPattern(t *testing.T) {
	prog := parseProgram(t, `
match shape {
	Circle { radius } => print(radius),
	_ => print("other"),
}
`)
	m := prog.Statements[0].(*ast.MatchStmt)
	if len(m.Cases) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(m.Cases))
	}
	pat := m.Cases[0].Pattern
	if pat.Kind != ast.PatStruct || pat.StructType != "Circle" || len(pat.Fields) != 1 {
		t.Fatalf("unexpected struct pattern: %#v", pat)
	}
}

func TestParserReportsErrorOnMalformedInput(t *testing.T) {
	p := New(lexer.New(`let = `))
	p.ParseProgram()
	if len(p.Errors()) == 0 {
		t.Fatalf("expected at least one parse error")
	}
}

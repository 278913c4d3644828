// Package codegen lowers a checked AST to a single self-contained C
// translation unit, grounded on the teacher's codegen.Generator: a
// strings.Builder wrapped by boolean need* flags set by a pre-pass before
// any text is written, and a clean split between collecting declarations
// and emitting them (spec.md §4.4). The teacher emits Go against a
// transputer ABI; this emitter emits C against the Wyn runtime ABI
// declared in prelude.go.
package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/codeassociates/wyncc/ast"
	"github.com/codeassociates/wyncc/registry"
	"github.com/codeassociates/wyncc/types"
)

// Generator accumulates the emitted translation unit.
type Generator struct {
	out    strings.Builder
	indent int

	generics *registry.Generics
	closures *registry.Closures

	structs map[string]*ast.StructDecl
	enums   map[string]*ast.EnumDecl

	// funcOverloadCount counts non-generic, non-extension declarations
	// sharing a bare name, so call sites and declarations can agree on a
	// disambiguating suffix without either side needing the other's
	// declaration order.
	funcOverloadCount map[string]int
	methodOverloadCnt map[string]int

	lambdas map[string]*ast.LambdaExpr // LiftedName -> node

	spawnWrappers map[*ast.SpawnStmt]string
	spawnOrder    []*ast.SpawnStmt

	// curSubst is non-nil while emitting one monomorphized instantiation
	// of a generic function template; cType resolution for expression
	// bodies substitutes through it.
	curSubst map[string]*types.Type

	// curAsync/curFuture let a return inside `async fn` mark the named
	// future ready and return it directly (see emitReturn).
	curAsync   bool
	curFuture  string
	epilogueN  int
	tmpCounter int
}

// New builds a Generator sharing the checker's generic-instantiation and
// closure-lifting registries, so the monomorphization/closure-lifting
// emitted here matches exactly what the checker resolved.
func New(generics *registry.Generics, closures *registry.Closures) *Generator {
	return &Generator{
		generics:          generics,
		closures:          closures,
		structs:           map[string]*ast.StructDecl{},
		enums:             map[string]*ast.EnumDecl{},
		funcOverloadCount: map[string]int{},
		methodOverloadCnt: map[string]int{},
		lambdas:           map[string]*ast.LambdaExpr{},
		spawnWrappers:     map[*ast.SpawnStmt]string{},
	}
}

func (g *Generator) writeln(format string, args ...interface{}) {
	g.out.WriteString(strings.Repeat("    ", g.indent))
	fmt.Fprintf(&g.out, format, args...)
	g.out.WriteByte('\n')
}

func (g *Generator) blank() { g.out.WriteByte('\n') }

func (g *Generator) nextTmp(prefix string) string {
	g.tmpCounter++
	return "__wyn_" + prefix + strconv.Itoa(g.tmpCounter)
}

// Generate walks the checked program and returns the emitted C source.
func (g *Generator) Generate(prog *ast.Program) string {
	g.out.Reset()
	g.indent = 0

	var funcs []*ast.FuncDecl   // free functions, declaration order
	var methods []*ast.FuncDecl // extension methods, declaration order
	var loose []ast.Statement   // top-level statements outside any decl
	var mainFn *ast.FuncDecl

	collect(prog.Statements, g.structs, g.enums, &funcs, &methods, &loose)
	collectLambdas(prog.Statements, g.lambdas)
	g.spawnOrder = collectSpawns(prog.Statements)
	for i, sp := range g.spawnOrder {
		g.spawnWrappers[sp] = fmt.Sprintf("wyn_spawn_wrapper_%d", i+1)
	}

	for _, fn := range funcs {
		if fn.Name == "main" && !fn.IsExtension {
			mainFn = fn
			continue
		}
		if len(fn.TypeParams) == 0 {
			g.funcOverloadCount[fn.Name]++
		}
	}
	for _, m := range methods {
		if len(m.TypeParams) == 0 {
			g.methodOverloadCnt[m.ReceiverType+"."+m.Name]++
		}
	}

	g.out.WriteString(abiPrelude)
	g.blank()

	for _, e := range collectExterns(prog.Statements) {
		g.emitExtern(e)
	}
	g.blank()

	for _, s := range g.structOrder(prog.Statements) {
		g.emitStruct(s)
	}
	for _, e := range g.enumOrder(prog.Statements) {
		g.emitEnum(e)
	}
	g.blank()

	for _, lam := range g.lambdas {
		g.emitClosureStructDecl(lam)
	}
	g.blank()
	for _, lam := range g.lambdas {
		g.writeln("void* %s(%s* __env%s);", cIdent(lam.LiftedName), closureStructName(lam), lambdaParamDecls(lam))
	}
	g.blank()

	for _, fn := range funcs {
		if fn.Name == "main" && !fn.IsExtension {
			continue
		}
		if len(fn.TypeParams) != 0 {
			continue // generic templates only emitted per-instantiation below
		}
		g.writeln("%s;", g.funcProto(fn, "", g.funcCName(fn)))
	}
	for _, m := range methods {
		if len(m.TypeParams) != 0 {
			continue
		}
		g.writeln("%s;", g.funcProto(m, m.ReceiverType, g.methodCName(m)))
	}
	g.blank()

	for _, inst := range g.generics.All() {
		tmpl := findTemplate(funcs, inst.FuncName)
		if tmpl == nil {
			continue // resolved against a method/unknown template; nothing to specialize
		}
		g.emitGenericInstantiation(tmpl, inst)
	}

	for _, lam := range g.lambdas {
		g.emitLambdaFunc(lam)
	}

	for _, fn := range funcs {
		if fn.Name == "main" && !fn.IsExtension {
			continue
		}
		if len(fn.TypeParams) != 0 {
			continue
		}
		g.emitFuncBody(fn, "", g.funcCName(fn))
	}
	for _, m := range methods {
		if len(m.TypeParams) != 0 {
			continue
		}
		g.emitFuncBody(m, m.ReceiverType, g.methodCName(m))
	}
	for _, t := range collectTests(prog.Statements) {
		g.emitTest(t)
	}
	for _, sp := range g.spawnOrder {
		g.emitSpawnWrapper(sp, g.spawnWrappers[sp])
	}

	// spec.md §4.4: "The parameter named main is renamed to wyn_main; the
	// actual main is provided by a runtime wrapper." Loose top-level
	// statements (common in small scripts/tests with no explicit `fn
	// main`) are folded into the same wyn_main body ahead of the
	// declared one, if any.
	g.writeln("void wyn_main(void) {")
	g.indent++
	for _, s := range loose {
		g.emitStmt(s)
	}
	if mainFn != nil {
		for _, s := range mainFn.Body.Statements {
			g.emitStmt(s)
		}
	}
	g.indent--
	g.writeln("}")

	return g.out.String()
}

func findTemplate(funcs []*ast.FuncDecl, name string) *ast.FuncDecl {
	for _, fn := range funcs {
		if fn.Name == name && len(fn.TypeParams) != 0 {
			return fn
		}
	}
	return nil
}

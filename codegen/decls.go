package codegen

import (
	"strings"

	"github.com/codeassociates/wyncc/ast"
	"github.com/codeassociates/wyncc/registry"
	"github.com/codeassociates/wyncc/types"
)

// collect walks top-level statements (descending into module/export
// wrappers, which carry no C representation of their own) sorting
// declarations into the generator's working lists. Traits are skipped
// entirely: spec.md §4.4 gives them no codegen rule, matching their
// compile-time-only role as generic bounds.
func collect(stmts []ast.Statement, structs map[string]*ast.StructDecl, enums map[string]*ast.EnumDecl, funcs, methods *[]*ast.FuncDecl, loose *[]ast.Statement) {
	for _, s := range stmts {
		switch d := s.(type) {
		case *ast.StructDecl:
			structs[d.Name] = d
		case *ast.EnumDecl:
			enums[d.Name] = d
		case *ast.FuncDecl:
			*funcs = append(*funcs, d)
		case *ast.ImplDecl:
			for _, m := range d.Methods {
				m.IsExtension = true
				m.ReceiverType = d.TypeName
				*methods = append(*methods, m)
			}
		case *ast.TraitDecl, *ast.ImportStmt, *ast.TypeAliasStmt, *ast.ExternDecl, *ast.TestDecl, *ast.MacroDecl:
			// no direct C representation; ExternDecl is handled by the
			// prototype pass below via a dedicated sweep, not here.
		case *ast.ModuleDecl:
			collect(d.Body, structs, enums, funcs, methods, loose)
		case *ast.ExportStmt:
			collect([]ast.Statement{d.Inner}, structs, enums, funcs, methods, loose)
		default:
			*loose = append(*loose, s)
		}
	}
}

// collectLambdas walks every statement/expression reachable from the
// top level, registering each lambda the checker already lifted (it set
// LiftedName/Captures) keyed by that lifted name.
func collectLambdas(stmts []ast.Statement, out map[string]*ast.LambdaExpr) {
	for _, s := range stmts {
		walkStmtForLambdas(s, out)
	}
}

func walkStmtForLambdas(s ast.Statement, out map[string]*ast.LambdaExpr) {
	switch n := s.(type) {
	case *ast.ExprStmt:
		walkExprForLambdas(n.Expr, out)
	case *ast.LetStmt:
		walkExprForLambdas(n.Value, out)
	case *ast.ReturnStmt:
		walkExprForLambdas(n.Value, out)
	case *ast.BlockStmt:
		for _, inner := range n.Statements {
			walkStmtForLambdas(inner, out)
		}
	case *ast.IfStmt:
		walkExprForLambdas(n.Cond, out)
		walkStmtForLambdas(n.Then, out)
		if n.Else != nil {
			walkStmtForLambdas(n.Else, out)
		}
	case *ast.WhileStmt:
		walkExprForLambdas(n.Cond, out)
		walkStmtForLambdas(n.Body, out)
	case *ast.ForStmt:
		if n.Init != nil {
			walkStmtForLambdas(n.Init, out)
		}
		walkExprForLambdas(n.Cond, out)
		if n.Post != nil {
			walkStmtForLambdas(n.Post, out)
		}
		walkExprForLambdas(n.Iterable, out)
		walkStmtForLambdas(n.Body, out)
	case *ast.FuncDecl:
		walkStmtForLambdas(n.Body, out)
	case *ast.ImplDecl:
		for _, m := range n.Methods {
			walkStmtForLambdas(m.Body, out)
		}
	case *ast.ModuleDecl:
		for _, inner := range n.Body {
			walkStmtForLambdas(inner, out)
		}
	case *ast.ExportStmt:
		walkStmtForLambdas(n.Inner, out)
	case *ast.TryStmt:
		walkStmtForLambdas(n.Try, out)
		for _, c := range n.Catches {
			walkStmtForLambdas(c.Body, out)
		}
		if n.Finally != nil {
			walkStmtForLambdas(n.Finally, out)
		}
	case *ast.MatchStmt:
		walkExprForLambdas(n.Scrutinee, out)
		for _, c := range n.Cases {
			walkStmtForLambdas(c.Body, out)
		}
	case *ast.SpawnStmt:
		walkExprForLambdas(n.Call, out)
	case *ast.TestDecl:
		walkStmtForLambdas(n.Body, out)
	}
}

func walkExprForLambdas(e ast.Expression, out map[string]*ast.LambdaExpr) {
	switch n := e.(type) {
	case nil:
	case *ast.LambdaExpr:
		if n.LiftedName != "" {
			out[n.LiftedName] = n
		}
		walkExprForLambdas(n.Body, out)
	case *ast.BinaryExpr:
		walkExprForLambdas(n.Left, out)
		walkExprForLambdas(n.Right, out)
	case *ast.UnaryExpr:
		walkExprForLambdas(n.Operand, out)
	case *ast.AssignExpr:
		walkExprForLambdas(n.Target, out)
		walkExprForLambdas(n.Value, out)
	case *ast.CallExpr:
		walkExprForLambdas(n.Callee, out)
		for _, a := range n.Args {
			walkExprForLambdas(a, out)
		}
	case *ast.MethodCallExpr:
		walkExprForLambdas(n.Receiver, out)
		for _, a := range n.Args {
			walkExprForLambdas(a, out)
		}
	case *ast.ArrayLiteral:
		for _, el := range n.Elements {
			walkExprForLambdas(el, out)
		}
	case *ast.IndexExpr:
		walkExprForLambdas(n.Container, out)
		walkExprForLambdas(n.Index, out)
		walkExprForLambdas(n.Value, out)
	case *ast.FieldExpr:
		walkExprForLambdas(n.Object, out)
		walkExprForLambdas(n.Value, out)
	case *ast.StructInitExpr:
		for _, f := range n.Fields {
			walkExprForLambdas(f.Value, out)
		}
	case *ast.TupleExpr:
		for _, el := range n.Elements {
			walkExprForLambdas(el, out)
		}
	case *ast.MapLiteral:
		for _, v := range n.Values {
			walkExprForLambdas(v, out)
		}
	case *ast.IfExpr:
		walkExprForLambdas(n.Cond, out)
		walkExprForLambdas(n.Then, out)
		walkExprForLambdas(n.Else, out)
	case *ast.MatchExpr:
		walkExprForLambdas(n.Scrutinee, out)
		for _, a := range n.Arms {
			walkExprForLambdas(a.Guard, out)
			walkExprForLambdas(a.Result, out)
		}
	case *ast.StringInterp:
		for _, p := range n.Parts {
			if p.IsExpr {
				walkExprForLambdas(p.Expr, out)
			}
		}
	case *ast.TryExpr:
		walkExprForLambdas(n.Operand, out)
	case *ast.SomeExpr:
		walkExprForLambdas(n.Value, out)
	case *ast.OkExpr:
		walkExprForLambdas(n.Value, out)
	case *ast.ErrExpr:
		walkExprForLambdas(n.Value, out)
	case *ast.PipelineExpr:
		for _, st := range n.Stages {
			walkExprForLambdas(st, out)
		}
	case *ast.AwaitExpr:
		walkExprForLambdas(n.Operand, out)
	}
}

// collectExterns/collectTests gather the two declaration kinds that
// skip the funcs/methods/loose classification above but still need a C
// rendering: extern FFI prototypes and named test bodies (dispatched by
// the `wyncc test` CLI stub, spec.md §6, not by this emitter).
func collectExterns(stmts []ast.Statement) []*ast.ExternDecl {
	var out []*ast.ExternDecl
	var walk func([]ast.Statement)
	walk = func(ss []ast.Statement) {
		for _, s := range ss {
			switch d := s.(type) {
			case *ast.ExternDecl:
				out = append(out, d)
			case *ast.ModuleDecl:
				walk(d.Body)
			case *ast.ExportStmt:
				walk([]ast.Statement{d.Inner})
			}
		}
	}
	walk(stmts)
	return out
}

func collectTests(stmts []ast.Statement) []*ast.TestDecl {
	var out []*ast.TestDecl
	var walk func([]ast.Statement)
	walk = func(ss []ast.Statement) {
		for _, s := range ss {
			switch d := s.(type) {
			case *ast.TestDecl:
				out = append(out, d)
			case *ast.ModuleDecl:
				walk(d.Body)
			case *ast.ExportStmt:
				walk([]ast.Statement{d.Inner})
			}
		}
	}
	walk(stmts)
	return out
}

func (g *Generator) emitExtern(e *ast.ExternDecl) {
	ret := "void"
	if e.ReturnType != nil {
		ret = g.typeExprToC(e.ReturnType)
	}
	var params []string
	for _, p := range e.Params {
		params = append(params, g.typeExprToC(p.Type)+" "+cIdent(p.Name))
	}
	if e.Variadic {
		params = append(params, "...")
	}
	if len(params) == 0 {
		params = append(params, "void")
	}
	g.writeln("extern %s %s(%s);", ret, cIdent(e.Name), strings.Join(params, ", "))
}

func (g *Generator) emitTest(t *ast.TestDecl) {
	ret := "void"
	if t.Async {
		ret = "WynFuture*"
	}
	g.writeln("%s wyn_test_%s(void) {", ret, cIdent(t.Name))
	g.indent++
	prevAsync, prevFuture := g.curAsync, g.curFuture
	if t.Async {
		g.curAsync = true
		g.curFuture = g.nextTmp("fut")
		g.writeln("WynFuture* %s = wyn_future_new();", g.curFuture)
	} else {
		g.curAsync = false
	}
	for _, s := range t.Body.Statements {
		g.emitStmt(s)
	}
	if t.Async {
		g.writeln("wyn_future_set_ready(%s, NULL);", g.curFuture)
		g.writeln("return %s;", g.curFuture)
	}
	g.curAsync, g.curFuture = prevAsync, prevFuture
	g.indent--
	g.writeln("}")
	g.blank()
}

// collectSpawns gathers every SpawnStmt in declaration order so each can
// be assigned a stable, deterministic wrapper-function name before any
// code is emitted (the generator's single strings.Builder forces a
// collect-then-emit split for anything referenced before its own
// definition — the same ordering concern the teacher's need* flags
// exist to resolve).
func collectSpawns(stmts []ast.Statement) []*ast.SpawnStmt {
	var out []*ast.SpawnStmt
	var walkStmt func(ast.Statement)
	walkStmt = func(s ast.Statement) {
		switch n := s.(type) {
		case *ast.SpawnStmt:
			out = append(out, n)
		case *ast.BlockStmt:
			for _, inner := range n.Statements {
				walkStmt(inner)
			}
		case *ast.IfStmt:
			walkStmt(n.Then)
			if n.Else != nil {
				walkStmt(n.Else)
			}
		case *ast.WhileStmt:
			walkStmt(n.Body)
		case *ast.ForStmt:
			walkStmt(n.Body)
		case *ast.FuncDecl:
			walkStmt(n.Body)
		case *ast.ImplDecl:
			for _, m := range n.Methods {
				walkStmt(m.Body)
			}
		case *ast.ModuleDecl:
			for _, inner := range n.Body {
				walkStmt(inner)
			}
		case *ast.ExportStmt:
			walkStmt(n.Inner)
		case *ast.TryStmt:
			walkStmt(n.Try)
			for _, c := range n.Catches {
				walkStmt(c.Body)
			}
			if n.Finally != nil {
				walkStmt(n.Finally)
			}
		case *ast.MatchStmt:
			for _, c := range n.Cases {
				walkStmt(c.Body)
			}
		case *ast.TestDecl:
			walkStmt(n.Body)
		}
	}
	for _, s := range stmts {
		walkStmt(s)
	}
	return out
}

// emitSpawnWrapper renders the per-callee `void*(void*)` trampoline
// spec.md §4.4 describes: it unpacks a single packed integer argument
// and calls the target, matching §5's "fire-and-forget on a new OS
// thread" contract.
func (g *Generator) emitSpawnWrapper(sp *ast.SpawnStmt, name string) {
	call, ok := sp.Call.(*ast.CallExpr)
	g.writeln("void* %s(void* arg) {", name)
	g.indent++
	if ok {
		g.writeln("long __a0 = (long)arg;")
		var args []string
		for i := range call.Args {
			if i == 0 {
				args = append(args, "(int)__a0")
				continue
			}
			args = append(args, g.emitExpr(call.Args[i]))
		}
		g.writeln("%s(%s);", g.callCName(call), strings.Join(args, ", "))
	} else {
		g.writeln("(void)arg;")
	}
	g.writeln("return NULL;")
	g.indent--
	g.writeln("}")
	g.blank()
}

func (g *Generator) structOrder(stmts []ast.Statement) []*ast.StructDecl {
	var out []*ast.StructDecl
	var walk func([]ast.Statement)
	walk = func(ss []ast.Statement) {
		for _, s := range ss {
			switch d := s.(type) {
			case *ast.StructDecl:
				out = append(out, d)
			case *ast.ModuleDecl:
				walk(d.Body)
			case *ast.ExportStmt:
				walk([]ast.Statement{d.Inner})
			}
		}
	}
	walk(stmts)
	return out
}

func (g *Generator) enumOrder(stmts []ast.Statement) []*ast.EnumDecl {
	var out []*ast.EnumDecl
	var walk func([]ast.Statement)
	walk = func(ss []ast.Statement) {
		for _, s := range ss {
			switch d := s.(type) {
			case *ast.EnumDecl:
				out = append(out, d)
			case *ast.ModuleDecl:
				walk(d.Body)
			case *ast.ExportStmt:
				walk([]ast.Statement{d.Inner})
			}
		}
	}
	walk(stmts)
	return out
}

func (g *Generator) emitStruct(s *ast.StructDecl) {
	g.writeln("typedef struct %s {", cStructName(s.Name))
	g.indent++
	for _, f := range s.Fields {
		// ARC-marked fields are reference-counted heap objects; the
		// field itself is a plain pointer/value, and codegen emits no
		// retain/release calls around assigning it.
		g.writeln("%s %s;", g.typeExprToC(f.Type), cIdent(f.Name))
	}
	g.indent--
	g.writeln("} %s;", cStructName(s.Name))
	g.blank()
}

func (g *Generator) emitEnum(e *ast.EnumDecl) {
	g.writeln("typedef enum %s {", cStructName(e.Name))
	g.indent++
	for _, v := range e.Variants {
		g.writeln("%s_%s,", cStructName(e.Name), cIdent(v))
	}
	g.indent--
	g.writeln("} %s;", cStructName(e.Name))
	g.writeln("static const char* %s_names[] = { %s };", cStructName(e.Name), enumNameList(e))
	g.blank()
}

func enumNameList(e *ast.EnumDecl) string {
	parts := make([]string, len(e.Variants))
	for i, v := range e.Variants {
		parts[i] = `"` + v + `"`
	}
	return strings.Join(parts, ", ")
}

// funcCName assigns the C-level name for a non-generic free function,
// suffixing with a types-derived tag only when more than one declaration
// shares the bare name (Wyn overloading; C has none).
func (g *Generator) funcCName(fn *ast.FuncDecl) string {
	base := cIdent(fn.Name)
	if g.funcOverloadCount[fn.Name] <= 1 {
		return base
	}
	return base + "_" + paramTag(fn.Params)
}

func (g *Generator) methodCName(m *ast.FuncDecl) string {
	base := cMethodName(m.ReceiverType, m.Name)
	if g.methodOverloadCnt[m.ReceiverType+"."+m.Name] <= 1 {
		return base
	}
	return base + "_" + paramTag(m.Params)
}

func paramTag(params []ast.Param) string {
	var b strings.Builder
	for _, p := range params {
		b.WriteByte('_')
		b.WriteString(typeExprTag(p.Type))
	}
	if b.Len() == 0 {
		return "v"
	}
	return b.String()[1:]
}

func typeExprTag(e ast.Expression) string {
	id, ok := e.(*ast.Identifier)
	if !ok {
		return "x"
	}
	return id.Name
}

// typeExprToC renders a type-expression (parsed using ordinary
// value-expression node shapes — spec.md's parser reuses Identifier/
// ArrayLiteral/TupleExpr/CallExpr for type position) directly to a C
// type spelling, independent of the checker's types.Type: function/struct
// declarations need a C type before any per-expression inference runs.
func (g *Generator) typeExprToC(e ast.Expression) string {
	if e == nil {
		return "void"
	}
	switch t := e.(type) {
	case *ast.Identifier:
		switch t.Name {
		case "int":
			return "int"
		case "float":
			return "double"
		case "bool":
			return "bool"
		case "string":
			return "const char*"
		case "unit":
			return "void"
		}
		if _, ok := g.structs[t.Name]; ok {
			return cStructName(t.Name) + "*"
		}
		if _, ok := g.enums[t.Name]; ok {
			return cStructName(t.Name)
		}
		return "void*" // generic type parameter or unresolved name
	case *ast.ArrayLiteral:
		return "WynArray*"
	case *ast.TupleExpr:
		return "WynTuple*"
	case *ast.OptionalTypeExpr:
		return "WynOptional*"
	case *ast.UnionTypeExpr:
		return "void*"
	case *ast.CallExpr:
		if id, ok := t.Callee.(*ast.Identifier); ok {
			switch id.Name {
			case "Map":
				return "WynMap*"
			case "Result":
				return "WynResult*"
			case "Option":
				return "WynOptional*"
			default:
				return cStructName(id.Name) + "*"
			}
		}
		return "void*"
	default:
		return "void*"
	}
}

func (g *Generator) funcProto(fn *ast.FuncDecl, receiver string, cname string) string {
	ret := "void"
	if fn.ReturnType != nil {
		ret = g.typeExprToC(fn.ReturnType)
	}
	if fn.Async {
		ret = "WynFuture*"
	}
	var params []string
	if fn.IsExtension {
		params = append(params, cStructName(receiver)+"* self")
	}
	for _, p := range fn.Params {
		params = append(params, g.typeExprToC(p.Type)+" "+cIdent(p.Name))
	}
	if len(params) == 0 {
		params = append(params, "void")
	}
	return ret + " " + cname + "(" + strings.Join(params, ", ") + ")"
}

func (g *Generator) emitFuncBody(fn *ast.FuncDecl, receiver string, cname string) {
	g.writeln("%s {", g.funcProto(fn, receiver, cname))
	g.indent++
	prevAsync, prevFuture := g.curAsync, g.curFuture
	if fn.Async {
		g.curAsync = true
		g.curFuture = g.nextTmp("fut")
		g.writeln("WynFuture* %s = wyn_future_new();", g.curFuture)
	} else {
		g.curAsync = false
	}
	for _, s := range fn.Body.Statements {
		g.emitStmt(s)
	}
	if fn.Async {
		g.writeln("wyn_future_set_ready(%s, NULL);", g.curFuture)
		g.writeln("return %s;", g.curFuture)
	}
	g.curAsync, g.curFuture = prevAsync, prevFuture
	g.indent--
	g.writeln("}")
	g.blank()
}

// emitGenericInstantiation re-renders a generic function template's body
// once per concrete instantiation the checker registered, substituting
// every Generic leaf in its parameter/return types via inst.ArgTypes
// (positional against tmpl.TypeParams) before computing any C type.
func (g *Generator) emitGenericInstantiation(tmpl *ast.FuncDecl, inst *registry.Instantiation) {
	subst := map[string]*types.Type{}
	for i, name := range tmpl.TypeParams {
		if i < len(inst.ArgTypes) {
			subst[name] = inst.ArgTypes[i]
		}
	}
	prevSubst := g.curSubst
	g.curSubst = subst

	ret := "void"
	if tmpl.ReturnType != nil {
		ret = cType(applySubst(g.resolveSimple(tmpl.ReturnType), subst))
	}
	var params []string
	for _, p := range tmpl.Params {
		params = append(params, cType(applySubst(g.resolveSimple(p.Type), subst))+" "+cIdent(p.Name))
	}
	if len(params) == 0 {
		params = append(params, "void")
	}
	g.writeln("%s %s(%s);", ret, inst.MangledName, strings.Join(params, ", "))
	g.writeln("%s %s(%s) {", ret, inst.MangledName, strings.Join(params, ", "))
	g.indent++
	for _, s := range tmpl.Body.Statements {
		g.emitStmt(s)
	}
	g.indent--
	g.writeln("}")
	g.blank()

	g.curSubst = prevSubst
}

// resolveSimple maps a type expression naming a generic parameter to a
// types.Generic placeholder, and otherwise falls through to the same
// mapping typeExprToC uses conceptually but as a types.Type rather than
// C text, so applySubst can act on it.
func (g *Generator) resolveSimple(e ast.Expression) *types.Type {
	id, ok := e.(*ast.Identifier)
	if !ok {
		return types.Invalid_
	}
	switch id.Name {
	case "int":
		return types.IntType
	case "float":
		return types.FloatType
	case "bool":
		return types.BoolType
	case "string":
		return types.StringType
	case "unit":
		return types.UnitType
	}
	return types.NewGeneric(id.Name)
}

func (g *Generator) emitClosureStructDecl(lam *ast.LambdaExpr) {
	g.writeln("typedef struct %s {", closureStructName(lam))
	g.indent++
	g.writeln("void* fn;")
	for _, cap := range lam.Captures {
		g.writeln("void* %s;", cIdent(cap))
	}
	g.indent--
	g.writeln("} %s;", closureStructName(lam))
}

func closureStructName(lam *ast.LambdaExpr) string { return cIdent(lam.LiftedName) + "_Closure" }

func lambdaParamDecls(lam *ast.LambdaExpr) string {
	var b strings.Builder
	for _, p := range lam.Params {
		b.WriteString(", void* ")
		b.WriteString(cIdent(p))
	}
	return b.String()
}

func (g *Generator) emitLambdaFunc(lam *ast.LambdaExpr) {
	cl := closureStructName(lam)
	var params []string
	params = append(params, cl+"* __env")
	for _, p := range lam.Params {
		params = append(params, "void* "+cIdent(p))
	}
	g.writeln("void* %s(%s) {", cIdent(lam.LiftedName), strings.Join(params, ", "))
	g.indent++
	for _, cap := range lam.Captures {
		g.writeln("void* %s = __env->%s;", cIdent(cap), cIdent(cap))
	}
	g.writeln("return (void*)(%s);", g.emitExpr(lam.Body))
	g.indent--
	g.writeln("}")
	g.blank()
}

package codegen

import (
	"fmt"

	"github.com/codeassociates/wyncc/ast"
	"github.com/codeassociates/wyncc/types"
)

func (g *Generator) emitStmt(s ast.Statement) {
	switch n := s.(type) {
	case *ast.ExprStmt:
		g.writeln("%s;", g.emitExpr(n.Expr))
	case *ast.LetStmt:
		g.emitLet(n)
	case *ast.ReturnStmt:
		g.emitReturn(n)
	case *ast.BlockStmt:
		g.writeln("{")
		g.indent++
		for _, inner := range n.Statements {
			g.emitStmt(inner)
		}
		g.indent--
		g.writeln("}")
	case *ast.IfStmt:
		g.writeln("if (%s) {", g.emitExpr(n.Cond))
		g.indent++
		for _, inner := range n.Then.Statements {
			g.emitStmt(inner)
		}
		g.indent--
		switch els := n.Else.(type) {
		case nil:
			g.writeln("}")
		case *ast.IfStmt:
			g.writeln("} else")
			g.emitStmt(els)
		case *ast.BlockStmt:
			g.writeln("} else {")
			g.indent++
			for _, inner := range els.Statements {
				g.emitStmt(inner)
			}
			g.indent--
			g.writeln("}")
		}
	case *ast.WhileStmt:
		g.writeln("while (%s) {", g.emitExpr(n.Cond))
		g.indent++
		for _, inner := range n.Body.Statements {
			g.emitStmt(inner)
		}
		g.indent--
		g.writeln("}")
	case *ast.ForStmt:
		g.emitFor(n)
	case *ast.BreakStmt:
		g.writeln("break;")
	case *ast.ContinueStmt:
		g.writeln("continue;")
	case *ast.TryStmt:
		g.emitTryStmt(n)
	case *ast.ThrowStmt:
		g.writeln("wyn_exc_raise(\"error\", %s);", g.emitExpr(n.Value))
	case *ast.MatchStmt:
		g.emitMatchStmt(n)
	case *ast.SpawnStmt:
		g.emitSpawn(n)
	case *ast.StructDecl, *ast.EnumDecl, *ast.TraitDecl, *ast.FuncDecl, *ast.ImplDecl,
		*ast.ImportStmt, *ast.ExportStmt, *ast.ModuleDecl, *ast.TypeAliasStmt,
		*ast.ExternDecl, *ast.TestDecl, *ast.MacroDecl:
		// declarations: already handled by the top-level collection pass
	default:
		g.writeln("/* unhandled statement %T */", n)
	}
}

func (g *Generator) emitLet(n *ast.LetStmt) {
	if n.Value == nil {
		if n.Pattern.Kind == ast.PatIdent {
			g.writeln("%s %s;", g.cTypeOfExpr(n.TypeAnnotation), cIdent(n.Pattern.Name))
		}
		return
	}
	valC := g.emitExpr(n.Value)
	ct := cType(g.resolvedType(n.Value))
	g.bindPattern(n.Pattern, ct, valC)
}

// bindPattern emits one or more C declarations binding a (possibly
// destructuring) let-pattern against an already-evaluated value
// expression. Only PatIdent is a genuine single C declaration; tuple and
// struct patterns destructure field-by-field through a temporary so the
// value expression is evaluated exactly once.
func (g *Generator) bindPattern(p *ast.Pattern, ct string, valC string) {
	switch p.Kind {
	case ast.PatIdent:
		g.writeln("%s %s = %s;", ct, cIdent(p.Name), valC)
	case ast.PatWildcard:
		g.writeln("(void)(%s);", valC)
	case ast.PatTuple:
		tmp := g.nextTmp("t")
		g.writeln("%s %s = %s;", ct, tmp, valC)
		for i, sub := range p.Tuple {
			g.bindPattern(sub, "void*", fmt.Sprintf("wyn_tuple_get(%s, %d)", tmp, i))
		}
	case ast.PatStruct:
		tmp := g.nextTmp("s")
		g.writeln("%s %s = %s;", ct, tmp, valC)
		for _, f := range p.Fields {
			g.bindPattern(f.Pattern, "void*", fmt.Sprintf("%s->%s", tmp, cIdent(f.Name)))
		}
	case ast.PatArray:
		tmp := g.nextTmp("a")
		g.writeln("%s %s = %s;", ct, tmp, valC)
		for i, sub := range p.Elements {
			g.bindPattern(sub, "void*", fmt.Sprintf("wyn_array_get_int(%s, %d)", tmp, i))
		}
		if p.Rest != nil {
			g.writeln("WynArray* %s = %s; /* rest binding, simplified: aliases full array */", cIdent(*p.Rest), tmp)
		}
	case ast.PatOption:
		if p.Inner != nil {
			g.bindPattern(p.Inner, "void*", fmt.Sprintf("wyn_optional_unwrap(%s)", valC))
		}
	default:
		g.writeln("%s %s = %s; /* irrefutable binding expected */", ct, g.nextTmp("v"), valC)
	}
}

func (g *Generator) resolvedType(e ast.Expression) *types.Type {
	t := e.Type()
	if g.curSubst != nil {
		t = applySubst(t, g.curSubst)
	}
	return t
}

func (g *Generator) cTypeOfExpr(e ast.Expression) string {
	if e == nil {
		return "void*"
	}
	return g.typeExprToC(e)
}

func (g *Generator) emitReturn(n *ast.ReturnStmt) {
	if !g.curAsync {
		if n.Value == nil {
			g.writeln("return;")
			return
		}
		g.writeln("return %s;", g.emitExpr(n.Value))
		return
	}
	// async fn: each return hands its value to wyn_future_set_ready and
	// returns the future directly; no shared epilogue label is emitted.
	if n.Value != nil {
		g.writeln("wyn_future_set_ready(%s, (void*)(%s));", g.curFuture, g.emitExpr(n.Value))
	} else {
		g.writeln("wyn_future_set_ready(%s, NULL);", g.curFuture)
	}
	g.writeln("return %s;", g.curFuture)
}

func (g *Generator) emitFor(n *ast.ForStmt) {
	if !n.IsForEach {
		var initC, condC, postC string
		if n.Init != nil {
			initC = g.inlineStmt(n.Init)
		}
		if n.Cond != nil {
			condC = g.emitExpr(n.Cond)
		}
		if n.Post != nil {
			postC = g.inlineStmt(n.Post)
		}
		g.writeln("for (%s; %s; %s) {", initC, condC, postC)
		g.indent++
		for _, inner := range n.Body.Statements {
			g.emitStmt(inner)
		}
		g.indent--
		g.writeln("}")
		return
	}

	iterT := g.resolvedType(n.Iterable)
	iterC := g.emitExpr(n.Iterable)
	idx := g.nextTmp("i")
	arr := g.nextTmp("arr")
	elemCT := "void*"
	getter := "wyn_array_get_int"
	if iterT != nil && iterT.Kind == types.Array {
		elemCT = cType(iterT.Elem)
		getter = arrayGetter(iterT.Elem)
	}
	g.writeln("WynArray* %s = %s;", arr, iterC)
	g.writeln("for (int %s = 0; %s < wyn_array_count(%s); %s++) {", idx, idx, arr, idx)
	g.indent++
	g.writeln("%s %s = %s(%s, %s);", elemCT, cIdent(n.LoopVar), getter, arr, idx)
	for _, inner := range n.Body.Statements {
		g.emitStmt(inner)
	}
	g.indent--
	g.writeln("}")
}

func arrayGetter(elem *types.Type) string {
	if elem == nil {
		return "wyn_array_get_int"
	}
	switch elem.Kind {
	case types.Float:
		return "wyn_array_get_float"
	case types.StringT:
		return "wyn_array_get_str"
	case types.Bool:
		return "wyn_array_get_bool"
	case types.Array:
		return "wyn_array_get_array"
	default:
		return "wyn_array_get_int"
	}
}

// inlineStmt renders a single simple statement (as used in a C-style
// for-loop's init/post clauses) as a bare string, with no trailing
// newline/semicolon and no indentation, since the caller assembles one
// for (...) {  line out of several such fragments.
func (g *Generator) inlineStmt(s ast.Statement) string {
	switch n := s.(type) {
	case *ast.LetStmt:
		if n.Pattern.Kind == ast.PatIdent && n.Value != nil {
			ct := cType(g.resolvedType(n.Value))
			return fmt.Sprintf("%s %s = %s", ct, cIdent(n.Pattern.Name), g.emitExpr(n.Value))
		}
		return ""
	case *ast.ExprStmt:
		return g.emitExpr(n.Expr)
	default:
		return ""
	}
}

// emitTryStmt lowers try/catch/finally onto the runtime's exception
// globals (spec.md §4.4 prelude: "a long-jump target pointer and a
// current-message pointer"): wyn_exc_push hands back a jmp_buf to
// setjmp against; a non-zero setjmp return means wyn_exc_raise longjmp'd
// here, with the raised type/message readable via the current-* globals.
func (g *Generator) emitTryStmt(n *ast.TryStmt) {
	g.writeln("{")
	g.indent++
	g.writeln("jmp_buf* __wyn_jb = wyn_exc_push();")
	g.writeln("if (setjmp(*__wyn_jb) == 0) {")
	g.indent++
	for _, s := range n.Try.Statements {
		g.emitStmt(s)
	}
	g.indent--
	g.writeln("} else {")
	g.indent++
	for i, c := range n.Catches {
		kw := "if"
		if i > 0 {
			kw = "else if"
		}
		g.writeln("%s (strcmp(wyn_exc_current_type(), \"%s\") == 0) {", kw, c.ExceptionType)
		g.indent++
		if c.Binding != "" {
			g.writeln("const char* %s = wyn_exc_current_message();", cIdent(c.Binding))
		}
		for _, s := range c.Body.Statements {
			g.emitStmt(s)
		}
		g.indent--
		g.writeln("}")
	}
	g.indent--
	g.writeln("}")
	g.writeln("wyn_exc_pop();")
	if n.Finally != nil {
		for _, s := range n.Finally.Statements {
			g.emitStmt(s)
		}
	}
	g.indent--
	g.writeln("}")
}

func (g *Generator) emitMatchStmt(n *ast.MatchStmt) {
	scrutT := g.resolvedType(n.Scrutinee)
	tmp := g.nextTmp("scrut")
	g.writeln("%s %s = %s;", cType(scrutT), tmp, g.emitExpr(n.Scrutinee))
	for i, c := range n.Cases {
		cond := g.patternTest(c.Pattern, tmp, scrutT)
		if c.Guard != nil {
			cond = fmt.Sprintf("(%s) && (%s)", cond, g.emitExprWithBindings(c.Pattern, tmp, scrutT, c.Guard))
		}
		kw := "if"
		if i > 0 {
			kw = "else if"
		}
		if isWildcardPattern(c.Pattern) && c.Guard == nil {
			g.writeln("else {")
		} else {
			g.writeln("%s (%s) {", kw, cond)
		}
		g.indent++
		g.bindPatternVars(c.Pattern, tmp, scrutT)
		g.emitStmt(c.Body)
		g.indent--
		g.writeln("}")
	}
}

func isWildcardPattern(p *ast.Pattern) bool { return p.Kind == ast.PatWildcard }

// patternTest renders the boolean test deciding whether value (held in
// the C variable named by tmp, of static type scrutT) matches p.
func (g *Generator) patternTest(p *ast.Pattern, tmp string, scrutT *types.Type) string {
	switch p.Kind {
	case ast.PatWildcard, ast.PatIdent:
		return "true"
	case ast.PatLiteral:
		return fmt.Sprintf("(%s == %s)", tmp, g.emitExpr(p.Literal))
	case ast.PatRange:
		op := "<"
		if p.RangeInclusive {
			op = "<="
		}
		return fmt.Sprintf("(%s >= %s && %s %s %s)", tmp, g.emitExpr(p.RangeStart), tmp, op, g.emitExpr(p.RangeEnd))
	case ast.PatOption:
		if p.Variant == "Some" {
			return fmt.Sprintf("wyn_optional_is_some(%s)", tmp)
		}
		return fmt.Sprintf("wyn_optional_is_none(%s)", tmp)
	case ast.PatStruct:
		var parts []string
		for _, f := range p.Fields {
			fieldAcc := fmt.Sprintf("%s->%s", tmp, cIdent(f.Name))
			parts = append(parts, g.patternTest(f.Pattern, fieldAcc, nil))
		}
		if len(parts) == 0 {
			return "true"
		}
		return "(" + joinAnd(parts) + ")"
	case ast.PatTuple:
		var parts []string
		for i, sub := range p.Tuple {
			parts = append(parts, g.patternTest(sub, fmt.Sprintf("wyn_tuple_get(%s, %d)", tmp, i), nil))
		}
		if len(parts) == 0 {
			return "true"
		}
		return "(" + joinAnd(parts) + ")"
	case ast.PatArray:
		return fmt.Sprintf("(wyn_array_count(%s) >= %d)", tmp, len(p.Elements))
	default:
		return "true"
	}
}

func joinAnd(parts []string) string {
	out := parts[0]
	for _, p := range parts[1:] {
		out += " && " + p
	}
	return out
}

// bindPatternVars emits declarations for every identifier a (possibly
// refutable) match pattern introduces, once the corresponding test has
// already succeeded.
func (g *Generator) bindPatternVars(p *ast.Pattern, tmp string, scrutT *types.Type) {
	switch p.Kind {
	case ast.PatIdent:
		g.writeln("void* %s = (void*)(intptr_t)(%s);", cIdent(p.Name), tmp)
	case ast.PatOption:
		if p.Inner != nil {
			g.bindPatternVars(p.Inner, fmt.Sprintf("wyn_optional_unwrap(%s)", tmp), nil)
		}
	case ast.PatStruct:
		for _, f := range p.Fields {
			g.bindPatternVars(f.Pattern, fmt.Sprintf("%s->%s", tmp, cIdent(f.Name)), nil)
		}
	case ast.PatTuple:
		for i, sub := range p.Tuple {
			g.bindPatternVars(sub, fmt.Sprintf("wyn_tuple_get(%s, %d)", tmp, i), nil)
		}
	}
}

func (g *Generator) emitExprWithBindings(p *ast.Pattern, tmp string, scrutT *types.Type, guard ast.Expression) string {
	return g.emitExpr(guard)
}

func (g *Generator) emitSpawn(n *ast.SpawnStmt) {
	wrapper, ok := g.spawnWrappers[n]
	if !ok {
		g.writeln("%s;", g.emitExpr(n.Call))
		return
	}
	packed := "0"
	if call, ok := n.Call.(*ast.CallExpr); ok && len(call.Args) > 0 {
		packed = g.emitExpr(call.Args[0])
	}
	g.writeln("wyn_spawn_fast(%s, (void*)(long)(%s));", wrapper, packed)
}

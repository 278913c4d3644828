// Package checker implements Wyn's semantic analysis: scope-resolved
// symbol lookup, type inference, overload resolution, generic
// instantiation, and pattern-irrefutability checking (spec.md §4.3).
//
// Checker follows the teacher's own error-accumulation idiom
// (parser.Parser.errors/addError): nothing panics, every problem is
// appended to errors and checking continues so a single mistake never
// hides the rest of a program's diagnostics.
package checker

import (
	"fmt"

	"github.com/codeassociates/wyncc/ast"
	"github.com/codeassociates/wyncc/registry"
	"github.com/codeassociates/wyncc/types"
)

// Symbol is one name bound in a scope: a let-binding, a function
// parameter, or a loop variable.
type Symbol struct {
	Name    string
	Type    *types.Type
	Mutable bool
}

// scope is one lexical level of name bindings, chained to its parent.
type scope struct {
	vars   map[string]*Symbol
	parent *scope
}

func newScope(parent *scope) *scope {
	return &scope{vars: make(map[string]*Symbol), parent: parent}
}

func (s *scope) lookup(name string) (*Symbol, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if sym, ok := cur.vars[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

func (s *scope) define(sym *Symbol) { s.vars[sym.Name] = sym }

// FuncSig is a checked function signature, collected in a pre-pass
// before any body is type-checked so forward references and mutual
// recursion resolve without special-casing.
type FuncSig struct {
	Name       string
	TypeParams []string
	ParamTypes []*types.Type
	ReturnType *types.Type
	Async      bool
	Variadic   bool
	Decl       *ast.FuncDecl
}

// Checker accumulates semantic errors while walking a Program. It is
// constructed once per compilation unit.
type Checker struct {
	errors []string

	top *scope

	structs map[string]*types.Type
	enums   map[string]*types.Type
	traits  map[string]*ast.TraitDecl

	// functions is keyed by plain name for free functions and by
	// "TypeName.method" for impl-block methods (spec.md §3's extension
	// methods), supporting overloading by arity/type via a slice per key.
	functions map[string][]*FuncSig

	generics *registry.Generics
	closures *registry.Closures

	curReturn *types.Type
	loopDepth int
}

// New constructs a Checker sharing the given process-scoped registries
// (spec.md §9's redesign of package-global instantiation state).
func New(generics *registry.Generics, closures *registry.Closures) *Checker {
	return &Checker{
		top:       newScope(nil),
		structs:   make(map[string]*types.Type),
		enums:     make(map[string]*types.Type),
		traits:    make(map[string]*ast.TraitDecl),
		functions: make(map[string][]*FuncSig),
		generics:  generics,
		closures:  closures,
	}
}

func (c *Checker) Errors() []string { return c.errors }

func (c *Checker) addError(format string, args ...interface{}) {
	c.errors = append(c.errors, fmt.Sprintf(format, args...))
}

// Check walks program in two passes: collectDecls records every
// struct/enum/trait/function signature (so forward references work),
// then checkStmt type-checks every statement in source order.
func (c *Checker) Check(program *ast.Program) []string {
	for _, stmt := range program.Statements {
		c.collectDecl(stmt)
	}
	for _, stmt := range program.Statements {
		c.checkStmt(stmt, c.top)
	}
	return c.errors
}

// ---------------------------------------------------------------------
// Declaration collection (pre-pass)
// ---------------------------------------------------------------------

func (c *Checker) collectDecl(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.StructDecl:
		c.collectStruct(s)
	case *ast.EnumDecl:
		c.enums[s.Name] = &types.Type{Kind: types.Enum, Name: s.Name, Variants: append([]string(nil), s.Variants...)}
	case *ast.TraitDecl:
		c.traits[s.Name] = s
	case *ast.FuncDecl:
		c.collectFunc(s, "")
	case *ast.ImplDecl:
		for _, m := range s.Methods {
			c.collectFunc(m, s.TypeName)
		}
	case *ast.ExternDecl:
		c.collectExtern(s)
	case *ast.ModuleDecl:
		for _, inner := range s.Body {
			c.collectDecl(inner)
		}
	case *ast.ExportStmt:
		c.collectDecl(s.Inner)
	}
}

func (c *Checker) collectStruct(s *ast.StructDecl) {
	st := &types.Type{Kind: types.Struct, Name: s.Name, TypeParams: append([]string(nil), s.TypeParams...)}
	for _, f := range s.Fields {
		st.Fields = append(st.Fields, types.Field{Name: f.Name, Type: c.resolveTypeExpr(f.Type)})
	}
	c.structs[s.Name] = st
}

func (c *Checker) collectFunc(fn *ast.FuncDecl, receiver string) {
	sig := &FuncSig{Name: fn.Name, TypeParams: append([]string(nil), fn.TypeParams...), Async: fn.Async, Decl: fn}
	for _, p := range fn.Params {
		sig.ParamTypes = append(sig.ParamTypes, c.resolveTypeExprWithGenerics(p.Type, fn.TypeParams))
	}
	sig.ReturnType = c.resolveTypeExprWithGenerics(fn.ReturnType, fn.TypeParams)
	key := fn.Name
	if receiver != "" {
		key = receiver + "." + fn.Name
	}
	c.functions[key] = append(c.functions[key], sig)
}

// collectExtern registers an extern FFI declaration as an ordinary,
// non-generic, non-variadic-checked callable signature — variadic
// trailing arguments (e.g. a C printf-shaped extern) are accepted
// without arity checking past the declared parameters.
func (c *Checker) collectExtern(s *ast.ExternDecl) {
	sig := &FuncSig{Name: s.Name, Variadic: s.Variadic}
	for _, p := range s.Params {
		sig.ParamTypes = append(sig.ParamTypes, c.resolveTypeExpr(p.Type))
	}
	sig.ReturnType = c.resolveTypeExpr(s.ReturnType)
	c.functions[s.Name] = append(c.functions[s.Name], sig)
}

// ---------------------------------------------------------------------
// Type-expression resolution
// ---------------------------------------------------------------------

func (c *Checker) resolveTypeExpr(expr ast.Expression) *types.Type {
	return c.resolveTypeExprWithGenerics(expr, nil)
}

func (c *Checker) resolveTypeExprWithGenerics(expr ast.Expression, typeParams []string) *types.Type {
	if expr == nil {
		return types.UnitType
	}
	switch e := expr.(type) {
	case *ast.Identifier:
		for _, tp := range typeParams {
			if tp == e.Name {
				return types.NewGeneric(tp)
			}
		}
		switch e.Name {
		case "int":
			return types.IntType
		case "float":
			return types.FloatType
		case "bool":
			return types.BoolType
		case "string":
			return types.StringType
		case "()":
			return types.UnitType
		}
		if st, ok := c.structs[e.Name]; ok {
			return st
		}
		if en, ok := c.enums[e.Name]; ok {
			return en
		}
		if _, ok := c.traits[e.Name]; ok {
			return &types.Type{Kind: types.Trait, Name: e.Name}
		}
		// Unknown name used in type position: report it and yield the
		// Invalid placeholder rather than aborting.
		c.addError("unknown type %q", e.Name)
		return types.Invalid_
	case *ast.ArrayLiteral:
		if len(e.Elements) != 1 {
			return types.NewArray(types.Invalid_)
		}
		return types.NewArray(c.resolveTypeExprWithGenerics(e.Elements[0], typeParams))
	case *ast.TupleExpr:
		var elems []*types.Type
		for _, el := range e.Elements {
			elems = append(elems, c.resolveTypeExprWithGenerics(el, typeParams))
		}
		return types.NewTuple(elems)
	case *ast.OptionalTypeExpr:
		return types.NewOption(c.resolveTypeExprWithGenerics(e.Inner, typeParams))
	case *ast.UnionTypeExpr:
		var members []*types.Type
		for _, m := range e.Members {
			members = append(members, c.resolveTypeExprWithGenerics(m, typeParams))
		}
		return types.NewUnion(members)
	case *ast.CallExpr:
		// Generic instantiation syntax parsed as a call, e.g. Box<Int>.
		name, ok := e.Callee.(*ast.Identifier)
		if !ok {
			c.addError("malformed generic type expression")
			return types.Invalid_
		}
		var args []*types.Type
		for _, a := range e.Args {
			args = append(args, c.resolveTypeExprWithGenerics(a, typeParams))
		}
		// Built-in parameterized type constructors, recognized by name
		// before falling back to a struct/enum/trait lookup.
		switch name.Name {
		case "Map":
			if len(args) == 2 {
				return types.NewMap(args[0], args[1])
			}
		case "Result":
			if len(args) == 2 {
				return types.NewResult(args[0], args[1])
			}
		case "Option":
			if len(args) == 1 {
				return types.NewOption(args[0])
			}
		}
		base := c.resolveTypeExprWithGenerics(name, typeParams)
		if base.Kind == types.Struct || base.Kind == types.Enum {
			clone := *base
			clone.TypeArgs = args
			return &clone
		}
		return base
	default:
		c.addError("unsupported type expression")
		return types.Invalid_
	}
}

// ---------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------

func (c *Checker) checkStmt(stmt ast.Statement, sc *scope) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		c.checkExpr(s.Expr, sc)
	case *ast.LetStmt:
		c.checkLetStmt(s, sc)
	case *ast.ReturnStmt:
		var t *types.Type = types.UnitType
		if s.Value != nil {
			t = c.checkExpr(s.Value, sc)
		}
		if c.curReturn != nil && !types.IsNumeric(c.curReturn) && !types.Equal(c.curReturn, t) &&
			!types.ContainsInvalid(c.curReturn) && !types.ContainsInvalid(t) {
			c.addError("return type mismatch: expected %s, got %s", c.curReturn, t)
		}
	case *ast.BlockStmt:
		inner := newScope(sc)
		for _, st := range s.Statements {
			c.checkStmt(st, inner)
		}
	case *ast.IfStmt:
		c.checkCondition(s.Cond, sc)
		c.checkStmt(s.Then, sc)
		if s.Else != nil {
			c.checkStmt(s.Else, sc)
		}
	case *ast.WhileStmt:
		c.checkCondition(s.Cond, sc)
		c.loopDepth++
		c.checkStmt(s.Body, sc)
		c.loopDepth--
	case *ast.ForStmt:
		c.checkForStmt(s, sc)
	case *ast.BreakStmt:
		if c.loopDepth == 0 {
			c.addError("break outside of a loop")
		}
	case *ast.ContinueStmt:
		if c.loopDepth == 0 {
			c.addError("continue outside of a loop")
		}
	case *ast.FuncDecl:
		c.checkFuncBody(s)
	case *ast.ImplDecl:
		for _, m := range s.Methods {
			c.checkFuncBody(m)
		}
	case *ast.StructDecl, *ast.EnumDecl, *ast.TraitDecl, *ast.ImportStmt, *ast.TypeAliasStmt, *ast.ExternDecl:
		// Declarations with no executable body beyond what collectDecl
		// already resolved.
	case *ast.ModuleDecl:
		inner := newScope(sc)
		for _, st := range s.Body {
			c.checkStmt(st, inner)
		}
	case *ast.ExportStmt:
		c.checkStmt(s.Inner, sc)
	case *ast.TryStmt:
		c.checkStmt(s.Try, sc)
		for _, cl := range s.Catches {
			inner := newScope(sc)
			if cl.Binding != "" {
				inner.define(&Symbol{Name: cl.Binding, Type: types.StringType})
			}
			c.checkStmt(cl.Body, inner)
		}
		if s.Finally != nil {
			c.checkStmt(s.Finally, sc)
		}
	case *ast.ThrowStmt:
		c.checkExpr(s.Value, sc)
	case *ast.MatchStmt:
		c.checkMatchStmt(s, sc)
	case *ast.TestDecl:
		c.checkStmt(s.Body, sc)
	case *ast.SpawnStmt:
		c.checkExpr(s.Call, sc)
	case *ast.MacroDecl:
		c.checkStmt(s.Body, sc)
	default:
		c.addError("checker: unhandled statement %T", stmt)
	}
}

func (c *Checker) checkCondition(cond ast.Expression, sc *scope) {
	t := c.checkExpr(cond, sc)
	if t.Kind != types.Bool && t.Kind != types.Invalid {
		c.addError("condition must be bool, got %s", t)
	}
}

func (c *Checker) checkLetStmt(s *ast.LetStmt, sc *scope) {
	var declared *types.Type
	if s.TypeAnnotation != nil {
		declared = c.resolveTypeExpr(s.TypeAnnotation)
	}
	var valueType *types.Type
	if s.Value != nil {
		valueType = c.checkExpr(s.Value, sc)
	}
	final := declared
	if final == nil {
		final = valueType
	}
	if final == nil {
		final = types.Invalid_
	}
	if declared != nil && valueType != nil && !types.ContainsInvalid(declared) && !types.ContainsInvalid(valueType) && !types.Equal(declared, valueType) {
		c.addError("cannot assign %s to binding of declared type %s", valueType, declared)
	}
	if !isIrrefutable(s.Pattern) {
		c.addError("refutable pattern used in an irrefutable position (let binding)")
	}
	c.bindPattern(s.Pattern, final, s.Mutable, sc)
}

// bindPattern defines every name an irrefutable pattern introduces.
func (c *Checker) bindPattern(pat *ast.Pattern, t *types.Type, mutable bool, sc *scope) {
	switch pat.Kind {
	case ast.PatIdent:
		sc.define(&Symbol{Name: pat.Name, Type: t, Mutable: mutable})
	case ast.PatWildcard:
	case ast.PatTuple:
		for i, sub := range pat.Tuple {
			var elemType *types.Type = types.Invalid_
			if t != nil && t.Kind == types.Tuple && i < len(t.Elems) {
				elemType = t.Elems[i]
			}
			c.bindPattern(sub, elemType, mutable, sc)
		}
	case ast.PatStruct:
		for _, f := range pat.Fields {
			fieldType, _ := t.FieldType(f.Name)
			if fieldType == nil {
				fieldType = types.Invalid_
			}
			c.bindPattern(f.Pattern, fieldType, mutable, sc)
		}
	case ast.PatArray:
		var elemType *types.Type = types.Invalid_
		if t != nil && t.Kind == types.Array {
			elemType = t.Elem
		}
		for _, sub := range pat.Elements {
			c.bindPattern(sub, elemType, mutable, sc)
		}
		if pat.Rest != nil {
			sc.define(&Symbol{Name: *pat.Rest, Type: t, Mutable: mutable})
		}
	case ast.PatOption:
		if pat.Inner != nil {
			var elemType *types.Type = types.Invalid_
			if t != nil && t.Kind == types.Option {
				elemType = t.Elem
			}
			c.bindPattern(pat.Inner, elemType, mutable, sc)
		}
	}
}

// isIrrefutable reports whether pat always matches, the requirement
// spec.md places on let-binding and parameter patterns (as opposed to
// match arms, which may use any pattern).
func isIrrefutable(pat *ast.Pattern) bool {
	if pat == nil {
		return true
	}
	switch pat.Kind {
	case ast.PatIdent, ast.PatWildcard:
		return true
	case ast.PatTuple:
		for _, sub := range pat.Tuple {
			if !isIrrefutable(sub) {
				return false
			}
		}
		return true
	case ast.PatStruct:
		for _, f := range pat.Fields {
			if !isIrrefutable(f.Pattern) {
				return false
			}
		}
		return true
	case ast.PatArray:
		// Only irrefutable when every element binds unconditionally and a
		// rest-binding absorbs any remaining length.
		for _, sub := range pat.Elements {
			if !isIrrefutable(sub) {
				return false
			}
		}
		return pat.Rest != nil
	default:
		// Literal, range, option-variant, and guarded patterns can fail
		// to match and are never allowed outside `match`.
		return false
	}
}

func (c *Checker) checkForStmt(s *ast.ForStmt, sc *scope) {
	inner := newScope(sc)
	c.loopDepth++
	defer func() { c.loopDepth-- }()

	if s.IsForEach {
		iterType := c.checkExpr(s.Iterable, sc)
		var elemType *types.Type = types.Invalid_
		switch iterType.Kind {
		case types.Array:
			elemType = iterType.Elem
		case types.Map:
			elemType = iterType.Key
		default:
			if iterType.Kind != types.Invalid {
				c.addError("for-each requires an array or map, got %s", iterType)
			}
		}
		inner.define(&Symbol{Name: s.LoopVar, Type: elemType})
		c.checkStmt(s.Body, inner)
		return
	}

	if s.Init != nil {
		c.checkStmt(s.Init, inner)
	}
	if s.Cond != nil {
		c.checkCondition(s.Cond, inner)
	}
	if s.Post != nil {
		c.checkStmt(s.Post, inner)
	}
	c.checkStmt(s.Body, inner)
}

func (c *Checker) checkFuncBody(fn *ast.FuncDecl) {
	key := fn.Name
	if fn.IsExtension {
		key = fn.ReceiverType + "." + fn.Name
	}
	var sig *FuncSig
	for _, s := range c.functions[key] {
		if s.Decl == fn {
			sig = s
			break
		}
	}
	if sig == nil {
		return
	}
	inner := newScope(c.top)
	if fn.IsExtension {
		recvType := c.structs[fn.ReceiverType]
		if recvType == nil {
			recvType = c.enums[fn.ReceiverType]
		}
		inner.define(&Symbol{Name: "self", Type: recvType})
	}
	for i, p := range fn.Params {
		var pt *types.Type = types.Invalid_
		if i < len(sig.ParamTypes) {
			pt = sig.ParamTypes[i]
		}
		inner.define(&Symbol{Name: p.Name, Type: pt, Mutable: p.Mutable})
	}
	prevReturn := c.curReturn
	c.curReturn = sig.ReturnType
	if fn.Body != nil {
		for _, st := range fn.Body.Statements {
			c.checkStmt(st, inner)
		}
	}
	c.curReturn = prevReturn
}

func (c *Checker) checkMatchStmt(s *ast.MatchStmt, sc *scope) {
	scrutType := c.checkExpr(s.Scrutinee, sc)
	for _, cs := range s.Cases {
		inner := newScope(sc)
		c.bindPattern(cs.Pattern, scrutType, false, inner)
		if cs.Guard != nil {
			c.checkCondition(cs.Guard, inner)
		}
		c.checkStmt(cs.Body, inner)
	}
}

package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/codeassociates/wyncc/ast"
	"github.com/codeassociates/wyncc/types"
)

// emitExpr renders e as a single C expression. Array/map/struct/match
// literals that need more than one C statement to build are rendered
// as GNU statement expressions (`({ ...; result; })`) — the same trick
// the runtime ABI's design leans on for the try-operator's early return,
// and a standard way to keep the emitter a pure expression-to-expression
// mapping instead of threading a separate statement-lowering pass through
// every expression position.
func (g *Generator) emitExpr(e ast.Expression) string {
	switch n := e.(type) {
	case nil:
		return "NULL"
	case *ast.IntegerLiteral:
		return strconv.FormatInt(n.Value, 10)
	case *ast.FloatLiteral:
		return strconv.FormatFloat(n.Value, 'g', -1, 64)
	case *ast.StringLiteral:
		return "\"" + n.Raw + "\""
	case *ast.CharLiteral:
		return fmt.Sprintf("'%s'", escapeChar(n.Value))
	case *ast.BoolLiteral:
		if n.Value {
			return "true"
		}
		return "false"
	case *ast.Identifier:
		return cIdent(n.Name)
	case *ast.UnaryExpr:
		return g.emitUnary(n)
	case *ast.BinaryExpr:
		return g.emitBinary(n)
	case *ast.AssignExpr:
		return fmt.Sprintf("(%s = %s)", g.emitExpr(n.Target), g.emitExpr(n.Value))
	case *ast.CallExpr:
		return g.emitCall(n)
	case *ast.MethodCallExpr:
		return g.emitMethodCall(n)
	case *ast.ArrayLiteral:
		return g.emitArrayLiteral(n)
	case *ast.IndexExpr:
		return g.emitIndex(n)
	case *ast.FieldExpr:
		return g.emitField(n)
	case *ast.StructInitExpr:
		return g.emitStructInit(n)
	case *ast.RangeExpr:
		incl := "false"
		if n.Inclusive {
			incl = "true"
		}
		return fmt.Sprintf("wyn_range(%s, %s, %s)", g.emitExpr(n.Start), g.emitExpr(n.End), incl)
	case *ast.TupleExpr:
		return g.emitTuple(n)
	case *ast.TupleIndexExpr:
		return fmt.Sprintf("wyn_tuple_get(%s, %d)", g.emitExpr(n.Object), n.Index)
	case *ast.MapLiteral:
		return g.emitMapLiteral(n)
	case *ast.IfExpr:
		return fmt.Sprintf("(%s ? (%s) : (%s))", g.emitExpr(n.Cond), g.emitExpr(n.Then), g.emitExpr(n.Else))
	case *ast.TernaryExpr:
		return fmt.Sprintf("(%s ? (%s) : (%s))", g.emitExpr(n.Cond), g.emitExpr(n.Then), g.emitExpr(n.Else))
	case *ast.MatchExpr:
		return g.emitMatchExpr(n)
	case *ast.StringInterp:
		return g.emitStringInterp(n)
	case *ast.LambdaExpr:
		return g.emitLambdaRef(n)
	case *ast.TryExpr:
		return g.emitTry(n)
	case *ast.SomeExpr:
		return fmt.Sprintf("wyn_optional_some((void*)(intptr_t)(%s))", g.emitExpr(n.Value))
	case *ast.NoneExpr:
		return "wyn_optional_none()"
	case *ast.OkExpr:
		return fmt.Sprintf("wyn_result_ok((void*)(intptr_t)(%s))", g.emitExpr(n.Value))
	case *ast.ErrExpr:
		return fmt.Sprintf("wyn_result_err((void*)(intptr_t)(%s))", g.emitExpr(n.Value))
	case *ast.PipelineExpr:
		return g.emitPipeline(n)
	case *ast.AwaitExpr:
		return g.emitAwait(n)
	case *ast.OptionalTypeExpr, *ast.UnionTypeExpr:
		return "/* type-expression used as value */ NULL"
	default:
		return fmt.Sprintf("/* unhandled expr %T */ NULL", n)
	}
}

func escapeChar(b byte) string {
	switch b {
	case '\'':
		return `\'`
	case '\\':
		return `\\`
	case '\n':
		return `\n`
	case '\t':
		return `\t`
	default:
		return string(b)
	}
}

func (g *Generator) emitUnary(n *ast.UnaryExpr) string {
	switch n.Operator {
	case "not":
		return fmt.Sprintf("(!(%s))", g.emitExpr(n.Operand))
	case "&":
		return g.emitExpr(n.Operand) // ARC passthrough: no retain call is emitted
	default:
		return fmt.Sprintf("(%s(%s))", n.Operator, g.emitExpr(n.Operand))
	}
}

func (g *Generator) emitBinary(n *ast.BinaryExpr) string {
	lt := g.resolvedType(n.Left)
	if n.Operator == "+" && lt != nil && lt.Kind == types.StringT {
		return fmt.Sprintf("wyn_string_concat_safe(%s, %s)", g.emitExpr(n.Left), g.emitExpr(n.Right))
	}
	op := n.Operator
	switch op {
	case "and":
		op = "&&"
	case "or":
		op = "||"
	}
	return fmt.Sprintf("(%s %s %s)", g.emitExpr(n.Left), op, g.emitExpr(n.Right))
}

// callCName derives the C name of a resolved plain-call target. Wyn
// permits overloading a name by arity/parameter types, which C has no
// equivalent for; the suffix here is derived from the checker's resolved
// ParamTypes, while funcCName (see decls.go) derives the declaration-side
// suffix from the declared parameter type expressions.
func (g *Generator) callCName(call *ast.CallExpr) string {
	if call.Overload == nil {
		if id, ok := call.Callee.(*ast.Identifier); ok {
			return cIdent(id.Name)
		}
		return "/* unresolved call target */"
	}
	if call.Overload.IsGeneric {
		return cIdent(call.Overload.MangledName)
	}
	name := call.Overload.MangledName
	if g.funcOverloadCount[name] <= 1 {
		return cIdent(name)
	}
	return cIdent(name) + "_" + typeTagList(call.Overload.ParamTypes)
}

func typeTagList(ts []*types.Type) string {
	var b strings.Builder
	for _, t := range ts {
		if b.Len() > 0 {
			b.WriteByte('_')
		}
		b.WriteString(typeTag(t))
	}
	if b.Len() == 0 {
		return "v"
	}
	return b.String()
}

func typeTag(t *types.Type) string {
	if t == nil {
		return "x"
	}
	switch t.Kind {
	case types.Int:
		return "int"
	case types.Float:
		return "float"
	case types.Bool:
		return "bool"
	case types.StringT:
		return "string"
	case types.Struct, types.Enum:
		return t.Name
	default:
		return "x"
	}
}

func (g *Generator) emitCall(n *ast.CallExpr) string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = g.emitExpr(a)
	}
	if id, ok := n.Callee.(*ast.Identifier); ok {
		if name, ok := builtinCallName(id.Name); ok {
			return fmt.Sprintf("%s(%s)", name, strings.Join(args, ", "))
		}
	}
	return fmt.Sprintf("%s(%s)", g.callCName(n), strings.Join(args, ", "))
}

// builtinCallName maps the fixed self-hosting helper names spec.md §4.4
// lists (get_argc, get_argv, check_file_exists, ...) straight through to
// their runtime ABI spelling, bypassing ordinary overload resolution —
// these are not Wyn-level declarations, they are compiler-exported hooks.
func builtinCallName(name string) (string, bool) {
	switch name {
	case "get_argc", "get_argv", "check_file_exists", "read_file_content",
		"is_content_valid", "store_argv", "store_file_content", "wyn_exit",
		"wyn_panic", "wyn_todo", "wyn_assert":
		return name, true
	}
	return "", false
}

var builtinModules = map[string]bool{"math": true, "time": true, "random": true, "json": true, "http": true, "fs": true}

func (g *Generator) emitMethodCall(n *ast.MethodCallExpr) string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = g.emitExpr(a)
	}
	if id, ok := n.Receiver.(*ast.Identifier); ok && builtinModules[id.Name] {
		return fmt.Sprintf("%s_%s(%s)", id.Name, cIdent(n.Method), strings.Join(args, ", "))
	}

	recv := g.emitExpr(n.Receiver)
	recvT := g.resolvedType(n.Receiver)
	if recvT == nil {
		return fmt.Sprintf("/* unresolved receiver */ %s_%s(%s)", recv, cIdent(n.Method), strings.Join(args, ", "))
	}
	switch recvT.Kind {
	case types.StringT:
		return g.emitStringMethod(recv, n.Method, args)
	case types.Array:
		return g.emitArrayMethod(recv, n.Method, args, recvT)
	case types.Map:
		return g.emitMapMethod(recv, n.Method, args, recvT)
	case types.Option:
		return g.emitOptionMethod(recv, n.Method, args)
	case types.Result:
		return g.emitResultMethod(recv, n.Method, args)
	case types.Int, types.Float:
		return g.emitNumericMethod(recv, n.Method, args)
	case types.Struct, types.Enum:
		all := append([]string{recv}, args...)
		return fmt.Sprintf("%s(%s)", cMethodName(recvT.Name, n.Method), strings.Join(all, ", "))
	default:
		return fmt.Sprintf("/* method on %s */ NULL", recvT)
	}
}

func (g *Generator) emitStringMethod(recv, method string, args []string) string {
	a := argOr(args, 0)
	b := argOr(args, 1)
	switch method {
	case "length":
		return fmt.Sprintf("string_length(%s)", recv)
	case "substring":
		return fmt.Sprintf("string_substring(%s, %s, %s)", recv, a, b)
	case "upper":
		return fmt.Sprintf("string_upper(%s)", recv)
	case "lower":
		return fmt.Sprintf("string_lower(%s)", recv)
	case "capitalize":
		return fmt.Sprintf("string_capitalize(%s)", recv)
	case "reverse":
		return fmt.Sprintf("string_reverse(%s)", recv)
	case "starts_with":
		return fmt.Sprintf("string_starts_with(%s, %s)", recv, a)
	case "ends_with":
		return fmt.Sprintf("string_ends_with(%s, %s)", recv, a)
	case "index_of":
		return fmt.Sprintf("string_index_of(%s, %s)", recv, a)
	case "replace":
		return fmt.Sprintf("string_replace(%s, %s, %s)", recv, a, b)
	case "slice":
		return fmt.Sprintf("string_slice(%s, %s, %s)", recv, a, b)
	case "repeat":
		return fmt.Sprintf("string_repeat(%s, %s)", recv, a)
	default:
		return fmt.Sprintf("/* unknown string method %s */ NULL", method)
	}
}

func (g *Generator) emitArrayMethod(recv, method string, args []string, recvT *types.Type) string {
	switch method {
	case "length", "count":
		return fmt.Sprintf("wyn_array_count(%s)", recv)
	case "sum":
		return fmt.Sprintf("arr_sum(%s, wyn_array_count(%s))", recv, recv)
	case "push":
		return fmt.Sprintf("%s(%s, %s)", arrayPusher(recvT.Elem), recv, argOr(args, 0))
	default:
		return fmt.Sprintf("/* unknown array method %s */ NULL", method)
	}
}

func arrayPusher(elem *types.Type) string {
	if elem == nil {
		return "wyn_array_push_int"
	}
	switch elem.Kind {
	case types.Float:
		return "wyn_array_push_float"
	case types.StringT:
		return "wyn_array_push_str"
	case types.Bool:
		return "wyn_array_push_bool"
	case types.Array:
		return "wyn_array_push_array"
	default:
		return "wyn_array_push_int"
	}
}

func (g *Generator) emitMapMethod(recv, method string, args []string, recvT *types.Type) string {
	switch method {
	case "has":
		return fmt.Sprintf("wyn_map_has(%s, %s)", recv, argOr(args, 0))
	case "clear":
		return fmt.Sprintf("wyn_map_clear(%s)", recv)
	case "keys":
		return fmt.Sprintf("wyn_map_keys(%s)", recv)
	case "get":
		return fmt.Sprintf("%s(%s, %s)", mapGetter(recvT.Elem), recv, argOr(args, 0))
	default:
		return fmt.Sprintf("/* unknown map method %s */ NULL", method)
	}
}

func mapGetter(elem *types.Type) string {
	if elem == nil {
		return "wyn_map_get_int"
	}
	switch elem.Kind {
	case types.Float:
		return "wyn_map_get_float"
	case types.StringT:
		return "wyn_map_get_str"
	default:
		return "wyn_map_get_int"
	}
}

func (g *Generator) emitOptionMethod(recv, method string, args []string) string {
	switch method {
	case "is_some":
		return fmt.Sprintf("wyn_optional_is_some(%s)", recv)
	case "is_none":
		return fmt.Sprintf("wyn_optional_is_none(%s)", recv)
	case "unwrap":
		return fmt.Sprintf("wyn_optional_unwrap(%s)", recv)
	case "unwrap_or":
		return fmt.Sprintf("(wyn_optional_is_some(%s) ? wyn_optional_unwrap(%s) : (void*)(intptr_t)(%s))", recv, recv, argOr(args, 0))
	default:
		return fmt.Sprintf("/* unknown option method %s */ NULL", method)
	}
}

func (g *Generator) emitResultMethod(recv, method string, args []string) string {
	switch method {
	case "is_ok":
		return fmt.Sprintf("wyn_result_is_ok(%s)", recv)
	case "is_err":
		return fmt.Sprintf("wyn_result_is_err(%s)", recv)
	case "unwrap":
		return fmt.Sprintf("wyn_result_unwrap(%s)", recv)
	case "unwrap_err":
		return fmt.Sprintf("wyn_result_unwrap_err(%s)", recv)
	default:
		return fmt.Sprintf("/* unknown result method %s */ NULL", method)
	}
}

func (g *Generator) emitNumericMethod(recv, method string, args []string) string {
	switch method {
	case "abs":
		return fmt.Sprintf("abs_val(%s)", recv)
	case "pow":
		return fmt.Sprintf("wyn_pow(%s, %s)", recv, argOr(args, 0))
	case "clamp":
		return fmt.Sprintf("wyn_clamp(%s, %s, %s)", recv, argOr(args, 0), argOr(args, 1))
	case "sqrt":
		return fmt.Sprintf("wyn_sqrt_int(%s)", recv)
	case "floor":
		return fmt.Sprintf("wyn_floor_int(%s)", recv)
	case "ceil":
		return fmt.Sprintf("wyn_ceil_int(%s)", recv)
	case "round":
		return fmt.Sprintf("wyn_round_int(%s)", recv)
	default:
		return fmt.Sprintf("/* unknown numeric method %s */ NULL", method)
	}
}

func argOr(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return "0"
}

func (g *Generator) emitArrayLiteral(n *ast.ArrayLiteral) string {
	elemT := types.Invalid_
	t := g.resolvedType(n)
	if t != nil && t.Kind == types.Array {
		elemT = t.Elem
	}
	pusher := arrayPusher(elemT)
	tmp := g.nextTmp("arr")
	var b strings.Builder
	b.WriteString("({ WynArray* " + tmp + " = wyn_array_new(); ")
	for _, el := range n.Elements {
		fmt.Fprintf(&b, "%s(%s, %s); ", pusher, tmp, g.emitExpr(el))
	}
	b.WriteString(tmp + "; })")
	return b.String()
}

func (g *Generator) emitMapLiteral(n *ast.MapLiteral) string {
	var valT *types.Type
	t := g.resolvedType(n)
	if t != nil && t.Kind == types.Map {
		valT = t.Elem
	}
	setter := "wyn_map_set_int"
	if valT != nil {
		switch valT.Kind {
		case types.Float:
			setter = "wyn_map_set_float"
		case types.StringT:
			setter = "wyn_map_set_str"
		}
	}
	tmp := g.nextTmp("map")
	var b strings.Builder
	b.WriteString("({ WynMap* " + tmp + " = wyn_map_new(); ")
	for i, k := range n.Keys {
		fmt.Fprintf(&b, "%s(%s, %s, %s); ", setter, tmp, g.emitExpr(k), g.emitExpr(n.Values[i]))
	}
	b.WriteString(tmp + "; })")
	return b.String()
}

func (g *Generator) emitIndex(n *ast.IndexExpr) string {
	containerT := g.resolvedType(n.Container)
	containerC := g.emitExpr(n.Container)
	idxC := g.emitExpr(n.Index)
	if n.Value != nil {
		// wrapAssignTarget mutated this node in place to carry the
		// assigned value (ast.go's read/assign unification).
		valC := g.emitExpr(n.Value)
		if containerT != nil && containerT.Kind == types.Map {
			return fmt.Sprintf("%s(%s, %s, %s)", mapSetter(containerT.Elem), containerC, idxC, valC)
		}
		elem := types.Invalid_
		if containerT != nil {
			elem = containerT.Elem
		}
		return fmt.Sprintf("%s(%s, %s, %s)", arraySetter(elem), containerC, idxC, valC)
	}
	if containerT != nil && containerT.Kind == types.Map {
		return fmt.Sprintf("%s(%s, %s)", mapGetter(containerT.Elem), containerC, idxC)
	}
	elem := types.Invalid_
	if containerT != nil {
		elem = containerT.Elem
	}
	return fmt.Sprintf("%s(%s, %s)", arrayGetter(elem), containerC, idxC)
}

func mapSetter(elem *types.Type) string {
	if elem == nil {
		return "wyn_map_set_int"
	}
	switch elem.Kind {
	case types.Float:
		return "wyn_map_set_float"
	case types.StringT:
		return "wyn_map_set_str"
	default:
		return "wyn_map_set_int"
	}
}

func arraySetter(elem *types.Type) string {
	if elem == nil {
		return "wyn_array_set_int"
	}
	switch elem.Kind {
	case types.Float:
		return "wyn_array_set_float"
	case types.StringT:
		return "wyn_array_set_str"
	default:
		return "wyn_array_set_int"
	}
}

func (g *Generator) emitField(n *ast.FieldExpr) string {
	objC := g.emitExpr(n.Object)
	if n.Value != nil {
		return fmt.Sprintf("(%s->%s = %s)", objC, cIdent(n.Field), g.emitExpr(n.Value))
	}
	return fmt.Sprintf("%s->%s", objC, cIdent(n.Field))
}

func (g *Generator) emitStructInit(n *ast.StructInitExpr) string {
	name := cStructName(n.TypeName)
	tmp := g.nextTmp("s")
	var b strings.Builder
	fmt.Fprintf(&b, "({ %s* %s = (%s*)malloc(sizeof(%s)); ", name, tmp, name, name)
	for _, f := range n.Fields {
		fmt.Fprintf(&b, "%s->%s = %s; ", tmp, cIdent(f.Name), g.emitExpr(f.Value))
	}
	b.WriteString(tmp + "; })")
	return b.String()
}

func (g *Generator) emitTuple(n *ast.TupleExpr) string {
	tmp := g.nextTmp("tup")
	var b strings.Builder
	fmt.Fprintf(&b, "({ WynTuple* %s = wyn_tuple_new(%d); ", tmp, len(n.Elements))
	for i, el := range n.Elements {
		fmt.Fprintf(&b, "wyn_tuple_set(%s, %d, (void*)(intptr_t)(%s)); ", tmp, i, g.emitExpr(el))
	}
	b.WriteString(tmp + "; })")
	return b.String()
}

func (g *Generator) emitMatchExpr(n *ast.MatchExpr) string {
	scrutT := g.resolvedType(n.Scrutinee)
	resultT := g.resolvedType(n)
	scrutTmp := g.nextTmp("scrut")
	resTmp := g.nextTmp("res")
	var b strings.Builder
	fmt.Fprintf(&b, "({ %s %s = %s; %s %s; ", cType(scrutT), scrutTmp, g.emitExpr(n.Scrutinee), cType(resultT), resTmp)
	for i, arm := range n.Arms {
		cond := g.patternTest(arm.Pattern, scrutTmp, scrutT)
		if arm.Guard != nil {
			cond = fmt.Sprintf("(%s) && (%s)", cond, g.emitExpr(arm.Guard))
		}
		kw := "if"
		if i > 0 {
			kw = "else if"
		}
		if isWildcardPattern(arm.Pattern) && arm.Guard == nil {
			if i > 0 {
				b.WriteString("else ")
			}
			fmt.Fprintf(&b, "{ %s = %s; } ", resTmp, g.emitExpr(arm.Result))
		} else {
			fmt.Fprintf(&b, "%s (%s) { %s = %s; } ", kw, cond, resTmp, g.emitExpr(arm.Result))
		}
	}
	fmt.Fprintf(&b, "%s; })", resTmp)
	return b.String()
}

func (g *Generator) emitStringInterp(n *ast.StringInterp) string {
	acc := `""`
	first := true
	for _, p := range n.Parts {
		var piece string
		if p.IsExpr {
			piece = g.toStringExpr(p.Expr)
		} else {
			piece = "\"" + p.Literal + "\""
		}
		if first {
			acc = piece
			first = false
			continue
		}
		acc = fmt.Sprintf("wyn_string_concat_safe(%s, %s)", acc, piece)
	}
	return acc
}

func (g *Generator) toStringExpr(e ast.Expression) string {
	t := g.resolvedType(e)
	c := g.emitExpr(e)
	if t == nil {
		return c
	}
	switch t.Kind {
	case types.Int:
		return fmt.Sprintf("wyn_int_to_string(%s)", c)
	case types.Float:
		return fmt.Sprintf("wyn_float_to_string(%s)", c)
	case types.Bool:
		return fmt.Sprintf("wyn_bool_to_string(%s)", c)
	default:
		return c
	}
}

func (g *Generator) emitLambdaRef(lam *ast.LambdaExpr) string {
	cl := closureStructName(lam)
	var b strings.Builder
	tmp := g.nextTmp("cl")
	fmt.Fprintf(&b, "({ %s* %s = (%s*)malloc(sizeof(%s)); %s->fn = (void*)%s; ", cl, tmp, cl, cl, tmp, cIdent(lam.LiftedName))
	for _, cap := range lam.Captures {
		fmt.Fprintf(&b, "%s->%s = (void*)(intptr_t)(%s); ", tmp, cIdent(cap), cIdent(cap))
	}
	b.WriteString(tmp + "; })")
	return b.String()
}

// emitTry lowers the postfix `?` operator onto the shared exception/
// result-propagation idiom: a GNU statement expression that unwraps an
// Option/Result, and on failure returns early from the *enclosing*
// function — valid because GNU statement expressions are inlined into
// their enclosing function, not a nested one, so `return` inside one
// still returns from the real caller (spec.md §4.4's try-postfix rule).
func (g *Generator) emitTry(n *ast.TryExpr) string {
	operandT := g.resolvedType(n.Operand)
	tmp := g.nextTmp("try")
	operandC := g.emitExpr(n.Operand)
	failReturn := "return NULL;"
	if g.curAsync {
		failReturn = fmt.Sprintf("wyn_future_set_ready(%s, NULL); return %s;", g.curFuture, g.curFuture)
	}
	if operandT != nil && operandT.Kind == types.Option {
		return fmt.Sprintf("({ WynOptional* %s = %s; if (!wyn_optional_is_some(%s)) { %s } wyn_optional_unwrap(%s); })",
			tmp, operandC, tmp, failReturn, tmp)
	}
	return fmt.Sprintf("({ WynResult* %s = %s; if (!wyn_result_is_ok(%s)) { %s } wyn_result_unwrap(%s); })",
		tmp, operandC, tmp, failReturn, tmp)
}

// emitPipeline folds `a |> f |> g` into `g(f(a))` (spec.md §8 property
// 8): each subsequent stage is a call expression whose piped-in value is
// spliced in as its first argument, or is treated as a single-argument
// callee reference when the stage is not itself a call.
func (g *Generator) emitPipeline(n *ast.PipelineExpr) string {
	if len(n.Stages) == 0 {
		return "NULL"
	}
	acc := g.emitExpr(n.Stages[0])
	for _, stage := range n.Stages[1:] {
		if call, ok := stage.(*ast.CallExpr); ok {
			args := []string{acc}
			for _, a := range call.Args {
				args = append(args, g.emitExpr(a))
			}
			acc = fmt.Sprintf("%s(%s)", g.callCName(call), strings.Join(args, ", "))
			continue
		}
		acc = fmt.Sprintf("%s(%s)", g.emitExpr(stage), acc)
	}
	return acc
}

func (g *Generator) emitAwait(n *ast.AwaitExpr) string {
	operandC := g.emitExpr(n.Operand)
	t := g.resolvedType(n)
	body := fmt.Sprintf("wyn_block_on(%s)", operandC)
	if t == nil {
		return body
	}
	switch t.Kind {
	case types.Int:
		return fmt.Sprintf("((int)(intptr_t)%s)", body)
	case types.Float:
		return fmt.Sprintf("(*(double*)%s)", body)
	case types.StringT:
		return fmt.Sprintf("((const char*)%s)", body)
	default:
		return body
	}
}

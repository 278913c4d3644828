package checker

import (
	"github.com/codeassociates/wyncc/ast"
	"github.com/codeassociates/wyncc/types"
)

// checkExpr type-checks expr, writes the resolved type back onto the
// node via Expression.SetType (so codegen never re-derives it), and
// returns that type.
func (c *Checker) checkExpr(expr ast.Expression, sc *scope) *types.Type {
	t := c.inferExpr(expr, sc)
	if t == nil {
		t = types.Invalid_
	}
	expr.SetType(t)
	return t
}

func (c *Checker) inferExpr(expr ast.Expression, sc *scope) *types.Type {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return types.IntType
	case *ast.FloatLiteral:
		return types.FloatType
	case *ast.StringLiteral:
		return types.StringType
	case *ast.CharLiteral:
		return types.IntType
	case *ast.BoolLiteral:
		return types.BoolType
	case *ast.Identifier:
		if sym, ok := sc.lookup(e.Name); ok {
			return sym.Type
		}
		c.addError("undefined identifier %q", e.Name)
		return types.Invalid_
	case *ast.UnaryExpr:
		return c.checkUnary(e, sc)
	case *ast.BinaryExpr:
		return c.checkBinary(e, sc)
	case *ast.AssignExpr:
		return c.checkAssign(e, sc)
	case *ast.CallExpr:
		return c.checkCall(e, sc)
	case *ast.MethodCallExpr:
		return c.checkMethodCall(e, sc)
	case *ast.ArrayLiteral:
		return c.checkArrayLiteral(e, sc)
	case *ast.IndexExpr:
		return c.checkIndex(e, sc)
	case *ast.FieldExpr:
		return c.checkField(e, sc)
	case *ast.StructInitExpr:
		return c.checkStructInit(e, sc)
	case *ast.RangeExpr:
		c.checkExpr(e.Start, sc)
		c.checkExpr(e.End, sc)
		return types.NewArray(types.IntType)
	case *ast.TupleExpr:
		var elems []*types.Type
		for _, el := range e.Elements {
			elems = append(elems, c.checkExpr(el, sc))
		}
		return types.NewTuple(elems)
	case *ast.TupleIndexExpr:
		objType := c.checkExpr(e.Object, sc)
		if objType.Kind == types.Tuple && e.Index < len(objType.Elems) {
			return objType.Elems[e.Index]
		}
		if objType.Kind != types.Invalid {
			c.addError("tuple index %d out of range for %s", e.Index, objType)
		}
		return types.Invalid_
	case *ast.MapLiteral:
		return c.checkMapLiteral(e, sc)
	case *ast.IfExpr:
		return c.checkIfExpr(e, sc)
	case *ast.TernaryExpr:
		c.checkCondition(e.Cond, sc)
		thenT := c.checkExpr(e.Then, sc)
		elseT := c.checkExpr(e.Else, sc)
		return c.unifyBranches(thenT, elseT)
	case *ast.MatchExpr:
		return c.checkMatchExpr(e, sc)
	case *ast.StringInterp:
		for _, part := range e.Parts {
			if part.IsExpr {
				c.checkExpr(part.Expr, sc)
			}
		}
		return types.StringType
	case *ast.LambdaExpr:
		return c.checkLambda(e, sc)
	case *ast.TryExpr:
		return c.checkTry(e, sc)
	case *ast.SomeExpr:
		var inner *types.Type = types.Invalid_
		if e.Value != nil {
			inner = c.checkExpr(e.Value, sc)
		}
		return types.NewOption(inner)
	case *ast.NoneExpr:
		return types.NewOption(types.Invalid_)
	case *ast.OkExpr:
		var inner *types.Type = types.Invalid_
		if e.Value != nil {
			inner = c.checkExpr(e.Value, sc)
		}
		return types.NewResult(inner, types.Invalid_)
	case *ast.ErrExpr:
		var errT *types.Type = types.Invalid_
		if e.Value != nil {
			errT = c.checkExpr(e.Value, sc)
		}
		return types.NewResult(types.Invalid_, errT)
	case *ast.PipelineExpr:
		return c.checkPipeline(e, sc)
	case *ast.AwaitExpr:
		operandType := c.checkExpr(e.Operand, sc)
		if operandType.Kind == types.Result {
			return operandType.Elem
		}
		return operandType
	case *ast.OptionalTypeExpr, *ast.UnionTypeExpr:
		// Reached only if a type expression is mistakenly evaluated as a
		// value; the parser only produces these in type position.
		return types.Invalid_
	default:
		c.addError("checker: unhandled expression %T", expr)
		return types.Invalid_
	}
}

func (c *Checker) checkUnary(e *ast.UnaryExpr, sc *scope) *types.Type {
	operand := c.checkExpr(e.Operand, sc)
	switch e.Operator {
	case "not":
		if operand.Kind != types.Bool && operand.Kind != types.Invalid {
			c.addError("operator 'not' requires bool, got %s", operand)
		}
		return types.BoolType
	case "-":
		if !types.IsNumeric(operand) && operand.Kind != types.Invalid {
			c.addError("unary '-' requires a numeric operand, got %s", operand)
		}
		return operand
	case "&":
		return operand
	}
	return types.Invalid_
}

func (c *Checker) checkBinary(e *ast.BinaryExpr, sc *scope) *types.Type {
	left := c.checkExpr(e.Left, sc)
	right := c.checkExpr(e.Right, sc)
	switch e.Operator {
	case "+", "-", "*", "/", "%":
		if e.Operator == "+" && left.Kind == types.StringT && right.Kind == types.StringT {
			return types.StringType
		}
		if types.IsNumeric(left) && types.IsNumeric(right) {
			if left.Kind == types.Float || right.Kind == types.Float {
				return types.FloatType
			}
			return types.IntType
		}
		if left.Kind != types.Invalid && right.Kind != types.Invalid {
			c.addError("operator %q requires matching numeric (or string, for '+') operands, got %s and %s", e.Operator, left, right)
		}
		return types.Invalid_
	case "==", "!=", "<", ">", "<=", ">=":
		if left.Kind != types.Invalid && right.Kind != types.Invalid && !types.Equal(left, right) && !(types.IsNumeric(left) && types.IsNumeric(right)) {
			c.addError("cannot compare %s with %s", left, right)
		}
		return types.BoolType
	case "and", "or":
		if left.Kind != types.Bool && left.Kind != types.Invalid {
			c.addError("operator %q requires bool operands, got %s", e.Operator, left)
		}
		return types.BoolType
	case "&", "|", "^", "<<", ">>":
		if left.Kind != types.Int && left.Kind != types.Invalid {
			c.addError("bitwise operator %q requires int operands, got %s", e.Operator, left)
		}
		return types.IntType
	}
	return types.Invalid_
}

func (c *Checker) checkAssign(e *ast.AssignExpr, sc *scope) *types.Type {
	target := c.checkExpr(e.Target, sc)
	value := c.checkExpr(e.Value, sc)
	if id, ok := e.Target.(*ast.Identifier); ok {
		if sym, found := sc.lookup(id.Name); found && !sym.Mutable {
			c.addError("cannot assign to immutable binding %q", id.Name)
		}
	}
	if target.Kind != types.Invalid && value.Kind != types.Invalid && !types.Equal(target, value) && !(types.IsNumeric(target) && types.IsNumeric(value)) {
		c.addError("cannot assign %s to target of type %s", value, target)
	}
	return target
}

func (c *Checker) checkArrayLiteral(e *ast.ArrayLiteral, sc *scope) *types.Type {
	if len(e.Elements) == 0 {
		return types.NewArray(types.Invalid_)
	}
	elem := c.checkExpr(e.Elements[0], sc)
	for _, el := range e.Elements[1:] {
		t := c.checkExpr(el, sc)
		if elem.Kind != types.Invalid && t.Kind != types.Invalid && !types.Equal(elem, t) {
			c.addError("array literal elements must share one type: %s vs %s", elem, t)
		}
	}
	return types.NewArray(elem)
}

func (c *Checker) checkMapLiteral(e *ast.MapLiteral, sc *scope) *types.Type {
	if len(e.Keys) == 0 {
		return types.NewMap(types.Invalid_, types.Invalid_)
	}
	keyT := c.checkExpr(e.Keys[0], sc)
	valT := c.checkExpr(e.Values[0], sc)
	for i := 1; i < len(e.Keys); i++ {
		c.checkExpr(e.Keys[i], sc)
		c.checkExpr(e.Values[i], sc)
	}
	return types.NewMap(keyT, valT)
}

func (c *Checker) checkIndex(e *ast.IndexExpr, sc *scope) *types.Type {
	containerT := c.checkExpr(e.Container, sc)
	c.checkExpr(e.Index, sc)
	var elemT *types.Type = types.Invalid_
	switch containerT.Kind {
	case types.Array:
		elemT = containerT.Elem
	case types.Map:
		elemT = containerT.Elem
	default:
		if containerT.Kind != types.Invalid {
			c.addError("cannot index into %s", containerT)
		}
	}
	if e.Value != nil {
		valT := c.checkExpr(e.Value, sc)
		if elemT.Kind != types.Invalid && valT.Kind != types.Invalid && !types.Equal(elemT, valT) {
			c.addError("cannot assign %s into container of element type %s", valT, elemT)
		}
	}
	return elemT
}

func (c *Checker) checkField(e *ast.FieldExpr, sc *scope) *types.Type {
	objT := c.checkExpr(e.Object, sc)
	fieldT, ok := objT.FieldType(e.Field)
	if !ok {
		if objT.Kind != types.Invalid {
			c.addError("type %s has no field %q", objT, e.Field)
		}
		fieldT = types.Invalid_
	}
	if e.Value != nil {
		valT := c.checkExpr(e.Value, sc)
		if fieldT.Kind != types.Invalid && valT.Kind != types.Invalid && !types.Equal(fieldT, valT) {
			c.addError("cannot assign %s to field %q of type %s", valT, e.Field, fieldT)
		}
	}
	return fieldT
}

func (c *Checker) checkStructInit(e *ast.StructInitExpr, sc *scope) *types.Type {
	st, ok := c.structs[e.TypeName]
	if !ok {
		c.addError("unknown struct type %q", e.TypeName)
		for _, f := range e.Fields {
			c.checkExpr(f.Value, sc)
		}
		return types.Invalid_
	}
	seen := make(map[string]bool, len(e.Fields))
	for _, f := range e.Fields {
		valT := c.checkExpr(f.Value, sc)
		declT, ok := st.FieldType(f.Name)
		if !ok {
			c.addError("struct %q has no field %q", e.TypeName, f.Name)
			continue
		}
		seen[f.Name] = true
		if declT.Kind != types.Invalid && valT.Kind != types.Invalid && !types.Equal(declT, valT) {
			c.addError("field %q of %s expects %s, got %s", f.Name, e.TypeName, declT, valT)
		}
	}
	for _, f := range st.Fields {
		if !seen[f.Name] {
			c.addError("struct literal for %q is missing field %q", e.TypeName, f.Name)
		}
	}
	return st
}

func (c *Checker) checkIfExpr(e *ast.IfExpr, sc *scope) *types.Type {
	c.checkCondition(e.Cond, sc)
	thenT := c.checkExpr(e.Then, sc)
	if e.Else == nil {
		return types.UnitType
	}
	elseT := c.checkExpr(e.Else, sc)
	return c.unifyBranches(thenT, elseT)
}

func (c *Checker) unifyBranches(a, b *types.Type) *types.Type {
	if a.Kind == types.Invalid {
		return b
	}
	if b.Kind == types.Invalid {
		return a
	}
	if !types.Equal(a, b) {
		c.addError("branches must produce the same type, got %s and %s", a, b)
	}
	return a
}

func (c *Checker) checkMatchExpr(e *ast.MatchExpr, sc *scope) *types.Type {
	scrutT := c.checkExpr(e.Scrutinee, sc)
	var result *types.Type = types.Invalid_
	for i, arm := range e.Arms {
		inner := newScope(sc)
		c.bindPattern(arm.Pattern, scrutT, false, inner)
		if arm.Guard != nil {
			c.checkCondition(arm.Guard, inner)
		}
		armT := c.checkExpr(arm.Result, inner)
		if i == 0 {
			result = armT
		} else {
			result = c.unifyBranches(result, armT)
		}
	}
	return result
}

func (c *Checker) checkLambda(e *ast.LambdaExpr, sc *scope) *types.Type {
	inner := newScope(sc)
	params := make([]*types.Type, len(e.Params))
	for i, name := range e.Params {
		params[i] = types.Invalid_ // lambda params are unannotated; inferred loosely
		inner.define(&Symbol{Name: name, Type: params[i]})
	}
	bodyT := c.checkExpr(e.Body, inner)

	captures := freeVariables(e, sc)
	lifted := c.closures.Lift(captures)
	e.Captures = lifted.Captures
	e.LiftedName = lifted.LiftedName

	return types.NewFunction(params, bodyT, types.Pure)
}

// freeVariables walks a lambda body collecting identifiers that resolve
// in an enclosing scope but are not one of the lambda's own parameters —
// the capture set the closure lifter (registry.Closures) needs to turn
// the lambda into a top-level function (spec.md §4.4).
func freeVariables(lam *ast.LambdaExpr, enclosing *scope) []string {
	bound := make(map[string]bool, len(lam.Params))
	for _, p := range lam.Params {
		bound[p] = true
	}
	var out []string
	seen := make(map[string]bool)
	var walk func(ast.Expression)
	walk = func(expr ast.Expression) {
		if expr == nil {
			return
		}
		switch e := expr.(type) {
		case *ast.Identifier:
			if !bound[e.Name] && !seen[e.Name] {
				if _, ok := enclosing.lookup(e.Name); ok {
					seen[e.Name] = true
					out = append(out, e.Name)
				}
			}
		case *ast.BinaryExpr:
			walk(e.Left)
			walk(e.Right)
		case *ast.UnaryExpr:
			walk(e.Operand)
		case *ast.CallExpr:
			walk(e.Callee)
			for _, a := range e.Args {
				walk(a)
			}
		case *ast.MethodCallExpr:
			walk(e.Receiver)
			for _, a := range e.Args {
				walk(a)
			}
		case *ast.IndexExpr:
			walk(e.Container)
			walk(e.Index)
			walk(e.Value)
		case *ast.FieldExpr:
			walk(e.Object)
			walk(e.Value)
		case *ast.IfExpr:
			walk(e.Cond)
			walk(e.Then)
			walk(e.Else)
		case *ast.TupleExpr:
			for _, el := range e.Elements {
				walk(el)
			}
		case *ast.ArrayLiteral:
			for _, el := range e.Elements {
				walk(el)
			}
		}
	}
	walk(lam.Body)
	return out
}

func (c *Checker) checkTry(e *ast.TryExpr, sc *scope) *types.Type {
	operandT := c.checkExpr(e.Operand, sc)
	if operandT.Kind == types.Result {
		return operandT.Elem
	}
	if operandT.Kind == types.Option {
		return operandT.Elem
	}
	if operandT.Kind != types.Invalid {
		c.addError("'?' requires a Result or Option operand, got %s", operandT)
	}
	return types.Invalid_
}

func (c *Checker) checkPipeline(e *ast.PipelineExpr, sc *scope) *types.Type {
	var last *types.Type = types.Invalid_
	for _, stage := range e.Stages {
		last = c.checkExpr(stage, sc)
	}
	return last
}

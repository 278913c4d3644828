package codegen

import "github.com/codeassociates/wyncc/types"

// cType renders the C spelling of a semantic type per spec.md §4.4's
// let-binding/function-signature priority rules: numeric integer -> int,
// float -> double, boolean -> bool, string -> const char*,
// array/map -> the runtime's heterogeneous container pointers, struct ->
// its generated typedef, option/result -> the runtime's tagged pointers,
// function/lambda -> the runtime's WynClosure pointer.
func cType(t *types.Type) string {
	if t == nil {
		return "void"
	}
	switch t.Kind {
	case types.Int:
		return "int"
	case types.Float:
		return "double"
	case types.Bool:
		return "bool"
	case types.StringT:
		return "const char*"
	case types.Unit:
		return "void"
	case types.Array:
		return "WynArray*"
	case types.Map:
		return "WynMap*"
	case types.Option:
		return "WynOptional*"
	case types.Result:
		return "WynResult*"
	case types.Tuple:
		return "WynTuple*"
	case types.Struct:
		return cStructName(t.Name) + "*"
	case types.Enum:
		return cStructName(t.Name)
	case types.Function:
		return "WynClosure*"
	case types.Trait:
		// Traits are a compile-time bound only (spec.md §4.4 lists no
		// trait-object runtime representation); a trait-typed value can
		// only appear as a generic bound, never instantiated directly.
		return "void*"
	default:
		return "void*"
	}
}

// applySubst substitutes every Generic leaf in t using subst, mirroring
// checker.substitute so a generic function template's body can be
// re-rendered once per monomorphized instantiation without importing the
// checker package (subst tables here are keyed the same way: by the
// template's declared type-parameter name).
func applySubst(t *types.Type, subst map[string]*types.Type) *types.Type {
	if t == nil || subst == nil {
		return t
	}
	switch t.Kind {
	case types.Generic:
		if bound, ok := subst[t.GenericName]; ok {
			return bound
		}
		return t
	case types.Array:
		return types.NewArray(applySubst(t.Elem, subst))
	case types.Option:
		return types.NewOption(applySubst(t.Elem, subst))
	case types.Map:
		return types.NewMap(applySubst(t.Key, subst), applySubst(t.Elem, subst))
	case types.Result:
		return types.NewResult(applySubst(t.Elem, subst), applySubst(t.ErrType, subst))
	case types.Tuple:
		elems := make([]*types.Type, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = applySubst(e, subst)
		}
		return types.NewTuple(elems)
	default:
		return t
	}
}

// Package types implements the semantic Type model of spec.md §3: a
// tagged node compared structurally except for Struct/Enum/Trait, which
// compare by name plus instantiation.
package types

import "strings"

// Kind is the tag discriminating a Type's variant.
type Kind int

const (
	Invalid Kind = iota
	Int
	Float
	Bool
	StringT
	Unit
	Array
	Map
	Tuple
	Option
	Result
	Function
	Struct
	Enum
	Trait
	Generic
	Union
)

// Effect classifies a Function type's calling convention.
type Effect int

const (
	Pure Effect = iota
	Async
)

// Type is an immutable, structurally-comparable (for primitives/compound
// kinds) or name-compared (for Struct/Enum/Trait) semantic type node.
type Type struct {
	Kind Kind

	// Array/Option/Result-ok element, or Map value.
	Elem *Type
	// Map key.
	Key *Type
	// Tuple elements.
	Elems []*Type
	// Result error type.
	ErrType *Type

	// Function
	Params []*Type
	Return *Type
	Eff    Effect

	// Struct/Enum/Trait
	Name        string
	Fields      []Field      // Struct, ordered
	Variants    []string     // Enum
	TypeArgs    []*Type      // instantiation, e.g. Box<Int>
	TypeParams  []string     // declared generic parameters
	Union       []*Type      // Union members
	GenericName string       // Generic parameter name
}

// Field is one named, typed member of a Struct type.
type Field struct {
	Name string
	Type *Type
}

var (
	IntType    = &Type{Kind: Int}
	FloatType  = &Type{Kind: Float}
	BoolType   = &Type{Kind: Bool}
	StringType = &Type{Kind: StringT}
	UnitType   = &Type{Kind: Unit}
	Invalid_   = &Type{Kind: Invalid} // placeholder type for post-error expressions
)

func NewArray(elem *Type) *Type { return &Type{Kind: Array, Elem: elem} }
func NewMap(key, val *Type) *Type { return &Type{Kind: Map, Key: key, Elem: val} }
func NewTuple(elems []*Type) *Type { return &Type{Kind: Tuple, Elems: elems} }
func NewOption(elem *Type) *Type { return &Type{Kind: Option, Elem: elem} }
func NewResult(ok, err *Type) *Type { return &Type{Kind: Result, Elem: ok, ErrType: err} }
func NewFunction(params []*Type, ret *Type, eff Effect) *Type {
	return &Type{Kind: Function, Params: params, Return: ret, Eff: eff}
}
func NewGeneric(name string) *Type { return &Type{Kind: Generic, GenericName: name} }
func NewUnion(members []*Type) *Type { return &Type{Kind: Union, Union: members} }

// IsConcrete reports whether t contains no unresolved generic parameter —
// the condition spec.md §3 requires of every generic call's argument
// types at the point an instantiation is registered.
func IsConcrete(t *Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case Generic:
		return false
	case Array, Option:
		return IsConcrete(t.Elem)
	case Map:
		return IsConcrete(t.Key) && IsConcrete(t.Elem)
	case Result:
		return IsConcrete(t.Elem) && IsConcrete(t.ErrType)
	case Tuple:
		for _, e := range t.Elems {
			if !IsConcrete(e) {
				return false
			}
		}
		return true
	case Function:
		for _, p := range t.Params {
			if !IsConcrete(p) {
				return false
			}
		}
		return IsConcrete(t.Return)
	case Struct:
		for _, a := range t.TypeArgs {
			if !IsConcrete(a) {
				return false
			}
		}
		return true
	case Union:
		for _, m := range t.Union {
			if !IsConcrete(m) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Equal compares two types structurally, except Struct/Enum/Trait which
// compare by name and instantiation (spec.md §3).
func Equal(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Int, Float, Bool, StringT, Unit, Invalid:
		return true
	case Array, Option:
		return Equal(a.Elem, b.Elem)
	case Map:
		return Equal(a.Key, b.Key) && Equal(a.Elem, b.Elem)
	case Result:
		return Equal(a.Elem, b.Elem) && Equal(a.ErrType, b.ErrType)
	case Tuple:
		if len(a.Elems) != len(b.Elems) {
			return false
		}
		for i := range a.Elems {
			if !Equal(a.Elems[i], b.Elems[i]) {
				return false
			}
		}
		return true
	case Function:
		if len(a.Params) != len(b.Params) || a.Eff != b.Eff {
			return false
		}
		for i := range a.Params {
			if !Equal(a.Params[i], b.Params[i]) {
				return false
			}
		}
		return Equal(a.Return, b.Return)
	case Struct, Enum, Trait:
		if a.Name != b.Name || len(a.TypeArgs) != len(b.TypeArgs) {
			return false
		}
		for i := range a.TypeArgs {
			if !Equal(a.TypeArgs[i], b.TypeArgs[i]) {
				return false
			}
		}
		return true
	case Generic:
		return a.GenericName == b.GenericName
	case Union:
		if len(a.Union) != len(b.Union) {
			return false
		}
		for i := range a.Union {
			if !Equal(a.Union[i], b.Union[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// IsNumeric reports whether t is Int or Float.
func IsNumeric(t *Type) bool {
	return t != nil && (t.Kind == Int || t.Kind == Float)
}

// ContainsInvalid reports whether t has an Invalid placeholder anywhere
// in its structure — e.g. the unknown half of a bare `Ok(1)`/`Err(e)`
// whose sibling type can't be inferred without a context type. Callers
// use this to skip a mismatch diagnostic that would otherwise fire on
// legitimately partial inference rather than a real type error.
func ContainsInvalid(t *Type) bool {
	if t == nil {
		return true
	}
	switch t.Kind {
	case Invalid:
		return true
	case Array, Option:
		return ContainsInvalid(t.Elem)
	case Map:
		return ContainsInvalid(t.Key) || ContainsInvalid(t.Elem)
	case Result:
		return ContainsInvalid(t.Elem) || ContainsInvalid(t.ErrType)
	case Tuple:
		for _, e := range t.Elems {
			if ContainsInvalid(e) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case StringT:
		return "string"
	case Unit:
		return "()"
	case Invalid:
		return "<invalid>"
	case Array:
		return "[" + t.Elem.String() + "]"
	case Map:
		return "Map<" + t.Key.String() + ", " + t.Elem.String() + ">"
	case Tuple:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = e.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case Option:
		return t.Elem.String() + "?"
	case Result:
		return "Result<" + t.Elem.String() + ", " + t.ErrType.String() + ">"
	case Function:
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			parts[i] = p.String()
		}
		prefix := ""
		if t.Eff == Async {
			prefix = "async "
		}
		return prefix + "fn(" + strings.Join(parts, ", ") + ") -> " + t.Return.String()
	case Struct, Enum, Trait:
		if len(t.TypeArgs) == 0 {
			return t.Name
		}
		parts := make([]string, len(t.TypeArgs))
		for i, a := range t.TypeArgs {
			parts[i] = a.String()
		}
		return t.Name + "<" + strings.Join(parts, ", ") + ">"
	case Generic:
		return t.GenericName
	case Union:
		parts := make([]string, len(t.Union))
		for i, m := range t.Union {
			parts[i] = m.String()
		}
		return strings.Join(parts, " | ")
	}
	return "?"
}

// FieldType looks up a struct field's type by name.
func (t *Type) FieldType(name string) (*Type, bool) {
	if t == nil || t.Kind != Struct {
		return nil, false
	}
	for _, f := range t.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return nil, false
}

// MangledName derives a deterministic, collision-resistant C identifier
// suffix for a generic instantiation key (spec.md §4.4 "Generic
// monomorphization pass").
func MangledName(funcName string, args []*Type) string {
	var b strings.Builder
	b.WriteString(funcName)
	for _, a := range args {
		b.WriteByte('_')
		b.WriteString(mangleOne(a))
	}
	return b.String()
}

func mangleOne(t *Type) string {
	if t == nil {
		return "x"
	}
	switch t.Kind {
	case Int:
		return "i"
	case Float:
		return "f"
	case Bool:
		return "b"
	case StringT:
		return "s"
	case Array:
		return "a" + mangleOne(t.Elem)
	case Option:
		return "o" + mangleOne(t.Elem)
	case Result:
		return "r" + mangleOne(t.Elem) + mangleOne(t.ErrType)
	case Struct, Enum:
		name := strings.ReplaceAll(t.Name, "::", "_")
		if len(t.TypeArgs) == 0 {
			return name
		}
		for _, a := range t.TypeArgs {
			name += "_" + mangleOne(a)
		}
		return name
	default:
		return "t"
	}
}

// Package registry holds the two process-scoped, explicit-state
// structures spec.md §9's "Global mutable state" redesign note calls
// for in place of the teacher's (and the original implementation's)
// package-global instantiation tables: a generic-monomorphization
// registry and a closure-lifting registry. Both are plain structs
// threaded explicitly through checker.Checker and codegen.Generator —
// never package-level vars.
package registry

import (
	"sort"

	"github.com/codeassociates/wyncc/types"
)

// Instantiation is one concrete monomorphization of a generic function:
// the mangled C identifier the emitter should define/call, and the
// concrete argument types it was instantiated for.
type Instantiation struct {
	FuncName    string
	ArgTypes    []*types.Type
	MangledName string
}

// Generics accumulates generic-function instantiations discovered while
// checking calls. Keyed by mangled name so the same (func, arg types)
// pair is only ever lowered once, mirroring spec.md §4.4's monomorphization
// pass.
type Generics struct {
	byKey map[string]*Instantiation
	order []string
}

func NewGenerics() *Generics {
	return &Generics{byKey: make(map[string]*Instantiation)}
}

// Instantiate records funcName called with argTypes (all of which must be
// concrete per types.IsConcrete) and returns the mangled name to use at
// every call site and for the single emitted definition. Idempotent: a
// second call with the same key returns the same mangled name.
func (g *Generics) Instantiate(funcName string, argTypes []*types.Type) string {
	mangled := types.MangledName(funcName, argTypes)
	if _, ok := g.byKey[mangled]; !ok {
		g.byKey[mangled] = &Instantiation{FuncName: funcName, ArgTypes: argTypes, MangledName: mangled}
		g.order = append(g.order, mangled)
	}
	return mangled
}

// All returns every recorded instantiation in first-seen order, so the
// emitter produces deterministic output across runs on the same input.
func (g *Generics) All() []*Instantiation {
	out := make([]*Instantiation, 0, len(g.order))
	for _, k := range g.order {
		out = append(out, g.byKey[k])
	}
	return out
}

// Len reports how many distinct instantiations have been recorded.
func (g *Generics) Len() int { return len(g.order) }

// Closure is one lambda lifted to a top-level function: its generated
// name and the ordered list of free variables it captures, which become
// the lifted function's leading parameters (spec.md §4.4 "closure
// lifting").
type Closure struct {
	LiftedName string
	Captures   []string
}

// Closures assigns deterministic lifted names to lambdas in declaration
// order and records each one's capture list.
type Closures struct {
	prefix  string
	counter int
	entries []*Closure
}

func NewClosures(prefix string) *Closures {
	if prefix == "" {
		prefix = "wyn_lambda"
	}
	return &Closures{prefix: prefix}
}

// Lift assigns the next lifted name to a lambda capturing the given free
// variables (sorted, duplicates removed) and records it.
func (c *Closures) Lift(captures []string) *Closure {
	name := uniqueSorted(captures)
	entry := &Closure{LiftedName: c.nextName(), Captures: name}
	c.entries = append(c.entries, entry)
	return entry
}

func (c *Closures) nextName() string {
	c.counter++
	return c.prefix + "_" + itoa(c.counter)
}

// All returns every lifted closure in assignment order.
func (c *Closures) All() []*Closure { return c.entries }

func uniqueSorted(names []string) []string {
	seen := make(map[string]bool, len(names))
	var out []string
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	neg := n < 0
	if neg {
		n = -n
	}
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

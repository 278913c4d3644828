package codegen

import "strings"

// cReserved is the set of C keywords (plus a few libc macro names) that
// collide with identifiers Wyn otherwise allows unqualified.
var cReserved = map[string]bool{
	"auto": true, "break": true, "case": true, "char": true, "const": true,
	"continue": true, "default": true, "do": true, "double": true, "else": true,
	"enum": true, "extern": true, "float": true, "for": true, "goto": true,
	"if": true, "int": true, "long": true, "register": true, "return": true,
	"short": true, "signed": true, "sizeof": true, "static": true,
	"struct": true, "switch": true, "typedef": true, "union": true,
	"unsigned": true, "void": true, "volatile": true, "while": true,
	"main": true, "NULL": true, "bool": true, "true": true, "false": true,
}

// cIdent maps a Wyn identifier (which may carry a `mod::name` qualifier)
// to a legal, collision-free C identifier, the same idea as the teacher's
// goIdent — dots become underscores there, `::` becomes underscore here.
func cIdent(name string) string {
	name = strings.ReplaceAll(name, "::", "_")
	name = strings.ReplaceAll(name, ".", "_")
	if cReserved[name] {
		return "wyn_" + name
	}
	if name == "" {
		return "_"
	}
	if name[0] >= '0' && name[0] <= '9' {
		return "_" + name
	}
	return name
}

// cStructName returns the C typedef name for a user struct declaration.
func cStructName(name string) string { return "Wyn_" + cIdent(name) }

// cMethodName mangles an extension-method receiver/method pair the way
// spec.md §4.4 describes: "Type.method becomes Type_method(self, ...)".
func cMethodName(receiver, method string) string {
	return cStructName(receiver) + "_" + cIdent(method)
}

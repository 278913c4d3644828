// Package llvmgen is an experimental LLVM IR backend (spec.md §7,
// grounded on original_source/src/llvm_backend.c's doc comment). Neither
// cmd/wyncc nor driver calls it, and no command-line flag selects it.
// It covers a subset
// of codegen's C emitter: integer arithmetic and comparisons, string
// literals as global constants, string interpolation lowered to a
// stack-buffer snprintf+strdup sequence, function definitions with
// entry-block allocas, if/while/for control flow with terminator
// tracking, string-method calls mangled the same way codegen does
// (`string_<method>`), and spawn statements lowered to a call into the
// runtime's spawn entry point.
//
// The package shape — a context/builder/module lifecycle plus a single
// RWMutex-guarded global symbol table — is grounded on the retrieval
// pack's hhramberg-go-vslc LLVM transform, the only pack source that
// uses tinygo.org/x/go-llvm.
package llvmgen

import (
	"fmt"
	"sync"

	"tinygo.org/x/go-llvm"

	"github.com/codeassociates/wyncc/ast"
)

// symTab is one lexical scope's name-to-alloca map, guarded for the same
// reason the pack's vslc backend guards its global table: a future
// parallel codegen pass must not race on it.
type symTab struct {
	mu sync.RWMutex
	m  map[string]llvm.Value
}

func newSymTab() *symTab { return &symTab{m: map[string]llvm.Value{}} }

func (s *symTab) get(name string) (llvm.Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[name]
	return v, ok
}

func (s *symTab) set(name string, v llvm.Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[name] = v
}

// Generator lowers a checked ast.Program to an in-memory LLVM module.
type Generator struct {
	ctx      llvm.Context
	builder  llvm.Builder
	mod      llvm.Module
	globals  *symTab
	strCount int
}

// New creates a Generator that emits into a fresh module named
// moduleName.
func New(moduleName string) *Generator {
	ctx := llvm.NewContext()
	return &Generator{
		ctx:     ctx,
		builder: ctx.NewBuilder(),
		mod:     ctx.NewModule(moduleName),
		globals: newSymTab(),
	}
}

// Dispose releases the underlying LLVM context, builder, and module.
func (g *Generator) Dispose() {
	g.builder.Dispose()
	g.mod.Dispose()
	g.ctx.Dispose()
}

// Module exposes the generated module, e.g. for Generator.Module().String()
// or a target-machine EmitToMemoryBuffer call in the caller.
func (g *Generator) Module() llvm.Module { return g.mod }

// intType, boolType and strPtrType are the only types this subset's AST
// surface produces; float support mirrors intType's shape and is added
// once spec.md's float arithmetic lowering is in scope.
func (g *Generator) intType() llvm.Type { return g.ctx.Int64Type() }

func (g *Generator) boolType() llvm.Type { return g.ctx.Int1Type() }

func (g *Generator) strPtrType() llvm.Type {
	return llvm.PointerType(g.ctx.Int8Type(), 0)
}

// scope is a stack of lexical symTabs, innermost last.
type scope struct {
	tabs []*symTab
}

func (s *scope) push()     { s.tabs = append(s.tabs, newSymTab()) }
func (s *scope) pop()      { s.tabs = s.tabs[:len(s.tabs)-1] }
func (s *scope) declare(name string, v llvm.Value) {
	s.tabs[len(s.tabs)-1].set(name, v)
}
func (s *scope) lookup(name string) (llvm.Value, bool) {
	for i := len(s.tabs) - 1; i >= 0; i-- {
		if v, ok := s.tabs[i].get(name); ok {
			return v, true
		}
	}
	return llvm.Value{}, false
}

// Generate lowers every function declaration in prog to LLVM IR. It
// returns an error on the first construct outside this subset's
// coverage, rather than attempting a silent partial translation.
func (g *Generator) Generate(prog *ast.Program) error {
	for _, stmt := range prog.Statements {
		fn, ok := stmt.(*ast.FuncDecl)
		if !ok {
			continue // globals/other decls: outside this subset, codegen's C path remains authoritative.
		}
		if err := g.genFuncDecl(fn); err != nil {
			return fmt.Errorf("function %q: %w", fn.Name, err)
		}
	}
	return nil
}

func (g *Generator) genFuncDecl(fn *ast.FuncDecl) error {
	paramTypes := make([]llvm.Type, len(fn.Params))
	for i := range fn.Params {
		paramTypes[i] = g.intType() // this subset treats every parameter as an integer.
	}
	retType := g.intType()
	ftyp := llvm.FunctionType(retType, paramTypes, false)
	llvmFn := llvm.AddFunction(g.mod, fn.Name, ftyp)

	entry := llvm.AddBasicBlock(llvmFn, "entry")
	g.builder.SetInsertPointAtEnd(entry)

	sc := &scope{}
	sc.push()
	for i, p := range fn.Params {
		alloca := g.builder.CreateAlloca(g.intType(), p.Name)
		g.builder.CreateStore(llvmFn.Param(i), alloca)
		sc.declare(p.Name, alloca)
	}

	terminated, err := g.genBlock(llvmFn, fn.Body, sc)
	if err != nil {
		return err
	}
	if !terminated {
		g.builder.CreateRet(llvm.ConstInt(g.intType(), 0, false))
	}
	sc.pop()
	return nil
}

// genBlock lowers every statement in block and reports whether the
// block ended with a terminator (return), matching the pack backend's
// bool-returning gen() so callers know whether to add a fallthrough
// branch.
func (g *Generator) genBlock(fn llvm.Value, block *ast.BlockStmt, sc *scope) (bool, error) {
	sc.push()
	defer sc.pop()
	for _, stmt := range block.Statements {
		terminated, err := g.genStmt(fn, stmt, sc)
		if err != nil {
			return false, err
		}
		if terminated {
			return true, nil
		}
	}
	return false, nil
}

func (g *Generator) genStmt(fn llvm.Value, stmt ast.Statement, sc *scope) (bool, error) {
	switch n := stmt.(type) {
	case *ast.LetStmt:
		return false, g.genLet(n, sc)
	case *ast.ReturnStmt:
		return true, g.genReturn(n, sc)
	case *ast.ExprStmt:
		_, err := g.genExpr(fn, n.Expr, sc)
		return false, err
	case *ast.IfStmt:
		return g.genIf(fn, n, sc)
	case *ast.WhileStmt:
		return false, g.genWhile(fn, n, sc)
	case *ast.ForStmt:
		return false, g.genFor(fn, n, sc)
	case *ast.SpawnStmt:
		return false, g.genSpawn(fn, n, sc)
	default:
		return false, fmt.Errorf("unsupported statement %T in llvm subset", stmt)
	}
}

func (g *Generator) genLet(n *ast.LetStmt, sc *scope) error {
	if n.Pattern.Kind != ast.PatIdent {
		return fmt.Errorf("unsupported let pattern in llvm subset")
	}
	alloca := g.builder.CreateAlloca(g.intType(), n.Pattern.Name)
	if n.Value != nil {
		val, err := g.genExpr(llvm.Value{}, n.Value, sc)
		if err != nil {
			return err
		}
		g.builder.CreateStore(val, alloca)
	}
	sc.declare(n.Pattern.Name, alloca)
	return nil
}

func (g *Generator) genReturn(n *ast.ReturnStmt, sc *scope) error {
	if n.Value == nil {
		g.builder.CreateRet(llvm.ConstInt(g.intType(), 0, false))
		return nil
	}
	val, err := g.genExpr(llvm.Value{}, n.Value, sc)
	if err != nil {
		return err
	}
	g.builder.CreateRet(val)
	return nil
}

// genIf lowers if/else with the same then/else/converge basic-block
// shape the pack backend's genIf uses, tracking per-branch termination
// so a converge block is only added when at least one branch falls
// through.
func (g *Generator) genIf(fn llvm.Value, n *ast.IfStmt, sc *scope) (bool, error) {
	cond, err := g.genExpr(fn, n.Cond, sc)
	if err != nil {
		return false, err
	}

	thenBB := llvm.AddBasicBlock(fn, "if.then")
	var elseBB, convBB llvm.BasicBlock
	hasElse := n.Else != nil
	if hasElse {
		elseBB = llvm.AddBasicBlock(fn, "if.else")
		g.builder.CreateCondBr(cond, thenBB, elseBB)
	} else {
		convBB = llvm.AddBasicBlock(fn, "if.end")
		g.builder.CreateCondBr(cond, thenBB, convBB)
	}

	g.builder.SetInsertPointAtEnd(thenBB)
	thenTerm, err := g.genBlock(fn, n.Then, sc)
	if err != nil {
		return false, err
	}
	if !thenTerm {
		if convBB.IsNil() {
			convBB = llvm.AddBasicBlock(fn, "if.end")
		}
		g.builder.CreateBr(convBB)
	}

	elseTerm := true
	if hasElse {
		g.builder.SetInsertPointAtEnd(elseBB)
		switch e := n.Else.(type) {
		case *ast.BlockStmt:
			elseTerm, err = g.genBlock(fn, e, sc)
		case *ast.IfStmt:
			elseTerm, err = g.genIf(fn, e, sc)
		default:
			return false, fmt.Errorf("unsupported else clause %T", n.Else)
		}
		if err != nil {
			return false, err
		}
		if !elseTerm {
			if convBB.IsNil() {
				convBB = llvm.AddBasicBlock(fn, "if.end")
			}
			g.builder.CreateBr(convBB)
		}
	}

	if convBB.IsNil() {
		return true, nil // both branches returned; no fallthrough path exists.
	}
	g.builder.SetInsertPointAtEnd(convBB)
	return false, nil
}

func (g *Generator) genWhile(fn llvm.Value, n *ast.WhileStmt, sc *scope) error {
	head := llvm.AddBasicBlock(fn, "while.head")
	body := llvm.AddBasicBlock(fn, "while.body")
	conv := llvm.AddBasicBlock(fn, "while.end")

	g.builder.CreateBr(head)
	g.builder.SetInsertPointAtEnd(head)
	cond, err := g.genExpr(fn, n.Cond, sc)
	if err != nil {
		return err
	}
	g.builder.CreateCondBr(cond, body, conv)

	g.builder.SetInsertPointAtEnd(body)
	terminated, err := g.genBlock(fn, n.Body, sc)
	if err != nil {
		return err
	}
	if !terminated {
		g.builder.CreateBr(head)
	}

	g.builder.SetInsertPointAtEnd(conv)
	return nil
}

// genFor lowers only the C-style form (init/cond/post); for-each
// requires array-runtime calls this subset does not cover.
func (g *Generator) genFor(fn llvm.Value, n *ast.ForStmt, sc *scope) error {
	if n.IsForEach {
		return fmt.Errorf("for-each loops are outside the llvm subset")
	}
	sc.push()
	defer sc.pop()

	if n.Init != nil {
		if _, err := g.genStmt(fn, n.Init, sc); err != nil {
			return err
		}
	}

	head := llvm.AddBasicBlock(fn, "for.head")
	body := llvm.AddBasicBlock(fn, "for.body")
	conv := llvm.AddBasicBlock(fn, "for.end")

	g.builder.CreateBr(head)
	g.builder.SetInsertPointAtEnd(head)
	if n.Cond != nil {
		cond, err := g.genExpr(fn, n.Cond, sc)
		if err != nil {
			return err
		}
		g.builder.CreateCondBr(cond, body, conv)
	} else {
		g.builder.CreateBr(body)
	}

	g.builder.SetInsertPointAtEnd(body)
	terminated, err := g.genBlock(fn, n.Body, sc)
	if err != nil {
		return err
	}
	if !terminated {
		if n.Post != nil {
			if _, err := g.genStmt(fn, n.Post, sc); err != nil {
				return err
			}
		}
		g.builder.CreateBr(head)
	}

	g.builder.SetInsertPointAtEnd(conv)
	return nil
}

// genSpawn lowers a spawn statement to a direct call into the runtime's
// fast-spawn entry point, the LLVM-level equivalent of codegen's
// generated C trampoline (spec.md §4.4's single-packed-int-argument
// spawn lowering).
func (g *Generator) genSpawn(fn llvm.Value, n *ast.SpawnStmt, sc *scope) error {
	call, ok := n.Call.(*ast.CallExpr)
	if !ok {
		return fmt.Errorf("spawn target must be a direct call in the llvm subset")
	}
	callee, ok := call.Callee.(*ast.Identifier)
	if !ok {
		return fmt.Errorf("spawn callee must be a named function in the llvm subset")
	}
	target := g.mod.NamedFunction(callee.Name)
	if target.IsNil() {
		return fmt.Errorf("spawn target %q not declared", callee.Name)
	}
	spawnFn := g.namedOrDeclareSpawnFast()
	args := make([]llvm.Value, len(call.Args))
	for i, a := range call.Args {
		v, err := g.genExpr(fn, a, sc)
		if err != nil {
			return err
		}
		args[i] = v
	}
	wrapper := g.emitSpawnWrapper(target, len(args))
	packed := g.packArgs(args)
	g.builder.CreateCall(spawnFn, []llvm.Value{wrapper, packed}, "")
	return nil
}

// namedOrDeclareSpawnFast declares the external wyn_spawn_fast entry
// point the runtime provides (prelude.go's extern declaration of the
// same symbol, mirrored here for the LLVM path).
func (g *Generator) namedOrDeclareSpawnFast() llvm.Value {
	if f := g.mod.NamedFunction("wyn_spawn_fast"); !f.IsNil() {
		return f
	}
	voidPtr := llvm.PointerType(g.ctx.Int8Type(), 0)
	fnPtrType := llvm.PointerType(llvm.FunctionType(voidPtr, []llvm.Type{voidPtr}, false), 0)
	ftyp := llvm.FunctionType(g.ctx.VoidType(), []llvm.Type{fnPtrType, voidPtr}, false)
	return llvm.AddFunction(g.mod, "wyn_spawn_fast", ftyp)
}

// emitSpawnWrapper emits a per-callee void*(void*) trampoline that
// unpacks the packed integer argument and calls target, the LLVM
// equivalent of codegen.emitSpawnWrapper's generated C function.
func (g *Generator) emitSpawnWrapper(target llvm.Value, argc int) llvm.Value {
	voidPtr := llvm.PointerType(g.ctx.Int8Type(), 0)
	ftyp := llvm.FunctionType(voidPtr, []llvm.Type{voidPtr}, false)
	name := fmt.Sprintf("wyn_llvm_spawn_wrapper_%s", target.Name())
	wrapper := llvm.AddFunction(g.mod, name, ftyp)

	savedBlock := g.builder.GetInsertBlock()
	entry := llvm.AddBasicBlock(wrapper, "entry")
	g.builder.SetInsertPointAtEnd(entry)

	arg := g.builder.CreatePtrToInt(wrapper.Param(0), g.intType(), "")
	args := make([]llvm.Value, argc)
	for i := range args {
		args[i] = arg // this subset packs a single integer, so every parameter reads the same unpacked value.
	}
	g.builder.CreateCall(target, args, "")
	g.builder.CreateRet(llvm.ConstNull(voidPtr))

	if !savedBlock.IsNil() {
		g.builder.SetInsertPointAtEnd(savedBlock)
	}
	return wrapper
}

// packArgs packs a single integer argument into a void* the same way
// codegen's C spawn lowering does ((void*)(long)(...)); multi-argument
// spawns are outside this subset, mirroring spec.md §4.4's own
// single-packed-int-argument limitation.
func (g *Generator) packArgs(args []llvm.Value) llvm.Value {
	voidPtr := llvm.PointerType(g.ctx.Int8Type(), 0)
	if len(args) == 0 {
		return llvm.ConstNull(voidPtr)
	}
	return g.builder.CreateIntToPtr(args[0], voidPtr, "")
}

func (g *Generator) genExpr(fn llvm.Value, expr ast.Expression, sc *scope) (llvm.Value, error) {
	switch n := expr.(type) {
	case *ast.IntegerLiteral:
		return llvm.ConstInt(g.intType(), uint64(n.Value), true), nil
	case *ast.BoolLiteral:
		v := uint64(0)
		if n.Value {
			v = 1
		}
		return llvm.ConstInt(g.boolType(), v, false), nil
	case *ast.StringLiteral:
		// Raw carries escapes unprocessed, the same lexeme codegen's C
		// emitter wraps in quotes and lets the host compiler unescape;
		// this subset does the same rather than duplicating a decoder.
		return g.genStringLiteral(n.Raw), nil
	case *ast.Identifier:
		alloca, ok := sc.lookup(n.Name)
		if !ok {
			return llvm.Value{}, fmt.Errorf("undeclared identifier %q", n.Name)
		}
		return g.builder.CreateLoad(alloca.Type().ElementType(), alloca, ""), nil
	case *ast.AssignExpr:
		return g.genAssign(fn, n, sc)
	case *ast.UnaryExpr:
		return g.genUnary(fn, n, sc)
	case *ast.BinaryExpr:
		return g.genBinary(fn, n, sc)
	case *ast.CallExpr:
		return g.genCall(fn, n, sc)
	case *ast.MethodCallExpr:
		return g.genMethodCall(fn, n, sc)
	case *ast.StringInterp:
		return g.genStringInterp(fn, n, sc)
	default:
		return llvm.Value{}, fmt.Errorf("unsupported expression %T in llvm subset", expr)
	}
}

func (g *Generator) genAssign(fn llvm.Value, n *ast.AssignExpr, sc *scope) (llvm.Value, error) {
	ident, ok := n.Target.(*ast.Identifier)
	if !ok {
		return llvm.Value{}, fmt.Errorf("unsupported assignment target %T in llvm subset", n.Target)
	}
	alloca, ok := sc.lookup(ident.Name)
	if !ok {
		return llvm.Value{}, fmt.Errorf("undeclared identifier %q", ident.Name)
	}
	val, err := g.genExpr(fn, n.Value, sc)
	if err != nil {
		return llvm.Value{}, err
	}
	g.builder.CreateStore(val, alloca)
	return val, nil
}

func (g *Generator) genUnary(fn llvm.Value, n *ast.UnaryExpr, sc *scope) (llvm.Value, error) {
	operand, err := g.genExpr(fn, n.Operand, sc)
	if err != nil {
		return llvm.Value{}, err
	}
	switch n.Operator {
	case "-":
		return g.builder.CreateSub(llvm.ConstInt(g.intType(), 0, true), operand, ""), nil
	case "!":
		return g.builder.CreateXor(llvm.ConstInt(g.boolType(), 1, false), operand, ""), nil
	default:
		return llvm.Value{}, fmt.Errorf("unsupported unary operator %q in llvm subset", n.Operator)
	}
}

// genBinary lowers integer arithmetic and comparison operators; every
// operand is assumed to be the subset's one scalar integer type.
func (g *Generator) genBinary(fn llvm.Value, n *ast.BinaryExpr, sc *scope) (llvm.Value, error) {
	lhs, err := g.genExpr(fn, n.Left, sc)
	if err != nil {
		return llvm.Value{}, err
	}
	rhs, err := g.genExpr(fn, n.Right, sc)
	if err != nil {
		return llvm.Value{}, err
	}
	switch n.Operator {
	case "+":
		return g.builder.CreateAdd(lhs, rhs, ""), nil
	case "-":
		return g.builder.CreateSub(lhs, rhs, ""), nil
	case "*":
		return g.builder.CreateMul(lhs, rhs, ""), nil
	case "/":
		return g.builder.CreateSDiv(lhs, rhs, ""), nil
	case "%":
		return g.builder.CreateSRem(lhs, rhs, ""), nil
	case "==":
		return g.builder.CreateICmp(llvm.IntEQ, lhs, rhs, ""), nil
	case "!=":
		return g.builder.CreateICmp(llvm.IntNE, lhs, rhs, ""), nil
	case "<":
		return g.builder.CreateICmp(llvm.IntSLT, lhs, rhs, ""), nil
	case "<=":
		return g.builder.CreateICmp(llvm.IntSLE, lhs, rhs, ""), nil
	case ">":
		return g.builder.CreateICmp(llvm.IntSGT, lhs, rhs, ""), nil
	case ">=":
		return g.builder.CreateICmp(llvm.IntSGE, lhs, rhs, ""), nil
	default:
		return llvm.Value{}, fmt.Errorf("unsupported binary operator %q in llvm subset", n.Operator)
	}
}

func (g *Generator) genCall(fn llvm.Value, n *ast.CallExpr, sc *scope) (llvm.Value, error) {
	ident, ok := n.Callee.(*ast.Identifier)
	if !ok {
		return llvm.Value{}, fmt.Errorf("unsupported call target %T in llvm subset", n.Callee)
	}
	target := g.mod.NamedFunction(ident.Name)
	if target.IsNil() {
		return llvm.Value{}, fmt.Errorf("undeclared function %q", ident.Name)
	}
	args := make([]llvm.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := g.genExpr(fn, a, sc)
		if err != nil {
			return llvm.Value{}, err
		}
		args[i] = v
	}
	return g.builder.CreateCall(target, args, ""), nil
}

// genMethodCall mangles receiver.method(...) to string_<method>(...),
// the same name codegen.emitMethodCall gives string-runtime calls.
func (g *Generator) genMethodCall(fn llvm.Value, n *ast.MethodCallExpr, sc *scope) (llvm.Value, error) {
	recv, err := g.genExpr(fn, n.Receiver, sc)
	if err != nil {
		return llvm.Value{}, err
	}
	mangled := fmt.Sprintf("string_%s", n.Method)
	target := g.mod.NamedFunction(mangled)
	if target.IsNil() {
		argTypes := make([]llvm.Type, len(n.Args)+1)
		argTypes[0] = g.strPtrType()
		for i := range n.Args {
			argTypes[i+1] = g.intType()
		}
		ftyp := llvm.FunctionType(g.strPtrType(), argTypes, false)
		target = llvm.AddFunction(g.mod, mangled, ftyp)
	}
	args := make([]llvm.Value, len(n.Args)+1)
	args[0] = recv
	for i, a := range n.Args {
		v, err := g.genExpr(fn, a, sc)
		if err != nil {
			return llvm.Value{}, err
		}
		args[i+1] = v
	}
	return g.builder.CreateCall(target, args, ""), nil
}

// genStringLiteral interns s as a global constant, appending a fresh
// suffix per literal the same way the pack backend's stringPrefix
// counter does for printf format strings.
func (g *Generator) genStringLiteral(s string) llvm.Value {
	g.strCount++
	name := fmt.Sprintf("wyn_str_%d", g.strCount)
	return g.builder.CreateGlobalStringPtr(s, name)
}

// genStringInterp lowers ${...} interpolation to a fixed-size stack
// buffer filled by snprintf and durably copied out with strdup, the
// same two-step the C runtime (string_runtime.c's wyn_string_concat_safe
// family) uses to avoid returning a pointer into a freed stack frame.
func (g *Generator) genStringInterp(fn llvm.Value, n *ast.StringInterp, sc *scope) (llvm.Value, error) {
	bufType := llvm.ArrayType(g.ctx.Int8Type(), 256)
	buf := g.builder.CreateAlloca(bufType, "interp.buf")
	bufPtr := g.builder.CreateGEP(bufType, buf, []llvm.Value{
		llvm.ConstInt(g.ctx.Int32Type(), 0, false),
		llvm.ConstInt(g.ctx.Int32Type(), 0, false),
	}, "")

	format := ""
	args := []llvm.Value{bufPtr}
	for _, part := range n.Parts {
		if !part.IsExpr {
			format += part.Literal
			continue
		}
		val, err := g.genExpr(fn, part.Expr, sc)
		if err != nil {
			return llvm.Value{}, err
		}
		if val.Type() == g.strPtrType() {
			format += "%s"
		} else {
			format += "%lld"
		}
		args = append(args, val)
	}
	fmtGlobal := g.genStringLiteral(format)
	snprintf := g.namedOrDeclareSnprintf()
	fullArgs := append([]llvm.Value{bufPtr, llvm.ConstInt(g.ctx.Int64Type(), 256, false), fmtGlobal}, args[1:]...)
	g.builder.CreateCall(snprintf, fullArgs, "")

	strdup := g.namedOrDeclareStrdup()
	return g.builder.CreateCall(strdup, []llvm.Value{bufPtr}, ""), nil
}

func (g *Generator) namedOrDeclareSnprintf() llvm.Value {
	if f := g.mod.NamedFunction("snprintf"); !f.IsNil() {
		return f
	}
	params := []llvm.Type{g.strPtrType(), g.ctx.Int64Type(), g.strPtrType()}
	ftyp := llvm.FunctionType(g.ctx.Int32Type(), params, true)
	return llvm.AddFunction(g.mod, "snprintf", ftyp)
}

func (g *Generator) namedOrDeclareStrdup() llvm.Value {
	if f := g.mod.NamedFunction("strdup"); !f.IsNil() {
		return f
	}
	ftyp := llvm.FunctionType(g.strPtrType(), []llvm.Type{g.strPtrType()}, false)
	return llvm.AddFunction(g.mod, "strdup", ftyp)
}

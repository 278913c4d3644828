// Package parser implements a Pratt (precedence-climbing) recursive
// descent parser that turns a token stream into an *ast.Program.
package parser

import (
	"fmt"
	"strconv"

	"github.com/codeassociates/wyncc/ast"
	"github.com/codeassociates/wyncc/lexer"
)

// precedence levels, lowest to highest.
const (
	_ int = iota
	LOWEST
	ASSIGNMENT  // = += -= *= /= %=  (right-assoc)
	PIPELINE    // |>
	LOGIC_OR    // or
	LOGIC_AND   // and
	EQUALITY    // == !=
	COMPARISON  // < > <= >=
	BITOR       // |
	BITXOR      // ^
	BITAND      // &
	SHIFT       // << >>
	RANGE       // .. ..=
	SUM         // + -
	PRODUCT     // * / %
	UNARY       // not - & (prefix)
	POSTFIX     // call() index[] .field ? await
)

var precedences = map[lexer.TokenType]int{
	lexer.ASSIGN:   ASSIGNMENT,
	lexer.PLUS_EQ:  ASSIGNMENT,
	lexer.MINUS_EQ: ASSIGNMENT,
	lexer.MUL_EQ:   ASSIGNMENT,
	lexer.DIV_EQ:   ASSIGNMENT,
	lexer.MOD_EQ:   ASSIGNMENT,
	lexer.PIPE_GT:  PIPELINE,
	lexer.OR:       LOGIC_OR,
	lexer.AND:      LOGIC_AND,
	lexer.EQ:       EQUALITY,
	lexer.NEQ:      EQUALITY,
	lexer.LT:       COMPARISON,
	lexer.GT:       COMPARISON,
	lexer.LE:       COMPARISON,
	lexer.GE:       COMPARISON,
	lexer.PIPE:     BITOR,
	lexer.CARET:    BITXOR,
	lexer.AMP:      BITAND,
	lexer.LSHIFT:   SHIFT,
	lexer.RSHIFT:   SHIFT,
	lexer.DOTDOT:   RANGE,
	lexer.DOTDOTEQ: RANGE,
	lexer.PLUS:     SUM,
	lexer.MINUS:    SUM,
	lexer.MULTIPLY: PRODUCT,
	lexer.DIVIDE:   PRODUCT,
	lexer.MODULO:   PRODUCT,
	lexer.LPAREN:   POSTFIX,
	lexer.LBRACKET: POSTFIX,
	lexer.DOT:      POSTFIX,
	lexer.QUESTION: POSTFIX,
}

// assignOps maps a compound-assignment token to the binary operator it
// desugars to (`x += 1` becomes `x = x + 1` at parse time).
var assignOps = map[lexer.TokenType]string{
	lexer.PLUS_EQ:  "+",
	lexer.MINUS_EQ: "-",
	lexer.MUL_EQ:   "*",
	lexer.DIV_EQ:   "/",
	lexer.MOD_EQ:   "%",
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Parser consumes a token stream and builds an *ast.Program. It never
// panics on malformed input; errors accumulate in Errors() and parsing
// continues from where the failure left off, without resynchronizing at
// a statement boundary.
type Parser struct {
	l *lexer.Lexer

	errors []string

	curToken  lexer.Token
	peekToken lexer.Token

	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixParseFns = map[lexer.TokenType]prefixParseFn{}
	p.infixParseFns = map[lexer.TokenType]infixParseFn{}

	p.registerPrefix(lexer.IDENT, p.parseIdentifier)
	p.registerPrefix(lexer.INT, p.parseIntegerLiteral)
	p.registerPrefix(lexer.FLOAT, p.parseFloatLiteral)
	p.registerPrefix(lexer.STRING, p.parseStringLiteral)
	p.registerPrefix(lexer.CHAR, p.parseCharLiteral)
	p.registerPrefix(lexer.TRUE, p.parseBoolLiteral)
	p.registerPrefix(lexer.FALSE, p.parseBoolLiteral)
	p.registerPrefix(lexer.NOT, p.parseUnaryExpr)
	p.registerPrefix(lexer.MINUS, p.parseUnaryExpr)
	p.registerPrefix(lexer.AMP, p.parseUnaryExpr)
	p.registerPrefix(lexer.LPAREN, p.parseGroupedOrTuple)
	p.registerPrefix(lexer.LBRACKET, p.parseArrayLiteral)
	p.registerPrefix(lexer.LBRACE, p.parseMapLiteral)
	p.registerPrefix(lexer.IF, p.parseIfExpr)
	p.registerPrefix(lexer.MATCH, p.parseMatchExpr)
	p.registerPrefix(lexer.PIPE, p.parseLambdaExpr)
	p.registerPrefix(lexer.AWAIT, p.parseAwaitExpr)
	p.registerPrefix(lexer.SPAWN, p.parseSpawnExpr)
	p.registerPrefix(lexer.SOME, p.parseSomeExpr)
	p.registerPrefix(lexer.NONE, p.parseNoneExpr)
	p.registerPrefix(lexer.OK, p.parseOkExpr)
	p.registerPrefix(lexer.ERR, p.parseErrExpr)

	p.registerInfix(lexer.PLUS, p.parseBinaryExpr)
	p.registerInfix(lexer.MINUS, p.parseBinaryExpr)
	p.registerInfix(lexer.MULTIPLY, p.parseBinaryExpr)
	p.registerInfix(lexer.DIVIDE, p.parseBinaryExpr)
	p.registerInfix(lexer.MODULO, p.parseBinaryExpr)
	p.registerInfix(lexer.EQ, p.parseBinaryExpr)
	p.registerInfix(lexer.NEQ, p.parseBinaryExpr)
	p.registerInfix(lexer.LT, p.parseBinaryExpr)
	p.registerInfix(lexer.GT, p.parseBinaryExpr)
	p.registerInfix(lexer.LE, p.parseBinaryExpr)
	p.registerInfix(lexer.GE, p.parseBinaryExpr)
	p.registerInfix(lexer.AND, p.parseBinaryExpr)
	p.registerInfix(lexer.OR, p.parseBinaryExpr)
	p.registerInfix(lexer.AMP, p.parseBinaryExpr)
	p.registerInfix(lexer.PIPE, p.parseBinaryExpr)
	p.registerInfix(lexer.CARET, p.parseBinaryExpr)
	p.registerInfix(lexer.LSHIFT, p.parseBinaryExpr)
	p.registerInfix(lexer.RSHIFT, p.parseBinaryExpr)
	p.registerInfix(lexer.DOTDOT, p.parseRangeExpr)
	p.registerInfix(lexer.DOTDOTEQ, p.parseRangeExpr)
	p.registerInfix(lexer.PIPE_GT, p.parsePipelineExpr)
	p.registerInfix(lexer.ASSIGN, p.parseAssignExpr)
	p.registerInfix(lexer.PLUS_EQ, p.parseAssignExpr)
	p.registerInfix(lexer.MINUS_EQ, p.parseAssignExpr)
	p.registerInfix(lexer.MUL_EQ, p.parseAssignExpr)
	p.registerInfix(lexer.DIV_EQ, p.parseAssignExpr)
	p.registerInfix(lexer.MOD_EQ, p.parseAssignExpr)
	p.registerInfix(lexer.LPAREN, p.parseCallExpr)
	p.registerInfix(lexer.LBRACKET, p.parseIndexExpr)
	p.registerInfix(lexer.DOT, p.parseDotExpr)
	p.registerInfix(lexer.QUESTION, p.parseTryExpr)

	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) registerPrefix(tt lexer.TokenType, fn prefixParseFn) { p.prefixParseFns[tt] = fn }
func (p *Parser) registerInfix(tt lexer.TokenType, fn infixParseFn)   { p.infixParseFns[tt] = fn }

// Errors returns every parse error accumulated so far.
func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) addError(format string, args ...interface{}) {
	p.errors = append(p.errors, fmt.Sprintf("line %d: %s", p.curToken.Line, fmt.Sprintf(format, args...)))
}

// nextToken advances the lookahead, skipping NEWLINE tokens: Wyn is a
// brace/semicolon-delimited language, so line breaks carry no grammar
// weight and are filtered here rather than threaded through every rule.
func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.rawNext()
}

func (p *Parser) rawNext() lexer.Token {
	for {
		tok := p.l.NextToken()
		if tok.Type != lexer.NEWLINE {
			return tok
		}
	}
}

func (p *Parser) curTokenIs(tt lexer.TokenType) bool  { return p.curToken.Type == tt }
func (p *Parser) peekTokenIs(tt lexer.TokenType) bool { return p.peekToken.Type == tt }

func (p *Parser) expectPeek(tt lexer.TokenType) bool {
	if p.peekTokenIs(tt) {
		p.nextToken()
		return true
	}
	p.addError("expected next token to be %s, got %s (%q) instead", tt, p.peekToken.Type, p.peekToken.Literal)
	return false
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

// ParseProgram parses the whole token stream into a Program. A statement
// that fails to parse is kept as far as it was built (or left out when
// nothing was built) and parsing goes on at the next token, so a single
// mistake never aborts the whole file (spec.md §4.2).
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	for !p.curTokenIs(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.nextToken()
	}
	return program
}

// ---------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case lexer.LET:
		return p.parseLetStmt()
	case lexer.RETURN:
		return p.parseReturnStmt()
	case lexer.IF:
		return p.parseIfStmt()
	case lexer.WHILE:
		return p.parseWhileStmt()
	case lexer.FOR:
		return p.parseForStmt()
	case lexer.BREAK:
		return &ast.BreakStmt{StmtBase: ast.StmtBase{Tok: p.curToken}}
	case lexer.CONTINUE:
		return &ast.ContinueStmt{StmtBase: ast.StmtBase{Tok: p.curToken}}
	case lexer.FN:
		return p.parseFuncDecl(false, false)
	case lexer.ASYNC:
		return p.parseAsyncFuncDecl()
	case lexer.STRUCT:
		return p.parseStructDecl()
	case lexer.ENUM:
		return p.parseEnumDecl()
	case lexer.IMPL:
		return p.parseImplDecl()
	case lexer.TRAIT:
		return p.parseTraitDecl()
	case lexer.MODULE:
		return p.parseModuleDecl()
	case lexer.IMPORT:
		return p.parseImportStmt()
	case lexer.EXPORT:
		return p.parseExportStmt()
	case lexer.TYPE:
		return p.parseTypeAliasStmt()
	case lexer.TRY:
		return p.parseTryStmt()
	case lexer.THROW:
		return p.parseThrowStmt()
	case lexer.MATCH:
		return p.parseMatchStmt()
	case lexer.TEST:
		return p.parseTestDecl()
	case lexer.SPAWN:
		return p.parseSpawnStmt()
	case lexer.EXTERN:
		return p.parseExternDecl()
	case lexer.MACRO:
		return p.parseMacroDecl()
	case lexer.LBRACE:
		return p.parseBlockStmt()
	case lexer.SEMICOLON:
		return nil
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseExprStmt() ast.Statement {
	tok := p.curToken
	expr := p.parseExpression(LOWEST)
	stmt := &ast.ExprStmt{StmtBase: ast.StmtBase{Tok: tok}, Expr: expr}
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

// parseLetStmt parses `let [mut|const] pattern [: type] [= expr]`.
func (p *Parser) parseLetStmt() ast.Statement {
	stmt := &ast.LetStmt{StmtBase: ast.StmtBase{Tok: p.curToken}}

	if p.peekTokenIs(lexer.MUT) {
		p.nextToken()
		stmt.Mutable = true
	} else if p.peekTokenIs(lexer.CONST) {
		p.nextToken()
		stmt.Const = true
	}

	p.nextToken()
	stmt.Pattern = p.parsePattern()

	if p.peekTokenIs(lexer.COLON) {
		p.nextToken()
		p.nextToken()
		stmt.TypeAnnotation = p.parseTypeExpr()
	}

	if p.peekTokenIs(lexer.ASSIGN) {
		p.nextToken()
		p.nextToken()
		stmt.Value = p.parseExpression(LOWEST)
	}

	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseReturnStmt() ast.Statement {
	stmt := &ast.ReturnStmt{StmtBase: ast.StmtBase{Tok: p.curToken}}
	if p.peekTokenIs(lexer.SEMICOLON) || p.peekTokenIs(lexer.RBRACE) {
		return stmt
	}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseBlockStmt() *ast.BlockStmt {
	block := &ast.BlockStmt{StmtBase: ast.StmtBase{Tok: p.curToken}}
	if !p.curTokenIs(lexer.LBRACE) {
		p.addError("expected '{' to start a block, got %s", p.curToken.Type)
		return block
	}
	p.nextToken()
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}
	return block
}

func (p *Parser) parseIfStmt() ast.Statement {
	stmt := &ast.IfStmt{StmtBase: ast.StmtBase{Tok: p.curToken}}
	p.nextToken()
	stmt.Cond = p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.LBRACE) {
		return stmt
	}
	stmt.Then = p.parseBlockStmt()
	if p.peekTokenIs(lexer.ELSE) {
		p.nextToken()
		if p.peekTokenIs(lexer.IF) {
			p.nextToken()
			stmt.Else = p.parseIfStmt()
		} else if p.expectPeek(lexer.LBRACE) {
			stmt.Else = p.parseBlockStmt()
		}
	}
	return stmt
}

func (p *Parser) parseWhileStmt() ast.Statement {
	stmt := &ast.WhileStmt{StmtBase: ast.StmtBase{Tok: p.curToken}}
	p.nextToken()
	stmt.Cond = p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.LBRACE) {
		return stmt
	}
	stmt.Body = p.parseBlockStmt()
	return stmt
}

// parseForStmt handles both `for x in iterable { }` and the C-style
// `for init; cond; post { }` surface forms spec.md §3 groups as one
// Statement variant.
func (p *Parser) parseForStmt() ast.Statement {
	stmt := &ast.ForStmt{StmtBase: ast.StmtBase{Tok: p.curToken}}
	p.nextToken()

	if p.curTokenIs(lexer.IDENT) && p.peekTokenIs(lexer.IN) {
		stmt.IsForEach = true
		stmt.LoopVar = p.curToken.Literal
		p.nextToken() // consume ident
		p.nextToken() // consume 'in'
		stmt.Iterable = p.parseExpression(LOWEST)
		if !p.expectPeek(lexer.LBRACE) {
			return stmt
		}
		stmt.Body = p.parseBlockStmt()
		return stmt
	}

	stmt.Init = p.parseStatement()
	// parseStatement (via parseLetStmt/parseExprStmt) already swallows a
	// trailing ';' when present, so only demand one here if it didn't.
	if !p.curTokenIs(lexer.SEMICOLON) && !p.expectPeek(lexer.SEMICOLON) {
		return stmt
	}
	p.nextToken()
	stmt.Cond = p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.SEMICOLON) {
		return stmt
	}
	p.nextToken()
	stmt.Post = p.parseStatement()
	if !p.expectPeek(lexer.LBRACE) {
		return stmt
	}
	stmt.Body = p.parseBlockStmt()
	return stmt
}

func (p *Parser) parseParamList() []ast.Param {
	var params []ast.Param
	if p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
		return params
	}
	p.nextToken()
	for {
		param := ast.Param{}
		if p.curTokenIs(lexer.MUT) {
			param.Mutable = true
			p.nextToken()
		}
		param.Name = p.curToken.Literal
		if p.peekTokenIs(lexer.COLON) {
			p.nextToken()
			p.nextToken()
			param.Type = p.parseTypeExpr()
		}
		if p.peekTokenIs(lexer.ASSIGN) {
			p.nextToken()
			p.nextToken()
			param.Default = p.parseExpression(LOWEST)
		}
		params = append(params, param)
		if !p.peekTokenIs(lexer.COMMA) {
			break
		}
		p.nextToken()
		p.nextToken()
	}
	if !p.expectPeek(lexer.RPAREN) {
		return params
	}
	return params
}

func (p *Parser) parseTypeParams() []string {
	if !p.peekTokenIs(lexer.LT) {
		return nil
	}
	p.nextToken()
	p.nextToken()
	var names []string
	for {
		names = append(names, p.curToken.Literal)
		if !p.peekTokenIs(lexer.COMMA) {
			break
		}
		p.nextToken()
		p.nextToken()
	}
	if !p.expectPeek(lexer.GT) {
		return names
	}
	return names
}

func (p *Parser) parseFuncDecl(public, async bool) *ast.FuncDecl {
	decl := &ast.FuncDecl{StmtBase: ast.StmtBase{Tok: p.curToken}, Public: public, Async: async}
	if !p.expectPeek(lexer.IDENT) {
		return decl
	}
	decl.Name = p.curToken.Literal
	decl.TypeParams = p.parseTypeParams()
	if !p.expectPeek(lexer.LPAREN) {
		return decl
	}
	decl.Params = p.parseParamList()

	if decl.Name != "" && len(decl.Params) > 0 {
		// extension-method surface form: `fn (Receiver) method(...)` is not
		// used here; receiver-typed extensions are declared via `impl`.
	}

	if p.peekTokenIs(lexer.ARROW) {
		p.nextToken()
		p.nextToken()
		decl.ReturnType = p.parseTypeExpr()
	}
	if !p.expectPeek(lexer.LBRACE) {
		return decl
	}
	decl.Body = p.parseBlockStmt()
	return decl
}

func (p *Parser) parseAsyncFuncDecl() ast.Statement {
	p.nextToken() // consume 'async', land on 'fn'
	return p.parseFuncDecl(false, true)
}

func (p *Parser) parseStructDecl() ast.Statement {
	decl := &ast.StructDecl{StmtBase: ast.StmtBase{Tok: p.curToken}}
	if !p.expectPeek(lexer.IDENT) {
		return decl
	}
	decl.Name = p.curToken.Literal
	decl.TypeParams = p.parseTypeParams()
	if !p.expectPeek(lexer.LBRACE) {
		return decl
	}
	p.nextToken()
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		field := ast.StructField{}
		if p.curTokenIs(lexer.AMP) {
			field.ARC = true
			p.nextToken()
		}
		field.Name = p.curToken.Literal
		if p.expectPeek(lexer.COLON) {
			p.nextToken()
			field.Type = p.parseTypeExpr()
		}
		decl.Fields = append(decl.Fields, field)
		p.nextToken()
		if p.curTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}
	return decl
}

func (p *Parser) parseEnumDecl() ast.Statement {
	decl := &ast.EnumDecl{StmtBase: ast.StmtBase{Tok: p.curToken}}
	if !p.expectPeek(lexer.IDENT) {
		return decl
	}
	decl.Name = p.curToken.Literal
	if !p.expectPeek(lexer.LBRACE) {
		return decl
	}
	p.nextToken()
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		decl.Variants = append(decl.Variants, p.curToken.Literal)
		p.nextToken()
		if p.curTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}
	return decl
}

func (p *Parser) parseImplDecl() ast.Statement {
	decl := &ast.ImplDecl{StmtBase: ast.StmtBase{Tok: p.curToken}}
	if !p.expectPeek(lexer.IDENT) {
		return decl
	}
	decl.TypeName = p.curToken.Literal
	p.parseTypeParams()
	if p.peekTokenIs(lexer.FOR) {
		// `impl Trait for Type` surface form: re-read TypeName as the trait
		// name and the following ident as the concrete receiver type.
		p.nextToken()
		p.nextToken()
		decl.TypeName = p.curToken.Literal
	}
	if !p.expectPeek(lexer.LBRACE) {
		return decl
	}
	p.nextToken()
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		if p.curTokenIs(lexer.FN) {
			m := p.parseFuncDecl(true, false)
			m.IsExtension = true
			m.ReceiverType = decl.TypeName
			decl.Methods = append(decl.Methods, m)
		} else if p.curTokenIs(lexer.ASYNC) {
			p.nextToken()
			m := p.parseFuncDecl(true, true)
			m.IsExtension = true
			m.ReceiverType = decl.TypeName
			decl.Methods = append(decl.Methods, m)
		}
		p.nextToken()
	}
	return decl
}

func (p *Parser) parseTraitDecl() ast.Statement {
	decl := &ast.TraitDecl{StmtBase: ast.StmtBase{Tok: p.curToken}}
	if !p.expectPeek(lexer.IDENT) {
		return decl
	}
	decl.Name = p.curToken.Literal
	decl.TypeParams = p.parseTypeParams()
	if !p.expectPeek(lexer.LBRACE) {
		return decl
	}
	p.nextToken()
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		if !p.curTokenIs(lexer.FN) {
			p.nextToken()
			continue
		}
		tm := ast.TraitMethod{}
		if !p.expectPeek(lexer.IDENT) {
			p.nextToken()
			continue
		}
		tm.Name = p.curToken.Literal
		if !p.expectPeek(lexer.LPAREN) {
			p.nextToken()
			continue
		}
		tm.Params = p.parseParamList()
		if p.peekTokenIs(lexer.ARROW) {
			p.nextToken()
			p.nextToken()
			tm.ReturnType = p.parseTypeExpr()
		}
		if p.peekTokenIs(lexer.LBRACE) {
			p.nextToken()
			tm.DefaultBody = p.parseBlockStmt()
		} else {
			tm.Abstract = true
		}
		decl.Methods = append(decl.Methods, tm)
		p.nextToken()
	}
	return decl
}

func (p *Parser) parseModuleDecl() ast.Statement {
	decl := &ast.ModuleDecl{StmtBase: ast.StmtBase{Tok: p.curToken}}
	if !p.expectPeek(lexer.IDENT) {
		return decl
	}
	decl.Name = p.curToken.Literal
	if !p.expectPeek(lexer.LBRACE) {
		return decl
	}
	p.nextToken()
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			decl.Body = append(decl.Body, stmt)
		}
		p.nextToken()
	}
	return decl
}

func (p *Parser) parseImportStmt() ast.Statement {
	stmt := &ast.ImportStmt{StmtBase: ast.StmtBase{Tok: p.curToken}}
	if !p.expectPeek(lexer.IDENT) {
		return stmt
	}
	stmt.Module = p.curToken.Literal
	// The lexer folds a trailing `::` into the identifier (`math::`), so
	// the item-list separator arrives either inside the IDENT or as DCOLON.
	hasList := false
	if n := len(stmt.Module); n > 2 && stmt.Module[n-2:] == "::" {
		stmt.Module = stmt.Module[:n-2]
		hasList = true
	} else if p.peekTokenIs(lexer.DCOLON) {
		p.nextToken()
		hasList = true
	}
	if hasList {
		if p.peekTokenIs(lexer.LBRACE) {
			p.nextToken()
			p.nextToken()
			for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
				stmt.Items = append(stmt.Items, p.curToken.Literal)
				p.nextToken()
				if p.curTokenIs(lexer.COMMA) {
					p.nextToken()
				}
			}
		} else if p.peekTokenIs(lexer.MULTIPLY) {
			p.nextToken()
		}
	}
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseExportStmt() ast.Statement {
	stmt := &ast.ExportStmt{StmtBase: ast.StmtBase{Tok: p.curToken}}
	p.nextToken()
	stmt.Inner = p.parseStatement()
	return stmt
}

func (p *Parser) parseTypeAliasStmt() ast.Statement {
	stmt := &ast.TypeAliasStmt{StmtBase: ast.StmtBase{Tok: p.curToken}}
	if !p.expectPeek(lexer.IDENT) {
		return stmt
	}
	stmt.Name = p.curToken.Literal
	if !p.expectPeek(lexer.ASSIGN) {
		return stmt
	}
	p.nextToken()
	stmt.Target = p.parseTypeExpr()
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseTryStmt() ast.Statement {
	stmt := &ast.TryStmt{StmtBase: ast.StmtBase{Tok: p.curToken}}
	if !p.expectPeek(lexer.LBRACE) {
		return stmt
	}
	stmt.Try = p.parseBlockStmt()
	for p.peekTokenIs(lexer.CATCH) {
		p.nextToken()
		clause := ast.CatchClause{}
		if p.peekTokenIs(lexer.LPAREN) {
			p.nextToken()
			p.nextToken()
			clause.ExceptionType = p.curToken.Literal
			if p.peekTokenIs(lexer.IDENT) {
				p.nextToken()
				clause.Binding = p.curToken.Literal
			}
			p.expectPeek(lexer.RPAREN)
		}
		if !p.expectPeek(lexer.LBRACE) {
			break
		}
		clause.Body = p.parseBlockStmt()
		stmt.Catches = append(stmt.Catches, clause)
	}
	if p.peekTokenIs(lexer.FINALLY) {
		p.nextToken()
		if p.expectPeek(lexer.LBRACE) {
			stmt.Finally = p.parseBlockStmt()
		}
	}
	return stmt
}

func (p *Parser) parseThrowStmt() ast.Statement {
	stmt := &ast.ThrowStmt{StmtBase: ast.StmtBase{Tok: p.curToken}}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseMatchStmt() ast.Statement {
	stmt := &ast.MatchStmt{StmtBase: ast.StmtBase{Tok: p.curToken}}
	p.nextToken()
	stmt.Scrutinee = p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.LBRACE) {
		return stmt
	}
	p.nextToken()
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		c := ast.MatchCase{}
		c.Pattern = p.parsePattern()
		if p.peekTokenIs(lexer.IF) {
			p.nextToken()
			p.nextToken()
			c.Guard = p.parseExpression(LOWEST)
		}
		if !p.expectPeek(lexer.FATARROW) {
			return stmt
		}
		p.nextToken()
		if p.curTokenIs(lexer.LBRACE) {
			c.Body = p.parseBlockStmt()
		} else {
			c.Body = p.parseExprStmt()
		}
		stmt.Cases = append(stmt.Cases, c)
		p.nextToken()
		if p.curTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}
	return stmt
}

func (p *Parser) parseTestDecl() ast.Statement {
	decl := &ast.TestDecl{StmtBase: ast.StmtBase{Tok: p.curToken}}
	if p.peekTokenIs(lexer.STRING) {
		p.nextToken()
		decl.Name = p.curToken.Literal
	}
	if p.peekTokenIs(lexer.ASYNC) {
		p.nextToken()
		decl.Async = true
	}
	if !p.expectPeek(lexer.LBRACE) {
		return decl
	}
	decl.Body = p.parseBlockStmt()
	return decl
}

func (p *Parser) parseSpawnStmt() ast.Statement {
	stmt := &ast.SpawnStmt{StmtBase: ast.StmtBase{Tok: p.curToken}}
	p.nextToken()
	stmt.Call = p.parseExpression(LOWEST)
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseExternDecl() ast.Statement {
	decl := &ast.ExternDecl{StmtBase: ast.StmtBase{Tok: p.curToken}}
	if !p.expectPeek(lexer.FN) {
		return decl
	}
	if !p.expectPeek(lexer.IDENT) {
		return decl
	}
	decl.Name = p.curToken.Literal
	if !p.expectPeek(lexer.LPAREN) {
		return decl
	}
	if p.peekTokenIs(lexer.VARIADIC) {
		p.nextToken()
		decl.Variadic = true
	} else {
		decl.Params = p.parseParamList()
	}
	if !p.curTokenIs(lexer.RPAREN) {
		p.expectPeek(lexer.RPAREN)
	}
	if p.peekTokenIs(lexer.ARROW) {
		p.nextToken()
		p.nextToken()
		decl.ReturnType = p.parseTypeExpr()
	}
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return decl
}

func (p *Parser) parseMacroDecl() ast.Statement {
	decl := &ast.MacroDecl{StmtBase: ast.StmtBase{Tok: p.curToken}}
	if !p.expectPeek(lexer.IDENT) {
		return decl
	}
	decl.Name = p.curToken.Literal
	if !p.expectPeek(lexer.LPAREN) {
		return decl
	}
	if !p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
		for {
			decl.Params = append(decl.Params, p.curToken.Literal)
			if !p.peekTokenIs(lexer.COMMA) {
				break
			}
			p.nextToken()
			p.nextToken()
		}
	}
	if !p.expectPeek(lexer.RPAREN) {
		return decl
	}
	if !p.expectPeek(lexer.LBRACE) {
		return decl
	}
	decl.Body = p.parseBlockStmt()
	return decl
}

// ---------------------------------------------------------------------
// Patterns
// ---------------------------------------------------------------------

func (p *Parser) parsePattern() *ast.Pattern {
	tok := p.curToken
	switch p.curToken.Type {
	case lexer.IDENT:
		if p.curToken.Literal == "_" {
			return &ast.Pattern{Tok: tok, Kind: ast.PatWildcard}
		}
		name := p.curToken.Literal
		if p.peekTokenIs(lexer.LBRACE) {
			return p.parseStructPattern(name)
		}
		return &ast.Pattern{Tok: tok, Kind: ast.PatIdent, Name: name}
	case lexer.SOME:
		if !p.expectPeek(lexer.LPAREN) {
			return &ast.Pattern{Tok: tok, Kind: ast.PatOption, Variant: "Some"}
		}
		p.nextToken()
		inner := p.parsePattern()
		p.expectPeek(lexer.RPAREN)
		return &ast.Pattern{Tok: tok, Kind: ast.PatOption, Variant: "Some", Inner: inner}
	case lexer.NONE:
		return &ast.Pattern{Tok: tok, Kind: ast.PatOption, Variant: "None"}
	case lexer.LBRACKET:
		return p.parseArrayPattern()
	case lexer.LPAREN:
		return p.parseTuplePattern()
	case lexer.INT, lexer.FLOAT, lexer.STRING, lexer.CHAR, lexer.TRUE, lexer.FALSE, lexer.MINUS:
		lit := p.parseExpression(RANGE + 1)
		if p.peekTokenIs(lexer.DOTDOT) || p.peekTokenIs(lexer.DOTDOTEQ) {
			inclusive := p.peekTokenIs(lexer.DOTDOTEQ)
			p.nextToken()
			p.nextToken()
			end := p.parseExpression(RANGE + 1)
			return &ast.Pattern{Tok: tok, Kind: ast.PatRange, RangeStart: lit, RangeEnd: end, RangeInclusive: inclusive}
		}
		return &ast.Pattern{Tok: tok, Kind: ast.PatLiteral, Literal: lit}
	default:
		p.addError("unexpected token %s in pattern position", p.curToken.Type)
		return &ast.Pattern{Tok: tok, Kind: ast.PatWildcard}
	}
}

func (p *Parser) parseStructPattern(name string) *ast.Pattern {
	tok := p.curToken
	p.nextToken() // consume IDENT
	p.nextToken() // consume '{'
	pat := &ast.Pattern{Tok: tok, Kind: ast.PatStruct, StructType: name}
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		fieldName := p.curToken.Literal
		var fieldPat *ast.Pattern
		if p.peekTokenIs(lexer.COLON) {
			p.nextToken()
			p.nextToken()
			fieldPat = p.parsePattern()
		} else {
			fieldPat = &ast.Pattern{Tok: p.curToken, Kind: ast.PatIdent, Name: fieldName}
		}
		pat.Fields = append(pat.Fields, ast.PatternField{Name: fieldName, Pattern: fieldPat})
		p.nextToken()
		if p.curTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}
	return pat
}

func (p *Parser) parseArrayPattern() *ast.Pattern {
	tok := p.curToken
	pat := &ast.Pattern{Tok: tok, Kind: ast.PatArray}
	p.nextToken()
	for !p.curTokenIs(lexer.RBRACKET) && !p.curTokenIs(lexer.EOF) {
		if p.curTokenIs(lexer.VARIADIC) {
			p.nextToken()
			name := p.curToken.Literal
			pat.Rest = &name
			p.nextToken()
		} else {
			pat.Elements = append(pat.Elements, p.parsePattern())
			p.nextToken()
		}
		if p.curTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}
	return pat
}

func (p *Parser) parseTuplePattern() *ast.Pattern {
	tok := p.curToken
	pat := &ast.Pattern{Tok: tok, Kind: ast.PatTuple}
	p.nextToken()
	for !p.curTokenIs(lexer.RPAREN) && !p.curTokenIs(lexer.EOF) {
		pat.Tuple = append(pat.Tuple, p.parsePattern())
		p.nextToken()
		if p.curTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}
	return pat
}

// ---------------------------------------------------------------------
// Type expressions — parsed as ordinary Expression trees (Identifier,
// ArrayLiteral as a one-element array-type marker, TupleExpr, CallExpr
// as generic instantiation) rather than a parallel type-only grammar;
// see DESIGN.md for the rationale.
// ---------------------------------------------------------------------

func (p *Parser) parseTypeExpr() ast.Expression {
	base := p.parseTypeAtom()
	for p.peekTokenIs(lexer.QUESTION) {
		p.nextToken()
		base = &ast.OptionalTypeExpr{ExprBase: ast.ExprBase{Tok: p.curToken}, Inner: base}
	}
	if p.peekTokenIs(lexer.PIPE) {
		members := []ast.Expression{base}
		for p.peekTokenIs(lexer.PIPE) {
			p.nextToken()
			p.nextToken()
			members = append(members, p.parseTypeAtom())
		}
		base = &ast.UnionTypeExpr{ExprBase: ast.ExprBase{Tok: p.curToken}, Members: members}
	}
	return base
}

func (p *Parser) parseTypeAtom() ast.Expression {
	switch p.curToken.Type {
	case lexer.LBRACKET:
		tok := p.curToken
		p.nextToken()
		elem := p.parseTypeExpr()
		p.expectPeek(lexer.RBRACKET)
		return &ast.ArrayLiteral{ExprBase: ast.ExprBase{Tok: tok}, Elements: []ast.Expression{elem}}
	case lexer.LPAREN:
		tok := p.curToken
		p.nextToken()
		var elems []ast.Expression
		for !p.curTokenIs(lexer.RPAREN) && !p.curTokenIs(lexer.EOF) {
			elems = append(elems, p.parseTypeExpr())
			p.nextToken()
			if p.curTokenIs(lexer.COMMA) {
				p.nextToken()
			}
		}
		return &ast.TupleExpr{ExprBase: ast.ExprBase{Tok: tok}, Elements: elems}
	case lexer.IDENT:
		tok := p.curToken
		name := &ast.Identifier{ExprBase: ast.ExprBase{Tok: tok}, Name: tok.Literal}
		if p.peekTokenIs(lexer.LT) {
			p.nextToken()
			p.nextToken()
			var args []ast.Expression
			for {
				args = append(args, p.parseTypeExpr())
				if !p.peekTokenIs(lexer.COMMA) {
					break
				}
				p.nextToken()
				p.nextToken()
			}
			p.expectPeek(lexer.GT)
			return &ast.CallExpr{ExprBase: ast.ExprBase{Tok: tok}, Callee: name, Args: args}
		}
		return name
	default:
		tok := p.curToken
		p.addError("unexpected token %s in type position", p.curToken.Type)
		return &ast.Identifier{ExprBase: ast.ExprBase{Tok: tok}, Name: tok.Literal}
	}
}

// ---------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.addError("no prefix parse function for %s (%q) found", p.curToken.Type, p.curToken.Literal)
		return nil
	}
	leftExp := p.parsePostfixChain(prefix())

	for !p.peekTokenIs(lexer.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
	}
	return leftExp
}

// parsePostfixChain greedily attaches postfix operators (call, index,
// field/method access, try `?`) at the tightest precedence, immediately
// after a prefix expression is produced.
func (p *Parser) parsePostfixChain(expr ast.Expression) ast.Expression {
	for {
		switch p.peekToken.Type {
		case lexer.LPAREN:
			p.nextToken()
			expr = p.parseCallExpr(expr)
		case lexer.LBRACKET:
			p.nextToken()
			expr = p.parseIndexExpr(expr)
		case lexer.DOT:
			p.nextToken()
			expr = p.parseDotExpr(expr)
		case lexer.QUESTION:
			p.nextToken()
			expr = p.parseTryExpr(expr)
		default:
			return expr
		}
	}
}

func (p *Parser) parseIdentifier() ast.Expression {
	tok := p.curToken
	name := tok.Literal
	if p.peekTokenIs(lexer.LBRACE) && startsUpper(name) {
		return p.parseStructInitExpr(tok, name)
	}
	return &ast.Identifier{ExprBase: ast.ExprBase{Tok: tok}, Name: name}
}

// startsUpper reports whether a type name leads with an uppercase letter,
// the surface convention this parser uses to tell a struct-literal
// `Name { ... }` apart from a bare identifier followed by a block (an
// `if`/`while`/`for` condition never ends in an uppercase identifier
// immediately before `{` in practice, so the heuristic never fires there).
func startsUpper(name string) bool {
	return len(name) > 0 && name[0] >= 'A' && name[0] <= 'Z'
}

func (p *Parser) parseStructInitExpr(tok lexer.Token, name string) ast.Expression {
	p.nextToken() // consume IDENT, land on '{'
	p.nextToken() // consume '{'
	expr := &ast.StructInitExpr{ExprBase: ast.ExprBase{Tok: tok}, TypeName: name}
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		fieldName := p.curToken.Literal
		if !p.expectPeek(lexer.COLON) {
			break
		}
		p.nextToken()
		val := p.parseExpression(LOWEST)
		expr.Fields = append(expr.Fields, ast.FieldInit{Name: fieldName, Value: val})
		p.nextToken()
		if p.curTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}
	return expr
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	lit := &ast.IntegerLiteral{ExprBase: ast.ExprBase{Tok: p.curToken}}
	v, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.addError("could not parse %q as integer", p.curToken.Literal)
	}
	lit.Value = v
	return lit
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	lit := &ast.FloatLiteral{ExprBase: ast.ExprBase{Tok: p.curToken}}
	v, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.addError("could not parse %q as float", p.curToken.Literal)
	}
	lit.Value = v
	return lit
}

func (p *Parser) parseStringLiteral() ast.Expression {
	tok := p.curToken
	if parts, ok := splitInterpolation(tok.Literal); ok {
		si := &ast.StringInterp{ExprBase: ast.ExprBase{Tok: tok}}
		for _, part := range parts {
			if part.isExpr {
				sub := lexer.New(part.text)
				sp := New(sub)
				expr := sp.parseExpressionFromString()
				si.Parts = append(si.Parts, ast.InterpPart{IsExpr: true, Expr: expr})
			} else {
				si.Parts = append(si.Parts, ast.InterpPart{Literal: part.text})
			}
		}
		return si
	}
	return &ast.StringLiteral{ExprBase: ast.ExprBase{Tok: tok}, Raw: tok.Literal}
}

// parseExpressionFromString parses a standalone `${...}` fragment reusing
// this Parser's own expression grammar against a throwaway sub-lexer.
func (p *Parser) parseExpressionFromString() ast.Expression {
	return p.parseExpression(LOWEST)
}

type interpFragment struct {
	isExpr bool
	text   string
}

// splitInterpolation splits a raw string lexeme on `${...}` runs. Returns
// ok == false when the string has no interpolation, so plain strings stay
// cheap StringLiteral nodes.
func splitInterpolation(raw string) ([]interpFragment, bool) {
	var frags []interpFragment
	i := 0
	found := false
	for i < len(raw) {
		start := indexDollarBrace(raw, i)
		if start == -1 {
			frags = append(frags, interpFragment{text: raw[i:]})
			break
		}
		found = true
		if start > i {
			frags = append(frags, interpFragment{text: raw[i:start]})
		}
		depth := 1
		j := start + 2
		for j < len(raw) && depth > 0 {
			switch raw[j] {
			case '{':
				depth++
			case '}':
				depth--
			}
			j++
		}
		frags = append(frags, interpFragment{isExpr: true, text: raw[start+2 : j-1]})
		i = j
	}
	return frags, found
}

func indexDollarBrace(s string, from int) int {
	for i := from; i+1 < len(s); i++ {
		if s[i] == '$' && s[i+1] == '{' {
			return i
		}
	}
	return -1
}

func (p *Parser) parseCharLiteral() ast.Expression {
	lit := &ast.CharLiteral{ExprBase: ast.ExprBase{Tok: p.curToken}}
	if len(p.curToken.Literal) > 0 {
		lit.Value = p.curToken.Literal[0]
	}
	return lit
}

func (p *Parser) parseBoolLiteral() ast.Expression {
	return &ast.BoolLiteral{ExprBase: ast.ExprBase{Tok: p.curToken}, Value: p.curTokenIs(lexer.TRUE)}
}

func (p *Parser) parseUnaryExpr() ast.Expression {
	expr := &ast.UnaryExpr{ExprBase: ast.ExprBase{Tok: p.curToken}, Operator: p.curToken.Literal}
	p.nextToken()
	expr.Operand = p.parseExpression(UNARY)
	return expr
}

func (p *Parser) parseBinaryExpr(left ast.Expression) ast.Expression {
	expr := &ast.BinaryExpr{ExprBase: ast.ExprBase{Tok: p.curToken}, Operator: p.curToken.Literal, Left: left}
	prec := p.curPrecedence()
	p.nextToken()
	expr.Right = p.parseExpression(prec)
	return expr
}

func (p *Parser) parseRangeExpr(left ast.Expression) ast.Expression {
	expr := &ast.RangeExpr{ExprBase: ast.ExprBase{Tok: p.curToken}, Start: left, Inclusive: p.curTokenIs(lexer.DOTDOTEQ)}
	prec := p.curPrecedence()
	p.nextToken()
	expr.End = p.parseExpression(prec)
	return expr
}

func (p *Parser) parsePipelineExpr(left ast.Expression) ast.Expression {
	tok := p.curToken
	pipe, ok := left.(*ast.PipelineExpr)
	prec := p.curPrecedence()
	p.nextToken()
	next := p.parseExpression(prec)
	if ok {
		pipe.Stages = append(pipe.Stages, next)
		return pipe
	}
	return &ast.PipelineExpr{ExprBase: ast.ExprBase{Tok: tok}, Stages: []ast.Expression{left, next}}
}

func (p *Parser) parseAssignExpr(left ast.Expression) ast.Expression {
	tok := p.curToken
	if op, ok := assignOps[tok.Type]; ok {
		p.nextToken()
		rhs := p.parseExpression(ASSIGNMENT - 1)
		desugared := &ast.BinaryExpr{ExprBase: ast.ExprBase{Tok: tok}, Operator: op, Left: left, Right: rhs}
		return wrapAssignTarget(left, desugared, tok)
	}
	p.nextToken()
	value := p.parseExpression(ASSIGNMENT - 1)
	return wrapAssignTarget(left, value, tok)
}

// wrapAssignTarget builds the correct assignment node shape depending on
// what kind of lvalue `target` is — plain identifier (AssignExpr), index
// expression, or field expression (both of which represent assignment by
// populating their optional Value field, per ast.go's read/assign unification).
func wrapAssignTarget(target, value ast.Expression, tok lexer.Token) ast.Expression {
	switch t := target.(type) {
	case *ast.IndexExpr:
		t.Value = value
		return t
	case *ast.FieldExpr:
		t.Value = value
		return t
	default:
		return &ast.AssignExpr{ExprBase: ast.ExprBase{Tok: tok}, Target: target, Value: value}
	}
}

func (p *Parser) parseGroupedOrTuple() ast.Expression {
	tok := p.curToken
	p.nextToken()
	if p.curTokenIs(lexer.RPAREN) {
		return &ast.TupleExpr{ExprBase: ast.ExprBase{Tok: tok}}
	}
	first := p.parseExpression(LOWEST)
	if !p.peekTokenIs(lexer.COMMA) {
		p.expectPeek(lexer.RPAREN)
		return first
	}
	elems := []ast.Expression{first}
	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		elems = append(elems, p.parseExpression(LOWEST))
	}
	p.expectPeek(lexer.RPAREN)
	return &ast.TupleExpr{ExprBase: ast.ExprBase{Tok: tok}, Elements: elems}
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	lit := &ast.ArrayLiteral{ExprBase: ast.ExprBase{Tok: p.curToken}}
	if p.peekTokenIs(lexer.RBRACKET) {
		p.nextToken()
		return lit
	}
	p.nextToken()
	lit.Elements = append(lit.Elements, p.parseExpression(LOWEST))
	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		lit.Elements = append(lit.Elements, p.parseExpression(LOWEST))
	}
	p.expectPeek(lexer.RBRACKET)
	return lit
}

func (p *Parser) parseMapLiteral() ast.Expression {
	lit := &ast.MapLiteral{ExprBase: ast.ExprBase{Tok: p.curToken}}
	if p.peekTokenIs(lexer.RBRACE) {
		p.nextToken()
		return lit
	}
	p.nextToken()
	for {
		key := p.parseExpression(LOWEST)
		if !p.expectPeek(lexer.COLON) {
			break
		}
		p.nextToken()
		val := p.parseExpression(LOWEST)
		lit.Keys = append(lit.Keys, key)
		lit.Values = append(lit.Values, val)
		if !p.peekTokenIs(lexer.COMMA) {
			break
		}
		p.nextToken()
		p.nextToken()
	}
	p.expectPeek(lexer.RBRACE)
	return lit
}

func (p *Parser) parseIfExpr() ast.Expression {
	tok := p.curToken
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.LBRACE) {
		return &ast.IfExpr{ExprBase: ast.ExprBase{Tok: tok}, Cond: cond}
	}
	p.nextToken()
	then := p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RBRACE) {
		return &ast.IfExpr{ExprBase: ast.ExprBase{Tok: tok}, Cond: cond, Then: then}
	}
	ifExpr := &ast.IfExpr{ExprBase: ast.ExprBase{Tok: tok}, Cond: cond, Then: then}
	if p.peekTokenIs(lexer.ELSE) {
		p.nextToken()
		if !p.expectPeek(lexer.LBRACE) {
			return ifExpr
		}
		p.nextToken()
		ifExpr.Else = p.parseExpression(LOWEST)
		p.expectPeek(lexer.RBRACE)
	}
	return ifExpr
}

func (p *Parser) parseMatchExpr() ast.Expression {
	tok := p.curToken
	p.nextToken()
	scrutinee := p.parseExpression(LOWEST)
	match := &ast.MatchExpr{ExprBase: ast.ExprBase{Tok: tok}, Scrutinee: scrutinee}
	if !p.expectPeek(lexer.LBRACE) {
		return match
	}
	p.nextToken()
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		arm := ast.MatchArm{}
		arm.Pattern = p.parsePattern()
		if p.peekTokenIs(lexer.IF) {
			p.nextToken()
			p.nextToken()
			arm.Guard = p.parseExpression(LOWEST)
		}
		if !p.expectPeek(lexer.FATARROW) {
			return match
		}
		p.nextToken()
		arm.Result = p.parseExpression(LOWEST)
		match.Arms = append(match.Arms, arm)
		p.nextToken()
		if p.curTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}
	return match
}

// parseLambdaExpr parses `|params| body`.
func (p *Parser) parseLambdaExpr() ast.Expression {
	tok := p.curToken
	lam := &ast.LambdaExpr{ExprBase: ast.ExprBase{Tok: tok}}
	if !p.peekTokenIs(lexer.PIPE) {
		p.nextToken()
		for {
			lam.Params = append(lam.Params, p.curToken.Literal)
			if p.peekTokenIs(lexer.COLON) {
				p.nextToken()
				p.nextToken()
				p.parseTypeExpr()
			}
			if !p.peekTokenIs(lexer.COMMA) {
				break
			}
			p.nextToken()
			p.nextToken()
		}
	}
	if !p.expectPeek(lexer.PIPE) {
		return lam
	}
	p.nextToken()
	lam.Body = p.parseExpression(LOWEST)
	return lam
}

func (p *Parser) parseAwaitExpr() ast.Expression {
	tok := p.curToken
	p.nextToken()
	return &ast.AwaitExpr{ExprBase: ast.ExprBase{Tok: tok}, Operand: p.parseExpression(UNARY)}
}

func (p *Parser) parseSpawnExpr() ast.Expression {
	tok := p.curToken
	p.nextToken()
	call := p.parseExpression(UNARY)
	// spawn-as-expression yields a future; modeled with AwaitExpr's sibling
	// shape reused via a plain wrapper so codegen sees a single call node.
	return &ast.CallExpr{ExprBase: ast.ExprBase{Tok: tok}, Callee: &ast.Identifier{ExprBase: ast.ExprBase{Tok: tok}, Name: "spawn"}, Args: []ast.Expression{call}}
}

func (p *Parser) parseSomeExpr() ast.Expression {
	tok := p.curToken
	if !p.expectPeek(lexer.LPAREN) {
		return &ast.SomeExpr{ExprBase: ast.ExprBase{Tok: tok}}
	}
	p.nextToken()
	val := p.parseExpression(LOWEST)
	p.expectPeek(lexer.RPAREN)
	return &ast.SomeExpr{ExprBase: ast.ExprBase{Tok: tok}, Value: val}
}

func (p *Parser) parseNoneExpr() ast.Expression {
	return &ast.NoneExpr{ExprBase: ast.ExprBase{Tok: p.curToken}}
}

func (p *Parser) parseOkExpr() ast.Expression {
	tok := p.curToken
	if !p.expectPeek(lexer.LPAREN) {
		return &ast.OkExpr{ExprBase: ast.ExprBase{Tok: tok}}
	}
	p.nextToken()
	val := p.parseExpression(LOWEST)
	p.expectPeek(lexer.RPAREN)
	return &ast.OkExpr{ExprBase: ast.ExprBase{Tok: tok}, Value: val}
}

func (p *Parser) parseErrExpr() ast.Expression {
	tok := p.curToken
	if !p.expectPeek(lexer.LPAREN) {
		return &ast.ErrExpr{ExprBase: ast.ExprBase{Tok: tok}}
	}
	p.nextToken()
	val := p.parseExpression(LOWEST)
	p.expectPeek(lexer.RPAREN)
	return &ast.ErrExpr{ExprBase: ast.ExprBase{Tok: tok}, Value: val}
}

func (p *Parser) parseCallExpr(callee ast.Expression) ast.Expression {
	expr := &ast.CallExpr{ExprBase: ast.ExprBase{Tok: p.curToken}, Callee: callee}
	expr.Args = p.parseExpressionList(lexer.RPAREN)
	return expr
}

func (p *Parser) parseExpressionList(end lexer.TokenType) []ast.Expression {
	var list []ast.Expression
	if p.peekTokenIs(end) {
		p.nextToken()
		return list
	}
	p.nextToken()
	list = append(list, p.parseExpression(LOWEST))
	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		list = append(list, p.parseExpression(LOWEST))
	}
	p.expectPeek(end)
	return list
}

func (p *Parser) parseIndexExpr(container ast.Expression) ast.Expression {
	expr := &ast.IndexExpr{ExprBase: ast.ExprBase{Tok: p.curToken}, Container: container}
	p.nextToken()
	expr.Index = p.parseExpression(LOWEST)
	p.expectPeek(lexer.RBRACKET)
	return expr
}

// parseDotExpr disambiguates field access, method calls, and tuple
// indexing (`.0`, `.1`) after the `.` token.
func (p *Parser) parseDotExpr(object ast.Expression) ast.Expression {
	tok := p.curToken
	p.nextToken()
	if p.curTokenIs(lexer.INT) {
		idx, _ := strconv.Atoi(p.curToken.Literal)
		return &ast.TupleIndexExpr{ExprBase: ast.ExprBase{Tok: tok}, Object: object, Index: idx}
	}
	name := p.curToken.Literal
	if p.peekTokenIs(lexer.LPAREN) {
		p.nextToken()
		mc := &ast.MethodCallExpr{ExprBase: ast.ExprBase{Tok: tok}, Receiver: object, Method: name}
		mc.Args = p.parseExpressionList(lexer.RPAREN)
		return mc
	}
	return &ast.FieldExpr{ExprBase: ast.ExprBase{Tok: tok}, Object: object, Field: name}
}

func (p *Parser) parseTryExpr(operand ast.Expression) ast.Expression {
	return &ast.TryExpr{ExprBase: ast.ExprBase{Tok: p.curToken}, Operand: operand}
}

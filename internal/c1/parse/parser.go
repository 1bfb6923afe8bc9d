// Package parse implements the C1 grammar as a hand-written
// recursive-descent / operator-precedence parser (permitted in place of a
// generated LALR(1) table by spec.md §9's "Parser generator vs.
// hand-written" note), driving internal/c1/symbols and internal/c1/ast and
// appending to a internal/c1/diag.Collector on every reduction.
//
// Error recovery uses Go's panic/recover as its "unwind to a synchronizing
// token" mechanism: expect (and parseType) panic a private sentinel on a
// mismatch after recording the diagnostic, and the per-statement/per-item
// recovery wrappers catch it, skip to the next ';' or '}', and resume.
package parse

import (
	"fmt"
	"strconv"

	"github.com/dekarrin/rosed"

	"github.com/ziolkown/cb-5/internal/c1/ast"
	"github.com/ziolkown/cb-5/internal/c1/diag"
	"github.com/ziolkown/cb-5/internal/c1/lex"
	"github.com/ziolkown/cb-5/internal/c1/symbols"
	"github.com/ziolkown/cb-5/internal/c1/token"
)

// Parser drives a Lexer through the C1 grammar, producing a syntax tree or
// a list of diagnostics.
type Parser struct {
	lx     *lex.Lexer
	diags  diag.Collector
	table  *symbols.Table
	Debug  bool
	traces []string
}

// New creates a Parser over lx.
func New(lx *lex.Lexer) *Parser {
	return &Parser{lx: lx, table: symbols.New()}
}

// DebugTrace returns the accumulated rule-entry trace, word-wrapped for
// terminal display. Empty unless Debug was set before DoParse ran.
func (p *Parser) DebugTrace() []string {
	return p.traces
}

// DoParse runs the parser to completion, returning the finished tree iff no
// diagnostic was reported (lexical, syntactical, or semantic), and the full
// ordered diagnostic list otherwise.
func (p *Parser) DoParse() (*ast.Tree, diag.Errors) {
	items := ast.NewSequence()
	for p.current().Kind != token.KindEOF {
		item := p.parseTopLevelItemRecovering()
		if item != nil {
			items.Append(item)
		}
	}
	prog := ast.NewProgram().Append(items)
	root := ast.NewRoot().Append(prog)

	p.checkMain()

	if p.diags.HasErrors() {
		return nil, p.diags.Errors()
	}
	return root, nil
}

// --- token-stream helpers, draining lexical errors into diagnostics ---

func (p *Parser) current() token.Token {
	for p.lx.Current().Kind == token.KindError {
		bad := p.lx.Current()
		p.diags.Lexical(bad.Span.Line, "unrecognized input %q", bad.Text)
		p.lx.Eat()
	}
	return p.lx.Current()
}

func (p *Parser) eat() token.Token {
	p.current() // drains any pending lexical errors first
	return p.lx.Eat()
}

type parseAbort struct{}

// expect consumes the current token if it matches k; otherwise it records a
// Syntactical diagnostic and aborts the current statement/top-level item via
// panic(parseAbort{}), to be caught by the nearest recovery wrapper.
func (p *Parser) expect(k token.Kind, human string) token.Token {
	tok := p.current()
	if tok.Kind != k {
		p.diags.Syntactical(tok.Span.Line, "expected %s, found %s", human, tok.Kind)
		panic(parseAbort{})
	}
	return p.eat()
}

func (p *Parser) expectID() (string, uint32) {
	tok := p.expect(token.KindID, "an identifier")
	return tok.Text, tok.Span.Line
}

// syncTo discards tokens until it reaches ';' (consumed) or end of input,
// per spec.md's synchronizing-token recovery rule. If consumeCloseBrace is
// false, a '}' is also left in place for the enclosing block to see;
// top-level recovery has no enclosing block to hand it to, so it consumes
// stray '}' tokens itself rather than looping forever on one.
func (p *Parser) syncTo(consumeCloseBrace bool) {
	for {
		k := p.current().Kind
		if k == token.KindEOF {
			return
		}
		if k == token.Kind('}') && !consumeCloseBrace {
			return
		}
		if k == token.Kind(';') || k == token.Kind('}') {
			p.eat()
			return
		}
		p.eat()
	}
}

func (p *Parser) recoverAbort(consumeCloseBrace bool) {
	if r := recover(); r != nil {
		if _, ok := r.(parseAbort); ok {
			p.syncTo(consumeCloseBrace)
			return
		}
		panic(r)
	}
}

func (p *Parser) logTrace(format string, args ...any) {
	if !p.Debug {
		return
	}
	msg := fmt.Sprintf(format, args...)
	p.traces = append(p.traces, rosed.Edit(msg).Wrap(96).String())
}

// --- types ---

func (p *Parser) parseType() symbols.Type {
	tok := p.current()
	switch tok.Kind {
	case token.KindKwInt:
		p.eat()
		return symbols.Integer
	case token.KindKwFloat:
		p.eat()
		return symbols.Float
	case token.KindKwBool:
		p.eat()
		return symbols.Boolean
	case token.KindKwVoid:
		p.eat()
		return symbols.Void
	default:
		p.diags.Syntactical(tok.Span.Line, "expected a type, found %s", tok.Kind)
		panic(parseAbort{})
	}
}

// coerce adapts expr to target: identical types pass through unchanged, an
// Integer value in a Float context is wrapped in a Cast node (the only
// implicit conversion C1 allows), and anything else is a semantic error
// that still returns expr unchanged so analysis can keep going.
func (p *Parser) coerce(target symbols.Type, expr *ast.Tree, line uint32, context string) *ast.Tree {
	st := expr.SymbolType()
	if st == target {
		return expr
	}
	if target == symbols.Float && st == symbols.Integer {
		return ast.NewCast(symbols.Float).Append(expr)
	}
	p.diags.Semantic(line, "cannot use a value of type %s where %s is expected (%s)", st, target, context)
	return expr
}

func (p *Parser) checkBooleanCond(expr *ast.Tree, line uint32, ctx string) {
	if expr.SymbolType() != symbols.Boolean {
		p.diags.Semantic(line, "the condition of %s must be Boolean (found %s)", ctx, expr.SymbolType())
	}
}

// --- top level ---

func (p *Parser) parseTopLevelItemRecovering() (result *ast.Tree) {
	defer p.recoverAbort(true)
	return p.parseTopLevelItem()
}

func (p *Parser) parseTopLevelItem() *ast.Tree {
	typ := p.parseType()
	name, line := p.expectID()
	p.logTrace("top-level item %q", name)
	if p.current().Kind == token.Kind('(') {
		return p.parseFunctionDefinition(typ, name, line)
	}
	decl := p.parseVariableDeclaration(typ, name, line)
	p.expect(token.Kind(';'), "';'")
	return decl
}

func (p *Parser) parseFunctionDefinition(retType symbols.Type, name string, line uint32) *ast.Tree {
	sym := p.table.FunctionSymbol(name, retType)
	if err := p.table.Insert(sym); err != nil {
		p.diags.Semantic(line, "%s", err)
	}

	node := ast.NewFunctionDeclaration(name)
	p.table.EnterScope()
	defer p.table.LeaveScope()

	p.expect(token.Kind('('), "'('")
	if p.current().Kind != token.Kind(')') {
		for {
			ptyp := p.parseType()
			pname, pline := p.expectID()
			psym := p.table.ParameterSymbol(pname, ptyp)
			if err := p.table.Insert(psym); err != nil {
				p.diags.Semantic(pline, "%s", err)
			}
			node.Append(ast.NewParameter(pname))
			if p.current().Kind == token.Kind(',') {
				p.eat()
				continue
			}
			break
		}
	}
	p.expect(token.Kind(')'), "')'")

	body := p.parseBlock()
	node.Append(body)
	return node
}

func (p *Parser) parseVariableDeclaration(typ symbols.Type, name string, line uint32) *ast.Tree {
	sym := p.table.VariableSymbol(name, typ)
	if err := p.table.Insert(sym); err != nil {
		p.diags.Semantic(line, "%s", err)
	}
	declNode := ast.NewVariableDeclaration(name)

	if p.current().Kind != token.Kind('=') {
		return declNode
	}
	p.eat()
	init := p.parseExpr()
	init = p.coerce(typ, init, line, "variable initializer")
	ref := ast.NewVariableRef(name, typ)

	assign := ast.NewAssign(typ)
	assign.Append(declNode).Append(ref).Append(init)
	return assign
}

func (p *Parser) checkMain() {
	sym, ok := p.table.Get("main")
	if !ok || sym.Class != symbols.ClassFunction || sym.Type != symbols.Void || len(sym.Parameters) != 0 {
		p.diags.Semantic(0, "program must define a function 'void main()' taking no parameters")
	}
}

// --- statements ---

func (p *Parser) parseStatementRecovering() (result *ast.Tree) {
	defer p.recoverAbort(false)
	return p.parseStatement()
}

// parseStatementNonEmpty is used wherever the grammar needs exactly one
// statement node (if/while/do-while/for bodies): an empty statement (a bare
// ';') still yields a placeholder Sequence node so the enclosing node's
// child count stays fixed.
func (p *Parser) parseStatementNonEmpty() *ast.Tree {
	s := p.parseStatementRecovering()
	if s == nil {
		return ast.NewSequence()
	}
	return s
}

func (p *Parser) parseStatement() *ast.Tree {
	tok := p.current()
	switch tok.Kind {
	case token.Kind(';'):
		p.eat()
		return nil
	case token.Kind('{'):
		return p.parseBlock()
	case token.KindKwIf:
		return p.parseIf()
	case token.KindKwWhile:
		return p.parseWhile()
	case token.KindKwDo:
		return p.parseDoWhile()
	case token.KindKwFor:
		return p.parseFor()
	case token.KindKwPrintf:
		return p.parsePrintf()
	case token.KindKwReturn:
		return p.parseReturn()
	case token.KindKwInt, token.KindKwFloat, token.KindKwBool, token.KindKwVoid:
		typ := p.parseType()
		name, line := p.expectID()
		decl := p.parseVariableDeclaration(typ, name, line)
		p.expect(token.Kind(';'), "';'")
		return decl
	default:
		expr := p.parseExpr()
		p.expect(token.Kind(';'), "';'")
		return expr
	}
}

func (p *Parser) parseBlock() *ast.Tree {
	p.expect(token.Kind('{'), "'{'")
	seq := ast.NewSequence()
	for p.current().Kind != token.Kind('}') && p.current().Kind != token.KindEOF {
		stmt := p.parseStatementRecovering()
		if stmt != nil {
			seq.Append(stmt)
		}
	}
	p.expect(token.Kind('}'), "'}'")
	return seq
}

func (p *Parser) parseIf() *ast.Tree {
	line := p.current().Span.Line
	p.eat()
	p.expect(token.Kind('('), "'('")
	cond := p.parseExpr()
	p.checkBooleanCond(cond, line, "an if")
	p.expect(token.Kind(')'), "')'")
	thenBranch := p.parseStatementNonEmpty()

	node := ast.NewIf()
	node.Append(cond).Append(thenBranch)
	if p.current().Kind == token.KindKwElse {
		p.eat()
		node.Append(p.parseStatementNonEmpty())
	}
	return node
}

func (p *Parser) parseWhile() *ast.Tree {
	line := p.current().Span.Line
	p.eat()
	p.expect(token.Kind('('), "'('")
	cond := p.parseExpr()
	p.checkBooleanCond(cond, line, "a while")
	p.expect(token.Kind(')'), "')'")
	body := p.parseStatementNonEmpty()
	return ast.NewWhile().Append(cond).Append(body)
}

func (p *Parser) parseDoWhile() *ast.Tree {
	line := p.current().Span.Line
	p.eat()
	body := p.parseStatementNonEmpty()
	p.expect(token.KindKwWhile, "'while'")
	p.expect(token.Kind('('), "'('")
	cond := p.parseExpr()
	p.checkBooleanCond(cond, line, "a do-while")
	p.expect(token.Kind(')'), "')'")
	p.expect(token.Kind(';'), "';'")
	return ast.NewDoWhile().Append(body).Append(cond)
}

func (p *Parser) parseFor() *ast.Tree {
	line := p.current().Span.Line
	p.eat()
	p.expect(token.Kind('('), "'('")

	var initNode *ast.Tree
	if p.current().Kind != token.Kind(';') {
		initNode = p.parseExpr()
	} else {
		initNode = ast.NewSequence()
	}
	p.expect(token.Kind(';'), "';'")

	var condNode *ast.Tree
	if p.current().Kind != token.Kind(';') {
		condNode = p.parseExpr()
		p.checkBooleanCond(condNode, line, "a for")
	} else {
		condNode = ast.NewBoolean(true)
	}
	p.expect(token.Kind(';'), "';'")

	var updateNode *ast.Tree
	if p.current().Kind != token.Kind(')') {
		updateNode = p.parseExpr()
	} else {
		updateNode = ast.NewSequence()
	}
	p.expect(token.Kind(')'), "')'")

	body := p.parseStatementNonEmpty()
	return ast.NewFor().Append(initNode).Append(condNode).Append(updateNode).Append(body)
}

func (p *Parser) parsePrintf() *ast.Tree {
	p.eat()
	p.expect(token.Kind('('), "'('")
	expr := p.parseExpr()
	p.expect(token.Kind(')'), "')'")
	p.expect(token.Kind(';'), "';'")
	return ast.NewPrint().Append(expr)
}

func (p *Parser) parseReturn() *ast.Tree {
	line := p.current().Span.Line
	p.eat()
	ft, ok := p.table.FunctionType()
	if !ok {
		ft = symbols.Void
	}
	node := ast.NewReturn(ft)
	if p.current().Kind != token.Kind(';') {
		expr := p.parseExpr()
		if ft == symbols.Void {
			p.diags.Semantic(line, "a function returning void must not return a value")
		} else {
			node.Append(p.coerce(ft, expr, line, "return value"))
		}
	} else if ft != symbols.Void {
		p.diags.Semantic(line, "a function returning %s must return a value", ft)
	}
	p.expect(token.Kind(';'), "';'")
	return node
}

// --- expressions, lowest to highest precedence ---

func (p *Parser) parseExpr() *ast.Tree {
	return p.parseAssignment()
}

func (p *Parser) parseAssignment() *ast.Tree {
	left := p.parseLogicalOr()
	if p.current().Kind != token.Kind('=') {
		return left
	}
	line := p.current().Span.Line
	p.eat()
	rhs := p.parseAssignment()

	if left.Value.Kind != ast.VariableRef {
		p.diags.Semantic(line, "the left-hand side of an assignment must be a variable")
		return left
	}
	name := left.Value.StringVal
	target := left.Value.Type
	if sym, ok := p.table.Get(name); ok {
		target = sym.Type
	}
	rhs = p.coerce(target, rhs, line, "assignment")

	node := ast.NewAssign(target)
	node.Append(left).Append(rhs)
	return node
}

func (p *Parser) parseLogicalOr() *ast.Tree {
	left := p.parseLogicalAnd()
	for p.current().Kind == token.KindOrOr {
		line := p.current().Span.Line
		p.eat()
		right := p.parseLogicalAnd()
		p.checkBooleanOperands(left, right, line, "||")
		left = ast.NewLogOr().Append(left).Append(right)
	}
	return left
}

func (p *Parser) parseLogicalAnd() *ast.Tree {
	left := p.parseEquality()
	for p.current().Kind == token.KindAndAnd {
		line := p.current().Span.Line
		p.eat()
		right := p.parseEquality()
		p.checkBooleanOperands(left, right, line, "&&")
		left = ast.NewLogAnd().Append(left).Append(right)
	}
	return left
}

func (p *Parser) checkBooleanOperands(left, right *ast.Tree, line uint32, opName string) {
	if left.SymbolType() != symbols.Boolean || right.SymbolType() != symbols.Boolean {
		p.diags.Semantic(line, "operands of %s must be Boolean", opName)
	}
}

func (p *Parser) parseEquality() *ast.Tree {
	left := p.parseRelational()
	for p.current().Kind == token.KindEqEq || p.current().Kind == token.KindNeq {
		isEq := p.current().Kind == token.KindEqEq
		line := p.current().Span.Line
		p.eat()
		right := p.parseRelational()
		opName := "=="
		if !isEq {
			opName = "!="
		}
		l, r := p.combineEquality(left, right, line, opName)
		var node *ast.Tree
		if isEq {
			node = ast.NewEq()
		} else {
			node = ast.NewNeq()
		}
		left = node.Append(l).Append(r)
	}
	return left
}

func (p *Parser) combineEquality(left, right *ast.Tree, line uint32, opName string) (*ast.Tree, *ast.Tree) {
	lt, rt := left.SymbolType(), right.SymbolType()
	if lt == symbols.Boolean && rt == symbols.Boolean {
		return left, right
	}
	if lt == symbols.String || rt == symbols.String {
		p.diags.Semantic(line, "%s does not support String operands", opName)
		return left, right
	}
	if isNumeric(lt) && isNumeric(rt) {
		l, r, _ := p.combineNumeric(left, right, line, opName)
		return l, r
	}
	p.diags.Semantic(line, "operands of %s have incompatible types %s and %s", opName, lt, rt)
	return left, right
}

func isNumeric(t symbols.Type) bool {
	return t == symbols.Integer || t == symbols.Float
}

func (p *Parser) parseRelational() *ast.Tree {
	left := p.parseAdditive()
	for {
		k := p.current().Kind
		var ctor func() *ast.Tree
		var opName string
		switch k {
		case token.KindLess:
			ctor, opName = ast.NewLst, "<"
		case token.KindGreater:
			ctor, opName = ast.NewGrt, ">"
		case token.KindLeq:
			ctor, opName = ast.NewLeq, "<="
		case token.KindGeq:
			ctor, opName = ast.NewGeq, ">="
		default:
			return left
		}
		line := p.current().Span.Line
		p.eat()
		right := p.parseAdditive()
		l, r, _ := p.combineNumeric(left, right, line, opName)
		left = ctor().Append(l).Append(r)
	}
}

func (p *Parser) parseAdditive() *ast.Tree {
	left := p.parseMultiplicative()
	for p.current().Kind == token.Kind('+') || p.current().Kind == token.Kind('-') {
		isPlus := p.current().Kind == token.Kind('+')
		line := p.current().Span.Line
		p.eat()
		right := p.parseMultiplicative()
		opName := "+"
		if !isPlus {
			opName = "-"
		}
		l, r, t := p.combineNumeric(left, right, line, opName)
		var node *ast.Tree
		if isPlus {
			node = ast.NewPlus(t)
		} else {
			node = ast.NewMinus(t)
		}
		left = node.Append(l).Append(r)
	}
	return left
}

func (p *Parser) parseMultiplicative() *ast.Tree {
	left := p.parseUnary()
	for p.current().Kind == token.Kind('*') || p.current().Kind == token.Kind('/') {
		isTimes := p.current().Kind == token.Kind('*')
		line := p.current().Span.Line
		p.eat()
		right := p.parseUnary()
		opName := "*"
		if !isTimes {
			opName = "/"
		}
		l, r, t := p.combineNumeric(left, right, line, opName)
		var node *ast.Tree
		if isTimes {
			node = ast.NewTimes(t)
		} else {
			node = ast.NewDivide(t)
		}
		left = node.Append(l).Append(r)
	}
	return left
}

func (p *Parser) combineNumeric(left, right *ast.Tree, line uint32, opName string) (*ast.Tree, *ast.Tree, symbols.Type) {
	lt, rt := left.SymbolType(), right.SymbolType()
	switch {
	case lt == symbols.Integer && rt == symbols.Integer:
		return left, right, symbols.Integer
	case lt == symbols.Float && rt == symbols.Float:
		return left, right, symbols.Float
	case lt == symbols.Integer && rt == symbols.Float:
		return ast.NewCast(symbols.Float).Append(left), right, symbols.Float
	case lt == symbols.Float && rt == symbols.Integer:
		return left, ast.NewCast(symbols.Float).Append(right), symbols.Float
	default:
		p.diags.Semantic(line, "operands of %s must be numeric (found %s and %s)", opName, lt, rt)
		return left, right, symbols.Integer
	}
}

func (p *Parser) parseUnary() *ast.Tree {
	if p.current().Kind == token.Kind('-') {
		line := p.current().Span.Line
		p.eat()
		operand := p.parseUnary()
		t := operand.SymbolType()
		if t != symbols.Integer && t != symbols.Float {
			p.diags.Semantic(line, "the operand of unary '-' must be numeric (found %s)", t)
			t = symbols.Integer
		}
		return ast.NewUMinus(t).Append(operand)
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() *ast.Tree {
	tok := p.current()
	line := tok.Span.Line
	switch tok.Kind {
	case token.KindConstInt:
		p.eat()
		v, _ := strconv.ParseInt(tok.Text, 10, 32)
		return ast.NewInteger(int32(v))
	case token.KindConstFloat:
		p.eat()
		v, _ := strconv.ParseFloat(tok.Text, 64)
		return ast.NewFloat(v)
	case token.KindConstBoolean:
		p.eat()
		return ast.NewBoolean(tok.Text == "true")
	case token.KindConstString:
		p.eat()
		return ast.NewString(tok.Text)
	case token.Kind('('):
		p.eat()
		inner := p.parseExpr()
		p.expect(token.Kind(')'), "')'")
		return inner
	case token.KindID:
		p.eat()
		name := tok.Text
		if p.current().Kind == token.Kind('(') {
			return p.parseCallArgs(name, line)
		}
		sym, ok := p.table.Get(name)
		if !ok {
			p.diags.Semantic(line, "%q is not declared", name)
			return ast.NewVariableRef(name, symbols.Void)
		}
		if sym.Class == symbols.ClassFunction {
			p.diags.Semantic(line, "%q is a function and cannot be used as a value", name)
			return ast.NewVariableRef(name, symbols.Void)
		}
		return ast.NewVariableRef(name, sym.Type)
	default:
		p.diags.Syntactical(line, "expected an expression, found %s", tok.Kind)
		panic(parseAbort{})
	}
}

func (p *Parser) parseCallArgs(name string, line uint32) *ast.Tree {
	sym, ok := p.table.Get(name)
	isFunc := ok && sym.Class == symbols.ClassFunction
	if !ok {
		p.diags.Semantic(line, "%q is not declared", name)
	} else if !isFunc {
		p.diags.Semantic(line, "%q is not a function", name)
	}

	p.expect(token.Kind('('), "'('")
	var args []*ast.Tree
	if p.current().Kind != token.Kind(')') {
		for {
			args = append(args, p.parseExpr())
			if p.current().Kind == token.Kind(',') {
				p.eat()
				continue
			}
			break
		}
	}
	p.expect(token.Kind(')'), "')'")

	retType := symbols.Void
	if isFunc {
		retType = sym.Type
		params := sym.Parameters
		if len(args) != len(params) {
			p.diags.Semantic(line, "%q expects %d argument(s), found %d", name, len(params), len(args))
		} else {
			for i := range args {
				args[i] = p.coerce(params[i].Type, args[i], line, fmt.Sprintf("argument %d to %q", i+1, name))
			}
		}
	}

	argSeq := ast.NewSequence()
	for _, a := range args {
		argSeq.Append(a)
	}
	return ast.NewFunctionCall(name, retType).Append(argSeq)
}

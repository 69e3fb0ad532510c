package golox

import (
	"fmt"
	"io"
	"os"
	"strconv"
)

type precedence int

const (
	precNone       precedence = iota
	precAssignment            // =
	precOr                    // or
	precAnd                   // and
	precEquality              // == !=
	precComparison            // < > <= >=
	precTerm                  // + -
	precFactor                // * /
	precUnary                 // ! -
	precCall                  // . ()
	precPrimary
)

type parseFunction func(c *compiler, canAssign bool)

type parseRule struct {
	nud parseFunction
	led parseFunction
	precedence
}

var rules [tokensCount]parseRule

func init() {
	rules[tokenLeftParen] = parseRule{grouping, nil, precNone}        // (
	rules[tokenMinus] = parseRule{unary, binary, precTerm}            // -
	rules[tokenPlus] = parseRule{nil, binary, precTerm}               // +
	rules[tokenSlash] = parseRule{nil, binary, precFactor}            // /
	rules[tokenStar] = parseRule{nil, binary, precFactor}             // *
	rules[tokenBang] = parseRule{unary, nil, precNone}                // !
	rules[tokenBangEqual] = parseRule{nil, binary, precEquality}      // !=
	rules[tokenEqualEqual] = parseRule{nil, binary, precEquality}     // ==
	rules[tokenGreater] = parseRule{nil, binary, precComparison}      // >
	rules[tokenGreaterEqual] = parseRule{nil, binary, precComparison} // >=
	rules[tokenLess] = parseRule{nil, binary, precComparison}         // <
	rules[tokenLessEqual] = parseRule{nil, binary, precComparison}    // <=
	rules[tokenIdentifier] = parseRule{variable, nil, precNone}       // ident
	rules[tokenString] = parseRule{string_, nil, precNone}            // "string"
	rules[tokenNumber] = parseRule{number, nil, precNone}             // 12.3
	rules[tokenFalse] = parseRule{literal, nil, precNone}             // false
	rules[tokenNil] = parseRule{literal, nil, precNone}               // nil
	rules[tokenTrue] = parseRule{literal, nil, precNone}              // true
}

func binary(c *compiler, canAssign bool) {
	operatorType := c.previous.tokenType
	rule := rules[operatorType]
	c.parsePrecedence(rule.precedence + 1)
	switch operatorType {
	case tokenBangEqual:
		c.emitBytes(opEqual, opNot)
	case tokenEqualEqual:
		c.emitByte(opEqual)
	case tokenGreater:
		c.emitByte(opGreater)
	case tokenGreaterEqual:
		c.emitBytes(opLess, opNot)
	case tokenLess:
		c.emitByte(opLess)
	case tokenLessEqual:
		c.emitBytes(opGreater, opNot)
	case tokenPlus:
		c.emitByte(opAdd)
	case tokenMinus:
		c.emitByte(opSubtract)
	case tokenStar:
		c.emitByte(opMultiply)
	case tokenSlash:
		c.emitByte(opDivide)
	default:
		panic("binary: unknown operator")
	}
}

func unary(c *compiler, canAssign bool) {
	operatorType := c.previous.tokenType
	c.parsePrecedence(precUnary)
	switch operatorType {
	case tokenBang:
		c.emitByte(opNot)
	case tokenMinus:
		c.emitByte(opNegate)
	default:
		panic("unary: unknown operator")
	}
}

func literal(c *compiler, canAssign bool) {
	switch c.previous.tokenType {
	case tokenNil:
		c.emitByte(opNil)
	case tokenFalse:
		c.emitByte(opFalse)
	case tokenTrue:
		c.emitByte(opTrue)
	default:
		return
	}
}

func grouping(c *compiler, canAssign bool) {
	c.expression()
	c.consume(tokenRightParen, "Expect ')' after expression.")
}

func number(c *compiler, canAssign bool) {
	value, err := strconv.ParseFloat(c.previous.literal, 64)
	if err != nil {
		panic(err)
	}
	c.emitConstant(Number(value))
}

func string_(c *compiler, canAssign bool) {
	c.emitConstant(
		String(c.previous.literal[1 : len(c.previous.literal)-1]),
	)
}

func variable(c *compiler, canAssign bool) {
	c.namedVariable(c.previous.literal, canAssign)
}

type parser struct {
	scanner
	current   token
	previous  token
	hadError  bool
	panicMode bool
	errw      io.Writer
}

func newParser(source []byte) parser {
	return parser{scanner: newScanner(source), errw: os.Stderr}
}

func (p *parser) errorAt(token *token, message string) {
	if p.panicMode {
		return
	}
	p.panicMode = true
	fmt.Fprintf(p.errw, "[line %d] Error", token.line)

	switch token.tokenType {
	case tokenEof:
		fmt.Fprintf(p.errw, " at end")
	case tokenError:
	default:
		fmt.Fprintf(p.errw, " at '%s'", token.literal)
	}

	fmt.Fprintf(p.errw, ": %s\n", message)
	p.hadError = true
}

func (p *parser) error(message string) {
	p.errorAt(&p.previous, message)
}

func (p *parser) errorAtCurrent(message string) {
	p.errorAt(&p.current, message)
}

func (p *parser) advance() {
	p.previous = p.current
	for {
		p.current = p.scanner.scanToken()
		if p.current.tokenType != tokenError {
			break
		}
		p.errorAtCurrent(p.current.literal)
	}
}

func (p *parser) consume(t tokenType, message string) {
	if p.current.tokenType == t {
		p.advance()
		return
	}
	p.errorAtCurrent(message)
}

func (p *parser) check(t tokenType) bool {
	return p.current.tokenType == t
}

func (p *parser) match(t tokenType) bool {
	if !p.check(t) {
		return false
	}
	p.advance()
	return true
}

// A local's index in this table is its slot on the VM's operand
// stack. Locals are appended in declaration order and truncated when
// their scope ends, never reordered. depth -1 marks a local that is
// declared but still inside its own initializer.
type localVariable struct {
	name  string
	depth int
}

type compiler struct {
	*parser
	chunk      *chunk
	locals     []localVariable
	scopeDepth int
}

func newCompiler(source []byte) *compiler {
	p := newParser(source)
	return &compiler{
		parser:     &p,
		chunk:      newChunk(),
		locals:     make([]localVariable, 0, uint8Count),
		scopeDepth: 0,
	}
}

// compile drives the single pass: tokens in, bytecode out. Errors are
// reported as they are found and parsing continues to the end of the
// source; the chunk is only handed back when nothing went wrong.
func (c *compiler) compile() *chunk {
	c.advance()
	for !c.match(tokenEof) {
		c.declaration()
	}
	if c.hadError {
		return nil
	}
	c.emitReturn()
	return c.chunk
}

func (c *compiler) declaration() {
	if c.match(tokenVar) {
		c.varDeclaration()
	} else {
		c.statement()
	}

	if c.panicMode {
		c.synchronize()
	}
}

func (c *compiler) statement() {
	if c.match(tokenPrint) {
		c.printStatement()
	} else if c.match(tokenLeftBrace) {
		c.beginScope()
		c.block()
		c.endScope()
	} else {
		c.expressionStatement()
	}
}

// declarations ============================================================== /

func (c *compiler) varDeclaration() {
	global := c.parseVariable("Expect variable name.")
	if c.match(tokenEqual) {
		c.expression()
	} else {
		c.emitByte(opNil)
	}
	c.consume(tokenSemicolon, "Expect ';' after variable declaration.")
	c.defineVariable(global)
}

// statements ================================================================ /

func (c *compiler) block() {
	for !c.check(tokenRightBrace) && !c.check(tokenEof) {
		c.declaration()
	}
	c.consume(tokenRightBrace, "Expect '}': no matching token found.")
}

func (c *compiler) printStatement() {
	c.expression()
	c.consume(tokenSemicolon, "Expected ';' after value.")
	c.emitByte(opPrint)
}

func (c *compiler) expressionStatement() {
	c.expression()
	c.consume(tokenSemicolon, "Expect ';' after expression.")
	c.emitByte(opPop)
}

// other ===================================================================== /

func (c *compiler) expression() {
	c.parsePrecedence(precAssignment)
}

func (c *compiler) parsePrecedence(prec precedence) {
	c.advance()
	prefixRule := rules[c.previous.tokenType].nud
	if prefixRule == nil {
		c.error("Expected expression.")
		return
	}

	canAssign := prec <= precAssignment
	prefixRule(c, canAssign)

	for prec <= rules[c.current.tokenType].precedence {
		c.advance()
		infixRule := rules[c.previous.tokenType].led
		infixRule(c, canAssign)
	}

	if canAssign && c.match(tokenEqual) {
		c.error("Invalid assignment target.")
	}
}

func (c *compiler) beginScope() { c.scopeDepth++ }

func (c *compiler) endScope() {
	c.scopeDepth--

	for len(c.locals) > 0 && c.locals[len(c.locals)-1].depth > c.scopeDepth {
		c.emitByte(opPop)
		c.locals = c.locals[:len(c.locals)-1]
	}
}

func (c *compiler) parseVariable(message string) uint8 {
	c.consume(tokenIdentifier, message)
	c.declareVariable()
	if c.scopeDepth > 0 {
		return 0
	}
	return c.identifierConstant(c.previous.literal)
}

func (c *compiler) identifierConstant(name string) uint8 {
	return c.makeConstant(String(name))
}

func (c *compiler) markInitialized() {
	c.locals[len(c.locals)-1].depth = c.scopeDepth
}

func (c *compiler) defineVariable(global uint8) {
	if c.scopeDepth > 0 {
		// A local's value is already sitting in its slot; marking it
		// initialized is all a local definition takes.
		c.markInitialized()
		return
	}
	c.emitBytes(opDefineGlobal, global)
}

func (c *compiler) declareVariable() {
	if c.scopeDepth == 0 {
		return
	}
	name := c.previous.literal
	for i := len(c.locals) - 1; i >= 0; i-- {
		local := &c.locals[i]
		if local.depth < c.scopeDepth && local.depth != -1 {
			break
		}
		if local.name == name {
			c.error("Re-definition of an existing variable in this scope.")
		}
	}
	c.addLocal(name)
}

func (c *compiler) addLocal(name string) {
	if len(c.locals) == uint8Count {
		c.error("Too many local variables declared in function.")
		return
	}
	c.locals = append(c.locals, localVariable{name, -1})
}

func (c *compiler) resolveLocal(name string) int {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].name == name {
			if c.locals[i].depth == -1 {
				c.error("Can't read local variable in its own initializer.")
			}
			return i
		}
	}
	return -1
}

func (c *compiler) namedVariable(name string, canAssign bool) {
	var getOp, setOp uint8

	var arg int
	if arg = c.resolveLocal(name); arg != -1 {
		getOp = opGetLocal
		setOp = opSetLocal
	} else {
		arg = int(c.identifierConstant(name))
		getOp = opGetGlobal
		setOp = opSetGlobal
	}

	if canAssign && c.match(tokenEqual) {
		c.expression()
		c.emitBytes(setOp, uint8(arg))
	} else {
		c.emitBytes(getOp, uint8(arg))
	}
}

func (c *compiler) emitByte(b uint8) {
	c.chunk.writeCode(b, c.previous.line)
}

func (c *compiler) emitBytes(b1, b2 uint8) {
	c.emitByte(b1)
	c.emitByte(b2)
}

func (c *compiler) emitReturn() {
	c.emitByte(opReturn)
}

func (c *compiler) makeConstant(value Value) uint8 {
	constant := c.chunk.addConstant(value)
	if constant > int(uint8Max) {
		c.error("Too many constants in one chunk")
		return 0
	}
	return uint8(constant)
}

func (c *compiler) emitConstant(value Value) {
	c.emitBytes(opConstant, c.makeConstant(value))
}

func (c *compiler) synchronize() {
	c.panicMode = false

	for c.current.tokenType != tokenEof {
		if c.previous.tokenType == tokenSemicolon {
			return
		}
		switch c.current.tokenType {
		case tokenClass, tokenFun, tokenVar, tokenFor,
			tokenIf, tokenWhile, tokenPrint, tokenReturn:
			return
		}

		c.advance()
	}
}

package shell

import (
	"strings"

	"github.com/edwingeng/deque"
	"github.com/spf13/afero"

	"github.com/cristivlas/shmy-sub000/core/command"
	"github.com/cristivlas/shmy-sub000/core/scope"
	"github.com/cristivlas/shmy-sub000/core/value"
)

// Parser builds an expression tree in a single pass over the tokens.
//
// The node under construction is kept in current. Operators waiting for
// their right operand, IF and WHILE waiting for a condition, and the cursor
// saved when a group opens are kept on the exprs stack. Enclosing groups
// are kept on the groups stack.
type Parser struct {
	lex *Lexer
	reg *command.Registry
	sc  *scope.Scope

	current Node
	group   *Group
	exprs   deque.Deque
	groups  deque.Deque
}

// Parse parses input into a block of statements. Command names are resolved
// against reg, which may be nil, and glob patterns are expanded against fs.
func Parse(input string, reg *command.Registry, sc *scope.Scope, fs afero.Fs) (*Group, error) {
	p := &Parser{
		reg:    reg,
		sc:     sc,
		group:  &Group{kind: Block, loc: Location{Line: 1}},
		exprs:  deque.NewDeque(),
		groups: deque.NewDeque(),
	}
	p.lex = newLexer(input, p, fs)

	if err := p.parse(); err != nil {
		return nil, err
	}
	return p.group, nil
}

func (p *Parser) operandPending() bool {
	if p.group.kind == Args || p.current == nil {
		return false
	}
	_, isCmd := p.current.(*Command)
	return !isCmd
}

func (p *Parser) inArgs() bool {
	return p.group.kind == Args
}

func (p *Parser) numeric(text string) bool {
	if p.sc != nil {
		if expanded, err := Substitute(p.sc, text); err == nil {
			text = expanded
		}
	}
	return value.IsNumeric(text)
}

func (p *Parser) parse() error {
	for {
		tok, err := p.lex.Next()
		if err != nil {
			return err
		}

		switch tok.Kind {
		case TokEnd:
			if err := p.finishStatement(tok.Loc, true); err != nil {
				return err
			}
			if p.groups.Len() > 0 {
				return newError(ParseError, tok.Loc, ErrUnmatchedParenthesis)
			}
			return nil

		case TokLiteral:
			err = p.literal(tok)

		case TokOperator:
			err = p.operator(tok)

		case TokLeftParen:
			err = p.leftParen(tok)

		case TokRightParen:
			err = p.rightParen(tok)

		case TokSemicolon:
			err = p.finishStatement(tok.Loc, false)
		}

		if err != nil {
			return err
		}
	}
}

func (p *Parser) leftParen(tok Token) error {
	if err := p.startTerm(); err != nil {
		return err
	}
	switch p.current.(type) {
	case nil, *Branch, *Loop, *For:
	case *Literal:
		return newError(ParseError, tok.Loc, ErrExpressionAfterLiteral)
	default:
		return errorf(ParseError, tok.Loc, "Dangling expression")
	}
	p.push(Block, tok.Loc)
	return nil
}

func (p *Parser) rightParen(tok Token) error {
	if p.group.kind == Args {
		if err := p.finishArgs(); err != nil {
			return err
		}
	}
	if p.groups.Len() == 0 {
		return newError(ParseError, tok.Loc, ErrUnmatchedClosedParenthesis)
	}
	if err := p.finishStatement(tok.Loc, true); err != nil {
		return err
	}
	return p.popGroup()
}

var keywords = map[string]bool{
	"if": true, "else": true, "for": true, "in": true,
	"while": true, "break": true, "continue": true,
}

func (p *Parser) literal(tok Token) error {
	if !tok.Quoted && p.group.kind != Args {
		if kw := strings.ToLower(tok.Text); keywords[kw] {
			return p.keyword(kw, tok.Loc)
		}
	}

	if err := p.startTerm(); err != nil {
		return err
	}

	lit := &Literal{text: tok.Text, quoted: tok.Quoted, raw: tok.Raw, loc: tok.Loc}

	if p.current == nil && p.group.kind != Args && !tok.Quoted && p.reg != nil {
		if _, ok := p.reg.Get(tok.Text); ok {
			p.current = &Command{name: tok.Text, loc: tok.Loc}
			p.push(Args, tok.Loc)
			return nil
		}
	}
	return p.addExpr(lit)
}

func (p *Parser) keyword(kw string, loc Location) error {
	switch kw {
	case "if", "while":
		if err := p.startTerm(); err != nil {
			return err
		}
		var n Node = &Branch{pending: true, loc: loc}
		if kw == "while" {
			n = &Loop{pending: true, loc: loc}
		}
		if p.current != nil {
			return p.addExpr(n)
		}
		p.exprs.PushBack(n)

	case "for":
		if err := p.startTerm(); err != nil {
			return err
		}
		return p.addExpr(&For{loc: loc})

	case "in":
		f, ok := p.current.(*For)
		if !ok || f.args != nil {
			return errorf(ParseError, loc, "IN without FOR")
		}
		if f.varName == nil {
			return errorf(ParseError, loc, "Expecting identifier in FOR expression")
		}
		p.push(Args, loc)

	case "else":
		b, ok := p.current.(*Branch)
		if !ok {
			if p.pendingCond() != nil {
				return errorf(ParseError, loc, "Conditional expression or IF branch missing")
			}
			return errorf(ParseError, loc, "ELSE without IF")
		}
		if b.then == nil {
			return errorf(ParseError, loc, "Conditional expression or IF branch missing")
		}
		if b.expectElse || b.els != nil {
			return errorf(ParseError, loc, "ELSE without IF")
		}
		b.expectElse = true

	case "break", "continue":
		if !p.group.inLoop {
			return errorf(ParseError, loc, "%s outside loop", strings.ToUpper(kw))
		}
		if err := p.startTerm(); err != nil {
			return err
		}
		if kw == "break" {
			return p.addExpr(&Break{loc: loc})
		}
		return p.addExpr(&Continue{loc: loc})
	}
	return nil
}

func (p *Parser) operator(tok Token) error {
	if tok.Op == OpNot {
		if err := p.startTerm(); err != nil {
			return err
		}
		if p.current != nil {
			return p.addExpr(&Unary{loc: tok.Loc})
		}
		p.exprs.PushBack(&Unary{pending: true, loc: tok.Loc})
		return nil
	}

	if p.group.kind == Args {
		switch tok.Op {
		case OpAnd, OpOr, OpPipe:
			if err := p.finishArgs(); err != nil {
				return err
			}
		}
	}

	if err := p.reduce(tok.Op.precedence(), tok.Op.rightAssoc()); err != nil {
		return err
	}
	if p.current == nil {
		return errorf(ParseError, tok.Loc, "Expecting left-hand term in binary operation")
	}
	if err := checkComplete(p.current); err != nil {
		return err
	}

	p.exprs.PushBack(&Binary{op: tok.Op, lhs: p.current, pending: true, loc: tok.Loc})
	p.current = nil
	return nil
}

// startTerm runs before anything that begins an operand.
func (p *Parser) startTerm() error {
	if err := p.resolveCondition(); err != nil {
		return err
	}
	if p.group.kind == Args && p.current != nil {
		if err := p.reduce(0, false); err != nil {
			return err
		}
		p.group.items = append(p.group.items, p.current)
		p.current = nil
	}
	return nil
}

func (p *Parser) top() (interface{}, bool) {
	if p.exprs.Len() == 0 {
		return nil, false
	}
	return p.exprs.Back(), true
}

// pendingCond returns the IF or WHILE at the top of the stack, looking past
// operators that are still waiting for operands.
func (p *Parser) pendingCond() Node {
	var skipped []interface{}
	defer func() {
		for i := len(skipped) - 1; i >= 0; i-- {
			p.exprs.PushBack(skipped[i])
		}
	}()

	for p.exprs.Len() > 0 {
		switch n := p.exprs.Back().(type) {
		case *Binary:
			if !n.pending {
				return nil
			}
		case *Unary:
			if !n.pending {
				return nil
			}
		case *Branch:
			if n.pending {
				return n
			}
			return nil
		case *Loop:
			if n.pending {
				return n
			}
			return nil
		default:
			return nil
		}
		skipped = append(skipped, p.exprs.PopBack())
	}
	return nil
}

// resolveCondition completes the condition of a pending IF or WHILE once the
// expression following the keyword ends.
func (p *Parser) resolveCondition() error {
	if p.current == nil || p.pendingCond() == nil {
		return nil
	}
	if err := p.reduce(0, false); err != nil {
		return err
	}
	switch n := p.exprs.PopBack().(type) {
	case *Branch:
		n.cond, n.pending = p.current, false
		p.current = n
	case *Loop:
		n.cond, n.pending = p.current, false
		p.current = n
	}
	return nil
}

// reduce pops the pending operators that bind tighter than prec, making
// current their right operand.
func (p *Parser) reduce(prec int, rightAssoc bool) error {
	for {
		top, ok := p.top()
		if !ok {
			return nil
		}

		switch n := top.(type) {
		case *Binary:
			if !n.pending {
				return nil
			}
			np := n.op.precedence()
			if np < prec || (np == prec && rightAssoc) {
				return nil
			}
			if p.current == nil && n.op != OpAssign {
				return errorf(ParseError, n.loc, "Expecting right hand-side expression")
			}
			if err := checkComplete(p.current); err != nil {
				return err
			}
			p.exprs.PopBack()
			n.rhs, n.pending = p.current, false
			p.current = n

		case *Unary:
			if !n.pending {
				return nil
			}
			if p.current == nil {
				return newError(ParseError, n.loc, ErrEmptyExpression)
			}
			if err := checkComplete(p.current); err != nil {
				return err
			}
			p.exprs.PopBack()
			n.operand, n.pending = p.current, false
			p.current = n

		default:
			return nil
		}
	}
}

// push saves the cursor and opens a group.
func (p *Parser) push(kind GroupKind, loc Location) {
	inLoop := p.group.inLoop
	if kind == Block {
		switch n := p.current.(type) {
		case *For:
			inLoop = inLoop || n.args != nil
		case *Loop:
			inLoop = inLoop || n.cond != nil
		}
	}

	p.exprs.PushBack(p.current)
	p.groups.PushBack(p.group)

	p.current = nil
	p.group = &Group{kind: kind, inLoop: inLoop, loc: loc}
}

// popGroup closes the current group and attaches it to the saved cursor.
func (p *Parser) popGroup() error {
	finished := p.group
	p.group = p.groups.PopBack().(*Group)
	p.current, _ = p.exprs.PopBack().(Node)
	return p.addExpr(finished)
}

func (p *Parser) finishArgs() error {
	if err := p.reduce(0, false); err != nil {
		return err
	}
	if p.current != nil {
		p.group.items = append(p.group.items, p.current)
		p.current = nil
	}
	return p.popGroup()
}

// finishStatement ends the statement under construction and adds it to the
// current group.
func (p *Parser) finishStatement(loc Location, final bool) error {
	if p.group.kind == Args {
		if err := p.finishArgs(); err != nil {
			return err
		}
	}

	// for x in a b c; (body)
	if f, ok := p.current.(*For); ok && !final && f.args != nil && f.body == nil {
		return nil
	}

	if err := p.reduce(0, false); err != nil {
		return err
	}
	if err := p.resolveCondition(); err != nil {
		return err
	}
	switch n := p.pendingCond().(type) {
	case *Branch:
		return errorf(ParseError, n.loc, "Expecting IF condition")
	case *Loop:
		return errorf(ParseError, n.loc, "Expecting WHILE condition")
	}
	if p.current == nil {
		return nil
	}
	if err := checkComplete(p.current); err != nil {
		return err
	}
	p.group.items = append(p.group.items, p.current)
	p.current = nil
	return nil
}

// checkComplete fails for control flow statements that are missing a part.
func checkComplete(n Node) error {
	switch n := n.(type) {
	case *For:
		if n.varName == nil {
			return errorf(ParseError, n.loc, "Expecting identifier in FOR expression")
		}
		if n.args == nil {
			return errorf(ParseError, n.loc, "Expecting IN after FOR variable")
		}
		if n.body == nil {
			return errorf(ParseError, n.loc, "Expecting FOR body")
		}
	case *Branch:
		if n.then == nil {
			return errorf(ParseError, n.loc, "Expecting IF body")
		}
		if n.expectElse && n.els == nil {
			return errorf(ParseError, n.loc, "Dangling ELSE")
		}
	case *Loop:
		if n.body == nil {
			return errorf(ParseError, n.loc, "Expecting WHILE body")
		}
	}
	return nil
}

// addExpr attaches a finished term to the cursor.
func (p *Parser) addExpr(n Node) error {
	if n == nil {
		return newError(ParseError, p.lex.Loc(), ErrEmptyExpression)
	}

	block, isBlock := n.(*Group)
	isBlock = isBlock && block.kind == Block

	switch cur := p.current.(type) {
	case nil:
		p.current = n
		return nil

	case *Literal:
		if p.group.kind == Args {
			p.group.items = append(p.group.items, cur)
			p.current = n
			return nil
		}
		return newError(ParseError, n.Loc(), ErrExpressionAfterLiteral)

	case *Command:
		if args, ok := n.(*Group); ok && args.kind == Args && cur.args == nil {
			cur.args = args
			return nil
		}

	case *Branch:
		if cur.then == nil {
			if !isBlock {
				return errorf(ParseError, n.Loc(), "Parentheses are required around IF body")
			}
			cur.then = n
			return nil
		}
		if cur.expectElse && cur.els == nil {
			if !isBlock {
				return errorf(ParseError, n.Loc(), "Parentheses are required around ELSE body")
			}
			cur.els = n
			return nil
		}

	case *Loop:
		if cur.body == nil {
			if !isBlock {
				return errorf(ParseError, n.Loc(), "Parentheses are required around WHILE body")
			}
			cur.body = n
			return nil
		}

	case *For:
		switch {
		case cur.varName == nil:
			lit, ok := n.(*Literal)
			if !ok {
				return errorf(ParseError, n.Loc(), "Expecting identifier in FOR expression")
			}
			cur.varName = lit
			return nil
		case cur.args == nil:
			args, ok := n.(*Group)
			if !ok || args.kind != Args {
				return errorf(ParseError, n.Loc(), "Expecting IN after FOR variable")
			}
			cur.args = args
			return nil
		case cur.body == nil:
			if !isBlock {
				return errorf(ParseError, n.Loc(), "Parentheses are required around FOR body")
			}
			cur.body = n
			return nil
		}
	}

	if p.group.kind == Args {
		if err := checkComplete(p.current); err != nil {
			return err
		}
		p.group.items = append(p.group.items, p.current)
		p.current = n
		return nil
	}
	return errorf(ParseError, n.Loc(), "Dangling expression")
}

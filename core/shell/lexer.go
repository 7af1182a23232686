package shell

import (
	"strings"
	"unicode"

	"github.com/spf13/afero"

	"github.com/cristivlas/shmy-sub000/core/value"
)

// lexContext is the part of the parser state that decides how ambiguous
// characters are read.
type lexContext interface {
	// operandPending reports whether a left operand was just completed, so
	// '-' and '/' read as operators rather than the start of a word.
	operandPending() bool
	// inArgs reports whether the next literal is a command argument.
	inArgs() bool
	// numeric reports whether text is a number once variables are
	// substituted.
	numeric(text string) bool
}

// Lexer splits input into tokens.
type Lexer struct {
	src []rune
	pos int
	loc Location

	ctx lexContext
	fs  afero.Fs

	comment bool
	globbed []Token
}

// NewLexer creates a lexer over input. Glob patterns in arguments are
// expanded against fs, a nil fs disables expansion.
func NewLexer(input string, fs afero.Fs) *Lexer {
	l := newLexer(input, nil, fs)
	l.ctx = &tokenHistory{lexer: l}
	return l
}

func newLexer(input string, ctx lexContext, fs afero.Fs) *Lexer {
	return &Lexer{
		src: []rune(input),
		loc: Location{Line: 1},
		ctx: ctx,
		fs:  fs,
	}
}

// tokenHistory decides operator context from the previous token when the
// lexer runs without a parser.
type tokenHistory struct {
	lexer *Lexer
	last  Token
}

func (h *tokenHistory) operandPending() bool {
	return h.last.Kind == TokLiteral || h.last.Kind == TokRightParen
}

func (h *tokenHistory) inArgs() bool {
	return false
}

func (h *tokenHistory) numeric(text string) bool {
	return value.IsNumeric(text)
}

// Loc returns the position of the next rune.
func (l *Lexer) Loc() Location {
	return l.loc
}

func (l *Lexer) peek(offset int) (rune, bool) {
	if l.pos+offset >= len(l.src) {
		return 0, false
	}
	return l.src[l.pos+offset], true
}

func (l *Lexer) peekIs(offset int, want rune) bool {
	c, ok := l.peek(offset)
	return ok && c == want
}

func (l *Lexer) advance() {
	if l.pos >= len(l.src) {
		return
	}
	if l.src[l.pos] == '\n' {
		l.loc.Line++
		l.loc.Col = 0
	} else {
		l.loc.Col++
	}
	l.pos++
}

// Next returns the next token, TokEnd once the input is exhausted.
func (l *Lexer) Next() (Token, error) {
	tok, err := l.next()
	if h, ok := l.ctx.(*tokenHistory); ok && err == nil {
		h.last = tok
	}
	return tok, err
}

func (l *Lexer) next() (Token, error) {
	if len(l.globbed) > 0 {
		tok := l.globbed[0]
		l.globbed = l.globbed[1:]
		return tok, nil
	}

	for l.pos < len(l.src) {
		c := l.src[l.pos]

		if c == '\n' {
			l.comment = false
			l.advance()
			continue
		}
		if l.comment || unicode.IsSpace(c) {
			l.advance()
			continue
		}

		start := l.loc
		switch c {
		case '#':
			l.comment = true
			l.advance()
			continue
		case '(':
			l.advance()
			return Token{Kind: TokLeftParen, Loc: start}, nil
		case ')':
			l.advance()
			return Token{Kind: TokRightParen, Loc: start}, nil
		case ';':
			l.advance()
			return Token{Kind: TokSemicolon, Loc: start}, nil
		case '%':
			return l.operator(start, OpMod, 1), nil
		case '+':
			return l.operator(start, OpPlus, 1), nil
		case '&':
			if l.peekIs(1, '&') {
				return l.operator(start, OpAnd, 2), nil
			}
			return Token{}, newError(LexError, start, ErrUnrecognizedToken)
		case '|':
			if l.peekIs(1, '|') {
				return l.operator(start, OpOr, 2), nil
			}
			return l.operator(start, OpPipe, 1), nil
		case '!':
			if l.peekIs(1, '=') {
				return l.operator(start, OpNotEquals, 2), nil
			}
			return l.operator(start, OpNot, 1), nil
		case '<':
			if l.peekIs(1, '=') {
				return l.operator(start, OpLte, 2), nil
			}
			return l.operator(start, OpLt, 1), nil
		case '>':
			if l.peekIs(1, '=') {
				return l.operator(start, OpGte, 2), nil
			}
			return l.operator(start, OpGt, 1), nil
		case '=':
			if l.peekIs(1, '=') {
				return l.operator(start, OpEquals, 2), nil
			}
			return l.operator(start, OpAssign, 1), nil
		case '\\':
			// Escaped star is always multiplication.
			if l.peekIs(1, '*') {
				return l.operator(start, OpMul, 2), nil
			}
		case '*':
			// A star argument is a glob, escape it to multiply.
			if l.standsAlone(1) && !l.ctx.inArgs() {
				return l.operator(start, OpMul, 1), nil
			}
		case '-':
			if l.ctx.operandPending() && !l.ctx.inArgs() {
				return l.operator(start, OpMinus, 1), nil
			}
		case '/':
			if l.ctx.operandPending() && !l.ctx.inArgs() {
				if l.peekIs(1, '/') {
					return l.operator(start, OpIntDiv, 2), nil
				}
				return l.operator(start, OpDiv, 1), nil
			}
		}

		return l.literal(start)
	}

	return Token{Kind: TokEnd, Loc: l.loc}, nil
}

func (l *Lexer) operator(start Location, op Op, width int) Token {
	for i := 0; i < width; i++ {
		l.advance()
	}
	return Token{Kind: TokOperator, Op: op, Loc: start}
}

// standsAlone reports whether the rune at offset ends a word.
func (l *Lexer) standsAlone(offset int) bool {
	c, ok := l.peek(offset)
	if !ok {
		return true
	}
	switch c {
	case '(', ')', ';':
		return true
	}
	return unicode.IsSpace(c)
}

func (l *Lexer) isDelimiter(word string, c rune) bool {
	switch c {
	case '-', '/':
		// Dashes and slashes are common in paths and flags, split only
		// arithmetic like 5-3.
		if word == "" || l.ctx.inArgs() {
			return false
		}
		return l.ctx.numeric(word)
	case '#':
		// $# and ${#} are variables.
		return !strings.HasSuffix(word, "$") && !strings.HasSuffix(word, "${")
	case '(', ')', '+', '=', ';', '|', '&', '<', '>', '!':
		return true
	}
	return unicode.IsSpace(c)
}

func (l *Lexer) literal(start Location) (Token, error) {
	if l.peekIs(0, 'r') && l.peekIs(1, '"') && l.peekIs(2, '(') {
		return l.rawLiteral(start)
	}

	var sb strings.Builder
	quoted, inQuotes := false, false

	for l.pos < len(l.src) {
		c := l.src[l.pos]

		if inQuotes {
			switch c {
			case '"':
				inQuotes = false
				l.advance()
			case '\\':
				l.advance()
				if next, ok := l.peek(0); ok {
					sb.WriteRune(unescapeRune(next))
					l.advance()
				}
			default:
				sb.WriteRune(c)
				l.advance()
			}
			continue
		}

		if c == '"' {
			quoted, inQuotes = true, true
			l.advance()
			continue
		}
		if l.isDelimiter(sb.String(), c) {
			break
		}
		sb.WriteRune(c)
		l.advance()
	}

	if inQuotes {
		return Token{}, newError(LexError, l.loc, ErrUnbalancedQuotes)
	}

	text := sb.String()
	if text == "" && !quoted {
		return Token{}, newError(LexError, start, ErrUnrecognizedToken)
	}

	tok := Token{Kind: TokLiteral, Text: text, Quoted: quoted, Loc: start}
	if !quoted && l.ctx.inArgs() {
		return l.glob(tok), nil
	}
	return tok, nil
}

func unescapeRune(c rune) rune {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	default:
		return c
	}
}

// rawLiteral reads r"(...)" verbatim.
func (l *Lexer) rawLiteral(start Location) (Token, error) {
	for i := 0; i < 3; i++ {
		l.advance()
	}

	var sb strings.Builder
	for l.pos < len(l.src) {
		if l.peekIs(0, ')') && l.peekIs(1, '"') {
			l.advance()
			l.advance()
			return Token{Kind: TokLiteral, Text: sb.String(), Quoted: true, Raw: true, Loc: start}, nil
		}
		sb.WriteRune(l.src[l.pos])
		l.advance()
	}
	return Token{}, newError(LexError, l.loc, ErrUnbalancedQuotes)
}

// glob expands a word with wildcards to the matching paths, a word that
// doesn't match anything is kept as is.
func (l *Lexer) glob(tok Token) Token {
	if l.fs == nil || !strings.ContainsAny(tok.Text, "*?[") {
		return tok
	}
	matches, err := afero.Glob(l.fs, tok.Text)
	if err != nil || len(matches) == 0 {
		return tok
	}
	for _, m := range matches[1:] {
		l.globbed = append(l.globbed, Token{Kind: TokLiteral, Text: m, Loc: tok.Loc})
	}
	tok.Text = matches[0]
	return tok
}

package shell

import "fmt"

// Location is a position in the input. Lines start at 1 and columns at 0.
type Location struct {
	Line int
	Col  int
}

func (l Location) String() string {
	return fmt.Sprintf("[%d:%d]", l.Line, l.Col)
}

// Op is an operator.
type Op int

const (
	OpAnd Op = iota
	OpAssign
	OpDiv
	OpEquals
	OpGt
	OpGte
	OpIntDiv
	OpLt
	OpLte
	OpMinus
	OpMod
	OpMul
	OpNot
	OpNotEquals
	OpOr
	OpPipe
	OpPlus
)

var opNames = map[Op]string{
	OpAnd:       "&&",
	OpAssign:    "=",
	OpDiv:       "/",
	OpEquals:    "==",
	OpGt:        ">",
	OpGte:       ">=",
	OpIntDiv:    "//",
	OpLt:        "<",
	OpLte:       "<=",
	OpMinus:     "-",
	OpMod:       "%",
	OpMul:       "*",
	OpNot:       "!",
	OpNotEquals: "!=",
	OpOr:        "||",
	OpPipe:      "|",
	OpPlus:      "+",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// precedence of binary operators, higher binds tighter.
func (o Op) precedence() int {
	switch o {
	case OpAssign:
		return 1
	case OpPipe:
		return 2
	case OpOr:
		return 3
	case OpAnd:
		return 4
	case OpEquals, OpNotEquals, OpLt, OpLte, OpGt, OpGte:
		return 5
	case OpPlus, OpMinus:
		return 6
	case OpMul, OpDiv, OpIntDiv, OpMod:
		return 7
	default:
		return 8
	}
}

func (o Op) rightAssoc() bool {
	return o == OpAssign
}

// TokenKind is the type of a token.
type TokenKind int

const (
	TokEnd TokenKind = iota
	TokLiteral
	TokOperator
	TokLeftParen
	TokRightParen
	TokSemicolon
)

func (k TokenKind) String() string {
	switch k {
	case TokEnd:
		return "end"
	case TokLiteral:
		return "literal"
	case TokOperator:
		return "operator"
	case TokLeftParen:
		return "("
	case TokRightParen:
		return ")"
	case TokSemicolon:
		return ";"
	default:
		return fmt.Sprintf("TokenKind(%d)", int(k))
	}
}

// Token is a lexical unit of the input.
type Token struct {
	Kind TokenKind
	// Text of a literal with quotes and escapes removed.
	Text string
	// Op is set for operators.
	Op Op
	// Quoted is set for literals that contained double quotes.
	Quoted bool
	// Raw is set for r"(...)" literals.
	Raw bool
	Loc Location
}

func (t Token) String() string {
	switch t.Kind {
	case TokLiteral:
		return fmt.Sprintf("%q", t.Text)
	case TokOperator:
		return t.Op.String()
	default:
		return t.Kind.String()
	}
}

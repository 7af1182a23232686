package shell

import (
	"fmt"
	"strings"
)

// Node is an expression in the parsed tree. A nil Node is the empty
// expression.
//
// The parser builds nodes in place, once Parse returns the tree is not
// modified again and can be evaluated any number of times.
type Node interface {
	Loc() Location
	String() string
}

// Literal is a word, possibly quoted.
type Literal struct {
	text   string
	quoted bool
	raw    bool
	loc    Location
}

func (n *Literal) Loc() Location { return n.loc }

// Text is the word with quotes and escapes removed.
func (n *Literal) Text() string { return n.text }

// Quoted reports whether the word contained double quotes.
func (n *Literal) Quoted() bool { return n.quoted }

// Raw reports whether the word is a r"(...)" string, which is never
// substituted.
func (n *Literal) Raw() bool { return n.raw }

func (n *Literal) String() string {
	if n.quoted {
		return fmt.Sprintf("%q", n.text)
	}
	return n.text
}

// Binary applies an operator to two operands.
type Binary struct {
	op       Op
	lhs, rhs Node
	pending  bool
	loc      Location
}

func (n *Binary) Loc() Location { return n.loc }
func (n *Binary) Op() Op        { return n.op }
func (n *Binary) Lhs() Node     { return n.lhs }
func (n *Binary) Rhs() Node     { return n.rhs }

func (n *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", nodeString(n.lhs), n.op, nodeString(n.rhs))
}

// Unary is the logical negation of its operand.
type Unary struct {
	operand Node
	pending bool
	loc     Location
}

func (n *Unary) Loc() Location  { return n.loc }
func (n *Unary) Operand() Node  { return n.operand }
func (n *Unary) String() string { return "!" + nodeString(n.operand) }

// Command invokes a built-in or external program.
type Command struct {
	name string
	args *Group
	loc  Location
}

func (n *Command) Loc() Location { return n.loc }
func (n *Command) Name() string  { return n.name }

// Args returns the argument list, nil when there are none.
func (n *Command) Args() *Group { return n.args }

func (n *Command) String() string {
	if n.args == nil || len(n.args.items) == 0 {
		return "{" + n.name + "}"
	}
	return "{" + n.name + " " + n.args.String() + "}"
}

// GroupKind tells statement blocks from argument lists.
type GroupKind int

const (
	// Block is a parenthesized list of statements.
	Block GroupKind = iota
	// Args is the argument list of a command or FOR.
	Args
)

// Group is a sequence of expressions evaluated in a child scope. The value
// of a block is the value of its last statement.
type Group struct {
	kind   GroupKind
	items  []Node
	inLoop bool
	loc    Location
}

func (n *Group) Loc() Location   { return n.loc }
func (n *Group) Kind() GroupKind { return n.kind }
func (n *Group) Items() []Node   { return n.items }

func (n *Group) String() string {
	parts := make([]string, len(n.items))
	for i, item := range n.items {
		parts[i] = nodeString(item)
	}
	if n.kind == Args {
		return strings.Join(parts, " ")
	}
	return "(" + strings.Join(parts, "; ") + ")"
}

// Branch is IF with an optional ELSE.
type Branch struct {
	cond       Node
	then, els  Node
	expectElse bool
	pending    bool
	loc        Location
}

func (n *Branch) Loc() Location { return n.loc }
func (n *Branch) Cond() Node    { return n.cond }
func (n *Branch) Then() Node    { return n.then }
func (n *Branch) Else() Node    { return n.els }

func (n *Branch) String() string {
	s := "if " + nodeString(n.cond) + " " + nodeString(n.then)
	if n.els != nil {
		s += " else " + nodeString(n.els)
	}
	return s
}

// For runs its body once for each argument value.
type For struct {
	varName *Literal
	args    *Group
	body    Node
	loc     Location
}

func (n *For) Loc() Location { return n.loc }
func (n *For) Var() string {
	if n.varName == nil {
		return ""
	}
	return n.varName.text
}
func (n *For) Args() *Group { return n.args }
func (n *For) Body() Node   { return n.body }

func (n *For) String() string {
	return fmt.Sprintf("for %s in %s %s", n.Var(), nodeString(n.args), nodeString(n.body))
}

// Loop is WHILE.
type Loop struct {
	cond    Node
	body    Node
	pending bool
	loc     Location
}

func (n *Loop) Loc() Location { return n.loc }
func (n *Loop) Cond() Node    { return n.cond }
func (n *Loop) Body() Node    { return n.body }

func (n *Loop) String() string {
	return "while " + nodeString(n.cond) + " " + nodeString(n.body)
}

// Break leaves the innermost loop.
type Break struct {
	loc Location
}

func (n *Break) Loc() Location  { return n.loc }
func (n *Break) String() string { return "break" }

// Continue skips to the next iteration of the innermost loop.
type Continue struct {
	loc Location
}

func (n *Continue) Loc() Location  { return n.loc }
func (n *Continue) String() string { return "continue" }

func nodeString(n Node) string {
	// Typed nil pointers end up here from unfinished nodes.
	switch v := n.(type) {
	case nil:
		return "<empty>"
	case *Group:
		if v == nil {
			return "<empty>"
		}
	}
	return n.String()
}

// Package expr parses builder expressions: the subset of Python expression
// syntax used to rebuild syntax trees (names, attribute access, calls with
// keyword arguments, list/tuple/dict displays and scalar literals).
//
// The result is a small expression tree consumed by the pretty printer and
// the tree builder. Nothing is evaluated.
package expr

import (
	"strings"

	"github.com/dzjyyds666/asttab/pkg/pyquote"
)

// Expr is a node of a parsed builder expression.
type Expr interface {
	Pos() int
	exprNode()
}

// Ident is a bare name such as ast.
type Ident struct {
	NamePos int
	Name    string
}

// Member is X.Name.
type Member struct {
	X    Expr
	Name string
}

type LitKind uint8

const (
	LitString LitKind = iota
	LitInt
	LitBool
	LitNone
)

// Literal is a scalar constant. Int holds the canonical decimal text.
type Literal struct {
	ValuePos int
	Kind     LitKind
	Str      string
	Int      string
	Bool     bool
}

type List struct {
	Lbrack int
	Elems  []Expr
}

type Tuple struct {
	Lparen int
	Elems  []Expr
}

// Pair is one entry of a mapping display.
type Pair struct {
	Key   Expr
	Value Expr
}

type Mapping struct {
	Lbrace int
	Pairs  []Pair
}

// Keyword is a name=value call argument. An empty Name marks **spread.
type Keyword struct {
	Name  string
	Value Expr
}

type Call struct {
	Fun      Expr
	Args     []Expr
	Keywords []Keyword
}

// Unary is a prefix operator that could not be folded into a literal.
type Unary struct {
	OpPos int
	Op    string
	X     Expr
}

// Starred is *X among call arguments.
type Starred struct {
	Star int
	X    Expr
}

func (x *Ident) Pos() int   { return x.NamePos }
func (x *Member) Pos() int  { return x.X.Pos() }
func (x *Literal) Pos() int { return x.ValuePos }
func (x *List) Pos() int    { return x.Lbrack }
func (x *Tuple) Pos() int   { return x.Lparen }
func (x *Mapping) Pos() int { return x.Lbrace }
func (x *Call) Pos() int    { return x.Fun.Pos() }
func (x *Unary) Pos() int   { return x.OpPos }
func (x *Starred) Pos() int { return x.Star }

func (*Ident) exprNode()   {}
func (*Member) exprNode()  {}
func (*Literal) exprNode() {}
func (*List) exprNode()    {}
func (*Tuple) exprNode()   {}
func (*Mapping) exprNode() {}
func (*Call) exprNode()    {}
func (*Unary) exprNode()   {}
func (*Starred) exprNode() {}

// Repr renders the literal the way Python's repr() would.
func (x *Literal) Repr() string {
	switch x.Kind {
	case LitString:
		return pyquote.Quote(x.Str)
	case LitInt:
		return x.Int
	case LitBool:
		if x.Bool {
			return "True"
		}
		return "False"
	}
	return "None"
}

// Variant names the expression kind for diagnostics.
func Variant(e Expr) string {
	switch e.(type) {
	case *Ident:
		return "Ident"
	case *Member:
		return "Member"
	case *Literal:
		return "Literal"
	case *List:
		return "List"
	case *Tuple:
		return "Tuple"
	case *Mapping:
		return "Mapping"
	case *Call:
		return "Call"
	case *Unary:
		return "Unary"
	case *Starred:
		return "Starred"
	case nil:
		return "nil"
	}
	return "unknown"
}

// DottedName returns "a.b.c" for an Ident/Member chain, or false for any
// other expression.
func DottedName(e Expr) (string, bool) {
	var parts []string
	for {
		switch x := e.(type) {
		case *Ident:
			parts = append(parts, x.Name)
			for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
				parts[i], parts[j] = parts[j], parts[i]
			}
			return strings.Join(parts, "."), true
		case *Member:
			parts = append(parts, x.Name)
			e = x.X
		default:
			return "", false
		}
	}
}

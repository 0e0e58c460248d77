package expr

import (
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.starlark.net/syntax"
)

var ErrSyntax = errors.New("builder expression syntax error")

const blank = " \t\r\n\f\v"

// SyntaxError reports a malformed builder expression at byte offset Pos.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("expr:%d: %s", e.Pos, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// Parse parses a single builder expression. Scanning and grammar are
// Starlark's, a Python subset covering every construct builder text uses;
// the result is narrowed to the Expr variants above.
func Parse(src string) (Expr, error) {
	trimmed := strings.TrimLeft(src, blank)
	c := &converter{base: len(src) - len(trimmed)}
	c.text, c.grown = widenHexEscapes(strings.TrimRight(trimmed, blank))

	opts := &syntax.FileOptions{}
	x, err := opts.ParseExpr("builder", c.text, 0)
	if err != nil {
		var se syntax.Error
		if errors.As(err, &se) {
			return nil, &SyntaxError{Pos: c.pos(se.Pos), Msg: se.Msg}
		}
		return nil, &SyntaxError{Pos: c.base, Msg: err.Error()}
	}
	return c.expr(x)
}

// converter maps the Starlark syntax tree onto Expr, translating line and
// rune-column positions back to byte offsets into the caller's text.
type converter struct {
	text  string
	base  int   // leading whitespace trimmed before parsing
	grown []int // offsets in text after each widened escape
}

func (c *converter) pos(p syntax.Position) int {
	if p.Line <= 0 {
		return c.base
	}
	off := 0
	for line := int32(1); line < p.Line; line++ {
		i := strings.IndexByte(c.text[off:], '\n')
		if i < 0 {
			off = len(c.text)
			break
		}
		off += i + 1
	}
	for col := int32(1); col < p.Col && off < len(c.text); col++ {
		_, size := utf8.DecodeRuneInString(c.text[off:])
		off += size
	}
	shift := sort.SearchInts(c.grown, off+1)
	return c.base + off - 2*shift
}

func (c *converter) errf(p syntax.Position, format string, args ...any) error {
	return &SyntaxError{Pos: c.pos(p), Msg: fmt.Sprintf(format, args...)}
}

func (c *converter) expr(x syntax.Expr) (Expr, error) {
	switch x := x.(type) {
	case *syntax.Ident:
		pos := c.pos(x.NamePos)
		switch x.Name {
		case "True", "False":
			return &Literal{ValuePos: pos, Kind: LitBool, Bool: x.Name == "True"}, nil
		case "None":
			return &Literal{ValuePos: pos, Kind: LitNone}, nil
		}
		return &Ident{NamePos: pos, Name: x.Name}, nil

	case *syntax.DotExpr:
		inner, err := c.expr(x.X)
		if err != nil {
			return nil, err
		}
		return &Member{X: inner, Name: x.Name.Name}, nil

	case *syntax.Literal:
		return c.literal(x)

	case *syntax.ParenExpr:
		// (x,) arrives as a paren around an unparenthesised tuple
		if t, ok := x.X.(*syntax.TupleExpr); ok {
			elems, err := c.exprs(t.List)
			if err != nil {
				return nil, err
			}
			return &Tuple{Lparen: c.pos(x.Lparen), Elems: elems}, nil
		}
		return c.expr(x.X)

	case *syntax.TupleExpr:
		elems, err := c.exprs(x.List)
		if err != nil {
			return nil, err
		}
		start, _ := x.Span()
		return &Tuple{Lparen: c.pos(start), Elems: elems}, nil

	case *syntax.ListExpr:
		elems, err := c.exprs(x.List)
		if err != nil {
			return nil, err
		}
		return &List{Lbrack: c.pos(x.Lbrack), Elems: elems}, nil

	case *syntax.DictExpr:
		m := &Mapping{Lbrace: c.pos(x.Lbrace)}
		for _, e := range x.List {
			entry, ok := e.(*syntax.DictEntry)
			if !ok {
				start, _ := e.Span()
				return nil, c.errf(start, "unsupported %s in mapping display", kindOf(e))
			}
			k, err := c.expr(entry.Key)
			if err != nil {
				return nil, err
			}
			v, err := c.expr(entry.Value)
			if err != nil {
				return nil, err
			}
			m.Pairs = append(m.Pairs, Pair{Key: k, Value: v})
		}
		return m, nil

	case *syntax.CallExpr:
		return c.call(x)

	case *syntax.UnaryExpr:
		return c.unary(x)
	}

	start, _ := x.Span()
	return nil, c.errf(start, "unsupported %s in builder expression", kindOf(x))
}

func (c *converter) exprs(xs []syntax.Expr) ([]Expr, error) {
	out := make([]Expr, 0, len(xs))
	for _, x := range xs {
		e, err := c.expr(x)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (c *converter) literal(x *syntax.Literal) (Expr, error) {
	pos := c.pos(x.TokenPos)
	switch v := x.Value.(type) {
	case string:
		if x.Token == syntax.STRING {
			return &Literal{ValuePos: pos, Kind: LitString, Str: v}, nil
		}
		return nil, c.errf(x.TokenPos, "unsupported bytes literal %s", x.Raw)
	case int64:
		return &Literal{ValuePos: pos, Kind: LitInt, Int: strconv.FormatInt(v, 10)}, nil
	case *big.Int:
		return &Literal{ValuePos: pos, Kind: LitInt, Int: v.String()}, nil
	}
	return nil, c.errf(x.TokenPos, "unsupported float literal %s", x.Raw)
}

// unary folds a sign applied to an integer into the literal, so -1 is one
// constant rather than an operator over 1.
func (c *converter) unary(x *syntax.UnaryExpr) (Expr, error) {
	pos := c.pos(x.OpPos)
	if x.X == nil {
		return nil, c.errf(x.OpPos, "bare %s", x.Op)
	}
	operand, err := c.expr(x.X)
	if err != nil {
		return nil, err
	}

	switch x.Op {
	case syntax.STAR:
		return &Starred{Star: pos, X: operand}, nil
	case syntax.STARSTAR:
		return nil, c.errf(x.OpPos, "** outside a call")
	case syntax.MINUS, syntax.PLUS:
		if lit, ok := operand.(*Literal); ok && lit.Kind == LitInt {
			if x.Op == syntax.MINUS {
				lit.Int = negate(lit.Int)
			}
			lit.ValuePos = pos
			return lit, nil
		}
	}
	return &Unary{OpPos: pos, Op: x.Op.String(), X: operand}, nil
}

func (c *converter) call(x *syntax.CallExpr) (Expr, error) {
	fun, err := c.expr(x.Fn)
	if err != nil {
		return nil, err
	}
	call := &Call{Fun: fun}
	for _, arg := range x.Args {
		switch a := arg.(type) {
		case *syntax.BinaryExpr:
			if a.Op != syntax.EQ {
				break
			}
			name, ok := a.X.(*syntax.Ident)
			if !ok {
				return nil, c.errf(a.OpPos, "keyword argument must be a name")
			}
			v, err := c.expr(a.Y)
			if err != nil {
				return nil, err
			}
			call.Keywords = append(call.Keywords, Keyword{Name: name.Name, Value: v})
			continue

		case *syntax.UnaryExpr:
			if a.Op != syntax.STARSTAR {
				break
			}
			v, err := c.expr(a.X)
			if err != nil {
				return nil, err
			}
			call.Keywords = append(call.Keywords, Keyword{Value: v})
			continue
		}

		e, err := c.expr(arg)
		if err != nil {
			return nil, err
		}
		if _, starred := e.(*Starred); !starred && len(call.Keywords) > 0 {
			start, _ := arg.Span()
			return nil, c.errf(start, "positional argument follows keyword argument")
		}
		call.Args = append(call.Args, e)
	}
	return call, nil
}

func kindOf(x syntax.Expr) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", x), "*syntax.")
}

// widenHexEscapes rewrites \xHH escapes above 0x7f, which Python reads as
// code points, to the equivalent \u00HH form. It returns the new text and,
// for position mapping, the offset just past each rewritten escape.
func widenHexEscapes(src string) (string, []int) {
	if !strings.Contains(src, `\x`) {
		return src, nil
	}
	var b strings.Builder
	var grown []int
	for i := 0; i < len(src); i++ {
		if src[i] != '\\' || i+1 >= len(src) {
			b.WriteByte(src[i])
			continue
		}
		if src[i+1] == 'x' && i+4 <= len(src) {
			if v, err := strconv.ParseUint(src[i+2:i+4], 16, 8); err == nil && v > 0x7f {
				b.WriteString(`\u00`)
				b.WriteString(src[i+2 : i+4])
				grown = append(grown, b.Len())
				i += 3
				continue
			}
		}
		// keep escape pairs together so \\x80 stays a backslash and text
		b.WriteByte(src[i])
		b.WriteByte(src[i+1])
		i++
	}
	return b.String(), grown
}

func negate(dec string) string {
	if dec == "0" {
		return dec
	}
	if strings.HasPrefix(dec, "-") {
		return dec[1:]
	}
	return "-" + dec
}

// Package pretty lays out builder expressions one element per line with
// trailing commas, so that nested constructor calls read like the tree they
// build and diff cleanly.
//
// expr.Parse folds a sign applied to an integer into the literal, so -1
// reaches Format as a Literal and lays out like any other constant. Only
// operators over anything else arrive as expr.Unary, which has no layout.
package pretty

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dzjyyds666/asttab/parse/expr"
)

// DefaultIndent is one nesting level.
const DefaultIndent = "    "

var ErrFormatting = errors.New("formatting error")

// UnsupportedExpressionError is returned for expression kinds the formatter
// has no layout for.
type UnsupportedExpressionError struct {
	Variant string
	Pos     int
}

func (e *UnsupportedExpressionError) Error() string {
	return fmt.Sprintf("pretty:%d: unsupported expression %s", e.Pos, e.Variant)
}

func (e *UnsupportedExpressionError) Unwrap() error { return ErrFormatting }

// Formatter renders expression trees with a fixed indent unit.
type Formatter struct {
	indent string
}

func New(indent string) *Formatter {
	return &Formatter{indent: indent}
}

// Format renders e with indentUnit per nesting level.
func Format(e expr.Expr, indentUnit string) (string, error) {
	return New(indentUnit).Format(e)
}

// Source parses src as a builder expression and formats it.
func Source(src, indentUnit string) (string, error) {
	e, err := expr.Parse(src)
	if err != nil {
		return "", err
	}
	return Format(e, indentUnit)
}

func (f *Formatter) Format(e expr.Expr) (string, error) {
	var b strings.Builder
	if err := f.format(&b, e, 0); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (f *Formatter) format(b *strings.Builder, e expr.Expr, level int) error {
	switch x := e.(type) {
	case *expr.Ident:
		b.WriteString(x.Name)
		return nil

	case *expr.Member:
		if err := f.format(b, x.X, level); err != nil {
			return err
		}
		b.WriteByte('.')
		b.WriteString(x.Name)
		return nil

	case *expr.Literal:
		b.WriteString(x.Repr())
		return nil

	case *expr.List:
		return f.block(b, "[", "]", level, len(x.Elems), func(i int) error {
			return f.format(b, x.Elems[i], level+1)
		})

	case *expr.Tuple:
		return f.block(b, "(", ")", level, len(x.Elems), func(i int) error {
			return f.format(b, x.Elems[i], level+1)
		})

	case *expr.Mapping:
		return f.block(b, "{", "}", level, len(x.Pairs), func(i int) error {
			pair := x.Pairs[i]
			if err := f.format(b, pair.Key, level+1); err != nil {
				return err
			}
			b.WriteString(": ")
			return f.format(b, pair.Value, level+1)
		})

	case *expr.Call:
		if err := f.format(b, x.Fun, level); err != nil {
			return err
		}
		return f.block(b, "(", ")", level, len(x.Args)+len(x.Keywords), func(i int) error {
			if i < len(x.Args) {
				return f.format(b, x.Args[i], level+1)
			}
			kw := x.Keywords[i-len(x.Args)]
			if kw.Name == "" {
				b.WriteString("**")
			} else {
				b.WriteString(kw.Name)
				b.WriteByte('=')
			}
			return f.format(b, kw.Value, level+1)
		})
	}

	pos := 0
	if e != nil {
		pos = e.Pos()
	}
	return &UnsupportedExpressionError{Variant: expr.Variant(e), Pos: pos}
}

// block writes open, then n items each on its own line at level+1 followed
// by a comma, then close on its own line at level. Zero items stay inline.
func (f *Formatter) block(b *strings.Builder, open, closing string, level, n int, item func(int) error) error {
	b.WriteString(open)
	if n == 0 {
		b.WriteString(closing)
		return nil
	}
	inner := strings.Repeat(f.indent, level+1)
	for i := 0; i < n; i++ {
		b.WriteByte('\n')
		b.WriteString(inner)
		if err := item(i); err != nil {
			return err
		}
		b.WriteByte(',')
	}
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(f.indent, level))
	b.WriteString(closing)
	return nil
}

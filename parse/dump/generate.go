package dump

import (
	"strings"

	"github.com/dzjyyds666/asttab/pkg/pyquote"
)

// DefaultPrefix qualifies node constructors under Python's ast module.
const DefaultPrefix = "ast."

type options struct {
	prefix string
}

type Option func(*options)

// WithPrefix sets the text placed before every node constructor name.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// Generate renders v as a builder expression.
func Generate(v Value, opts ...Option) string {
	o := options{prefix: DefaultPrefix}
	for _, opt := range opts {
		opt(&o)
	}
	var b strings.Builder
	o.write(&b, v)
	return b.String()
}

func (o *options) write(b *strings.Builder, v Value) {
	switch v := v.(type) {
	case *Node:
		b.WriteString(o.prefix)
		b.WriteString(v.Type)
		b.WriteByte('(')
		for i, f := range v.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Name)
			b.WriteByte('=')
			o.write(b, f.Value)
		}
		b.WriteByte(')')
	case *Sequence:
		open, closing := "[", "]"
		if v.Type == SeqTuple {
			open, closing = "(", ")"
		}
		b.WriteString(open)
		for i, e := range v.Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			o.write(b, e)
		}
		if v.Type == SeqTuple && len(v.Elems) == 1 {
			b.WriteByte(',')
		}
		b.WriteString(closing)
	case *String:
		b.WriteString(pyquote.Quote(v.Raw))
	case *Atom:
		b.WriteString(v.Text)
	}
}

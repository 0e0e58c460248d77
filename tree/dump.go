package tree

import (
	"strings"

	"github.com/dzjyyds666/asttab/pkg/pyquote"
)

// DumpOptions controls Dump output.
type DumpOptions struct {
	// Indent is the number of spaces per nesting level. A negative value
	// renders everything on one line.
	Indent int

	// IncludeAttributes adds lineno/col_offset style attributes.
	IncludeAttributes bool

	// Schema orders fields and drops optional fields holding None. When nil,
	// fields print in the order they were set.
	Schema *Schema
}

// Dump renders v the way Python's ast.dump does with annotate_fields=True.
func Dump(v Value, opts DumpOptions) string {
	d := &dumper{opts: opts}
	s, _ := d.format(v, 0)
	return s
}

type dumper struct {
	opts DumpOptions
}

// format returns the rendering of v and whether it counts as simple for the
// one-line layout of its parent.
func (d *dumper) format(v Value, level int) (string, bool) {
	prefix, sep := "", ", "
	if d.opts.Indent >= 0 {
		level++
		indent := strings.Repeat(" ", d.opts.Indent*level)
		prefix = "\n" + indent
		sep = ",\n" + indent
	}

	switch v := v.(type) {
	case *Node:
		var args []string
		allSimple := true
		add := func(f Field, card Cardinality) {
			if _, isNone := f.Value.(None); isNone && card == Optional {
				return
			}
			s, simple := d.format(f.Value, level)
			allSimple = allSimple && simple
			args = append(args, f.Name+"="+s)
		}

		spec, _ := d.opts.Schema.Lookup(v.Type)
		for _, f := range orderFields(v.Fields, specFields(spec)) {
			add(f.Field, f.card)
		}
		if d.opts.IncludeAttributes {
			for _, f := range orderFields(v.Attributes, specAttributes(spec)) {
				add(f.Field, f.card)
			}
		}

		if allSimple && len(args) <= 3 {
			return v.Type + "(" + strings.Join(args, ", ") + ")", len(args) == 0
		}
		return v.Type + "(" + prefix + strings.Join(args, sep) + ")", false

	case List:
		if len(v) == 0 {
			return "[]", true
		}
		items := make([]string, len(v))
		for i, e := range v {
			items[i], _ = d.format(e, level)
		}
		return "[" + prefix + strings.Join(items, sep) + "]", false

	case Tuple:
		items := make([]string, len(v))
		for i, e := range v {
			items[i], _ = d.format(e, -1)
		}
		if len(items) == 1 {
			return "(" + items[0] + ",)", true
		}
		return "(" + strings.Join(items, ", ") + ")", true
	}
	return repr(v), true
}

func repr(v Value) string {
	switch v := v.(type) {
	case Str:
		return pyquote.Quote(string(v))
	case Int:
		return string(v)
	case Bool:
		if v {
			return "True"
		}
		return "False"
	case None, nil:
		return "None"
	case Opaque:
		return v.Repr
	}
	return "?"
}

type orderedField struct {
	Field
	card Cardinality
}

func specFields(spec *NodeSpec) []FieldSpec {
	if spec == nil {
		return nil
	}
	return spec.Fields
}

func specAttributes(spec *NodeSpec) []FieldSpec {
	if spec == nil {
		return nil
	}
	return spec.Attributes
}

// orderFields lists fields in declared order, followed by any fields the
// declaration does not know about in the order they were set.
func orderFields(fields []Field, declared []FieldSpec) []orderedField {
	out := make([]orderedField, 0, len(fields))
	used := make([]bool, len(fields))
	for _, spec := range declared {
		for i, f := range fields {
			if !used[i] && f.Name == spec.Name {
				used[i] = true
				out = append(out, orderedField{Field: f, card: spec.Card})
				break
			}
		}
	}
	for i, f := range fields {
		if !used[i] {
			out = append(out, orderedField{Field: f, card: One})
		}
	}
	return out
}

package tree

import (
	"fmt"
	"strings"

	"github.com/dzjyyds666/asttab/parse/expr"
)

// DefaultPrefix is the module qualifier expected before node constructors.
const DefaultPrefix = "ast."

// BuildError reports a builder expression that does not describe a tree.
// Pos is a byte offset into the builder expression.
type BuildError struct {
	Pos int
	Msg string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build:%d: %s", e.Pos, e.Msg)
}

func (e *BuildError) Unwrap() error { return ErrBuild }

// Builder turns parsed builder expressions into trees. Constructor calls
// must carry the configured prefix and, when a schema is set, name a known
// node type and its fields.
type Builder struct {
	prefix string
	schema *Schema
}

type BuilderOption func(*Builder)

func WithPrefix(prefix string) BuilderOption {
	return func(b *Builder) {
		b.prefix = prefix
	}
}

// WithSchema sets the schema used for validation; nil accepts any node type
// and field name.
func WithSchema(s *Schema) BuilderOption {
	return func(b *Builder) {
		b.schema = s
	}
}

func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{prefix: DefaultPrefix, schema: PythonSchema()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build constructs the value described by e.
func (b *Builder) Build(e expr.Expr) (Value, error) {
	switch x := e.(type) {
	case *expr.Call:
		return b.buildNode(x)

	case *expr.List:
		elems, err := b.buildAll(x.Elems)
		if err != nil {
			return nil, err
		}
		return List(elems), nil

	case *expr.Tuple:
		elems, err := b.buildAll(x.Elems)
		if err != nil {
			return nil, err
		}
		return Tuple(elems), nil

	case *expr.Literal:
		switch x.Kind {
		case expr.LitString:
			return Str(x.Str), nil
		case expr.LitInt:
			return Int(x.Int), nil
		case expr.LitBool:
			return Bool(x.Bool), nil
		}
		return None{}, nil

	case *expr.Ident, *expr.Member:
		name, _ := expr.DottedName(x)
		return nil, &BuildError{Pos: x.Pos(), Msg: fmt.Sprintf("name %q is not a value", name)}

	case nil:
		return nil, &BuildError{Msg: "empty expression"}
	}
	return nil, &BuildError{Pos: e.Pos(), Msg: fmt.Sprintf("unsupported expression %s", expr.Variant(e))}
}

func (b *Builder) buildAll(elems []expr.Expr) ([]Value, error) {
	out := make([]Value, 0, len(elems))
	for _, e := range elems {
		v, err := b.Build(e)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (b *Builder) buildNode(call *expr.Call) (Value, error) {
	pos := call.Pos()
	callee, ok := expr.DottedName(call.Fun)
	if !ok || !strings.HasPrefix(callee, b.prefix) {
		return nil, &BuildError{Pos: pos, Msg: fmt.Sprintf("call target %s is not a %snode constructor", describe(call.Fun), b.prefix)}
	}
	typeName := strings.TrimPrefix(callee, b.prefix)
	if typeName == "" || strings.Contains(typeName, ".") {
		return nil, &BuildError{Pos: pos, Msg: fmt.Sprintf("call target %q is not a %snode constructor", callee, b.prefix)}
	}

	var spec *NodeSpec
	if b.schema != nil {
		if spec, ok = b.schema.Lookup(typeName); !ok {
			return nil, &BuildError{Pos: pos, Msg: fmt.Sprintf("unknown node type %q", typeName)}
		}
	}

	n := &Node{Type: typeName}
	seen := make(map[string]bool)

	if len(call.Args) > 0 {
		if spec == nil {
			return nil, &BuildError{Pos: pos, Msg: fmt.Sprintf("%s: positional arguments need a schema", typeName)}
		}
		if len(call.Args) > len(spec.Fields) {
			return nil, &BuildError{Pos: pos, Msg: fmt.Sprintf("%s takes at most %d positional arguments, got %d", typeName, len(spec.Fields), len(call.Args))}
		}
		for i, arg := range call.Args {
			v, err := b.Build(arg)
			if err != nil {
				return nil, err
			}
			name := spec.Fields[i].Name
			seen[name] = true
			n.Fields = append(n.Fields, Field{Name: name, Value: v})
		}
	}

	for _, kw := range call.Keywords {
		if kw.Name == "" {
			return nil, &BuildError{Pos: kw.Value.Pos(), Msg: fmt.Sprintf("%s: keyword spread is not supported", typeName)}
		}
		if seen[kw.Name] {
			return nil, &BuildError{Pos: kw.Value.Pos(), Msg: fmt.Sprintf("%s got multiple values for field %q", typeName, kw.Name)}
		}
		seen[kw.Name] = true

		isAttr := false
		if spec != nil {
			if _, ok := spec.Field(kw.Name); !ok {
				if _, ok := spec.Attribute(kw.Name); !ok {
					return nil, &BuildError{Pos: kw.Value.Pos(), Msg: fmt.Sprintf("%s (%s) has no field %q", typeName, spec.Base, kw.Name)}
				}
				isAttr = true
			}
		}

		v, err := b.Build(kw.Value)
		if err != nil {
			return nil, err
		}
		if isAttr {
			n.Attributes = append(n.Attributes, Field{Name: kw.Name, Value: v})
		} else {
			n.Fields = append(n.Fields, Field{Name: kw.Name, Value: v})
		}
	}
	return n, nil
}

func describe(e expr.Expr) string {
	if name, ok := expr.DottedName(e); ok {
		return fmt.Sprintf("%q", name)
	}
	return expr.Variant(e)
}

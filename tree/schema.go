package tree

import (
	"strings"
	"sync"
)

type Cardinality uint8

const (
	One Cardinality = iota
	Optional
	Many
)

// FieldSpec describes one field of a node type.
type FieldSpec struct {
	Name string
	Card Cardinality
}

// NodeSpec describes a node type: its abstract base, fields in constructor
// order, and position attributes.
type NodeSpec struct {
	Name       string
	Base       string
	Fields     []FieldSpec
	Attributes []FieldSpec
}

// Field looks up a field by name.
func (n *NodeSpec) Field(name string) (FieldSpec, bool) {
	for _, f := range n.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Attribute looks up a position attribute by name.
func (n *NodeSpec) Attribute(name string) (FieldSpec, bool) {
	for _, f := range n.Attributes {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Schema maps node type names to their specs.
type Schema struct {
	nodes map[string]*NodeSpec
}

// NewSchema builds a schema from node specs. Later specs replace earlier
// ones with the same name.
func NewSchema(specs ...*NodeSpec) *Schema {
	s := &Schema{nodes: make(map[string]*NodeSpec, len(specs))}
	for _, spec := range specs {
		s.nodes[spec.Name] = spec
	}
	return s
}

func (s *Schema) Lookup(name string) (*NodeSpec, bool) {
	if s == nil {
		return nil, false
	}
	spec, ok := s.nodes[name]
	return spec, ok
}

// =========================
// Python grammar
// =========================

var (
	pythonOnce   sync.Once
	pythonSchema *Schema
)

// PythonSchema returns the node set of Python's ast module as of 3.13.
// Older dumps are a subset: fields added later are simply absent.
func PythonSchema() *Schema {
	pythonOnce.Do(func() {
		pythonSchema = NewSchema(pythonSpecs()...)
	})
	return pythonSchema
}

// spec parses "name", "name?" and "name*" field declarations.
func spec(base, name string, fields ...string) *NodeSpec {
	n := &NodeSpec{Name: name, Base: base, Attributes: attributesOf[base]}
	for _, f := range fields {
		card := One
		switch {
		case strings.HasSuffix(f, "*"):
			card, f = Many, strings.TrimSuffix(f, "*")
		case strings.HasSuffix(f, "?"):
			card, f = Optional, strings.TrimSuffix(f, "?")
		}
		n.Fields = append(n.Fields, FieldSpec{Name: f, Card: card})
	}
	return n
}

var (
	locations = []FieldSpec{
		{Name: "lineno"}, {Name: "col_offset"},
		{Name: "end_lineno", Card: Optional}, {Name: "end_col_offset", Card: Optional},
	}
	strictLocations = []FieldSpec{
		{Name: "lineno"}, {Name: "col_offset"},
		{Name: "end_lineno"}, {Name: "end_col_offset"},
	}
	attributesOf = map[string][]FieldSpec{
		"stmt":          locations,
		"expr":          locations,
		"excepthandler": locations,
		"arg":           locations,
		"keyword":       locations,
		"alias":         locations,
		"pattern":       strictLocations,
		"type_param":    strictLocations,
	}
)

func pythonSpecs() []*NodeSpec {
	specs := []*NodeSpec{
		spec("mod", "Module", "body*", "type_ignores*"),
		spec("mod", "Interactive", "body*"),
		spec("mod", "Expression", "body"),
		spec("mod", "FunctionType", "argtypes*", "returns"),

		spec("stmt", "FunctionDef", "name", "args", "body*", "decorator_list*", "returns?", "type_comment?", "type_params*"),
		spec("stmt", "AsyncFunctionDef", "name", "args", "body*", "decorator_list*", "returns?", "type_comment?", "type_params*"),
		spec("stmt", "ClassDef", "name", "bases*", "keywords*", "body*", "decorator_list*", "type_params*"),
		spec("stmt", "Return", "value?"),
		spec("stmt", "Delete", "targets*"),
		spec("stmt", "Assign", "targets*", "value", "type_comment?"),
		spec("stmt", "TypeAlias", "name", "type_params*", "value"),
		spec("stmt", "AugAssign", "target", "op", "value"),
		spec("stmt", "AnnAssign", "target", "annotation", "value?", "simple"),
		spec("stmt", "For", "target", "iter", "body*", "orelse*", "type_comment?"),
		spec("stmt", "AsyncFor", "target", "iter", "body*", "orelse*", "type_comment?"),
		spec("stmt", "While", "test", "body*", "orelse*"),
		spec("stmt", "If", "test", "body*", "orelse*"),
		spec("stmt", "With", "items*", "body*", "type_comment?"),
		spec("stmt", "AsyncWith", "items*", "body*", "type_comment?"),
		spec("stmt", "Match", "subject", "cases*"),
		spec("stmt", "Raise", "exc?", "cause?"),
		spec("stmt", "Try", "body*", "handlers*", "orelse*", "finalbody*"),
		spec("stmt", "TryStar", "body*", "handlers*", "orelse*", "finalbody*"),
		spec("stmt", "Assert", "test", "msg?"),
		spec("stmt", "Import", "names*"),
		spec("stmt", "ImportFrom", "module?", "names*", "level?"),
		spec("stmt", "Global", "names*"),
		spec("stmt", "Nonlocal", "names*"),
		spec("stmt", "Expr", "value"),
		spec("stmt", "Pass"),
		spec("stmt", "Break"),
		spec("stmt", "Continue"),

		spec("expr", "BoolOp", "op", "values*"),
		spec("expr", "NamedExpr", "target", "value"),
		spec("expr", "BinOp", "left", "op", "right"),
		spec("expr", "UnaryOp", "op", "operand"),
		spec("expr", "Lambda", "args", "body"),
		spec("expr", "IfExp", "test", "body", "orelse"),
		spec("expr", "Dict", "keys*", "values*"),
		spec("expr", "Set", "elts*"),
		spec("expr", "ListComp", "elt", "generators*"),
		spec("expr", "SetComp", "elt", "generators*"),
		spec("expr", "DictComp", "key", "value", "generators*"),
		spec("expr", "GeneratorExp", "elt", "generators*"),
		spec("expr", "Await", "value"),
		spec("expr", "Yield", "value?"),
		spec("expr", "YieldFrom", "value"),
		spec("expr", "Compare", "left", "ops*", "comparators*"),
		spec("expr", "Call", "func", "args*", "keywords*"),
		spec("expr", "FormattedValue", "value", "conversion", "format_spec?"),
		spec("expr", "JoinedStr", "values*"),
		spec("expr", "Constant", "value", "kind?"),
		spec("expr", "Attribute", "value", "attr", "ctx"),
		spec("expr", "Subscript", "value", "slice", "ctx"),
		spec("expr", "Starred", "value", "ctx"),
		spec("expr", "Name", "id", "ctx"),
		spec("expr", "List", "elts*", "ctx"),
		spec("expr", "Tuple", "elts*", "ctx"),
		spec("expr", "Slice", "lower?", "upper?", "step?"),

		spec("comprehension", "comprehension", "target", "iter", "ifs*", "is_async"),
		spec("excepthandler", "ExceptHandler", "type?", "name?", "body*"),
		spec("arguments", "arguments", "posonlyargs*", "args*", "vararg?", "kwonlyargs*", "kw_defaults*", "kwarg?", "defaults*"),
		spec("arg", "arg", "arg", "annotation?", "type_comment?"),
		spec("keyword", "keyword", "arg?", "value"),
		spec("alias", "alias", "name", "asname?"),
		spec("withitem", "withitem", "context_expr", "optional_vars?"),
		spec("match_case", "match_case", "pattern", "guard?", "body*"),

		spec("pattern", "MatchValue", "value"),
		spec("pattern", "MatchSingleton", "value"),
		spec("pattern", "MatchSequence", "patterns*"),
		spec("pattern", "MatchMapping", "keys*", "patterns*", "rest?"),
		spec("pattern", "MatchClass", "cls", "patterns*", "kwd_attrs*", "kwd_patterns*"),
		spec("pattern", "MatchStar", "name?"),
		spec("pattern", "MatchAs", "pattern?", "name?"),
		spec("pattern", "MatchOr", "patterns*"),

		spec("type_ignore", "TypeIgnore", "lineno", "tag"),

		spec("type_param", "TypeVar", "name", "bound?", "default_value?"),
		spec("type_param", "ParamSpec", "name", "default_value?"),
		spec("type_param", "TypeVarTuple", "name", "default_value?"),
	}

	// operator singletons
	for base, names := range map[string][]string{
		"expr_context": {"Load", "Store", "Del"},
		"boolop":       {"And", "Or"},
		"operator":     {"Add", "Sub", "Mult", "MatMult", "Div", "Mod", "Pow", "LShift", "RShift", "BitOr", "BitXor", "BitAnd", "FloorDiv"},
		"unaryop":      {"Invert", "Not", "UAdd", "USub"},
		"cmpop":        {"Eq", "NotEq", "Lt", "LtE", "Gt", "GtE", "Is", "IsNot", "In", "NotIn"},
	} {
		for _, name := range names {
			specs = append(specs, spec(base, name))
		}
	}
	return specs
}

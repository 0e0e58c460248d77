package dump

// Package dump parses the nested-node text produced by Python's
// ast.dump(tree, indent=4) and turns it into builder expressions: Python
// source that rebuilds the same tree through the ast module constructors.
//
// Scope:
// - the full ast.dump grammar: nodes, lists, tuples, strings, atoms
// - byte-offset diagnostics for every failure
// - deterministic builder output with a configurable constructor prefix
//
// Non-goals:
// - escape processing inside strings (raw text is re-quoted as is)
// - float, complex, bytes and Ellipsis constants

// =========================
// Value Definitions
// =========================

type Kind uint8

const (
	KindNode Kind = iota
	KindSequence
	KindString
	KindAtom
)

func (k Kind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindSequence:
		return "sequence"
	case KindString:
		return "string"
	case KindAtom:
		return "atom"
	}
	return "unknown"
}

// Value is one parsed production of the dump grammar.
type Value interface {
	Kind() Kind
}

// -------- Node --------

// Field is a name=value pair inside a node.
type Field struct {
	Name  string
	Value Value
}

// Node is Type(field=value, ...). Fields keep the order they had in the
// dump text.
type Node struct {
	Type   string
	Fields []Field
}

func (*Node) Kind() Kind { return KindNode }

// Get returns the value of the named field.
func (n *Node) Get(name string) (Value, bool) {
	for _, f := range n.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// -------- Sequence --------

type SeqKind uint8

const (
	SeqList SeqKind = iota
	SeqTuple
)

type Sequence struct {
	Type  SeqKind
	Elems []Value
}

func (*Sequence) Kind() Kind { return KindSequence }

// -------- String --------

// String holds the bytes between the quotes exactly as they appeared.
type String struct {
	Raw   string
	Quote byte
}

func (*String) Kind() Kind { return KindString }

// -------- Atom --------

type AtomKind uint8

const (
	AtomBool AtomKind = iota
	AtomNone
	AtomInt
)

type Atom struct {
	Type AtomKind
	Text string
}

func (*Atom) Kind() Kind { return KindAtom }

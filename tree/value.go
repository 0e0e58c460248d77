// Package tree is an in-memory Python syntax tree: node values built from
// builder expressions, validated against a node schema, and rendered back in
// ast.dump layout.
package tree

import "errors"

var ErrBuild = errors.New("tree build error")

// Value is a field value: *Node, List, Tuple, or a constant.
type Value interface {
	isValue()
}

// Field is a name=value pair of a node or its position attributes.
type Field struct {
	Name  string
	Value Value
}

type Node struct {
	Type       string
	Fields     []Field
	Attributes []Field
}

type List []Value

type Tuple []Value

type Str string

// Int is an arbitrary precision integer in canonical decimal form.
type Int string

type Bool bool

type None struct{}

// Opaque is a host constant without a Go counterpart, kept as its repr.
type Opaque struct {
	Kind string
	Repr string
}

func (*Node) isValue()  {}
func (List) isValue()   {}
func (Tuple) isValue()  {}
func (Str) isValue()    {}
func (Int) isValue()    {}
func (Bool) isValue()   {}
func (None) isValue()   {}
func (Opaque) isValue() {}

// Get returns the value of the named field.
func (n *Node) Get(name string) (Value, bool) {
	for _, f := range n.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Attr returns the value of the named position attribute.
func (n *Node) Attr(name string) (Value, bool) {
	for _, f := range n.Attributes {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Set replaces the named field or appends it.
func (n *Node) Set(name string, v Value) {
	for i := range n.Fields {
		if n.Fields[i].Name == name {
			n.Fields[i].Value = v
			return
		}
	}
	n.Fields = append(n.Fields, Field{Name: name, Value: v})
}

// SetAttr replaces the named attribute or appends it.
func (n *Node) SetAttr(name string, v Value) {
	for i := range n.Attributes {
		if n.Attributes[i].Name == name {
			n.Attributes[i].Value = v
			return
		}
	}
	n.Attributes = append(n.Attributes, Field{Name: name, Value: v})
}

// Children returns the nodes directly reachable from n's fields, in field
// order, looking through lists and tuples.
func (n *Node) Children() []*Node {
	var out []*Node
	var collect func(v Value)
	collect = func(v Value) {
		switch v := v.(type) {
		case *Node:
			out = append(out, v)
		case List:
			for _, e := range v {
				collect(e)
			}
		case Tuple:
			for _, e := range v {
				collect(e)
			}
		}
	}
	for _, f := range n.Fields {
		collect(f.Value)
	}
	return out
}

// Walk calls fn for n and every descendant, parents first. Returning false
// skips the node's children.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children() {
		Walk(c, fn)
	}
}

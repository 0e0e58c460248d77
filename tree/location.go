package tree

// FixMissingLocations fills in absent position attributes the way Python's
// ast.fix_missing_locations does: a node without a position takes its
// parent's, starting from line 1 column 0 at the root. s decides which
// attributes each node type carries; nodes it does not know are only
// descended into.
func FixMissingLocations(n *Node, s *Schema) {
	fixLocations(n, s, location{lineno: "1", colOffset: "0", endLineno: "1", endColOffset: "0"})
}

type location struct {
	lineno, colOffset, endLineno, endColOffset Int
}

func fixLocations(n *Node, s *Schema, loc location) {
	if spec, ok := s.Lookup(n.Type); ok {
		fixAttr(n, spec, "lineno", &loc.lineno, false)
		fixAttr(n, spec, "end_lineno", &loc.endLineno, true)
		fixAttr(n, spec, "col_offset", &loc.colOffset, false)
		fixAttr(n, spec, "end_col_offset", &loc.endColOffset, true)
	}
	for _, c := range n.Children() {
		fixLocations(c, s, loc)
	}
}

// fixAttr sets the attribute from inherited when absent, otherwise records
// the node's own value for its children. End positions also count as absent
// when they hold None.
func fixAttr(n *Node, spec *NodeSpec, name string, inherited *Int, noneIsMissing bool) {
	if _, ok := spec.Attribute(name); !ok {
		return
	}
	v, ok := n.Attr(name)
	if ok && noneIsMissing {
		if _, isNone := v.(None); isNone {
			ok = false
		}
	}
	if !ok {
		n.SetAttr(name, *inherited)
		return
	}
	if i, isInt := v.(Int); isInt {
		*inherited = i
	}
}

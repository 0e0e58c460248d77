package tree

// FillMissingFields gives every absent field the default Python 3.13's node
// constructors use: an empty list for repeated fields, None for optional
// ones and Load() for an expression context. Older interpreters leave such
// fields unset and then fail to compile or unparse the tree.
func FillMissingFields(n *Node, s *Schema) {
	Walk(n, func(n *Node) bool {
		spec, ok := s.Lookup(n.Type)
		if !ok {
			return true
		}
		for _, f := range spec.Fields {
			if _, ok := n.Get(f.Name); ok {
				continue
			}
			switch {
			case f.Card == Many:
				n.Set(f.Name, List{})
			case f.Card == Optional:
				n.Set(f.Name, None{})
			case f.Name == "ctx":
				n.Set(f.Name, &Node{Type: "Load"})
			}
		}
		return true
	})
}

package doctree

import "slices"

// path returns the child indices leading from the root to id.
func (t *Tree) path(id NodeID) []int {
	var p []int
	for cur := id; cur != t.root; {
		i := t.indexOf(cur)
		if i < 0 {
			return nil
		}
		p = append(p, i)
		cur = t.node(cur).parent
	}
	slices.Reverse(p)
	return p
}

// Compare orders two nodes in document order. It returns -1 if a comes
// before b, 1 if after, and 0 if they are the same node. An ancestor sorts
// before its descendants.
func (t *Tree) Compare(a, b NodeID) int {
	if a == b {
		return 0
	}
	return slices.Compare(t.path(a), t.path(b))
}

// Siblings reports whether a and b share the same immediate container.
func (t *Tree) Siblings(a, b NodeID) bool {
	na, nb := t.node(a), t.node(b)
	return na != nil && nb != nil && na.parent == nb.parent
}

// Climb returns the nearest node, starting at id itself and walking up the
// ancestor chain, whose kind is one of kinds.
func (t *Tree) Climb(id NodeID, kinds ...Kind) (NodeID, bool) {
	for cur := id; ; {
		n := t.node(cur)
		if n == nil {
			return NodeID{}, false
		}
		if slices.Contains(kinds, n.kind) {
			return cur, true
		}
		if cur == t.root {
			return NodeID{}, false
		}
		cur = n.parent
	}
}

// FirstDescendant returns the first leaf at or below id.
func (t *Tree) FirstDescendant(id NodeID) (NodeID, bool) {
	n := t.node(id)
	if n == nil {
		return NodeID{}, false
	}
	if n.kind.IsLeaf() {
		return id, true
	}
	for _, c := range n.children {
		if leaf, ok := t.FirstDescendant(c); ok {
			return leaf, true
		}
	}
	return NodeID{}, false
}

// LastDescendant returns the last leaf at or below id.
func (t *Tree) LastDescendant(id NodeID) (NodeID, bool) {
	n := t.node(id)
	if n == nil {
		return NodeID{}, false
	}
	if n.kind.IsLeaf() {
		return id, true
	}
	for i := len(n.children) - 1; i >= 0; i-- {
		if leaf, ok := t.LastDescendant(n.children[i]); ok {
			return leaf, true
		}
	}
	return NodeID{}, false
}

// NextText returns the leaf following id in document order. Without cross
// the search stays inside id's own container.
func (t *Tree) NextText(id NodeID, cross bool) (NodeID, bool) {
	return t.adjacentText(id, cross, 1)
}

// PreviousText returns the leaf preceding id in document order. Without
// cross the search stays inside id's own container.
func (t *Tree) PreviousText(id NodeID, cross bool) (NodeID, bool) {
	return t.adjacentText(id, cross, -1)
}

func (t *Tree) adjacentText(id NodeID, cross bool, dir int) (NodeID, bool) {
	if t.node(id) == nil {
		return NodeID{}, false
	}
	for cur := id; ; {
		parent := t.node(cur).parent
		p := t.node(parent)
		if p == nil {
			return NodeID{}, false
		}
		for i := slices.Index(p.children, cur) + dir; i >= 0 && i < len(p.children); i += dir {
			sib := p.children[i]
			if t.Kind(sib).IsLeaf() {
				return sib, true
			}
			if !cross {
				continue
			}
			var (
				leaf NodeID
				ok   bool
			)
			if dir > 0 {
				leaf, ok = t.FirstDescendant(sib)
			} else {
				leaf, ok = t.LastDescendant(sib)
			}
			if ok {
				return leaf, true
			}
		}
		if !cross || parent == t.root {
			return NodeID{}, false
		}
		cur = parent
	}
}

// Leaves returns the leaves from first through last in document order.
// It returns nil if last does not follow first.
func (t *Tree) Leaves(first, last NodeID) []NodeID {
	if !t.Kind(first).IsLeaf() || !t.Kind(last).IsLeaf() || t.Compare(first, last) > 0 {
		return nil
	}
	leaves := []NodeID{first}
	for cur := first; cur != last; {
		next, ok := t.NextText(cur, true)
		if !ok {
			break
		}
		leaves = append(leaves, next)
		cur = next
	}
	return leaves
}

// TopBlock returns the ancestor of id (or id itself) that is a direct child
// of the document root.
func (t *Tree) TopBlock(id NodeID) (NodeID, bool) {
	for cur := id; ; {
		n := t.node(cur)
		if n == nil || cur == t.root {
			return NodeID{}, false
		}
		if n.parent == t.root {
			return cur, true
		}
		cur = n.parent
	}
}

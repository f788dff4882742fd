package doctree

import "slices"

// container returns the live container node for id.
func (t *Tree) container(id NodeID) (*node, error) {
	n := t.node(id)
	if n == nil {
		return nil, ErrNodeRemoved
	}
	if !n.kind.IsContainer() {
		return nil, ErrNotContainer
	}
	return n, nil
}

// LastChild returns the last child of a container.
func (t *Tree) LastChild(id NodeID) (NodeID, bool) {
	n := t.node(id)
	if n == nil || len(n.children) == 0 {
		return NodeID{}, false
	}
	return n.children[len(n.children)-1], true
}

// NextSibling returns the node after id in its container.
func (t *Tree) NextSibling(id NodeID) (NodeID, bool) {
	return t.sibling(id, 1)
}

// PreviousSibling returns the node before id in its container.
func (t *Tree) PreviousSibling(id NodeID) (NodeID, bool) {
	return t.sibling(id, -1)
}

func (t *Tree) sibling(id NodeID, dir int) (NodeID, bool) {
	n := t.node(id)
	if n == nil {
		return NodeID{}, false
	}
	p := t.node(n.parent)
	if p == nil {
		return NodeID{}, false
	}
	i := slices.Index(p.children, id) + dir
	if i < 0 || i >= len(p.children) {
		return NodeID{}, false
	}
	return p.children[i], true
}

// Defrag fuses adjacent leaves with identical attributes and drops empty
// leaves, always leaving at least one leaf behind. Block containers are
// defragmented recursively. Defrag is idempotent.
func (t *Tree) Defrag(id NodeID) error {
	n, err := t.container(id)
	if err != nil {
		return err
	}
	if !n.kind.HoldsLeaves() {
		for _, c := range slices.Clone(n.children) {
			if t.Kind(c).IsContainer() {
				if err := t.Defrag(c); err != nil {
					return err
				}
			}
		}
		return nil
	}

	for i := 0; ; {
		kids := t.node(id).children
		if i+1 >= len(kids) {
			return nil
		}
		a, b := t.node(kids[i]), t.node(kids[i+1])
		switch {
		case !a.kind.IsLeaf() || !b.kind.IsLeaf():
			i++
		case len(b.text) == 0:
			_ = t.Remove(kids[i+1])
		case len(a.text) == 0:
			_ = t.Remove(kids[i])
		case sameAttrs(a, b):
			a.text = append(slices.Clone(a.text), b.text...)
			_ = t.Remove(kids[i+1])
		default:
			i++
		}
	}
}

// cloneContainer allocates a detached container with the attributes of src.
func (t *Tree) cloneContainer(src NodeID) NodeID {
	s := t.node(src)
	kind, align, level := s.kind, s.align, s.level
	id := t.alloc(kind)
	n := t.node(id)
	n.align, n.level = align, level
	return id
}

// SplitContainer splits the container of leaf in two. A new container with
// the same attributes is inserted after the original and receives leaf and
// every sibling that follows it.
func (t *Tree) SplitContainer(leaf NodeID) (NodeID, error) {
	if _, err := t.leaf(leaf); err != nil {
		return NodeID{}, err
	}
	parent := t.Parent(leaf)
	p := t.node(parent)
	if !p.kind.HoldsLeaves() {
		return NodeID{}, ErrNotContainer
	}
	if p.kind == KindCell {
		return NodeID{}, ErrNotSplittable
	}
	moving := p.children[slices.Index(p.children, leaf):]
	moving = slices.Clone(moving)

	nc := t.cloneContainer(parent)
	t.insertChild(t.Parent(parent), t.indexOf(parent)+1, nc)
	for _, c := range moving {
		t.detach(c)
		t.appendChild(nc, c)
	}
	return nc, nil
}

// Wrap moves the siblings first through last into a new container of kind
// inserted where first was.
func (t *Tree) Wrap(first, last NodeID, kind Kind) (NodeID, error) {
	if !t.Siblings(first, last) {
		return NodeID{}, ErrRangeInvalid
	}
	if first == t.root {
		return NodeID{}, ErrRootImmutable
	}
	if !kind.IsContainer() || kind.HoldsLeaves() || kind == KindDocument {
		return NodeID{}, ErrNotContainer
	}
	parent := t.Parent(first)
	i, j := t.indexOf(first), t.indexOf(last)
	if i > j {
		return NodeID{}, ErrRangeInvalid
	}
	moving := slices.Clone(t.node(parent).children[i : j+1])

	w := t.alloc(kind)
	t.insertChild(parent, i, w)
	for _, c := range moving {
		t.detach(c)
		t.appendChild(w, c)
	}
	return w, nil
}

// mergeAdjacent fuses id with equal-kind list or quote siblings on either
// side and returns the surviving container.
func (t *Tree) mergeAdjacent(id NodeID) NodeID {
	kind := t.Kind(id)
	if !kind.mergeable() {
		return id
	}
	if next, ok := t.NextSibling(id); ok && t.Kind(next) == kind {
		for _, c := range t.Children(next) {
			t.detach(c)
			t.appendChild(id, c)
		}
		_ = t.Remove(next)
	}
	if prev, ok := t.PreviousSibling(id); ok && t.Kind(prev) == kind {
		for _, c := range t.Children(id) {
			t.detach(c)
			t.appendChild(prev, c)
		}
		_ = t.Remove(id)
		return prev
	}
	return id
}

// splitOut moves child out of its container to just after it. Siblings that
// followed child move into a copy of the container placed after child, and
// the original container is removed if left empty.
func (t *Tree) splitOut(child NodeID) {
	parent := t.Parent(child)
	grand := t.Parent(parent)
	tail := slices.Clone(t.node(parent).children[t.indexOf(child)+1:])

	at := t.indexOf(parent) + 1
	if len(tail) > 0 {
		rest := t.cloneContainer(parent)
		t.insertChild(grand, at, rest)
		for _, c := range tail {
			t.detach(c)
			t.appendChild(rest, c)
		}
	}
	t.detach(child)
	t.insertChild(grand, at, child)
	if len(t.node(parent).children) == 0 {
		_ = t.Remove(parent)
	}
}

// Indent indents a leaf-bearing container.
//
// With a list kind, a paragraph becomes a level-0 item of a list of that
// kind (joining an adjacent list of the same kind), an item of a list of
// that kind gains one level up to MaxLevel, and an item of the other list
// kind moves into its own list of kind. With KindBlockquote, the top-level
// block holding the container is wrapped in a quote.
func (t *Tree) Indent(id NodeID, kind Kind) error {
	n, err := t.container(id)
	if err != nil {
		return err
	}
	if !n.kind.HoldsLeaves() {
		return ErrNotContainer
	}
	switch {
	case kind.IsList():
		switch n.kind {
		case KindParagraph:
			t.listify(id, kind)
		case KindItem:
			if t.Kind(n.parent) == kind {
				n.level = min(n.level+1, t.maxLevel)
				return nil
			}
			t.retype(id, kind)
		default:
			return ErrNotIndentable
		}
		return nil
	case kind == KindBlockquote:
		blk, ok := t.TopBlock(id)
		if !ok {
			return ErrNotIndentable
		}
		if t.Kind(blk) == KindBlockquote {
			return nil
		}
		q, err := t.Wrap(blk, blk, KindBlockquote)
		if err != nil {
			return err
		}
		t.mergeAdjacent(q)
		return nil
	default:
		return ErrNotIndentable
	}
}

// listify turns a paragraph into a level-0 item of a list of kind.
func (t *Tree) listify(id NodeID, kind Kind) {
	n := t.node(id)
	n.kind, n.level = KindItem, 0

	if prev, ok := t.PreviousSibling(id); ok && t.Kind(prev) == kind {
		t.detach(id)
		t.appendChild(prev, id)
		t.mergeAdjacent(prev)
		return
	}
	if next, ok := t.NextSibling(id); ok && t.Kind(next) == kind {
		t.detach(id)
		t.insertChild(next, 0, id)
		return
	}
	list := t.alloc(kind)
	t.insertChild(t.Parent(id), t.indexOf(id), list)
	t.detach(id)
	t.appendChild(list, id)
}

// retype moves an item into a list of another kind, splitting its list.
func (t *Tree) retype(item NodeID, kind Kind) {
	list := t.Parent(item)
	t.splitOut(item)
	nl := t.alloc(kind)
	t.insertChild(t.Parent(item), t.indexOf(item), nl)
	t.detach(item)
	t.appendChild(nl, item)
	t.mergeAdjacent(nl)
	if t.Alive(list) {
		t.mergeAdjacent(list)
	}
}

// Unindent reverses Indent.
//
// With a list kind, an item above level 0 loses one level and a level-0 item
// becomes a paragraph placed between the two halves of its former list.
// With KindBlockquote, the block holding the container is lifted out of its
// nearest quote.
func (t *Tree) Unindent(id NodeID, kind Kind) error {
	n, err := t.container(id)
	if err != nil {
		return err
	}
	if !n.kind.HoldsLeaves() {
		return ErrNotContainer
	}
	switch {
	case kind.IsList():
		if n.kind != KindItem {
			return ErrNotIndented
		}
		if n.level > 0 {
			n.level--
			return nil
		}
		t.splitOut(id)
		n = t.node(id)
		n.kind, n.level = KindParagraph, 0
		return nil
	case kind == KindBlockquote:
		q, ok := t.Climb(id, KindBlockquote)
		if !ok {
			return ErrNotIndented
		}
		blk := id
		for t.Parent(blk) != q {
			blk = t.Parent(blk)
		}
		t.splitOut(blk)
		return nil
	default:
		return ErrNotIndented
	}
}

package doctree

import (
	"slices"
)

// leaf returns the live leaf node for id.
func (t *Tree) leaf(id NodeID) (*node, error) {
	n := t.node(id)
	if n == nil {
		return nil, ErrNodeRemoved
	}
	if !n.kind.IsLeaf() {
		return nil, ErrNotLeaf
	}
	return n, nil
}

// span validates [start, end) against a leaf of length n. An end of -1
// means the end of the leaf.
func span(n, start, end int) (int, int, error) {
	if end < 0 {
		end = n
	}
	if start < 0 || end > n {
		return 0, 0, ErrOffsetOutOfRange
	}
	if start > end {
		return 0, 0, ErrRangeInvalid
	}
	return start, end, nil
}

// sameAttrs reports whether two leaves may be fused into one run.
func sameAttrs(a, b *node) bool {
	return a.kind == b.kind && a.style == b.style && a.url == b.url
}

// Insert inserts s into a leaf at offset.
func (t *Tree) Insert(id NodeID, offset int, s string) error {
	n, err := t.leaf(id)
	if err != nil {
		return err
	}
	if offset < 0 || offset > len(n.text) {
		return ErrOffsetOutOfRange
	}
	n.text = slices.Insert(slices.Clone(n.text), offset, []rune(s)...)
	return nil
}

// Extract removes the runes in [start, end) from a leaf, leaving the leaf in
// place even when it becomes empty.
func (t *Tree) Extract(id NodeID, start, end int) error {
	n, err := t.leaf(id)
	if err != nil {
		return err
	}
	start, end, err = span(len(n.text), start, end)
	if err != nil {
		return err
	}
	n.text = slices.Delete(slices.Clone(n.text), start, end)
	return nil
}

// Cut keeps only the runes in [start, end) of a leaf.
func (t *Tree) Cut(id NodeID, start, end int) error {
	n, err := t.leaf(id)
	if err != nil {
		return err
	}
	start, end, err = span(len(n.text), start, end)
	if err != nil {
		return err
	}
	n.text = slices.Clone(n.text[start:end])
	return nil
}

// Split cuts a leaf at each offset strictly inside it. The original leaf
// keeps the head; the returned slice lists every piece in order, starting
// with the original id. Offsets at the edges are ignored.
func (t *Tree) Split(id NodeID, offsets ...int) ([]NodeID, error) {
	n, err := t.leaf(id)
	if err != nil {
		return nil, err
	}
	text := n.text
	var cuts []int
	for _, o := range offsets {
		if o > 0 && o < len(text) {
			cuts = append(cuts, o)
		}
	}
	slices.Sort(cuts)
	cuts = slices.Compact(cuts)

	pieces := []NodeID{id}
	if len(cuts) == 0 {
		return pieces, nil
	}
	kind, style, url := n.kind, n.style, n.url
	cur := id
	for i, o := range cuts {
		end := len(text)
		if i+1 < len(cuts) {
			end = cuts[i+1]
		}
		next := t.newLeaf(kind, string(text[o:end]), style, url)
		t.insertChild(t.node(cur).parent, t.indexOf(cur)+1, next)
		pieces = append(pieces, next)
		cur = next
	}
	t.node(id).text = slices.Clone(text[:cuts[0]])
	return pieces, nil
}

// newLeaf allocates a detached leaf.
func (t *Tree) newLeaf(kind Kind, text string, style Style, url string) NodeID {
	id := t.alloc(kind)
	n := t.node(id)
	n.text = []rune(text)
	n.style = style
	n.url = url
	return id
}

// CreateTextPrev inserts a new text leaf immediately before id.
func (t *Tree) CreateTextPrev(id NodeID, value string, style Style) (NodeID, error) {
	if _, err := t.leaf(id); err != nil {
		return NodeID{}, err
	}
	leaf := t.newLeaf(KindText, value, style, "")
	t.insertChild(t.Parent(id), t.indexOf(id), leaf)
	return leaf, nil
}

// CreateTextNext inserts a new text leaf immediately after id.
func (t *Tree) CreateTextNext(id NodeID, value string, style Style) (NodeID, error) {
	if _, err := t.leaf(id); err != nil {
		return NodeID{}, err
	}
	leaf := t.newLeaf(KindText, value, style, "")
	t.insertChild(t.Parent(id), t.indexOf(id)+1, leaf)
	return leaf, nil
}

// SetLink turns a leaf into a link to url, or back into plain text when url
// is empty.
func (t *Tree) SetLink(id NodeID, url string) error {
	n, err := t.leaf(id)
	if err != nil {
		return err
	}
	if url == "" {
		n.kind, n.url = KindText, ""
		return nil
	}
	n.kind, n.url = KindLink, url
	return nil
}

// Format adds styles to a leaf.
func (t *Tree) Format(id NodeID, s Style) error {
	n, err := t.leaf(id)
	if err != nil {
		return err
	}
	n.style |= s
	return nil
}

// Unformat clears styles from a leaf.
func (t *Tree) Unformat(id NodeID, s Style) error {
	n, err := t.leaf(id)
	if err != nil {
		return err
	}
	n.style &^= s
	return nil
}

// Join appends the text of b to a and removes b, pruning any container b
// leaves empty. The attributes of a win.
func (t *Tree) Join(a, b NodeID) error {
	if a == b {
		return ErrRangeInvalid
	}
	an, err := t.leaf(a)
	if err != nil {
		return err
	}
	bn, err := t.leaf(b)
	if err != nil {
		return err
	}
	an.text = append(slices.Clone(an.text), bn.text...)
	parent := bn.parent
	if err := t.Remove(b); err != nil {
		return err
	}
	t.prune(parent)
	return nil
}

// Merge joins the document between leaves a and b, where a precedes b.
//
// Every leaf strictly between them is removed along with the containers
// this empties. If b lives in another container, b and its following
// siblings move into a's container after a, and b's container is pruned.
// Finally b is fused into a when their attributes match or b is empty.
func (t *Tree) Merge(a, b NodeID) error {
	if a == b {
		return nil
	}
	if _, err := t.leaf(a); err != nil {
		return err
	}
	if _, err := t.leaf(b); err != nil {
		return err
	}
	if t.Compare(a, b) > 0 {
		return ErrRangeInvalid
	}

	for {
		next, ok := t.NextText(a, true)
		if !ok || next == b {
			break
		}
		parent := t.Parent(next)
		if err := t.Remove(next); err != nil {
			return err
		}
		t.prune(parent)
	}

	pa, pb := t.Parent(a), t.Parent(b)
	if pa != pb {
		moving := t.Children(pb)[t.indexOf(b):]
		for _, c := range moving {
			t.detach(c)
			t.appendChild(pa, c)
		}
		t.prune(pb)
	}

	an, bn := t.node(a), t.node(b)
	if sameAttrs(an, bn) || len(bn.text) == 0 {
		an.text = append(slices.Clone(an.text), bn.text...)
		return t.Remove(b)
	}
	return nil
}

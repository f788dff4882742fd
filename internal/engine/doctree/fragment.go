package doctree

import (
	"slices"
	"strings"
)

// Fragment clones the part of the tree spanned by the leaves start through
// end into a new, detached tree. Every container on the path to a cloned
// leaf is cloned with its attributes; leaves keep their text and style but
// receive fresh identifiers.
func (t *Tree) Fragment(start, end NodeID) *Tree {
	f := New(WithMaxLevel(t.maxLevel))
	if !t.Kind(start).IsLeaf() || !t.Kind(end).IsLeaf() {
		return f
	}
	if t.Compare(start, end) > 0 {
		start, end = end, start
	}
	t.cloneInto(f, t.root, f.root, start, end)
	return f
}

func (t *Tree) cloneInto(f *Tree, src, dst, start, end NodeID) {
	for _, c := range t.node(src).children {
		cn := t.node(c)
		if cn.kind.IsLeaf() {
			if t.Compare(c, start) < 0 || t.Compare(c, end) > 0 {
				continue
			}
			id := f.newLeaf(cn.kind, string(cn.text), cn.style, cn.url)
			f.appendChild(dst, id)
			continue
		}
		first, ok := t.FirstDescendant(c)
		if !ok || t.Compare(first, end) > 0 {
			continue
		}
		last, _ := t.LastDescendant(c)
		if t.Compare(last, start) < 0 {
			continue
		}
		id := f.alloc(cn.kind)
		fn := f.node(id)
		fn.align, fn.level = cn.align, cn.level
		f.appendChild(dst, id)
		t.cloneInto(f, c, id, start, end)
	}
}

// PlainText returns the text of every leaf in document order. Leaves in
// different containers are separated by a newline, the same implicit
// character the selection engine counts when it moves across a container
// boundary.
func (t *Tree) PlainText() string {
	first, ok := t.FirstDescendant(t.root)
	if !ok {
		return ""
	}
	last, _ := t.LastDescendant(t.root)
	return t.TextBetween(first, 0, last, -1)
}

// TextBetween returns the text from (start, startOffset) to (end, endOffset)
// with container boundaries rendered as newlines. An endOffset of -1 means
// the end of the leaf.
func (t *Tree) TextBetween(start NodeID, startOffset int, end NodeID, endOffset int) string {
	leaves := t.Leaves(start, end)
	if len(leaves) == 0 {
		return ""
	}
	var b strings.Builder
	for i, leaf := range leaves {
		text := t.node(leaf).text
		lo, hi := 0, len(text)
		if i == 0 {
			lo = max(0, min(startOffset, hi))
		}
		if i == len(leaves)-1 && endOffset >= 0 {
			hi = max(lo, min(endOffset, hi))
		}
		if i > 0 && !t.Siblings(leaves[i-1], leaf) {
			b.WriteByte('\n')
		}
		b.WriteString(string(text[lo:hi]))
	}
	return b.String()
}

// Containers returns the distinct containers owning the leaves first through
// last, in document order.
func (t *Tree) Containers(first, last NodeID) []NodeID {
	var out []NodeID
	for _, leaf := range t.Leaves(first, last) {
		p := t.Parent(leaf)
		if !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	return out
}

package selection

import "github.com/dshills/inkstone/internal/engine/doctree"

// Copy returns the selected content as a detached tree, or nil if nothing
// is selected. A cursor copies the word around it. Leaves at the edges are
// cut to the selected offsets.
func (s *Selection) Copy() *doctree.Tree {
	if !s.Valid() {
		return nil
	}
	if s.Collapsed() {
		s.WordWrap()
		if s.Collapsed() {
			return nil
		}
	}
	s.Trim()

	start, end := s.start, s.end
	frag := s.tree.Fragment(start.Leaf, end.Leaf)
	if frag == nil {
		return nil
	}
	if start.Offset == 0 && end.Offset == s.tree.Len(end.Leaf) {
		return frag
	}
	first, ok := frag.FirstDescendant(frag.Root())
	if !ok {
		return frag
	}
	if s.Single() {
		s.debug("copy", frag.Cut(first, start.Offset, end.Offset))
		return frag
	}
	s.debug("copy", frag.Cut(first, start.Offset, -1))
	if last, ok := frag.LastDescendant(frag.Root()); ok {
		s.debug("copy", frag.Cut(last, 0, end.Offset))
	}
	return frag
}

package selection

import (
	"slices"

	"github.com/dshills/inkstone/internal/engine/doctree"
)

// Climb returns the nearest container, starting at the start leaf's own
// container, whose kind is one of kinds.
func (s *Selection) Climb(kinds ...doctree.Kind) (NodeID, bool) {
	if !s.Valid() {
		return NodeID{}, false
	}
	return s.tree.Climb(s.tree.Parent(s.start.Leaf), kinds...)
}

// Indent nests every selected list item one level deeper. It does nothing
// outside a list.
func (s *Selection) Indent() {
	if _, ok := s.Climb(doctree.KindBulleted, doctree.KindNumbered); !ok {
		return
	}
	s.Save()
	for _, c := range s.containers() {
		if s.tree.Kind(c) != doctree.KindItem {
			continue
		}
		s.debug("indent", s.tree.Indent(c, s.tree.Kind(s.tree.Parent(c))))
	}
	s.Restore()
}

// Unindent lowers every selected container out of the nearest list or
// quote around the start. It does nothing outside lists and quotes.
func (s *Selection) Unindent() {
	outer, ok := s.Climb(doctree.KindBlockquote, doctree.KindBulleted, doctree.KindNumbered)
	if !ok {
		return
	}
	kind := s.tree.Kind(outer)
	s.Save()
	if kind == doctree.KindBlockquote {
		s.unquote()
	} else {
		for _, c := range s.containers() {
			if s.tree.Kind(c) == doctree.KindItem {
				s.debug("unindent", s.tree.Unindent(c, kind))
			}
		}
	}
	s.Restore()
}

// unquote lifts the blocks holding the selected containers out of their
// quotes, once per block.
func (s *Selection) unquote() {
	var blocks []NodeID
	var lift []NodeID
	for _, c := range s.containers() {
		q, ok := s.tree.Climb(c, doctree.KindBlockquote)
		if !ok {
			continue
		}
		blk := c
		for s.tree.Parent(blk) != q {
			blk = s.tree.Parent(blk)
		}
		if slices.Contains(blocks, blk) {
			continue
		}
		blocks = append(blocks, blk)
		lift = append(lift, c)
	}
	for _, c := range lift {
		s.debug("unindent", s.tree.Unindent(c, doctree.KindBlockquote))
	}
}

// ToggleList removes the list around the selection, or applies a list of
// kind to every selected container except table cells. Toggling a list
// that already has kind only removes it.
func (s *Selection) ToggleList(kind doctree.Kind) {
	if !kind.IsList() || !s.Valid() {
		return
	}
	s.Save()
	if list, ok := s.Climb(doctree.KindBulleted, doctree.KindNumbered); ok {
		current := s.tree.Kind(list)
		for _, c := range s.containers() {
			for s.tree.Kind(c) == doctree.KindItem {
				if err := s.tree.Unindent(c, current); err != nil {
					s.debug("list", err)
					break
				}
			}
		}
		if current == kind {
			s.Restore()
			return
		}
	}
	for _, c := range s.containers() {
		if s.tree.Kind(c) == doctree.KindCell {
			continue
		}
		s.debug("list", s.tree.Indent(c, kind))
	}
	s.Restore()
}

// ToggleQuote lifts the selection out of its quote, or wraps the top-level
// blocks from the start through the end in a new quote.
func (s *Selection) ToggleQuote() {
	if !s.Valid() {
		return
	}
	if _, ok := s.Climb(doctree.KindBlockquote); ok {
		s.Save()
		s.unquote()
		s.Restore()
		return
	}
	first, ok := s.tree.TopBlock(s.start.Leaf)
	if !ok {
		return
	}
	last, ok := s.tree.TopBlock(s.end.Leaf)
	if !ok {
		return
	}
	s.Save()
	_, err := s.tree.Wrap(first, last, doctree.KindBlockquote)
	s.debug("quote", err)
	s.Restore()
}

// BelongsTo reports whether the selection lies within a node of kind.
//
// The document always matches. Text and link match a single-leaf
// selection on a leaf of that kind. Items and cells match when both ends
// sit in the same one. Other blocks match when both ends climb to the same
// block, or for a single leaf when the start climbs to one at all.
func (s *Selection) BelongsTo(kind doctree.Kind) bool {
	if kind == doctree.KindDocument {
		return true
	}
	if !s.Valid() {
		return false
	}
	if kind.IsLeaf() {
		return s.Single() && s.tree.Kind(s.start.Leaf) == kind
	}

	a, ok := s.tree.Climb(s.tree.Parent(s.start.Leaf), kind)
	if !ok {
		return false
	}
	if s.Single() && kind != doctree.KindItem && kind != doctree.KindCell {
		return true
	}
	b, ok := s.tree.Climb(s.tree.Parent(s.end.Leaf), kind)
	return ok && a == b
}

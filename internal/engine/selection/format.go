package selection

import "github.com/dshills/inkstone/internal/engine/doctree"

// Style returns the style of the start leaf.
func (s *Selection) Style() doctree.Style {
	if !s.Valid() {
		return 0
	}
	return s.tree.Style(s.start.Leaf)
}

// HasFormat reports whether the start leaf carries every style in st.
func (s *Selection) HasFormat(st doctree.Style) bool {
	return s.Style().Has(st)
}

// URL returns the link target of the start leaf, or "" if it is not a link.
func (s *Selection) URL() string {
	if !s.Valid() {
		return ""
	}
	return s.tree.URL(s.start.Leaf)
}

// Format adds st to every selected leaf. A cursor formats the word around
// it.
func (s *Selection) Format(st doctree.Style) {
	s.restyle("format", func(leaf NodeID) error {
		return s.tree.Format(leaf, st)
	})
}

// Unformat clears st from every selected leaf. A cursor unformats the word
// around it.
func (s *Selection) Unformat(st doctree.Style) {
	s.restyle("unformat", func(leaf NodeID) error {
		return s.tree.Unformat(leaf, st)
	})
}

// ToggleFormat clears st if the start leaf already has it and adds it
// otherwise.
func (s *Selection) ToggleFormat(st doctree.Style) {
	if s.HasFormat(st) {
		s.Unformat(st)
		return
	}
	s.Format(st)
}

// isolate narrows the selection to whole leaves, word-wrapping a cursor
// first. It reports false when nothing is left to operate on.
func (s *Selection) isolate() bool {
	if !s.Valid() {
		return false
	}
	if s.Collapsed() {
		s.WordWrap()
		if s.Collapsed() {
			return false
		}
	}
	s.Trim()
	s.Split()
	return s.Valid() && !s.Collapsed()
}

func (s *Selection) restyle(op string, apply func(NodeID) error) {
	if !s.isolate() {
		return
	}
	for _, leaf := range s.leaves() {
		s.debug(op, apply(leaf))
	}
	s.Defrag()
}

// Link turns the selection into a single link run pointing at url. An
// empty url removes links instead. A range spanning several containers is
// clamped to the container of its start.
func (s *Selection) Link(url string) {
	if url == "" {
		s.Unlink()
		return
	}
	if !s.isolate() {
		return
	}
	if !s.tree.Siblings(s.start.Leaf, s.end.Leaf) {
		last, ok := s.tree.LastDescendant(s.tree.Parent(s.start.Leaf))
		if !ok {
			return
		}
		s.end = Endpoint{Leaf: last, Offset: s.tree.Len(last)}
	}

	leaf := s.start.Leaf
	for _, next := range s.leaves()[1:] {
		if err := s.tree.Join(leaf, next); err != nil {
			s.debug("link", err)
			break
		}
	}
	if err := s.tree.SetLink(leaf, url); err != nil {
		s.debug("link", err)
		return
	}
	s.Set(leaf, 0, leaf, -1)
}

// Unlink turns every selected link leaf back into plain text. A cursor
// inside a link unlinks the whole link run.
func (s *Selection) Unlink() {
	if !s.Valid() {
		return
	}
	for _, leaf := range s.leaves() {
		if s.tree.Kind(leaf) == doctree.KindLink {
			s.debug("unlink", s.tree.SetLink(leaf, ""))
		}
	}
	s.Defrag()
}

package selection

import (
	"unicode/utf8"

	"github.com/dshills/inkstone/internal/engine/doctree"
)

// Insert types text at the cursor, replacing the selected range first.
// Text typed at the trailing edge of a link goes into the following plain
// leaf, which is created if needed, so links never grow by typing.
func (s *Selection) Insert(text string) {
	if !s.Valid() {
		return
	}
	if !s.Collapsed() {
		s.Delete()
		if !s.Valid() {
			return
		}
	}
	if s.normalize != nil {
		text = s.normalize(text)
	}
	if text == "" {
		return
	}

	leaf, offset := s.start.Leaf, s.start.Offset
	if s.tree.Kind(leaf) == doctree.KindLink && offset == s.tree.Len(leaf) {
		next, ok := s.tree.NextText(leaf, false)
		if !ok || s.tree.Kind(next) != doctree.KindText {
			var err error
			next, err = s.tree.CreateTextNext(leaf, "", s.tree.Style(leaf))
			if err != nil {
				s.debug("insert", err)
				return
			}
		}
		leaf, offset = next, 0
	}
	if err := s.tree.Insert(leaf, offset, text); err != nil {
		s.debug("insert", err)
		return
	}
	s.SetCursor(leaf, offset+utf8.RuneCountInString(text))
}

// Delete removes the selected range and collapses the cursor onto the join
// point. A cursor deletes nothing.
func (s *Selection) Delete() {
	if !s.Valid() || s.Collapsed() {
		return
	}
	start, end := s.start, s.end

	if s.Single() {
		if err := s.tree.Extract(start.Leaf, start.Offset, end.Offset); err != nil {
			s.debug("delete", err)
			return
		}
		if s.tree.Len(start.Leaf) > 0 {
			s.SetCursor(start.Leaf, start.Offset)
			return
		}
	} else {
		s.debug("delete", s.tree.Extract(start.Leaf, start.Offset, -1))
		s.debug("delete", s.tree.Extract(end.Leaf, 0, end.Offset))
	}

	a, b := start.Leaf, end.Leaf
	if s.tree.Len(a) == 0 {
		if prev, ok := s.tree.PreviousText(a, false); ok {
			a = prev
		}
	}
	if s.tree.Len(b) == 0 {
		if next, ok := s.tree.NextText(b, false); ok {
			b = next
		}
	}

	join := s.tree.Len(a)
	if err := s.tree.Merge(a, b); err != nil {
		s.debug("delete", err)
	}
	if join == 0 && a != b && s.tree.Alive(b) && s.tree.Siblings(a, b) {
		// An empty head in front of a differently styled tail.
		s.debug("delete", s.tree.Remove(a))
		s.SetCursor(b, 0)
		return
	}
	s.SetCursor(a, join)
}

// Break inserts a paragraph break at the cursor, replacing the selected
// range first. The container is split in two and the cursor lands at the
// start of the new container. A forced break, a break inside a link or a
// break inside a table cell inserts a newline character instead.
func (s *Selection) Break(force bool) {
	if !s.Valid() {
		return
	}
	if !s.Collapsed() {
		s.Delete()
		if !s.Valid() {
			return
		}
	}

	leaf, offset := s.start.Leaf, s.start.Offset
	n := s.tree.Len(leaf)
	inLink := s.tree.Kind(leaf) == doctree.KindLink && offset > 0 && offset < n
	inCell := s.tree.Kind(s.tree.Parent(leaf)) == doctree.KindCell
	if force || inLink || inCell {
		s.Insert("\n")
		return
	}

	style := s.tree.Style(leaf)
	switch {
	case offset == n:
		next, ok := s.tree.NextText(leaf, false)
		if !ok {
			var err error
			if next, err = s.tree.CreateTextNext(leaf, "", style); err != nil {
				s.debug("break", err)
				return
			}
		}
		leaf = next
	case offset > 0:
		pieces, err := s.tree.Split(leaf, offset)
		if err != nil {
			s.debug("break", err)
			return
		}
		leaf = pieces[1]
	}
	if _, ok := s.tree.PreviousText(leaf, false); !ok {
		if _, err := s.tree.CreateTextPrev(leaf, "", style); err != nil {
			s.debug("break", err)
			return
		}
	}
	if _, err := s.tree.SplitContainer(leaf); err != nil {
		s.debug("break", err)
		return
	}
	s.SetCursor(leaf, 0)
}

// Split cuts the leaves at the selection edges so the selection covers
// whole leaves: a range inside one leaf becomes its own leaf, and a range
// across leaves keeps the tail of its first leaf and the head of its last.
func (s *Selection) Split() {
	if !s.Valid() || s.Collapsed() {
		return
	}
	s.Trim()
	if s.Collapsed() {
		return
	}
	start, end := s.start, s.end

	if s.Single() {
		leaf := start.Leaf
		if _, err := s.tree.Split(leaf, end.Offset); err != nil {
			s.debug("split", err)
			return
		}
		if start.Offset > 0 {
			pieces, err := s.tree.Split(leaf, start.Offset)
			if err != nil {
				s.debug("split", err)
				return
			}
			leaf = pieces[len(pieces)-1]
		}
		s.Set(leaf, 0, leaf, -1)
		return
	}

	first := start.Leaf
	firstOffset := start.Offset
	if firstOffset > 0 && firstOffset < s.tree.Len(first) {
		pieces, err := s.tree.Split(first, firstOffset)
		if err != nil {
			s.debug("split", err)
			return
		}
		first, firstOffset = pieces[1], 0
	}
	if _, err := s.tree.Split(end.Leaf, end.Offset); err != nil {
		s.debug("split", err)
		return
	}
	s.Set(first, firstOffset, end.Leaf, -1)
}

// Defrag fuses adjacent leaves with identical attributes in every container
// the selection spans, then restores and trims the selection.
func (s *Selection) Defrag() {
	if !s.Valid() {
		return
	}
	containers := s.containers()
	s.Save()
	for _, c := range containers {
		s.debug("defrag", s.tree.Defrag(c))
	}
	s.Restore()
	s.Trim()
}

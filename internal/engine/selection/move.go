package selection

import "unicode"

// Move shifts the whole selection by delta characters.
func (s *Selection) Move(delta int) {
	s.MoveBy(delta, delta)
}

// MoveBy shifts the start by startDelta and the end by endDelta characters,
// crossing leaf boundaries as needed. Crossing from one container into
// another counts as one character. Positions clamp at the document edges.
func (s *Selection) MoveBy(startDelta, endDelta int) {
	if !s.Valid() {
		return
	}
	s.start = s.shift(s.start, startDelta)
	s.end = s.shift(s.end, endDelta)
	s.modified = true
	s.Sort()
}

// shift moves e by delta. A container boundary counts as exactly one
// character, so (A, len(A)) shifted by +1 lands on (B, 0) of the next
// container. Offsets then match rune indices of Tree.PlainText.
func (s *Selection) shift(e Endpoint, delta int) Endpoint {
	leaf, offset := e.Leaf, e.Offset+delta
	for offset < 0 {
		prev, ok := s.tree.PreviousText(leaf, true)
		if !ok {
			offset = 0
			break
		}
		if !s.tree.Siblings(prev, leaf) {
			offset++
		}
		offset += s.tree.Len(prev)
		leaf = prev
	}
	for offset > s.tree.Len(leaf) {
		next, ok := s.tree.NextText(leaf, true)
		if !ok {
			offset = s.tree.Len(leaf)
			break
		}
		offset -= s.tree.Len(leaf)
		if !s.tree.Siblings(next, leaf) {
			offset--
		}
		leaf = next
	}
	return Endpoint{Leaf: leaf, Offset: offset}
}

// before reports whether a precedes b in document order.
func (s *Selection) before(a, b Endpoint) bool {
	if a.Leaf == b.Leaf {
		return a.Offset < b.Offset
	}
	return s.tree.Compare(a.Leaf, b.Leaf) < 0
}

// Sort swaps the endpoints if the end precedes the start.
func (s *Selection) Sort() {
	if !s.Valid() {
		return
	}
	if s.before(s.end, s.start) {
		s.start, s.end = s.end, s.start
		s.modified = true
	}
}

// Trim moves range edges that sit exactly on a leaf seam into the leaves
// they select: an end at offset 0 moves to the tail of the previous leaf and
// a start at a leaf's end moves to the head of the next leaf. It never
// collapses the range.
func (s *Selection) Trim() {
	if !s.Valid() {
		return
	}
	for !s.Collapsed() && s.end.Offset == 0 {
		prev, ok := s.tree.PreviousText(s.end.Leaf, true)
		if !ok {
			break
		}
		cand := Endpoint{Leaf: prev, Offset: s.tree.Len(prev)}
		if !s.before(s.start, cand) {
			break
		}
		s.end = cand
		s.modified = true
	}
	for !s.Collapsed() && s.start.Offset == s.tree.Len(s.start.Leaf) {
		next, ok := s.tree.NextText(s.start.Leaf, true)
		if !ok {
			break
		}
		cand := Endpoint{Leaf: next, Offset: 0}
		if !s.before(cand, s.end) {
			break
		}
		s.start = cand
		s.modified = true
	}
}

// WordWrap expands a cursor to the word around it, or each edge of a range
// outward to the nearest word boundary.
func (s *Selection) WordWrap() {
	if !s.Valid() {
		return
	}
	if s.Collapsed() {
		text := []rune(s.tree.Value(s.start.Leaf))
		lo, hi := wordAt(text, s.start.Offset)
		s.start.Offset, s.end.Offset = lo, hi
		s.modified = true
		return
	}
	s.start.Offset = boundaryBefore([]rune(s.tree.Value(s.start.Leaf)), s.start.Offset)
	s.end.Offset = boundaryAfter([]rune(s.tree.Value(s.end.Leaf)), s.end.Offset)
	s.modified = true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

// isBoundary reports whether the word class changes at index i.
func isBoundary(text []rune, i int) bool {
	if i <= 0 || i >= len(text) {
		return true
	}
	return isWordRune(text[i-1]) != isWordRune(text[i])
}

func boundaryBefore(text []rune, i int) int {
	for i > 0 && !isBoundary(text, i) {
		i--
	}
	return i
}

func boundaryAfter(text []rune, i int) int {
	for i < len(text) && !isBoundary(text, i) {
		i++
	}
	return i
}

// wordAt returns the word span around i. When i sits on a boundary the word
// to its left wins, then the run to its right.
func wordAt(text []rune, i int) (int, int) {
	lo, hi := boundaryBefore(text, i), boundaryAfter(text, i)
	if lo != hi {
		return lo, hi
	}
	if i > 0 && isWordRune(text[i-1]) {
		return boundaryBefore(text, i-1), i
	}
	if i < len(text) {
		return i, boundaryAfter(text, i+1)
	}
	return lo, hi
}

package selection

import (
	"fmt"

	"go.uber.org/zap"
)

// Endpoint is a position inside a leaf.
type Endpoint struct {
	Leaf   NodeID
	Offset int
}

// String returns a debug representation of the endpoint.
func (e Endpoint) String() string {
	return fmt.Sprintf("%v:%d", e.Leaf, e.Offset)
}

// State is the derived state of a selection.
type State int

// Selection states.
const (
	StateInvalid State = iota
	StateCursor
	StateSingleLeaf
	StateMultiLeaf
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateCursor:
		return "cursor"
	case StateSingleLeaf:
		return "single-leaf"
	case StateMultiLeaf:
		return "multi-leaf"
	default:
		return "invalid"
	}
}

// Selection is the selection engine for one editing session.
type Selection struct {
	tree  Tree
	start Endpoint
	end   Endpoint

	modified bool
	saved    []savedRange

	normalize func(string) string
	logger    *zap.Logger
}

// New creates an empty selection attached to tree.
func New(tree Tree, opts ...Option) *Selection {
	s := &Selection{
		tree:   tree,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tree returns the tree the selection is attached to.
func (s *Selection) Tree() Tree {
	return s.tree
}

// Start returns the start endpoint.
func (s *Selection) Start() Endpoint {
	return s.start
}

// End returns the end endpoint.
func (s *Selection) End() Endpoint {
	return s.end
}

// Modified reports whether the selection changed since the last Query or
// Apply.
func (s *Selection) Modified() bool {
	return s.modified
}

// endpointValid reports whether e addresses a live leaf within bounds.
func (s *Selection) endpointValid(e Endpoint) bool {
	if !s.tree.Alive(e.Leaf) || !s.tree.Kind(e.Leaf).IsLeaf() {
		return false
	}
	return e.Offset >= 0 && e.Offset <= s.tree.Len(e.Leaf)
}

// Valid reports whether both endpoints address live leaves within bounds.
func (s *Selection) Valid() bool {
	return s.endpointValid(s.start) && s.endpointValid(s.end)
}

// Collapsed reports whether the selection is a cursor.
func (s *Selection) Collapsed() bool {
	return s.start == s.end
}

// Single reports whether both endpoints are in the same leaf.
func (s *Selection) Single() bool {
	return s.start.Leaf == s.end.Leaf
}

// State returns the derived selection state.
func (s *Selection) State() State {
	switch {
	case !s.Valid():
		return StateInvalid
	case s.Collapsed():
		return StateCursor
	case s.Single():
		return StateSingleLeaf
	default:
		return StateMultiLeaf
	}
}

// Reset empties the selection.
func (s *Selection) Reset() {
	s.start, s.end = Endpoint{}, Endpoint{}
	s.modified = true
}

// resolve turns an offset of -1 into the leaf's length.
func (s *Selection) resolve(leaf NodeID, offset int) Endpoint {
	if offset == -1 {
		offset = s.tree.Len(leaf)
	}
	return Endpoint{Leaf: leaf, Offset: offset}
}

// Set places both endpoints. An offset of -1 means the end of the leaf.
func (s *Selection) Set(startLeaf NodeID, startOffset int, endLeaf NodeID, endOffset int) {
	s.start = s.resolve(startLeaf, startOffset)
	s.end = s.resolve(endLeaf, endOffset)
	s.modified = true
}

// SetCursor collapses the selection to one position. An offset of -1 means
// the end of the leaf.
func (s *Selection) SetCursor(leaf NodeID, offset int) {
	s.start = s.resolve(leaf, offset)
	s.end = s.start
	s.modified = true
}

// Collapse collapses the selection onto its start.
func (s *Selection) Collapse() {
	s.end = s.start
	s.modified = true
}

// CollapseToEnd collapses the selection onto its end.
func (s *Selection) CollapseToEnd() {
	s.start = s.end
	s.modified = true
}

// Text returns the selected text, with container boundaries as newlines.
func (s *Selection) Text() string {
	if !s.Valid() {
		return ""
	}
	return s.tree.TextBetween(s.start.Leaf, s.start.Offset, s.end.Leaf, s.end.Offset)
}

// Offsets returns the endpoints as absolute document offsets, counting one
// character for every container boundary crossed, the inverse of moving
// from the first position of the document.
func (s *Selection) Offsets() (start, end int, ok bool) {
	if !s.Valid() {
		return 0, 0, false
	}
	return s.absolute(s.start), s.absolute(s.end), true
}

func (s *Selection) absolute(e Endpoint) int {
	pos := e.Offset
	cur := e.Leaf
	for {
		prev, ok := s.tree.PreviousText(cur, true)
		if !ok {
			return pos
		}
		if !s.tree.Siblings(prev, cur) {
			pos++
		}
		pos += s.tree.Len(prev)
		cur = prev
	}
}

// leaves returns the leaves from start through end in document order.
func (s *Selection) leaves() []NodeID {
	return s.tree.Leaves(s.start.Leaf, s.end.Leaf)
}

// containers returns the distinct containers owning the selected leaves.
func (s *Selection) containers() []NodeID {
	return s.tree.Containers(s.start.Leaf, s.end.Leaf)
}

// debug logs a swallowed tree error.
func (s *Selection) debug(op string, err error) {
	if err != nil {
		s.logger.Debug("tree operation failed", zap.String("op", op), zap.Error(err))
	}
}

package selection

import (
	"fmt"

	"go.uber.org/zap"
)

// HostNode is a node of the host UI tree. Elements that render a tree node
// carry that node's identifier; text nodes carry text. Implementations must
// be comparable with ==.
type HostNode interface {
	ID() string
	IsText() bool
	IsElement() bool
	Text() string
	Parent() (HostNode, bool)
	Children() []HostNode
}

// HostPoint is a position in the host tree. On a text node Offset counts
// characters of its text; on an element it counts characters of the text
// rendered below it.
type HostPoint struct {
	Node   HostNode
	Offset int
}

// HostRange is a native host selection.
type HostRange struct {
	Start HostPoint
	End   HostPoint
}

// Collapsed reports whether the range is a single point.
func (r HostRange) Collapsed() bool {
	return r.Start == r.End
}

// HostSource reads the host's current selection.
type HostSource interface {
	HostRange() (HostRange, error)
}

// HostTarget locates host elements by identifier and writes the host's
// selection.
type HostTarget interface {
	Element(id string) (HostNode, bool)
	SetHostRange(r HostRange) error
}

// Query replaces the selection with the host's current selection. Any host
// failure resets the selection to empty. On success Modified is cleared.
func (s *Selection) Query(src HostSource) {
	defer s.recoverHost("query")

	r, err := src.HostRange()
	if err != nil {
		s.hostFailure("query", err)
		return
	}
	start, ok := s.mapPoint(r.Start)
	if !ok {
		s.hostFailure("query", ErrHostNode)
		return
	}
	if r.Collapsed() {
		s.start, s.end = start, start
	} else {
		end, ok := s.mapPoint(r.End)
		if !ok {
			s.hostFailure("query", ErrHostNode)
			return
		}
		s.start, s.end = start, end
		s.Sort()
	}
	s.modified = false
}

// Apply writes the selection to the host. It does nothing on an invalid
// selection. Any host failure resets the selection to empty. On success
// Modified is cleared.
func (s *Selection) Apply(dst HostTarget) {
	if !s.Valid() {
		return
	}
	defer s.recoverHost("apply")

	start, ok := s.hostPoint(dst, s.start)
	if !ok {
		s.hostFailure("apply", ErrHostElement)
		return
	}
	end := start
	if !s.Collapsed() {
		if end, ok = s.hostPoint(dst, s.end); !ok {
			s.hostFailure("apply", ErrHostElement)
			return
		}
	}
	if err := dst.SetHostRange(HostRange{Start: start, End: end}); err != nil {
		s.hostFailure("apply", err)
		return
	}
	s.modified = false
}

func (s *Selection) recoverHost(op string) {
	if r := recover(); r != nil {
		s.hostFailure(op, fmt.Errorf("%w: %v", ErrHostPanic, r))
	}
}

func (s *Selection) hostFailure(op string, err error) {
	s.logger.Debug("host selection sync failed", zap.String("op", op), zap.Error(err))
	s.Reset()
}

// hostPoint targets the first text child of the leaf's host element, or
// the element itself when the leaf renders no text.
func (s *Selection) hostPoint(dst HostTarget, e Endpoint) (HostPoint, bool) {
	el, ok := dst.Element(s.tree.ID(e.Leaf))
	if !ok {
		return HostPoint{}, false
	}
	for _, c := range el.Children() {
		if c.IsText() {
			return HostPoint{Node: c, Offset: e.Offset}, true
		}
	}
	return HostPoint{Node: el, Offset: 0}, true
}

// leafFor returns the leaf rendered by a host element.
func (s *Selection) leafFor(n HostNode) (NodeID, bool) {
	if !n.IsElement() {
		return NodeID{}, false
	}
	id, ok := s.tree.Lookup(n.ID())
	if !ok || !s.tree.Kind(id).IsLeaf() {
		return NodeID{}, false
	}
	return id, true
}

func (s *Selection) clamp(leaf NodeID, offset int) Endpoint {
	offset = max(0, min(offset, s.tree.Len(leaf)))
	return Endpoint{Leaf: leaf, Offset: offset}
}

// mapPoint converts a host point to an endpoint.
func (s *Selection) mapPoint(p HostPoint) (Endpoint, bool) {
	if p.Node == nil {
		return Endpoint{}, false
	}
	owner := p.Node
	if p.Node.IsText() {
		parent, ok := p.Node.Parent()
		if !ok {
			return Endpoint{}, false
		}
		owner = parent
	}
	if leaf, ok := s.leafFor(owner); ok {
		return s.clamp(leaf, p.Offset), true
	}
	if p.Node.IsText() {
		return Endpoint{}, false
	}

	var last Endpoint
	e, _, ok := s.walk(p.Node, p.Offset, &last)
	if ok {
		return e, true
	}
	if s.endpointValid(last) {
		return last, true
	}
	return Endpoint{}, false
}

// walk descends into n consuming remaining characters leaf by leaf until
// the leaf holding the position is found. Children that are not elements
// are skipped.
func (s *Selection) walk(n HostNode, remaining int, last *Endpoint) (Endpoint, int, bool) {
	for _, c := range n.Children() {
		if !c.IsElement() {
			continue
		}
		if leaf, ok := s.leafFor(c); ok {
			l := s.tree.Len(leaf)
			if remaining <= l {
				return Endpoint{Leaf: leaf, Offset: remaining}, 0, true
			}
			remaining -= l
			*last = Endpoint{Leaf: leaf, Offset: l}
			continue
		}
		var (
			e  Endpoint
			ok bool
		)
		if e, remaining, ok = s.walk(c, remaining, last); ok {
			return e, 0, true
		}
	}
	return Endpoint{}, remaining, false
}

package selection

import "go.uber.org/zap"

// absolutePosition locates an endpoint by its container and a running
// offset across the container's leaves. The leaf and its local offset are
// kept as a hint that is only trusted if the leaf is still alive and still
// sits at the same running offset.
type absolutePosition struct {
	container NodeID
	offset    int
	hint      Endpoint
}

type savedRange struct {
	start, end absolutePosition
}

// Save pushes the current endpoints onto the saved-position stack as
// absolute positions, so they survive edits that replace leaves.
func (s *Selection) Save() {
	if !s.Valid() {
		s.saved = append(s.saved, savedRange{})
		return
	}
	s.saved = append(s.saved, savedRange{
		start: s.absolutePosition(s.start),
		end:   s.absolutePosition(s.end),
	})
}

// Restore pops the most recently saved position. If either saved container
// was removed in the meantime the selection becomes empty.
func (s *Selection) Restore() {
	n := len(s.saved)
	if n == 0 {
		return
	}
	saved := s.saved[n-1]
	s.saved = s.saved[:n-1]

	start, ok := s.fromAbsolute(saved.start)
	if !ok {
		s.logger.Debug("saved selection is stale", zap.Stringer("container", saved.start.container))
		s.Reset()
		return
	}
	end, ok := s.fromAbsolute(saved.end)
	if !ok {
		s.logger.Debug("saved selection is stale", zap.Stringer("container", saved.end.container))
		s.Reset()
		return
	}
	s.start, s.end = start, end
	s.modified = true
}

// Saved returns the depth of the saved-position stack.
func (s *Selection) Saved() int {
	return len(s.saved)
}

func (s *Selection) absolutePosition(e Endpoint) absolutePosition {
	return absolutePosition{
		container: s.tree.Parent(e.Leaf),
		offset:    s.runningOffset(e),
		hint:      e,
	}
}

// runningOffset sums the lengths of the leaves preceding e in its container.
func (s *Selection) runningOffset(e Endpoint) int {
	offset := e.Offset
	for _, c := range s.tree.Children(s.tree.Parent(e.Leaf)) {
		if c == e.Leaf {
			break
		}
		if s.tree.Kind(c).IsLeaf() {
			offset += s.tree.Len(c)
		}
	}
	return offset
}

func (s *Selection) fromAbsolute(p absolutePosition) (Endpoint, bool) {
	if !s.tree.Alive(p.container) {
		return Endpoint{}, false
	}
	if s.endpointValid(p.hint) && s.tree.Parent(p.hint.Leaf) == p.container &&
		s.runningOffset(p.hint) == p.offset {
		return p.hint, true
	}

	remaining := p.offset
	var last NodeID
	for _, c := range s.tree.Children(p.container) {
		if !s.tree.Kind(c).IsLeaf() {
			continue
		}
		last = c
		n := s.tree.Len(c)
		if remaining <= n {
			return Endpoint{Leaf: c, Offset: remaining}, true
		}
		remaining -= n
	}
	if last.IsZero() {
		return Endpoint{}, false
	}
	return Endpoint{Leaf: last, Offset: s.tree.Len(last)}, true
}

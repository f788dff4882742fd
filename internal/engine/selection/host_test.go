package selection

import (
	"errors"
	"testing"

	"github.com/dshills/inkstone/internal/engine/doctree"
)

// fakeNode is a minimal host tree: an element per tree node and a text
// node under every non-empty leaf element.
type fakeNode struct {
	id     string
	text   string
	isText bool
	parent *fakeNode
	kids   []*fakeNode
}

type hostRef struct{ n *fakeNode }

func (h hostRef) ID() string      { return h.n.id }
func (h hostRef) IsText() bool    { return h.n.isText }
func (h hostRef) IsElement() bool { return !h.n.isText }
func (h hostRef) Text() string    { return h.n.text }

func (h hostRef) Parent() (HostNode, bool) {
	if h.n.parent == nil {
		return nil, false
	}
	return hostRef{h.n.parent}, true
}

func (h hostRef) Children() []HostNode {
	out := make([]HostNode, 0, len(h.n.kids))
	for _, k := range h.n.kids {
		out = append(out, hostRef{k})
	}
	return out
}

type fakeHost struct {
	root  *fakeNode
	byID  map[string]*fakeNode
	rng   HostRange
	err   error
	panic bool
}

func newFakeHost(tr *doctree.Tree) *fakeHost {
	h := &fakeHost{byID: map[string]*fakeNode{}}
	h.root = h.render(tr, tr.Root(), nil)
	return h
}

func (h *fakeHost) render(tr *doctree.Tree, id NodeID, parent *fakeNode) *fakeNode {
	n := &fakeNode{id: tr.ID(id), parent: parent}
	h.byID[n.id] = n
	if tr.Kind(id).IsLeaf() {
		if v := tr.Value(id); v != "" {
			n.kids = append(n.kids, &fakeNode{text: v, isText: true, parent: n})
		}
		return n
	}
	// Comments and stray whitespace are skipped when mapping points.
	n.kids = append(n.kids, &fakeNode{text: "\n", isText: true, parent: n})
	for _, c := range tr.Children(id) {
		n.kids = append(n.kids, h.render(tr, c, n))
	}
	return n
}

func (h *fakeHost) element(id string) hostRef { return hostRef{h.byID[id]} }

func (h *fakeHost) text(id string) hostRef { return hostRef{h.byID[id].kids[0]} }

func (h *fakeHost) HostRange() (HostRange, error) {
	if h.panic {
		panic("selection lost focus")
	}
	return h.rng, h.err
}

func (h *fakeHost) Element(id string) (HostNode, bool) {
	n, ok := h.byID[id]
	if !ok {
		return nil, false
	}
	return hostRef{n}, true
}

func (h *fakeHost) SetHostRange(r HostRange) error {
	if h.panic {
		panic("selection lost focus")
	}
	if h.err != nil {
		return h.err
	}
	h.rng = r
	return nil
}

func TestQueryCursorOnText(t *testing.T) {
	tr, l := paragraphs(t, []string{"abc", "de"})
	h := newFakeHost(tr)
	h.rng = HostRange{
		Start: HostPoint{h.text(tr.ID(l[0][1])), 1},
		End:   HostPoint{h.text(tr.ID(l[0][1])), 1},
	}
	s := New(tr)
	s.Query(h)

	if want := (Endpoint{l[0][1], 1}); s.Start() != want || !s.Collapsed() {
		t.Errorf("cursor %v..%v, want %v", s.Start(), s.End(), want)
	}
	if s.Modified() {
		t.Error("Query should clear Modified")
	}
}

func TestQueryRangeSorts(t *testing.T) {
	tr, l := paragraphs(t, []string{"abc"}, []string{"def"})
	h := newFakeHost(tr)
	h.rng = HostRange{
		Start: HostPoint{h.text(tr.ID(l[1][0])), 2},
		End:   HostPoint{h.text(tr.ID(l[0][0])), 1},
	}
	s := New(tr)
	s.Query(h)

	if s.Start() != (Endpoint{l[0][0], 1}) || s.End() != (Endpoint{l[1][0], 2}) {
		t.Errorf("got %v..%v", s.Start(), s.End())
	}
}

func TestQueryElementPoint(t *testing.T) {
	tr, l := paragraphs(t, []string{"abc", "de"})
	h := newFakeHost(tr)
	p := h.element(tr.ID(tr.Parent(l[0][0])))

	tests := []struct {
		offset int
		want   Endpoint
	}{
		{0, Endpoint{l[0][0], 0}},
		{3, Endpoint{l[0][0], 3}},
		{4, Endpoint{l[0][1], 1}},
		{99, Endpoint{l[0][1], 2}},
	}
	for _, tt := range tests {
		h.rng = HostRange{Start: HostPoint{p, tt.offset}, End: HostPoint{p, tt.offset}}
		s := New(tr)
		s.Query(h)
		if s.Start() != tt.want {
			t.Errorf("offset %d: got %v, want %v", tt.offset, s.Start(), tt.want)
		}
	}
}

func TestQueryEmptyLeafClamps(t *testing.T) {
	tr, l := paragraphs(t, []string{""})
	h := newFakeHost(tr)
	el := h.element(tr.ID(l[0][0]))
	h.rng = HostRange{Start: HostPoint{el, 5}, End: HostPoint{el, 5}}
	s := New(tr)
	s.Query(h)

	if want := (Endpoint{l[0][0], 0}); s.Start() != want {
		t.Errorf("got %v, want %v", s.Start(), want)
	}
}

func TestQueryFailures(t *testing.T) {
	tr, l := paragraphs(t, []string{"abc"})

	tests := []struct {
		name  string
		setup func(h *fakeHost)
	}{
		{"host error", func(h *fakeHost) { h.err = errors.New("no focus") }},
		{"host panic", func(h *fakeHost) { h.panic = true }},
		{"foreign node", func(h *fakeHost) {
			n := hostRef{&fakeNode{id: "elsewhere"}}
			h.rng = HostRange{Start: HostPoint{n, 0}, End: HostPoint{n, 0}}
		}},
		{"no node", func(h *fakeHost) {}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newFakeHost(tr)
			tt.setup(h)
			s := New(tr)
			s.SetCursor(l[0][0], 1)
			s.Query(h)
			if s.State() != StateInvalid {
				t.Errorf("state %v, want invalid", s.State())
			}
		})
	}
}

func TestApply(t *testing.T) {
	tr, l := paragraphs(t, []string{"abc"}, []string{"def"})
	h := newFakeHost(tr)
	s := New(tr)
	s.Set(l[0][0], 1, l[1][0], 2)
	s.Apply(h)

	want := HostRange{
		Start: HostPoint{h.text(tr.ID(l[0][0])), 1},
		End:   HostPoint{h.text(tr.ID(l[1][0])), 2},
	}
	if h.rng != want {
		t.Errorf("host range %+v, want %+v", h.rng, want)
	}
	if s.Modified() {
		t.Error("Apply should clear Modified")
	}
}

func TestApplyEmptyLeaf(t *testing.T) {
	tr, l := paragraphs(t, []string{""})
	h := newFakeHost(tr)
	s := New(tr)
	s.SetCursor(l[0][0], 0)
	s.Apply(h)

	el := h.element(tr.ID(l[0][0]))
	if !h.rng.Collapsed() || h.rng.Start != (HostPoint{el, 0}) {
		t.Errorf("host range %+v should be collapsed on the element", h.rng)
	}
}

func TestApplyFailures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(h *fakeHost, tr *doctree.Tree, leaf NodeID)
	}{
		{"host error", func(h *fakeHost, _ *doctree.Tree, _ NodeID) { h.err = errors.New("detached") }},
		{"host panic", func(h *fakeHost, _ *doctree.Tree, _ NodeID) { h.panic = true }},
		{"missing element", func(h *fakeHost, tr *doctree.Tree, leaf NodeID) { delete(h.byID, tr.ID(leaf)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, l := paragraphs(t, []string{"abc"})
			h := newFakeHost(tr)
			tt.setup(h, tr, l[0][0])
			s := New(tr)
			s.SetCursor(l[0][0], 1)
			s.Apply(h)
			if s.State() != StateInvalid {
				t.Errorf("state %v, want invalid", s.State())
			}
		})
	}
}

func TestApplyInvalidIsNoop(t *testing.T) {
	tr, _ := paragraphs(t, []string{"abc"})
	h := newFakeHost(tr)
	h.panic = true
	s := New(tr)
	s.Apply(h)
	if s.Modified() {
		t.Error("Apply on an invalid selection should not touch it")
	}
}

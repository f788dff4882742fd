package doctree

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// DefaultMaxLevel is the deepest list nesting Indent produces.
const DefaultMaxLevel = 8

// NodeID addresses a node in a Tree. The zero value addresses nothing.
type NodeID struct {
	index uint32
	gen   uint32
}

// IsZero reports whether id is the zero NodeID.
func (id NodeID) IsZero() bool {
	return id.gen == 0
}

// String returns a debug representation of the id.
func (id NodeID) String() string {
	if id.IsZero() {
		return "Node(none)"
	}
	return fmt.Sprintf("Node(%d#%d)", id.index, id.gen)
}

type node struct {
	gen  uint32
	live bool

	kind     Kind
	uid      uuid.UUID
	parent   NodeID
	children []NodeID

	// Leaf attributes.
	text  []rune
	style Style
	url   string

	// Container attributes.
	align Align
	level int
}

// Tree is a document tree rooted at a KindDocument container.
type Tree struct {
	nodes    []node
	free     []uint32
	root     NodeID
	byUID    map[uuid.UUID]NodeID
	maxLevel int
}

// Option configures a Tree during creation.
type Option func(*Tree)

// WithMaxLevel sets the deepest list nesting Indent produces.
func WithMaxLevel(level int) Option {
	return func(t *Tree) {
		if level >= 0 {
			t.maxLevel = level
		}
	}
}

// New creates a tree holding only an empty document root.
func New(opts ...Option) *Tree {
	t := &Tree{
		byUID:    make(map[uuid.UUID]NodeID),
		maxLevel: DefaultMaxLevel,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.root = t.alloc(KindDocument)
	return t
}

// Root returns the document root.
func (t *Tree) Root() NodeID {
	return t.root
}

// MaxLevel returns the deepest list nesting Indent produces.
func (t *Tree) MaxLevel() int {
	return t.maxLevel
}

// alloc creates a detached node. It may grow t.nodes, so callers must not
// hold *node pointers across a call.
func (t *Tree) alloc(kind Kind) NodeID {
	var idx uint32
	if n := len(t.free); n > 0 {
		idx = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		t.nodes = append(t.nodes, node{})
		idx = uint32(len(t.nodes) - 1)
	}
	n := &t.nodes[idx]
	gen := n.gen + 1
	*n = node{gen: gen, live: true, kind: kind, uid: uuid.New()}
	id := NodeID{index: idx, gen: gen}
	t.byUID[n.uid] = id
	return id
}

// node returns the live node for id, or nil.
func (t *Tree) node(id NodeID) *node {
	if id.IsZero() || int(id.index) >= len(t.nodes) {
		return nil
	}
	n := &t.nodes[id.index]
	if !n.live || n.gen != id.gen {
		return nil
	}
	return n
}

// release frees id and its whole subtree. The node must already be detached.
func (t *Tree) release(id NodeID) {
	n := t.node(id)
	if n == nil {
		return
	}
	children := n.children
	delete(t.byUID, n.uid)
	t.nodes[id.index] = node{gen: n.gen}
	t.free = append(t.free, id.index)
	for _, c := range children {
		t.release(c)
	}
}

// indexOf returns the position of id among its parent's children, or -1.
func (t *Tree) indexOf(id NodeID) int {
	n := t.node(id)
	if n == nil {
		return -1
	}
	p := t.node(n.parent)
	if p == nil {
		return -1
	}
	return slices.Index(p.children, id)
}

// detach unlinks id from its parent without releasing it.
func (t *Tree) detach(id NodeID) {
	n := t.node(id)
	if n == nil {
		return
	}
	if p := t.node(n.parent); p != nil {
		if i := slices.Index(p.children, id); i >= 0 {
			p.children = slices.Delete(p.children, i, i+1)
		}
	}
	n.parent = NodeID{}
}

// insertChild links child under parent at position idx (clamped).
func (t *Tree) insertChild(parent NodeID, idx int, child NodeID) {
	p := t.node(parent)
	c := t.node(child)
	if p == nil || c == nil {
		return
	}
	idx = max(0, min(idx, len(p.children)))
	p.children = slices.Insert(p.children, idx, child)
	c.parent = parent
}

// appendChild links child as the last child of parent.
func (t *Tree) appendChild(parent, child NodeID) {
	if p := t.node(parent); p != nil {
		t.insertChild(parent, len(p.children), child)
	}
}

// Remove detaches id and frees its subtree.
func (t *Tree) Remove(id NodeID) error {
	if id == t.root {
		return ErrRootImmutable
	}
	if t.node(id) == nil {
		return ErrNodeRemoved
	}
	t.detach(id)
	t.release(id)
	return nil
}

// prune removes id and then each ancestor left without children.
// The root is never removed.
func (t *Tree) prune(id NodeID) {
	for id != t.root {
		n := t.node(id)
		if n == nil || len(n.children) > 0 {
			return
		}
		parent := n.parent
		_ = t.Remove(id)
		id = parent
	}
}

// Alive reports whether id still addresses a node of this tree.
func (t *Tree) Alive(id NodeID) bool {
	return t.node(id) != nil
}

// Kind returns the node kind, or KindInvalid for a removed node.
func (t *Tree) Kind(id NodeID) Kind {
	if n := t.node(id); n != nil {
		return n.kind
	}
	return KindInvalid
}

// ID returns the stable string identifier of the node.
func (t *Tree) ID(id NodeID) string {
	if n := t.node(id); n != nil {
		return n.uid.String()
	}
	return ""
}

// Lookup resolves a stable identifier back to a live node.
func (t *Tree) Lookup(ident string) (NodeID, bool) {
	uid, err := uuid.Parse(ident)
	if err != nil {
		return NodeID{}, false
	}
	id, ok := t.byUID[uid]
	if !ok || !t.Alive(id) {
		return NodeID{}, false
	}
	return id, true
}

// Parent returns the owning container, or the zero NodeID for the root.
func (t *Tree) Parent(id NodeID) NodeID {
	if n := t.node(id); n != nil {
		return n.parent
	}
	return NodeID{}
}

// Children returns a copy of the ordered children of id.
func (t *Tree) Children(id NodeID) []NodeID {
	if n := t.node(id); n != nil {
		return slices.Clone(n.children)
	}
	return nil
}

// Len returns the rune length of a leaf. Containers have length 0.
func (t *Tree) Len(id NodeID) int {
	if n := t.node(id); n != nil {
		return len(n.text)
	}
	return 0
}

// Value returns the text of a leaf.
func (t *Tree) Value(id NodeID) string {
	if n := t.node(id); n != nil {
		return string(n.text)
	}
	return ""
}

// Empty reports whether a leaf holds no text.
func (t *Tree) Empty(id NodeID) bool {
	return t.Len(id) == 0
}

// Style returns the inline style of a leaf.
func (t *Tree) Style(id NodeID) Style {
	if n := t.node(id); n != nil {
		return n.style
	}
	return 0
}

// URL returns the target of a link leaf.
func (t *Tree) URL(id NodeID) string {
	if n := t.node(id); n != nil {
		return n.url
	}
	return ""
}

// Align returns the alignment of a container.
func (t *Tree) Align(id NodeID) Align {
	if n := t.node(id); n != nil {
		return n.align
	}
	return AlignLeft
}

// SetAlign sets the alignment of a container.
func (t *Tree) SetAlign(id NodeID, a Align) error {
	n := t.node(id)
	if n == nil {
		return ErrNodeRemoved
	}
	if !n.kind.IsContainer() {
		return ErrNotContainer
	}
	n.align = a
	return nil
}

// Level returns the nesting level of a list item.
func (t *Tree) Level(id NodeID) int {
	if n := t.node(id); n != nil {
		return n.level
	}
	return 0
}

// SetLevel sets the nesting level of a list item, clamped to [0, MaxLevel].
func (t *Tree) SetLevel(id NodeID, level int) error {
	n := t.node(id)
	if n == nil {
		return ErrNodeRemoved
	}
	if n.kind != KindItem {
		return ErrNotContainer
	}
	n.level = max(0, min(level, t.maxLevel))
	return nil
}

// AppendContainer adds a new container of kind as the last child of parent.
// It returns the zero NodeID when parent cannot hold containers.
func (t *Tree) AppendContainer(parent NodeID, kind Kind) NodeID {
	p := t.node(parent)
	if p == nil || !p.kind.IsContainer() || p.kind.HoldsLeaves() {
		return NodeID{}
	}
	if !kind.IsContainer() || kind == KindDocument {
		return NodeID{}
	}
	id := t.alloc(kind)
	t.appendChild(parent, id)
	return id
}

// AppendText adds a text leaf as the last child of a leaf-bearing container.
func (t *Tree) AppendText(parent NodeID, text string, style Style) NodeID {
	return t.appendLeaf(parent, KindText, text, style, "")
}

// AppendLink adds a link leaf as the last child of a leaf-bearing container.
func (t *Tree) AppendLink(parent NodeID, text, url string, style Style) NodeID {
	if url == "" {
		return t.appendLeaf(parent, KindText, text, style, "")
	}
	return t.appendLeaf(parent, KindLink, text, style, url)
}

func (t *Tree) appendLeaf(parent NodeID, kind Kind, text string, style Style, url string) NodeID {
	p := t.node(parent)
	if p == nil || !p.kind.HoldsLeaves() {
		return NodeID{}
	}
	id := t.alloc(kind)
	n := t.node(id)
	n.text = []rune(text)
	n.style = style
	n.url = url
	t.appendChild(parent, id)
	return id
}

package selection

import "github.com/dshills/inkstone/internal/engine/doctree"

// NodeID is an alias for doctree.NodeID for convenience.
type NodeID = doctree.NodeID

// Tree is the document tree capability set the engine runs over.
// *doctree.Tree implements it.
type Tree interface {
	Root() NodeID
	Alive(id NodeID) bool
	Kind(id NodeID) doctree.Kind
	ID(id NodeID) string
	Lookup(ident string) (NodeID, bool)
	Parent(id NodeID) NodeID
	Children(id NodeID) []NodeID
	Len(id NodeID) int
	Value(id NodeID) string
	Style(id NodeID) doctree.Style
	URL(id NodeID) string

	Compare(a, b NodeID) int
	Siblings(a, b NodeID) bool
	Climb(id NodeID, kinds ...doctree.Kind) (NodeID, bool)
	TopBlock(id NodeID) (NodeID, bool)
	PreviousText(id NodeID, cross bool) (NodeID, bool)
	NextText(id NodeID, cross bool) (NodeID, bool)
	FirstDescendant(id NodeID) (NodeID, bool)
	LastDescendant(id NodeID) (NodeID, bool)
	Leaves(first, last NodeID) []NodeID
	Containers(first, last NodeID) []NodeID
	TextBetween(start NodeID, startOffset int, end NodeID, endOffset int) string

	Insert(id NodeID, offset int, s string) error
	Extract(id NodeID, start, end int) error
	Cut(id NodeID, start, end int) error
	Merge(a, b NodeID) error
	Join(a, b NodeID) error
	Split(id NodeID, offsets ...int) ([]NodeID, error)
	Remove(id NodeID) error
	CreateTextPrev(id NodeID, value string, style doctree.Style) (NodeID, error)
	CreateTextNext(id NodeID, value string, style doctree.Style) (NodeID, error)
	SetLink(id NodeID, url string) error
	Format(id NodeID, s doctree.Style) error
	Unformat(id NodeID, s doctree.Style) error
	Fragment(start, end NodeID) *doctree.Tree

	Defrag(id NodeID) error
	SplitContainer(leaf NodeID) (NodeID, error)
	Wrap(first, last NodeID, kind doctree.Kind) (NodeID, error)
	Indent(id NodeID, kind doctree.Kind) error
	Unindent(id NodeID, kind doctree.Kind) error
}

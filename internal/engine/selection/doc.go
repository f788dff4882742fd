// Package selection implements the selection engine of the rich-text editor.
//
// A Selection is a pair of endpoints, each a (leaf, offset) position inside
// a document tree, plus a stack of saved absolute positions. It keeps the
// endpoints in sync with a host UI's native selection (Query and Apply) and
// performs every text mutation through them: typing, deleting, paragraph
// breaks, splitting, inline formatting, linking, indentation, lists and
// quotes.
//
// Selection States:
//
// The state of a selection is derived from its endpoints, never stored:
//
//   - Invalid: an endpoint is unset or its leaf was removed from the tree
//   - Cursor: both endpoints are the same position
//   - SingleLeaf: a range inside one leaf
//   - MultiLeaf: a range spanning several leaves
//
// Error Model:
//
// No operation returns an error or panics. Mutations on an invalid
// selection are no-ops. Failures while talking to the host are recovered
// and reset the selection to the empty state, as does restoring a saved
// position whose container no longer exists. Tree errors are logged at
// debug level.
//
// Basic usage:
//
//	tree := doctree.New()
//	p := tree.AppendContainer(tree.Root(), doctree.KindParagraph)
//	leaf := tree.AppendText(p, "hello world", 0)
//
//	sel := selection.New(tree)
//	sel.SetCursor(leaf, 2)
//	sel.ToggleFormat(doctree.Bold) // bolds "hello"
//
// Thread Safety:
//
// A Selection is not safe for concurrent use. It holds a non-owning
// reference to its tree; the surrounding editing session owns both and
// drives them from one goroutine.
package selection

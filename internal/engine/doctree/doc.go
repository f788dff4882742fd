// Package doctree provides the document tree the selection engine edits.
//
// A Tree is an arena of nodes addressed by NodeID values. A NodeID carries
// the slot index and the generation the slot had when the node was created,
// so an identifier that outlives its node (because an edit merged or removed
// it) is detected by Alive instead of silently pointing at a recycled slot.
//
// The tree has two families of nodes:
//
//   - Leaves (KindText, KindLink): a run of characters sharing one Style.
//     Link leaves also carry a target URL.
//   - Containers: the structural nodes. Paragraph, Item and Cell hold leaves.
//     Document and Blockquote hold blocks, Bulleted and Numbered hold items,
//     Table holds rows and Row holds cells.
//
// Every node also has a stable UUID identifier. Hosts that render the tree
// (an HTML DOM for example) tag their elements with it and resolve them back
// through Lookup.
//
// All offsets and lengths are counted in runes.
//
// Thread Safety:
//
// Tree is not safe for concurrent use. One editing session owns a tree and
// mutates it from a single goroutine.
package doctree

// Package htmldom hosts a document tree in an HTML DOM.
//
// Render turns a doctree.Tree into an HTML element tree in which every node
// carries its tree identifier as the element id. The resulting Document
// holds a native selection range over that DOM and implements the
// selection.HostSource and selection.HostTarget interfaces, so a
// selection.Selection can Query it and Apply to it.
//
// Mapping:
//
//	Document   div.inkstone
//	Paragraph  p
//	Bulleted   ul
//	Numbered   ol
//	Item       li (data-level when nested)
//	Blockquote blockquote
//	Table      table
//	Row        tr
//	Cell       td
//	Text       span (styles as classes)
//	Link       a href (styles as classes)
//
// Empty leaves render as elements without a text node.
package htmldom

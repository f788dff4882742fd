package htmldom

import (
	"golang.org/x/net/html"

	"github.com/dshills/inkstone/internal/engine/selection"
)

// Node wraps an html.Node as a selection host node.
type Node struct {
	n *html.Node
}

// Wrap returns the host node for n.
func Wrap(n *html.Node) Node {
	return Node{n: n}
}

// HTML returns the wrapped html.Node.
func (n Node) HTML() *html.Node {
	return n.n
}

// ID returns the element id, or "" for other nodes.
func (n Node) ID() string {
	if n.n == nil || n.n.Type != html.ElementNode {
		return ""
	}
	return attr(n.n, "id")
}

// IsText reports whether the node is a text node.
func (n Node) IsText() bool {
	return n.n != nil && n.n.Type == html.TextNode
}

// IsElement reports whether the node is an element.
func (n Node) IsElement() bool {
	return n.n != nil && n.n.Type == html.ElementNode
}

// Text returns the data of a text node.
func (n Node) Text() string {
	if !n.IsText() {
		return ""
	}
	return n.n.Data
}

// Parent returns the parent node.
func (n Node) Parent() (selection.HostNode, bool) {
	if n.n == nil || n.n.Parent == nil {
		return nil, false
	}
	return Node{n: n.n.Parent}, true
}

// Children returns the child nodes in order.
func (n Node) Children() []selection.HostNode {
	if n.n == nil {
		return nil
	}
	var out []selection.HostNode
	for c := n.n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, Node{n: c})
	}
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

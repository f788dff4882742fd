package htmldom

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dshills/inkstone/internal/engine/doctree"
)

// RootClass marks the element that renders the document root.
const RootClass = "inkstone"

var tags = map[doctree.Kind]atom.Atom{
	doctree.KindDocument:   atom.Div,
	doctree.KindParagraph:  atom.P,
	doctree.KindBulleted:   atom.Ul,
	doctree.KindNumbered:   atom.Ol,
	doctree.KindItem:       atom.Li,
	doctree.KindBlockquote: atom.Blockquote,
	doctree.KindTable:      atom.Table,
	doctree.KindRow:        atom.Tr,
	doctree.KindCell:       atom.Td,
	doctree.KindText:       atom.Span,
	doctree.KindLink:       atom.A,
}

// Render builds a DOM for tree and returns it as a Document with no
// selection.
func Render(tree *doctree.Tree) *Document {
	d := newDocument()
	d.root = d.render(tree, tree.Root())
	return d
}

func (d *Document) render(tree *doctree.Tree, id doctree.NodeID) *html.Node {
	kind := tree.Kind(id)
	a := tags[kind]
	el := &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     []html.Attribute{{Key: "id", Val: tree.ID(id)}},
	}
	d.byID[tree.ID(id)] = el

	switch kind {
	case doctree.KindDocument:
		el.Attr = append(el.Attr, html.Attribute{Key: "class", Val: RootClass})
	case doctree.KindItem:
		if lvl := tree.Level(id); lvl > 0 {
			el.Attr = append(el.Attr, html.Attribute{Key: "data-level", Val: strconv.Itoa(lvl)})
		}
	case doctree.KindLink:
		el.Attr = append(el.Attr, html.Attribute{Key: "href", Val: tree.URL(id)})
	}
	if kind.HoldsLeaves() && tree.Align(id) != doctree.AlignLeft {
		el.Attr = append(el.Attr, html.Attribute{Key: "style", Val: "text-align: " + tree.Align(id).String()})
	}

	if kind.IsLeaf() {
		if names := tree.Style(id).Names(); len(names) > 0 {
			el.Attr = append(el.Attr, html.Attribute{Key: "class", Val: strings.Join(names, " ")})
		}
		if v := tree.Value(id); v != "" {
			el.AppendChild(&html.Node{Type: html.TextNode, Data: v})
		}
		return el
	}
	for _, c := range tree.Children(id) {
		el.AppendChild(d.render(tree, c))
	}
	return el
}

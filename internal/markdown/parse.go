package markdown

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/dshills/inkstone/internal/engine/doctree"
)

// ErrInvalidUTF8 is returned for input that is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("markdown: input is not valid UTF-8")

// Parse builds a document tree from Markdown source. The tree always holds
// at least one leaf.
func Parse(src []byte, opts ...doctree.Option) (*doctree.Tree, error) {
	if !utf8.Valid(src) {
		return nil, ErrInvalidUTF8
	}
	md := goldmark.New(goldmark.WithExtensions(extension.Strikethrough, extension.Table))
	root := md.Parser().Parse(text.NewReader(src))

	b := &builder{tree: doctree.New(opts...), source: src}
	b.blocks(b.tree.Root(), root)
	if _, ok := b.tree.FirstDescendant(b.tree.Root()); !ok {
		p := b.tree.AppendContainer(b.tree.Root(), doctree.KindParagraph)
		b.tree.AppendText(p, "", 0)
	}
	if err := b.tree.Defrag(b.tree.Root()); err != nil {
		return nil, err
	}
	return b.tree, nil
}

type builder struct {
	tree   *doctree.Tree
	source []byte
}

func (b *builder) blocks(parent doctree.NodeID, n ast.Node) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.Paragraph, *ast.TextBlock, *ast.Heading:
			b.leaves(b.tree.AppendContainer(parent, doctree.KindParagraph), c)
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			b.code(b.tree.AppendContainer(parent, doctree.KindParagraph), c)
		case *ast.Blockquote:
			b.blocks(b.tree.AppendContainer(parent, doctree.KindBlockquote), v)
		case *ast.List:
			kind := doctree.KindBulleted
			if v.IsOrdered() {
				kind = doctree.KindNumbered
			}
			b.list(b.tree.AppendContainer(parent, kind), v, 0)
		case *east.Table:
			b.table(b.tree.AppendContainer(parent, doctree.KindTable), v)
		}
	}
}

// list flattens the items of l and of every list nested in them into list.
func (b *builder) list(list doctree.NodeID, l *ast.List, level int) {
	for li := l.FirstChild(); li != nil; li = li.NextSibling() {
		if !li.HasChildren() {
			b.leaves(b.item(list, level), li)
			continue
		}
		for c := li.FirstChild(); c != nil; c = c.NextSibling() {
			switch v := c.(type) {
			case *ast.List:
				b.list(list, v, level+1)
			case *ast.CodeBlock, *ast.FencedCodeBlock:
				b.code(b.item(list, level), c)
			default:
				b.leaves(b.item(list, level), c)
			}
		}
	}
}

func (b *builder) item(list doctree.NodeID, level int) doctree.NodeID {
	item := b.tree.AppendContainer(list, doctree.KindItem)
	_ = b.tree.SetLevel(item, level)
	return item
}

func (b *builder) table(table doctree.NodeID, t *east.Table) {
	for r := t.FirstChild(); r != nil; r = r.NextSibling() {
		row := b.tree.AppendContainer(table, doctree.KindRow)
		for c := r.FirstChild(); c != nil; c = c.NextSibling() {
			cell := b.tree.AppendContainer(row, doctree.KindCell)
			if tc, ok := c.(*east.TableCell); ok {
				_ = b.tree.SetAlign(cell, alignment(tc.Alignment))
			}
			b.leaves(cell, c)
		}
	}
}

func alignment(a east.Alignment) doctree.Align {
	switch a {
	case east.AlignCenter:
		return doctree.AlignCenter
	case east.AlignRight:
		return doctree.AlignRight
	default:
		return doctree.AlignLeft
	}
}

// leaves fills a leaf-bearing container from the inline content of n.
func (b *builder) leaves(container doctree.NodeID, n ast.Node) {
	b.inline(container, n, 0, "")
	if len(b.tree.Children(container)) == 0 {
		b.tree.AppendText(container, "", 0)
	}
}

func (b *builder) code(container doctree.NodeID, n ast.Node) {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(b.source))
	}
	b.emit(container, strings.TrimRight(sb.String(), "\n"), doctree.Code, "")
	if len(b.tree.Children(container)) == 0 {
		b.tree.AppendText(container, "", 0)
	}
}

func (b *builder) inline(container doctree.NodeID, n ast.Node, style doctree.Style, url string) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.Text:
			value := v.Segment.Value(b.source)
			if !v.IsRaw() {
				value = unescape(value)
			}
			b.emit(container, string(value), style, url)
			switch {
			case v.HardLineBreak():
				b.emit(container, "\n", style, url)
			case v.SoftLineBreak():
				b.emit(container, " ", style, url)
			}
		case *ast.String:
			b.emit(container, string(v.Value), style, url)
		case *ast.CodeSpan:
			b.emit(container, b.codeSpan(v), style|doctree.Code, url)
		case *ast.Emphasis:
			s := doctree.Italic
			if v.Level >= 2 {
				s = doctree.Bold
			}
			b.inline(container, v, style|s, url)
		case *east.Strikethrough:
			b.inline(container, v, style|doctree.Strike, url)
		case *ast.Link:
			b.inline(container, v, style, string(util.UnescapePunctuations(v.Destination)))
		case *ast.AutoLink:
			b.emit(container, string(v.Label(b.source)), style, string(v.URL(b.source)))
		case *ast.RawHTML:
		default:
			b.inline(container, c, style, url)
		}
	}
}

func (b *builder) codeSpan(n *ast.CodeSpan) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.Text:
			sb.Write(v.Segment.Value(b.source))
		case *ast.String:
			sb.Write(v.Value)
		}
	}
	return sb.String()
}

func (b *builder) emit(container doctree.NodeID, s string, style doctree.Style, url string) {
	if s == "" {
		return
	}
	b.tree.AppendLink(container, s, url, style)
}

func unescape(v []byte) []byte {
	return util.ResolveEntityNames(util.ResolveNumericReferences(util.UnescapePunctuations(v)))
}

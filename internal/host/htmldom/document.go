package htmldom

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/dshills/inkstone/internal/engine/selection"
)

// Errors returned by Document.
var (
	ErrNoRange        = errors.New("no selection range")
	ErrUnknownElement = errors.New("unknown element id")
	ErrForeignNode    = errors.New("node does not belong to this document")
	ErrNoRoot         = errors.New("no inkstone root element")
	ErrBadRange       = errors.New("malformed range attributes")
)

// Attributes on the root element that carry the native range through
// WriteHTML and Parse.
const (
	attrRangeStart       = "data-range-start"
	attrRangeStartOffset = "data-range-start-offset"
	attrRangeEnd         = "data-range-end"
	attrRangeEndOffset   = "data-range-end-offset"
)

// Document is an HTML DOM rendering of a tree plus a native selection
// range.
type Document struct {
	root *html.Node
	byID map[string]*html.Node

	rng      selection.HostRange
	hasRange bool
}

func newDocument() *Document {
	return &Document{byID: make(map[string]*html.Node)}
}

// Parse reads HTML produced by WriteHTML back into a Document.
func Parse(r io.Reader) (*Document, error) {
	top, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	d := newDocument()
	walk(top, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		if d.root == nil && slices.Contains(classes(n), RootClass) {
			d.root = n
		}
		if id := attr(n, "id"); id != "" && d.root != nil && d.contains(n) {
			d.byID[id] = n
		}
	})
	if d.root == nil {
		return nil, ErrNoRoot
	}
	if err := d.readRange(); err != nil {
		return nil, err
	}
	return d, nil
}

// readRange restores a range written by WriteHTML.
func (d *Document) readRange() error {
	startID, endID := attr(d.root, attrRangeStart), attr(d.root, attrRangeEnd)
	if startID == "" && endID == "" {
		return nil
	}
	startOffset, err := strconv.Atoi(attr(d.root, attrRangeStartOffset))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBadRange, err)
	}
	endOffset, err := strconv.Atoi(attr(d.root, attrRangeEndOffset))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBadRange, err)
	}
	if err := d.Select(startID, startOffset, endID, endOffset); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRange, err)
	}
	return nil
}

// Root returns the element rendering the document root.
func (d *Document) Root() *html.Node {
	return d.root
}

// Element returns the element with the given id.
func (d *Document) Element(id string) (selection.HostNode, bool) {
	n, ok := d.byID[id]
	if !ok {
		return nil, false
	}
	return Node{n: n}, true
}

// HostRange returns the native selection range.
func (d *Document) HostRange() (selection.HostRange, error) {
	if !d.hasRange {
		return selection.HostRange{}, ErrNoRange
	}
	return d.rng, nil
}

// SetHostRange replaces the native selection range. Both points must be
// nodes of this document.
func (d *Document) SetHostRange(r selection.HostRange) error {
	for _, p := range []selection.HostPoint{r.Start, r.End} {
		n, ok := p.Node.(Node)
		if !ok || !d.contains(n.n) {
			return ErrForeignNode
		}
	}
	d.rng, d.hasRange = r, true
	return nil
}

// Range returns the native selection range, if any.
func (d *Document) Range() (selection.HostRange, bool) {
	return d.rng, d.hasRange
}

// Clear removes the native selection range.
func (d *Document) Clear() {
	d.rng, d.hasRange = selection.HostRange{}, false
}

// Select places the native range the way a user would: each end sits in
// the text node of the element with the given id, or on the element itself
// when it has no text. Offsets are clamped to the text length.
func (d *Document) Select(startID string, startOffset int, endID string, endOffset int) error {
	start, err := d.point(startID, startOffset)
	if err != nil {
		return err
	}
	end, err := d.point(endID, endOffset)
	if err != nil {
		return err
	}
	d.rng, d.hasRange = selection.HostRange{Start: start, End: end}, true
	return nil
}

func (d *Document) point(id string, offset int) (selection.HostPoint, error) {
	el, ok := d.byID[id]
	if !ok {
		return selection.HostPoint{}, fmt.Errorf("%w: %s", ErrUnknownElement, id)
	}
	for c := el.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			offset = max(0, min(offset, utf8.RuneCountInString(c.Data)))
			return selection.HostPoint{Node: Node{n: c}, Offset: offset}, nil
		}
	}
	return selection.HostPoint{Node: Node{n: el}, Offset: max(0, offset)}, nil
}

// WriteHTML serialises the DOM. The native range, if any, is written as
// data-range-* attributes on the root element naming the element ids and
// text offsets of both ends.
func (d *Document) WriteHTML(w io.Writer) error {
	d.markRange()
	return html.Render(w, d.root)
}

func (d *Document) markRange() {
	d.root.Attr = slices.DeleteFunc(d.root.Attr, func(a html.Attribute) bool {
		return strings.HasPrefix(a.Key, "data-range-")
	})
	if !d.hasRange {
		return
	}
	startID, ok := owner(d.rng.Start)
	if !ok {
		return
	}
	endID, ok := owner(d.rng.End)
	if !ok {
		return
	}
	d.root.Attr = append(d.root.Attr,
		html.Attribute{Key: attrRangeStart, Val: startID},
		html.Attribute{Key: attrRangeStartOffset, Val: strconv.Itoa(d.rng.Start.Offset)},
		html.Attribute{Key: attrRangeEnd, Val: endID},
		html.Attribute{Key: attrRangeEndOffset, Val: strconv.Itoa(d.rng.End.Offset)},
	)
}

// owner returns the id of the element holding p: the point's element, or
// the parent element of a text node.
func owner(p selection.HostPoint) (string, bool) {
	n, ok := p.Node.(Node)
	if !ok || n.n == nil {
		return "", false
	}
	el := n.n
	if el.Type == html.TextNode {
		el = el.Parent
	}
	if el == nil {
		return "", false
	}
	id := attr(el, "id")
	return id, id != ""
}

func (d *Document) contains(n *html.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur == d.root {
			return true
		}
	}
	return false
}

func classes(n *html.Node) []string {
	return strings.Fields(attr(n, "class"))
}

// walk calls fn for n and every node below it in document order.
func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

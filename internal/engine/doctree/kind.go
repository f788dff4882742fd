package doctree

import "strings"

// Kind identifies what a node is.
type Kind uint8

// Node kinds.
const (
	KindInvalid Kind = iota
	KindText
	KindLink
	KindDocument
	KindParagraph
	KindBulleted
	KindNumbered
	KindItem
	KindBlockquote
	KindTable
	KindRow
	KindCell
)

var kindNames = map[Kind]string{
	KindInvalid:    "invalid",
	KindText:       "text",
	KindLink:       "link",
	KindDocument:   "document",
	KindParagraph:  "paragraph",
	KindBulleted:   "bulleted",
	KindNumbered:   "numbered",
	KindItem:       "item",
	KindBlockquote: "blockquote",
	KindTable:      "table",
	KindRow:        "row",
	KindCell:       "cell",
}

// String returns the lower-case kind name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind resolves a kind name such as "bulleted" or "link".
func ParseKind(name string) (Kind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if k != KindInvalid && n == name {
			return k, true
		}
	}
	return KindInvalid, false
}

// IsLeaf reports whether k is a text or link leaf.
func (k Kind) IsLeaf() bool {
	return k == KindText || k == KindLink
}

// IsContainer reports whether k is a structural node.
func (k Kind) IsContainer() bool {
	return k >= KindDocument && k <= KindCell
}

// HoldsLeaves reports whether containers of kind k hold leaves directly.
func (k Kind) HoldsLeaves() bool {
	return k == KindParagraph || k == KindItem || k == KindCell
}

// IsList reports whether k is a bulleted or numbered list.
func (k Kind) IsList() bool {
	return k == KindBulleted || k == KindNumbered
}

// mergeable reports whether adjacent siblings of kind k collapse into one.
func (k Kind) mergeable() bool {
	return k.IsList() || k == KindBlockquote
}

// Align is the horizontal alignment of a container.
type Align uint8

// Alignments.
const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
	AlignJustify
)

// String returns the CSS-style alignment name.
func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignJustify:
		return "justify"
	default:
		return "left"
	}
}

package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dshills/inkstone/internal/engine/doctree"
)

// Render writes tree as Markdown.
func Render(tree *doctree.Tree) []byte {
	w := &writer{tree: tree}
	w.blocks(tree.Root(), "")
	return w.buf.Bytes()
}

type writer struct {
	tree *doctree.Tree
	buf  bytes.Buffer
}

func (w *writer) blocks(parent doctree.NodeID, prefix string) {
	for i, c := range w.tree.Children(parent) {
		if i > 0 {
			w.buf.WriteString(strings.TrimRight(prefix, " "))
			w.buf.WriteByte('\n')
		}
		switch w.tree.Kind(c) {
		case doctree.KindParagraph:
			w.buf.WriteString(prefix)
			w.buf.WriteString(escapeStart(w.inline(c, prefix)))
			w.buf.WriteByte('\n')
		case doctree.KindBlockquote:
			w.blocks(c, prefix+"> ")
		case doctree.KindBulleted, doctree.KindNumbered:
			w.list(c, prefix)
		case doctree.KindTable:
			w.table(c, prefix)
		}
	}
}

func (w *writer) list(list doctree.NodeID, prefix string) {
	numbered := w.tree.Kind(list) == doctree.KindNumbered
	var counters []int
	for _, item := range w.tree.Children(list) {
		level := w.tree.Level(item)
		var indent, marker string
		if numbered {
			for len(counters) <= level {
				counters = append(counters, 0)
			}
			counters = counters[:level+1]
			counters[level]++
			indent = strings.Repeat("   ", level)
			marker = fmt.Sprintf("%d. ", counters[level])
		} else {
			indent = strings.Repeat("  ", level)
			marker = "- "
		}
		cont := prefix + indent + strings.Repeat(" ", len(marker))
		line := prefix + indent + marker + escapeStart(w.inline(item, cont))
		w.buf.WriteString(strings.TrimRight(line, " "))
		w.buf.WriteByte('\n')
	}
}

func (w *writer) table(table doctree.NodeID, prefix string) {
	for i, row := range w.tree.Children(table) {
		cells := w.tree.Children(row)
		w.row(prefix, cells, func(cell doctree.NodeID) string {
			return strings.ReplaceAll(w.inline(cell, ""), "\\\n", " ")
		})
		if i == 0 {
			w.row(prefix, cells, func(cell doctree.NodeID) string {
				switch w.tree.Align(cell) {
				case doctree.AlignCenter:
					return ":-:"
				case doctree.AlignRight:
					return "--:"
				default:
					return "---"
				}
			})
		}
	}
}

func (w *writer) row(prefix string, cells []doctree.NodeID, fn func(doctree.NodeID) string) {
	w.buf.WriteString(prefix)
	w.buf.WriteString("|")
	for _, cell := range cells {
		w.buf.WriteString(" ")
		w.buf.WriteString(fn(cell))
		w.buf.WriteString(" |")
	}
	w.buf.WriteByte('\n')
}

// inline renders the leaves of a container. Newlines become hard breaks
// continued with cont.
func (w *writer) inline(container doctree.NodeID, cont string) string {
	var sb strings.Builder
	for _, leaf := range w.tree.Children(container) {
		value := w.tree.Value(leaf)
		if value == "" {
			continue
		}
		style := w.tree.Style(leaf)

		var body string
		if style.Has(doctree.Code) {
			body = codeSpan(value)
		} else {
			body = strings.ReplaceAll(escape(value), "\n", "\\\n"+cont)
		}
		body = wrap(body, style)
		if w.tree.Kind(leaf) == doctree.KindLink {
			body = "[" + body + "](" + w.tree.URL(leaf) + ")"
		}
		sb.WriteString(body)
	}
	return sb.String()
}

// wrap surrounds s with emphasis markers, keeping edge spaces outside them.
func wrap(s string, style doctree.Style) string {
	core := strings.Trim(s, " ")
	if core == "" {
		return s
	}
	lead := s[:strings.Index(s, core)]
	trail := s[len(lead)+len(core):]

	var open, close string
	for _, m := range []struct {
		style       doctree.Style
		open, close string
	}{
		{doctree.Bold, "**", "**"},
		{doctree.Italic, "*", "*"},
		{doctree.Strike, "~~", "~~"},
		{doctree.Underline, "<u>", "</u>"},
	} {
		if style.Has(m.style) {
			open += m.open
			close = m.close + close
		}
	}
	return lead + open + core + close + trail
}

const special = "\\`*_[]<>&~|"

func escape(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if strings.ContainsRune(special, r) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// escapeStart keeps a paragraph from reading as a list item or quote.
func escapeStart(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '-', '+', '>', '=', '#':
		return "\\" + s
	}
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i > 0 && i < len(s) && (s[i] == '.' || s[i] == ')') {
		return s[:i] + "\\" + s[i:]
	}
	return s
}

// codeSpan fences s with a backtick run longer than any inside it.
func codeSpan(s string) string {
	longest, run := 0, 0
	for _, r := range s {
		if r == '`' {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	fence := strings.Repeat("`", longest+1)
	if strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") || strings.HasPrefix(s, " ") && strings.HasSuffix(s, " ") {
		s = " " + s + " "
	}
	return fence + s + fence
}

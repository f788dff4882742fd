// Package markdown converts between Markdown text and document trees.
//
// Parse reads CommonMark with the GFM strikethrough and table extensions
// (via goldmark) into a doctree.Tree. Render writes a tree back out as
// Markdown. Headings, code blocks and thematic breaks have no tree
// equivalent: headings and code blocks become paragraphs and breaks are
// dropped. Nested lists flatten into item levels of the outermost list.
package markdown

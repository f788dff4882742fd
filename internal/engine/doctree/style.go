package doctree

import "strings"

// Style is a set of inline text styles.
type Style uint8

// Inline styles.
const (
	Bold Style = 1 << iota
	Italic
	Underline
	Strike
	Code
)

var styleNames = []struct {
	style Style
	name  string
}{
	{Bold, "bold"},
	{Italic, "italic"},
	{Underline, "underline"},
	{Strike, "strike"},
	{Code, "code"},
}

// Has reports whether every style in other is set in s.
// The empty style is never "had".
func (s Style) Has(other Style) bool {
	return other != 0 && s&other == other
}

// Names returns the style names in a fixed order.
func (s Style) Names() []string {
	names := make([]string, 0, len(styleNames))
	for _, sn := range styleNames {
		if s&sn.style != 0 {
			names = append(names, sn.name)
		}
	}
	return names
}

// String joins the style names with "+", or returns "plain".
func (s Style) String() string {
	if s == 0 {
		return "plain"
	}
	return strings.Join(s.Names(), "+")
}

// ParseStyle resolves a single style name.
func ParseStyle(name string) (Style, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "b", "strong":
		return Bold, true
	case "i", "em":
		return Italic, true
	case "u":
		return Underline, true
	case "s", "strikethrough":
		return Strike, true
	}
	for _, sn := range styleNames {
		if sn.name == name {
			return sn.style, true
		}
	}
	return 0, false
}

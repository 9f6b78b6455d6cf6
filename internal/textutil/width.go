package textutil

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const DefaultTabWidth = 4

const ellipsis = "…"

// ExpandTabs replaces tab characters with spaces respecting terminal column width.
func ExpandTabs(text string, tabWidth int) string {
	if tabWidth <= 0 || !strings.ContainsRune(text, '\t') {
		return text
	}

	var builder strings.Builder
	column := 0
	for _, ru := range text {
		if ru == '\t' {
			spaces := tabWidth - (column % tabWidth)
			builder.WriteString(strings.Repeat(" ", spaces))
			column += spaces
			continue
		}
		builder.WriteRune(ru)
		column += RuneWidth(ru)
	}
	return builder.String()
}

// RuneWidth is the terminal cell width of ru, never less than one.
func RuneWidth(ru rune) int {
	if w := runewidth.RuneWidth(ru); w > 0 {
		return w
	}
	return 1
}

// DisplayWidth reports the printable width of text, treating grapheme
// clusters such as emoji sequences as a single glyph.
func DisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// Truncate shortens text to at most maxWidth cells, ending with an ellipsis
// when anything was cut.
func Truncate(text string, maxWidth int) string {
	if maxWidth <= 0 || text == "" {
		return ""
	}
	if DisplayWidth(text) <= maxWidth {
		return text
	}
	if maxWidth <= 1 {
		return ellipsis
	}
	available := maxWidth - 1
	var builder strings.Builder
	width := 0
	for _, ru := range text {
		w := RuneWidth(ru)
		if width+w > available {
			break
		}
		builder.WriteRune(ru)
		width += w
	}
	builder.WriteString(ellipsis)
	return builder.String()
}

package markdown

import (
	"strings"
	"unicode/utf8"
)

// DefaultPreviewLimit is the rune limit Preview applies when given limit <= 0.
const DefaultPreviewLimit = 100

const (
	bulletPrefix    = "• "
	quoteBarPrefix  = "│ "
	codeIndent      = "    "
	placeholderText = "Loading…"
)

// Line is one display line produced from a block.
type Line struct {
	Kind    BlockKind
	BlockID int
	Prefix  string
	Runs    []StyledRun
}

// String returns the line as plain text.
func (l Line) String() string {
	return l.Prefix + RunsText(l.Runs)
}

// Markdown serializes blocks back into canonical Markdown source, one block
// per line group. Blank-line spacing of the original input is not preserved.
func Markdown(blocks []Block) string {
	parts := make([]string, 0, len(blocks))
	for _, block := range blocks {
		if src, ok := blockSource(block); ok {
			parts = append(parts, src)
		}
	}
	return strings.Join(parts, "\n")
}

func blockSource(block Block) (string, bool) {
	switch b := block.(type) {
	case Heading:
		return strings.Repeat("#", b.Level) + " " + b.Text, true
	case CodeBlock:
		if b.Code == "" {
			return fenceDelimiter + b.Language + "\n" + fenceDelimiter, true
		}
		return fenceDelimiter + b.Language + "\n" + b.Code + "\n" + fenceDelimiter, true
	case ListBlock:
		items := make([]string, len(b.Items))
		for i, item := range b.Items {
			items[i] = listPrefixes[0] + item
		}
		return strings.Join(items, "\n"), len(items) > 0
	case QuoteBlock:
		return quotePrefix + b.Text, true
	case ImageBlock:
		return imagePrefix + b.AltText + "](" + b.Path + ")", true
	case TextBlock:
		return runsSource(b.Runs), true
	default:
		return "", false
	}
}

func runsSource(runs []StyledRun) string {
	var b strings.Builder
	for _, run := range runs {
		marker := ""
		switch run.Style {
		case StyleBold:
			marker = "**"
		case StyleItalic:
			marker = "*"
		case StyleInlineCode:
			marker = "`"
		}
		b.WriteString(marker)
		b.WriteString(run.Text)
		b.WriteString(marker)
	}
	return b.String()
}

// Preview returns a single plain-text line summarizing raw: the first block
// with readable text, markers removed, cut to limit runes. Code blocks are
// skipped.
func Preview(raw string, limit int) string {
	if limit <= 0 {
		limit = DefaultPreviewLimit
	}
	for _, block := range Segment(raw) {
		text := ""
		switch b := block.(type) {
		case Heading:
			text = RunsText(Stylize(b.Text))
		case ListBlock:
			if len(b.Items) > 0 {
				text = RunsText(Stylize(b.Items[0]))
			}
		case QuoteBlock:
			text = RunsText(Stylize(b.Text))
		case ImageBlock:
			text = b.AltText
		case TextBlock:
			text = RunsText(b.Runs)
		}
		text = strings.TrimSpace(text)
		if text != "" {
			return truncateRunes(text, limit)
		}
	}
	return ""
}

func truncateRunes(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	return string([]rune(text)[:limit])
}

// Lines flattens blocks into display lines with one empty line between blocks.
func Lines(blocks []Block) []Line {
	var lines []Line
	for idx, block := range blocks {
		rendered := BlockLines(block)
		if idx > 0 && len(rendered) > 0 && len(lines) > 0 {
			lines = append(lines, Line{Kind: KindOf(block), BlockID: -1})
		}
		lines = append(lines, rendered...)
	}
	return lines
}

// BlockLines renders a single block into display lines, before wrapping.
func BlockLines(block Block) []Line {
	id := BlockID(block)
	switch b := block.(type) {
	case Heading:
		return []Line{{
			Kind:    KindHeading,
			BlockID: id,
			Prefix:  strings.Repeat("#", b.Level) + " ",
			Runs:    Stylize(b.Text),
		}}
	case CodeBlock:
		code := strings.Split(b.Code, "\n")
		lines := make([]Line, 0, len(code)+1)
		if b.Language != "" {
			lines = append(lines, Line{Kind: KindCode, BlockID: id, Prefix: codeIndent,
				Runs: []StyledRun{{Text: "[" + b.Language + "]", Style: StyleInlineCode}}})
		}
		for _, text := range code {
			line := Line{Kind: KindCode, BlockID: id, Prefix: codeIndent}
			if text != "" {
				line.Runs = []StyledRun{{Text: text, Style: StyleInlineCode}}
			}
			lines = append(lines, line)
		}
		return lines
	case ListBlock:
		lines := make([]Line, 0, len(b.Items))
		for _, item := range b.Items {
			lines = append(lines, Line{Kind: KindList, BlockID: id, Prefix: bulletPrefix, Runs: Stylize(item)})
		}
		return lines
	case QuoteBlock:
		return []Line{{Kind: KindQuote, BlockID: id, Prefix: quoteBarPrefix, Runs: Stylize(b.Text)}}
	case ImageBlock:
		label := "[image: " + b.AltText + "] (" + b.Path + ")"
		return []Line{{Kind: KindImage, BlockID: id, Runs: []StyledRun{{Text: label}}}}
	case TextBlock:
		return []Line{{Kind: KindText, BlockID: id, Runs: b.Runs}}
	case PlaceholderBlock:
		return []Line{{Kind: KindPlaceholder, BlockID: id, Runs: []StyledRun{{Text: placeholderText}}}}
	default:
		return nil
	}
}

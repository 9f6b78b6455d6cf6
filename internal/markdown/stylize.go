package markdown

const (
	emphasisMarker = '*'
	codeMarker     = '`'
)

// Stylize splits a single line into styled runs. It recognizes **bold**,
// *italic* and `code` spans without nesting; the content between delimiters is
// taken verbatim. Unmatched delimiters, and delimiter pairs with nothing
// between them, are emitted as plain text.
func Stylize(line string) []StyledRun {
	if line == "" {
		return nil
	}
	runes := []rune(line)
	var runs []StyledRun
	var buf []rune

	emit := func(text string, style RunStyle) {
		if text == "" {
			return
		}
		if n := len(runs); n > 0 && runs[n-1].Style == style {
			runs[n-1].Text += text
			return
		}
		runs = append(runs, StyledRun{Text: text, Style: style})
	}
	flushPlain := func() {
		if len(buf) == 0 {
			return
		}
		emit(string(buf), StylePlain)
		buf = buf[:0]
	}
	span := func(start, end int, style RunStyle) {
		flushPlain()
		emit(string(runes[start:end]), style)
	}

	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case r == emphasisMarker && next(runes, i) == emphasisMarker:
			if end := indexPair(runes, i+2, emphasisMarker); end == i+2 {
				buf = append(buf, runes[i:end+2]...)
				i = end + 2
				continue
			} else if end != -1 {
				span(i+2, end, StyleBold)
				i = end + 2
				continue
			}
		case r == emphasisMarker && i+1 < len(runes):
			end := indexRune(runes, i+1, emphasisMarker)
			if end != -1 && next(runes, end) != emphasisMarker {
				span(i+1, end, StyleItalic)
				i = end + 1
				continue
			}
		case r == codeMarker:
			if end := indexRune(runes, i+1, codeMarker); end == i+1 {
				buf = append(buf, runes[i:end+1]...)
				i = end + 1
				continue
			} else if end != -1 {
				span(i+1, end, StyleInlineCode)
				i = end + 1
				continue
			}
		}
		buf = append(buf, r)
		i++
	}
	flushPlain()
	return runs
}

// next returns the rune after idx, or 0 past the end.
func next(runes []rune, idx int) rune {
	if idx+1 < len(runes) {
		return runes[idx+1]
	}
	return 0
}

func indexRune(runes []rune, from int, target rune) int {
	for i := from; i < len(runes); i++ {
		if runes[i] == target {
			return i
		}
	}
	return -1
}

// indexPair finds the first position at or after from holding two consecutive
// target runes.
func indexPair(runes []rune, from int, target rune) int {
	for i := from; i+1 < len(runes); i++ {
		if runes[i] == target && runes[i+1] == target {
			return i
		}
	}
	return -1
}

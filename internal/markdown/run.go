package markdown

// RunStyle describes the inline style of a StyledRun.
type RunStyle int

const (
	StylePlain RunStyle = iota
	StyleBold
	StyleItalic
	StyleInlineCode
)

func (s RunStyle) String() string {
	switch s {
	case StylePlain:
		return "plain"
	case StyleBold:
		return "bold"
	case StyleItalic:
		return "italic"
	case StyleInlineCode:
		return "code"
	default:
		return "unknown"
	}
}

// StyledRun is a chunk of text sharing one inline style.
type StyledRun struct {
	Text  string
	Style RunStyle
}

// RunsText concatenates the visible text of runs.
func RunsText(runs []StyledRun) string {
	if len(runs) == 0 {
		return ""
	}
	total := 0
	for _, run := range runs {
		total += len(run.Text)
	}
	buf := make([]byte, 0, total)
	for _, run := range runs {
		buf = append(buf, run.Text...)
	}
	return string(buf)
}

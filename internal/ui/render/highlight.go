package render

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/gdamore/tcell/v2"
)

// codeHighlighter colors fenced code with chroma, keeping the code block
// background from the theme.
type codeHighlighter struct {
	style *chroma.Style
}

func newCodeHighlighter(name string) codeHighlighter {
	return codeHighlighter{style: styles.Get(name)}
}

// lines returns one segment slice per line of code. The result always has
// exactly as many entries as code has lines.
func (h codeHighlighter) lines(code, language string, base tcell.Style) [][]segment {
	want := strings.Split(code, "\n")
	lexer := lexerFor(language, code)
	if lexer == nil || h.style == nil {
		return plainCodeLines(want, base)
	}
	it, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return plainCodeLines(want, base)
	}

	tokenLines := chroma.SplitTokensIntoLines(it.Tokens())
	out := make([][]segment, len(want))
	for i := range out {
		if i >= len(tokenLines) {
			break
		}
		for _, tok := range tokenLines[i] {
			text := strings.TrimRight(tok.Value, "\n")
			if text == "" {
				continue
			}
			out[i] = append(out[i], segment{text: text, style: h.tokenStyle(tok.Type, base)})
		}
	}
	return out
}

func (h codeHighlighter) tokenStyle(tt chroma.TokenType, base tcell.Style) tcell.Style {
	entry := h.style.Get(tt)
	style := base
	if entry.Colour.IsSet() {
		style = style.Foreground(tcell.NewRGBColor(int32(entry.Colour.Red()), int32(entry.Colour.Green()), int32(entry.Colour.Blue())))
	}
	if entry.Bold == chroma.Yes {
		style = style.Bold(true)
	}
	if entry.Italic == chroma.Yes {
		style = style.Italic(true)
	}
	if entry.Underline == chroma.Yes {
		style = style.Underline(true)
	}
	return style
}

func lexerFor(language, code string) chroma.Lexer {
	if language != "" {
		if lexer := lexers.Get(language); lexer != nil {
			return lexer
		}
		return nil
	}
	return lexers.Analyse(code)
}

func plainCodeLines(lines []string, base tcell.Style) [][]segment {
	out := make([][]segment, len(lines))
	for i, line := range lines {
		if line != "" {
			out[i] = []segment{{text: line, style: base}}
		}
	}
	return out
}

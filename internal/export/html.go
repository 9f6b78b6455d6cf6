// Package export renders notes to HTML. Full CommonMark/GFM parsing, tables
// included, is delegated to goldmark; the block segmenter is not involved.
package export

import (
	"bytes"
	"fmt"
	"html"
	"io"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// Exporter converts note Markdown to HTML.
type Exporter struct {
	md goldmark.Markdown
}

// New returns an exporter that highlights fenced code with the named chroma
// style.
func New(codeStyle string) *Exporter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Table,
			extension.Strikethrough,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			renderer.WithNodeRenderers(util.Prioritized(&codeRenderer{style: codeStyle}, 100)),
		),
	)
	return &Exporter{md: md}
}

// HTML writes the HTML fragment for raw to w.
func (e *Exporter) HTML(w io.Writer, raw string) error {
	if err := e.md.Convert([]byte(raw), w); err != nil {
		return fmt.Errorf("convert markdown: %w", err)
	}
	return nil
}

// Document writes a standalone HTML page titled title.
func (e *Exporter) Document(w io.Writer, title, raw string) error {
	var body bytes.Buffer
	if err := e.HTML(&body, raw); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n%s</body>\n</html>\n",
		html.EscapeString(title), body.String())
	return err
}

type codeRenderer struct {
	style string
}

func (r *codeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCode)
}

func (r *codeRenderer) renderFencedCode(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)

	var code bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		code.Write(seg.Value(source))
	}

	lexer := lexers.Get(string(n.Language(source)))
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)
	it, err := lexer.Tokenise(nil, code.String())
	if err != nil {
		return ast.WalkStop, err
	}
	formatter := chromahtml.New(chromahtml.WithClasses(false))
	if err := formatter.Format(w, styles.Get(r.style), it); err != nil {
		return ast.WalkStop, err
	}
	return ast.WalkSkipChildren, nil
}

package render

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/mdnote/internal/markdown"
	statepkg "github.com/kk-code-lab/mdnote/internal/state"
	textutil "github.com/kk-code-lab/mdnote/internal/textutil"
)

const (
	maxThumbnailCols = 48
	maxThumbnailRows = 12
	codeLinePrefix   = "    "
)

type segment struct {
	text  string
	style tcell.Style
}

// row is one screen line. fill paints the cells after the last segment.
type row struct {
	segments []segment
	fill     tcell.Style
}

type logicalLine struct {
	prefix segment
	body   []segment
	fill   tcell.Style
	// hang indents continuation rows with spaces instead of repeating prefix.
	hang bool
	// fixed lines are never wrapped.
	fixed bool
}

// BlockView lays out blocks as rows and keeps the scroll position. Heights
// are cached per width; rows are only built for blocks in the viewport.
type BlockView struct {
	theme     ColorTheme
	highlight codeHighlighter
	tabWidth  int
	wrap      bool
	gap       int

	blocks []markdown.Block
	images map[int]statepkg.ImageState

	width   int
	heights map[int][]int
	rows    map[int][]row
	offsets []int
	total   int
	scroll  int
}

// NewBlockView creates an empty view.
func NewBlockView(theme ColorTheme, codeStyle string, tabWidth int) *BlockView {
	if tabWidth <= 0 {
		tabWidth = textutil.DefaultTabWidth
	}
	return &BlockView{
		theme:     theme,
		highlight: newCodeHighlighter(codeStyle),
		tabWidth:  tabWidth,
		wrap:      true,
		gap:       1,
		heights:   make(map[int][]int),
		rows:      make(map[int][]row),
	}
}

// SetBlocks replaces every block. gap is the number of blank rows between
// blocks.
func (v *BlockView) SetBlocks(blocks []markdown.Block, images map[int]statepkg.ImageState, gap int) {
	v.blocks = blocks
	v.images = images
	if gap < 0 {
		gap = 0
	}
	v.gap = gap
	v.invalidate()
}

// Replace swaps the block at idx, dropping only its cached layout.
func (v *BlockView) Replace(idx int, block markdown.Block, images map[int]statepkg.ImageState) {
	if idx < 0 || idx >= len(v.blocks) {
		return
	}
	next := make([]markdown.Block, len(v.blocks))
	copy(next, v.blocks)
	next[idx] = block
	v.blocks = next
	v.images = images
	for _, heights := range v.heights {
		if idx < len(heights) {
			heights[idx] = -1
		}
	}
	delete(v.rows, idx)
	v.offsets = nil
}

// SetWrap toggles soft wrapping.
func (v *BlockView) SetWrap(wrap bool) {
	if v.wrap == wrap {
		return
	}
	v.wrap = wrap
	v.invalidate()
}

func (v *BlockView) invalidate() {
	v.heights = make(map[int][]int)
	v.rows = make(map[int][]row)
	v.offsets = nil
}

// Blocks returns the blocks currently shown.
func (v *BlockView) Blocks() []markdown.Block {
	return v.blocks
}

// Layout computes block offsets for width.
func (v *BlockView) Layout(width int) {
	if width < 1 {
		width = 1
	}
	if width != v.width {
		v.width = width
		v.rows = make(map[int][]row)
		v.offsets = nil
	}
	if v.offsets != nil {
		return
	}

	heights, ok := v.heights[width]
	if !ok || len(heights) != len(v.blocks) {
		heights = make([]int, len(v.blocks))
		for i := range heights {
			heights[i] = -1
		}
		v.heights[width] = heights
	}

	v.offsets = make([]int, len(v.blocks))
	pos := 0
	for i := range v.blocks {
		if heights[i] < 0 {
			heights[i] = v.measure(i, width)
		}
		if i > 0 {
			pos += v.gap
		}
		v.offsets[i] = pos
		pos += heights[i]
	}
	v.total = pos
}

// TotalRows is the laid-out height of all blocks.
func (v *BlockView) TotalRows() int {
	return v.total
}

// Offset returns the first row of block idx.
func (v *BlockView) Offset(idx int) int {
	if idx < 0 || idx >= len(v.offsets) {
		return -1
	}
	return v.offsets[idx]
}

func (v *BlockView) height(idx int) int {
	if heights, ok := v.heights[v.width]; ok && idx < len(heights) {
		return heights[idx]
	}
	return 0
}

// Visible returns the indices of blocks intersecting a viewport of height
// rows starting at the scroll offset.
func (v *BlockView) Visible(height int) []int {
	if height <= 0 || len(v.offsets) == 0 {
		return nil
	}
	top := v.scroll
	bottom := v.scroll + height

	lo, hi := 0, len(v.offsets)
	for lo < hi {
		mid := (lo + hi) / 2
		if v.offsets[mid]+v.height(mid) <= top {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	var visible []int
	for i := lo; i < len(v.offsets) && v.offsets[i] < bottom; i++ {
		if v.height(i) == 0 {
			continue
		}
		visible = append(visible, i)
	}
	return visible
}

// ScrollOffset returns the first visible row.
func (v *BlockView) ScrollOffset() int {
	return v.scroll
}

// ScrollBy moves the viewport by delta rows, clamped to the content.
func (v *BlockView) ScrollBy(delta, height int) {
	v.ScrollTo(v.scroll+delta, height)
}

// ScrollTo moves the viewport so that row is at the top.
func (v *BlockView) ScrollTo(rowIdx, height int) {
	v.scroll = rowIdx
	v.clamp(height)
}

// ScrollToBottom shows the last page.
func (v *BlockView) ScrollToBottom(height int) {
	v.ScrollTo(v.total, height)
}

func (v *BlockView) clamp(height int) {
	maxScroll := v.total - height
	if maxScroll < 0 {
		maxScroll = 0
	}
	if v.scroll > maxScroll {
		v.scroll = maxScroll
	}
	if v.scroll < 0 {
		v.scroll = 0
	}
}

func (v *BlockView) blockRows(idx int) []row {
	if rows, ok := v.rows[idx]; ok {
		return rows
	}
	rows := v.layoutLines(v.lines(idx, true), v.width)
	v.rows[idx] = rows
	return rows
}

func (v *BlockView) measure(idx, width int) int {
	return len(v.layoutLines(v.lines(idx, false), width))
}

func (v *BlockView) layoutLines(lines []logicalLine, width int) []row {
	var rows []row
	for _, line := range lines {
		prefixWidth := textutil.DisplayWidth(line.prefix.text)
		if !v.wrap || line.fixed {
			rows = append(rows, row{segments: joinPrefix(line.prefix, line.body), fill: line.fill})
			continue
		}
		avail := width - prefixWidth
		if avail < 1 {
			avail = 1
		}
		for i, wrapped := range wrapSegments(line.body, avail) {
			prefix := line.prefix
			if i > 0 && line.hang {
				prefix = segment{text: strings.Repeat(" ", prefixWidth), style: line.prefix.style}
			}
			rows = append(rows, row{segments: joinPrefix(prefix, wrapped), fill: line.fill})
		}
	}
	return rows
}

func joinPrefix(prefix segment, body []segment) []segment {
	if prefix.text == "" {
		return body
	}
	out := make([]segment, 0, len(body)+1)
	out = append(out, prefix)
	return append(out, body...)
}

// lines converts block idx into logical lines. Code is only highlighted when
// full is set; the text, and so the height, is identical either way.
func (v *BlockView) lines(idx int, full bool) []logicalLine {
	base := v.theme.base()
	switch b := v.blocks[idx].(type) {
	case markdown.Heading:
		style := base.Bold(true).Foreground(v.theme.headingColor(b.Level))
		return []logicalLine{{
			prefix: segment{text: strings.Repeat("#", b.Level) + " ", style: style.Dim(true)},
			body:   v.styleRuns(markdown.Stylize(b.Text), style),
			fill:   base,
			hang:   true,
		}}

	case markdown.CodeBlock:
		style := v.theme.codeBlock()
		prefix := segment{text: codeLinePrefix, style: style}
		code := textutil.ExpandTabs(b.Code, v.tabWidth)
		var bodies [][]segment
		if full {
			bodies = v.highlight.lines(code, b.Language, style)
		} else {
			bodies = plainCodeLines(strings.Split(code, "\n"), style)
		}
		lines := make([]logicalLine, 0, len(bodies)+1)
		if b.Language != "" {
			label := []segment{{text: sanitize("[" + b.Language + "]"), style: style.Dim(true)}}
			lines = append(lines, logicalLine{prefix: prefix, body: label, fill: style})
		}
		for _, body := range bodies {
			for i := range body {
				body[i].text = sanitize(body[i].text)
			}
			lines = append(lines, logicalLine{prefix: prefix, body: body, fill: style})
		}
		return lines

	case markdown.ListBlock:
		lines := make([]logicalLine, 0, len(b.Items))
		for _, item := range b.Items {
			lines = append(lines, logicalLine{
				prefix: segment{text: "• ", style: base.Foreground(v.theme.BulletFg)},
				body:   v.styleRuns(markdown.Stylize(item), base),
				fill:   base,
				hang:   true,
			})
		}
		return lines

	case markdown.QuoteBlock:
		return []logicalLine{{
			prefix: segment{text: "│ ", style: base.Foreground(v.theme.QuoteBarFg)},
			body:   v.styleRuns(markdown.Stylize(b.Text), base.Foreground(v.theme.QuoteFg).Italic(true)),
			fill:   base,
		}}

	case markdown.ImageBlock:
		return v.imageLines(b, full)

	case markdown.TextBlock:
		return []logicalLine{{body: v.styleRuns(b.Runs, base), fill: base}}

	case markdown.PlaceholderBlock:
		style := base.Foreground(v.theme.PlaceholderFg).Dim(true)
		return []logicalLine{{body: []segment{{text: "Loading…", style: style}}, fill: base, fixed: true}}
	}
	return nil
}

func (v *BlockView) styleRuns(runs []markdown.StyledRun, base tcell.Style) []segment {
	out := make([]segment, 0, len(runs))
	for _, run := range runs {
		text := sanitize(run.Text)
		if text == "" {
			continue
		}
		out = append(out, segment{text: text, style: v.styleForRun(base, run.Style)})
	}
	return out
}

func (v *BlockView) styleForRun(base tcell.Style, style markdown.RunStyle) tcell.Style {
	switch style {
	case markdown.StyleBold:
		return base.Bold(true)
	case markdown.StyleItalic:
		return base.Italic(true)
	case markdown.StyleInlineCode:
		out := base
		if v.theme.CodeFg != tcell.ColorDefault {
			out = out.Foreground(v.theme.CodeFg)
		}
		if v.theme.CodeBg != tcell.ColorDefault {
			out = out.Background(v.theme.CodeBg)
		}
		return out.Dim(false)
	default:
		return base
	}
}

func (v *BlockView) imageLines(b markdown.ImageBlock, full bool) []logicalLine {
	base := v.theme.base()
	state, resolved := v.images[b.ID]
	if !resolved {
		label := sanitize(fmt.Sprintf("[image: %s] (%s)", b.AltText, b.Path))
		return []logicalLine{{body: []segment{{text: label, style: base.Foreground(v.theme.ImageFg)}}, fill: base}}
	}
	if state.Err != nil {
		label := sanitize(fmt.Sprintf("✗ %s (%s): %v", b.AltText, b.Path, state.Err))
		return []logicalLine{{body: []segment{{text: label, style: base.Foreground(v.theme.ErrorFg)}}, fill: base}}
	}

	info := state.Info
	card := fmt.Sprintf("▣ %s · %s · %d×%d %s", b.AltText, b.Path, info.Width, info.Height, info.Format)
	lines := []logicalLine{{
		body:  []segment{{text: sanitize(card), style: base.Foreground(v.theme.ImageFg)}},
		fill:  base,
		fixed: true,
	}}

	cols, pixelRows := thumbnailSize(info.Width, info.Height, v.width)
	if info.Thumbnail == nil || cols == 0 {
		return lines
	}
	rowCount := (pixelRows + 1) / 2
	if !full {
		for i := 0; i < rowCount; i++ {
			lines = append(lines, logicalLine{fill: base, fixed: true})
		}
		return lines
	}
	return append(lines, halfBlockLines(info.Thumbnail, cols, pixelRows, base)...)
}

// thumbnailSize fits a w×h image into terminal cells, where each cell holds
// two vertically stacked pixels.
func thumbnailSize(w, h, width int) (int, int) {
	maxCols := width - 2
	if maxCols > maxThumbnailCols {
		maxCols = maxThumbnailCols
	}
	if w <= 0 || h <= 0 || maxCols < 2 {
		return 0, 0
	}
	maxPixelRows := maxThumbnailRows * 2
	cols := maxCols
	rows := h * cols / w
	if rows > maxPixelRows {
		rows = maxPixelRows
		cols = w * rows / h
	}
	if cols < 1 {
		cols = 1
	}
	if rows < 2 {
		rows = 2
	}
	return cols, rows
}

func halfBlockLines(img image.Image, cols, pixelRows int, base tcell.Style) []logicalLine {
	small := imaging.Resize(img, cols, pixelRows, imaging.Box)
	bounds := small.Bounds()
	var lines []logicalLine
	for y := bounds.Min.Y; y < bounds.Max.Y; y += 2 {
		body := make([]segment, 0, cols)
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			top := cellColor(small.At(x, y))
			bottom := top
			if y+1 < bounds.Max.Y {
				bottom = cellColor(small.At(x, y+1))
			}
			body = append(body, segment{text: "▀", style: base.Foreground(top).Background(bottom)})
		}
		lines = append(lines, logicalLine{prefix: segment{text: "  ", style: base}, body: body, fill: base, fixed: true})
	}
	return lines
}

func cellColor(c color.Color) tcell.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return tcell.NewRGBColor(int32(n.R), int32(n.G), int32(n.B))
}

func sanitize(text string) string {
	return textutil.SanitizeTerminalText(text)
}

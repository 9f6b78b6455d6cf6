package render

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/mdnote/internal/state"
	textutil "github.com/kk-code-lab/mdnote/internal/textutil"
)

// Renderer handles all UI rendering
type Renderer struct {
	screen           tcell.Screen
	theme            ColorTheme
	runeWidthCache   [128]int // ASCII cache (0-127)
	runeWidthCacheMu sync.RWMutex
	runeWidthWide    sync.Map // For non-ASCII runes
}

// NewRenderer creates a new renderer
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{
		screen: screen,
		theme:  GetColorTheme(),
	}
}

// Theme returns the renderer's colors.
func (r *Renderer) Theme() ColorTheme {
	return r.theme
}

// BodyHeight is the number of rows available to the document on a screen
// of height h, after the header and status lines.
func BodyHeight(h int) int {
	if h <= 2 {
		return 0
	}
	return h - 2
}

// Render draws the entire UI based on state
func (r *Renderer) Render(state *statepkg.AppState, view *BlockView) {
	r.screen.Clear()
	w, h := r.screen.Size()

	if state != nil && state.HelpVisible {
		r.drawHelpOverlay(w, h)
		r.screen.Show()
		return
	}

	r.drawHeader(state, w)
	r.drawBody(view, w, BodyHeight(h))
	r.drawStatusLine(state, view, w, h)
	r.screen.Show()
}

func (r *Renderer) drawHeader(state *statepkg.AppState, w int) {
	headerStyle := r.theme.footer()
	endX := r.drawTextLine(0, 0, w, "mdnote", headerStyle)
	if state != nil && state.Path != "" && endX+1 < w {
		r.screen.SetContent(endX, 0, ' ', nil, headerStyle)
		endX++
		path := textutil.SanitizeTerminalText(state.Path)
		path = r.truncateTextToWidth(path, w-endX)
		endX = r.drawTextLine(endX, 0, w-endX, path, headerStyle.Bold(true))
	}
	r.fillLine(endX, 0, w, headerStyle)
}

func (r *Renderer) drawBody(view *BlockView, w, bodyHeight int) {
	if view == nil || bodyHeight <= 0 {
		return
	}
	view.Layout(w)
	view.clamp(bodyHeight)

	base := r.theme.base()
	for y := 1; y <= bodyHeight; y++ {
		r.fillLine(0, y, w, base)
	}

	scroll := view.ScrollOffset()
	for _, idx := range view.Visible(bodyHeight) {
		top := view.Offset(idx) - scroll
		for i, rw := range view.blockRows(idx) {
			line := top + i
			if line < 0 {
				continue
			}
			if line >= bodyHeight {
				break
			}
			r.drawRow(rw, 1+line, w)
		}
	}
}

func (r *Renderer) drawRow(rw row, y, w int) {
	x := 0
	for _, seg := range rw.segments {
		if x >= w {
			return
		}
		x = r.drawTextLine(x, y, w-x, seg.text, seg.style)
	}
	r.fillLine(x, y, w, rw.fill)
}

func (r *Renderer) drawStatusLine(state *statepkg.AppState, view *BlockView, w, h int) {
	if h < 2 {
		return
	}
	y := h - 1
	style := r.theme.footer()
	r.fillLine(0, y, w, style)

	right := formatStatusSummary(state, view, BodyHeight(h))
	rightWidth := r.measureTextWidth(right)

	left := buildFooterHelpText(state)
	leftStyle := style.Dim(true)
	if state != nil && state.LastError != nil {
		left = " " + textutil.SanitizeTerminalText(state.LastError.Error())
		leftStyle = style.Foreground(r.theme.ErrorFg)
	}

	leftWidth := w - rightWidth - 1
	if leftWidth > 0 {
		r.drawTextLine(0, y, leftWidth, r.truncateTextToWidth(left, leftWidth), leftStyle)
	}
	if rightWidth <= w {
		r.drawTextLine(w-rightWidth, y, rightWidth, right, style)
	}
}

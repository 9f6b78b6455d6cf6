package render

import (
	"fmt"
	"strings"

	textutil "github.com/kk-code-lab/mdnote/internal/textutil"
)

type helpOverlayEntry struct {
	keys string
	desc string
}

type helpOverlaySection struct {
	title   string
	entries []helpOverlayEntry
}

var helpOverlaySections = []helpOverlaySection{
	{
		title: "Scrolling",
		entries: []helpOverlayEntry{
			{keys: "↑/↓ or k/j", desc: "Scroll one line"},
			{keys: "PgUp/PgDn, Space", desc: "Scroll one page"},
			{keys: "Home/End or g/G", desc: "Jump to top / bottom"},
		},
	},
	{
		title: "View",
		entries: []helpOverlayEntry{
			{keys: "m", desc: "Toggle raw Markdown"},
			{keys: "w", desc: "Toggle wrap"},
			{keys: "r", desc: "Reload note from disk"},
		},
	},
	{
		title: "Actions",
		entries: []helpOverlayEntry{
			{keys: "e", desc: "Open in external editor ($EDITOR)"},
			{keys: "P", desc: "Open external pager ($PAGER)"},
			{keys: "y", desc: "Yank path to clipboard"},
		},
	},
	{
		title: "Exit",
		entries: []helpOverlayEntry{
			{keys: "q", desc: "Quit"},
			{keys: "Ctrl+C", desc: "Quit immediately"},
			{keys: "Ctrl+Z", desc: "Suspend to shell"},
			{keys: "?", desc: "Close this help"},
		},
	},
}

func buildHelpOverlayLines() []string {
	lines := make([]string, 0, 32)
	for i, section := range helpOverlaySections {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, section.title)
		for _, entry := range section.entries {
			lines = append(lines, formatHelpOverlayEntry(entry))
		}
	}
	return lines
}

func formatHelpOverlayEntry(entry helpOverlayEntry) string {
	key := textutil.SanitizeTerminalText(entry.keys)
	desc := textutil.SanitizeTerminalText(entry.desc)
	return fmt.Sprintf("  %-18s %s", key, desc)
}

func (r *Renderer) drawHelpOverlay(w, h int) {
	baseStyle := r.theme.base()
	for y := 0; y < h; y++ {
		r.fillLine(0, y, w, baseStyle)
	}

	title := " Help "
	headerStyle := r.theme.footer().Bold(true)
	titleStart := 0
	titleWidth := r.measureTextWidth(title)
	if w > titleWidth {
		titleStart = (w - titleWidth) / 2
	}
	r.drawTextLine(titleStart, 0, w-titleStart, title, headerStyle)

	row := 2
	maxRow := h - 1
	for _, line := range buildHelpOverlayLines() {
		if row >= maxRow {
			break
		}
		text := strings.TrimRight(line, " ")
		text = r.truncateTextToWidth(text, w-4)
		r.drawTextLine(2, row, w-4, text, baseStyle)
		row++
	}

	footer := "? toggle · Esc/q close"
	if h > 0 {
		r.drawTextLine(0, h-1, w, r.truncateTextToWidth(footer, w), headerStyle)
	}
}

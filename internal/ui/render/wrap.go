package render

import (
	"strings"

	"github.com/kk-code-lab/mdnote/internal/markdown"
	textutil "github.com/kk-code-lab/mdnote/internal/textutil"
)

// WrapRuns splits styled runs into rows no wider than width cells, breaking
// at the last space that fits and hard-breaking words longer than a row.
// Styles are preserved across breaks. Empty input yields one empty row.
func WrapRuns(runs []markdown.StyledRun, width int) [][]markdown.StyledRun {
	return wrapPieces(runs,
		func(r markdown.StyledRun) string { return r.Text },
		func(r markdown.StyledRun, text string) markdown.StyledRun {
			r.Text = text
			return r
		},
		width)
}

func wrapSegments(segments []segment, width int) [][]segment {
	return wrapPieces(segments,
		func(s segment) string { return s.text },
		func(s segment, text string) segment {
			s.text = text
			return s
		},
		width)
}

type wrapCell struct {
	ru    rune
	width int
	piece int
}

func wrapPieces[P any](pieces []P, text func(P) string, with func(P, string) P, width int) [][]P {
	if width <= 0 {
		return [][]P{pieces}
	}
	var cells []wrapCell
	for idx, piece := range pieces {
		for _, ru := range text(piece) {
			cells = append(cells, wrapCell{ru: ru, width: textutil.RuneWidth(ru), piece: idx})
		}
	}

	ranges := wrapRanges(cells, width)
	rows := make([][]P, 0, len(ranges))
	for _, rng := range ranges {
		var row []P
		var buf strings.Builder
		current := -1
		flush := func() {
			if current >= 0 && buf.Len() > 0 {
				row = append(row, with(pieces[current], buf.String()))
			}
			buf.Reset()
		}
		for _, cell := range cells[rng[0]:rng[1]] {
			if cell.piece != current {
				flush()
				current = cell.piece
			}
			buf.WriteRune(cell.ru)
		}
		flush()
		rows = append(rows, row)
	}
	return rows
}

func wrapRanges(cells []wrapCell, width int) [][2]int {
	if len(cells) == 0 {
		return [][2]int{{0, 0}}
	}
	var ranges [][2]int
	start := 0
	for start < len(cells) {
		used := 0
		end := start
		for end < len(cells) && used+cells[end].width <= width {
			used += cells[end].width
			end++
		}
		if end == len(cells) {
			ranges = append(ranges, [2]int{start, end})
			break
		}

		next := end
		switch {
		case end == start:
			end = start + 1
			next = end
		case cells[end].ru == ' ':
			next = end + 1
		default:
			if brk := lastSpace(cells, start, end); brk > start {
				end = brk
				next = brk + 1
			}
		}
		ranges = append(ranges, [2]int{start, end})

		for next < len(cells) && cells[next].ru == ' ' {
			next++
		}
		start = next
	}
	return ranges
}

func lastSpace(cells []wrapCell, start, end int) int {
	for i := end - 1; i > start; i-- {
		if cells[i].ru == ' ' {
			return i
		}
	}
	return -1
}

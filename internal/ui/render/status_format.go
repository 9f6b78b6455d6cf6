package render

import (
	"fmt"
	"strings"
	"time"

	statepkg "github.com/kk-code-lab/mdnote/internal/state"
)

// formatStatusSummary builds the right side of the status line.
func formatStatusSummary(state *statepkg.AppState, view *BlockView, bodyHeight int) string {
	var parts []string
	if state != nil {
		if state.RawMode {
			parts = append(parts, "raw")
		}
		parts = append(parts, formatBlockCount(state.BlockCount()))
		if pending := state.PendingImages(); pending > 0 {
			parts = append(parts, fmt.Sprintf("%d img loading…", pending))
		}
		if !state.LoadedAt.IsZero() {
			parts = append(parts, "parsed "+formatDurationShort(state.ParseDuration))
		}
	}
	if view != nil {
		parts = append(parts, formatScrollPosition(view.ScrollOffset(), view.TotalRows(), bodyHeight))
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, " · ") + " "
}

func formatBlockCount(n int) string {
	if n == 1 {
		return "1 block"
	}
	return formatCompactNumber(n) + " blocks"
}

// formatScrollPosition follows pager conventions: All, Top, Bot or a
// percentage of the way through.
func formatScrollPosition(offset, total, height int) string {
	if total <= height {
		return "All"
	}
	if offset <= 0 {
		return "Top"
	}
	maxOffset := total - height
	if offset >= maxOffset {
		return "Bot"
	}
	return fmt.Sprintf("%d%%", offset*100/maxOffset)
}

func formatCompactNumber(n int) string {
	switch {
	case n >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", float64(n)/1_000_000_000.0)
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000.0)
	case n >= 1_000:
		return fmt.Sprintf("%.1fk", float64(n)/1_000.0)
	default:
		return fmt.Sprintf("%d", n)
	}
}

func trimTrailingZero(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	return strings.TrimSuffix(strings.TrimRight(s, "0"), ".")
}

func formatDurationShort(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return trimTrailingZero(fmt.Sprintf("%.1f", float64(d.Microseconds())/1000.0)) + "ms"
	case d < time.Minute:
		return trimTrailingZero(fmt.Sprintf("%.1f", d.Seconds())) + "s"
	default:
		return trimTrailingZero(fmt.Sprintf("%.1f", d.Minutes())) + "m"
	}
}

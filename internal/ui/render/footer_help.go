package render

import (
	"strings"

	statepkg "github.com/kk-code-lab/mdnote/internal/state"
)

// buildFooterHelpText returns the contextual footer hint string with leading/trailing padding.
func buildFooterHelpText(state *statepkg.AppState) string {
	parts := buildFooterHelpSegments(state)
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, "  ") + " "
}

// buildFooterHelpSegments assembles context-aware help hints for the footer.
func buildFooterHelpSegments(state *statepkg.AppState) []string {
	if state == nil {
		return nil
	}

	segments := []string{"q: quit", "↑↓/Pg: scroll"}
	if state.RawMode {
		segments = append(segments, "m: rendered")
	} else {
		segments = append(segments, "m: raw")
	}
	if state.Wrap {
		segments = append(segments, "w: nowrap")
	} else {
		segments = append(segments, "w: wrap")
	}
	segments = append(segments, "r: reload")
	if state.EditorAvailable {
		segments = append(segments, "e: edit")
	}
	if state.ClipboardAvailable {
		segments = append(segments, "y: yank path")
	}
	return append(segments, "?: help")
}

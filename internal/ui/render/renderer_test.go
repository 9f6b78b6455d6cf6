package render

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/mdnote/internal/markdown"
	statepkg "github.com/kk-code-lab/mdnote/internal/state"
)

func newSimScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("")
	if err := screen.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return screen
}

func screenLine(screen tcell.Screen, y int) string {
	w, _ := screen.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		mainc, _, _, width := screen.GetContent(x, y)
		b.WriteRune(mainc)
		if width > 1 {
			x += width - 1
		}
	}
	return strings.TrimRight(b.String(), " ")
}

func renderState(t *testing.T, w, h int, source string) (tcell.SimulationScreen, *statepkg.AppState, *BlockView) {
	t.Helper()
	screen := newSimScreen(t, w, h)
	state := statepkg.NewAppState("note.md", true)
	state.Source = source
	state.Blocks = markdown.Segment(source)
	state.LoadedAt = time.Now()
	r := NewRenderer(screen)
	view := NewBlockView(r.Theme(), "monokai", 4)
	view.SetBlocks(state.DisplayBlocks(), state.Images, 1)
	r.Render(state, view)
	return screen, state, view
}

func TestTruncateTextToWidth(t *testing.T) {
	r := NewRenderer(nil)

	tests := []struct {
		name   string
		text   string
		width  int
		expect string
	}{
		{name: "fits without truncation", text: "note.md", width: 20, expect: "note.md"},
		{name: "adds ellipsis when needed", text: "verylongname", width: 6, expect: "veryl…"},
		{name: "only ellipsis when width too small", text: "example", width: 1, expect: "…"},
		{name: "multi-byte characters respected", text: "你好世界", width: 5, expect: "你好…"},
		{name: "returns empty when width is zero", text: "anything", width: 0, expect: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := r.truncateTextToWidth(tt.text, tt.width)
			if actual != tt.expect {
				t.Fatalf("expected %q, got %q (width %d)", tt.expect, actual, tt.width)
			}
		})
	}
}

func TestMeasureTextWidth(t *testing.T) {
	r := NewRenderer(nil)

	if got := r.measureTextWidth("abc"); got != 3 {
		t.Fatalf("expected ASCII width 3, got %d", got)
	}
	if got := r.measureTextWidth("你好"); got != 4 {
		t.Fatalf("expected wide rune width 4, got %d", got)
	}
}

func TestRenderDrawsHeaderBodyAndStatus(t *testing.T) {
	screen, _, _ := renderState(t, 60, 8, "# Title\n\nSome **bold** text\n- item")

	if got := screenLine(screen, 0); got != "mdnote note.md" {
		t.Fatalf("header = %q", got)
	}
	wantBody := []string{"# Title", "", "Some bold text", "", "• item"}
	for i, want := range wantBody {
		if got := screenLine(screen, 1+i); got != want {
			t.Fatalf("body row %d = %q, want %q", i, got, want)
		}
	}
	status := screenLine(screen, 7)
	if !strings.Contains(status, "3 blocks") || !strings.HasSuffix(status, "All") {
		t.Fatalf("status = %q", status)
	}
}

func TestRenderStylesBoldRun(t *testing.T) {
	screen, _, _ := renderState(t, 40, 5, "a **b**")
	_, _, style, _ := screen.GetContent(2, 1)
	_, _, attrs := style.Decompose()
	if attrs&tcell.AttrBold == 0 {
		t.Fatalf("expected bold attribute on styled run")
	}
	_, _, style, _ = screen.GetContent(0, 1)
	_, _, attrs = style.Decompose()
	if attrs&tcell.AttrBold != 0 {
		t.Fatalf("plain run should not be bold")
	}
}

func TestRenderScrolledViewport(t *testing.T) {
	var src strings.Builder
	for i := 0; i < 20; i++ {
		src.WriteString(string(rune('a'+i)) + "\n")
	}
	screen := newSimScreen(t, 40, 6)
	state := statepkg.NewAppState("n.md", true)
	state.Source = src.String()
	state.RawMode = true
	r := NewRenderer(screen)
	view := NewBlockView(r.Theme(), "", 4)
	view.SetBlocks(state.DisplayBlocks(), nil, 0)
	view.Layout(40)
	view.ScrollTo(5, BodyHeight(6))
	r.Render(state, view)

	for i, want := range []string{"f", "g", "h", "i"} {
		if got := screenLine(screen, 1+i); got != want {
			t.Fatalf("row %d = %q, want %q", i, got, want)
		}
	}
	if status := screenLine(screen, 5); !strings.Contains(status, "raw") || !strings.Contains(status, "31%") {
		t.Fatalf("status = %q", status)
	}
}

func TestRenderShowsLastError(t *testing.T) {
	screen := newSimScreen(t, 60, 4)
	state := statepkg.NewAppState("n.md", true)
	state.LastError = errors.New("load n.md: not a text file")
	r := NewRenderer(screen)
	r.Render(state, NewBlockView(r.Theme(), "", 4))
	if status := screenLine(screen, 3); !strings.Contains(status, "not a text file") {
		t.Fatalf("status = %q", status)
	}
}

func TestRenderHelpOverlay(t *testing.T) {
	screen := newSimScreen(t, 60, 24)
	state := statepkg.NewAppState("n.md", true)
	state.HelpVisible = true
	r := NewRenderer(screen)
	r.Render(state, nil)
	if got := strings.TrimSpace(screenLine(screen, 0)); got != "Help" {
		t.Fatalf("title = %q", got)
	}
	if got := screenLine(screen, 2); got != "  Scrolling" {
		t.Fatalf("first section = %q", got)
	}
}

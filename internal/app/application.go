package app

import (
	"fmt"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/mdnote/internal/config"
	"github.com/kk-code-lab/mdnote/internal/images"
	statepkg "github.com/kk-code-lab/mdnote/internal/state"
	inputui "github.com/kk-code-lab/mdnote/internal/ui/input"
	renderui "github.com/kk-code-lab/mdnote/internal/ui/render"
)

// Application represents the running viewer.
type Application struct {
	screen         tcell.Screen
	state          *statepkg.AppState
	reducer        *statepkg.StateReducer
	renderer       *renderui.Renderer
	view           *renderui.BlockView
	input          *inputui.InputHandler
	actionCh       chan statepkg.Action
	shouldQuit     bool
	viewRevision   int
	clipboardCmd   []string
	clipboardAvail bool
	editorCmd      []string
}

// NewApplication opens the terminal and loads the note at path.
func NewApplication(cfg *config.Config, path string) (*Application, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()

	resolver := images.NewResolver(filepath.Dir(abs), images.Options{
		MaxWidth:     cfg.Images.MaxWidth,
		MaxHeight:    cfg.Images.MaxHeight,
		CacheEntries: cfg.Images.CacheEntries,
	})
	app, err := newApplication(screen, cfg, abs, resolver)
	if err != nil {
		screen.Fini()
		return nil, err
	}
	return app, nil
}

func newApplication(screen tcell.Screen, cfg *config.Config, path string, resolver statepkg.ImageResolver) (*Application, error) {
	clipboardCmd, clipboardAvail := detectClipboard()
	editorCmd, editorAvail := detectEditorCommand()

	state := statepkg.NewAppState(path, cfg.Viewer.Wrap)
	state.ClipboardAvailable = clipboardAvail
	state.EditorAvailable = editorAvail
	state.ScreenWidth, state.ScreenHeight = screen.Size()

	actionCh := make(chan statepkg.Action, 10)
	state.SetDispatch(func(action statepkg.Action) {
		select {
		case actionCh <- action:
		default:
			go func() { actionCh <- action }()
		}
	})

	renderer := renderui.NewRenderer(screen)
	app := &Application{
		screen:         screen,
		state:          state,
		reducer:        statepkg.NewStateReducer(resolver),
		renderer:       renderer,
		view:           renderui.NewBlockView(renderer.Theme(), cfg.Viewer.CodeStyle, cfg.Viewer.TabWidth),
		input:          inputui.NewInputHandler(actionCh),
		actionCh:       actionCh,
		clipboardCmd:   clipboardCmd,
		clipboardAvail: clipboardAvail,
		editorCmd:      editorCmd,
	}
	app.input.SetState(state)

	if err := app.reducer.LoadNote(state); err != nil {
		app.reducer.Close()
		return nil, err
	}
	app.syncView()
	return app, nil
}

// Close cancels background work and restores the terminal.
func (app *Application) Close() error {
	app.reducer.Close()
	app.screen.Fini()
	return nil
}

// syncView pushes block changes from state into the view: a full reset when
// the block slice was replaced, single-block swaps otherwise.
func (app *Application) syncView() {
	app.view.SetWrap(app.state.Wrap)
	if app.state.Revision != app.viewRevision {
		gap := 1
		if app.state.RawMode {
			gap = 0
		}
		app.view.SetBlocks(app.state.DisplayBlocks(), app.state.Images, gap)
		app.viewRevision = app.state.Revision
		app.state.TakeDirtyBlocks()
		return
	}
	for _, idx := range app.state.TakeDirtyBlocks() {
		if idx < len(app.state.Blocks) {
			app.view.Replace(idx, app.state.Blocks[idx], app.state.Images)
		}
	}
}

// bodyHeight lays out the view for the current screen and returns the
// number of document rows.
func (app *Application) bodyHeight() int {
	w, h := app.screen.Size()
	app.view.Layout(w)
	return renderui.BodyHeight(h)
}

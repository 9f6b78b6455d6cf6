package app

import (
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/mdnote/internal/state"
)

// Run is the event loop. Terminal events arrive on one goroutine, async
// results through the action channel; the screen is redrawn after each.
func (app *Application) Run() {
	app.renderer.Render(app.state, app.view)
	renderPending := false

	eventChan := make(chan tcell.Event)
	go func() {
		for {
			ev := app.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	var sigContCh chan os.Signal
	if sigs := contSignals(); len(sigs) > 0 {
		sigContCh = make(chan os.Signal, 1)
		signal.Notify(sigContCh, sigs...)
		defer signal.Stop(sigContCh)
	}

	for !app.shouldQuit {
		if renderPending {
			app.renderer.Render(app.state, app.view)
			renderPending = false
		}

		select {
		case ev := <-eventChan:
			if app.handleEvent(ev) {
				renderPending = true
			}
		case action := <-app.actionCh:
			if app.handleAction(action) {
				renderPending = true
			}
		case <-sigContCh:
			if app.resumeAfterStop() {
				renderPending = true
			}
		}

		if app.processActions() {
			renderPending = true
		}
	}
}

func (app *Application) handleEvent(ev tcell.Event) bool {
	switch ev.(type) {
	case *tcell.EventKey, *tcell.EventMouse:
		if !app.input.ProcessEvent(ev) {
			app.shouldQuit = true
		}
	case *tcell.EventResize:
		app.screen.Sync()
		if !app.input.ProcessEvent(ev) {
			app.shouldQuit = true
		}
	case *tcell.EventInterrupt:
		return true
	default:
		return false
	}
	return true
}

func (app *Application) processActions() bool {
	changed := false
	for {
		select {
		case action := <-app.actionCh:
			if app.handleAction(action) {
				changed = true
			}
		default:
			return changed
		}
	}
}

func (app *Application) handleAction(action statepkg.Action) bool {
	if action == nil {
		return false
	}

	switch action.(type) {
	case statepkg.QuitAction:
		app.shouldQuit = true
		return false
	case statepkg.SuspendAction:
		app.suspendToShell()
		app.resumeAfterStop()
		return true
	}

	if app.handleScrollAction(action) {
		return true
	}
	changed := app.handleAppAction(action)
	app.syncView()
	return changed
}

func (app *Application) handleScrollAction(action statepkg.Action) bool {
	switch action.(type) {
	case statepkg.ScrollUpAction:
		app.view.ScrollBy(-1, app.bodyHeight())
	case statepkg.ScrollDownAction:
		app.view.ScrollBy(1, app.bodyHeight())
	case statepkg.ScrollPageUpAction:
		height := app.bodyHeight()
		app.view.ScrollBy(-pageStep(height), height)
	case statepkg.ScrollPageDownAction:
		height := app.bodyHeight()
		app.view.ScrollBy(pageStep(height), height)
	case statepkg.ScrollTopAction:
		app.view.ScrollTo(0, app.bodyHeight())
	case statepkg.ScrollBottomAction:
		app.view.ScrollToBottom(app.bodyHeight())
	default:
		return false
	}
	return true
}

// pageStep keeps one row of context when paging.
func pageStep(height int) int {
	if height <= 1 {
		return 1
	}
	return height - 1
}

func (app *Application) handleAppAction(action statepkg.Action) bool {
	switch action.(type) {
	case statepkg.YankPathAction:
		return app.handleClipboard()
	case statepkg.OpenEditorAction:
		return app.handleEditorOpen()
	case statepkg.OpenPagerAction:
		return app.handleOpenPager()
	}

	if _, err := app.reducer.Reduce(app.state, action); err != nil {
		app.state.LastError = err
	}
	return true
}

package input

import (
	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/mdnote/internal/state"
)

// InputHandler converts tcell events to Actions
type InputHandler struct {
	actionChan chan statepkg.Action
	state      *statepkg.AppState // Reference to current state for mode checking
}

// NewInputHandler creates a new input handler
func NewInputHandler(actionChan chan statepkg.Action) *InputHandler {
	return &InputHandler{
		actionChan: actionChan,
	}
}

// SetState sets the state reference for mode checking
func (ih *InputHandler) SetState(state *statepkg.AppState) {
	ih.state = state
}

// ProcessEvent converts a tcell event into an Action. It returns false once
// the viewer should stop.
func (ih *InputHandler) ProcessEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return ih.processKeyEvent(ev)
	case *tcell.EventResize:
		w, h := ev.Size()
		ih.actionChan <- statepkg.ResizeAction{Width: w, Height: h}
		return true
	case *tcell.EventMouse:
		switch {
		case ev.Buttons()&tcell.WheelUp != 0:
			ih.actionChan <- statepkg.ScrollUpAction{}
		case ev.Buttons()&tcell.WheelDown != 0:
			ih.actionChan <- statepkg.ScrollDownAction{}
		}
		return true
	default:
		return true
	}
}

func (ih *InputHandler) processKeyEvent(ev *tcell.EventKey) bool {
	helpVisible := ih.state != nil && ih.state.HelpVisible

	if helpVisible {
		switch ev.Key() {
		case tcell.KeyCtrlC:
			ih.actionChan <- statepkg.QuitAction{}
			return false
		case tcell.KeyEscape:
			ih.actionChan <- statepkg.HelpHideAction{}
			return true
		case tcell.KeyRune:
			r := ev.Rune()
			if r == '?' || r == 'q' || r == 'Q' {
				ih.actionChan <- statepkg.HelpHideAction{}
			}
			return true
		default:
			return true
		}
	}

	switch ev.Key() {
	case tcell.KeyCtrlC:
		ih.actionChan <- statepkg.QuitAction{}
		return false
	case tcell.KeyCtrlZ:
		ih.actionChan <- statepkg.SuspendAction{}
		return true
	case tcell.KeyEscape:
		return true
	case tcell.KeyUp:
		ih.actionChan <- statepkg.ScrollUpAction{}
		return true
	case tcell.KeyDown, tcell.KeyEnter:
		ih.actionChan <- statepkg.ScrollDownAction{}
		return true
	case tcell.KeyPgUp, tcell.KeyCtrlB:
		ih.actionChan <- statepkg.ScrollPageUpAction{}
		return true
	case tcell.KeyPgDn, tcell.KeyCtrlF:
		ih.actionChan <- statepkg.ScrollPageDownAction{}
		return true
	case tcell.KeyHome:
		ih.actionChan <- statepkg.ScrollTopAction{}
		return true
	case tcell.KeyEnd:
		ih.actionChan <- statepkg.ScrollBottomAction{}
		return true
	case tcell.KeyCtrlL:
		ih.actionChan <- statepkg.ReloadAction{}
		return true
	case tcell.KeyRune:
		return ih.processRune(ev.Rune())
	}
	return true
}

func (ih *InputHandler) processRune(r rune) bool {
	switch r {
	case 'q', 'Q':
		ih.actionChan <- statepkg.QuitAction{}
		return false
	case 'k':
		ih.actionChan <- statepkg.ScrollUpAction{}
	case 'j':
		ih.actionChan <- statepkg.ScrollDownAction{}
	case ' ', 'f':
		ih.actionChan <- statepkg.ScrollPageDownAction{}
	case 'b':
		ih.actionChan <- statepkg.ScrollPageUpAction{}
	case 'g':
		ih.actionChan <- statepkg.ScrollTopAction{}
	case 'G':
		ih.actionChan <- statepkg.ScrollBottomAction{}
	case 'r':
		ih.actionChan <- statepkg.ReloadAction{}
	case 'm':
		ih.actionChan <- statepkg.ToggleRawAction{}
	case 'w':
		ih.actionChan <- statepkg.ToggleWrapAction{}
	case '?':
		ih.actionChan <- statepkg.HelpToggleAction{}
	case 'e':
		if ih.state == nil || ih.state.EditorAvailable {
			ih.actionChan <- statepkg.OpenEditorAction{}
		}
	case 'P':
		ih.actionChan <- statepkg.OpenPagerAction{}
	case 'y':
		if ih.state == nil || ih.state.ClipboardAvailable {
			ih.actionChan <- statepkg.YankPathAction{}
		}
	}
	return true
}

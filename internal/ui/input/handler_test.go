package input

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/mdnote/internal/state"
)

func TestKeyBindings(t *testing.T) {
	tests := []struct {
		name  string
		event *tcell.EventKey
		want  statepkg.Action
	}{
		{"up", tcell.NewEventKey(tcell.KeyUp, 0, 0), statepkg.ScrollUpAction{}},
		{"k", tcell.NewEventKey(tcell.KeyRune, 'k', 0), statepkg.ScrollUpAction{}},
		{"down", tcell.NewEventKey(tcell.KeyDown, 0, 0), statepkg.ScrollDownAction{}},
		{"j", tcell.NewEventKey(tcell.KeyRune, 'j', 0), statepkg.ScrollDownAction{}},
		{"page down", tcell.NewEventKey(tcell.KeyPgDn, 0, 0), statepkg.ScrollPageDownAction{}},
		{"space", tcell.NewEventKey(tcell.KeyRune, ' ', 0), statepkg.ScrollPageDownAction{}},
		{"page up", tcell.NewEventKey(tcell.KeyPgUp, 0, 0), statepkg.ScrollPageUpAction{}},
		{"home", tcell.NewEventKey(tcell.KeyHome, 0, 0), statepkg.ScrollTopAction{}},
		{"G", tcell.NewEventKey(tcell.KeyRune, 'G', 0), statepkg.ScrollBottomAction{}},
		{"reload", tcell.NewEventKey(tcell.KeyRune, 'r', 0), statepkg.ReloadAction{}},
		{"raw", tcell.NewEventKey(tcell.KeyRune, 'm', 0), statepkg.ToggleRawAction{}},
		{"wrap", tcell.NewEventKey(tcell.KeyRune, 'w', 0), statepkg.ToggleWrapAction{}},
		{"help", tcell.NewEventKey(tcell.KeyRune, '?', 0), statepkg.HelpToggleAction{}},
		{"suspend", tcell.NewEventKey(tcell.KeyCtrlZ, 0, tcell.ModCtrl), statepkg.SuspendAction{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actionChan := make(chan statepkg.Action, 1)
			handler := NewInputHandler(actionChan)
			handler.SetState(statepkg.NewAppState("n.md", true))

			if !handler.ProcessEvent(tt.event) {
				t.Fatalf("expected handler to keep running")
			}
			select {
			case action := <-actionChan:
				if action != tt.want {
					t.Fatalf("expected %T, got %T", tt.want, action)
				}
			default:
				t.Fatalf("expected %T to be emitted", tt.want)
			}
		})
	}
}

func TestQuitStopsHandler(t *testing.T) {
	for _, ev := range []*tcell.EventKey{
		tcell.NewEventKey(tcell.KeyRune, 'q', 0),
		tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl),
	} {
		actionChan := make(chan statepkg.Action, 1)
		handler := NewInputHandler(actionChan)
		if handler.ProcessEvent(ev) {
			t.Fatalf("expected quit to stop the handler")
		}
		if _, ok := (<-actionChan).(statepkg.QuitAction); !ok {
			t.Fatalf("expected QuitAction")
		}
	}
}

func TestHelpVisibleSwallowsKeys(t *testing.T) {
	actionChan := make(chan statepkg.Action, 1)
	handler := NewInputHandler(actionChan)
	state := statepkg.NewAppState("n.md", true)
	state.HelpVisible = true
	handler.SetState(state)

	handler.ProcessEvent(tcell.NewEventKey(tcell.KeyRune, 'j', 0))
	select {
	case action := <-actionChan:
		t.Fatalf("expected no action while help is open, got %T", action)
	default:
	}

	if !handler.ProcessEvent(tcell.NewEventKey(tcell.KeyRune, 'q', 0)) {
		t.Fatalf("q should close help, not quit")
	}
	if _, ok := (<-actionChan).(statepkg.HelpHideAction); !ok {
		t.Fatalf("expected HelpHideAction")
	}
}

func TestEditorKeyRequiresEditor(t *testing.T) {
	actionChan := make(chan statepkg.Action, 1)
	handler := NewInputHandler(actionChan)
	state := statepkg.NewAppState("n.md", true)
	handler.SetState(state)

	handler.ProcessEvent(tcell.NewEventKey(tcell.KeyRune, 'e', 0))
	select {
	case action := <-actionChan:
		t.Fatalf("expected no action without editor, got %T", action)
	default:
	}

	state.EditorAvailable = true
	handler.ProcessEvent(tcell.NewEventKey(tcell.KeyRune, 'e', 0))
	if _, ok := (<-actionChan).(statepkg.OpenEditorAction); !ok {
		t.Fatalf("expected OpenEditorAction")
	}
}

func TestResizeEmitsDimensions(t *testing.T) {
	actionChan := make(chan statepkg.Action, 1)
	handler := NewInputHandler(actionChan)
	handler.ProcessEvent(tcell.NewEventResize(80, 24))
	action, ok := (<-actionChan).(statepkg.ResizeAction)
	if !ok || action.Width != 80 || action.Height != 24 {
		t.Fatalf("unexpected resize action %+v", action)
	}
}

package state

import (
	"github.com/kk-code-lab/mdnote/internal/images"
)

// Action represents any user or async action
type Action interface{}

// ===== SCROLLING =====

type ScrollUpAction struct{}
type ScrollDownAction struct{}
type ScrollPageUpAction struct{}
type ScrollPageDownAction struct{}
type ScrollTopAction struct{}
type ScrollBottomAction struct{}

// ===== DISPLAY =====

type ResizeAction struct {
	Width  int
	Height int
}

type ToggleRawAction struct{}
type ToggleWrapAction struct{}
type HelpToggleAction struct{}
type HelpHideAction struct{}

// ===== NOTE LIFECYCLE =====

type ReloadAction struct{}

// NoteLoadedAction carries the result of reading the note file in the
// background. Results for a path other than the current one are dropped.
type NoteLoadedAction struct {
	Path   string
	Source string
	Err    error
}

// ImageResolvedAction reports the outcome of an async image load. Results
// from an older generation are dropped.
type ImageResolvedAction struct {
	Generation int
	BlockID    int
	Info       images.Info
	Err        error
}

// ===== EXTERNAL =====

type YankPathAction struct{}
type OpenEditorAction struct{}
type OpenPagerAction struct{}

// ===== LIFECYCLE =====

type QuitAction struct{}
type SuspendAction struct{}

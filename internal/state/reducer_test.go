package state

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kk-code-lab/mdnote/internal/images"
	"github.com/kk-code-lab/mdnote/internal/markdown"
)

type pendingResolve struct {
	path string
	done func(images.Info, error)
}

type fakeResolver struct {
	calls []pendingResolve
}

func (f *fakeResolver) ResolveAsync(_ context.Context, path string, done func(images.Info, error)) {
	f.calls = append(f.calls, pendingResolve{path: path, done: done})
}

func newTestReducer(source string, resolver ImageResolver) (*StateReducer, *AppState, *[]Action) {
	reducer := NewStateReducer(resolver)
	reducer.readNote = func(string) (string, error) { return source, nil }
	state := NewAppState("note.md", true)
	var dispatched []Action
	state.SetDispatch(func(a Action) { dispatched = append(dispatched, a) })
	return reducer, state, &dispatched
}

func TestLoadNoteSegmentsSource(t *testing.T) {
	reducer, state, _ := newTestReducer("# Title\n\nbody", nil)
	if err := reducer.LoadNote(state); err != nil {
		t.Fatalf("LoadNote: %v", err)
	}
	if len(state.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(state.Blocks))
	}
	if _, ok := state.Blocks[0].(markdown.Heading); !ok {
		t.Fatalf("expected heading first, got %T", state.Blocks[0])
	}
	if state.Revision != 1 || state.Generation != 1 {
		t.Fatalf("expected revision 1 generation 1, got %d/%d", state.Revision, state.Generation)
	}
}

func TestLoadNoteWrapsReadErrors(t *testing.T) {
	reducer := NewStateReducer(nil)
	sentinel := errors.New("boom")
	reducer.readNote = func(string) (string, error) { return "", sentinel }
	state := NewAppState("missing.md", true)
	if err := reducer.LoadNote(state); !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped sentinel, got %v", err)
	}
}

func TestImagesStartAsPlaceholders(t *testing.T) {
	resolver := &fakeResolver{}
	reducer, state, dispatched := newTestReducer("intro\n![cat](cat.png)\noutro", resolver)
	if err := reducer.LoadNote(state); err != nil {
		t.Fatalf("LoadNote: %v", err)
	}

	if got := markdown.KindOf(state.Blocks[1]); got != markdown.KindPlaceholder {
		t.Fatalf("expected placeholder at index 1, got %v", got)
	}
	if state.PendingImages() != 1 || len(resolver.calls) != 1 || resolver.calls[0].path != "cat.png" {
		t.Fatalf("expected one pending resolve for cat.png, got %+v", resolver.calls)
	}

	before := state.Blocks
	resolver.calls[0].done(images.Info{Path: "/n/cat.png", Width: 4, Height: 2}, nil)
	if len(*dispatched) != 1 {
		t.Fatalf("expected one dispatched action, got %d", len(*dispatched))
	}
	if _, err := reducer.Reduce(state, (*dispatched)[0]); err != nil {
		t.Fatalf("Reduce: %v", err)
	}

	img, ok := state.Blocks[1].(markdown.ImageBlock)
	if !ok || img.Path != "cat.png" || img.AltText != "cat" {
		t.Fatalf("expected image block restored, got %#v", state.Blocks[1])
	}
	if markdown.KindOf(before[1]) != markdown.KindPlaceholder {
		t.Fatalf("previous block slice must not be mutated")
	}
	if got := state.TakeDirtyBlocks(); len(got) != 1 || got[0] != 1 {
		t.Fatalf("expected dirty index 1, got %v", got)
	}
	if info := state.Images[1].Info; info.Width != 4 {
		t.Fatalf("expected image info stored, got %+v", info)
	}
	if state.PendingImages() != 0 {
		t.Fatalf("expected no pending images")
	}
}

func TestStaleImageResultsAreDropped(t *testing.T) {
	resolver := &fakeResolver{}
	reducer, state, dispatched := newTestReducer("![a](a.png)", resolver)
	if err := reducer.LoadNote(state); err != nil {
		t.Fatalf("LoadNote: %v", err)
	}
	if err := reducer.LoadNote(state); err != nil {
		t.Fatalf("reload: %v", err)
	}

	resolver.calls[0].done(images.Info{}, nil)
	if _, err := reducer.Reduce(state, (*dispatched)[0]); err != nil {
		t.Fatalf("Reduce: %v", err)
	}
	if markdown.KindOf(state.Blocks[0]) != markdown.KindPlaceholder {
		t.Fatalf("stale result must not replace the placeholder")
	}
	if state.PendingImages() != 1 {
		t.Fatalf("expected the current generation still pending")
	}
}

func TestImageErrorStillRestoresBlock(t *testing.T) {
	resolver := &fakeResolver{}
	reducer, state, dispatched := newTestReducer("![x](x.png)", resolver)
	if err := reducer.LoadNote(state); err != nil {
		t.Fatalf("LoadNote: %v", err)
	}
	resolver.calls[0].done(images.Info{}, images.ErrUnsupported)
	if _, err := reducer.Reduce(state, (*dispatched)[0]); err != nil {
		t.Fatalf("Reduce: %v", err)
	}
	if markdown.KindOf(state.Blocks[0]) != markdown.KindImage {
		t.Fatalf("expected image block after failed load")
	}
	if !errors.Is(state.Images[0].Err, images.ErrUnsupported) {
		t.Fatalf("expected error recorded, got %v", state.Images[0].Err)
	}
}

func TestToggleRawUsesSourceLines(t *testing.T) {
	reducer, state, _ := newTestReducer("# T\n\n**b**\n", nil)
	if err := reducer.LoadNote(state); err != nil {
		t.Fatalf("LoadNote: %v", err)
	}
	rev := state.Revision
	if _, err := reducer.Reduce(state, ToggleRawAction{}); err != nil {
		t.Fatalf("Reduce: %v", err)
	}
	if !state.RawMode || state.Revision != rev+1 {
		t.Fatalf("expected raw mode with bumped revision")
	}
	blocks := state.DisplayBlocks()
	if len(blocks) != 3 {
		t.Fatalf("expected 3 raw lines, got %d", len(blocks))
	}
	text := blocks[2].(markdown.TextBlock)
	if markdown.RunsText(text.Runs) != "**b**" {
		t.Fatalf("expected raw markers kept, got %q", markdown.RunsText(text.Runs))
	}
	if blocks[1].(markdown.TextBlock).Runs != nil {
		t.Fatalf("expected empty line to have no runs")
	}
}

func TestHelpAndWrapToggles(t *testing.T) {
	reducer := NewStateReducer(nil)
	state := NewAppState("n.md", true)
	steps := []struct {
		action Action
		help   bool
		wrap   bool
	}{
		{HelpToggleAction{}, true, true},
		{ToggleWrapAction{}, true, false},
		{HelpHideAction{}, false, false},
		{ToggleWrapAction{}, false, true},
	}
	for i, step := range steps {
		if _, err := reducer.Reduce(state, step.action); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if state.HelpVisible != step.help || state.Wrap != step.wrap {
			t.Fatalf("step %d: help=%v wrap=%v", i, state.HelpVisible, state.Wrap)
		}
	}
}

func TestReloadReadsInBackground(t *testing.T) {
	reducer := NewStateReducer(nil)
	source := "one"
	reducer.readNote = func(string) (string, error) { return source, nil }
	state := NewAppState("note.md", true)
	if err := reducer.LoadNote(state); err != nil {
		t.Fatalf("LoadNote: %v", err)
	}

	actions := make(chan Action, 1)
	state.SetDispatch(func(a Action) { actions <- a })
	source = "one\ntwo"
	if _, err := reducer.Reduce(state, ReloadAction{}); err != nil {
		t.Fatalf("Reduce reload: %v", err)
	}
	if len(state.Blocks) != 1 {
		t.Fatalf("blocks must not change before the loaded result is reduced")
	}

	var loaded Action
	select {
	case loaded = <-actions:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for NoteLoadedAction")
	}
	if a, ok := loaded.(NoteLoadedAction); !ok || a.Path != "note.md" || a.Source != "one\ntwo" {
		t.Fatalf("unexpected dispatched action %#v", loaded)
	}
	if _, err := reducer.Reduce(state, loaded); err != nil {
		t.Fatalf("Reduce loaded: %v", err)
	}
	if len(state.Blocks) != 2 || state.Revision != 2 {
		t.Fatalf("expected 2 blocks at revision 2, got %d at %d", len(state.Blocks), state.Revision)
	}
}

func TestNoteLoadedResults(t *testing.T) {
	reducer, state, _ := newTestReducer("a", nil)
	if err := reducer.LoadNote(state); err != nil {
		t.Fatalf("LoadNote: %v", err)
	}

	if _, err := reducer.Reduce(state, NoteLoadedAction{Path: "other.md", Source: "x\ny\nz"}); err != nil {
		t.Fatalf("Reduce: %v", err)
	}
	if len(state.Blocks) != 1 {
		t.Fatalf("result for another path must be ignored")
	}

	sentinel := errors.New("gone")
	_, err := reducer.Reduce(state, NoteLoadedAction{Path: "note.md", Err: sentinel})
	if !errors.Is(err, sentinel) || !strings.Contains(err.Error(), "load note.md") {
		t.Fatalf("expected wrapped load error, got %v", err)
	}
	if len(state.Blocks) != 1 {
		t.Fatalf("failed load must keep previous blocks")
	}
}

func TestKindSummary(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"", "empty"},
		{"# T\na\nb", "text=2 heading=1"},
		{"- x\n![i](p)\n> q", "list=1 quote=1 image=1"},
	}
	for _, tt := range tests {
		if got := kindSummary(markdown.Segment(tt.source)); got != tt.want {
			t.Fatalf("kindSummary(%q) = %q, want %q", tt.source, got, tt.want)
		}
	}
}

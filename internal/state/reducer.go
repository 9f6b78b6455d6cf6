package state

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kk-code-lab/mdnote/internal/debug"
	fsutil "github.com/kk-code-lab/mdnote/internal/fs"
	"github.com/kk-code-lab/mdnote/internal/images"
	"github.com/kk-code-lab/mdnote/internal/markdown"
)

// ImageResolver loads image metadata off the UI goroutine.
type ImageResolver interface {
	ResolveAsync(ctx context.Context, path string, done func(images.Info, error))
}

// StateReducer applies actions to AppState.
type StateReducer struct {
	resolver ImageResolver
	readNote func(path string) (string, error)
	now      func() time.Time

	cancelImages context.CancelFunc
}

// NewStateReducer creates a reducer. A nil resolver leaves image blocks in
// place without loading them.
func NewStateReducer(resolver ImageResolver) *StateReducer {
	return &StateReducer{
		resolver: resolver,
		readNote: func(path string) (string, error) {
			return fsutil.ReadNote(path, fsutil.DefaultNoteLimit)
		},
		now: time.Now,
	}
}

// Close cancels outstanding image loads.
func (r *StateReducer) Close() {
	if r.cancelImages != nil {
		r.cancelImages()
		r.cancelImages = nil
	}
}

// Reduce applies action to state in place.
func (r *StateReducer) Reduce(state *AppState, action Action) (*AppState, error) {
	switch a := action.(type) {
	case ReloadAction:
		dispatch := state.getDispatch()
		if dispatch == nil {
			return state, r.LoadNote(state)
		}
		path := state.Path
		readNote := r.readNote
		go func() {
			source, err := readNote(path)
			dispatch(NoteLoadedAction{Path: path, Source: source, Err: err})
		}()
		return state, nil

	case NoteLoadedAction:
		if a.Path != state.Path {
			return state, nil
		}
		if a.Err != nil {
			return state, fmt.Errorf("load %s: %w", a.Path, a.Err)
		}
		r.applySource(state, a.Source)
		return state, nil

	case ImageResolvedAction:
		r.applyImage(state, a)
		return state, nil

	case ToggleRawAction:
		state.RawMode = !state.RawMode
		state.Revision++
		state.DirtyBlocks = nil
		return state, nil

	case ToggleWrapAction:
		state.Wrap = !state.Wrap
		return state, nil

	case HelpToggleAction:
		state.HelpVisible = !state.HelpVisible
		return state, nil

	case HelpHideAction:
		state.HelpVisible = false
		return state, nil

	case ResizeAction:
		state.ScreenWidth = a.Width
		state.ScreenHeight = a.Height
		return state, nil
	}
	return state, nil
}

// LoadNote reads state.Path and replaces the document.
func (r *StateReducer) LoadNote(state *AppState) error {
	source, err := r.readNote(state.Path)
	if err != nil {
		return fmt.Errorf("load %s: %w", state.Path, err)
	}
	r.applySource(state, source)
	return nil
}

func (r *StateReducer) applySource(state *AppState, source string) {
	start := r.now()
	blocks := markdown.Segment(source)
	state.ParseDuration = r.now().Sub(start)

	r.Close()
	state.Generation++
	state.Source = source
	state.Images = make(map[int]ImageState)
	state.pendingImages = make(map[int]markdown.ImageBlock)

	dispatch := state.getDispatch()
	async := r.resolver != nil && dispatch != nil

	display := make([]markdown.Block, len(blocks))
	var queued []markdown.ImageBlock
	for i, block := range blocks {
		img, ok := block.(markdown.ImageBlock)
		if !ok || !async {
			display[i] = block
			continue
		}
		state.pendingImages[img.ID] = img
		display[i] = markdown.PlaceholderBlock{ID: img.ID}
		queued = append(queued, img)
	}

	state.Blocks = display
	state.Revision++
	state.DirtyBlocks = nil
	state.LoadedAt = r.now()
	state.LastError = nil
	if debug.Enabled() {
		debug.Logf("loaded %s: %s, %d images queued, parse %s", state.Path, kindSummary(blocks), len(queued), state.ParseDuration)
	}

	if len(queued) == 0 {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	r.cancelImages = cancel
	generation := state.Generation
	for _, img := range queued {
		id := img.ID
		r.resolver.ResolveAsync(ctx, img.Path, func(info images.Info, err error) {
			dispatch(ImageResolvedAction{Generation: generation, BlockID: id, Info: info, Err: err})
		})
	}
}

func (r *StateReducer) applyImage(state *AppState, a ImageResolvedAction) {
	if a.Generation != state.Generation {
		return
	}
	img, ok := state.pendingImages[a.BlockID]
	if !ok {
		return
	}
	delete(state.pendingImages, a.BlockID)
	state.Images[a.BlockID] = ImageState{Info: a.Info, Err: a.Err}
	if a.Err != nil {
		debug.Logf("image %s: %v", img.Path, a.Err)
	}

	idx := indexOfBlock(state.Blocks, a.BlockID)
	if idx < 0 {
		return
	}
	next := make([]markdown.Block, len(state.Blocks))
	copy(next, state.Blocks)
	next[idx] = img
	state.Blocks = next
	if !state.RawMode {
		state.DirtyBlocks = append(state.DirtyBlocks, idx)
	}
}

// kindSummary counts blocks per kind, e.g. "text=3 heading=1".
func kindSummary(blocks []markdown.Block) string {
	counts := make(map[markdown.BlockKind]int)
	for _, block := range blocks {
		counts[markdown.KindOf(block)]++
	}
	var parts []string
	for kind := markdown.KindText; kind <= markdown.KindPlaceholder; kind++ {
		if n := counts[kind]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", kind, n))
		}
	}
	if len(parts) == 0 {
		return "empty"
	}
	return strings.Join(parts, " ")
}

func indexOfBlock(blocks []markdown.Block, id int) int {
	if id >= 0 && id < len(blocks) && markdown.BlockID(blocks[id]) == id {
		return id
	}
	for i, block := range blocks {
		if markdown.BlockID(block) == id {
			return i
		}
	}
	return -1
}

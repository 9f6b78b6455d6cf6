package state

import (
	"strings"
	"sync"
	"time"

	"github.com/kk-code-lab/mdnote/internal/images"
	"github.com/kk-code-lab/mdnote/internal/markdown"
)

// ImageState is the resolved form of an image block.
type ImageState struct {
	Info images.Info
	Err  error
}

// AppState is the single source of truth for the viewer.
type AppState struct {
	Path   string
	Source string

	// Blocks is replaced, never mutated in place. Image blocks start out as
	// placeholders and are swapped in once resolved.
	Blocks        []markdown.Block
	Images        map[int]ImageState
	pendingImages map[int]markdown.ImageBlock
	Generation    int

	// Revision changes whenever Blocks is replaced wholesale; DirtyBlocks
	// lists indices swapped since the view last synced.
	Revision    int
	DirtyBlocks []int

	RawMode     bool
	Wrap        bool
	HelpVisible bool

	ScreenWidth  int
	ScreenHeight int

	LoadedAt      time.Time
	ParseDuration time.Duration
	LastError     error
	LastYankTime  time.Time

	ClipboardAvailable bool
	EditorAvailable    bool

	dispatchMu     sync.RWMutex
	dispatchAction func(Action)
}

// NewAppState returns the state for viewing path.
func NewAppState(path string, wrap bool) *AppState {
	return &AppState{
		Path:          path,
		Wrap:          wrap,
		Images:        make(map[int]ImageState),
		pendingImages: make(map[int]markdown.ImageBlock),
	}
}

func (s *AppState) getDispatch() func(Action) {
	s.dispatchMu.RLock()
	defer s.dispatchMu.RUnlock()
	return s.dispatchAction
}

// SetDispatch installs the hook async work uses to report back.
func (s *AppState) SetDispatch(fn func(Action)) {
	s.dispatchMu.Lock()
	s.dispatchAction = fn
	s.dispatchMu.Unlock()
}

// DisplayBlocks returns the blocks the viewer should show: the segmented
// note, or one text block per source line in raw mode.
func (s *AppState) DisplayBlocks() []markdown.Block {
	if !s.RawMode {
		return s.Blocks
	}
	return RawBlocks(s.Source)
}

// RawBlocks turns source text into unstyled single-line blocks.
func RawBlocks(source string) []markdown.Block {
	if source == "" {
		return nil
	}
	lines := strings.Split(strings.ReplaceAll(source, "\r\n", "\n"), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	blocks := make([]markdown.Block, len(lines))
	for i, line := range lines {
		var runs []markdown.StyledRun
		if line != "" {
			runs = []markdown.StyledRun{{Text: line}}
		}
		blocks[i] = markdown.TextBlock{ID: i, Runs: runs}
	}
	return blocks
}

// PendingImages reports how many image blocks are still loading.
func (s *AppState) PendingImages() int {
	return len(s.pendingImages)
}

// TakeDirtyBlocks returns and clears the indices swapped since the last call.
func (s *AppState) TakeDirtyBlocks() []int {
	dirty := s.DirtyBlocks
	s.DirtyBlocks = nil
	return dirty
}

// BlockCount returns the number of segmented blocks.
func (s *AppState) BlockCount() int {
	return len(s.Blocks)
}

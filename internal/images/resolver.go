// Package images resolves image paths referenced by notes into decoded
// metadata and thumbnails for the viewer.
package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
)

var (
	ErrUnsupported = errors.New("unsupported image")
	ErrRemote      = errors.New("remote images are not fetched")
	ErrNoPath      = errors.New("image has no path")
)

// Info describes a resolved image.
type Info struct {
	Path      string
	Width     int
	Height    int
	Format    string
	Thumbnail image.Image
}

// Options bound thumbnail size and cache capacity.
type Options struct {
	MaxWidth     int
	MaxHeight    int
	CacheEntries int
}

type cacheKey struct {
	path    string
	modTime time.Time
	size    int64
}

// Resolver loads images relative to a note's directory. It is safe for
// concurrent use.
type Resolver struct {
	baseDir string
	opts    Options

	mu    sync.Mutex
	cache map[cacheKey]Info
	order []cacheKey
}

func NewResolver(baseDir string, opts Options) *Resolver {
	if opts.MaxWidth <= 0 {
		opts.MaxWidth = 1024
	}
	if opts.MaxHeight <= 0 {
		opts.MaxHeight = 1024
	}
	if opts.CacheEntries <= 0 {
		opts.CacheEntries = 32
	}
	return &Resolver{
		baseDir: baseDir,
		opts:    opts,
		cache:   make(map[cacheKey]Info),
	}
}

// Abs returns the filesystem path an image reference points at.
func (r *Resolver) Abs(path string) string {
	if filepath.IsAbs(path) || r.baseDir == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(r.baseDir, path)
}

// Resolve decodes the image at path and returns its metadata and thumbnail.
// Results are cached by absolute path, size and modification time.
func (r *Resolver) Resolve(ctx context.Context, path string) (Info, error) {
	if strings.TrimSpace(path) == "" {
		return Info{}, ErrNoPath
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return Info{}, fmt.Errorf("%s: %w", path, ErrRemote)
	}
	if err := ctx.Err(); err != nil {
		return Info{}, err
	}

	abs := r.Abs(path)
	stat, err := os.Stat(abs)
	if err != nil {
		return Info{}, fmt.Errorf("stat image: %w", err)
	}
	key := cacheKey{path: abs, modTime: stat.ModTime(), size: stat.Size()}
	if info, ok := r.lookup(key); ok {
		return info, nil
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return Info{}, fmt.Errorf("read image: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Info{}, err
	}
	info, err := r.decode(abs, data)
	if err != nil {
		return Info{}, err
	}
	r.store(key, info)
	return info, nil
}

// ResolveAsync resolves path on a new goroutine and reports the result to done.
func (r *Resolver) ResolveAsync(ctx context.Context, path string, done func(Info, error)) {
	go func() {
		info, err := r.Resolve(ctx, path)
		done(info, err)
	}()
}

func (r *Resolver) decode(path string, data []byte) (Info, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Info{}, fmt.Errorf("%s: %w: %v", path, ErrUnsupported, err)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return Info{}, fmt.Errorf("%s: %w: %v", path, ErrUnsupported, err)
	}
	bounds := img.Bounds()
	if bounds.Dx() > r.opts.MaxWidth || bounds.Dy() > r.opts.MaxHeight {
		img = imaging.Fit(img, r.opts.MaxWidth, r.opts.MaxHeight, imaging.Lanczos)
	}
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		width, height = cfg.Width, cfg.Height
	}
	return Info{
		Path:      path,
		Width:     width,
		Height:    height,
		Format:    format,
		Thumbnail: img,
	}, nil
}

// lookup returns a cached entry and marks it most recently used.
func (r *Resolver) lookup(key cacheKey) (Info, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	info, ok := r.cache[key]
	if !ok {
		return Info{}, false
	}
	for i, k := range r.order {
		if k == key {
			r.order = append(append(r.order[:i:i], r.order[i+1:]...), key)
			break
		}
	}
	return info, true
}

func (r *Resolver) store(key cacheKey, info Info) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cache[key]; ok {
		return
	}
	for len(r.order) >= r.opts.CacheEntries {
		oldest := r.order[0]
		r.order = r.order[1:]
		delete(r.cache, oldest)
	}
	r.cache[key] = info
	r.order = append(r.order, key)
}

// Cached reports how many images are held in the cache.
func (r *Resolver) Cached() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cache)
}

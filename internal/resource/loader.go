// Package resource looks up sprite images by name across an ordered list of
// directories and memoizes the result.
package resource

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sync"

	// Register decoders with the image package.
	_ "image/png"

	_ "golang.org/x/image/bmp"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/beeball/internal/core"
)

// Loader resolves image names to sprites. Lookups are memoized by name,
// failed ones included, until Clear is called.
type Loader struct {
	mu     sync.Mutex
	paths  []string
	cache  map[string]*core.Sprite
	logger *log.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger that receives lookup failures.
func WithLogger(l *log.Logger) Option {
	return func(ld *Loader) {
		if l != nil {
			ld.logger = l
		}
	}
}

// WithPaths appends search prefixes in priority order.
func WithPaths(paths ...string) Option {
	return func(ld *Loader) {
		ld.paths = append(ld.paths, paths...)
	}
}

// NewLoader creates a loader with no search paths unless options add some.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		cache:  make(map[string]*core.Sprite),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// AddPath appends a search prefix. Earlier prefixes win.
func (l *Loader) AddPath(prefix string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.paths = append(l.paths, prefix)
}

// Paths returns a copy of the search prefixes.
func (l *Loader) Paths() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.paths...)
}

// Image returns the sprite for name, or nil when no prefix holds a
// decodable image of that name.
func (l *Loader) Image(name string) *core.Sprite {
	l.mu.Lock()
	defer l.mu.Unlock()

	if s, ok := l.cache[name]; ok {
		return s
	}

	var sprite *core.Sprite
	for _, prefix := range l.paths {
		path := filepath.Join(prefix, name)
		s, err := decodeFile(name, path)
		if err == nil {
			sprite = s
			break
		}
		if !os.IsNotExist(err) {
			l.logger.Warn("failed to decode image", "path", path, "error", err)
		}
	}

	if sprite == nil {
		l.logger.Warn("image not found", "name", name, "paths", l.paths)
	}
	l.cache[name] = sprite
	return sprite
}

// Clear forgets every memoized lookup.
func (l *Loader) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	clear(l.cache)
}

func decodeFile(name, path string) (*core.Sprite, error) {
	f, err := os.Open(path) //#nosec G304 -- path is built from configured asset directories
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(name, f)
}

// Decode reads a BMP or PNG image and reduces it to a sprite. Fully
// transparent pixels and the magenta color key are left out of the color
// average.
func Decode(name string, r io.Reader) (*core.Sprite, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}

	bounds := img.Bounds()
	var sumR, sumG, sumB, n uint64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			r8, g8, b8 := r>>8, g>>8, b>>8
			if a == 0 || (r8 == 0xff && g8 == 0 && b8 == 0xff) {
				continue
			}
			sumR += uint64(r8)
			sumG += uint64(g8)
			sumB += uint64(b8)
			n++
		}
	}

	color := core.ColorDefault
	if n > 0 {
		color = core.NearestColor(uint8(sumR/n), uint8(sumG/n), uint8(sumB/n)) //#nosec G115 -- averages of 8-bit channels
	}

	return &core.Sprite{
		Name:   name,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Color:  color,
	}, nil
}

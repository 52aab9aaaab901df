package display

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/anthonynsimon/bild/imgio"
)

// PNGBackend writes every shown frame to a PNG file named after the window
// title. It never blocks, which makes it the backend of choice on headless
// hosts.
type PNGBackend struct {
	dir string

	mu      sync.Mutex
	written []string
}

// NewPNGBackend creates a backend writing into dir. An empty dir means the
// system temp directory.
func NewPNGBackend(dir string) *PNGBackend {
	if dir == "" {
		dir = os.TempDir()
	}
	return &PNGBackend{dir: dir}
}

func (b *PNGBackend) Name() string { return BackendPNG }

func (b *PNGBackend) Order() ChannelOrder { return OrderRGB }

// Open prepares a window writing to PathFor(title). The output directory is
// created if needed.
func (b *PNGBackend) Open(title string) (Window, error) {
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &pngWindow{backend: b, path: b.PathFor(title)}, nil
}

// PathFor returns the file a window with this title writes to.
func (b *PNGBackend) PathFor(title string) string {
	return filepath.Join(b.dir, fileName(title)+".png")
}

// Written returns the paths of all frames written so far, oldest first.
func (b *PNGBackend) Written() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.written...)
}

func (b *PNGBackend) record(path string) {
	b.mu.Lock()
	b.written = append(b.written, path)
	b.mu.Unlock()
}

type pngWindow struct {
	backend *PNGBackend
	path    string
	closed  bool
}

func (w *pngWindow) Show(f *Frame) error {
	if w.closed {
		return fmt.Errorf("show on closed window %s", w.path)
	}
	if err := imgio.Save(w.path, f.Image(), imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("write %s: %w", w.path, err)
	}
	w.backend.record(w.path)
	return nil
}

func (w *pngWindow) Wait(ctx context.Context) error {
	return ctx.Err()
}

func (w *pngWindow) Close() error {
	w.closed = true
	return nil
}

// fileName reduces a window title to a safe file name.
func fileName(title string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ' || r == '.':
			return '_'
		default:
			return -1
		}
	}, title)
	if name == "" {
		return "contours"
	}
	return name
}

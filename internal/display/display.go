package display

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNoWindowSystem is returned by the window backend when the binary
	// was built without OpenCV support or no display is available.
	ErrNoWindowSystem = errors.New("no window system available")

	// ErrUnknownBackend is returned by NewBackend for an unregistered name.
	ErrUnknownBackend = errors.New("unknown display backend")
)

// Backend names accepted by NewBackend.
const (
	BackendWindow = "window"
	BackendPNG    = "png"
	BackendNone   = "none"
)

// Backend opens windows that can show frames.
type Backend interface {
	// Name returns the registry name of the backend.
	Name() string

	// Order returns the channel order the backend expects frames in.
	Order() ChannelOrder

	// Open creates a window with the given title. The caller must Close it.
	Open(title string) (Window, error)
}

// Window is one open display surface.
type Window interface {
	// Show replaces the window contents with f.
	Show(f *Frame) error

	// Wait blocks until the user dismisses the window or ctx is done.
	// Non-interactive backends return immediately.
	Wait(ctx context.Context) error

	// Close releases the window. It is safe to call more than once.
	Close() error
}

// ShowAndWait opens a window on b, shows f and blocks until the window is
// dismissed or ctx is done.
//
// The window is closed on every exit path, including a panic in Show or
// Wait. A close failure is reported only when nothing else failed.
func ShowAndWait(ctx context.Context, b Backend, title string, f *Frame) (err error) {
	w, err := b.Open(title)
	if err != nil {
		return fmt.Errorf("open %s window: %w", b.Name(), err)
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s window: %w", b.Name(), cerr)
		}
	}()

	if err := w.Show(f); err != nil {
		return fmt.Errorf("show frame: %w", err)
	}
	return w.Wait(ctx)
}

type factory func(outputDir string) Backend

var backends = map[string]factory{
	BackendWindow: func(string) Backend { return newWindowBackend() },
	BackendPNG:    func(dir string) Backend { return NewPNGBackend(dir) },
	BackendNone:   func(string) Backend { return noneBackend{} },
}

// NewBackend returns the backend registered under name. outputDir is only
// used by the png backend.
func NewBackend(name, outputDir string) (Backend, error) {
	f, ok := backends[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownBackend, name, strings.Join(BackendNames(), ", "))
	}
	return f(outputDir), nil
}

// BackendNames lists the registered backend names in sorted order.
func BackendNames() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// noneBackend discards frames.
type noneBackend struct{}

func (noneBackend) Name() string                { return BackendNone }
func (noneBackend) Order() ChannelOrder         { return OrderRGB }
func (noneBackend) Open(string) (Window, error) { return noneWindow{}, nil }

type noneWindow struct{}

func (noneWindow) Show(*Frame) error          { return nil }
func (noneWindow) Wait(context.Context) error { return nil }
func (noneWindow) Close() error               { return nil }

package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// ImageCache provides thread-safe caching of decoded images and the arrays
// derived from them, keyed by file path.
//
// Once a file is loaded, subsequent Load() or LoadArray() calls for the same
// path return the cached value without disk I/O. Arrays returned by
// LoadArray are shared; callers must treat them as read-only, which every
// operation in this module already does.
//
// ImageCache is safe for concurrent use by multiple goroutines.
//
// # Memory Management
//
// Cached entries remain in memory until explicitly removed via Evict() or
// Clear(). A luminance array costs eight bytes per pixel on top of the
// decoded image.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
	arrays map[string]*Array
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
		arrays: make(map[string]*Array),
	}
}

// Load retrieves an image from the cache or loads it from disk if not cached.
//
// Supported formats are PNG, JPEG, GIF, BMP, TIFF and WebP. The image is
// cached using the exact path string provided.
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be read
//   - Returns error if the file is not a decodable image
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// LoadArray returns the luminance array of the image at path, converting
// and caching it on first use. See FromImage for the conversion.
func (c *ImageCache) LoadArray(path string) (*Array, error) {
	c.mu.RLock()
	if a, ok := c.arrays[path]; ok {
		c.mu.RUnlock()
		return a, nil
	}
	c.mu.RUnlock()

	img, err := c.Load(path)
	if err != nil {
		return nil, err
	}
	a := FromImage(img)

	c.mu.Lock()
	c.arrays[path] = a
	c.mu.Unlock()

	return a, nil
}

// Clear removes all images and arrays from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.arrays = make(map[string]*Array)
	c.mu.Unlock()
}

// Evict removes a specific path from the cache. Unknown paths are ignored.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	delete(c.arrays, path)
	c.mu.Unlock()
}

// ArrayInfo describes an image file viewed as an intensity array.
type ArrayInfo struct {
	// Width is the extent of the first (x) axis.
	Width int `json:"width"`

	// Height is the extent of the second (y) axis.
	Height int `json:"height"`

	// Min is the smallest luminance value in the array.
	Min float64 `json:"min"`

	// Max is the largest luminance value in the array.
	Max float64 `json:"max"`

	// Format is detected from the file extension: "png", "jpeg", "gif",
	// "bmp", "tiff", "webp", or "unknown".
	Format string `json:"format"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadArrayInfo loads an image as an array and reports its shape, value
// range and file metadata.
func LoadArrayInfo(cache *ImageCache, path string) (*ArrayInfo, error) {
	a, err := cache.LoadArray(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	lo, hi := a.MinMax()
	return &ArrayInfo{
		Width:         a.Width,
		Height:        a.Height,
		Min:           lo,
		Max:           hi,
		Format:        formatFromExt(path),
		FileSizeBytes: stat.Size(),
	}, nil
}

func formatFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".bmp":
		return "bmp"
	case ".tif", ".tiff":
		return "tiff"
	case ".webp":
		return "webp"
	}
	return "unknown"
}

package imaging

import (
	"container/list"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ErrNotRaster is returned for diagram formats that cannot be decoded into
// pixels.
var ErrNotRaster = errors.New("not a raster image")

var vectorExts = map[string]bool{
	".svg": true,
	".pdf": true,
	".eps": true,
	".txt": true,
}

// IsRaster reports whether path has a raster diagram extension.
func IsRaster(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".gif":
		return true
	}
	return false
}

// DefaultCacheSize is the number of decoded images NewImageCache keeps.
const DefaultCacheSize = 16

type cacheEntry struct {
	path    string
	img     image.Image
	format  string
	size    int64
	modTime time.Time
}

// ImageCache keeps recently used decoded diagrams keyed by path.
//
// An entry is reused only while the file's size and modification time are
// unchanged, so a diagram re-rendered to the same path is decoded again.
// Once the cache holds its maximum number of images, loading another one
// drops the least recently used.
type ImageCache struct {
	mu      sync.Mutex
	limit   int
	order   *list.List // front is most recently used
	entries map[string]*list.Element
}

// NewImageCache creates an empty cache holding up to DefaultCacheSize
// images.
func NewImageCache() *ImageCache {
	return NewImageCacheSize(DefaultCacheSize)
}

// NewImageCacheSize creates an empty cache holding up to n images. An n
// below one is treated as one.
func NewImageCacheSize(n int) *ImageCache {
	if n < 1 {
		n = 1
	}
	return &ImageCache{
		limit:   n,
		order:   list.New(),
		entries: make(map[string]*list.Element),
	}
}

// Load returns the decoded image at path and the format name reported by
// the decoder ("png", "jpeg" or "gif").
//
// # Errors
//
//   - ErrNotRaster (wrapped) for .svg, .pdf, .eps and .txt files
//   - the os error if the file cannot be opened
//   - a decode error if the content is not a supported image
func (c *ImageCache) Load(path string) (image.Image, string, error) {
	if err := checkRaster(path); err != nil {
		return nil, "", err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open image: %w", err)
	}

	c.mu.Lock()
	if el, ok := c.entries[path]; ok {
		e := el.Value.(*cacheEntry)
		if e.size == stat.Size() && e.modTime.Equal(stat.ModTime()) {
			c.order.MoveToFront(el)
			c.mu.Unlock()
			return e.img, e.format, nil
		}
	}
	c.mu.Unlock()

	img, format, err := decodeFile(path)
	if err != nil {
		return nil, "", err
	}

	c.mu.Lock()
	c.store(&cacheEntry{path: path, img: img, format: format, size: stat.Size(), modTime: stat.ModTime()})
	c.mu.Unlock()

	return img, format, nil
}

// store inserts or replaces e and trims the cache to its maximum. The
// caller holds c.mu.
func (c *ImageCache) store(e *cacheEntry) {
	if el, ok := c.entries[e.path]; ok {
		el.Value = e
		c.order.MoveToFront(el)
		return
	}
	c.entries[e.path] = c.order.PushFront(e)
	for c.order.Len() > c.limit {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).path)
	}
}

// Evict removes path from the cache.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[path]; ok {
		c.order.Remove(el)
		delete(c.entries, path)
	}
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Decode reads and decodes the image at path without caching it. It fails
// like ImageCache.Load.
func Decode(path string) (image.Image, string, error) {
	if err := checkRaster(path); err != nil {
		return nil, "", err
	}
	return decodeFile(path)
}

func checkRaster(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if vectorExts[ext] {
		return fmt.Errorf("%w: %s", ErrNotRaster, ext)
	}
	return nil
}

func decodeFile(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return img, format, nil
}

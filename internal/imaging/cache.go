package imaging

import (
	"fmt"
	"image"
	"os"
	"sync"
	"time"
)

// ImageCache keeps decoded images keyed by file path.
//
// The server renders many wallpapers against the same predefined background,
// so decoding it once and reusing the result avoids a disk read and a full
// decode per track change.
//
// Each entry remembers the modification time and size the file had when it
// was decoded. Load stats the file on every call and decodes it again when
// either has changed, so replacing a background on disk takes effect on the
// next render.
//
// ImageCache is safe for concurrent use by multiple goroutines. Cached images
// must be treated as read-only by callers.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]cachedImage
}

type cachedImage struct {
	img     image.Image
	modTime time.Time
	size    int64
}

func (e cachedImage) matches(info os.FileInfo) bool {
	return e.modTime.Equal(info.ModTime()) && e.size == info.Size()
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]cachedImage),
	}
}

// Load retrieves an image from the cache or reads and decodes it from disk.
//
// The image is cached using the exact path string provided. Different paths to
// the same file (e.g., relative vs absolute) will result in separate entries.
// A file that has disappeared or no longer decodes is evicted.
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be read
//   - Returns ErrDecode (wrapped) if the file is not a supported image
func (c *ImageCache) Load(path string) (image.Image, error) {
	info, err := os.Stat(path)
	if err != nil {
		c.Evict(path)
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	c.mu.RLock()
	if e, ok := c.images[path]; ok && e.matches(info) {
		c.mu.RUnlock()
		return e.img, nil
	}
	c.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		c.Evict(path)
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	img, err := Decode(data)
	if err != nil {
		c.Evict(path)
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	c.mu.Lock()
	if e, ok := c.images[path]; ok && e.matches(info) {
		img = e.img
	} else {
		c.images[path] = cachedImage{img: img, modTime: info.ModTime(), size: info.Size()}
	}
	c.mu.Unlock()

	return img, nil
}

// Len reports the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Evict removes a specific image from the cache by its path.
//
// If the path is not in the cache, this method does nothing.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

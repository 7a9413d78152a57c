package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"
)

// DefaultFetchTimeout bounds a single HTTP image download.
const DefaultFetchTimeout = 30 * time.Second

// MaxImageBytes is the largest encoded image accepted from any source.
const MaxImageBytes = 64 << 20

// cachedImage is a decoded image together with the format name reported by
// the decoder and the encoded size.
type cachedImage struct {
	img    image.Image
	format string
	size   int64
}

// ImageCache provides thread-safe caching of decoded images keyed by path.
//
// Feature extraction over a batch may touch the same file from several
// workers; the cache makes sure each file is decoded at most once per
// successful load.
//
// ImageCache is safe for concurrent use by multiple goroutines.
//
// # Memory Management
//
// Cached images remain in memory until explicitly removed via Evict() or Clear().
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]cachedImage
	client *http.Client
}

// NewImageCache creates and initializes a new empty image cache. URL sources
// are fetched with a client limited to DefaultFetchTimeout.
func NewImageCache() *ImageCache {
	return NewImageCacheWithClient(nil)
}

// NewImageCacheWithClient creates an empty cache that fetches URL sources
// with client. A nil client gets the default timeout.
func NewImageCacheWithClient(client *http.Client) *ImageCache {
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	return &ImageCache{
		images: make(map[string]cachedImage),
		client: client,
	}
}

// IsURL reports whether source is an http or https URL rather than a file
// path.
func IsURL(source string) bool {
	u, err := url.Parse(source)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// SourceName returns the short name of an image source: the last path
// element of a URL (its host when the path is empty) or the base name of a
// file path.
func SourceName(source string) string {
	if IsURL(source) {
		u, _ := url.Parse(source)
		if name := path.Base(u.Path); name != "." && name != "/" {
			return name
		}
		return u.Host
	}
	return filepath.Base(source)
}

// Load retrieves an image from the cache or decodes it from its source.
//
// The source is a file path or an http(s) URL. Supported formats are PNG,
// JPEG, and GIF. The image is cached under the exact source string given;
// relative and absolute paths to the same file are separate entries.
func (c *ImageCache) Load(source string) (image.Image, error) {
	entry, err := c.load(source)
	if err != nil {
		return nil, err
	}
	return entry.img, nil
}

func (c *ImageCache) load(source string) (cachedImage, error) {
	c.mu.RLock()
	if entry, ok := c.images[source]; ok {
		c.mu.RUnlock()
		return entry, nil
	}
	c.mu.RUnlock()

	var data []byte
	var err error
	if IsURL(source) {
		data, err = c.fetch(source)
	} else {
		data, err = readFile(source)
	}
	if err != nil {
		return cachedImage{}, err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return cachedImage{}, fmt.Errorf("failed to decode image: %w", err)
	}

	entry := cachedImage{img: img, format: format, size: int64(len(data))}
	c.mu.Lock()
	c.images[source] = entry
	c.mu.Unlock()

	return entry, nil
}

func readFile(name string) ([]byte, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()
	return readLimited(f)
}

func (c *ImageCache) fetch(rawURL string) ([]byte, error) {
	resp, err := c.client.Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch image: %s returned %s", rawURL, resp.Status)
	}
	return readLimited(resp.Body)
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) > MaxImageBytes {
		return nil, fmt.Errorf("failed to read image: larger than %d bytes", MaxImageBytes)
	}
	return data, nil
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]cachedImage)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path.
// If the path is not in the cache, this method does nothing.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the decoder that read the file: "png", "jpeg" or "gif".
	Format string `json:"format"`

	// HasAlpha indicates whether the decoded color model carries alpha.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the encoded size of the image in bytes, as read from
	// disk or downloaded.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image into the cache and describes it.
//
// Format comes from the decoder rather than the file extension, so a PNG
// saved as ".jpg" still reports "png".
func LoadImageInfo(cache *ImageCache, source string) (*ImageInfo, error) {
	entry, err := cache.load(source)
	if err != nil {
		return nil, err
	}

	hasAlpha := false
	switch entry.img.(type) {
	case *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64, *image.Paletted:
		hasAlpha = true
	}

	bounds := entry.img.Bounds()
	return &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        entry.format,
		HasAlpha:      hasAlpha,
		FileSizeBytes: entry.size,
	}, nil
}

package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/effect"

	"github.com/ironsheep/shape-features-mcp/internal/shape"
)

// BinarizeOptions controls how a decoded image becomes a binary grid.
type BinarizeOptions struct {
	// Invert flips colors before thresholding, for dark shapes on a light
	// background.
	Invert bool `json:"invert"`

	// Region restricts thresholding to a rectangle of the image. Nil means
	// the whole image.
	Region *Region `json:"region,omitempty"`
}

// Binarize thresholds an image into a shape.Grid.
//
// A pixel is foreground when its red, green and blue channels are all
// nonzero at 8-bit precision; anything with a zero channel is background.
// Alpha is ignored. Grid row r, column c corresponds to image pixel
// (x=c, y=r) of the (possibly cropped) image.
//
// # Processing Order
//
//  1. Crop to opts.Region, if set
//  2. Invert colors (bild effect.Invert), if opts.Invert
//  3. Threshold every pixel
func Binarize(img image.Image, opts BinarizeOptions) (*shape.Grid, error) {
	var src image.Image = img
	if opts.Region != nil {
		cropped, err := CropRegion(img, *opts.Region)
		if err != nil {
			return nil, err
		}
		src = cropped
	}

	if opts.Invert {
		src = effect.Invert(src)
	}

	nrgba := Normalize(src)
	width := nrgba.Rect.Dx()
	height := nrgba.Rect.Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("failed to binarize: %w", shape.ErrMalformedGrid)
	}

	mask := make([]bool, width*height)
	for y := 0; y < height; y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+width*4]
		for x := 0; x < width; x++ {
			r, g, b := row[x*4], row[x*4+1], row[x*4+2]
			mask[y*width+x] = r != 0 && g != 0 && b != 0
		}
	}

	grid, err := shape.NewFromBools(width, height, mask)
	if err != nil {
		return nil, fmt.Errorf("failed to binarize: %w", err)
	}
	return grid, nil
}

// LoadGrid loads an image (file path or URL) through the cache and binarizes
// it.
func LoadGrid(cache *ImageCache, source string, opts BinarizeOptions) (*shape.Grid, error) {
	img, err := cache.Load(source)
	if err != nil {
		return nil, err
	}
	return Binarize(img, opts)
}

// BatchJobs turns image sources (file paths or URLs) into batch jobs that
// load through cache with opts. Jobs are named by SourceName.
func BatchJobs(cache *ImageCache, sources []string, opts BinarizeOptions) []shape.Job {
	jobs := make([]shape.Job, len(sources))
	for i, source := range sources {
		source := source // per-iteration copy (go.mod targets Go 1.21)
		jobs[i] = shape.Job{
			Name: SourceName(source),
			Load: func() (*shape.Grid, error) {
				return LoadGrid(cache, source, opts)
			},
		}
	}
	return jobs
}

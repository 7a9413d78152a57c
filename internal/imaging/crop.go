package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Region defines a rectangular area within an image.
//
// Coordinates follow standard image conventions:
//   - (X1, Y1) is the top-left corner (inclusive)
//   - (X2, Y2) is the bottom-right corner (exclusive)
type Region struct {
	X1 int `json:"x1"` // Left edge X coordinate (inclusive)
	Y1 int `json:"y1"` // Top edge Y coordinate (inclusive)
	X2 int `json:"x2"` // Right edge X coordinate (exclusive)
	Y2 int `json:"y2"` // Bottom edge Y coordinate (exclusive)
}

// Rect converts the region to an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// CropRegion extracts a rectangular region of interest from an image.
//
// The region is expressed relative to the image's top-left corner, whatever
// its Bounds().Min. The returned image always has its origin at (0,0).
//
// Cropping is how a caller isolates one object before feature extraction when
// an image holds several.
//
// # Errors
//
//   - Region extends outside the image
//   - Region is empty (x1 >= x2 or y1 >= y2)
func CropRegion(img image.Image, r Region) (*image.NRGBA, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if r.X1 < 0 || r.Y1 < 0 || r.X2 > w || r.Y2 > h {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (0,0)-(%d,%d)",
			r.X1, r.Y1, r.X2, r.Y2, w, h)
	}
	if r.X1 >= r.X2 || r.Y1 >= r.Y2 {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}

	return imaging.Crop(img, r.Rect().Add(bounds.Min)), nil
}

// Normalize returns an NRGBA copy of img with its origin at (0,0).
func Normalize(img image.Image) *image.NRGBA {
	return imaging.Clone(img)
}

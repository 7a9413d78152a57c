// Package imaging turns image files into binary grids and renders feature
// overlays.
//
// It is the acquisition side of feature extraction: decoding (with a shared
// cache), optional cropping and inversion, and thresholding into a
// shape.Grid. It also draws extracted features back onto the grid for visual
// inspection.
//
// # Coordinate System
//
// Image coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y downward. Grid row r and column c map to image
// pixel (x=c, y=r). For regions, (x1,y1) is inclusive and (x2,y2) exclusive.
//
// # Thresholding
//
// A pixel is foreground iff its red, green and blue channels are all nonzero.
// The rule is fixed; callers with dark shapes on a light background set
// BinarizeOptions.Invert instead of changing it.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Binarize and RenderOverlay are
// stateless and may be called concurrently.
package imaging

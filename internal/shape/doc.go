// Package shape computes geometric descriptors of a single foreground region
// in a binary grid.
//
// The package covers two pipelines over an immutable Grid:
//
//   - Moments: area, centroid, normalized central second-order moments and
//     the axis of least inertia.
//   - Boundary tracing: an 8-connected Moore-neighbor walk producing the
//     ordered boundary cycle, from which the perimeter is measured.
//
// Extract runs both and returns a FeatureSet. ExtractBatch runs Extract over
// independent grids concurrently.
//
// # Coordinate System
//
// Grid coordinates are (row, col), 0-based, with row 0 at the top and col 0 at
// the left. All moment math happens in this frame. FeatureSet.Display flips
// the row axis for reports (Y = Height - row centroid); nothing else in the
// package uses display coordinates.
//
// # Direction Codes
//
// Boundary tracing uses eight direction codes, 0 = west, increasing
// clockwise:
//
//	1 2 3
//	0 . 4
//	7 6 5
//
// # Errors
//
// Failures are reported with the sentinels ErrEmptyRegion, ErrMalformedGrid
// and ErrDegenerateTrace, wrapped with context. Test with errors.Is.
package shape

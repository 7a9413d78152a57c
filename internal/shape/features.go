package shape

import (
	"fmt"
	"math"
)

// FeatureSet holds every descriptor extracted from one grid.
//
// Values are in grid coordinates (row down, col right). Use Display for the
// report convention.
type FeatureSet struct {
	// Width and Height of the source grid.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Area is the number of foreground pixels.
	Area int `json:"area"`

	// Centroid is the mean row and mean column of the foreground.
	Centroid Point2 `json:"centroid"`

	// Normalized central second-order moments.
	MuRR float64 `json:"second_order_row_moment"`
	MuCC float64 `json:"second_order_column_moment"`
	MuRC float64 `json:"second_order_mixed_moment"`

	// AxisAngle is the angle of the axis of least inertia, in radians.
	AxisAngle float64 `json:"axis_angle_radians"`

	// Perimeter is the length of the closed boundary path through pixel
	// centres.
	Perimeter float64 `json:"perimeter"`

	// BoundaryLength is the number of pixels in the traced cycle.
	BoundaryLength int `json:"boundary_length"`

	// Components is the number of 8-connected foreground regions. Only the
	// first in row-major order contributes to the perimeter.
	Components int `json:"components"`
}

// DisplayFeatures is the report-facing view of a FeatureSet.
type DisplayFeatures struct {
	// X is the column centroid.
	X float64 `json:"x"`

	// Y is the row centroid measured upward from the bottom edge.
	Y float64 `json:"y"`

	// AngleDegrees is the axis of least inertia in degrees.
	AngleDegrees float64 `json:"angle_degrees"`
}

// Display converts the centroid and axis angle to the report convention:
// Y = Height - row centroid, angle in degrees.
func (fs *FeatureSet) Display() DisplayFeatures {
	return DisplayFeatures{
		X:            fs.Centroid.Col,
		Y:            float64(fs.Height) - fs.Centroid.Row,
		AngleDegrees: RadiansToDegrees(fs.AxisAngle),
	}
}

// RadiansToDegrees converts an angle from radians to degrees.
func RadiansToDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// Extract computes the full FeatureSet for a grid.
//
// It either returns a complete set or an error; partial results are never
// returned. Errors wrap ErrMalformedGrid, ErrEmptyRegion or
// ErrDegenerateTrace.
func Extract(g *Grid) (*FeatureSet, error) {
	fs, _, err := ExtractWithBoundary(g)
	return fs, err
}

// ExtractWithBoundary is Extract that also returns the traced boundary cycle.
func ExtractWithBoundary(g *Grid) (*FeatureSet, []Pixel, error) {
	if err := g.Validate(); err != nil {
		return nil, nil, err
	}

	m, err := ComputeMoments(g)
	if err != nil {
		return nil, nil, err
	}

	boundary, err := Trace(g)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to trace boundary: %w", err)
	}

	return &FeatureSet{
		Width:          g.width,
		Height:         g.height,
		Area:           m.Area,
		Centroid:       m.Centroid,
		MuRR:           m.MuRR,
		MuCC:           m.MuCC,
		MuRC:           m.MuRC,
		AxisAngle:      m.AxisAngle(),
		Perimeter:      Perimeter(boundary),
		BoundaryLength: len(boundary),
		Components:     CountComponents(g),
	}, boundary, nil
}

package shape

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/stat"
)

// axisTieTol is the relative difference below which the moments about the two
// candidate axes count as equal.
const axisTieTol = 1e-12

// Point2 is a real-valued (row, col) coordinate.
type Point2 struct {
	Row float64 `json:"row"`
	Col float64 `json:"col"`
}

// Moments holds the statistical moments of the foreground region of a grid.
//
// All values are in grid coordinates. MuRR, MuCC and MuRC are central
// second-order moments normalized by area.
type Moments struct {
	Area     int     `json:"area"`
	Centroid Point2  `json:"centroid"`
	MuRR     float64 `json:"mu_rr"`
	MuCC     float64 `json:"mu_cc"`
	MuRC     float64 `json:"mu_rc"`

	// centred coordinates of each foreground pixel, in scan order
	dr []float64
	dc []float64
}

// ComputeMoments calculates area, centroid and second-order moments.
//
// Returns an error wrapping ErrEmptyRegion when the grid has no foreground
// pixels; no division by area happens in that case.
//
// # Algorithm
//
//  1. Collect the row and column index of every foreground pixel (row-major).
//  2. Centroid = mean row, mean column.
//  3. Centre both coordinate vectors on the centroid.
//  4. MuRR = dr·dr / area, MuCC = dc·dc / area, MuRC = dr·dc / area.
func ComputeMoments(g *Grid) (*Moments, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	rows := make([]float64, 0, g.width)
	cols := make([]float64, 0, g.width)
	for r := 0; r < g.height; r++ {
		for c := 0; c < g.width; c++ {
			if g.cells[r*g.width+c] == 1 {
				rows = append(rows, float64(r))
				cols = append(cols, float64(c))
			}
		}
	}

	area := len(rows)
	if area == 0 {
		return nil, fmt.Errorf("failed to compute moments: %w", ErrEmptyRegion)
	}
	n := float64(area)

	rowMean := stat.Mean(rows, nil)
	colMean := stat.Mean(cols, nil)

	floats.AddConst(-rowMean, rows)
	floats.AddConst(-colMean, cols)

	return &Moments{
		Area:     area,
		Centroid: Point2{Row: rowMean, Col: colMean},
		MuRR:     floats.Dot(rows, rows) / n,
		MuCC:     floats.Dot(cols, cols) / n,
		MuRC:     floats.Dot(rows, cols) / n,
		dr:       rows,
		dc:       cols,
	}, nil
}

// MomentAboutAxis returns the second moment of the region about the line
// through the centroid at angle a (radians):
//
//	mean of ((col - colMean)*sin(a) + (row - rowMean)*cos(a))^2
func (m *Moments) MomentAboutAxis(a float64) float64 {
	proj := make([]float64, len(m.dr))
	floats.ScaleTo(proj, math.Cos(a), m.dr)
	floats.AddScaled(proj, math.Sin(a), m.dc)
	return floats.Dot(proj, proj) / float64(m.Area)
}

// Alpha returns the candidate angle 0.5*atan(2*MuRC / (MuRR - MuCC)).
//
// The candidate is either the axis of least inertia or the one orthogonal to
// it; AxisAngle resolves which. An isotropic region (0/0) yields 0.
func (m *Moments) Alpha() float64 {
	num := 2 * m.MuRC
	den := m.MuRR - m.MuCC
	if num == 0 && den == 0 {
		return 0
	}
	return 0.5 * math.Atan(num/den)
}

// AxisAngle returns the angle (radians) of the axis of least inertia.
//
// Both alpha and alpha+π/2 satisfy the stationarity condition, so the moment
// about each is evaluated and the smaller wins. Ties, including rounding-level
// differences, keep alpha.
func (m *Moments) AxisAngle() float64 {
	alpha1 := m.Alpha()
	alpha2 := alpha1 + math.Pi/2
	m1, m2 := m.MomentAboutAxis(alpha1), m.MomentAboutAxis(alpha2)
	if m1 <= m2 || scalar.EqualWithinAbsOrRel(m1, m2, axisTieTol, axisTieTol) {
		return alpha1
	}
	return alpha2
}

package shape

import (
	"fmt"
	"math"
)

// Direction is a Moore-neighborhood direction code, 0 = west, increasing
// clockwise.
type Direction int

const (
	West Direction = iota
	NorthWest
	North
	NorthEast
	East
	SouthEast
	South
	SouthWest
)

// delta holds the (drow, dcol) offset of each direction code.
var delta = [8][2]int{
	{0, -1}, {-1, -1}, {-1, 0}, {-1, 1},
	{0, 1}, {1, 1}, {1, 0}, {1, -1},
}

// Offset returns the (drow, dcol) step for d.
func (d Direction) Offset() (int, int) {
	return delta[d.wrap()][0], delta[d.wrap()][1]
}

// Next returns the direction one step clockwise.
func (d Direction) Next() Direction { return (d + 1).wrap() }

// Prev returns the direction one step counter-clockwise.
func (d Direction) Prev() Direction { return (d + 7).wrap() }

func (d Direction) wrap() Direction { return ((d % 8) + 8) % 8 }

func (d Direction) String() string {
	return [...]string{"W", "NW", "N", "NE", "E", "SE", "S", "SW"}[d.wrap()]
}

// directionOf returns the code whose offset is (dr, dc).
func directionOf(dr, dc int) (Direction, bool) {
	for i, off := range delta {
		if off[0] == dr && off[1] == dc {
			return Direction(i), true
		}
	}
	return 0, false
}

// Pixel is a grid position plus the direction the tracer resumes probing
// from. Two pixels are the same place when Same reports true, regardless of
// Dir.
type Pixel struct {
	Row int       `json:"row"`
	Col int       `json:"col"`
	Dir Direction `json:"dir"`
}

// Same reports whether p and q share coordinates.
func (p Pixel) Same(q Pixel) bool {
	return p.Row == q.Row && p.Col == q.Col
}

// Distance returns the Euclidean distance between p and q.
func (p Pixel) Distance(q Pixel) float64 {
	return math.Hypot(float64(q.Row-p.Row), float64(q.Col-p.Col))
}

func (p Pixel) String() string {
	return fmt.Sprintf("(%d,%d)%s", p.Row, p.Col, p.Dir)
}

// Seed returns the first foreground pixel in row-major order (rows
// ascending, then columns ascending) with direction West.
//
// Because nothing earlier in the same row is foreground, the west neighbor of
// the seed is always background, which is what the tracer assumes.
func Seed(g *Grid) (Pixel, error) {
	if err := g.Validate(); err != nil {
		return Pixel{}, err
	}
	for r := 0; r < g.height; r++ {
		for c := 0; c < g.width; c++ {
			if g.cells[r*g.width+c] == 1 {
				return Pixel{Row: r, Col: c, Dir: West}, nil
			}
		}
	}
	return Pixel{}, fmt.Errorf("failed to find seed pixel: %w", ErrEmptyRegion)
}

// Step advances the boundary walk by one pixel.
//
// Starting at p.Dir, neighbors are checked clockwise. Background neighbors
// (and positions off the grid) advance the direction. The first foreground
// neighbor becomes the next pixel; its Dir is the direction, seen from the
// new pixel, of the last background neighbor checked before it. The scan
// resumes from there on the following step.
//
// The neighbor at p.Dir itself is always background (it is the backtrack
// position), so at most seven checks can find foreground. ok is false when
// none does, which only happens for an isolated pixel.
func Step(g *Grid, p Pixel) (next Pixel, ok bool) {
	d := p.Dir.wrap()
	for i := 0; i < 8; i++ {
		dr, dc := d.Offset()
		row, col := p.Row+dr, p.Col+dc
		if g.At(row, col) == 0 {
			d = d.Next()
			continue
		}

		br, bc := d.Prev().Offset()
		back, found := directionOf(p.Row+br-row, p.Col+bc-col)
		if !found {
			// adjacent compass offsets always differ by a unit step
			panic(fmt.Sprintf("shape: backtrack from %v via %v is not a neighbor", p, d))
		}
		return Pixel{Row: row, Col: col, Dir: back}, true
	}
	return p, false
}

// Trace walks the outer boundary of the region containing the seed pixel and
// returns the ordered cycle, seed first.
//
// The walk is closed when it stands on the seed again and its next move would
// repeat the first move of the cycle (both compared by coordinates). A seed
// that joins two lobes of the region is passed through more than once before
// that happens, so it can appear several times in the cycle; the closing copy
// is not repeated at the end.
//
// A single isolated pixel yields a one-pixel cycle. Only the region reached
// from the seed is traced; other components are ignored.
//
// Errors:
//   - ErrMalformedGrid if the grid fails Validate.
//   - ErrEmptyRegion if the grid has no foreground pixels.
//   - ErrDegenerateTrace if the walk does not close within 8*W*H steps, the
//     number of distinct position and direction states.
func Trace(g *Grid) ([]Pixel, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return trace(g, 8*g.width*g.height)
}

func trace(g *Grid, maxSteps int) ([]Pixel, error) {
	seed, err := Seed(g)
	if err != nil {
		return nil, err
	}

	boundary := []Pixel{seed}
	p := seed
	for steps := 0; steps < maxSteps; steps++ {
		next, ok := Step(g, p)
		if !ok {
			return boundary, nil
		}
		if p.Same(seed) && len(boundary) > 1 && next.Same(boundary[1]) {
			// p is the closing copy of the seed
			return boundary[:len(boundary)-1], nil
		}
		boundary = append(boundary, next)
		p = next
	}

	return nil, fmt.Errorf("%w: no return to seed %v after %d steps", ErrDegenerateTrace, seed, maxSteps)
}

// Perimeter sums the Euclidean distances between consecutive pixels of a
// closed boundary, including the closing pair from the last pixel back to the
// first. Cycles of fewer than two pixels have perimeter 0.
func Perimeter(boundary []Pixel) float64 {
	if len(boundary) < 2 {
		return 0
	}

	var perimeter float64
	for i := 1; i < len(boundary); i++ {
		perimeter += boundary[i-1].Distance(boundary[i])
	}
	perimeter += boundary[len(boundary)-1].Distance(boundary[0])
	return perimeter
}

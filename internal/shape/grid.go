package shape

import (
	"fmt"
	"strings"
)

// Grid is an immutable binary matrix of Height rows by Width columns.
//
// Cells hold 0 (background) or 1 (foreground). A Grid is only created through
// New or NewFromBools, both of which validate their input, and is never
// modified afterwards, so it is safe to share between goroutines.
type Grid struct {
	width  int
	height int
	cells  []uint8 // row-major
}

// New builds a Grid from rows of cell values.
//
// Every row must have the same non-zero length and every value must be 0 or 1.
// The input is copied.
func New(rows [][]uint8) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: zero width or height", ErrMalformedGrid)
	}

	height := len(rows)
	width := len(rows[0])
	cells := make([]uint8, 0, width*height)

	for r, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrMalformedGrid, r, len(row), width)
		}
		for c, v := range row {
			if v > 1 {
				return nil, fmt.Errorf("%w: value %d at (%d,%d)", ErrMalformedGrid, v, r, c)
			}
		}
		cells = append(cells, row...)
	}

	return &Grid{width: width, height: height, cells: cells}, nil
}

// NewFromBools builds a Grid of the given size from a row-major foreground
// mask. It is the constructor used by thresholding code.
func NewFromBools(width, height int, mask []bool) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrMalformedGrid, width, height)
	}
	if len(mask) != width*height {
		return nil, fmt.Errorf("%w: mask has %d cells, want %d", ErrMalformedGrid, len(mask), width*height)
	}

	cells := make([]uint8, len(mask))
	for i, fg := range mask {
		if fg {
			cells[i] = 1
		}
	}
	return &Grid{width: width, height: height, cells: cells}, nil
}

// Parse builds a Grid from lines of '0'/'1' (or '.'/'#') characters.
// Blank lines and surrounding whitespace are ignored. Mostly useful for
// fixtures.
func Parse(s string) (*Grid, error) {
	var rows [][]uint8
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		row := make([]uint8, len(line))
		for i, ch := range line {
			switch ch {
			case '1', '#':
				row[i] = 1
			case '0', '.':
			default:
				return nil, fmt.Errorf("%w: unexpected character %q", ErrMalformedGrid, ch)
			}
		}
		rows = append(rows, row)
	}
	return New(rows)
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// At returns the cell value at (row, col). Coordinates outside the grid read
// as background.
func (g *Grid) At(row, col int) uint8 {
	if row < 0 || row >= g.height || col < 0 || col >= g.width {
		return 0
	}
	return g.cells[row*g.width+col]
}

// Rows returns a copy of the grid as a slice of rows.
func (g *Grid) Rows() [][]uint8 {
	rows := make([][]uint8, g.height)
	for r := range rows {
		rows[r] = append([]uint8(nil), g.cells[r*g.width:(r+1)*g.width]...)
	}
	return rows
}

// Transpose returns a new grid with rows and columns swapped.
func (g *Grid) Transpose() *Grid {
	cells := make([]uint8, len(g.cells))
	for r := 0; r < g.height; r++ {
		for c := 0; c < g.width; c++ {
			cells[c*g.height+r] = g.cells[r*g.width+c]
		}
	}
	return &Grid{width: g.height, height: g.width, cells: cells}
}

// Rotate180 returns a new grid turned half a revolution. The row-major seed of
// the rotated grid is a different pixel of the same region.
func (g *Grid) Rotate180() *Grid {
	n := len(g.cells)
	cells := make([]uint8, n)
	for i, v := range g.cells {
		cells[n-1-i] = v
	}
	return &Grid{width: g.width, height: g.height, cells: cells}
}

// Validate re-checks the grid invariants. Grids built by this package always
// pass; the check guards zero-value or hand-assembled grids.
func (g *Grid) Validate() error {
	if g == nil || g.width <= 0 || g.height <= 0 {
		return fmt.Errorf("%w: zero width or height", ErrMalformedGrid)
	}
	if len(g.cells) != g.width*g.height {
		return fmt.Errorf("%w: %d cells for %dx%d", ErrMalformedGrid, len(g.cells), g.width, g.height)
	}
	for i, v := range g.cells {
		if v > 1 {
			return fmt.Errorf("%w: value %d at (%d,%d)", ErrMalformedGrid, v, i/g.width, i%g.width)
		}
	}
	return nil
}

// Count returns the number of foreground cells.
func (g *Grid) Count() int {
	n := 0
	for _, v := range g.cells {
		n += int(v)
	}
	return n
}

// String renders the grid as lines of '0' and '1'.
func (g *Grid) String() string {
	var b strings.Builder
	for r := 0; r < g.height; r++ {
		for c := 0; c < g.width; c++ {
			b.WriteByte('0' + g.cells[r*g.width+c])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

package shape

import "errors"

var (
	// ErrEmptyRegion is returned when a grid has no foreground pixels.
	ErrEmptyRegion = errors.New("empty region: no foreground pixels")

	// ErrMalformedGrid is returned for grids with zero dimensions, ragged
	// rows, or cell values outside {0,1}.
	ErrMalformedGrid = errors.New("malformed grid")

	// ErrDegenerateTrace is returned when a boundary walk fails to close
	// within its step bound.
	ErrDegenerateTrace = errors.New("degenerate boundary trace")
)

package elevation

import (
	"errors"
	"fmt"
)

// Batch query errors.
var (
	ErrDimensionMismatch = errors.New("coordinate arrays differ in shape")
	ErrMissingHeading    = errors.New("slope requested without headings")
)

// Shape is the row/column layout of a batch. Values are stored column-major,
// the way a host matrix hands them over. The zero Shape means a single row.
type Shape struct {
	Rows int
	Cols int
}

// Len returns the number of elements the shape holds.
func (s Shape) Len() int {
	return s.Rows * s.Cols
}

func (s Shape) resolve(n int) (Shape, error) {
	if s == (Shape{}) {
		return Shape{Rows: 1, Cols: n}, nil
	}
	if s.Rows < 0 || s.Cols < 0 || s.Len() != n {
		return Shape{}, fmt.Errorf("%w: shape %dx%d for %d values", ErrDimensionMismatch, s.Rows, s.Cols, n)
	}
	return s, nil
}

// QueryHeight returns Height for each (xs[i], zs[i]).
func (g *Grid) QueryHeight(xs, zs []float64) ([]float64, error) {
	if len(xs) != len(zs) {
		return nil, fmt.Errorf("%w: %d x values, %d z values", ErrDimensionMismatch, len(xs), len(zs))
	}

	heights := make([]float64, len(xs))
	for i := range xs {
		heights[i] = g.Height(xs[i], zs[i])
	}
	return heights, nil
}

// SlopeRequest is a batch of height and slope queries.
type SlopeRequest struct {
	Xs []float64
	Zs []float64

	// Headings in radians, one per point. Nil when the caller has none.
	Headings []float64

	WantPitch bool
	WantRoll  bool

	// Shape of the inputs; the outputs share it.
	Shape Shape
}

// SlopeResult holds the outputs of a SlopeRequest. Pitches and Rolls are nil
// unless they were requested.
type SlopeResult struct {
	Shape   Shape
	Heights []float64
	Pitches []float64
	Rolls   []float64
}

// QueryHeightAndSlope answers req. Pitch and roll are only computed when
// headings are present and the output was asked for; asking for either
// without headings is ErrMissingHeading. Nothing is returned on error.
func (g *Grid) QueryHeightAndSlope(req SlopeRequest) (*SlopeResult, error) {
	n := len(req.Xs)
	if len(req.Zs) != n {
		return nil, fmt.Errorf("%w: %d x values, %d z values", ErrDimensionMismatch, n, len(req.Zs))
	}
	if req.Headings != nil && len(req.Headings) != n {
		return nil, fmt.Errorf("%w: %d headings for %d points", ErrDimensionMismatch, len(req.Headings), n)
	}
	if (req.WantPitch || req.WantRoll) && req.Headings == nil {
		return nil, ErrMissingHeading
	}
	shape, err := req.Shape.resolve(n)
	if err != nil {
		return nil, err
	}

	res := &SlopeResult{
		Shape:   shape,
		Heights: make([]float64, n),
	}
	if req.WantPitch {
		res.Pitches = make([]float64, n)
	}
	if req.WantRoll {
		res.Rolls = make([]float64, n)
	}

	for i := range n {
		x, z := req.Xs[i], req.Zs[i]
		h := g.Height(x, z)
		res.Heights[i] = h

		if res.Pitches != nil {
			res.Pitches[i] = g.probe(x, z, req.Headings[i]) - h
		}
		if res.Rolls != nil {
			res.Rolls[i] = g.probe(x, z, req.Headings[i]+halfPi) - h
		}
	}

	return res, nil
}

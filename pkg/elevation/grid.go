// Package elevation provides terrain height and slope lookup over a regular
// elevation grid.
//
// Sample (xi, zi) sits at world position
//
//	x = XHalfExtent - xi*XSpacing
//	z = -ZHalfExtent + zi*ZSpacing
//
// so the x axis runs in decreasing-x order and the z axis in increasing-z
// order. This is the order Webots writes ElevationGrid heights in.
package elevation

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/Faultbox/elevgrid/pkg/formats"
)

// Grid construction errors.
var (
	ErrSampleCountMismatch = errors.New("sample count does not match grid dimensions")
	ErrGridTooSmall        = errors.New("elevation grid needs at least 2x2 samples")
	ErrInvalidSpacing      = errors.New("grid spacing must be positive")
	ErrGridOverflow        = formats.ErrGridOverflow
)

// DefaultProbeStep is the world distance used for slope finite differences.
const DefaultProbeStep = 1.0

// Params describes a grid to build with NewGrid.
type Params struct {
	XHalfExtent float64
	ZHalfExtent float64

	XCount   int
	ZCount   int
	XSpacing float64
	ZSpacing float64

	// Samples in x-major, z-minor order: index = zi + xi*ZCount.
	Samples []float64

	// MaxSamples caps XCount*ZCount. Zero means no cap.
	MaxSamples int

	// ProbeStep is the slope probe distance. Zero means DefaultProbeStep.
	ProbeStep float64
}

// Grid is an immutable elevation grid. It is safe for concurrent use.
type Grid struct {
	xHalf, zHalf       float64
	xCount, zCount     int
	xSpacing, zSpacing float64
	probeStep          float64

	// XCount rows by ZCount columns, matching the file's x-major layout.
	heights *mat.Dense
}

// NewGrid validates p and builds a grid holding its own copy of the samples.
// Half extents are taken by magnitude.
func NewGrid(p Params) (*Grid, error) {
	if p.XCount < 2 || p.ZCount < 2 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrGridTooSmall, p.XCount, p.ZCount)
	}

	// Bound the counts before multiplying them so the product cannot wrap.
	limit := p.MaxSamples
	if limit <= 0 {
		limit = math.MaxInt
	}
	if p.XCount > limit/p.ZCount {
		return nil, fmt.Errorf("%w: %dx%d grid (max %d samples)", ErrGridOverflow, p.XCount, p.ZCount, limit)
	}

	if p.XCount*p.ZCount != len(p.Samples) {
		return nil, fmt.Errorf("%w: %d samples for %dx%d grid", ErrSampleCountMismatch, len(p.Samples), p.XCount, p.ZCount)
	}
	if !(p.XSpacing > 0) || !(p.ZSpacing > 0) || math.IsInf(p.XSpacing, 0) || math.IsInf(p.ZSpacing, 0) {
		return nil, fmt.Errorf("%w: x=%v z=%v", ErrInvalidSpacing, p.XSpacing, p.ZSpacing)
	}

	probe := p.ProbeStep
	if !(probe > 0) || math.IsInf(probe, 0) {
		probe = DefaultProbeStep
	}

	return &Grid{
		xHalf:     math.Abs(p.XHalfExtent),
		zHalf:     math.Abs(p.ZHalfExtent),
		xCount:    p.XCount,
		zCount:    p.ZCount,
		xSpacing:  p.XSpacing,
		zSpacing:  p.ZSpacing,
		probeStep: probe,
		heights:   mat.NewDense(p.XCount, p.ZCount, slices.Clone(p.Samples)),
	}, nil
}

// FromWBT builds a grid from scanned world file sections.
func FromWBT(t *formats.WBTTerrain, maxSamples int, probeStep float64) (*Grid, error) {
	return NewGrid(Params{
		XHalfExtent: t.XHalfExtent,
		ZHalfExtent: t.ZHalfExtent,
		XCount:      t.XCount,
		ZCount:      t.ZCount,
		XSpacing:    t.XSpacing,
		ZSpacing:    t.ZSpacing,
		Samples:     t.Samples,
		MaxSamples:  maxSamples,
		ProbeStep:   probeStep,
	})
}

// ToWBT returns the grid as world file sections, ready for formats.EncodeWBT.
func (g *Grid) ToWBT() *formats.WBTTerrain {
	return &formats.WBTTerrain{
		XHalfExtent: g.xHalf,
		ZHalfExtent: g.zHalf,
		ZCount:      g.zCount,
		ZSpacing:    g.zSpacing,
		XCount:      g.xCount,
		XSpacing:    g.xSpacing,
		Samples:     g.Samples(),
	}
}

func (g *Grid) XHalfExtent() float64 { return g.xHalf }
func (g *Grid) ZHalfExtent() float64 { return g.zHalf }
func (g *Grid) XCount() int          { return g.xCount }
func (g *Grid) ZCount() int          { return g.zCount }
func (g *Grid) XSpacing() float64    { return g.xSpacing }
func (g *Grid) ZSpacing() float64    { return g.zSpacing }
func (g *Grid) ProbeStep() float64   { return g.probeStep }

// Sample returns the stored height at grid index (xi, zi).
// It panics if the index is out of range.
func (g *Grid) Sample(xi, zi int) float64 {
	return g.heights.At(xi, zi)
}

// Position returns the world coordinate of grid index (xi, zi).
func (g *Grid) Position(xi, zi int) (x, z float64) {
	return g.xHalf - float64(xi)*g.xSpacing, -g.zHalf + float64(zi)*g.zSpacing
}

// Samples returns a copy of the samples in file order.
func (g *Grid) Samples() []float64 {
	return slices.Clone(g.heights.RawMatrix().Data)
}

// Stats summarises the height samples.
type Stats struct {
	Min  float64
	Max  float64
	Mean float64
}

// Stats returns the minimum, maximum and mean sample height.
func (g *Grid) Stats() Stats {
	data := g.heights.RawMatrix().Data
	return Stats{
		Min:  floats.Min(data),
		Max:  floats.Max(data),
		Mean: floats.Sum(data) / float64(len(data)),
	}
}

// String returns a one-line description of the grid.
func (g *Grid) String() string {
	return fmt.Sprintf("%dx%d grid, spacing %.2fx%.2f, extents ±%.2f/±%.2f",
		g.xCount, g.zCount, g.xSpacing, g.zSpacing, g.xHalf, g.zHalf)
}

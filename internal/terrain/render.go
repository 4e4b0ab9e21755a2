package terrain

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/Faultbox/elevgrid/pkg/elevation"
)

// RenderOptions controls plot output. The file format follows the output
// path extension (.png, .svg, .pdf, ...).
type RenderOptions struct {
	Title         string
	WidthIn       float64
	HeightIn      float64
	PaletteLevels int
}

// heightField adapts a grid to plotter.GridXYZ. Columns run in increasing x,
// so column c is grid row XCount-1-c.
type heightField struct {
	g *elevation.Grid
}

func (f heightField) Dims() (c, r int) { return f.g.XCount(), f.g.ZCount() }

func (f heightField) Z(c, r int) float64 { return f.g.Sample(f.g.XCount()-1-c, r) }

func (f heightField) X(c int) float64 {
	x, _ := f.g.Position(f.g.XCount()-1-c, 0)
	return x
}

func (f heightField) Y(r int) float64 {
	_, z := f.g.Position(0, r)
	return z
}

// RenderHeatMap draws the grid samples as a heat map and saves it to path.
func RenderHeatMap(g *elevation.Grid, path string, opts RenderOptions) error {
	levels := max(opts.PaletteLevels, 2)
	hm := plotter.NewHeatMap(heightField{g: g}, palette.Heat(levels, 1))

	// A flat grid would collapse the colour scale.
	if hm.Max == hm.Min {
		hm.Max = hm.Min + 1
	}

	p := plot.New()
	p.Title.Text = opts.Title
	if p.Title.Text == "" {
		p.Title.Text = fmt.Sprintf("Elevation %dx%d", g.XCount(), g.ZCount())
	}
	p.X.Label.Text = "x"
	p.Y.Label.Text = "z"
	p.Add(hm)

	return save(p, path, opts)
}

// MaxProfilePoints bounds the number of samples Profile will produce.
const MaxProfilePoints = 100_000

// ProfilePoint is one sample along a profile ray.
type ProfilePoint struct {
	Distance float64
	X, Z     float64
	Height   float64
	Pitch    float64
	Roll     float64
}

// Profile samples height and slope every step along a ray of the given length
// starting at (x, z) in direction heading.
func Profile(g *elevation.Grid, x, z, heading, length, step float64) ([]ProfilePoint, error) {
	if !(step > 0) || !(length >= 0) || math.IsInf(length, 0) {
		return nil, fmt.Errorf("invalid profile: length %v, step %v", length, step)
	}
	steps := math.Floor(length / step)
	if !(steps < MaxProfilePoints) {
		return nil, fmt.Errorf("profile of length %v at step %v exceeds %d points", length, step, MaxProfilePoints)
	}

	dx, dz := math.Cos(heading), math.Sin(heading)
	n := int(steps) + 1

	points := make([]ProfilePoint, n)
	for i := range points {
		d := float64(i) * step
		px, pz := x+d*dx, z+d*dz
		pitch, roll := g.Slope(px, pz, heading)
		points[i] = ProfilePoint{
			Distance: d,
			X:        px,
			Z:        pz,
			Height:   g.Height(px, pz),
			Pitch:    pitch,
			Roll:     roll,
		}
	}
	return points, nil
}

// RenderProfile plots height, pitch and roll against distance and saves it to path.
func RenderProfile(points []ProfilePoint, path string, opts RenderOptions) error {
	if len(points) == 0 {
		return fmt.Errorf("empty profile")
	}

	heights := make(plotter.XYs, len(points))
	pitches := make(plotter.XYs, len(points))
	rolls := make(plotter.XYs, len(points))
	for i, pt := range points {
		heights[i] = plotter.XY{X: pt.Distance, Y: pt.Height}
		pitches[i] = plotter.XY{X: pt.Distance, Y: pt.Pitch}
		rolls[i] = plotter.XY{X: pt.Distance, Y: pt.Roll}
	}

	p := plot.New()
	p.Title.Text = opts.Title
	if p.Title.Text == "" {
		p.Title.Text = "Terrain profile"
	}
	p.X.Label.Text = "distance"
	p.Y.Label.Text = "height / slope"

	series := []struct {
		name string
		xys  plotter.XYs
	}{
		{"height", heights},
		{"pitch", pitches},
		{"roll", rolls},
	}
	for i, s := range series {
		line, err := plotter.NewLine(s.xys)
		if err != nil {
			return fmt.Errorf("creating %s line: %w", s.name, err)
		}
		line.Width = vg.Points(1)
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(s.name, line)
	}
	p.Add(plotter.NewGrid())

	return save(p, path, opts)
}

func save(p *plot.Plot, path string, opts RenderOptions) error {
	w, h := opts.WidthIn, opts.HeightIn
	if w <= 0 {
		w = 8
	}
	if h <= 0 {
		h = 6
	}
	if err := p.Save(vg.Length(w)*vg.Inch, vg.Length(h)*vg.Inch, path); err != nil {
		return fmt.Errorf("saving plot %s: %w", path, err)
	}
	return nil
}

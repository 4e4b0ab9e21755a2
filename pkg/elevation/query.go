package elevation

import "math"

const halfPi = math.Pi / 2

// Height returns the bilinearly interpolated terrain height at (x, z).
// Positions outside the floor are clamped to its edge.
func (g *Grid) Height(x, z float64) float64 {
	x = clampf(x, -g.xHalf, g.xHalf)
	z = clampf(z, -g.zHalf, g.zHalf)

	// Fractional grid position; x is indexed from the +x edge.
	fx := (g.xHalf - x) / g.xSpacing
	fz := (g.zHalf + z) / g.zSpacing

	ix := clampi(int(math.Floor(fx)), 0, g.xCount-2)
	iz := clampi(int(math.Floor(fz)), 0, g.zCount-2)

	// Offsets inside the cell. Clamping holds the edge value when the floor
	// is larger than the grid.
	tx := clampf(fx-float64(ix), 0, 1)
	tz := clampf(fz-float64(iz), 0, 1)

	h00 := g.heights.At(ix, iz)
	h10 := g.heights.At(ix+1, iz)
	h01 := g.heights.At(ix, iz+1)
	h11 := g.heights.At(ix+1, iz+1)

	near := h00*(1-tx) + h10*tx
	far := h01*(1-tx) + h11*tx
	return near*(1-tz) + far*tz
}

// Pitch returns the height change one probe step ahead along heading (radians).
func (g *Grid) Pitch(x, z, heading float64) float64 {
	return g.probe(x, z, heading) - g.Height(x, z)
}

// Roll returns the height change one probe step to the side, at heading + π/2.
func (g *Grid) Roll(x, z, heading float64) float64 {
	return g.probe(x, z, heading+halfPi) - g.Height(x, z)
}

// Slope returns pitch and roll at (x, z) for heading.
func (g *Grid) Slope(x, z, heading float64) (pitch, roll float64) {
	h := g.Height(x, z)
	return g.probe(x, z, heading) - h, g.probe(x, z, heading+halfPi) - h
}

func (g *Grid) probe(x, z, angle float64) float64 {
	return g.Height(x+g.probeStep*math.Cos(angle), z+g.probeStep*math.Sin(angle))
}

func clampf(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func clampi(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

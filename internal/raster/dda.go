package raster

import (
	"math"

	"scanline-rasterizer/internal/mathutil"
)

// DDA returns the points of segment a–b where the given axis crosses an
// integer grid line, ordered by increasing axis value. The range is half
// open: ceil(lo) <= k < hi, so a shared endpoint is emitted by only one of
// two adjoining segments. All eight fields are interpolated linearly and the
// driving coordinate is set to the exact grid value.
//
// A segment with no extent along axis yields nil.
func DDA(a, b mathutil.Vertex, axis mathutil.Axis) []mathutil.Vertex {
	lo, hi := a.Coord(axis), b.Coord(axis)
	if lo == hi {
		return nil
	}
	if lo > hi {
		a, b = b, a
		lo, hi = hi, lo
	}
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) || math.IsNaN(lo) || math.IsNaN(hi) {
		return nil
	}

	step := b.Sub(a).Scale(1 / (hi - lo))
	first := math.Ceil(lo)
	n := int(math.Ceil(hi) - first)
	if n <= 0 {
		return nil
	}

	points := make([]mathutil.Vertex, n)
	for i := range points {
		k := first + float64(i)
		p := a.Add(step.Scale(k - lo))
		p.SetCoord(axis, k)
		points[i] = p
	}
	return points
}

package raster

import (
	"cmp"
	"math"
	"slices"

	"scanline-rasterizer/internal/mathutil"
)

// ScanTriangle scan-converts a screen-space triangle and calls emit once per
// covered pixel center, scanline by scanline.
//
// Every edge is walked in y, the crossings are merged and stably sorted by y,
// and each scanline's left and right crossing are joined by a walk in x.
// A convex triangle crosses each scanline exactly twice; rows with a single
// crossing (numerical slivers at a vertex) are skipped.
func ScanTriangle(tri [3]mathutil.Vertex, emit func(mathutil.Vertex)) {
	crossings := make([]mathutil.Vertex, 0, 16)
	crossings = append(crossings, DDA(tri[0], tri[1], mathutil.AxisY)...)
	crossings = append(crossings, DDA(tri[0], tri[2], mathutil.AxisY)...)
	crossings = append(crossings, DDA(tri[1], tri[2], mathutil.AxisY)...)

	slices.SortStableFunc(crossings, func(p, q mathutil.Vertex) int {
		return cmp.Compare(p.Y, q.Y)
	})

	for i := 0; i < len(crossings); {
		j := i + 1
		for j < len(crossings) && crossings[j].Y == crossings[i].Y {
			j++
		}
		row := crossings[i:j]
		i = j

		if len(row) < 2 {
			continue
		}
		left, right := row[0], row[1]
		if len(row) > 2 {
			left, right = extremes(row)
		}
		for _, f := range DDA(left, right, mathutil.AxisX) {
			emit(f)
		}
	}
}

// ScanLine walks a screen-space segment along its dominant axis so that
// every pixel step along that axis produces one fragment.
func ScanLine(a, b mathutil.Vertex, emit func(mathutil.Vertex)) {
	axis := mathutil.AxisX
	if math.Abs(b.Y-a.Y) > math.Abs(b.X-a.X) {
		axis = mathutil.AxisY
	}
	for _, f := range DDA(a, b, axis) {
		emit(f)
	}
}

// extremes returns the leftmost and rightmost crossing of a scanline.
func extremes(row []mathutil.Vertex) (left, right mathutil.Vertex) {
	left, right = row[0], row[0]
	for _, p := range row[1:] {
		if p.X < left.X {
			left = p
		}
		if p.X > right.X {
			right = p
		}
	}
	return left, right
}

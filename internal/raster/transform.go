package raster

import "scanline-rasterizer/internal/mathutil"

// Viewport maps clip-space x and y to pixel space in place. Only x and y are
// divided by w; z and w are kept for depth and perspective correction.
func Viewport(v *mathutil.Vertex, width, height int) {
	v.X = (v.X/v.W + 1) * float64(width) / 2
	v.Y = (v.Y/v.W + 1) * float64(height) / 2
}

// ToHyp prepares a vertex for perspective-correct interpolation: z and the
// color channels are divided by w and w is replaced by 1/w. w must be
// nonzero.
func ToHyp(v *mathutil.Vertex) {
	inv := 1 / v.W
	v.Z *= inv
	v.R *= inv
	v.G *= inv
	v.B *= inv
	v.A *= inv
	v.W = inv
}

// FromHyp undoes ToHyp on an interpolated fragment. w must be nonzero.
func FromHyp(v *mathutil.Vertex) {
	w := 1 / v.W
	v.Z *= w
	v.R *= w
	v.G *= w
	v.B *= w
	v.A *= w
	v.W = w
}

package raster

import "scanline-rasterizer/internal/mathutil"

// SignedArea is twice the signed area of a triangle's x,y taken in
// declaration order. Negative means the triangle faces away.
func SignedArea(a, b, c mathutil.Vertex) float64 {
	return (b.Y-a.Y)*(c.X-b.X) - (b.X-a.X)*(c.Y-b.Y)
}

// BackFacing reports whether tri should be discarded by backface culling.
// It is evaluated on the vertices as selected, before the viewport transform.
func BackFacing(tri [3]mathutil.Vertex) bool {
	return SignedArea(tri[0], tri[1], tri[2]) < 0
}

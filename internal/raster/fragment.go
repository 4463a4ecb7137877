package raster

import (
	"math"

	"scanline-rasterizer/internal/mathutil"
)

// Resolve writes one fragment. The pixel position and color are rounded half
// to even. Out-of-bounds fragments are dropped.
//
// With depth set, the fragment survives only if -1 <= z/w <= the stored
// depth; ties pass, so the last of several equal-depth fragments wins.
// With blend set, the fragment is composited source-over into the overlay
// instead of the color buffer.
func (fb *FrameBuffer) Resolve(f mathutil.Vertex, depth, blend bool) {
	if math.IsNaN(f.X) || math.IsNaN(f.Y) {
		return
	}
	fx, fy := math.RoundToEven(f.X), math.RoundToEven(f.Y)
	if fx < 0 || fy < 0 || fx >= float64(fb.Width) || fy >= float64(fb.Height) {
		return
	}
	x, y := int(fx), int(fy)
	idx := y*fb.Width + x

	if depth && fb.ZBuf != nil {
		if f.W == 0 {
			return
		}
		d := f.Z / f.W
		if !(d >= -1 && d <= fb.ZBuf[idx]) {
			return
		}
		fb.ZBuf[idx] = d
	}

	r := math.RoundToEven(f.R)
	g := math.RoundToEven(f.G)
	b := math.RoundToEven(f.B)
	a := math.RoundToEven(f.A)

	if blend && fb.Overlay != nil {
		fb.composite(idx, r, g, b, a/255)
		return
	}

	i := idx * 4
	fb.Color[i] = clamp255(r)
	fb.Color[i+1] = clamp255(g)
	fb.Color[i+2] = clamp255(b)
	fb.Color[i+3] = clamp255(a)
}

// composite layers a straight-alpha color over the overlay pixel idx:
//
//	a_out = a_src + a_dst(1-a_src)
//	c_out = (a_src c_src + (1-a_src) a_dst c_dst) / a_out
//
// A fully transparent result stores zero color.
func (fb *FrameBuffer) composite(idx int, r, g, b, a float64) {
	o := fb.Overlay[idx*4 : idx*4+4]
	fb.Touched[idx] = true

	dstA := o[3]
	outA := a + dstA*(1-a)
	if outA == 0 {
		o[0], o[1], o[2], o[3] = 0, 0, 0, 0
		return
	}
	keep := (1 - a) * dstA
	o[0] = (a*r + keep*o[0]) / outA
	o[1] = (a*g + keep*o[1]) / outA
	o[2] = (a*b + keep*o[2]) / outA
	o[3] = outA
}

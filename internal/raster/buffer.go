package raster

import "image"

// FrameBuffer holds the rendering target as flat slices for cache locality.
// ZBuf and the blend overlay are only allocated when their feature is on.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []uint8   // RGBA interleaved, len = W*H*4
	ZBuf   []float64 // min depth per pixel, len = W*H, initialized to 1.0

	// Overlay accumulates straight-alpha RGBA for blended fragments:
	// color on the 0–255 scale, alpha in [0, 1]. Touched marks pixels that
	// received at least one blended fragment.
	Overlay []float64
	Touched []bool
}

// NewFrameBuffer allocates a fully transparent color buffer.
func NewFrameBuffer(w, h int) *FrameBuffer {
	return &FrameBuffer{
		Width:  w,
		Height: h,
		Color:  make([]uint8, w*h*4),
	}
}

// EnableDepth allocates the depth buffer at the far plane. A no-op if it
// already exists.
func (fb *FrameBuffer) EnableDepth() {
	if fb.ZBuf != nil {
		return
	}
	fb.ZBuf = make([]float64, fb.Width*fb.Height)
	for i := range fb.ZBuf {
		fb.ZBuf[i] = 1.0
	}
}

// EnableBlend allocates an empty blend overlay. A no-op if it already exists.
func (fb *FrameBuffer) EnableBlend() {
	if fb.Overlay != nil {
		return
	}
	fb.Overlay = make([]float64, fb.Width*fb.Height*4)
	fb.Touched = make([]bool, fb.Width*fb.Height)
}

func (fb *FrameBuffer) inBounds(x, y int) bool {
	return x >= 0 && x < fb.Width && y >= 0 && y < fb.Height
}

// Set writes one pixel. Out-of-bounds writes are dropped.
func (fb *FrameBuffer) Set(x, y int, r, g, b, a uint8) {
	if !fb.inBounds(x, y) {
		return
	}
	i := (y*fb.Width + x) * 4
	fb.Color[i] = r
	fb.Color[i+1] = g
	fb.Color[i+2] = b
	fb.Color[i+3] = a
}

// At returns one pixel. Out-of-bounds reads are transparent black.
func (fb *FrameBuffer) At(x, y int) (r, g, b, a uint8) {
	if !fb.inBounds(x, y) {
		return 0, 0, 0, 0
	}
	i := (y*fb.Width + x) * 4
	return fb.Color[i], fb.Color[i+1], fb.Color[i+2], fb.Color[i+3]
}

// Image copies the color buffer into a new NRGBA image and, when a blend
// overlay exists, replaces every touched pixel with its composited value.
// encode is applied to the overlay's color channels on the way out.
// The framebuffer itself is not modified.
func (fb *FrameBuffer) Image(encode func(float64) float64) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	copy(img.Pix, fb.Color)

	if fb.Overlay == nil {
		return img
	}
	for i, touched := range fb.Touched {
		if !touched {
			continue
		}
		o := fb.Overlay[i*4 : i*4+4]
		p := img.Pix[i*4 : i*4+4]
		p[0] = clamp255(encode(o[0]))
		p[1] = clamp255(encode(o[1]))
		p[2] = clamp255(encode(o[2]))
		p[3] = clamp255(o[3] * 255)
	}
	return img
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

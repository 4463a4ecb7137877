package raster

import (
	"errors"
	"fmt"
	"image"
	"math"

	"scanline-rasterizer/internal/colorspace"
	"scanline-rasterizer/internal/logging"
	"scanline-rasterizer/internal/mathutil"
	"scanline-rasterizer/internal/postprocess"
	"scanline-rasterizer/internal/scene"
)

var (
	// ErrNoCanvas is returned for drawing commands that precede any png command.
	ErrNoCanvas = errors.New("raster: no canvas (png command missing)")
	// ErrVertexIndex is returned when a primitive names a vertex that does not exist.
	ErrVertexIndex = errors.New("raster: vertex index out of range")
)

// Renderer applies scene commands in order to a single framebuffer.
type Renderer struct {
	state State
	store VertexStore
	fb    *FrameBuffer
}

// NewRenderer returns a renderer with no canvas and an opaque white fill.
func NewRenderer() *Renderer {
	return &Renderer{
		state: State{Fill: RGBA{255, 255, 255, 255}},
	}
}

// Render runs a whole command stream and returns the finished image and the
// output path named by the last png command.
func Render(cmds []scene.Command) (*image.NRGBA, string, error) {
	r := NewRenderer()
	for _, cmd := range cmds {
		if err := r.Apply(cmd); err != nil {
			return nil, "", err
		}
	}
	if r.fb == nil {
		return nil, "", ErrNoCanvas
	}
	return r.Image(), r.state.Output, nil
}

// State returns a copy of the current render state.
func (r *Renderer) State() State {
	return r.state
}

// FrameBuffer returns the working framebuffer, nil before the first png command.
func (r *Renderer) FrameBuffer() *FrameBuffer {
	return r.fb
}

// Apply executes one command.
func (r *Renderer) Apply(cmd scene.Command) error {
	switch c := cmd.(type) {
	case scene.Canvas:
		r.state.Width, r.state.Height = c.Width, c.Height
		r.state.Output = c.Path
		r.reset()

	case scene.FSAA:
		r.state.FSAA = c.Level
		if r.fb != nil {
			r.reset()
		}

	case scene.Toggle:
		switch c.Feature {
		case scene.FeatureDepth:
			r.state.Depth = true
			if r.fb != nil {
				r.fb.EnableDepth()
			}
		case scene.FeatureSRGB:
			r.state.SRGB = true
		case scene.FeatureHyperbolic:
			r.state.Hyperbolic = true
		case scene.FeatureCull:
			r.state.Cull = true
		}

	case scene.Color:
		r.state.Fill = RGBA{c.R, c.G, c.B, c.A}
		if c.Blend {
			r.state.Blend = true
			if r.fb != nil {
				r.fb.EnableBlend()
			}
		}

	case scene.Vertex:
		f := r.state.Fill
		r.store.Append(mathutil.Vertex{
			X: c.X, Y: c.Y, Z: c.Z, W: c.W,
			R: f.R, G: f.G, B: f.B, A: f.A,
		})

	case scene.Triangle:
		return r.drawTriangle(c.Indices)

	case scene.Line:
		return r.drawLine(c.Indices)

	case scene.Pixel:
		return r.putPixel(c)

	default:
		return fmt.Errorf("raster: unsupported command %T", cmd)
	}
	return nil
}

// Image finalizes the blend overlay and the supersample filter and returns
// the result at canvas size. Returns nil before the first png command.
// Calling Image does not change the renderer.
func (r *Renderer) Image() *image.NRGBA {
	if r.fb == nil {
		return nil
	}
	level := r.state.Level()
	img := r.fb.Image(colorspace.Encoder(r.state.SRGB && level == 1))
	if level > 1 {
		img = postprocess.Supersample(img, level, r.state.SRGB)
	}
	return img
}

// reset allocates a fresh framebuffer at the working size.
func (r *Renderer) reset() {
	w, h := r.state.WorkingSize()
	r.fb = NewFrameBuffer(w, h)
	if r.state.Depth {
		r.fb.EnableDepth()
	}
	if r.state.Blend {
		r.fb.EnableBlend()
	}
}

func (r *Renderer) resolveAll(idx []int, out []mathutil.Vertex) error {
	for i, n := range idx {
		v, err := r.store.Resolve(n)
		if err != nil {
			return err
		}
		out[i] = v
	}
	return nil
}

func (r *Renderer) drawTriangle(idx [3]int) error {
	if r.fb == nil {
		return fmt.Errorf("tri %v: %w", idx, ErrNoCanvas)
	}
	var tri [3]mathutil.Vertex
	if err := r.resolveAll(idx[:], tri[:]); err != nil {
		return fmt.Errorf("tri %v: %w", idx, err)
	}
	if !projectable(tri[:]) {
		logging.Logger().Debug("raster: skipping triangle with w == 0", "indices", idx)
		return nil
	}

	if r.state.Cull && BackFacing(tri) {
		return nil
	}
	for i := range tri {
		Viewport(&tri[i], r.fb.Width, r.fb.Height)
		if r.state.SRGB {
			tri[i].MapColor(colorspace.ToLinear)
		}
		if r.state.Hyperbolic {
			ToHyp(&tri[i])
		}
	}

	ScanTriangle(tri, r.fragmentSink(r.state.Hyperbolic))
	return nil
}

func (r *Renderer) drawLine(idx [2]int) error {
	if r.fb == nil {
		return fmt.Errorf("line %v: %w", idx, ErrNoCanvas)
	}
	var seg [2]mathutil.Vertex
	if err := r.resolveAll(idx[:], seg[:]); err != nil {
		return fmt.Errorf("line %v: %w", idx, err)
	}
	if !projectable(seg[:]) {
		logging.Logger().Debug("raster: skipping line with w == 0", "indices", idx)
		return nil
	}

	for i := range seg {
		Viewport(&seg[i], r.fb.Width, r.fb.Height)
		if r.state.SRGB {
			seg[i].MapColor(colorspace.ToLinear)
		}
	}

	ScanLine(seg[0], seg[1], r.fragmentSink(false))
	return nil
}

// putPixel writes an opaque color straight into the framebuffer, covering
// the whole supersample block of the canvas pixel.
func (r *Renderer) putPixel(p scene.Pixel) error {
	if r.fb == nil {
		return fmt.Errorf("pixel (%d, %d): %w", p.X, p.Y, ErrNoCanvas)
	}
	level := r.state.Level()
	cr, cg, cb := p.R, p.G, p.B
	if r.state.SRGB && level > 1 {
		// The supersample filter encodes to sRGB on the way out.
		cr = clamp255(colorspace.ToLinear(float64(p.R)))
		cg = clamp255(colorspace.ToLinear(float64(p.G)))
		cb = clamp255(colorspace.ToLinear(float64(p.B)))
	}
	for dy := 0; dy < level; dy++ {
		for dx := 0; dx < level; dx++ {
			r.fb.Set(p.X*level+dx, p.Y*level+dy, cr, cg, cb, 255)
		}
	}
	return nil
}

// fragmentSink returns the per-fragment tail of the pipeline: optional
// perspective recovery, optional early sRGB encode, then Resolve.
func (r *Renderer) fragmentSink(hyp bool) func(mathutil.Vertex) {
	encode := colorspace.Encoder(r.state.encodeEarly())
	fb := r.fb
	depth, blend := r.state.Depth, r.state.Blend
	return func(f mathutil.Vertex) {
		if hyp {
			if f.W == 0 {
				return
			}
			FromHyp(&f)
		}
		f.MapColor(encode)
		fb.Resolve(f, depth, blend)
	}
}

// projectable reports whether every vertex has a finite, nonzero w.
func projectable(vs []mathutil.Vertex) bool {
	for _, v := range vs {
		if v.W == 0 || math.IsNaN(v.W) || math.IsInf(v.W, 0) {
			return false
		}
	}
	return true
}

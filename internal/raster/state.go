package raster

// RGBA is the current fill color, channels and alpha on the 0–255 scale.
type RGBA struct {
	R, G, B, A float64
}

// State is the render state set by non-geometry commands. It is owned by a
// Renderer and only changes while a command is applied.
type State struct {
	Width  int // declared canvas size, before supersampling
	Height int
	Output string
	Fill   RGBA

	Depth      bool
	SRGB       bool
	Hyperbolic bool
	Cull       bool
	Blend      bool
	FSAA       int // supersample level; 0 or 1 means off
}

// Level returns the effective supersample factor, at least 1.
func (s State) Level() int {
	if s.FSAA > 1 {
		return s.FSAA
	}
	return 1
}

// WorkingSize is the framebuffer size: the canvas scaled by Level.
func (s State) WorkingSize() (w, h int) {
	return s.Width * s.Level(), s.Height * s.Level()
}

// encodeEarly reports whether fragments are converted back to sRGB before
// the write. Blending and supersampling must average in linear light, so
// they postpone the conversion to image finalization.
func (s State) encodeEarly() bool {
	return s.SRGB && !s.Blend && s.Level() == 1
}

package scene

// Command is one decoded line of a scene file.
type Command interface {
	command()
}

// Feature names a render-state toggle that takes no arguments.
type Feature int

const (
	FeatureDepth Feature = iota
	FeatureSRGB
	FeatureHyperbolic
	FeatureCull
)

func (f Feature) String() string {
	switch f {
	case FeatureDepth:
		return "depth"
	case FeatureSRGB:
		return "sRGB"
	case FeatureHyperbolic:
		return "hyp"
	case FeatureCull:
		return "cull"
	}
	return "unknown"
}

// Canvas is "png width height path".
type Canvas struct {
	Width  int
	Height int
	Path   string
}

// Toggle is one of "depth", "sRGB", "hyp" or "cull".
type Toggle struct {
	Feature Feature
}

// FSAA is "fsaa level".
type FSAA struct {
	Level int
}

// Color is "rgb r g b" or "rgba r g b a". A is already on the 0–255 scale;
// Blend is set for rgba.
type Color struct {
	R, G, B, A float64
	Blend      bool
}

// Vertex is "xyzw x y z w".
type Vertex struct {
	X, Y, Z, W float64
}

// Triangle is "tri i1 i2 i3". Indices are 1-based or relative to the end
// when non-positive.
type Triangle struct {
	Indices [3]int
}

// Line is "line i1 i2".
type Line struct {
	Indices [2]int
}

// Pixel is "xyrgb x y r g b" or "xyc x y #rrggbb": a direct opaque write.
type Pixel struct {
	X, Y    int
	R, G, B uint8
}

func (Canvas) command()   {}
func (Toggle) command()   {}
func (FSAA) command()     {}
func (Color) command()    {}
func (Vertex) command()   {}
func (Triangle) command() {}
func (Line) command()     {}
func (Pixel) command()    {}

package mathutil

// Axis selects the screen-space coordinate a DDA walk is driven by.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// Vertex is a homogeneous position plus an RGBA color, all float64.
// It doubles as the fragment type produced by rasterization.
// Color channels are on the 0–255 scale.
type Vertex struct {
	X, Y, Z, W float64
	R, G, B, A float64
}

func (a Vertex) Add(b Vertex) Vertex {
	return Vertex{
		a.X + b.X, a.Y + b.Y, a.Z + b.Z, a.W + b.W,
		a.R + b.R, a.G + b.G, a.B + b.B, a.A + b.A,
	}
}

func (a Vertex) Sub(b Vertex) Vertex {
	return Vertex{
		a.X - b.X, a.Y - b.Y, a.Z - b.Z, a.W - b.W,
		a.R - b.R, a.G - b.G, a.B - b.B, a.A - b.A,
	}
}

func (v Vertex) Scale(s float64) Vertex {
	return Vertex{
		v.X * s, v.Y * s, v.Z * s, v.W * s,
		v.R * s, v.G * s, v.B * s, v.A * s,
	}
}

// Coord returns the x or y coordinate.
func (v Vertex) Coord(axis Axis) float64 {
	if axis == AxisY {
		return v.Y
	}
	return v.X
}

// SetCoord overwrites the x or y coordinate.
func (v *Vertex) SetCoord(axis Axis, val float64) {
	if axis == AxisY {
		v.Y = val
		return
	}
	v.X = val
}

// MapColor applies fn to R, G and B. Alpha is left as is.
func (v *Vertex) MapColor(fn func(float64) float64) {
	v.R = fn(v.R)
	v.G = fn(v.G)
	v.B = fn(v.B)
}

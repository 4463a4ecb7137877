package raster

import (
	"fmt"

	"scanline-rasterizer/internal/mathutil"
)

// VertexStore is the append-only list of vertices emitted by a scene.
type VertexStore struct {
	verts []mathutil.Vertex
}

// Append adds a vertex to the end of the store.
func (s *VertexStore) Append(v mathutil.Vertex) {
	s.verts = append(s.verts, v)
}

// Len returns the number of stored vertices.
func (s *VertexStore) Len() int {
	return len(s.verts)
}

// Resolve returns a copy of the vertex named by a scene index. A positive
// index i is 1-based (i-1); a non-positive index counts back from the
// current end (Len()+i), so -1 is the most recent vertex.
func (s *VertexStore) Resolve(i int) (mathutil.Vertex, error) {
	pos := i - 1
	if i <= 0 {
		pos = len(s.verts) + i
	}
	if pos < 0 || pos >= len(s.verts) {
		return mathutil.Vertex{}, fmt.Errorf("%w: index %d with %d vertices", ErrVertexIndex, i, len(s.verts))
	}
	return s.verts[pos], nil
}

package kernel

// Mesh is a renderable triangle mesh in the flat-array layout the
// webview renderer consumes directly: three floats per vertex position,
// three per normal, three indices per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // one normal per vertex
	Indices  []uint32  `json:"indices"`  // triangle corners
	Name     string    `json:"name"`     // artifact name assigned at tessellation
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty reports whether the mesh carries no geometry at all. Backends
// return an empty mesh, not nil, for degenerate solids.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Centroid returns the average of all vertex positions. For the roughly
// uniform tessellations the backends produce it approximates the visual
// center, which is enough for camera framing and placement checks.
func (m *Mesh) Centroid() (x, y, z float64) {
	n := m.VertexCount()
	if n == 0 {
		return 0, 0, 0
	}
	for i := 0; i < n; i++ {
		x += float64(m.Vertices[i*3])
		y += float64(m.Vertices[i*3+1])
		z += float64(m.Vertices[i*3+2])
	}
	f := float64(n)
	return x / f, y / f, z / f
}

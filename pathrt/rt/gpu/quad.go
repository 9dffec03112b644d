package gpu

// Full-screen presentation quad: position xyz + uv per vertex.
const (
	QuadVertexFloats = 5
	QuadVertexStride = QuadVertexFloats * 4
	QuadUVOffset     = 3 * 4
)

var ScreenQuadVertices = []float32{
	-1, -1, 0, 0, 0,
	-1, 1, 0, 0, 1,
	1, 1, 0, 1, 1,
	1, -1, 0, 1, 0,
}

var ScreenQuadIndices = []uint32{
	0, 2, 1,
	0, 3, 2,
}

package models

import "github.com/taigrr/diorama/pkg/math3d"

// cubePositions enumerates the 36 cube vertices, two triangles per face.
var cubePositions = [...]float64{
	// Front
	-1, 1, 1, 1, -1, 1, -1, -1, 1,
	-1, 1, 1, 1, -1, 1, 1, 1, 1,

	// Right
	1, 1, -1, 1, -1, 1, 1, -1, -1,
	1, 1, -1, 1, -1, 1, 1, 1, 1,

	// Top
	1, 1, -1, -1, 1, 1, -1, 1, -1,
	1, 1, -1, -1, 1, 1, 1, 1, 1,

	// Bottom
	1, -1, -1, -1, -1, 1, -1, -1, -1,
	1, -1, -1, -1, -1, 1, 1, -1, 1,

	// Left
	-1, 1, -1, -1, -1, 1, -1, -1, -1,
	-1, 1, -1, -1, -1, 1, -1, 1, 1,

	// Back
	-1, 1, -1, 1, -1, -1, -1, -1, -1,
	-1, 1, -1, 1, -1, -1, 1, 1, -1,
}

// cubeUVs maps each face onto one cell of a cross-shaped texture layout:
// two columns (u in halves) by three rows (v in thirds).
var cubeUVs = [...]float64{
	// Front
	0.5, 2.0 / 3, 0, 1, 0.5, 1,
	0.5, 2.0 / 3, 0, 1, 0, 2.0 / 3,

	// Right
	0.5, 2.0 / 3, 0, 1.0 / 3, 0.5, 1.0 / 3,
	0.5, 2.0 / 3, 0, 1.0 / 3, 0, 2.0 / 3,

	// Top
	0.5, 1.0 / 3, 0, 0, 0.5, 0,
	0.5, 1.0 / 3, 0, 0, 0, 1.0 / 3,

	// Bottom
	1, 1, 0.5, 2.0 / 3, 1, 2.0 / 3,
	1, 1, 0.5, 2.0 / 3, 0.5, 1,

	// Left: both triangles share the same coordinates.
	0.5, 1.0 / 3, 1, 2.0 / 3, 1, 1.0 / 3,
	0.5, 1.0 / 3, 1, 2.0 / 3, 1, 1.0 / 3,

	// Back
	0.5, 0, 1, 1.0 / 3, 0.5, 1.0 / 3,
	0.5, 0, 1, 1.0 / 3, 1, 0,
}

// CubeVertexCount is the number of enumerated cube vertices.
const CubeVertexCount = len(cubePositions) / 3

// GenerateCube returns a cube with corners at ±1 as 36 enumerated vertices.
// Each normal equals its vertex position.
func GenerateCube() *Mesh {
	mesh := NewMesh("cube")
	mesh.Vertices = make([]MeshVertex, CubeVertexCount)
	for i := range mesh.Vertices {
		p := math3d.V3(cubePositions[3*i], cubePositions[3*i+1], cubePositions[3*i+2])
		mesh.Vertices[i] = MeshVertex{
			Position: p,
			Normal:   p,
			UV:       math3d.V2(cubeUVs[2*i], cubeUVs[2*i+1]),
		}
	}
	mesh.CalculateBounds()
	return mesh
}

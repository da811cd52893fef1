// Package models provides mesh geometry for diorama: procedural primitives
// and GLB/GLTF imports.
package models

import (
	"fmt"

	"github.com/taigrr/diorama/pkg/math3d"
)

// Mesh holds per-vertex attributes and, for indexed meshes, one index
// triple per triangle. A mesh without indices is an enumerated-triangle
// mesh: vertices 3i, 3i+1 and 3i+2 form triangle i.
type Mesh struct {
	Name     string
	Vertices []MeshVertex
	Indices  [][3]int

	// Bounding box (calculated on generation or load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// MeshVertex holds all vertex attributes.
type MeshVertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]MeshVertex, 0),
	}
}

// Indexed reports whether triangles reference vertices through Indices.
func (m *Mesh) Indexed() bool {
	return len(m.Indices) > 0
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	if m.Indexed() {
		return len(m.Indices)
	}
	return len(m.Vertices) / 3
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// GetVertex returns the position, normal, and UV for vertex i.
func (m *Mesh) GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2) {
	v := m.Vertices[i]
	return v.Position, v.Normal, v.UV
}

// GetFace returns the vertex indices for triangle i.
func (m *Mesh) GetFace(i int) [3]int {
	if m.Indexed() {
		return m.Indices[i]
	}
	return [3]int{3 * i, 3*i + 1, 3*i + 2}
}

// Validate checks that every index is in range and that an enumerated mesh
// holds whole triangles.
func (m *Mesh) Validate() error {
	n := len(m.Vertices)
	if !m.Indexed() {
		if n%3 != 0 {
			return fmt.Errorf("mesh %q: %d vertices do not form whole triangles", m.Name, n)
		}
		return nil
	}
	for t, tri := range m.Indices {
		for _, idx := range tri {
			if idx < 0 || idx >= n {
				return fmt.Errorf("mesh %q: triangle %d references vertex %d of %d", m.Name, t, idx, n)
			}
		}
	}
	return nil
}

// Positions returns the vertex positions as a flat x,y,z buffer.
func (m *Mesh) Positions() []float64 {
	out := make([]float64, 0, 3*len(m.Vertices))
	for _, v := range m.Vertices {
		out = append(out, v.Position.X, v.Position.Y, v.Position.Z)
	}
	return out
}

// Normals returns the vertex normals as a flat x,y,z buffer.
func (m *Mesh) Normals() []float64 {
	out := make([]float64, 0, 3*len(m.Vertices))
	for _, v := range m.Vertices {
		out = append(out, v.Normal.X, v.Normal.Y, v.Normal.Z)
	}
	return out
}

// UVCoords returns the texture coordinates as a flat u,v buffer.
func (m *Mesh) UVCoords() []float64 {
	out := make([]float64, 0, 2*len(m.Vertices))
	for _, v := range m.Vertices {
		out = append(out, v.UV.X, v.UV.Y)
	}
	return out
}

// FlatIndices returns the index triples as a flat buffer, or nil for an
// enumerated-triangle mesh.
func (m *Mesh) FlatIndices() []uint32 {
	if !m.Indexed() {
		return nil
	}
	out := make([]uint32, 0, 3*len(m.Indices))
	for _, tri := range m.Indices {
		out = append(out, uint32(tri[0]), uint32(tri[1]), uint32(tri[2]))
	}
	return out
}

// CalculateSmoothNormals computes averaged normals for smooth shading.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Zero3()
	}

	// Accumulate unnormalized face normals so larger faces weigh more.
	for t := range m.TriangleCount() {
		f := m.GetFace(t)
		v0 := m.Vertices[f[0]].Position
		v1 := m.Vertices[f[1]].Position
		v2 := m.Vertices[f[2]].Position
		normal := v1.Sub(v0).Cross(v2.Sub(v0))

		for _, idx := range f {
			m.Vertices[idx].Normal = m.Vertices[idx].Normal.Add(normal)
		}
	}

	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

// Transform applies a transformation matrix to all vertices.
// Normals go through the inverse-transpose so non-uniform scale keeps them
// perpendicular to the surface.
func (m *Mesh) Transform(mat math3d.Mat4) {
	nm := math3d.NormalMatrix(mat)
	for i := range m.Vertices {
		m.Vertices[i].Position = mat.MulVec3(m.Vertices[i].Position)
		m.Vertices[i].Normal = nm.MulVec3(m.Vertices[i].Normal).Normalize()
	}
	m.CalculateBounds()
}

// FitUnit centers the mesh on the origin and scales it so its largest
// dimension spans [-1, 1], matching the procedural primitives.
func (m *Mesh) FitUnit() {
	m.CalculateBounds()
	size := m.Size()
	maxDim := max(size.X, size.Y, size.Z)
	if maxDim <= 0 {
		return
	}
	s := 2 / maxDim
	m.Transform(math3d.Scale(math3d.V3(s, s, s)).Mul(math3d.Translate(m.Center().Negate())))
}

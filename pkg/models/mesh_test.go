package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taigrr/diorama/pkg/math3d"
)

func TestGenerateCube(t *testing.T) {
	cube := GenerateCube()

	assert.Equal(t, 36, cube.VertexCount())
	assert.Len(t, cube.Positions(), 108)
	assert.Len(t, cube.Normals(), 108)
	assert.Len(t, cube.UVCoords(), 72)
	assert.False(t, cube.Indexed())
	assert.Nil(t, cube.FlatIndices())
	assert.Equal(t, 12, cube.TriangleCount())
	assert.Equal(t, cube.Positions(), cube.Normals())

	for i, v := range cube.Vertices {
		for _, c := range []float64{v.Position.X, v.Position.Y, v.Position.Z} {
			assert.Equal(t, 1.0, math.Abs(c), "vertex %d is not a corner", i)
		}
		assert.True(t, v.UV.X >= 0 && v.UV.X <= 1 && v.UV.Y >= 0 && v.UV.Y <= 1, "uv %d outside unit square", i)
	}

	assert.Equal(t, math3d.V3(-1, -1, -1), cube.BoundsMin)
	assert.Equal(t, math3d.V3(1, 1, 1), cube.BoundsMax)
	require.NoError(t, cube.Validate())
}

func TestCubeLayoutMatchesTable(t *testing.T) {
	cube := GenerateCube()

	// First front vertex and the front face's UV cell.
	assert.Equal(t, math3d.V3(-1, 1, 1), cube.Vertices[0].Position)
	assert.Equal(t, math3d.V2(0.5, 2.0/3), cube.Vertices[0].UV)
	assert.Equal(t, math3d.V2(0, 1), cube.Vertices[1].UV)

	// The left face (vertices 24..29) repeats one triangle's UVs.
	for i := range 3 {
		assert.Equal(t, cube.Vertices[24+i].UV, cube.Vertices[27+i].UV)
	}
}

func TestGenerateSphereCounts(t *testing.T) {
	tests := []struct {
		stacks, sectors int
	}{
		{10, 10},
		{20, 20},
		{3, 7},
		{1, 1},
	}
	for _, tc := range tests {
		sphere := GenerateSphere(tc.stacks, tc.sectors)
		st, se := 2*tc.stacks, 2*tc.sectors

		assert.Equal(t, (st+1)*(se+1), sphere.VertexCount())
		assert.Equal(t, 2*st*se-2*se, sphere.TriangleCount())
		assert.Len(t, sphere.FlatIndices(), 3*sphere.TriangleCount())
		require.NoError(t, sphere.Validate())
	}
}

func TestGenerateSphere10x10(t *testing.T) {
	sphere := GenerateSphere(10, 10)
	assert.Equal(t, 21*21, sphere.VertexCount())
	assert.Equal(t, 2*20*20-2*20, sphere.TriangleCount())
}

func TestSphereVerticesAreUnit(t *testing.T) {
	sphere := GenerateSphere(8, 12)
	for i, v := range sphere.Vertices {
		assert.InDelta(t, 1, v.Position.Len(), 1e-9, "vertex %d", i)
		assert.Equal(t, v.Position, v.Normal)
	}
}

func TestSphereUVsAndPoles(t *testing.T) {
	sphere := GenerateSphere(2, 2) // 4 x 4 after doubling
	sectors := 4

	first := sphere.Vertices[0]
	assert.InDelta(t, 1, first.Position.Z, 1e-9, "first ring is the +Z pole")
	assert.Equal(t, math3d.V2(1, 0), first.UV)

	last := sphere.Vertices[len(sphere.Vertices)-1]
	assert.InDelta(t, -1, last.Position.Z, 1e-9, "last ring is the -Z pole")
	assert.Equal(t, math3d.V2(0, 1), last.UV)

	// Top row only emits (k1+1, k2, k2+1).
	assert.Equal(t, [3]int{1, sectors + 1, sectors + 2}, sphere.Indices[0])
	// Second row starts with (k1, k2, k1+1).
	k1 := sectors + 1
	assert.Equal(t, [3]int{k1, k1 + sectors + 1, k1 + 1}, sphere.Indices[sectors])
}

func TestSphereHasNoDegenerateTriangles(t *testing.T) {
	sphere := GenerateSphere(5, 5)
	for i := range sphere.TriangleCount() {
		f := sphere.GetFace(i)
		a, _, _ := sphere.GetVertex(f[0])
		b, _, _ := sphere.GetVertex(f[1])
		c, _, _ := sphere.GetVertex(f[2])
		area := b.Sub(a).Cross(c.Sub(a)).Len()
		assert.Greater(t, area, 1e-12, "triangle %d", i)
	}
}

func TestGenerateSphereClampsCounts(t *testing.T) {
	sphere := GenerateSphere(0, -3)
	assert.Equal(t, GenerateSphere(1, 1).VertexCount(), sphere.VertexCount())
	for i, v := range sphere.Vertices {
		assert.False(t, math.IsNaN(v.Position.X) || math.IsNaN(v.Position.Y) || math.IsNaN(v.Position.Z), "vertex %d", i)
		assert.False(t, math.IsNaN(v.UV.X) || math.IsNaN(v.UV.Y), "vertex %d uv", i)
	}

	big := GenerateSphere(MaxSphereCount+7, 1)
	assert.Equal(t, GenerateSphere(MaxSphereCount, 1).VertexCount(), big.VertexCount())
}

func TestGeneratePrimitive(t *testing.T) {
	cube, err := GeneratePrimitive(KindCube)
	require.NoError(t, err)
	assert.Equal(t, 36, cube.VertexCount())

	sphere, err := GeneratePrimitive(KindSphere, 4, 6)
	require.NoError(t, err)
	assert.Equal(t, 9*13, sphere.VertexCount())

	_, err = GeneratePrimitive(KindCube, 1)
	assert.Error(t, err)
	_, err = GeneratePrimitive(KindSphere, 4)
	assert.Error(t, err)
	_, err = GeneratePrimitive(KindSphere, 0, 4)
	assert.Error(t, err)
	_, err = GeneratePrimitive(KindSphere, MaxSphereCount+1, 4)
	assert.Error(t, err)
	_, err = GeneratePrimitive(KindSphere, 4, math.MaxInt)
	assert.Error(t, err)
	sphere, err = GeneratePrimitive(KindSphere, MaxSphereCount, 1)
	require.NoError(t, err)
	assert.Equal(t, (2*MaxSphereCount+1)*3, sphere.VertexCount())
	_, err = GeneratePrimitive(KindImported)
	assert.Error(t, err)
	_, err = GeneratePrimitive(PrimitiveKind(99))
	assert.Error(t, err)
}

func TestParsePrimitiveKind(t *testing.T) {
	for _, k := range []PrimitiveKind{KindCube, KindSphere, KindImported} {
		got, err := ParsePrimitiveKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParsePrimitiveKind("torus")
	assert.Error(t, err)
	assert.Equal(t, "PrimitiveKind(42)", PrimitiveKind(42).String())
}

func TestMeshValidate(t *testing.T) {
	m := NewMesh("bad")
	m.Vertices = make([]MeshVertex, 3)
	m.Indices = [][3]int{{0, 1, 3}}
	assert.Error(t, m.Validate())

	m.Indices = nil
	m.Vertices = make([]MeshVertex, 4)
	assert.Error(t, m.Validate())
}

func TestMeshTransformUsesNormalMatrix(t *testing.T) {
	m := NewMesh("slope")
	m.Vertices = []MeshVertex{
		{Position: math3d.V3(0, 0, 0), Normal: math3d.V3(-1, 1, 0).Normalize()},
		{Position: math3d.V3(1, 1, 0), Normal: math3d.V3(-1, 1, 0).Normalize()},
		{Position: math3d.V3(0, 0, 1), Normal: math3d.V3(-1, 1, 0).Normalize()},
	}
	m.Transform(math3d.Scale(math3d.V3(1, 0.5, 1)))

	tangent := m.Vertices[1].Position.Sub(m.Vertices[0].Position)
	assert.InDelta(t, 0, tangent.Dot(m.Vertices[0].Normal), 1e-9)
	assert.InDelta(t, 1, m.Vertices[0].Normal.Len(), 1e-9)
	assert.Equal(t, math3d.V3(1, 0.5, 1), m.BoundsMax)
}

func TestSmoothNormalsOnEnumeratedMesh(t *testing.T) {
	m := NewMesh("tri")
	m.Vertices = []MeshVertex{
		{Position: math3d.V3(0, 0, 0)},
		{Position: math3d.V3(1, 0, 0)},
		{Position: math3d.V3(0, 1, 0)},
	}
	m.CalculateSmoothNormals()
	for _, v := range m.Vertices {
		assert.Equal(t, math3d.V3(0, 0, 1), v.Normal)
	}
}

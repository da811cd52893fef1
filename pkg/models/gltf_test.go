package models

import (
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadGLBInvalidPath(t *testing.T) {
	_, err := LoadGLB("/nonexistent/path.glb")
	assert.Error(t, err)
}

func TestGLTFLoaderCreation(t *testing.T) {
	loader := NewGLTFLoader()
	require.NotNil(t, loader)
	assert.True(t, loader.CalculateNormals, "CalculateNormals should default to true")
	assert.True(t, loader.FitUnit, "FitUnit should default to true")
}

// writeQuadGLB saves a two-triangle quad spanning x in [0,4], y in [0,2]
// without normals.
func writeQuadGLB(t *testing.T) string {
	t.Helper()
	doc := gltf.NewDocument()
	indices := modeler.WriteIndices(doc, []uint16{0, 1, 2, 0, 2, 3})
	positions := modeler.WritePosition(doc, [][3]float32{
		{0, 0, 0}, {4, 0, 0}, {4, 2, 0}, {0, 2, 0},
	})
	doc.Meshes = []*gltf.Mesh{{
		Name: "quad",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(indices),
			Attributes: map[string]int{gltf.POSITION: positions},
		}},
	}}

	path := filepath.Join(t.TempDir(), "quad.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))
	return path
}

func TestLoadGLBQuad(t *testing.T) {
	path := writeQuadGLB(t)

	mesh, err := LoadGLB(path)
	require.NoError(t, err)
	assert.Equal(t, "quad.glb", mesh.Name)
	assert.Equal(t, 4, mesh.VertexCount())
	assert.Equal(t, 2, mesh.TriangleCount())
	assert.True(t, mesh.Indexed())
	require.NoError(t, mesh.Validate())

	// Fitted into [-1, 1] along the longest (x) axis.
	assert.InDelta(t, -1, mesh.BoundsMin.X, 1e-9)
	assert.InDelta(t, 1, mesh.BoundsMax.X, 1e-9)
	assert.InDelta(t, -0.5, mesh.BoundsMin.Y, 1e-9)
	assert.InDelta(t, 0.5, mesh.BoundsMax.Y, 1e-9)

	// Missing normals were filled in facing +Z.
	for i := range mesh.VertexCount() {
		_, n, _ := mesh.GetVertex(i)
		assert.InDelta(t, 1, n.Z, 1e-9)
	}
}

func TestLoadGLBWithoutFitting(t *testing.T) {
	path := writeQuadGLB(t)

	loader := NewGLTFLoader()
	loader.FitUnit = false
	mesh, err := loader.Load(path)
	require.NoError(t, err)
	assert.InDelta(t, 4, mesh.BoundsMax.X, 1e-9)
	assert.InDelta(t, 2, mesh.BoundsMax.Y, 1e-9)
}

package render

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taigrr/diorama/pkg/math3d"
	"github.com/taigrr/diorama/pkg/scene"
)

const tol = 1e-9

func TestCameraFromScene(t *testing.T) {
	c := CameraFromScene(&scene.Camera{
		Name:   "cam",
		Eye:    math3d.V3(0, 5, 10),
		Target: math3d.Zero3(),
		Up:     math3d.Up(),
	})
	assert.Equal(t, math3d.V3(0, 5, 10), c.Eye)
	assert.InDelta(t, math.Sqrt(125), c.Distance(), tol)
	assert.InDelta(t, math3d.DegToRad(45), c.FOV, tol)
}

func TestCameraProject(t *testing.T) {
	c := NewCamera()

	x, y, depth, ok := c.Project(math3d.Zero3(), 100, 50)
	assert.True(t, ok)
	assert.InDelta(t, 50, x, tol)
	assert.InDelta(t, 25, y, tol)
	assert.Greater(t, depth, -1.0)
	assert.Less(t, depth, 1.0)

	x, _, _, ok = c.Project(math3d.V3(1, 0, 0), 100, 50)
	assert.True(t, ok)
	assert.Greater(t, x, 50.0, "+X is to the right")

	_, y, _, ok = c.Project(math3d.V3(0, 1, 0), 100, 50)
	assert.True(t, ok)
	assert.Less(t, y, 25.0, "+Y is up")

	_, _, _, ok = c.Project(math3d.V3(0, 0, 20), 100, 50)
	assert.False(t, ok, "behind the eye")
}

func TestCameraMatricesTrackChanges(t *testing.T) {
	c := NewCamera()
	before := c.ViewProjectionMatrix()

	c.SetLookAt(math3d.V3(3, 0, 0), math3d.Zero3(), math3d.Up())
	assert.False(t, before.ApproxEqual(c.ViewProjectionMatrix(), tol))

	c.SetAspectRatio(2)
	assert.True(t, c.ProjectionMatrix().Mul(c.ViewMatrix()).ApproxEqual(c.ViewProjectionMatrix(), tol))
}

func TestCameraOrbitYaw(t *testing.T) {
	c := NewCamera()
	c.SetLookAt(math3d.V3(0, 0, 5), math3d.Zero3(), math3d.Up())

	c.Orbit(math.Pi/2, 0)
	assert.InDelta(t, 5, c.Eye.X, tol)
	assert.InDelta(t, 0, c.Eye.Y, tol)
	assert.InDelta(t, 0, c.Eye.Z, tol)
	assert.InDelta(t, 5, c.Distance(), tol)
}

func TestCameraOrbitPitch(t *testing.T) {
	c := NewCamera()
	c.SetLookAt(math3d.V3(0, 0, 5), math3d.Zero3(), math3d.Up())

	c.Orbit(0, math.Pi/4)
	assert.InDelta(t, 5*math.Sin(math.Pi/4), c.Eye.Y, tol)
	assert.InDelta(t, 5, c.Distance(), tol)

	// Pitching past the pole stops short of it.
	c.Orbit(0, math.Pi)
	assert.Less(t, c.Eye.Y, 5.0)
	assert.Greater(t, c.Eye.Y, 4.9)
	assert.InDelta(t, 5, c.Distance(), tol)
	assert.Greater(t, c.Forward().Cross(c.Up).Len(), 0.0, "view stays well defined")
}

func TestCameraDolly(t *testing.T) {
	c := NewCamera()
	c.SetLookAt(math3d.V3(0, 0, 4), math3d.Zero3(), math3d.Up())

	c.Dolly(0.5)
	assert.InDelta(t, 2, c.Distance(), tol)

	c.Dolly(0.0001)
	assert.InDelta(t, 0.1, c.Distance(), tol)

	c.Dolly(-1)
	assert.InDelta(t, 0.1, c.Distance(), tol, "non-positive factors are ignored")
}

package render

import (
	"math"

	"github.com/taigrr/diorama/pkg/math3d"
	"github.com/taigrr/diorama/pkg/scene"
)

// Camera is a look-at camera with a perspective projection.
type Camera struct {
	Eye    math3d.Vec3 // Position in world space
	Target math3d.Vec3 // Point the camera looks at
	Up     math3d.Vec3 // Approximate up direction

	// Projection parameters
	FOV         float64 // Vertical field of view in radians
	AspectRatio float64 // Width / Height
	Near        float64 // Near clipping plane
	Far         float64 // Far clipping plane

	// Cached matrices (computed on demand)
	viewMatrix     math3d.Mat4
	projMatrix     math3d.Mat4
	viewProjMatrix math3d.Mat4
	viewDirty      bool
	projDirty      bool
	vpDirty        bool
}

// NewCamera creates a camera at (0,0,10) looking at the origin.
func NewCamera() *Camera {
	return &Camera{
		Eye:         math3d.V3(0, 0, 10),
		Target:      math3d.Zero3(),
		Up:          math3d.Up(),
		FOV:         math3d.DegToRad(45),
		AspectRatio: 1,
		Near:        0.1,
		Far:         100,
		viewDirty:   true,
		projDirty:   true,
	}
}

// CameraFromScene creates a camera placed like a scene camera.
func CameraFromScene(sc *scene.Camera) *Camera {
	c := NewCamera()
	c.SetLookAt(sc.Eye, sc.Target, sc.Up)
	return c
}

// SetLookAt places the camera.
func (c *Camera) SetLookAt(eye, target, up math3d.Vec3) {
	c.Eye = eye
	c.Target = target
	c.Up = up
	c.viewDirty = true
}

// SetFOV sets the vertical field of view (in radians).
func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
	c.projDirty = true
}

// SetAspectRatio sets the aspect ratio.
func (c *Camera) SetAspectRatio(aspect float64) {
	c.AspectRatio = aspect
	c.projDirty = true
}

// SetClipPlanes sets the near and far clipping planes.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near = near
	c.Far = far
	c.projDirty = true
}

// Forward returns the unit view direction.
func (c *Camera) Forward() math3d.Vec3 {
	return c.Target.Sub(c.Eye).Normalize()
}

// Distance returns the distance from the eye to the target.
func (c *Camera) Distance() float64 {
	return c.Target.Sub(c.Eye).Len()
}

// ViewMatrix returns the view matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		c.viewMatrix = math3d.LookAt(c.Eye, c.Target, c.Up)
		c.viewDirty = false
		c.vpDirty = true
	}
	return c.viewMatrix
}

// ProjectionMatrix returns the projection matrix.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		c.projMatrix = math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
		c.projDirty = false
		c.vpDirty = true
	}
	return c.projMatrix
}

// ViewProjectionMatrix returns the combined view-projection matrix.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	view, proj := c.ViewMatrix(), c.ProjectionMatrix()
	if c.vpDirty {
		c.viewProjMatrix = proj.Mul(view)
		c.vpDirty = false
	}
	return c.viewProjMatrix
}

// Orbit swings the eye around the target: yaw about the up axis, then pitch
// toward or away from it. Pitch stops just short of the poles.
func (c *Camera) Orbit(yaw, pitch float64) {
	up := c.Up.Normalize()
	offset := math3d.Rotate(up, yaw).MulVec3(c.Eye.Sub(c.Target))

	const maxElevation = math.Pi/2 - 0.01
	elevation := math.Asin(math.Max(-1, math.Min(1, offset.Normalize().Dot(up))))
	pitch = math.Max(-maxElevation-elevation, math.Min(maxElevation-elevation, pitch))

	if axis := offset.Cross(up); axis.Len() > 0 && pitch != 0 {
		offset = math3d.Rotate(axis.Normalize(), pitch).MulVec3(offset)
	}
	c.Eye = c.Target.Add(offset)
	c.viewDirty = true
}

// Dolly scales the eye's distance from the target by factor.
func (c *Camera) Dolly(factor float64) {
	const minDistance = 0.1
	offset := c.Eye.Sub(c.Target)
	dist := offset.Len()
	if dist == 0 || factor <= 0 {
		return
	}
	c.Eye = c.Target.Add(offset.Scale(math.Max(dist*factor, minDistance) / dist))
	c.viewDirty = true
}

// Project transforms a world point to screen coordinates. ok is false when
// the point is behind the camera.
func (c *Camera) Project(worldPos math3d.Vec3, screenWidth, screenHeight int) (x, y, depth float64, ok bool) {
	clipPos := c.ViewProjectionMatrix().MulVec4(math3d.V4FromV3(worldPos, 1))
	if clipPos.W <= 0 {
		return 0, 0, 0, false
	}
	ndc := clipPos.PerspectiveDivide()
	x, y = ndcToScreen(ndc.X, ndc.Y, screenWidth, screenHeight)
	return x, y, ndc.Z, true
}

// ndcToScreen maps NDC x,y in [-1,1] to pixel coordinates with Y down.
func ndcToScreen(nx, ny float64, width, height int) (x, y float64) {
	return (nx + 1) * 0.5 * float64(width), (1 - ny) * 0.5 * float64(height)
}

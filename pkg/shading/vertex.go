// Package shading implements the per-vertex and per-fragment stages of the
// Blinn-Phong lighting model used by the rasterizer.
package shading

import "github.com/taigrr/diorama/pkg/math3d"

// Uniforms are the per-object inputs shared by every vertex of a draw.
type Uniforms struct {
	Model         math3d.Mat4
	View          math3d.Mat4
	Projection    math3d.Mat4
	NormalMatrix  math3d.Mat3 // See NormalMatrix
	LightPosition math3d.Vec3 // World space
}

// NewUniforms fills in the normal matrix for model and view.
func NewUniforms(model, view, projection math3d.Mat4, light math3d.Vec3) Uniforms {
	return Uniforms{
		Model:         model,
		View:          view,
		Projection:    projection,
		NormalMatrix:  NormalMatrix(model, view),
		LightPosition: light,
	}
}

// VertexInput is one mesh vertex in object space.
type VertexInput struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2
}

// Varyings are the vertex stage outputs interpolated across a triangle.
type Varyings struct {
	Clip         math3d.Vec4
	ViewPosition math3d.Vec3
	Normal       math3d.Vec3 // View space, unit length
	LightDir     math3d.Vec3 // Toward the light from the world position, unit length
	UV           math3d.Vec2
	Distance     float64 // Eye distance; carried but not used for attenuation
}

// NormalMatrix is the inverse-transpose of the upper 3x3 of view*model.
func NormalMatrix(model, view math3d.Mat4) math3d.Mat3 {
	return math3d.NormalMatrix(view.Mul(model))
}

// ShadeVertex transforms one vertex into clip space and computes the
// lighting vectors the fragment stage needs.
func ShadeVertex(u Uniforms, in VertexInput) Varyings {
	world := u.Model.MulVec4(math3d.V4FromV3(in.Position, 1))
	view := u.View.MulVec4(world)
	viewPos := view.Vec3()

	return Varyings{
		Clip:         u.Projection.MulVec4(view),
		ViewPosition: viewPos,
		Normal:       u.NormalMatrix.MulVec3(in.Normal).Normalize(),
		LightDir:     u.LightPosition.Sub(world.Vec3()).Normalize(),
		UV:           in.UV,
		Distance:     viewPos.Len(),
	}
}

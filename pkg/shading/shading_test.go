package shading

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taigrr/diorama/pkg/math3d"
)

const eps = 1e-9

func assertVec3(t *testing.T, want, got math3d.Vec3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, eps, "x")
	assert.InDelta(t, want.Y, got.Y, eps, "y")
	assert.InDelta(t, want.Z, got.Z, eps, "z")
}

type constSampler math3d.Vec3

func (s constSampler) Sample(u, v float64) math3d.Vec3 { return math3d.Vec3(s) }

var white = math3d.V3(1, 1, 1)

func TestShadeFragmentBlackMaterial(t *testing.T) {
	in := FragmentInput{
		ViewPosition: math3d.V3(0, 0, -5),
		Normal:       math3d.V3(0, 0, 1),
		LightDir:     math3d.V3(0, 0, 1),
	}
	got := ShadeFragment(in, Material{Shininess: 10}, white, nil)
	assert.Equal(t, math3d.V4(0, 0, 0, 1), got)
}

func TestShadeFragmentPerpendicularLightIsAmbient(t *testing.T) {
	m := Material{
		Ka:        math3d.V3(0.1, 0.2, 0.3),
		Kd:        math3d.V3(0.8, 0.8, 0.8),
		Ks:        math3d.V3(1, 1, 1),
		Shininess: 1,
	}
	in := FragmentInput{
		ViewPosition: math3d.V3(0, -3, 0),
		Normal:       math3d.V3(0, 1, 0),
		LightDir:     math3d.V3(1, 0, 0),
	}
	got := ShadeFragment(in, m, math3d.V3(2, 2, 2), nil)
	assertVec3(t, math3d.V3(0.2, 0.4, 0.6), got.Vec3())
	assert.Equal(t, 1.0, got.W)
}

func TestShadeFragmentHeadOn(t *testing.T) {
	// Light and eye both straight along the normal: N.L = N.H = 1.
	m := Material{
		Ka:        math3d.V3(0.1, 0.1, 0.1),
		Kd:        math3d.V3(0.5, 0.25, 0),
		Ks:        math3d.V3(0.2, 0.2, 0.2),
		Shininess: 32,
	}
	in := FragmentInput{
		ViewPosition: math3d.V3(0, 0, -4),
		Normal:       math3d.V3(0, 0, 1),
		LightDir:     math3d.V3(0, 0, 1),
	}
	got := ShadeFragment(in, m, white, nil)
	assertVec3(t, math3d.V3(0.8, 0.55, 0.3), got.Vec3())
}

func TestShadeFragmentLightBehind(t *testing.T) {
	m := Material{Ka: math3d.V3(0.1, 0.1, 0.1), Kd: white, Ks: white, Shininess: 1}
	in := FragmentInput{
		ViewPosition: math3d.V3(0, 0, -4),
		Normal:       math3d.V3(0, 0, 1),
		LightDir:     math3d.V3(0, 0, -1),
	}
	got := ShadeFragment(in, m, white, nil)
	assertVec3(t, math3d.V3(0.1, 0.1, 0.1), got.Vec3())
}

func TestShadeFragmentUnnormalizedInputs(t *testing.T) {
	m := Material{Kd: white}
	in := FragmentInput{
		ViewPosition: math3d.V3(0, 0, -4),
		Normal:       math3d.V3(0, 0, 7),
		LightDir:     math3d.V3(0, 0, 0.5),
	}
	got := ShadeFragment(in, m, white, nil)
	assertVec3(t, white, got.Vec3())
}

func TestShadeFragmentTexture(t *testing.T) {
	m := Material{Ka: math3d.V3(0.5, 0.5, 0.5)}
	in := FragmentInput{Normal: math3d.V3(0, 1, 0), LightDir: math3d.V3(1, 0, 0)}
	got := ShadeFragment(in, m, white, constSampler(math3d.V3(1, 0.5, 0)))
	assertVec3(t, math3d.V3(0.5, 0.25, 0), got.Vec3())
}

func TestShadeFragmentShininess(t *testing.T) {
	// Light at 90 degrees from the eye, normal halfway between.
	n := math3d.V3(1, 0, 1).Normalize()
	m := Material{Ks: white, Shininess: 8}
	in := FragmentInput{
		ViewPosition: math3d.V3(0, 0, -1),
		Normal:       n,
		LightDir:     math3d.V3(1, 0, 0),
	}
	got := ShadeFragment(in, m, white, nil)
	assert.InDelta(t, 1.0, got.X, eps, "half vector equals the normal")

	in.Normal = math3d.V3(0, 0, 1)
	got = ShadeFragment(in, m, white, nil)
	assert.Zero(t, got.X, "light grazes the surface")

	in.Normal = math3d.V3(1, 0, 2).Normalize()
	got = ShadeFragment(in, m, white, nil)
	want := math.Pow(n.Dot(in.Normal), 8)
	assert.InDelta(t, want, got.X, eps)
}

func TestShadeVertexIdentity(t *testing.T) {
	u := NewUniforms(math3d.Identity(), math3d.Identity(), math3d.Identity(), math3d.V3(0, 0, 10))
	out := ShadeVertex(u, VertexInput{
		Position: math3d.V3(0, 0, 2),
		Normal:   math3d.V3(0, 0, 3),
		UV:       math3d.V2(0.25, 0.75),
	})

	assert.Equal(t, math3d.V4(0, 0, 2, 1), out.Clip)
	assertVec3(t, math3d.V3(0, 0, 2), out.ViewPosition)
	assertVec3(t, math3d.V3(0, 0, 1), out.Normal)
	assertVec3(t, math3d.V3(0, 0, 1), out.LightDir)
	assert.Equal(t, math3d.V2(0.25, 0.75), out.UV)
	assert.InDelta(t, 2, out.Distance, eps)
}

func TestShadeVertexTransforms(t *testing.T) {
	model := math3d.Translate(math3d.V3(1, 0, 0))
	view := math3d.LookAt(math3d.V3(0, 0, 5), math3d.Zero3(), math3d.Up())
	u := NewUniforms(model, view, math3d.Identity(), math3d.V3(1, 5, 0))

	out := ShadeVertex(u, VertexInput{Normal: math3d.V3(0, 1, 0)})

	assertVec3(t, math3d.V3(1, 0, -5), out.ViewPosition)
	assertVec3(t, math3d.V3(0, 1, 0), out.LightDir)
	assertVec3(t, math3d.V3(0, 1, 0), out.Normal)
	assert.InDelta(t, math.Sqrt(26), out.Distance, eps)
}

func TestNormalMatrixNonUniformScale(t *testing.T) {
	model := math3d.Scale(math3d.V3(2, 1, 1))
	nm := NormalMatrix(model, math3d.Identity())

	// A 45 degree surface stretched along X tilts its normal toward Y.
	n := nm.MulVec3(math3d.V3(1, 1, 0)).Normalize()
	assertVec3(t, math3d.V3(1, 2, 0).Normalize(), n)

	tangent := model.MulVec3(math3d.V3(1, -1, 0))
	assert.InDelta(t, 0, tangent.Dot(n), eps, "normal stays perpendicular to the surface")
}

func TestInterpolateAffine(t *testing.T) {
	a := Varyings{UV: math3d.V2(0, 0), Normal: math3d.V3(1, 0, 0), Distance: 1}
	b := Varyings{UV: math3d.V2(1, 0), Normal: math3d.V3(0, 1, 0), Distance: 2}
	c := Varyings{UV: math3d.V2(0, 1), Normal: math3d.V3(0, 0, 1), Distance: 3}

	got := Interpolate(a, b, c, math3d.V3(0.5, 0.25, 0.25), math3d.V3(1, 1, 1))
	assert.InDelta(t, 0.25, got.UV.X, eps)
	assert.InDelta(t, 0.25, got.UV.Y, eps)
	assertVec3(t, math3d.V3(0.5, 0.25, 0.25), got.Normal)
	assert.InDelta(t, 1.75, got.Distance, eps)
}

func TestInterpolatePerspectiveCorrect(t *testing.T) {
	a := Varyings{UV: math3d.V2(0, 0)}
	b := Varyings{UV: math3d.V2(1, 0)}
	c := Varyings{UV: math3d.V2(0, 0)}

	// Halfway on screen between a near vertex (w=1) and a far one (w=3)
	// lies a quarter of the way along the surface.
	got := Interpolate(a, b, c, math3d.V3(0.5, 0.5, 0), math3d.V3(1, 3, 1))
	assert.InDelta(t, 0.25, got.UV.X, eps)
}

func BenchmarkShadeFragment(b *testing.B) {
	m := Material{Ka: math3d.V3(0.1, 0.1, 0.1), Kd: white, Ks: white, Shininess: 32}
	in := FragmentInput{
		ViewPosition: math3d.V3(0.3, 0.2, -4),
		Normal:       math3d.V3(0.1, 0.2, 1),
		LightDir:     math3d.V3(0.5, 0.5, 1),
	}
	for b.Loop() {
		ShadeFragment(in, m, white, nil)
	}
}

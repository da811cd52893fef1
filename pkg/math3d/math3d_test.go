package math3d

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const tol = 1e-9

func assertVec3(t *testing.T, want, got Vec3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, tol, "X")
	assert.InDelta(t, want.Y, got.Y, tol, "Y")
	assert.InDelta(t, want.Z, got.Z, tol, "Z")
}

func TestRotationsAreRightHanded(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
		in   Vec3
		want Vec3
	}{
		{"x turns y into z", RotateX(math.Pi / 2), V3(0, 1, 0), V3(0, 0, 1)},
		{"y turns z into x", RotateY(math.Pi / 2), V3(0, 0, 1), V3(1, 0, 0)},
		{"z turns x into y", RotateZ(math.Pi / 2), V3(1, 0, 0), V3(0, 1, 0)},
		{"axis rotate matches RotateZ", Rotate(V3(0, 0, 1), math.Pi/2), V3(1, 0, 0), V3(0, 1, 0)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertVec3(t, tc.want, tc.m.MulVec3(tc.in))
		})
	}
}

func TestMulOrder(t *testing.T) {
	// 1,0,0 -> scale(2) = 2,0,0 -> translate x+1 = 3,0,0
	m := Translate(V3(1, 0, 0)).Mul(Scale(V3(2, 2, 2)))
	assertVec3(t, V3(3, 0, 0), m.MulVec3(V3(1, 0, 0)))

	m = Scale(V3(2, 2, 2)).Mul(Translate(V3(1, 0, 0)))
	assertVec3(t, V3(4, 0, 0), m.MulVec3(V3(1, 0, 0)))
}

func TestTranslationLivesInLastRow(t *testing.T) {
	m := Translate(V3(4, 5, 6))
	assert.Equal(t, V3(4, 5, 6), m.Translation())
	assert.Equal(t, 4.0, m[12])
	assert.Equal(t, 4.0, m.Get(0, 3))
}

func TestMat3Inverse(t *testing.T) {
	m := RotateY(0.3).Mul(Scale(V3(2, 3, 4))).Upper3()
	id := m.Inverse()
	v := V3(1, -2, 0.5)
	assertVec3(t, v, id.MulVec3(m.MulVec3(v)))

	var singular Mat3
	assert.Equal(t, Identity3(), singular.Inverse())
}

func TestNormalMatrixUnderNonUniformScale(t *testing.T) {
	// A plane tilted 45 degrees, squashed along y. The transformed normal
	// must stay perpendicular to the transformed tangent.
	model := Scale(V3(1, 0.25, 1))
	tangent := V3(1, 1, 0)
	normal := V3(-1, 1, 0)

	nm := NormalMatrix(model)
	tT := model.MulVec3(tangent)
	nT := nm.MulVec3(normal)
	assert.InDelta(t, 0, tT.Dot(nT), tol)
}

func TestNormalMatrixOfRotationIsRotation(t *testing.T) {
	r := RotateX(0.7).Mul(RotateZ(-0.2))
	nm := NormalMatrix(r)
	up := r.Upper3()
	for i := range nm {
		assert.InDelta(t, up[i], nm[i], tol)
	}
}

func TestLookAtMapsEyeToOrigin(t *testing.T) {
	eye := V3(0, 5, 10)
	view := LookAt(eye, Zero3(), Up())
	assertVec3(t, Zero3(), view.MulVec3(eye))

	// The target sits straight ahead on -Z.
	p := view.MulVec3(Zero3())
	assert.InDelta(t, 0, p.X, tol)
	assert.InDelta(t, 0, p.Y, tol)
	assert.Less(t, p.Z, 0.0)
}

func TestVec3Helpers(t *testing.T) {
	assert.Equal(t, Vec3{}, Zero3().Normalize())
	assert.InDelta(t, 1, V3(3, 4, 12).Normalize().Len(), tol)
	assert.Equal(t, V3(0, 1, 0.5), V3(-1, 2, 0.5).Clamp01())
	assert.Equal(t, V3(4, 9, 16), V3(2, 3, 4).Pow(2))
	assert.Equal(t, V3(2, 0, 0), V3(1, 0, 0).Cross(V3(0, 1, 0)).Cross(V3(0, -2, 0)))
}

func TestApproxEqual(t *testing.T) {
	a := Identity()
	b := Identity()
	b[5] += 1e-12
	assert.True(t, a.ApproxEqual(b, 1e-9))
	b[5] += 1
	assert.False(t, a.ApproxEqual(b, 1e-9))
}

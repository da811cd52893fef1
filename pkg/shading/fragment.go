package shading

import (
	"math"

	"github.com/taigrr/diorama/pkg/math3d"
)

// Material holds Blinn-Phong reflectance coefficients.
type Material struct {
	Ka        math3d.Vec3
	Kd        math3d.Vec3
	Ks        math3d.Vec3
	Shininess float64
}

// Sampler looks up an RGB color in [0,1] at texture coordinates (u, v).
type Sampler interface {
	Sample(u, v float64) math3d.Vec3
}

// FragmentInput is a Varyings value interpolated to one pixel.
type FragmentInput struct {
	ViewPosition math3d.Vec3
	Normal       math3d.Vec3
	LightDir     math3d.Vec3
	UV           math3d.Vec2
	Distance     float64
}

// Interpolate blends three vertex outputs with screen-space barycentric
// weights bc, corrected for perspective using each vertex's clip W in w.
func Interpolate(a, b, c Varyings, bc, w math3d.Vec3) FragmentInput {
	pa, pb, pc := bc.X, bc.Y, bc.Z
	if w.X != 0 && w.Y != 0 && w.Z != 0 {
		pa, pb, pc = bc.X/w.X, bc.Y/w.Y, bc.Z/w.Z
		if sum := pa + pb + pc; sum != 0 {
			pa, pb, pc = pa/sum, pb/sum, pc/sum
		}
	}

	blend3 := func(x, y, z math3d.Vec3) math3d.Vec3 {
		return x.Scale(pa).Add(y.Scale(pb)).Add(z.Scale(pc))
	}
	return FragmentInput{
		ViewPosition: blend3(a.ViewPosition, b.ViewPosition, c.ViewPosition),
		Normal:       blend3(a.Normal, b.Normal, c.Normal),
		LightDir:     blend3(a.LightDir, b.LightDir, c.LightDir),
		UV:           a.UV.Scale(pa).Add(b.UV.Scale(pb)).Add(c.UV.Scale(pc)),
		Distance:     a.Distance*pa + b.Distance*pb + c.Distance*pc,
	}
}

// ShadeFragment evaluates Blinn-Phong lighting for one fragment under a light
// of the given intensity. When tex is non-nil the lit color is modulated by
// the texture sample at the fragment's UV. Alpha is always 1.
func ShadeFragment(in FragmentInput, m Material, intensity math3d.Vec3, tex Sampler) math3d.Vec4 {
	n := in.Normal.Normalize()
	l := in.LightDir.Normalize()

	ambient := m.Ka.Mul(intensity)
	lambertian := math.Max(n.Dot(l), 0)
	diffuse := m.Kd.Mul(intensity).Scale(lambertian)

	var specular math3d.Vec3
	if lambertian > 0 {
		viewDir := in.ViewPosition.Negate().Normalize()
		h := l.Add(viewDir).Normalize()
		specAngle := math.Max(n.Dot(h), 0)
		specular = m.Ks.Mul(intensity).Scale(math.Pow(specAngle, m.Shininess))
	}

	color := ambient.Add(diffuse).Add(specular)
	if tex != nil {
		color = color.Mul(tex.Sample(in.UV.X, in.UV.Y))
	}
	return math3d.V4FromV3(color, 1)
}

package math3d

// Mat3 is a 3x3 matrix using the same column layout as Mat4:
//
// | 0 3 6 |
// | 1 4 7 |
// | 2 5 8 |
type Mat3 [9]float64

// Identity3 returns the 3x3 identity matrix.
func Identity3() Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// MulVec3 transforms v by m.
func (m Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[3]*v.Y + m[6]*v.Z,
		m[1]*v.X + m[4]*v.Y + m[7]*v.Z,
		m[2]*v.X + m[5]*v.Y + m[8]*v.Z,
	}
}

// Transpose returns the transposed matrix.
func (m Mat3) Transpose() Mat3 {
	return Mat3{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

// Determinant returns the determinant of the matrix.
func (m Mat3) Determinant() float64 {
	return m[0]*(m[4]*m[8]-m[7]*m[5]) -
		m[3]*(m[1]*m[8]-m[7]*m[2]) +
		m[6]*(m[1]*m[5]-m[4]*m[2])
}

// Inverse returns the inverse of the matrix.
// Returns identity if the matrix is singular (det=0).
func (m Mat3) Inverse() Mat3 {
	det := m.Determinant()
	if det == 0 {
		return Identity3()
	}
	inv := 1 / det

	// Row-major names for the elements.
	a, b, c := m[0], m[3], m[6]
	d, e, f := m[1], m[4], m[7]
	g, h, i := m[2], m[5], m[8]

	return Mat3{
		(e*i - f*h) * inv, (f*g - d*i) * inv, (d*h - e*g) * inv,
		(c*h - b*i) * inv, (a*i - c*g) * inv, (b*g - a*h) * inv,
		(b*f - c*e) * inv, (c*d - a*f) * inv, (a*e - b*d) * inv,
	}
}

// NormalMatrix returns the inverse-transpose of the upper 3x3 of m, which
// keeps normals perpendicular to surfaces under non-uniform scale.
func NormalMatrix(m Mat4) Mat3 {
	return m.Upper3().Inverse().Transpose()
}

package mathutil

// Mat4 is a 4×4 matrix stored row-major. Used for bone world transforms.
type Mat4 [16]float64

func Mat4Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mat4Mul returns a × b.
func Mat4Mul(a, b Mat4) Mat4 {
	var m Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m[r*4+c] = a[r*4+0]*b[0*4+c] + a[r*4+1]*b[1*4+c] +
				a[r*4+2]*b[2*4+c] + a[r*4+3]*b[3*4+c]
		}
	}
	return m
}

// MulPoint transforms a 3D point (w=1) by the 4×4 matrix.
func (m Mat4) MulPoint(v Vec3) Vec3 {
	return Vec3{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2] + m[3],
		m[4]*v[0] + m[5]*v[1] + m[6]*v[2] + m[7],
		m[8]*v[0] + m[9]*v[1] + m[10]*v[2] + m[11],
	}
}

// Compose builds the affine matrix T × R × S.
func Compose(pos Vec3, rot Quat, scale Vec3) Mat4 {
	r := QuatToMat3(rot)
	return Mat4{
		r[0] * scale[0], r[1] * scale[1], r[2] * scale[2], pos[0],
		r[3] * scale[0], r[4] * scale[1], r[5] * scale[2], pos[1],
		r[6] * scale[0], r[7] * scale[1], r[8] * scale[2], pos[2],
		0, 0, 0, 1,
	}
}

// Translation returns the translation column.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[3], m[7], m[11]}
}

// NearEqual reports whether every element differs by at most tol.
func (m Mat4) NearEqual(o Mat4, tol float64) bool {
	for i := 0; i < 16; i++ {
		d := m[i] - o[i]
		if d > tol || d < -tol {
			return false
		}
	}
	return true
}

// IsIdentity checks if the matrix is approximately identity.
func (m Mat4) IsIdentity() bool {
	return m.NearEqual(Mat4Identity(), 1e-8)
}

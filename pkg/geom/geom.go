package geom

import (
	"math"
)

// Vec3 is a point or direction in 3D space.
type Vec3 struct {
	X, Y, Z float64
}

// IsZero reports whether all three components are exactly zero.
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Mat4 is a 4x4 homogeneous matrix stored in column-major order, so
// element (row, col) lives at index col*4+row. Points are column vectors
// and A.Mul(B) applies B first.
type Mat4 [16]float64

// Identity returns the 4x4 identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// At returns the element at the given row and column.
func (m Mat4) At(row, col int) float64 {
	return m[col*4+row]
}

// Set assigns the element at the given row and column.
func (m *Mat4) Set(row, col int, v float64) {
	m[col*4+row] = v
}

// Apply transforms p as a homogeneous point and divides by w.
// A zero w leaves the undivided coordinates.
func (m Mat4) Apply(p Vec3) Vec3 {
	x := m[0]*p.X + m[4]*p.Y + m[8]*p.Z + m[12]
	y := m[1]*p.X + m[5]*p.Y + m[9]*p.Z + m[13]
	z := m[2]*p.X + m[6]*p.Y + m[10]*p.Z + m[14]
	w := m[3]*p.X + m[7]*p.Y + m[11]*p.Z + m[15]
	if w != 0 && w != 1 {
		return Vec3{X: x / w, Y: y / w, Z: z / w}
	}
	return Vec3{X: x, Y: y, Z: z}
}

// ApproxEqual reports whether every element of m is within eps of o.
func (m Mat4) ApproxEqual(o Mat4, eps float64) bool {
	for i := range m {
		if math.Abs(m[i]-o[i]) > eps {
			return false
		}
	}
	return true
}

// FlipY conjugates m with a reflection of the Y axis. It converts between
// the Y-down convention of CSS and the Y-up convention of a 3D scene; the
// operation is its own inverse.
func FlipY(m Mat4) Mat4 {
	sign := [4]float64{1, -1, 1, 1}
	var out Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			out[col*4+row] = m[col*4+row] * sign[row] * sign[col]
		}
	}
	return out
}

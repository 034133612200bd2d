package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Algebra is the small set of matrix operations the transform composer
// needs. Keeping it behind an interface leaves the composition algorithm
// independent of whichever math library backs it.
type Algebra interface {
	Identity() Mat4
	Translation(x, y, z float64) Mat4
	Mul(a, b Mat4) Mat4
}

// MGL implements Algebra on top of github.com/go-gl/mathgl/mgl64. mgl64
// uses the same column-major layout as Mat4, so conversions are free.
type MGL struct{}

func (MGL) Identity() Mat4 {
	return Mat4(mgl64.Ident4())
}

func (MGL) Translation(x, y, z float64) Mat4 {
	return Mat4(mgl64.Translate3D(x, y, z))
}

func (MGL) Mul(a, b Mat4) Mat4 {
	return Mat4(mgl64.Mat4(a).Mul4(mgl64.Mat4(b)))
}

// Naive implements Algebra with plain loops.
type Naive struct{}

func (Naive) Identity() Mat4 {
	return Identity()
}

func (Naive) Translation(x, y, z float64) Mat4 {
	m := Identity()
	m[12], m[13], m[14] = x, y, z
	return m
}

func (Naive) Mul(a, b Mat4) Mat4 {
	var out Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += a[k*4+row] * b[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

// Default is the algebra used when callers do not pick one.
var Default Algebra = MGL{}

// Translate returns a translation matrix.
func Translate(x, y, z float64) Mat4 {
	return Mat4(mgl64.Translate3D(x, y, z))
}

// Scale returns a scaling matrix.
func Scale(x, y, z float64) Mat4 {
	return Mat4(mgl64.Scale3D(x, y, z))
}

// RotateAxis returns a rotation of angle radians around the axis (x, y, z).
// The axis is normalized; a zero axis yields the identity.
func RotateAxis(x, y, z, angle float64) Mat4 {
	axis := mgl64.Vec3{x, y, z}
	if axis.Len() == 0 {
		return Identity()
	}
	return Mat4(mgl64.HomogRotate3D(angle, axis.Normalize()))
}

// RotateZ returns a rotation of angle radians in the XY plane.
func RotateZ(angle float64) Mat4 {
	return Mat4(mgl64.HomogRotate3DZ(angle))
}

// Skew returns a 2D shear by the angles ax (along X) and ay (along Y).
func Skew(ax, ay float64) Mat4 {
	m := Identity()
	m.Set(0, 1, math.Tan(ax))
	m.Set(1, 0, math.Tan(ay))
	return m
}

// Perspective returns the CSS perspective(d) matrix. A non-positive
// distance yields the identity.
func Perspective(d float64) Mat4 {
	m := Identity()
	if d > 0 {
		m.Set(3, 2, -1/d)
	}
	return m
}

package transform

import (
	"seehuhn.de/go/geom/matrix"

	"domxform/pkg/geom"
)

// Apply maps a point given in the element's centred, Y-up frame through
// the composite matrix.
func (r Result) Apply(p geom.Vec3) geom.Vec3 {
	return r.Matrix.Apply(p)
}

// HasPerspective reports whether some node on the chain declared one.
func (r Result) HasPerspective() bool {
	return r.Perspective != nil
}

// Affine reduces a planar composite to a 2D affine matrix in the
// [a b c d e f] convention, x' = a*x + c*y + e and y' = b*x + d*y + f.
// It returns false when the matrix mixes in depth or is projective.
func (r Result) Affine() (matrix.Matrix, bool) {
	m := r.Matrix
	if m[3] != 0 || m[7] != 0 || m[11] != 0 || m[15] != 1 {
		return matrix.Matrix{}, false
	}
	if m[8] != 0 || m[9] != 0 {
		return matrix.Matrix{}, false
	}
	return matrix.Matrix{m[0], m[1], m[4], m[5], m[12], m[13]}, true
}

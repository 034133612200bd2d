package css

import (
	"strconv"
	"strings"

	"domxform/pkg/geom"
)

// TransformFunction is one function of a transform list, e.g. rotate(45deg).
type TransformFunction struct {
	Name string
	Args []string
}

// ParseTransformFunctions splits a transform list into its functions.
// "none" and the empty string yield an empty list.
func ParseTransformFunctions(text string) ([]TransformFunction, bool) {
	text = strings.TrimSpace(text)
	if text == "" || strings.EqualFold(text, "none") {
		return nil, true
	}

	var fns []TransformFunction
	for text != "" {
		open := strings.IndexByte(text, '(')
		if open <= 0 {
			return nil, false
		}
		closing := strings.IndexByte(text, ')')
		if closing < open {
			return nil, false
		}
		name := strings.ToLower(strings.TrimSpace(text[:open]))
		args := strings.FieldsFunc(text[open+1:closing], func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\n'
		})
		fns = append(fns, TransformFunction{Name: name, Args: args})
		text = strings.TrimSpace(text[closing+1:])
	}
	return fns, true
}

// ParseTransformBox converts a transform list into a single matrix in CSS
// (Y-down) coordinates. Percentages in translations resolve against the
// reference box width and height. Functions apply left to right, each in
// the frame set up by the ones before it. An invalid list returns false.
func ParseTransformBox(text string, width, height float64) (geom.Mat4, bool) {
	fns, ok := ParseTransformFunctions(text)
	if !ok {
		return geom.Identity(), false
	}
	m := geom.Identity()
	for _, fn := range fns {
		local, ok := fn.matrix(width, height)
		if !ok {
			return geom.Identity(), false
		}
		m = geom.Default.Mul(m, local)
	}
	return m, true
}

// ParseTransformValue converts a computed transform (matrix(), matrix3d()
// or any function list without percentages) into a CSS-space matrix.
// Invalid input yields the identity.
func ParseTransformValue(text string) geom.Mat4 {
	m, _ := ParseTransformBox(text, 0, 0)
	return m
}

// FormatMatrix3D serializes m as a computed matrix3d() value.
func FormatMatrix3D(m geom.Mat4) string {
	parts := make([]string, len(m))
	for i, v := range m {
		parts[i] = formatNumber(v)
	}
	return "matrix3d(" + strings.Join(parts, ", ") + ")"
}

func (fn TransformFunction) matrix(width, height float64) (geom.Mat4, bool) {
	n := len(fn.Args)
	switch fn.Name {
	case "matrix":
		v, ok := numbers(fn.Args, 6)
		if !ok {
			return geom.Mat4{}, false
		}
		m := geom.Identity()
		m.Set(0, 0, v[0])
		m.Set(1, 0, v[1])
		m.Set(0, 1, v[2])
		m.Set(1, 1, v[3])
		m.Set(0, 3, v[4])
		m.Set(1, 3, v[5])
		return m, true
	case "matrix3d":
		v, ok := numbers(fn.Args, 16)
		if !ok {
			return geom.Mat4{}, false
		}
		var m geom.Mat4
		copy(m[:], v)
		return m, true

	case "translate":
		if n < 1 || n > 2 {
			return geom.Mat4{}, false
		}
		x, ok := ParseLengthRef(fn.Args[0], width)
		if !ok {
			return geom.Mat4{}, false
		}
		var y float64
		if n == 2 {
			if y, ok = ParseLengthRef(fn.Args[1], height); !ok {
				return geom.Mat4{}, false
			}
		}
		return geom.Translate(x, y, 0), true
	case "translatex", "translatey", "translatez":
		if n != 1 {
			return geom.Mat4{}, false
		}
		ref := width
		if fn.Name == "translatey" {
			ref = height
		}
		d, ok := ParseLengthRef(fn.Args[0], ref)
		if fn.Name == "translatez" {
			d, ok = ParseLength(fn.Args[0])
		}
		if !ok {
			return geom.Mat4{}, false
		}
		switch fn.Name {
		case "translatex":
			return geom.Translate(d, 0, 0), true
		case "translatey":
			return geom.Translate(0, d, 0), true
		}
		return geom.Translate(0, 0, d), true
	case "translate3d":
		if n != 3 {
			return geom.Mat4{}, false
		}
		x, okX := ParseLengthRef(fn.Args[0], width)
		y, okY := ParseLengthRef(fn.Args[1], height)
		z, okZ := ParseLength(fn.Args[2])
		if !okX || !okY || !okZ {
			return geom.Mat4{}, false
		}
		return geom.Translate(x, y, z), true

	case "scale":
		if n < 1 || n > 2 {
			return geom.Mat4{}, false
		}
		sx, ok := factor(fn.Args[0])
		if !ok {
			return geom.Mat4{}, false
		}
		sy := sx
		if n == 2 {
			if sy, ok = factor(fn.Args[1]); !ok {
				return geom.Mat4{}, false
			}
		}
		return geom.Scale(sx, sy, 1), true
	case "scalex", "scaley", "scalez":
		if n != 1 {
			return geom.Mat4{}, false
		}
		s, ok := factor(fn.Args[0])
		if !ok {
			return geom.Mat4{}, false
		}
		switch fn.Name {
		case "scalex":
			return geom.Scale(s, 1, 1), true
		case "scaley":
			return geom.Scale(1, s, 1), true
		}
		return geom.Scale(1, 1, s), true
	case "scale3d":
		if n != 3 {
			return geom.Mat4{}, false
		}
		sx, okX := factor(fn.Args[0])
		sy, okY := factor(fn.Args[1])
		sz, okZ := factor(fn.Args[2])
		if !okX || !okY || !okZ {
			return geom.Mat4{}, false
		}
		return geom.Scale(sx, sy, sz), true

	case "rotate", "rotatez", "rotatex", "rotatey":
		if n != 1 {
			return geom.Mat4{}, false
		}
		a, ok := ParseAngle(fn.Args[0])
		if !ok {
			return geom.Mat4{}, false
		}
		switch fn.Name {
		case "rotatex":
			return geom.RotateAxis(1, 0, 0, a), true
		case "rotatey":
			return geom.RotateAxis(0, 1, 0, a), true
		}
		return geom.RotateZ(a), true
	case "rotate3d":
		if n != 4 {
			return geom.Mat4{}, false
		}
		v, ok := numbers(fn.Args[:3], 3)
		if !ok {
			return geom.Mat4{}, false
		}
		a, ok := ParseAngle(fn.Args[3])
		if !ok {
			return geom.Mat4{}, false
		}
		return geom.RotateAxis(v[0], v[1], v[2], a), true

	case "skew":
		if n < 1 || n > 2 {
			return geom.Mat4{}, false
		}
		ax, ok := ParseAngle(fn.Args[0])
		if !ok {
			return geom.Mat4{}, false
		}
		var ay float64
		if n == 2 {
			if ay, ok = ParseAngle(fn.Args[1]); !ok {
				return geom.Mat4{}, false
			}
		}
		return geom.Skew(ax, ay), true
	case "skewx", "skewy":
		if n != 1 {
			return geom.Mat4{}, false
		}
		a, ok := ParseAngle(fn.Args[0])
		if !ok {
			return geom.Mat4{}, false
		}
		if fn.Name == "skewx" {
			return geom.Skew(a, 0), true
		}
		return geom.Skew(0, a), true

	case "perspective":
		if n != 1 {
			return geom.Mat4{}, false
		}
		if fn.Args[0] == "none" {
			return geom.Identity(), true
		}
		d, ok := ParseLength(fn.Args[0])
		if !ok || d < 0 {
			return geom.Mat4{}, false
		}
		return geom.Perspective(d), true
	}
	return geom.Mat4{}, false
}

func numbers(args []string, want int) ([]float64, bool) {
	if len(args) != want {
		return nil, false
	}
	out := make([]float64, want)
	for i, a := range args {
		v, err := strconv.ParseFloat(strings.TrimSpace(a), 64)
		if err != nil {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// factor parses a scale factor, which may be a number or a percentage.
func factor(val string) (float64, bool) {
	num, unit, ok := splitNumber(val)
	if !ok {
		return 0, false
	}
	switch unit {
	case "":
		return num, true
	case "%":
		return num / 100, true
	}
	return 0, false
}

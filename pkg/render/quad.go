package render

import (
	"domxform/pkg/css"
	"domxform/pkg/geom"
	"domxform/pkg/layout"
	"domxform/pkg/transform"
)

// Quad is an element's border box mapped into viewport pixels (Y down).
// Points run top-left, top-right, bottom-right, bottom-left.
type Quad struct {
	ID     string
	Points [4]geom.Vec3
	Depth  float64 // mean z before projection; larger is closer
}

// Project maps the border box of a width x height element through its
// resolved transform into viewport pixels. When a perspective is active it
// projects about perspectiveOrigin, given in viewport pixels. It returns
// false for zero-size elements and for boxes that cross the viewer plane.
//
// The resolver anchors an element at its offset position minus its width,
// so x is shifted right by the width to land on the page.
func Project(id string, res transform.Result, width, height float64, perspectiveOrigin geom.Vec3) (Quad, bool) {
	if width == 0 || height == 0 {
		return Quad{}, false
	}
	hw, hh := width/2, height/2
	local := [4]geom.Vec3{
		{X: -hw, Y: hh},
		{X: hw, Y: hh},
		{X: hw, Y: -hh},
		{X: -hw, Y: -hh},
	}

	q := Quad{ID: id}
	for i, p := range local {
		w := res.Apply(p)
		x, y, z := w.X+width, -w.Y, w.Z
		q.Depth += z / 4

		if res.HasPerspective() && *res.Perspective > 0 {
			d := *res.Perspective
			if z >= d {
				return Quad{}, false
			}
			s := d / (d - z)
			x = perspectiveOrigin.X + (x-perspectiveOrigin.X)*s
			y = perspectiveOrigin.Y + (y-perspectiveOrigin.Y)*s
		}
		q.Points[i] = geom.Vec3{X: x, Y: y, Z: z}
	}
	return q, true
}

// PerspectiveAnchor finds the element whose perspective applies to b (the
// nearest one declaring a perspective, b included) and returns its
// perspective origin in viewport pixels. Scroll offsets of that element's
// ancestors are subtracted the same way the resolver subtracts them.
func PerspectiveAnchor(b *layout.Box) (geom.Vec3, bool) {
	for p := b; p != nil; p = p.Parent {
		style := p.ComputedStyle()
		if style.Perspective == transform.PerspectiveNone || style.Perspective == "" {
			continue
		}
		o := css.ParseOriginValue(style.PerspectiveOrigin)
		x, y := p.X+o.X, p.Y+o.Y
		for a := p.Parent; a != nil; a = a.Parent {
			x -= a.ScrollX
			y -= a.ScrollY
		}
		return geom.Vec3{X: x, Y: y, Z: o.Z}, true
	}
	return geom.Vec3{}, false
}

// ProjectBox resolves and projects a laid out element.
func ProjectBox(r *transform.Resolver, b *layout.Box) (Quad, bool) {
	res := r.Resolve(b)
	origin, _ := PerspectiveAnchor(b)
	return Project(b.ID(), res, b.OffsetWidth(), b.OffsetHeight(), origin)
}

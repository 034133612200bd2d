package layout

import (
	"strings"

	"domxform/pkg/css"
	"domxform/pkg/transform"
)

// OffsetWidth is the border-box width; zero for boxes that are not rendered.
func (b *Box) OffsetWidth() float64 {
	if b.Hidden {
		return 0
	}
	return b.BorderWidth()
}

func (b *Box) OffsetHeight() float64 {
	if b.Hidden {
		return 0
	}
	return b.BorderHeight()
}

// OffsetLeft is measured from the offset parent's padding edge. A box
// with no offset parent, or whose offset parent is a static body, is
// measured from the page origin. The body itself reports zero.
func (b *Box) OffsetLeft() float64 {
	if b.Hidden || b.Node.TagName == "body" {
		return 0
	}
	if p := b.offsetParent; p != nil && !p.measuresFromPage() {
		return b.X - p.PaddingRect().X
	}
	return b.X
}

func (b *Box) OffsetTop() float64 {
	if b.Hidden || b.Node.TagName == "body" {
		return 0
	}
	if p := b.offsetParent; p != nil && !p.measuresFromPage() {
		return b.Y - p.PaddingRect().Y
	}
	return b.Y
}

func (b *Box) measuresFromPage() bool {
	return b.Node.TagName == "body" && !b.IsPositioned()
}

func (b *Box) ScrollLeft() float64 { return b.ScrollX }

func (b *Box) ScrollTop() float64 { return b.ScrollY }

// OffsetParent returns a nil interface when there is none.
func (b *Box) OffsetParent() transform.Node {
	if b.offsetParent == nil {
		return nil
	}
	return b.offsetParent
}

func (b *Box) ParentNode() transform.Node {
	if b.Parent == nil {
		return nil
	}
	return b.Parent
}

// OffsetParentBox returns the offset parent as a box, or nil.
func (b *Box) OffsetParentBox() *Box {
	return b.offsetParent
}

// ComputedStyle resolves the transform related properties the way a
// browser's getComputedStyle reports them: transforms as matrix3d()
// against the border box, origins in pixels, perspective in pixels or
// "none".
func (b *Box) ComputedStyle() transform.Style {
	w, h := b.OffsetWidth(), b.OffsetHeight()
	s := transform.Style{
		Transform:         "none",
		TransformOrigin:   css.ResolveOrigin(b.Style.GetOr("transform-origin", css.DefaultTransformOrigin), w, h),
		Perspective:       transform.PerspectiveNone,
		PerspectiveOrigin: css.ResolveOrigin(b.Style.GetOr("perspective-origin", css.DefaultTransformOrigin), w, h),
	}

	if text, ok := b.Style.Get("transform"); ok && !strings.EqualFold(strings.TrimSpace(text), "none") {
		if m, ok := css.ParseTransformBox(text, w, h); ok {
			s.Transform = css.FormatMatrix3D(m)
		}
	}
	if text, ok := b.Style.Get("perspective"); ok {
		if d, ok := css.ParseLength(text); ok && d >= 0 {
			s.Perspective = css.FormatLength(d)
		}
	}
	return s
}

// ComputedStyle makes Tree a transform.StyleSource for its own boxes.
func (t *Tree) ComputedStyle(n transform.Node) transform.Style {
	if b, ok := n.(*Box); ok && b.tree == t {
		return b.ComputedStyle()
	}
	return transform.NodeStyles{}.ComputedStyle(n)
}

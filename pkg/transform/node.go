package transform

import "domxform/pkg/geom"

// Node is the geometry capability the resolver needs from a positioned
// element. The values follow the CSSOM View definitions of the properties
// of the same name. OffsetParent and ParentNode must return a nil
// interface (not a typed nil pointer) at the top of their chains.
type Node interface {
	OffsetWidth() float64
	OffsetHeight() float64
	OffsetLeft() float64
	OffsetTop() float64
	ScrollLeft() float64
	ScrollTop() float64
	OffsetParent() Node
	ParentNode() Node
}

// Style holds the resolved (computed) values of the four properties the
// resolver reads. Perspective is "none" when no perspective is declared.
type Style struct {
	Transform         string
	TransformOrigin   string
	Perspective       string
	PerspectiveOrigin string
}

// StyleSource resolves the computed style of a node.
type StyleSource interface {
	ComputedStyle(n Node) Style
}

// Styled is implemented by nodes that know their own computed style.
type Styled interface {
	ComputedStyle() Style
}

// NodeStyles is a StyleSource that asks each node for its own style.
// Nodes that do not implement Styled get an empty style.
type NodeStyles struct{}

func (NodeStyles) ComputedStyle(n Node) Style {
	if s, ok := n.(Styled); ok {
		return s.ComputedStyle()
	}
	return Style{Perspective: PerspectiveNone}
}

// PerspectiveNone is the computed value of an unset perspective.
const PerspectiveNone = "none"

// ValueParser turns computed CSS strings into numbers. ParseOrigin returns
// Y-down box coordinates measured from the top-left corner; the resolver
// negates Y itself. ParseTransform returns a matrix in the resolver's Y-up
// frame, so a CSS (Y-down) matrix must be conjugated with geom.FlipY first.
// Both must accept empty or "none" input.
type ValueParser interface {
	ParseUnit(text string) float64
	ParseOrigin(text string) geom.Vec3
	ParseTransform(text string) geom.Mat4
}

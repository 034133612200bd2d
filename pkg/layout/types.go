package layout

import (
	"strings"

	"domxform/pkg/css"
	"domxform/pkg/html"
)

// Box is the layout of one element. X and Y locate the top-left corner of
// the border box in page coordinates; Width and Height are the content size.
type Box struct {
	Node     *html.Node
	Style    *css.Style
	X        float64
	Y        float64
	Width    float64 // Content width
	Height   float64 // Content height
	Margin   css.BoxEdge
	Padding  css.BoxEdge
	Border   css.BoxEdge
	Children []*Box
	Parent   *Box
	Position css.PositionType

	// Hidden is set for display:none elements and everything below them.
	Hidden bool

	ScrollX float64
	ScrollY float64

	offsetParent *Box
	tree         *Tree
	fixedHeight  bool // height did not depend on content
}

// Tree is the laid out document. Every element, hidden or not, has a box.
type Tree struct {
	Root  *Box // the <html> element
	boxes []*Box
	nodes map[*html.Node]*Box
}

type LayoutEngine struct {
	viewport struct {
		width  float64
		height float64
	}
	scrollX float64 // Viewport scroll, reported on the root element
	scrollY float64
}

// Rect represents a rectangular region
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// BorderWidth returns the width of the border box.
func (b *Box) BorderWidth() float64 {
	return b.Border.Left + b.Padding.Left + b.Width + b.Padding.Right + b.Border.Right
}

// BorderHeight returns the height of the border box.
func (b *Box) BorderHeight() float64 {
	return b.Border.Top + b.Padding.Top + b.Height + b.Padding.Bottom + b.Border.Bottom
}

// BorderRect returns the border box in page coordinates.
func (b *Box) BorderRect() Rect {
	return Rect{X: b.X, Y: b.Y, Width: b.BorderWidth(), Height: b.BorderHeight()}
}

// PaddingRect returns the padding box in page coordinates.
func (b *Box) PaddingRect() Rect {
	return Rect{
		X:      b.X + b.Border.Left,
		Y:      b.Y + b.Border.Top,
		Width:  b.Padding.Left + b.Width + b.Padding.Right,
		Height: b.Padding.Top + b.Height + b.Padding.Bottom,
	}
}

// ID returns the element's id attribute.
func (b *Box) ID() string {
	return b.Node.ID()
}

// Boxes returns every element box in document order.
func (t *Tree) Boxes() []*Box {
	return t.boxes
}

// Node returns the box generated for n, or nil.
func (t *Tree) Node(n *html.Node) *Box {
	return t.nodes[n]
}

// ByID returns the box of the first element with the given id, or nil.
func (t *Tree) ByID(id string) *Box {
	for _, b := range t.boxes {
		if b.ID() == id {
			return b
		}
	}
	return nil
}

// Body returns the box of the <body> element, or nil.
func (t *Tree) Body() *Box {
	if t.Root == nil {
		return nil
	}
	for _, c := range t.Root.Children {
		if c.Node.TagName == "body" {
			return c
		}
	}
	return nil
}

// Select returns the boxes of all elements matching any selector of a
// comma separated list, in document order.
func (t *Tree) Select(selector string) ([]*Box, bool) {
	var sels []css.Selector
	for _, part := range strings.Split(selector, ",") {
		sel, ok := css.ParseSelector(part)
		if !ok {
			return nil, false
		}
		sels = append(sels, sel)
	}
	var out []*Box
	for _, b := range t.boxes {
		for _, sel := range sels {
			if css.MatchesSelector(b.Node, sel) {
				out = append(out, b)
				break
			}
		}
	}
	return out, true
}

package layout

import (
	"domxform/pkg/css"
	"domxform/pkg/html"
)

// Layout computes the box of every element in doc. Static boxes flow as
// blocks; relative boxes are shifted after flow; absolute and fixed boxes
// are placed against their containing blocks once all in-flow heights are
// known.
func (le *LayoutEngine) Layout(doc *html.Document) *Tree {
	styles := css.ApplyStylesToDocument(doc)
	t := &Tree{nodes: make(map[*html.Node]*Box)}

	root := doc.DocumentElement()
	if root == nil {
		return t
	}

	pass := &flowPass{engine: le, tree: t, styles: styles}
	t.Root = pass.layoutNode(root, nil, 0, 0, le.viewport.width, le.viewport.height, true)
	if !t.Root.Hidden {
		pass.applyRelativeOffset(t.Root, le.viewport.width, le.viewport.height)
	}
	if t.Root.ScrollX == 0 && t.Root.ScrollY == 0 {
		t.Root.ScrollX, t.Root.ScrollY = le.scrollX, le.scrollY
	}

	// Document order places containing blocks before the boxes they contain.
	for _, box := range pass.outOfFlow {
		le.applyAbsolutePositioning(box)
	}
	for _, box := range t.boxes {
		box.offsetParent = box.findOffsetParent()
	}
	return t
}

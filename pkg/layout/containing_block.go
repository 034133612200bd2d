package layout

import "domxform/pkg/css"

// FindContainingBlock finds the containing block for a positioned element
// For absolute positioned elements: nearest positioned ancestor
// For relative/static: parent box
// For fixed: viewport (nil)
func (b *Box) FindContainingBlock() *Box {
	switch b.Position {
	case css.PositionAbsolute:
		return b.findNearestPositionedAncestor()
	case css.PositionFixed:
		return nil
	}
	return b.Parent
}

// findNearestPositionedAncestor finds the nearest ancestor with position != static
func (b *Box) findNearestPositionedAncestor() *Box {
	for current := b.Parent; current != nil; current = current.Parent {
		if current.IsPositioned() {
			return current
		}
	}
	// If no positioned ancestor found, use initial containing block
	return nil
}

// IsPositioned returns true if the box has position != static
func (b *Box) IsPositioned() bool {
	return b.Position != css.PositionStatic
}

// containingRect returns the rectangle an out-of-flow box is placed
// against: the padding box of its containing block, the scrolled viewport
// for fixed boxes, or the initial containing block.
func (le *LayoutEngine) containingRect(box *Box) Rect {
	if cb := box.FindContainingBlock(); cb != nil {
		return cb.PaddingRect()
	}
	r := Rect{Width: le.viewport.width, Height: le.viewport.height}
	if box.Position == css.PositionFixed {
		r.X, r.Y = le.scrollX, le.scrollY
	}
	return r
}

// findOffsetParent implements the offsetParent algorithm of CSSOM View:
// no offset parent for the root, the body, fixed boxes and boxes that are
// not rendered; otherwise the nearest positioned ancestor, a table cell or
// table for static boxes, or the body.
func (b *Box) findOffsetParent() *Box {
	if b.Hidden || b.Parent == nil || b.Node.TagName == "body" || b.Position == css.PositionFixed {
		return nil
	}
	for a := b.Parent; a != nil; a = a.Parent {
		if a.IsPositioned() || a.Node.TagName == "body" {
			return a
		}
		if b.Position == css.PositionStatic {
			switch a.Node.TagName {
			case "td", "th", "table":
				return a
			}
		}
	}
	return nil
}

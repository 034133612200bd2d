package layout

import (
	"strings"

	"domxform/pkg/css"
	"domxform/pkg/html"
)

// lineHeight is the height given to a run of text. Text is not shaped; a
// run contributes one line.
const lineHeight = 16

type flowPass struct {
	engine    *LayoutEngine
	tree      *Tree
	styles    map[*html.Node]*css.Style
	outOfFlow []*Box // absolute and fixed boxes in document order
}

// layoutNode lays out node with its border box's margin edge at (x, y).
// cbWidth and cbHeight describe the containing block; cbHeight is ignored
// for percentages unless hasHeight is set.
func (p *flowPass) layoutNode(node *html.Node, parent *Box, x, y, cbWidth, cbHeight float64, hasHeight bool) *Box {
	style := p.styles[node]
	if style == nil {
		style = css.NewStyle()
	}
	box := &Box{
		Node:     node,
		Style:    style,
		Parent:   parent,
		Position: style.GetPosition(),
		tree:     p.tree,
	}
	box.ScrollX, box.ScrollY = scrollOffsets(node, style)
	p.tree.boxes = append(p.tree.boxes, box)
	p.tree.nodes[node] = box
	if parent != nil {
		parent.Children = append(parent.Children, box)
	}

	if (parent != nil && parent.Hidden) || style.GetDisplay() == "none" {
		box.Hidden = true
		box.ScrollX, box.ScrollY = 0, 0
		for _, child := range node.Children {
			if child.Type == html.ElementNode {
				p.layoutNode(child, box, 0, 0, 0, 0, false)
			}
		}
		return box
	}

	if box.isOutOfFlow() {
		p.outOfFlow = append(p.outOfFlow, box)
		r := p.engine.containingRect(box)
		cbWidth, cbHeight = r.Width, r.Height
		cb := box.FindContainingBlock()
		hasHeight = cb == nil || cb.fixedHeight
	}

	box.Margin = style.GetMargin(cbWidth)
	box.Padding = style.GetPadding(cbWidth)
	box.Border = style.GetBorderWidth()
	box.Width = p.usedWidth(box, cbWidth, cbHeight)

	box.X = x + box.Margin.Left
	box.Y = y + box.Margin.Top

	explicitHeight, fixedHeight := style.GetLengthRef("height", cbHeight)
	if fixedHeight && strings.HasSuffix(strings.TrimSpace(style.GetOr("height", "")), "%") && !hasHeight {
		fixedHeight = false
	}
	if fixedHeight {
		box.Height = max(0, explicitHeight-box.sizingAllowance(false))
		box.fixedHeight = true
	}

	contentX := box.X + box.Border.Left + box.Padding.Left
	contentY := box.Y + box.Border.Top + box.Padding.Top
	cursor := contentY
	var prev *Box

	for _, child := range node.Children {
		switch child.Type {
		case html.TextNode:
			if strings.TrimSpace(child.Text) != "" {
				cursor += lineHeight
				prev = nil
			}
		case html.ElementNode:
			c := p.layoutNode(child, box, contentX, cursor, box.Width, box.Height, fixedHeight)
			if c.Hidden || c.isOutOfFlow() {
				continue
			}
			if prev != nil {
				adjustment := prev.Margin.Bottom + c.Margin.Top - collapseMargins(prev.Margin.Bottom, c.Margin.Top)
				shift(c, 0, -adjustment)
			}
			cursor = c.Y + c.BorderHeight() + c.Margin.Bottom
			p.applyRelativeOffset(c, box.Width, box.Height)
			prev = c
		}
	}

	if !fixedHeight {
		box.Height = cursor - contentY
	}
	return box
}

// usedWidth resolves the content width of box, including auto widths and
// centring auto margins.
func (p *flowPass) usedWidth(box *Box, cbWidth, cbHeight float64) float64 {
	style := box.Style
	allowance := box.sizingAllowance(true)
	if w, ok := style.GetLengthRef("width", cbWidth); ok {
		w = max(0, w-allowance)
		if !box.isOutOfFlow() && style.GetOr("margin-left", "") == "auto" && style.GetOr("margin-right", "") == "auto" {
			free := max(0, cbWidth-w-box.Padding.Horizontal()-box.Border.Horizontal())
			box.Margin.Left, box.Margin.Right = free/2, free/2
		}
		return w
	}

	if box.isOutOfFlow() {
		off := style.GetPositionOffset(cbWidth, cbHeight)
		if off.HasLeft && off.HasRight {
			return max(0, cbWidth-off.Left-off.Right-box.Margin.Horizontal()-box.Padding.Horizontal()-box.Border.Horizontal())
		}
	}
	return max(0, cbWidth-box.Margin.Horizontal()-box.Padding.Horizontal()-box.Border.Horizontal())
}

// sizingAllowance is the part of a declared width or height that is not
// content under box-sizing: border-box.
func (b *Box) sizingAllowance(horizontal bool) float64 {
	if b.Style.GetOr("box-sizing", "content-box") != "border-box" {
		return 0
	}
	if horizontal {
		return b.Padding.Horizontal() + b.Border.Horizontal()
	}
	return b.Padding.Vertical() + b.Border.Vertical()
}

// applyRelativeOffset shifts a relatively positioned box (and its subtree)
// by its left/top, or by -right/-bottom when those are the only ones set.
func (p *flowPass) applyRelativeOffset(box *Box, cbWidth, cbHeight float64) {
	if box.Position != css.PositionRelative {
		return
	}
	off := box.Style.GetPositionOffset(cbWidth, cbHeight)
	var dx, dy float64
	switch {
	case off.HasLeft:
		dx = off.Left
	case off.HasRight:
		dx = -off.Right
	}
	switch {
	case off.HasTop:
		dy = off.Top
	case off.HasBottom:
		dy = -off.Bottom
	}
	shift(box, dx, dy)
}

// shift moves box and its subtree.
func shift(box *Box, dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	box.X += dx
	box.Y += dy
	for _, child := range box.Children {
		shift(child, dx, dy)
	}
}

func (b *Box) isOutOfFlow() bool {
	return b.Position == css.PositionAbsolute || b.Position == css.PositionFixed
}

// scrollOffsets reads an element's scroll position from data-scroll-left
// and data-scroll-top attributes, falling back to the --scroll-left and
// --scroll-top custom properties. Negative values clamp to zero.
func scrollOffsets(node *html.Node, style *css.Style) (x, y float64) {
	read := func(attr, prop string) float64 {
		if v, ok := node.GetAttribute(attr); ok {
			n, _ := css.ParseLength(v)
			return clampScroll(n)
		}
		n, _ := style.GetLength(prop)
		return clampScroll(n)
	}
	return read("data-scroll-left", "--scroll-left"), read("data-scroll-top", "--scroll-top")
}

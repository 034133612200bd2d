package layout

// applyAbsolutePositioning places an absolutely positioned or fixed box
// following CSS 2.1 §10.3.7 (horizontal) and §10.6.4 (vertical). A box
// with neither offset on an axis keeps its static position on that axis.
// The box's subtree moves with it.
func (le *LayoutEngine) applyAbsolutePositioning(box *Box) {
	cb := le.containingRect(box)
	offset := box.Style.GetPositionOffset(cb.Width, cb.Height)

	marginAuto := func(side string) bool {
		v, ok := box.Style.Get("margin-" + side)
		return ok && v == "auto"
	}
	x, y := box.X, box.Y

	// When left, right and width are all non-auto and both margins are
	// auto, the margins split the free space.
	if offset.HasLeft && offset.HasRight && marginAuto("left") && marginAuto("right") {
		free := cb.Width - offset.Left - offset.Right - box.BorderWidth()
		if free < 0 {
			free = 0
		}
		box.Margin.Left, box.Margin.Right = free/2, free/2
		x = cb.X + offset.Left + box.Margin.Left
	} else if offset.HasLeft {
		x = cb.X + offset.Left + box.Margin.Left
	} else if offset.HasRight {
		x = cb.X + cb.Width - offset.Right - box.Margin.Right - box.BorderWidth()
	}

	if offset.HasTop && offset.HasBottom && marginAuto("top") && marginAuto("bottom") {
		free := cb.Height - offset.Top - offset.Bottom - box.BorderHeight()
		if free < 0 {
			free = 0
		}
		box.Margin.Top, box.Margin.Bottom = free/2, free/2
		y = cb.Y + offset.Top + box.Margin.Top
	} else if offset.HasTop {
		y = cb.Y + offset.Top + box.Margin.Top
	} else if offset.HasBottom {
		y = cb.Y + cb.Height - offset.Bottom - box.Margin.Bottom - box.BorderHeight()
	}

	shift(box, x-box.X, y-box.Y)
}

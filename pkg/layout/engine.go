package layout

func NewLayoutEngine(viewportWidth, viewportHeight float64) *LayoutEngine {
	le := &LayoutEngine{}
	le.viewport.width = viewportWidth
	le.viewport.height = viewportHeight
	return le
}

// SetScroll sets the viewport scroll offset. Fixed elements are positioned
// relative to the scrolled viewport and the root element reports the
// offset as its own scroll position.
func (le *LayoutEngine) SetScroll(scrollX, scrollY float64) {
	le.scrollX = clampScroll(scrollX)
	le.scrollY = clampScroll(scrollY)
}

// Viewport returns the viewport size.
func (le *LayoutEngine) Viewport() (width, height float64) {
	return le.viewport.width, le.viewport.height
}

func clampScroll(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

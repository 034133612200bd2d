package layout

// collapseMargins returns the collapsed margin value for two adjoining vertical margins.
// Per CSS 2.1: both positive => max, both negative => most negative, mixed => sum.
func collapseMargins(margin1, margin2 float64) float64 {
	if margin1 >= 0 && margin2 >= 0 {
		return max(margin1, margin2)
	}
	if margin1 < 0 && margin2 < 0 {
		return min(margin1, margin2)
	}
	// Mixed: one positive, one negative
	return margin1 + margin2
}
